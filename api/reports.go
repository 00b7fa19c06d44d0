package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/anandk/placement/internal/reports"
	"github.com/anandk/placement/pkg/repository"
)

type ReportsHandler struct {
	generator *reports.Generator
	statsRepo repository.StatsRepo
}

func NewReportsHandler(g *reports.Generator, sr repository.StatsRepo) *ReportsHandler {
	return &ReportsHandler{generator: g, statsRepo: sr}
}

// Stats serves the live aggregate counters.
func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsRepo.GetPlacementStats(r.Context())
	if err != nil {
		http.Error(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats, http.StatusOK)
}

// Generate writes a report file and returns its path. The report type is the
// path variable: placement_summary, branch_wise, or company_wise.
func (h *ReportsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var (
		path string
		err  error
	)
	ctx := r.Context()
	switch mux.Vars(r)["type"] {
	case "placement_summary":
		path, err = h.generator.PlacementSummary(ctx)
	case "branch_wise":
		path, err = h.generator.BranchWise(ctx)
	case "company_wise":
		path, err = h.generator.CompanyWise(ctx)
	default:
		http.Error(w, "unknown report type", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "failed to generate report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"path": path}, http.StatusCreated)
}
