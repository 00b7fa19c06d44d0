package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/anandk/placement/internal/cache"
	"github.com/anandk/placement/internal/workflow"
	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

type CompaniesHandler struct {
	companyRepo repository.CompanyRepo
	engine      *workflow.Engine
	cached      *cache.Companies
}

func NewCompaniesHandler(cr repository.CompanyRepo, engine *workflow.Engine, cached *cache.Companies) *CompaniesHandler {
	return &CompaniesHandler{companyRepo: cr, engine: engine, cached: cached}
}

type postCompanyRequest struct {
	models.Company
}

// ListActive serves the active postings, from the freshness cache when one is
// wired.
func (h *CompaniesHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	var (
		rows []models.Company
		err  error
	)
	if h.cached != nil {
		rows, err = h.cached.Active(r.Context())
	} else {
		rows, err = h.companyRepo.ListActiveCompanies(r.Context())
	}
	if err != nil {
		http.Error(w, "failed to list companies", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Company{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// ListAll returns every posting, active or not. TPO view.
func (h *CompaniesHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	rows, err := h.companyRepo.ListCompanies(r.Context())
	if err != nil {
		http.Error(w, "failed to list companies", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Company{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// Eligible lists the postings the signed-in student can apply to right now.
func (h *CompaniesHandler) Eligible(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.engine.EligibleCompanies(r.Context(), studentID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if rows == nil {
		rows = []models.Company{}
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *CompaniesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}

	rows, err := h.companyRepo.SearchCompanies(r.Context(), q)
	if err != nil {
		http.Error(w, "failed to search companies", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Company{}
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *CompaniesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	company, err := h.companyRepo.GetCompanyByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load company", http.StatusInternalServerError)
		return
	}
	if company == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}
	writeJSON(w, company, http.StatusOK)
}

// Create publishes a posting and broadcasts it to eligible students.
func (h *CompaniesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req postCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.JobRole = strings.TrimSpace(req.JobRole)
	if req.CompanyName == "" || req.JobRole == "" || req.EligibleBranches == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}
	if req.MinimumCGPA < 0 || req.MinimumCGPA > 10 {
		http.Error(w, "minimum_cgpa must be between 0 and 10", http.StatusBadRequest)
		return
	}
	if req.TotalPositions <= 0 {
		http.Error(w, "total_positions must be positive", http.StatusBadRequest)
		return
	}
	if req.ApplicationDeadline == "" {
		http.Error(w, "application_deadline is required", http.StatusBadRequest)
		return
	}

	if posterID, ok := userIDFrom(r); ok {
		req.PostedBy = posterID
	}
	req.IsActive = true
	req.FilledPositions = 0

	id, err := h.engine.PostCompany(r.Context(), &req.Company)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	h.invalidate()

	writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

func (h *CompaniesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	existing, err := h.companyRepo.GetCompanyByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load company", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "company not found", http.StatusNotFound)
		return
	}

	var req postCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.ID = id
	// fill metadata the client does not own
	req.PostedBy = existing.PostedBy
	req.Posted = existing.Posted
	req.FilledPositions = existing.FilledPositions

	if err := h.companyRepo.UpdateCompany(r.Context(), &req.Company); err != nil {
		http.Error(w, "failed to update company", http.StatusInternalServerError)
		return
	}
	h.invalidate()

	writeJSON(w, map[string]string{"message": "updated"}, http.StatusOK)
}

func (h *CompaniesHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.companyRepo.SetCompanyActive(r.Context(), id, false); err != nil {
		http.Error(w, "failed to deactivate company", http.StatusInternalServerError)
		return
	}
	h.invalidate()

	writeJSON(w, map[string]string{"message": "deactivated"}, http.StatusOK)
}

func (h *CompaniesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.companyRepo.DeleteCompany(r.Context(), id); err != nil {
		http.Error(w, "failed to delete company", http.StatusInternalServerError)
		return
	}
	h.invalidate()

	w.WriteHeader(http.StatusNoContent)
}

func (h *CompaniesHandler) invalidate() {
	if h.cached != nil {
		h.cached.Invalidate()
	}
}

// pathID parses a numeric path variable.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
