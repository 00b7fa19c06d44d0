package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

// Generator writes one CSV file per report request into the reports
// directory, named <type>_<timestamp>.csv. Reports are built from one-shot
// snapshot reads; a report is a point-in-time artifact, never live.
type Generator struct {
	dir       string
	stats     repository.StatsRepo
	users     repository.UserRepo
	companies repository.CompanyRepo
	apps      repository.ApplicationRepo
	logger    *slog.Logger

	clock func() time.Time
}

func NewGenerator(dir string, stats repository.StatsRepo, users repository.UserRepo, companies repository.CompanyRepo, apps repository.ApplicationRepo, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		dir:       dir,
		stats:     stats,
		users:     users,
		companies: companies,
		apps:      apps,
		logger:    logger,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// PlacementSummary writes the aggregate placement counters.
func (g *Generator) PlacementSummary(ctx context.Context) (string, error) {
	stats, err := g.stats.GetPlacementStats(ctx)
	if err != nil {
		return "", fmt.Errorf("load stats: %w", err)
	}

	rows := [][]string{
		{"metric", "value"},
		{"active_companies", strconv.FormatInt(stats.ActiveCompanies, 10)},
		{"total_applications", strconv.FormatInt(stats.TotalApplications, 10)},
		{"total_selected", strconv.FormatInt(stats.TotalSelected, 10)},
		{"average_package", strconv.FormatFloat(stats.AveragePackage, 'f', 2, 64)},
		{"highest_package", strconv.FormatFloat(stats.HighestPackage, 'f', 2, 64)},
	}
	return g.write("placement_summary", rows)
}

// BranchWise writes per-branch student, application, and selection counts.
func (g *Generator) BranchWise(ctx context.Context) (string, error) {
	students, err := g.users.ListUsersByRole(ctx, models.RoleStudent)
	if err != nil {
		return "", fmt.Errorf("list students: %w", err)
	}

	type branchAgg struct {
		students int
		applied  int64
		selected int64
	}
	byBranch := map[string]*branchAgg{}
	for _, s := range students {
		branch := "unknown"
		if s.Branch != nil {
			branch = *s.Branch
		}
		agg := byBranch[branch]
		if agg == nil {
			agg = &branchAgg{}
			byBranch[branch] = agg
		}
		agg.students++

		applied, err := g.apps.CountApplicationsByStudent(ctx, s.ID)
		if err != nil {
			return "", fmt.Errorf("count applications: %w", err)
		}
		selected, err := g.apps.CountSelectedByStudent(ctx, s.ID)
		if err != nil {
			return "", fmt.Errorf("count selections: %w", err)
		}
		agg.applied += applied
		agg.selected += selected
	}

	branches := make([]string, 0, len(byBranch))
	for b := range byBranch {
		branches = append(branches, b)
	}
	sort.Strings(branches)

	rows := [][]string{{"branch", "students", "applications", "selected"}}
	for _, b := range branches {
		agg := byBranch[b]
		rows = append(rows, []string{
			b,
			strconv.Itoa(agg.students),
			strconv.FormatInt(agg.applied, 10),
			strconv.FormatInt(agg.selected, 10),
		})
	}
	return g.write("branch_wise", rows)
}

// CompanyWise writes per-company position fill and application counts.
func (g *Generator) CompanyWise(ctx context.Context) (string, error) {
	companies, err := g.companies.ListCompanies(ctx)
	if err != nil {
		return "", fmt.Errorf("list companies: %w", err)
	}

	rows := [][]string{{"company", "job_role", "package", "total_positions", "filled_positions", "applications"}}
	for _, c := range companies {
		apps, err := g.apps.ListApplicationsByCompany(ctx, c.ID)
		if err != nil {
			return "", fmt.Errorf("list applications: %w", err)
		}
		rows = append(rows, []string{
			c.CompanyName,
			c.JobRole,
			strconv.FormatFloat(c.PackageAmount, 'f', 2, 64),
			strconv.Itoa(c.TotalPositions),
			strconv.Itoa(c.FilledPositions),
			strconv.Itoa(len(apps)),
		})
	}
	return g.write("company_wise", rows)
}

func (g *Generator) write(reportType string, rows [][]string) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d.csv", reportType, g.clock().UnixMilli())
	path := filepath.Join(g.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}

	g.logger.Info("report generated", "type", reportType, "path", path, "rows", len(rows)-1)
	return path, nil
}
