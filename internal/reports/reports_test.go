package reports

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository/mock"
)

func newTestGenerator(t *testing.T) (*Generator, *mock.Mocks, string) {
	t.Helper()
	dir := t.TempDir()
	m := mock.NewMocks()
	g := NewGenerator(dir, m.Stats, m.Users, m.Companies, m.Applications, nil)
	g.clock = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	return g, m, dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse report: %v", err)
	}
	return rows
}

func TestPlacementSummary(t *testing.T) {
	g, m, dir := newTestGenerator(t)
	m.Stats.Value = models.PlacementStats{
		ActiveCompanies: 3, TotalApplications: 10, TotalSelected: 4,
		AveragePackage: 11.5, HighestPackage: 30,
	}

	path, err := g.PlacementSummary(context.Background())
	if err != nil {
		t.Fatalf("PlacementSummary error: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "placement_summary_") || !strings.HasSuffix(base, ".csv") {
		t.Fatalf("unexpected file name %q", base)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("report written outside the reports dir: %s", path)
	}

	rows := readCSV(t, path)
	if len(rows) != 6 {
		t.Fatalf("expected 6 rows got %d", len(rows))
	}
	if rows[1][0] != "active_companies" || rows[1][1] != "3" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
	if rows[4][1] != "11.50" {
		t.Fatalf("unexpected average: %v", rows[4])
	}
}

func TestBranchWise(t *testing.T) {
	ctx := context.Background()
	g, m, _ := newTestGenerator(t)

	cs := "Computer Science"
	it := "IT"
	cgpa := 8.0
	for i, branch := range []*string{&cs, &cs, &it} {
		email := string(rune('a'+i)) + "@college.edu"
		id, err := m.Users.CreateUser(ctx, &models.User{
			Email: email, Phone: email, FullName: "S", Role: models.RoleStudent,
			Branch: branch, CGPA: &cgpa, IsActive: true,
		})
		if err != nil {
			t.Fatalf("seed student: %v", err)
		}
		if i == 0 {
			appID, err := m.Applications.CreateApplication(ctx, &models.Application{
				StudentID: id, CompanyID: 1, Status: models.StatusPending,
			})
			if err != nil {
				t.Fatalf("seed application: %v", err)
			}
			if err := m.Applications.UpdateApplicationStatus(ctx, appID, models.StatusSelected, 1); err != nil {
				t.Fatalf("select: %v", err)
			}
		}
	}

	path, err := g.BranchWise(ctx)
	if err != nil {
		t.Fatalf("BranchWise error: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 branches, got %d rows", len(rows))
	}
	// branches are sorted
	if rows[1][0] != "Computer Science" || rows[2][0] != "IT" {
		t.Fatalf("unexpected branch order: %v %v", rows[1], rows[2])
	}
	if rows[1][1] != "2" || rows[1][2] != "1" || rows[1][3] != "1" {
		t.Fatalf("unexpected cs aggregates: %v", rows[1])
	}
	if rows[2][1] != "1" || rows[2][2] != "0" {
		t.Fatalf("unexpected it aggregates: %v", rows[2])
	}
}

func TestCompanyWise(t *testing.T) {
	ctx := context.Background()
	g, m, _ := newTestGenerator(t)

	cid, err := m.Companies.CreateCompany(ctx, &models.Company{
		CompanyName: "Acme", JobRole: "SDE", PackageAmount: 12,
		TotalPositions: 5, IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed company: %v", err)
	}
	if _, err := m.Applications.CreateApplication(ctx, &models.Application{
		StudentID: 1, CompanyID: cid, Status: models.StatusPending,
	}); err != nil {
		t.Fatalf("seed application: %v", err)
	}

	path, err := g.CompanyWise(ctx)
	if err != nil {
		t.Fatalf("CompanyWise error: %v", err)
	}

	rows := readCSV(t, path)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 company, got %d rows", len(rows))
	}
	if rows[1][0] != "Acme" || rows[1][5] != "1" {
		t.Fatalf("unexpected company row: %v", rows[1])
	}
}
