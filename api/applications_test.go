package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/anandk/placement/api"
	"github.com/anandk/placement/internal/workflow"
	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository/mock"
)

type noopNotifier struct{}

func (noopNotifier) Push(userID int64, title, message, notificationType string, relatedID, tag int64) {
}

type appFixture struct {
	mocks   *mock.Mocks
	engine  *workflow.Engine
	handler *api.ApplicationsHandler
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	m := mock.NewMocks()
	m.Applications.Companies = m.Companies
	engine := workflow.New(m.Users, m.Companies, m.Applications, m.Interviews, noopNotifier{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return &appFixture{
		mocks:   m,
		engine:  engine,
		handler: api.NewApplicationsHandler(engine, m.Applications, m.Users),
	}
}

func (f *appFixture) seedStudent(t *testing.T, email, branch string, cgpa float64) int64 {
	t.Helper()
	u := &models.User{
		Email:        email,
		PasswordHash: "x",
		FullName:     "Student",
		Phone:        email,
		Role:         models.RoleStudent,
		Branch:       &branch,
		CGPA:         &cgpa,
		IsActive:     true,
	}
	id, err := f.mocks.Users.CreateUser(context.Background(), u)
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return id
}

func (f *appFixture) seedCompany(t *testing.T, total int) int64 {
	t.Helper()
	c := &models.Company{
		CompanyName:         "Acme Corp",
		JobRole:             "Software Engineer",
		PackageAmount:       12.0,
		EligibleBranches:    "Computer Science, IT",
		MinimumCGPA:         7.0,
		ApplicationDeadline: "2099-12-31",
		IsActive:            true,
		TotalPositions:      total,
		PostedBy:            99,
	}
	id, err := f.mocks.Companies.CreateCompany(context.Background(), c)
	if err != nil {
		t.Fatalf("seed company: %v", err)
	}
	return id
}

// request builds an authenticated request with path vars resolved the way the
// router would.
func (f *appFixture) request(method, target string, body any, userID int64, role models.Role, vars map[string]string) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	ctx := context.WithValue(req.Context(), api.CtxUserID, userID)
	ctx = context.WithValue(ctx, api.CtxRole, role)
	req = req.WithContext(ctx)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func TestApplyHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newAppFixture(t)
		studentID := f.seedStudent(t, "ok@example.com", "Computer Science", 8.0)
		companyID := f.seedCompany(t, 2)

		w := httptest.NewRecorder()
		f.handler.Apply(w, f.request(http.MethodPost, "/applications", map[string]int64{"company_id": companyID}, studentID, models.RoleStudent, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
		}
		var resp map[string]int64
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if resp["id"] == 0 {
			t.Fatalf("expected application id, got %v", resp)
		}
	})

	t.Run("MissingCompanyID", func(t *testing.T) {
		f := newAppFixture(t)
		studentID := f.seedStudent(t, "ok@example.com", "Computer Science", 8.0)

		w := httptest.NewRecorder()
		f.handler.Apply(w, f.request(http.MethodPost, "/applications", map[string]int64{}, studentID, models.RoleStudent, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", w.Code)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		f := newAppFixture(t)
		studentID := f.seedStudent(t, "dup@example.com", "Computer Science", 8.0)
		companyID := f.seedCompany(t, 2)

		body := map[string]int64{"company_id": companyID}
		w := httptest.NewRecorder()
		f.handler.Apply(w, f.request(http.MethodPost, "/applications", body, studentID, models.RoleStudent, nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("first apply: expected 201 got %d", w.Code)
		}

		w = httptest.NewRecorder()
		f.handler.Apply(w, f.request(http.MethodPost, "/applications", body, studentID, models.RoleStudent, nil))
		if w.Code != http.StatusConflict {
			t.Fatalf("second apply: expected 409 got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("CGPABelowCutoff", func(t *testing.T) {
		f := newAppFixture(t)
		studentID := f.seedStudent(t, "low@example.com", "Computer Science", 6.5)
		companyID := f.seedCompany(t, 2)

		w := httptest.NewRecorder()
		f.handler.Apply(w, f.request(http.MethodPost, "/applications", map[string]int64{"company_id": companyID}, studentID, models.RoleStudent, nil))
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("UnknownCompany", func(t *testing.T) {
		f := newAppFixture(t)
		studentID := f.seedStudent(t, "ok@example.com", "Computer Science", 8.0)

		w := httptest.NewRecorder()
		f.handler.Apply(w, f.request(http.MethodPost, "/applications", map[string]int64{"company_id": 999}, studentID, models.RoleStudent, nil))
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404 got %d", w.Code)
		}
	})
}

func TestWithdrawHandler(t *testing.T) {
	f := newAppFixture(t)
	owner := f.seedStudent(t, "owner@example.com", "Computer Science", 8.0)
	other := f.seedStudent(t, "other@example.com", "Computer Science", 8.0)
	companyID := f.seedCompany(t, 2)

	appID, err := f.engine.SubmitApplication(context.Background(), owner, companyID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	vars := map[string]string{"id": "1"}

	w := httptest.NewRecorder()
	f.handler.Withdraw(w, f.request(http.MethodPost, "/applications/1/withdraw", nil, other, models.RoleStudent, vars))
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign withdraw: expected 403 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	f.handler.Withdraw(w, f.request(http.MethodPost, "/applications/1/withdraw", nil, owner, models.RoleStudent, vars))
	if w.Code != http.StatusOK {
		t.Fatalf("own withdraw: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	app, err := f.mocks.Applications.GetApplicationByID(context.Background(), appID)
	if err != nil || app == nil {
		t.Fatalf("load application: %v", err)
	}
	if app.Status != models.StatusWithdrawn {
		t.Fatalf("expected WITHDRAWN got %s", app.Status)
	}

	// Withdrawn applications cannot be withdrawn again
	w = httptest.NewRecorder()
	f.handler.Withdraw(w, f.request(http.MethodPost, "/applications/1/withdraw", nil, owner, models.RoleStudent, vars))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("double withdraw: expected 422 got %d", w.Code)
	}
}

func TestHODApprovalHandler(t *testing.T) {
	f := newAppFixture(t)
	student := f.seedStudent(t, "student@example.com", "Computer Science", 8.0)
	companyID := f.seedCompany(t, 2)

	if _, err := f.engine.SubmitApplication(context.Background(), student, companyID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	csBranch := "Computer Science"
	itBranch := "IT"
	hodCS := &models.User{Email: "hod-cs@example.com", PasswordHash: "x", FullName: "HOD CS", Phone: "1", Role: models.RoleHOD, Branch: &csBranch, IsActive: true}
	hodIT := &models.User{Email: "hod-it@example.com", PasswordHash: "x", FullName: "HOD IT", Phone: "2", Role: models.RoleHOD, Branch: &itBranch, IsActive: true}
	hodCSID, _ := f.mocks.Users.CreateUser(context.Background(), hodCS)
	hodITID, _ := f.mocks.Users.CreateUser(context.Background(), hodIT)

	vars := map[string]string{"id": "1"}
	body := map[string]bool{"approved": true}

	w := httptest.NewRecorder()
	f.handler.HODApproval(w, f.request(http.MethodPost, "/hod/applications/1/approval", body, hodITID, models.RoleHOD, vars))
	if w.Code != http.StatusForbidden {
		t.Fatalf("cross-branch approval: expected 403 got %d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	f.handler.HODApproval(w, f.request(http.MethodPost, "/hod/applications/1/approval", body, hodCSID, models.RoleHOD, vars))
	if w.Code != http.StatusOK {
		t.Fatalf("same-branch approval: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	app, err := f.mocks.Applications.GetApplicationByID(context.Background(), 1)
	if err != nil || app == nil {
		t.Fatalf("load application: %v", err)
	}
	if !app.HODApproved {
		t.Fatalf("expected hod_approved set")
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	f := newAppFixture(t)
	student := f.seedStudent(t, "student@example.com", "Computer Science", 8.0)
	companyID := f.seedCompany(t, 1)

	if _, err := f.engine.SubmitApplication(context.Background(), student, companyID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	vars := map[string]string{"id": "1"}

	w := httptest.NewRecorder()
	f.handler.UpdateStatus(w, f.request(http.MethodPost, "/tpo/applications/1/status", map[string]string{"status": "HIRED"}, 50, models.RoleTPO, vars))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: expected 400 got %d", w.Code)
	}

	w = httptest.NewRecorder()
	f.handler.UpdateStatus(w, f.request(http.MethodPost, "/tpo/applications/1/status", map[string]string{"status": "selected"}, 50, models.RoleTPO, vars))
	if w.Code != http.StatusOK {
		t.Fatalf("selected: expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	company, err := f.mocks.Companies.GetCompanyByID(context.Background(), companyID)
	if err != nil || company == nil {
		t.Fatalf("load company: %v", err)
	}
	if company.FilledPositions != 1 {
		t.Fatalf("expected 1 filled position got %d", company.FilledPositions)
	}

	// The only position is consumed; a second selection cannot land
	other := f.seedStudent(t, "other@example.com", "Computer Science", 8.0)
	_, err = f.engine.SubmitApplication(context.Background(), other, companyID)
	if err == nil {
		t.Fatalf("expected eligibility rejection once positions are filled")
	}
}

func TestMineHandler(t *testing.T) {
	f := newAppFixture(t)
	student := f.seedStudent(t, "student@example.com", "Computer Science", 8.0)
	companyID := f.seedCompany(t, 2)

	w := httptest.NewRecorder()
	f.handler.Mine(w, f.request(http.MethodGet, "/applications/mine", nil, student, models.RoleStudent, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if got := bytes.TrimSpace(w.Body.Bytes()); !bytes.Equal(got, []byte("[]")) {
		t.Fatalf("expected empty list, got %s", got)
	}

	if _, err := f.engine.SubmitApplication(context.Background(), student, companyID); err != nil {
		t.Fatalf("submit: %v", err)
	}

	w = httptest.NewRecorder()
	f.handler.Mine(w, f.request(http.MethodGet, "/applications/mine", nil, student, models.RoleStudent, nil))
	var rows []models.ApplicationWithCompany
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rows) != 1 || rows[0].Company.CompanyName != "Acme Corp" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}
