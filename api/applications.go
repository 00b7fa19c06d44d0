package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anandk/placement/internal/workflow"
	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

type ApplicationsHandler struct {
	engine   *workflow.Engine
	appRepo  repository.ApplicationRepo
	userRepo repository.UserRepo
}

func NewApplicationsHandler(engine *workflow.Engine, ar repository.ApplicationRepo, ur repository.UserRepo) *ApplicationsHandler {
	return &ApplicationsHandler{engine: engine, appRepo: ar, userRepo: ur}
}

type applyRequest struct {
	CompanyID int64 `json:"company_id"`
}

type approvalRequest struct {
	Approved bool `json:"approved"`
}

type statusRequest struct {
	Status string `json:"status"`
}

// Apply submits the signed-in student's application.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.CompanyID <= 0 {
		http.Error(w, "company_id is required", http.StatusBadRequest)
		return
	}

	id, err := h.engine.SubmitApplication(r.Context(), studentID, req.CompanyID)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}

	writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

// Mine lists the student's applications joined with their companies.
func (h *ApplicationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.appRepo.ListWithCompanyByStudent(r.Context(), studentID)
	if err != nil {
		http.Error(w, "failed to list applications", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.ApplicationWithCompany{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// Withdraw marks the student's own application withdrawn.
func (h *ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.engine.WithdrawApplication(r.Context(), studentID, id); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "withdrawn"}, http.StatusOK)
}

// PendingHOD lists applications awaiting HOD review, limited to the HOD's
// own branch.
func (h *ApplicationsHandler) PendingHOD(w http.ResponseWriter, r *http.Request) {
	hodID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	hod, err := h.userRepo.GetUserByID(r.Context(), hodID)
	if err != nil || hod == nil {
		http.Error(w, "failed to load reviewer", http.StatusInternalServerError)
		return
	}
	if hod.Branch == nil || *hod.Branch == "" {
		http.Error(w, "reviewer has no branch", http.StatusUnprocessableEntity)
		return
	}

	rows, err := h.appRepo.ListPendingHODByBranch(r.Context(), *hod.Branch)
	if err != nil {
		http.Error(w, "failed to list applications", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.ApplicationWithCompany{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// HODApproval records the HOD decision on an application. The HOD may only
// review students of their own branch.
func (h *ApplicationsHandler) HODApproval(w http.ResponseWriter, r *http.Request) {
	hodID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ok, err = h.sameBranch(r, hodID, id)
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	if !ok {
		http.Error(w, "application outside reviewer branch", http.StatusForbidden)
		return
	}

	if err := h.engine.SetHODApproval(r.Context(), id, req.Approved); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "recorded"}, http.StatusOK)
}

// TPOApproval records the TPO decision on an application.
func (h *ApplicationsHandler) TPOApproval(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req approvalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.engine.SetTPOApproval(r.Context(), id, req.Approved); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "recorded"}, http.StatusOK)
}

// UpdateStatus moves an application through the workflow.
func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	status, err := models.ParseApplicationStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := h.engine.UpdateStatus(r.Context(), id, status); err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "updated"}, http.StatusOK)
}

// ByCompany lists applications for one posting. TPO view.
func (h *ApplicationsHandler) ByCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rows, err := h.appRepo.ListApplicationsByCompany(r.Context(), companyID)
	if err != nil {
		http.Error(w, "failed to list applications", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Application{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// sameBranch reports whether the application's student shares the reviewer's
// branch.
func (h *ApplicationsHandler) sameBranch(r *http.Request, reviewerID, applicationID int64) (bool, error) {
	app, err := h.appRepo.GetApplicationByID(r.Context(), applicationID)
	if err != nil {
		return false, err
	}
	if app == nil {
		return false, workflow.ErrNotFound
	}

	reviewer, err := h.userRepo.GetUserByID(r.Context(), reviewerID)
	if err != nil || reviewer == nil || reviewer.Branch == nil {
		return false, err
	}
	student, err := h.userRepo.GetUserByID(r.Context(), app.StudentID)
	if err != nil || student == nil || student.Branch == nil {
		return false, err
	}
	return strings.EqualFold(*reviewer.Branch, *student.Branch), nil
}
