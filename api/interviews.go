package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anandk/placement/internal/workflow"
	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

type InterviewsHandler struct {
	engine        *workflow.Engine
	interviewRepo repository.InterviewRepo
}

func NewInterviewsHandler(engine *workflow.Engine, ir repository.InterviewRepo) *InterviewsHandler {
	return &InterviewsHandler{engine: engine, interviewRepo: ir}
}

type scheduleInterviewRequest struct {
	ApplicationID     int64  `json:"application_id"`
	InterviewDate     string `json:"interview_date"`
	InterviewTime     string `json:"interview_time"`
	InterviewMode     string `json:"interview_mode"`
	InterviewLocation string `json:"interview_location"`
	InterviewRound    int    `json:"interview_round"`
	RoundType         string `json:"round_type"`
	Notes             *string `json:"notes,omitempty"`
}

func (h *InterviewsHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ApplicationID <= 0 || req.InterviewDate == "" || req.InterviewTime == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}
	if req.InterviewRound <= 0 {
		req.InterviewRound = 1
	}

	id, err := h.engine.ScheduleInterview(r.Context(), &models.Interview{
		ApplicationID:     req.ApplicationID,
		InterviewDate:     req.InterviewDate,
		InterviewTime:     req.InterviewTime,
		InterviewMode:     req.InterviewMode,
		InterviewLocation: req.InterviewLocation,
		InterviewRound:    req.InterviewRound,
		RoundType:         req.RoundType,
		Notes:             req.Notes,
	})
	if err != nil {
		writeWorkflowError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

// Mine lists the signed-in student's interviews.
func (h *InterviewsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.interviewRepo.ListInterviewsByStudent(r.Context(), studentID)
	if err != nil {
		http.Error(w, "failed to list interviews", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Interview{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// ByApplication lists rounds scheduled for one application.
func (h *InterviewsHandler) ByApplication(w http.ResponseWriter, r *http.Request) {
	appID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	rows, err := h.interviewRepo.ListInterviewsByApplication(r.Context(), appID)
	if err != nil {
		http.Error(w, "failed to list interviews", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Interview{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// Calendar lists interviews in a date range (query params start, end as
// YYYY-MM-DD).
func (h *InterviewsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, end := q.Get("start"), q.Get("end")
	if start == "" || end == "" {
		http.Error(w, "start and end are required", http.StatusBadRequest)
		return
	}

	rows, err := h.interviewRepo.ListInterviewsInRange(r.Context(), start, end)
	if err != nil {
		http.Error(w, "failed to list interviews", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Interview{}
	}
	writeJSON(w, rows, http.StatusOK)
}

type interviewStatusRequest struct {
	Status   string  `json:"status"`
	Feedback *string `json:"feedback,omitempty"`
}

func (h *InterviewsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req interviewStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	status, err := models.ParseInterviewStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	iv, err := h.interviewRepo.GetInterviewByID(r.Context(), id)
	if err != nil {
		http.Error(w, "failed to load interview", http.StatusInternalServerError)
		return
	}
	if iv == nil {
		http.Error(w, "interview not found", http.StatusNotFound)
		return
	}

	if req.Feedback != nil {
		iv.Feedback = req.Feedback
		iv.Status = status
		if err := h.interviewRepo.UpdateInterview(r.Context(), iv); err != nil {
			http.Error(w, "failed to update interview", http.StatusInternalServerError)
			return
		}
	} else if err := h.interviewRepo.UpdateInterviewStatus(r.Context(), id, status, nowMillis()); err != nil {
		http.Error(w, "failed to update interview", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": "updated"}, http.StatusOK)
}

func (h *InterviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.interviewRepo.DeleteInterview(r.Context(), id); err != nil {
		http.Error(w, "failed to delete interview", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
