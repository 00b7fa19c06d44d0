package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

type DocumentsHandler struct {
	resumeRepo   repository.ResumeRepo
	documentRepo repository.DocumentRepo
}

func NewDocumentsHandler(rr repository.ResumeRepo, dr repository.DocumentRepo) *DocumentsHandler {
	return &DocumentsHandler{resumeRepo: rr, documentRepo: dr}
}

type uploadResumeRequest struct {
	FileName  string `json:"file_name"`
	FilePath  string `json:"file_path"`
	FileSize  int64  `json:"file_size"`
	MimeType  string `json:"mime_type"`
	IsPrimary bool   `json:"is_primary"`
}

func (h *DocumentsHandler) UploadResume(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req uploadResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.FileName == "" || req.FilePath == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	id, err := h.resumeRepo.CreateResume(r.Context(), &models.Resume{
		StudentID: studentID,
		FileName:  req.FileName,
		FilePath:  req.FilePath,
		FileSize:  req.FileSize,
		MimeType:  req.MimeType,
		IsPrimary: req.IsPrimary,
	})
	if err != nil {
		http.Error(w, "failed to store resume", http.StatusInternalServerError)
		return
	}
	if req.IsPrimary {
		if err := h.resumeRepo.SetPrimaryResume(r.Context(), studentID, id); err != nil {
			logger.Error("set primary resume", "err", err)
		}
	}

	writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

func (h *DocumentsHandler) MyResumes(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.resumeRepo.ListResumesByStudent(r.Context(), studentID)
	if err != nil {
		http.Error(w, "failed to list resumes", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Resume{}
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *DocumentsHandler) SetPrimaryResume(w http.ResponseWriter, r *http.Request) {
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

	if err := h.resumeRepo.SetPrimaryResume(r.Context(), studentID, id); err != nil {
		http.Error(w, "failed to set primary resume", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "primary set"}, http.StatusOK)
}

func (h *DocumentsHandler) DeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.resumeRepo.DeleteResume(r.Context(), id); err != nil {
		http.Error(w, "failed to delete resume", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadDocumentRequest struct {
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
}

func (h *DocumentsHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req uploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.DocumentType == "" || req.FileName == "" || req.FilePath == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	id, err := h.documentRepo.CreateDocument(r.Context(), &models.Document{
		StudentID:          studentID,
		DocumentType:       req.DocumentType,
		FileName:           req.FileName,
		FilePath:           req.FilePath,
		VerificationStatus: models.VerificationPending,
		IsActive:           true,
	})
	if err != nil {
		http.Error(w, "failed to store document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

func (h *DocumentsHandler) MyDocuments(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.documentRepo.ListDocumentsByStudent(r.Context(), studentID)
	if err != nil {
		http.Error(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Document{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// PendingDocuments lists documents still awaiting review.
func (h *DocumentsHandler) PendingDocuments(w http.ResponseWriter, r *http.Request) {
	rows, err := h.documentRepo.ListPendingDocuments(r.Context())
	if err != nil {
		http.Error(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Document{}
	}
	writeJSON(w, rows, http.StatusOK)
}

type verifyDocumentRequest struct {
	Status string  `json:"status"`
	Reason *string `json:"reason,omitempty"`
}

// VerifyDocument records the reviewer's verdict; rejection carries a reason.
func (h *DocumentsHandler) VerifyDocument(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req verifyDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	status, err := models.ParseVerificationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err != nil || status == models.VerificationPending {
		http.Error(w, "status must be verified or rejected", http.StatusBadRequest)
		return
	}
	if status == models.VerificationRejected && (req.Reason == nil || *req.Reason == "") {
		http.Error(w, "rejection requires a reason", http.StatusBadRequest)
		return
	}

	if err := h.documentRepo.SetVerification(r.Context(), id, status, reviewerID, req.Reason, nowMillis()); err != nil {
		http.Error(w, "failed to verify document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "recorded"}, http.StatusOK)
}
