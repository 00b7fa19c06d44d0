package api

import (
	"net/http"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

type NotificationsHandler struct {
	notificationRepo repository.NotificationRepo
}

func NewNotificationsHandler(nr repository.NotificationRepo) *NotificationsHandler {
	return &NotificationsHandler{notificationRepo: nr}
}

func (h *NotificationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, err := h.notificationRepo.ListNotificationsByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Notification{}
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.notificationRepo.CountUnreadByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "failed to count notifications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int64{"unread": count}, http.StatusOK)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.notificationRepo.MarkNotificationRead(r.Context(), id, nowMillis()); err != nil {
		http.Error(w, "failed to mark notification", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "read"}, http.StatusOK)
}

func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.notificationRepo.MarkAllRead(r.Context(), userID, nowMillis()); err != nil {
		http.Error(w, "failed to mark notifications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "all read"}, http.StatusOK)
}

func (h *NotificationsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.notificationRepo.DeleteNotificationsByUser(r.Context(), userID); err != nil {
		http.Error(w, "failed to clear notifications", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
