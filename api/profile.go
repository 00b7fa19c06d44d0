package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/anandk/placement/internal/profile"
	"github.com/anandk/placement/pkg/repository"
)

type ProfileHandler struct {
	userRepo  repository.UserRepo
	validator *profile.Validator
}

func NewProfileHandler(ur repository.UserRepo, v *profile.Validator) *ProfileHandler {
	return &ProfileHandler{userRepo: ur, validator: v}
}

// Update validates the profile payload against the stored schema and applies
// it to the signed-in user.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	user, err := h.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	if err := h.validator.Apply(ctx, user, raw); err != nil {
		var ve *profile.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, map[string]any{"error": "profile payload invalid", "violations": ve.Violations}, http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "invalid profile payload", http.StatusBadRequest)
		return
	}

	if err := h.userRepo.UpdateUser(ctx, user); err != nil {
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, user, http.StatusOK)
}
