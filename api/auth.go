package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/anandk/placement/internal/session"
	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

type AuthHandler struct {
	userRepo      repository.UserRepo
	sessions      *session.Manager
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, sessions *session.Manager, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, sessions: sessions, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type signupRequest struct {
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Password   string   `json:"password"`
	Role       string   `json:"role"`
	CollegeID  *string  `json:"college_id,omitempty"`
	RollNumber *string  `json:"roll_number,omitempty"`
	Branch     *string  `json:"branch,omitempty"`
	CGPA       *float64 `json:"cgpa,omitempty"`
}

type signinRequest struct {
	// Identifier accepts email, phone, or college id.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.FullName == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if role == models.RoleStudent {
		if req.Branch == nil || *req.Branch == "" {
			http.Error(w, "Branch required for students", http.StatusBadRequest)
			return
		}
		if req.CGPA == nil || *req.CGPA < 0 || *req.CGPA > 10 {
			http.Error(w, "CGPA must be between 0 and 10", http.StatusBadRequest)
			return
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         role,
		CollegeID:    req.CollegeID,
		RollNumber:   req.RollNumber,
		Branch:       req.Branch,
		CGPA:         req.CGPA,
		IsActive:     true,
	}

	id, err := h.userRepo.CreateUser(ctx, &user)
	if err != nil {
		if errorsIsConstraint(err) {
			http.Error(w, "Email, phone, or college id already registered", http.StatusConflict)
			return
		}
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}
	user.ID = id

	tokenStr, err := h.issueToken(&user)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, User: user}, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetUserByIdentifier(ctx, req.Identifier)
	if err != nil || user == nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}
	if !user.IsActive {
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	if err := h.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Error("stamp last login", "user_id", user.ID, "err", err)
	}

	if h.sessions != nil {
		if _, err := h.sessions.Create(user, req.RememberMe); err != nil {
			logger.Error("persist session", "user_id", user.ID, "err", err)
		}
	}

	tokenStr, err := h.issueToken(user)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, authResponse{Token: tokenStr, User: *user}, http.StatusOK)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	if h.sessions != nil {
		if err := h.sessions.Clear(); err != nil {
			logger.Error("clear session", "err", err)
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}

// Me returns the authenticated user's record.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userRepo.GetUserByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	writeJSON(w, user, http.StatusOK)
}

func errorsIsConstraint(err error) bool {
	return errors.Is(err, repository.ErrConstraint)
}

func (h *AuthHandler) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(h.tokenDuration).Unix(),
	})
	return token.SignedString([]byte(h.jwtSecret))
}
