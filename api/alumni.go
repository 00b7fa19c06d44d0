package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

type AlumniHandler struct {
	alumniRepo repository.AlumniRepo
}

func NewAlumniHandler(ar repository.AlumniRepo) *AlumniHandler {
	return &AlumniHandler{alumniRepo: ar}
}

type alumniRequest struct {
	GraduationYear        int      `json:"graduation_year"`
	CurrentCompany        string   `json:"current_company"`
	CurrentPosition       string   `json:"current_position"`
	CurrentPackage        *float64 `json:"current_package,omitempty"`
	YearsOfExperience     int      `json:"years_of_experience"`
	LinkedinURL           *string  `json:"linkedin_url,omitempty"`
	GithubURL             *string  `json:"github_url,omitempty"`
	PortfolioURL          *string  `json:"portfolio_url,omitempty"`
	WillingToMentor       bool     `json:"willing_to_mentor"`
	MentorshipAreas       *string  `json:"mentorship_areas,omitempty"`
	AvailableForReferrals bool     `json:"available_for_referrals"`
	Bio                   *string  `json:"bio,omitempty"`
	Achievements          *string  `json:"achievements,omitempty"`
}

// Register creates the signed-in student's alumni entry. One entry per
// student; a repeat registration conflicts.
func (h *AlumniHandler) Register(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req alumniRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.GraduationYear <= 0 || req.CurrentCompany == "" || req.CurrentPosition == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	id, err := h.alumniRepo.CreateAlumni(r.Context(), &models.Alumni{
		StudentID:             studentID,
		GraduationYear:        req.GraduationYear,
		CurrentCompany:        req.CurrentCompany,
		CurrentPosition:       req.CurrentPosition,
		CurrentPackage:        req.CurrentPackage,
		YearsOfExperience:     req.YearsOfExperience,
		LinkedinURL:           req.LinkedinURL,
		GithubURL:             req.GithubURL,
		PortfolioURL:          req.PortfolioURL,
		WillingToMentor:       req.WillingToMentor,
		MentorshipAreas:       req.MentorshipAreas,
		AvailableForReferrals: req.AvailableForReferrals,
		Bio:                   req.Bio,
		Achievements:          req.Achievements,
	})
	if err != nil {
		if errorsIsConstraint(err) {
			http.Error(w, "alumni entry already exists", http.StatusConflict)
			return
		}
		http.Error(w, "failed to register alumni", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]int64{"id": id}, http.StatusCreated)
}

// Directory lists verified alumni, optionally narrowed by mentors/referrals/
// year/company filters.
func (h *AlumniHandler) Directory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		rows []models.Alumni
		err  error
	)
	ctx := r.Context()
	switch {
	case q.Get("mentors") == "true":
		rows, err = h.alumniRepo.ListMentors(ctx)
	case q.Get("referrals") == "true":
		rows, err = h.alumniRepo.ListReferralAvailable(ctx)
	case q.Get("year") != "":
		year, convErr := strconv.Atoi(q.Get("year"))
		if convErr != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		rows, err = h.alumniRepo.ListAlumniByYear(ctx, year)
	case strings.TrimSpace(q.Get("company")) != "":
		rows, err = h.alumniRepo.SearchAlumniByCompany(ctx, strings.TrimSpace(q.Get("company")))
	default:
		rows, err = h.alumniRepo.ListVerifiedAlumni(ctx)
	}
	if err != nil {
		http.Error(w, "failed to list alumni", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.Alumni{}
	}
	writeJSON(w, rows, http.StatusOK)
}

// Mine returns the student's own alumni entry.
func (h *AlumniHandler) Mine(w http.ResponseWriter, r *http.Request) {
	studentID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	row, err := h.alumniRepo.GetAlumniByStudentID(r.Context(), studentID)
	if err != nil {
		http.Error(w, "failed to load alumni entry", http.StatusInternalServerError)
		return
	}
	if row == nil {
		http.Error(w, "alumni entry not found", http.StatusNotFound)
		return
	}
	writeJSON(w, row, http.StatusOK)
}

type verifyAlumniRequest struct {
	Verified bool `json:"verified"`
}

// Verify toggles the verified flag on an alumni entry. TPO only.
func (h *AlumniHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req verifyAlumniRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.alumniRepo.SetAlumniVerified(r.Context(), id, req.Verified); err != nil {
		http.Error(w, "failed to verify alumni", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "recorded"}, http.StatusOK)
}
