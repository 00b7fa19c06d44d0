package workflow

import (
	"strings"
	"time"

	"github.com/anandk/placement/pkg/models"
)

const deadlineLayout = "2006-01-02"

// CheckEligibility reports whether the student may apply to the company at
// the given instant. It returns nil when eligible, otherwise the first failed
// precondition as a sentinel error.
//
// The CGPA bound is inclusive: a student exactly at the minimum qualifies.
// Branch matching is a case-insensitive substring test against the company's
// eligible-branches text.
func CheckEligibility(student *models.User, company *models.Company, now time.Time) error {
	if !company.IsActive {
		return ErrCompanyInactive
	}
	if deadlinePassed(company.ApplicationDeadline, now) {
		return ErrDeadlinePassed
	}
	if company.FilledPositions >= company.TotalPositions {
		return ErrPositionsFull
	}
	if student.CGPA == nil || *student.CGPA < company.MinimumCGPA {
		return ErrNotEligible
	}
	if student.Branch == nil || !branchEligible(company.EligibleBranches, *student.Branch) {
		return ErrNotEligible
	}
	return nil
}

func branchEligible(eligibleBranches, branch string) bool {
	return strings.Contains(strings.ToLower(eligibleBranches), strings.ToLower(branch))
}

// deadlinePassed treats the deadline day itself as open: applications are
// accepted until the end of that date. An unparsable deadline never blocks.
func deadlinePassed(deadline string, now time.Time) bool {
	d, err := time.Parse(deadlineLayout, deadline)
	if err != nil {
		return false
	}
	return !now.Before(d.Add(24 * time.Hour))
}
