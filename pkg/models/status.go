package models

import "fmt"

// Role identifies what a signed-in user may do. Stored as TEXT but closed at
// the type level so a typo'd literal cannot silently fail a comparison.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleHOD     Role = "HOD"
	RoleTPO     Role = "TPO"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleHOD, RoleTPO:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// ApplicationStatus is the workflow state of an application. PENDING →
// SHORTLISTED → SELECTED is the happy path; REJECTED and WITHDRAWN are the
// other terminal states.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "PENDING"
	StatusShortlisted ApplicationStatus = "SHORTLISTED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusSelected    ApplicationStatus = "SELECTED"
	StatusWithdrawn   ApplicationStatus = "WITHDRAWN"
)

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch ApplicationStatus(s) {
	case StatusPending, StatusShortlisted, StatusRejected, StatusSelected, StatusWithdrawn:
		return ApplicationStatus(s), nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Terminal reports whether no further status changes are expected.
func (s ApplicationStatus) Terminal() bool {
	switch s {
	case StatusSelected, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

type InterviewStatus string

const (
	InterviewScheduled   InterviewStatus = "SCHEDULED"
	InterviewCompleted   InterviewStatus = "COMPLETED"
	InterviewCancelled   InterviewStatus = "CANCELLED"
	InterviewRescheduled InterviewStatus = "RESCHEDULED"
	InterviewNoShow      InterviewStatus = "NO_SHOW"
)

func ParseInterviewStatus(s string) (InterviewStatus, error) {
	switch InterviewStatus(s) {
	case InterviewScheduled, InterviewCompleted, InterviewCancelled, InterviewRescheduled, InterviewNoShow:
		return InterviewStatus(s), nil
	}
	return "", fmt.Errorf("unknown interview status %q", s)
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

func ParseVerificationStatus(s string) (VerificationStatus, error) {
	switch VerificationStatus(s) {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return VerificationStatus(s), nil
	}
	return "", fmt.Errorf("unknown verification status %q", s)
}
