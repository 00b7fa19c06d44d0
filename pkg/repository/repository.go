package repository

import (
	"context"
	"errors"

	"github.com/anandk/placement/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
//
// Reads come in two shapes: one-shot methods return a point-in-time snapshot,
// and Watcher methods push a fresh snapshot whenever the underlying rows
// change. Workflow steps use one-shot reads only.

// Store error classes. Implementations map their driver errors onto these so
// callers can react without knowing the engine.
var (
	ErrConstraint = errors.New("unique constraint violated")
	ErrForeignKey = errors.New("referenced row does not exist")
)

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByIdentifier resolves email, phone, or college id; the three are
	// interchangeable login identifiers.
	GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetStudentByRollNumber(ctx context.Context, rollNumber string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	SetUserActive(ctx context.Context, userID int64, active bool) error
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	ListStudentsByBranch(ctx context.Context, branch string) ([]models.User, error)
}

type CompanyRepo interface {
	CreateCompany(ctx context.Context, c *models.Company) (int64, error)
	GetCompanyByID(ctx context.Context, id int64) (*models.Company, error)
	UpdateCompany(ctx context.Context, c *models.Company) error
	DeleteCompany(ctx context.Context, id int64) error
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListActiveCompanies(ctx context.Context) ([]models.Company, error)
	ListCompaniesByBranch(ctx context.Context, branch string) ([]models.Company, error)
	ListEligibleCompanies(ctx context.Context, cgpa float64) ([]models.Company, error)
	SearchCompanies(ctx context.Context, query string) ([]models.Company, error)
	IncrementFilledPositions(ctx context.Context, companyID int64) error
	SetCompanyActive(ctx context.Context, companyID int64, active bool) error
}

type ApplicationRepo interface {
	// CreateApplication relies on the partial unique index over
	// (student_id, company_id) for live rows; a duplicate insert fails with
	// ErrConstraint, which the caller turns into a duplicate-application error.
	CreateApplication(ctx context.Context, a *models.Application) (int64, error)
	GetApplicationByID(ctx context.Context, id int64) (*models.Application, error)
	GetExistingApplication(ctx context.Context, studentID, companyID int64) (*models.Application, error)
	UpdateApplication(ctx context.Context, a *models.Application) error
	DeleteApplication(ctx context.Context, id int64) error
	ListApplicationsByStudent(ctx context.Context, studentID int64) ([]models.Application, error)
	ListApplicationsByCompany(ctx context.Context, companyID int64) ([]models.Application, error)
	ListApplicationsByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error)
	ListWithCompanyByStudent(ctx context.Context, studentID int64) ([]models.ApplicationWithCompany, error)
	ListPendingHODByBranch(ctx context.Context, branch string) ([]models.ApplicationWithCompany, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus, timestamp int64) error
	UpdateHODApproval(ctx context.Context, id int64, approved bool, timestamp int64) error
	UpdateTPOApproval(ctx context.Context, id int64, approved bool, timestamp int64) error
	CountApplicationsByStudent(ctx context.Context, studentID int64) (int64, error)
	CountSelectedByStudent(ctx context.Context, studentID int64) (int64, error)
}

type InterviewRepo interface {
	CreateInterview(ctx context.Context, iv *models.Interview) (int64, error)
	GetInterviewByID(ctx context.Context, id int64) (*models.Interview, error)
	UpdateInterview(ctx context.Context, iv *models.Interview) error
	DeleteInterview(ctx context.Context, id int64) error
	ListInterviewsByStudent(ctx context.Context, studentID int64) ([]models.Interview, error)
	ListInterviewsByApplication(ctx context.Context, applicationID int64) ([]models.Interview, error)
	ListInterviewsByStatus(ctx context.Context, status models.InterviewStatus) ([]models.Interview, error)
	ListInterviewsInRange(ctx context.Context, startDate, endDate string) ([]models.Interview, error)
	UpdateInterviewStatus(ctx context.Context, id int64, status models.InterviewStatus, timestamp int64) error
	DeleteInterviewsByApplication(ctx context.Context, applicationID int64) error
}

type ResumeRepo interface {
	CreateResume(ctx context.Context, r *models.Resume) (int64, error)
	ListResumesByStudent(ctx context.Context, studentID int64) ([]models.Resume, error)
	SetPrimaryResume(ctx context.Context, studentID, resumeID int64) error
	DeleteResume(ctx context.Context, id int64) error
}

type DocumentRepo interface {
	CreateDocument(ctx context.Context, d *models.Document) (int64, error)
	ListDocumentsByStudent(ctx context.Context, studentID int64) ([]models.Document, error)
	ListPendingDocuments(ctx context.Context) ([]models.Document, error)
	SetVerification(ctx context.Context, id int64, status models.VerificationStatus, verifiedBy int64, reason *string, timestamp int64) error
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *models.Notification) (int64, error)
	ListNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	ListUnreadByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	CountUnreadByUser(ctx context.Context, userID int64) (int64, error)
	MarkNotificationRead(ctx context.Context, id int64, timestamp int64) error
	MarkAllRead(ctx context.Context, userID int64, timestamp int64) error
	DeleteNotificationsByUser(ctx context.Context, userID int64) error
}

type AlumniRepo interface {
	CreateAlumni(ctx context.Context, a *models.Alumni) (int64, error)
	GetAlumniByStudentID(ctx context.Context, studentID int64) (*models.Alumni, error)
	UpdateAlumni(ctx context.Context, a *models.Alumni) error
	DeleteAlumni(ctx context.Context, id int64) error
	ListVerifiedAlumni(ctx context.Context) ([]models.Alumni, error)
	ListMentors(ctx context.Context) ([]models.Alumni, error)
	ListReferralAvailable(ctx context.Context) ([]models.Alumni, error)
	ListAlumniByYear(ctx context.Context, year int) ([]models.Alumni, error)
	SearchAlumniByCompany(ctx context.Context, companyName string) ([]models.Alumni, error)
	SetAlumniVerified(ctx context.Context, id int64, verified bool) error
}

type SchemaRepo interface {
	CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error)
	GetSchemaByVersion(ctx context.Context, version string) (*models.ProfileSchema, error)
	ListSchemas(ctx context.Context) ([]models.ProfileSchema, error)
	DeleteSchema(ctx context.Context, version string) error
}

type StatsRepo interface {
	GetPlacementStats(ctx context.Context) (*models.PlacementStats, error)
}

// Watcher is the live-query side of the access layer. Each method returns a
// channel that receives an initial snapshot and then a fresh snapshot after
// every relevant mutation, until ctx is done (the channel is then closed).
// Slow consumers see coalesced snapshots, never a blocked writer.
type Watcher interface {
	WatchActiveCompanies(ctx context.Context) (<-chan []models.Company, error)
	WatchApplicationsByStudent(ctx context.Context, studentID int64) (<-chan []models.ApplicationWithCompany, error)
}
