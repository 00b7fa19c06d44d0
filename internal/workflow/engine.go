package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

// Notification collision-avoidance tag offsets: the tag is relatedID plus the
// offset for the notification kind, so repeated events about the same record
// replace rather than pile up.
const (
	TagOffsetNewCompany int64 = 10000
	TagOffsetDeadline   int64 = 20000
)

// Notifier delivers user notifications without blocking workflow steps.
// Implementations queue and persist asynchronously.
type Notifier interface {
	Push(userID int64, title, message, notificationType string, relatedID, tag int64)
}

// Engine drives the application lifecycle. It owns the business rules;
// persistence goes through the repository interfaces and role gating stays in
// the transport layer.
type Engine struct {
	users      repository.UserRepo
	companies  repository.CompanyRepo
	apps       repository.ApplicationRepo
	interviews repository.InterviewRepo
	notifier   Notifier
	logger     *slog.Logger

	// Clock is overridable in tests to pin deadline checks.
	Clock func() time.Time
}

func New(users repository.UserRepo, companies repository.CompanyRepo, apps repository.ApplicationRepo, interviews repository.InterviewRepo, notifier Notifier, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		users:      users,
		companies:  companies,
		apps:       apps,
		interviews: interviews,
		notifier:   notifier,
		logger:     logger,
		Clock:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *Engine) nowMillis() int64 {
	return e.Clock().UnixMilli()
}

// SubmitApplication applies the student to the company. All eligibility
// preconditions are checked first; the partial unique index on live
// applications backs the duplicate check, so a concurrent double submit loses
// with ErrDuplicateApplication rather than creating a second row.
func (e *Engine) SubmitApplication(ctx context.Context, studentID, companyID int64) (int64, error) {
	student, err := e.users.GetUserByID(ctx, studentID)
	if err != nil {
		return 0, fmt.Errorf("load student: %w", err)
	}
	if student == nil {
		return 0, fmt.Errorf("student %d: %w", studentID, ErrNotFound)
	}

	company, err := e.companies.GetCompanyByID(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("load company: %w", err)
	}
	if company == nil {
		return 0, fmt.Errorf("company %d: %w", companyID, ErrNotFound)
	}

	if err := CheckEligibility(student, company, e.Clock()); err != nil {
		return 0, err
	}

	existing, err := e.apps.GetExistingApplication(ctx, studentID, companyID)
	if err != nil {
		return 0, fmt.Errorf("check existing application: %w", err)
	}
	if existing != nil {
		return 0, ErrDuplicateApplication
	}

	id, err := e.apps.CreateApplication(ctx, &models.Application{
		StudentID: studentID,
		CompanyID: companyID,
		Status:    models.StatusPending,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConstraint) {
			return 0, ErrDuplicateApplication
		}
		return 0, fmt.Errorf("create application: %w", err)
	}

	e.notify(studentID, "Application Submitted",
		fmt.Sprintf("Your application for %s (%s) was submitted.", company.CompanyName, company.JobRole),
		"application_status", id, id)

	e.logger.Info("application submitted", "student_id", studentID, "company_id", companyID, "application_id", id)
	return id, nil
}

// WithdrawApplication marks the student's own application WITHDRAWN. Only
// live states can be withdrawn; withdrawing frees the student to re-apply.
func (e *Engine) WithdrawApplication(ctx context.Context, studentID, applicationID int64) error {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
	}
	if app.StudentID != studentID {
		return ErrNotOwner
	}
	if app.Status.Terminal() {
		return fmt.Errorf("withdraw from %s: %w", app.Status, ErrInvalidTransition)
	}

	if err := e.apps.UpdateApplicationStatus(ctx, applicationID, models.StatusWithdrawn, e.nowMillis()); err != nil {
		return fmt.Errorf("withdraw application: %w", err)
	}

	e.logger.Info("application withdrawn", "application_id", applicationID, "student_id", studentID)
	return nil
}

// SetHODApproval records the HOD decision. The call is idempotent; a repeat
// overwrites the timestamp. Approval flags never gate or change the status.
func (e *Engine) SetHODApproval(ctx context.Context, applicationID int64, approved bool) error {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
	}

	if err := e.apps.UpdateHODApproval(ctx, applicationID, approved, e.nowMillis()); err != nil {
		return fmt.Errorf("set hod approval: %w", err)
	}

	verdict := "approved"
	if !approved {
		verdict = "not approved"
	}
	e.notify(app.StudentID, "HOD Review",
		fmt.Sprintf("Your application was %s by the HOD.", verdict),
		"application_status", applicationID, applicationID)
	return nil
}

// SetTPOApproval records the TPO decision, same contract as SetHODApproval.
func (e *Engine) SetTPOApproval(ctx context.Context, applicationID int64, approved bool) error {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
	}

	if err := e.apps.UpdateTPOApproval(ctx, applicationID, approved, e.nowMillis()); err != nil {
		return fmt.Errorf("set tpo approval: %w", err)
	}

	verdict := "approved"
	if !approved {
		verdict = "not approved"
	}
	e.notify(app.StudentID, "TPO Review",
		fmt.Sprintf("Your application was %s by the TPO.", verdict),
		"application_status", applicationID, applicationID)
	return nil
}

// UpdateStatus overwrites the application status. Any state may be written
// over any other; the caller is trusted to know the drive's reality. Marking
// SELECTED additionally consumes one position and stamps the selection date,
// failing with ErrPositionsFull when the company has none left.
func (e *Engine) UpdateStatus(ctx context.Context, applicationID int64, status models.ApplicationStatus) error {
	app, err := e.apps.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return fmt.Errorf("application %d: %w", applicationID, ErrNotFound)
	}

	now := e.nowMillis()
	if status == models.StatusSelected && app.Status != models.StatusSelected {
		if err := e.companies.IncrementFilledPositions(ctx, app.CompanyID); err != nil {
			if errors.Is(err, repository.ErrConstraint) {
				return ErrPositionsFull
			}
			return fmt.Errorf("consume position: %w", err)
		}

		selectedDate := e.Clock().Format(deadlineLayout)
		app.Status = models.StatusSelected
		app.SelectedDate = &selectedDate
		if err := e.apps.UpdateApplication(ctx, app); err != nil {
			return fmt.Errorf("update application: %w", err)
		}
	} else {
		if err := e.apps.UpdateApplicationStatus(ctx, applicationID, status, now); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
	}

	e.notify(app.StudentID, "Application Update",
		fmt.Sprintf("Your application status changed to %s.", status),
		"application_status", applicationID, applicationID)

	e.logger.Info("application status updated", "application_id", applicationID, "status", string(status))
	return nil
}

// PostCompany publishes a new job posting and broadcasts it to every student
// who meets its criteria.
func (e *Engine) PostCompany(ctx context.Context, company *models.Company) (int64, error) {
	id, err := e.companies.CreateCompany(ctx, company)
	if err != nil {
		return 0, fmt.Errorf("create company: %w", err)
	}
	company.ID = id

	students, err := e.users.ListUsersByRole(ctx, models.RoleStudent)
	if err != nil {
		e.logger.Error("list students for broadcast", "err", err)
		return id, nil
	}

	now := e.Clock()
	for _, s := range students {
		student := s
		if !student.IsActive || CheckEligibility(&student, company, now) != nil {
			continue
		}
		e.notify(student.ID, "New Opportunity",
			fmt.Sprintf("%s is hiring for %s. Apply before %s.",
				company.CompanyName, company.JobRole, company.ApplicationDeadline),
			"new_company", id, id+TagOffsetNewCompany)
	}
	return id, nil
}

// SendDeadlineReminders notifies eligible students whose deadline falls on
// the next day and who have not applied yet. Meant to run on a ticker.
func (e *Engine) SendDeadlineReminders(ctx context.Context) error {
	companies, err := e.companies.ListActiveCompanies(ctx)
	if err != nil {
		return fmt.Errorf("list active companies: %w", err)
	}

	now := e.Clock()
	tomorrow := now.Add(24 * time.Hour).Format(deadlineLayout)
	for _, c := range companies {
		if c.ApplicationDeadline != tomorrow {
			continue
		}
		company := c

		students, err := e.users.ListUsersByRole(ctx, models.RoleStudent)
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}
		for _, s := range students {
			student := s
			if !student.IsActive || CheckEligibility(&student, &company, now) != nil {
				continue
			}
			existing, err := e.apps.GetExistingApplication(ctx, student.ID, company.ID)
			if err != nil || existing != nil {
				continue
			}
			e.notify(student.ID, "Deadline Tomorrow",
				fmt.Sprintf("Applications for %s close on %s.", company.CompanyName, company.ApplicationDeadline),
				"deadline", company.ID, company.ID+TagOffsetDeadline)
		}
	}
	return nil
}

// ScheduleInterview creates an interview round for a live application and
// tells the student.
func (e *Engine) ScheduleInterview(ctx context.Context, iv *models.Interview) (int64, error) {
	app, err := e.apps.GetApplicationByID(ctx, iv.ApplicationID)
	if err != nil {
		return 0, fmt.Errorf("load application: %w", err)
	}
	if app == nil {
		return 0, fmt.Errorf("application %d: %w", iv.ApplicationID, ErrNotFound)
	}
	if app.Status == models.StatusWithdrawn || app.Status == models.StatusRejected {
		return 0, fmt.Errorf("schedule for %s application: %w", app.Status, ErrInvalidTransition)
	}

	iv.StudentID = app.StudentID
	iv.CompanyID = app.CompanyID
	if iv.Status == "" {
		iv.Status = models.InterviewScheduled
	}

	id, err := e.interviews.CreateInterview(ctx, iv)
	if err != nil {
		return 0, fmt.Errorf("create interview: %w", err)
	}

	e.notify(app.StudentID, "Interview Scheduled",
		fmt.Sprintf("Round %d (%s) on %s at %s.", iv.InterviewRound, iv.RoundType, iv.InterviewDate, iv.InterviewTime),
		"interview", id, id)
	return id, nil
}

// EligibleCompanies returns the active postings this student could apply to
// right now.
func (e *Engine) EligibleCompanies(ctx context.Context, studentID int64) ([]models.Company, error) {
	student, err := e.users.GetUserByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("student %d: %w", studentID, ErrNotFound)
	}

	active, err := e.companies.ListActiveCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active companies: %w", err)
	}

	now := e.Clock()
	out := make([]models.Company, 0, len(active))
	for _, c := range active {
		company := c
		if CheckEligibility(student, &company, now) == nil {
			out = append(out, company)
		}
	}
	return out, nil
}

func (e *Engine) notify(userID int64, title, message, notificationType string, relatedID, tag int64) {
	if e.notifier == nil {
		return
	}
	e.notifier.Push(userID, title, message, notificationType, relatedID, tag)
}
