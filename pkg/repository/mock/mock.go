package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

// Test helpers and mocks. Each mock keeps its rows in a map guarded by a
// mutex and exposes error-injection fields so tests can force failures.
type Mocks struct {
	Users         *UserRepo
	Companies     *CompanyRepo
	Applications  *ApplicationRepo
	Interviews    *InterviewRepo
	Resumes       *ResumeRepo
	Documents     *DocumentRepo
	Notifications *NotificationRepo
	Alumni        *AlumniRepo
	Schemas       *SchemaRepo
	Stats         *StatsRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:         &UserRepo{rows: map[int64]*models.User{}},
		Companies:     &CompanyRepo{rows: map[int64]*models.Company{}},
		Applications:  &ApplicationRepo{rows: map[int64]*models.Application{}},
		Interviews:    &InterviewRepo{rows: map[int64]*models.Interview{}},
		Resumes:       &ResumeRepo{rows: map[int64]*models.Resume{}},
		Documents:     &DocumentRepo{rows: map[int64]*models.Document{}},
		Notifications: &NotificationRepo{rows: map[int64]*models.Notification{}},
		Alumni:        &AlumniRepo{rows: map[int64]*models.Alumni{}},
		Schemas:       &SchemaRepo{rows: map[string]*models.ProfileSchema{}},
		Stats:         &StatsRepo{},
	}
}

func nowMillis() int64 { return time.Now().UTC().UnixMilli() }

// UserRepo is an in-memory repository.UserRepo.
type UserRepo struct {
	mu        sync.Mutex
	rows      map[int64]*models.User
	nextID    int64
	CreateErr error
	GetErr    error
}

var _ repository.UserRepo = (*UserRepo)(nil)

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == u.Email || r.Phone == u.Phone {
			return 0, repository.ErrConstraint
		}
	}
	m.nextID++
	cp := *u
	cp.ID = m.nextID
	cp.Created = nowMillis()
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *UserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == email {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Email == identifier || r.Phone == identifier ||
			(r.CollegeID != nil && *r.CollegeID == identifier) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) GetStudentByRollNumber(ctx context.Context, rollNumber string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.Role == models.RoleStudent && r.RollNumber != nil && *r.RollNumber == rollNumber {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *UserRepo) UpdateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func (m *UserRepo) DeleteUser(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *UserRepo) UpdateLastLogin(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[userID]; ok {
		ts := nowMillis()
		r.LastLogin = &ts
	}
	return nil
}

func (m *UserRepo) SetUserActive(ctx context.Context, userID int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[userID]; ok {
		r.IsActive = active
	}
	return nil
}

func (m *UserRepo) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, r := range m.rows {
		if r.Role == role {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *UserRepo) ListStudentsByBranch(ctx context.Context, branch string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, r := range m.rows {
		if r.Role == models.RoleStudent && r.Branch != nil && *r.Branch == branch {
			out = append(out, *r)
		}
	}
	return out, nil
}

// CompanyRepo is an in-memory repository.CompanyRepo.
type CompanyRepo struct {
	mu        sync.Mutex
	rows      map[int64]*models.Company
	nextID    int64
	CreateErr error
	GetErr    error
	UpdateErr error
}

var _ repository.CompanyRepo = (*CompanyRepo)(nil)

func (m *CompanyRepo) CreateCompany(ctx context.Context, c *models.Company) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *c
	cp.ID = m.nextID
	cp.Posted = nowMillis()
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *CompanyRepo) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *CompanyRepo) UpdateCompany(ctx context.Context, c *models.Company) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *CompanyRepo) DeleteCompany(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *CompanyRepo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Company
	for _, r := range m.rows {
		out = append(out, *r)
	}
	return out, nil
}

func (m *CompanyRepo) ListActiveCompanies(ctx context.Context) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Company
	for _, r := range m.rows {
		if r.IsActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *CompanyRepo) ListCompaniesByBranch(ctx context.Context, branch string) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Company
	for _, r := range m.rows {
		if r.IsActive && strings.Contains(strings.ToLower(r.EligibleBranches), strings.ToLower(branch)) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *CompanyRepo) ListEligibleCompanies(ctx context.Context, cgpa float64) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Company
	for _, r := range m.rows {
		if r.IsActive && r.MinimumCGPA <= cgpa {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *CompanyRepo) SearchCompanies(ctx context.Context, query string) ([]models.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var out []models.Company
	for _, r := range m.rows {
		if strings.Contains(strings.ToLower(r.CompanyName), q) ||
			strings.Contains(strings.ToLower(r.JobRole), q) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *CompanyRepo) IncrementFilledPositions(ctx context.Context, companyID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[companyID]
	if !ok || r.FilledPositions >= r.TotalPositions {
		return repository.ErrConstraint
	}
	r.FilledPositions++
	return nil
}

func (m *CompanyRepo) SetCompanyActive(ctx context.Context, companyID int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[companyID]; ok {
		r.IsActive = active
	}
	return nil
}

// ApplicationRepo is an in-memory repository.ApplicationRepo. Like the sqlite
// store it rejects a second live application for the same student/company
// pair with ErrConstraint.
type ApplicationRepo struct {
	mu        sync.Mutex
	rows      map[int64]*models.Application
	nextID    int64
	CreateErr error

	// Companies, when set, backs the joined listings.
	Companies *CompanyRepo
}

var _ repository.ApplicationRepo = (*ApplicationRepo)(nil)

func (m *ApplicationRepo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.StudentID == a.StudentID && r.CompanyID == a.CompanyID && r.Status != models.StatusWithdrawn {
			return 0, repository.ErrConstraint
		}
	}
	m.nextID++
	cp := *a
	cp.ID = m.nextID
	cp.Applied = nowMillis()
	cp.LastUpdated = cp.Applied
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *ApplicationRepo) GetApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *ApplicationRepo) GetExistingApplication(ctx context.Context, studentID, companyID int64) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.StudentID == studentID && r.CompanyID == companyID && r.Status != models.StatusWithdrawn {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *ApplicationRepo) UpdateApplication(ctx context.Context, a *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	cp.LastUpdated = nowMillis()
	m.rows[a.ID] = &cp
	return nil
}

func (m *ApplicationRepo) DeleteApplication(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *ApplicationRepo) ListApplicationsByStudent(ctx context.Context, studentID int64) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, r := range m.rows {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *ApplicationRepo) ListApplicationsByCompany(ctx context.Context, companyID int64) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, r := range m.rows {
		if r.CompanyID == companyID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *ApplicationRepo) ListApplicationsByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Application
	for _, r := range m.rows {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *ApplicationRepo) ListWithCompanyByStudent(ctx context.Context, studentID int64) ([]models.ApplicationWithCompany, error) {
	apps, _ := m.ListApplicationsByStudent(ctx, studentID)
	return m.join(ctx, apps)
}

func (m *ApplicationRepo) ListPendingHODByBranch(ctx context.Context, branch string) ([]models.ApplicationWithCompany, error) {
	m.mu.Lock()
	var pending []models.Application
	for _, r := range m.rows {
		if r.Status == models.StatusPending && !r.HODApproved {
			pending = append(pending, *r)
		}
	}
	m.mu.Unlock()
	return m.join(ctx, pending)
}

func (m *ApplicationRepo) join(ctx context.Context, apps []models.Application) ([]models.ApplicationWithCompany, error) {
	var out []models.ApplicationWithCompany
	for _, a := range apps {
		row := models.ApplicationWithCompany{Application: a}
		if m.Companies != nil {
			if c, _ := m.Companies.GetCompanyByID(ctx, a.CompanyID); c != nil {
				row.Company = *c
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *ApplicationRepo) UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.Status = status
		r.LastUpdated = timestamp
	}
	return nil
}

func (m *ApplicationRepo) UpdateHODApproval(ctx context.Context, id int64, approved bool, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.HODApproved = approved
		r.HODApprovedAt = &timestamp
		r.LastUpdated = timestamp
	}
	return nil
}

func (m *ApplicationRepo) UpdateTPOApproval(ctx context.Context, id int64, approved bool, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.TPOApproved = approved
		r.TPOApprovedAt = &timestamp
		r.LastUpdated = timestamp
	}
	return nil
}

func (m *ApplicationRepo) CountApplicationsByStudent(ctx context.Context, studentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.StudentID == studentID {
			n++
		}
	}
	return n, nil
}

func (m *ApplicationRepo) CountSelectedByStudent(ctx context.Context, studentID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.rows {
		if r.StudentID == studentID && r.Status == models.StatusSelected {
			n++
		}
	}
	return n, nil
}

// InterviewRepo is an in-memory repository.InterviewRepo.
type InterviewRepo struct {
	mu        sync.Mutex
	rows      map[int64]*models.Interview
	nextID    int64
	CreateErr error
}

var _ repository.InterviewRepo = (*InterviewRepo)(nil)

func (m *InterviewRepo) CreateInterview(ctx context.Context, iv *models.Interview) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *iv
	cp.ID = m.nextID
	cp.Created = nowMillis()
	cp.Updated = cp.Created
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *InterviewRepo) GetInterviewByID(ctx context.Context, id int64) (*models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *InterviewRepo) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *iv
	m.rows[iv.ID] = &cp
	return nil
}

func (m *InterviewRepo) DeleteInterview(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *InterviewRepo) ListInterviewsByStudent(ctx context.Context, studentID int64) ([]models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interview
	for _, r := range m.rows {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *InterviewRepo) ListInterviewsByApplication(ctx context.Context, applicationID int64) ([]models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interview
	for _, r := range m.rows {
		if r.ApplicationID == applicationID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *InterviewRepo) ListInterviewsByStatus(ctx context.Context, status models.InterviewStatus) ([]models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interview
	for _, r := range m.rows {
		if r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *InterviewRepo) ListInterviewsInRange(ctx context.Context, startDate, endDate string) ([]models.Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Interview
	for _, r := range m.rows {
		if r.InterviewDate >= startDate && r.InterviewDate <= endDate {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *InterviewRepo) UpdateInterviewStatus(ctx context.Context, id int64, status models.InterviewStatus, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.Status = status
		r.Updated = timestamp
	}
	return nil
}

func (m *InterviewRepo) DeleteInterviewsByApplication(ctx context.Context, applicationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rows {
		if r.ApplicationID == applicationID {
			delete(m.rows, id)
		}
	}
	return nil
}

// ResumeRepo is an in-memory repository.ResumeRepo.
type ResumeRepo struct {
	mu     sync.Mutex
	rows   map[int64]*models.Resume
	nextID int64
}

var _ repository.ResumeRepo = (*ResumeRepo)(nil)

func (m *ResumeRepo) CreateResume(ctx context.Context, r *models.Resume) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *r
	cp.ID = m.nextID
	cp.Uploaded = nowMillis()
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *ResumeRepo) ListResumesByStudent(ctx context.Context, studentID int64) ([]models.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Resume
	for _, r := range m.rows {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *ResumeRepo) SetPrimaryResume(ctx context.Context, studentID, resumeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.StudentID == studentID {
			r.IsPrimary = r.ID == resumeID
		}
	}
	return nil
}

func (m *ResumeRepo) DeleteResume(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

// DocumentRepo is an in-memory repository.DocumentRepo.
type DocumentRepo struct {
	mu     sync.Mutex
	rows   map[int64]*models.Document
	nextID int64
}

var _ repository.DocumentRepo = (*DocumentRepo)(nil)

func (m *DocumentRepo) CreateDocument(ctx context.Context, d *models.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *d
	cp.ID = m.nextID
	cp.Uploaded = nowMillis()
	if cp.VerificationStatus == "" {
		cp.VerificationStatus = models.VerificationPending
	}
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *DocumentRepo) ListDocumentsByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Document
	for _, r := range m.rows {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *DocumentRepo) ListPendingDocuments(ctx context.Context) ([]models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Document
	for _, r := range m.rows {
		if r.VerificationStatus == models.VerificationPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *DocumentRepo) SetVerification(ctx context.Context, id int64, status models.VerificationStatus, verifiedBy int64, reason *string, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.VerificationStatus = status
		r.VerifiedBy = &verifiedBy
		r.VerifiedAt = &timestamp
		r.RejectionReason = reason
	}
	return nil
}

// NotificationRepo is an in-memory repository.NotificationRepo.
type NotificationRepo struct {
	mu        sync.Mutex
	rows      map[int64]*models.Notification
	nextID    int64
	CreateErr error
}

var _ repository.NotificationRepo = (*NotificationRepo)(nil)

func (m *NotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	cp := *n
	cp.ID = m.nextID
	cp.Created = nowMillis()
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *NotificationRepo) ListNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *NotificationRepo) ListUnreadByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, r := range m.rows {
		if r.UserID == userID && !r.IsRead {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *NotificationRepo) CountUnreadByUser(ctx context.Context, userID int64) (int64, error) {
	unread, _ := m.ListUnreadByUser(ctx, userID)
	return int64(len(unread)), nil
}

func (m *NotificationRepo) MarkNotificationRead(ctx context.Context, id int64, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.IsRead = true
		r.ReadAt = &timestamp
	}
	return nil
}

func (m *NotificationRepo) MarkAllRead(ctx context.Context, userID int64, timestamp int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.UserID == userID && !r.IsRead {
			r.IsRead = true
			r.ReadAt = &timestamp
		}
	}
	return nil
}

func (m *NotificationRepo) DeleteNotificationsByUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, r := range m.rows {
		if r.UserID == userID {
			delete(m.rows, id)
		}
	}
	return nil
}

// AlumniRepo is an in-memory repository.AlumniRepo.
type AlumniRepo struct {
	mu     sync.Mutex
	rows   map[int64]*models.Alumni
	nextID int64
}

var _ repository.AlumniRepo = (*AlumniRepo)(nil)

func (m *AlumniRepo) CreateAlumni(ctx context.Context, a *models.Alumni) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.StudentID == a.StudentID {
			return 0, repository.ErrConstraint
		}
	}
	m.nextID++
	cp := *a
	cp.ID = m.nextID
	cp.Created = nowMillis()
	cp.LastUpdated = cp.Created
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *AlumniRepo) GetAlumniByStudentID(ctx context.Context, studentID int64) (*models.Alumni, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.StudentID == studentID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *AlumniRepo) UpdateAlumni(ctx context.Context, a *models.Alumni) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	cp.LastUpdated = nowMillis()
	m.rows[a.ID] = &cp
	return nil
}

func (m *AlumniRepo) DeleteAlumni(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *AlumniRepo) ListVerifiedAlumni(ctx context.Context) ([]models.Alumni, error) {
	return m.filter(func(a *models.Alumni) bool { return a.IsVerified })
}

func (m *AlumniRepo) ListMentors(ctx context.Context) ([]models.Alumni, error) {
	return m.filter(func(a *models.Alumni) bool { return a.IsVerified && a.WillingToMentor })
}

func (m *AlumniRepo) ListReferralAvailable(ctx context.Context) ([]models.Alumni, error) {
	return m.filter(func(a *models.Alumni) bool { return a.IsVerified && a.AvailableForReferrals })
}

func (m *AlumniRepo) ListAlumniByYear(ctx context.Context, year int) ([]models.Alumni, error) {
	return m.filter(func(a *models.Alumni) bool { return a.GraduationYear == year })
}

func (m *AlumniRepo) SearchAlumniByCompany(ctx context.Context, companyName string) ([]models.Alumni, error) {
	q := strings.ToLower(companyName)
	return m.filter(func(a *models.Alumni) bool {
		return strings.Contains(strings.ToLower(a.CurrentCompany), q)
	})
}

func (m *AlumniRepo) SetAlumniVerified(ctx context.Context, id int64, verified bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[id]; ok {
		r.IsVerified = verified
	}
	return nil
}

func (m *AlumniRepo) filter(keep func(*models.Alumni) bool) ([]models.Alumni, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Alumni
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, *r)
		}
	}
	return out, nil
}

// SchemaRepo is an in-memory repository.SchemaRepo keyed by version.
type SchemaRepo struct {
	mu     sync.Mutex
	rows   map[string]*models.ProfileSchema
	nextID int64
}

var _ repository.SchemaRepo = (*SchemaRepo)(nil)

func (m *SchemaRepo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := nowMillis()
	m.rows[version] = &models.ProfileSchema{
		ID: m.nextID, Version: version, Description: description,
		SchemaJSON: schemaJSON, Created: now, Updated: now,
	}
	return m.nextID, nil
}

func (m *SchemaRepo) GetSchemaByVersion(ctx context.Context, version string) (*models.ProfileSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[version]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (m *SchemaRepo) ListSchemas(ctx context.Context) ([]models.ProfileSchema, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ProfileSchema
	for _, r := range m.rows {
		out = append(out, *r)
	}
	return out, nil
}

func (m *SchemaRepo) DeleteSchema(ctx context.Context, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, version)
	return nil
}

// StatsRepo returns a fixed stats row.
type StatsRepo struct {
	Value models.PlacementStats
	Err   error
}

var _ repository.StatsRepo = (*StatsRepo)(nil)

func (m *StatsRepo) GetPlacementStats(ctx context.Context) (*models.PlacementStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	cp := m.Value
	return &cp, nil
}
