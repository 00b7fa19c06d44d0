package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandk/placement/pkg/models"
)

const applicationColumns = `id, student_id, company_id, status, current_round, rounds_cleared, feedback,
	applied, last_updated, selected_date, offered_package, joining_date, resume_url, cover_letter,
	hod_approved, tpo_approved, hod_approved_at, tpo_approved_at`

func scanApplication(row interface{ Scan(...any) error }) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(&a.ID, &a.StudentID, &a.CompanyID, &a.Status, &a.CurrentRound, &a.RoundsCleared, &a.Feedback,
		&a.Applied, &a.LastUpdated, &a.SelectedDate, &a.OfferedPackage, &a.JoiningDate, &a.ResumeURL, &a.CoverLetter,
		&a.HODApproved, &a.TPOApproved, &a.HODApprovedAt, &a.TPOApprovedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}

// CreateApplication inserts the row as-is. Duplicate live applications for the
// same (student, company) pair fail with repository.ErrConstraint via the
// partial unique index.
func (r *Repo) CreateApplication(ctx context.Context, a *models.Application) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("application is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO applications
		(student_id, company_id, status, current_round, rounds_cleared, feedback,
		 applied, last_updated, selected_date, offered_package, joining_date, resume_url, cover_letter,
		 hod_approved, tpo_approved, hod_approved_at, tpo_approved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.StudentID, a.CompanyID, string(a.Status), a.CurrentRound, a.RoundsCleared, a.Feedback,
		ts, ts, a.SelectedDate, a.OfferedPackage, a.JoiningDate, a.ResumeURL, a.CoverLetter,
		a.HODApproved, a.TPOApproved, a.HODApprovedAt, a.TPOApprovedAt)
	if err != nil {
		return 0, mapErr(err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		r.hub.publish(topicApplications)
	}

	return id, err
}

func (r *Repo) GetApplicationByID(ctx context.Context, id int64) (*models.Application, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = ?`, id)
	return scanApplication(row)
}

// GetExistingApplication returns the live (non-withdrawn) application for the
// pair, if any.
func (r *Repo) GetExistingApplication(ctx context.Context, studentID, companyID int64) (*models.Application, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE student_id = ? AND company_id = ? AND status != 'WITHDRAWN' LIMIT 1`, studentID, companyID)
	return scanApplication(row)
}

func (r *Repo) UpdateApplication(ctx context.Context, a *models.Application) error {
	if a == nil {
		return fmt.Errorf("application is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE applications SET
		status = ?, current_round = ?, rounds_cleared = ?, feedback = ?, last_updated = ?,
		selected_date = ?, offered_package = ?, joining_date = ?, resume_url = ?, cover_letter = ?,
		hod_approved = ?, tpo_approved = ?, hod_approved_at = ?, tpo_approved_at = ?
		WHERE id = ?`,
		string(a.Status), a.CurrentRound, a.RoundsCleared, a.Feedback, now(),
		a.SelectedDate, a.OfferedPackage, a.JoiningDate, a.ResumeURL, a.CoverLetter,
		a.HODApproved, a.TPOApproved, a.HODApprovedAt, a.TPOApprovedAt, a.ID)
	if err != nil {
		return mapErr(err)
	}

	r.hub.publish(topicApplications)
	return nil
}

func (r *Repo) DeleteApplication(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM applications WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}

	r.hub.publish(topicApplications)
	return nil
}

func (r *Repo) ListApplicationsByStudent(ctx context.Context, studentID int64) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE student_id = ? ORDER BY applied DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (r *Repo) ListApplicationsByCompany(ctx context.Context, companyID int64) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE company_id = ? ORDER BY applied DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (r *Repo) ListApplicationsByStatus(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+applicationColumns+` FROM applications
		WHERE status = ? ORDER BY applied DESC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplications(rows)
}

func (r *Repo) ListWithCompanyByStudent(ctx context.Context, studentID int64) ([]models.ApplicationWithCompany, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+prefixColumns("a", applicationColumns)+`, `+prefixColumns("c", companyColumns)+`
		FROM applications a INNER JOIN companies c ON a.company_id = c.id
		WHERE a.student_id = ? ORDER BY a.applied DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplicationsWithCompany(rows)
}

// ListPendingHODByBranch returns applications by students of the branch that
// still lack HOD approval, newest first.
func (r *Repo) ListPendingHODByBranch(ctx context.Context, branch string) ([]models.ApplicationWithCompany, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+prefixColumns("a", applicationColumns)+`, `+prefixColumns("c", companyColumns)+`
		FROM applications a
		INNER JOIN companies c ON a.company_id = c.id
		INNER JOIN users u ON a.student_id = u.id
		WHERE u.branch = ? AND a.hod_approved = 0 ORDER BY a.applied DESC`, branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectApplicationsWithCompany(rows)
}

func (r *Repo) UpdateApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus, timestamp int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE applications SET status = ?, last_updated = ? WHERE id = ?`,
		string(status), timestamp, id)
	if err != nil {
		return mapErr(err)
	}

	r.hub.publish(topicApplications)
	return nil
}

func (r *Repo) UpdateHODApproval(ctx context.Context, id int64, approved bool, timestamp int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE applications SET hod_approved = ?, hod_approved_at = ? WHERE id = ?`,
		approved, timestamp, id)
	if err != nil {
		return err
	}

	r.hub.publish(topicApplications)
	return nil
}

func (r *Repo) UpdateTPOApproval(ctx context.Context, id int64, approved bool, timestamp int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE applications SET tpo_approved = ?, tpo_approved_at = ? WHERE id = ?`,
		approved, timestamp, id)
	if err != nil {
		return err
	}

	r.hub.publish(topicApplications)
	return nil
}

func (r *Repo) CountApplicationsByStudent(ctx context.Context, studentID int64) (int64, error) {
	var n int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE student_id = ?`, studentID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *Repo) CountSelectedByStudent(ctx context.Context, studentID int64) (int64, error) {
	var n int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE student_id = ? AND status = 'SELECTED'`, studentID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func collectApplications(rows *sql.Rows) ([]models.Application, error) {
	var out []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}

	return out, rows.Err()
}

func collectApplicationsWithCompany(rows *sql.Rows) ([]models.ApplicationWithCompany, error) {
	var out []models.ApplicationWithCompany
	for rows.Next() {
		var a models.Application
		var c models.Company
		if err := rows.Scan(&a.ID, &a.StudentID, &a.CompanyID, &a.Status, &a.CurrentRound, &a.RoundsCleared, &a.Feedback,
			&a.Applied, &a.LastUpdated, &a.SelectedDate, &a.OfferedPackage, &a.JoiningDate, &a.ResumeURL, &a.CoverLetter,
			&a.HODApproved, &a.TPOApproved, &a.HODApprovedAt, &a.TPOApprovedAt,
			&c.ID, &c.CompanyName, &c.CompanyLogo, &c.JobRole, &c.JobDescription, &c.PackageAmount, &c.Location,
			&c.EligibleBranches, &c.MinimumCGPA, &c.MaxBacklogs, &c.SelectionProcess, &c.NumberOfRounds,
			&c.ApplicationDeadline, &c.DriveDate, &c.IsActive, &c.TotalPositions, &c.FilledPositions,
			&c.PostedBy, &c.Posted, &c.WebsiteURL, &c.CompanyType, &c.Bond, &c.EmployeesCount,
			&c.WorkFromHome, &c.LearningOpportunities, &c.GrowthPotential); err != nil {
			return nil, err
		}
		out = append(out, models.ApplicationWithCompany{Application: a, Company: c})
	}

	return out, rows.Err()
}
