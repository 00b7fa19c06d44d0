package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandk/placement/pkg/models"
)

const interviewColumns = `id, application_id, student_id, company_id, interview_date, interview_time,
	interview_mode, interview_location, interview_round, round_type, status, notes, feedback, created, updated`

func scanInterview(row interface{ Scan(...any) error }) (*models.Interview, error) {
	var iv models.Interview
	if err := row.Scan(&iv.ID, &iv.ApplicationID, &iv.StudentID, &iv.CompanyID, &iv.InterviewDate, &iv.InterviewTime,
		&iv.InterviewMode, &iv.InterviewLocation, &iv.InterviewRound, &iv.RoundType, &iv.Status,
		&iv.Notes, &iv.Feedback, &iv.Created, &iv.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &iv, nil
}

func (r *Repo) CreateInterview(ctx context.Context, iv *models.Interview) (int64, error) {
	if iv == nil {
		return 0, fmt.Errorf("interview is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO interviews
		(application_id, student_id, company_id, interview_date, interview_time, interview_mode,
		 interview_location, interview_round, round_type, status, notes, feedback, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		iv.ApplicationID, iv.StudentID, iv.CompanyID, iv.InterviewDate, iv.InterviewTime, iv.InterviewMode,
		iv.InterviewLocation, iv.InterviewRound, iv.RoundType, string(iv.Status), iv.Notes, iv.Feedback, ts, ts)
	if err != nil {
		return 0, mapErr(err)
	}

	return res.LastInsertId()
}

func (r *Repo) GetInterviewByID(ctx context.Context, id int64) (*models.Interview, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = ?`, id)
	return scanInterview(row)
}

func (r *Repo) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	if iv == nil {
		return fmt.Errorf("interview is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE interviews SET
		interview_date = ?, interview_time = ?, interview_mode = ?, interview_location = ?,
		interview_round = ?, round_type = ?, status = ?, notes = ?, feedback = ?, updated = ?
		WHERE id = ?`,
		iv.InterviewDate, iv.InterviewTime, iv.InterviewMode, iv.InterviewLocation,
		iv.InterviewRound, iv.RoundType, string(iv.Status), iv.Notes, iv.Feedback, now(), iv.ID)
	return mapErr(err)
}

func (r *Repo) DeleteInterview(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM interviews WHERE id = ?`, id)
	return err
}

func (r *Repo) ListInterviewsByStudent(ctx context.Context, studentID int64) ([]models.Interview, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+interviewColumns+` FROM interviews
		WHERE student_id = ? ORDER BY interview_date ASC, interview_time ASC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInterviews(rows)
}

func (r *Repo) ListInterviewsByApplication(ctx context.Context, applicationID int64) ([]models.Interview, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+interviewColumns+` FROM interviews
		WHERE application_id = ? ORDER BY interview_round ASC`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInterviews(rows)
}

func (r *Repo) ListInterviewsByStatus(ctx context.Context, status models.InterviewStatus) ([]models.Interview, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+interviewColumns+` FROM interviews
		WHERE status = ? ORDER BY interview_date ASC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInterviews(rows)
}

func (r *Repo) ListInterviewsInRange(ctx context.Context, startDate, endDate string) ([]models.Interview, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+interviewColumns+` FROM interviews
		WHERE interview_date >= ? AND interview_date <= ? ORDER BY interview_date ASC, interview_time ASC`,
		startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInterviews(rows)
}

func (r *Repo) UpdateInterviewStatus(ctx context.Context, id int64, status models.InterviewStatus, timestamp int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE interviews SET status = ?, updated = ? WHERE id = ?`,
		string(status), timestamp, id)
	return err
}

func (r *Repo) DeleteInterviewsByApplication(ctx context.Context, applicationID int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM interviews WHERE application_id = ?`, applicationID)
	return err
}

func collectInterviews(rows *sql.Rows) ([]models.Interview, error) {
	var out []models.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}

	return out, rows.Err()
}
