package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandk/placement/pkg/models"
)

const alumniColumns = `id, student_id, graduation_year, current_company, current_position, current_package,
	years_of_experience, linkedin_url, github_url, portfolio_url, willing_to_mentor, mentorship_areas,
	available_for_referrals, bio, achievements, is_verified, created, last_updated`

func scanAlumni(row interface{ Scan(...any) error }) (*models.Alumni, error) {
	var a models.Alumni
	if err := row.Scan(&a.ID, &a.StudentID, &a.GraduationYear, &a.CurrentCompany, &a.CurrentPosition, &a.CurrentPackage,
		&a.YearsOfExperience, &a.LinkedinURL, &a.GithubURL, &a.PortfolioURL, &a.WillingToMentor, &a.MentorshipAreas,
		&a.AvailableForReferrals, &a.Bio, &a.Achievements, &a.IsVerified, &a.Created, &a.LastUpdated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &a, nil
}

// CreateAlumni fails with repository.ErrConstraint when the student already
// has an alumni profile (unique student_id).
func (r *Repo) CreateAlumni(ctx context.Context, a *models.Alumni) (int64, error) {
	if a == nil {
		return 0, fmt.Errorf("alumni is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO alumni
		(student_id, graduation_year, current_company, current_position, current_package,
		 years_of_experience, linkedin_url, github_url, portfolio_url, willing_to_mentor, mentorship_areas,
		 available_for_referrals, bio, achievements, is_verified, created, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.StudentID, a.GraduationYear, a.CurrentCompany, a.CurrentPosition, a.CurrentPackage,
		a.YearsOfExperience, a.LinkedinURL, a.GithubURL, a.PortfolioURL, a.WillingToMentor, a.MentorshipAreas,
		a.AvailableForReferrals, a.Bio, a.Achievements, a.IsVerified, ts, ts)
	if err != nil {
		return 0, mapErr(err)
	}

	return res.LastInsertId()
}

func (r *Repo) GetAlumniByStudentID(ctx context.Context, studentID int64) (*models.Alumni, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+alumniColumns+` FROM alumni WHERE student_id = ?`, studentID)
	return scanAlumni(row)
}

func (r *Repo) UpdateAlumni(ctx context.Context, a *models.Alumni) error {
	if a == nil {
		return fmt.Errorf("alumni is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE alumni SET
		graduation_year = ?, current_company = ?, current_position = ?, current_package = ?,
		years_of_experience = ?, linkedin_url = ?, github_url = ?, portfolio_url = ?,
		willing_to_mentor = ?, mentorship_areas = ?, available_for_referrals = ?,
		bio = ?, achievements = ?, is_verified = ?, last_updated = ?
		WHERE id = ?`,
		a.GraduationYear, a.CurrentCompany, a.CurrentPosition, a.CurrentPackage,
		a.YearsOfExperience, a.LinkedinURL, a.GithubURL, a.PortfolioURL,
		a.WillingToMentor, a.MentorshipAreas, a.AvailableForReferrals,
		a.Bio, a.Achievements, a.IsVerified, now(), a.ID)
	return mapErr(err)
}

func (r *Repo) DeleteAlumni(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM alumni WHERE id = ?`, id)
	return err
}

func (r *Repo) ListVerifiedAlumni(ctx context.Context) ([]models.Alumni, error) {
	return r.listAlumni(ctx, `SELECT `+alumniColumns+` FROM alumni WHERE is_verified = 1 ORDER BY graduation_year DESC`)
}

func (r *Repo) ListMentors(ctx context.Context) ([]models.Alumni, error) {
	return r.listAlumni(ctx, `SELECT `+alumniColumns+` FROM alumni
		WHERE willing_to_mentor = 1 AND is_verified = 1 ORDER BY years_of_experience DESC`)
}

func (r *Repo) ListReferralAvailable(ctx context.Context) ([]models.Alumni, error) {
	return r.listAlumni(ctx, `SELECT `+alumniColumns+` FROM alumni
		WHERE available_for_referrals = 1 AND is_verified = 1`)
}

func (r *Repo) ListAlumniByYear(ctx context.Context, year int) ([]models.Alumni, error) {
	return r.listAlumni(ctx, `SELECT `+alumniColumns+` FROM alumni
		WHERE graduation_year = ? AND is_verified = 1`, year)
}

func (r *Repo) SearchAlumniByCompany(ctx context.Context, companyName string) ([]models.Alumni, error) {
	return r.listAlumni(ctx, `SELECT `+alumniColumns+` FROM alumni
		WHERE current_company LIKE '%' || ? || '%' AND is_verified = 1`, companyName)
}

func (r *Repo) SetAlumniVerified(ctx context.Context, id int64, verified bool) error {
	_, err := r.conn.Exec(ctx, `UPDATE alumni SET is_verified = ?, last_updated = ? WHERE id = ?`, verified, now(), id)
	return err
}

func (r *Repo) listAlumni(ctx context.Context, query string, args ...any) ([]models.Alumni, error) {
	rows, err := r.conn.QueryRows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Alumni
	for rows.Next() {
		a, err := scanAlumni(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}

	return out, rows.Err()
}
