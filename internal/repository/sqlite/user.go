package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandk/placement/pkg/models"
)

const userColumns = `id, email, password_hash, full_name, phone, role, college_id, roll_number, branch, cgpa,
	profile_image_url, professional_summary, skills, internships, projects, certifications,
	linkedin_url, resume_url, is_active, created, last_login`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.Role,
		&u.CollegeID, &u.RollNumber, &u.Branch, &u.CGPA,
		&u.ProfileImageURL, &u.ProfessionalSummary, &u.Skills, &u.Internships, &u.Projects, &u.Certifications,
		&u.LinkedinURL, &u.ResumeURL, &u.IsActive, &u.Created, &u.LastLogin); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &u, nil
}

func (r *Repo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO users
		(email, password_hash, full_name, phone, role, college_id, roll_number, branch, cgpa,
		 profile_image_url, professional_summary, skills, internships, projects, certifications,
		 linkedin_url, resume_url, is_active, created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Email, u.PasswordHash, u.FullName, u.Phone, string(u.Role), u.CollegeID, u.RollNumber, u.Branch, u.CGPA,
		u.ProfileImageURL, u.ProfessionalSummary, u.Skills, u.Internships, u.Projects, u.Certifications,
		u.LinkedinURL, u.ResumeURL, u.IsActive, now())
	if err != nil {
		return 0, mapErr(err)
	}

	return res.LastInsertId()
}

func (r *Repo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetUserByIdentifier matches email, phone, or college id interchangeably.
func (r *Repo) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users
		WHERE email = ? OR phone = ? OR (college_id IS NOT NULL AND college_id = ?) LIMIT 1`,
		identifier, identifier, identifier)
	return scanUser(row)
}

func (r *Repo) GetStudentByRollNumber(ctx context.Context, rollNumber string) (*models.User, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users
		WHERE role = 'STUDENT' AND roll_number = ? LIMIT 1`, rollNumber)
	return scanUser(row)
}

func (r *Repo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE users SET
		email = ?, password_hash = ?, full_name = ?, phone = ?, role = ?, college_id = ?,
		roll_number = ?, branch = ?, cgpa = ?, profile_image_url = ?, professional_summary = ?,
		skills = ?, internships = ?, projects = ?, certifications = ?, linkedin_url = ?,
		resume_url = ?, is_active = ? WHERE id = ?`,
		u.Email, u.PasswordHash, u.FullName, u.Phone, string(u.Role), u.CollegeID,
		u.RollNumber, u.Branch, u.CGPA, u.ProfileImageURL, u.ProfessionalSummary,
		u.Skills, u.Internships, u.Projects, u.Certifications, u.LinkedinURL,
		u.ResumeURL, u.IsActive, u.ID)
	return mapErr(err)
}

func (r *Repo) DeleteUser(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	return mapErr(err)
}

func (r *Repo) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, now(), userID)
	return err
}

func (r *Repo) SetUserActive(ctx context.Context, userID int64, active bool) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET is_active = ? WHERE id = ?`, active, userID)
	return err
}

func (r *Repo) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY full_name ASC`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *Repo) ListStudentsByBranch(ctx context.Context, branch string) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+userColumns+` FROM users
		WHERE role = 'STUDENT' AND branch = ? ORDER BY full_name ASC`, branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}

	return out, rows.Err()
}
