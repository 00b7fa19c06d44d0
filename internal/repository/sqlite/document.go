package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandk/placement/pkg/models"
)

func (r *Repo) CreateResume(ctx context.Context, res *models.Resume) (int64, error) {
	if res == nil {
		return 0, fmt.Errorf("resume is nil")
	}

	out, err := r.conn.Exec(ctx, `INSERT INTO resumes
		(student_id, file_name, file_path, file_size, mime_type, is_primary, uploaded)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.StudentID, res.FileName, res.FilePath, res.FileSize, res.MimeType, res.IsPrimary, now())
	if err != nil {
		return 0, mapErr(err)
	}

	return out.LastInsertId()
}

func (r *Repo) ListResumesByStudent(ctx context.Context, studentID int64) ([]models.Resume, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, student_id, file_name, file_path, file_size, mime_type, is_primary, uploaded
		FROM resumes WHERE student_id = ? ORDER BY uploaded DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Resume
	for rows.Next() {
		var res models.Resume
		if err := rows.Scan(&res.ID, &res.StudentID, &res.FileName, &res.FilePath, &res.FileSize,
			&res.MimeType, &res.IsPrimary, &res.Uploaded); err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	return out, rows.Err()
}

// SetPrimaryResume marks one resume primary and clears the flag on the
// student's others.
func (r *Repo) SetPrimaryResume(ctx context.Context, studentID, resumeID int64) error {
	if _, err := r.conn.Exec(ctx, `UPDATE resumes SET is_primary = 0 WHERE student_id = ?`, studentID); err != nil {
		return err
	}
	_, err := r.conn.Exec(ctx, `UPDATE resumes SET is_primary = 1 WHERE id = ? AND student_id = ?`, resumeID, studentID)
	return err
}

func (r *Repo) DeleteResume(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM resumes WHERE id = ?`, id)
	return err
}

const documentColumns = `id, student_id, document_type, file_name, file_path, uploaded,
	verification_status, verified_by, verified_at, rejection_reason, expiry_date, is_active`

func scanDocument(row interface{ Scan(...any) error }) (*models.Document, error) {
	var d models.Document
	if err := row.Scan(&d.ID, &d.StudentID, &d.DocumentType, &d.FileName, &d.FilePath, &d.Uploaded,
		&d.VerificationStatus, &d.VerifiedBy, &d.VerifiedAt, &d.RejectionReason, &d.ExpiryDate, &d.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &d, nil
}

func (r *Repo) CreateDocument(ctx context.Context, d *models.Document) (int64, error) {
	if d == nil {
		return 0, fmt.Errorf("document is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO documents
		(student_id, document_type, file_name, file_path, uploaded, verification_status, expiry_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.StudentID, d.DocumentType, d.FileName, d.FilePath, now(),
		string(models.VerificationPending), d.ExpiryDate, d.IsActive)
	if err != nil {
		return 0, mapErr(err)
	}

	return res.LastInsertId()
}

func (r *Repo) ListDocumentsByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+documentColumns+` FROM documents
		WHERE student_id = ? AND is_active = 1 ORDER BY uploaded DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (r *Repo) ListPendingDocuments(ctx context.Context) ([]models.Document, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+documentColumns+` FROM documents
		WHERE verification_status = 'pending' ORDER BY uploaded ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func (r *Repo) SetVerification(ctx context.Context, id int64, status models.VerificationStatus, verifiedBy int64, reason *string, timestamp int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE documents SET verification_status = ?, verified_by = ?, verified_at = ?, rejection_reason = ?
		WHERE id = ?`, string(status), verifiedBy, timestamp, reason, id)
	return err
}

func collectDocuments(rows *sql.Rows) ([]models.Document, error) {
	var out []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}

	return out, rows.Err()
}
