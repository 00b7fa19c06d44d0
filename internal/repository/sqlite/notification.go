package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandk/placement/pkg/models"
)

const notificationColumns = `id, user_id, title, message, type, related_id, tag, is_read, read_at, priority, created`

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.RelatedID, &n.Tag,
		&n.IsRead, &n.ReadAt, &n.Priority, &n.Created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &n, nil
}

func (r *Repo) CreateNotification(ctx context.Context, n *models.Notification) (int64, error) {
	if n == nil {
		return 0, fmt.Errorf("notification is nil")
	}
	if n.Priority == "" {
		n.Priority = "normal"
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO notifications
		(user_id, title, message, type, related_id, tag, is_read, priority, created)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedID, n.Tag, n.Priority, now())
	if err != nil {
		return 0, mapErr(err)
	}

	return res.LastInsertId()
}

func (r *Repo) ListNotificationsByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = ? ORDER BY created DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *Repo) ListUnreadByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+notificationColumns+` FROM notifications
		WHERE user_id = ? AND is_read = 0 ORDER BY created DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectNotifications(rows)
}

func (r *Repo) CountUnreadByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *Repo) MarkNotificationRead(ctx context.Context, id int64, timestamp int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE notifications SET is_read = 1, read_at = ? WHERE id = ?`, timestamp, id)
	return err
}

func (r *Repo) MarkAllRead(ctx context.Context, userID int64, timestamp int64) error {
	_, err := r.conn.Exec(ctx, `UPDATE notifications SET is_read = 1, read_at = ? WHERE user_id = ? AND is_read = 0`, timestamp, userID)
	return err
}

func (r *Repo) DeleteNotificationsByUser(ctx context.Context, userID int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM notifications WHERE user_id = ?`, userID)
	return err
}

func collectNotifications(rows *sql.Rows) ([]models.Notification, error) {
	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *n)
	}

	return out, rows.Err()
}
