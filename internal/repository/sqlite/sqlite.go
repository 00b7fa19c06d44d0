package sqlite

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/anandk/placement/internal/db"
	"github.com/anandk/placement/pkg/repository"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Repo implements the repository interfaces using the internal DB wrapper.
type Repo struct {
	conn   *db.DB
	logger *slog.Logger
	hub    *hub
}

// Ensure Repo implements the public interfaces.
var _ repository.UserRepo = (*Repo)(nil)
var _ repository.CompanyRepo = (*Repo)(nil)
var _ repository.ApplicationRepo = (*Repo)(nil)
var _ repository.InterviewRepo = (*Repo)(nil)
var _ repository.ResumeRepo = (*Repo)(nil)
var _ repository.DocumentRepo = (*Repo)(nil)
var _ repository.NotificationRepo = (*Repo)(nil)
var _ repository.AlumniRepo = (*Repo)(nil)
var _ repository.SchemaRepo = (*Repo)(nil)
var _ repository.StatsRepo = (*Repo)(nil)
var _ repository.Watcher = (*Repo)(nil)

func New(conn *db.DB, logger *slog.Logger) *Repo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repo{conn: conn, logger: logger, hub: newHub()}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// prefixColumns qualifies every column in a comma-joined list with a table
// alias, for join queries.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// mapErr translates driver constraint failures onto the repository error
// classes so callers never match on sqlite error codes.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %v", repository.ErrForeignKey, err)
		case sqlite3.SQLITE_CONSTRAINT,
			sqlite3.SQLITE_CONSTRAINT_UNIQUE,
			sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", repository.ErrConstraint, err)
		}
	}
	return err
}
