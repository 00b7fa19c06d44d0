package db_test

import (
	"context"
	"testing"

	dbfs "github.com/anandk/placement/db"
	"github.com/anandk/placement/internal/db"
)

// Note: this test uses an in-memory sqlite database to validate idempotent
// behavior of Migrate.
func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	// create in-memory DB
	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	// Run Migrate using the embedded migrations and seed files included in package db
	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	// Run again to ensure idempotency
	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}

	// verify schema_migrations has every numbered migration recorded
	var count int
	row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count < 4 {
		t.Fatalf("expected at least 4 migrations recorded, got %d", count)
	}

	// verify known tables from the embedded migrations exist
	for _, table := range []string{"users", "companies", "applications", "interviews", "notifications", "alumni"} {
		var name string
		r := d.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		if err := r.Scan(&name); err != nil {
			t.Fatalf("expected %s table exists: %v", table, err)
		}
	}

	// the v1 profile schema seed should be present
	var version string
	r := d.QueryRow(ctx, `SELECT version FROM profile_schemas WHERE version='v1'`)
	if err := r.Scan(&version); err != nil {
		t.Fatalf("expected seeded profile schema: %v", err)
	}
}

func TestMigrate_UniqueActiveApplication(t *testing.T) {
	ctx := context.Background()

	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	if _, err := d.Exec(ctx, `INSERT INTO users (email, password_hash, full_name, phone, role, created) VALUES ('s@x.edu', 'h', 'S', '111', 'STUDENT', 0)`); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := d.Exec(ctx, `INSERT INTO companies (company_name, job_role, job_description, package_amount, location, eligible_branches, minimum_cgpa, selection_process, number_of_rounds, application_deadline, total_positions, posted_by, posted, company_type) VALUES ('Acme', 'SDE', 'd', 10, 'BLR', 'CSE', 6, 'p', 2, '2099-01-01', 5, 1, 0, 'Product')`); err != nil {
		t.Fatalf("insert company: %v", err)
	}

	insert := `INSERT INTO applications (student_id, company_id, status, applied, last_updated) VALUES (1, 1, ?, 0, 0)`
	if _, err := d.Exec(ctx, insert, "PENDING"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	// same pair again while the first is live must hit the partial unique index
	if _, err := d.Exec(ctx, insert, "PENDING"); err == nil {
		t.Fatalf("expected unique violation for duplicate live application")
	}
	// withdrawn rows do not block a fresh application
	if _, err := d.Exec(ctx, `UPDATE applications SET status='WITHDRAWN' WHERE id=1`); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := d.Exec(ctx, insert, "PENDING"); err != nil {
		t.Fatalf("insert after withdraw: %v", err)
	}
}
