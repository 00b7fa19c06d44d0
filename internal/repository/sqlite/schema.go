package sqlite

import (
	"context"
	"database/sql"

	"github.com/anandk/placement/pkg/models"
)

// CreateSchema inserts or updates a profile schema by version.
func (r *Repo) CreateSchema(ctx context.Context, version, description, schemaJSON string) (int64, error) {
	res, err := r.conn.Exec(ctx, `INSERT INTO profile_schemas (version, description, schema_json, created, updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(version) DO UPDATE SET description=excluded.description, schema_json=excluded.schema_json, updated=excluded.updated`,
		version, description, schemaJSON, now(), now())
	if err != nil {
		return 0, mapErr(err)
	}
	return res.LastInsertId()
}

func (r *Repo) GetSchemaByVersion(ctx context.Context, version string) (*models.ProfileSchema, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, version, description, schema_json, created, updated FROM profile_schemas WHERE version = ?`, version)
	var s models.ProfileSchema
	if err := row.Scan(&s.ID, &s.Version, &s.Description, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) ListSchemas(ctx context.Context) ([]models.ProfileSchema, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, version, description, schema_json, created, updated FROM profile_schemas ORDER BY version`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProfileSchema
	for rows.Next() {
		var s models.ProfileSchema
		if err := rows.Scan(&s.ID, &s.Version, &s.Description, &s.SchemaJSON, &s.Created, &s.Updated); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) DeleteSchema(ctx context.Context, version string) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM profile_schemas WHERE version = ?`, version)
	return err
}
