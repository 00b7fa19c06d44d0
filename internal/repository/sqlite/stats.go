package sqlite

import (
	"context"
	"database/sql"

	"github.com/anandk/placement/pkg/models"
)

// GetPlacementStats aggregates the read-side counters used by reports and
// dashboards, from one snapshot per counter.
func (r *Repo) GetPlacementStats(ctx context.Context) (*models.PlacementStats, error) {
	var s models.PlacementStats

	row := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM companies WHERE is_active = 1`)
	if err := row.Scan(&s.ActiveCompanies); err != nil {
		return nil, err
	}

	row = r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM applications`)
	if err := row.Scan(&s.TotalApplications); err != nil {
		return nil, err
	}

	row = r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE status = 'SELECTED'`)
	if err := row.Scan(&s.TotalSelected); err != nil {
		return nil, err
	}

	var avg, max sql.NullFloat64
	row = r.conn.QueryRow(ctx, `SELECT AVG(package_amount) FROM companies WHERE is_active = 1`)
	if err := row.Scan(&avg); err != nil {
		return nil, err
	}
	row = r.conn.QueryRow(ctx, `SELECT MAX(package_amount) FROM companies`)
	if err := row.Scan(&max); err != nil {
		return nil, err
	}
	if avg.Valid {
		s.AveragePackage = avg.Float64
	}
	if max.Valid {
		s.HighestPackage = max.Float64
	}

	return &s, nil
}
