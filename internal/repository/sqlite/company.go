package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anandk/placement/pkg/models"
	"github.com/anandk/placement/pkg/repository"
)

const companyColumns = `id, company_name, company_logo, job_role, job_description, package_amount, location,
	eligible_branches, minimum_cgpa, max_backlogs, selection_process, number_of_rounds,
	application_deadline, drive_date, is_active, total_positions, filled_positions,
	posted_by, posted, website_url, company_type, bond, employees_count,
	work_from_home, learning_opportunities, growth_potential`

func scanCompany(row interface{ Scan(...any) error }) (*models.Company, error) {
	var c models.Company
	if err := row.Scan(&c.ID, &c.CompanyName, &c.CompanyLogo, &c.JobRole, &c.JobDescription, &c.PackageAmount, &c.Location,
		&c.EligibleBranches, &c.MinimumCGPA, &c.MaxBacklogs, &c.SelectionProcess, &c.NumberOfRounds,
		&c.ApplicationDeadline, &c.DriveDate, &c.IsActive, &c.TotalPositions, &c.FilledPositions,
		&c.PostedBy, &c.Posted, &c.WebsiteURL, &c.CompanyType, &c.Bond, &c.EmployeesCount,
		&c.WorkFromHome, &c.LearningOpportunities, &c.GrowthPotential); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &c, nil
}

func (r *Repo) CreateCompany(ctx context.Context, c *models.Company) (int64, error) {
	if c == nil {
		return 0, fmt.Errorf("company is nil")
	}

	res, err := r.conn.Exec(ctx, `INSERT INTO companies
		(company_name, company_logo, job_role, job_description, package_amount, location,
		 eligible_branches, minimum_cgpa, max_backlogs, selection_process, number_of_rounds,
		 application_deadline, drive_date, is_active, total_positions, filled_positions,
		 posted_by, posted, website_url, company_type, bond, employees_count,
		 work_from_home, learning_opportunities, growth_potential)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CompanyName, c.CompanyLogo, c.JobRole, c.JobDescription, c.PackageAmount, c.Location,
		c.EligibleBranches, c.MinimumCGPA, c.MaxBacklogs, c.SelectionProcess, c.NumberOfRounds,
		c.ApplicationDeadline, c.DriveDate, c.IsActive, c.TotalPositions, c.FilledPositions,
		c.PostedBy, now(), c.WebsiteURL, c.CompanyType, c.Bond, c.EmployeesCount,
		c.WorkFromHome, c.LearningOpportunities, c.GrowthPotential)
	if err != nil {
		return 0, mapErr(err)
	}

	id, err := res.LastInsertId()
	if err == nil {
		r.hub.publish(topicCompanies)
	}

	return id, err
}

func (r *Repo) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	return scanCompany(row)
}

func (r *Repo) UpdateCompany(ctx context.Context, c *models.Company) error {
	if c == nil {
		return fmt.Errorf("company is nil")
	}

	_, err := r.conn.Exec(ctx, `UPDATE companies SET
		company_name = ?, company_logo = ?, job_role = ?, job_description = ?, package_amount = ?,
		location = ?, eligible_branches = ?, minimum_cgpa = ?, max_backlogs = ?, selection_process = ?,
		number_of_rounds = ?, application_deadline = ?, drive_date = ?, is_active = ?,
		total_positions = ?, filled_positions = ?, website_url = ?, company_type = ?, bond = ?,
		employees_count = ?, work_from_home = ?, learning_opportunities = ?, growth_potential = ?
		WHERE id = ?`,
		c.CompanyName, c.CompanyLogo, c.JobRole, c.JobDescription, c.PackageAmount,
		c.Location, c.EligibleBranches, c.MinimumCGPA, c.MaxBacklogs, c.SelectionProcess,
		c.NumberOfRounds, c.ApplicationDeadline, c.DriveDate, c.IsActive,
		c.TotalPositions, c.FilledPositions, c.WebsiteURL, c.CompanyType, c.Bond,
		c.EmployeesCount, c.WorkFromHome, c.LearningOpportunities, c.GrowthPotential, c.ID)
	if err != nil {
		return mapErr(err)
	}

	r.hub.publish(topicCompanies)
	return nil
}

func (r *Repo) DeleteCompany(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM companies WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}

	r.hub.publish(topicCompanies)
	r.hub.publish(topicApplications)
	return nil
}

func (r *Repo) ListCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY posted DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompanies(rows)
}

func (r *Repo) ListActiveCompanies(ctx context.Context) ([]models.Company, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+companyColumns+` FROM companies WHERE is_active = 1 ORDER BY posted DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompanies(rows)
}

func (r *Repo) ListCompaniesByBranch(ctx context.Context, branch string) ([]models.Company, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+companyColumns+` FROM companies
		WHERE is_active = 1 AND eligible_branches LIKE '%' || ? || '%' ORDER BY package_amount DESC`, branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompanies(rows)
}

func (r *Repo) ListEligibleCompanies(ctx context.Context, cgpa float64) ([]models.Company, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+companyColumns+` FROM companies
		WHERE is_active = 1 AND minimum_cgpa <= ? ORDER BY package_amount DESC`, cgpa)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompanies(rows)
}

func (r *Repo) SearchCompanies(ctx context.Context, query string) ([]models.Company, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+companyColumns+` FROM companies
		WHERE company_name LIKE '%' || ? || '%' OR job_role LIKE '%' || ? || '%'`, query, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCompanies(rows)
}

// IncrementFilledPositions refuses to push filled past total; a full company
// reports ErrConstraint so exactly one caller wins the last position.
func (r *Repo) IncrementFilledPositions(ctx context.Context, companyID int64) error {
	res, err := r.conn.Exec(ctx,
		`UPDATE companies SET filled_positions = filled_positions + 1
		 WHERE id = ? AND filled_positions < total_positions`, companyID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrConstraint
	}

	r.hub.publish(topicCompanies)
	return nil
}

func (r *Repo) SetCompanyActive(ctx context.Context, companyID int64, active bool) error {
	_, err := r.conn.Exec(ctx, `UPDATE companies SET is_active = ? WHERE id = ?`, active, companyID)
	if err != nil {
		return err
	}

	r.hub.publish(topicCompanies)
	return nil
}

func collectCompanies(rows *sql.Rows) ([]models.Company, error) {
	var out []models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}

	return out, rows.Err()
}
