// Package database provides database operations for the insurance advisor engine.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"insurance-advisor-engine/internal/models"
)

// CustomerRepository handles customer database operations.
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a new customer repository.
func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, user_id, gender, area, qualification, income, vintage,
		claim_amount, policies_count, policies_chosen, policy_type, marital_status,
		is_prominent, prominence_score, created_at, updated_at`

// Upsert creates or updates the customer record for a user with the
// latest assessment profile. Reassessment overwrites the previous
// profile; the prominence fields are left untouched until
// UpdateProminence runs.
func (r *CustomerRepository) Upsert(ctx context.Context, userID int64, profile *models.AssessmentProfile) (*models.Customer, error) {
	query := `
		INSERT INTO customers (
			user_id, gender, area, qualification, income, vintage, claim_amount,
			policies_count, policies_chosen, policy_type, marital_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender,
			area = EXCLUDED.area,
			qualification = EXCLUDED.qualification,
			income = EXCLUDED.income,
			vintage = EXCLUDED.vintage,
			claim_amount = EXCLUDED.claim_amount,
			policies_count = EXCLUDED.policies_count,
			policies_chosen = EXCLUDED.policies_chosen,
			policy_type = EXCLUDED.policy_type,
			marital_status = EXCLUDED.marital_status,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + customerColumns

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query,
		userID,
		string(profile.Gender),
		string(profile.Area),
		profile.Qualification,
		profile.Income,
		profile.Vintage,
		profile.ClaimAmount,
		profile.PoliciesCount,
		profile.PoliciesChosen,
		profile.PolicyType,
		string(profile.MaritalStatus),
		time.Now().UTC(),
	))

	if err != nil {
		return nil, fmt.Errorf("failed to upsert customer: %w", err)
	}

	return customer, nil
}

// UpdateProminence persists a freshly computed prominence result.
func (r *CustomerRepository) UpdateProminence(ctx context.Context, id int64, result models.ProminenceResult) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE customers SET is_prominent = $1, prominence_score = $2, updated_at = $3 WHERE id = $4",
		result.IsProminent, result.ProminenceScore, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update prominence: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by their database ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// GetByUserID retrieves a customer by their external user ID.
func (r *CustomerRepository) GetByUserID(ctx context.Context, userID int64) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE user_id = $1`

	customer, err := scanCustomer(r.db.QueryRowContext(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by user ID: %w", err)
	}

	return customer, nil
}

// GetProminent retrieves all prominent customers ordered by descending
// prominence score, for the manager dashboard.
func (r *CustomerRepository) GetProminent(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers
		WHERE is_prominent = true
		ORDER BY prominence_score DESC, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query prominent customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	return customers, nil
}

// Stats computes the manager dashboard summary in a single query.
func (r *CustomerRepository) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_prominent)
		FROM customers`).Scan(&stats.TotalCustomers, &stats.ProminentCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	if stats.TotalCustomers > 0 {
		stats.ConversionRate = float64(stats.ProminentCustomers) / float64(stats.TotalCustomers) * 100
	}

	return stats, nil
}

// scanCustomer scans a single row into a Customer.
func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var customer models.Customer
	var gender, area, maritalStatus string

	err := row.Scan(
		&customer.ID,
		&customer.UserID,
		&gender,
		&area,
		&customer.Qualification,
		&customer.Income,
		&customer.Vintage,
		&customer.ClaimAmount,
		&customer.PoliciesCount,
		&customer.PoliciesChosen,
		&customer.PolicyType,
		&maritalStatus,
		&customer.IsProminent,
		&customer.ProminenceScore,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	customer.Gender = models.Gender(gender)
	customer.Area = models.Area(area)
	customer.MaritalStatus = models.MaritalStatus(maritalStatus)

	return &customer, nil
}
