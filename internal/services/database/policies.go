// Package database provides database operations for the insurance advisor engine.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"insurance-advisor-engine/internal/models"
)

// PolicyRepository handles policy catalog database operations.
type PolicyRepository struct {
	db *DB
}

// NewPolicyRepository creates a new policy repository.
func NewPolicyRepository(db *DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

const policyColumns = `id, name, description, category, provider, premium, coverage,
		eligibility_criteria, benefits, is_government_policy, created_at`

// Create inserts a new policy into the catalog.
func (r *PolicyRepository) Create(ctx context.Context, policy *models.PolicyCreate) (int64, error) {
	criteriaJSON, err := json.Marshal(policy.EligibilityCriteria)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal eligibility criteria: %w", err)
	}

	benefitsJSON, err := json.Marshal(policy.Benefits)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal benefits: %w", err)
	}

	query := `
		INSERT INTO policies (
			name, description, category, provider, premium, coverage,
			eligibility_criteria, benefits, is_government_policy, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		policy.Name,
		policy.Description,
		models.NormalizeCategory(policy.Category),
		policy.Provider,
		policy.Premium,
		policy.Coverage,
		string(criteriaJSON),
		string(benefitsJSON),
		policy.IsGovernmentPolicy,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create policy: %w", err)
	}

	return id, nil
}

// BulkInsert inserts multiple policies into the catalog. Row failures are
// collected rather than aborting the batch.
func (r *PolicyRepository) BulkInsert(ctx context.Context, policies []*models.PolicyCreate) (*models.BulkInsertResult, error) {
	result := &models.BulkInsertResult{
		InsertedCount: 0,
		FailedCount:   0,
		Errors:        []string{},
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, policy := range policies {
			criteriaJSON, err := json.Marshal(policy.EligibilityCriteria)
			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("policy %s: %v", policy.Name, err))
				continue
			}

			benefitsJSON, err := json.Marshal(policy.Benefits)
			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("policy %s: %v", policy.Name, err))
				continue
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO policies (
					name, description, category, provider, premium, coverage,
					eligibility_criteria, benefits, is_government_policy, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				policy.Name,
				policy.Description,
				models.NormalizeCategory(policy.Category),
				policy.Provider,
				policy.Premium,
				policy.Coverage,
				string(criteriaJSON),
				string(benefitsJSON),
				policy.IsGovernmentPolicy,
				time.Now().UTC(),
			)

			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("policy %s: %v", policy.Name, err))
			} else {
				result.InsertedCount++
			}
		}
		return nil
	})

	if err != nil {
		return result, fmt.Errorf("bulk insert failed: %w", err)
	}

	return result, nil
}

// GetByID retrieves a policy by its ID.
func (r *PolicyRepository) GetByID(ctx context.Context, id int64) (*models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE id = $1`

	policy, err := scanPolicy(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	return policy, nil
}

// GetAll retrieves the full policy catalog in insertion order.
func (r *PolicyRepository) GetAll(ctx context.Context) ([]*models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies ORDER BY id`
	return r.queryPolicies(ctx, query)
}

// GetByCategory retrieves all policies in a category.
func (r *PolicyRepository) GetByCategory(ctx context.Context, category string) ([]*models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE category = $1 ORDER BY id`
	return r.queryPolicies(ctx, query, models.NormalizeCategory(category))
}

// GetGovernment retrieves all government-backed policies.
func (r *PolicyRepository) GetGovernment(ctx context.Context) ([]*models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies WHERE is_government_policy = true ORDER BY id`
	return r.queryPolicies(ctx, query)
}

// Count returns the number of policies in the catalog.
func (r *PolicyRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM policies").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count policies: %w", err)
	}
	return count, nil
}

// queryPolicies runs a catalog query and scans the result rows.
func (r *PolicyRepository) queryPolicies(ctx context.Context, query string, args ...interface{}) ([]*models.Policy, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query policies: %w", err)
	}
	defer rows.Close()

	var policies []*models.Policy
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies = append(policies, policy)
	}

	return policies, nil
}

// scanPolicy scans a single row into a Policy. The jsonb columns arrive
// as raw bytes and are decoded into open key-value maps.
func scanPolicy(row pgx.Row) (*models.Policy, error) {
	var policy models.Policy
	var criteriaJSON, benefitsJSON []byte

	err := row.Scan(
		&policy.ID,
		&policy.Name,
		&policy.Description,
		&policy.Category,
		&policy.Provider,
		&policy.Premium,
		&policy.Coverage,
		&criteriaJSON,
		&benefitsJSON,
		&policy.IsGovernmentPolicy,
		&policy.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	if len(criteriaJSON) > 0 {
		if err := json.Unmarshal(criteriaJSON, &policy.EligibilityCriteria); err != nil {
			return nil, fmt.Errorf("failed to decode eligibility criteria: %w", err)
		}
	}

	if len(benefitsJSON) > 0 {
		if err := json.Unmarshal(benefitsJSON, &policy.Benefits); err != nil {
			return nil, fmt.Errorf("failed to decode benefits: %w", err)
		}
	}

	return &policy, nil
}
