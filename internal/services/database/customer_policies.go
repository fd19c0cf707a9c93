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

// CustomerPolicyRepository handles customer-policy link operations.
type CustomerPolicyRepository struct {
	db *DB
}

// NewCustomerPolicyRepository creates a new customer policy repository.
func NewCustomerPolicyRepository(db *DB) *CustomerPolicyRepository {
	return &CustomerPolicyRepository{db: db}
}

// ReplaceRecommendations atomically replaces the customer's recommended
// policy links with the given policy IDs. Recomputing an assessment is
// idempotent: stale recommendations never accumulate. Links the customer
// has already accepted or declined are kept.
func (r *CustomerPolicyRepository) ReplaceRecommendations(ctx context.Context, customerID int64, policyIDs []int64) error {
	now := time.Now().UTC()

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			"DELETE FROM customer_policies WHERE customer_id = $1 AND status = $2",
			customerID, string(models.CustomerPolicyStatusRecommended))
		if err != nil {
			return fmt.Errorf("failed to clear previous recommendations: %w", err)
		}

		for _, policyID := range policyIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO customer_policies (customer_id, policy_id, status, created_at)
				VALUES ($1, $2, $3, $4)`,
				customerID, policyID, string(models.CustomerPolicyStatusRecommended), now)
			if err != nil {
				return fmt.Errorf("failed to link policy %d: %w", policyID, err)
			}
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("failed to replace recommendations: %w", err)
	}

	return nil
}

// UpdateStatus changes the status of a customer-policy link.
func (r *CustomerPolicyRepository) UpdateStatus(ctx context.Context, id int64, status models.CustomerPolicyStatus) error {
	affected, err := r.db.ExecContext(ctx,
		"UPDATE customer_policies SET status = $1 WHERE id = $2",
		string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update customer policy status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("customer policy %d not found", id)
	}
	return nil
}

// GetByCustomerID retrieves all policy links for a customer.
func (r *CustomerPolicyRepository) GetByCustomerID(ctx context.Context, customerID int64) ([]*models.CustomerPolicy, error) {
	query := `
		SELECT id, customer_id, policy_id, status, created_at
		FROM customer_policies
		WHERE customer_id = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer policies: %w", err)
	}
	defer rows.Close()

	var links []*models.CustomerPolicy
	for rows.Next() {
		var link models.CustomerPolicy
		var status string
		if err := rows.Scan(&link.ID, &link.CustomerID, &link.PolicyID, &status, &link.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer policy: %w", err)
		}
		link.Status = models.CustomerPolicyStatus(status)
		links = append(links, &link)
	}

	return links, nil
}

// GetWithDetails retrieves a customer's policy links joined with the full
// policy records for display.
func (r *CustomerPolicyRepository) GetWithDetails(ctx context.Context, customerID int64) ([]*models.CustomerPolicyWithDetails, error) {
	query := `
		SELECT cp.id, cp.customer_id, cp.policy_id, cp.status, cp.created_at,
			p.id, p.name, p.description, p.category, p.provider, p.premium, p.coverage,
			p.eligibility_criteria, p.benefits, p.is_government_policy, p.created_at
		FROM customer_policies cp
		JOIN policies p ON p.id = cp.policy_id
		WHERE cp.customer_id = $1
		ORDER BY cp.id`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer policies with details: %w", err)
	}
	defer rows.Close()

	var results []*models.CustomerPolicyWithDetails
	for rows.Next() {
		var item models.CustomerPolicyWithDetails
		var policy models.Policy
		var status string
		var criteriaJSON, benefitsJSON []byte

		err := rows.Scan(
			&item.ID,
			&item.CustomerID,
			&item.PolicyID,
			&status,
			&item.CreatedAt,
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
			return nil, fmt.Errorf("failed to scan customer policy details: %w", err)
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

		item.Status = models.CustomerPolicyStatus(status)
		item.Policy = &policy
		results = append(results, &item)
	}

	return results, nil
}
