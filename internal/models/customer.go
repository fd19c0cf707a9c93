// Package models defines the data structures for the insurance advisor engine.
package models

import (
	"time"
)

// Customer represents an assessed customer. The profile fields mirror the
// assessment input; the prominence fields are recomputed on every
// assessment and persisted for the manager views.
type Customer struct {
	ID              int64         `json:"id" db:"id"`
	UserID          int64         `json:"user_id" db:"user_id"`
	Gender          Gender        `json:"gender" db:"gender"`
	Area            Area          `json:"area" db:"area"`
	Qualification   string        `json:"qualification" db:"qualification"`
	Income          string        `json:"income" db:"income"`
	Vintage         int           `json:"vintage" db:"vintage"`
	ClaimAmount     int           `json:"claim_amount" db:"claim_amount"`
	PoliciesCount   int           `json:"policies_count" db:"policies_count"`
	PoliciesChosen  string        `json:"policies_chosen" db:"policies_chosen"`
	PolicyType      string        `json:"policy_type" db:"policy_type"`
	MaritalStatus   MaritalStatus `json:"marital_status" db:"marital_status"`
	IsProminent     bool          `json:"is_prominent" db:"is_prominent"`
	ProminenceScore int           `json:"prominence_score" db:"prominence_score"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// Profile extracts the assessment profile from a stored customer.
func (c *Customer) Profile() AssessmentProfile {
	return AssessmentProfile{
		Gender:         c.Gender,
		Area:           c.Area,
		Qualification:  c.Qualification,
		Income:         c.Income,
		Vintage:        c.Vintage,
		ClaimAmount:    c.ClaimAmount,
		PoliciesCount:  c.PoliciesCount,
		PoliciesChosen: c.PoliciesChosen,
		PolicyType:     c.PolicyType,
		MaritalStatus:  c.MaritalStatus,
	}
}

// CustomerPolicyStatus represents the state of a customer-policy link.
type CustomerPolicyStatus string

const (
	CustomerPolicyStatusRecommended CustomerPolicyStatus = "recommended"
	CustomerPolicyStatusAccepted    CustomerPolicyStatus = "accepted"
	CustomerPolicyStatusDeclined    CustomerPolicyStatus = "declined"
)

// CustomerPolicy links a customer to a recommended policy.
type CustomerPolicy struct {
	ID         int64                `json:"id" db:"id"`
	CustomerID int64                `json:"customer_id" db:"customer_id"`
	PolicyID   int64                `json:"policy_id" db:"policy_id"`
	Status     CustomerPolicyStatus `json:"status" db:"status"`
	CreatedAt  time.Time            `json:"created_at" db:"created_at"`
}

// CustomerPolicyWithDetails contains a customer-policy link with the full
// policy attached for display.
type CustomerPolicyWithDetails struct {
	CustomerPolicy
	Policy *Policy `json:"policy"`
}

// DashboardStats provides summary statistics for the manager dashboard.
type DashboardStats struct {
	TotalCustomers     int     `json:"total_customers"`
	ProminentCustomers int     `json:"prominent_customers"`
	ConversionRate     float64 `json:"conversion_rate"`
}
