// Package models defines the data structures for the insurance advisor engine.
package models

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrInvalidGender         = errors.New("invalid gender")
	ErrInvalidArea           = errors.New("area must be urban or rural")
	ErrInvalidMaritalStatus  = errors.New("invalid marital status")
	ErrEmptyQualification    = errors.New("qualification cannot be empty")
	ErrEmptyIncome           = errors.New("income bracket cannot be empty")
	ErrEmptyPolicyType       = errors.New("policy type cannot be empty")
	ErrNegativeVintage       = errors.New("vintage cannot be negative")
	ErrNegativeClaimAmount   = errors.New("claim amount cannot be negative")
	ErrNegativePoliciesCount = errors.New("policies count cannot be negative")
	ErrNoPoliciesChosen      = errors.New("at least one policy category must be chosen")
	ErrEmptyPolicyName       = errors.New("policy name cannot be empty")
	ErrEmptyPolicyCategory   = errors.New("policy category cannot be empty")
	ErrEmptyPolicyProvider   = errors.New("policy provider cannot be empty")
	ErrMissingUserID         = errors.New("user_id is required")
)

// NormalizeCategory converts a policy category code to canonical form.
func NormalizeCategory(category string) string {
	normalized := strings.ToLower(strings.TrimSpace(category))
	return strings.ReplaceAll(normalized, " ", "-")
}

// ValidateAssessment validates an assessment profile before it reaches the
// engine. Unknown codes for qualification, income and policy type are
// accepted here; the feature encoder maps them to its default entry.
func ValidateAssessment(p *AssessmentProfile) error {
	if !p.Gender.IsValid() {
		return ErrInvalidGender
	}

	if !p.Area.IsValid() {
		return ErrInvalidArea
	}

	if !p.MaritalStatus.IsValid() {
		return ErrInvalidMaritalStatus
	}

	if strings.TrimSpace(p.Qualification) == "" {
		return ErrEmptyQualification
	}

	if strings.TrimSpace(p.Income) == "" {
		return ErrEmptyIncome
	}

	if strings.TrimSpace(p.PolicyType) == "" {
		return ErrEmptyPolicyType
	}

	if p.Vintage < 0 {
		return ErrNegativeVintage
	}

	if p.ClaimAmount < 0 {
		return ErrNegativeClaimAmount
	}

	if p.PoliciesCount < 0 {
		return ErrNegativePoliciesCount
	}

	if len(p.ChosenCategories()) == 0 {
		return ErrNoPoliciesChosen
	}

	return nil
}

// ValidatePolicyCreate validates policy catalog entries before insertion.
func ValidatePolicyCreate(p *PolicyCreate) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyPolicyName
	}

	if strings.TrimSpace(p.Category) == "" {
		return ErrEmptyPolicyCategory
	}

	if strings.TrimSpace(p.Provider) == "" {
		return ErrEmptyPolicyProvider
	}

	return nil
}
