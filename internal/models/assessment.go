// Package models defines the data structures for the insurance advisor engine.
package models

import (
	"strings"
	"time"
)

// Gender represents the gender of a customer.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ValidGenders returns all valid gender values.
func ValidGenders() []Gender {
	return []Gender{GenderMale, GenderFemale, GenderOther}
}

// IsValid checks if the gender is valid.
func (g Gender) IsValid() bool {
	for _, valid := range ValidGenders() {
		if g == valid {
			return true
		}
	}
	return false
}

// Area represents the residential area of a customer.
type Area string

const (
	AreaUrban Area = "urban"
	AreaRural Area = "rural"
)

// IsValid checks if the area is valid.
func (a Area) IsValid() bool {
	return a == AreaUrban || a == AreaRural
}

// MaritalStatus represents the marital status of a customer.
type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "single"
	MaritalStatusMarried  MaritalStatus = "married"
	MaritalStatusDivorced MaritalStatus = "divorced"
	MaritalStatusWidowed  MaritalStatus = "widowed"
)

// ValidMaritalStatuses returns all valid marital status values.
func ValidMaritalStatuses() []MaritalStatus {
	return []MaritalStatus{
		MaritalStatusSingle,
		MaritalStatusMarried,
		MaritalStatusDivorced,
		MaritalStatusWidowed,
	}
}

// IsValid checks if the marital status is valid.
func (m MaritalStatus) IsValid() bool {
	for _, valid := range ValidMaritalStatuses() {
		if m == valid {
			return true
		}
	}
	return false
}

// Income bracket codes, ordered from lowest to highest.
const (
	IncomeBelow2L  = "below-2L"
	Income2LTo5L   = "2L-5L"
	Income5LTo10L  = "5L-10L"
	Income10LTo15L = "10L-15L"
	IncomeAbove15L = "above-15L"
)

// IncomeBrackets returns the income bracket codes in ascending order.
func IncomeBrackets() []string {
	return []string{IncomeBelow2L, Income2LTo5L, Income5LTo10L, Income10LTo15L, IncomeAbove15L}
}

// Qualification codes recognized by the feature encoder.
const (
	QualificationHighSchool   = "high-school"
	QualificationGraduate     = "graduate"
	QualificationPostGraduate = "post-graduate"
	QualificationDoctorate    = "doctorate"
	QualificationOther        = "other"
)

// Policy type codes recognized by the feature encoder.
const (
	PolicyTypeIndividual    = "individual"
	PolicyTypeFamilyFloater = "family-floater"
	PolicyTypeGroup         = "group"
	PolicyTypeCorporate     = "corporate"
)

// AssessmentProfile is the structured customer input to the scoring and
// recommendation engine. It is immutable per request; the engine never
// mutates it.
type AssessmentProfile struct {
	Gender         Gender        `json:"gender"`
	Area           Area          `json:"area"`
	Qualification  string        `json:"qualification"`
	Income         string        `json:"income"`
	Vintage        int           `json:"vintage"`
	ClaimAmount    int           `json:"claim_amount"`
	PoliciesCount  int           `json:"policies_count"`
	PoliciesChosen string        `json:"policies_chosen"`
	PolicyType     string        `json:"policy_type"`
	MaritalStatus  MaritalStatus `json:"marital_status"`
}

// ChosenCategories splits the comma-joined policies_chosen field into its
// category codes. Empty entries are dropped; whitespace is trimmed.
func (p *AssessmentProfile) ChosenCategories() []string {
	parts := strings.Split(p.PoliciesChosen, ",")
	categories := make([]string, 0, len(parts))
	for _, part := range parts {
		category := strings.TrimSpace(part)
		if category != "" {
			categories = append(categories, category)
		}
	}
	return categories
}

// HasChosen reports whether the customer already holds a policy in the
// given category.
func (p *AssessmentProfile) HasChosen(category string) bool {
	for _, chosen := range p.ChosenCategories() {
		if chosen == category {
			return true
		}
	}
	return false
}

// AssessmentRequest is the payload accepted by the assessment endpoints.
type AssessmentRequest struct {
	UserID int64 `json:"user_id"`
	AssessmentProfile
}

// ProminenceResult is the outcome of scoring a customer for prominence.
// IsProminent is always derived from the score and the threshold; the two
// fields never disagree.
type ProminenceResult struct {
	IsProminent     bool `json:"is_prominent"`
	ProminenceScore int  `json:"prominence_score"`
}

// AssessmentResponse is the full result returned for an assessment: the
// persisted customer, the prominence outcome, the ranked recommendation
// lists and the generated explanations.
type AssessmentResponse struct {
	Customer           *Customer         `json:"customer"`
	IsProminent        bool              `json:"is_prominent"`
	ProminenceScore    int               `json:"prominence_score"`
	GovernmentPolicies []*Policy         `json:"government_policies"`
	PrivatePolicies    []*Policy         `json:"private_policies"`
	Reasons            map[string]string `json:"reasons"`
	Suggestions        []string          `json:"suggestions"`
	AssessedAt         time.Time         `json:"assessed_at"`
}
