// Package models defines the data structures for the insurance advisor engine.
package models

import (
	"time"
)

// Policy category codes. The scoring engine only ever reads a policy's
// category and government flag; every other field passes through for
// display.
const (
	CategoryHealth     = "health"
	CategoryLife       = "life"
	CategoryVehicle    = "vehicle"
	CategoryAccident   = "accident"
	CategoryCrop       = "crop"
	CategoryHome       = "home"
	CategoryInvestment = "investment"
)

// KnownCategories returns the policy categories the engine can score.
// A policy with a category outside this list simply scores zero.
func KnownCategories() []string {
	return []string{
		CategoryHealth,
		CategoryLife,
		CategoryVehicle,
		CategoryAccident,
		CategoryCrop,
		CategoryHome,
		CategoryInvestment,
	}
}

// Policy represents an insurance policy from the catalog.
type Policy struct {
	ID                  int64                  `json:"id" db:"id"`
	Name                string                 `json:"name" db:"name"`
	Description         string                 `json:"description" db:"description"`
	Category            string                 `json:"category" db:"category"`
	Provider            string                 `json:"provider" db:"provider"`
	Premium             *int64                 `json:"premium,omitempty" db:"premium"`
	Coverage            *int64                 `json:"coverage,omitempty" db:"coverage"`
	EligibilityCriteria map[string]interface{} `json:"eligibility_criteria,omitempty" db:"eligibility_criteria"`
	Benefits            map[string]interface{} `json:"benefits,omitempty" db:"benefits"`
	IsGovernmentPolicy  bool                   `json:"is_government_policy" db:"is_government_policy"`
	CreatedAt           time.Time              `json:"created_at" db:"created_at"`
}

// PolicyCreate represents the data needed to add a policy to the catalog.
type PolicyCreate struct {
	Name                string                 `json:"name" validate:"required,min=1,max=255"`
	Description         string                 `json:"description" validate:"required"`
	Category            string                 `json:"category" validate:"required"`
	Provider            string                 `json:"provider" validate:"required,min=1,max=255"`
	Premium             *int64                 `json:"premium,omitempty"`
	Coverage            *int64                 `json:"coverage,omitempty"`
	EligibilityCriteria map[string]interface{} `json:"eligibility_criteria,omitempty"`
	Benefits            map[string]interface{} `json:"benefits,omitempty"`
	IsGovernmentPolicy  bool                   `json:"is_government_policy"`
}

// PolicySummary is a lightweight view of a policy for listings.
type PolicySummary struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Category           string `json:"category"`
	Provider           string `json:"provider"`
	Premium            *int64 `json:"premium,omitempty"`
	Coverage           *int64 `json:"coverage,omitempty"`
	IsGovernmentPolicy bool   `json:"is_government_policy"`
}

// ToSummary converts a Policy to PolicySummary.
func (p *Policy) ToSummary() PolicySummary {
	return PolicySummary{
		ID:                 p.ID,
		Name:               p.Name,
		Category:           p.Category,
		Provider:           p.Provider,
		Premium:            p.Premium,
		Coverage:           p.Coverage,
		IsGovernmentPolicy: p.IsGovernmentPolicy,
	}
}

// CSVPolicyRow represents a row from an uploaded policy catalog CSV file.
type CSVPolicyRow struct {
	Name               string `csv:"name"`
	Description        string `csv:"description"`
	Category           string `csv:"category"`
	Provider           string `csv:"provider"`
	Premium            string `csv:"premium"`
	Coverage           string `csv:"coverage"`
	IsGovernmentPolicy string `csv:"is_government_policy"`
}

// BulkInsertResult contains the results of a bulk catalog insert.
type BulkInsertResult struct {
	InsertedCount int      `json:"inserted_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors,omitempty"`
}
