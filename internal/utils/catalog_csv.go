// Package utils provides utility functions for the insurance advisor engine.
package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"insurance-advisor-engine/internal/models"
)

// CatalogParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in a catalog CSV.
var RequiredColumns = []string{
	"name",
	"category",
	"provider",
	"is_government_policy",
}

// ColumnAliases maps alternative column names to standard names.
var ColumnAliases = map[string]string{
	// name aliases
	"policy_name": "name",
	"policyname":  "name",
	"policy name": "name",
	"title":       "name",

	// description aliases
	"desc":    "description",
	"details": "description",
	"summary": "description",

	// category aliases
	"type":            "category",
	"policy_category": "category",
	"policycategory":  "category",

	// provider aliases
	"insurer":          "provider",
	"company":          "provider",
	"provider_name":    "provider",
	"providername":     "provider",
	"insurance_company": "provider",

	// premium aliases
	"annual_premium": "premium",
	"annualpremium":  "premium",
	"premium_amount": "premium",
	"price":          "premium",

	// coverage aliases
	"cover":           "coverage",
	"sum_assured":     "coverage",
	"sumassured":      "coverage",
	"coverage_amount": "coverage",

	// is_government_policy aliases
	"government":        "is_government_policy",
	"is_government":     "is_government_policy",
	"isgovernment":      "is_government_policy",
	"government_backed": "is_government_policy",
	"govt":              "is_government_policy",
	"is_govt":           "is_government_policy",
}

// CatalogParser handles parsing of policy catalog CSV files.
type CatalogParser struct {
	columnMapping map[string]int
}

// NewCatalogParser creates a new catalog parser instance.
func NewCatalogParser() *CatalogParser {
	return &CatalogParser{
		columnMapping: make(map[string]int),
	}
}

// ParsePolicies parses CSV content and returns a slice of PolicyCreate objects.
func (p *CatalogParser) ParsePolicies(content string) ([]*models.PolicyCreate, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Read header
	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	// Build column mapping
	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	// Parse data rows
	var policies []*models.PolicyCreate
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		policy, err := p.parseRow(record)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if err := models.ValidatePolicyCreate(policy); err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		policies = append(policies, policy)
	}

	if len(policies) == 0 && len(parseErrors) > 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return policies, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CatalogParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))

		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}

		p.columnMapping[normalized] = i
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow parses a single CSV row into a PolicyCreate object.
func (p *CatalogParser) parseRow(record []string) (*models.PolicyCreate, error) {
	getValue := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := getValue("name")
	category := getValue("category")
	provider := getValue("provider")
	description := getValue("description")

	isGovernment, err := parseBool(getValue("is_government_policy"))
	if err != nil {
		return nil, fmt.Errorf("invalid is_government_policy: %w", err)
	}

	policy := &models.PolicyCreate{
		Name:               name,
		Description:        description,
		Category:           models.NormalizeCategory(category),
		Provider:           provider,
		IsGovernmentPolicy: isGovernment,
	}

	if premiumStr := getValue("premium"); premiumStr != "" {
		premium, err := parseAmount(premiumStr)
		if err != nil {
			return nil, fmt.Errorf("invalid premium: %w", err)
		}
		policy.Premium = &premium
	}

	if coverageStr := getValue("coverage"); coverageStr != "" {
		coverage, err := parseAmount(coverageStr)
		if err != nil {
			return nil, fmt.Errorf("invalid coverage: %w", err)
		}
		policy.Coverage = &coverage
	}

	return policy, nil
}

// parseAmount parses a currency amount to int64, handling common formats.
func parseAmount(s string) (int64, error) {
	if s == "" {
		return 0, errors.New("empty value")
	}

	// Remove commas and currency symbols
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(s, "Rs")
	s = strings.TrimSpace(s)

	// Handle float strings (e.g., "330.0")
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	}

	return strconv.ParseInt(s, 10, 64)
}

// parseBool parses a flexible boolean representation.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "government", "govt":
		return true, nil
	case "false", "no", "n", "0", "private", "":
		return false, nil
	}
	return false, fmt.Errorf("unrecognized boolean value %q", s)
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) (*CSVValidationResult, error) {
	result := &CSVValidationResult{
		Valid:          false,
		RowCount:       0,
		Columns:        []string{},
		MissingColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result, nil
	}

	reader := csv.NewReader(strings.NewReader(content))

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result, nil
	}

	normalizedColumns := make(map[string]bool)
	for _, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}
		normalizedColumns[normalized] = true
		result.Columns = append(result.Columns, col)
	}

	for _, required := range RequiredColumns {
		if !normalizedColumns[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		result.RowCount++
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result, nil
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}
