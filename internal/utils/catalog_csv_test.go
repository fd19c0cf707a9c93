package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCatalogCSV = `name,description,category,provider,premium,coverage,is_government_policy
Premium Health Insurance,Comprehensive health coverage,Health,InsureTech,15000,1000000,false
Pradhan Mantri Suraksha Bima Yojana,Accident cover for all,accident,Government of India,12,200000,true
Vehicle Insurance - Comprehensive,Full vehicle protection,vehicle,InsureTech,8000,500000,no`

func TestCatalogParser_ValidFile(t *testing.T) {
	parser := NewCatalogParser()

	policies, errs := parser.ParsePolicies(validCatalogCSV)

	require.Empty(t, errs)
	require.Len(t, policies, 3)

	first := policies[0]
	assert.Equal(t, "Premium Health Insurance", first.Name)
	assert.Equal(t, "health", first.Category) // normalized to lowercase
	assert.Equal(t, "InsureTech", first.Provider)
	require.NotNil(t, first.Premium)
	assert.Equal(t, int64(15000), *first.Premium)
	require.NotNil(t, first.Coverage)
	assert.Equal(t, int64(1000000), *first.Coverage)
	assert.False(t, first.IsGovernmentPolicy)

	assert.True(t, policies[1].IsGovernmentPolicy)
	assert.False(t, policies[2].IsGovernmentPolicy)
}

func TestCatalogParser_ColumnAliases(t *testing.T) {
	csvContent := `policy_name,type,insurer,annual_premium,sum_assured,govt
Crop Shield,Crop,AgriSure,1200,300000,yes`

	parser := NewCatalogParser()
	policies, errs := parser.ParsePolicies(csvContent)

	require.Empty(t, errs)
	require.Len(t, policies, 1)

	policy := policies[0]
	assert.Equal(t, "Crop Shield", policy.Name)
	assert.Equal(t, "crop", policy.Category)
	assert.Equal(t, "AgriSure", policy.Provider)
	assert.Equal(t, int64(1200), *policy.Premium)
	assert.Equal(t, int64(300000), *policy.Coverage)
	assert.True(t, policy.IsGovernmentPolicy)
}

func TestCatalogParser_MissingRequiredColumns(t *testing.T) {
	csvContent := `name,description,premium
Some Policy,A policy,1000`

	parser := NewCatalogParser()
	policies, errs := parser.ParsePolicies(csvContent)

	assert.Nil(t, policies)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrMissingColumns)
	assert.Contains(t, errs[0].Error(), "category")
	assert.Contains(t, errs[0].Error(), "provider")
	assert.Contains(t, errs[0].Error(), "is_government_policy")
}

func TestCatalogParser_EmptyContent(t *testing.T) {
	parser := NewCatalogParser()

	policies, errs := parser.ParsePolicies("   \n  ")

	assert.Nil(t, policies)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrEmptyCSV)
}

func TestCatalogParser_BadRowsReportedWithLineNumbers(t *testing.T) {
	csvContent := `name,category,provider,premium,is_government_policy
Good Policy,health,InsureTech,5000,false
,health,InsureTech,5000,false
Bad Premium,health,InsureTech,abc,false
Bad Flag,health,InsureTech,5000,maybe`

	parser := NewCatalogParser()
	policies, errs := parser.ParsePolicies(csvContent)

	require.Len(t, policies, 1)
	assert.Equal(t, "Good Policy", policies[0].Name)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0].Error(), "line 3")
	assert.Contains(t, errs[1].Error(), "line 4")
	assert.Contains(t, errs[1].Error(), "invalid premium")
	assert.Contains(t, errs[2].Error(), "line 5")
	assert.Contains(t, errs[2].Error(), "is_government_policy")
}

func TestCatalogParser_AllRowsBadReturnsNoDataRows(t *testing.T) {
	csvContent := `name,category,provider,is_government_policy
,health,InsureTech,false`

	parser := NewCatalogParser()
	policies, errs := parser.ParsePolicies(csvContent)

	assert.Nil(t, policies)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], ErrNoDataRows)
}

func TestCatalogParser_OptionalAmountsOmitted(t *testing.T) {
	csvContent := `name,category,provider,is_government_policy
Ayushman Bharat,health,Government of India,true`

	parser := NewCatalogParser()
	policies, errs := parser.ParsePolicies(csvContent)

	require.Empty(t, errs)
	require.Len(t, policies, 1)
	assert.Nil(t, policies[0].Premium)
	assert.Nil(t, policies[0].Coverage)
}

func TestParseAmount_Formats(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"15000", 15000},
		{"15,000", 15000},
		{"$1,200", 1200},
		{"₹500000", 500000},
		{"Rs 2500", 2500},
		{"330.0", 330},
	}

	for _, tt := range tests {
		got, err := parseAmount(tt.input)
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}

	_, err := parseAmount("abc")
	assert.Error(t, err)
}

func TestParseBool_Variants(t *testing.T) {
	for _, truthy := range []string{"true", "YES", "y", "1", "Government", "govt"} {
		got, err := parseBool(truthy)
		require.NoError(t, err, "input %q", truthy)
		assert.True(t, got, "input %q", truthy)
	}

	for _, falsy := range []string{"false", "No", "n", "0", "private", ""} {
		got, err := parseBool(falsy)
		require.NoError(t, err, "input %q", falsy)
		assert.False(t, got, "input %q", falsy)
	}

	_, err := parseBool("maybe")
	assert.Error(t, err)
}

func TestValidateCSVStructure(t *testing.T) {
	result, err := ValidateCSVStructure(validCatalogCSV)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.RowCount)
	assert.Empty(t, result.MissingColumns)

	result, err = ValidateCSVStructure("name,category\nA,health")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.MissingColumns, "provider")
	assert.Contains(t, result.MissingColumns, "is_government_policy")

	result, err = ValidateCSVStructure("")
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}
