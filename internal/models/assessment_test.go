package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() AssessmentProfile {
	return AssessmentProfile{
		Gender:         GenderFemale,
		Area:           AreaUrban,
		Qualification:  QualificationGraduate,
		Income:         Income5LTo10L,
		Vintage:        3,
		ClaimAmount:    0,
		PoliciesCount:  1,
		PoliciesChosen: "health",
		PolicyType:     PolicyTypeIndividual,
		MaritalStatus:  MaritalStatusSingle,
	}
}

func TestChosenCategories_SplitsAndTrims(t *testing.T) {
	profile := AssessmentProfile{PoliciesChosen: " health , life ,, vehicle "}

	assert.Equal(t, []string{"health", "life", "vehicle"}, profile.ChosenCategories())
}

func TestChosenCategories_EmptyInput(t *testing.T) {
	profile := AssessmentProfile{PoliciesChosen: ""}
	assert.Empty(t, profile.ChosenCategories())

	profile.PoliciesChosen = " , , "
	assert.Empty(t, profile.ChosenCategories())
}

func TestHasChosen(t *testing.T) {
	profile := AssessmentProfile{PoliciesChosen: "health,life"}

	assert.True(t, profile.HasChosen(CategoryHealth))
	assert.True(t, profile.HasChosen(CategoryLife))
	assert.False(t, profile.HasChosen(CategoryVehicle))
}

func TestValidateAssessment_ValidProfile(t *testing.T) {
	profile := validProfile()
	assert.NoError(t, ValidateAssessment(&profile))
}

func TestValidateAssessment_RejectsInvalidEnums(t *testing.T) {
	profile := validProfile()
	profile.Gender = "attack-helicopter"
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrInvalidGender)

	profile = validProfile()
	profile.Area = "suburban"
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrInvalidArea)

	profile = validProfile()
	profile.MaritalStatus = "complicated"
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrInvalidMaritalStatus)
}

func TestValidateAssessment_RejectsEmptyAndNegativeFields(t *testing.T) {
	profile := validProfile()
	profile.Qualification = "  "
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrEmptyQualification)

	profile = validProfile()
	profile.Income = ""
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrEmptyIncome)

	profile = validProfile()
	profile.PolicyType = ""
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrEmptyPolicyType)

	profile = validProfile()
	profile.Vintage = -1
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrNegativeVintage)

	profile = validProfile()
	profile.ClaimAmount = -500
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrNegativeClaimAmount)

	profile = validProfile()
	profile.PoliciesCount = -2
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrNegativePoliciesCount)

	profile = validProfile()
	profile.PoliciesChosen = " , "
	assert.ErrorIs(t, ValidateAssessment(&profile), ErrNoPoliciesChosen)
}

func TestValidateAssessment_AcceptsUnknownOrdinalCodes(t *testing.T) {
	// Unknown qualification, income and policy type codes pass validation;
	// the feature encoder maps them to its default entry
	profile := validProfile()
	profile.Qualification = "未知"
	profile.Income = "plenty"
	profile.PolicyType = "bespoke"

	assert.NoError(t, ValidateAssessment(&profile))
}

func TestValidatePolicyCreate(t *testing.T) {
	policy := &PolicyCreate{Name: "Term Plan", Category: CategoryLife, Provider: "InsureTech"}
	assert.NoError(t, ValidatePolicyCreate(policy))

	assert.ErrorIs(t, ValidatePolicyCreate(&PolicyCreate{Category: CategoryLife, Provider: "X"}), ErrEmptyPolicyName)
	assert.ErrorIs(t, ValidatePolicyCreate(&PolicyCreate{Name: "A", Provider: "X"}), ErrEmptyPolicyCategory)
	assert.ErrorIs(t, ValidatePolicyCreate(&PolicyCreate{Name: "A", Category: CategoryLife}), ErrEmptyPolicyProvider)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "health", NormalizeCategory("  Health "))
	assert.Equal(t, "family-floater", NormalizeCategory("Family Floater"))
	assert.Equal(t, "life", NormalizeCategory("LIFE"))
}

func TestCustomerProfileExtraction(t *testing.T) {
	customer := &Customer{
		UserID:         42,
		Gender:         GenderMale,
		Area:           AreaRural,
		Qualification:  QualificationGraduate,
		Income:         Income2LTo5L,
		Vintage:        4,
		ClaimAmount:    1000,
		PoliciesCount:  2,
		PoliciesChosen: "health,vehicle",
		PolicyType:     PolicyTypeIndividual,
		MaritalStatus:  MaritalStatusMarried,
	}

	profile := customer.Profile()

	require.Equal(t, customer.Gender, profile.Gender)
	require.Equal(t, customer.Area, profile.Area)
	assert.Equal(t, customer.Income, profile.Income)
	assert.Equal(t, customer.PoliciesChosen, profile.PoliciesChosen)
}

func TestPolicyToSummary(t *testing.T) {
	premium := int64(15000)
	coverage := int64(1000000)
	policy := &Policy{
		ID:                 4,
		Name:               "Premium Health Insurance",
		Category:           CategoryHealth,
		Provider:           "InsureTech",
		Premium:            &premium,
		Coverage:           &coverage,
		IsGovernmentPolicy: false,
		Description:        "Comprehensive health coverage.",
	}

	summary := policy.ToSummary()

	assert.Equal(t, policy.ID, summary.ID)
	assert.Equal(t, policy.Name, summary.Name)
	assert.Equal(t, premium, *summary.Premium)
	assert.False(t, summary.IsGovernmentPolicy)
}
