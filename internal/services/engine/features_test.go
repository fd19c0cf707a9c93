package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-advisor-engine/internal/models"
)

func TestEncodeFeatures_Order(t *testing.T) {
	profile := &models.AssessmentProfile{
		Gender:         models.GenderFemale,
		Area:           models.AreaRural,
		Qualification:  models.QualificationPostGraduate,
		Income:         models.Income10LTo15L,
		Vintage:        7,
		ClaimAmount:    25000,
		PoliciesCount:  3,
		PoliciesChosen: "health,life",
		PolicyType:     models.PolicyTypeFamilyFloater,
		MaritalStatus:  models.MaritalStatusMarried,
	}

	features := EncodeFeatures(profile)

	require.Len(t, features, FeatureCount)
	assert.Equal(t, []float64{1, 1, 2, 3, 7, 25000, 3, 2, 1, 1}, features)
}

func TestEncodeFeatures_UnknownCodesMapToZero(t *testing.T) {
	profile := &models.AssessmentProfile{
		Gender:         "unknown",
		Area:           "offshore",
		Qualification:  "bootcamp",
		Income:         "plenty",
		PoliciesChosen: "",
		PolicyType:     "bespoke",
		MaritalStatus:  "complicated",
	}

	features := EncodeFeatures(profile)

	require.Len(t, features, FeatureCount)
	for i, value := range features {
		assert.Zero(t, value, "feature %d", i)
	}
}

func TestEncodeFeatures_ChosenPoliciesReducedToCount(t *testing.T) {
	profile := &models.AssessmentProfile{
		Gender:         models.GenderMale,
		Area:           models.AreaUrban,
		PoliciesChosen: " health , life ,, vehicle ",
	}

	features := EncodeFeatures(profile)

	assert.Equal(t, float64(3), features[featurePoliciesChosen])
}

func TestIncomeRank(t *testing.T) {
	assert.Equal(t, 0, IncomeRank(models.IncomeBelow2L))
	assert.Equal(t, 1, IncomeRank(models.Income2LTo5L))
	assert.Equal(t, 2, IncomeRank(models.Income5LTo10L))
	assert.Equal(t, 3, IncomeRank(models.Income10LTo15L))
	assert.Equal(t, 4, IncomeRank(models.IncomeAbove15L))
	assert.Equal(t, 0, IncomeRank("no-such-bracket"))
}
