// Package engine implements the prominence scoring and policy
// recommendation pipeline.
package engine

import (
	"insurance-advisor-engine/internal/models"
)

// FeatureCount is the fixed length of the encoded feature vector.
const FeatureCount = 10

// Positions of the encoded fields in the feature vector. The order is
// fixed; the trained prominence model expects exactly this layout.
const (
	featureGender = iota
	featureArea
	featureQualification
	featureIncome
	featureVintage
	featureClaimAmount
	featurePoliciesCount
	featurePoliciesChosen
	featurePolicyType
	featureMaritalStatus
)

// Encoding tables for the categorical fields. Unknown values map to 0,
// the first entry of each table.
var (
	genderEncoder = map[models.Gender]int{
		models.GenderMale:   0,
		models.GenderFemale: 1,
		models.GenderOther:  2,
	}

	areaEncoder = map[models.Area]int{
		models.AreaUrban: 0,
		models.AreaRural: 1,
	}

	qualificationEncoder = map[string]int{
		models.QualificationHighSchool:   0,
		models.QualificationGraduate:     1,
		models.QualificationPostGraduate: 2,
		models.QualificationDoctorate:    3,
		models.QualificationOther:        4,
	}

	incomeEncoder = map[string]int{
		models.IncomeBelow2L:  0,
		models.Income2LTo5L:   1,
		models.Income5LTo10L:  2,
		models.Income10LTo15L: 3,
		models.IncomeAbove15L: 4,
	}

	policyTypeEncoder = map[string]int{
		models.PolicyTypeIndividual:    0,
		models.PolicyTypeFamilyFloater: 1,
		models.PolicyTypeGroup:         2,
		models.PolicyTypeCorporate:     3,
	}

	maritalStatusEncoder = map[models.MaritalStatus]int{
		models.MaritalStatusSingle:   0,
		models.MaritalStatusMarried:  1,
		models.MaritalStatusDivorced: 2,
		models.MaritalStatusWidowed:  3,
	}
)

// IncomeRank returns the ordinal index of an income bracket, 0 for
// unknown codes.
func IncomeRank(income string) int {
	return incomeEncoder[income]
}

// EncodeFeatures converts an assessment profile into the fixed-length
// numeric feature vector consumed by the prominence predictors. The
// chosen policies are reduced to their count, not one-hot encoded. Pure
// function, no side effects.
func EncodeFeatures(p *models.AssessmentProfile) []float64 {
	features := make([]float64, FeatureCount)

	features[featureGender] = float64(genderEncoder[p.Gender])
	features[featureArea] = float64(areaEncoder[p.Area])
	features[featureQualification] = float64(qualificationEncoder[p.Qualification])
	features[featureIncome] = float64(incomeEncoder[p.Income])
	features[featureVintage] = float64(p.Vintage)
	features[featureClaimAmount] = float64(p.ClaimAmount)
	features[featurePoliciesCount] = float64(p.PoliciesCount)
	features[featurePoliciesChosen] = float64(len(p.ChosenCategories()))
	features[featurePolicyType] = float64(policyTypeEncoder[p.PolicyType])
	features[featureMaritalStatus] = float64(maritalStatusEncoder[p.MaritalStatus])

	return features
}
