package engine

import (
	"sort"

	"insurance-advisor-engine/internal/models"
)

// CategoryAffinity is the accumulated score for one policy category. Once
// any contributing rule marks a category government-recommended, the flag
// stays set for that computation.
type CategoryAffinity struct {
	Score                 float64
	GovernmentRecommended bool
}

// tagPolicyScore is one entry of the per-tag scoring table.
type tagPolicyScore struct {
	category              string
	governmentRecommended bool
	priority              float64
}

// tagScoreTable maps each profile tag to the policy categories it favors.
// The table is static; Senior appears here even though the classifier
// cannot currently produce it.
var tagScoreTable = map[ProfileTag][]tagPolicyScore{
	TagHighIncome: {
		{models.CategoryLife, false, 9},
		{models.CategoryHealth, false, 8},
		{models.CategoryInvestment, false, 9},
		{models.CategoryVehicle, false, 7},
	},
	TagLowIncome: {
		{models.CategoryLife, true, 9},
		{models.CategoryHealth, true, 10},
		{models.CategoryAccident, true, 8},
	},
	TagSenior: {
		{models.CategoryHealth, true, 10},
		{models.CategoryLife, true, 7},
	},
	TagStudent: {
		{models.CategoryAccident, true, 8},
		{models.CategoryHealth, true, 7},
	},
	TagFamily: {
		{models.CategoryHealth, true, 10},
		{models.CategoryLife, true, 9},
		{models.CategoryHome, false, 7},
	},
	TagRuralResident: {
		{models.CategoryCrop, true, 9},
		{models.CategoryHealth, true, 10},
	},
	TagUrbanResident: {
		{models.CategoryVehicle, false, 8},
		{models.CategoryHome, false, 7},
	},
	TagHealthConscious: {
		{models.CategoryHealth, false, 10},
		{models.CategoryAccident, false, 8},
	},
	TagFrequentClaim: {
		{models.CategoryHealth, true, 9},
		{models.CategoryAccident, true, 8},
	},
	TagNewCustomer: {
		{models.CategoryHealth, true, 8},
		{models.CategoryAccident, true, 7},
	},
	TagLoyalCustomer: {
		{models.CategoryLife, false, 9},
		{models.CategoryHealth, false, 9},
		{models.CategoryVehicle, false, 8},
	},
}

// CategoryAffinities computes the per-category affinity map for a
// profile: per-tag contributions are summed, then adjusted once for
// prominence. Prominent customers get private-leaning categories boosted
// by 25% and government-leaning ones dampened by 10%; everyone else gets
// government-leaning categories boosted by 25%.
func CategoryAffinities(p *models.AssessmentProfile, prominenceScore int) map[string]CategoryAffinity {
	affinities := make(map[string]CategoryAffinity)

	for _, tag := range Classify(p) {
		for _, entry := range tagScoreTable[tag] {
			current := affinities[entry.category]
			affinities[entry.category] = CategoryAffinity{
				Score:                 current.Score + entry.priority,
				GovernmentRecommended: current.GovernmentRecommended || entry.governmentRecommended,
			}
		}
	}

	prominent := prominenceScore >= ProminenceThreshold
	for category, affinity := range affinities {
		switch {
		case prominent && !affinity.GovernmentRecommended:
			affinity.Score *= 1.25
		case prominent && affinity.GovernmentRecommended:
			affinity.Score *= 0.9
		case !prominent && affinity.GovernmentRecommended:
			affinity.Score *= 1.25
		}
		affinities[category] = affinity
	}

	return affinities
}

// Recommend ranks and partitions the policy catalog for a customer. The
// returned lists contain only policies from the supplied catalog, each at
// most once, ordered by descending adjusted category score with catalog
// order preserved on ties.
//
// A government policy whose category is not government-recommended is
// dropped entirely for prominent customers: they are steered toward
// private cover instead.
func Recommend(p *models.AssessmentProfile, prominenceScore int, catalog []*models.Policy) (governmentPolicies, privatePolicies []*models.Policy) {
	affinities := CategoryAffinities(p, prominenceScore)

	type scoredPolicy struct {
		policy                *models.Policy
		score                 float64
		governmentRecommended bool
	}

	scored := make([]scoredPolicy, 0, len(catalog))
	for _, policy := range catalog {
		// Unrecognized categories score zero and sort last.
		affinity := affinities[policy.Category]
		scored = append(scored, scoredPolicy{
			policy:                policy,
			score:                 affinity.Score,
			governmentRecommended: affinity.GovernmentRecommended,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	governmentPolicies = make([]*models.Policy, 0, len(scored))
	privatePolicies = make([]*models.Policy, 0, len(scored))

	for _, entry := range scored {
		if entry.policy.IsGovernmentPolicy {
			if entry.governmentRecommended || prominenceScore < ProminenceThreshold {
				governmentPolicies = append(governmentPolicies, entry.policy)
			}
		} else {
			privatePolicies = append(privatePolicies, entry.policy)
		}
	}

	return governmentPolicies, privatePolicies
}
