package engine

import (
	"insurance-advisor-engine/internal/models"
)

// reasonCategories is the fixed set of categories a reason is always
// produced for, independent of which categories the customer selected.
var reasonCategories = []string{
	models.CategoryHealth,
	models.CategoryLife,
	models.CategoryVehicle,
	models.CategoryAccident,
}

// ExplainReasons produces a personalized reason for each of the fixed
// categories. Each category has a priority chain of tag checks; the first
// matching tag wins and the generic default guarantees non-empty text.
func ExplainReasons(p *models.AssessmentProfile, prominenceScore int) map[string]string {
	tags := Classify(p)
	reasons := make(map[string]string, len(reasonCategories))

	for _, category := range reasonCategories {
		reasons[category] = reasonFor(category, tags)
	}

	return reasons
}

// reasonFor evaluates the priority chain for one category.
func reasonFor(category string, tags []ProfileTag) string {
	switch category {
	case models.CategoryHealth:
		switch {
		case hasTag(tags, TagFamily):
			return "Health insurance is essential for protecting your entire family from unexpected medical expenses."
		case hasTag(tags, TagHealthConscious):
			return "Based on your health-conscious choices, we recommend comprehensive health coverage to maintain your wellbeing."
		case hasTag(tags, TagFrequentClaim):
			return "Your history suggests you would benefit from a robust health insurance policy with wide coverage."
		default:
			return "Health insurance provides financial protection against unexpected medical costs."
		}

	case models.CategoryLife:
		switch {
		case hasTag(tags, TagFamily):
			return "Life insurance provides financial security for your family's future in case of unexpected events."
		case hasTag(tags, TagHighIncome):
			return "Protect your wealth and ensure your legacy with a comprehensive life insurance policy."
		default:
			return "Life insurance offers peace of mind and financial protection for your loved ones."
		}

	case models.CategoryVehicle:
		if hasTag(tags, TagUrbanResident) {
			return "Living in an urban area means higher traffic and accident risks - comprehensive vehicle insurance is recommended."
		}
		return "Vehicle insurance protects against damages and liability while driving."

	case models.CategoryAccident:
		if hasTag(tags, TagStudent) || hasTag(tags, TagNewCustomer) {
			return "Accident insurance provides affordable protection against unexpected injuries and related expenses."
		}
		return "Accident insurance covers medical costs and provides income protection if you're injured."
	}

	return ""
}

// SuggestAdditionalCoverage evaluates a fixed ordered list of independent
// predicates against the customer's existing policies and tags. Any
// number of suggestions from zero to the full rule count may fire; output
// order is rule-declaration order.
func SuggestAdditionalCoverage(p *models.AssessmentProfile, prominenceScore int) []string {
	tags := Classify(p)
	suggestions := make([]string, 0, 5)

	if !p.HasChosen(models.CategoryHealth) {
		suggestions = append(suggestions, "Consider adding health insurance to your portfolio for comprehensive medical coverage.")
	}

	if hasTag(tags, TagFamily) && !p.HasChosen(models.CategoryLife) {
		suggestions = append(suggestions, "As someone with a family, life insurance is crucial for protecting your loved ones financially.")
	}

	if hasTag(tags, TagHighIncome) && !p.HasChosen(models.CategoryInvestment) {
		suggestions = append(suggestions, "With your income level, an investment-linked insurance policy could help grow your wealth while providing protection.")
	}

	if hasTag(tags, TagRuralResident) && !p.HasChosen(models.CategoryCrop) {
		suggestions = append(suggestions, "Living in a rural area, you might benefit from agricultural or crop insurance coverage.")
	}

	if hasTag(tags, TagUrbanResident) && !p.HasChosen(models.CategoryHome) {
		suggestions = append(suggestions, "For urban residents, home insurance provides protection against theft, damage, and liability.")
	}

	return suggestions
}
