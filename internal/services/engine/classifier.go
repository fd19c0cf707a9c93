package engine

import (
	"insurance-advisor-engine/internal/models"
)

// ProfileTag is a qualitative customer archetype derived from the raw
// assessment attributes. A profile may carry any number of tags.
type ProfileTag string

const (
	TagHighIncome      ProfileTag = "HighIncome"
	TagLowIncome       ProfileTag = "LowIncome"
	TagSenior          ProfileTag = "Senior"
	TagStudent         ProfileTag = "Student"
	TagFamily          ProfileTag = "Family"
	TagRuralResident   ProfileTag = "RuralResident"
	TagUrbanResident   ProfileTag = "UrbanResident"
	TagHealthConscious ProfileTag = "HealthConscious"
	TagFrequentClaim   ProfileTag = "FrequentClaimant"
	TagNewCustomer     ProfileTag = "NewCustomer"
	TagLoyalCustomer   ProfileTag = "LoyalCustomer"
)

// Classify derives the set of profile tags for a customer. Every rule is
// independent and the result is order-insensitive; the empty set is valid
// output for a customer matching no rule.
//
// Senior exists in the tag taxonomy and the scoring table but no rule
// here produces it: the profile carries no age or birthdate field to
// derive it from. Kept for when the assessment form gains one.
func Classify(p *models.AssessmentProfile) []ProfileTag {
	var tags []ProfileTag

	// Income
	if p.Income == models.IncomeAbove15L || p.Income == models.Income10LTo15L {
		tags = append(tags, TagHighIncome)
	} else if p.Income == models.IncomeBelow2L {
		tags = append(tags, TagLowIncome)
	}

	// Life stage, inferred from qualification and tenure
	if p.Qualification == models.QualificationHighSchool && p.Vintage < 2 {
		tags = append(tags, TagStudent)
	}

	// Family status
	if p.MaritalStatus == models.MaritalStatusMarried {
		tags = append(tags, TagFamily)
	}

	// Location
	if p.Area == models.AreaRural {
		tags = append(tags, TagRuralResident)
	} else if p.Area == models.AreaUrban {
		tags = append(tags, TagUrbanResident)
	}

	// Inferred from existing policy choices
	if p.HasChosen(models.CategoryHealth) {
		tags = append(tags, TagHealthConscious)
	}

	// Claims history
	if p.ClaimAmount > 50000 {
		tags = append(tags, TagFrequentClaim)
	}

	// Loyalty; vintage in [1, 5) yields neither tag
	if p.Vintage < 1 {
		tags = append(tags, TagNewCustomer)
	} else if p.Vintage >= 5 {
		tags = append(tags, TagLoyalCustomer)
	}

	return tags
}

// hasTag reports whether a tag set contains the given tag.
func hasTag(tags []ProfileTag, tag ProfileTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
