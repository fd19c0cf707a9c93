package engine

import (
	"insurance-advisor-engine/internal/models"
)

// Service is the engine facade exposed to the host layers. It is
// stateless apart from the predictor selected at construction and is safe
// for concurrent use; the catalog it receives is read-only during
// scoring.
type Service struct {
	scorer *Scorer
}

// New creates an engine service around the given scorer.
func New(scorer *Scorer) *Service {
	return &Service{scorer: scorer}
}

// ScoreProminence classifies a customer as prominent or not with a
// confidence score in [0, 100]. Never fails for a well-formed profile;
// see Scorer.Score for the degradation ladder.
func (s *Service) ScoreProminence(profile *models.AssessmentProfile) models.ProminenceResult {
	return s.scorer.Score(profile)
}

// RecommendPolicies ranks and partitions the catalog into government and
// private recommendation lists for the customer.
func (s *Service) RecommendPolicies(profile *models.AssessmentProfile, prominenceScore int, catalog []*models.Policy) (governmentPolicies, privatePolicies []*models.Policy) {
	return Recommend(profile, prominenceScore, catalog)
}

// ExplainRecommendations produces the per-category reasons and the
// ordered additional-coverage suggestions for the customer.
func (s *Service) ExplainRecommendations(profile *models.AssessmentProfile, prominenceScore int) (reasons map[string]string, suggestions []string) {
	return ExplainReasons(profile, prominenceScore), SuggestAdditionalCoverage(profile, prominenceScore)
}
