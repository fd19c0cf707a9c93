package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-advisor-engine/internal/models"
)

func affluentProfile() *models.AssessmentProfile {
	return &models.AssessmentProfile{
		Gender:         models.GenderFemale,
		Area:           models.AreaUrban,
		Qualification:  models.QualificationPostGraduate,
		Income:         models.IncomeAbove15L,
		Vintage:        6,
		ClaimAmount:    0,
		PoliciesCount:  4,
		PoliciesChosen: "health,life",
		PolicyType:     models.PolicyTypeIndividual,
		MaritalStatus:  models.MaritalStatusMarried,
	}
}

func modestProfile() *models.AssessmentProfile {
	return &models.AssessmentProfile{
		Gender:         models.GenderMale,
		Area:           models.AreaRural,
		Qualification:  models.QualificationGraduate,
		Income:         models.Income2LTo5L,
		Vintage:        10,
		ClaimAmount:    10000,
		PoliciesCount:  4,
		PoliciesChosen: "health",
		PolicyType:     models.PolicyTypeIndividual,
		MaritalStatus:  models.MaritalStatusSingle,
	}
}

func TestFormulaScorer_ProminentCustomer(t *testing.T) {
	scorer := NewScorer(FormulaPredictor{})

	// 40 (income) + 20 (policies) + 18 (vintage) - 0 (claims)
	result := scorer.Score(affluentProfile())

	assert.Equal(t, 78, result.ProminenceScore)
	assert.True(t, result.IsProminent)
}

func TestFormulaScorer_NonProminentCustomer(t *testing.T) {
	scorer := NewScorer(FormulaPredictor{})

	// 10 (income) + 20 (policies) + 30 (vintage, capped) - 2 (claims)
	result := scorer.Score(modestProfile())

	assert.Equal(t, 58, result.ProminenceScore)
	assert.False(t, result.IsProminent)
}

func TestFormulaScorer_ThresholdBoundary(t *testing.T) {
	scorer := NewScorer(FormulaPredictor{})

	profile := &models.AssessmentProfile{
		Gender:         models.GenderMale,
		Area:           models.AreaUrban,
		Income:         models.IncomeAbove15L,
		Vintage:        10,
		PoliciesChosen: "health",
		MaritalStatus:  models.MaritalStatusSingle,
	}

	// Exactly 40 + 30 = 70 is prominent
	result := scorer.Score(profile)
	assert.Equal(t, 70, result.ProminenceScore)
	assert.True(t, result.IsProminent)

	// One point below the threshold is not
	profile.ClaimAmount = 5000
	result = scorer.Score(profile)
	assert.Equal(t, 69, result.ProminenceScore)
	assert.False(t, result.IsProminent)
}

func TestFormulaScorer_ScoreNeverNegative(t *testing.T) {
	scorer := NewScorer(FormulaPredictor{})

	profile := &models.AssessmentProfile{
		Gender:        models.GenderOther,
		Area:          models.AreaRural,
		Income:        models.IncomeBelow2L,
		Vintage:       0,
		ClaimAmount:   900000,
		PoliciesCount: 0,
		MaritalStatus: models.MaritalStatusSingle,
	}

	result := scorer.Score(profile)

	assert.Equal(t, 0, result.ProminenceScore)
	assert.False(t, result.IsProminent)
}

func TestFormulaScorer_Deterministic(t *testing.T) {
	scorer := NewScorer(FormulaPredictor{})
	profile := affluentProfile()

	first := scorer.Score(profile)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(profile))
	}
}

func TestFormulaScorer_MonotonicInVintageAndClaims(t *testing.T) {
	scorer := NewScorer(FormulaPredictor{})

	base := modestProfile()
	baseScore := scorer.Score(base).ProminenceScore

	longer := *base
	longer.Vintage = base.Vintage + 5
	assert.GreaterOrEqual(t, scorer.Score(&longer).ProminenceScore, baseScore)

	claimant := *base
	claimant.ClaimAmount = base.ClaimAmount + 100000
	assert.LessOrEqual(t, scorer.Score(&claimant).ProminenceScore, baseScore)
}

func TestModelPredictor_SigmoidOutput(t *testing.T) {
	// Zero weights and bias put every profile at exactly 0.5
	artifact := []byte(`{"weights":[0,0,0,0,0,0,0,0,0,0],"bias":0}`)
	predictor, err := NewModelPredictor(artifact)
	require.NoError(t, err)

	raw, err := predictor.Predict(EncodeFeatures(affluentProfile()))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, raw, 1e-9)

	scorer := NewScorer(predictor)
	result := scorer.Score(affluentProfile())
	assert.Equal(t, 50, result.ProminenceScore)
	assert.False(t, result.IsProminent)
}

func TestModelPredictor_Standardization(t *testing.T) {
	// Only the vintage feature carries weight; mean 5, scale 2
	artifact := []byte(`{
		"weights":[0,0,0,0,1,0,0,0,0,0],
		"bias":0,
		"mean":[0,0,0,0,5,0,0,0,0,0],
		"scale":[1,1,1,1,2,1,1,1,1,1]
	}`)
	predictor, err := NewModelPredictor(artifact)
	require.NoError(t, err)

	profile := affluentProfile()
	profile.Vintage = 5 // standardizes to zero, sigmoid(0) = 0.5

	raw, err := predictor.Predict(EncodeFeatures(profile))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, raw, 1e-9)
}

func TestModelPredictor_RejectsBadArtifacts(t *testing.T) {
	_, err := NewModelPredictor([]byte("not json"))
	assert.Error(t, err)

	_, err = NewModelPredictor([]byte(`{"weights":[1,2,3],"bias":0}`))
	assert.Error(t, err)

	_, err = NewModelPredictor([]byte(`{"weights":[0,0,0,0,0,0,0,0,0,0],"bias":0,"mean":[1]}`))
	assert.Error(t, err)
}

func TestNewScorerFromBytes_FallsBackOnCorruptArtifact(t *testing.T) {
	scorer := NewScorerFromBytes([]byte("{{{"))

	// Behaves exactly like the formula predictor
	assert.Equal(t, 78, scorer.Score(affluentProfile()).ProminenceScore)
}

func TestNewScorerFromBytes_EmptyArtifact(t *testing.T) {
	scorer := NewScorerFromBytes(nil)

	assert.Equal(t, 58, scorer.Score(modestProfile()).ProminenceScore)
}

// failingPredictor always errors, to exercise the per-call fallback.
type failingPredictor struct{}

func (failingPredictor) Predict([]float64) (float64, error) {
	return 0, errors.New("model backend unavailable")
}

func (failingPredictor) Name() string { return "failing" }

func TestScorer_FallsBackToFormulaOnPredictorError(t *testing.T) {
	scorer := NewScorer(failingPredictor{})

	result := scorer.Score(affluentProfile())

	assert.Equal(t, 78, result.ProminenceScore)
	assert.True(t, result.IsProminent)
}

func TestScorer_ResultFieldsNeverDisagree(t *testing.T) {
	scorer := NewScorer(FormulaPredictor{})

	for _, profile := range []*models.AssessmentProfile{affluentProfile(), modestProfile()} {
		result := scorer.Score(profile)
		assert.Equal(t, result.ProminenceScore >= ProminenceThreshold, result.IsProminent)
		assert.GreaterOrEqual(t, result.ProminenceScore, 0)
		assert.LessOrEqual(t, result.ProminenceScore, 100)
	}
}
