package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"insurance-advisor-engine/internal/models"
	"insurance-advisor-engine/internal/utils"
)

// ProminenceThreshold is the score at or above which a customer is
// considered prominent.
const ProminenceThreshold = 70

// Predictor produces a raw prominence probability in [0, 1] from an
// encoded feature vector. Implementations must be safe for concurrent
// use; the scorer shares one predictor across requests.
type Predictor interface {
	Predict(features []float64) (float64, error)
	Name() string
}

// FormulaPredictor is the deterministic fallback used when no trained
// model artifact is available. The weights mirror the offline model's
// dominant factors: income bracket, held policies, tenure and claims.
type FormulaPredictor struct{}

// Predict computes the fallback score:
//   - income bracket ordinal x 10 (max 40 across the 5 brackets)
//   - policies count x 5, capped at 30
//   - vintage x 3, capped at 30
//   - minus claim amount / 50000 x 10, capped at 20
//
// clamped to [0, 100] and returned on the predictor's [0, 1] scale.
func (FormulaPredictor) Predict(features []float64) (float64, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}

	score := features[featureIncome] * 10

	score += math.Min(features[featurePoliciesCount]*5, 30)
	score += math.Min(features[featureVintage]*3, 30)
	score -= math.Min(features[featureClaimAmount]/50000*10, 20)

	score = math.Max(0, math.Min(score, 100))

	return score / 100, nil
}

// Name identifies the predictor in logs.
func (FormulaPredictor) Name() string {
	return "formula"
}

// modelArtifact is the serialized form of the trained prominence model:
// logistic regression coefficients plus the standardization parameters
// exported alongside them by the training pipeline.
type modelArtifact struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Mean    []float64 `json:"mean,omitempty"`
	Scale   []float64 `json:"scale,omitempty"`
}

// ModelPredictor scores feature vectors with a trained logistic
// regression artifact.
type ModelPredictor struct {
	weights []float64
	bias    float64
	mean    []float64
	scale   []float64
}

// NewModelPredictor builds a predictor from raw artifact bytes.
func NewModelPredictor(data []byte) (*ModelPredictor, error) {
	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}

	if len(artifact.Weights) != FeatureCount {
		return nil, fmt.Errorf("model artifact has %d weights, expected %d", len(artifact.Weights), FeatureCount)
	}
	if len(artifact.Mean) > 0 && len(artifact.Mean) != FeatureCount {
		return nil, fmt.Errorf("model artifact has %d means, expected %d", len(artifact.Mean), FeatureCount)
	}
	if len(artifact.Scale) > 0 && len(artifact.Scale) != FeatureCount {
		return nil, fmt.Errorf("model artifact has %d scales, expected %d", len(artifact.Scale), FeatureCount)
	}

	return &ModelPredictor{
		weights: artifact.Weights,
		bias:    artifact.Bias,
		mean:    artifact.Mean,
		scale:   artifact.Scale,
	}, nil
}

// LoadModelPredictor reads a model artifact from the local filesystem.
func LoadModelPredictor(path string) (*ModelPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	return NewModelPredictor(data)
}

// Predict standardizes the feature vector and applies the logistic
// regression, returning a probability in [0, 1].
func (m *ModelPredictor) Predict(features []float64) (float64, error) {
	if len(features) != FeatureCount {
		return 0, fmt.Errorf("expected %d features, got %d", FeatureCount, len(features))
	}

	z := m.bias
	for i, value := range features {
		if len(m.mean) > 0 {
			value -= m.mean[i]
		}
		if len(m.scale) > 0 && m.scale[i] != 0 {
			value /= m.scale[i]
		}
		z += m.weights[i] * value
	}

	return 1 / (1 + math.Exp(-z)), nil
}

// Name identifies the predictor in logs.
func (m *ModelPredictor) Name() string {
	return "model"
}

// Scorer converts assessment profiles into prominence results. It holds
// one predictor, chosen at construction time; per-call failures fall back
// to the deterministic formula.
type Scorer struct {
	predictor Predictor
}

// NewScorer creates a scorer with an explicit predictor.
func NewScorer(predictor Predictor) *Scorer {
	return &Scorer{predictor: predictor}
}

// NewScorerFromArtifact probes the given model path once and selects the
// model predictor when the artifact loads, the formula otherwise. A
// missing or corrupt artifact is an expected condition, not an error.
func NewScorerFromArtifact(modelPath string) *Scorer {
	if modelPath != "" {
		predictor, err := LoadModelPredictor(modelPath)
		if err == nil {
			utils.GetLogger().Info("Prominence model loaded", zap.String("path", modelPath))
			return &Scorer{predictor: predictor}
		}
		utils.GetLogger().Warn("Prominence model unavailable, using formula fallback",
			zap.String("path", modelPath),
			zap.Error(err),
		)
	}
	return &Scorer{predictor: FormulaPredictor{}}
}

// NewScorerFromBytes selects the model predictor when the given artifact
// bytes parse, the formula otherwise. Used when the artifact is fetched
// from object storage rather than the local filesystem.
func NewScorerFromBytes(data []byte) *Scorer {
	if len(data) > 0 {
		predictor, err := NewModelPredictor(data)
		if err == nil {
			utils.GetLogger().Info("Prominence model loaded from artifact bytes")
			return &Scorer{predictor: predictor}
		}
		utils.GetLogger().Warn("Prominence model artifact invalid, using formula fallback", zap.Error(err))
	}
	return &Scorer{predictor: FormulaPredictor{}}
}

// Score produces the prominence result for a profile. It never returns an
// error: a predictor failure falls back to the formula and a total
// failure yields the safe default of a non-prominent zero score.
func (s *Scorer) Score(profile *models.AssessmentProfile) models.ProminenceResult {
	features := EncodeFeatures(profile)

	raw, err := s.predictor.Predict(features)
	if err != nil {
		utils.GetLogger().Warn("Predictor failed, using formula fallback",
			zap.String("predictor", s.predictor.Name()),
			zap.Error(err),
		)

		raw, err = FormulaPredictor{}.Predict(features)
		if err != nil {
			utils.GetLogger().Error("Fallback scoring failed, returning safe default", zap.Error(err))
			return models.ProminenceResult{IsProminent: false, ProminenceScore: 0}
		}
	}

	score := int(math.Round(raw * 100))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return models.ProminenceResult{
		IsProminent:     score >= ProminenceThreshold,
		ProminenceScore: score,
	}
}
