// Package handlers provides HTTP handlers for the insurance advisor engine.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/redis/go-redis/v9"

	appConfig "insurance-advisor-engine/internal/config"
	"insurance-advisor-engine/internal/models"
	"insurance-advisor-engine/internal/services/cache"
	"insurance-advisor-engine/internal/services/database"
	"insurance-advisor-engine/internal/services/engine"
	s3service "insurance-advisor-engine/internal/services/s3"
	"insurance-advisor-engine/internal/services/ses"
	"insurance-advisor-engine/internal/utils"
)

// CatalogProvider supplies the policy catalog for recommendation runs.
type CatalogProvider interface {
	Catalog(ctx context.Context) ([]*models.Policy, error)
}

// AssessmentHandler runs the full assessment flow: persist the profile,
// score prominence, rank the catalog and store the recommendations.
type AssessmentHandler struct {
	db           *database.DB
	customerRepo *database.CustomerRepository
	linkRepo     *database.CustomerPolicyRepository
	catalog      CatalogProvider
	engine       *engine.Service
	alerts       *ses.Service
	managerEmail string
	dashboardURL string
}

// NewAssessmentHandler wires the handler from environment configuration.
func NewAssessmentHandler(ctx context.Context) (*AssessmentHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	policyRepo := database.NewPolicyRepository(db)

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	scorer := loadScorer(ctx, cfg)

	var alerts *ses.Service
	if cfg.ManagerAlertEmail != "" {
		alerts, err = ses.NewService(ctx)
		if err != nil {
			utils.GetLogger().Warn("Manager alerts disabled", utils.Error(err))
			alerts = nil
		}
	}

	return &AssessmentHandler{
		db:           db,
		customerRepo: database.NewCustomerRepository(db),
		linkRepo:     database.NewCustomerPolicyRepository(db),
		catalog:      cache.New(redisClient, policyRepo, cache.DefaultTTL),
		engine:       engine.New(scorer),
		alerts:       alerts,
		managerEmail: cfg.ManagerAlertEmail,
		dashboardURL: cfg.DashboardURL,
	}, nil
}

// NewAssessmentHandlerWithDeps builds a handler from pre-wired
// dependencies, for the local server and tests.
func NewAssessmentHandlerWithDeps(db *database.DB, customerRepo *database.CustomerRepository, linkRepo *database.CustomerPolicyRepository, catalog CatalogProvider, engineSvc *engine.Service, alerts *ses.Service, managerEmail, dashboardURL string) *AssessmentHandler {
	return &AssessmentHandler{
		db:           db,
		customerRepo: customerRepo,
		linkRepo:     linkRepo,
		catalog:      catalog,
		engine:       engineSvc,
		alerts:       alerts,
		managerEmail: managerEmail,
		dashboardURL: dashboardURL,
	}
}

// loadScorer selects the prominence predictor: a local artifact path wins,
// then the published S3 artifact, then the formula fallback.
func loadScorer(ctx context.Context, cfg *appConfig.Config) *engine.Scorer {
	if cfg.ModelPath != "" {
		return engine.NewScorerFromArtifact(cfg.ModelPath)
	}

	s3Svc, err := s3service.NewService(ctx)
	if err != nil {
		utils.GetLogger().Warn("S3 unavailable, using formula predictor", utils.Error(err))
		return engine.NewScorerFromBytes(nil)
	}

	artifact, err := s3Svc.DownloadModelArtifact(ctx)
	if err != nil {
		utils.GetLogger().Warn("Model artifact download failed, using formula predictor", utils.Error(err))
		return engine.NewScorerFromBytes(nil)
	}

	return engine.NewScorerFromBytes(artifact)
}

// Assess runs one assessment end to end and returns the full response.
func (h *AssessmentHandler) Assess(ctx context.Context, req *models.AssessmentRequest) (*models.AssessmentResponse, error) {
	if req.UserID == 0 {
		return nil, models.ErrMissingUserID
	}

	if err := models.ValidateAssessment(&req.AssessmentProfile); err != nil {
		return nil, err
	}

	customer, err := h.customerRepo.Upsert(ctx, req.UserID, &req.AssessmentProfile)
	if err != nil {
		return nil, err
	}

	result := h.engine.ScoreProminence(&req.AssessmentProfile)

	if err := h.customerRepo.UpdateProminence(ctx, customer.ID, result); err != nil {
		return nil, err
	}
	customer.IsProminent = result.IsProminent
	customer.ProminenceScore = result.ProminenceScore

	catalog, err := h.catalog.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy catalog: %w", err)
	}

	government, private := h.engine.RecommendPolicies(&req.AssessmentProfile, result.ProminenceScore, catalog)
	reasons, suggestions := h.engine.ExplainRecommendations(&req.AssessmentProfile, result.ProminenceScore)

	policyIDs := make([]int64, 0, len(government)+len(private))
	for _, p := range government {
		policyIDs = append(policyIDs, p.ID)
	}
	for _, p := range private {
		policyIDs = append(policyIDs, p.ID)
	}

	if err := h.linkRepo.ReplaceRecommendations(ctx, customer.ID, policyIDs); err != nil {
		return nil, err
	}

	logger := utils.GetLogger()
	logger.Info("Assessment completed",
		utils.Int64("userID", req.UserID),
		utils.Int("score", result.ProminenceScore),
		utils.Bool("prominent", result.IsProminent),
		utils.Int("recommendations", len(policyIDs)))

	// Manager alert is best effort; the assessment result stands either way.
	if result.IsProminent && h.alerts != nil && h.managerEmail != "" {
		recommended := append(append([]*models.Policy{}, government...), private...)
		params := ses.BuildProminentAlertParams(h.managerEmail, customer, recommended, h.dashboardURL)
		if _, err := h.alerts.SendProminentAlert(ctx, params); err != nil {
			logger.Warn("Failed to send prominent customer alert", utils.Error(err))
		}
	}

	return &models.AssessmentResponse{
		Customer:           customer,
		IsProminent:        result.IsProminent,
		ProminenceScore:    result.ProminenceScore,
		GovernmentPolicies: government,
		PrivatePolicies:    private,
		Reasons:            reasons,
		Suggestions:        suggestions,
		AssessedAt:         time.Now().UTC(),
	}, nil
}

// Handle processes the API Gateway request for running an assessment.
func (h *AssessmentHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "POST,OPTIONS",
		"Content-Type":                 "application/json",
	}

	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
		}, nil
	}

	var req models.AssessmentRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(headers, http.StatusBadRequest, "Invalid request body")
	}

	response, err := h.Assess(ctx, &req)
	if err != nil {
		if IsValidationError(err) {
			return errorResponse(headers, http.StatusBadRequest, err.Error())
		}
		utils.GetLogger().Error("Assessment failed", utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Assessment failed")
	}

	body, _ := json.Marshal(response)

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// IsValidationError reports whether the error stems from bad input rather
// than an internal failure.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		models.ErrMissingUserID,
		models.ErrInvalidGender,
		models.ErrInvalidArea,
		models.ErrInvalidMaritalStatus,
		models.ErrEmptyQualification,
		models.ErrEmptyIncome,
		models.ErrEmptyPolicyType,
		models.ErrNegativeVintage,
		models.ErrNegativeClaimAmount,
		models.ErrNegativePoliciesCount,
		models.ErrNoPoliciesChosen,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Close cleans up resources.
func (h *AssessmentHandler) Close() {
	if h.db != nil {
		h.db.Close()
	}
}
