// Package main provides a local HTTP server for development and testing.
// It exposes the assessment, catalog and manager endpoints backed by the
// same engine and repositories the Lambdas use.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"insurance-advisor-engine/internal/config"
	"insurance-advisor-engine/internal/handlers"
	"insurance-advisor-engine/internal/models"
	"insurance-advisor-engine/internal/services/cache"
	"insurance-advisor-engine/internal/services/database"
	"insurance-advisor-engine/internal/services/engine"
	"insurance-advisor-engine/internal/utils"
)

// Server holds all dependencies
type Server struct {
	db           *database.DB
	customerRepo *database.CustomerRepository
	policyRepo   *database.PolicyRepository
	linkRepo     *database.CustomerPolicyRepository
	catalog      *cache.PolicyCache
	assessment   *handlers.AssessmentHandler
	config       *config.Config
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ImportResponse contains catalog CSV import results
type ImportResponse struct {
	TotalRows     int      `json:"total_rows"`
	ValidPolicies int      `json:"valid_policies"`
	Inserted      int      `json:"inserted"`
	Failed        int      `json:"failed"`
	Errors        []string `json:"errors,omitempty"`
	ProcessingMs  int64    `json:"processing_ms"`
}

func main() {
	// Initialize logger first
	if err := utils.InitLogger("info"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config from environment: %v", err)
		cfg = &config.Config{}
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()

	customerRepo := database.NewCustomerRepository(db)
	policyRepo := database.NewPolicyRepository(db)
	linkRepo := database.NewCustomerPolicyRepository(db)

	// Optional catalog cache
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	catalog := cache.New(redisClient, policyRepo, cache.DefaultTTL)

	// Local runs score with the on-disk artifact when present
	engineSvc := engine.New(engine.NewScorerFromArtifact(cfg.ModelPath))

	server := &Server{
		db:           db,
		customerRepo: customerRepo,
		policyRepo:   policyRepo,
		linkRepo:     linkRepo,
		catalog:      catalog,
		assessment:   handlers.NewAssessmentHandlerWithDeps(db, customerRepo, linkRepo, catalog, engineSvc, nil, "", cfg.DashboardURL),
		config:       cfg,
	}

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/health", server.healthHandler)

	// Run an assessment
	mux.HandleFunc("/api/assessment", server.assessmentHandler)

	// Policy catalog
	mux.HandleFunc("/api/policies", server.policiesHandler)
	mux.HandleFunc("/api/policies/government", server.governmentPoliciesHandler)
	mux.HandleFunc("/api/policies/category/", server.policiesByCategoryHandler)

	// Catalog CSV import (local equivalent of the S3-triggered Lambda)
	mux.HandleFunc("/api/catalog/import", server.catalogImportHandler)

	// Customer policy links
	mux.HandleFunc("/api/customers/", server.customerPoliciesHandler)

	// Manager views
	mux.HandleFunc("/api/manager/prominent-customers", server.prominentCustomersHandler)
	mux.HandleFunc("/api/manager/dashboard-stats", server.dashboardStatsHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	port := getEnvOrDefault("PORT", "8080")
	addr := fmt.Sprintf("0.0.0.0:%s", port)

	log.Printf("Insurance Advisor Engine API Server")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("Health: http://localhost:%s/health", port)

	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if err := s.db.HealthCheck(r.Context()); err == nil {
		dbStatus = "connected"
	}

	response := Response{
		Success: true,
		Message: "Insurance Advisor Engine API is running",
		Data: map[string]interface{}{
			"status":    "healthy",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) assessmentHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := s.assessment.Assess(r.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if handlers.IsValidationError(err) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

func (s *Server) policiesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	policies, err := s.catalog.Catalog(r.Context())
	if err != nil {
		log.Printf("Error fetching policies: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch policies",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    policies,
	})
}

func (s *Server) governmentPoliciesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	policies, err := s.policyRepo.GetGovernment(r.Context())
	if err != nil {
		log.Printf("Error fetching government policies: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch policies",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    policies,
	})
}

func (s *Server) policiesByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := strings.TrimPrefix(r.URL.Path, "/api/policies/category/")
	if category == "" {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Category is required",
		})
		return
	}

	policies, err := s.policyRepo.GetByCategory(r.Context(), category)
	if err != nil {
		log.Printf("Error fetching policies for category %s: %v", category, err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch policies",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    policies,
	})
}

func (s *Server) catalogImportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	startTime := time.Now()

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB max
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Failed to parse form: " + err.Error(),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "No file provided",
		})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Only CSV files are allowed",
		})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to read file",
		})
		return
	}

	parser := utils.NewCatalogParser()
	policies, parseErrors := parser.ParsePolicies(string(content))

	response := &ImportResponse{
		TotalRows:     len(policies) + len(parseErrors),
		ValidPolicies: len(policies),
	}

	if len(policies) > 0 {
		result, err := s.policyRepo.BulkInsert(r.Context(), policies)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		response.Inserted = result.InsertedCount
		response.Failed = result.FailedCount
		response.Errors = result.Errors

		if result.InsertedCount > 0 {
			s.catalog.Invalidate(r.Context())
		}
	}

	for _, e := range parseErrors {
		response.Errors = append(response.Errors, e.Error())
	}
	response.Failed += len(parseErrors)
	if len(response.Errors) > 10 {
		response.Errors = response.Errors[:10]
	}
	response.ProcessingMs = time.Since(startTime).Milliseconds()

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Catalog CSV processed successfully",
		Data:    response,
	})
}

// customerPoliciesHandler serves /api/customers/{userID}/policies.
func (s *Server) customerPoliciesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/customers/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "policies" {
		http.NotFound(w, r)
		return
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid user ID",
		})
		return
	}

	customer, err := s.customerRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching customer %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch customer",
		})
		return
	}
	if customer == nil {
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Customer not found",
		})
		return
	}

	links, err := s.linkRepo.GetWithDetails(r.Context(), customer.ID)
	if err != nil {
		log.Printf("Error fetching customer policies: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch customer policies",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"customer": customer,
			"policies": links,
		},
	})
}

func (s *Server) prominentCustomersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	customers, err := s.customerRepo.GetProminent(r.Context())
	if err != nil {
		log.Printf("Error fetching prominent customers: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch prominent customers",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    customers,
	})
}

func (s *Server) dashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.customerRepo.Stats(r.Context())
	if err != nil {
		log.Printf("Error computing dashboard stats: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to compute dashboard stats",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
