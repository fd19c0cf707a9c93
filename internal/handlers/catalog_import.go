// Package handlers provides HTTP handlers for the insurance advisor engine.
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	appConfig "insurance-advisor-engine/internal/config"
	"insurance-advisor-engine/internal/services/cache"
	"insurance-advisor-engine/internal/services/database"
	"insurance-advisor-engine/internal/utils"
)

// CatalogImportHandler handles S3 events for policy catalog CSV imports.
type CatalogImportHandler struct {
	s3Client   *s3.Client
	db         *database.DB
	policyRepo *database.PolicyRepository
	catalog    *cache.PolicyCache
}

// NewCatalogImportHandler creates a new catalog import handler.
func NewCatalogImportHandler() (*CatalogImportHandler, error) {
	awsCfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

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

	return &CatalogImportHandler{
		s3Client:   s3.NewFromConfig(awsCfg),
		db:         db,
		policyRepo: policyRepo,
		catalog:    cache.New(redisClient, policyRepo, cache.DefaultTTL),
	}, nil
}

// CatalogImportResult is the result of processing a catalog CSV file.
type CatalogImportResult struct {
	Message  string   `json:"message"`
	BatchID  string   `json:"batch_id"`
	Inserted int      `json:"inserted"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Handle processes S3 events for uploaded catalog CSV files.
func (h *CatalogImportHandler) Handle(ctx context.Context, s3Event events.S3Event) (CatalogImportResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return CatalogImportResult{Message: "No records to process"}, nil
	}

	record := s3Event.Records[0]
	bucket := record.S3.Bucket.Name
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return CatalogImportResult{}, fmt.Errorf("failed to decode S3 key: %w", err)
	}

	batchID := uuid.New().String()

	logger.Info("Processing catalog CSV",
		utils.String("bucket", bucket),
		utils.String("key", key),
		utils.String("batchID", batchID))

	csvContent, err := h.downloadCSV(ctx, bucket, key)
	if err != nil {
		logger.Error("Failed to download catalog CSV", utils.Error(err))
		return CatalogImportResult{}, fmt.Errorf("failed to download CSV: %w", err)
	}

	parser := utils.NewCatalogParser()
	policies, parseErrors := parser.ParsePolicies(csvContent)

	if len(policies) == 0 {
		errMsgs := make([]string, len(parseErrors))
		for i, e := range parseErrors {
			errMsgs[i] = e.Error()
		}
		return CatalogImportResult{
			Message: "No valid policies found in CSV",
			BatchID: batchID,
			Errors:  errMsgs,
		}, nil
	}

	logger.Info("Parsed catalog CSV",
		utils.String("batchID", batchID),
		utils.Int("validPolicies", len(policies)),
		utils.Int("parseErrors", len(parseErrors)))

	result, err := h.policyRepo.BulkInsert(ctx, policies)
	if err != nil {
		logger.Error("Failed to insert policies", utils.Error(err))
		return CatalogImportResult{}, fmt.Errorf("failed to insert policies: %w", err)
	}

	logger.Info("Inserted policies",
		utils.String("batchID", batchID),
		utils.Int("inserted", result.InsertedCount),
		utils.Int("failed", result.FailedCount))

	// Cached catalog is stale after any insert
	if result.InsertedCount > 0 {
		h.catalog.Invalidate(ctx)
	}

	// Archive processed file
	if err := h.archiveFile(ctx, bucket, key); err != nil {
		logger.Warn("Failed to archive file", utils.Error(err))
	}

	// Combine parse errors with insert errors
	allErrors := make([]string, 0)
	for _, e := range parseErrors {
		allErrors = append(allErrors, e.Error())
	}
	allErrors = append(allErrors, result.Errors...)

	// Limit errors in response
	if len(allErrors) > 10 {
		allErrors = allErrors[:10]
	}

	return CatalogImportResult{
		Message:  "Catalog CSV processed successfully",
		BatchID:  batchID,
		Inserted: result.InsertedCount,
		Failed:   result.FailedCount + len(parseErrors),
		Errors:   allErrors,
	}, nil
}

// downloadCSV downloads CSV content from S3.
func (h *CatalogImportHandler) downloadCSV(ctx context.Context, bucket, key string) (string, error) {
	output, err := h.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return "", err
	}
	defer output.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, output.Body); err != nil {
		return "", err
	}

	content := buf.String()
	if content == "" {
		return "", fmt.Errorf("CSV file is empty")
	}

	return content, nil
}

// archiveFile moves the processed file to an archive folder.
func (h *CatalogImportHandler) archiveFile(ctx context.Context, bucket, key string) error {
	archiveKey := "processed/" + key
	copySource := bucket + "/" + key

	_, err := h.s3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &bucket,
		CopySource: &copySource,
		Key:        &archiveKey,
	})
	if err != nil {
		return fmt.Errorf("failed to copy to archive: %w", err)
	}

	_, err = h.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete original: %w", err)
	}

	return nil
}

// Close cleans up resources.
func (h *CatalogImportHandler) Close() {
	if h.db != nil {
		h.db.Close()
	}
}
