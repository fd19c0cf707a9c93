//go:build ignore
// +build ignore

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"insurance-advisor-engine/internal/models"
	"insurance-advisor-engine/internal/services/database"
	"insurance-advisor-engine/internal/services/engine"
)

func main() {
	fmt.Println("=== Insurance Advisor Engine - Local Test ===")
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("⚠️  Warning: Could not load .env file: %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect to database
	databaseURL := os.Getenv("DATABASE_URL")
	db, err := database.NewFromURL(databaseURL)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	fmt.Println("✅ Connected to database")

	// Load the policy catalog
	fmt.Println()
	fmt.Println("📖 Loading policy catalog...")

	policyRepo := database.NewPolicyRepository(db)
	catalog, err := policyRepo.GetAll(ctx)
	if err != nil {
		fmt.Printf("❌ Failed to load catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %d policies\n", len(catalog))

	// Score sample profiles
	fmt.Println()
	fmt.Println("🎯 Running sample assessments...")

	engineSvc := engine.New(engine.NewScorerFromArtifact(os.Getenv("PROMINENCE_MODEL_PATH")))

	profiles := map[string]*models.AssessmentProfile{
		"affluent urban customer": {
			Gender:         models.GenderFemale,
			Area:           models.AreaUrban,
			Qualification:  models.QualificationPostGraduate,
			Income:         models.IncomeAbove15L,
			Vintage:        8,
			ClaimAmount:    0,
			PoliciesCount:  4,
			PoliciesChosen: "health,life",
			PolicyType:     models.PolicyTypeIndividual,
			MaritalStatus:  models.MaritalStatusMarried,
		},
		"new rural customer": {
			Gender:         models.GenderMale,
			Area:           models.AreaRural,
			Qualification:  models.QualificationHighSchool,
			Income:         models.IncomeBelow2L,
			Vintage:        0,
			ClaimAmount:    0,
			PoliciesCount:  0,
			PoliciesChosen: "health",
			PolicyType:     models.PolicyTypeIndividual,
			MaritalStatus:  models.MaritalStatusSingle,
		},
	}

	for label, profile := range profiles {
		result := engineSvc.ScoreProminence(profile)
		government, private := engineSvc.RecommendPolicies(profile, result.ProminenceScore, catalog)
		reasons, suggestions := engineSvc.ExplainRecommendations(profile, result.ProminenceScore)

		fmt.Println()
		fmt.Printf("👤 %s\n", label)
		fmt.Printf("   Score: %d | Prominent: %t\n", result.ProminenceScore, result.IsProminent)
		fmt.Printf("   Government policies (%d):\n", len(government))
		for _, p := range government {
			fmt.Printf("      ✓ %s [%s]\n", p.Name, p.Category)
		}
		fmt.Printf("   Private policies (%d):\n", len(private))
		for _, p := range private {
			fmt.Printf("      ✓ %s [%s]\n", p.Name, p.Category)
		}
		fmt.Printf("   Reasons: %d categories explained\n", len(reasons))
		for _, suggestion := range suggestions {
			fmt.Printf("   💡 %s\n", suggestion)
		}
	}

	// Summary
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════")
	fmt.Println("              TEST COMPLETE")
	fmt.Println("═══════════════════════════════════════════")

	customerRepo := database.NewCustomerRepository(db)
	stats, err := customerRepo.Stats(ctx)
	if err == nil {
		fmt.Printf("📊 Customers:  %d\n", stats.TotalCustomers)
		fmt.Printf("⭐ Prominent:  %d\n", stats.ProminentCustomers)
		fmt.Printf("📈 Conversion: %.1f%%\n", stats.ConversionRate)
	}
	fmt.Printf("📦 Policies:   %d\n", len(catalog))
	fmt.Println("═══════════════════════════════════════════")
}
