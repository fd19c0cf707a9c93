// Integration tests. They run only when DATABASE_URL points at a
// provisioned database (see scripts/init_db.go) and are skipped otherwise.
package database_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insurance-advisor-engine/internal/models"
	"insurance-advisor-engine/internal/services/database"
)

var testDB *database.DB

func TestMain(m *testing.M) {
	if os.Getenv("DATABASE_URL") == "" {
		os.Exit(0)
	}

	var err error
	testDB, err = database.NewFromURL(os.Getenv("DATABASE_URL"))
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}

	code := m.Run()

	testDB.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("database not configured")
	}
}

func sampleProfile() *models.AssessmentProfile {
	return &models.AssessmentProfile{
		Gender:         models.GenderFemale,
		Area:           models.AreaUrban,
		Qualification:  models.QualificationGraduate,
		Income:         models.Income5LTo10L,
		Vintage:        3,
		ClaimAmount:    0,
		PoliciesCount:  1,
		PoliciesChosen: "health",
		PolicyType:     models.PolicyTypeIndividual,
		MaritalStatus:  models.MaritalStatusMarried,
	}
}

func TestDatabaseConnection(t *testing.T) {
	requireDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, testDB.HealthCheck(ctx))
}

func TestCustomerRepository_UpsertAndProminence(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	repo := database.NewCustomerRepository(testDB)
	userID := time.Now().UnixNano()

	customer, err := repo.Upsert(ctx, userID, sampleProfile())
	require.NoError(t, err)
	require.NotZero(t, customer.ID)
	assert.Equal(t, userID, customer.UserID)
	assert.False(t, customer.IsProminent)

	// Reassessment overwrites the profile without creating a second row
	updated := sampleProfile()
	updated.Income = models.IncomeAbove15L
	updated.Vintage = 6

	customer2, err := repo.Upsert(ctx, userID, updated)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, customer2.ID)
	assert.Equal(t, models.IncomeAbove15L, customer2.Income)

	err = repo.UpdateProminence(ctx, customer.ID, models.ProminenceResult{IsProminent: true, ProminenceScore: 78})
	require.NoError(t, err)

	fetched, err := repo.GetByUserID(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.True(t, fetched.IsProminent)
	assert.Equal(t, 78, fetched.ProminenceScore)

	prominent, err := repo.GetProminent(ctx)
	require.NoError(t, err)
	found := false
	for _, c := range prominent {
		if c.ID == customer.ID {
			found = true
		}
	}
	assert.True(t, found, "prominent customer should appear in the dashboard listing")

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalCustomers, 1)
	assert.GreaterOrEqual(t, stats.ProminentCustomers, 1)
}

func TestCustomerRepository_GetByUserID_Missing(t *testing.T) {
	requireDB(t)

	customer, err := database.NewCustomerRepository(testDB).GetByUserID(context.Background(), -1)
	require.NoError(t, err)
	assert.Nil(t, customer)
}

func TestPolicyRepository_CreateAndQuery(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	repo := database.NewPolicyRepository(testDB)
	name := fmt.Sprintf("Test Health Plan %d", time.Now().UnixNano())

	premium := int64(9000)
	id, err := repo.Create(ctx, &models.PolicyCreate{
		Name:        name,
		Description: "Test policy",
		Category:    "Health",
		Provider:    "TestCo",
		Premium:     &premium,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	policy, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, policy)
	assert.Equal(t, name, policy.Name)
	assert.Equal(t, models.CategoryHealth, policy.Category, "category is stored normalized")
	require.NotNil(t, policy.Premium)
	assert.Equal(t, premium, *policy.Premium)

	byCategory, err := repo.GetByCategory(ctx, "health")
	require.NoError(t, err)
	found := false
	for _, p := range byCategory {
		if p.ID == id {
			found = true
		}
	}
	assert.True(t, found)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 1)
}

func TestPolicyRepository_GetGovernment(t *testing.T) {
	requireDB(t)

	policies, err := database.NewPolicyRepository(testDB).GetGovernment(context.Background())
	require.NoError(t, err)

	for _, p := range policies {
		assert.True(t, p.IsGovernmentPolicy)
	}
}

func TestPolicyRepository_BulkInsertCollectsRowErrors(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	repo := database.NewPolicyRepository(testDB)
	timestamp := time.Now().UnixNano()

	// The duplicate name trips the unique constraint; the rest still insert
	name := fmt.Sprintf("Bulk Plan %d", timestamp)
	batch := []*models.PolicyCreate{
		{Name: name, Category: "life", Provider: "TestCo"},
		{Name: name, Category: "life", Provider: "TestCo"},
		{Name: fmt.Sprintf("Bulk Plan B %d", timestamp), Category: "vehicle", Provider: "TestCo"},
	}

	result, err := repo.BulkInsert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, result.InsertedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Errors, 1)
}

func TestCustomerPolicyRepository_ReplaceRecommendations(t *testing.T) {
	requireDB(t)

	ctx := context.Background()
	customerRepo := database.NewCustomerRepository(testDB)
	policyRepo := database.NewPolicyRepository(testDB)
	linkRepo := database.NewCustomerPolicyRepository(testDB)

	customer, err := customerRepo.Upsert(ctx, time.Now().UnixNano(), sampleProfile())
	require.NoError(t, err)

	timestamp := time.Now().UnixNano()
	policyA, err := policyRepo.Create(ctx, &models.PolicyCreate{
		Name: fmt.Sprintf("Link Plan A %d", timestamp), Category: "health", Provider: "TestCo",
	})
	require.NoError(t, err)
	policyB, err := policyRepo.Create(ctx, &models.PolicyCreate{
		Name: fmt.Sprintf("Link Plan B %d", timestamp), Category: "life", Provider: "TestCo",
	})
	require.NoError(t, err)

	err = linkRepo.ReplaceRecommendations(ctx, customer.ID, []int64{policyA, policyB})
	require.NoError(t, err)

	links, err := linkRepo.GetByCustomerID(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)

	// An accepted link survives the next assessment
	require.NoError(t, linkRepo.UpdateStatus(ctx, links[0].ID, models.CustomerPolicyStatusAccepted))

	err = linkRepo.ReplaceRecommendations(ctx, customer.ID, []int64{policyB})
	require.NoError(t, err)

	links, err = linkRepo.GetByCustomerID(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, links, 2)

	statuses := map[models.CustomerPolicyStatus]int{}
	for _, link := range links {
		statuses[link.Status]++
	}
	assert.Equal(t, 1, statuses[models.CustomerPolicyStatusAccepted])
	assert.Equal(t, 1, statuses[models.CustomerPolicyStatusRecommended])

	details, err := linkRepo.GetWithDetails(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)
	for _, item := range details {
		require.NotNil(t, item.Policy)
		assert.NotEmpty(t, item.Policy.Name)
	}
}
