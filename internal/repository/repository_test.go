package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"happytummy/internal/database"
	"happytummy/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(database.NewModerncDialect(), database.DialectConfig{Path: filepath.Join(t.TempDir(), "repo.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), "../../migrations"))
	return db
}

func ptr[T any](v T) *T { return &v }

// seedFamily creates a user owning a family with one child
func seedFamily(t *testing.T, db *database.DB) (*models.User, *models.Family, *models.Child) {
	t.Helper()
	ctx := context.Background()

	user, err := NewUserRepository(db).CreateUser(ctx, "Parent@Example.com", "hash", "Parent")
	require.NoError(t, err)
	family, err := NewFamilyRepository(db).CreateFamily(ctx, "Parent's Family", "FAM123", user.ID)
	require.NoError(t, err)

	child := &models.Child{FamilyID: family.ID, Name: "Mia", AgeMonths: 9, Allergies: []string{" egg ", "Egg", "milk"}}
	require.NoError(t, NewChildRepository(db).CreateChild(ctx, child))
	return user, family, child
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user, err := repo.CreateUser(ctx, "Parent@Example.com", "hash", "Parent")
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", user.Email)

	found, err := repo.GetUserByEmail(ctx, " PARENT@example.com ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.True(t, found.HasPassword())

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.CreateUser(ctx, "parent@example.com", "other", "Dup")
	assert.Error(t, err, "email must be unique")

	require.NoError(t, repo.LinkOAuth(ctx, user.ID, "google", "sub-1"))
	linked, err := repo.GetUserByOAuth(ctx, "google", "sub-1")
	require.NoError(t, err)
	require.NotNil(t, linked)
	assert.Equal(t, user.ID, linked.ID)

	oauthUser, err := repo.CreateOAuthUser(ctx, "social@example.com", "Social", "google", "sub-2")
	require.NoError(t, err)
	assert.False(t, oauthUser.HasPassword())

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestFamilyRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user, family, _ := seedFamily(t, db)
	repo := NewFamilyRepository(db)

	byCode, err := repo.GetFamilyByCode(ctx, "FAM123")
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, family.ID, byCode.ID)

	isMember, err := repo.IsFamilyMember(ctx, user.ID, family.ID)
	require.NoError(t, err)
	assert.True(t, isMember)

	other, err := NewUserRepository(db).CreateUser(ctx, "grandma@example.com", "hash", "Grandma")
	require.NoError(t, err)

	isMember, err = repo.IsFamilyMember(ctx, other.ID, family.ID)
	require.NoError(t, err)
	assert.False(t, isMember)

	require.NoError(t, repo.AddFamilyMember(ctx, family.ID, other.ID, models.RoleCaregiver))
	members, users, err := repo.GetFamilyMembers(ctx, family.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Len(t, users, 2)

	families, err := repo.GetUserFamilies(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, family.ID, families[0].ID)
}

func TestChildRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user, _, child := seedFamily(t, db)
	repo := NewChildRepository(db)

	assert.Equal(t, []string{"egg", "milk"}, child.Allergies)

	found, err := repo.GetChildByID(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Mia", found.Name)
	assert.Equal(t, []string{"egg", "milk"}, found.Allergies)

	children, err := repo.ListChildrenForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, children, 1)

	stranger, err := NewUserRepository(db).CreateUser(ctx, "stranger@example.com", "hash", "Stranger")
	require.NoError(t, err)
	none, err := repo.ListChildrenForUser(ctx, stranger.ID)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	found.AgeMonths = 10
	found.Allergies = nil
	require.NoError(t, repo.UpdateChild(ctx, found))
	updated, err := repo.GetChildByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, updated.AgeMonths)
	assert.Empty(t, updated.Allergies)

	log := &models.DigestionLog{ChildID: child.ID, LogDate: "2026-10-01", Foods: []models.LogFood{{FoodName: "Pear"}}}
	require.NoError(t, NewLogRepository(db).CreateLog(ctx, log))

	require.NoError(t, repo.DeleteChild(ctx, child.ID))
	gone, err := repo.GetChildByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	logs, err := NewLogRepository(db).ListAllLogs(ctx)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestLogRepository(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	user, _, child := seedFamily(t, db)
	repo := NewLogRepository(db)

	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	first := &models.DigestionLog{
		ChildID:   child.ID,
		LogDate:   "2026-10-01",
		StoolType: ptr(2),
		Hydration: ptr(models.HydrationLow),
		CreatedBy: &user.ID,
		CreatedAt: base,
		Foods: []models.LogFood{
			{FoodName: "Prune", Quantity: ptr(30.0), Unit: ptr("g"), Fiber: ptr(2.1)},
			{FoodName: "Oatmeal"},
		},
	}
	second := &models.DigestionLog{
		ChildID:        child.ID,
		LogDate:        "2026-10-02",
		StoolType:      ptr(4),
		StoolFrequency: ptr(2),
		Notes:          "better today",
		CreatedAt:      base.Add(24 * time.Hour),
	}
	require.NoError(t, repo.CreateLog(ctx, first))
	require.NoError(t, repo.CreateLog(ctx, second))
	assert.NotZero(t, first.ID)
	assert.Equal(t, first.ID, first.Foods[0].LogID)

	logs, err := repo.ListLogs(ctx, child.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, second.ID, logs[0].ID, "newest first")
	assert.Equal(t, first.ID, logs[1].ID)

	assert.NotNil(t, logs[0].Foods)
	assert.Empty(t, logs[0].Foods)
	assert.Nil(t, logs[0].Hydration)
	assert.Equal(t, "better today", logs[0].Notes)

	require.Len(t, logs[1].Foods, 2)
	assert.Equal(t, "Prune", logs[1].Foods[0].FoodName)
	assert.Equal(t, 2.1, *logs[1].Foods[0].Fiber)
	assert.Nil(t, logs[1].Foods[1].Quantity)
	assert.Equal(t, models.HydrationLow, *logs[1].Hydration)
	assert.Nil(t, logs[1].StoolFrequency)
	require.NotNil(t, logs[1].CreatedBy)
	assert.Equal(t, user.ID, *logs[1].CreatedBy)
	assert.True(t, base.Equal(logs[1].CreatedAt))

	latest, err := repo.ListLogs(ctx, child.ID, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, second.ID, latest[0].ID)
}

func TestReferenceRepositoryMatchFoods(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewReferenceRepository(db)

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{name: "case insensitive", query: "APPLE", limit: 5, want: []string{"Apple"}},
		{name: "substring", query: "rice", limit: 5, want: []string{"White Rice", "Brown Rice"}},
		{name: "limit keeps dataset order", query: "r", limit: 2, want: []string{"Pear", "Prune"}},
		{name: "wildcards are literal", query: "%", limit: 5, want: []string{}},
		{name: "no match", query: "durian", limit: 5, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			foods, err := repo.MatchFoods(ctx, tt.query, tt.limit)
			require.NoError(t, err)
			names := []string{}
			for _, f := range foods {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestReferenceRepositoryMatchFoodsSpecialCharacters(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewReferenceRepository(db)

	for _, name := range []string{"Épinard", `Oat\Bran`, "Yum! Puffs", "Rice_Cake 100%"} {
		_, err := db.ExecContext(ctx,
			"INSERT INTO reference_foods (category, name, quantity, unit) VALUES (?, ?, ?, ?)",
			"vegetable", name, 100.0, "g")
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "épinard", want: []string{"Épinard"}},
		{query: "ÉPINARD", want: []string{"Épinard"}},
		{query: "pinard", want: []string{"Épinard"}},
		{query: `oat\bran`, want: []string{`Oat\Bran`}},
		{query: "yum!", want: []string{"Yum! Puffs"}},
		{query: "_cake 100%", want: []string{"Rice_Cake 100%"}},
		{query: "e_c", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			foods, err := repo.MatchFoods(ctx, tt.query, 5)
			require.NoError(t, err)
			names := []string{}
			for _, f := range foods {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestReferenceRepositoryDataset(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewReferenceRepository(db)

	grouped, err := repo.ListFoodsByCategory(ctx)
	require.NoError(t, err)
	for _, category := range []string{"fruit", "vegetable", "carb", "protein", "milk_stage1", "milk_stage2"} {
		assert.NotEmpty(t, grouped[category], category)
	}
	for _, milk := range grouped["milk_stage1"] {
		assert.Nil(t, milk.Unit)
	}

	meals, err := repo.ListMealTemplates(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, meals)
	for _, meal := range meals {
		assert.LessOrEqual(t, meal.MinAgeMonths, meal.MaxAgeMonths)
		assert.NotEmpty(t, meal.Texture)
	}
}

func TestReferenceRepositoryNutrientSync(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewReferenceRepository(db)

	missing, err := repo.ListFoodsMissingNutrients(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)

	_, err = db.ExecContext(ctx,
		"INSERT INTO reference_foods (category, name, fiber, quantity, unit) VALUES (?, ?, ?, ?, ?)",
		"fruit", "Kiwi", 3.0, 100.0, "g")
	require.NoError(t, err)

	missing, err = repo.ListFoodsMissingNutrients(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	kiwi := missing[0]

	require.NoError(t, repo.UpdateFoodNutrients(ctx, kiwi.ID, ptr(9.9), ptr(61.0), ptr(1.1), ptr(9.0), ptr(83.1)))

	foods, err := repo.MatchFoods(ctx, "kiwi", 5)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, 3.0, *foods[0].Fiber, "existing values are kept")
	assert.Equal(t, 61.0, *foods[0].Calories)

	missing, err = repo.ListFoodsMissingNutrients(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestInPlaceholders(t *testing.T) {
	assert.Equal(t, "", inPlaceholders(0))
	assert.Equal(t, "?", inPlaceholders(1))
	assert.Equal(t, "?, ?, ?", inPlaceholders(3))
}
