package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fitrecipes/vector-search/internal/model"
	"github.com/fitrecipes/vector-search/internal/search"
	"github.com/fitrecipes/vector-search/internal/service"
	"github.com/fitrecipes/vector-search/internal/testhelpers"
)

// setupFallbackDB builds an in-memory sqlite database with the recipe table
// laid out as plain text columns, the shape the non-Postgres paths expect.
func setupFallbackDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
		CREATE TABLE recipes (
			id              TEXT PRIMARY KEY,
			created_at      DATETIME,
			updated_at      DATETIME,
			title           TEXT,
			description     TEXT,
			main_ingredient TEXT,
			ingredients     TEXT,
			cuisine_type    TEXT,
			dietary_info    TEXT,
			meal_types      TEXT,
			difficulty      TEXT,
			prep_time       INTEGER,
			cooking_time    INTEGER,
			servings        INTEGER,
			average_rating  REAL,
			total_ratings   INTEGER,
			image_urls      TEXT,
			status          TEXT,
			author_id       TEXT,
			embedding       TEXT
		)
	`).Error)

	return db
}

func seedFallbackRecipes(t *testing.T, db *gorm.DB) (model.Recipe, model.Recipe) {
	curry := model.Recipe{
		ID:             uuid.New(),
		Title:          "Thai Green Curry",
		Description:    "Coconut curry with tofu and basil.",
		MainIngredient: "tofu",
		Ingredients: model.IngredientList{
			{Name: "tofu"}, {Name: "coconut milk"},
		},
		CuisineType:  "thai",
		DietaryInfo:  model.DietaryInfo{"isVegan": true},
		MealTypes:    model.MealTypeArray{model.MealDinner},
		Difficulty:   model.DifficultyEasy,
		PrepTime:     10,
		CookingTime:  15,
		TotalRatings: 40,
		Status:       model.StatusApproved,
	}
	stew := model.Recipe{
		ID:             uuid.New(),
		Title:          "Beef Stew",
		Description:    "Slow-cooked beef with root vegetables.",
		MainIngredient: "beef",
		Ingredients: model.IngredientList{
			{Name: "beef"}, {Name: "carrot"},
		},
		CuisineType:  "american",
		MealTypes:    model.MealTypeArray{model.MealDinner},
		Difficulty:   model.DifficultyHard,
		PrepTime:     30,
		CookingTime:  180,
		TotalRatings: 5,
		Status:       model.StatusApproved,
	}
	pending := model.Recipe{
		ID:             uuid.New(),
		Title:          "Thai Basil Chicken",
		MainIngredient: "chicken",
		CuisineType:    "thai",
		Status:         "PENDING",
	}

	require.NoError(t, db.Create(&curry).Error)
	require.NoError(t, db.Create(&stew).Error)
	require.NoError(t, db.Create(&pending).Error)
	return curry, stew
}

func TestKeywordFallbackMatchesAndRanks(t *testing.T) {
	db := setupFallbackDB(t)
	curry, _ := seedFallbackRecipes(t, db)
	s := NewRecipeStore(db, 0.5)

	// Non-Postgres dialect routes the similarity call through the keyword
	// fallback.
	candidates, err := s.SimilaritySearch(context.Background(), pgvector.NewVector(make([]float32, 4)), "thai curry", search.FilterSet{}, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, curry.ID, candidates[0].Recipe.ID)
	assert.InDelta(t, 1.0, candidates[0].Similarity, 1e-9)
}

func TestKeywordFallbackExcludesPending(t *testing.T) {
	db := setupFallbackDB(t)
	seedFallbackRecipes(t, db)
	s := NewRecipeStore(db, 0.5)

	candidates, err := s.KeywordSearch(context.Background(), "thai basil chicken", search.FilterSet{}, 10)
	require.NoError(t, err)
	for _, c := range candidates {
		assert.Equal(t, model.StatusApproved, c.Recipe.Status)
	}
}

func TestKeywordFallbackAppliesFilters(t *testing.T) {
	db := setupFallbackDB(t)
	curry, _ := seedFallbackRecipes(t, db)
	s := NewRecipeStore(db, 0.5)

	f := search.FilterSet{
		Difficulty:  []model.DifficultyLevel{model.DifficultyEasy},
		MaxPrepTime: 30,
	}
	candidates, err := s.KeywordSearch(context.Background(), "dinner recipe stew curry", f, 10)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, curry.ID, candidates[0].Recipe.ID)
}

func TestFindCandidatesMatchesIngredientList(t *testing.T) {
	db := setupFallbackDB(t)
	curry, _ := seedFallbackRecipes(t, db)
	s := NewRecipeStore(db, 0.5)

	recipes, err := s.FindCandidates(context.Background(), []string{"coconut"}, search.FilterSet{})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, curry.ID, recipes[0].ID)
}

func TestSuggestOrdersByPopularity(t *testing.T) {
	db := setupFallbackDB(t)
	curry, stew := seedFallbackRecipes(t, db)
	s := NewRecipeStore(db, 0.5)

	recipes, err := s.Suggest(context.Background(), "e", 10)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, curry.ID, recipes[0].ID)
	assert.Equal(t, stew.ID, recipes[1].ID)
}

func TestGetApprovedSkipsPending(t *testing.T) {
	db := setupFallbackDB(t)
	curry, _ := seedFallbackRecipes(t, db)
	s := NewRecipeStore(db, 0.5)

	found, err := s.GetApproved(context.Background(), curry.ID)
	require.NoError(t, err)
	assert.Equal(t, curry.Title, found.Title)

	var pending model.Recipe
	require.NoError(t, db.First(&pending, "status = ?", "PENDING").Error)
	_, err = s.GetApproved(context.Background(), pending.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSimilaritySearchPostgres(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	embedder := service.NewLocalEmbeddingService(384)
	ctx := context.Background()

	dinner := model.Recipe{
		ID:             uuid.New(),
		Title:          "Thai Green Curry",
		Description:    "Coconut curry with tofu.",
		MainIngredient: "tofu",
		CuisineType:    "thai",
		MealTypes:      model.MealTypeArray{model.MealDinner},
		Difficulty:     model.DifficultyEasy,
		PrepTime:       10,
		CookingTime:    15,
		Status:         model.StatusApproved,
	}
	breakfast := model.Recipe{
		ID:             uuid.New(),
		Title:          "Overnight Oats",
		Description:    "Oats soaked in almond milk.",
		MainIngredient: "oats",
		CuisineType:    "american",
		MealTypes:      model.MealTypeArray{model.MealBreakfast},
		Difficulty:     model.DifficultyEasy,
		PrepTime:       5,
		Status:         model.StatusApproved,
	}

	for _, r := range []*model.Recipe{&dinner, &breakfast} {
		vec, err := embedder.GenerateEmbedding(ctx, service.PrepareRecipeText(r))
		require.NoError(t, err)
		r.Embedding = vec
		require.NoError(t, db.Create(r).Error)
	}

	s := NewRecipeStore(db, 0)

	queryVec, err := embedder.GenerateEmbedding(ctx, service.PrepareRecipeText(&dinner))
	require.NoError(t, err)

	// Identical text embeds to the identical vector, so the dinner recipe
	// must come back first with similarity close to 1.
	candidates, err := s.SimilaritySearch(ctx, queryVec, "thai curry", search.FilterSet{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, candidates)
	assert.Equal(t, dinner.ID, candidates[0].Recipe.ID)
	assert.InDelta(t, 1.0, candidates[0].Similarity, 1e-3)

	// The enum-typed meal filter must exclude the breakfast recipe.
	filtered, err := s.SimilaritySearch(ctx, queryVec, "thai curry", search.FilterSet{
		MealTypes: []model.MealType{model.MealDinner},
	}, 10)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, dinner.ID, filtered[0].Recipe.ID)

	// Keyword search hits the full-text document.
	keyword, err := s.KeywordSearch(ctx, "coconut curry", search.FilterSet{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, keyword)
	assert.Equal(t, dinner.ID, keyword[0].Recipe.ID)

	// UpdateEmbedding writes through.
	newVec, err := embedder.GenerateEmbedding(ctx, "rewritten recipe text")
	require.NoError(t, err)
	require.NoError(t, s.UpdateEmbedding(ctx, dinner.ID, newVec))

	require.ErrorIs(t, s.UpdateEmbedding(ctx, uuid.New(), newVec), gorm.ErrRecordNotFound)
}
