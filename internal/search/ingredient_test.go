package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fitrecipes/vector-search/internal/model"
)

func TestNormalizeIngredients(t *testing.T) {
	assert.Equal(t, []string{"chicken", "rice"}, NormalizeIngredients([]string{" Chicken ", "RICE"}))
	assert.Nil(t, NormalizeIngredients([]string{"", "   "}))
	assert.Nil(t, NormalizeIngredients(nil))
}

func TestScoreIngredientsMainExactIncludesPartialTier(t *testing.T) {
	r := model.Recipe{
		MainIngredient: "chicken",
		Title:          "Roast Dinner",
	}

	score := ScoreIngredients(r, []string{"chicken"})

	// An exact main-ingredient match satisfies both the exact and partial
	// tiers.
	assert.Equal(t, 15, score.MatchScore)
	assert.Equal(t, 1, score.MatchedCount)
}

func TestScoreIngredientsPartialMainOnly(t *testing.T) {
	r := model.Recipe{MainIngredient: "chicken breast"}

	score := ScoreIngredients(r, []string{"chicken"})

	assert.Equal(t, 5, score.MatchScore)
}

func TestScoreIngredientsListEntriesScorePerEntry(t *testing.T) {
	r := model.Recipe{
		Ingredients: model.IngredientList{
			{Name: "chicken thigh"},
			{Name: "chicken stock"},
			{Name: "onion"},
		},
	}

	score := ScoreIngredients(r, []string{"chicken"})

	assert.Equal(t, 6, score.MatchScore)
}

func TestScoreIngredientsTitleAndDescriptionTiers(t *testing.T) {
	r := model.Recipe{
		Title:       "Garlic Butter Shrimp",
		Description: "Shrimp sauteed in garlic butter.",
	}

	score := ScoreIngredients(r, []string{"garlic"})

	assert.Equal(t, 3, score.MatchScore)
}

func TestScoreIngredientsCombinedBlend(t *testing.T) {
	r := model.Recipe{
		MainIngredient: "tofu",
		AverageRating:  4.0,
	}

	score := ScoreIngredients(r, []string{"tofu"})

	assert.InDelta(t, 15*MatchBlendWeight+(4.0/5.0)*MatchRatingBlendWeight, score.CombinedScore, 1e-9)
}

func TestRankByIngredientsMatchAnyKeepsPartialMatches(t *testing.T) {
	candidates := []model.Recipe{
		{ID: uuid.New(), Title: "Chicken Rice Bowl", MainIngredient: "chicken"},
		{ID: uuid.New(), Title: "Plain Rice", MainIngredient: "rice"},
		{ID: uuid.New(), Title: "Fruit Salad", MainIngredient: "apple"},
	}

	results := RankByIngredients(candidates, []string{"chicken", "rice"}, MatchAny, 10)

	assert.Len(t, results, 2)
}

func TestRankByIngredientsMatchAllRequiresEveryIngredient(t *testing.T) {
	full := model.Recipe{ID: uuid.New(), Title: "Chicken Rice Bowl", MainIngredient: "chicken"}
	partial := model.Recipe{ID: uuid.New(), Title: "Plain Rice", MainIngredient: "rice"}

	results := RankByIngredients([]model.Recipe{full, partial}, []string{"chicken", "rice"}, MatchAll, 10)

	assert.Len(t, results, 1)
	assert.Equal(t, full.ID, results[0].Recipe.ID)
	assert.Equal(t, 2, results[0].MatchedCount)
}

func TestRankByIngredientsOrdersByCombinedScore(t *testing.T) {
	strong := model.Recipe{ID: uuid.New(), MainIngredient: "salmon", Title: "Salmon Teriyaki"}
	weak := model.Recipe{ID: uuid.New(), Description: "Goes well with salmon."}

	results := RankByIngredients([]model.Recipe{weak, strong}, []string{"salmon"}, MatchAny, 10)

	assert.Len(t, results, 2)
	assert.Equal(t, strong.ID, results[0].Recipe.ID)
}

func TestRankByIngredientsLimit(t *testing.T) {
	var candidates []model.Recipe
	for i := 0; i < 6; i++ {
		candidates = append(candidates, model.Recipe{ID: uuid.New(), MainIngredient: "bean"})
	}

	results := RankByIngredients(candidates, []string{"bean"}, MatchAny, 2)
	assert.Len(t, results, 2)
}
