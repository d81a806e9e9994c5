package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitrecipes/vector-search/internal/model"
)

func TestBuildPredicatesEmptyFilterSet(t *testing.T) {
	assert.Empty(t, BuildPredicates(FilterSet{}, "postgres"))
	assert.Empty(t, BuildPredicates(FilterSet{}, "sqlite"))
}

func TestBuildPredicatesPostgresEnumCasts(t *testing.T) {
	f := FilterSet{
		MealTypes:  []model.MealType{model.MealDinner},
		Difficulty: []model.DifficultyLevel{model.DifficultyEasy, model.DifficultyMedium},
	}

	preds := BuildPredicates(f, "postgres")

	assert.Len(t, preds, 2)
	assert.Equal(t, `meal_types && ?::meal_type[]`, preds[0].Expr)
	assert.Equal(t, `difficulty = ANY(?::difficulty_level[])`, preds[1].Expr)
}

func TestBuildPredicatesPostgresTimeAndCuisine(t *testing.T) {
	f := FilterSet{MaxPrepTime: 30, CuisineType: "Thai"}

	preds := BuildPredicates(f, "postgres")

	assert.Len(t, preds, 2)
	assert.Equal(t, `(prep_time + cooking_time) <= ?`, preds[0].Expr)
	assert.Equal(t, []interface{}{30}, preds[0].Args)
	assert.Equal(t, `LOWER(cuisine_type) = LOWER(?)`, preds[1].Expr)
}

func TestBuildPredicatesDietaryFlagsSortedAndTrueOnly(t *testing.T) {
	f := FilterSet{DietaryInfo: map[string]bool{
		"isVegan":      true,
		"isGlutenFree": true,
		"isKeto":       false,
	}}

	preds := BuildPredicates(f, "postgres")

	assert.Len(t, preds, 2)
	assert.Equal(t, []interface{}{"isGlutenFree"}, preds[0].Args)
	assert.Equal(t, []interface{}{"isVegan"}, preds[1].Args)
}

func TestBuildPredicatesFallbackDialect(t *testing.T) {
	f := FilterSet{
		MealTypes:   []model.MealType{model.MealLunch, model.MealDinner},
		Difficulty:  []model.DifficultyLevel{model.DifficultyEasy},
		DietaryInfo: map[string]bool{"isVegan": true},
	}

	preds := BuildPredicates(f, "sqlite")

	assert.Len(t, preds, 3)
	assert.Equal(t, `(meal_types LIKE ? OR meal_types LIKE ?)`, preds[0].Expr)
	assert.Equal(t, `difficulty IN ?`, preds[1].Expr)
	assert.Equal(t, `dietary_info LIKE ?`, preds[2].Expr)
	assert.Equal(t, []interface{}{`%"isVegan":true%`}, preds[2].Args)
}
