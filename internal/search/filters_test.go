package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitrecipes/vector-search/internal/model"
)

func TestFilterSetIsEmpty(t *testing.T) {
	assert.True(t, FilterSet{}.IsEmpty())
	assert.False(t, FilterSet{CuisineType: "Thai"}.IsEmpty())
	assert.False(t, FilterSet{MaxPrepTime: 30}.IsEmpty())
}

func TestMergeFiltersManualWinsPerField(t *testing.T) {
	auto := FilterSet{
		MealTypes:   []model.MealType{model.MealDinner},
		Difficulty:  []model.DifficultyLevel{model.DifficultyEasy},
		MaxPrepTime: 30,
		CuisineType: "Thai",
		DietaryInfo: map[string]bool{"isVegan": true},
	}
	manual := FilterSet{
		MaxPrepTime: 60,
		CuisineType: "Italian",
	}

	merged := MergeFilters(auto, manual)

	assert.Equal(t, 60, merged.MaxPrepTime)
	assert.Equal(t, "Italian", merged.CuisineType)
	// Unset manual fields fall through to the auto values.
	assert.Equal(t, auto.MealTypes, merged.MealTypes)
	assert.Equal(t, auto.Difficulty, merged.Difficulty)
	assert.Equal(t, auto.DietaryInfo, merged.DietaryInfo)
}

func TestMergeFiltersEmptyManualKeepsAuto(t *testing.T) {
	auto := FilterSet{CuisineType: "Mexican", MaxPrepTime: 20}

	assert.Equal(t, auto, MergeFilters(auto, FilterSet{}))
}
