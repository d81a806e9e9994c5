package search

import (
	"github.com/fitrecipes/vector-search/internal/model"
)

// FilterSet holds the hard constraints applied to a search. Every field is
// independently optional; an empty FilterSet matches every recipe.
type FilterSet struct {
	MealTypes   []model.MealType        `json:"mealType,omitempty"`
	Difficulty  []model.DifficultyLevel `json:"difficulty,omitempty"`
	MaxPrepTime int                     `json:"maxPrepTime,omitempty" binding:"omitempty,min=1"`
	CuisineType string                  `json:"cuisineType,omitempty"`
	DietaryInfo map[string]bool         `json:"dietaryInfo,omitempty"`
}

// IsEmpty reports whether the set imposes no constraint at all.
func (f FilterSet) IsEmpty() bool {
	return len(f.MealTypes) == 0 &&
		len(f.Difficulty) == 0 &&
		f.MaxPrepTime == 0 &&
		f.CuisineType == "" &&
		len(f.DietaryInfo) == 0
}

// MergeFilters combines auto-extracted and manual filters. A manual value
// always overrides the auto-extracted value for the same field; unset manual
// fields fall through to the auto value.
func MergeFilters(auto, manual FilterSet) FilterSet {
	merged := auto
	if len(manual.MealTypes) > 0 {
		merged.MealTypes = manual.MealTypes
	}
	if len(manual.Difficulty) > 0 {
		merged.Difficulty = manual.Difficulty
	}
	if manual.MaxPrepTime > 0 {
		merged.MaxPrepTime = manual.MaxPrepTime
	}
	if manual.CuisineType != "" {
		merged.CuisineType = manual.CuisineType
	}
	if len(manual.DietaryInfo) > 0 {
		merged.DietaryInfo = manual.DietaryInfo
	}
	return merged
}
