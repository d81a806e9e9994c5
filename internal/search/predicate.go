package search

import (
	"fmt"
	"sort"

	"github.com/lib/pq"
)

// Predicate is one rendered SQL constraint with its bind arguments.
type Predicate struct {
	Expr string
	Args []interface{}
}

// BuildPredicates renders the filter set as hard SQL constraints for the
// given gorm dialect. On Postgres the meal-type and difficulty values are
// cast to their declared enum array types: the columns are enum-typed, and
// binding the values as a generic text array makes the overlap predicate
// fail instead of matching. The cast is the contract, not an optimization.
func BuildPredicates(f FilterSet, dialect string) []Predicate {
	if dialect == "postgres" {
		return buildPostgresPredicates(f)
	}
	return buildFallbackPredicates(f)
}

func buildPostgresPredicates(f FilterSet) []Predicate {
	var preds []Predicate

	if len(f.MealTypes) > 0 {
		meals := make([]string, len(f.MealTypes))
		for i, m := range f.MealTypes {
			meals[i] = string(m)
		}
		preds = append(preds, Predicate{
			Expr: `meal_types && ?::meal_type[]`,
			Args: []interface{}{pq.Array(meals)},
		})
	}

	if len(f.Difficulty) > 0 {
		levels := make([]string, len(f.Difficulty))
		for i, d := range f.Difficulty {
			levels[i] = string(d)
		}
		preds = append(preds, Predicate{
			Expr: `difficulty = ANY(?::difficulty_level[])`,
			Args: []interface{}{pq.Array(levels)},
		})
	}

	if f.MaxPrepTime > 0 {
		preds = append(preds, Predicate{
			Expr: `(prep_time + cooking_time) <= ?`,
			Args: []interface{}{f.MaxPrepTime},
		})
	}

	if f.CuisineType != "" {
		preds = append(preds, Predicate{
			Expr: `LOWER(cuisine_type) = LOWER(?)`,
			Args: []interface{}{f.CuisineType},
		})
	}

	for _, flag := range sortedTrueFlags(f.DietaryInfo) {
		preds = append(preds, Predicate{
			Expr: `(dietary_info ->> ?)::boolean IS TRUE`,
			Args: []interface{}{flag},
		})
	}

	return preds
}

// buildFallbackPredicates covers non-Postgres dialects, where enum arrays
// and JSONB operators are unavailable and columns hold serialized text.
func buildFallbackPredicates(f FilterSet) []Predicate {
	var preds []Predicate

	if len(f.MealTypes) > 0 {
		expr := ""
		args := make([]interface{}, 0, len(f.MealTypes))
		for i, m := range f.MealTypes {
			if i > 0 {
				expr += " OR "
			}
			expr += "meal_types LIKE ?"
			args = append(args, "%"+string(m)+"%")
		}
		preds = append(preds, Predicate{Expr: "(" + expr + ")", Args: args})
	}

	if len(f.Difficulty) > 0 {
		levels := make([]string, len(f.Difficulty))
		for i, d := range f.Difficulty {
			levels[i] = string(d)
		}
		preds = append(preds, Predicate{
			Expr: `difficulty IN ?`,
			Args: []interface{}{levels},
		})
	}

	if f.MaxPrepTime > 0 {
		preds = append(preds, Predicate{
			Expr: `(prep_time + cooking_time) <= ?`,
			Args: []interface{}{f.MaxPrepTime},
		})
	}

	if f.CuisineType != "" {
		preds = append(preds, Predicate{
			Expr: `LOWER(cuisine_type) = LOWER(?)`,
			Args: []interface{}{f.CuisineType},
		})
	}

	for _, flag := range sortedTrueFlags(f.DietaryInfo) {
		preds = append(preds, Predicate{
			Expr: `dietary_info LIKE ?`,
			Args: []interface{}{fmt.Sprintf(`%%"%s":true%%`, flag)},
		})
	}

	return preds
}

// sortedTrueFlags returns the enabled dietary flags in a stable order so the
// rendered SQL is deterministic for a given filter set.
func sortedTrueFlags(info map[string]bool) []string {
	var flags []string
	for flag, set := range info {
		if set {
			flags = append(flags, flag)
		}
	}
	sort.Strings(flags)
	return flags
}
