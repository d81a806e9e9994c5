package search

import (
	"sort"
	"strings"

	"github.com/fitrecipes/vector-search/internal/model"
)

// MatchMode selects the boolean combination rule for multi-ingredient
// queries.
type MatchMode string

const (
	// MatchAny qualifies a recipe when at least one queried ingredient
	// matches some tier.
	MatchAny MatchMode = "any"
	// MatchAll qualifies a recipe only when every queried ingredient
	// matches at least one tier.
	MatchAll MatchMode = "all"
)

// Tier weights for ingredient matching, highest-signal first.
const (
	tierMainExact   = 10
	tierMainPartial = 5
	tierListEntry   = 3
	tierTitle       = 2
	tierDescription = 1
)

// Ingredient-match scores blend with the rating at the same ratio as
// similarity scores.
const (
	MatchBlendWeight       = 0.7
	MatchRatingBlendWeight = 0.3
)

// IngredientScore is one recipe's tiered match result.
type IngredientScore struct {
	Recipe model.Recipe
	// MatchScore is the summed tier score.
	MatchScore int
	// MatchedCount is the number of distinct queried ingredients that hit
	// at least one tier.
	MatchedCount  int
	CombinedScore float64
}

// NormalizeIngredients lowercases and trims the queried names, dropping
// empties. Returns nil when nothing usable remains.
func NormalizeIngredients(ingredients []string) []string {
	out := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ing = strings.ToLower(strings.TrimSpace(ing))
		if ing != "" {
			out = append(out, ing)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ScoreIngredients applies the tiered matching rules to one recipe.
// Ingredients must already be normalized. Tiers are cumulative: an exact
// main-ingredient match also satisfies the partial tier, as a substring
// match would.
func ScoreIngredients(r model.Recipe, ingredients []string) IngredientScore {
	main := strings.ToLower(r.MainIngredient)
	title := strings.ToLower(r.Title)
	description := strings.ToLower(r.Description)
	listNames := r.Ingredients.Names()

	score := 0
	matched := 0

	mainExact := false
	mainPartial := false
	titleHit := false
	descriptionHit := false

	for _, ing := range ingredients {
		hit := false
		if main == ing {
			mainExact = true
			hit = true
		}
		if strings.Contains(main, ing) {
			mainPartial = true
			hit = true
		}
		for _, name := range listNames {
			if strings.Contains(name, ing) {
				hit = true
				break
			}
		}
		if strings.Contains(title, ing) {
			titleHit = true
			hit = true
		}
		if strings.Contains(description, ing) {
			descriptionHit = true
			hit = true
		}
		if hit {
			matched++
		}
	}

	if mainExact {
		score += tierMainExact
	}
	if mainPartial {
		score += tierMainPartial
	}
	// List entries score per matched entry, not per queried ingredient.
	for _, name := range listNames {
		for _, ing := range ingredients {
			if strings.Contains(name, ing) {
				score += tierListEntry
				break
			}
		}
	}
	if titleHit {
		score += tierTitle
	}
	if descriptionHit {
		score += tierDescription
	}

	return IngredientScore{
		Recipe:       r,
		MatchScore:   score,
		MatchedCount: matched,
		CombinedScore: float64(score)*MatchBlendWeight +
			r.NormalizedRating()*MatchRatingBlendWeight,
	}
}

// RankByIngredients scores every candidate, keeps those qualifying under the
// match mode, and returns them sorted by combined score with match-count and
// rating-count tie-breaks.
func RankByIngredients(candidates []model.Recipe, ingredients []string, mode MatchMode, limit int) []IngredientScore {
	var results []IngredientScore
	for _, r := range candidates {
		s := ScoreIngredients(r, ingredients)
		if s.MatchScore == 0 {
			continue
		}
		if mode == MatchAll && s.MatchedCount < len(ingredients) {
			continue
		}
		results = append(results, s)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		if results[i].MatchedCount != results[j].MatchedCount {
			return results[i].MatchedCount > results[j].MatchedCount
		}
		return results[i].Recipe.TotalRatings > results[j].Recipe.TotalRatings
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
