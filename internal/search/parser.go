package search

import (
	"strconv"
	"strings"

	"github.com/fitrecipes/vector-search/internal/model"
)

// ParseResult is the outcome of natural-language query parsing.
type ParseResult struct {
	// Query is the cleaned query text with time and difficulty keywords
	// stripped out. Dietary, cuisine and meal words stay in: they are
	// content words the embedding should see.
	Query string
	// Filters holds the constraints extracted from the raw text.
	Filters FilterSet
}

// ParseQuery extracts structured filters from a conversational query.
// Extraction runs the lexicon's rule categories in a fixed order (time,
// difficulty, dietary, cuisine, meal type) so the input's word order never
// affects the result. Parsing is pure: same input, same output.
func ParseQuery(raw string) ParseResult {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	filters := FilterSet{}

	// 1. Time budget. A numeric bound wins over the bare quick/fast
	// keywords when both are present.
	if m := timeBoundExpr.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			if strings.HasPrefix(strings.ToLower(m[2]), "h") {
				n *= 60
			}
			filters.MaxPrepTime = n
			filters.Difficulty = []model.DifficultyLevel{model.DifficultyEasy}
		}
	} else if quickExpr.MatchString(lower) {
		filters.MaxPrepTime = quickDefaultMinutes
		filters.Difficulty = []model.DifficultyLevel{model.DifficultyEasy}
	}

	// 2. Difficulty, unless the time rule already set it.
	if len(filters.Difficulty) == 0 {
		for _, rule := range difficultyRules {
			if rule.pattern.MatchString(lower) {
				filters.Difficulty = []model.DifficultyLevel{rule.level}
				break
			}
		}
	}

	// 3. Dietary flags. Each keyword sets its flag independently; flags are
	// only ever set to true.
	for _, rule := range dietaryRules {
		if rule.pattern.MatchString(lower) {
			if filters.DietaryInfo == nil {
				filters.DietaryInfo = map[string]bool{}
			}
			filters.DietaryInfo[rule.flag] = true
		}
	}

	// 4. Cuisine: first match wins.
	for _, rule := range cuisineRules {
		if rule.pattern.MatchString(lower) {
			filters.CuisineType = rule.canonical
			break
		}
	}

	// 5. Meal types: all matches accumulate.
	for _, rule := range mealRules {
		if rule.pattern.MatchString(lower) {
			filters.MealTypes = append(filters.MealTypes, rule.meal)
		}
	}

	return ParseResult{
		Query:   cleanQuery(trimmed),
		Filters: filters,
	}
}

// cleanQuery strips time expressions and difficulty keywords from the query
// so the embedding sees content words rather than filter words. Falls back
// to the trimmed input when stripping would leave nothing.
func cleanQuery(trimmed string) string {
	cleaned := timeBoundExpr.ReplaceAllString(trimmed, "")
	cleaned = difficultyCleanupExpr.ReplaceAllString(cleaned, "")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return trimmed
	}
	return cleaned
}
