package api

import (
	"github.com/fitrecipes/vector-search/internal/search"
	"github.com/fitrecipes/vector-search/internal/service"
)

// DefaultLimit is used when a request does not specify a result limit.
const DefaultLimit = 10

// SearchRequest is the shared payload for the text search endpoints.
type SearchRequest struct {
	Query   string           `json:"query" binding:"required,min=1,max=500"`
	Limit   int              `json:"limit" binding:"omitempty,min=1,max=50"`
	Filters search.FilterSet `json:"filters"`
	UserID  string           `json:"user_id"`
}

// IngredientSearchRequest is the payload for ingredient-driven search.
type IngredientSearchRequest struct {
	Ingredients []string         `json:"ingredients" binding:"required,min=1"`
	MatchMode   string           `json:"match_mode" binding:"omitempty,oneof=any all"`
	Limit       int              `json:"limit" binding:"omitempty,min=1,max=50"`
	Filters     search.FilterSet `json:"filters"`
}

// EmbeddingRequest asks for one recipe's embedding to be regenerated.
type EmbeddingRequest struct {
	RecipeID string `json:"recipe_id" binding:"required,uuid"`
}

// SearchResponse is the envelope for ranked results. Zero results is a
// success with an empty data list, never an error.
type SearchResponse struct {
	Status          string                 `json:"status"`
	Data            []service.ScoredRecipe `json:"data"`
	Total           int                    `json:"total"`
	Query           string                 `json:"query"`
	ExecutionTimeMs int64                  `json:"execution_time_ms"`
}

// SmartSearchResponse extends the envelope with the engine's interpretation
// of the conversational query.
type SmartSearchResponse struct {
	SearchResponse
	ParsedQuery      string           `json:"parsed_query"`
	ExtractedFilters search.FilterSet `json:"extracted_filters"`
	Variants         []search.Variant `json:"variants"`
}

// SuggestResponse is the envelope for autocomplete entries.
type SuggestResponse struct {
	Status string               `json:"status"`
	Data   []service.Suggestion `json:"data"`
	Total  int                  `json:"total"`
	Query  string               `json:"query"`
}
