package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitrecipes/vector-search/internal/search"
	"github.com/fitrecipes/vector-search/internal/service"
)

// SearchHandler exposes the search endpoints.
type SearchHandler struct {
	searchService service.ISearchService
}

// NewSearchHandler creates a new SearchHandler instance.
func NewSearchHandler(searchService service.ISearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("/search")
	{
		routes.POST("/smart", h.SmartSearch)
		routes.POST("/vector", h.VectorSearch)
		routes.POST("/hybrid", h.HybridSearch)
		routes.POST("/ingredients", h.IngredientSearch)
		routes.GET("/suggestions", h.Suggestions)
	}
}

// SmartSearch handles the full natural-language pipeline.
func (h *SearchHandler) SmartSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	result, err := h.searchService.SmartSearch(c.Request.Context(), req.Query, req.Filters, limitOrDefault(req.Limit))
	if err != nil {
		h.searchError(c, err)
		return
	}

	c.JSON(http.StatusOK, SmartSearchResponse{
		SearchResponse: SearchResponse{
			Status:          "success",
			Data:            emptyIfNil(result.Results),
			Total:           len(result.Results),
			Query:           req.Query,
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		},
		ParsedQuery:      result.ParsedQuery,
		ExtractedFilters: result.ExtractedFilters,
		Variants:         result.Variants,
	})
}

// VectorSearch handles plain semantic search without parsing or expansion.
func (h *SearchHandler) VectorSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	results, err := h.searchService.VectorSearch(c.Request.Context(), req.Query, req.Filters, limitOrDefault(req.Limit))
	if err != nil {
		h.searchError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Status:          "success",
		Data:            emptyIfNil(results),
		Total:           len(results),
		Query:           req.Query,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	})
}

// HybridSearch handles the blended vector-plus-keyword search.
func (h *SearchHandler) HybridSearch(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	results, err := h.searchService.HybridSearch(c.Request.Context(), req.Query, req.Filters, limitOrDefault(req.Limit))
	if err != nil {
		h.searchError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Status:          "success",
		Data:            emptyIfNil(results),
		Total:           len(results),
		Query:           req.Query,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	})
}

// IngredientSearch handles ingredient-driven search.
func (h *SearchHandler) IngredientSearch(c *gin.Context) {
	var req IngredientSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	mode := search.MatchMode(req.MatchMode)
	if mode == "" {
		mode = search.MatchAny
	}

	start := time.Now()
	results, err := h.searchService.IngredientSearch(c.Request.Context(), req.Ingredients, mode, req.Filters, limitOrDefault(req.Limit))
	if err != nil {
		h.searchError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Status:          "success",
		Data:            emptyIfNil(results),
		Total:           len(results),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	})
}

// Suggestions handles autocomplete for partial queries.
func (h *SearchHandler) Suggestions(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "query parameter q is required"})
		return
	}

	limit := DefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be between 1 and 50"})
			return
		}
		limit = n
	}

	suggestions, err := h.searchService.Suggest(c.Request.Context(), query, limit)
	if err != nil {
		h.searchError(c, err)
		return
	}
	if suggestions == nil {
		suggestions = []service.Suggestion{}
	}

	c.JSON(http.StatusOK, SuggestResponse{
		Status: "success",
		Data:   suggestions,
		Total:  len(suggestions),
		Query:  query,
	})
}

func (h *SearchHandler) searchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, service.ErrNoIngredients):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAllVariantsFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

func emptyIfNil(results []service.ScoredRecipe) []service.ScoredRecipe {
	if results == nil {
		return []service.ScoredRecipe{}
	}
	return results
}
