package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fitrecipes/vector-search/internal/service"
)

// EmbeddingHandler exposes the embedding refresh endpoint used by the
// ingestion pipeline after a recipe changes.
type EmbeddingHandler struct {
	searchService service.ISearchService
}

// NewEmbeddingHandler creates a new EmbeddingHandler instance.
func NewEmbeddingHandler(searchService service.ISearchService) *EmbeddingHandler {
	return &EmbeddingHandler{searchService: searchService}
}

func (h *EmbeddingHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/embeddings/generate", h.Generate)
}

// Generate regenerates and stores the embedding for one recipe.
func (h *EmbeddingHandler) Generate(c *gin.Context) {
	var req EmbeddingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid recipe_id"})
		return
	}

	if err := h.searchService.RefreshEmbedding(c.Request.Context(), recipeID); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "recipe_id": recipeID})
}
