package service

import (
	"context"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/fitrecipes/vector-search/internal/model"
	"github.com/fitrecipes/vector-search/internal/search"
)

// EmbeddingServiceInterface abstracts the embedding generator. The model is
// externally owned; this service only turns text into vectors.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// RecipeStoreInterface defines the read surface of the recipe store plus the
// single embedding write path.
type RecipeStoreInterface interface {
	SimilaritySearch(ctx context.Context, vec pgvector.Vector, query string, f search.FilterSet, limit int) ([]search.Candidate, error)
	KeywordSearch(ctx context.Context, query string, f search.FilterSet, limit int) ([]search.Candidate, error)
	FindCandidates(ctx context.Context, terms []string, f search.FilterSet) ([]model.Recipe, error)
	Suggest(ctx context.Context, query string, limit int) ([]model.Recipe, error)
	GetApproved(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, vec pgvector.Vector) error
}

// ISearchService defines the operations the API layer depends on.
type ISearchService interface {
	VectorSearch(ctx context.Context, query string, filters search.FilterSet, limit int) ([]ScoredRecipe, error)
	SmartSearch(ctx context.Context, query string, manual search.FilterSet, limit int) (*SmartSearchResult, error)
	HybridSearch(ctx context.Context, query string, filters search.FilterSet, limit int) ([]ScoredRecipe, error)
	IngredientSearch(ctx context.Context, ingredients []string, mode search.MatchMode, filters search.FilterSet, limit int) ([]ScoredRecipe, error)
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
	RefreshEmbedding(ctx context.Context, recipeID uuid.UUID) error
}
