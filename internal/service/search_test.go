package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitrecipes/vector-search/internal/model"
	"github.com/fitrecipes/vector-search/internal/search"
)

type fakeEmbedder struct {
	mu     sync.Mutex
	calls  []string
	failOn map[string]error
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if err, ok := f.failOn[text]; ok {
		return pgvector.Vector{}, err
	}
	return pgvector.NewVector(make([]float32, 4)), nil
}

type fakeStore struct {
	mu         sync.Mutex
	similarity map[string][]search.Candidate
	keyword    []search.Candidate
	candidates []model.Recipe
	suggest    []model.Recipe
	recipes    map[uuid.UUID]*model.Recipe
	updated    map[uuid.UUID]pgvector.Vector
	failAll    bool
}

func (f *fakeStore) SimilaritySearch(_ context.Context, _ pgvector.Vector, query string, _ search.FilterSet, _ int) ([]search.Candidate, error) {
	if f.failAll {
		return nil, errors.New("database down")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.similarity[query], nil
}

func (f *fakeStore) KeywordSearch(_ context.Context, _ string, _ search.FilterSet, _ int) ([]search.Candidate, error) {
	if f.failAll {
		return nil, errors.New("database down")
	}
	return f.keyword, nil
}

func (f *fakeStore) FindCandidates(_ context.Context, _ []string, _ search.FilterSet) ([]model.Recipe, error) {
	return f.candidates, nil
}

func (f *fakeStore) Suggest(_ context.Context, _ string, _ int) ([]model.Recipe, error) {
	return f.suggest, nil
}

func (f *fakeStore) GetApproved(_ context.Context, id uuid.UUID) (*model.Recipe, error) {
	if r, ok := f.recipes[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) UpdateEmbedding(_ context.Context, id uuid.UUID, vec pgvector.Vector) error {
	if f.updated == nil {
		f.updated = map[uuid.UUID]pgvector.Vector{}
	}
	f.updated[id] = vec
	return nil
}

func testRecipe(title string, rating float64) model.Recipe {
	return model.Recipe{ID: uuid.New(), Title: title, AverageRating: rating}
}

func TestVectorSearchRanksByBlendedScore(t *testing.T) {
	better := testRecipe("Pho", 5.0)
	worse := testRecipe("Pizza", 1.0)

	store := &fakeStore{similarity: map[string][]search.Candidate{
		"noodle soup": {
			{Recipe: worse, Similarity: 0.7},
			{Recipe: better, Similarity: 0.7},
		},
	}}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	results, err := svc.VectorSearch(context.Background(), "noodle soup", search.FilterSet{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, better.ID, results[0].Recipe.ID)
}

func TestVectorSearchEmptyQuery(t *testing.T) {
	svc := NewSearchService(&fakeStore{}, &fakeEmbedder{}, nil, nil)

	_, err := svc.VectorSearch(context.Background(), "   ", search.FilterSet{}, 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSmartSearchParsesAndSearchesVariants(t *testing.T) {
	r := testRecipe("Vegan Pad Thai", 4.0)
	store := &fakeStore{similarity: map[string][]search.Candidate{
		"vegan thai dinner": {{Recipe: r, Similarity: 0.9}},
	}}
	embedder := &fakeEmbedder{}
	svc := NewSearchService(store, embedder, nil, nil)

	result, err := svc.SmartSearch(context.Background(), "quick vegan thai dinner under 30 minutes", search.FilterSet{}, 10)
	require.NoError(t, err)

	assert.Equal(t, "vegan thai dinner", result.ParsedQuery)
	assert.Equal(t, 30, result.ExtractedFilters.MaxPrepTime)
	assert.Equal(t, "Thai", result.ExtractedFilters.CuisineType)
	require.Len(t, result.Results, 1)
	assert.Equal(t, r.ID, result.Results[0].Recipe.ID)

	// Every variant got its own embedding pass.
	assert.Equal(t, len(result.Variants), len(embedder.calls))
}

func TestSmartSearchManualFiltersOverrideExtracted(t *testing.T) {
	store := &fakeStore{}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	result, err := svc.SmartSearch(context.Background(), "quick thai dinner", search.FilterSet{MaxPrepTime: 90}, 10)
	require.NoError(t, err)

	assert.Equal(t, 90, result.ExtractedFilters.MaxPrepTime)
	assert.Equal(t, "Thai", result.ExtractedFilters.CuisineType)
}

func TestSmartSearchToleratesPartialVariantFailure(t *testing.T) {
	r := testRecipe("Poultry Soup", 4.0)
	store := &fakeStore{similarity: map[string][]search.Candidate{
		"chicken soup": {{Recipe: r, Similarity: 0.8}},
	}}
	embedder := &fakeEmbedder{failOn: map[string]error{
		"poultry soup": errors.New("embedder timeout"),
	}}
	svc := NewSearchService(store, embedder, nil, nil)

	result, err := svc.SmartSearch(context.Background(), "chicken soup", search.FilterSet{}, 10)
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, r.ID, result.Results[0].Recipe.ID)
}

func TestSmartSearchAllVariantsFailed(t *testing.T) {
	store := &fakeStore{failAll: true}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	_, err := svc.SmartSearch(context.Background(), "chicken soup", search.FilterSet{}, 10)
	assert.ErrorIs(t, err, ErrAllVariantsFailed)
}

func TestSmartSearchConsensusBoostsSharedRecipe(t *testing.T) {
	shared := testRecipe("Chicken Noodle Soup", 3.0)
	other := testRecipe("Chicken Salad", 3.0)

	store := &fakeStore{similarity: map[string][]search.Candidate{
		"chicken soup": {
			{Recipe: other, Similarity: 0.8},
			{Recipe: shared, Similarity: 0.8},
		},
		"poultry soup": {{Recipe: shared, Similarity: 0.7}},
	}}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	result, err := svc.SmartSearch(context.Background(), "chicken soup", search.FilterSet{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)
	assert.Equal(t, shared.ID, result.Results[0].Recipe.ID)
	assert.Greater(t, result.Results[0].CombinedScore, result.Results[1].CombinedScore)
}

func TestHybridSearchMergesLegs(t *testing.T) {
	vectorHit := testRecipe("Udon", 0)
	keywordHit := testRecipe("Soba", 0)

	store := &fakeStore{
		similarity: map[string][]search.Candidate{
			"noodles": {{Recipe: vectorHit, Similarity: 0.9}},
		},
		keyword: []search.Candidate{{Recipe: keywordHit, Similarity: 0.9}},
	}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	results, err := svc.HybridSearch(context.Background(), "noodles", search.FilterSet{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// The vector leg carries more weight at equal similarity.
	assert.Equal(t, vectorHit.ID, results[0].Recipe.ID)
}

func TestIngredientSearchRequiresIngredients(t *testing.T) {
	svc := NewSearchService(&fakeStore{}, &fakeEmbedder{}, nil, nil)

	_, err := svc.IngredientSearch(context.Background(), []string{"  "}, search.MatchAny, search.FilterSet{}, 10)
	assert.ErrorIs(t, err, ErrNoIngredients)
}

func TestIngredientSearchRanksCandidates(t *testing.T) {
	strong := model.Recipe{ID: uuid.New(), MainIngredient: "chicken", Title: "Chicken Curry"}
	weak := model.Recipe{ID: uuid.New(), Description: "Pairs with chicken."}

	store := &fakeStore{candidates: []model.Recipe{weak, strong}}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	results, err := svc.IngredientSearch(context.Background(), []string{"Chicken"}, search.MatchAny, search.FilterSet{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, strong.ID, results[0].Recipe.ID)
	assert.Equal(t, 1, results[0].MatchedIngredients)
}

func TestSuggestOrdersPrefixMatchesFirst(t *testing.T) {
	store := &fakeStore{suggest: []model.Recipe{
		{ID: uuid.New(), Title: "Spicy Chicken Wings", TotalRatings: 100},
		{ID: uuid.New(), Title: "Chicken Parmesan", TotalRatings: 10},
	}}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	suggestions, err := svc.Suggest(context.Background(), "chick", 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Chicken Parmesan", suggestions[0].Text)
	assert.Equal(t, "Spicy Chicken Wings", suggestions[1].Text)
}

func TestRefreshEmbeddingStoresVector(t *testing.T) {
	r := testRecipe("Ratatouille", 4.5)
	store := &fakeStore{recipes: map[uuid.UUID]*model.Recipe{r.ID: &r}}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, nil)

	err := svc.RefreshEmbedding(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Contains(t, store.updated, r.ID)
}

func TestRefreshEmbeddingUnknownRecipe(t *testing.T) {
	svc := NewSearchService(&fakeStore{}, &fakeEmbedder{}, nil, nil)

	err := svc.RefreshEmbedding(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

type fakeCache struct {
	entries map[string][]byte
	hits    int
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	f.hits++
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if f.entries == nil {
		f.entries = map[string][]byte{}
	}
	f.entries[key] = raw
	return nil
}

func TestVectorSearchUsesCache(t *testing.T) {
	r := testRecipe("Bibimbap", 4.0)
	store := &fakeStore{similarity: map[string][]search.Candidate{
		"korean bowl": {{Recipe: r, Similarity: 0.8}},
	}}
	cache := &fakeCache{}
	svc := NewSearchService(store, &fakeEmbedder{}, nil, cache)

	first, err := svc.VectorSearch(context.Background(), "korean bowl", search.FilterSet{}, 10)
	require.NoError(t, err)

	// Second call must come from the cache.
	store.similarity = nil
	second, err := svc.VectorSearch(context.Background(), "korean bowl", search.FilterSet{}, 10)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.hits)
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].Recipe.ID, second[0].Recipe.ID)
}

func TestCacheKeyDistinguishesInputs(t *testing.T) {
	base := cacheKey("smart", "chicken", search.FilterSet{}, 10)

	assert.NotEqual(t, base, cacheKey("vector", "chicken", search.FilterSet{}, 10))
	assert.NotEqual(t, base, cacheKey("smart", "beef", search.FilterSet{}, 10))
	assert.NotEqual(t, base, cacheKey("smart", "chicken", search.FilterSet{CuisineType: "Thai"}, 10))
	assert.NotEqual(t, base, cacheKey("smart", "chicken", search.FilterSet{}, 20))
	assert.Equal(t, base, cacheKey("smart", "Chicken", search.FilterSet{}, 10))
	assert.True(t, strings.HasPrefix(base, "search:smart:"))
}
