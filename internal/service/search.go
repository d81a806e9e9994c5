package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/fitrecipes/vector-search/internal/model"
	"github.com/fitrecipes/vector-search/internal/search"
)

// candidateMultiplier oversizes the per-variant fetch so fusion has enough
// overlap to work with before truncating to the requested limit.
const candidateMultiplier = 2

// retryFailedVariants controls whether a failed variant pass is retried
// before being excluded. Variants are paraphrases of the same intent, so a
// failed one is dropped and the surviving passes carry the request.
const retryFailedVariants = false

// ScoredRecipe is one ranked search result.
type ScoredRecipe struct {
	Recipe        model.Recipe `json:"recipe"`
	Similarity    float64      `json:"similarity"`
	CombinedScore float64      `json:"combined_score"`
	// MatchedIngredients is set only by ingredient search.
	MatchedIngredients int `json:"matched_ingredients,omitempty"`
}

// SmartSearchResult carries the ranked results plus the interpretation the
// engine settled on, so callers can show users how their query was read.
type SmartSearchResult struct {
	Results          []ScoredRecipe   `json:"results"`
	ParsedQuery      string           `json:"parsed_query"`
	ExtractedFilters search.FilterSet `json:"extracted_filters"`
	Variants         []search.Variant `json:"variants"`
}

// Suggestion is one autocomplete entry for a partial query.
type Suggestion struct {
	Text string `json:"text"`
	// Source names the field the suggestion came from: title, ingredient or
	// cuisine.
	Source string `json:"source"`
}

// SearchCacheInterface is the read-through cache in front of the search
// paths. Implementations must treat a miss as (false, nil).
type SearchCacheInterface interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// SearchService orchestrates parsing, expansion, retrieval and fusion. All
// ranking decisions live in the search package; this service wires them to
// the store and the embedding generator.
type SearchService struct {
	store    RecipeStoreInterface
	embedder EmbeddingServiceInterface
	synonyms search.SynonymSource
	cache    SearchCacheInterface
	images   *ImageService
}

// NewSearchService creates a new SearchService instance. synonyms and cache
// may be nil.
func NewSearchService(store RecipeStoreInterface, embedder EmbeddingServiceInterface, synonyms search.SynonymSource, cache SearchCacheInterface) *SearchService {
	if synonyms == nil {
		synonyms = search.NoopSynonymSource{}
	}
	return &SearchService{
		store:    store,
		embedder: embedder,
		synonyms: synonyms,
		cache:    cache,
	}
}

// UseImageService enables presigned image URL resolution on results.
func (s *SearchService) UseImageService(images *ImageService) {
	s.images = images
}

// VectorSearch embeds the query as-is and ranks by blended similarity.
func (s *SearchService) VectorSearch(ctx context.Context, query string, filters search.FilterSet, limit int) ([]ScoredRecipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	key := cacheKey("vector", query, filters, limit)
	var cached []ScoredRecipe
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	candidates, err := s.variantCandidates(ctx, query, filters, limit)
	if err != nil {
		return nil, err
	}

	fused := search.Fuse([]search.WeightedList{{Weight: 1.0, Candidates: candidates}}, limit)
	results := toScored(fused)
	s.images.ResolveImageURLs(ctx, results)
	s.cacheSet(ctx, key, results)
	return results, nil
}

// SmartSearch runs the full pipeline: parse the conversational query into a
// cleaned text and filters, merge with the caller's filters, expand into
// weighted variants, search every variant concurrently and fuse the lists.
// A failed variant is excluded; only total failure fails the request.
func (s *SearchService) SmartSearch(ctx context.Context, query string, manual search.FilterSet, limit int) (*SmartSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	parsed := search.ParseQuery(query)
	merged := search.MergeFilters(parsed.Filters, manual)
	variants := search.ExpandQuery(parsed.Query, s.synonyms)

	key := cacheKey("smart", query, merged, limit)
	var cached SmartSearchResult
	if s.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	lists := make([]search.WeightedList, len(variants))
	errs := make([]error, len(variants))

	g, gctx := errgroup.WithContext(ctx)
	for i, v := range variants {
		g.Go(func() error {
			candidates, err := s.variantCandidates(gctx, v.Text, merged, limit)
			if err != nil {
				// Exclude the variant rather than fail the request.
				log.Printf("smart search: variant %q failed: %v", v.Text, err)
				errs[i] = err
				return nil
			}
			lists[i] = search.WeightedList{Weight: v.Weight, Candidates: candidates}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	survived := lists[:0:0]
	var lastErr error
	for i, list := range lists {
		if errs[i] != nil {
			lastErr = errs[i]
			continue
		}
		survived = append(survived, list)
	}
	if len(survived) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrAllVariantsFailed, lastErr)
	}

	fused := search.Fuse(survived, limit)
	result := &SmartSearchResult{
		Results:          toScored(fused),
		ParsedQuery:      parsed.Query,
		ExtractedFilters: merged,
		Variants:         variants,
	}
	s.images.ResolveImageURLs(ctx, result.Results)
	s.cacheSet(ctx, key, result)
	return result, nil
}

// HybridSearch runs the vector and keyword legs concurrently and blends them
// 60/40. Both legs share the same filter set.
func (s *SearchService) HybridSearch(ctx context.Context, query string, filters search.FilterSet, limit int) ([]ScoredRecipe, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	key := cacheKey("hybrid", query, filters, limit)
	var cached []ScoredRecipe
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	var vectorLeg, keywordLeg []search.Candidate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		candidates, err := s.variantCandidates(gctx, query, filters, limit)
		if err != nil {
			return fmt.Errorf("vector leg: %w", err)
		}
		vectorLeg = candidates
		return nil
	})
	g.Go(func() error {
		candidates, err := s.store.KeywordSearch(gctx, query, filters, limit*candidateMultiplier)
		if err != nil {
			return fmt.Errorf("keyword leg: %w", err)
		}
		keywordLeg = candidates
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := search.FuseHybrid(vectorLeg, keywordLeg, limit)
	results := toScored(fused)
	s.images.ResolveImageURLs(ctx, results)
	s.cacheSet(ctx, key, results)
	return results, nil
}

// IngredientSearch fetches a broad candidate set from the store and applies
// the tiered matcher in memory.
func (s *SearchService) IngredientSearch(ctx context.Context, ingredients []string, mode search.MatchMode, filters search.FilterSet, limit int) ([]ScoredRecipe, error) {
	normalized := search.NormalizeIngredients(ingredients)
	if normalized == nil {
		return nil, ErrNoIngredients
	}
	if mode != search.MatchAll {
		mode = search.MatchAny
	}

	candidates, err := s.store.FindCandidates(ctx, normalized, filters)
	if err != nil {
		return nil, err
	}

	ranked := search.RankByIngredients(candidates, normalized, mode, limit)
	results := make([]ScoredRecipe, 0, len(ranked))
	for _, r := range ranked {
		results = append(results, ScoredRecipe{
			Recipe:             r.Recipe,
			Similarity:         float64(r.MatchScore),
			CombinedScore:      r.CombinedScore,
			MatchedIngredients: r.MatchedCount,
		})
	}
	s.images.ResolveImageURLs(ctx, results)
	return results, nil
}

// Suggest returns autocomplete entries for a partial query, ordered by how
// directly the recipe matches and then by popularity.
func (s *SearchService) Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	// Overfetch so the relevance reorder below has room to promote prefix
	// matches past merely popular ones.
	recipes, err := s.store.Suggest(ctx, query, limit*3)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(query)
	type rankedSuggestion struct {
		Suggestion
		rank    int
		ratings int
	}

	var ranked []rankedSuggestion
	seen := map[string]bool{}
	add := func(text, source string, rank, ratings int) {
		key := strings.ToLower(text)
		if text == "" || seen[key] {
			return
		}
		seen[key] = true
		ranked = append(ranked, rankedSuggestion{
			Suggestion: Suggestion{Text: text, Source: source},
			rank:       rank,
			ratings:    ratings,
		})
	}

	for _, r := range recipes {
		title := strings.ToLower(r.Title)
		switch {
		case strings.HasPrefix(title, lower):
			add(r.Title, "title", 0, r.TotalRatings)
		case strings.Contains(title, lower):
			add(r.Title, "title", 1, r.TotalRatings)
		case strings.Contains(strings.ToLower(r.MainIngredient), lower):
			add(r.MainIngredient, "ingredient", 2, r.TotalRatings)
		case strings.Contains(strings.ToLower(r.CuisineType), lower):
			add(r.CuisineType, "cuisine", 3, r.TotalRatings)
		}
	}

	// Insertion order already follows popularity; a stable sort on rank keeps
	// that as the secondary order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].rank < ranked[j-1].rank; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	out := make([]Suggestion, 0, limit)
	for _, r := range ranked {
		out = append(out, r.Suggestion)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// RefreshEmbedding regenerates and stores the embedding for one approved
// recipe.
func (s *SearchService) RefreshEmbedding(ctx context.Context, recipeID uuid.UUID) error {
	recipe, err := s.store.GetApproved(ctx, recipeID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrRecipeNotFound
		}
		return fmt.Errorf("load recipe: %w", err)
	}

	vec, err := s.embedder.GenerateEmbedding(ctx, PrepareRecipeText(recipe))
	if err != nil {
		return fmt.Errorf("generate embedding: %w", err)
	}

	if err := s.store.UpdateEmbedding(ctx, recipeID, vec); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	return nil
}

// variantCandidates runs one embed-and-search pass for a single query text.
func (s *SearchService) variantCandidates(ctx context.Context, text string, filters search.FilterSet, limit int) ([]search.Candidate, error) {
	vec, err := s.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return s.store.SimilaritySearch(ctx, vec, text, filters, limit*candidateMultiplier)
}

func (s *SearchService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Printf("search cache get: %v", err)
		return false
	}
	return hit
}

func (s *SearchService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		log.Printf("search cache set: %v", err)
	}
}

// cacheKey derives a stable key from everything that shapes the response.
func cacheKey(op, query string, filters search.FilterSet, limit int) string {
	payload, _ := json.Marshal(struct {
		Op      string           `json:"op"`
		Query   string           `json:"query"`
		Filters search.FilterSet `json:"filters"`
		Limit   int              `json:"limit"`
	}{op, strings.ToLower(query), filters, limit})
	sum := sha256.Sum256(payload)
	return "search:" + op + ":" + hex.EncodeToString(sum[:])
}

func toScored(fused []search.FusedResult) []ScoredRecipe {
	results := make([]ScoredRecipe, 0, len(fused))
	for _, f := range fused {
		results = append(results, ScoredRecipe{
			Recipe:        f.Recipe,
			Similarity:    f.Similarity,
			CombinedScore: f.CombinedScore,
		})
	}
	return results
}
