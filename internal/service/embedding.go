package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/fitrecipes/vector-search/internal/model"
)

// HTTPEmbeddingService calls the external embedding generator over HTTP.
// The generator owns the model; this client only ships text and validates
// the returned dimension.
type HTTPEmbeddingService struct {
	url       string
	apiKey    string
	dimension int
	client    *http.Client
}

// NewHTTPEmbeddingService creates a new HTTPEmbeddingService instance.
func NewHTTPEmbeddingService(url, apiKey string, dimension int) *HTTPEmbeddingService {
	return &HTTPEmbeddingService{
		url:       url,
		apiKey:    apiKey,
		dimension: dimension,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// GenerateEmbedding encodes the given text into a vector.
func (s *HTTPEmbeddingService) GenerateEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("embedding generator unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return pgvector.Vector{}, fmt.Errorf("embedding generator returned %d: %s", resp.StatusCode, string(raw))
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return pgvector.Vector{}, fmt.Errorf("decode embedding: %w", err)
	}
	if len(out.Embedding) != s.dimension {
		return pgvector.Vector{}, fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(out.Embedding), s.dimension)
	}

	return pgvector.NewVector(out.Embedding), nil
}

// LocalEmbeddingService returns a deterministic character-statistics
// embedding. It has no semantic value and exists for development and tests,
// where a stable, dependency-free vector is all that matters.
type LocalEmbeddingService struct {
	dimension int
}

// NewLocalEmbeddingService creates a new LocalEmbeddingService instance.
func NewLocalEmbeddingService(dimension int) *LocalEmbeddingService {
	return &LocalEmbeddingService{dimension: dimension}
}

// GenerateEmbedding folds character trigrams into fixed buckets.
func (s *LocalEmbeddingService) GenerateEmbedding(_ context.Context, text string) (pgvector.Vector, error) {
	values := make([]float32, s.dimension)
	lower := strings.ToLower(text)
	for i := 0; i+3 <= len(lower); i++ {
		h := uint32(2166136261)
		for _, b := range []byte(lower[i : i+3]) {
			h = (h ^ uint32(b)) * 16777619
		}
		values[h%uint32(s.dimension)]++
	}
	var norm float32
	for _, v := range values {
		norm += v * v
	}
	if norm > 0 {
		scale := 1.0 / float32(sqrt64(float64(norm)))
		for i := range values {
			values[i] *= scale
		}
	}
	return pgvector.NewVector(values), nil
}

func sqrt64(x float64) float64 {
	if x <= 0 {
		return 0
	}
	z := x
	for i := 0; i < 16; i++ {
		z = (z + x/z) / 2
	}
	return z
}

// PrepareRecipeText builds the text representation a recipe is embedded
// from: title, description, ingredients, cuisine, meal types and dietary
// labels, joined into one document.
func PrepareRecipeText(r *model.Recipe) string {
	parts := []string{
		r.Title,
		r.Description,
	}
	if r.MainIngredient != "" {
		parts = append(parts, "Main ingredient: "+r.MainIngredient)
	}
	if len(r.Ingredients) > 0 {
		names := make([]string, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			if ing.Name != "" {
				names = append(names, ing.Name)
			}
		}
		parts = append(parts, "Ingredients: "+strings.Join(names, ", "))
	}
	if r.CuisineType != "" {
		parts = append(parts, "Cuisine: "+r.CuisineType)
	}
	if len(r.MealTypes) > 0 {
		parts = append(parts, "Meal type: "+strings.Join(r.MealTypes.Strings(), ", "))
	}

	var labels []string
	for _, flag := range []struct {
		key   string
		label string
	}{
		{"isVegetarian", "vegetarian"},
		{"isVegan", "vegan"},
		{"isGlutenFree", "gluten-free"},
		{"isDairyFree", "dairy-free"},
		{"isKeto", "keto"},
		{"isPaleo", "paleo"},
	} {
		if r.DietaryFlag(flag.key) {
			labels = append(labels, flag.label)
		}
	}
	if len(labels) > 0 {
		parts = append(parts, "Dietary: "+strings.Join(labels, ", "))
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ". ")
}
