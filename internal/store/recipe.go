package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/fitrecipes/vector-search/internal/model"
	"github.com/fitrecipes/vector-search/internal/search"
)

// RecipeStore runs read queries against the recipe table. The search core
// never mutates recipes; the single write path is UpdateEmbedding, owned by
// the ingestion side.
type RecipeStore struct {
	db        *gorm.DB
	threshold float64
}

// NewRecipeStore creates a new RecipeStore instance. threshold is the
// minimum similarity a candidate must reach to be returned.
func NewRecipeStore(db *gorm.DB, threshold float64) *RecipeStore {
	return &RecipeStore{db: db, threshold: threshold}
}

type similarityRow struct {
	model.Recipe `gorm:"embedded"`
	Similarity   float64
}

// SimilaritySearch returns approved recipes ordered by cosine similarity to
// the query vector, with the filter set applied as hard constraints. On
// non-Postgres databases, where no vector column exists, it degrades to the
// keyword path.
func (s *RecipeStore) SimilaritySearch(ctx context.Context, vec pgvector.Vector, query string, f search.FilterSet, limit int) ([]search.Candidate, error) {
	if s.db.Dialector.Name() != "postgres" {
		return s.keywordFallback(ctx, query, f, limit)
	}

	sql := `SELECT *, 1 - (embedding <=> ?) AS similarity
		FROM recipes
		WHERE status = ? AND embedding IS NOT NULL`
	args := []interface{}{vec, model.StatusApproved}

	for _, p := range search.BuildPredicates(f, "postgres") {
		sql += " AND " + p.Expr
		args = append(args, p.Args...)
	}

	sql += ` AND 1 - (embedding <=> ?) >= ? ORDER BY similarity DESC LIMIT ?`
	args = append(args, vec, s.threshold, limit)

	var rows []similarityRow
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	return toCandidates(rows), nil
}

// KeywordSearch ranks approved recipes by full-text relevance over title,
// description and main ingredient.
func (s *RecipeStore) KeywordSearch(ctx context.Context, query string, f search.FilterSet, limit int) ([]search.Candidate, error) {
	if s.db.Dialector.Name() != "postgres" {
		return s.keywordFallback(ctx, query, f, limit)
	}

	const document = `to_tsvector('english',
		COALESCE(title, '') || ' ' || COALESCE(description, '') || ' ' || COALESCE(main_ingredient, ''))`

	sql := `SELECT *, ts_rank(` + document + `, plainto_tsquery('english', ?)) AS similarity
		FROM recipes
		WHERE status = ? AND ` + document + ` @@ plainto_tsquery('english', ?)`
	args := []interface{}{query, model.StatusApproved, query}

	for _, p := range search.BuildPredicates(f, "postgres") {
		sql += " AND " + p.Expr
		args = append(args, p.Args...)
	}

	sql += ` ORDER BY similarity DESC LIMIT ?`
	args = append(args, limit)

	var rows []similarityRow
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return toCandidates(rows), nil
}

// keywordFallback serves non-Postgres databases: LIKE matching with a
// term-overlap rank standing in for similarity.
func (s *RecipeStore) keywordFallback(ctx context.Context, query string, f search.FilterSet, limit int) ([]search.Candidate, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return nil, nil
	}

	q := s.db.WithContext(ctx).Where("status = ?", model.StatusApproved)
	for _, p := range search.BuildPredicates(f, s.db.Dialector.Name()) {
		q = q.Where(p.Expr, p.Args...)
	}

	var exprs []string
	var args []interface{}
	for _, term := range terms {
		like := "%" + term + "%"
		exprs = append(exprs, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(main_ingredient) LIKE ?)")
		args = append(args, like, like, like)
	}
	q = q.Where("("+strings.Join(exprs, " OR ")+")", args...)

	var recipes []model.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("keyword fallback: %w", err)
	}

	candidates := make([]search.Candidate, 0, len(recipes))
	for _, r := range recipes {
		candidates = append(candidates, search.Candidate{
			Recipe:     r,
			Similarity: termOverlap(r, terms),
		})
	}
	if len(candidates) > limit && limit > 0 {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func termOverlap(r model.Recipe, terms []string) float64 {
	haystack := strings.ToLower(r.Title + " " + r.Description + " " + r.MainIngredient)
	matched := 0
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// FindCandidates prefilters approved recipes for the ingredient matcher:
// any recipe whose main ingredient, ingredient list, title or description
// mentions one of the terms. Tier scoring happens in the search package.
func (s *RecipeStore) FindCandidates(ctx context.Context, terms []string, f search.FilterSet) ([]model.Recipe, error) {
	dialect := s.db.Dialector.Name()

	q := s.db.WithContext(ctx).Where("status = ?", model.StatusApproved)
	for _, p := range search.BuildPredicates(f, dialect) {
		q = q.Where(p.Expr, p.Args...)
	}

	ingredientsColumn := "ingredients"
	if dialect == "postgres" {
		ingredientsColumn = "ingredients::text"
	}

	var exprs []string
	var args []interface{}
	for _, term := range terms {
		like := "%" + strings.ToLower(term) + "%"
		exprs = append(exprs, fmt.Sprintf(
			"(LOWER(main_ingredient) LIKE ? OR LOWER(%s) LIKE ? OR LOWER(title) LIKE ? OR LOWER(description) LIKE ?)",
			ingredientsColumn))
		args = append(args, like, like, like, like)
	}
	q = q.Where("("+strings.Join(exprs, " OR ")+")", args...)

	var recipes []model.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("ingredient candidates: %w", err)
	}
	return recipes, nil
}

// Suggest returns approved recipes whose title, main ingredient or cuisine
// mentions the partial query, most-rated first. Relevance ordering happens
// in the service.
func (s *RecipeStore) Suggest(ctx context.Context, query string, limit int) ([]model.Recipe, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var recipes []model.Recipe
	err := s.db.WithContext(ctx).
		Where("status = ?", model.StatusApproved).
		Where("LOWER(title) LIKE ? OR LOWER(main_ingredient) LIKE ? OR LOWER(cuisine_type) LIKE ?", like, like, like).
		Order("total_ratings DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("suggestions: %w", err)
	}
	return recipes, nil
}

// GetApproved fetches one approved recipe by ID.
func (s *RecipeStore) GetApproved(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).
		First(&recipe, "id = ? AND status = ?", id, model.StatusApproved).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateEmbedding stores a freshly generated embedding for one recipe.
func (s *RecipeStore) UpdateEmbedding(ctx context.Context, id uuid.UUID, vec pgvector.Vector) error {
	result := s.db.WithContext(ctx).
		Model(&model.Recipe{}).
		Where("id = ?", id).
		Update("embedding", vec)
	if result.Error != nil {
		return fmt.Errorf("update embedding: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func toCandidates(rows []similarityRow) []search.Candidate {
	candidates := make([]search.Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, search.Candidate{
			Recipe:     row.Recipe,
			Similarity: row.Similarity,
		})
	}
	return candidates
}
