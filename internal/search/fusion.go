package search

import (
	"sort"

	"github.com/google/uuid"

	"github.com/fitrecipes/vector-search/internal/model"
)

// Blend ratios for combining similarity with the recipe quality signal.
// Similarity dominates; the rating contributes a minority share.
const (
	SimilarityBlendWeight = 0.7
	RatingBlendWeight     = 0.3
)

// Hybrid search blends the two retrieval legs at a fixed ratio.
const (
	HybridVectorWeight  = 0.6
	HybridKeywordWeight = 0.4
)

// Candidate is one recipe returned by a single search pass, with its raw
// similarity (or keyword rank) for that pass.
type Candidate struct {
	Recipe     model.Recipe
	Similarity float64
}

// WeightedList tags one variant's candidate list with the variant's weight.
type WeightedList struct {
	Weight     float64
	Candidates []Candidate
}

// FusedResult is one recipe's merged ranking entry.
type FusedResult struct {
	Recipe model.Recipe
	// Similarity is the weighted similarity accumulated across every
	// variant the recipe appeared in.
	Similarity float64
	// BestSimilarity is the highest raw similarity from any single pass,
	// used for tie-breaking.
	BestSimilarity float64
	// VariantHits counts how many variant lists contained the recipe.
	VariantHits   int
	CombinedScore float64
}

// Fuse folds the per-variant candidate lists into one ranking. Each
// appearance contributes similarity*weight, so a recipe found by several
// paraphrases always scores at least as high as it would from its best
// variant alone. The accumulated similarity is then blended with the
// normalized rating, sorted descending, and truncated to limit.
func Fuse(lists []WeightedList, limit int) []FusedResult {
	acc := make(map[uuid.UUID]*FusedResult)
	var order []uuid.UUID

	for _, list := range lists {
		for _, c := range list.Candidates {
			entry, ok := acc[c.Recipe.ID]
			if !ok {
				entry = &FusedResult{Recipe: c.Recipe}
				acc[c.Recipe.ID] = entry
				order = append(order, c.Recipe.ID)
			}
			entry.Similarity += c.Similarity * list.Weight
			entry.VariantHits++
			if c.Similarity > entry.BestSimilarity {
				entry.BestSimilarity = c.Similarity
			}
		}
	}

	results := make([]FusedResult, 0, len(order))
	for _, id := range order {
		entry := acc[id]
		entry.CombinedScore = entry.Similarity*SimilarityBlendWeight +
			entry.Recipe.NormalizedRating()*RatingBlendWeight
		results = append(results, *entry)
	}

	sortFused(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// FuseHybrid merges a vector leg and a keyword leg at the fixed 60/40 blend.
// Recipes found by only one leg keep that leg's contribution.
func FuseHybrid(vector, keyword []Candidate, limit int) []FusedResult {
	acc := make(map[uuid.UUID]*FusedResult)
	var order []uuid.UUID

	for _, c := range vector {
		entry := &FusedResult{
			Recipe:         c.Recipe,
			Similarity:     c.Similarity,
			BestSimilarity: c.Similarity,
			VariantHits:    1,
			CombinedScore:  c.Similarity * HybridVectorWeight,
		}
		acc[c.Recipe.ID] = entry
		order = append(order, c.Recipe.ID)
	}

	for _, c := range keyword {
		entry, ok := acc[c.Recipe.ID]
		if !ok {
			entry = &FusedResult{Recipe: c.Recipe}
			acc[c.Recipe.ID] = entry
			order = append(order, c.Recipe.ID)
		}
		entry.CombinedScore += c.Similarity * HybridKeywordWeight
		entry.VariantHits++
		if c.Similarity > entry.BestSimilarity {
			entry.BestSimilarity = c.Similarity
		}
	}

	results := make([]FusedResult, 0, len(order))
	for _, id := range order {
		results = append(results, *acc[id])
	}

	sortFused(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func sortFused(results []FusedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].CombinedScore != results[j].CombinedScore {
			return results[i].CombinedScore > results[j].CombinedScore
		}
		if results[i].BestSimilarity != results[j].BestSimilarity {
			return results[i].BestSimilarity > results[j].BestSimilarity
		}
		return results[i].Recipe.TotalRatings > results[j].Recipe.TotalRatings
	})
}
