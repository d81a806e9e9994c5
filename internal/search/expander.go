package search

import (
	"strings"
	"unicode"
)

// MaxVariants bounds the fan-out of one request. Capping at five also caps
// how much the low-weight tail can move the fused score.
const MaxVariants = 5

const (
	maxSynonymsPerWord    = 2
	minSubstitutionLength = 4
)

// SynonymSource is an optional general-purpose lexical source consulted when
// the curated table yields fewer than MaxVariants variants. Implementations
// must be safe for concurrent use.
type SynonymSource interface {
	Synonyms(word string) []string
}

// NoopSynonymSource is the fallback when no external lexical source is
// wired. Expansion still works from the curated table alone.
type NoopSynonymSource struct{}

// Synonyms always returns nil.
func (NoopSynonymSource) Synonyms(string) []string { return nil }

// Variant is one paraphrase of a query with its fusion weight.
type Variant struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// ExpandQuery produces up to MaxVariants query variants by single-word
// synonym substitution. The original query is always first with weight 1.0;
// variant i gets weight 1/(i+1). The curated culinary table is consulted
// before the general-purpose source, and a word substituted once is never
// substituted again.
func ExpandQuery(query string, source SynonymSource) []Variant {
	if source == nil {
		source = NoopSynonymSource{}
	}

	original := strings.TrimSpace(query)
	lower := strings.ToLower(original)
	words := strings.Fields(lower)

	texts := []string{original}
	seen := map[string]bool{lower: true}
	consumed := map[string]bool{}

	appendVariant := func(candidate string) bool {
		if seen[candidate] {
			return len(texts) < MaxVariants
		}
		seen[candidate] = true
		texts = append(texts, candidate)
		return len(texts) < MaxVariants
	}

	// Curated culinary synonyms first: they carry domain knowledge the
	// general-purpose source lacks.
	for _, word := range words {
		if len(word) < minSubstitutionLength || consumed[word] {
			continue
		}
		syns, ok := culinarySynonyms[word]
		if !ok {
			continue
		}
		consumed[word] = true
		for i, syn := range syns {
			if i >= maxSynonymsPerWord {
				break
			}
			if !usableSynonym(word, syn) {
				continue
			}
			if !appendVariant(strings.ReplaceAll(lower, word, syn)) {
				return weighted(texts)
			}
		}
	}

	// Supplement from the injected source, filtered the same way.
	for _, word := range words {
		if len(texts) >= MaxVariants {
			break
		}
		if len(word) < minSubstitutionLength || consumed[word] {
			continue
		}
		used := 0
		for _, syn := range source.Synonyms(word) {
			syn = strings.ToLower(strings.TrimSpace(syn))
			if !usableSynonym(word, syn) {
				continue
			}
			if !appendVariant(strings.ReplaceAll(lower, word, syn)) {
				return weighted(texts)
			}
			used++
			if used >= maxSynonymsPerWord {
				break
			}
		}
		if used > 0 {
			consumed[word] = true
		}
	}

	return weighted(texts)
}

func usableSynonym(word, syn string) bool {
	if syn == "" || syn == word || len(syn) < 3 {
		return false
	}
	for _, r := range syn {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func weighted(texts []string) []Variant {
	variants := make([]Variant, len(texts))
	for i, text := range texts {
		variants[i] = Variant{Text: text, Weight: 1.0 / float64(i+1)}
	}
	return variants
}
