package service

import "errors"

var (
	// ErrAllVariantsFailed is returned when every expanded query variant
	// failed. Partial variant failures are tolerated; total failure is not.
	ErrAllVariantsFailed = errors.New("all query variants failed")

	// ErrEmptyQuery is returned when a query is empty after trimming.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrNoIngredients is returned when an ingredient search has no usable
	// ingredient names after normalization.
	ErrNoIngredients = errors.New("at least one ingredient is required")

	// ErrRecipeNotFound is returned when the requested recipe does not exist
	// or is not approved.
	ErrRecipeNotFound = errors.New("recipe not found")
)
