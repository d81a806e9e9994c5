package model

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// MealType mirrors the meal_type Postgres enum.
type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
	MealSnack     MealType = "SNACK"
	MealDessert   MealType = "DESSERT"
)

// DifficultyLevel mirrors the difficulty_level Postgres enum.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "EASY"
	DifficultyMedium DifficultyLevel = "MEDIUM"
	DifficultyHard   DifficultyLevel = "HARD"
)

// MealTypeArray maps a meal_type[] column. The column is enum-typed, so
// values must travel as a Postgres array literal; binding them as a plain
// text array makes the && overlap predicate fail silently.
type MealTypeArray []MealType

// GormDataType tells gorm the column's declared type.
func (MealTypeArray) GormDataType() string {
	return "meal_type[]"
}

// Value implements the driver.Valuer interface
func (a MealTypeArray) Value() (driver.Value, error) {
	return pq.StringArray(a.Strings()).Value()
}

// Scan implements the sql.Scanner interface
func (a *MealTypeArray) Scan(value interface{}) error {
	var raw pq.StringArray
	if err := raw.Scan(value); err != nil {
		return err
	}
	out := make(MealTypeArray, len(raw))
	for i, s := range raw {
		out[i] = MealType(s)
	}
	*a = out
	return nil
}

// Strings returns the enum values as plain strings.
func (a MealTypeArray) Strings() []string {
	out := make([]string, len(a))
	for i, m := range a {
		out[i] = string(m)
	}
	return out
}

// Contains reports whether the array holds the given meal type.
func (a MealTypeArray) Contains(m MealType) bool {
	for _, v := range a {
		if v == m {
			return true
		}
	}
	return false
}
