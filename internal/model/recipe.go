package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
)

// StatusApproved is the only status visible to search. Recipes in any other
// state are owned by the ingestion pipeline and never surface here.
const StatusApproved = "APPROVED"

// Ingredient is one entry in a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// IngredientList is a custom type for handling ingredient entries in JSONB
type IngredientList []Ingredient

// Value implements the driver.Valuer interface
func (l IngredientList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// Names returns the lowercased ingredient names.
func (l IngredientList) Names() []string {
	names := make([]string, 0, len(l))
	for _, ing := range l {
		names = append(names, strings.ToLower(ing.Name))
	}
	return names
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// DietaryInfo carries the named dietary flags stored on a recipe. A false
// flag means "not declared", never "declared false".
type DietaryInfo map[string]bool

// Value implements the driver.Valuer interface
func (d DietaryInfo) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return json.Marshal(d)
}

// Scan implements the sql.Scanner interface
func (d *DietaryInfo) Scan(value interface{}) error {
	if value == nil {
		*d = DietaryInfo{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// Recipe is read-only to the search core. Writes happen in the ingestion
// pipeline; the single exception is the embedding refresh path.
type Recipe struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Title          string           `gorm:"size:255;not null" json:"title"`
	Description    string           `gorm:"type:text" json:"description"`
	MainIngredient string           `gorm:"size:100" json:"main_ingredient"`
	Ingredients    IngredientList   `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	CuisineType    string           `gorm:"size:50" json:"cuisine_type"`
	DietaryInfo    DietaryInfo      `gorm:"type:jsonb;not null;default:'{}'" json:"dietary_info"`
	MealTypes      MealTypeArray    `gorm:"type:meal_type[]" json:"meal_types"`
	Difficulty     DifficultyLevel  `gorm:"type:difficulty_level" json:"difficulty"`
	PrepTime       int              `json:"prep_time"`
	CookingTime    int              `json:"cooking_time"`
	Servings       int              `json:"servings"`
	AverageRating  float64          `gorm:"type:float" json:"average_rating"`
	TotalRatings   int              `json:"total_ratings"`
	ImageURLs      JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"image_urls"`
	Status         string           `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	AuthorID       uuid.UUID        `gorm:"type:uuid" json:"author_id"`
	Embedding      pgvector.Vector  `gorm:"type:vector(384)" json:"-"`
}

// TotalTime is the prep plus cooking time in minutes.
func (r *Recipe) TotalTime() int {
	return r.PrepTime + r.CookingTime
}

// NormalizedRating maps the 0-5 average rating onto [0,1].
func (r *Recipe) NormalizedRating() float64 {
	return r.AverageRating / 5.0
}

// DietaryFlag reports whether the named dietary flag is declared true.
func (r *Recipe) DietaryFlag(name string) bool {
	return r.DietaryInfo[name]
}
