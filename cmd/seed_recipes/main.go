package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fitrecipes/vector-search/internal/model"
	"github.com/fitrecipes/vector-search/internal/service"
)

var seedRecipes = []model.Recipe{
	{
		Title:          "Quick Vegan Thai Green Curry",
		Description:    "A weeknight green curry with tofu, bamboo shoots and coconut milk.",
		MainIngredient: "tofu",
		Ingredients: model.IngredientList{
			{Name: "tofu", Amount: "400", Unit: "g"},
			{Name: "coconut milk", Amount: "400", Unit: "ml"},
			{Name: "green curry paste", Amount: "3", Unit: "tbsp"},
			{Name: "bamboo shoots", Amount: "200", Unit: "g"},
		},
		CuisineType: "thai",
		DietaryInfo: model.DietaryInfo{"isVegan": true, "isVegetarian": true, "isGlutenFree": true},
		MealTypes:   model.MealTypeArray{model.MealDinner},
		Difficulty:  model.DifficultyEasy,
		PrepTime:    10,
		CookingTime: 15,
		Servings:    4,
	},
	{
		Title:          "Classic Beef Bolognese",
		Description:    "Slow-simmered ragu with ground beef, tomatoes and red wine.",
		MainIngredient: "ground beef",
		Ingredients: model.IngredientList{
			{Name: "ground beef", Amount: "500", Unit: "g"},
			{Name: "crushed tomatoes", Amount: "800", Unit: "g"},
			{Name: "red wine", Amount: "150", Unit: "ml"},
			{Name: "spaghetti", Amount: "400", Unit: "g"},
		},
		CuisineType: "italian",
		MealTypes:   model.MealTypeArray{model.MealDinner},
		Difficulty:  model.DifficultyMedium,
		PrepTime:    20,
		CookingTime: 120,
		Servings:    6,
	},
	{
		Title:          "Overnight Oats with Berries",
		Description:    "No-cook breakfast oats soaked in almond milk with mixed berries.",
		MainIngredient: "oats",
		Ingredients: model.IngredientList{
			{Name: "rolled oats", Amount: "80", Unit: "g"},
			{Name: "almond milk", Amount: "200", Unit: "ml"},
			{Name: "mixed berries", Amount: "100", Unit: "g"},
			{Name: "chia seeds", Amount: "1", Unit: "tbsp"},
		},
		CuisineType: "american",
		DietaryInfo: model.DietaryInfo{"isVegetarian": true, "isDairyFree": true},
		MealTypes:   model.MealTypeArray{model.MealBreakfast},
		Difficulty:  model.DifficultyEasy,
		PrepTime:    5,
		CookingTime: 0,
		Servings:    1,
	},
	{
		Title:          "Keto Chicken Tikka Skewers",
		Description:    "Grilled yogurt-marinated chicken skewers with warming spices.",
		MainIngredient: "chicken",
		Ingredients: model.IngredientList{
			{Name: "chicken thighs", Amount: "600", Unit: "g"},
			{Name: "greek yogurt", Amount: "150", Unit: "g"},
			{Name: "garam masala", Amount: "2", Unit: "tsp"},
			{Name: "lemon", Amount: "1", Unit: ""},
		},
		CuisineType: "indian",
		DietaryInfo: model.DietaryInfo{"isKeto": true, "isGlutenFree": true},
		MealTypes:   model.MealTypeArray{model.MealDinner, model.MealLunch},
		Difficulty:  model.DifficultyMedium,
		PrepTime:    15,
		CookingTime: 20,
		Servings:    4,
	},
	{
		Title:          "Chocolate Avocado Mousse",
		Description:    "Silky dairy-free dessert from ripe avocados and dark cocoa.",
		MainIngredient: "avocado",
		Ingredients: model.IngredientList{
			{Name: "avocado", Amount: "2", Unit: ""},
			{Name: "cocoa powder", Amount: "40", Unit: "g"},
			{Name: "maple syrup", Amount: "60", Unit: "ml"},
		},
		CuisineType: "french",
		DietaryInfo: model.DietaryInfo{"isVegan": true, "isVegetarian": true, "isDairyFree": true, "isGlutenFree": true},
		MealTypes:   model.MealTypeArray{model.MealDessert},
		Difficulty:  model.DifficultyEasy,
		PrepTime:    10,
		CookingTime: 0,
		Servings:    4,
	},
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var embedder service.EmbeddingServiceInterface
	if url := os.Getenv("EMBEDDER_URL"); url != "" {
		embedder = service.NewHTTPEmbeddingService(url, os.Getenv("EMBEDDER_API_KEY"), 384)
	} else {
		log.Printf("No embedder configured, using local embeddings")
		embedder = service.NewLocalEmbeddingService(384)
	}

	ctx := context.Background()
	authorID := uuid.New()

	for _, recipe := range seedRecipes {
		recipe.ID = uuid.New()
		recipe.AuthorID = authorID
		recipe.Status = model.StatusApproved

		vec, err := embedder.GenerateEmbedding(ctx, service.PrepareRecipeText(&recipe))
		if err != nil {
			log.Printf("Failed to generate embedding for %q: %v", recipe.Title, err)
			continue
		}
		recipe.Embedding = vec

		if err := db.Create(&recipe).Error; err != nil {
			log.Printf("Failed to save recipe %q: %v", recipe.Title, err)
			continue
		}
		log.Printf("Successfully created recipe: %s", recipe.Title)
	}

	log.Printf("Seeding complete")
}
