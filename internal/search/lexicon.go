package search

import (
	"regexp"

	"github.com/fitrecipes/vector-search/internal/model"
)

// The lexicon is a set of static rule tables evaluated in a fixed order by
// the parser: time, difficulty, dietary, cuisine, meal type. Rules are held
// in slices, not maps, so extraction never depends on iteration order.

// timeBoundExpr matches an explicit time budget such as "under 30 minutes",
// "in 2 hours" or a bare "45 min". Group 1 is the number, group 2 the unit.
var timeBoundExpr = regexp.MustCompile(`(?i)\b(?:(?:in|within|under|less than)\s+)?(\d+)\s*(minutes?|mins?|hours?|hrs?)\b`)

// quickExpr matches the bare keywords that imply a default time budget when
// no number is present.
var quickExpr = regexp.MustCompile(`(?i)\b(?:quick|fast)\b`)

// quickDefaultMinutes is the budget implied by "quick"/"fast" alone.
const quickDefaultMinutes = 30

type difficultyRule struct {
	pattern *regexp.Regexp
	level   model.DifficultyLevel
}

var difficultyRules = []difficultyRule{
	{regexp.MustCompile(`(?i)\b(?:easy|simple|beginner|quick|fast)\b`), model.DifficultyEasy},
	{regexp.MustCompile(`(?i)\b(?:medium|intermediate)\b`), model.DifficultyMedium},
	{regexp.MustCompile(`(?i)\b(?:hard|difficult|advanced|challenging)\b`), model.DifficultyHard},
}

type dietaryRule struct {
	pattern *regexp.Regexp
	flag    string
}

var dietaryRules = []dietaryRule{
	{regexp.MustCompile(`(?i)\b(?:vegan|plant-based)\b`), "isVegan"},
	{regexp.MustCompile(`(?i)\b(?:vegetarian|meatless)\b`), "isVegetarian"},
	{regexp.MustCompile(`(?i)\b(?:gluten-free|gluten free)\b`), "isGlutenFree"},
	{regexp.MustCompile(`(?i)\b(?:dairy-free|dairy free|lactose free)\b`), "isDairyFree"},
	{regexp.MustCompile(`(?i)\b(?:keto|ketogenic|low-carb)\b`), "isKeto"},
	{regexp.MustCompile(`(?i)\b(?:paleo|paleolithic)\b`), "isPaleo"},
}

type cuisineRule struct {
	pattern   *regexp.Regexp
	canonical string
}

// cuisineRules are checked in order; the first match wins and only one
// cuisine is ever extracted per query.
var cuisineRules = []cuisineRule{
	{regexp.MustCompile(`(?i)\b(?:thai|thailand)\b`), "Thai"},
	{regexp.MustCompile(`(?i)\b(?:italian|italy)\b`), "Italian"},
	{regexp.MustCompile(`(?i)\b(?:japanese|japan)\b`), "Japanese"},
	{regexp.MustCompile(`(?i)\b(?:chinese|china)\b`), "Chinese"},
	{regexp.MustCompile(`(?i)\b(?:mexican|mexico)\b`), "Mexican"},
	{regexp.MustCompile(`(?i)\b(?:indian|india)\b`), "Indian"},
	{regexp.MustCompile(`(?i)\b(?:korean|korea)\b`), "Korean"},
	{regexp.MustCompile(`(?i)\b(?:vietnamese|vietnam)\b`), "Vietnamese"},
	{regexp.MustCompile(`(?i)\bmediterranean\b`), "Mediterranean"},
	{regexp.MustCompile(`(?i)\bamerican\b`), "American"},
	{regexp.MustCompile(`(?i)\b(?:french|france)\b`), "French"},
}

type mealRule struct {
	pattern *regexp.Regexp
	meal    model.MealType
}

var mealRules = []mealRule{
	{regexp.MustCompile(`(?i)\b(?:breakfast|morning)\b`), model.MealBreakfast},
	{regexp.MustCompile(`(?i)\b(?:lunch|noon)\b`), model.MealLunch},
	{regexp.MustCompile(`(?i)\b(?:dinner|evening)\b`), model.MealDinner},
	{regexp.MustCompile(`(?i)\b(?:snack|appetizer)\b`), model.MealSnack},
	{regexp.MustCompile(`(?i)\b(?:dessert|sweet)\b`), model.MealDessert},
}

// difficultyCleanupExpr strips difficulty keywords from the cleaned query so
// they don't bias the embedding toward filter words.
var difficultyCleanupExpr = regexp.MustCompile(`(?i)\b(?:quick|fast|easy|simple|beginner|medium|intermediate|hard|difficult|advanced|challenging)\b`)

// culinarySynonyms is the curated, domain-aware synonym table used by the
// query expander. Keys are lowercase single words of at least four
// characters; values are checked in order with at most two used per word.
var culinarySynonyms = map[string][]string{
	// preparation qualities
	"healthy":   {"nutritious", "wholesome", "clean"},
	"quick":     {"fast", "rapid", "speedy"},
	"easy":      {"simple", "basic", "straightforward"},
	"delicious": {"tasty", "flavorful", "savory"},
	"spicy":     {"hot", "fiery", "zesty"},
	"mild":      {"gentle", "subtle", "light"},
	"rich":      {"creamy", "decadent", "indulgent"},
	"light":     {"refreshing", "crisp", "fresh"},

	// meal types
	"breakfast": {"morning meal", "brunch"},
	"lunch":     {"midday meal", "luncheon"},
	"dinner":    {"evening meal", "supper"},
	"snack":     {"appetizer", "bite", "nibble"},
	"dessert":   {"sweet", "treat"},

	// proteins
	"chicken": {"poultry", "fowl"},
	"beef":    {"steak", "meat"},
	"pork":    {"ham", "bacon"},
	"fish":    {"seafood"},
	"tofu":    {"bean curd", "soy"},

	// dietary terms
	"vegetarian":  {"plant-based", "meatless", "veggie"},
	"vegan":       {"plant-based", "dairy-free"},
	"low-carb":    {"keto", "ketogenic"},
	"gluten-free": {"wheat-free"},

	// cooking methods
	"grilled": {"barbecued", "charred", "broiled"},
	"fried":   {"pan-fried", "crispy"},
	"baked":   {"roasted", "oven-cooked"},
	"steamed": {"boiled", "poached"},

	// textures
	"crispy": {"crunchy", "crisp"},
	"creamy": {"smooth", "velvety"},
	"tender": {"soft", "juicy"},
	"chewy":  {"firm", "dense"},
}
