package extract

// Category of an extracted entity.
const (
	CategoryIngredient    = "ingredient"
	CategoryCookingMethod = "cooking_method"
	CategoryCuisine       = "cuisine"
	CategoryDietary       = "dietary_restriction"
)

// Entity is one dictionary hit. Deduplicated by (Type, Value) keeping the
// highest confidence.
type Entity struct {
	Type       string   `json:"type"`
	Value      string   `json:"value"`
	Confidence float64  `json:"confidence"`
	Synonyms   []string `json:"synonyms,omitempty"`
}

// AllergenRecord is immutable reference data for one allergen. Contamination
// sources are advisory text only; they never widen the hard filter.
type AllergenRecord struct {
	Name          string   `json:"name"`
	Patterns      []string `json:"patterns"`
	Contamination []string `json:"contamination"`
	Substitutes   []string `json:"substitutes"`
}

// Dictionary holds the keyword and allergen reference data. Loaded once at
// process start and shared by reference; never mutated at request time.
type Dictionary struct {
	Keywords  map[string][]KeywordGroup
	Allergens []AllergenRecord
}

// KeywordGroup maps a canonical value to its surface forms.
type KeywordGroup struct {
	Canonical string
	Synonyms  []string
}

// DefaultDictionary returns the built-in reference data. A deployment can
// replace it wholesale at startup; per-request mutation is not supported.
func DefaultDictionary() *Dictionary {
	return &Dictionary{
		Keywords: map[string][]KeywordGroup{
			CategoryIngredient: {
				{Canonical: "chicken", Synonyms: []string{"chicken breast", "chicken thigh", "poultry"}},
				{Canonical: "beef", Synonyms: []string{"steak", "ground beef", "minced beef"}},
				{Canonical: "pork", Synonyms: []string{"bacon", "ham", "pork belly"}},
				{Canonical: "salmon", Synonyms: []string{"smoked salmon"}},
				{Canonical: "shrimp", Synonyms: []string{"prawn", "prawns"}},
				{Canonical: "tofu", Synonyms: []string{"bean curd"}},
				{Canonical: "egg", Synonyms: []string{"eggs"}},
				{Canonical: "rice", Synonyms: []string{"jasmine rice", "basmati"}},
				{Canonical: "pasta", Synonyms: []string{"spaghetti", "noodles", "penne"}},
				{Canonical: "potato", Synonyms: []string{"potatoes"}},
				{Canonical: "tomato", Synonyms: []string{"tomatoes", "cherry tomato"}},
				{Canonical: "mushroom", Synonyms: []string{"mushrooms", "shiitake", "portobello"}},
				{Canonical: "cheese", Synonyms: []string{"parmesan", "mozzarella", "cheddar"}},
				{Canonical: "garlic", Synonyms: []string{}},
				{Canonical: "onion", Synonyms: []string{"onions", "scallion", "spring onion"}},
			},
			CategoryCookingMethod: {
				{Canonical: "stir-fry", Synonyms: []string{"stir fry", "stir fried", "stir-fried"}},
				{Canonical: "bake", Synonyms: []string{"baked", "baking", "roast", "roasted"}},
				{Canonical: "grill", Synonyms: []string{"grilled", "grilling", "barbecue", "bbq"}},
				{Canonical: "steam", Synonyms: []string{"steamed", "steaming"}},
				{Canonical: "fry", Synonyms: []string{"fried", "deep-fry", "pan-fry", "saute", "sauteed"}},
				{Canonical: "boil", Synonyms: []string{"boiled", "simmer", "simmered", "poach"}},
				{Canonical: "braise", Synonyms: []string{"braised", "stew", "stewed", "slow cook"}},
			},
			CategoryCuisine: {
				{Canonical: "italian", Synonyms: []string{"italy"}},
				{Canonical: "chinese", Synonyms: []string{"cantonese", "sichuan", "szechuan"}},
				{Canonical: "japanese", Synonyms: []string{"sushi", "ramen"}},
				{Canonical: "thai", Synonyms: []string{}},
				{Canonical: "indian", Synonyms: []string{"curry"}},
				{Canonical: "mexican", Synonyms: []string{"taco", "tacos", "burrito"}},
				{Canonical: "french", Synonyms: []string{}},
				{Canonical: "mediterranean", Synonyms: []string{"greek"}},
				{Canonical: "korean", Synonyms: []string{"kimchi"}},
			},
			CategoryDietary: {
				{Canonical: "vegetarian", Synonyms: []string{"veggie", "meatless"}},
				{Canonical: "vegan", Synonyms: []string{"plant-based", "plant based"}},
				{Canonical: "gluten-free", Synonyms: []string{"gluten free", "no gluten"}},
				{Canonical: "dairy-free", Synonyms: []string{"dairy free", "lactose-free", "lactose free"}},
				{Canonical: "low-carb", Synonyms: []string{"low carb", "keto", "ketogenic"}},
				{Canonical: "halal", Synonyms: []string{}},
				{Canonical: "kosher", Synonyms: []string{}},
			},
		},
		Allergens: []AllergenRecord{
			{
				Name:          "peanut",
				Patterns:      []string{"peanut", "peanuts", "groundnut", "peanut butter"},
				Contamination: []string{"tree nuts processed on shared lines"},
				Substitutes:   []string{"sunflower seed butter", "pumpkin seeds"},
			},
			{
				Name:          "tree nut",
				Patterns:      []string{"almond", "walnut", "cashew", "pecan", "hazelnut", "pistachio"},
				Contamination: []string{"peanut facilities"},
				Substitutes:   []string{"toasted oats", "seeds"},
			},
			{
				Name:          "dairy",
				Patterns:      []string{"milk", "cheese", "butter", "cream", "yogurt", "ghee"},
				Contamination: []string{"whey in processed foods"},
				Substitutes:   []string{"coconut milk", "oat milk", "olive oil"},
			},
			{
				Name:          "egg",
				Patterns:      []string{"egg", "eggs", "mayonnaise", "albumen"},
				Contamination: []string{"baked goods", "fresh pasta"},
				Substitutes:   []string{"flax egg", "aquafaba"},
			},
			{
				Name:          "gluten",
				Patterns:      []string{"wheat", "flour", "bread", "pasta", "soy sauce", "barley", "rye"},
				Contamination: []string{"oats from shared mills"},
				Substitutes:   []string{"rice flour", "tamari", "corn tortillas"},
			},
			{
				Name:          "soy",
				Patterns:      []string{"soy", "soya", "tofu", "soy sauce", "edamame", "miso", "tempeh"},
				Contamination: []string{"vegetable oil blends"},
				Substitutes:   []string{"coconut aminos", "chickpeas"},
			},
			{
				Name:          "shellfish",
				Patterns:      []string{"shrimp", "prawn", "crab", "lobster", "oyster", "clam", "mussel", "scallop"},
				Contamination: []string{"fish sauce", "shared fryers"},
				Substitutes:   []string{"white fish", "king oyster mushroom"},
			},
			{
				Name:          "fish",
				Patterns:      []string{"salmon", "tuna", "cod", "anchovy", "fish sauce", "worcestershire"},
				Contamination: []string{"shellfish counters"},
				Substitutes:   []string{"jackfruit", "hearts of palm"},
			},
			{
				Name:          "sesame",
				Patterns:      []string{"sesame", "tahini", "sesame oil"},
				Contamination: []string{"bakery toppings"},
				Substitutes:   []string{"sunflower oil", "poppy seeds"},
			},
		},
	}
}

// AllergenByName returns the record for a declared allergy name, matching the
// record name or any of its patterns.
func (d *Dictionary) AllergenByName(name string) *AllergenRecord {
	for i := range d.Allergens {
		if d.Allergens[i].Name == name {
			return &d.Allergens[i]
		}
		for _, p := range d.Allergens[i].Patterns {
			if p == name {
				return &d.Allergens[i]
			}
		}
	}
	return nil
}
