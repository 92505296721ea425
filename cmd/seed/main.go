package main

import (
	"context"
	"log"
	"os"

	"ai-recipechat-be/internal/entity"
	"ai-recipechat-be/internal/repository/implementation"
	"ai-recipechat-be/pkg/database"
	"ai-recipechat-be/pkg/embedding"
	"ai-recipechat-be/pkg/store"

	"github.com/joho/godotenv"
)

// Seeds a small starter corpus. Safe to re-run: existing recipes (by name)
// are skipped. With OLLAMA_BASE_URL reachable the rows are embedded inline so
// hybrid search works immediately.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var embedder embedding.Provider
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
		model := os.Getenv("OLLAMA_EMBEDDING_MODEL")
		if model == "" {
			model = "nomic-embed-text"
		}
		embedder = embedding.WithRetry(embedding.NewOllamaProvider(baseURL, model), 3, 0)
	}

	repo := implementation.NewRecipeRepository(db)
	ctx := context.Background()

	existing, err := repo.FindAll(ctx)
	if err != nil {
		log.Fatal("Error: Failed to read recipes:", err)
	}

	seeded := 0
	for _, recipe := range starterRecipes() {
		if containsName(existing, recipe.Name) {
			continue
		}

		if embedder != nil {
			doc := recipe.Name + "\n" + recipe.Description
			for _, ing := range recipe.Ingredients {
				doc += "\n" + ing
			}
			if vec, err := embedder.Embed(ctx, doc); err == nil {
				recipe.Embedding = vec
			} else {
				log.Printf("Warn: embed failed for %q: %v", recipe.Name, err)
			}
		}

		if err := repo.Create(ctx, recipe); err != nil {
			log.Fatal("Error: Failed to seed recipe:", err)
		}
		seeded++
	}

	log.Printf("✅ Seed complete: %d new recipes", seeded)
}

func containsName(recipes []*entity.Recipe, name string) bool {
	for _, r := range recipes {
		if r.Name == name {
			return true
		}
	}
	return false
}

func starterRecipes() []*entity.Recipe {
	return []*entity.Recipe{
		{
			Name:          "Garlic Butter Chicken",
			NameLocalized: "Ayam Mentega Bawang Putih",
			Description:   "Pan-seared chicken thighs in a garlic butter sauce.",
			Ingredients: []string{
				"4 chicken thighs",
				"4 cloves garlic, minced",
				"3 tbsp butter",
				"salt and pepper",
				"fresh parsley",
			},
			Steps: []string{
				"Season the chicken with salt and pepper.",
				"Sear skin side down over medium-high heat until golden, about 6 minutes.",
				"Flip, add butter and garlic, and baste until cooked through.",
				"Rest 5 minutes and finish with parsley.",
			},
			Minutes:    30,
			Servings:   4,
			Difficulty: "easy",
			Tags:       []string{"chicken", "dinner"},
			Provenance: store.ProvenanceCorpus,
		},
		{
			Name:          "Vegetable Fried Rice",
			NameLocalized: "Nasi Goreng Sayur",
			Description:   "Day-old rice stir-fried with mixed vegetables and egg.",
			Ingredients: []string{
				"3 cups cooked rice, chilled",
				"2 eggs",
				"1 cup mixed vegetables",
				"2 tbsp soy sauce",
				"2 cloves garlic",
				"vegetable oil",
			},
			Steps: []string{
				"Scramble the eggs in a hot wok and set aside.",
				"Stir-fry garlic and vegetables until tender.",
				"Add rice, breaking up clumps, then soy sauce.",
				"Fold the eggs back in and serve hot.",
			},
			Minutes:    20,
			Servings:   3,
			Difficulty: "easy",
			Tags:       []string{"rice", "vegetarian-option", "quick"},
			Provenance: store.ProvenanceCorpus,
		},
		{
			Name:          "Coconut Fish Curry",
			NameLocalized: "Gulai Ikan Santan",
			Description:   "White fish simmered in a spiced coconut milk curry.",
			Ingredients: []string{
				"600g white fish fillets",
				"400ml coconut milk",
				"2 tbsp curry paste",
				"1 onion, sliced",
				"lime juice",
				"coriander",
			},
			Steps: []string{
				"Soften the onion, then fry the curry paste until fragrant.",
				"Pour in coconut milk and bring to a gentle simmer.",
				"Add fish and poach until just flaking, about 8 minutes.",
				"Finish with lime juice and coriander.",
			},
			Minutes:    35,
			Servings:   4,
			Difficulty: "medium",
			Tags:       []string{"fish", "curry", "dinner"},
			Provenance: store.ProvenanceCorpus,
		},
		{
			Name:          "Tofu Stir-Fry",
			NameLocalized: "Tumis Tahu",
			Description:   "Crispy tofu with vegetables in a light ginger sauce, no dairy.",
			Ingredients: []string{
				"400g firm tofu, cubed",
				"1 red pepper",
				"1 head broccoli",
				"1 tbsp grated ginger",
				"2 tbsp tamari",
				"cornstarch",
			},
			Steps: []string{
				"Toss tofu in cornstarch and pan-fry until crisp.",
				"Stir-fry the vegetables with ginger.",
				"Return tofu, add tamari, and toss to coat.",
			},
			Minutes:    25,
			Servings:   2,
			Difficulty: "easy",
			Tags:       []string{"vegan", "quick"},
			Provenance: store.ProvenanceCorpus,
		},
		{
			Name:          "Beef Rendang",
			NameLocalized: "Rendang Daging",
			Description:   "Slow-braised beef in coconut and aromatic spice paste.",
			Ingredients: []string{
				"1kg beef chuck, cubed",
				"800ml coconut milk",
				"rendang spice paste",
				"2 lemongrass stalks",
				"4 kaffir lime leaves",
			},
			Steps: []string{
				"Fry the spice paste until the oil splits.",
				"Add beef, coconut milk, lemongrass, and lime leaves.",
				"Simmer uncovered, stirring, until the sauce darkens and clings, about 3 hours.",
			},
			Minutes:    200,
			Servings:   6,
			Difficulty: "hard",
			Tags:       []string{"beef", "indonesian", "slow-cook"},
			Provenance: store.ProvenanceCorpus,
		},
	}
}
