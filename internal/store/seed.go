package store

import "github.com/mesh-intelligence/recipevault/pkg/types"

// DefaultRecipes returns the built-in recipes a new store starts with when
// nothing has been persisted yet.
func DefaultRecipes() []types.Recipe {
	return []types.Recipe{
		{
			ID:          "1",
			Title:       "Classic Tomato Pasta",
			Description: "A simple and delicious pasta dish with a homemade tomato sauce.",
			Ingredients: types.Ingredients{"Pasta", "Tomatoes", "Onion", "Garlic", "Olive Oil", "Basil", "Salt", "Pepper"},
			PrepTime:    30,
		},
		{
			ID:          "2",
			Title:       "Spicy Chicken Tacos",
			Description: "Quick and easy tacos with seasoned chicken and fresh toppings.",
			Ingredients: types.Ingredients{"Chicken", "Taco Shells", "Lettuce", "Tomato", "Cheese", "Sour Cream", "Chili Powder"},
			PrepTime:    20,
		},
		{
			ID:          "3",
			Title:       "Vegetable Stir-Fry",
			Description: "Healthy and colorful stir-fry with your favorite vegetables.",
			Ingredients: types.Ingredients{"Broccoli", "Bell Peppers", "Carrots", "Soy Sauce", "Ginger", "Garlic", "Sesame Oil"},
			PrepTime:    25,
		},
	}
}

// DefaultState returns a state holding DefaultRecipes and nothing else.
func DefaultState() types.State {
	return types.State{Recipes: DefaultRecipes()}
}
