package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Recipe is a titled entity with a description, an ingredient list and a
// preparation time. Recipes are created by the store, which assigns ID.
type Recipe struct {
	ID          string      `json:"id"`          // Assigned by the store on creation.
	Title       string      `json:"title"`       // Required at the form boundary.
	Description string      `json:"description"` // Free text.
	Ingredients Ingredients `json:"ingredients"` // Ordered ingredient names.
	PrepTime    int         `json:"prepTime"`    // Minutes, non-negative.
}

// RecipeInput carries the user-supplied fields of a new recipe.
type RecipeInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Ingredients Ingredients `json:"ingredients"`
	PrepTime    int         `json:"prepTime"`
}

// WithID builds a Recipe from the input and the given id.
func (in RecipeInput) WithID(id string) Recipe {
	return Recipe{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Ingredients: in.Ingredients.Clone(),
		PrepTime:    in.PrepTime,
	}
}

// Input returns the user-editable fields of r.
func (r Recipe) Input() RecipeInput {
	return RecipeInput{
		Title:       r.Title,
		Description: r.Description,
		Ingredients: r.Ingredients.Clone(),
		PrepTime:    r.PrepTime,
	}
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	r.Ingredients = r.Ingredients.Clone()
	return r
}

// UnmarshalJSON accepts both string and numeric ids. Blobs written by older
// front ends used a millisecond timestamp as the id.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type plain Recipe
	var aux struct {
		plain
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Recipe(aux.plain)

	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: id must be a string or number", ErrInvalidID)
	}
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	return n.String(), nil
}

// Ingredients is an ordered list of ingredient names. In JSON it encodes as
// an array and decodes from either an array or a comma-delimited string.
type Ingredients []string

// ParseIngredients splits a comma-delimited list, trimming whitespace and
// dropping empty entries.
func ParseIngredients(s string) Ingredients {
	var out Ingredients
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// String joins the ingredients with ", ".
func (in Ingredients) String() string {
	return strings.Join(in, ", ")
}

// Clone returns a copy of the list. A nil list stays nil.
func (in Ingredients) Clone() Ingredients {
	if in == nil {
		return nil
	}
	out := make(Ingredients, len(in))
	copy(out, in)
	return out
}

// MarshalJSON encodes the list as an array; nil encodes as [].
func (in Ingredients) MarshalJSON() ([]byte, error) {
	if in == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(in))
}

// UnmarshalJSON decodes an array of strings or a comma-delimited string.
func (in *Ingredients) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*in = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*in = Ingredients(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: ingredients must be a string or an array of strings", ErrInvalidData)
	}
	*in = ParseIngredients(s)
	return nil
}

// Preview returns the first n runes of the description, followed by "..."
// when it was cut.
func (r Recipe) Preview(n int) string {
	runes := []rune(r.Description)
	if len(runes) <= n {
		return r.Description
	}
	return string(runes[:n]) + "..."
}
