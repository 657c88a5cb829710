package types

// Optional distinguishes a field that was omitted from one that was supplied.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// RecipeInput is a validated create or update payload.
type RecipeInput struct {
	Name        Optional[string]
	Description Optional[string]
	Ingredients Optional[[]IngredientInput]
}

// IngredientInput is a single validated ingredient entry.
type IngredientInput struct {
	Name string
}

// RecipeResponse is the wire shape of a recipe.
type RecipeResponse struct {
	ID          uint                 `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Ingredients []IngredientResponse `json:"ingredients"`
}

// IngredientResponse is the wire shape of an ingredient.
type IngredientResponse struct {
	Name string `json:"name"`
}
