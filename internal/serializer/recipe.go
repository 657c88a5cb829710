// Package serializer converts between the recipe wire format and the
// data model. Decoding validates every field and reports all problems at
// once; encoding always emits an ingredients array, even when empty.
package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipebook/backend/internal/models"
	"github.com/pageza/recipebook/backend/internal/types"
)

const (
	msgRequired     = "This field is required."
	msgNull         = "This field may not be null."
	msgBlank        = "This field may not be blank."
	msgNotString    = "Not a valid string."
	msgNullChar     = "Null characters are not allowed."
	msgMalformed    = "Malformed JSON payload."
	nonFieldErrors  = "non_field_errors"
	fieldName       = "name"
	fieldDesc       = "description"
	fieldIngredient = "ingredients"
)

var validate = validator.New()

// ValidationError carries field-level messages for a rejected payload.
// Values are either []string or, for ingredients, a list aligned with the
// submitted entries.
type ValidationError struct {
	Fields map[string]any
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("invalid fields: %s", strings.Join(keys, ", "))
}

// Decode validates a recipe payload. With partial set, absent fields are
// left unset instead of being reported as missing.
func Decode(body []byte, partial bool) (*types.RecipeInput, error) {
	errs := map[string]any{}

	if !json.Valid(body) {
		errs[nonFieldErrors] = []string{msgMalformed}
		return nil, &ValidationError{Fields: errs}
	}
	obj, ok := decodeObject(body)
	if !ok {
		errs[nonFieldErrors] = []string{expectedObject(body)}
		return nil, &ValidationError{Fields: errs}
	}

	input := &types.RecipeInput{
		Name:        decodeString(errs, obj, fieldName, models.RecipeNameMaxLength, !partial),
		Description: decodeString(errs, obj, fieldDesc, models.RecipeDescriptionMaxLength, !partial),
		Ingredients: decodeIngredients(errs, obj, !partial),
	}

	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	return input, nil
}

func decodeIngredients(errs map[string]any, obj map[string]json.RawMessage, required bool) types.Optional[[]types.IngredientInput] {
	raw, ok := obj[fieldIngredient]
	if !ok {
		if required {
			errs[fieldIngredient] = []string{msgRequired}
		}
		return types.Optional[[]types.IngredientInput]{}
	}
	if isNull(raw) {
		errs[fieldIngredient] = []string{msgNull}
		return types.Optional[[]types.IngredientInput]{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		errs[fieldIngredient] = []string{fmt.Sprintf("Expected a list of items but got type %q.", jsonType(raw))}
		return types.Optional[[]types.IngredientInput]{}
	}

	out := make([]types.IngredientInput, 0, len(items))
	itemErrs := make([]map[string]any, len(items))
	failed := false
	for i, item := range items {
		itemErrs[i] = map[string]any{}
		entry, ok := decodeObject(item)
		if !ok {
			itemErrs[i][nonFieldErrors] = []string{expectedObject(item)}
			failed = true
			continue
		}
		name := decodeString(itemErrs[i], entry, fieldName, models.IngredientNameMaxLength, true)
		if len(itemErrs[i]) > 0 {
			failed = true
			continue
		}
		out = append(out, types.IngredientInput{Name: name.Value})
	}
	if failed {
		errs[fieldIngredient] = itemErrs
		return types.Optional[[]types.IngredientInput]{}
	}
	return types.Some(out)
}

func decodeString(errs map[string]any, obj map[string]json.RawMessage, key string, maxLen int, required bool) types.Optional[string] {
	raw, ok := obj[key]
	if !ok {
		if required {
			errs[key] = []string{msgRequired}
		}
		return types.Optional[string]{}
	}
	if isNull(raw) {
		errs[key] = []string{msgNull}
		return types.Optional[string]{}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		errs[key] = []string{msgNotString}
		return types.Optional[string]{}
	}
	// Postgres text columns cannot store NUL.
	if strings.ContainsRune(s, '\x00') {
		errs[key] = []string{msgNullChar}
		return types.Optional[string]{}
	}
	s = strings.TrimSpace(s)

	if err := validate.Var(s, fmt.Sprintf("required,max=%d", maxLen)); err != nil {
		errs[key] = messagesFor(err)
		return types.Optional[string]{}
	}
	return types.Some(s)
}

func messagesFor(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, msgBlank)
		case "max":
			msgs = append(msgs, fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("Failed on the %q rule.", fe.Tag()))
		}
	}
	return msgs
}

func decodeObject(raw []byte) (map[string]json.RawMessage, bool) {
	if isNull(raw) {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func expectedObject(raw []byte) string {
	return fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", jsonType(raw))
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonType(raw []byte) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "invalid"
	}
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "list"
	default:
		return "object"
	}
}

// Serialize renders a recipe with its ingredients in stored order.
func Serialize(recipe *models.Recipe) types.RecipeResponse {
	ingredients := make([]types.IngredientResponse, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, types.IngredientResponse{Name: ing.Name})
	}
	return types.RecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Description: recipe.Description,
		Ingredients: ingredients,
	}
}

// SerializeMany renders a list of recipes; the result is never nil.
func SerializeMany(recipes []*models.Recipe) []types.RecipeResponse {
	out := make([]types.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, Serialize(r))
	}
	return out
}
