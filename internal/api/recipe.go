package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipebook/backend/internal/middleware"
	"github.com/pageza/recipebook/backend/internal/serializer"
	"github.com/pageza/recipebook/backend/internal/service"
)

// RecipeHandler serves the /recipes/ resource
type RecipeHandler struct {
	recipeService service.IRecipeService
}

func NewRecipeHandler(recipeService service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeService.ListRecipes(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, serializer.SerializeMany(recipes))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, serializer.Serialize(recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	input, err := serializer.Decode(body, false)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Serialize(recipe))
}

// UpdateRecipe handles PATCH: omitted fields keep their stored value.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	h.update(c, true)
}

// ReplaceRecipe handles PUT: every field must be supplied.
func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	h.update(c, false)
}

func (h *RecipeHandler) update(c *gin.Context, partial bool) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	// Unknown ids are reported before payload errors.
	if _, err := h.recipeService.GetRecipe(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	body, ok := readBody(c)
	if !ok {
		return
	}
	input, err := serializer.Decode(body, partial)
	if err != nil {
		_ = c.Error(err)
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), id, input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, serializer.Serialize(recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// recipeID parses the :id path parameter. Anything that is not a positive
// integer cannot name a recipe and is reported as not found.
func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		_ = c.Error(service.ErrRecipeNotFound)
		return 0, false
	}
	return uint(id), true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		_ = c.Error(middleware.ErrBadRequest)
		return nil, false
	}
	return body, true
}
