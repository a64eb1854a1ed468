package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/internal/service"
)

type recipeCreateRequest struct {
	Name      string `json:"name" binding:"required"`
	BatchSize int    `json:"batch_size" binding:"required"`
}

type recipeUpdateRequest struct {
	BatchSize   int                       `json:"batch_size" binding:"required"`
	Ingredients []service.RecipeLineInput `json:"ingredients"`
}

// GetRecipes 返回整个菜谱文档。
func (a *API) GetRecipes(c *gin.Context) {
	doc, err := a.recipes.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": doc, "notices": drainNotices(c)})
}

// CreateRecipe 新建一个空菜谱。
func (a *API) CreateRecipe(c *gin.Context) {
	var req recipeCreateRequest
	if !bindJSON(c, &req, "recipe name and batch size are required") {
		return
	}

	if err := a.recipes.Create(c.Request.Context(), req.Name, req.BatchSize); err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyRecipeName):
			respondError(c, http.StatusBadRequest, "recipe name is required")
		case errors.Is(err, service.ErrInvalidBatchSize):
			respondError(c, http.StatusBadRequest, "batch size must be at least 1")
		case errors.Is(err, service.ErrRecipeExists):
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Recipe named %s already exists.", req.Name))
		default:
			respondError(c, http.StatusInternalServerError, "failed to save recipes")
		}
		return
	}

	addNotice(c, fmt.Sprintf("Successfully created %s", req.Name))
	c.JSON(http.StatusCreated, gin.H{"status": "ok"})
}

// UpdateRecipe 整体替换一个菜谱的配料与批量。
func (a *API) UpdateRecipe(c *gin.Context) {
	name := c.Param("name")

	var req recipeUpdateRequest
	if !bindJSON(c, &req, "batch size and ingredient lines are required") {
		return
	}

	if err := a.recipes.Update(c.Request.Context(), name, req.BatchSize, req.Ingredients); err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			respondError(c, http.StatusNotFound, "recipe not found")
		case errors.Is(err, service.ErrInvalidBatchSize):
			respondError(c, http.StatusBadRequest, "batch size must be at least 1")
		case errors.Is(err, service.ErrBlankRecipeField):
			respondError(c, http.StatusBadRequest, "Please fill in all required fields")
		case errors.Is(err, service.ErrUnknownIngredient):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save recipes")
		}
		return
	}

	addNotice(c, fmt.Sprintf("Saved Changes to %s", name))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteRecipe 从文档中移除一个菜谱。
func (a *API) DeleteRecipe(c *gin.Context) {
	name := c.Param("name")

	if err := a.recipes.Delete(c.Request.Context(), name); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			respondError(c, http.StatusNotFound, "recipe not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to save recipes")
		return
	}

	addNotice(c, fmt.Sprintf("Deleted %s", name))
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
