package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/internal/db"
	"github.com/kitchenlog/internal/service"
)

// maxImportSize 限制上传的目录文件大小。
const maxImportSize = 1 << 20

type ingredientRequest struct {
	Name   string `json:"name" binding:"required"`
	UnitOK bool   `json:"unit_ok"`
}

func ingredientJSON(ing db.IngredientVersion) gin.H {
	return gin.H{
		"id":        ing.IngredientID,
		"name":      ing.Name,
		"unit_ok":   ing.UnitOK,
		"timestamp": ing.Timestamp,
	}
}

// GetIngredients 返回当前食材目录。
func (a *API) GetIngredients(c *gin.Context) {
	list, err := a.catalog.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load ingredients")
		return
	}

	response := make([]gin.H, 0, len(list))
	for _, ing := range list {
		response = append(response, ingredientJSON(ing))
	}

	c.JSON(http.StatusOK, gin.H{"ingredients": response, "notices": drainNotices(c)})
}

// CreateIngredient 新建食材。
func (a *API) CreateIngredient(c *gin.Context) {
	var req ingredientRequest
	if !bindJSON(c, &req, "ingredient name is required") {
		return
	}

	created, err := a.catalog.Create(req.Name, req.UnitOK)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyName):
			respondError(c, http.StatusBadRequest, "ingredient name is required")
		case errors.Is(err, service.ErrDuplicateName):
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Ingredient named %q already exists.", req.Name))
		default:
			respondError(c, http.StatusInternalServerError, "failed to create ingredient")
		}
		return
	}

	addNotice(c, fmt.Sprintf("Added %s", created.Name))
	c.JSON(http.StatusCreated, ingredientJSON(*created))
}

// RenameIngredient 为既有食材追加一条新版本（改名或调整 unit_ok）。
func (a *API) RenameIngredient(c *gin.Context) {
	var req ingredientRequest
	if !bindJSON(c, &req, "ingredient name is required") {
		return
	}

	renamed, err := a.catalog.Rename(c.Param("id"), req.Name, req.UnitOK)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyName):
			respondError(c, http.StatusBadRequest, "New Name can't be blank.")
		case errors.Is(err, service.ErrDuplicateName):
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Ingredient named %q already exists.", req.Name))
		case errors.Is(err, service.ErrIngredientNotFound):
			respondError(c, http.StatusNotFound, "ingredient not found")
		default:
			respondError(c, http.StatusInternalServerError, "failed to update ingredient")
		}
		return
	}

	addNotice(c, fmt.Sprintf("Updated %s", renamed.Name))
	c.JSON(http.StatusOK, ingredientJSON(*renamed))
}

// ExportIngredients 把当前目录导出为可下载的 JSON 文件。
func (a *API) ExportIngredients(c *gin.Context) {
	list, err := a.catalog.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load ingredients")
		return
	}

	export := make([]service.IngredientImport, 0, len(list))
	for _, ing := range list {
		export = append(export, service.IngredientImport{Name: ing.Name, UnitOK: ing.UnitOK})
	}

	c.Header("Content-Disposition", `attachment; filename="ingredients.json"`)
	c.JSON(http.StatusOK, export)
}

// ImportIngredients 处理目录 JSON 文件上传。
func (a *API) ImportIngredients(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "upload a JSON file of ingredients")
		return
	}
	if file.Size > maxImportSize {
		respondError(c, http.StatusBadRequest, "import file is too large")
		return
	}

	opened, err := file.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	defer opened.Close()

	body, err := io.ReadAll(io.LimitReader(opened, maxImportSize))
	if err != nil {
		respondError(c, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	var items []service.IngredientImport
	if err := json.Unmarshal(body, &items); err != nil {
		respondError(c, http.StatusBadRequest, "import file is not valid ingredient JSON")
		return
	}

	created, skipped, err := a.catalog.Import(items)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "import failed")
		return
	}

	addNotice(c, fmt.Sprintf("Imported %d ingredients", created))
	c.JSON(http.StatusOK, gin.H{"imported": created, "skipped": skipped})
}
