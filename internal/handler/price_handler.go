package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/internal/db"
	"github.com/kitchenlog/internal/service"
)

type priceRequest struct {
	IngredientID string  `json:"ingredient_id" binding:"required"`
	Price        string  `json:"price" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	Quantity     float64 `json:"quantity"`
}

func priceJSON(record db.PriceRecord) gin.H {
	return gin.H{
		"id":              record.ID,
		"ingredient_id":   record.IngredientID,
		"ingredient_name": record.IngredientName,
		"price":           record.Price,
		"unit":            record.Unit,
		"quantity":        record.Quantity,
		"timestamp":       record.Timestamp,
	}
}

// GetPrices 返回每个食材的当前价格。
func (a *API) GetPrices(c *gin.Context) {
	current, err := a.prices.Current()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load prices")
		return
	}

	response := make([]gin.H, 0, len(current))
	for _, record := range current {
		response = append(response, priceJSON(record))
	}

	c.JSON(http.StatusOK, gin.H{
		"prices":  response,
		"units":   service.AvailableUnits,
		"notices": drainNotices(c),
	})
}

// GetPriceStatus 返回缺失与过期价格的报表。
func (a *API) GetPriceStatus(c *gin.Context) {
	missing, err := a.prices.Missing()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load price status")
		return
	}
	stale, err := a.prices.Stale()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to load price status")
		return
	}

	missingJSON := make([]gin.H, 0, len(missing))
	for _, ing := range missing {
		missingJSON = append(missingJSON, ingredientJSON(ing))
	}
	staleJSON := make([]gin.H, 0, len(stale))
	for _, record := range stale {
		staleJSON = append(staleJSON, priceJSON(record))
	}

	c.JSON(http.StatusOK, gin.H{"missing": missingJSON, "stale": staleJSON})
}

// CreatePrice 校验并追加一条价格观测。
func (a *API) CreatePrice(c *gin.Context) {
	var req priceRequest
	if !bindJSON(c, &req, "ingredient, cost, unit and quantity are required") {
		return
	}

	record, err := a.prices.Record(req.IngredientID, req.Price, req.Unit, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIngredientNotFound):
			respondError(c, http.StatusNotFound, "ingredient not found")
		case errors.Is(err, service.ErrInvalidPrice),
			errors.Is(err, service.ErrTooManyDecimals),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidUnit),
			errors.Is(err, service.ErrUnitNotAllowed):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "failed to save price")
		}
		return
	}

	addNotice(c, fmt.Sprintf("Added %s", record.IngredientName))
	c.JSON(http.StatusCreated, priceJSON(*record))
}
