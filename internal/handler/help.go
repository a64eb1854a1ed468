package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// helpMarkdown 是价格录入页使用说明的原文。
const helpMarkdown = `## How To Use This Tool

First, select the ingredient, then enter the cost of the ingredient and the
unit it is sold in (whether it's sold by the pound, the gallon, etc). Finally
enter the quantity and hit save. The order you enter these things in doesn't
matter.

You don't have to calculate the cost per unit or anything. That's automated.

Don't select **unit** in the unit field for things that are not used "by
unit". For example, "Forminha" isn't used by weight, one is used every time.
If you buy 1000 at a time, you would enter the quantity as 1000, and "unit"
would be the unit. However, flour is not by unit, so enter the number of
pounds/kg/etc purchased.

> When you enter a price you should see it removed from the missing prices
> and added to current prices immediately. If the tool isn't showing the
> price you entered, it didn't save the price. Stop entering prices and let
> the admin know.
`

var helpPolicy = bluemonday.UGCPolicy()

// ShowHelp 渲染使用说明（markdown → 消毒后的 HTML）。
func (a *API) ShowHelp(c *gin.Context) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(helpMarkdown), &buf); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to render help")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", helpPolicy.SanitizeBytes(buf.Bytes()))
}
