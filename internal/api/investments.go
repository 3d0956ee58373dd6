package api

import (
	"net/http" // HTTP status codes

	"invest_platform/internal/service" // Use cases

	"github.com/gin-gonic/gin" // Gin web framework
)

// CategoryResponse is a category key with its display label
type CategoryResponse struct {
	Value string `json:"value"` // Category key
	Label string `json:"label"` // Human readable name
}

// ListInvestmentsHandler lists the offerings, optionally filtered by ?categoria=
func ListInvestmentsHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offerings, err := catalog.ListOfferings(c.Request.Context(), c.Query("categoria"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newInvestmentList(offerings))
	}
}

// CategoriesHandler lists every instrument category
func CategoriesHandler(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := catalog.Categories()
		resp := make([]CategoryResponse, len(categories))
		for i, cat := range categories {
			resp[i] = CategoryResponse{Value: string(cat.Value), Label: cat.Label}
		}
		c.JSON(http.StatusOK, resp)
	}
}
