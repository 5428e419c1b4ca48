package controllers

import (
	"net/http"

	"bakery-service/models"
	"bakery-service/services"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	catalog services.CatalogService
}

func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// ListProducts returns available products, newest first, filtered by
// ?category= and ?search=.
func (cc *CatalogController) ListProducts(ctx *gin.Context) {
	products, svcErr := cc.catalog.ListAvailable(ctx.Request.Context(), services.CatalogFilter{
		Category: ctx.Query("category"),
		Search:   ctx.Query("search"),
	})
	if svcErr != nil {
		respondListError(ctx, svcErr, "products", gin.H{"count": 0})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": productViews(products), "count": len(products)})
}

func (cc *CatalogController) GetProduct(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	p, svcErr := cc.catalog.GetAvailableProduct(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": ProductView{Product: *p, DisplayPrice: models.FormatPrice(p.Price)}})
}
