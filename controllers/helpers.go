package controllers

import (
	"net/http"
	"strconv"

	"bakery-service/models"
	"bakery-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes a ServiceError. Partial checkouts carry the order
// reference; failed status transitions carry the status still in effect.
func respondError(ctx *gin.Context, svcErr *services.ServiceError) {
	body := gin.H{"error": svcErr.Message}
	if svcErr.Kind == services.KindPartialCheckout {
		body["code"] = string(services.KindPartialCheckout)
		body["order_id"] = svcErr.OrderID
	}
	if svcErr.PreviousStatus != "" {
		body["previous_status"] = svcErr.PreviousStatus
	}
	if svcErr.Err != nil {
		_ = ctx.Error(svcErr)
	}
	ctx.JSON(svcErr.StatusCode, body)
}

// respondListError reports a failed list fetch as an empty list with an error
// indicator, so the storefront can render "nothing to show" plus a banner.
func respondListError(ctx *gin.Context, svcErr *services.ServiceError, listKey string, extra gin.H) {
	body := gin.H{listKey: []interface{}{}, "error": svcErr.Message}
	for k, v := range extra {
		body[k] = v
	}
	if svcErr.Err != nil {
		_ = ctx.Error(svcErr)
	}
	ctx.JSON(svcErr.StatusCode, body)
}

func badRequest(ctx *gin.Context, msg string, err error) {
	body := gin.H{"error": msg}
	if err != nil {
		body["details"] = err.Error()
	}
	ctx.JSON(http.StatusBadRequest, body)
}

func uuidParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		badRequest(ctx, "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}

// parsePaginationParams reads page and limit, defaulting to 1 and 20 and
// capping limit at 100.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const maxLimit = 100
	page, limit := 1, 20
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "20")); err == nil && l > 0 {
		if l > maxLimit {
			l = maxLimit
		}
		limit = l
	}
	return page, limit
}

// ProductView adds the formatted price to a product.
type ProductView struct {
	models.Product
	DisplayPrice string `json:"display_price"`
}

func productViews(products []models.Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, ProductView{Product: p, DisplayPrice: models.FormatPrice(p.Price)})
	}
	return out
}
