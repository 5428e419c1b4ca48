package controllers

import (
	"net/http"

	"bakery-service/models"
	"bakery-service/repository"
	"bakery-service/services"

	"github.com/gin-gonic/gin"
)

// AdminController serves the staff dashboard. Routes are expected behind
// middleware.AdminAuth.
type AdminController struct {
	catalog   services.CatalogService
	orders    services.OrderService
	messages  services.MessageService
	dashboard services.DashboardService
	images    services.ImageService
}

func NewAdminController(
	catalog services.CatalogService,
	orders services.OrderService,
	messages services.MessageService,
	dashboard services.DashboardService,
	images services.ImageService,
) *AdminController {
	return &AdminController{catalog: catalog, orders: orders, messages: messages, dashboard: dashboard, images: images}
}

func (ac *AdminController) Dashboard(ctx *gin.Context) {
	stats, svcErr := ac.dashboard.Stats(ctx.Request.Context())
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"stats":                   stats,
		"display_monthly_revenue": models.FormatPrice(stats.MonthlyRevenue),
	})
}

// ---- products ----

func (ac *AdminController) ListProducts(ctx *gin.Context) {
	products, svcErr := ac.catalog.ListAll(ctx.Request.Context())
	if svcErr != nil {
		respondListError(ctx, svcErr, "products", gin.H{"count": 0})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": productViews(products), "count": len(products)})
}

func (ac *AdminController) CreateProduct(ctx *gin.Context) {
	var req models.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	p, svcErr := ac.catalog.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": ProductView{Product: *p, DisplayPrice: models.FormatPrice(p.Price)}})
}

func (ac *AdminController) UpdateProduct(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	p, svcErr := ac.catalog.Update(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": ProductView{Product: *p, DisplayPrice: models.FormatPrice(p.Price)}})
}

func (ac *AdminController) DeleteProduct(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := ac.catalog.Delete(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type imageUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignProductImage hands out an S3 upload URL; the returned image_url is
// then saved on the product through CreateProduct or UpdateProduct.
func (ac *AdminController) PresignProductImage(ctx *gin.Context) {
	if ac.images == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are not configured"})
		return
	}
	var req imageUploadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	upload, svcErr := ac.images.PresignUpload(ctx.Request.Context(), req.Filename, req.ContentType)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, upload)
}

// ---- orders ----

func (ac *AdminController) ListOrders(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	orders, total, svcErr := ac.orders.List(ctx.Request.Context(), repository.OrderQuery{
		Status: models.OrderStatus(ctx.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if svcErr != nil {
		respondListError(ctx, svcErr, "orders", gin.H{"total": 0, "page": page, "limit": limit})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page, "limit": limit})
}

func (ac *AdminController) GetOrder(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	order, svcErr := ac.orders.Get(ctx.Request.Context(), id)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

func (ac *AdminController) UpdateOrderStatus(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	order, svcErr := ac.orders.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"order": order})
}

// ---- messages ----

func (ac *AdminController) ListMessages(ctx *gin.Context) {
	page, limit := parsePaginationParams(ctx)
	msgs, total, svcErr := ac.messages.List(ctx.Request.Context(), repository.MessageQuery{
		Status: models.MessageStatus(ctx.Query("status")),
		Page:   page,
		Limit:  limit,
	})
	if svcErr != nil {
		respondListError(ctx, svcErr, "messages", gin.H{"total": 0, "page": page, "limit": limit})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"messages": msgs, "total": total, "page": page, "limit": limit})
}

func (ac *AdminController) UpdateMessageStatus(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	msg, svcErr := ac.messages.UpdateStatus(ctx.Request.Context(), id, req.Status)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": msg})
}
