package controllers

import (
	"net/http"

	"bakery-service/cart"
	"bakery-service/middleware"
	"bakery-service/models"
	"bakery-service/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const IdempotencyHeader = "Idempotency-Key"

type CartController struct {
	carts    services.CartService
	checkout services.CheckoutService
}

func NewCartController(carts services.CartService, checkout services.CheckoutService) *CartController {
	return &CartController{carts: carts, checkout: checkout}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=999"`
}

func (cc *CartController) GetCart(ctx *gin.Context) {
	c, svcErr := cc.carts.Get(ctx.Request.Context(), middleware.GetSessionID(ctx))
	respondCart(ctx, c, svcErr)
}

func (cc *CartController) AddItem(ctx *gin.Context) {
	var req addItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		badRequest(ctx, "Invalid product_id format", nil)
		return
	}
	c, svcErr := cc.carts.AddItem(ctx.Request.Context(), middleware.GetSessionID(ctx), productID)
	respondCart(ctx, c, svcErr)
}

// UpdateItem sets a line's quantity; zero or less removes the line.
func (cc *CartController) UpdateItem(ctx *gin.Context) {
	productID, ok := uuidParam(ctx, "product_id")
	if !ok {
		return
	}
	var req setQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	c, svcErr := cc.carts.SetQuantity(ctx.Request.Context(), middleware.GetSessionID(ctx), productID, *req.Quantity)
	respondCart(ctx, c, svcErr)
}

func (cc *CartController) RemoveItem(ctx *gin.Context) {
	productID, ok := uuidParam(ctx, "product_id")
	if !ok {
		return
	}
	c, svcErr := cc.carts.RemoveItem(ctx.Request.Context(), middleware.GetSessionID(ctx), productID)
	respondCart(ctx, c, svcErr)
}

func (cc *CartController) ClearCart(ctx *gin.Context) {
	c, svcErr := cc.carts.Clear(ctx.Request.Context(), middleware.GetSessionID(ctx))
	respondCart(ctx, c, svcErr)
}

// Checkout places an order from the session cart. A replay of a known
// Idempotency-Key returns the original order with 200.
func (cc *CartController) Checkout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}

	res, svcErr := cc.checkout.SubmitSessionCheckout(
		ctx.Request.Context(),
		middleware.GetSessionID(ctx),
		ctx.GetHeader(IdempotencyHeader),
		&req,
	)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}

	status := http.StatusCreated
	if res.Outcome == services.CheckoutReplayed {
		status = http.StatusOK
	}
	ctx.JSON(status, gin.H{
		"order":         res.Order,
		"display_total": models.FormatPrice(res.Order.TotalAmount),
		"replayed":      res.Outcome == services.CheckoutReplayed,
	})
}

func respondCart(ctx *gin.Context, c *cart.Cart, svcErr *services.ServiceError) {
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"cart": services.NewCartView(c)})
}
