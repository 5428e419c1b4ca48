package controllers

import (
	"net/http"

	"bakery-service/models"
	"bakery-service/services"

	"github.com/gin-gonic/gin"
)

// OfferingController serves the bakery's advertised services: the public
// listing and the staff CRUD behind middleware.AdminAuth.
type OfferingController struct {
	offerings services.OfferingService
}

func NewOfferingController(offerings services.OfferingService) *OfferingController {
	return &OfferingController{offerings: offerings}
}

// ListActive returns active offerings in display order.
func (oc *OfferingController) ListActive(ctx *gin.Context) {
	offerings, svcErr := oc.offerings.ListActive(ctx.Request.Context())
	if svcErr != nil {
		respondListError(ctx, svcErr, "services", gin.H{"count": 0})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"services": nonNil(offerings), "count": len(offerings)})
}

func (oc *OfferingController) ListAll(ctx *gin.Context) {
	offerings, svcErr := oc.offerings.ListAll(ctx.Request.Context())
	if svcErr != nil {
		respondListError(ctx, svcErr, "services", gin.H{"count": 0})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"services": nonNil(offerings), "count": len(offerings)})
}

func (oc *OfferingController) Create(ctx *gin.Context) {
	var req models.ServiceOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	o, svcErr := oc.offerings.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"service": o})
}

func (oc *OfferingController) Update(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	var req models.ServiceOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	o, svcErr := oc.offerings.Update(ctx.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"service": o})
}

func (oc *OfferingController) Delete(ctx *gin.Context) {
	id, ok := uuidParam(ctx, "id")
	if !ok {
		return
	}
	if svcErr := oc.offerings.Delete(ctx.Request.Context(), id); svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func nonNil(offerings []models.ServiceOffering) []models.ServiceOffering {
	if offerings == nil {
		return []models.ServiceOffering{}
	}
	return offerings
}
