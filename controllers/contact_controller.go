package controllers

import (
	"net/http"

	"bakery-service/models"
	"bakery-service/services"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	messages services.MessageService
}

func NewContactController(messages services.MessageService) *ContactController {
	return &ContactController{messages: messages}
}

func (cc *ContactController) Submit(ctx *gin.Context) {
	var req models.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid request", err)
		return
	}
	msg, svcErr := cc.messages.Submit(ctx.Request.Context(), &req)
	if svcErr != nil {
		respondError(ctx, svcErr)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Thank you! We will get back to you soon.",
		"id":      msg.ID,
	})
}
