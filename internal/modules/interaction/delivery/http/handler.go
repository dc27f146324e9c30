package http

import (
	"net/http"

	"anoa.com/sanggarseni/internal/entity"
	interactionDto "anoa.com/sanggarseni/internal/modules/interaction/dto"
	interactionService "anoa.com/sanggarseni/internal/modules/interaction/service"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/response"
	"anoa.com/sanggarseni/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InteractionHandler struct {
	service interactionService.InteractionService
}

func NewInteractionHandler(service interactionService.InteractionService) *InteractionHandler {
	return &InteractionHandler{service: service}
}

func (h *InteractionHandler) ToggleHeart(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req interactionDto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	active, err := h.service.ToggleHeart(c.Request.Context(), userID, req.PostID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, interactionDto.ToggleResponse{Active: active})
}

func (h *InteractionHandler) TogglePraise(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req interactionDto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	active, err := h.service.TogglePraise(c.Request.Context(), userID, req.PostID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, interactionDto.ToggleResponse{Active: active})
}

func (h *InteractionHandler) GiveTrophy(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req interactionDto.TrophyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.GiveTrophy(c.Request.Context(), userID, req.PostID, req.Tier); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "trophy given"})
}

func (h *InteractionHandler) GiveGalleryAward(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req interactionDto.AwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.GiveGalleryAward(c.Request.Context(), userID, req.GalleryID, req.Tier); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "award given"})
}

func (h *InteractionHandler) AddComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req interactionDto.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), userID, req.ItemKind, req.ItemID, req.Content, req.IsCritiqueReply)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *InteractionHandler) DeleteComment(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (h *InteractionHandler) AddCritique(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req interactionDto.CritiqueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	critique, err := h.service.AddCritique(c.Request.Context(), userID, req.PostID, req.Content, req.Impression)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, critique)
}

// GetItemCounts serves the raw interaction counters for a post or gallery.
func (h *InteractionHandler) GetItemCounts(c *gin.Context) {
	itemKind := c.Param("kind")
	if itemKind != entity.ItemKindPost && itemKind != entity.ItemKindGallery {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	counts, err := h.service.GetItemCounts(c.Request.Context(), itemKind, itemID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"counts": counts})
}
