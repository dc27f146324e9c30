package http

import (
	"net/http"

	fellowService "anoa.com/sanggarseni/internal/modules/fellow/service"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FellowHandler struct {
	service fellowService.FellowService
}

func NewFellowHandler(service fellowService.FellowService) *FellowHandler {
	return &FellowHandler{service: service}
}

func (h *FellowHandler) RequestFellow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.RequestFellow(c.Request.Context(), userID, targetID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "fellow request sent"})
}

func (h *FellowHandler) AcceptFellow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requesterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.AcceptFellow(c.Request.Context(), userID, requesterID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fellow request accepted"})
}

func (h *FellowHandler) BlockFellow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	requesterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.BlockFellow(c.Request.Context(), userID, requesterID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fellow blocked"})
}

func (h *FellowHandler) RemoveFellow(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fellowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.RemoveFellow(c.Request.Context(), userID, fellowID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "fellow removed"})
}

func (h *FellowHandler) ListFellows(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	fellows, err := h.service.ListFellows(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fellows": fellows})
}

func (h *FellowHandler) ListPending(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	pending, err := h.service.ListPending(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": pending})
}
