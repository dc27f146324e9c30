package http

import (
	"net/http"
	"strconv"

	collectiveDto "anoa.com/sanggarseni/internal/modules/collective/dto"
	collectiveService "anoa.com/sanggarseni/internal/modules/collective/service"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/response"
	"anoa.com/sanggarseni/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CollectiveHandler struct {
	service collectiveService.CollectiveService
}

func NewCollectiveHandler(service collectiveService.CollectiveService) *CollectiveHandler {
	return &CollectiveHandler{service: service}
}

func (h *CollectiveHandler) CreateCollective(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req collectiveDto.CreateCollectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	collective, err := h.service.CreateCollective(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, collective)
}

func (h *CollectiveHandler) GetCollective(c *gin.Context) {
	collective, err := h.service.GetCollective(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, collective)
}

func (h *CollectiveHandler) ListCollectives(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	collectives, err := h.service.ListCollectives(c.Request.Context(), limit, offset)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"collectives": collectives})
}

func (h *CollectiveHandler) CreateChannel(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	collectiveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req collectiveDto.CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	channel, err := h.service.CreateChannel(c.Request.Context(), userID, collectiveID, req.Name)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, channel)
}

func (h *CollectiveHandler) ListChannels(c *gin.Context) {
	channels, err := h.service.ListChannels(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

func (h *CollectiveHandler) JoinCollective(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	collectiveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.JoinCollective(c.Request.Context(), userID, collectiveID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "joined collective"})
}

func (h *CollectiveHandler) LeaveCollective(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	collectiveID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.LeaveCollective(c.Request.Context(), userID, collectiveID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left collective"})
}
