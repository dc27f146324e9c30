package http

import (
	"net/http"

	feedDto "anoa.com/sanggarseni/internal/modules/feed/dto"
	feedService "anoa.com/sanggarseni/internal/modules/feed/service"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/response"
	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	service feedService.Service
}

func NewFeedHandler(service feedService.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

// GetFeed serves the personalized feed, or the anonymous one when no user is
// authenticated.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	var filter feedDto.FeedFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	viewerID := response.GetOptionalUserID(c)

	page, err := h.service.ComputeFeed(c.Request.Context(), viewerID, filter.Page, filter.PageSize)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
