package http

import (
	"net/http"

	"anoa.com/sanggarseni/internal/entity"
	toplistDto "anoa.com/sanggarseni/internal/modules/toplist/dto"
	toplistService "anoa.com/sanggarseni/internal/modules/toplist/service"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/response"
	"anoa.com/sanggarseni/pkg/validator"
	"github.com/gin-gonic/gin"
)

type TopListHandler struct {
	service toplistService.Service
}

func NewTopListHandler(service toplistService.Service) *TopListHandler {
	return &TopListHandler{service: service}
}

func (h *TopListHandler) GetTopPosts(c *gin.Context) {
	var filter toplistDto.TopListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	items, err := h.service.GetCachedTop(c.Request.Context(), entity.ItemKindPost, filter.Limit, filter.PostType)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (h *TopListHandler) GetTopGalleries(c *gin.Context) {
	var filter toplistDto.TopListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	items, err := h.service.GetCachedTop(c.Request.Context(), entity.ItemKindGallery, filter.Limit, "")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// RegenerateTopList is the operator trigger. Idempotent; last writer wins.
func (h *TopListHandler) RegenerateTopList(c *gin.Context) {
	var req struct {
		ItemKind string `json:"item_kind" binding:"required,oneof=post gallery"`
		Limit    int    `json:"limit"`
		PostType string `json:"post_type" binding:"omitempty,oneof=default image video novel"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.Generate(c.Request.Context(), req.ItemKind, req.Limit, req.PostType); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "leaderboard regenerated"})
}
