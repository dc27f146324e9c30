package http

import (
	"net/http"

	galleryDto "anoa.com/sanggarseni/internal/modules/gallery/dto"
	galleryService "anoa.com/sanggarseni/internal/modules/gallery/service"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/response"
	"anoa.com/sanggarseni/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GalleryHandler struct {
	service galleryService.GalleryService
}

func NewGalleryHandler(service galleryService.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

func (h *GalleryHandler) CreateGallery(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req galleryDto.CreateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	gallery, err := h.service.CreateGallery(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gallery)
}

func (h *GalleryHandler) GetGallery(c *gin.Context) {
	galleryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	gallery, err := h.service.GetGallery(c.Request.Context(), galleryID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gallery)
}

func (h *GalleryHandler) UpdateGallery(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	galleryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req galleryDto.UpdateGalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	gallery, err := h.service.UpdateGallery(c.Request.Context(), userID, galleryID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gallery)
}

func (h *GalleryHandler) DeleteGallery(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	galleryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.DeleteGallery(c.Request.Context(), userID, galleryID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "gallery deleted"})
}
