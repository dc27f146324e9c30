package http

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	postDto "anoa.com/sanggarseni/internal/modules/post/dto"
	postService "anoa.com/sanggarseni/internal/modules/post/service"
	"anoa.com/sanggarseni/pkg/apperror"
	"anoa.com/sanggarseni/pkg/response"
	"anoa.com/sanggarseni/pkg/validator"
	"anoa.com/sanggarseni/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxArtworkSize = 10 << 20 // 10 MB

type PostHandler struct {
	service postService.PostService
	storage storage.ArtworkStorage
}

func NewPostHandler(service postService.PostService, storage storage.ArtworkStorage) *PostHandler {
	return &PostHandler{service: service, storage: storage}
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	post, err := h.service.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	post, err := h.service.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	var req postDto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	post, err := h.service.UpdatePost(c.Request.Context(), userID, postID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// UploadArtwork stores an image for use in a post and returns its URL.
func (h *PostHandler) UploadArtwork(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	if h.storage == nil {
		response.ResponseError(c, apperror.ErrInternal)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.ResponseError(c, apperror.ErrInvalidInput)
		return
	}
	if fileHeader.Size > maxArtworkSize {
		response.ResponseError(c, fmt.Errorf("%w: file exceeds 10MB", apperror.ErrBadRequest))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ResponseError(c, apperror.ErrInternal)
		return
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	fileName := fmt.Sprintf("%s_%d%s", userID.String(), time.Now().UnixNano(), ext)

	url, err := h.storage.UploadArtwork(c.Request.Context(), file, "artworks", fileName)
	if err != nil {
		response.ResponseError(c, apperror.ErrInternal)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": url})
}
