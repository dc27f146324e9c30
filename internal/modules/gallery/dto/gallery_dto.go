package dto

import (
	commonDto "anoa.com/sanggarseni/pkg/dto"
	"github.com/google/uuid"
)

type CreateGalleryRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Description  string     `json:"description"`
	Scope        string     `json:"scope" binding:"omitempty,oneof=public collective"`
	CollectiveID *uuid.UUID `json:"collective_id"`
	CoverURL     *string    `json:"cover_url"`
}

type UpdateGalleryRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
}

type GalleryResponse struct {
	ID           uuid.UUID                `json:"id"`
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	Scope        string                   `json:"scope"`
	CollectiveID *uuid.UUID               `json:"collective_id,omitempty"`
	CoverURL     *string                  `json:"cover_url,omitempty"`
	Author       commonDto.AuthorResponse `json:"author"`
	Counts       map[string]int64         `json:"counts"`
	CreatedAt    string                   `json:"created_at"`
}
