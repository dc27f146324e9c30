package dto

import (
	commonDto "anoa.com/sanggarseni/pkg/dto"
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Title     string     `json:"title" binding:"required,max=200"`
	Content   string     `json:"content" binding:"required"`
	PostType  string     `json:"post_type" binding:"omitempty,oneof=default image video novel"`
	ChannelID *uuid.UUID `json:"channel_id"`
	ImageURL  *string    `json:"image_url"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content"`
}

type PostResponse struct {
	ID        uuid.UUID                `json:"id"`
	Title     string                   `json:"title"`
	Content   string                   `json:"content"`
	PostType  string                   `json:"post_type"`
	ChannelID *uuid.UUID               `json:"channel_id,omitempty"`
	ImageURL  *string                  `json:"image_url,omitempty"`
	Author    commonDto.AuthorResponse `json:"author"`
	Counts    map[string]int64         `json:"counts"`
	CreatedAt string                   `json:"created_at"`
}
