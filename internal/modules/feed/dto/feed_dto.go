package dto

import (
	commonDto "anoa.com/sanggarseni/pkg/dto"
	"github.com/google/uuid"
)

type FeedFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=50"`
}

// ViewerFlags records what the viewer has already given this item.
type ViewerFlags struct {
	Hearted          bool     `json:"hearted"`
	Praised          bool     `json:"praised"`
	TrophyTiersGiven []string `json:"trophy_tiers_given,omitempty"`
}

type FeedItemResponse struct {
	ID        uuid.UUID                `json:"id"`
	Title     string                   `json:"title"`
	Content   string                   `json:"content"`
	PostType  string                   `json:"post_type"`
	ImageURL  *string                  `json:"image_url,omitempty"`
	Author    commonDto.AuthorResponse `json:"author"`
	Score     float64                  `json:"score"`
	Viewer    ViewerFlags              `json:"viewer"`
	CreatedAt string                   `json:"created_at"`
}

type FeedPage struct {
	Data []FeedItemResponse       `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}
