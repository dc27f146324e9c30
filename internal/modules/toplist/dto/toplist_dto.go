package dto

import (
	"github.com/google/uuid"
)

type TopListFilter struct {
	Limit    int    `form:"limit"`
	PostType string `form:"post_type" binding:"omitempty,oneof=default image video novel"`
}

// TopItemResponse is one leaderboard entry, serialized to a plain record so
// the cached payload carries no ORM baggage.
type TopItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	AuthorUsername string    `json:"author_username"`
	PostType       string    `json:"post_type,omitempty"`
	Score          float64   `json:"score"`
	CreatedAt      string    `json:"created_at"`
}
