package dto

import "github.com/google/uuid"

type ToggleRequest struct {
	PostID uuid.UUID `json:"post_id" binding:"required"`
}

type TrophyRequest struct {
	PostID uuid.UUID `json:"post_id" binding:"required"`
	Tier   string    `json:"tier" binding:"required,oneof=bronze golden diamond"`
}

type AwardRequest struct {
	GalleryID uuid.UUID `json:"gallery_id" binding:"required"`
	Tier      string    `json:"tier" binding:"required,oneof=bronze golden diamond"`
}

type CommentRequest struct {
	ItemID          uuid.UUID `json:"item_id" binding:"required"`
	ItemKind        string    `json:"item_kind" binding:"required,oneof=post gallery"`
	Content         string    `json:"content" binding:"required,max=2000"`
	IsCritiqueReply bool      `json:"is_critique_reply"`
}

type CritiqueRequest struct {
	PostID     uuid.UUID `json:"post_id" binding:"required"`
	Content    string    `json:"content" binding:"required,max=5000"`
	Impression string    `json:"impression" binding:"required,oneof=positive negative neutral"`
}

type ToggleResponse struct {
	Active bool `json:"active"`
}
