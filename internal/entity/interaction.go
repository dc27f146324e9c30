package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Trophy and gallery-award tiers share one three-step scheme.
const (
	TierBronze  = "bronze"
	TierGolden  = "golden"
	TierDiamond = "diamond"
)

// Fixed point values per tier, also the Brush Drips price of giving one.
const (
	TierBronzePoints  = 10
	TierGoldenPoints  = 15
	TierDiamondPoints = 20
)

// TierPoints returns the point value for a trophy/award tier, 0 for unknown tiers.
func TierPoints(tier string) int {
	switch tier {
	case TierBronze:
		return TierBronzePoints
	case TierGolden:
		return TierGoldenPoints
	case TierDiamond:
		return TierDiamondPoints
	default:
		return 0
	}
}

// Heart is a one-per-(actor, post) like. Hard-deletable: un-hearting removes
// the row. The composite unique index makes concurrent duplicate creation a
// storage-level conflict instead of a check-then-insert race.
type Heart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index:idx_heart_unique,unique,priority:1" json:"post_id"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index:idx_heart_unique,unique,priority:2" json:"actor_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (h *Heart) BeforeCreate(tx *gorm.DB) (err error) {
	if h.ID == uuid.Nil {
		h.ID, err = uuid.NewV7()
	}
	return
}

// Praise mirrors Heart with a stronger engagement weight.
type Praise struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index:idx_praise_unique,unique,priority:1" json:"post_id"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index:idx_praise_unique,unique,priority:2" json:"actor_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Praise) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

type Trophy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	Tier      string    `gorm:"size:20;not null" json:"tier"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *Trophy) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

type GalleryAward struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GalleryID uuid.UUID `gorm:"type:uuid;not null;index" json:"gallery_id"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	Tier      string    `gorm:"size:20;not null" json:"tier"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (a *GalleryAward) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

const (
	ItemKindPost    = "post"
	ItemKindGallery = "gallery"
)

// Comment attaches to a post or gallery. Replies inside a critique thread are
// flagged so engagement counting can exclude them.
type Comment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID          uuid.UUID `gorm:"type:uuid;not null;index:idx_comment_lookup,priority:1" json:"item_id"`
	ItemKind        string    `gorm:"size:20;not null;index:idx_comment_lookup,priority:2" json:"item_kind"`
	ActorID         uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	IsCritiqueReply bool      `gorm:"default:false" json:"is_critique_reply"`
	IsDeleted       bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

const (
	ImpressionPositive = "positive"
	ImpressionNegative = "negative"
	ImpressionNeutral  = "neutral"
)

type Critique struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID     uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"actor_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Impression string    `gorm:"size:20;not null;default:neutral" json:"impression"`
	IsDeleted  bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Critique) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
