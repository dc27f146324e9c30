package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PostTypeDefault = "default"
	PostTypeImage   = "image"
	PostTypeVideo   = "video"
	PostTypeNovel   = "novel"
)

// Post is the primary content item. ChannelID nil means the post is public;
// otherwise it is scoped to the channel's collective. Soft-deleted via
// IsDeleted so the ranking queries can filter on the flag explicitly.
type Post struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author    User       `gorm:"foreignKey:AuthorID" json:"-"`
	ChannelID *uuid.UUID `gorm:"type:uuid;index" json:"channel_id,omitempty"`
	Channel   *Channel   `gorm:"foreignKey:ChannelID" json:"-"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Content   string     `gorm:"type:text" json:"content"`
	PostType  string     `gorm:"size:20;not null;default:default;index" json:"post_type"`
	ImageURL  *string    `gorm:"type:text" json:"image_url,omitempty"`
	IsDeleted bool       `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}

const (
	GalleryScopePublic     = "public"
	GalleryScopeCollective = "collective"
)

// Gallery is a curated set of works. Visibility is public or scoped to the
// owning collective.
type Gallery struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"author_id"`
	Author       User       `gorm:"foreignKey:AuthorID" json:"-"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  string     `gorm:"type:text" json:"description"`
	Scope        string     `gorm:"size:20;not null;default:public" json:"scope"`
	CollectiveID *uuid.UUID `gorm:"type:uuid;index" json:"collective_id,omitempty"`
	CoverURL     *string    `gorm:"type:text" json:"cover_url,omitempty"`
	IsDeleted    bool       `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (g *Gallery) BeforeCreate(tx *gorm.DB) (err error) {
	if g.ID == uuid.Nil {
		g.ID, err = uuid.NewV7()
	}
	return
}
