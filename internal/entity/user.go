package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	AvatarURL    *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	Bio          *string   `gorm:"type:text" json:"bio,omitempty"`
	IsModerator  bool      `gorm:"default:false" json:"is_moderator"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	Wallet       *Wallet   `gorm:"constraint:OnDelete:CASCADE" json:"wallet,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Wallet holds the user's Brush Drips balance. Award and trophy creation
// debit it under a row lock; the ranking core only ever reads it indirectly.
type Wallet struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	BrushDrips int64     `gorm:"default:0" json:"brush_drips"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	FellowStatusPending  = "pending"
	FellowStatusAccepted = "accepted"
	FellowStatusBlocked  = "blocked"
)

// UserFellow is the follow edge. Only accepted edges count as a social
// connection in personalized scoring.
type UserFellow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_fellow_unique,unique,priority:1" json:"user_id"`
	FellowID  uuid.UUID `gorm:"type:uuid;not null;index:idx_fellow_unique,unique,priority:2" json:"fellow_id"`
	Status    string    `gorm:"size:20;not null;default:pending" json:"status"`
	IsDeleted bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (f *UserFellow) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}
