package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Collective struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null" json:"owner_id"`
	IsDeleted   bool      `gorm:"default:false;index" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Collective) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

// Channel is a posting surface inside a collective. Posts published into a
// channel are only eligible for members of the owning collective.
type Channel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CollectiveID uuid.UUID  `gorm:"type:uuid;not null;index" json:"collective_id"`
	Collective   Collective `gorm:"foreignKey:CollectiveID" json:"-"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Channel) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

const (
	MembershipRoleMember = "member"
	MembershipRoleAdmin  = "admin"
)

type CollectiveMembership struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index:idx_membership_unique,unique,priority:1" json:"user_id"`
	CollectiveID uuid.UUID `gorm:"type:uuid;not null;index:idx_membership_unique,unique,priority:2" json:"collective_id"`
	Role         string    `gorm:"size:20;not null;default:member" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (m *CollectiveMembership) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}
