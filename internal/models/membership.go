package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

const (
	MembershipPending  = "pending"
	MembershipApproved = "approved"
)

// Membership ties a user to a group. At most one row exists per (group, user);
// leaving deletes the row outright so the pair can join again later.
type Membership struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID   uuid.UUID `json:"groupId" gorm:"type:uuid;not null;uniqueIndex:idx_group_user"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_group_user"`
	Role      string    `json:"role" gorm:"not null;default:'member'"`     // owner, member
	Status    string    `json:"status" gorm:"not null;default:'pending'"`  // pending, approved
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (m *Membership) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
