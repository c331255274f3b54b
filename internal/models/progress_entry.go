package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressEntry is one check-in against a goal on a calendar day. Entries are
// never updated after creation; streak logic treats any entry on a day as
// "checked in that day".
type ProgressEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID    uuid.UUID `json:"goalId" gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Date      time.Time `json:"date" gorm:"index;not null"` // midnight, local
	Value     float64   `json:"value"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *ProgressEntry) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type LogProgressRequest struct {
	Date  *string `json:"date"` // YYYY-MM-DD, defaults to today
	Value float64 `json:"value"`
	Note  string  `json:"note"`
}
