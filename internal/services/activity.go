package services

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/striveloop/striveloop-api/internal/models"
)

// logActivityFailure reports a failed activity append. The triggering
// mutation has already committed, so the failure only goes to the
// operational log.
func logActivityFailure(activityType string, subjectID, userID uuid.UUID, err error) {
	log.Printf("activity: failed to record %s for %s (user %s): %v", activityType, subjectID, userID, err)
}

// ActivityService is the append-only event log. Records are written with a
// server-assigned creation time and never mutated afterwards; feeds read
// newest-first.
type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Record appends one activity record. groupID may be nil for records that
// belong to no group (e.g. progress check-ins).
func (s *ActivityService) Record(groupID *uuid.UUID, userID uuid.UUID, activityType string, refIDs map[string]string, visibility string) error {
	activity := models.Activity{
		GroupID:    groupID,
		UserID:     userID,
		Type:       activityType,
		Visibility: visibility,
	}
	activity.SetRefIDs(refIDs)

	return s.db.Create(&activity).Error
}

// GroupFeed returns a page of a group's activity, newest first.
func (s *ActivityService) GroupFeed(groupID uuid.UUID, page, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	offset := (page - 1) * limit

	if err := s.db.Where("group_id = ?", groupID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.Model(&models.Activity{}).Where("group_id = ?", groupID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}

// UserFeed returns a page of a user's own activity, newest first.
func (s *ActivityService) UserFeed(userID uuid.UUID, page, limit int) ([]models.Activity, int64, error) {
	var activities []models.Activity
	offset := (page - 1) * limit

	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.Model(&models.Activity{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}
