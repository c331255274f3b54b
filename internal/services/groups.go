package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/striveloop/striveloop-api/internal/models"
)

// GroupService owns the group records and the membership lifecycle
// (none -> pending/approved -> removed). Joining a public group is approved
// immediately; joining a private group parks the membership as pending until
// the owner approves it.
type GroupService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db, activity: NewActivityService(db)}
}

// Create writes the group and the owner's approved membership in one
// transaction, then records a GROUP_CREATED activity scoped by the group's
// visibility.
func (s *GroupService) Create(ownerID uuid.UUID, req models.CreateGroupRequest) (*models.Group, error) {
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.GroupPublic
	}

	group := models.Group{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  visibility,
		OwnerID:     ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		membership := models.Membership{
			GroupID: group.ID,
			UserID:  ownerID,
			Role:    models.RoleOwner,
			Status:  models.MembershipApproved,
		}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return nil, err
	}

	s.recordGroupActivity(&group, ownerID, models.ActivityGroupCreated)

	return &group, nil
}

// Get returns a group, enforcing that private groups are only visible to the
// owner and approved members.
func (s *GroupService) Get(groupID, userID uuid.UUID) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if group.Visibility == models.GroupPrivate && group.OwnerID != userID {
		approved, err := s.isApprovedMember(groupID, userID)
		if err != nil {
			return nil, err
		}
		if !approved {
			return nil, ErrForbidden
		}
	}

	return &group, nil
}

// List returns a page of groups, optionally filtered by visibility.
func (s *GroupService) List(visibility string, page, limit int) ([]models.Group, int64, error) {
	query := s.db.Model(&models.Group{})
	if visibility != "" {
		query = query.Where("visibility = ?", visibility)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []models.Group
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&groups).Error; err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

// Update applies partial changes; owner only.
func (s *GroupService) Update(groupID, userID uuid.UUID, req models.UpdateGroupRequest) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if group.OwnerID != userID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if req.Visibility != nil {
		group.Visibility = *req.Visibility
	}

	if err := s.db.Save(&group).Error; err != nil {
		return nil, err
	}

	return &group, nil
}

// Delete removes the group and every membership row in one transaction;
// owner only. No memberships survive a deleted group.
func (s *GroupService) Delete(groupID, userID uuid.UUID) error {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if group.OwnerID != userID {
		return ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}

// Join creates the caller's membership. A public group approves immediately
// and records a MEMBER_JOINED activity; a private group leaves the row
// pending and stays silent. An existing row in any status is a conflict.
func (s *GroupService) Join(groupID, userID uuid.UUID) (*models.Membership, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var existing models.Membership
	if err := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&existing).Error; err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	status := models.MembershipPending
	if group.Visibility == models.GroupPublic {
		status = models.MembershipApproved
	}

	membership := models.Membership{
		GroupID: groupID,
		UserID:  userID,
		Role:    models.RoleMember,
		Status:  status,
	}

	if err := s.db.Create(&membership).Error; err != nil {
		return nil, err
	}

	// Pending memberships are not effective yet, so nothing is announced.
	if status == models.MembershipApproved {
		s.recordGroupActivity(&group, userID, models.ActivityMemberJoined)
	}

	return &membership, nil
}

// Leave deletes the caller's membership and records a MEMBER_LEFT activity.
// The owner cannot leave their own group.
func (s *GroupService) Leave(groupID, userID uuid.UUID) error {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if group.OwnerID == userID {
		return ErrForbidden
	}

	result := s.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&models.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.recordGroupActivity(&group, userID, models.ActivityMemberLeft)

	return nil
}

// Approve moves a pending membership to approved; owner only.
func (s *GroupService) Approve(groupID, ownerID, memberID uuid.UUID) (*models.Membership, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if group.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	var membership models.Membership
	if err := s.db.Where("group_id = ? AND user_id = ? AND status = ?",
		groupID, memberID, models.MembershipPending).First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	membership.Status = models.MembershipApproved
	if err := s.db.Save(&membership).Error; err != nil {
		return nil, err
	}

	s.recordGroupActivity(&group, memberID, models.ActivityMemberJoined)

	return &membership, nil
}

// Members lists approved memberships; pending rows never appear here.
func (s *GroupService) Members(groupID, userID uuid.UUID) ([]models.Membership, error) {
	if _, err := s.Get(groupID, userID); err != nil {
		return nil, err
	}

	var members []models.Membership
	if err := s.db.Where("group_id = ? AND status = ?", groupID, models.MembershipApproved).
		Preload("User").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// PendingRequests lists pending memberships; owner only.
func (s *GroupService) PendingRequests(groupID, userID uuid.UUID) ([]models.Membership, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if group.OwnerID != userID {
		return nil, ErrForbidden
	}

	var pending []models.Membership
	if err := s.db.Where("group_id = ? AND status = ?", groupID, models.MembershipPending).
		Preload("User").
		Find(&pending).Error; err != nil {
		return nil, err
	}
	return pending, nil
}

// MemberCount counts approved memberships only.
func (s *GroupService) MemberCount(groupID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Membership{}).
		Where("group_id = ? AND status = ?", groupID, models.MembershipApproved).
		Count(&count).Error
	return count, err
}

// IsApprovedMember reports whether the user is the owner or an approved
// member of the group.
func (s *GroupService) IsApprovedMember(groupID, userID uuid.UUID) (bool, error) {
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if group.OwnerID == userID {
		return true, nil
	}
	return s.isApprovedMember(groupID, userID)
}

func (s *GroupService) isApprovedMember(groupID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Membership{}).
		Where("group_id = ? AND user_id = ? AND status = ?", groupID, userID, models.MembershipApproved).
		Count(&count).Error
	return count > 0, err
}

// recordGroupActivity writes a membership event scoped by the group's
// visibility. Append failures must not fail the lifecycle transition that
// already happened; they are logged for operators instead.
func (s *GroupService) recordGroupActivity(group *models.Group, userID uuid.UUID, activityType string) {
	visibility := models.VisibilityGroup
	if group.Visibility == models.GroupPublic {
		visibility = models.VisibilityPublic
	}

	groupID := group.ID
	if err := s.activity.Record(&groupID, userID, activityType,
		map[string]string{"groupId": group.ID.String()}, visibility); err != nil {
		logActivityFailure(activityType, group.ID, userID, err)
	}
}
