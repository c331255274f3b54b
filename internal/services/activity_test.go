package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/striveloop/striveloop-api/internal/models"
)

// writeActivity inserts a record with an explicit creation time so ordering
// assertions are deterministic.
func writeActivity(t *testing.T, db *gorm.DB, groupID *uuid.UUID, userID uuid.UUID, activityType string, createdAt time.Time) {
	t.Helper()
	activity := models.Activity{
		GroupID:    groupID,
		UserID:     userID,
		Type:       activityType,
		Visibility: models.VisibilityGroup,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(&activity).Error)
}

func TestGroupFeedNewestFirstPaginated(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "user@example.com")
	groupID := uuid.New()
	otherGroupID := uuid.New()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	writeActivity(t, db, &groupID, user.ID, models.ActivityGroupCreated, base)
	writeActivity(t, db, &groupID, user.ID, models.ActivityMemberJoined, base.Add(time.Minute))
	writeActivity(t, db, &groupID, user.ID, models.ActivityMemberLeft, base.Add(2*time.Minute))
	writeActivity(t, db, &otherGroupID, user.ID, models.ActivityGroupCreated, base.Add(3*time.Minute))

	svc := NewActivityService(db)

	page1, total, err := svc.GroupFeed(groupID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page1, 2)
	assert.Equal(t, models.ActivityMemberLeft, page1[0].Type)
	assert.Equal(t, models.ActivityMemberJoined, page1[1].Type)

	page2, _, err := svc.GroupFeed(groupID, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, models.ActivityGroupCreated, page2[0].Type)
}

func TestUserFeedScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	alice := createUser(t, db, "alice@example.com")
	bob := createUser(t, db, "bob@example.com")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	writeActivity(t, db, nil, alice.ID, models.ActivityProgressLogged, base)
	writeActivity(t, db, nil, alice.ID, models.ActivityGoalCompleted, base.Add(time.Minute))
	writeActivity(t, db, nil, bob.ID, models.ActivityProgressLogged, base.Add(2*time.Minute))

	feed, total, err := NewActivityService(db).UserFeed(alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, feed, 2)
	assert.Equal(t, models.ActivityGoalCompleted, feed[0].Type)
	for _, activity := range feed {
		assert.Equal(t, alice.ID, activity.UserID)
	}
}

func TestRecordRefIDsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "user@example.com")
	groupID := uuid.New()

	svc := NewActivityService(db)
	require.NoError(t, svc.Record(&groupID, user.ID, models.ActivityMemberJoined,
		map[string]string{"groupId": groupID.String()}, models.VisibilityPublic))

	var activity models.Activity
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&activity).Error)
	assert.Equal(t, map[string]string{"groupId": groupID.String()}, activity.RefIDMap())
	assert.False(t, activity.CreatedAt.IsZero())
}

func TestRecordWithoutRefIDs(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "user@example.com")

	svc := NewActivityService(db)
	require.NoError(t, svc.Record(nil, user.ID, models.ActivityProgressLogged, nil, models.VisibilityPrivate))

	var activity models.Activity
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&activity).Error)
	assert.Nil(t, activity.RefIDs)
	assert.Nil(t, activity.RefIDMap())
}
