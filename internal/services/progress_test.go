package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/striveloop/striveloop-api/internal/database"
	"github.com/striveloop/striveloop-api/internal/models"
)

func TestLogProgressForeignGoalForbidden(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAchievementsInto(db))
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	goal := createGoal(t, db, owner.ID, "Run", true)

	svc := NewProgressService(db)
	_, err := svc.Log(other.ID, goal.ID, nil, 1, "")
	assert.ErrorIs(t, err, ErrForbidden)

	// Nothing happened: no entry, no activity, no grants.
	var entries, activities, grants int64
	require.NoError(t, db.Model(&models.ProgressEntry{}).Count(&entries).Error)
	require.NoError(t, db.Model(&models.Activity{}).Count(&activities).Error)
	require.NoError(t, db.Model(&models.AchievementGrant{}).Count(&grants).Error)
	assert.EqualValues(t, 0, entries)
	assert.EqualValues(t, 0, activities)
	assert.EqualValues(t, 0, grants)
}

func TestLogProgressMissingGoal(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "user@example.com")

	_, err := NewProgressService(db).Log(user.ID, user.ID, nil, 1, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLogProgressFanOut(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, database.SeedAchievementsInto(db))
	user := createUser(t, db, "user@example.com")
	goal := createGoal(t, db, user.ID, "Run", false)

	entry, err := NewProgressService(db).Log(user.ID, goal.ID, nil, 5, "felt good")
	require.NoError(t, err)
	assert.Equal(t, goal.ID, entry.GoalID)
	assert.Equal(t, startOfDay(time.Now()), entry.Date)
	assert.Equal(t, "felt good", entry.Note)

	// One private, group-less PROGRESS_LOGGED record.
	var activities []models.Activity
	require.NoError(t, db.Where("type = ?", models.ActivityProgressLogged).Find(&activities).Error)
	require.Len(t, activities, 1)
	assert.Equal(t, models.VisibilityPrivate, activities[0].Visibility)
	assert.Nil(t, activities[0].GroupID)
	assert.Equal(t, goal.ID.String(), activities[0].RefIDMap()["goalId"])

	// The first check-in earns "First Steps" from the seeded catalog.
	grants, err := NewAchievementService(db).UserGrants(user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "First Steps", grants[0].Achievement.Name)
}

func TestLogProgressExplicitDate(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "user@example.com")
	goal := createGoal(t, db, user.ID, "Run", false)

	date := time.Date(2026, 8, 20, 15, 30, 0, 0, time.Local)
	entry, err := NewProgressService(db).Log(user.ID, goal.ID, &date, 2, "")
	require.NoError(t, err)

	// Dates normalize to midnight of the supplied day.
	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.Local), entry.Date)
}

func TestListForGoal(t *testing.T) {
	db := setupTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	private := createGoal(t, db, owner.ID, "Private", false)
	public := createGoal(t, db, owner.ID, "Public", true)

	addEntry(t, db, private.ID, owner.ID, 2)
	addEntry(t, db, private.ID, owner.ID, 0)
	addEntry(t, db, private.ID, owner.ID, 1)

	svc := NewProgressService(db)

	entries, err := svc.ListForGoal(private.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].Date.After(entries[1].Date))
	assert.True(t, entries[1].Date.After(entries[2].Date))

	_, err = svc.ListForGoal(private.ID, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.ListForGoal(public.ID, other.ID)
	assert.NoError(t, err)
}
