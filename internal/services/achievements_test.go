package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/striveloop/striveloop-api/internal/models"
)

func TestEvaluateStreakWithGapNotAwarded(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "streak@example.com")
	goal := createGoal(t, db, user.ID, "Run", false)
	achievement := createAchievement(t, db, "Week Warrior", models.RuleStreakDays, 7)

	svc := NewAchievementService(db)

	// Entries on the last 7 days with a hole three days back.
	for daysAgo := 0; daysAgo < 7; daysAgo++ {
		if daysAgo == 3 {
			continue
		}
		addEntry(t, db, goal.ID, user.ID, daysAgo)
	}

	require.NoError(t, svc.Evaluate(user.ID, goal.ID))
	assert.EqualValues(t, 0, countGrants(t, db, user.ID, achievement.ID))

	// Filling the gap completes the streak.
	addEntry(t, db, goal.ID, user.ID, 3)
	require.NoError(t, svc.Evaluate(user.ID, goal.ID))
	assert.EqualValues(t, 1, countGrants(t, db, user.ID, achievement.ID))
}

func TestEvaluateTotalCheckinsThreshold(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "checkins@example.com")
	goal := createGoal(t, db, user.ID, "Read", false)
	achievement := createAchievement(t, db, "Dedicated", models.RuleTotalCheckins, 10)

	svc := NewAchievementService(db)

	// Nine entries are one short of the threshold. Multiple entries on the
	// same day all count.
	for i := 0; i < 9; i++ {
		addEntry(t, db, goal.ID, user.ID, 0)
	}
	require.NoError(t, svc.Evaluate(user.ID, goal.ID))
	assert.EqualValues(t, 0, countGrants(t, db, user.ID, achievement.ID))

	addEntry(t, db, goal.ID, user.ID, 0)
	require.NoError(t, svc.Evaluate(user.ID, goal.ID))
	assert.EqualValues(t, 1, countGrants(t, db, user.ID, achievement.ID))

	// Further check-ins never produce a second grant.
	addEntry(t, db, goal.ID, user.ID, 0)
	require.NoError(t, svc.Evaluate(user.ID, goal.ID))
	assert.EqualValues(t, 1, countGrants(t, db, user.ID, achievement.ID))
}

func TestEvaluateConcurrentlyGrantsOnce(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "race@example.com")
	goal := createGoal(t, db, user.ID, "Meditate", false)
	achievement := createAchievement(t, db, "First Steps", models.RuleTotalCheckins, 1)

	addEntry(t, db, goal.ID, user.ID, 0)

	svc := NewAchievementService(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Evaluate(user.ID, goal.ID)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, countGrants(t, db, user.ID, achievement.ID))
}

func TestEvaluateUnknownRuleKindFails(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "unknown@example.com")
	goal := createGoal(t, db, user.ID, "Write", false)
	achievement := createAchievement(t, db, "Mystery", models.RuleKind("mystery"), 1)

	err := NewAchievementService(db).Evaluate(user.ID, goal.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown achievement rule kind")
	assert.EqualValues(t, 0, countGrants(t, db, user.ID, achievement.ID))
}

func TestCompletionRuleOnlyFiresFromCompletion(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "complete@example.com")
	goal := createGoal(t, db, user.ID, "Ship", false)
	achievement := createAchievement(t, db, "Goal Master", models.RuleGoalCompleted, 1)

	svc := NewAchievementService(db)

	// Ordinary progress evaluation must not award a completion achievement.
	addEntry(t, db, goal.ID, user.ID, 0)
	require.NoError(t, svc.Evaluate(user.ID, goal.ID))
	assert.EqualValues(t, 0, countGrants(t, db, user.ID, achievement.ID))

	require.NoError(t, svc.EvaluateCompletion(user.ID, goal.ID))
	assert.EqualValues(t, 1, countGrants(t, db, user.ID, achievement.ID))

	// Completing a second goal does not re-grant.
	other := createGoal(t, db, user.ID, "Ship again", false)
	require.NoError(t, svc.EvaluateCompletion(user.ID, other.ID))
	assert.EqualValues(t, 1, countGrants(t, db, user.ID, achievement.ID))
}

func TestUserGrantsPreloadsDefinitions(t *testing.T) {
	db := setupTestDB(t)
	user := createUser(t, db, "grants@example.com")
	goal := createGoal(t, db, user.ID, "Stretch", false)
	achievement := createAchievement(t, db, "First Steps", models.RuleTotalCheckins, 1)

	svc := NewAchievementService(db)
	addEntry(t, db, goal.ID, user.ID, 0)
	require.NoError(t, svc.Evaluate(user.ID, goal.ID))

	grants, err := svc.UserGrants(user.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, achievement.ID, grants[0].AchievementID)
	assert.Equal(t, "First Steps", grants[0].Achievement.Name)
	assert.Equal(t, goal.ID, grants[0].GoalID)
	assert.False(t, grants[0].EarnedAt.IsZero())
}
