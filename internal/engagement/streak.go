// Package engagement maintains the consecutive-logging streak and the earned
// badge set on a user profile. Every transition is a pure function of
// (profile, now, meal count); callers persist the profile when a transition
// reports a change and skip the write otherwise.
package engagement

import (
	"time"

	"nutrack/internal/models"
)

const (
	// A gap of 48h without a logged meal breaks the streak.
	mealGapResetHours = 48
	// At most one streak increment per rolling 24h window. The login
	// checkpoint timestamp tracks the last streak-eligible event, not
	// literal logins.
	creditWindowHours = 24
)

func hoursSince(nowMs, thenMs int64) float64 {
	return float64(nowMs-thenMs) / 3_600_000
}

// ApplyLoginCheckpoint evaluates the streak when a session starts. Opening
// the app never earns streak credit, but a long meal-logging silence resets
// the counter to 1. Repeated logins inside the 48h window are no-ops, so the
// call is idempotent and produces no write.
func ApplyLoginCheckpoint(profile *models.UserProfile, now time.Time, mealCount int) bool {
	nowMs := now.UnixMilli()
	if profile.LastMealCheckpoint == 0 {
		profile.LastMealCheckpoint = nowMs
	}

	if hoursSince(nowMs, profile.LastMealCheckpoint) >= mealGapResetHours {
		profile.Streak = 1
		profile.LastLoginCheckpoint = nowMs
		// Restart the meal timer, otherwise every subsequent login would
		// keep re-resetting an already broken streak.
		profile.LastMealCheckpoint = nowMs
		profile.TotalMealsLogged = mealCount
		return true
	}
	return false
}

// ApplyMealCheckpoint evaluates the streak when a meal was just saved. Only a
// meal save can increment the counter, and only once per 24h credit window.
// The meal timestamp always advances, so a meal save always needs a write.
func ApplyMealCheckpoint(profile *models.UserProfile, now time.Time, mealCount int) bool {
	nowMs := now.UnixMilli()
	if profile.Streak < 1 {
		profile.Streak = 1
	}

	if hoursSince(nowMs, profile.LastMealCheckpoint) >= mealGapResetHours {
		profile.Streak = 1
		profile.LastLoginCheckpoint = nowMs
	} else if hoursSince(nowMs, profile.LastLoginCheckpoint) >= creditWindowHours {
		profile.Streak++
		profile.LastLoginCheckpoint = nowMs
	}

	profile.LastMealCheckpoint = nowMs
	profile.TotalMealsLogged = mealCount
	return true
}
