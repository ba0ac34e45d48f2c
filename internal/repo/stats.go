// This file provides small aggregate/statistics queries used primarily for
// conditional responses (e.g., ETag generation) and the public leaderboard.
// Each function is context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
)

// LeaderboardEntry is one row of the level leaderboard: a pet ranked by
// level, with strength as the tie-breaker.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	PetName  string `json:"pet_name"`
	Level    int    `json:"level"`
	Strength int    `json:"strength"`
	Stage    int    `json:"stage"`
}

// LevelLeaderboard returns the top pets ordered by level descending, then
// strength descending, then creation time ascending for stable ranks.
func LevelLeaderboard(ctx context.Context, db *gorm.DB, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	var pets []domain.Pet
	err := db.WithContext(ctx).
		Order("level DESC").
		Order("strength DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&pets).Error
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(pets))
	for i, p := range pets {
		out = append(out, LeaderboardEntry{
			Rank:     i + 1,
			UserID:   p.OwnerID,
			PetName:  p.Name,
			Level:    p.Level,
			Strength: p.Strength,
			Stage:    int(p.Stage),
		})
	}
	return out, nil
}

// PetsStats returns aggregate metadata over all pets: the total number of
// rows and the maximum UpdatedAt timestamp among them.
//
// When there are no pets, the returned count is 0 and maxUpdatedAt is nil.
func PetsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Pet{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// ExerciseStats returns aggregate metadata for a user's exercise logs: the
// total number of rows and the greatest CreatedAt among them, or nil when
// the user has never logged a session.
func ExerciseStats(ctx context.Context, db *gorm.DB, userID string) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.ExerciseLog{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
