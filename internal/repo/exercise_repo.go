// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the append-only
// exercise log, including the time-window aggregation the daily cycle uses.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
)

// CreateExerciseLog appends an audit-trail row for a logged session. The row
// is written whether or not the engine blocks the strength gain.
func CreateExerciseLog(ctx context.Context, db *gorm.DB, userID, petID, exerciseType string, durationSeconds, steps int) (*domain.ExerciseLog, error) {
	l := &domain.ExerciseLog{
		ID:              uuid.NewString(),
		UserID:          userID,
		PetID:           petID,
		ExerciseType:    exerciseType,
		DurationSeconds: durationSeconds,
		Steps:           steps,
		CreatedAt:       time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

// GetExerciseLog fetches one session by ID, scoped to its owner.
func GetExerciseLog(ctx context.Context, db *gorm.DB, id, userID string) (*domain.ExerciseLog, error) {
	var l domain.ExerciseLog
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListExerciseLogs returns a user's sessions, most recent first.
func ListExerciseLogs(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ExerciseLog, error) {
	var out []domain.ExerciseLog
	q := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// SumStrengthPointsBetween sums the strength points earned from sessions
// timestamped within [from, to). Points are floor(duration/10) per log row,
// matching the engine's conversion, so a day of 59-second sessions does not
// round its way past the daily target.
func SumStrengthPointsBetween(ctx context.Context, db *gorm.DB, userID string, from, to time.Time) (int, error) {
	var rows []struct {
		DurationSeconds int
	}
	err := db.WithContext(ctx).
		Model(&domain.ExerciseLog{}).
		Select("duration_seconds").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}
	total := 0
	for _, r := range rows {
		if r.DurationSeconds > 0 {
			total += r.DurationSeconds / pet.SecondsPerStrengthPoint
		}
	}
	return total, nil
}
