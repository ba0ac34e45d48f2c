package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
)

// LeaderboardService exposes the public level ranking.
type LeaderboardService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// DefaultLimit caps the board size when the caller does not specify one.
	DefaultLimit int
}

// TopByLevel returns the highest-level pets, ties broken by strength.
func (s *LeaderboardService) TopByLevel(ctx context.Context, limit int) ([]repo.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	return repo.LevelLeaderboard(ctx, s.DB, limit)
}
