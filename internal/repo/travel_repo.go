package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
)

// ListAttractions returns every seeded attraction ordered by name.
func ListAttractions(ctx context.Context, db *gorm.DB) ([]domain.Attraction, error) {
	var out []domain.Attraction
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// RandomAttraction picks one attraction uniformly at random. Returns
// ErrNotFound when the catalog is empty.
func RandomAttraction(ctx context.Context, db *gorm.DB) (*domain.Attraction, error) {
	var a domain.Attraction
	if err := db.WithContext(ctx).Order("RANDOM()").First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAttraction fetches one attraction by ID, or ErrNotFound.
func GetAttraction(ctx context.Context, db *gorm.DB, id string) (*domain.Attraction, error) {
	var a domain.Attraction
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateTravelCheckin inserts a check-in row. The (user_id, quest_id) unique
// index makes repeat check-ins at the same location surface as ErrDuplicate.
func CreateTravelCheckin(ctx context.Context, db *gorm.DB, c *domain.TravelCheckin) error {
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now().UTC()
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetTravelCheckin fetches one check-in by ID, scoped to its owner.
func GetTravelCheckin(ctx context.Context, db *gorm.DB, id, userID string) (*domain.TravelCheckin, error) {
	var tc domain.TravelCheckin
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tc).Error
	if err != nil {
		return nil, err
	}
	return &tc, nil
}

// ListTravelCheckins returns a user's check-in history, newest first.
func ListTravelCheckins(ctx context.Context, db *gorm.DB, userID string) ([]domain.TravelCheckin, error) {
	var out []domain.TravelCheckin
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at desc").
		Find(&out).Error
	return out, err
}

// HasTravelCheckin reports whether the user already checked in at the quest
// location.
func HasTravelCheckin(ctx context.Context, db *gorm.DB, userID, questID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.TravelCheckin{}).
		Where("user_id = ? AND quest_id = ?", userID, questID).
		Count(&n).Error
	return n > 0, err
}
