// This file seeds the static catalogs (daily quest templates and travel
// attractions) on startup. Seeding is idempotent: existing rows are left
// untouched, so operators can safely restart against a populated database.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
)

// questTemplates are the three daily quests, one per engine slot.
var questTemplates = []domain.Quest{
	{
		Slot:           pet.QuestSlotCheckin,
		Title:          "Daily Check-in",
		Description:    "Log in to the app",
		RewardStrength: 10,
		RewardMood:     5,
	},
	{
		Slot:           pet.QuestSlotExercise,
		Title:          "Complete 1 Exercise",
		Description:    "Complete one exercise of any type",
		RewardStrength: 20,
		RewardStamina:  10,
	},
	{
		Slot:           pet.QuestSlotEndurance,
		Title:          "Full of Energy",
		Description:    "Accumulate 10 minutes of exercise",
		RewardStrength: 50,
		RewardMood:     5,
	},
}

// taipeiAttractions are the breakthrough travel destinations.
var taipeiAttractions = []domain.Attraction{
	{Name: "Taipei 101", Description: "Once the world's tallest building", Latitude: ptr(25.0336), Longitude: ptr(121.5646)},
	{Name: "National Palace Museum", Description: "Home to a vast collection of Chinese artifacts", Latitude: ptr(25.1024), Longitude: ptr(121.5485)},
	{Name: "Longshan Temple", Description: "A popular and historic temple", Latitude: ptr(25.0372), Longitude: ptr(121.4999)},
	{Name: "Yangmingshan National Park", Description: "The 'backyard' of Taipei City", Latitude: ptr(25.1559), Longitude: ptr(121.5619)},
}

func ptr(f float64) *float64 { return &f }

// SeedQuests inserts the quest templates when the quests table is empty.
func SeedQuests(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Quest{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	rows := make([]domain.Quest, len(questTemplates))
	copy(rows, questTemplates)
	for i := range rows {
		rows[i].ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// SeedAttractions inserts the attraction catalog when the table is empty.
func SeedAttractions(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Attraction{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	rows := make([]domain.Attraction, len(taipeiAttractions))
	copy(rows, taipeiAttractions)
	for i := range rows {
		rows[i].ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(&rows).Error
}

// Seed runs every catalog seeder.
func Seed(ctx context.Context, db *gorm.DB) error {
	if err := SeedQuests(ctx, db); err != nil {
		return err
	}
	return SeedAttractions(ctx, db)
}
