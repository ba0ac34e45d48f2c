// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the quest
// catalog and the per-user, per-day quest rows.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
)

// ListQuestCatalog returns the seeded quest templates ordered by slot.
func ListQuestCatalog(ctx context.Context, db *gorm.DB) ([]domain.Quest, error) {
	var out []domain.Quest
	err := db.WithContext(ctx).Order("slot asc").Find(&out).Error
	return out, err
}

// GetQuestBySlot fetches a single catalog template, or ErrNotFound.
func GetQuestBySlot(ctx context.Context, db *gorm.DB, slot int) (*domain.Quest, error) {
	var q domain.Quest
	if err := db.WithContext(ctx).Where("slot = ?", slot).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ListUserQuestsForDay returns the user's quest rows whose Date falls on the
// same UTC calendar day as day, ordered by slot, with templates preloaded.
func ListUserQuestsForDay(ctx context.Context, db *gorm.DB, userID string, day time.Time) ([]domain.UserQuest, error) {
	start, end := dayBounds(day)
	var out []domain.UserQuest
	err := db.WithContext(ctx).
		Preload("Quest").
		Joins("JOIN quests ON quests.id = user_quests.quest_id").
		Where("user_quests.user_id = ? AND user_quests.date >= ? AND user_quests.date < ?", userID, start, end).
		Order("quests.slot asc").
		Find(&out).Error
	return out, err
}

// CreateUserQuestsForDay materializes today's quest rows from the catalog
// with the given slot states. Call only after ListUserQuestsForDay came back
// empty; rows for past days are left alone as claim history.
func CreateUserQuestsForDay(ctx context.Context, db *gorm.DB, userID string, day time.Time, states [pet.QuestSlotCount]pet.QuestState) ([]domain.UserQuest, error) {
	catalog, err := ListQuestCatalog(ctx, db)
	if err != nil {
		return nil, err
	}
	now := day.UTC()
	rows := make([]domain.UserQuest, 0, len(catalog))
	for _, q := range catalog {
		state := pet.QuestNotMet
		if q.Slot >= 0 && q.Slot < pet.QuestSlotCount {
			state = states[q.Slot]
		}
		rows = append(rows, domain.UserQuest{
			ID:      uuid.NewString(),
			QuestID: q.ID,
			UserID:  userID,
			Date:    now,
			State:   state,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Quest = catalog[i]
	}
	return rows, nil
}

// GetUserQuest fetches one user-quest row by ID, scoped to the user, with
// the template preloaded. Returns ErrNotFound when missing or not owned.
func GetUserQuest(ctx context.Context, db *gorm.DB, id, userID string) (*domain.UserQuest, error) {
	var uq domain.UserQuest
	err := db.WithContext(ctx).
		Preload("Quest").
		Where("id = ? AND user_id = ?", id, userID).
		First(&uq).Error
	if err != nil {
		return nil, err
	}
	return &uq, nil
}

// UpdateUserQuestState advances a user-quest row's state column.
func UpdateUserQuestState(ctx context.Context, db *gorm.DB, id string, state pet.QuestState) error {
	res := db.WithContext(ctx).
		Model(&domain.UserQuest{}).
		Where("id = ?", id).
		Update("state", state)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SyncUserQuestStates mirrors the pet's slot states onto today's quest rows.
// Used by the daily cycle so stale rows from earlier in the day match the
// freshly reset slots.
func SyncUserQuestStates(ctx context.Context, db *gorm.DB, userID string, day time.Time, states [pet.QuestSlotCount]pet.QuestState) error {
	rows, err := ListUserQuestsForDay(ctx, db, userID, day)
	if err != nil {
		return err
	}
	for _, row := range rows {
		slot := row.Quest.Slot
		if slot < 0 || slot >= pet.QuestSlotCount {
			continue
		}
		if row.State == states[slot] {
			continue
		}
		if err := UpdateUserQuestState(ctx, db, row.ID, states[slot]); err != nil {
			return err
		}
	}
	return nil
}

// dayBounds returns the UTC [start, end) window of t's calendar day.
func dayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}
