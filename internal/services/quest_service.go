// Package services – QuestService
//
// This file implements QuestService, which materializes the daily quest rows
// for a user and pays out rewards on claims. The authoritative slot states
// live on the pet row and flow through the progression engine; the per-day
// rows are kept in sync for the listing API and as claim history.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// QuestService coordinates daily quest listing and reward claims.
type QuestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// StaminaMax configures the engine's stamina ceiling.
	StaminaMax int

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// ClaimResult reports the outcome of a successful quest claim.
type ClaimResult struct {
	Quest *domain.UserQuest `json:"quest"`
	Pet   *domain.Pet       `json:"pet"`

	// BreakthroughRequired is true when the strength portion of the reward
	// was withheld by a closed milestone gate.
	BreakthroughRequired bool `json:"breakthrough_required"`
}

func (s *QuestService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *QuestService) petService() *PetService {
	return &PetService{DB: s.DB, StaminaMax: s.StaminaMax, Now: s.Now}
}

// ListDaily returns today's quest rows for the user, creating them from the
// catalog on first access of the day.
func (s *QuestService) ListDaily(ctx context.Context, userID string) ([]domain.UserQuest, error) {
	tr := otel.Tracer("services/QuestService")
	ctx, span := tr.Start(ctx, "ListDaily",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	var out []domain.UserQuest
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadPet(ctx, tx, userID)
		if err != nil {
			return err
		}
		now := s.now()
		if _, ran, err := s.petService().ensureDailyCycle(ctx, tx, p, now); err != nil {
			return err
		} else if ran {
			if err := repo.SavePet(ctx, tx, p); err != nil {
				return err
			}
		}

		states := p.EngineState(s.StaminaMax).Quests
		rows, err := repo.ListUserQuestsForDay(ctx, tx, userID, now)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			rows, err = repo.CreateUserQuestsForDay(ctx, tx, userID, now, states)
			if err != nil {
				return err
			}
		} else if err := repo.SyncUserQuestStates(ctx, tx, userID, now, states); err != nil {
			return err
		} else {
			for i := range rows {
				if slot := rows[i].Quest.Slot; slot >= 0 && slot < pet.QuestSlotCount {
					rows[i].State = states[slot]
				}
			}
		}
		out = rows
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Claim pays out a claimable quest. Only the Claimable state transitions to
// Claimed; the reward triple goes through the engine, so strength rewards
// respect the breakthrough gate like any other gain.
func (s *QuestService) Claim(ctx context.Context, userID, userQuestID string) (*ClaimResult, error) {
	tr := otel.Tracer("services/QuestService")
	ctx, span := tr.Start(ctx, "Claim",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("quest.id", userQuestID),
		),
	)
	defer span.End()

	var result ClaimResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadPet(ctx, tx, userID)
		if err != nil {
			return err
		}
		now := s.now()
		if _, _, err := s.petService().ensureDailyCycle(ctx, tx, p, now); err != nil {
			return err
		}

		row, err := repo.GetUserQuest(ctx, tx, userQuestID, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrQuestNotFound
			}
			return err
		}
		if !pet.SameCalendarDay(row.Date, now) {
			return ErrQuestStale
		}

		state := p.EngineState(s.StaminaMax)
		state, err = pet.ClaimSlot(state, row.Quest.Slot)
		if err != nil {
			switch {
			case errors.Is(err, pet.ErrQuestNotMet):
				return ErrQuestNotClaimable
			case errors.Is(err, pet.ErrQuestClaimed):
				return ErrQuestAlreadyClaimed
			default:
				return err
			}
		}
		reward := pet.Delta{
			Strength: row.Quest.RewardStrength,
			Stamina:  row.Quest.RewardStamina,
			Mood:     row.Quest.RewardMood,
		}
		state, blocked := pet.ApplyDelta(state, reward)
		p.SetEngineState(state)

		if err := repo.SavePet(ctx, tx, p); err != nil {
			return err
		}
		if err := repo.UpdateUserQuestState(ctx, tx, row.ID, pet.QuestClaimed); err != nil {
			return err
		}
		row.State = pet.QuestClaimed

		result = ClaimResult{Quest: row, Pet: p, BreakthroughRequired: blocked}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
