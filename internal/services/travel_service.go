// Package services – TravelService
//
// This file implements TravelService, which owns the breakthrough flow: the
// attraction catalog, the "start" call that hands out a random destination,
// the explicit breakthrough completion, and location check-ins. A check-in at
// a new location auto-clears an open milestone gate and then pays a fixed
// strength/mood bonus through the engine.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
	"github.com/tbourn/go-pet-fitness-backend/internal/search"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TravelService coordinates attractions, check-ins, and breakthroughs.
type TravelService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// StaminaMax configures the engine's stamina ceiling.
	StaminaMax int

	// CheckinRewardStrength and CheckinRewardMood are the fixed bonus paid
	// for a first check-in at a location, applied after any gate clearing.
	CheckinRewardStrength int
	CheckinRewardMood     int

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// CheckinResult reports the outcome of a travel check-in.
type CheckinResult struct {
	Checkin *domain.TravelCheckin `json:"checkin"`
	Pet     *domain.Pet           `json:"pet"`

	// BreakthroughCleared is true when this check-in closed an open
	// milestone gate.
	BreakthroughCleared bool `json:"breakthrough_cleared"`
}

func (s *TravelService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *TravelService) petService() *PetService {
	return &PetService{DB: s.DB, StaminaMax: s.StaminaMax, Now: s.Now}
}

// Attractions returns the full destination catalog.
func (s *TravelService) Attractions(ctx context.Context) ([]domain.Attraction, error) {
	return repo.ListAttractions(ctx, s.DB)
}

// SearchAttractions ranks the catalog against a free-text query and returns
// the best matches in rank order. An empty query or no match yields an empty
// slice. The catalog is small, so the index is rebuilt per call.
func (s *TravelService) SearchAttractions(ctx context.Context, query string, k int) ([]domain.Attraction, error) {
	tr := otel.Tracer("services/TravelService")
	ctx, span := tr.Start(ctx, "SearchAttractions", trace.WithAttributes(
		attribute.Int("search.k", k),
	))
	defer span.End()

	all, err := repo.ListAttractions(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	docs := make([]search.Doc, 0, len(all))
	byID := make(map[string]domain.Attraction, len(all))
	for _, a := range all {
		docs = append(docs, search.Doc{ID: a.ID, Name: a.Name, Text: a.Description})
		byID[a.ID] = a
	}
	ranked := search.NewIndex(docs).TopK(query, k)
	out := make([]domain.Attraction, 0, len(ranked))
	for _, r := range ranked {
		if a, ok := byID[r.ID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListCheckins returns the user's check-in history, newest first.
func (s *TravelService) ListCheckins(ctx context.Context, userID string) ([]domain.TravelCheckin, error) {
	if _, err := loadPet(ctx, s.DB, userID); err != nil {
		return nil, err
	}
	return repo.ListTravelCheckins(ctx, s.DB, userID)
}

// StartBreakthrough verifies the pet is blocked at a milestone and hands out
// a random destination for the travel quest.
func (s *TravelService) StartBreakthrough(ctx context.Context, userID string) (*domain.Attraction, error) {
	tr := otel.Tracer("services/TravelService")
	ctx, span := tr.Start(ctx, "StartBreakthrough",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	p, err := loadPet(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	state := p.EngineState(s.StaminaMax)
	if !pet.NeedsBreakthrough(state.Level, state.BreakthroughCompleted) {
		if pet.IsMilestone(state.Level) {
			return nil, ErrBreakthroughDone
		}
		return nil, ErrNotAtBreakthrough
	}

	a, err := repo.RandomAttraction(ctx, s.DB)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoAttractions
		}
		return nil, err
	}
	return a, nil
}

// CompleteBreakthrough clears the pet's open milestone gate.
func (s *TravelService) CompleteBreakthrough(ctx context.Context, userID string) (*domain.Pet, error) {
	tr := otel.Tracer("services/TravelService")
	ctx, span := tr.Start(ctx, "CompleteBreakthrough",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	var out *domain.Pet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadPet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, _, err := s.petService().ensureDailyCycle(ctx, tx, p, s.now()); err != nil {
			return err
		}

		state, err := pet.CompleteBreakthrough(p.EngineState(s.StaminaMax))
		if err != nil {
			switch {
			case errors.Is(err, pet.ErrNotAtBreakthrough):
				return ErrNotAtBreakthrough
			case errors.Is(err, pet.ErrBreakthroughDone):
				return ErrBreakthroughDone
			default:
				return err
			}
		}
		p.SetEngineState(state)
		if err := repo.SavePet(ctx, tx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Checkin records a visit to an attraction. A repeat visit to the same
// location is rejected. A first visit clears an open milestone gate and then
// pays the fixed check-in bonus; the bonus goes through the engine, so it is
// clamped and gated like any other delta.
func (s *TravelService) Checkin(ctx context.Context, userID, questID string, lat, lng float64) (*CheckinResult, error) {
	tr := otel.Tracer("services/TravelService")
	ctx, span := tr.Start(ctx, "Checkin",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("attraction.id", questID),
		),
	)
	defer span.End()

	var result CheckinResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadPet(ctx, tx, userID)
		if err != nil {
			return err
		}
		now := s.now()
		if _, _, err := s.petService().ensureDailyCycle(ctx, tx, p, now); err != nil {
			return err
		}
		if _, err := repo.GetAttraction(ctx, tx, questID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrNoAttractions
			}
			return err
		}

		c := &domain.TravelCheckin{
			ID:          uuid.NewString(),
			UserID:      userID,
			QuestID:     questID,
			Lat:         lat,
			Lng:         lng,
			CompletedAt: now,
		}
		if err := repo.CreateTravelCheckin(ctx, tx, c); err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrAlreadyCheckedIn
			}
			return err
		}

		state := p.EngineState(s.StaminaMax)
		cleared := false
		if pet.NeedsBreakthrough(state.Level, state.BreakthroughCompleted) {
			state, err = pet.CompleteBreakthrough(state)
			if err != nil {
				return err
			}
			cleared = true
		}
		state, _ = pet.ApplyDelta(state, pet.Delta{
			Strength: s.CheckinRewardStrength,
			Mood:     s.CheckinRewardMood,
		})
		p.SetEngineState(state)
		if err := repo.SavePet(ctx, tx, p); err != nil {
			return err
		}

		result = CheckinResult{Checkin: c, Pet: p, BreakthroughCleared: cleared}
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("checkin.breakthrough_cleared", result.BreakthroughCleared))
	return &result, nil
}
