// Package services – PetService
//
// This file implements PetService, the application-level component that owns
// the pet read path and the exercise/daily-check write paths. Every mutation
// runs the lazy daily cycle first, then feeds the event through the pure
// progression engine and persists the result in a single transaction, so a
// persistence failure discards all derived state.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// user identifiers and the engine outcome where useful.
package services

import (
	"context"
	"errors"
	"strings"
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

const defaultExerciseType = "general"

// PetService coordinates pet state reads and engine-driven mutations.
type PetService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// StaminaMax configures the engine's stamina ceiling.
	StaminaMax int

	// Now returns the current time; overridable in tests. Defaults to
	// time.Now when nil.
	Now func() time.Time
}

// ExerciseResult reports the outcome of a logged session.
type ExerciseResult struct {
	Log *domain.ExerciseLog `json:"log"`
	Pet *domain.Pet         `json:"pet"`

	// StrengthGained is the points credited by this session (zero when the
	// gate blocked the gain).
	StrengthGained int `json:"strength_gained"`
	// BreakthroughRequired is true when the pet is blocked at a milestone
	// and must complete a travel breakthrough to keep progressing.
	BreakthroughRequired bool `json:"breakthrough_required"`
	// LeveledUp is true when this session raised the pet's level.
	LeveledUp bool `json:"leveled_up"`
}

// DailyCheckResult reports the outcome of an explicit daily check.
type DailyCheckResult struct {
	Pet *domain.Pet `json:"pet"`
	pet.DailyResult
}

func (s *PetService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// Get returns the user's pet, running the daily cycle first when a new
// calendar day has started since the last one.
func (s *PetService) Get(ctx context.Context, userID string) (*domain.Pet, error) {
	tr := otel.Tracer("services/PetService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	var out *domain.Pet
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadPet(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, ran, err := s.ensureDailyCycle(ctx, tx, p, s.now()); err != nil {
			return err
		} else if ran {
			if err := repo.SavePet(ctx, tx, p); err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Rename changes the pet's display name.
func (s *PetService) Rename(ctx context.Context, userID, name string) (*domain.Pet, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidPetName
	}
	p, err := loadPet(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.RenamePet(ctx, s.DB, p.ID, name); err != nil {
		return nil, err
	}
	p.Name = name
	return p, nil
}

// LogExercise appends an audit log row, accumulates the daily counters, and
// applies the session's engine deltas. The log row is written even when the
// breakthrough gate blocks the strength gain.
func (s *PetService) LogExercise(ctx context.Context, userID, exerciseType string, durationSeconds, steps int) (*ExerciseResult, error) {
	tr := otel.Tracer("services/PetService")
	ctx, span := tr.Start(ctx, "LogExercise",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("exercise.duration_seconds", durationSeconds),
		),
	)
	defer span.End()

	if durationSeconds <= 0 {
		return nil, ErrInvalidDuration
	}
	if steps < 0 {
		return nil, ErrInvalidSteps
	}
	exerciseType = strings.TrimSpace(exerciseType)
	if exerciseType == "" {
		exerciseType = defaultExerciseType
	}

	var result ExerciseResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadPet(ctx, tx, userID)
		if err != nil {
			return err
		}
		now := s.now()
		if _, _, err := s.ensureDailyCycle(ctx, tx, p, now); err != nil {
			return err
		}

		before := p.EngineState(s.StaminaMax)
		d := pet.ExerciseDeltas(durationSeconds)
		after, blocked := pet.ApplyDelta(before, d)
		after = pet.NoteExercise(after, durationSeconds, steps)
		p.SetEngineState(after)

		if err := repo.SavePet(ctx, tx, p); err != nil {
			return err
		}
		log, err := repo.CreateExerciseLog(ctx, tx, userID, p.ID, exerciseType, durationSeconds, steps)
		if err != nil {
			return err
		}
		if err := repo.SyncUserQuestStates(ctx, tx, userID, now, after.Quests); err != nil {
			return err
		}

		result = ExerciseResult{
			Log:                  log,
			Pet:                  p,
			BreakthroughRequired: pet.NeedsBreakthrough(after.Level, after.BreakthroughCompleted),
			LeveledUp:            after.Level > before.Level,
		}
		if !blocked {
			result.StrengthGained = d.Strength
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("exercise.strength_gained", result.StrengthGained),
		attribute.Bool("exercise.breakthrough_required", result.BreakthroughRequired),
	)
	return &result, nil
}

// DailyCheck explicitly runs the daily cycle for the user's pet. Safe to call
// repeatedly; a second call on the same calendar day is a no-op.
func (s *PetService) DailyCheck(ctx context.Context, userID string) (*DailyCheckResult, error) {
	tr := otel.Tracer("services/PetService")
	ctx, span := tr.Start(ctx, "DailyCheck",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	var out DailyCheckResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := loadPet(ctx, tx, userID)
		if err != nil {
			return err
		}
		res, ran, err := s.ensureDailyCycle(ctx, tx, p, s.now())
		if err != nil {
			return err
		}
		if ran {
			if err := repo.SavePet(ctx, tx, p); err != nil {
				return err
			}
		}
		out = DailyCheckResult{Pet: p, DailyResult: res}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ensureDailyCycle runs the engine's daily cycle when a new UTC calendar day
// has started for this pet. It mutates p in memory and syncs today's quest
// rows; the caller persists the pet. ran reports whether anything changed.
func (s *PetService) ensureDailyCycle(ctx context.Context, tx *gorm.DB, p *domain.Pet, now time.Time) (pet.DailyResult, bool, error) {
	state := p.EngineState(s.StaminaMax)
	if !state.LastDailyCheckAt.IsZero() && pet.SameCalendarDay(state.LastDailyCheckAt, now) {
		return pet.DailyResult{AlreadyChecked: true}, false, nil
	}

	from, to := pet.DayWindow(now)
	total, err := repo.SumStrengthPointsBetween(ctx, tx, p.OwnerID, from, to)
	if err != nil {
		return pet.DailyResult{}, false, err
	}
	state, res := pet.RunDailyCycle(state, total, now)
	if res.AlreadyChecked {
		return res, false, nil
	}
	p.SetEngineState(state)
	if err := repo.SyncUserQuestStates(ctx, tx, p.OwnerID, now, state.Quests); err != nil {
		return res, false, err
	}
	return res, true, nil
}

// loadPet resolves a user's pet, mapping missing rows to sentinel errors.
func loadPet(ctx context.Context, tx *gorm.DB, userID string) (*domain.Pet, error) {
	p, err := repo.GetPetByOwner(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			if _, uerr := repo.GetUser(ctx, tx, userID); errors.Is(uerr, repo.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	return p, nil
}
