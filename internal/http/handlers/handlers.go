// Handler wiring for the public API.
//
// This file declares the service contracts the HTTP layer depends on, the
// Handlers aggregate that binds them, and the shared translation of
// service-level sentinel errors into HTTP error envelopes. Handlers are
// transport-thin: they validate input, call application services, and
// translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates an account and its pet atomically.
	Register(ctx context.Context, userID, petName string) (*domain.User, error)
	// Get fetches an account with its pet preloaded.
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// PetService defines pet read and mutation operations.
type PetService interface {
	// Get returns the user's pet, running the lazy daily cycle first.
	Get(ctx context.Context, userID string) (*domain.Pet, error)
	// Rename changes the pet's display name.
	Rename(ctx context.Context, userID, name string) (*domain.Pet, error)
	// LogExercise records a session and applies its progression effects.
	LogExercise(ctx context.Context, userID, exerciseType string, durationSeconds, steps int) (*services.ExerciseResult, error)
	// DailyCheck runs the once-per-day reset and penalty pass.
	DailyCheck(ctx context.Context, userID string) (*services.DailyCheckResult, error)
}

// QuestService defines daily quest listing and claiming.
type QuestService interface {
	// ListDaily returns today's quest rows, creating them on first access.
	ListDaily(ctx context.Context, userID string) ([]domain.UserQuest, error)
	// Claim pays out a claimable quest reward.
	Claim(ctx context.Context, userID, userQuestID string) (*services.ClaimResult, error)
}

// TravelService defines attraction and breakthrough operations.
type TravelService interface {
	// Attractions returns the destination catalog.
	Attractions(ctx context.Context) ([]domain.Attraction, error)
	// SearchAttractions ranks the catalog against a free-text query.
	SearchAttractions(ctx context.Context, query string, k int) ([]domain.Attraction, error)
	// ListCheckins returns the user's check-in history.
	ListCheckins(ctx context.Context, userID string) ([]domain.TravelCheckin, error)
	// StartBreakthrough hands out a random destination for an open gate.
	StartBreakthrough(ctx context.Context, userID string) (*domain.Attraction, error)
	// CompleteBreakthrough clears the pet's open milestone gate.
	CompleteBreakthrough(ctx context.Context, userID string) (*domain.Pet, error)
	// Checkin records a location visit, clearing the gate when eligible.
	Checkin(ctx context.Context, userID, questID string, lat, lng float64) (*services.CheckinResult, error)
}

// LeaderboardService defines the public ranking read.
type LeaderboardService interface {
	// TopByLevel returns the highest-level pets.
	TopByLevel(ctx context.Context, limit int) ([]repo.LeaderboardEntry, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for users, pets, quests, travel, and the
// leaderboard. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	userSvc   UserService
	petSvc    PetService
	questSvc  QuestService
	travelSvc TravelService
	boardSvc  LeaderboardService

	// IdempotencyTTL bounds how long a stored Idempotency-Key result can be
	// replayed. Zero means the 24h default.
	IdempotencyTTL time.Duration
}

// New constructs and returns a Handlers instance bound to the given services.
func New(userSvc UserService, petSvc PetService, questSvc QuestService, travelSvc TravelService, boardSvc LeaderboardService) *Handlers {
	return &Handlers{
		userSvc:   userSvc,
		petSvc:    petSvc,
		questSvc:  questSvc,
		travelSvc: travelSvc,
		boardSvc:  boardSvc,
	}
}

// pathUserID extracts the :id path parameter, trimmed.
func pathUserID(c *gin.Context) string {
	return strings.TrimSpace(c.Param("id"))
}

// failService translates service sentinel errors into the envelope with the
// most specific code; anything unexpected becomes a 500.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrPetNotFound),
		errors.Is(err, services.ErrQuestNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrUserExists),
		errors.Is(err, services.ErrAlreadyCheckedIn):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrInvalidDuration),
		errors.Is(err, services.ErrInvalidSteps),
		errors.Is(err, services.ErrInvalidPetName):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrQuestNotClaimable):
		fail(c, http.StatusConflict, ErrCodeQuestNotMet, err.Error())
	case errors.Is(err, services.ErrQuestAlreadyClaimed):
		fail(c, http.StatusConflict, ErrCodeQuestClaimed, err.Error())
	case errors.Is(err, services.ErrQuestStale):
		fail(c, http.StatusConflict, ErrCodeQuestExpired, err.Error())
	case errors.Is(err, services.ErrNotAtBreakthrough):
		fail(c, http.StatusConflict, ErrCodeNotEligible, err.Error())
	case errors.Is(err, services.ErrBreakthroughDone):
		fail(c, http.StatusConflict, ErrCodeNotEligible, err.Error())
	case errors.Is(err, services.ErrNoAttractions):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
