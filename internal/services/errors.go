// Package services defines the business logic for users, pets, quests, and
// travel. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// User-related errors.
var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when registration is attempted with an ID
	// that is already taken.
	ErrUserExists = errors.New("user already exists")
)

// Pet- and exercise-related errors.
var (
	// ErrPetNotFound indicates the user has no pet record (should not happen
	// for accounts created through Register).
	ErrPetNotFound = errors.New("pet not found")

	// ErrInvalidDuration is returned when an exercise session has a
	// non-positive duration.
	ErrInvalidDuration = errors.New("duration must be positive")

	// ErrInvalidSteps is returned when an exercise session reports negative
	// steps.
	ErrInvalidSteps = errors.New("steps must not be negative")

	// ErrInvalidPetName is returned when a rename has a blank name.
	ErrInvalidPetName = errors.New("pet name must not be empty")
)

// Quest-related errors.
var (
	// ErrQuestNotFound indicates that the user-quest row does not exist or
	// is not accessible to the current user.
	ErrQuestNotFound = errors.New("quest not found")

	// ErrQuestNotClaimable is returned when the quest's condition has not
	// been met today.
	ErrQuestNotClaimable = errors.New("quest requirement not met")

	// ErrQuestAlreadyClaimed is returned when the reward was already paid
	// out today.
	ErrQuestAlreadyClaimed = errors.New("quest already claimed")

	// ErrQuestStale is returned when claiming a quest row from a previous
	// day; yesterday's unclaimed rewards are forfeit.
	ErrQuestStale = errors.New("quest belongs to a previous day")
)

// Travel- and breakthrough-related errors.
var (
	// ErrNotAtBreakthrough is returned when a breakthrough action is
	// attempted while the pet is not blocked at a milestone level.
	ErrNotAtBreakthrough = errors.New("pet is not at a breakthrough level")

	// ErrBreakthroughDone is returned when the current milestone's gate has
	// already been cleared.
	ErrBreakthroughDone = errors.New("breakthrough already completed")

	// ErrAlreadyCheckedIn is returned when the user already checked in at
	// the given location.
	ErrAlreadyCheckedIn = errors.New("already checked in at this location")

	// ErrNoAttractions indicates an empty attraction catalog (a deployment
	// problem: seeding did not run).
	ErrNoAttractions = errors.New("no attractions available")
)
