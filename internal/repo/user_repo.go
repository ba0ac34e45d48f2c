// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User and
// Pet aggregates.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates a unique-constraint violation: the record (user,
// check-in, idempotency key) already exists.
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation detects unique-constraint failures across drivers.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}

// CreateUserWithPet inserts a User row and its one-to-one Pet row in a single
// transaction, so an account never exists without its companion. The pet
// starts at the engine's initial state (level 1, egg, full stamina).
//
// Returns ErrDuplicate when the user ID is already registered.
func CreateUserWithPet(ctx context.Context, db *gorm.DB, userID, petName string, staminaMax int) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{ID: userID, CreatedAt: now}

	initial := pet.NewState(staminaMax)
	// Registration counts as the day's check, so the first lazy daily cycle
	// does not penalize a brand-new pet.
	initial.LastDailyCheckAt = now
	initial.LastResetAt = now
	p := &domain.Pet{
		ID:        uuid.NewString(),
		OwnerID:   userID,
		Name:      petName,
		CreatedAt: now,
	}
	p.SetEngineState(initial)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.Pet = p
	return u, nil
}

// GetUser fetches a user with its pet preloaded, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, userID string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Preload("Pet").
		Where("id = ?", userID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
