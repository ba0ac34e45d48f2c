// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Pet
// aggregate, the only mutable record of the progression system.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
)

// GetPetByOwner fetches the pet owned by userID, or ErrNotFound.
func GetPetByOwner(ctx context.Context, db *gorm.DB, userID string) (*domain.Pet, error) {
	var p domain.Pet
	err := db.WithContext(ctx).
		Where("owner_id = ?", userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePet writes the full pet record back. Callers run it inside the
// transaction that loaded the row; the engine's single-writer assumption
// (one event per pet at a time, last writer wins) is enforced there, not
// here. There is deliberately no column-level setter for Stage or Level:
// the whole engine-computed state is persisted or nothing is.
func SavePet(ctx context.Context, db *gorm.DB, p *domain.Pet) error {
	res := db.WithContext(ctx).
		Model(&domain.Pet{}).
		Where("id = ?", p.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RenamePet updates only the pet's display name, the one field owners may
// set directly (everything else goes through the engine).
func RenamePet(ctx context.Context, db *gorm.DB, petID, name string) error {
	res := db.WithContext(ctx).
		Model(&domain.Pet{}).
		Where("id = ?", petID).
		Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
