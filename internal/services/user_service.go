// Package services – UserService
//
// This file implements UserService, which owns account registration and
// lookup. Registration creates the user and its pet atomically so an account
// never exists without a companion; pet names are normalized and a
// title-cased default is applied when the caller leaves the name blank.
//
// Service-level errors (e.g., ErrUserExists) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UserService provides account registration and retrieval.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// StaminaMax is the stamina ceiling new pets start with.
	StaminaMax int

	// DefaultPetName is used when registration omits a pet name; it is
	// title-cased with NameLocale before storage.
	DefaultPetName string
	// NameLocale selects casing rules for the default name.
	NameLocale language.Tag
	// NameMaxLen caps stored pet names by rune length.
	NameMaxLen int
}

// NewUserService constructs a UserService with sane naming defaults.
func NewUserService(db *gorm.DB, staminaMax int) *UserService {
	return &UserService{
		DB:             db,
		StaminaMax:     staminaMax,
		DefaultPetName: "my chicken",
		NameLocale:     language.Und,
		NameMaxLen:     60,
	}
}

// Register creates the user row and its pet in one transaction.
// Returns ErrUserExists when the ID is already registered.
func (s *UserService) Register(ctx context.Context, userID, petName string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Register",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	petName = s.normalizeName(petName)
	u, err := repo.CreateUserWithPet(ctx, s.DB, userID, petName, s.StaminaMax)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// Get fetches a user with its pet preloaded.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// normalizeName trims, collapses whitespace, clips, and falls back to the
// title-cased default when the result is empty.
func (s *UserService) normalizeName(name string) string {
	name = nameSpaceRE.ReplaceAllString(strings.TrimSpace(name), " ")
	if name == "" {
		caser := cases.Title(s.localeOrDefault())
		name = caser.String(s.DefaultPetName)
	}
	if s.NameMaxLen > 0 && utf8.RuneCountInString(name) > s.NameMaxLen {
		name = string([]rune(name)[:s.NameMaxLen])
	}
	return name
}

func (s *UserService) localeOrDefault() language.Tag {
	if s.NameLocale == language.Und {
		return language.English
	}
	return s.NameLocale
}

// nameSpaceRE collapses consecutive whitespace to a single space.
var nameSpaceRE = regexp.MustCompile(`\s+`)
