package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
)

// ---------- test helpers ----------

func newTravelSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:travelsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	err = db.AutoMigrate(
		&domain.User{}, &domain.Pet{}, &domain.ExerciseLog{},
		&domain.Quest{}, &domain.UserQuest{},
		&domain.Attraction{}, &domain.TravelCheckin{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := repo.Seed(context.Background(), db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return db
}

func newTravelSvc(db *gorm.DB) *TravelService {
	return &TravelService{
		DB:                    db,
		StaminaMax:            100,
		CheckinRewardStrength: 20,
		CheckinRewardMood:     10,
	}
}

func parkAtGate(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	updatePetColumns(t, db, userID, map[string]any{
		"level": 5, "strength": 0, "breakthrough_completed": false,
		"stage": int(pet.StageEgg),
	})
}

func TestStartBreakthrough_RequiresOpenGate(t *testing.T) {
	db := newTravelSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := newTravelSvc(db)
	ctx := context.Background()

	if _, err := svc.StartBreakthrough(ctx, "u1"); !errors.Is(err, ErrNotAtBreakthrough) {
		t.Fatalf("expected ErrNotAtBreakthrough at level 1, got %v", err)
	}

	parkAtGate(t, db, "u1")
	a, err := svc.StartBreakthrough(ctx, "u1")
	if err != nil {
		t.Fatalf("StartBreakthrough: %v", err)
	}
	if a.ID == "" || a.Name == "" {
		t.Fatalf("expected a destination, got %+v", a)
	}

	// A cleared milestone no longer offers a destination.
	updatePetColumns(t, db, "u1", map[string]any{"breakthrough_completed": true})
	if _, err := svc.StartBreakthrough(ctx, "u1"); !errors.Is(err, ErrBreakthroughDone) {
		t.Fatalf("expected ErrBreakthroughDone, got %v", err)
	}
}

func TestCompleteBreakthrough(t *testing.T) {
	db := newTravelSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := newTravelSvc(db)
	ctx := context.Background()

	if _, err := svc.CompleteBreakthrough(ctx, "u1"); !errors.Is(err, ErrNotAtBreakthrough) {
		t.Fatalf("expected ErrNotAtBreakthrough, got %v", err)
	}

	parkAtGate(t, db, "u1")
	p, err := svc.CompleteBreakthrough(ctx, "u1")
	if err != nil {
		t.Fatalf("CompleteBreakthrough: %v", err)
	}
	if !p.BreakthroughCompleted {
		t.Fatal("expected the gate cleared")
	}
	if p.Stage != pet.StageChick {
		t.Fatalf("expected stage CHICK at cleared level 5, got %v", p.Stage)
	}

	if _, err := svc.CompleteBreakthrough(ctx, "u1"); !errors.Is(err, ErrBreakthroughDone) {
		t.Fatalf("expected ErrBreakthroughDone on repeat, got %v", err)
	}
}

func TestCheckin_ClearsGateAndPaysBonus(t *testing.T) {
	db := newTravelSvcDB(t)
	registerPetOwner(t, db, "u1")
	parkAtGate(t, db, "u1")
	svc := newTravelSvc(db)
	ctx := context.Background()

	a, err := repo.RandomAttraction(ctx, db)
	if err != nil {
		t.Fatalf("pick attraction: %v", err)
	}

	res, err := svc.Checkin(ctx, "u1", a.ID, 25.03, 121.56)
	if err != nil {
		t.Fatalf("Checkin: %v", err)
	}
	if !res.BreakthroughCleared {
		t.Fatal("expected the gate cleared by the check-in")
	}
	// Bonus lands after the gate clears, so the strength sticks.
	if res.Pet.Strength != 20 || res.Pet.Mood != 10 {
		t.Fatalf("expected +20 strength/+10 mood, got %d/%d", res.Pet.Strength, res.Pet.Mood)
	}
	if res.Pet.Stage != pet.StageChick {
		t.Fatalf("expected stage CHICK, got %v", res.Pet.Stage)
	}
	if res.Checkin == nil || res.Checkin.QuestID != a.ID {
		t.Fatalf("unexpected check-in row: %+v", res.Checkin)
	}
}

func TestCheckin_NoGateStillPaysBonus(t *testing.T) {
	db := newTravelSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := newTravelSvc(db)
	ctx := context.Background()

	a, err := repo.RandomAttraction(ctx, db)
	if err != nil {
		t.Fatalf("pick attraction: %v", err)
	}
	res, err := svc.Checkin(ctx, "u1", a.ID, 25.03, 121.56)
	if err != nil {
		t.Fatalf("Checkin: %v", err)
	}
	if res.BreakthroughCleared {
		t.Fatal("no gate to clear at level 1")
	}
	if res.Pet.Strength != 20 || res.Pet.Mood != 10 {
		t.Fatalf("expected the bonus, got %d/%d", res.Pet.Strength, res.Pet.Mood)
	}

	list, err := svc.ListCheckins(ctx, "u1")
	if err != nil {
		t.Fatalf("ListCheckins: %v", err)
	}
	if len(list) != 1 || list[0].QuestID != a.ID {
		t.Fatalf("unexpected history: %+v", list)
	}
}

func TestCheckin_DuplicateLocationRejected(t *testing.T) {
	db := newTravelSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := newTravelSvc(db)
	ctx := context.Background()

	a, err := repo.RandomAttraction(ctx, db)
	if err != nil {
		t.Fatalf("pick attraction: %v", err)
	}
	if _, err := svc.Checkin(ctx, "u1", a.ID, 1, 2); err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	before, err := repo.GetPetByOwner(ctx, db, "u1")
	if err != nil {
		t.Fatalf("load pet: %v", err)
	}

	if _, err := svc.Checkin(ctx, "u1", a.ID, 1, 2); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	// The rejected transaction must not pay the bonus again.
	after, err := repo.GetPetByOwner(ctx, db, "u1")
	if err != nil {
		t.Fatalf("reload pet: %v", err)
	}
	if after.Strength != before.Strength || after.Mood != before.Mood {
		t.Fatalf("duplicate check-in mutated the pet: %+v vs %+v", before, after)
	}
}

func TestCheckin_UnknownAttraction(t *testing.T) {
	db := newTravelSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := newTravelSvc(db)

	if _, err := svc.Checkin(context.Background(), "u1", "nowhere", 0, 0); !errors.Is(err, ErrNoAttractions) {
		t.Fatalf("expected ErrNoAttractions for unknown location, got %v", err)
	}
}

func TestAttractions_Catalog(t *testing.T) {
	db := newTravelSvcDB(t)
	svc := newTravelSvc(db)

	atts, err := svc.Attractions(context.Background())
	if err != nil {
		t.Fatalf("Attractions: %v", err)
	}
	if len(atts) != 4 {
		t.Fatalf("expected 4 attractions, got %d", len(atts))
	}
}

func TestSearchAttractions(t *testing.T) {
	db := newTravelSvcDB(t)
	svc := newTravelSvc(db)

	got, err := svc.SearchAttractions(context.Background(), "historic temple", 10)
	if err != nil {
		t.Fatalf("SearchAttractions: %v", err)
	}
	if len(got) == 0 || got[0].Name != "Longshan Temple" {
		t.Fatalf("expected Longshan Temple first, got %+v", got)
	}

	// No overlap with the catalog → empty result.
	got, err = svc.SearchAttractions(context.Background(), "zzzzz", 10)
	if err != nil {
		t.Fatalf("SearchAttractions (miss): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}
