package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
)

// ---------- test helpers ----------

func newPetSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:petsvc_%s?mode=memory&cache=shared", uuid.NewString())

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
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := repo.SeedQuests(context.Background(), db); err != nil {
		t.Fatalf("seed quests: %v", err)
	}
	return db
}

func registerPetOwner(t *testing.T, db *gorm.DB, userID string) *domain.Pet {
	t.Helper()
	u, err := repo.CreateUserWithPet(context.Background(), db, userID, "Pecky", 100)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.Pet
}

func updatePetColumns(t *testing.T, db *gorm.DB, userID string, cols map[string]any) {
	t.Helper()
	if err := db.Model(&domain.Pet{}).Where("owner_id = ?", userID).Updates(cols).Error; err != nil {
		t.Fatalf("update pet: %v", err)
	}
}

func TestLogExercise_SessionLevelsUp(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := &PetService{DB: db, StaminaMax: 100}
	ctx := context.Background()

	// 1200 seconds is exactly one level's worth of points.
	res, err := svc.LogExercise(ctx, "u1", "running", 1200, 2400)
	if err != nil {
		t.Fatalf("LogExercise: %v", err)
	}
	if res.StrengthGained != 120 || !res.LeveledUp {
		t.Fatalf("expected 120 points and a level-up, got %+v", res)
	}
	if res.BreakthroughRequired {
		t.Fatal("level 2 is not a milestone")
	}
	p := res.Pet
	if p.Level != 2 || p.Strength != 0 {
		t.Fatalf("expected level 2 / strength 0, got %d/%d", p.Level, p.Strength)
	}
	// Level-up refills stamina before the session cost is applied.
	if p.Stamina != 90 {
		t.Fatalf("expected stamina 90, got %d", p.Stamina)
	}
	if p.Mood != 15 {
		t.Fatalf("expected mood 15 (level bonus + session gain), got %d", p.Mood)
	}
	if p.DailyExerciseSeconds != 1200 || p.DailySteps != 2400 {
		t.Fatalf("expected daily counters 1200/2400, got %d/%d", p.DailyExerciseSeconds, p.DailySteps)
	}
	// 1200s also satisfies both exercise quests.
	if p.QuestExercise != pet.QuestClaimable || p.QuestEndurance != pet.QuestClaimable {
		t.Fatalf("expected exercise quests claimable, got %v/%v", p.QuestExercise, p.QuestEndurance)
	}
	if res.Log == nil || res.Log.DurationSeconds != 1200 {
		t.Fatalf("expected persisted log, got %+v", res.Log)
	}
}

func TestLogExercise_Validation(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := &PetService{DB: db, StaminaMax: 100}
	ctx := context.Background()

	if _, err := svc.LogExercise(ctx, "u1", "running", 0, 0); !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := svc.LogExercise(ctx, "u1", "running", 60, -1); !errors.Is(err, ErrInvalidSteps) {
		t.Fatalf("expected ErrInvalidSteps, got %v", err)
	}
	if _, err := svc.LogExercise(ctx, "ghost", "running", 60, 0); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLogExercise_BlockedAtMilestoneGate(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := &PetService{DB: db, StaminaMax: 100}
	ctx := context.Background()

	// Four full-level sessions land the pet exactly at milestone level 5.
	var last *ExerciseResult
	for i := 0; i < 4; i++ {
		res, err := svc.LogExercise(ctx, "u1", "running", 1200, 0)
		if err != nil {
			t.Fatalf("session %d: %v", i+1, err)
		}
		last = res
	}
	if last.Pet.Level != 5 || !last.BreakthroughRequired {
		t.Fatalf("expected blocked at level 5, got level %d (required=%v)", last.Pet.Level, last.BreakthroughRequired)
	}
	if last.Pet.Stage != pet.StageEgg {
		t.Fatalf("stage must stay one milestone behind at an open gate, got %v", last.Pet.Stage)
	}

	// A further session still logs and costs stamina but gains no strength.
	before := last.Pet
	res, err := svc.LogExercise(ctx, "u1", "running", 1200, 0)
	if err != nil {
		t.Fatalf("blocked session: %v", err)
	}
	if res.StrengthGained != 0 || res.LeveledUp {
		t.Fatalf("expected no gain at the gate, got %+v", res)
	}
	if res.Pet.Level != 5 || res.Pet.Strength != 0 {
		t.Fatalf("expected level 5 / strength 0, got %d/%d", res.Pet.Level, res.Pet.Strength)
	}
	if res.Pet.Stamina != before.Stamina-pet.ExerciseStaminaCost {
		t.Fatalf("stamina must still be spent at the gate: %d -> %d", before.Stamina, res.Pet.Stamina)
	}

	var logs int64
	if err := db.Model(&domain.ExerciseLog{}).Where("user_id = ?", "u1").Count(&logs).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	if logs != 5 {
		t.Fatalf("blocked sessions must still be logged, got %d rows", logs)
	}
}

func TestDailyCheck_MetRequirementResetsWithoutPenalty(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	today := time.Now().UTC()
	svc := &PetService{DB: db, StaminaMax: 100}
	ctx := context.Background()

	// 600 seconds today = 60 points, exactly the daily target.
	if _, err := svc.LogExercise(ctx, "u1", "running", 600, 0); err != nil {
		t.Fatalf("log: %v", err)
	}

	svc.Now = func() time.Time { return today.AddDate(0, 0, 1) }
	res, err := svc.DailyCheck(ctx, "u1")
	if err != nil {
		t.Fatalf("DailyCheck: %v", err)
	}
	if res.AlreadyChecked {
		t.Fatal("expected the cycle to run on the new day")
	}
	if !res.MetRequirement || res.TotalStrengthYesterday != 60 {
		t.Fatalf("expected requirement met with 60 points, got %+v", res.DailyResult)
	}
	if res.MoodPenalized || res.StrengthPenalized {
		t.Fatalf("no penalty expected: %+v", res.DailyResult)
	}
	p := res.Pet
	if p.Stamina != 100 || p.DailyExerciseSeconds != 0 || p.DailySteps != 0 {
		t.Fatalf("expected refilled stamina and zeroed counters, got %+v", p)
	}
	if p.QuestCheckin != pet.QuestClaimable || p.QuestExercise != pet.QuestNotMet {
		t.Fatalf("expected day-start quest slots, got %v/%v", p.QuestCheckin, p.QuestExercise)
	}
}

func TestDailyCheck_MissAppliesMoodThenStrengthPenalty(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	updatePetColumns(t, db, "u1", map[string]any{"mood": 5, "strength": 50})
	today := time.Now().UTC()
	svc := &PetService{
		DB: db, StaminaMax: 100,
		Now: func() time.Time { return today.AddDate(0, 0, 1) },
	}

	res, err := svc.DailyCheck(context.Background(), "u1")
	if err != nil {
		t.Fatalf("DailyCheck: %v", err)
	}
	if !res.MoodPenalized || !res.StrengthPenalized {
		t.Fatalf("expected both penalties, got %+v", res.DailyResult)
	}
	if res.Pet.Mood != 0 {
		t.Fatalf("expected mood floored at 0, got %d", res.Pet.Mood)
	}
	if res.Pet.Strength != 40 {
		t.Fatalf("expected strength 50-10, got %d", res.Pet.Strength)
	}
	if res.Pet.Level != 1 {
		t.Fatalf("level must never drop, got %d", res.Pet.Level)
	}
}

func TestDailyCheck_IdempotentWithinDay(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	today := time.Now().UTC()
	svc := &PetService{
		DB: db, StaminaMax: 100,
		Now: func() time.Time { return today.AddDate(0, 0, 1) },
	}
	ctx := context.Background()

	first, err := svc.DailyCheck(ctx, "u1")
	if err != nil {
		t.Fatalf("first DailyCheck: %v", err)
	}
	if first.AlreadyChecked {
		t.Fatal("first call must run the cycle")
	}

	second, err := svc.DailyCheck(ctx, "u1")
	if err != nil {
		t.Fatalf("second DailyCheck: %v", err)
	}
	if !second.AlreadyChecked {
		t.Fatal("second call on the same day must be a no-op")
	}
	if second.Pet.Mood != first.Pet.Mood || second.Pet.Stamina != first.Pet.Stamina {
		t.Fatalf("no-op call changed state: %+v vs %+v", first.Pet, second.Pet)
	}
}

func TestGet_RunsLazyDailyCycle(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	updatePetColumns(t, db, "u1", map[string]any{"stamina": 40, "daily_exercise_seconds": 900})
	today := time.Now().UTC()
	svc := &PetService{
		DB: db, StaminaMax: 100,
		Now: func() time.Time { return today.AddDate(0, 0, 1) },
	}

	p, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Stamina != 100 || p.DailyExerciseSeconds != 0 {
		t.Fatalf("expected lazy cycle to reset, got %+v", p)
	}
	if p.LastDailyCheckAt == nil || !pet.SameCalendarDay(*p.LastDailyCheckAt, svc.Now()) {
		t.Fatalf("expected the new day stamped, got %v", p.LastDailyCheckAt)
	}
}

func TestRename(t *testing.T) {
	db := newPetSvcDB(t)
	registerPetOwner(t, db, "u1")
	svc := &PetService{DB: db, StaminaMax: 100}
	ctx := context.Background()

	p, err := svc.Rename(ctx, "u1", "Henrietta")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if p.Name != "Henrietta" {
		t.Fatalf("expected renamed pet, got %q", p.Name)
	}
	if _, err := svc.Rename(ctx, "u1", "   "); !errors.Is(err, ErrInvalidPetName) {
		t.Fatalf("expected ErrInvalidPetName, got %v", err)
	}
}
