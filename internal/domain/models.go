// Package domain defines the persistence models for users, pets, exercise
// logs, quests, and travel check-ins. These types are mapped with GORM and
// form the core data layer of the pet fitness application.
package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/pet"
)

// User represents an account, identified by an externally issued ID (the
// city-pass identifier supplied at registration). Each user owns exactly one
// pet, created atomically with the user; pets, logs, quests, and check-ins
// are cascade-deleted with their owner.
type User struct {
	ID        string         `json:"id"         gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`

	// Pet is the one-to-one companion record.
	Pet *Pet `json:"pet,omitempty" gorm:"foreignKey:OwnerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Pet is the sole mutable aggregate of the progression system. It is mutated
// exclusively through the engine write paths (exercise, quest claims, the
// daily cycle, breakthroughs); Stage is a cached projection of
// (Level, BreakthroughCompleted) recomputed on every write and never settable
// on its own.
//
// Fields:
//   - Strength: progression currency, [0, StrengthPerLevel) except while
//     parked at 0 behind a closed breakthrough gate.
//   - Stamina: daily exercise budget, refilled to StaminaMax once per day.
//   - Mood: [0, 100], rises with exercise/rewards, decays on missed targets.
//   - Level: [1, 20], never decreases.
//   - Quest*: today's quest slot states (pet.QuestState integers).
//   - Daily*: per-calendar-day counters, zeroed by the daily cycle.
type Pet struct {
	ID      string `json:"id"       gorm:"type:char(36);primaryKey"`
	OwnerID string `json:"owner_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	Name    string `json:"name"     gorm:"type:varchar(255);not null"`

	Strength              int       `json:"strength"               gorm:"not null;default:0"`
	Stamina               int       `json:"stamina"                gorm:"not null;default:100"`
	Mood                  int       `json:"mood"                   gorm:"not null;default:0"`
	Level                 int       `json:"level"                  gorm:"not null;default:1"`
	BreakthroughCompleted bool      `json:"breakthrough_completed" gorm:"not null;default:false"`
	Stage                 pet.Stage `json:"stage"                  gorm:"not null;default:0"`

	DailyExerciseSeconds int `json:"daily_exercise_seconds" gorm:"not null;default:0"`
	DailySteps           int `json:"daily_steps"            gorm:"not null;default:0"`

	QuestCheckin   pet.QuestState `json:"quest_checkin"   gorm:"not null;default:1"`
	QuestExercise  pet.QuestState `json:"quest_exercise"  gorm:"not null;default:0"`
	QuestEndurance pet.QuestState `json:"quest_endurance" gorm:"not null;default:0"`

	LastDailyCheckAt *time.Time `json:"last_daily_check_at,omitempty"`
	LastResetAt      *time.Time `json:"last_reset_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for Pet.
func (Pet) TableName() string { return "pets" }

// EngineState copies the engine-visible fields into a pet.State value.
// staminaMax configures the stamina ceiling for clamping and refills.
func (p *Pet) EngineState(staminaMax int) pet.State {
	s := pet.State{
		Strength:              p.Strength,
		Stamina:               p.Stamina,
		Mood:                  p.Mood,
		Level:                 p.Level,
		BreakthroughCompleted: p.BreakthroughCompleted,
		Stage:                 p.Stage,
		StaminaMax:            staminaMax,
		DailyExerciseSeconds:  p.DailyExerciseSeconds,
		DailySteps:            p.DailySteps,
		Quests: [pet.QuestSlotCount]pet.QuestState{
			pet.QuestSlotCheckin:   p.QuestCheckin,
			pet.QuestSlotExercise:  p.QuestExercise,
			pet.QuestSlotEndurance: p.QuestEndurance,
		},
	}
	if p.LastDailyCheckAt != nil {
		s.LastDailyCheckAt = *p.LastDailyCheckAt
	}
	if p.LastResetAt != nil {
		s.LastResetAt = *p.LastResetAt
	}
	return s
}

// SetEngineState writes an engine result back onto the model. The stage comes
// from the engine (which recomputes it on every mutation), keeping the cached
// column consistent with the resolver.
func (p *Pet) SetEngineState(s pet.State) {
	p.Strength = s.Strength
	p.Stamina = s.Stamina
	p.Mood = s.Mood
	p.Level = s.Level
	p.BreakthroughCompleted = s.BreakthroughCompleted
	p.Stage = s.Stage
	p.DailyExerciseSeconds = s.DailyExerciseSeconds
	p.DailySteps = s.DailySteps
	p.QuestCheckin = s.Quests[pet.QuestSlotCheckin]
	p.QuestExercise = s.Quests[pet.QuestSlotExercise]
	p.QuestEndurance = s.Quests[pet.QuestSlotEndurance]
	if !s.LastDailyCheckAt.IsZero() {
		t := s.LastDailyCheckAt
		p.LastDailyCheckAt = &t
	}
	if !s.LastResetAt.IsZero() {
		t := s.LastResetAt
		p.LastResetAt = &t
	}
}

// ExerciseLog is the append-only audit trail of exercise sessions. A log row
// is written unconditionally, independent of whether the engine blocked the
// strength gain for that session.
type ExerciseLog struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID          string    `json:"user_id"          gorm:"type:varchar(64);not null;index:idx_user_logs,priority:1"`
	PetID           string    `json:"pet_id"           gorm:"type:char(36);not null;index"`
	ExerciseType    string    `json:"exercise_type"    gorm:"type:varchar(64);not null"`
	DurationSeconds int       `json:"duration_seconds" gorm:"not null"`
	Steps           int       `json:"steps"            gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"       gorm:"index:idx_user_logs,priority:2"`

	// User is the owner; logs are cascade-deleted with the account.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ExerciseLog.
func (ExerciseLog) TableName() string { return "exercise_logs" }

// Quest is a static daily-quest template, seeded once at startup and treated
// as immutable configuration afterwards. Slot ties the template to the
// engine's quest slot indices.
type Quest struct {
	ID          string `json:"id"          gorm:"type:char(36);primaryKey"`
	Slot        int    `json:"slot"        gorm:"not null;uniqueIndex"`
	Title       string `json:"title"       gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`

	RewardStrength int `json:"reward_strength" gorm:"not null;default:0"`
	RewardStamina  int `json:"reward_stamina"  gorm:"not null;default:0"`
	RewardMood     int `json:"reward_mood"     gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Quest.
func (Quest) TableName() string { return "quests" }

// UserQuest is the per-user, per-day projection of a quest slot, exposed by
// the quests listing API. The authoritative slot state lives on the Pet row;
// this row mirrors it for "today" and records the claim for history.
type UserQuest struct {
	ID      string         `json:"id"       gorm:"type:char(36);primaryKey"`
	QuestID string         `json:"quest_id" gorm:"type:char(36);not null;index"`
	UserID  string         `json:"user_id"  gorm:"type:varchar(64);not null;index:idx_user_quest_day,priority:1"`
	Date    time.Time      `json:"date"     gorm:"not null;index:idx_user_quest_day,priority:2"`
	State   pet.QuestState `json:"state"    gorm:"not null;default:0"`

	Quest Quest `json:"quest" gorm:"foreignKey:QuestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User  User  `json:"-"     gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserQuest.
func (UserQuest) TableName() string { return "user_quests" }

// Attraction is a travel point of interest used for breakthrough quests.
// Seeded at startup; read-only afterwards.
type Attraction struct {
	ID          string   `json:"id"          gorm:"type:char(36);primaryKey"`
	Name        string   `json:"name"        gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string   `json:"description" gorm:"type:text"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Attraction.
func (Attraction) TableName() string { return "attractions" }

// TravelCheckin records a completed location visit. A user can check in at a
// given location at most once (enforced by unique index), which makes the
// operation idempotent from the caller's perspective.
type TravelCheckin struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);not null;index;uniqueIndex:ux_checkin_user_quest"`
	QuestID     string    `json:"quest_id"     gorm:"type:varchar(64);not null;index;uniqueIndex:ux_checkin_user_quest"`
	Lat         float64   `json:"lat"          gorm:"not null"`
	Lng         float64   `json:"lng"          gorm:"not null"`
	CompletedAt time.Time `json:"completed_at" gorm:"not null"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for TravelCheckin.
func (TravelCheckin) TableName() string { return "travel_checkins" }
