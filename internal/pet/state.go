// Package pet implements the pet progression engine: the pure state machine
// that converts exercise input into stat changes, level-ups, growth-stage
// transitions, breakthrough gating, and the once-per-day reset/penalty cycle.
//
// Everything in this package is deterministic and side-effect free. Functions
// take a State value and return a new State; persistence, transactions, and
// HTTP concerns live in the repo/services layers. Keeping the engine free of
// I/O makes every rule testable without a database.
package pet

import "time"

// Tuning constants for the progression system. Durations are in seconds,
// stats are plain integers.
const (
	// StrengthPerLevel is the strength threshold consumed by one level-up.
	StrengthPerLevel = 120

	// MaxLevel caps pet level; residual strength at MaxLevel is kept but
	// never converts into further levels.
	MaxLevel = 20

	// MilestoneInterval spaces the breakthrough milestones (5, 10, 15, 20).
	MilestoneInterval = 5

	// MoodMax bounds the mood stat.
	MoodMax = 100

	// DefaultStaminaMax is the daily stamina budget unless overridden on
	// the State (the mechanic shipped with 100; later revisions raised it).
	DefaultStaminaMax = 100

	// LevelUpMoodBonus is added per level gained, clamped only after all
	// level-ups in a single delta application have been processed.
	LevelUpMoodBonus = 10

	// SecondsPerStrengthPoint converts exercise duration into strength:
	// 10 seconds of exercise yields exactly one point, floor division.
	SecondsPerStrengthPoint = 10

	// ExerciseStaminaCost and ExerciseMoodGain are the fixed per-log costs,
	// applied regardless of duration.
	ExerciseStaminaCost = 10
	ExerciseMoodGain    = 5

	// MinDailyStrength is the daily exercise target (60 points = 10 minutes).
	// Missing it triggers the inactivity penalties during the daily cycle.
	MinDailyStrength = 60

	// InactivityMoodPenalty and InactivityStrengthPenalty are subtracted when
	// the prior day's target was missed. The strength penalty only compounds
	// after mood is fully depleted.
	InactivityMoodPenalty     = 10
	InactivityStrengthPenalty = 10
)

// State is the engine-visible snapshot of a pet aggregate. It is a plain
// value; callers copy it out of the persistence model, run engine functions,
// and write the result back inside their transaction.
type State struct {
	Strength              int
	Stamina               int
	Mood                  int
	Level                 int
	BreakthroughCompleted bool
	Stage                 Stage

	// StaminaMax overrides DefaultStaminaMax when > 0.
	StaminaMax int

	// Per-calendar-day counters, reset by the daily cycle.
	DailyExerciseSeconds int
	DailySteps           int

	// Quests holds today's quest slot states (see QuestState).
	Quests [QuestSlotCount]QuestState

	// LastDailyCheckAt and LastResetAt mark the last daily cycle run.
	// Zero values mean the cycle has never run.
	LastDailyCheckAt time.Time
	LastResetAt      time.Time
}

// Delta is a signed stat adjustment fed into ApplyDelta.
type Delta struct {
	Strength int
	Stamina  int
	Mood     int
}

// NewState returns the initial state of a freshly hatched (well, laid) pet:
// level 1, egg stage, full stamina, zero strength and mood.
func NewState(staminaMax int) State {
	if staminaMax <= 0 {
		staminaMax = DefaultStaminaMax
	}
	return State{
		Stamina:    staminaMax,
		StaminaMax: staminaMax,
		Level:      1,
		Stage:      StageEgg,
		Quests:     dayStartQuests(),
	}
}

// staminaCap returns the effective stamina ceiling for this state.
func (s State) staminaCap() int {
	if s.StaminaMax > 0 {
		return s.StaminaMax
	}
	return DefaultStaminaMax
}

// clamp bounds v into [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
