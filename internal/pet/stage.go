package pet

// Stage is the pet's visual/mechanical growth tier. The integer values are
// persisted and exposed over the API, so the order is part of the contract.
type Stage int

const (
	StageEgg Stage = iota
	StageChick
	StageChicken
	StageBigChicken
	StageBuffChicken
)

// String returns the wire-stable name of the stage.
func (s Stage) String() string {
	switch s {
	case StageEgg:
		return "EGG"
	case StageChick:
		return "CHICK"
	case StageChicken:
		return "CHICKEN"
	case StageBigChicken:
		return "BIG_CHICKEN"
	case StageBuffChicken:
		return "BUFF_CHICKEN"
	default:
		return "UNKNOWN"
	}
}

// IsMilestone reports whether level is a breakthrough milestone (5, 10, 15, 20).
func IsMilestone(level int) bool {
	return level >= MilestoneInterval && level%MilestoneInterval == 0
}

// NeedsBreakthrough reports whether strength gain is currently blocked:
// the pet sits on a milestone whose gate has not been cleared.
func NeedsBreakthrough(level int, breakthroughCompleted bool) bool {
	return IsMilestone(level) && !breakthroughCompleted
}

// ResolveStage derives the growth stage from (level, breakthroughCompleted).
//
// While a milestone's gate is open (breakthrough not completed), the pet is
// held at the stage of the previous milestone: reaching level 10 without the
// breakthrough still shows the level-5 stage. Otherwise the stage is the
// highest milestone threshold at or below level.
//
// This is the single source of truth for Stage; the cached Pet.Stage column
// is recomputed from it on every engine write and never set independently.
func ResolveStage(level int, breakthroughCompleted bool) Stage {
	if level < 1 {
		level = 1
	}
	effective := level
	if NeedsBreakthrough(level, breakthroughCompleted) {
		effective = level - MilestoneInterval
	}
	switch {
	case effective >= 4*MilestoneInterval:
		return StageBuffChicken
	case effective >= 3*MilestoneInterval:
		return StageBigChicken
	case effective >= 2*MilestoneInterval:
		return StageChicken
	case effective >= MilestoneInterval:
		return StageChick
	default:
		return StageEgg
	}
}
