package pet

// ApplyDelta applies a stat delta to the state and resolves level-ups and
// breakthrough gating. It returns the new state and whether the strength gain
// was blocked by an uncleared breakthrough milestone.
//
// Rules, in order:
//
//  1. If the pet sits on an uncleared milestone and the delta would add
//     strength, the strength gain is dropped entirely (no partial credit).
//     Stamina and mood deltas still apply. No level-up processing runs.
//  2. Otherwise strength accumulates; every StrengthPerLevel points convert
//     into one level (stamina refilled, +LevelUpMoodBonus mood). Hitting a
//     milestone level closes its gate and stops the loop immediately; a
//     single call never crosses two milestones no matter how large the delta.
//  3. Residual strength at a freshly closed gate is forfeited (no banking
//     points across the gate).
//  4. Stamina and mood are clamped to their ranges; the mood bonus from
//     multiple level-ups in one call accumulates before the single clamp.
//  5. Stage is recomputed from (level, breakthroughCompleted).
//
// Negative strength deltas never trigger level logic; strength floors at 0.
func ApplyDelta(s State, d Delta) (State, bool) {
	if NeedsBreakthrough(s.Level, s.BreakthroughCompleted) && d.Strength > 0 {
		s.Stamina = clamp(s.Stamina+d.Stamina, 0, s.staminaCap())
		s.Mood = clamp(s.Mood+d.Mood, 0, MoodMax)
		s.Stage = ResolveStage(s.Level, s.BreakthroughCompleted)
		return s, true
	}

	s.Strength += d.Strength
	for s.Strength >= StrengthPerLevel && s.Level < MaxLevel {
		s.Strength -= StrengthPerLevel
		s.Level++
		s.Stamina = s.staminaCap()
		s.Mood += LevelUpMoodBonus // clamped once, below
		if IsMilestone(s.Level) {
			s.BreakthroughCompleted = false
			break
		}
	}

	// No banking of excess points across a closed gate.
	if NeedsBreakthrough(s.Level, s.BreakthroughCompleted) {
		s.Strength = 0
	}
	if s.Strength < 0 {
		s.Strength = 0
	}

	s.Stamina = clamp(s.Stamina+d.Stamina, 0, s.staminaCap())
	s.Mood = clamp(s.Mood+d.Mood, 0, MoodMax)
	s.Stage = ResolveStage(s.Level, s.BreakthroughCompleted)
	return s, false
}

// ExerciseDeltas converts a logged exercise session into a stat delta.
// Strength is earned at one point per SecondsPerStrengthPoint seconds,
// fractional seconds discarded. The stamina cost and mood gain are fixed and
// apply to any session, even a one-second log.
func ExerciseDeltas(durationSeconds int) Delta {
	strength := 0
	if durationSeconds > 0 {
		strength = durationSeconds / SecondsPerStrengthPoint
	}
	return Delta{
		Strength: strength,
		Stamina:  -ExerciseStaminaCost,
		Mood:     +ExerciseMoodGain,
	}
}

// NoteExercise accumulates a session into the daily counters and promotes
// quest slots whose targets the session satisfies. It does not touch stats;
// callers pair it with ApplyDelta(ExerciseDeltas(...)).
func NoteExercise(s State, durationSeconds, steps int) State {
	if durationSeconds > 0 {
		s.DailyExerciseSeconds += durationSeconds
	}
	if steps > 0 {
		s.DailySteps += steps
	}
	if s.Quests[QuestSlotExercise] == QuestNotMet {
		s.Quests[QuestSlotExercise] = QuestClaimable
	}
	if s.Quests[QuestSlotEndurance] == QuestNotMet &&
		s.DailyExerciseSeconds >= EnduranceQuestSeconds {
		s.Quests[QuestSlotEndurance] = QuestClaimable
	}
	return s
}
