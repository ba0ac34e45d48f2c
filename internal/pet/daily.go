package pet

import "time"

// DailyResult reports what the daily cycle did (or skipped).
type DailyResult struct {
	// AlreadyChecked is true when the cycle already ran for now's calendar
	// day (or later) and the state was returned unchanged.
	AlreadyChecked bool

	// MetRequirement is true when yesterday's accumulated strength points
	// reached MinDailyStrength.
	MetRequirement bool

	// TotalStrengthYesterday is the summed strength points earned from
	// exercise logs within yesterday's calendar day.
	TotalStrengthYesterday int

	// MoodPenalized / StrengthPenalized flag which inactivity penalties
	// actually applied.
	MoodPenalized     bool
	StrengthPenalized bool
}

// SameCalendarDay reports whether a and b fall on the same UTC calendar day.
// All daily-cycle boundaries in this system are UTC midnights; the original
// implementation mixed naive and aware timestamps, which this deliberately
// does not reproduce.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DayWindow returns the UTC [start, end) bounds of the calendar day that
// precedes now's day. The repo layer uses it to sum yesterday's exercise.
func DayWindow(now time.Time) (start, end time.Time) {
	y, m, d := now.UTC().Date()
	end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start = end.AddDate(0, 0, -1)
	return start, end
}

// RunDailyCycle performs the once-per-calendar-day reset and inactivity
// penalty pass. It is idempotent: if the cycle already ran on now's UTC
// calendar day (or a later one, e.g. clock skew), the state is returned
// unchanged with AlreadyChecked set.
//
// On a fresh day it:
//   - refills stamina and zeroes the daily exercise/step counters,
//   - resets the quest slots to their day-start states,
//   - checks totalStrengthYesterday against MinDailyStrength and, on a miss,
//     subtracts InactivityMoodPenalty from mood (floored at 0); only when
//     mood bottoms out at exactly 0 does strength also drop by
//     InactivityStrengthPenalty (floored at 0),
//   - stamps LastResetAt and LastDailyCheckAt with now.
//
// This is the only code path where mood or strength decrease from inactivity.
func RunDailyCycle(s State, totalStrengthYesterday int, now time.Time) (State, DailyResult) {
	if !s.LastDailyCheckAt.IsZero() {
		if SameCalendarDay(s.LastDailyCheckAt, now) || s.LastDailyCheckAt.After(now) {
			return s, DailyResult{
				AlreadyChecked: true,
				MetRequirement: totalStrengthYesterday >= MinDailyStrength,

				TotalStrengthYesterday: totalStrengthYesterday,
			}
		}
	}

	res := DailyResult{
		TotalStrengthYesterday: totalStrengthYesterday,
		MetRequirement:         totalStrengthYesterday >= MinDailyStrength,
	}

	s.Stamina = s.staminaCap()
	s.DailyExerciseSeconds = 0
	s.DailySteps = 0
	s.Quests = dayStartQuests()
	s.LastResetAt = now

	if !res.MetRequirement {
		s.Mood = clamp(s.Mood-InactivityMoodPenalty, 0, MoodMax)
		res.MoodPenalized = true
		if s.Mood == 0 && s.Strength > 0 {
			s.Strength = clamp(s.Strength-InactivityStrengthPenalty, 0, s.Strength)
			res.StrengthPenalized = true
		}
	}

	s.LastDailyCheckAt = now
	s.Stage = ResolveStage(s.Level, s.BreakthroughCompleted)
	return s, res
}
