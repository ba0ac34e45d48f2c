package pet

import "errors"

var (
	// ErrNotAtBreakthrough is returned when completing a breakthrough on a
	// pet whose level is not a milestone (5, 10, 15, 20).
	ErrNotAtBreakthrough = errors.New("not at breakthrough level")

	// ErrBreakthroughDone is returned when the milestone's gate has already
	// been cleared.
	ErrBreakthroughDone = errors.New("already completed")
)

// CompleteBreakthrough clears the breakthrough gate at the current milestone
// and advances the stage accordingly. Preconditions are reported as sentinel
// errors, never panics; the caller maps them to user-visible rejections.
func CompleteBreakthrough(s State) (State, error) {
	if !IsMilestone(s.Level) {
		return s, ErrNotAtBreakthrough
	}
	if s.BreakthroughCompleted {
		return s, ErrBreakthroughDone
	}
	s.BreakthroughCompleted = true
	s.Stage = ResolveStage(s.Level, s.BreakthroughCompleted)
	return s, nil
}
