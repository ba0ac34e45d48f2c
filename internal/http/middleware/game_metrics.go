// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus counters for progression events. They sit next
// to the HTTP collectors so /metrics serves both transport and game signals
// from one registry; handlers record events after the service call succeeds,
// keeping the service layer free of metrics plumbing.
package middleware

import "github.com/prometheus/client_golang/prometheus"

var (
	// exerciseSessions counts logged sessions, split by whether the
	// breakthrough gate withheld the strength gain.
	exerciseSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_exercise_sessions_total",
			Help: "Total exercise sessions logged.",
		},
		[]string{"gated"},
	)

	// levelUps counts level-up events across all pets.
	levelUps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pet_level_ups_total",
			Help: "Total pet level-up events.",
		},
	)

	// breakthroughs counts cleared milestone gates.
	breakthroughs = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pet_breakthroughs_total",
			Help: "Total completed breakthroughs.",
		},
	)

	// questClaims counts paid-out quest rewards by slot.
	questClaims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pet_quest_claims_total",
			Help: "Total claimed daily quest rewards.",
		},
		[]string{"slot"},
	)
)

func init() {
	prometheus.MustRegister(exerciseSessions, levelUps, breakthroughs, questClaims)
}

// RecordExercise counts a logged session. gated reports whether the strength
// gain was withheld by an open milestone gate; leveledUp whether the session
// raised the pet's level.
func RecordExercise(gated, leveledUp bool) {
	label := "false"
	if gated {
		label = "true"
	}
	exerciseSessions.WithLabelValues(label).Inc()
	if leveledUp {
		levelUps.Inc()
	}
}

// RecordBreakthrough counts a cleared milestone gate.
func RecordBreakthrough() {
	breakthroughs.Inc()
}

// RecordQuestClaim counts a paid-out reward for the named quest slot.
func RecordQuestClaim(slot string) {
	questClaims.WithLabelValues(slot).Inc()
}
