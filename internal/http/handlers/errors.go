// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, conflict) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes (e.g., breakthrough_required, quest_not_met) are
//     reserved for progression rules that cannot be conveyed by status alone.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "breakthrough_required",
//	  "message": "pet is not at a breakthrough level"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeBreakthroughRequired = "breakthrough_required"
	ErrCodeNotEligible          = "not_eligible"
	ErrCodeQuestNotMet          = "quest_not_met"
	ErrCodeQuestClaimed         = "quest_claimed"
	ErrCodeQuestExpired         = "quest_expired"
	ErrCodeMethodNotAllowed     = "method_not_allowed"
)
