// Safe-retry support for the mutating POST endpoints.
//
// The middleware layer validates the Idempotency-Key header and flags
// replays; this file holds the handler side of the contract: look up the
// stored result for a replayed key before doing any work, and remember the
// result ID after a successful write so the next retry is served from the
// store instead of re-applying the mutation.
package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/http/middleware"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
)

// HeaderIdempotencyReplayed marks a response that was served from a stored
// result rather than re-executing the operation.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

// idempotencyKey returns the validated key stashed by the middleware, falling
// back to the raw header when the route was registered without it.
func idempotencyKey(c *gin.Context) string {
	if k, okKey := middleware.GetIdempotencyKey(c); okKey {
		return k
	}
	return strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
}

// idemDB exposes the persistence handle backing the pet service. The
// idempotency table lives in the same database as the domain rows, so any
// wired service would do; the pet service is always present.
func (h *Handlers) idemDB() *gorm.DB {
	if svc, okCast := h.petSvc.(*services.PetService); okCast {
		return svc.DB
	}
	return nil
}

func (h *Handlers) idemTTL() time.Duration {
	if h.IdempotencyTTL > 0 {
		return h.IdempotencyTTL
	}
	return 24 * time.Hour
}

// replayedResultID reports whether this request replays a completed
// operation for the same user, route, and key, and returns the stored
// result ID. Lookup failures fall through to normal processing.
func (h *Handlers) replayedResultID(c *gin.Context) (string, bool) {
	key := idempotencyKey(c)
	db := h.idemDB()
	if key == "" || db == nil {
		return "", false
	}
	rec, err := repo.GetIdempotency(c.Request.Context(), db, pathUserID(c), c.FullPath(), key, time.Now().UTC())
	if err != nil || rec == nil {
		return "", false
	}
	return rec.ResultID, true
}

// rememberResult stores the completed result for this key. Best effort: a
// failed insert only costs the retry its short-circuit, the duplicate-key
// case means a concurrent retry already stored the same outcome.
func (h *Handlers) rememberResult(c *gin.Context, resultID string, status int) {
	key := idempotencyKey(c)
	db := h.idemDB()
	if key == "" || db == nil {
		return
	}
	_, _ = repo.CreateIdempotency(c.Request.Context(), db, pathUserID(c), c.FullPath(), key, resultID, status, h.idemTTL())
}
