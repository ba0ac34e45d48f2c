// Pet and exercise HTTP handlers.
//
// This file exposes REST endpoints for the pet aggregate:
//   - GET   /users/{id}/pet          (state, lazy daily cycle, ETag support)
//   - PATCH /users/{id}/pet          (rename)
//   - POST  /users/{id}/exercise     (log a session)
//   - GET   /users/{id}/exercise     (session history)
//   - POST  /users/{id}/daily-check  (explicit daily cycle)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/http/middleware"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
	"github.com/tbourn/go-pet-fitness-backend/internal/utils"
)

// LogExerciseRequest is the JSON payload for logging a session.
type LogExerciseRequest struct {
	// ExerciseType labels the session (running, walking, ...).
	ExerciseType string `json:"exercise_type" example:"running"`
	// DurationSeconds is the session length; 10 seconds = 1 strength point.
	DurationSeconds int `json:"duration_seconds" binding:"required" example:"600"`
	// Steps optionally reports a step count for the session.
	Steps int `json:"steps" example:"1200"`
}

// RenamePetRequest is the JSON payload for renaming the pet.
type RenamePetRequest struct {
	// Name is the new display name (1–60 chars).
	Name string `json:"name" binding:"required,min=1,max=60" example:"Henrietta"`
}

// GetPet godoc
// @ID          getPet
// @Summary     Get the user's pet
// @Description Returns the pet's current state. A new calendar day triggers the daily reset (and any inactivity penalty) before the state is returned. Supports weak ETag via If-None-Match.
// @Tags        Pets
// @Produce     json
//
// @Param       id             path    string  true   "User ID"                     example(townpass-8f3a)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"  example(W/\"pet:abc:42\")
//
// @Success     200  {object}  domain.Pet
// @Header      200  {string}  ETag  "Weak ETag for current state"
// @Success     304  {string}  string "Not Modified"
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/pet [get]
func (h *Handlers) GetPet(c *gin.Context) {
	p, err := h.petSvc.Get(c.Request.Context(), pathUserID(c))
	if err != nil {
		failService(c, err)
		return
	}

	etag := fmt.Sprintf(`W/"pet:%s:%d"`, p.ID, p.UpdatedAt.Unix())
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}
	ok(c, http.StatusOK, p)
}

// RenamePet godoc
// @ID          renamePet
// @Summary     Rename the pet
// @Tags        Pets
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "User ID"  example(townpass-8f3a)
// @Param       body  body  handlers.RenamePetRequest  true  "New name"
//
// @Success     200  {object}  domain.Pet
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/pet [patch]
func (h *Handlers) RenamePet(c *gin.Context) {
	var req RenamePetRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1-60 chars)")
		return
	}
	p, err := h.petSvc.Rename(c.Request.Context(), pathUserID(c), req.Name)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// LogExercise godoc
// @ID          logExercise
// @Summary     Log an exercise session
// @Description Appends the session to the audit log and feeds it through the progression engine. The response reports the points credited; a pet parked at a milestone logs the session but gains no strength until the breakthrough is completed.
// @Tags        Pets
// @Accept      json
// @Produce     json
//
// @Param       id               path    string  true   "User ID"  example(townpass-8f3a)
// @Param       Idempotency-Key  header  string  false  "Safe-retry key for this POST"
// @Param       body             body    handlers.LogExerciseRequest  true  "Session payload"
//
// @Success     201  {object}  services.ExerciseResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/exercise [post]
func (h *Handlers) LogExercise(c *gin.Context) {
	var req LogExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	uid := pathUserID(c)

	// Replay path: a retried key serves the stored session instead of
	// crediting the pet twice.
	if prevID, replay := h.replayedResultID(c); replay {
		db := h.idemDB()
		prev, errLog := repo.GetExerciseLog(ctx, db, prevID, uid)
		p, errPet := repo.GetPetByOwner(ctx, db, uid)
		if errLog == nil && errPet == nil {
			c.Header(HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, services.ExerciseResult{Log: prev, Pet: p})
			return
		}
	}

	res, err := h.petSvc.LogExercise(ctx, uid, req.ExerciseType, req.DurationSeconds, req.Steps)
	if err != nil {
		failService(c, err)
		return
	}
	h.rememberResult(c, res.Log.ID, http.StatusCreated)
	middleware.RecordExercise(res.BreakthroughRequired && res.StrengthGained == 0, res.LeveledUp)
	ok(c, http.StatusCreated, res)
}

// ListExercise godoc
// @ID          listExercise
// @Summary     List exercise history
// @Description Returns the user's logged sessions, newest first.
// @Tags        Pets
// @Produce     json
//
// @Param       id     path   string  true   "User ID"          example(townpass-8f3a)
// @Param       limit  query  int     false  "Max rows (1-200)" default(50)
//
// @Success     200  {array}   domain.ExerciseLog
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/exercise [get]
func (h *Handlers) ListExercise(c *gin.Context) {
	uid := pathUserID(c)
	limit := utils.ClampInt(utils.AtoiDefault(c.Query("limit"), 50), 1, 200)

	// The history read does not need the service layer; verify the account
	// and query the log directly.
	var db *gorm.DB
	if svc, okCast := h.petSvc.(*services.PetService); okCast {
		db = svc.DB
	}
	if db == nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "history unavailable")
		return
	}
	if _, err := h.userSvc.Get(c.Request.Context(), uid); err != nil {
		failService(c, err)
		return
	}
	logs, err := repo.ListExerciseLogs(c.Request.Context(), db, uid, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, logs)
}

// DailyCheck godoc
// @ID          dailyCheck
// @Summary     Run the daily check
// @Description Runs the once-per-day reset: refills stamina, zeroes the daily counters, resets quest slots, and applies the inactivity penalty when yesterday's exercise missed the target. Calling it again on the same day is a no-op.
// @Tags        Pets
// @Produce     json
//
// @Param       id  path  string  true  "User ID"  example(townpass-8f3a)
//
// @Success     200  {object}  services.DailyCheckResult
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/daily-check [post]
func (h *Handlers) DailyCheck(c *gin.Context) {
	res, err := h.petSvc.DailyCheck(c.Request.Context(), pathUserID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
