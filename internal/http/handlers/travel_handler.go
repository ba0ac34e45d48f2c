// Travel HTTP handlers.
//
// This file exposes REST endpoints for the breakthrough travel flow:
//   - GET  /travel/attractions              (public catalog)
//   - POST /users/{id}/travel/start         (random destination for an open gate)
//   - POST /users/{id}/travel/breakthrough  (explicit gate completion)
//   - GET  /users/{id}/travel/checkins      (history)
//   - POST /users/{id}/travel/checkins      (visit a location)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-fitness-backend/internal/domain"
	"github.com/tbourn/go-pet-fitness-backend/internal/http/middleware"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
	"github.com/tbourn/go-pet-fitness-backend/internal/utils"
)

// CheckinRequest is the JSON payload for a travel check-in.
type CheckinRequest struct {
	// AttractionID identifies the visited location.
	AttractionID string `json:"attraction_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Lat/Lng record where the user actually was.
	Lat float64 `json:"lat" example:"25.0336"`
	Lng float64 `json:"lng" example:"121.5646"`
}

// ListAttractions godoc
// @ID          listAttractions
// @Summary     List travel attractions
// @Description Returns the destination catalog. With ?q= the catalog is ranked against the query and only matches are returned.
// @Tags        Travel
// @Produce     json
//
// @Param       q      query  string  false  "Free-text search query"  example(temple)
// @Param       limit  query  int     false  "Max results for a search (default 10)"
//
// @Success     200  {array}   domain.Attraction
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /travel/attractions [get]
func (h *Handlers) ListAttractions(c *gin.Context) {
	var (
		atts []domain.Attraction
		err  error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		k := utils.ClampInt(utils.AtoiDefault(c.Query("limit"), 10), 1, 50)
		atts, err = h.travelSvc.SearchAttractions(c.Request.Context(), q, k)
	} else {
		atts, err = h.travelSvc.Attractions(c.Request.Context())
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, atts)
}

// StartBreakthrough godoc
// @ID          startBreakthrough
// @Summary     Start a breakthrough quest
// @Description Returns a random destination for a pet blocked at a milestone level. Fails with not_eligible when the pet is not at a milestone or the gate is already cleared.
// @Tags        Travel
// @Produce     json
//
// @Param       id  path  string  true  "User ID"  example(townpass-8f3a)
//
// @Success     200  {object}  domain.Attraction
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Not eligible"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/travel/start [post]
func (h *Handlers) StartBreakthrough(c *gin.Context) {
	a, err := h.travelSvc.StartBreakthrough(c.Request.Context(), pathUserID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, a)
}

// CompleteBreakthrough godoc
// @ID          completeBreakthrough
// @Summary     Complete a breakthrough
// @Description Clears the pet's open milestone gate, advancing its stage and re-enabling strength gains.
// @Tags        Travel
// @Produce     json
//
// @Param       id  path  string  true  "User ID"  example(townpass-8f3a)
//
// @Success     200  {object}  domain.Pet
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Not eligible"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/travel/breakthrough [post]
func (h *Handlers) CompleteBreakthrough(c *gin.Context) {
	p, err := h.travelSvc.CompleteBreakthrough(c.Request.Context(), pathUserID(c))
	if err != nil {
		failService(c, err)
		return
	}
	middleware.RecordBreakthrough()
	ok(c, http.StatusOK, p)
}

// ListCheckins godoc
// @ID          listCheckins
// @Summary     List travel check-ins
// @Tags        Travel
// @Produce     json
//
// @Param       id  path  string  true  "User ID"  example(townpass-8f3a)
//
// @Success     200  {array}   domain.TravelCheckin
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/travel/checkins [get]
func (h *Handlers) ListCheckins(c *gin.Context) {
	list, err := h.travelSvc.ListCheckins(c.Request.Context(), pathUserID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, list)
}

// Checkin godoc
// @ID          travelCheckin
// @Summary     Check in at an attraction
// @Description Records a visit. A first visit clears an open milestone gate and pays a fixed strength/mood bonus; repeat visits to the same location are rejected with conflict.
// @Tags        Travel
// @Accept      json
// @Produce     json
//
// @Param       id               path    string  true   "User ID"  example(townpass-8f3a)
// @Param       Idempotency-Key  header  string  false  "Safe-retry key for this POST"
// @Param       body             body    handlers.CheckinRequest  true  "Check-in payload"
//
// @Success     201  {object}  services.CheckinResult
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown attraction"
// @Failure     409  {object}  handlers.ErrorResponse  "Already checked in"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/travel/checkins [post]
func (h *Handlers) Checkin(c *gin.Context) {
	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AttractionID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "attraction_id required")
		return
	}

	ctx := c.Request.Context()
	uid := pathUserID(c)

	// Replay path: a retried key serves the stored check-in instead of
	// paying the visit bonus twice.
	if prevID, replay := h.replayedResultID(c); replay {
		db := h.idemDB()
		prev, errCk := repo.GetTravelCheckin(ctx, db, prevID, uid)
		p, errPet := repo.GetPetByOwner(ctx, db, uid)
		if errCk == nil && errPet == nil {
			c.Header(HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, services.CheckinResult{Checkin: prev, Pet: p})
			return
		}
	}

	res, err := h.travelSvc.Checkin(ctx, uid, strings.TrimSpace(req.AttractionID), req.Lat, req.Lng)
	if err != nil {
		failService(c, err)
		return
	}
	h.rememberResult(c, res.Checkin.ID, http.StatusCreated)
	if res.BreakthroughCleared {
		middleware.RecordBreakthrough()
	}
	ok(c, http.StatusCreated, res)
}
