// Quest HTTP handlers.
//
// This file exposes REST endpoints for daily quests:
//   - GET  /users/{id}/quests                   (today's quests)
//   - POST /users/{id}/quests/{questID}/claim   (claim a reward)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-pet-fitness-backend/internal/http/middleware"
	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
)

// ListQuests godoc
// @ID          listQuests
// @Summary     List today's quests
// @Description Returns the user's daily quest rows, materialized from the catalog on first access of the day. States are NOT_MET, CLAIMABLE, or CLAIMED.
// @Tags        Quests
// @Produce     json
//
// @Param       id  path  string  true  "User ID"  example(townpass-8f3a)
//
// @Success     200  {array}   domain.UserQuest
// @Failure     404  {object}  handlers.ErrorResponse  "User or pet not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/quests [get]
func (h *Handlers) ListQuests(c *gin.Context) {
	rows, err := h.questSvc.ListDaily(c.Request.Context(), pathUserID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, rows)
}

// ClaimQuest godoc
// @ID          claimQuest
// @Summary     Claim a quest reward
// @Description Pays out a claimable quest. The strength portion of the reward respects the breakthrough gate: a pet parked at a milestone keeps the mood/stamina parts but gains no strength.
// @Tags        Quests
// @Produce     json
//
// @Param       id               path    string  true   "User ID"        example(townpass-8f3a)
// @Param       questID          path    string  true   "User-quest ID"  format(uuid)
// @Param       Idempotency-Key  header  string  false  "Safe-retry key for this POST"
//
// @Success     200  {object}  services.ClaimResult
// @Failure     404  {object}  handlers.ErrorResponse  "Quest not found"
// @Failure     409  {object}  handlers.ErrorResponse  "Not claimable / already claimed / expired"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id}/quests/{questID}/claim [post]
func (h *Handlers) ClaimQuest(c *gin.Context) {
	questID := strings.TrimSpace(c.Param("questID"))
	if questID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "quest id required")
		return
	}

	ctx := c.Request.Context()
	uid := pathUserID(c)

	// Replay path: a retried key serves the already-claimed row instead of
	// bouncing the client off the quest_claimed conflict.
	if prevID, replay := h.replayedResultID(c); replay {
		db := h.idemDB()
		prev, errQ := repo.GetUserQuest(ctx, db, prevID, uid)
		p, errPet := repo.GetPetByOwner(ctx, db, uid)
		if errQ == nil && errPet == nil {
			c.Header(HeaderIdempotencyReplayed, "true")
			ok(c, http.StatusOK, services.ClaimResult{Quest: prev, Pet: p})
			return
		}
	}

	res, err := h.questSvc.Claim(ctx, uid, questID)
	if err != nil {
		failService(c, err)
		return
	}
	h.rememberResult(c, res.Quest.ID, http.StatusOK)
	middleware.RecordQuestClaim(res.Quest.Quest.Title)
	ok(c, http.StatusOK, res)
}
