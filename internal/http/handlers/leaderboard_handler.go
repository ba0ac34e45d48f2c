// Leaderboard HTTP handlers.
//
// This file exposes the public ranking endpoint:
//   - GET /leaderboard/level   (top pets by level, ETag support)
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-pet-fitness-backend/internal/repo"
	"github.com/tbourn/go-pet-fitness-backend/internal/services"
	"github.com/tbourn/go-pet-fitness-backend/internal/utils"
)

// LevelLeaderboard godoc
// @ID          levelLeaderboard
// @Summary     Level leaderboard
// @Description Returns the highest-level pets, ties broken by strength. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Leaderboard
// @Produce     json
//
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       limit          query   int     false  "Board size (1-100)"  default(10)
//
// @Success     200  {array}   repo.LeaderboardEntry
// @Header      200  {string}  ETag  "Weak ETag for current board"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /leaderboard/level [get]
func (h *Handlers) LevelLeaderboard(c *gin.Context) {
	ctx := c.Request.Context()
	limit := utils.ClampInt(utils.AtoiDefault(c.Query("limit"), 10), 1, 100)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okCast := h.boardSvc.(*services.LeaderboardService); okCast {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.PetsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"board:%d:%d:%d"`, limit, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	board, err := h.boardSvc.TopByLevel(ctx, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, board)
}
