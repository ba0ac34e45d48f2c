// User HTTP handlers.
//
// This file exposes REST endpoints for account resources:
//   - POST /users        (register; creates the pet atomically)
//   - GET  /users/{id}   (fetch account with pet)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RegisterUserRequest is the JSON payload for account registration. The ID is
// the externally issued city-pass identifier.
type RegisterUserRequest struct {
	// ID is the external user identifier (1–64 chars).
	ID string `json:"id" binding:"required,min=1,max=64" example:"townpass-8f3a"`
	// PetName optionally names the companion; a default is used when empty.
	PetName string `json:"pet_name" example:"Pecky"`
}

// RegisterUser godoc
// @ID          registerUser
// @Summary     Register a user
// @Description Creates an account and its pet atomically. The pet starts at level 1 with full stamina.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.RegisterUserRequest  true  "Registration payload"
//
// @Success     201  {object}  domain.User
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "User already exists"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users [post]
func (h *Handlers) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id required (1-64 chars)")
		return
	}

	u, err := h.userSvc.Register(c.Request.Context(), strings.TrimSpace(req.ID), req.PetName)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user
// @Description Returns the account with its pet preloaded.
// @Tags        Users
// @Produce     json
//
// @Param       id  path  string  true  "User ID"  example(townpass-8f3a)
//
// @Success     200  {object}  domain.User
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.userSvc.Get(c.Request.Context(), pathUserID(c))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
