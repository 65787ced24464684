package handlers

import (
	"strconv"

	"github.com/valyala/fasthttp"

	"account-ledger/internal/models"
	"account-ledger/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func queryInt(ctx *fasthttp.RequestCtx, key string, fallback int) int {
	raw := string(ctx.QueryArgs().Peek(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// List handles GET /users with page_number, page_size, search and sort query
// parameters.
func (h *UserHandler) List(ctx *fasthttp.RequestCtx) {
	page := queryInt(ctx, "page_number", 1)
	pageSize := queryInt(ctx, "page_size", 10)
	search := string(ctx.QueryArgs().Peek("search"))
	sort := string(ctx.QueryArgs().Peek("sort"))

	resp, err := h.users.List(ctx, page, pageSize, search, sort)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, resp)
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(ctx *fasthttp.RequestCtx, userID string) {
	user, err := h.users.Get(ctx, userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, models.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(ctx *fasthttp.RequestCtx, userID string) {
	var req models.UpdateUserRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}
	if err := h.users.Update(ctx, userID, req.Name, req.Email); err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, models.UserResponse{ID: userID, Name: req.Name, Email: req.Email})
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(ctx *fasthttp.RequestCtx, userID string) {
	if err := h.users.Delete(ctx, userID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, map[string]string{"id": userID, "status": "deleted"})
}

// ChangePassword handles PUT /users/{id}/password.
func (h *UserHandler) ChangePassword(ctx *fasthttp.RequestCtx, userID string) {
	var req models.ChangePasswordRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}
	if err := h.users.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(ctx, err)
		return
	}
	respondJSON(ctx, fasthttp.StatusOK, map[string]string{"id": userID, "status": "password changed"})
}
