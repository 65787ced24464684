package handlers

import (
	"time"

	"github.com/valyala/fasthttp"

	"account-ledger/internal/models"
	"account-ledger/internal/services"
	"account-ledger/internal/utils"
)

type AuthHandler struct {
	auth  *services.AuthService
	users *services.UserService
}

func NewAuthHandler(auth *services.AuthService, users *services.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// Register handles POST /register.
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	utils.LogRequest("POST", "/register", "anonymous")

	var req models.RegisterRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}

	user, err := h.users.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		utils.LogResponse("/register", ctx.Response.StatusCode(), time.Since(start))
		return
	}

	respondJSON(ctx, fasthttp.StatusCreated, models.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
	utils.LogResponse("/register", fasthttp.StatusCreated, time.Since(start))
}

// Login handles POST /login. The throttle runs inside the auth service,
// before any credential verification.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	start := time.Now()
	utils.LogRequest("POST", "/login", "anonymous")

	var req models.LoginRequest
	if !decodeAndValidate(ctx, &req) {
		return
	}

	token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondServiceError(ctx, err)
		utils.LogResponse("/login", ctx.Response.StatusCode(), time.Since(start))
		return
	}

	respondJSON(ctx, fasthttp.StatusOK, map[string]string{"token": token})
	utils.LogResponse("/login", fasthttp.StatusOK, time.Since(start))
}
