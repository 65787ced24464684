package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"

	"account-ledger/internal/services"
	"account-ledger/internal/utils"
)

type AuthMiddleware struct {
	auth *services.AuthService
}

func NewAuthMiddleware(auth *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(`{"error":"` + message + `"}`)
}

// RequireAuth validates the Bearer token and stores the caller's user id in
// the request context under "user_id".
func (m *AuthMiddleware) RequireAuth(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		header := string(ctx.Request.Header.Peek("Authorization"))
		if header == "" {
			unauthorized(ctx, "authorization required")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			unauthorized(ctx, "malformed authorization header")
			return
		}

		claims, err := m.auth.ValidateToken(token)
		if err != nil {
			utils.LogWarning("Middleware", "Rejected token: %v", err)
			unauthorized(ctx, "invalid or expired token")
			return
		}

		ctx.SetUserValue("user_id", claims.UserID)
		next(ctx)
	}
}
