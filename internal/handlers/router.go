package handlers

import (
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"account-ledger/internal/middleware"
)

// Router dispatches on method and path segments. Registration and login are
// public; everything else sits behind the JWT middleware.
type Router struct {
	auth     *AuthHandler
	users    *UserHandler
	accounts *AccountHandler
	ledger   *LedgerHandler
	guard    *middleware.AuthMiddleware
}

func NewRouter(auth *AuthHandler, users *UserHandler, accounts *AccountHandler, ledger *LedgerHandler, guard *middleware.AuthMiddleware) *Router {
	return &Router{auth: auth, users: users, accounts: accounts, ledger: ledger, guard: guard}
}

func (r *Router) Handler() fasthttp.RequestHandler {
	protected := r.guard.RequireAuth(r.route)
	return func(ctx *fasthttp.RequestCtx) {
		method := string(ctx.Method())
		path := string(ctx.Path())

		switch {
		case method == fasthttp.MethodGet && path == "/health":
			respondJSON(ctx, fasthttp.StatusOK, map[string]string{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		case method == fasthttp.MethodPost && path == "/register":
			r.auth.Register(ctx)
		case method == fasthttp.MethodPost && path == "/login":
			r.auth.Login(ctx)
		default:
			protected(ctx)
		}
	}
}

func (r *Router) route(ctx *fasthttp.RequestCtx) {
	method := string(ctx.Method())
	segments := splitPath(string(ctx.Path()))

	switch {
	case len(segments) > 0 && segments[0] == "users":
		r.routeUsers(ctx, method, segments[1:])
	case len(segments) > 0 && segments[0] == "accounts":
		r.routeAccounts(ctx, method, segments[1:])
	case method == fasthttp.MethodPost && len(segments) == 1 && segments[0] == "transfers":
		r.ledger.Transfer(ctx)
	default:
		respondError(ctx, fasthttp.StatusNotFound, "unknown route")
	}
}

func (r *Router) routeUsers(ctx *fasthttp.RequestCtx, method string, rest []string) {
	switch {
	case method == fasthttp.MethodGet && len(rest) == 0:
		r.users.List(ctx)
	case method == fasthttp.MethodGet && len(rest) == 1:
		r.users.Get(ctx, rest[0])
	case method == fasthttp.MethodPut && len(rest) == 1:
		r.users.Update(ctx, rest[0])
	case method == fasthttp.MethodDelete && len(rest) == 1:
		r.users.Delete(ctx, rest[0])
	case method == fasthttp.MethodPut && len(rest) == 2 && rest[1] == "password":
		r.users.ChangePassword(ctx, rest[0])
	default:
		respondError(ctx, fasthttp.StatusNotFound, "unknown route")
	}
}

func (r *Router) routeAccounts(ctx *fasthttp.RequestCtx, method string, rest []string) {
	switch {
	case method == fasthttp.MethodPost && len(rest) == 0:
		r.accounts.Create(ctx)
	case method == fasthttp.MethodGet && len(rest) == 0:
		r.accounts.List(ctx)
	case method == fasthttp.MethodGet && len(rest) == 1:
		r.accounts.Get(ctx, rest[0])
	case method == fasthttp.MethodPut && len(rest) == 1:
		r.accounts.Update(ctx, rest[0])
	case method == fasthttp.MethodDelete && len(rest) == 1:
		r.accounts.Delete(ctx, rest[0])
	case method == fasthttp.MethodPost && len(rest) == 2 && rest[1] == "deposit":
		r.ledger.Deposit(ctx, rest[0])
	case method == fasthttp.MethodPost && len(rest) == 2 && rest[1] == "withdraw":
		r.ledger.Withdraw(ctx, rest[0])
	default:
		respondError(ctx, fasthttp.StatusNotFound, "unknown route")
	}
}

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}
