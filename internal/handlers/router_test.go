package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/valyala/fasthttp"

	"account-ledger/internal/middleware"
	"account-ledger/internal/repository"
	"account-ledger/internal/services"
	"account-ledger/internal/throttle"
)

type testStack struct {
	handler fasthttp.RequestHandler
	store   *repository.MemoryAccountStore
	token   string
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	accountStore := repository.NewMemoryAccountStore()
	userStore := repository.NewMemoryUserStore()
	auth := services.NewAuthService("test-secret", time.Hour, userStore, throttle.NewTracker())
	users := services.NewUserService(userStore, auth)
	accounts := services.NewAccountService(accountStore)
	ledger := services.NewLedgerService(accountStore)

	router := NewRouter(
		NewAuthHandler(auth, users),
		NewUserHandler(users),
		NewAccountHandler(accounts),
		NewLedgerHandler(ledger),
		middleware.NewAuthMiddleware(auth),
	)

	user, err := users.Register(context.Background(), "Tester", "tester@example.com", "password")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	return &testStack{handler: router.Handler(), store: accountStore, token: token}
}

func (s *testStack) do(t *testing.T, method, path string, body interface{}, withAuth bool) *fasthttp.RequestCtx {
	t.Helper()

	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(path)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req.SetBody(data)
		req.Header.SetContentType("application/json")
	}
	if withAuth {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.handler(ctx)
	return ctx
}

func decodeBody(t *testing.T, ctx *fasthttp.RequestCtx, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), dest); err != nil {
		t.Fatalf("decode response %q: %v", ctx.Response.Body(), err)
	}
}

func (s *testStack) createAccount(t *testing.T, email string) string {
	t.Helper()
	ctx := s.do(t, "POST", "/accounts", map[string]string{
		"name":         "Holder",
		"email":        email,
		"account_type": "savings",
	}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusCreated {
		t.Fatalf("create account status=%d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp struct {
		ID      string `json:"id"`
		Balance string `json:"balance"`
	}
	decodeBody(t, ctx, &resp)
	if resp.Balance != "50.000" {
		t.Fatalf("opening balance = %q, want \"50.000\"", resp.Balance)
	}
	return resp.ID
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestStack(t)
	ctx := s.do(t, "GET", "/health", nil, false)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status=%d", ctx.Response.StatusCode())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestStack(t)
	ctx := s.do(t, "GET", "/accounts", nil, false)
	if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", ctx.Response.StatusCode())
	}
}

func TestDepositEndpoint(t *testing.T) {
	s := newTestStack(t)
	id := s.createAccount(t, "x@example.com")

	ctx := s.do(t, "POST", fmt.Sprintf("/accounts/%s/deposit", id), map[string]string{"amount": "25"}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status=%d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp struct {
		Balance string `json:"balance"`
	}
	decodeBody(t, ctx, &resp)
	if resp.Balance != "75.000" {
		t.Fatalf("balance = %q, want \"75.000\"", resp.Balance)
	}
}

func TestWithdrawInsufficientEndpoint(t *testing.T) {
	s := newTestStack(t)
	id := s.createAccount(t, "x@example.com")

	ctx := s.do(t, "POST", fmt.Sprintf("/accounts/%s/withdraw", id), map[string]string{"amount": "100"}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusUnprocessableEntity {
		t.Fatalf("status=%d, want 422", ctx.Response.StatusCode())
	}
}

func TestTransferEndpoint(t *testing.T) {
	s := newTestStack(t)
	from := s.createAccount(t, "x@example.com")
	to := s.createAccount(t, "y@example.com")

	ctx := s.do(t, "POST", "/transfers", map[string]string{
		"from_account_id": from,
		"to_account_id":   to,
		"amount":          "25.500",
	}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status=%d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var resp struct {
		FromBalance string `json:"from_balance"`
		ToBalance   string `json:"to_balance"`
	}
	decodeBody(t, ctx, &resp)
	if resp.FromBalance != "24.500" || resp.ToBalance != "75.500" {
		t.Fatalf("balances = %s / %s", resp.FromBalance, resp.ToBalance)
	}
}

func TestTransferMissingDestinationEndpoint(t *testing.T) {
	s := newTestStack(t)
	from := s.createAccount(t, "x@example.com")

	ctx := s.do(t, "POST", "/transfers", map[string]string{
		"from_account_id": from,
		"to_account_id":   "ghost",
		"amount":          "10",
	}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("status=%d, want 404", ctx.Response.StatusCode())
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	s := newTestStack(t)
	id := s.createAccount(t, "x@example.com")

	for _, amount := range []string{"0", "-5", "abc"} {
		ctx := s.do(t, "POST", fmt.Sprintf("/accounts/%s/deposit", id), map[string]string{"amount": amount}, true)
		if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
			t.Errorf("amount %q: status=%d, want 400", amount, ctx.Response.StatusCode())
		}
	}
}

func TestCreateAccountValidation(t *testing.T) {
	s := newTestStack(t)

	ctx := s.do(t, "POST", "/accounts", map[string]string{
		"name":         "Holder",
		"email":        "not-an-email",
		"account_type": "savings",
	}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("status=%d, want 400", ctx.Response.StatusCode())
	}

	ctx = s.do(t, "POST", "/accounts", map[string]string{
		"name":         "Holder",
		"email":        "h@example.com",
		"account_type": "premium",
	}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("bad account_type: status=%d, want 400", ctx.Response.StatusCode())
	}
}

func TestDuplicateAccountEmail(t *testing.T) {
	s := newTestStack(t)
	s.createAccount(t, "x@example.com")

	ctx := s.do(t, "POST", "/accounts", map[string]string{
		"name":         "Other",
		"email":        "x@example.com",
		"account_type": "checking",
	}, true)
	if ctx.Response.StatusCode() != fasthttp.StatusConflict {
		t.Fatalf("status=%d, want 409", ctx.Response.StatusCode())
	}
}

func TestLoginThrottleOverHTTP(t *testing.T) {
	s := newTestStack(t)

	for i := 0; i < 5; i++ {
		ctx := s.do(t, "POST", "/login", map[string]string{
			"email":    "tester@example.com",
			"password": "wrong",
		}, false)
		if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
			t.Fatalf("attempt %d: status=%d, want 401", i+1, ctx.Response.StatusCode())
		}
	}

	ctx := s.do(t, "POST", "/login", map[string]string{
		"email":    "tester@example.com",
		"password": "password",
	}, false)
	if ctx.Response.StatusCode() != fasthttp.StatusForbidden {
		t.Fatalf("status=%d, want 403 while in cooldown", ctx.Response.StatusCode())
	}
}
