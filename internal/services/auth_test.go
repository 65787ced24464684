package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"account-ledger/internal/models"
	"account-ledger/internal/repository"
	"account-ledger/internal/throttle"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newAuthFixture(t *testing.T) (*AuthService, *UserService, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	tracker := throttle.NewTrackerWithClock(5, 1800*time.Second, clock.now)
	users := repository.NewMemoryUserStore()
	auth := NewAuthService("test-secret", time.Hour, users, tracker)
	return auth, NewUserService(users, auth), clock
}

func registerUser(t *testing.T, users *UserService, email, password string) {
	t.Helper()
	if _, err := users.Register(context.Background(), "Alice", email, password); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registerUser(t, users, "a@b.com", "secret-pass")

	token, err := auth.Login(context.Background(), "a@b.com", "secret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID == "" {
		t.Fatal("token carries no user id")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registerUser(t, users, "a@b.com", "secret-pass")

	_, err := auth.Login(context.Background(), "a@b.com", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	_, err := auth.Login(context.Background(), "ghost@b.com", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v, want ErrInvalidCredentials (no email enumeration)", err)
	}
}

func TestLoginLockedAfterFiveFailures(t *testing.T) {
	auth, users, clock := newAuthFixture(t)
	registerUser(t, users, "a@b.com", "secret-pass")

	for i := 0; i < 5; i++ {
		if _, err := auth.Login(context.Background(), "a@b.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d err=%v, want ErrInvalidCredentials", i+1, err)
		}
	}

	// Sixth attempt is rejected before credential verification, even with
	// the correct password.
	if _, err := auth.Login(context.Background(), "a@b.com", "secret-pass"); !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("err=%v, want ErrTooManyAttempts", err)
	}

	// After the cooldown elapses the next evaluation treats the state as
	// clear again.
	clock.advance(1801 * time.Second)
	if _, err := auth.Login(context.Background(), "a@b.com", "secret-pass"); err != nil {
		t.Fatalf("login after cooldown: %v", err)
	}
}

func TestSuccessfulLoginResetsCounter(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registerUser(t, users, "a@b.com", "secret-pass")

	for i := 0; i < 4; i++ {
		_, _ = auth.Login(context.Background(), "a@b.com", "wrong")
	}
	if _, err := auth.Login(context.Background(), "a@b.com", "secret-pass"); err != nil {
		t.Fatalf("login before threshold: %v", err)
	}

	// The counter restarted: four more failures still do not lock.
	for i := 0; i < 4; i++ {
		_, _ = auth.Login(context.Background(), "a@b.com", "wrong")
	}
	if _, err := auth.Login(context.Background(), "a@b.com", "secret-pass"); err != nil {
		t.Fatalf("login after reset: %v", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	registerUser(t, users, "a@b.com", "secret-pass")

	token, err := auth.Login(context.Background(), "a@b.com", "secret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := auth.ValidateToken(token + "x"); err == nil {
		t.Fatal("tampered token accepted")
	}

	other := NewAuthService("other-secret", time.Hour, repository.NewMemoryUserStore(), throttle.NewTracker())
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("token accepted under a different secret")
	}
}

func TestChangePassword(t *testing.T) {
	auth, users, _ := newAuthFixture(t)
	user, err := users.Register(context.Background(), "Alice", "a@b.com", "old-pass")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := users.ChangePassword(context.Background(), user.ID, "wrong", "new-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err=%v, want ErrInvalidCredentials", err)
	}
	if err := users.ChangePassword(context.Background(), user.ID, "old-pass", "new-pass"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := auth.Login(context.Background(), "a@b.com", "new-pass"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

// outageUserStore fails every lookup the way the Postgres store does when
// the pool is down. The embedded interface panics on anything else.
type outageUserStore struct {
	repository.UserStore
}

func (outageUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, fmt.Errorf("acquiring connection: %w", repository.ErrStoreUnavailable)
}

func TestLoginStoreOutageIsNotACredentialFailure(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	tracker := throttle.NewTrackerWithClock(5, 1800*time.Second, clock.now)
	auth := NewAuthService("test-secret", time.Hour, outageUserStore{}, tracker)

	for i := 0; i < 5; i++ {
		_, err := auth.Login(context.Background(), "a@b.com", "password")
		if !errors.Is(err, repository.ErrStoreUnavailable) {
			t.Fatalf("attempt %d err=%v, want ErrStoreUnavailable", i, err)
		}
		if errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d surfaced ErrInvalidCredentials during an outage", i)
		}
	}

	if got := tracker.Failures("a@b.com"); got != 0 {
		t.Fatalf("outage attempts counted against the throttle: failures = %d, want 0", got)
	}
	if blocked, _ := tracker.Blocked("a@b.com"); blocked {
		t.Fatal("identity locked out by a storage outage")
	}
}
