package repository

import (
	"context"
	"errors"

	"account-ledger/internal/models"
	"account-ledger/internal/money"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")

	// ErrInsufficientFunds is raised by the conditional commit itself, not
	// only by the pre-check in the service layer, so a racing withdrawal can
	// never drive a balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPartialFailure means a paired update failed after partially applying
	// and the applied leg was rolled back.
	ErrPartialFailure = errors.New("paired balance update partially applied")

	// ErrFatalInconsistency means the rollback itself failed: the two account
	// balances no longer sum correctly. This is an operational incident, not
	// a request error.
	ErrFatalInconsistency = errors.New("balance rollback failed, accounts inconsistent")

	// ErrStoreUnavailable wraps storage-layer failures that happen before any
	// mutation; the whole operation is safe to retry.
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// AccountStore is the persistence boundary of the ledger. Balances cross it
// only as money.Amount deltas or as stored decimal strings; no float ever
// touches a balance.
type AccountStore interface {
	Get(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, name, email, accountType string) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)

	// GetPair reads two accounts from one consistent snapshot, so the
	// returned balances never show a transfer half-applied.
	GetPair(ctx context.Context, idA, idB string) (*models.Account, *models.Account, error)
	UpdateType(ctx context.Context, id, accountType string) error
	Delete(ctx context.Context, id string) error

	// ApplyDelta atomically adds delta (positive or negative) to the account
	// balance. The increment and the non-negativity check are a single
	// indivisible operation at the storage layer.
	ApplyDelta(ctx context.Context, id string, delta money.Amount) error

	// ApplyDeltaPair applies two deltas to two distinct accounts as one
	// all-or-nothing unit. No observer may see one leg applied without the
	// other.
	ApplyDeltaPair(ctx context.Context, idA string, deltaA money.Amount, idB string, deltaB money.Amount) error
}
