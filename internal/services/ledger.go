package services

import (
	"context"
	"errors"
	"fmt"

	"account-ledger/internal/cache"
	"account-ledger/internal/models"
	"account-ledger/internal/money"
	"account-ledger/internal/repository"
	"account-ledger/internal/utils"
	"account-ledger/internal/worker"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive decimal")
	ErrSelfTransfer  = errors.New("cannot transfer to the same account")
)

// LedgerService owns every balance mutation. Inputs are re-validated here no
// matter what the handler layer already checked; amounts stay decimal strings
// until parsed into money.Amount.
type LedgerService struct {
	store repository.AccountStore
	cache *cache.RedisCache
	pool  *worker.Pool
}

func NewLedgerService(store repository.AccountStore) *LedgerService {
	return &LedgerService{store: store}
}

func NewLedgerServiceWithCache(store repository.AccountStore, c *cache.RedisCache) *LedgerService {
	return &LedgerService{store: store, cache: c}
}

// SetWorkerPool enables asynchronous cache invalidation after commits.
func (s *LedgerService) SetWorkerPool(pool *worker.Pool) {
	s.pool = pool
}

// parseAmount validates the caller-supplied amount: well-formed decimal,
// strictly positive. Nothing touches storage before this passes.
func parseAmount(raw string) (money.Amount, error) {
	amount, err := money.FromStored(raw)
	if err != nil {
		return money.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !amount.IsPositive() {
		return money.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func (s *LedgerService) Deposit(ctx context.Context, accountID, rawAmount string) (*models.Account, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Get(ctx, accountID); err != nil {
		return nil, err
	}

	if err := s.store.ApplyDelta(ctx, accountID, amount); err != nil {
		return nil, err
	}

	s.invalidateAsync("deposit-"+accountID, accountID)
	utils.LogSuccess("Ledger", "Deposit of %s to %s committed", amount.Stored(), accountID)
	return s.store.Get(ctx, accountID)
}

func (s *LedgerService) Withdraw(ctx context.Context, accountID, rawAmount string) (*models.Account, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, err
	}

	account, err := s.store.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	balance, err := money.FromStored(account.Balance)
	if err != nil {
		return nil, fmt.Errorf("stored balance of %s: %w", accountID, err)
	}
	if balance.Cmp(amount) < 0 {
		return nil, repository.ErrInsufficientFunds
	}

	// The store re-checks sufficiency inside the atomic commit, so a
	// concurrent withdrawal racing past the check above still cannot drive
	// the balance negative.
	if err := s.store.ApplyDelta(ctx, accountID, amount.Neg()); err != nil {
		return nil, err
	}

	s.invalidateAsync("withdraw-"+accountID, accountID)
	utils.LogSuccess("Ledger", "Withdrawal of %s from %s committed", amount.Stored(), accountID)
	return s.store.Get(ctx, accountID)
}

func (s *LedgerService) Transfer(ctx context.Context, fromID, toID, rawAmount string) error {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}
	if fromID == toID {
		return ErrSelfTransfer
	}

	from, err := s.store.Get(ctx, fromID)
	if err != nil {
		return err
	}
	if _, err := s.store.Get(ctx, toID); err != nil {
		return err
	}

	balance, err := money.FromStored(from.Balance)
	if err != nil {
		return fmt.Errorf("stored balance of %s: %w", fromID, err)
	}
	if balance.Cmp(amount) < 0 {
		return repository.ErrInsufficientFunds
	}

	// Both legs commit as one unit or not at all. A partial failure out of
	// the store means its internal rollback already ran; it is an incident,
	// never a plain request error.
	err = s.store.ApplyDeltaPair(ctx, fromID, amount.Neg(), toID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrPartialFailure) || errors.Is(err, repository.ErrFatalInconsistency) {
			utils.LogIncident("Ledger",
				fmt.Sprintf("transfer %s -> %s of %s violated atomic commit", fromID, toID, amount.Stored()), err)
		}
		return err
	}

	s.invalidateAsync("transfer-"+fromID, fromID, toID)
	utils.LogSuccess("Ledger", "Transfer of %s from %s to %s committed", amount.Stored(), fromID, toID)
	return nil
}

// GetAccount is the read-only entry callers use to render balances; the
// stored string representation passes through untouched.
func (s *LedgerService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	return s.store.Get(ctx, accountID)
}

// AccountPair reads two accounts from one store snapshot; after a transfer
// the rendered pair always sums to what it did before.
func (s *LedgerService) AccountPair(ctx context.Context, idA, idB string) (*models.Account, *models.Account, error) {
	return s.store.GetPair(ctx, idA, idB)
}

func (s *LedgerService) invalidateAsync(jobID string, accountIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := []string{cache.AccountListKey()}
	for _, id := range accountIDs {
		keys = append(keys, cache.AccountKey(id))
	}
	task := func() error {
		return s.cache.Delete(context.Background(), keys...)
	}

	if s.pool != nil {
		if err := s.pool.Submit(worker.Job{ID: "cache-" + jobID, Task: task}); err == nil {
			return
		}
		utils.LogWarning("Ledger", "Worker queue full, invalidating cache inline")
	}
	if err := task(); err != nil {
		utils.LogWarning("Ledger", "Cache invalidation failed: %v", err)
	}
}
