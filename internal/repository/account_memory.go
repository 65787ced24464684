package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"account-ledger/internal/models"
	"account-ledger/internal/money"
	"account-ledger/internal/utils"
)

// MemoryAccountStore is a mutex-serialized in-process store. It backs tests
// and the storage-free dev mode; every mutation runs inside one critical
// section, which makes single-account deltas and paired updates trivially
// atomic.
type MemoryAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*models.Account

	// Fault hooks let tests fail a chosen leg of a paired update or its
	// rollback, to exercise the partial-failure paths a real single-system
	// transaction cannot reach.
	legHook      func(id string) error
	rollbackHook func(id string) error
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]*models.Account)}
}

func (s *MemoryAccountStore) Get(ctx context.Context, id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrAccountNotFound
}

// GetPair copies both accounts inside one critical section, the same one
// every mutation runs in, so the snapshot is always conserved.
func (s *MemoryAccountStore) GetPair(ctx context.Context, idA, idB string) (*models.Account, *models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, okA := s.accounts[idA]
	b, okB := s.accounts[idB]
	if !okA || !okB {
		return nil, nil, ErrAccountNotFound
	}
	cpA, cpB := *a, *b
	return &cpA, &cpB, nil
}

func (s *MemoryAccountStore) Create(ctx context.Context, name, email, accountType string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return nil, ErrDuplicateEmail
		}
	}
	a := &models.Account{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		AccountType: accountType,
		Balance:     money.DefaultBalance,
		CreatedAt:   time.Now(),
	}
	s.accounts[a.ID] = a
	cp := *a
	return &cp, nil
}

func (s *MemoryAccountStore) List(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (s *MemoryAccountStore) UpdateType(ctx context.Context, id, accountType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	a.AccountType = accountType
	return nil
}

func (s *MemoryAccountStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return ErrAccountNotFound
	}
	delete(s.accounts, id)
	return nil
}

// applyLocked mutates one balance. Caller holds s.mu.
func (s *MemoryAccountStore) applyLocked(id string, delta money.Amount) error {
	a, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	balance, err := money.FromStored(a.Balance)
	if err != nil {
		return fmt.Errorf("stored balance of %s: %w", id, err)
	}
	next := balance.Add(delta)
	if next.IsNegative() {
		return ErrInsufficientFunds
	}
	a.Balance = next.Stored()
	return nil
}

func (s *MemoryAccountStore) ApplyDelta(ctx context.Context, id string, delta money.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(id, delta)
}

func (s *MemoryAccountStore) ApplyDeltaPair(ctx context.Context, idA string, deltaA money.Amount, idB string, deltaB money.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Existence and sufficiency are checked for both legs before either
	// mutates, so a doomed pair rejects without touching any balance.
	for _, leg := range []struct {
		id    string
		delta money.Amount
	}{{idA, deltaA}, {idB, deltaB}} {
		a, ok := s.accounts[leg.id]
		if !ok {
			return ErrAccountNotFound
		}
		balance, err := money.FromStored(a.Balance)
		if err != nil {
			return fmt.Errorf("stored balance of %s: %w", leg.id, err)
		}
		if balance.Add(leg.delta).IsNegative() {
			return ErrInsufficientFunds
		}
	}

	if err := s.failLeg(idA); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.applyLocked(idA, deltaA); err != nil {
		return err
	}

	secondErr := s.failLeg(idB)
	if secondErr == nil {
		secondErr = s.applyLocked(idB, deltaB)
	}
	if secondErr == nil {
		return nil
	}

	// Second leg failed after the first applied: roll the first leg back.
	rollbackErr := s.failRollback(idA)
	if rollbackErr == nil {
		rollbackErr = s.applyLocked(idA, deltaA.Neg())
	}
	if rollbackErr != nil {
		utils.LogIncident("AccountStore",
			fmt.Sprintf("rollback of %s failed after paired update aborted", idA), rollbackErr)
		return fmt.Errorf("%w: %v", ErrFatalInconsistency, rollbackErr)
	}
	return fmt.Errorf("%w: %v", ErrPartialFailure, secondErr)
}

func (s *MemoryAccountStore) failLeg(id string) error {
	if s.legHook == nil {
		return nil
	}
	return s.legHook(id)
}

func (s *MemoryAccountStore) failRollback(id string) error {
	if s.rollbackHook == nil {
		return nil
	}
	return s.rollbackHook(id)
}
