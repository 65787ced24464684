package services

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"account-ledger/internal/cache"
	"account-ledger/internal/models"
	"account-ledger/internal/repository"
	"account-ledger/internal/utils"
)

var ErrInvalidAccountType = errors.New("account_type must be savings, checking or business")

// AccountService covers the administrative account operations: create, read,
// update of the type field, delete. It never touches balances; those belong
// to the ledger service.
type AccountService struct {
	store repository.AccountStore
	cache *cache.RedisCache
}

func NewAccountService(store repository.AccountStore) *AccountService {
	return &AccountService{store: store}
}

func NewAccountServiceWithCache(store repository.AccountStore, c *cache.RedisCache) *AccountService {
	return &AccountService{store: store, cache: c}
}

func (s *AccountService) Create(ctx context.Context, name, email, accountType string) (*models.Account, error) {
	if !models.ValidAccountType(accountType) {
		return nil, ErrInvalidAccountType
	}

	// Pre-check for a friendlier error; the store's unique index is the
	// actual guarantee.
	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, repository.ErrDuplicateEmail
	}

	account, err := s.store.Create(ctx, name, email, accountType)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cache.AccountListKey())
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	if s.cache != nil {
		var account models.Account
		err := s.cache.GetJSON(ctx, cache.AccountKey(id), &account)
		if err == nil {
			return &account, nil
		}
		if err != redis.Nil {
			utils.LogWarning("AccountService", "Cache read failed: %v", err)
		}
	}

	account, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.AccountKey(id), account, cache.AccountTTL); err != nil {
			utils.LogWarning("AccountService", "Cache write failed: %v", err)
		}
	}
	return account, nil
}

func (s *AccountService) List(ctx context.Context) ([]models.Account, error) {
	if s.cache != nil {
		var accounts []models.Account
		if err := s.cache.GetJSON(ctx, cache.AccountListKey(), &accounts); err == nil {
			return accounts, nil
		}
	}

	accounts, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.AccountListKey(), accounts, cache.AccountListTTL); err != nil {
			utils.LogWarning("AccountService", "Cache write failed: %v", err)
		}
	}
	return accounts, nil
}

// UpdateType changes account_type and nothing else; balance is out of reach
// by construction.
func (s *AccountService) UpdateType(ctx context.Context, id, accountType string) error {
	if !models.ValidAccountType(accountType) {
		return ErrInvalidAccountType
	}
	if err := s.store.UpdateType(ctx, id, accountType); err != nil {
		return err
	}
	s.invalidate(ctx, cache.AccountKey(id), cache.AccountListKey())
	return nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, cache.AccountKey(id), cache.AccountListKey())
	utils.LogInfo("AccountService", "Account %s deleted", id)
	return nil
}

func (s *AccountService) invalidate(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		utils.LogWarning("AccountService", "Cache invalidation failed: %v", err)
	}
}
