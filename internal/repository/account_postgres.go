package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"account-ledger/internal/models"
	"account-ledger/internal/money"
	"account-ledger/internal/utils"
)

// PostgresAccountStore keeps balances in a NUMERIC(20,3) column and relies on
// the database for atomicity: single-row conditional updates for deposits and
// withdrawals, row locks in deterministic order for transfers.
type PostgresAccountStore struct {
	db *pgxpool.Pool
}

func NewPostgresAccountStore(db *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{db: db}
}

const accountColumns = `id, name, email, account_type, balance::text, created_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.AccountType, &a.Balance, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresAccountStore) Get(ctx context.Context, id string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return account, nil
}

func (s *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	account, err := scanAccount(s.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return account, nil
}

func (s *PostgresAccountStore) Create(ctx context.Context, name, email, accountType string) (*models.Account, error) {
	query := `
		INSERT INTO accounts (id, name, email, account_type, balance, created_at)
		VALUES ($1, $2, $3, $4, $5::numeric, NOW())
		RETURNING ` + accountColumns

	account, err := scanAccount(s.db.QueryRow(ctx, query,
		uuid.New().String(), name, email, accountType, money.DefaultBalance))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	utils.LogSuccess("AccountStore", "Account %s created for %s", account.ID, email)
	return account, nil
}

func (s *PostgresAccountStore) List(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.AccountType, &a.Balance, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// GetPair reads both accounts with one statement; a single SELECT sees one
// snapshot, so the pair can never straddle a concurrent transfer.
func (s *PostgresAccountStore) GetPair(ctx context.Context, idA, idB string) (*models.Account, *models.Account, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 OR id = $2`, idA, idB)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	found := make(map[string]*models.Account, 2)
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.AccountType, &a.Balance, &a.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("scanning account: %w", err)
		}
		found[a.ID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	a, okA := found[idA]
	b, okB := found[idB]
	if !okA || !okB {
		return nil, nil, ErrAccountNotFound
	}
	return a, b, nil
}

func (s *PostgresAccountStore) UpdateType(ctx context.Context, id, accountType string) error {
	result, err := s.db.Exec(ctx,
		`UPDATE accounts SET account_type = $1 WHERE id = $2`, accountType, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *PostgresAccountStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ApplyDelta is a single conditional UPDATE: the increment and the
// non-negativity guard execute as one statement, so concurrent deltas on the
// same account serialize inside the database and can never lose an update.
func (s *PostgresAccountStore) ApplyDelta(ctx context.Context, id string, delta money.Amount) error {
	result, err := s.db.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1::numeric
		 WHERE id = $2 AND balance + $1::numeric >= 0`,
		delta.Stored(), id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	// The guard rejected the update: distinguish a missing account from an
	// overdraft.
	var exists bool
	if err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !exists {
		return ErrAccountNotFound
	}
	return ErrInsufficientFunds
}

// ApplyDeltaPair runs both legs inside one database transaction. Both rows
// are locked with FOR UPDATE in sorted-id order so two transfers touching the
// same accounts in opposite directions cannot deadlock.
func (s *PostgresAccountStore) ApplyDeltaPair(ctx context.Context, idA string, deltaA money.Amount, idB string, deltaB money.Amount) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer tx.Rollback(ctx)

	lockOrder := []string{idA, idB}
	sort.Strings(lockOrder)

	balances := make(map[string]money.Amount, 2)
	for _, id := range lockOrder {
		var stored string
		err := tx.QueryRow(ctx,
			`SELECT balance::text FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&stored)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		balances[id], err = money.FromStored(stored)
		if err != nil {
			return fmt.Errorf("stored balance of %s: %w", id, err)
		}
	}

	if balances[idA].Add(deltaA).IsNegative() || balances[idB].Add(deltaB).IsNegative() {
		return ErrInsufficientFunds
	}

	for _, leg := range []struct {
		id    string
		delta money.Amount
	}{{idA, deltaA}, {idB, deltaB}} {
		_, err := tx.Exec(ctx,
			`UPDATE accounts SET balance = balance + $1::numeric WHERE id = $2`,
			leg.delta.Stored(), leg.id)
		if err != nil {
			// The transaction rolls back as a unit; neither leg is visible.
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		// A failed commit applies nothing; the caller may retry the whole
		// operation.
		return fmt.Errorf("%w: commit: %v", ErrStoreUnavailable, err)
	}
	return nil
}
