package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"account-ledger/internal/models"
	"account-ledger/internal/utils"
)

type PostgresUserStore struct {
	db *pgxpool.Pool
}

func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (r *PostgresUserStore) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New().String()
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING created_at`,
		user.ID, user.Name, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("creating user %s: %w", user.Email, err)
	}
	utils.LogSuccess("UserStore", "User created: %s (%s)", user.Email, user.ID)
	return nil
}

func (r *PostgresUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *PostgresUserStore) getBy(ctx context.Context, column, value string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE `+column+` = $1`,
		value).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &u, nil
}

// searchClause translates a "field:value" search into a WHERE fragment.
// Only name and email are searchable; anything else matches everything.
func searchClause(search string) (string, []interface{}) {
	field, value, ok := strings.Cut(search, ":")
	if !ok || value == "" {
		return "TRUE", nil
	}
	switch field {
	case "name", "email":
		return field + " ILIKE $1", []interface{}{"%" + value + "%"}
	}
	return "TRUE", nil
}

// orderClause translates a "field:direction" sort into an ORDER BY fragment,
// whitelisted to keep user input out of the SQL.
func orderClause(sort string) string {
	field, dir, _ := strings.Cut(sort, ":")
	switch field {
	case "name", "email", "created_at":
	default:
		field = "email"
	}
	if dir != "desc" {
		dir = "asc"
	}
	return field + " " + dir
}

func (r *PostgresUserStore) List(ctx context.Context, q ListQuery) ([]models.User, error) {
	where, args := searchClause(q.Search)
	query := fmt.Sprintf(
		`SELECT id, name, email, password_hash, created_at FROM users
		 WHERE %s ORDER BY %s OFFSET %d LIMIT %d`,
		where, orderClause(q.Sort), q.Offset, q.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PostgresUserStore) Count(ctx context.Context, search string) (int, error) {
	where, args := searchClause(search)
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return count, nil
}

func (r *PostgresUserStore) Update(ctx context.Context, id, name, email string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET name = $1, email = $2 WHERE id = $3`, name, email, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserStore) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserStore) SetPasswordHash(ctx context.Context, id, hash string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`, hash, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
