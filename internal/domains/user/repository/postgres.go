package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"book-marketplace/internal/domains/user"
	"book-marketplace/pkg/cache"
	"book-marketplace/pkg/logger"
)

const (
	userCacheTTL = 10 * time.Minute

	// uniqueViolation is the Postgres SQLSTATE for a unique constraint
	uniqueViolation = "23505"

	userColumns = `id, name, email, password_hash, role, created_at`
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository - FindByID is read-through cached, users are never
// updated so entries only expire
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

// CacheKey is the Redis key of one user
func CacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// cachedUser carries the password hash, which User hides from JSON
type cachedUser struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         user.Role `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toCached(u *user.User) cachedUser {
	return cachedUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func (c cachedUser) toUser() *user.User {
	return &user.User{
		ID:           c.ID,
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		CreatedAt:    c.CreatedAt,
	}
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ========================================
// BASIC CRUD
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		// the pre-check in the service can race; the constraint cannot
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID - cache-aside on user:{id}
func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	key := CacheKey(id)

	var cached cachedUser
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("user cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if found {
		return cached.toUser(), nil
	}

	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}

	if err := r.cache.Set(ctx, key, toCached(u), userCacheTTL); err != nil {
		logger.Warn("user cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}
