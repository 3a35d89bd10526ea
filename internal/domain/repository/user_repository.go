package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"event_calendar/internal/common"
	"event_calendar/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	// EnsureAdmin inserts the admin identity unless the username is taken.
	// Returns true when a row was actually created.
	EnsureAdmin(ctx context.Context, user *model.User) (bool, error)
}

type pgUserRepository struct {
	db           *sql.DB
	queryTimeout time.Duration
}

func NewPgUserRepository(db *sql.DB, queryTimeout time.Duration) UserRepository {
	return &pgUserRepository{db: db, queryTimeout: queryTimeout}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `INSERT INTO users (username, email, password_hash, role)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		wrapped := wrapStorageError("pgUserRepository.Create", err)
		if errors.Is(wrapped, common.ErrConflict) {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return wrapped
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByUsername", `username = $1`, username)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByEmail", `email = $1`, email)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.findOne(ctx, "pgUserRepository.FindByID", `id = $1`, id)
}

func (r *pgUserRepository) findOne(ctx context.Context, op, where string, arg interface{}) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `SELECT id, username, email, password_hash, role, created_at
	          FROM users WHERE ` + where
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, wrapStorageError(op, err)
	}
	return user, nil
}

func (r *pgUserRepository) EnsureAdmin(ctx context.Context, user *model.User) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `INSERT INTO users (username, email, password_hash, role)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (username) DO NOTHING
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict target hit: the admin already exists.
			return false, nil
		}
		return false, wrapStorageError("pgUserRepository.EnsureAdmin", err)
	}
	return true, nil
}
