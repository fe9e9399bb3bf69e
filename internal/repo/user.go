package repo

import (
	"context"
	"database/sql"

	"github.com/wishlyst/giftregistry/internal/models"
)

// UserRepo persists identity records. Password hashing happens upstream; this
// repo only ever sees the digest.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo returns a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// Create inserts a user with the given password hash. A duplicate username
// returns ErrDuplicateUsername.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash)
		 VALUES ($1, $2)
		 RETURNING id, username, password_hash, created_at`,
		username, passwordHash,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByUsername returns the user with the given username. A missing user is a
// normal outcome signaled with ErrNotFound, not a store failure.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users
		 WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns the user with the given id, or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at
		 FROM users
		 WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
