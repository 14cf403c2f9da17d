package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"taskly-be/internal/entities"
)

// pq error code for unique constraint violations
const uniqueViolation = "23505"

// UserRepository defines the interface for user database operations.
// Session tokens live in a separate user_tokens table but are managed here
// because they are part of the user record: a token row is what makes a
// signed token currently valid.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string, age int) (*entities.User, error)
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// FindByIDWithToken resolves a user only when the given token string is
	// a member of that user's current token collection.
	FindByIDWithToken(ctx context.Context, id, token string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) (*entities.User, error)
	// Delete removes the user together with all owned tasks and all session
	// tokens in a single transaction. Either everything is removed or
	// nothing is.
	Delete(ctx context.Context, id string) error

	AppendToken(ctx context.Context, userID, token string) error
	RevokeToken(ctx context.Context, userID, token string) error
	RevokeAllTokens(ctx context.Context, userID string) error

	UpdateAvatar(ctx context.Context, userID string, avatar []byte) error
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, name, email, password_hash, age, created_at, updated_at"

func scanUser(row *sql.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Age,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func isDuplicateEmail(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, name, email, passwordHash string, age int) (*entities.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, age)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, name, email, passwordHash, age))
	if err != nil {
		if isDuplicateEmail(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// FindByID finds a user by ID (UUID)
func (r *userRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByEmail finds a user by email, matched case-insensitively
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// FindByIDWithToken finds a user by ID, requiring token membership. A revoked
// token no longer has a row here, so this lookup fails for it even though the
// token's signature is still structurally valid.
func (r *userRepository) FindByIDWithToken(ctx context.Context, id, token string) (*entities.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.age, u.created_at, u.updated_at
		FROM users u
		JOIN user_tokens t ON t.user_id = u.id
		WHERE u.id = $1 AND t.token = $2`
	return scanUser(r.db.QueryRowContext(ctx, query, id, token))
}

// Update persists the user's mutable profile fields
func (r *userRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, age = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.db.QueryRowContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.Age))
	if err != nil {
		if isDuplicateEmail(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the user, all owned tasks, and all session tokens in one
// transaction. Tasks go first so a failure leaves the account intact rather
// than deleted with orphaned tasks.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user deletion: %w", err)
	}
	return nil
}

// AppendToken adds a new session token to the user's collection. Every call
// inserts a new row: concurrent sessions across devices each get their own.
func (r *userRepository) AppendToken(ctx context.Context, userID, token string) error {
	query := `INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to append token: %w", err)
	}
	return nil
}

// RevokeToken removes exactly the matching token string for the user
func (r *userRepository) RevokeToken(ctx context.Context, userID, token string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// RevokeAllTokens clears the user's entire token collection
func (r *userRepository) RevokeAllTokens(ctx context.Context, userID string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

// UpdateAvatar stores the normalized avatar image; nil clears it
func (r *userRepository) UpdateAvatar(ctx context.Context, userID string, avatar []byte) error {
	query := `UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, userID, avatar)
	if err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAvatar returns the stored avatar bytes, or ErrNotFound when the user
// does not exist or has no avatar set
func (r *userRepository) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	query := `SELECT avatar FROM users WHERE id = $1`

	var avatar []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	if len(avatar) == 0 {
		return nil, ErrNotFound
	}
	return avatar, nil
}
