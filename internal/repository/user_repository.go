package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Dan9191/bank-cards/internal/models"
)

const userColumns = `id, username, password_hash, roles, enabled, created_at, updated_at`

// UserRepository stores users in Postgres.
type UserRepository struct {
	*Repository
}

// NewUserRepository initializes a user repository over db.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{Repository: NewRepository(db)}
}

func rolesToStrings(roles []models.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var roles []string
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, pq.Array(&roles), &user.Enabled,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Roles = make([]models.Role, len(roles))
	for i, r := range roles {
		user.Roles[i] = models.Role(r)
	}
	return user, nil
}

// Create creates a new user in the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = now, now
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.conn(ctx).ExecContext(ctx, query, user.ID, user.Username, user.PasswordHash,
		pq.Array(rolesToStrings(user.Roles)), user.Enabled, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to create user: %w", err))
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(r.conn(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to find user %s: %w", id, err))
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := scanUser(r.conn(ctx).QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapPgError(fmt.Errorf("failed to find user: %w", err))
	}
	return user, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, mapPgError(fmt.Errorf("failed to check username: %w", err))
	}
	return exists, nil
}

// List returns one page of users ordered by creation time and the total count.
func (r *UserRepository) List(ctx context.Context, page models.Page) ([]*models.User, int, error) {
	page = page.Normalize()
	var total int
	if err := r.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, mapPgError(fmt.Errorf("failed to count users: %w", err))
	}
	rows, err := r.conn(ctx).QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`, page.Size, page.Offset())
	if err != nil {
		return nil, 0, mapPgError(fmt.Errorf("failed to list users: %w", err))
	}
	defer rows.Close()

	users := make([]*models.User, 0, page.Size)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, total, nil
}

// Update writes roles and the enabled flag of user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE users
		SET roles = $2, enabled = $3, updated_at = $4
		WHERE id = $1`
	res, err := r.conn(ctx).ExecContext(ctx, query, user.ID, pq.Array(rolesToStrings(user.Roles)), user.Enabled, user.UpdatedAt)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to update user %s: %w", user.ID, err))
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("failed to update user %s: %w", user.ID, ErrNotFound)
	}
	return nil
}
