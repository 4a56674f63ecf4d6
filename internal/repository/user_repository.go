package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quiz-admin/internal/domain"
	"quiz-admin/internal/repository/models"
	"quiz-admin/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash.String,
		GoogleID:     m.GoogleID.String,
		Name:         m.Name.String,
		Role:         domain.Role(m.Role),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		DeletedAt:    util.NullTimeToPtr(m.DeletedAt),
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: util.StringToNullString(u.PasswordHash),
		GoogleID:     util.StringToNullString(u.GoogleID),
		Name:         util.StringToNullString(u.Name),
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		DeletedAt:    util.TimePtrToNullTime(u.DeletedAt),
	}
}

// CreateUser inserts a new user into the database.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	ex := GetExecutor(ctx, r.db)
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m := fromDomainUser(user)

	query := ex.Rebind(`INSERT INTO users (id, email, password_hash, google_id, name, role, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := ex.ExecContext(ctx, query, m.ID, m.Email, m.PasswordHash, m.GoogleID, m.Name, m.Role, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getOne(ctx context.Context, column, value string) (*domain.User, error) {
	ex := GetExecutor(ctx, r.db)
	var m models.User
	query := ex.Rebind(`SELECT * FROM users WHERE ` + column + ` = ? AND deleted_at IS NULL`)
	if err := ex.GetContext(ctx, &m, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return toDomainUser(&m), nil
}

// GetUserByID retrieves a user by their internal ID. A missing user yields (nil, nil).
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.getOne(ctx, "id", userID)
}

// GetUserByEmail matches the normalized email.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "email", domain.NormalizeEmail(email))
}

func (r *sqlxUserRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getOne(ctx, "google_id", googleID)
}

// UpdateUser writes the mutable profile columns. Returns sql.ErrNoRows when the user does not exist.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	ex := GetExecutor(ctx, r.db)
	user.UpdatedAt = time.Now()
	m := fromDomainUser(user)

	query := ex.Rebind(`UPDATE users SET
				email = ?,
				password_hash = ?,
				google_id = ?,
				name = ?,
				role = ?,
				updated_at = ?
			  WHERE id = ? AND deleted_at IS NULL`)
	result, err := ex.ExecContext(ctx, query, m.Email, m.PasswordHash, m.GoogleID, m.Name, m.Role, m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowsAffected(result)
}
