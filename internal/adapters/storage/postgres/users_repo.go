package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"dairy-farm-management/internal/domain/users"
	"dairy-farm-management/internal/platform/apperr"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

const userColumns = `
	id, email, username, first_name, last_name,
	password_hash, role, is_active,
	created_at, updated_at, last_login_at`

func scanUser(s scanner) (users.User, error) {
	var u users.User
	var lastLogin sql.NullTime
	err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.Role,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
		&lastLogin,
	)
	u.LastLoginAt = timePtr(lastLogin)
	return u, err
}

func (r *UsersRepo) CreateUser(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		u.ID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		u.Role,
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
		nullTime(u.LastLoginAt),
	)
	err = mapErr(err, "user")
	if errors.Is(err, apperr.ErrConflict) {
		return apperr.Conflict("duplicate_email", "a user with this email already exists")
	}
	return err
}

func (r *UsersRepo) UpdateUser(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			email = $2,
			username = $3,
			first_name = $4,
			last_name = $5,
			password_hash = $6,
			role = $7,
			is_active = $8,
			updated_at = $9,
			last_login_at = $10
		WHERE id = $1
	`,
		u.ID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.PasswordHash,
		u.Role,
		u.IsActive,
		u.UpdatedAt,
		nullTime(u.LastLoginAt),
	)
	return affected(res, err, "user")
}

func (r *UsersRepo) GetUserByID(ctx context.Context, id string) (users.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return users.User{}, mapErr(err, "user")
	}
	return u, nil
}

func (r *UsersRepo) GetUserByEmail(ctx context.Context, email string) (users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return users.User{}, mapErr(err, "user")
	}
	return u, nil
}

func (r *UsersRepo) ListUsers(ctx context.Context) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func (r *UsersRepo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (r *UsersRepo) CreateSession(ctx context.Context, s users.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		VALUES ($1,$2,$3,$4)
	`, s.TokenHash, s.UserID, s.CreatedAt, s.ExpiresAt)
	return mapErr(err, "session")
}

func (r *UsersRepo) GetSessionByTokenHash(ctx context.Context, hash string) (users.Session, error) {
	var s users.Session
	err := r.db.QueryRowContext(ctx, `
		SELECT token_hash, user_id, created_at, expires_at
		FROM sessions
		WHERE token_hash = $1
	`, hash).Scan(&s.TokenHash, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return users.Session{}, mapErr(err, "session")
	}
	return s, nil
}

func (r *UsersRepo) DeleteSessionByTokenHash(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = $1`, hash)
	return err
}

func (r *UsersRepo) DeleteSessionsByUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	return err
}
