package memory

import (
	"context"
	"strings"

	"dairy-farm-management/internal/domain/users"
)

type userRepo struct {
	users    *table[users.User]
	sessions *table[users.Session]
}

func NewUserRepo() users.Repository {
	return &userRepo{
		users:    newTable[users.User]("user"),
		sessions: newTable[users.Session]("session"),
	}
}

func (r *userRepo) CreateUser(ctx context.Context, u users.User) error {
	if _, err := r.GetUserByEmail(ctx, u.Email); err == nil {
		return errDuplicateEmail
	}
	return r.users.insert(u.ID, u)
}

func (r *userRepo) UpdateUser(_ context.Context, u users.User) error {
	return r.users.update(u.ID, u)
}

func (r *userRepo) GetUserByID(_ context.Context, id string) (users.User, error) {
	return r.users.get(id)
}

func (r *userRepo) GetUserByEmail(_ context.Context, email string) (users.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.users.find(func(u users.User) bool { return u.Email == email })
}

func (r *userRepo) ListUsers(_ context.Context) ([]users.User, error) {
	return r.users.filter(nil, func(a, b users.User) int { return byTime(a.CreatedAt, b.CreatedAt) }), nil
}

func (r *userRepo) CountUsers(_ context.Context) (int, error) {
	return r.users.count(), nil
}

func (r *userRepo) CreateSession(_ context.Context, s users.Session) error {
	return r.sessions.insert(s.TokenHash, s)
}

func (r *userRepo) GetSessionByTokenHash(_ context.Context, hash string) (users.Session, error) {
	return r.sessions.get(hash)
}

func (r *userRepo) DeleteSessionByTokenHash(_ context.Context, hash string) error {
	if err := r.sessions.delete(hash); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (r *userRepo) DeleteSessionsByUser(_ context.Context, userID string) error {
	for _, s := range r.sessions.filter(func(s users.Session) bool { return s.UserID == userID }, nil) {
		_ = r.sessions.delete(s.TokenHash)
	}
	return nil
}
