package users

import "context"

type Repository interface {
	CreateUser(ctx context.Context, u User) error
	UpdateUser(ctx context.Context, u User) error
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int, error)

	CreateSession(ctx context.Context, s Session) error
	GetSessionByTokenHash(ctx context.Context, hash string) (Session, error)
	DeleteSessionByTokenHash(ctx context.Context, hash string) error
	DeleteSessionsByUser(ctx context.Context, userID string) error
}
