package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"dairy-farm-management/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	users    map[string]User
	sessions map[string]Session
}

func newTestRepo() *testRepo {
	return &testRepo{users: map[string]User{}, sessions: map[string]Session{}}
}

func (r *testRepo) CreateUser(_ context.Context, u User) error {
	r.users[u.ID] = u
	return nil
}

func (r *testRepo) UpdateUser(_ context.Context, u User) error {
	if _, ok := r.users[u.ID]; !ok {
		return apperr.NotFound("user")
	}
	r.users[u.ID] = u
	return nil
}

func (r *testRepo) GetUserByID(_ context.Context, id string) (User, error) {
	u, ok := r.users[id]
	if !ok {
		return User{}, apperr.NotFound("user")
	}
	return u, nil
}

func (r *testRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, apperr.NotFound("user")
}

func (r *testRepo) ListUsers(_ context.Context) ([]User, error) {
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *testRepo) CountUsers(_ context.Context) (int, error) { return len(r.users), nil }

func (r *testRepo) CreateSession(_ context.Context, s Session) error {
	r.sessions[s.TokenHash] = s
	return nil
}

func (r *testRepo) GetSessionByTokenHash(_ context.Context, hash string) (Session, error) {
	s, ok := r.sessions[hash]
	if !ok {
		return Session{}, apperr.NotFound("session")
	}
	return s, nil
}

func (r *testRepo) DeleteSessionByTokenHash(_ context.Context, hash string) error {
	delete(r.sessions, hash)
	return nil
}

func (r *testRepo) DeleteSessionsByUser(_ context.Context, userID string) error {
	for h, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, h)
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func newTestService(now time.Time) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, time.Hour)
	svc.now = func() time.Time { return now }
	return svc, repo
}

func TestService_Register_FirstUserIsOwner(t *testing.T) {
	svc, _ := newTestService(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Email: "Owner@Farm.io", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, RoleFarmOwner, first.Role)
	assert.Equal(t, "owner@farm.io", first.Email)
	assert.Equal(t, "owner", first.Username)
	assert.NotEqual(t, "secret123", first.PasswordHash)

	second, err := svc.Register(ctx, RegisterInput{Email: "worker@farm.io", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, RoleFarmWorker, second.Role)
}

func TestService_Register_Validation(t *testing.T) {
	svc, _ := newTestService(time.Now())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "nope", Password: "secret123"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.io", Password: "short"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.io", Password: "secret123"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "A@B.io", Password: "secret123"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestService_LoginVerifyLogout(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Email: "owner@farm.io", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "owner@farm.io", "wrong-pass")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	res, err := svc.Login(ctx, "owner@farm.io", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, now.Add(time.Hour), res.ExpiresAt)
	require.NotNil(t, repo.users[u.ID].LastLoginAt)

	// solo guardamos el hash
	_, stored := repo.sessions[res.Token]
	assert.False(t, stored)

	claims, err := svc.Verify(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, string(RoleFarmOwner), claims.Role)

	require.NoError(t, svc.Logout(ctx, res.Token))
	_, err = svc.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestService_Verify_ExpiredSessionIsDeleted(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	svc, repo := newTestService(now)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "owner@farm.io", Password: "secret123"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "owner@farm.io", "secret123")
	require.NoError(t, err)

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = svc.Verify(ctx, res.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	assert.Empty(t, repo.sessions)
}

// failingSessions simula una caída del storage al buscar sesiones.
type failingSessions struct {
	*testRepo
	err error
}

func (r failingSessions) GetSessionByTokenHash(context.Context, string) (Session, error) {
	return Session{}, r.err
}

func TestService_Verify_StorageErrorIsNotUnauthorized(t *testing.T) {
	dbErr := errors.New("db down")
	svc := NewService(failingSessions{testRepo: newTestRepo(), err: dbErr}, time.Hour)

	_, err := svc.Verify(context.Background(), "some-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.False(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestService_ChangeRoleAndDeactivate(t *testing.T) {
	svc, repo := newTestService(time.Now())
	ctx := context.Background()

	owner, err := svc.Register(ctx, RegisterInput{Email: "owner@farm.io", Password: "secret123"})
	require.NoError(t, err)
	worker, err := svc.Register(ctx, RegisterInput{Email: "worker@farm.io", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ChangeRole(ctx, owner.ID, owner.ID, RoleFarmWorker)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.ChangeRole(ctx, owner.ID, worker.ID, Role("vet"))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	updated, err := svc.ChangeRole(ctx, owner.ID, worker.ID, RoleTeamLeader)
	require.NoError(t, err)
	assert.Equal(t, RoleTeamLeader, updated.Role)

	res, err := svc.Login(ctx, "worker@farm.io", "secret123")
	require.NoError(t, err)

	_, err = svc.Deactivate(ctx, owner.ID, worker.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.sessions)

	_, err = svc.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.Login(ctx, "worker@farm.io", "secret123")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestService_BootstrapOwner_OnlyWhenEmpty(t *testing.T) {
	svc, _ := newTestService(time.Now())
	ctx := context.Background()

	created, err := svc.BootstrapOwner(ctx, "boss@farm.io", "secret123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.BootstrapOwner(ctx, "other@farm.io", "secret123")
	require.NoError(t, err)
	assert.False(t, created)
}
