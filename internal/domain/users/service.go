package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"dairy-farm-management/internal/platform/apperr"
	"dairy-farm-management/internal/ports/auth"

	"github.com/google/uuid"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	minPasswordLen    = 8
)

var (
	ErrInvalidCredentials = &apperr.Error{Kind: apperr.ErrUnauthorized, Code: "invalid_credentials", Message: "invalid credentials"}
	ErrSessionExpired     = &apperr.Error{Kind: apperr.ErrUnauthorized, Code: "session_expired", Message: "session expired"}
)

type Service struct {
	repo       Repository
	sessionTTL time.Duration
	now        func() time.Time
}

func NewService(repo Repository, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{
		repo:       repo,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

type RegisterInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
}

// Register crea una cuenta. El primer usuario de la granja queda como farm_owner;
// los siguientes como farm_worker hasta que un owner les cambie el rol.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return User{}, err
	}
	role := RoleFarmWorker
	if count == 0 {
		role = RoleFarmOwner
	}
	return s.Create(ctx, in, role)
}

// Create registra un usuario con rol explícito (CLI / bootstrap).
func (s *Service) Create(ctx context.Context, in RegisterInput, role Role) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, apperr.InvalidField("email", "invalid_email", "a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return User{}, apperr.InvalidField("password", "weak_password", "password must have at least 8 characters")
	}
	if !role.Valid() {
		return User{}, apperr.InvalidField("role", "invalid_role", "unknown role")
	}

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return User{}, apperr.Conflict("duplicate_email", "a user with this email already exists")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return User{}, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	now := s.now().UTC()
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// BootstrapOwner crea el owner inicial solo si no existe ningún usuario.
func (s *Service) BootstrapOwner(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, RegisterInput{Email: email, Password: password}, RoleFarmOwner); err != nil {
		return false, err
	}
	return true, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if !u.IsActive || !checkPassword(u.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	plain, hash, err := newTokenPair()
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now().UTC()
	sess := Session{
		TokenHash: hash,
		UserID:    u.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return LoginResult{}, err
	}

	u.LastLoginAt = &now
	u.UpdatedAt = now
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: plain, ExpiresAt: sess.ExpiresAt, User: u}, nil
}

// Verify implementa auth.AuthVerifier sobre las sesiones locales.
func (s *Service) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidCredentials
	}

	hash := hashToken(token)
	sess, err := s.repo.GetSessionByTokenHash(ctx, hash)
	if errors.Is(err, apperr.ErrNotFound) {
		return auth.Claims{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Claims{}, err
	}
	if !sess.ExpiresAt.After(s.now().UTC()) {
		_ = s.repo.DeleteSessionByTokenHash(ctx, hash)
		return auth.Claims{}, ErrSessionExpired
	}

	u, err := s.repo.GetUserByID(ctx, sess.UserID)
	if errors.Is(err, apperr.ErrNotFound) || (err == nil && !u.IsActive) {
		return auth.Claims{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Claims{}, err
	}

	return auth.Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
	}, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.repo.DeleteSessionByTokenHash(ctx, hashToken(token))
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, apperr.NotFound("user")
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) ChangeRole(ctx context.Context, actorID, userID string, role Role) (User, error) {
	if !role.Valid() {
		return User{}, apperr.InvalidField("role", "invalid_role", "unknown role")
	}
	if actorID == userID {
		return User{}, apperr.Forbidden("you cannot change your own role")
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if u.Role == role {
		return u, nil
	}

	u.Role = role
	u.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Deactivate bloquea el login y revoca todas las sesiones del usuario.
func (s *Service) Deactivate(ctx context.Context, actorID, userID string) (User, error) {
	if actorID == userID {
		return User{}, apperr.Forbidden("you cannot deactivate your own account")
	}

	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	u.IsActive = false
	u.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return User{}, err
	}
	if err := s.repo.DeleteSessionsByUser(ctx, u.ID); err != nil {
		return User{}, err
	}
	return u, nil
}
