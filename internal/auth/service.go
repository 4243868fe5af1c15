package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/obinnaeze/renthaven-backend/pkg/auth"
	"github.com/obinnaeze/renthaven-backend/pkg/auth/session"
	"github.com/obinnaeze/renthaven-backend/pkg/config"
	"github.com/obinnaeze/renthaven-backend/pkg/db/models"
	pkgerrors "github.com/obinnaeze/renthaven-backend/pkg/errors"
	"github.com/obinnaeze/renthaven-backend/pkg/logger"
	"github.com/obinnaeze/renthaven-backend/pkg/security"
)

// Service handles identity: registration, credential login, token refresh
// and logout. Account type is not part of identity and lives elsewhere.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*SessionDTO, error)
	Login(ctx context.Context, input LoginInput) (*SessionDTO, error)
	// Refresh rotates the refresh token. The access token may be expired
	// but must otherwise be valid.
	Refresh(ctx context.Context, input RefreshInput) (*SessionDTO, error)
	// Logout revokes the session behind the token's jti.
	Logout(ctx context.Context, jti string) error
}

type userStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	users    userStore
	sessions sessionManager
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(users userStore, sessions sessionManager, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: user store is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: session manager is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: logger is required")
	}
	return &service{users: users, sessions: sessions, jwtCfg: jwtCfg, pwCfg: pwCfg, logg: logg, now: time.Now}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*SessionDTO, error) {
	email := normalizeEmail(input.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: lookup email")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: create user")
	}

	lctx := s.logg.WithUserID(ctx, user.ID.String())
	s.logg.Info(lctx, "user registered")
	return s.openSession(ctx, user)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*SessionDTO, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: lookup email")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	return s.openSession(ctx, user)
}

func (s *service) Refresh(ctx context.Context, input RefreshInput) (*SessionDTO, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newJTI, newRefresh, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if err == session.ErrInvalidRefreshToken {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth: rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: lookup user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user no longer exists")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    newJTI,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: mint access token")
	}

	return &SessionDTO{User: userToDTO(user), AccessToken: access, RefreshToken: newRefresh}, nil
}

func (s *service) Logout(ctx context.Context, jti string) error {
	if strings.TrimSpace(jti) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session identifier")
	}
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth: revoke session")
	}
	return nil
}

func (s *service) openSession(ctx context.Context, user *models.User) (*SessionDTO, error) {
	jti := session.NewAccessID()

	refresh, err := s.sessions.Generate(ctx, jti)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "auth: open session")
	}

	access, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    jti,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "auth: mint access token")
	}

	return &SessionDTO{User: userToDTO(user), AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
