package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub-io/tourhub-backend/internal/users"
	pkgAuth "github.com/tourhub-io/tourhub-backend/pkg/auth"
	"github.com/tourhub-io/tourhub-backend/pkg/config"
	"github.com/tourhub-io/tourhub-backend/pkg/db"
	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
	"github.com/tourhub-io/tourhub-backend/pkg/security"
)

const (
	blockedMessage = "account temporarily blocked after too many failed login attempts, try again in an hour"

	// passwordChangeSkew absorbs the gap between hashing a new password and
	// stamping password_changed_at, so a token minted in the same instant as
	// the change is not rejected.
	passwordChangeSkew = 1500 * time.Millisecond
)

// Service defines the behavior needed by the auth controller and middleware.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	CheckToken(ctx context.Context, token string) (*models.User, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	SaveAuthState(ctx context.Context, user *models.User) error
}

type service struct {
	users   userRepository
	jwtCfg  config.JWTConfig
	pwCfg   config.PasswordConfig
	lockout config.LockoutConfig
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	LockoutConfig  config.LockoutConfig

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:   params.UserRepo,
		jwtCfg:  params.JWTConfig,
		pwCfg:   params.PasswordConfig,
		lockout: params.LockoutConfig,
		now:     now,
	}, nil
}

// Signup registers a new account and logs it in. The confirmation field is
// compared against the raw password and discarded, never persisted.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Photo:        req.Photo,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateField, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueToken(user)
}

// Login authenticates a credential pair and advances the lockout state
// machine. An in-force block is checked before the password, so a correct
// password never bypasses a lockout. Attempts made while a block is in force
// neither count toward the failure tally nor extend the block's deadline.
func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "incorrect email or password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "incorrect email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	now := s.now()
	if user.IsBlocked(now) {
		return nil, s.blockedError(user)
	}

	match, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, s.recordFailure(ctx, user, now)
	}

	if user.FailedAttempts != 0 || user.BlockedUntil != nil {
		user.FailedAttempts = 0
		user.BlockedUntil = nil
		if err := s.users.SaveAuthState(ctx, user); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear lockout state")
		}
	}

	return s.issueToken(user)
}

// recordFailure advances the counter, renews or establishes a block at the
// threshold, and hard-suspends the account when the ceiling is reached. The
// read-modify-write on the counter is last-write-wins under concurrent
// logins; the storage layer serializes individual writes only.
func (s *service) recordFailure(ctx context.Context, user *models.User, now time.Time) error {
	user.FailedAttempts++

	blocked := false
	if user.FailedAttempts >= s.lockout.BlockThreshold {
		until := now.Add(s.lockout.BlockDuration)
		user.BlockedUntil = &until
		blocked = true
	}
	if user.FailedAttempts == s.lockout.SuspendThreshold {
		user.Active = false
	}

	if err := s.users.SaveAuthState(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist lockout state")
	}

	if blocked {
		return s.blockedError(user)
	}
	return pkgerrors.New(pkgerrors.CodeInvalidCredentials, "incorrect email or password")
}

func (s *service) blockedError(user *models.User) error {
	err := pkgerrors.New(pkgerrors.CodeAccountBlocked, blockedMessage)
	if user.BlockedUntil != nil {
		err = err.WithDetails(map[string]any{"blocked_until": user.BlockedUntil.UTC()})
	}
	return err
}

// CheckToken validates a bearer token and re-fetches the account it names.
// Tokens minted before the account's last password change are rejected.
func (s *service) CheckToken(ctx context.Context, token string) (*models.User, error) {
	claims, err := pkgAuth.ParseAccessToken(s.jwtCfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "the user belonging to this token no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if claims.IssuedAt != nil && user.PasswordChangedAfter(claims.IssuedAt.Time.Add(passwordChangeSkew)) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "password was changed after this token was issued")
	}

	return user, nil
}

func (s *service) issueToken(user *models.User) (*AuthResponse, error) {
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now(), pkgAuth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &AuthResponse{Token: token, User: users.FromModel(user)}, nil
}
