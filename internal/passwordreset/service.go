package passwordreset

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tourhub-io/tourhub-backend/internal/auth"
	"github.com/tourhub-io/tourhub-backend/internal/users"
	pkgAuth "github.com/tourhub-io/tourhub-backend/pkg/auth"
	"github.com/tourhub-io/tourhub-backend/pkg/config"
	"github.com/tourhub-io/tourhub-backend/pkg/db"
	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
	"github.com/tourhub-io/tourhub-backend/pkg/mailer"
	"github.com/tourhub-io/tourhub-backend/pkg/security"
)

// Service issues and redeems one-time password reset tokens.
type Service interface {
	Issue(ctx context.Context, email string) error
	Redeem(ctx context.Context, rawToken string, req RedeemRequest) (*auth.AuthResponse, error)
}

// RedeemRequest carries the replacement credential pair.
type RedeemRequest struct {
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

type userRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByResetTokenHash(ctx context.Context, digest string) (*models.User, error)
	SaveResetToken(ctx context.Context, id uuid.UUID, digest *string, expiresAt *time.Time) error
	SavePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error
}

type service struct {
	users    userRepository
	mail     mailer.Sender
	resetCfg config.ResetConfig
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	baseURL  string
	now      func() time.Time
}

// ServiceParams bundles the dependencies required to build a reset service.
type ServiceParams struct {
	UserRepo       userRepository
	Mailer         mailer.Sender
	ResetConfig    config.ResetConfig
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	BaseURL        string

	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewService constructs a password reset service.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		users:    params.UserRepo,
		mail:     params.Mailer,
		resetCfg: params.ResetConfig,
		jwtCfg:   params.JWTConfig,
		pwCfg:    params.PasswordConfig,
		baseURL:  strings.TrimRight(params.BaseURL, "/"),
		now:      now,
	}, nil
}

// Issue generates a reset token, stores only its hash, and emails the raw
// token to the account holder. A delivery failure rolls the stored state
// back so no orphaned pending reset survives.
func (s *service) Issue(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "there is no user with that email address")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	raw, digest, err := security.NewResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	expiresAt := s.now().Add(s.resetCfg.TokenTTL)
	if err := s.users.SaveResetToken(ctx, user.ID, &digest, &expiresAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/reset-password/%s", s.baseURL, raw)
	msg := mailer.PasswordResetEmail(user.Email, resetURL, s.resetCfg.TokenTTL)
	if err := s.mail.Send(ctx, msg); err != nil {
		// rollback: a token the user never received must not stay redeemable
		if clearErr := s.users.SaveResetToken(ctx, user.ID, nil, nil); clearErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, clearErr, "rollback reset token")
		}
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDelivery, err, "send reset email")
	}

	return nil
}

// Redeem consumes a raw reset token and rotates the credential. A successful
// redemption clears the lockout counters and logs the user straight in.
func (s *service) Redeem(ctx context.Context, rawToken string, req RedeemRequest) (*auth.AuthResponse, error) {
	if req.Password != req.PasswordConfirm {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	now := s.now()
	user, err := s.users.FindByResetTokenHash(ctx, security.HashResetToken(rawToken))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "token is invalid")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset token")
	}
	if user.PasswordResetExpiresAt == nil || !user.PasswordResetExpiresAt.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token has expired")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.SavePassword(ctx, user.ID, hash, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate password")
	}

	fresh, err := s.users.FindByID(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
	}

	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		UserID: fresh.ID,
		Role:   fresh.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &auth.AuthResponse{Token: token, User: users.FromModel(fresh)}, nil
}
