package passwordreset

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tourhub-io/tourhub-backend/pkg/config"
	"github.com/tourhub-io/tourhub-backend/pkg/db/models"
	"github.com/tourhub-io/tourhub-backend/pkg/enums"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
	"github.com/tourhub-io/tourhub-backend/pkg/mailer"
	"github.com/tourhub-io/tourhub-backend/pkg/security"
)

func TestIssueStoresHashAndEmailsRawToken(t *testing.T) {
	repo := newStubRepo()
	user := seedStubUser(t, repo, "alice@x.com")
	mail := &stubMailer{}
	svc := buildTestService(t, repo, mail, nil)

	if err := svc.Issue(context.Background(), "Alice@X.com"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	if user.PasswordResetTokenHash == nil || user.PasswordResetExpiresAt == nil {
		t.Fatalf("expected pending reset state to be stored")
	}
	if len(mail.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(mail.sent))
	}

	raw := extractToken(t, mail.sent[0].Body)
	if security.HashResetToken(raw) != *user.PasswordResetTokenHash {
		t.Fatalf("stored hash does not match delivered token")
	}
	if raw == *user.PasswordResetTokenHash {
		t.Fatalf("raw token must never be stored")
	}
}

func TestIssueUnknownEmail(t *testing.T) {
	svc := buildTestService(t, newStubRepo(), &stubMailer{}, nil)
	err := svc.Issue(context.Background(), "ghost@x.com")
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestIssueRollsBackOnDeliveryFailure(t *testing.T) {
	repo := newStubRepo()
	user := seedStubUser(t, repo, "alice@x.com")
	mail := &stubMailer{err: errors.New("smtp unreachable")}
	svc := buildTestService(t, repo, mail, nil)

	err := svc.Issue(context.Background(), "alice@x.com")
	assertCode(t, err, pkgerrors.CodeDelivery)

	if user.PasswordResetTokenHash != nil || user.PasswordResetExpiresAt != nil {
		t.Fatalf("expected reset state rolled back after delivery failure")
	}
}

func TestRedeemRoundTrip(t *testing.T) {
	repo := newStubRepo()
	user := seedStubUser(t, repo, "alice@x.com")
	user.FailedAttempts = 12
	until := time.Now().Add(time.Hour).UTC()
	user.BlockedUntil = &until
	mail := &stubMailer{}
	svc := buildTestService(t, repo, mail, nil)

	if err := svc.Issue(context.Background(), "alice@x.com"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	raw := extractToken(t, mail.sent[0].Body)

	resp, err := svc.Redeem(context.Background(), raw, RedeemRequest{
		Password:        "NewSecret1",
		PasswordConfirm: "NewSecret1",
	})
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected auto-login token after redemption")
	}

	if user.PasswordResetTokenHash != nil || user.PasswordResetExpiresAt != nil {
		t.Fatalf("expected reset token consumed")
	}
	if user.FailedAttempts != 0 || user.BlockedUntil != nil {
		t.Fatalf("expected lockout counters cleared on redemption")
	}
	if user.PasswordChangedAt == nil {
		t.Fatalf("expected password_changed_at stamped")
	}
	match, err := security.VerifyPassword("NewSecret1", user.PasswordHash)
	if err != nil || !match {
		t.Fatalf("expected rotated password to verify, match=%v err=%v", match, err)
	}
}

func TestRedeemExpiredToken(t *testing.T) {
	repo := newStubRepo()
	seedStubUser(t, repo, "alice@x.com")
	mail := &stubMailer{}

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	svc := buildTestService(t, repo, mail, func() time.Time { return clock })

	if err := svc.Issue(context.Background(), "alice@x.com"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	raw := extractToken(t, mail.sent[0].Body)

	clock = issuedAt.Add(11 * time.Minute)
	_, err := svc.Redeem(context.Background(), raw, RedeemRequest{
		Password:        "NewSecret1",
		PasswordConfirm: "NewSecret1",
	})
	assertCode(t, err, pkgerrors.CodeUnauthorized)
	if msg := err.Error(); !strings.Contains(msg, "expired") {
		t.Fatalf("expected expiry to be named, got %q", msg)
	}
}

func TestRedeemUnknownToken(t *testing.T) {
	repo := newStubRepo()
	seedStubUser(t, repo, "alice@x.com")
	svc := buildTestService(t, repo, &stubMailer{}, nil)

	_, err := svc.Redeem(context.Background(), "never-issued", RedeemRequest{
		Password:        "NewSecret1",
		PasswordConfirm: "NewSecret1",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestRedeemMismatchedConfirmation(t *testing.T) {
	svc := buildTestService(t, newStubRepo(), &stubMailer{}, nil)
	_, err := svc.Redeem(context.Background(), "whatever", RedeemRequest{
		Password:        "NewSecret1",
		PasswordConfirm: "Different1",
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func buildTestService(t *testing.T, repo *stubRepo, mail mailer.Sender, now func() time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		Mailer:         mail,
		ResetConfig:    config.ResetConfig{TokenTTL: 10 * time.Minute},
		JWTConfig:      config.JWTConfig{Secret: "secret", Issuer: "tourhub", ExpirationMinutes: 30},
		PasswordConfig: config.PasswordConfig{},
		BaseURL:        "https://tourhub.io",
		Now:            now,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func seedStubUser(t *testing.T, repo *stubRepo, email string) *models.User {
	t.Helper()
	hash, err := security.HashPassword("OldSecret1", config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Name:         "Alice Doe",
		Email:        email,
		PasswordHash: hash,
		Role:         enums.UserRoleUser,
		Active:       true,
	}
	repo.users[user.ID] = user
	return user
}

// extractToken pulls the raw token from the reset URL embedded in the email.
func extractToken(t *testing.T, body string) string {
	t.Helper()
	marker := "reset-password/"
	idx := strings.Index(body, marker)
	if idx < 0 {
		t.Fatalf("no reset url in email body: %s", body)
	}
	rest := body[idx+len(marker):]
	if end := strings.IndexAny(rest, " \n"); end >= 0 {
		rest = rest[:end]
	}
	return rest
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s error, got %v", code, err)
	}
}

type stubMailer struct {
	sent []mailer.Email
	err  error
}

func (s *stubMailer) Send(ctx context.Context, email mailer.Email) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, email)
	return nil
}

type stubRepo struct {
	users map[uuid.UUID]*models.User
}

func newStubRepo() *stubRepo {
	return &stubRepo{users: map[uuid.UUID]*models.User{}}
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email && user.Active {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.users[id]
	if !ok || !user.Active {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubRepo) FindByResetTokenHash(ctx context.Context, digest string) (*models.User, error) {
	for _, user := range s.users {
		if user.PasswordResetTokenHash != nil && *user.PasswordResetTokenHash == digest && user.Active {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) SaveResetToken(ctx context.Context, id uuid.UUID, digest *string, expiresAt *time.Time) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordResetTokenHash = digest
	user.PasswordResetExpiresAt = expiresAt
	return nil
}

func (s *stubRepo) SavePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	user, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetTokenHash = nil
	user.PasswordResetExpiresAt = nil
	user.FailedAttempts = 0
	user.BlockedUntil = nil
	return nil
}
