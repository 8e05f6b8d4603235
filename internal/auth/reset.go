package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/pkg/config"
	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
	"github.com/woodkari/woodkari-backend/pkg/mailer"
	"github.com/woodkari/woodkari-backend/pkg/security"
)

// ResetService drives the forgot/reset password flow. Reset tokens live in
// Redis with a TTL and are single-use.
type ResetService interface {
	RequestReset(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type resetTokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PasswordResetKey(token string) string
}

type resetService struct {
	users       resetUsers
	store       resetTokenStore
	mail        mailer.Sender
	logg        *logger.Logger
	appCfg      config.AppConfig
	passwordCfg config.PasswordConfig
}

type resetUsers interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
}

// ResetServiceParams packages the dependencies for the reset flow.
type ResetServiceParams struct {
	Users          resetUsers
	Store          resetTokenStore
	Mailer         mailer.Sender
	Logger         *logger.Logger
	AppConfig      config.AppConfig
	PasswordConfig config.PasswordConfig
}

// NewResetService builds a password reset service.
func NewResetService(params ResetServiceParams) (ResetService, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("token store is required")
	}
	return &resetService{
		users:       params.Users,
		store:       params.Store,
		mail:        params.Mailer,
		logg:        params.Logger,
		appCfg:      params.AppConfig,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// RequestReset issues a reset token and emails it. Unknown emails succeed
// silently so the endpoint cannot be used to probe accounts.
func (s *resetService) RequestReset(ctx context.Context, req ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	userID := user.ID

	token, err := security.GenerateResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate token")
	}

	ttl := s.passwordCfg.ResetTokenTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if err := s.store.Set(ctx, s.store.PasswordResetKey(token), userID.String(), ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	if s.mail != nil {
		link := fmt.Sprintf("%s/auth/reset-password?token=%s", strings.TrimRight(s.appCfg.SiteURL, "/"), token)
		body := fmt.Sprintf(
			"<p>We received a request to reset your password.</p><p><a href=%q>Reset your password</a></p><p>The link expires in %d minutes.</p>",
			link,
			int(ttl.Minutes()),
		)
		if err := s.mail.Send(email, "Reset your password", body); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "user_id", userID.String()), "sending reset email failed: "+err.Error())
		}
	}
	return nil
}

// ResetPassword redeems a token and replaces the credential hash.
func (s *resetService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	key := s.store.PasswordResetKey(strings.TrimSpace(req.Token))
	stored, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup reset token")
	}

	userID, err := uuid.Parse(stored)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "parse stored user id")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}

	if err := s.store.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "deleting redeemed reset token failed: "+err.Error())
	}
	return nil
}
