package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/woodkari/woodkari-backend/internal/users"
	"github.com/woodkari/woodkari-backend/pkg/config"
	"github.com/woodkari/woodkari-backend/pkg/db"
	"github.com/woodkari/woodkari-backend/pkg/db/models"
	pkgerrors "github.com/woodkari/woodkari-backend/pkg/errors"
	"github.com/woodkari/woodkari-backend/pkg/logger"
	"github.com/woodkari/woodkari-backend/pkg/security"
)

// profileReadTimeout bounds the profile lookup so a stalled read degrades to
// an absent profile instead of blocking the page.
const profileReadTimeout = 6 * time.Second

// Service owns the account surface: profile, password, and deletion.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userID uuid.UUID, accessID string) error
}

type sessionRevoker interface {
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	db          *db.Client
	users       *users.Repository
	session     sessionRevoker
	logg        *logger.Logger
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies for the account service.
type ServiceParams struct {
	DB             *db.Client
	Users          *users.Repository
	Session        sessionRevoker
	Logger         *logger.Logger
	PasswordConfig config.PasswordConfig
}

// NewService constructs an account service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{
		db:          params.DB,
		users:       params.Users,
		session:     params.Session,
		logg:        params.Logger,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// GetProfile loads the profile under a fixed timeout. A timeout or missing
// row yields a nil profile, not an error.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	readCtx, cancel := context.WithTimeout(ctx, profileReadTimeout)
	defer cancel()

	user, err := s.users.FindByID(readCtx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) ||
			errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(readCtx.Err(), context.DeadlineExceeded) {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "profile lookup degraded: "+err.Error())
			}
			return &ProfileResponse{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return &ProfileResponse{Profile: users.FromModel(user)}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full_name is required")
	}

	var phone *string
	if trimmed := strings.TrimSpace(req.Phone); trimmed != "" {
		phone = &trimmed
	}

	if err := s.users.UpdateProfile(ctx, userID, fullName, phone); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload profile")
	}
	return users.FromModel(user), nil
}

func (s *service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 6 characters")
	}
	if req.NewPassword != req.ConfirmPassword {
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store password")
	}
	return nil
}

// DeleteAccount hard-deletes the account in one transaction: cart and
// addresses go, historical orders keep their snapshots but lose the user
// reference, then the user row itself is removed and the session revoked.
func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID, accessID string) error {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart items")
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Address{}).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete addresses")
		}
		if err := tx.Model(&models.Order{}).
			Where("user_id = ?", userID).
			UpdateColumn("user_id", nil).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "detach orders")
		}
		if err := tx.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.session != nil && accessID != "" {
		if err := s.session.Revoke(ctx, accessID); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "revoking session after delete failed: "+err.Error())
		}
	}
	return nil
}
