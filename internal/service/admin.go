package service

import (
	"coffee_platform/internal/domain" // Domain models and errors
	"coffee_platform/internal/utils"  // Tokens and hashing
	"context"                         // Request context
	"errors"                          // Error inspection

	"github.com/sirupsen/logrus" // Logrus for business events
	"gorm.io/gorm"               // GORM ORM library
)

// AdminAuthService signs the platform admin in
type AdminAuthService struct {
	db       *gorm.DB
	tokens   *utils.TokenIssuer
	activity *ActivityLog
}

// NewAdminAuthService wires admin login
func NewAdminAuthService(db *gorm.DB, tokens *utils.TokenIssuer, activity *ActivityLog) *AdminAuthService {
	return &AdminAuthService{db: db, tokens: tokens, activity: activity}
}

// Admin loads an admin by ID
func (s *AdminAuthService) Admin(ctx context.Context, adminID uint) (*domain.Admin, error) {
	var admin domain.Admin
	err := s.db.WithContext(ctx).First(&admin, adminID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Login checks the admin credentials; unknown usernames and wrong passwords look the same
func (s *AdminAuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var admin domain.Admin
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(admin.Password, password) {
		logrus.WithField("username", username).Warn("Admin login failed")
		return nil, domain.ErrInvalidCredentials
	}
	access, err := s.tokens.Issue(utils.ActorAdmin, utils.KindAccess, utils.Claims{ID: admin.ID})
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(utils.ActorAdmin, utils.KindRefresh, utils.Claims{ID: admin.ID})
	if err != nil {
		return nil, err
	}
	s.activity.Admin(ctx, admin.ID, "Logged in")
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new admin access token
func (s *AdminAuthService) Refresh(ctx context.Context, adminID uint) (string, error) {
	admin, err := s.Admin(ctx, adminID)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(utils.ActorAdmin, utils.KindAccess, utils.Claims{ID: admin.ID})
}

// ChangePassword replaces the admin password
func (s *AdminAuthService) ChangePassword(ctx context.Context, adminID uint, oldPassword, newPassword string) error {
	admin, err := s.Admin(ctx, adminID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(admin.Password, oldPassword) {
		return domain.Invalid("Old password is incorrect.")
	}
	if oldPassword == newPassword {
		return domain.ErrSamePassword
	}
	if err := utils.ValidatePassword(newPassword).Err(); err != nil {
		return err
	}
	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(admin).Update("password", hash).Error; err != nil {
		return err
	}
	s.activity.Admin(ctx, admin.ID, "Password changed")
	return nil
}
