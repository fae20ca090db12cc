package service

import (
	"coffee_platform/internal/domain" // Domain models and errors
	"coffee_platform/internal/otp"    // One-time codes
	"coffee_platform/internal/utils"  // Tokens, hashing and validation
	"context"                         // Request context
	"errors"                          // Error inspection
	"fmt"                             // Error wrapping
	"strings"                         // Input trimming
	"time"                            // Clock

	"github.com/sirupsen/logrus" // Logrus for business events
	"gorm.io/gorm"               // GORM ORM library
)

// CodeSender delivers a one-time code; delivery failures are not reported
type CodeSender interface {
	SendCode(ctx context.Context, id domain.Identifier, code string, purpose otp.Purpose, ttl time.Duration)
}

// TokenPair is returned on login
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService drives user registration, recovery and login.
//
// Both flows go START -> CODE_ISSUED -> CODE_VERIFIED -> COMPLETED. The only
// state between steps is the outstanding code in Redis and the register token
// held by the client; restarting step one revokes the previous code.
type AuthService struct {
	db       *gorm.DB
	codes    *otp.Issuer
	limiter  *otp.Limiter
	sender   CodeSender
	tokens   *utils.TokenIssuer
	activity *ActivityLog
	now      func() time.Time
}

// NewAuthService wires the registration and login flows
func NewAuthService(db *gorm.DB, codes *otp.Issuer, limiter *otp.Limiter, sender CodeSender, tokens *utils.TokenIssuer, activity *ActivityLog) *AuthService {
	return &AuthService{
		db:       db,
		codes:    codes,
		limiter:  limiter,
		sender:   sender,
		tokens:   tokens,
		activity: activity,
		now:      time.Now,
	}
}

// exists reports whether any account, deleted or not, holds id
func (s *AuthService) exists(ctx context.Context, id domain.Identifier) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Model(&domain.User{}).
		Where(id.Column()+" = ?", id.Value).Count(&count).Error
	return count > 0, err
}

// findUser loads the live account holding id
func (s *AuthService) findUser(ctx context.Context, id domain.Identifier) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where(id.Column()+" = ?", id.Value).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// sendCode rate-limits, issues and dispatches a fresh code
func (s *AuthService) sendCode(ctx context.Context, id domain.Identifier, purpose otp.Purpose) error {
	if err := s.limiter.Allow(ctx, id, purpose); err != nil {
		return err
	}
	code, err := s.codes.Issue(ctx, id)
	if err != nil {
		return fmt.Errorf("issue code: %w", err)
	}
	s.sender.SendCode(ctx, id, code, purpose, s.codes.TTL())
	logrus.WithFields(logrus.Fields{"identifier": id.Value, "purpose": purpose}).Info("One-time code issued")
	return nil
}

// StartRegistration is step one of sign-up
func (s *AuthService) StartRegistration(ctx context.Context, id domain.Identifier, password string) error {
	if err := utils.ValidateIdentifier(id).Err(); err != nil {
		return err
	}
	if err := utils.ValidatePassword(password).Err(); err != nil {
		return err
	}
	taken, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUserAlreadyExists
	}
	return s.sendCode(ctx, id, otp.PurposeRegistration)
}

// StartRecovery is step one of password recovery
func (s *AuthService) StartRecovery(ctx context.Context, id domain.Identifier) error {
	if err := utils.ValidateIdentifier(id).Err(); err != nil {
		return err
	}
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	return s.sendCode(ctx, id, otp.PurposeRecovery)
}

// VerifyCode is step two of both flows; it burns the code and returns a register token
func (s *AuthService) VerifyCode(ctx context.Context, id domain.Identifier, code string) (string, error) {
	code = strings.TrimSpace(code)
	if id.IsZero() || code == "" {
		return "", domain.Invalid("Email or phone number and code are required.")
	}
	if err := s.codes.Consume(ctx, id, code); err != nil {
		return "", err
	}
	return s.tokens.Issue(utils.ActorUser, utils.KindRegister, utils.Claims{Identifier: &id})
}

// CompleteRegistration is step three of sign-up
func (s *AuthService) CompleteRegistration(ctx context.Context, id domain.Identifier, profile utils.RegisterProfile) (*domain.User, error) {
	user, err := s.CreateUser(ctx, id, profile)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "identifier": id.Value}).Info("User registered")
	return user, nil
}

// CreateUser validates profile and stores a new active account for id
func (s *AuthService) CreateUser(ctx context.Context, id domain.Identifier, profile utils.RegisterProfile) (*domain.User, error) {
	if err := utils.ValidateIdentifier(id).Err(); err != nil {
		return nil, err
	}
	if err := utils.ValidateRegister(profile, s.now()).Err(); err != nil {
		return nil, err
	}
	taken, err := s.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrUserAlreadyExists
	}
	hash, err := utils.HashPassword(profile.Password)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		FirstName:       strings.TrimSpace(profile.FirstName),
		SecondName:      strings.TrimSpace(profile.SecondName),
		Password:        hash,
		BirthDate:       profile.BirthDate,
		Gender:          profile.Gender,
		MembershipLevel: domain.MembershipLevels[0],
		Balance:         domain.DefaultBalance,
		AccountStatus:   domain.AccountActive,
		Activities:      []domain.Activity{{Message: "Account created"}},
	}
	user.SetIdentifier(id)
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}
	return &user, nil
}

// CompleteRecovery is step three of recovery
func (s *AuthService) CompleteRecovery(ctx context.Context, id domain.Identifier, password string) error {
	if err := utils.ValidatePassword(password).Err(); err != nil {
		return err
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user.ID, password); err != nil {
		return err
	}
	s.activity.User(ctx, user.ID, "Password changed")
	logrus.WithField("user_id", user.ID).Info("Password recovered")
	return nil
}

// Login checks credentials and mints an access/refresh pair
func (s *AuthService) Login(ctx context.Context, id domain.Identifier, password string) (*TokenPair, *domain.User, error) {
	if id.IsZero() || password == "" {
		return nil, nil, domain.Invalid("Email or phone number and password are required.")
	}
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, nil, domain.ErrInvalidCredentials
	}
	if user.IsBlocked() {
		return nil, nil, domain.ErrAccountBlocked
	}
	pair, err := s.pair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	s.activity.User(ctx, user.ID, "Logged in")
	return pair, user, nil
}

func (s *AuthService) pair(userID uint) (*TokenPair, error) {
	access, err := s.tokens.Issue(utils.ActorUser, utils.KindAccess, utils.Claims{ID: userID})
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(utils.ActorUser, utils.KindRefresh, utils.Claims{ID: userID})
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh mints a new access token for a user presenting a valid refresh token
func (s *AuthService) Refresh(ctx context.Context, userID uint) (string, error) {
	user, err := s.User(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.IsBlocked() {
		return "", domain.ErrAccountBlocked
	}
	return s.tokens.Issue(utils.ActorUser, utils.KindAccess, utils.Claims{ID: user.ID})
}

// User loads a live account by ID
func (s *AuthService) User(ctx context.Context, userID uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the password of a signed-in user
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.User(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, oldPassword) {
		return domain.Invalid("Old password is incorrect.")
	}
	if oldPassword == newPassword {
		return domain.ErrSamePassword
	}
	if err := utils.ValidatePassword(newPassword).Err(); err != nil {
		return err
	}
	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}
	s.activity.User(ctx, user.ID, "Password changed")
	return nil
}

func (s *AuthService) setPassword(ctx context.Context, userID uint, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Update("password", hash).Error
}
