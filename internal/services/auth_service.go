package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Ken-Jasadapon/Midterm/internal/auth"
	"github.com/Ken-Jasadapon/Midterm/internal/mailer"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database and fills in its ID.
	//
	// If some error occurs during user creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByUsername retrieves a user by username.
	//
	// If user with such username does not exist, models.ErrUserNotFound
	// will be returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrUserNotFound
	// will be returned together with "nil" value.
	GetByID(ctx context.Context, id int) (*models.User, error)
	// Method UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id int, passwordHash string) error
	// Method UpdateSecret persists the user's OTP secret.
	UpdateSecret(ctx context.Context, id int, secret string) error
	// Method UpdateNotification toggles the product notification preference.
	UpdateNotification(ctx context.Context, id int, enabled bool) error
}

// RoleRepository is the interface that wraps methods for roles reference table access
type RoleRepository interface {
	// Method GetIDByName resolves a role name to its persisted identifier.
	//
	// If no role with such name exists, models.ErrInvalidRole will be returned.
	GetIDByName(ctx context.Context, name string) (int, error)
}

// LoginResult is the outcome of a login attempt. When OTPSent is true the
// first factor passed and a code was mailed; Token is only set once the
// second factor completes.
type LoginResult struct {
	Token   string
	OTPSent bool
}

// authService implements registration, two-phase login and account settings
type authService struct {
	userRepo UserRepository
	roleRepo RoleRepository
	hasher   *auth.Hasher
	tokens   *auth.TokenGenerator
	otp      *auth.OTPEngine
	mailer   mailer.Mailer
	logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo UserRepository,
	roleRepo RoleRepository,
	hasher *auth.Hasher,
	tokens *auth.TokenGenerator,
	otp *auth.OTPEngine,
	mailer mailer.Mailer,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		hasher:   hasher,
		tokens:   tokens,
		otp:      otp,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register creates a new user account and issues a session token
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (string, error) {
	// Resolve the role against the reference table, then cross-check it is
	// one of the identifiers the code knows how to authorize
	roleID, err := s.roleRepo.GetIDByName(ctx, req.Role)
	if err != nil {
		return "", err
	}
	if !models.Role(roleID).Valid() {
		return "", models.ErrInvalidRole
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		RoleID:       models.Role(roleID),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", err
	}

	return s.tokens.Generate(user.ID, roleID)
}

// Login runs one phase of the two-phase login flow. Without an OTP it
// verifies the password, provisions a secret if the user has none, and mails
// a fresh code. With an OTP it verifies the code and issues a session token.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, models.ErrInvalidPassword
	}

	if req.OTP == "" {
		if err := s.sendOTP(ctx, user); err != nil {
			return nil, err
		}
		return &LoginResult{OTPSent: true}, nil
	}

	if !s.otp.VerifyCode(user.Secret, req.OTP, time.Now()) {
		return nil, models.ErrInvalidOTP
	}

	token, err := s.tokens.Generate(user.ID, int(user.RoleID))
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token}, nil
}

// RequestOTP re-verifies the password and mails a fresh code
func (s *authService) RequestOTP(ctx context.Context, req *models.RequestOTPRequest) error {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return models.ErrInvalidPassword
	}

	return s.sendOTP(ctx, user)
}

// ChangePassword verifies the current password and stores a new hash
func (s *authService) ChangePassword(ctx context.Context, userID int, req *models.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(req.OldPassword, user.PasswordHash) {
		return models.ErrInvalidPassword
	}

	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(ctx, userID, passwordHash)
}

// SetNotification toggles the new-product email preference
func (s *authService) SetNotification(ctx context.Context, userID int, enabled bool) error {
	return s.userRepo.UpdateNotification(ctx, userID, enabled)
}

// EnsureSecret returns the user's OTP secret, provisioning one on first use.
// Two concurrent first-time logins can both provision; the later write wins
// and only the matching code verifies, so the loser simply retries.
func (s *authService) EnsureSecret(ctx context.Context, user *models.User) (string, error) {
	if user.Secret != "" {
		return user.Secret, nil
	}

	secret, err := s.otp.GenerateSecret()
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateSecret(ctx, user.ID, secret); err != nil {
		return "", err
	}

	user.Secret = secret
	return secret, nil
}

// sendOTP generates the current code for the user's secret and mails it
func (s *authService) sendOTP(ctx context.Context, user *models.User) error {
	secret, err := s.EnsureSecret(ctx, user)
	if err != nil {
		return err
	}

	code, err := s.otp.GenerateCode(secret, time.Now())
	if err != nil {
		return err
	}

	if err := s.mailer.Send(user.Email, "Your OTP Code", "Your OTP code is "+code); err != nil {
		s.logger.Error("failed to send otp email", zap.Int("userId", user.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", models.ErrDelivery, err)
	}

	return nil
}
