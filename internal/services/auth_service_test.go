package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Ken-Jasadapon/Midterm/internal/auth"
	"github.com/Ken-Jasadapon/Midterm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	user                  *models.User
	getErr                error
	createErr             error
	updatePasswordErr     error
	updateSecretErr       error
	updateNotificationErr error

	updatedPasswordHash string
	updatedSecret       string
	secretUpdates       int
	notificationValue   bool
	notificationUpdates int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	return nil
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	m.updatedPasswordHash = passwordHash
	return nil
}

func (m *mockUserRepository) UpdateSecret(ctx context.Context, id int, secret string) error {
	if m.updateSecretErr != nil {
		return m.updateSecretErr
	}
	m.updatedSecret = secret
	m.secretUpdates++
	return nil
}

func (m *mockUserRepository) UpdateNotification(ctx context.Context, id int, enabled bool) error {
	if m.updateNotificationErr != nil {
		return m.updateNotificationErr
	}
	m.notificationValue = enabled
	m.notificationUpdates++
	return nil
}

// mockRoleRepository is a mock implementation of RoleRepository
type mockRoleRepository struct {
	roleID int
	err    error
}

func (m *mockRoleRepository) GetIDByName(ctx context.Context, name string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.roleID, nil
}

// sentMail records one delivered message
type sentMail struct {
	to      string
	subject string
	body    string
}

// mockMailer is a mock implementation of mailer.Mailer
type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newTestAuthService(userRepo *mockUserRepository, roleRepo *mockRoleRepository, mail *mockMailer) (*authService, *auth.OTPEngine, *auth.TokenGenerator) {
	logger, _ := zap.NewDevelopment()
	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenGenerator("test-secret", time.Minute)
	otp := auth.NewOTPEngine(5*time.Minute, 2)

	return NewAuthService(userRepo, roleRepo, hasher, tokens, otp, mail, logger), otp, tokens
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(digest)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		roleRepo      *mockRoleRepository
		userRepo      *mockUserRepository
		expectedError error
	}{
		{
			name:     "success",
			roleRepo: &mockRoleRepository{roleID: 3},
			userRepo: &mockUserRepository{},
		},
		{
			name:          "unknown role",
			roleRepo:      &mockRoleRepository{err: models.ErrInvalidRole},
			userRepo:      &mockUserRepository{},
			expectedError: models.ErrInvalidRole,
		},
		{
			name:          "role outside known set",
			roleRepo:      &mockRoleRepository{roleID: 9},
			userRepo:      &mockUserRepository{},
			expectedError: models.ErrInvalidRole,
		},
		{
			name:          "create fails",
			roleRepo:      &mockRoleRepository{roleID: 3},
			userRepo:      &mockUserRepository{createErr: errors.New("database error")},
			expectedError: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, tokens := newTestAuthService(tt.userRepo, tt.roleRepo, &mockMailer{})

			token, err := svc.Register(context.Background(), &models.RegisterRequest{
				Username: "alice",
				Password: "password123",
				Email:    "a@x.com",
				Role:     "customer",
			})

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			claims, err := tokens.Validate(token)
			require.NoError(t, err)
			assert.Equal(t, 1, claims.UserID)
			assert.Equal(t, 3, claims.RoleID)
		})
	}
}

func TestAuthService_Login_FirstPhase(t *testing.T) {
	userRepo := &mockUserRepository{
		user: &models.User{
			ID:           1,
			Username:     "alice",
			Email:        "a@x.com",
			PasswordHash: hashPassword(t, "password123"),
			RoleID:       models.RoleCustomer,
		},
	}
	mail := &mockMailer{}
	svc, otp, _ := newTestAuthService(userRepo, &mockRoleRepository{}, mail)

	result, err := svc.Login(context.Background(), &models.LoginRequest{
		Username: "alice",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.True(t, result.OTPSent)
	assert.Empty(t, result.Token)

	// A secret was provisioned and the mailed code verifies against it
	require.NotEmpty(t, userRepo.updatedSecret)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "a@x.com", mail.sent[0].to)
	assert.Equal(t, "Your OTP Code", mail.sent[0].subject)

	code := mail.sent[0].body[len("Your OTP code is "):]
	assert.True(t, otp.VerifyCode(userRepo.updatedSecret, code, time.Now()))
}

func TestAuthService_Login_SecondPhase(t *testing.T) {
	otpProbe := auth.NewOTPEngine(5*time.Minute, 2)
	secret, err := otpProbe.GenerateSecret()
	require.NoError(t, err)

	user := &models.User{
		ID:           1,
		Username:     "alice",
		Email:        "a@x.com",
		PasswordHash: hashPassword(t, "password123"),
		RoleID:       models.RoleCustomer,
		Secret:       secret,
	}
	svc, otp, tokens := newTestAuthService(&mockUserRepository{user: user}, &mockRoleRepository{}, &mockMailer{})

	code, err := otp.GenerateCode(secret, time.Now())
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), &models.LoginRequest{
		Username: "alice",
		Password: "password123",
		OTP:      code,
	})

	require.NoError(t, err)
	assert.False(t, result.OTPSent)

	claims, err := tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, int(models.RoleCustomer), claims.RoleID)
}

func TestAuthService_Login_Failures(t *testing.T) {
	secret := "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	user := func() *models.User {
		return &models.User{
			ID:           1,
			Username:     "alice",
			Email:        "a@x.com",
			PasswordHash: hashPassword(t, "password123"),
			RoleID:       models.RoleCustomer,
			Secret:       secret,
		}
	}

	tests := []struct {
		name          string
		userRepo      *mockUserRepository
		mailer        *mockMailer
		request       *models.LoginRequest
		expectedError error
	}{
		{
			name:          "unknown user",
			userRepo:      &mockUserRepository{getErr: models.ErrUserNotFound},
			mailer:        &mockMailer{},
			request:       &models.LoginRequest{Username: "ghost", Password: "password123"},
			expectedError: models.ErrNotFound,
		},
		{
			name:          "wrong password",
			userRepo:      &mockUserRepository{user: user()},
			mailer:        &mockMailer{},
			request:       &models.LoginRequest{Username: "alice", Password: "wrong"},
			expectedError: models.ErrInvalidPassword,
		},
		{
			name:          "wrong otp",
			userRepo:      &mockUserRepository{user: user()},
			mailer:        &mockMailer{},
			request:       &models.LoginRequest{Username: "alice", Password: "password123", OTP: "000000"},
			expectedError: models.ErrInvalidOTP,
		},
		{
			name:          "otp delivery failure",
			userRepo:      &mockUserRepository{user: user()},
			mailer:        &mockMailer{err: errors.New("smtp unreachable")},
			request:       &models.LoginRequest{Username: "alice", Password: "password123"},
			expectedError: models.ErrDelivery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAuthService(tt.userRepo, &mockRoleRepository{}, tt.mailer)

			result, err := svc.Login(context.Background(), tt.request)

			assert.ErrorIs(t, err, tt.expectedError)
			assert.Nil(t, result)
		})
	}
}

func TestAuthService_EnsureSecret_Idempotent(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc, _, _ := newTestAuthService(userRepo, &mockRoleRepository{}, &mockMailer{})

	user := &models.User{ID: 1, Email: "a@x.com"}

	first, err := svc.EnsureSecret(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, 1, userRepo.secretUpdates)

	// The second call reuses the provisioned secret without another write
	second, err := svc.EnsureSecret(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, userRepo.secretUpdates)
}

func TestAuthService_ChangePassword(t *testing.T) {
	tests := []struct {
		name          string
		oldPassword   string
		expectedError error
	}{
		{
			name:        "success",
			oldPassword: "password123",
		},
		{
			name:          "wrong old password",
			oldPassword:   "wrong",
			expectedError: models.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepository{
				user: &models.User{ID: 1, PasswordHash: hashPassword(t, "password123")},
			}
			svc, _, _ := newTestAuthService(userRepo, &mockRoleRepository{}, &mockMailer{})

			err := svc.ChangePassword(context.Background(), 1, &models.ChangePasswordRequest{
				OldPassword: tt.oldPassword,
				NewPassword: "newpassword456",
			})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, userRepo.updatedPasswordHash)
				return
			}

			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(userRepo.updatedPasswordHash), []byte("newpassword456")))
		})
	}
}

func TestAuthService_RequestOTP(t *testing.T) {
	userRepo := &mockUserRepository{
		user: &models.User{
			ID:           1,
			Email:        "a@x.com",
			PasswordHash: hashPassword(t, "password123"),
			Secret:       "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
		},
	}
	mail := &mockMailer{}
	svc, _, _ := newTestAuthService(userRepo, &mockRoleRepository{}, mail)

	err := svc.RequestOTP(context.Background(), &models.RequestOTPRequest{
		Username: "alice",
		Password: "password123",
	})

	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "Your OTP Code", mail.sent[0].subject)
	// The stored secret is reused, not replaced
	assert.Equal(t, 0, userRepo.secretUpdates)
}

func TestAuthService_RequestOTP_WrongPassword(t *testing.T) {
	userRepo := &mockUserRepository{
		user: &models.User{ID: 1, Email: "a@x.com", PasswordHash: hashPassword(t, "password123")},
	}
	mail := &mockMailer{}
	svc, _, _ := newTestAuthService(userRepo, &mockRoleRepository{}, mail)

	err := svc.RequestOTP(context.Background(), &models.RequestOTPRequest{
		Username: "alice",
		Password: "wrong",
	})

	assert.ErrorIs(t, err, models.ErrInvalidPassword)
	assert.Empty(t, mail.sent)
}

func TestAuthService_SetNotification(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc, _, _ := newTestAuthService(userRepo, &mockRoleRepository{}, &mockMailer{})

	err := svc.SetNotification(context.Background(), 1, true)

	require.NoError(t, err)
	assert.Equal(t, 1, userRepo.notificationUpdates)
	assert.True(t, userRepo.notificationValue)
}
