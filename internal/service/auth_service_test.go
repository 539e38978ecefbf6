package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"carteira/internal/auth"
	apperrors "carteira/internal/errors"
	"carteira/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestAuthService(repo *MockUserRepository) AuthService {
	hasher := auth.NewPasswordHasher()
	jwtService := auth.NewJWTService("test-secret", 15*time.Minute)
	mfaService := auth.NewMFAService("Carteira Test")
	return NewAuthService(repo, hasher, jwtService, mfaService)
}

func hashedTestPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.NewPasswordHasher().Hash(password)
	require.NoError(t, err)
	return hash
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "email already registered",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").
					Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := newTestAuthService(repo)

			token, user, err := svc.Register(context.Background(), tt.email, tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.email, user.Email)
				assert.True(t, user.Active)
				assert.False(t, user.Admin)
				assert.Equal(t, model.ProviderLocal, user.AuthProvider)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	userID := uuid.New()

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(&model.User{ID: userID, Email: "test@example.com", PasswordHash: hash}, nil)
			},
		},
		{
			name:     "unknown email",
			email:    "missing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "missing@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").
					Return(&model.User{ID: userID, Email: "test@example.com", PasswordHash: hash}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := newTestAuthService(repo)

			token, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_MFARequired(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	userID := uuid.New()

	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
		ID:           userID,
		Email:        "test@example.com",
		PasswordHash: hash,
		MFAEnabled:   true,
		MFASecret:    "SECRET",
	}, nil)
	svc := newTestAuthService(repo)

	token, err := svc.Login(context.Background(), "test@example.com", "password123")
	assert.Empty(t, token)
	assert.ErrorIs(t, err, apperrors.ErrMFARequired)

	var mfaErr *MFARequiredError
	require.True(t, errors.As(err, &mfaErr))
	assert.Equal(t, userID, mfaErr.UserID)
}

func TestAuthService_LoginFirstStep(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	userID := uuid.New()

	repo := new(MockUserRepository)
	repo.On("FindByEmail", mock.Anything, "mfa@example.com").Return(&model.User{
		ID: userID, Email: "mfa@example.com", PasswordHash: hash, MFAEnabled: true, MFASecret: "SECRET",
	}, nil)
	repo.On("FindByEmail", mock.Anything, "plain@example.com").Return(&model.User{
		ID: userID, Email: "plain@example.com", PasswordHash: hash,
	}, nil)
	svc := newTestAuthService(repo)

	id, mfaRequired, err := svc.LoginFirstStep(context.Background(), "mfa@example.com", "password123")
	assert.NoError(t, err)
	assert.True(t, mfaRequired)
	assert.Equal(t, userID, id)

	id, mfaRequired, err = svc.LoginFirstStep(context.Background(), "plain@example.com", "password123")
	assert.NoError(t, err)
	assert.False(t, mfaRequired)
	assert.Equal(t, userID, id)
}

func TestAuthService_LoginWithMFA(t *testing.T) {
	hash := hashedTestPassword(t, "password123")
	userID := uuid.New()

	mfaService := auth.NewMFAService("Carteira Test")
	setup, err := mfaService.GenerateSetup("test@example.com")
	require.NoError(t, err)

	user := func(enabled bool, secret string) *model.User {
		return &model.User{
			ID:           userID,
			Email:        "test@example.com",
			PasswordHash: hash,
			MFAEnabled:   enabled,
			MFASecret:    secret,
		}
	}

	t.Run("valid code issues token", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "test@example.com").Return(user(true, setup.Secret), nil)
		svc := newTestAuthService(repo)

		code, err := totp.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)

		token, err := svc.LoginWithMFA(context.Background(), "test@example.com", "password123", code)
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "test@example.com").Return(user(true, setup.Secret), nil)
		svc := newTestAuthService(repo)

		token, err := svc.LoginWithMFA(context.Background(), "test@example.com", "password123", "000000")
		assert.ErrorIs(t, err, apperrors.ErrInvalidMFACode)
		assert.Empty(t, token)
	})

	t.Run("MFA not enabled", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "test@example.com").Return(user(false, ""), nil)
		svc := newTestAuthService(repo)

		token, err := svc.LoginWithMFA(context.Background(), "test@example.com", "password123", "123456")
		assert.ErrorIs(t, err, apperrors.ErrMFANotEnabled)
		assert.Empty(t, token)
	})

	t.Run("bad credentials checked before MFA", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "test@example.com").Return(user(true, setup.Secret), nil)
		svc := newTestAuthService(repo)

		token, err := svc.LoginWithMFA(context.Background(), "test@example.com", "wrong", "123456")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		assert.Empty(t, token)
	})
}

func TestAuthService_MFALifecycle(t *testing.T) {
	userID := uuid.New()

	t.Run("setup rejected when already enabled", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID: userID, Email: "test@example.com", MFAEnabled: true, MFASecret: "SECRET",
		}, nil)
		svc := newTestAuthService(repo)

		setup, err := svc.SetupMFA(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrMFAAlreadyEnabled)
		assert.Nil(t, setup)
	})

	t.Run("setup persists secret without enabling", func(t *testing.T) {
		user := &model.User{ID: userID, Email: "test@example.com"}
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(user, nil)
		repo.On("Update", mock.Anything, user).Return(nil)
		svc := newTestAuthService(repo)

		setup, err := svc.SetupMFA(context.Background(), userID)
		require.NoError(t, err)
		assert.NotEmpty(t, setup.Secret)
		assert.Equal(t, setup.Secret, user.MFASecret)
		assert.False(t, user.MFAEnabled)
	})

	t.Run("verify without enrollment fails", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		svc := newTestAuthService(repo)

		ok, err := svc.VerifyMFA(context.Background(), userID, "123456")
		assert.ErrorIs(t, err, apperrors.ErrMFANotEnabled)
		assert.False(t, ok)
	})

	t.Run("first successful verify enables MFA", func(t *testing.T) {
		mfaService := auth.NewMFAService("Carteira Test")
		setup, err := mfaService.GenerateSetup("test@example.com")
		require.NoError(t, err)

		user := &model.User{ID: userID, Email: "test@example.com", MFASecret: setup.Secret}
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(user, nil)
		repo.On("Update", mock.Anything, user).Return(nil)
		svc := newTestAuthService(repo)

		code, err := totp.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)

		ok, err := svc.VerifyMFA(context.Background(), userID, code)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, user.MFAEnabled)
	})

	t.Run("disable clears secret and flag", func(t *testing.T) {
		user := &model.User{ID: userID, Email: "test@example.com", MFAEnabled: true, MFASecret: "SECRET"}
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(user, nil)
		repo.On("Update", mock.Anything, user).Return(nil)
		svc := newTestAuthService(repo)

		err := svc.DisableMFA(context.Background(), userID)
		assert.NoError(t, err)
		assert.False(t, user.MFAEnabled)
		assert.Empty(t, user.MFASecret)
	})

	t.Run("disable when not enabled fails", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
		svc := newTestAuthService(repo)

		err := svc.DisableMFA(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrMFANotEnabled)
	})
}

func TestAuthService_AuthenticateOAuth(t *testing.T) {
	t.Run("first social login registers a user", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		svc := newTestAuthService(repo)

		token, user, err := svc.AuthenticateOAuth(context.Background(), OAuthUserInfo{
			Email:    "new@example.com",
			Picture:  "https://example.com/p.png",
			Provider: model.ProviderGoogle,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, model.ProviderGoogle, user.AuthProvider)
		assert.Equal(t, "https://example.com/p.png", user.ProfilePicture)
		assert.NotEmpty(t, user.PasswordHash)
		repo.AssertExpectations(t)
	})

	t.Run("existing user reconciles provider and picture", func(t *testing.T) {
		existing := &model.User{
			ID:           uuid.New(),
			Email:        "known@example.com",
			PasswordHash: "x",
			AuthProvider: model.ProviderLocal,
		}
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "known@example.com").Return(existing, nil)
		repo.On("Update", mock.Anything, existing).Return(nil)
		svc := newTestAuthService(repo)

		token, user, err := svc.AuthenticateOAuth(context.Background(), OAuthUserInfo{
			Email:    "known@example.com",
			Picture:  "https://example.com/new.png",
			Provider: model.ProviderFacebook,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, model.ProviderFacebook, user.AuthProvider)
		assert.Equal(t, "https://example.com/new.png", user.ProfilePicture)
		repo.AssertExpectations(t)
	})

	t.Run("unchanged user skips update", func(t *testing.T) {
		existing := &model.User{
			ID:             uuid.New(),
			Email:          "same@example.com",
			PasswordHash:   "x",
			AuthProvider:   model.ProviderGoogle,
			ProfilePicture: "https://example.com/p.png",
		}
		repo := new(MockUserRepository)
		repo.On("FindByEmail", mock.Anything, "same@example.com").Return(existing, nil)
		svc := newTestAuthService(repo)

		token, _, err := svc.AuthenticateOAuth(context.Background(), OAuthUserInfo{
			Email:    "same@example.com",
			Picture:  "https://example.com/p.png",
			Provider: model.ProviderGoogle,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
