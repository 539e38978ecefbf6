package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carteira/internal/auth"
	apperrors "carteira/internal/errors"
	"carteira/internal/model"
	"carteira/internal/repository"
)

// MFARequiredError signals that credentials verified but a second factor is
// still needed. It carries the user id so the client can continue the flow,
// and unwraps to ErrMFARequired for boundary mapping.
type MFARequiredError struct {
	UserID uuid.UUID
}

func (e *MFARequiredError) Error() string {
	return apperrors.ErrMFARequired.Error()
}

func (e *MFARequiredError) Unwrap() error {
	return apperrors.ErrMFARequired
}

// OAuthUserInfo is the verified identity handed back by an OAuth provider.
type OAuthUserInfo struct {
	Email    string
	Picture  string
	Provider model.AuthProvider
}

// AuthService orchestrates registration, two-step login with MFA gating,
// MFA lifecycle and OAuth account resolution.
type AuthService interface {
	Register(ctx context.Context, email, password string) (string, *model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	LoginFirstStep(ctx context.Context, email, password string) (uuid.UUID, bool, error)
	LoginWithMFA(ctx context.Context, email, password, code string) (string, error)
	SetupMFA(ctx context.Context, userID uuid.UUID) (*auth.MFASetup, error)
	VerifyMFA(ctx context.Context, userID uuid.UUID, code string) (bool, error)
	DisableMFA(ctx context.Context, userID uuid.UUID) error
	MFAStatus(ctx context.Context, userID uuid.UUID) (bool, error)
	AuthenticateOAuth(ctx context.Context, info OAuthUserInfo) (string, *model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
	mfaService *auth.MFAService
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	mfaService *auth.MFAService,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		mfaService: mfaService,
	}
}

// Register creates a new local user and returns an access token.
func (s *authService) Register(ctx context.Context, email, password string) (string, *model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return "", nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", nil, fmt.Errorf("check user existence: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hashed,
		Active:       true,
		Admin:        false,
		AuthProvider: model.ProviderLocal,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}

// verifyCredentials resolves a user by email and checks the password.
// Unknown email and wrong password both yield ErrInvalidCredentials so the
// response cannot be used to enumerate accounts.
func (s *authService) verifyCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates a user and returns an access token. When MFA is
// enabled the login fails with MFARequiredError carrying the user id; the
// client must continue via LoginWithMFA.
func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	if user.MFAEnabled {
		return "", &MFARequiredError{UserID: user.ID}
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}

// LoginFirstStep verifies credentials and reports whether an MFA code is
// still needed, letting the client branch before requesting one.
func (s *authService) LoginFirstStep(ctx context.Context, email, password string) (uuid.UUID, bool, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return uuid.Nil, false, err
	}
	return user.ID, user.MFAEnabled, nil
}

// LoginWithMFA re-verifies credentials, checks the TOTP code and issues a token.
func (s *authService) LoginWithMFA(ctx context.Context, email, password, code string) (string, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	if !user.MFAEnabled || user.MFASecret == "" {
		return "", apperrors.ErrMFANotEnabled
	}
	if !s.mfaService.VerifyCode(user.MFASecret, code) {
		return "", apperrors.ErrInvalidMFACode
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return token, nil
}

// SetupMFA generates and persists a fresh secret for the user. MFA stays
// disabled until the first successful VerifyMFA.
func (s *authService) SetupMFA(ctx context.Context, userID uuid.UUID) (*auth.MFASetup, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.MFAEnabled {
		return nil, apperrors.ErrMFAAlreadyEnabled
	}

	setup, err := s.mfaService.GenerateSetup(user.Email)
	if err != nil {
		return nil, err
	}

	user.MFASecret = setup.Secret
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("store MFA secret: %w", err)
	}
	return setup, nil
}

// VerifyMFA checks a TOTP code against the enrolled secret, flipping the
// enabled flag on the first success.
func (s *authService) VerifyMFA(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}

	if user.MFASecret == "" {
		return false, apperrors.ErrMFANotEnabled
	}
	if !s.mfaService.VerifyCode(user.MFASecret, code) {
		return false, apperrors.ErrInvalidMFACode
	}

	if !user.MFAEnabled {
		user.MFAEnabled = true
		if err := s.userRepo.Update(ctx, user); err != nil {
			return false, fmt.Errorf("enable MFA: %w", err)
		}
		log.Printf("MFA enabled for user %s", user.ID)
	}
	return true, nil
}

// DisableMFA clears the secret and the enabled flag.
func (s *authService) DisableMFA(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if !user.MFAEnabled {
		return apperrors.ErrMFANotEnabled
	}

	user.MFAEnabled = false
	user.MFASecret = ""
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("disable MFA: %w", err)
	}
	return nil
}

// MFAStatus reports whether MFA is enabled for the user.
func (s *authService) MFAStatus(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("find user: %w", err)
	}
	return user.MFAEnabled, nil
}

// AuthenticateOAuth resolves a verified external identity to a local user,
// creating one with an unusable random password on first login and
// reconciling provider/picture on subsequent logins. Always issues a token
// keyed to the resolved user.
func (s *authService) AuthenticateOAuth(ctx context.Context, info OAuthUserInfo) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, info.Email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || err == gorm.ErrRecordNotFound {
		// The random password can never be presented; the account is only
		// reachable through the provider until the user sets a password.
		hashed, err := s.hasher.Hash(uuid.New().String())
		if err != nil {
			return "", nil, err
		}
		user = &model.User{
			ID:             uuid.New(),
			Email:          info.Email,
			PasswordHash:   hashed,
			Active:         true,
			AuthProvider:   info.Provider,
			ProfilePicture: info.Picture,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return "", nil, fmt.Errorf("create oauth user: %w", err)
		}
		log.Printf("registered user %s via %s", user.ID, info.Provider)
	} else {
		changed := false
		if user.AuthProvider != info.Provider {
			user.AuthProvider = info.Provider
			changed = true
		}
		if info.Picture != "" && user.ProfilePicture != info.Picture {
			user.ProfilePicture = info.Picture
			changed = true
		}
		if changed {
			if err := s.userRepo.Update(ctx, user); err != nil {
				return "", nil, fmt.Errorf("update oauth user: %w", err)
			}
		}
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}
	return token, user, nil
}
