package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/prizehub/competitions-api/internal/models"
	appErrors "github.com/prizehub/competitions-api/pkg/errors"
)

type userRepository interface {
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	CreateUser(ctx context.Context, user *models.User) error
	FindAdminByUserID(ctx context.Context, userID string) (*models.AdminUser, error)
	CreateAdminUser(ctx context.Context, admin *models.AdminUser) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}

// AuthConfig carries the token signing parameters.
type AuthConfig struct {
	JWTSecret         string
	TokenExpiration   time.Duration
	RefreshExpiration time.Duration
	Issuer            string
}

// LoginRequest is the credential payload for the admin gate.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest registers a new account. Role is an optional metadata marker;
// only "admin" is meaningful to the gate.
type SignUpRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	Role            string `json:"role" validate:"omitempty,oneof=admin"`
}

// LoginResult is the outcome of a successful pass through the gate.
type LoginResult struct {
	State        models.SessionState `json:"state"`
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	UserID       string              `json:"userId"`
	Email        string              `json:"email"`
}

// SignUpResult reports a registration, including partial provisioning.
type SignUpResult struct {
	AccountID   string `json:"accountId"`
	Provisioned bool   `json:"provisioned"`
	Message     string `json:"message,omitempty"`
}

// AuthService is the admin session gate. A session only reaches the
// authenticated admin state when the account both holds valid credentials and
// resolves to an admin membership record; anything else is signed out.
type AuthService struct {
	users     userRepository
	cfg       AuthConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs the gate.
func NewAuthService(users userRepository, cfg AuthConfig, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TokenExpiration <= 0 {
		cfg.TokenExpiration = 15 * time.Minute
	}
	if cfg.RefreshExpiration <= 0 {
		cfg.RefreshExpiration = 7 * 24 * time.Hour
	}
	return &AuthService{users: users, cfg: cfg, validator: validate, logger: logger}
}

// Login runs the gate: verify credentials, then resolve admin membership.
// An account whose signup metadata carries the admin role marker but has no
// membership row yet is provisioned on first login. Accounts with neither
// signal are forcibly signed out and refused.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.users.FindAccountByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to load account")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	admin, err := s.users.FindAdminByUserID(ctx, account.ID)
	switch {
	case err == nil && admin != nil:
		return s.establishSession(ctx, account)
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to resolve admin membership")
	}

	// No membership row. The signup role marker decides between first-login
	// provisioning and refusal.
	if account.Role == models.RoleAdmin {
		if err := s.provisionAdmin(ctx, account); err != nil {
			s.signOutEverywhere(ctx, account.ID)
			return &LoginResult{State: models.SessionAuthFailed}, appErrors.Wrap(err, appErrors.ErrProvisioning.Code, appErrors.ErrProvisioning.Status, appErrors.ErrProvisioning.Message)
		}
		return s.establishSession(ctx, account)
	}

	s.signOutEverywhere(ctx, account.ID)
	return &LoginResult{State: models.SessionAuthenticatedNonAdmin}, appErrors.Clone(appErrors.ErrNotAdmin, "")
}

// SignUp registers an account. Provisioning of the base user row, and of the
// admin membership when the account carries the admin role marker, is
// best-effort: a failure there still reports the created account, flagged as
// not yet provisioned, so the gate can finish the bootstrap at first login.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signup payload")
	}
	if req.Password != req.ConfirmPassword {
		return nil, appErrors.Clone(appErrors.ErrValidation, "passwords do not match")
	}

	if _, err := s.users.FindAccountByEmail(ctx, req.Email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to check account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := s.users.CreateAccount(ctx, account); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to create account")
	}

	result := &SignUpResult{AccountID: account.ID, Provisioned: true}
	if err := s.users.CreateUser(ctx, &models.User{ID: account.ID, Email: account.Email}); err != nil {
		s.logger.Warn("user provisioning failed at signup", zap.String("account_id", account.ID), zap.Error(err))
		result.Provisioned = false
		result.Message = "account created; profile provisioning pending"
	}
	if account.Role == models.RoleAdmin {
		if err := s.users.CreateAdminUser(ctx, &models.AdminUser{UserID: account.ID}); err != nil {
			s.logger.Warn("admin provisioning failed at signup", zap.String("account_id", account.ID), zap.Error(err))
			result.Provisioned = false
			result.Message = "account created; admin provisioning pending"
		}
	}
	return result, nil
}

// Logout revokes every refresh token for the user.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.users.RevokeUserRefreshTokens(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to revoke tokens")
	}
	return nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, token string) (*LoginResult, error) {
	stored, err := s.users.FindRefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid refresh token")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to load refresh token")
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token expired or revoked")
	}

	admin, err := s.users.FindAdminByUserID(ctx, stored.UserID)
	if err != nil || admin == nil {
		s.signOutEverywhere(ctx, stored.UserID)
		return nil, appErrors.Clone(appErrors.ErrNotAdmin, "")
	}

	account := &models.Account{ID: stored.UserID}
	return s.establishSession(ctx, account)
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

func (s *AuthService) establishSession(ctx context.Context, account *models.Account) (*LoginResult, error) {
	access, err := s.generateAccessToken(account)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	refresh := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    account.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.cfg.RefreshExpiration),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRemoteUnavailable.Code, appErrors.ErrRemoteUnavailable.Status, "failed to persist refresh token")
	}

	return &LoginResult{
		State:        models.SessionAuthenticatedAdmin,
		AccessToken:  access,
		RefreshToken: refresh.Token,
		UserID:       account.ID,
		Email:        account.Email,
	}, nil
}

// provisionAdmin runs the first-login bootstrap for accounts carrying the
// admin role marker. The base user row may already exist from signup, so that
// insert failing is tolerable; the membership insert is not.
func (s *AuthService) provisionAdmin(ctx context.Context, account *models.Account) error {
	if err := s.users.CreateUser(ctx, &models.User{ID: account.ID, Email: account.Email}); err != nil {
		s.logger.Warn("base user provisioning failed during admin bootstrap", zap.String("account_id", account.ID), zap.Error(err))
	}
	if err := s.users.CreateAdminUser(ctx, &models.AdminUser{UserID: account.ID}); err != nil {
		return fmt.Errorf("create admin membership: %w", err)
	}
	s.logger.Info("provisioned admin membership on first login", zap.String("account_id", account.ID))
	return nil
}

func (s *AuthService) signOutEverywhere(ctx context.Context, userID string) {
	if err := s.users.RevokeUserRefreshTokens(ctx, userID); err != nil {
		s.logger.Warn("failed to revoke refresh tokens during sign-out", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *AuthService) generateAccessToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := models.JWTClaims{
		UserID: account.ID,
		Email:  account.Email,
		Admin:  true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenExpiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
