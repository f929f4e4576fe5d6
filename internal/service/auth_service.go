package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dan9191/bank-cards/internal/apperror"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository"
)

// AccessTokenIssuer signs access tokens for users.
type AccessTokenIssuer interface {
	Issue(user *models.User) (string, time.Time, error)
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *models.User
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users      UserStore
	tokens     RefreshTokenStore
	issuer     AccessTokenIssuer
	refreshTTL time.Duration
	bcryptCost int
	log        *logrus.Logger
	now        func() time.Time
}

// NewAuthService initializes the auth service
func NewAuthService(users UserStore, tokens RefreshTokenStore, issuer AccessTokenIssuer, refreshTTL time.Duration, log *logrus.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		issuer:     issuer,
		refreshTTL: refreshTTL,
		bcryptCost: bcrypt.DefaultCost,
		log:        log,
		now:        time.Now,
	}
}

func errInvalidCredentials() error {
	return apperror.New(apperror.KindUnauthenticated, "Invalid username or password")
}

// Register creates a new user with hashed password and the USER role.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	s.log.Infof("Registration attempt: %s", username)
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, translate(err, "User", username)
	}
	if exists {
		return nil, apperror.New(apperror.KindConflict, "User already exists with username "+username).
			With("username", username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "Failed to hash password")
	}
	user := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Roles:        []models.Role{models.RoleUser},
		Enabled:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.New(apperror.KindConflict, "User already exists with username "+username).
				With("username", username)
		}
		return nil, translate(err, "User", username)
	}

	s.log.WithField("user_id", user.ID).Infof("User registered: %s", user.Username)
	return user, nil
}

// Login authenticates a user and returns a new token pair. Previous refresh
// tokens of the user are revoked.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, translate(err, "User", username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errInvalidCredentials()
	}
	if !user.Enabled {
		return nil, apperror.New(apperror.KindForbidden, "User account is locked").With("user_id", user.ID)
	}

	if err := s.tokens.DeleteByUserID(ctx, user.ID); err != nil {
		return nil, translate(err, "RefreshToken", user.ID)
	}
	refresh := &models.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.tokens.Create(ctx, refresh); err != nil {
		return nil, translate(err, "RefreshToken", user.ID)
	}
	pair, err := s.issue(user, refresh.Token)
	if err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Infof("User logged in: %s", user.Username)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token.
// Expired refresh tokens are deleted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	token, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.New(apperror.KindUnauthenticated, "Refresh token is not in database")
		}
		return nil, translate(err, "RefreshToken", nil)
	}
	if token.Expired(s.now()) {
		if err := s.tokens.Delete(ctx, token.ID); err != nil {
			s.log.WithError(err).Warn("Failed to delete expired refresh token")
		}
		return nil, apperror.New(apperror.KindUnauthenticated, "Refresh token was expired. Please make a new signin request")
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, translate(err, "User", token.UserID)
	}
	if !user.Enabled {
		return nil, apperror.New(apperror.KindForbidden, "User account is locked").With("user_id", user.ID)
	}
	pair, err := s.issue(user, token.Token)
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("Access token refreshed")
	return pair, nil
}

// Logout revokes every refresh token of the user.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.DeleteByUserID(ctx, userID); err != nil {
		return translate(err, "RefreshToken", userID)
	}
	s.log.WithField("user_id", userID).Info("User logged out")
	return nil
}

// SeedAdmin creates an administrator account unless username is taken.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		s.log.Warn("Admin credentials not configured, skipping admin seed")
		return nil
	}
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if exists {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Roles:        []models.Role{models.RoleUser, models.RoleAdmin},
		Enabled:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	s.log.WithField("user_id", admin.ID).Infof("Admin user created: %s", username)
	return nil
}

func (s *AuthService) issue(user *models.User, refreshToken string) (*TokenPair, error) {
	access, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.KindInternal, "Failed to issue access token")
	}
	return &TokenPair{AccessToken: access, RefreshToken: refreshToken, ExpiresAt: expiresAt, User: user}, nil
}
