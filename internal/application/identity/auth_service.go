package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Auth errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAdminOnly          = shared.NewDomainError("FORBIDDEN", "Access denied. Admin only")
)

// AuthService handles admin sign-in and sign-out
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
// blacklist may be nil, in which case logout only clears the client cookie.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        time.Now,
	}
}

// Login checks the password and issues a session token for an admin
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	if !user.IsAdmin() {
		s.logger.Warn("Non-admin login refused", zap.String("user_id", user.ID.String()))
		return nil, ErrAdminOnly
	}

	token, err := s.jwtService.Issue(auth.SessionInput{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to issue session token", zap.Error(err))
		return nil, shared.WrapDomainError("INTERNAL_ERROR", "Failed to generate authentication token", err)
	}

	s.logger.Info("Admin logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		User:      toUserInfo(user),
	}, nil
}

// Logout revokes a session token for the rest of its lifetime.
// Tokens that no longer validate need no revocation and are ignored.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" || s.blacklist == nil {
		return nil
	}
	claims, err := s.jwtService.Validate(tokenString)
	if err != nil {
		return nil
	}
	ttl := claims.RemainingTTL(s.now())
	if claims.ID == "" || ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to revoke session token", zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("user_id", claims.UserID))
	return nil
}

// CurrentUser returns the signed-in user
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

// SeedAdmin creates the bootstrap administrator unless the email is taken.
// It reports whether a user was created.
func (s *AuthService) SeedAdmin(ctx context.Context, input SeedAdminInput) (bool, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return false, nil
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	name := input.Name
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	user, err := identity.NewUser(name, input.Email, input.Password, identity.RoleAdmin)
	if err != nil {
		return false, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	s.logger.Info("Seeded admin user", zap.String("email", user.Email))
	return true, nil
}
