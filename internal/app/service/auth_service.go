package service

import (
	"context"
	"errors"
	"fmt"

	"event_calendar/internal/common"
	"event_calendar/internal/common/security"
	"event_calendar/internal/domain/model"
	"event_calendar/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AdminSeed holds the fixed identity ensured by SeedAdmin.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

type AuthService struct {
	userRepo repository.UserRepository
	validate *validator.Validate
	admin    AdminSeed
	logger   zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, admin AdminSeed, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		validate: validator.New(),
		admin:    admin,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	// Pre-check both unique columns so the caller gets a conflict instead
	// of a raw constraint violation. The insert still backstops races.
	if _, err := s.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already exists: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info().Str("username", user.Username).Msg("user registered")
	user.PasswordHash = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Login authenticates by username. An unknown username and a wrong
// password produce the same error so the two causes stay
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.PasswordHash = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// SeedAdmin idempotently ensures the fixed admin identity exists.
// Returns true when the admin row was created by this call.
func (s *AuthService) SeedAdmin(ctx context.Context) (bool, error) {
	passwordHash, err := security.HashPassword(s.admin.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		Username:     s.admin.Username,
		Email:        s.admin.Email,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
	}
	created, err := s.userRepo.EnsureAdmin(ctx, admin)
	if err != nil {
		return false, err
	}
	if created {
		s.logger.Info().Str("username", admin.Username).Msg("admin user seeded")
	}
	return created, nil
}

// validationError folds a validator failure into the domain taxonomy
// with a field-level message.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("field %q failed on %q: %w", fe.Field(), fe.Tag(), common.ErrValidation)
	}
	return fmt.Errorf("%s: %w", err.Error(), common.ErrValidation)
}
