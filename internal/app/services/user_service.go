package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusrecords/internal/app/models"
	"github.com/yigit/campusrecords/internal/app/models/dto"
	"github.com/yigit/campusrecords/internal/pkg/apperrors"
	"github.com/yigit/campusrecords/internal/pkg/auth"
	"github.com/yigit/campusrecords/internal/pkg/validation"
)

// UserService manages staff accounts and sign-in
type UserService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, username string, req dto.ChangePasswordRequest) error
	List(ctx context.Context) ([]dto.UserResponse, error)
	Remove(ctx context.Context, username string) error
}

type userServiceImpl struct {
	users         UserStore
	jwtService    *auth.JWTService
	adminUsername string
	logger        zerolog.Logger
}

// NewUserService creates a new UserService. adminUsername names the account
// that can never be removed.
func NewUserService(users UserStore, jwtService *auth.JWTService, adminUsername string, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		users:         users,
		jwtService:    jwtService,
		adminUsername: adminUsername,
		logger:        logger.With().Str("service", "user").Logger(),
	}
}

// checkAccount validates the account form
func checkAccount(req dto.RegisterRequest) error {
	if validation.IsBlank(req.Username) {
		return fieldError("username", "Please enter username.")
	}
	if validation.IsBlank(req.Password) {
		return fieldError("password", "Please enter password.")
	}
	if validation.IsBlank(req.Email) {
		return fieldError("email", "Please enter email.")
	}
	if !validation.CompiledPatterns.Email.MatchString(strings.TrimSpace(req.Email)) {
		return fieldError("email", "Please enter a proper mail ID.")
	}
	return nil
}

func (s *userServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	if err := checkAccount(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Password: hash,
		Email:    strings.TrimSpace(req.Email),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUsernameTaken) {
			return nil, apperrors.NewAlreadyExistsError(fmt.Sprintf("Username %q is not available.", user.Username))
		}
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("User registered")
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// Login checks the password and issues an access token. An unknown user and
// a wrong password are reported differently.
func (s *userServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Str("username", req.Username).Msg("Failed sign-in")
		return nil, apperrors.ErrWrongPassword
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user.Username)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Username: user.Username,
	}, nil
}

func (s *userServiceImpl) ChangePassword(ctx context.Context, username string, req dto.ChangePasswordRequest) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, req.CurrentPassword) {
		return apperrors.ErrWrongPassword
	}
	if validation.IsBlank(req.NewPassword) {
		return fieldError("newPassword", "Please enter password.")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, username, hash); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Msg("Password changed")
	return nil
}

func (s *userServiceImpl) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out, nil
}

// Remove deletes a staff account other than the seeded admin
func (s *userServiceImpl) Remove(ctx context.Context, username string) error {
	if username == "" {
		return fieldError("username", "Please select user.")
	}
	if username == s.adminUsername {
		return apperrors.ErrProtectedAccount
	}
	if err := s.users.Delete(ctx, username); err != nil {
		return err
	}
	s.logger.Warn().Str("username", username).Msg("User removed")
	return nil
}
