package service

import (
	"context"
	"errors"
	"fmt"

	"authgate/internal/common"
	"authgate/internal/common/security"
	"authgate/internal/domain/model"
	"authgate/internal/domain/repository"

	"go.uber.org/zap"
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenAuth
	hashCost int
	logger   *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenAuth, hashCost int, logger *zap.Logger) *AuthService {
	if hashCost == 0 {
		hashCost = security.DefaultHashCost
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		hashCost: hashCost,
		logger:   logger.Named("auth"),
	}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  model.Identity
	Token string
}

// Signup registers a new user and issues a token for it.
// Errors: *common.ValidationError, common.ErrConflict, or a wrapped store error.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	switch {
	case err == nil && existing != nil:
		return nil, common.ErrConflict
	case err != nil && !errors.Is(err, common.ErrNotFound):
		s.logger.Error("duplicate check failed", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password, s.hashCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			// Lost the race against a concurrent signup.
			return nil, common.ErrConflict
		}
		s.logger.Error("user insert failed", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.CreateToken(user)
	if err != nil {
		s.logger.Error("token signing failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &AuthResponse{User: user.Identity(), Token: token}, nil
}

// Login checks a username/password pair. Unknown users and wrong passwords
// both return common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error("user lookup failed", zap.Error(err))
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.CreateToken(user)
	if err != nil {
		s.logger.Error("token signing failed", zap.String("user_id", user.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user.Identity(), Token: token}, nil
}

// CreateToken signs the user's id, username and email.
func (s *AuthService) CreateToken(user *model.User) (string, error) {
	return s.tokens.GenerateToken(user.Identity())
}
