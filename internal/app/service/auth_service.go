package service

import (
	"context"
	"errors"
	"fmt"

	"authsystem/internal/common"
	"authsystem/internal/common/security"
	"authsystem/internal/domain/model"
	"authsystem/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// Register creates a user with a hashed password and issues a session token.
// A duplicate email or username yields ErrConflict, whether caught by the
// combined pre-check or by the store's unique constraint at insert time.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	_, err := s.userRepo.FindByEmailOrUsername(ctx, req.Email, req.Username)
	if err == nil {
		return nil, common.ErrConflict
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration can slip past the pre-check; the
		// repository reports the unique violation as ErrConflict.
		return nil, err
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.Public()}, nil
}

// Login verifies credentials by email. An unknown email and a wrong password
// return the same error so the response does not reveal whether the email is
// registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user.Public()}, nil
}

// GetCurrentUser resolves the id carried by a verified token. The user may
// have been deleted after the token was issued, in which case ErrNotFound
// propagates.
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// DeleteAccount permanently removes the user behind the token. Deleting an
// already-deleted account yields ErrNotFound, so a double submit is safe.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.DeleteByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	return user, nil
}
