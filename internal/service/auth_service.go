package service

import (
	"context"
	"errors"
	"strings"

	"go-diamond-ledger/internal/apperr"
	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/repository"
	"go-diamond-ledger/pkg/jwt"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionRevoked     = errors.New("session expired, please log in again")
)

type SignUpRequest struct {
	UserName string `json:"userName" validate:"required,min=3,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof='Super Admin' Admin Operator"`
}

type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*LoginResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Authenticate(ctx context.Context, token string) (*model.User, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	Users(ctx context.Context) ([]model.User, error)
	ResetPassword(ctx context.Context, userName, newPassword string) error
	EnsureUser(ctx context.Context, userName, password, role string) (bool, error)
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (*LoginResponse, error) {
	req.UserName = strings.TrimSpace(req.UserName)
	if err := validate(req); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByUserName(ctx, req.UserName)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("User already exists")
	}

	user := &model.User{UserName: req.UserName, Role: req.Role, TokenVersion: uuid.NewString()}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, apperr.Validation("User already exists")
		}
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUserName(ctx, strings.TrimSpace(req.UserName))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.Validation("%s", ErrInvalidCredentials.Error())
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, apperr.Validation("%s", ErrInvalidCredentials.Error())
	}

	// A fresh version signs every other session of this user out.
	user.TokenVersion = uuid.NewString()
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateTokenVersion(ctx, userID, uuid.NewString())
}

// Authenticate resolves a session token to its still-valid user.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperr.Unauthenticated("%s", err.Error())
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.Unauthenticated("User not found")
		}
		return nil, err
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, apperr.Unauthenticated("%s", ErrSessionRevoked.Error())
	}
	return user, nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return user, nil
}

func (s *authService) Users(ctx context.Context) ([]model.User, error) {
	return s.userRepo.FindAll(ctx)
}

// ResetPassword sets a new password and revokes every open session.
func (s *authService) ResetPassword(ctx context.Context, userName, newPassword string) error {
	if len(newPassword) < 6 {
		return apperr.Validation("Password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByUserName(ctx, userName)
	if err != nil {
		return notFoundOr(err, "User not found")
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	return s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.NewString())
}

// EnsureUser creates userName when it does not exist yet. It reports whether
// a user was created.
func (s *authService) EnsureUser(ctx context.Context, userName, password, role string) (bool, error) {
	_, err := s.userRepo.FindByUserName(ctx, strings.TrimSpace(userName))
	if err == nil {
		return false, nil
	}
	if !repository.IsNotFound(err) {
		return false, err
	}
	if _, err := s.SignUp(ctx, SignUpRequest{UserName: userName, Password: password, Role: role}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *authService) issue(user *model.User) (*LoginResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.UserName, user.Role, user.TokenVersion)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user}, nil
}
