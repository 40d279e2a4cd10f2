package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"tableorder_backend/internal/models"
	"tableorder_backend/internal/repositories"
	"tableorder_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// AuthResult is a successful sign-in or registration: the account plus its
// access token.
type AuthResult struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// AuthService handles account registration and login.
type AuthService interface {
	Register(email, password, role string) (*AuthResult, error)
	Login(email, password string) (*AuthResult, error)
	GetUserByID(userID int64) (*models.User, error)
}

type authService struct {
	db   *sql.DB
	repo repositories.AuthRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB, repo repositories.AuthRepository) AuthService {
	return &authService{db: db, repo: repo}
}

func (s *authService) Register(email, password, role string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleOwner {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, Role: role, IsActive: true}
	err = runInTx(s.db, func(executor repositories.SQLExecutor) error {
		_, err := s.repo.CreateUser(executor, user, string(hashed))
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	utils.LogInfo("user registered", map[string]interface{}{"user_id": user.ID, "role": user.Role})
	return s.issueToken(user)
}

func (s *authService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *authService) GetUserByID(userID int64) (*models.User, error) {
	return s.repo.FindUserByID(userID)
}

func (s *authService) issueToken(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	return &AuthResult{User: user, AccessToken: token}, nil
}
