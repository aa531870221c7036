package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	AdminLogin(ctx context.Context, input models.Credentials) (*LoginResult, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

type LoginInput struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	UserType models.UserRole `json:"userType"`
}

type LoginResult struct {
	User  *models.User
	Token string
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, logger *slog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
		now:       time.Now,
	}
}

// Login пускает только студентов и организаторов; роль должна совпасть с выбранной на форме.
func (s *authService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.UserType != models.RoleStudent && input.UserType != models.RoleOrganizer {
		return nil, ErrInvalidUserType
	}
	return s.login(ctx, input.Username, input.Password, input.UserType)
}

func (s *authService) AdminLogin(ctx context.Context, input models.Credentials) (*LoginResult, error) {
	return s.login(ctx, input.Username, input.Password, models.RoleAdmin)
}

func (s *authService) login(ctx context.Context, username, password string, role models.UserRole) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	if user.Role != role {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	user.PasswordHash = ""

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     now.Add(tokenTTL).Unix(),
		"iat":     now.Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// EnsureAdmin создаёт учётку администратора при старте, если её ещё нет.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return fmt.Errorf("admin username %q is taken by a %s account", username, existing.Role)
		}
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        username + "@admin.local",
		Username:     username,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	s.logger.Info("admin account created", slog.String("username", username))
	return nil
}
