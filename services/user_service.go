package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/repositories"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	RegisterStudent(ctx context.Context, input SignUpInput) (*models.User, error)
	RegisterOrganizer(ctx context.Context, input SignUpInput) (*models.User, error)
	ListStudents(ctx context.Context) ([]models.User, error)
	ListOrganizers(ctx context.Context) ([]models.User, error)
}

type SignUpInput struct {
	Name     string          `json:"name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Username string          `json:"username" validate:"required"`
	Password string          `json:"password" validate:"required,strongpassword"`
	UserType models.UserRole `json:"userType"`
	Address  string          `json:"address"`
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) RegisterStudent(ctx context.Context, input SignUpInput) (*models.User, error) {
	return s.register(ctx, input, models.RoleStudent)
}

func (s *userService) RegisterOrganizer(ctx context.Context, input SignUpInput) (*models.User, error) {
	if strings.TrimSpace(input.Address) == "" {
		return nil, ErrAddressRequired
	}
	return s.register(ctx, input, models.RoleOrganizer)
}

func (s *userService) register(ctx context.Context, input SignUpInput, role models.UserRole) (*models.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	// userType в теле необязателен, но если передан, должен совпадать с эндпоинтом.
	if input.UserType != "" && input.UserType != role {
		return nil, ErrInvalidUserType
	}
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		Username:     input.Username,
		Role:         role,
		PasswordHash: string(hashedPassword),
	}
	if role == models.RoleOrganizer {
		address := strings.TrimSpace(input.Address)
		user.Address = &address
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserUsernameConflict):
			return nil, ErrUserUsernameConflict
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListStudents(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByRole(ctx, models.RoleStudent)
}

func (s *userService) ListOrganizers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListByRole(ctx, models.RoleOrganizer)
}
