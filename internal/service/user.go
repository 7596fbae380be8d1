package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/oakmill/taskman/internal/apperr"
	"github.com/oakmill/taskman/internal/model"
	"github.com/oakmill/taskman/internal/repository"
	"github.com/oakmill/taskman/internal/validation"
)

// profileUpdateFields is the allow-list for PATCH /users/me. Any other key
// in the request body rejects the whole update.
var profileUpdateFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

type UserService struct {
	userRepository repository.UserRepository
	authService    *AuthService
	avatarService  *AvatarService
	emailService   *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	authService *AuthService,
	avatarService *AvatarService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		authService:    authService,
		avatarService:  avatarService,
		emailService:   emailService,
	}
}

func (s *UserService) ByID(id string) (*model.User, error) {
	return s.userRepository.ByID(id)
}

// UpdateProfile applies a partial update from a decoded JSON body. Keys
// outside the allow-list fail the whole request with no fields changed.
func (s *UserService) UpdateProfile(user *model.User, updates map[string]any) (*model.User, error) {
	for key := range updates {
		if !profileUpdateFields[key] {
			return nil, apperr.Validation("invalid updates")
		}
	}

	if raw, ok := updates["name"]; ok {
		name, ok := raw.(string)
		if !ok {
			return nil, apperr.Validation("name must be a string")
		}
		err := validation.ValidateName(name)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		user.Name = strings.TrimSpace(name)
	}

	if raw, ok := updates["email"]; ok {
		email, ok := raw.(string)
		if !ok {
			return nil, apperr.Validation("email must be a string")
		}
		email = strings.TrimSpace(strings.ToLower(email))
		err := validation.ValidateEmail(email)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		user.Email = email
	}

	if raw, ok := updates["password"]; ok {
		password, ok := raw.(string)
		if !ok {
			return nil, apperr.Validation("password must be a string")
		}
		err := validation.ValidatePassword(password)
		if err != nil {
			return nil, apperr.Validation("%s", err.Error())
		}
		hash, err := s.authService.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	if raw, ok := updates["age"]; ok {
		age, ok := raw.(float64)
		if !ok || age != math.Trunc(age) {
			return nil, apperr.Validation("age must be an integer")
		}
		if age < 0 {
			return nil, apperr.Validation("age must be a positive number")
		}
		n := int64(age)
		user.Age = &n
	}

	user.UpdatedAt = time.Now()
	err := s.userRepository.Update(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user row; tokens and tasks go with it in the
// same statement through the ON DELETE CASCADE foreign keys. The avatar
// object and the goodbye email are best-effort side effects.
func (s *UserService) DeleteAccount(user *model.User) error {
	if user.HasAvatar() {
		err := s.avatarService.removeObject(*user.AvatarPath)
		if err != nil {
			slog.Warn("failed to delete avatar object", "error", err, "user_id", user.ID)
		}
	}

	err := s.userRepository.Delete(user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	go func() {
		err := s.emailService.SendGoodbyeEmail(user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send goodbye email", "error", err, "email", user.Email)
		}
	}()

	slog.Info("account deleted", "user_id", user.ID)
	return nil
}
