package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/oakmill/taskman/internal/apperr"
	"github.com/oakmill/taskman/internal/model"
	"github.com/oakmill/taskman/internal/repository"
	"github.com/oakmill/taskman/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

// AuthService owns credentials and the session token lifecycle: password
// hashing and verification, token issuance, revocation, and per-request
// principal resolution.
type AuthService struct {
	userRepository  repository.UserRepository
	tokenRepository repository.TokenRepository
	emailService    *EmailService
	jwtSecret       string
	jwtExpiry       time.Duration
	bcryptCost      int
}

func NewAuthService(
	userRepository repository.UserRepository,
	tokenRepository repository.TokenRepository,
	emailService *EmailService,
	jwtSecret string,
	jwtExpiry time.Duration,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		userRepository:  userRepository,
		tokenRepository: tokenRepository,
		emailService:    emailService,
		jwtSecret:       jwtSecret,
		jwtExpiry:       jwtExpiry,
		bcryptCost:      bcryptCost,
	}
}

// Signup creates an account and issues its first session token. The welcome
// email is fire-and-forget: a delivery failure is logged and never surfaced.
func (s *AuthService) Signup(name, email, password string) (*model.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateName(name)
	if err != nil {
		return nil, "", apperr.Validation("%s", err.Error())
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, "", apperr.Validation("%s", err.Error())
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, "", apperr.Validation("%s", err.Error())
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", apperr.Conflict("email already registered")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		err := s.emailService.SendWelcomeEmail(user.Email, user.Name)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "email", user.Email)
		}
	}()

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login verifies credentials and issues a new session token. Unknown email
// and wrong password collapse into the same failure so callers cannot probe
// for registered addresses.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", apperr.Auth("unable to login")
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", apperr.Auth("unable to login")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}

	slog.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// IssueToken signs a JWT for the user and appends it to the user's
// server-side token set.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	tokenString, err := s.GenerateJWT(user)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	err = s.tokenRepository.Create(&model.SessionToken{
		UserID: user.ID,
		Token:  tokenString,
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist token: %w", err)
	}

	return tokenString, nil
}

// Logout revokes exactly the presented session token. Other sessions of the
// same user stay valid.
func (s *AuthService) Logout(userID, token string) error {
	err := s.tokenRepository.DeleteByUserAndToken(userID, token)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// LogoutAll empties the user's token set, ending every session.
func (s *AuthService) LogoutAll(userID string) error {
	err := s.tokenRepository.DeleteAllForUser(userID)
	if err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user. The signature and expiry
// check alone is not enough: the exact token must still be present in the
// user's token set, so a logged-out token stops authenticating immediately.
func (s *AuthService) Authenticate(tokenString string) (*model.User, error) {
	claims, err := s.VerifyJWT(tokenString)
	if err != nil {
		return nil, apperr.Auth("please authenticate")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, apperr.Auth("please authenticate")
	}

	_, err = s.tokenRepository.ByUserAndToken(userID, tokenString)
	if err != nil {
		return nil, apperr.Auth("please authenticate")
	}

	user, err := s.userRepository.ByID(userID)
	if err != nil {
		return nil, apperr.Auth("please authenticate")
	}

	return user, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	cost := s.bcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"jti":     uuid.New().String(), // distinct token per session, even within the same second
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
