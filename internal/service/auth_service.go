package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/pkg/logger"
	"learnhub-backend/pkg/validator"
)

var (
	// ErrInvalidCredentials is returned on login with a wrong email or password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned when the username or email is already taken.
	ErrUserExists = errors.New("user with this email or username already exists")
)

const tokenLifetime = 72 * time.Hour

// AuthService handles registration, login and JWT issuing.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a user account and returns it with a fresh token.
func (s *AuthService) Register(req *models.RegisterRequest) (*models.User, string, error) {
	username := validator.TrimSpaces(req.Username)
	email := validator.TrimSpaces(req.Email)

	if !validator.ValidateEmail(email) {
		return nil, "", newValidationError("invalid email address")
	}
	if ok, message := validator.ValidatePassword(req.Password); !ok {
		return nil, "", newValidationError("%s", message)
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, "", ErrUserExists
	} else if !IsNotFound(err) {
		return nil, "", err
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, "", ErrUserExists
	} else if !IsNotFound(err) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		FullName: validator.SanitizeString(req.FullName),
		Role:     "user",
	}
	if err := s.userRepo.Create(user); err != nil {
		if isDuplicateKeyError(err) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
func (s *AuthService) Login(req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(validator.TrimSpaces(req.Email))
	if err != nil {
		if IsNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetUserByID loads a user profile.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateProfile updates mutable profile fields, keeping username and email unique.
func (s *AuthService) UpdateProfile(userID uint, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	username := validator.TrimSpaces(req.Username)
	email := validator.TrimSpaces(req.Email)

	if !validator.ValidateEmail(email) {
		return nil, newValidationError("invalid email address")
	}

	if email != user.Email {
		if _, err := s.userRepo.GetByEmail(email); err == nil {
			return nil, ErrUserExists
		} else if !IsNotFound(err) {
			return nil, err
		}
	}
	if username != user.Username {
		if _, err := s.userRepo.GetByUsername(username); err == nil {
			return nil, ErrUserExists
		} else if !IsNotFound(err) {
			return nil, err
		}
	}

	user.Username = username
	user.Email = email
	user.FullName = validator.SanitizeString(req.FullName)
	user.AvatarURL = validator.TrimSpaces(req.AvatarURL)

	if err := s.userRepo.Update(user); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

// ValidateToken parses a JWT and returns the user id it carries.
func (s *AuthService) ValidateToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid token claims")
	}

	return uint(userID), nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
