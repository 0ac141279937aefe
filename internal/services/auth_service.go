package services

import (
	"fmt"
	"log"
	"time"

	"taskhub/internal/models"
	"taskhub/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and session token resolution.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	sessionTTL time.Duration // lifetime of a session token
}

// NewAuthService creates a new AuthService. Sessions are always long-lived
// ("remember me" is permanently on).
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		sessionTTL: 30 * 24 * time.Hour,
	}
}

// SessionTTL returns how long a session token stays valid. Handlers use it
// to align the cookie expiry with the token expiry.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// Register creates a new account with a bcrypt hash of the password. The
// plaintext password is never stored.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	// Check if username or email already exists
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q already taken: %w", username, ErrDuplicateUser)
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %q already registered: %w", email, ErrDuplicateUser)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Authenticate checks the email/password pair and returns a signed session
// token on success. Unknown email and wrong password both report
// ErrInvalidCredentials so the caller learns nothing about which was wrong.
func (s *AuthService) Authenticate(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.sessionTTL).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid session token")
}

// CurrentUser resolves a session token to the user it was issued for. Any
// failure (bad token, deleted user) reports ErrUnauthenticated; the
// middleware treats that as an anonymous request.
func (s *AuthService) CurrentUser(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, fmt.Errorf("%w: token missing user_id claim", ErrUnauthenticated)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("Session token resolved to unknown user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: unknown user", ErrUnauthenticated)
	}
	return user, nil
}
