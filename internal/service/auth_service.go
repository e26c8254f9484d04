package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"todo_api/internal/models"
	"todo_api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = time.Hour
	defaultSigningKey = "dev-only-signing-key" // overridden by auth.signing_key in config

	// Reset tokens expire after an hour, like the framework default the API
	// grew up with.
	resetTokenTTL = time.Hour
)

// Domain errors for auth flows.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidResetToken  = errors.New("invalid password reset token")
)

// AuthConfig carries the token settings from configuration.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// AuthService handles registration, login, token lifecycle and password resets.
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
}

func NewAuthService(repo repository.Authorization, cfg AuthConfig) *AuthService {
	key := cfg.SigningKey
	if key == "" {
		key = defaultSigningKey
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{authRepo: repo, signingKey: []byte(key), tokenTTL: ttl}
}

// Claims defines JWT claims. ID (jti) backs logout revocation.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// Register hashes the password, creates the user and issues a token.
func (s *AuthService) Register(name, email, password string) (models.User, string, error) {
	existing, err := s.authRepo.GetUserByEmail(email)
	if err != nil {
		return models.User{}, "", err
	}
	if existing != nil {
		return models.User{}, "", ErrEmailTaken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("invalid password: %w", err)
	}
	id, err := s.authRepo.CreateUser(name, email, hash)
	if err != nil {
		return models.User{}, "", err
	}

	user, err := s.authRepo.GetUserByID(id)
	if err != nil {
		return models.User{}, "", err
	}
	if user == nil {
		return models.User{}, "", ErrUserNotFound
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return *user, token, nil
}

// Login validates credentials and returns the user with a fresh token. Any
// failure collapses into ErrInvalidCredentials so callers cannot probe for
// registered emails.
func (s *AuthService) Login(email, password string) (models.User, string, error) {
	user, err := s.authRepo.GetUserByEmail(email)
	if err != nil {
		return models.User{}, "", err
	}
	if user == nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err := verifyPassword(user.PasswordHash, password); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return models.User{}, "", err
	}
	return *user, token, nil
}

// ParseToken parses and validates a JWT, rejecting revoked tokens, and
// returns the userID.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	claims, err := s.parseClaims(accessToken)
	if err != nil {
		return 0, err
	}

	revoked, err := s.authRepo.IsTokenRevoked(claims.ID)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// Logout revokes the presented token. Other tokens of the same user stay valid.
func (s *AuthService) Logout(accessToken string) error {
	claims, err := s.parseClaims(accessToken)
	if err != nil {
		return err
	}
	return s.authRepo.RevokeToken(claims.ID, time.Now())
}

// GetUser loads a profile by ID.
func (s *AuthService) GetUser(id int) (*models.User, error) {
	return s.authRepo.GetUserByID(id)
}

// ForgotPassword stores a fresh reset token for the email and returns it.
// Delivery is the caller's concern (this API has no mailer; it is logged).
func (s *AuthService) ForgotPassword(email string) (string, error) {
	user, err := s.authRepo.GetUserByEmail(email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	token := uuid.NewString()
	err = s.authRepo.SavePasswordReset(models.PasswordReset{
		Email:     email,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword validates a pending reset token and replaces the password.
// Tokens are single-use and expire after resetTokenTTL.
func (s *AuthService) ResetPassword(email, token, password string) error {
	reset, err := s.authRepo.GetPasswordReset(email)
	if err != nil {
		return err
	}
	if reset == nil || reset.Token != token {
		return ErrInvalidResetToken
	}
	if time.Since(reset.CreatedAt) > resetTokenTTL {
		_ = s.authRepo.DeletePasswordReset(email)
		return ErrInvalidResetToken
	}

	hash, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}
	if err := s.authRepo.UpdatePassword(email, hash); err != nil {
		return err
	}
	return s.authRepo.DeletePasswordReset(email)
}

// parseClaims verifies signature and expiry and returns the claims.
func (s *AuthService) parseClaims(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT with a unique jti for a user
func (s *AuthService) issueToken(userID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString(s.signingKey)
}
