package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"account-ledger/internal/repository"
	"account-ledger/internal/throttle"
	"account-ledger/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("wrong email or password")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
)

type AuthService struct {
	jwtSecret     string
	jwtExpiration time.Duration
	users         repository.UserStore
	throttle      *throttle.Tracker

	// fillerHash is compared against when the email is unknown, so a lookup
	// miss costs the same as a wrong password and does not leak which emails
	// are registered.
	fillerHash []byte
}

func NewAuthService(secret string, expiration time.Duration, users repository.UserStore, tracker *throttle.Tracker) *AuthService {
	filler, err := bcrypt.GenerateFromPassword([]byte(uuid.New().String()), bcrypt.DefaultCost)
	if err != nil {
		// Only reachable with an invalid cost; a nil filler still compares
		// as a mismatch, so logins stay safe.
		utils.LogError("AuthService", "Generating filler hash", err)
	}
	return &AuthService{
		jwtSecret:     secret,
		jwtExpiration: expiration,
		users:         users,
		throttle:      tracker,
		fillerHash:    filler,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Login runs the throttle check before any credential verification, then the
// constant-cost credential check, and finally updates the throttle state.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if blocked, until := s.throttle.Blocked(email); blocked {
		utils.LogWarning("AuthService", "Login for %s rejected, cooldown until %s",
			email, until.Format(time.RFC3339))
		return "", ErrTooManyAttempts
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		// A storage outage is retryable; it never counts against the
		// throttle and never reads as bad credentials.
		return "", fmt.Errorf("looking up %s: %w", email, err)
	}

	hash := s.fillerHash
	if err == nil {
		hash = []byte(user.PasswordHash)
	}
	passwordOK := bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil

	if err != nil || !passwordOK {
		s.throttle.RecordFailure(email)
		return "", ErrInvalidCredentials
	}

	s.throttle.Reset(email)

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return "", err
	}
	utils.LogSuccess("AuthService", "User %s logged in", user.ID)
	return token, nil
}

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *AuthService) GenerateToken(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
