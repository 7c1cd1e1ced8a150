package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SarprasYP/sispras/internal/repository"
	"github.com/SarprasYP/sispras/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const DefaultTokenTTL = 120 * time.Hour

var ErrInvalidCredentials = errors.New("invalid username or password")

type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func AuthenticateUser(ctx context.Context, username, password string, users repository.UserStore) (*models.User, error) {
	user, err := users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (m *TokenManager) GenerateJWT(userID string, role string, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type")
	}
	return claims, nil
}

// ActingUserID returns the id of the authenticated user, or nil when the
// request carries none.
func ActingUserID(c *gin.Context) (*int, error) {
	raw, exists := c.Get(ContextUserID)
	if !exists || raw == nil {
		return nil, nil
	}

	userID, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("userID is not a string")
	}

	id, err := strconv.Atoi(userID)
	if err != nil {
		return nil, fmt.Errorf("userID is not numeric: %w", err)
	}
	return &id, nil
}
