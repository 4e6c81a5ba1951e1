package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiry is used when the manager is built with a zero expiry
const DefaultExpiry = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims structure
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager handles JWT operations
type Manager struct {
	secret string
	expiry time.Duration
	now    func() time.Time
}

// NewManager creates new JWT manager
func NewManager(secret string, expiry time.Duration) *Manager {
	if expiry == 0 {
		expiry = DefaultExpiry
	}
	return &Manager{secret: secret, expiry: expiry, now: time.Now}
}

// GenerateToken issues a signed token bound to the user's identity.
// The email is carried both as a dedicated claim and as the subject.
func (m *Manager) GenerateToken(userID int64, email, role string) (string, error) {
	issuedAt := m.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        strconv.FormatInt(userID, 10) + "-" + strconv.FormatInt(issuedAt.UnixNano(), 36),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}

// ParseToken validates signature + expiry and returns the claims.
// Only HS256 is accepted and exp must be present.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	keyFunc := func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ValidateToken reports whether the token is signed by us and not expired
func (m *Manager) ValidateToken(tokenString string) bool {
	_, err := m.ParseToken(tokenString)
	return err == nil
}

// ExtractEmail returns the email of a valid token. Invalid or expired tokens
// never yield an email.
func (m *Manager) ExtractEmail(tokenString string) (string, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	if claims.Email == "" {
		return "", fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return claims.Email, nil
}
