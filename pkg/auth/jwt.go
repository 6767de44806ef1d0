package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/storehub/config"
	"github.com/shashiranjanraj/storehub/pkg/rbac"
)

// ErrNoToken is returned by FromRequest when no bearer token is present.
var ErrNoToken = errors.New("auth: no bearer token")

// Claims holds the typed JWT payload.
type Claims struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Role    string  `json:"role"`
	StoreID *string `json:"storeId"`
	jwt.RegisteredClaims
}

// Principal converts verified claims into an rbac principal.
func (c *Claims) Principal() *rbac.Principal {
	p := &rbac.Principal{
		ID:    c.ID,
		Email: c.Email,
		Role:  rbac.ParseRole(c.Role),
	}
	if c.StoreID != nil && strings.TrimSpace(*c.StoreID) != "" {
		id := strings.TrimSpace(*c.StoreID)
		p.StoreID = &id
	}
	return p
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken signs an access token for p valid for ttl.
func GenerateToken(p rbac.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:      p.ID,
		Email:   p.Email,
		Role:    string(p.Role),
		StoreID: p.StoreID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// FromRequest verifies the bearer token on r. It returns ErrNoToken when the
// header is missing so public endpoints can tell absence from a bad token.
func FromRequest(r *http.Request) (*rbac.Principal, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return nil, ErrNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("auth: malformed authorization header")
	}

	claims, err := ValidateToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	return claims.Principal(), nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

type ctxKey struct{}

// WithContext stores the request's auth context.
func WithContext(ctx context.Context, ac rbac.AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext returns the auth context set by the middleware, or an
// anonymous one.
func FromContext(ctx context.Context) rbac.AuthContext {
	if ac, ok := ctx.Value(ctxKey{}).(rbac.AuthContext); ok {
		return ac
	}
	return rbac.Anonymous()
}
