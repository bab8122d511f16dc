package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkranz/leadgate/internal/config"
)

// Identity is what a request proved about itself. Unauthenticated requests
// still carry a role (from the role cookie, degraded to viewer) so that
// permission checks behave uniformly.
type Identity struct {
	Authenticated bool
	UserID        string
	Email         string
	Name          string
	Role          Role
}

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier resolves request cookies into an Identity. The auth token cookie
// must be a valid HMAC-signed JWT; a token that cannot be verified counts as
// no token at all.
type Verifier struct {
	secret      []byte
	tokenCookie string
	roleCookie  string
	tokenTTL    time.Duration
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret:      []byte(cfg.JWTSecret),
		tokenCookie: cfg.TokenCookie,
		roleCookie:  cfg.RoleCookie,
		tokenTTL:    cfg.TokenTTL,
	}
}

// Enabled reports whether a signing secret is configured. Without one no
// request can authenticate.
func (v *Verifier) Enabled() bool {
	return len(v.secret) > 0
}

func (v *Verifier) Identify(r *http.Request) Identity {
	ident := Identity{Role: RoleViewer}

	if c, err := r.Cookie(v.roleCookie); err == nil {
		ident.Role = ParseRole(c.Value)
	}

	if !v.Enabled() {
		return ident
	}

	c, err := r.Cookie(v.tokenCookie)
	if err != nil || c.Value == "" {
		return ident
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return ident
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
		return ident
	}

	ident.Authenticated = true
	ident.UserID = claims.Subject
	ident.Email = claims.Email
	ident.Name = claims.Name
	if claims.Role != "" {
		ident.Role = ParseRole(claims.Role)
	}
	return ident
}

// Issue mints a signed auth token for the given user. Used by the demo
// login flow and by tests.
func (v *Verifier) Issue(userID, email, name string, role Role) (string, error) {
	if !v.Enabled() {
		return "", fmt.Errorf("auth secret not configured")
	}

	now := time.Now()
	claims := &Claims{
		Email: email,
		Name:  name,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(v.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
