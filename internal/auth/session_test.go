package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dkranz/leadgate/internal/auth"
	"github.com/dkranz/leadgate/internal/config"
)

func testVerifier(secret string) *auth.Verifier {
	return auth.NewVerifier(config.AuthConfig{
		JWTSecret:   secret,
		TokenCookie: "auth_token",
		RoleCookie:  "user_role",
		TokenTTL:    time.Hour,
	})
}

func requestWithCookies(cookies ...*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestIdentifyValidToken(t *testing.T) {
	v := testVerifier("testsecret")
	token, err := v.Issue("u-1", "ana@example.com", "Ana", auth.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	ident := v.Identify(requestWithCookies(&http.Cookie{Name: "auth_token", Value: token}))
	if !ident.Authenticated {
		t.Fatal("expected authenticated identity")
	}
	if ident.UserID != "u-1" || ident.Email != "ana@example.com" || ident.Role != auth.RoleAdmin {
		t.Errorf("identity mismatch: %+v", ident)
	}
}

func TestIdentifyNoCookies(t *testing.T) {
	v := testVerifier("testsecret")
	ident := v.Identify(requestWithCookies())
	if ident.Authenticated {
		t.Error("no cookie must not authenticate")
	}
	if ident.Role != auth.RoleViewer {
		t.Errorf("role = %q, want viewer", ident.Role)
	}
}

func TestIdentifyTamperedToken(t *testing.T) {
	v := testVerifier("testsecret")
	other := testVerifier("othersecret")
	token, _ := other.Issue("u-1", "ana@example.com", "Ana", auth.RoleAdmin)

	ident := v.Identify(requestWithCookies(&http.Cookie{Name: "auth_token", Value: token}))
	if ident.Authenticated {
		t.Error("token signed with the wrong secret must not authenticate")
	}
}

func TestIdentifyGarbageToken(t *testing.T) {
	v := testVerifier("testsecret")
	ident := v.Identify(requestWithCookies(&http.Cookie{Name: "auth_token", Value: "not-a-jwt"}))
	if ident.Authenticated {
		t.Error("garbage token must not authenticate")
	}
}

func TestIdentifyRoleCookieFallback(t *testing.T) {
	v := testVerifier("testsecret")

	ident := v.Identify(requestWithCookies(&http.Cookie{Name: "user_role", Value: "moderator"}))
	if ident.Authenticated {
		t.Error("role cookie alone must not authenticate")
	}
	if ident.Role != auth.RoleModerator {
		t.Errorf("role = %q, want moderator", ident.Role)
	}

	// Unknown role value degrades to viewer, never errors.
	ident = v.Identify(requestWithCookies(&http.Cookie{Name: "user_role", Value: "root"}))
	if ident.Role != auth.RoleViewer {
		t.Errorf("role = %q, want viewer", ident.Role)
	}
}

func TestVerifierDisabledWithoutSecret(t *testing.T) {
	v := testVerifier("")
	if v.Enabled() {
		t.Fatal("verifier without secret must be disabled")
	}

	// Even a structurally fine token cannot authenticate without a secret.
	signed, _ := testVerifier("testsecret").Issue("u-1", "a@b.co", "A", auth.RoleUser)
	ident := v.Identify(requestWithCookies(&http.Cookie{Name: "auth_token", Value: signed}))
	if ident.Authenticated {
		t.Error("disabled verifier must never authenticate")
	}

	if _, err := v.Issue("u-1", "a@b.co", "A", auth.RoleUser); err == nil {
		t.Error("Issue() should fail without a secret")
	}
}
