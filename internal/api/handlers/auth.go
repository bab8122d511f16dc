package handlers

import (
	"net/http"

	"github.com/dkranz/leadgate/internal/auth"
)

type AuthHandler struct {
	verifier *auth.Verifier
}

func NewAuthHandler(verifier *auth.Verifier) *AuthHandler {
	return &AuthHandler{verifier: verifier}
}

// Me handles GET /api/auth/me: session introspection for the frontend.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	if !h.verifier.Enabled() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "auth provider not configured"})
		return
	}

	ident := h.verifier.Identify(r)
	if !ident.Authenticated {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user": map[string]interface{}{
			"id":    ident.UserID,
			"email": ident.Email,
			"name":  ident.Name,
			"role":  ident.Role,
		},
	})
}
