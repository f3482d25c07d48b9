// Package csrf implements the double-submit-cookie protection for the
// admin back office: the same opaque token is stored in a scoped cookie
// and echoed back in a hidden form field, and a mutation is authorized
// only when both values match exactly. There is no server-side token
// store; rotating the cookie invalidates any previously issued form
// token.
package csrf

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"
)

const (
	// CookieName is the cookie the token travels in
	CookieName = "csrf_token"

	// FormField is the hidden form field echoing the token back
	FormField = "csrf_token"

	cookiePath   = "/admin"
	cookieMaxAge = 60 * 60 // 1 hour
)

// GenerateToken returns a fresh unguessable token (a v4 UUID, 128 bits
// of randomness).
func GenerateToken() string {
	return uuid.NewString()
}

// SetCookie writes the token into the admin-scoped cookie. The cookie
// is HTTP-only and SameSite=Strict; secure should be true in
// production delivery contexts.
func SetCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     cookiePath,
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ReadCookie returns the token currently held in the request cookie,
// or the empty string when absent.
func ReadCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ValidateTokens compares the cookie-held token against the
// form-submitted one. Empty inputs and length mismatches fail
// immediately; equal-length inputs are compared over their full width
// so mismatch position cannot be inferred from timing.
func ValidateTokens(cookieToken, formToken string) bool {
	if cookieToken == "" || formToken == "" {
		return false
	}
	if len(cookieToken) != len(formToken) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(formToken)) == 1
}
