package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/walshy828/dodgeball-sale/common/contract"
	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/common/session"
)

const adminTokenCookie = "admin_token"

func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "request timeout")
	}
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AdminAuth gates admin endpoints on a live session token. Two escape
// hatches by configuration: required=false disables the check entirely, and
// a deployment that never seeded a credential auto-allows so the stand can
// run without an admin password at all.
type AdminAuth struct {
	Sessions    *session.Manager
	Credentials contract.CredentialStore
	Required    bool
}

func (a *AdminAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !a.Required {
			next(w, r)
			return
		}

		if _, err := a.Credentials.LoadCredential(r.Context()); errors.Is(err, errs.ErrNotFound) {
			next(w, r)
			return
		}

		token := ExtractAdminToken(r)
		if token == "" || !a.Sessions.Validate(token) {
			writeErrorResponse(w, errs.ErrUnauthorized)
			return
		}

		next(w, r)
	}
}

// ExtractAdminToken pulls the session token from the Authorization header or
// the admin cookie, header first.
func ExtractAdminToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return token
		}
	}

	if cookie, err := r.Cookie(adminTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}
