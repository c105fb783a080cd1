package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/walshy828/dodgeball-sale/common"
	"github.com/walshy828/dodgeball-sale/common/constant"
	"github.com/walshy828/dodgeball-sale/common/contract"
	"github.com/walshy828/dodgeball-sale/common/errs"
	"github.com/walshy828/dodgeball-sale/common/otel"
	"github.com/walshy828/dodgeball-sale/common/password"
	"github.com/walshy828/dodgeball-sale/common/session"
	"github.com/walshy828/dodgeball-sale/common/throttle"
	"github.com/walshy828/dodgeball-sale/model"
)

type AdminHttp struct {
	Credentials contract.CredentialStore
	Sessions    *session.Manager
	Throttle    *throttle.Limiter
	Validate    *validator.Validate

	CookieSecure bool
}

func RegisterAdminHttp(
	mux *http.ServeMux,
	credentials contract.CredentialStore,
	sessions *session.Manager,
	limiter *throttle.Limiter,
	validate *validator.Validate,
	cookieSecure bool,
) *AdminHttp {
	in := &AdminHttp{
		Credentials:  credentials,
		Sessions:     sessions,
		Throttle:     limiter,
		Validate:     validate,
		CookieSecure: cookieSecure,
	}

	mux.HandleFunc("POST /api/admin/login", in.login)
	mux.HandleFunc("POST /api/admin/logout", in.logout)

	return in
}

func (in *AdminHttp) login(w http.ResponseWriter, r *http.Request) {
	var req model.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "AdminHttp.login")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	client := clientKey(r)

	// a locked-out client is turned away before the credential guard runs,
	// so the lockout cannot be probed through verification timing
	if !in.Throttle.Allow(client) {
		slog.InfoContext(ctx, "login attempt while locked out", traceIdAttr)
		writeErrorResponse(w, errs.ErrRateLimited)
		return
	}

	cred, err := in.Credentials.LoadCredential(ctx)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to load admin credential", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		// surfaced as an auth failure, not an infrastructure error, so a
		// broken credential row is indistinguishable from a wrong password
	}

	if !password.Verify(cred.Salt, cred.Hash, req.Password) {
		in.Throttle.Fail(client)
		slog.InfoContext(ctx, "admin login rejected", traceIdAttr)
		writeErrorResponse(w, errs.ErrUnauthorized)
		return
	}

	in.Throttle.Clear(client)

	token, err := in.Sessions.Issue()
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue admin session", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   in.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(ctx, "admin login success", traceIdAttr)

	writeJSONResponse(w, http.StatusOK, model.AdminLoginResponse{Token: token})
}

func (in *AdminHttp) logout(w http.ResponseWriter, r *http.Request) {
	if token := ExtractAdminToken(r); token != "" {
		in.Sessions.Revoke(token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     adminTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   in.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSONResponse(w, http.StatusNoContent, nil)
}
