package middleware

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"laundromat/pkg/httpx"
)

const TokenKey contextKey = "auth_token"

// Localized auth failures, matching what the frontend toasts.
const (
	MsgNoCookie      = "کوکی‌ای وجود ندارد"
	MsgTokenNotFound = "توکن یافت نشد"
)

// AuthCookie lifts the session token out of the auth cookie into the
// request context. The token stays opaque; it is never parsed, only
// forwarded. A request with no cookie header or no token is a client
// error and never reaches the backend.
func AuthCookie(cookieName string) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			if r.Header.Get("Cookie") == "" {
				_ = httpx.WriteFailure(w, http.StatusBadRequest, MsgNoCookie)
				return
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				_ = httpx.WriteFailure(w, http.StatusBadRequest, MsgTokenNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), TokenKey, cookie.Value)
			next(w, r.WithContext(ctx), ps)
		}
	}
}

// TokenFromContext returns the session token stored by AuthCookie.
func TokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(TokenKey).(string); ok {
		return token
	}
	return ""
}
