package session

import (
	"certprep/internal/model"
	"context"
	"net/http"
	"strings"
)

// CookieName is the name of the session cookie
const CookieName = "certprep_session"

// cookieSizeLimit is what browsers reliably keep per cookie
const cookieSizeLimit = 4096

type contextKey string

const claimsKey contextKey = "sessionClaims"

// Middleware resolves the session cookie into claims on the request context.
// A missing, tampered or expired cookie starts a new empty session.
func Middleware(signer *Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var claims *model.SessionClaims
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				claims, _ = signer.Parse(c.Value)
			}

			if claims == nil {
				claims = signer.NewClaims()
				if _, err := writeClaims(w, signer, claims); err != nil {
					http.Error(w, `{"error":"failed to start session"}`, http.StatusInternalServerError)
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the session claims placed on the context by Middleware
func ClaimsFrom(ctx context.Context) *model.SessionClaims {
	if v, ok := ctx.Value(claimsKey).(*model.SessionClaims); ok {
		return v
	}
	return nil
}

// IDFrom returns the session id, or "" outside of Middleware
func IDFrom(ctx context.Context) string {
	if c := ClaimsFrom(ctx); c != nil {
		return c.SessionID
	}
	return ""
}

// WithClaims attaches claims to a context; used by tests and tools
func WithClaims(ctx context.Context, claims *model.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// writeClaims signs claims into the session cookie, replacing any cookie
// already queued on this response
func writeClaims(w http.ResponseWriter, signer *Signer, claims *model.SessionClaims) (int, error) {
	value, err := signer.Issue(claims)
	if err != nil {
		return 0, err
	}
	setSessionCookie(w, signer, value)
	return len(value), nil
}

// cookieSize is the size of the name=value pair a browser has to store
func cookieSize(value string) int {
	return len(CookieName) + 1 + len(value)
}

func setSessionCookie(w http.ResponseWriter, signer *Signer, value string) {
	header := w.Header()
	kept := header["Set-Cookie"][:0]
	for _, line := range header["Set-Cookie"] {
		if !strings.HasPrefix(line, CookieName+"=") {
			kept = append(kept, line)
		}
	}
	if len(kept) == 0 {
		header.Del("Set-Cookie")
	} else {
		header["Set-Cookie"] = kept
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(signer.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
