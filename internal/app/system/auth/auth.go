// internal/app/system/auth/auth.go

// Package auth consumes the authenticated session issued by the external
// identity provider. It never issues credentials: the provider writes the
// session cookie; this package only reads it, loads the identity into the
// request context, and gates routes by role.
package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/campaignkit/fieldhub/internal/app/system/respond"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	emailKey  = "user_email"
)

// Identity is what the session carries: just enough to find the account.
// Role and hierarchy anchors are NEVER trusted from the session; the actor
// context resolver loads them fresh from the store on every request.
type Identity struct {
	UserID string
	Email  string
}

type ctxKey string

const identityKey ctxKey = "identity"

// CurrentIdentity returns the session identity and a found flag.
func CurrentIdentity(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// SessionReader loads identities from the shared session cookie.
type SessionReader struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionReader builds a SessionReader for the cookie the identity
// provider writes. An empty key gets a random one (dev only: sessions from
// the provider will not validate, which fails closed).
func NewSessionReader(sessionKey, name, domain string, secure bool, log *zap.Logger) *SessionReader {
	if sessionKey == "" {
		sessionKey = base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
		log.Warn("no session key configured; generated a random one (existing sessions will not validate)")
	}
	if len(sessionKey) < 32 {
		log.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionReader{store: store, name: name, log: log}
}

// LoadIdentity injects the session identity into the request context if the
// caller is signed in. Missing or invalid sessions pass through anonymous.
func (s *SessionReader) LoadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := s.store.Get(r, s.name)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			id := Identity{
				UserID: getString(sess, userIDKey),
				Email:  getString(sess, emailKey),
			}
			if id.UserID != "" {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects anonymous callers with a 401 envelope.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentIdentity(r); !ok {
			respond.Err(w, http.StatusUnauthorized, "Sign in required.", "UNAUTHORIZED", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity returns a request carrying the given identity. Test helper.
func WithIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
