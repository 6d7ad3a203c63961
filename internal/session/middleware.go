package session

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"LuxeStore/internal/cart"
	"LuxeStore/internal/notify"
	"LuxeStore/internal/shop"
	"LuxeStore/pkg/kit"
)

const (
	HeaderToken = "X-Session-Token"
	CookieName  = "luxe_session"
)

type ctxKey string

const sessionKey ctxKey = "session"

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok
}

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// Middleware resolves the caller's session from the token header or cookie. A
// missing, invalid or expired token starts a new session and returns its token.
func Middleware(reg *Registry, tokens *Tokens, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := resume(r, reg, tokens)
			if s == nil {
				var err error
				s, err = reg.New(r.Context())
				if err != nil {
					log.Error("session create failed", zap.Error(err))
					kit.WriteError(w, r, http.StatusInternalServerError, "session unavailable", nil)
					return
				}
				tok, err := tokens.Issue(s.ID)
				if err != nil {
					log.Error("session token failed", zap.Error(err))
					kit.WriteError(w, r, http.StatusInternalServerError, "session unavailable", nil)
					return
				}
				w.Header().Set(HeaderToken, tok)
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    tok,
					Path:     "/",
					MaxAge:   int(tokens.TTL().Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			release := s.hold()
			defer release()

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func resume(r *http.Request, reg *Registry, tokens *Tokens) *Session {
	raw := r.Header.Get(HeaderToken)
	if raw == "" {
		if c, err := r.Cookie(CookieName); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return nil
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		return nil
	}
	s, err := reg.Get(r.Context(), claims.SessionID)
	if err != nil {
		return nil
	}
	return s
}

// Resolvers for the per-package HTTP servers.

func CartOf(r *http.Request) *cart.Cart {
	if s, ok := FromContext(r.Context()); ok {
		return s.Cart
	}
	return nil
}

func ViewOf(r *http.Request) *shop.View {
	if s, ok := FromContext(r.Context()); ok {
		return s.Shop
	}
	return nil
}

func FeedOf(r *http.Request) *notify.Feed {
	if s, ok := FromContext(r.Context()); ok {
		return s.Feed
	}
	return nil
}
