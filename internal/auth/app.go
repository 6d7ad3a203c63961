// Package auth serves the login, signup and newsletter forms. None of them
// verify or store anything; they answer with the messages the storefront shows.
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LuxeStore/internal/notify"
	"LuxeStore/internal/session"
	"LuxeStore/pkg/kit"
)

const (
	loginLimitPerMin  = 5
	signupLimitPerMin = 3
	limitWindow       = 60 * time.Second

	// RedirectAfter is how long the client shows the greeting before going home.
	RedirectAfter = 1500 * time.Millisecond
)

type Server struct {
	Log *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func (s *Server) Register(r chi.Router) {
	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, limitWindow)
	signupLimiter := kit.NewIPRateLimiter(signupLimitPerMin, limitWindow)

	r.Route("/auth", func(rr chi.Router) {
		rr.With(loginLimiter.Middleware).Post("/login", s.handleLogin)
		rr.With(signupLimiter.Middleware).Post("/signup", s.handleSignup)
	})
	r.Post("/newsletter", s.handleNewsletter)
}

func notifyFor(r *http.Request, sev notify.Severity, msg string) {
	if sess, ok := session.FromContext(r.Context()); ok {
		sess.Notifier.Notify(sev, msg)
	}
}
