package auth

import (
	"net/http"
	"strings"

	"LuxeStore/internal/notify"
	"LuxeStore/pkg/kit"
)

const (
	msgWelcome    = "Welcome back!"
	msgMismatch   = "Passwords do not match"
	msgCreated    = "Account created successfully!"
	msgSubscribed = "You're on the list. Thank you."
)

type Redirect struct {
	Page    string `json:"page"`
	AfterMS int64  `json:"after_ms"`
}

type formResp struct {
	Message  string    `json:"message"`
	Redirect *Redirect `json:"redirect,omitempty"`
}

var home = &Redirect{Page: "home", AfterMS: RedirectAfter.Milliseconds()}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin accepts any credentials.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	notifyFor(r, notify.Success, msgWelcome)
	kit.WriteJSON(w, http.StatusOK, formResp{Message: msgWelcome, Redirect: home})
}

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

// handleSignup only checks that the password was typed the same twice.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	if req.Password != req.Confirm {
		notifyFor(r, notify.Error, msgMismatch)
		kit.WriteError(w, r, http.StatusBadRequest, msgMismatch, nil)
		return
	}

	notifyFor(r, notify.Success, msgCreated)
	kit.WriteJSON(w, http.StatusCreated, formResp{Message: msgCreated, Redirect: home})
}

type newsletterReq struct {
	Email string `json:"email"`
}

// handleNewsletter thanks any non-blank address and ignores blank ones.
func (s *Server) handleNewsletter(w http.ResponseWriter, r *http.Request) {
	var req newsletterReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if s.Log != nil {
		s.Log.Debug("newsletter signup")
	}
	notifyFor(r, notify.Success, msgSubscribed)
	kit.WriteJSON(w, http.StatusOK, formResp{Message: msgSubscribed})
}
