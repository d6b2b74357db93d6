package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rs/xid"
	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/service"
)

// AuthHandler manages registration, password login, and the Google OAuth
// browser flow.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister       → create a local account, respond with a token
//   - HandleLogin          → verify email+password, respond with a token
//   - HandleGoogleLogin    → redirect the browser to Google's consent page
//   - HandleGoogleCallback → receive the code, resolve the user, redirect
//     back to the client app with the token in the query string
//
// The handler parses HTTP and picks redirect targets; all credential logic
// lives in service.AuthService.
type AuthHandler struct {
	authSvc   *service.AuthService
	google    *auth.GoogleProvider // nil when Google credentials aren't configured
	clientURL string               // base URL of the client app, e.g. "http://localhost:5173"
	logger    *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected here;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(
	authSvc *service.AuthService,
	google *auth.GoogleProvider,
	clientURL string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authSvc:   authSvc,
		google:    google,
		clientURL: clientURL,
		logger:    logger,
	}
}

// tokenResponse is the success body for /register and /login.
type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// registerRequest is the body of POST /register.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a local account.
//
// HTTP: POST /register
// BODY: {"name": "...", "email": "...", "password": "..."}
//
// Success: {"token": "<jwt>", "message": "Registration successful!"} — the
// token expires after an hour.
//
// ALREADY-REGISTERED EMAIL → REDIRECT, NOT ERROR:
// A duplicate registration answers with a 302 to /login instead of a 4xx.
// The client follows it to the login page. Odd as an API contract, but it's
// the one the client implements.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("register: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid JSON body"})
		return
	}

	result, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		h.logger.Error("register failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:   result.Token,
		Message: "Registration successful!",
	})
}

// loginRequest is the body of POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies an email+password pair.
//
// HTTP: POST /login
// BODY: {"email": "...", "password": "..."}
//
// Success: {"token": "<jwt>", "message": "Login successful!"} — this token
// has NO expiry (unlike registration's), preserved deployed behaviour.
// Failure: 401 with {"message": "User not found"} or
// {"message": "Invalid password"}.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("login: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid JSON body"})
		return
	}

	result, err := h.authSvc.LoginLocal(r.Context(), req.Email, req.Password)
	if err != nil {
		// Unauthorized results map to 401 with the safe message;
		// store failures map to a generic 500. Both via writeError.
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Token:   result.Token,
		Message: "Login successful!",
	})
}

// HandleGoogleLogin redirects the user to Google's authorization page.
//
// HTTP: GET /auth/google
//
// CSRF PROTECTION VIA STATE:
// We generate a random state string and store it in a short-lived cookie.
// When Google calls back, HandleGoogleCallback verifies the state matches.
// This proves the callback completes a flow this server started, not one
// forged by an attacker.
//
// The state cookie is:
//   - HttpOnly: JavaScript can't read it
//   - SameSite=Lax: not sent on cross-site POSTs
//   - 10-minute expiry: long enough to approve, short enough to limit risk
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		writeJSON(w, http.StatusServiceUnavailable, messageResponse{
			Message: "Google sign-in is not configured",
		})
		return
	}

	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGoogleCallback completes the Google login flow.
//
// HTTP: GET /auth/google/secrets?code=xxx&state=yyy
// (the path is historical — it's the redirect URI registered with Google,
// so it stays)
//
// FLOW:
//  1. Validate the state parameter (CSRF check)
//  2. Exchange the code for a Google profile
//  3. Resolve the profile to a user (created on first login)
//  4. Redirect to the client with the token: {client}/dashboard?token=<jwt>
//
// Any failure redirects to the client's login page rather than rendering an
// error — the user is mid-browser-navigation here, not calling an API.
func (h *AuthHandler) HandleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		http.Redirect(w, r, h.clientURL+"/login", http.StatusSeeOther)
		return
	}

	// --- Step 1: Validate CSRF state ---
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("google callback: state missing or mismatched")
		http.Redirect(w, r, h.clientURL+"/login", http.StatusSeeOther)
		return
	}

	// Clear the state cookie — it's single-use
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	// User denied authorization, or Google reported an error
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("google callback: authorization denied", slog.String("error", errParam))
		http.Redirect(w, r, h.clientURL+"/login", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, h.clientURL+"/login", http.StatusSeeOther)
		return
	}

	// --- Step 2: Exchange code for a Google profile ---
	gUser, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("google callback: exchange failed", slog.String("error", err.Error()))
		http.Redirect(w, r, h.clientURL+"/login", http.StatusSeeOther)
		return
	}

	// --- Step 3: Resolve to a user and mint a token ---
	result, err := h.authSvc.LoginGoogle(r.Context(), gUser)
	if err != nil {
		h.logger.Error("google callback: login failed",
			slog.String("email", gUser.Email),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, h.clientURL+"/login", http.StatusSeeOther)
		return
	}

	// --- Step 4: Hand the token to the client app ---
	http.Redirect(w, r, h.clientURL+"/dashboard?token="+result.Token, http.StatusSeeOther)
}
