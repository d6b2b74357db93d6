package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// protectedEcho is a handler that reports the identity RequireAuth injected.
// If it runs at all, the middleware let the request through.
func protectedEcho(t *testing.T, want Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Error("IdentityFromContext() not set on a request that passed RequireAuth")
		}
		if got != want {
			t.Errorf("identity = %+v, want %+v", got, want)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	ts := newTestTokenService(t)
	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/get-data", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// A missing token is 401, with the exact message the client matches on
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if !strings.Contains(rr.Body.String(), "Unauthorized, token missing") {
		t.Errorf("body = %q, want it to contain %q", rr.Body.String(), "Unauthorized, token missing")
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	ts := newTestTokenService(t)

	// No "Bearer" scheme, wrong scheme, empty token — all count as missing
	cases := []string{"just-a-token", "Basic dXNlcjpwYXNz", "Bearer ", "Bearer"}

	for _, header := range cases {
		t.Run(header, func(t *testing.T) {
			handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/get-data", nil)
			req.Header.Set("Authorization", header)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	ts := newTestTokenService(t)
	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/get-data", nil)
	req.Header.Set("Authorization", "Bearer not.a.real.jwt")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// A presented-but-invalid token is 403, distinct from the missing case
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if !strings.Contains(rr.Body.String(), "Invalid token") {
		t.Errorf("body = %q, want it to contain %q", rr.Body.String(), "Invalid token")
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.GenerateExpiring("user-1", "a@x.com", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateExpiring() error = %v", err)
	}

	handler := RequireAuth(ts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/get-data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	ts := newTestTokenService(t)
	want := Identity{UserID: "user-1", Email: "a@x.com"}

	token, err := ts.Generate(want.UserID, want.Email)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	handler := RequireAuth(ts)(protectedEcho(t, want))

	req := httptest.NewRequest(http.MethodGet, "/get-data", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestIdentityFromContext_Anonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := IdentityFromContext(req.Context()); ok {
		t.Error("IdentityFromContext() should return false on a bare request context")
	}
}
