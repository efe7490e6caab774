package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eduplus/eduplus-backend/internal/middleware"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
	"golang.org/x/time/rate"
)

// mockResolver implements middleware.IdentityResolver without any token or
// database dependency.
type mockResolver struct {
	identity utils.Identity
	err      error
}

func (m mockResolver) Resolve(w http.ResponseWriter, r *http.Request) (utils.Identity, error) {
	return m.identity, m.err
}

// call wraps a simple 200-OK inner handler in the provided middleware and
// returns the recorded response.
func call(t *testing.T, mw func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSessionMiddleware_ResolverError(t *testing.T) {
	mw := middleware.SessionMiddleware(mockResolver{err: errors.New("no valid session")})

	rec := call(t, mw)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSessionMiddleware_InjectsIdentity(t *testing.T) {
	want := utils.Identity{ID: "user-1", RoleCode: token.RoleCodeInstructor, Email: "john.smith@eduplus.com"}
	mw := middleware.SessionMiddleware(mockResolver{identity: want})

	var got utils.Identity
	var ok bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = utils.GetIdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	mw(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ok || got != want {
		t.Errorf("expected identity %+v in context, got %+v (ok=%v)", want, got, ok)
	}
}

func TestRequireRole_Allows(t *testing.T) {
	session := middleware.SessionMiddleware(mockResolver{
		identity: utils.Identity{ID: "user-1", RoleCode: token.RoleCodeAdmin},
	})
	admin := middleware.RequireRole(token.RoleCodeAdmin)

	rec := call(t, func(next http.Handler) http.Handler {
		return session(admin(next))
	})

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	session := middleware.SessionMiddleware(mockResolver{
		identity: utils.Identity{ID: "user-1", RoleCode: token.RoleCodeStudent},
	})
	staffOnly := middleware.RequireRole(token.RoleCodeAdmin, token.RoleCodeInstructor)

	rec := call(t, func(next http.Handler) http.Handler {
		return session(staffOnly(next))
	})

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Forbidden") {
		t.Errorf("expected Forbidden body, got %q", rec.Body.String())
	}
}

func TestRequireRole_MissingIdentity(t *testing.T) {
	rec := call(t, middleware.RequireRole(token.RoleCodeAdmin))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	rl := middleware.NewRateLimiter(rate.Every(time.Minute), 2)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := rl.Middleware(inner)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:41000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("expected first two requests to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("expected third request to be limited, got %v", codes)
	}

	// A different client keeps its own bucket.
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "198.51.100.9:41000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("expected fresh client to pass, got %d", rec.Code)
	}
}
