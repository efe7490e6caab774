package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/stretchr/testify/require"
)

// stubUsers implements UserFinder without a database.
type stubUsers struct {
	user RefreshUser
	err  error
}

func (s stubUsers) FindUserByID(id string) (RefreshUser, error) {
	return s.user, s.err
}

func newTestResolver(now time.Time, users UserFinder) *Resolver {
	clock := func() time.Time { return now }
	svc := token.NewService("test-secret", 30*time.Minute, 30*24*time.Hour).WithClock(clock)
	return NewResolver(svc, &Store{}, users).WithClock(clock)
}

func sessionRequest(t *testing.T, st *Store, rec Record) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	st.Save(w, rec)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(w.Result().Cookies()[0])
	return req
}

func issueRecord(t *testing.T, rv *Resolver, id string, role int, email, name string) Record {
	t.Helper()
	pair, err := rv.Tokens.Issue(id, role, email)
	require.NoError(t, err)
	return Record{ID: id, Role: role, Email: email, Name: name, Access: pair.Access, Refresh: pair.Refresh}
}

func TestResolve_FreshSessionRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rv := newTestResolver(now, stubUsers{err: ErrStaleIdentity})

	rec := issueRecord(t, rv, "user-1", 2, "john.smith@eduplus.com", "Dr. John Smith")
	req := sessionRequest(t, rv.Store, rec)

	w := httptest.NewRecorder()
	identity, err := rv.Resolve(w, req)
	require.NoError(t, err)
	require.Equal(t, "user-1", identity.ID)
	require.Equal(t, 2, identity.RoleCode)
	require.Equal(t, "john.smith@eduplus.com", identity.Email)
	require.Equal(t, "Dr. John Smith", identity.Name)

	// A fresh access token is outside the refresh window, so no cookie rewrite.
	require.Empty(t, w.Result().Cookies())
}

func TestResolve_MissingCookie(t *testing.T) {
	rv := newTestResolver(time.Now(), stubUsers{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := rv.Resolve(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolve_NearExpiryRefreshesSession(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	users := stubUsers{user: RefreshUser{
		ID: "user-1", RoleCode: 0, Email: "alice@student.com", Name: "Alice Johnson",
	}}
	rv := newTestResolver(issuedAt, users)
	rec := issueRecord(t, rv, "user-1", 0, "alice@student.com", "Alice Johnson")
	req := sessionRequest(t, rv.Store, rec)

	// Move to 4 minutes before access expiry: inside the refresh window.
	later := issuedAt.Add(26 * time.Minute)
	clock := func() time.Time { return later }
	rv.WithClock(clock)
	rv.Tokens.WithClock(clock)

	w := httptest.NewRecorder()
	identity, err := rv.Resolve(w, req)
	require.NoError(t, err)
	require.Equal(t, "user-1", identity.ID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1, "refresh must rewrite the session cookie")

	reread := httptest.NewRequest(http.MethodGet, "/", nil)
	reread.AddCookie(cookies[0])
	refreshed := rv.Store.Load(reread)
	require.NotNil(t, refreshed)
	require.True(t, refreshed.Access.Expire.After(rec.Access.Expire),
		"refreshed access token must expire later than the one it replaced")
}

func TestResolve_StaleIdentitySoftDegrades(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rv := newTestResolver(issuedAt, stubUsers{err: ErrStaleIdentity})
	rec := issueRecord(t, rv, "user-1", 0, "alice@student.com", "Alice Johnson")
	req := sessionRequest(t, rv.Store, rec)

	// Inside the refresh window, but the identity row is gone.
	later := issuedAt.Add(26 * time.Minute)
	clock := func() time.Time { return later }
	rv.WithClock(clock)
	rv.Tokens.WithClock(clock)

	w := httptest.NewRecorder()
	identity, err := rv.Resolve(w, req)
	require.NoError(t, err, "soft degrade keeps the existing session usable")
	require.Equal(t, "user-1", identity.ID)
	require.Empty(t, w.Result().Cookies(), "abandoned refresh must not rewrite the cookie")
}

func TestResolve_ExpiredAccessAndFailedRefresh(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rv := newTestResolver(issuedAt, stubUsers{err: ErrStaleIdentity})
	rec := issueRecord(t, rv, "user-1", 0, "alice@student.com", "Alice Johnson")
	req := sessionRequest(t, rv.Store, rec)

	// Fully past access expiry: the soft-degraded session no longer verifies.
	later := issuedAt.Add(31 * time.Minute)
	clock := func() time.Time { return later }
	rv.WithClock(clock)
	rv.Tokens.WithClock(clock)

	_, err := rv.Resolve(httptest.NewRecorder(), req)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolve_RefreshReflectsRoleChange(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// The store row now says instructor even though the token still says student.
	users := stubUsers{user: RefreshUser{
		ID: "user-1", RoleCode: 2, Email: "alice@student.com", Name: "Alice Johnson",
	}}
	rv := newTestResolver(issuedAt, users)
	rec := issueRecord(t, rv, "user-1", 0, "alice@student.com", "Alice Johnson")
	req := sessionRequest(t, rv.Store, rec)

	later := issuedAt.Add(26 * time.Minute)
	clock := func() time.Time { return later }
	rv.WithClock(clock)
	rv.Tokens.WithClock(clock)

	identity, err := rv.Resolve(httptest.NewRecorder(), req)
	require.NoError(t, err)
	require.Equal(t, 2, identity.RoleCode, "role changes propagate at refresh time")
}
