package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/eduplus/eduplus-backend/internal/auth"
	"github.com/eduplus/eduplus-backend/internal/db"
	"github.com/eduplus/eduplus-backend/internal/session"
	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect(databaseURL)
	dbAvailable = true

	// Set up auth tables (idempotent).
	auth.Init()

	tokens := token.NewService("integration-test-secret", 30*time.Minute, 30*24*time.Hour)
	// Secure=false so cookies work over plain HTTP (httptest uses HTTP).
	store := &session.Store{Secure: false}
	resolver := session.NewResolver(tokens, store, auth.UserDirectory{})
	api := &auth.API{Tokens: tokens, Store: store}

	r := chi.NewRouter()
	r.Mount("/auth", auth.SetupRoutes(api, resolver))

	testServer = httptest.NewServer(r)
	code := m.Run()
	testServer.Close()
	os.Exit(code)
}

// createTestUser inserts a unique user into the database and registers a
// cleanup function to remove it. Returns the email and plaintext password.
func createTestUser(t *testing.T, role auth.Role) (email, password string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	email = fmt.Sprintf("testuser_%s@eduplus.com", uuid.New().String()[:8])
	password = "TestPass123!"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := auth.User{
		ID:             uuid.New().String(),
		Name:           "Test User",
		Email:          email,
		HashedPassword: string(hashed),
		Role:           role,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	t.Cleanup(func() {
		db.DB.Where("id = ?", user.ID).Delete(&auth.User{})
	})

	return email, password
}

// newClientWithJar returns an http.Client with a fresh cookie jar that
// automatically carries cookies between requests.
func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func postJSON(t *testing.T, client *http.Client, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(testServer.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func TestLogin_SetsSessionCookieAndResolvesMe(t *testing.T) {
	email, password := createTestUser(t, auth.RoleStudent)
	client := newClientWithJar(t)

	resp := postJSON(t, client, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me, err := client.Get(testServer.URL + "/auth/me")
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)

	var profile auth.User
	require.NoError(t, json.NewDecoder(me.Body).Decode(&profile))
	require.Equal(t, email, profile.Email)
	require.Equal(t, auth.RoleStudent, profile.Role)
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	email, _ := createTestUser(t, auth.RoleStudent)

	readGlobal := func(resp *http.Response) []string {
		var body struct {
			Errors map[string][]string `json:"errors"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Errors["global"]
	}

	wrongPass := postJSON(t, newClientWithJar(t), "/auth/login", map[string]string{
		"email": email, "password": "WrongPass999!",
	})
	defer wrongPass.Body.Close()
	require.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)

	unknown := postJSON(t, newClientWithJar(t), "/auth/login", map[string]string{
		"email": "nobody_" + uuid.New().String()[:8] + "@eduplus.com", "password": "WrongPass999!",
	})
	defer unknown.Body.Close()
	require.Equal(t, http.StatusUnauthorized, unknown.StatusCode)

	wrongMsg := readGlobal(wrongPass)
	unknownMsg := readGlobal(unknown)
	require.Equal(t, wrongMsg, unknownMsg, "responses must not reveal whether the account exists")
	require.Equal(t, []string{"Invalid email or password"}, wrongMsg)
}

func TestRegister_CreatesStudentSession(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	client := newClientWithJar(t)
	email := fmt.Sprintf("register_%s@eduplus.com", uuid.New().String()[:8])

	resp := postJSON(t, client, "/auth/register", map[string]string{
		"email": email, "password": "TestPass123!", "name": "New Student",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Cleanup(func() {
		db.DB.Where("email = ?", email).Delete(&auth.User{})
	})

	me, err := client.Get(testServer.URL + "/auth/me")
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)

	var profile auth.User
	require.NoError(t, json.NewDecoder(me.Body).Decode(&profile))
	require.Equal(t, auth.RoleStudent, profile.Role, "self-registration always yields a student")
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	resp := postJSON(t, newClientWithJar(t), "/auth/register", map[string]string{
		"email": "weak@eduplus.com", "password": "short", "name": "Weak",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Errors["password"])
}

func TestLogout_ClearsSession(t *testing.T) {
	email, password := createTestUser(t, auth.RoleStudent)
	client := newClientWithJar(t)

	login := postJSON(t, client, "/auth/login", map[string]string{
		"email": email, "password": password,
	})
	login.Body.Close()
	require.Equal(t, http.StatusOK, login.StatusCode)

	logout := postJSON(t, client, "/auth/logout", nil)
	logout.Body.Close()
	require.Equal(t, http.StatusOK, logout.StatusCode)

	me, err := client.Get(testServer.URL + "/auth/me")
	require.NoError(t, err)
	me.Body.Close()
	require.Equal(t, http.StatusUnauthorized, me.StatusCode)
}
