package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/eduplus/eduplus-backend/internal/token"
)

const cookieName = "session"

// Record is the full client-held session state: the token pair plus the
// identity fields cached at issue time. There is no server-side session table;
// this cookie is the session.
type Record struct {
	ID      string           `json:"id"`
	Role    int              `json:"role"`
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Access  token.Credential `json:"access"`
	Refresh token.Credential `json:"refresh"`
}

// Store reads and writes the session cookie. The JSON record is base64url
// wrapped so it survives cookie value restrictions.
type Store struct {
	Secure bool
}

// Save writes the record as an httpOnly lax cookie whose expiry matches the
// access token, not the refresh token. That forces the cookie to be rewritten
// on every refresh cycle.
func (st *Store) Save(w http.ResponseWriter, rec Record) {
	raw, err := json.Marshal(rec)
	if err != nil {
		// Record is a plain struct; this cannot fail at runtime.
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		Expires:  rec.Access.Expire,
		HttpOnly: true,
		Secure:   st.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Load returns the session record from the request cookie, or nil if the
// cookie is absent or unreadable. It never fails louder than nil.
func (st *Store) Load(r *http.Request) *Record {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil
	}
	return &rec
}

func (st *Store) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   st.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
