package session

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/eduplus/eduplus-backend/internal/token"
	"github.com/eduplus/eduplus-backend/internal/utils"
)

var (
	ErrUnauthenticated = errors.New("no valid session")
	ErrStaleIdentity   = errors.New("refresh target no longer exists")
)

// refreshWindow is how close to access expiry a request gets a transparent
// refresh attempt.
const refreshWindow = 5 * time.Minute

// UserFinder looks up the current identity row during refresh. The session
// itself is stateless, so a refresh is the one point that re-validates the
// identity still exists.
type UserFinder interface {
	FindUserByID(id string) (RefreshUser, error)
}

type RefreshUser struct {
	ID       string
	RoleCode int
	Email    string
	Name     string
}

// Resolver validates the session cookie and transparently refreshes the token
// pair when the access token is near expiry.
type Resolver struct {
	Tokens *token.Service
	Store  *Store
	Users  UserFinder
	now    func() time.Time
}

func NewResolver(tokens *token.Service, store *Store, users UserFinder) *Resolver {
	return &Resolver{Tokens: tokens, Store: store, Users: users, now: time.Now}
}

// WithClock overrides the time source for the refresh-window check.
func (rv *Resolver) WithClock(now func() time.Time) *Resolver {
	rv.now = now
	return rv
}

// Resolve loads the session, refreshes it if the access token expires within
// five minutes, verifies the access token, and returns the embedded identity.
// A failed refresh is swallowed: the existing, soon-to-expire session is used
// for this request rather than forcing a logout on a transient error.
func (rv *Resolver) Resolve(w http.ResponseWriter, r *http.Request) (utils.Identity, error) {
	rec := rv.Store.Load(r)
	if rec == nil {
		return utils.Identity{}, ErrUnauthenticated
	}

	current := rec
	if rec.Access.Expire.Sub(rv.now()) < refreshWindow {
		refreshed, err := rv.refresh(w, rec)
		if err != nil {
			log.Printf("[session] refresh failed, keeping existing session: %v", err)
		} else {
			current = refreshed
		}
	}

	claims, err := rv.Tokens.Parse(current.Access.Token, token.TypeAccess)
	if err != nil {
		return utils.Identity{}, ErrUnauthenticated
	}

	return utils.Identity{
		ID:       claims.ID,
		RoleCode: claims.Role,
		Email:    claims.Email,
		Name:     current.Name,
	}, nil
}

func (rv *Resolver) refresh(w http.ResponseWriter, rec *Record) (*Record, error) {
	claims, err := rv.Tokens.Parse(rec.Refresh.Token, token.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("verify refresh token: %w", err)
	}

	user, err := rv.Users.FindUserByID(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStaleIdentity, claims.ID)
	}

	pair, err := rv.Tokens.Issue(user.ID, user.RoleCode, user.Email)
	if err != nil {
		return nil, err
	}

	refreshed := &Record{
		ID:      user.ID,
		Role:    user.RoleCode,
		Email:   user.Email,
		Name:    user.Name,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	}
	rv.Store.Save(w, *refreshed)
	return refreshed, nil
}
