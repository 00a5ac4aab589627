// Package auth resolves logins through a fallback chain: the remote
// identity backend is authoritative when reachable, the local user list is
// the degraded fallback. Session lifecycle lives here too.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"worktracker/internal/core"
	"worktracker/internal/ledger"
)

// Identity is what the remote backend knows about an authenticated caller.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// Profile enriches a remote identity with display data.
type Profile struct {
	Name string
	Role core.Role
}

// RemoteAuthenticator is the narrow contract to the remote identity
// backend. Implementations must be safe to call concurrently; failures of
// any kind (bad credentials, unreachability) are equivalent here — they
// all route the login to the local fallback.
type RemoteAuthenticator interface {
	Authenticate(ctx context.Context, email, password string) (Identity, error)
	Profile(ctx context.Context, uid string) (Profile, error)
	SignOut(ctx context.Context) error
}

// Origin records which step of the fallback chain produced the session.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// Session is the persisted record of an authenticated caller. It carries
// the public projection only; secrets never reach the session store.
type Session struct {
	User   core.PublicUser `json:"user"`
	Origin Origin          `json:"origin"`
}

// Orchestrator composes the two-step resolution and owns the session.
type Orchestrator struct {
	mu       sync.Mutex
	remote   RemoteAuthenticator // nil disables the remote step
	repo     *ledger.Repository
	sessions *SessionStore
	current  *Session
}

func New(remote RemoteAuthenticator, repo *ledger.Repository, sessions *SessionStore) *Orchestrator {
	return &Orchestrator{remote: remote, repo: repo, sessions: sessions}
}

// Login resolves (email, password) to a user. The remote backend is tried
// first; any remote failure falls through to the local lookup. Only when
// both steps fail does the caller see ErrInvalidCredentials.
func (o *Orchestrator) Login(ctx context.Context, email, password string) (core.PublicUser, error) {
	if o.remote != nil {
		user, err := o.loginRemote(ctx, email, password)
		if err == nil {
			return user, o.establish(ctx, user, OriginRemote)
		}
		slog.WarnContext(ctx, "Remote auth failed, trying local fallback",
			"email", email, "error", err)
	}

	user, err := o.loginLocal(email, password)
	if err != nil {
		slog.WarnContext(ctx, "Login failed on both paths", "email", email)
		return core.PublicUser{}, core.ErrInvalidCredentials
	}
	return user, o.establish(ctx, user, OriginLocal)
}

// Logout invokes the remote sign-out when the session came from the remote
// backend, then clears the local session unconditionally.
func (o *Orchestrator) Logout(ctx context.Context) error {
	o.mu.Lock()
	sess := o.current
	o.current = nil
	o.mu.Unlock()

	if sess == nil {
		sess = o.sessions.Load(ctx)
	}
	if sess != nil && sess.Origin == OriginRemote && o.remote != nil {
		if err := o.remote.SignOut(ctx); err != nil {
			slog.WarnContext(ctx, "Remote sign-out failed", "error", err)
		}
	}
	return o.sessions.Clear()
}

// RestoreSession returns the persisted session, or nil when there is none
// or the stored record is unusable. It never fails.
func (o *Orchestrator) RestoreSession(ctx context.Context) *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current != nil {
		return o.current
	}
	o.current = o.sessions.Load(ctx)
	return o.current
}

func (o *Orchestrator) loginRemote(ctx context.Context, email, password string) (core.PublicUser, error) {
	id, err := o.remote.Authenticate(ctx, email, password)
	if err != nil {
		return core.PublicUser{}, fmt.Errorf("%w: %v", core.ErrRemoteUnavailable, err)
	}

	user := core.PublicUser{
		Username: usernameFromEmail(id.Email),
		Email:    id.Email,
		Name:     id.Name,
		Role:     core.RoleUser,
	}
	if profile, err := o.remote.Profile(ctx, id.UID); err == nil {
		if profile.Name != "" {
			user.Name = profile.Name
		}
		if profile.Role.Valid() {
			user.Role = profile.Role
		}
	} else {
		slog.WarnContext(ctx, "Profile lookup failed, using defaults", "uid", id.UID, "error", err)
	}
	if user.Name == "" {
		user.Name = "User"
	}

	// A matching local record supplies the ledger-side id and role, so
	// remote logins line up with locally stored entries.
	if local, ok := o.repo.FindByEmail(id.Email); ok {
		user.ID = local.ID
		user.Role = local.Role
		user.Username = local.Username
	}
	return user, nil
}

func (o *Orchestrator) loginLocal(email, password string) (core.PublicUser, error) {
	user, ok := o.repo.FindByEmail(email)
	if !ok {
		return core.PublicUser{}, core.ErrInvalidCredentials
	}
	// Local records carry a password only when one was modeled; the seed
	// dataset is closed, so an absent password means email-only matching.
	if user.Password != "" && user.Password != password {
		return core.PublicUser{}, core.ErrInvalidCredentials
	}
	return user.Public(), nil
}

func (o *Orchestrator) establish(ctx context.Context, user core.PublicUser, origin Origin) error {
	sess := &Session{User: user, Origin: origin}
	o.mu.Lock()
	o.current = sess
	o.mu.Unlock()

	if err := o.sessions.Save(sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	slog.InfoContext(ctx, "Session established",
		"email", user.Email, "role", user.Role, "origin", origin)
	return nil
}

func usernameFromEmail(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}
