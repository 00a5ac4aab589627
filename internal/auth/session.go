package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultSessionKey names the session record. It is deliberately separate
// from the dataset snapshot key: the session survives a process restart
// but is scoped to the running session, not to the durable ledger.
const DefaultSessionKey = "wt_session"

// SessionStore persists the session record as a small JSON file.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) (*SessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &SessionStore{path: path}, nil
}

// Load reads the persisted session. A missing record means no session; a
// structurally invalid record is discarded and also means no session.
// Neither case is an error for the caller.
func (s *SessionStore) Load(ctx context.Context) *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.User.Email == "" {
		slog.WarnContext(ctx, "Discarding unparsable session record", "path", s.path)
		_ = os.Remove(s.path)
		return nil
	}
	return &sess
}

func (s *SessionStore) Save(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear removes the session record. Clearing an absent record is fine.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
