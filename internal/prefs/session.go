package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const sessionFile = "session.json"

// Session is what the UI remembers between runs.
type Session struct {
	Location string    `json:"location"`
	SavedAt  time.Time `json:"saved_at"`
}

// SessionPath returns the session file under the user config dir.
func SessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "contacts", sessionFile), nil
}

// SaveSession writes s atomically.
func SaveSession(path string, s Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSession returns the saved session, or nil when none was saved.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
