package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Setting keys as persisted by every Store.
const (
	KeyProxmoxIP   = "proxmoxIP"
	KeyProxmoxPort = "proxmoxPort"
	KeyTokenID     = "tokenID"
	KeyAPIToken    = "apiToken"
)

const (
	DefaultSettingsDir  = ".config/proxpeek"
	DefaultSettingsFile = "settings.env"
	DefaultFilePerms    = 0600
)

// Settings holds the four user-supplied strings needed to reach Proxmox.
// ProxmoxIP carries the scheme, e.g. "https://10.0.0.2". TokenID is "user@realm".
type Settings struct {
	ProxmoxIP   string `json:"proxmoxIP"`
	ProxmoxPort string `json:"proxmoxPort"`
	TokenID     string `json:"tokenID"`
	APIToken    string `json:"apiToken"`
}

// Ready reports whether all four settings are non-empty. Nothing else is checked.
func (s Settings) Ready() bool {
	return s.ProxmoxIP != "" &&
		s.ProxmoxPort != "" &&
		s.TokenID != "" &&
		s.APIToken != ""
}

// IsZero reports whether no setting is filled in.
func (s Settings) IsZero() bool {
	return s == Settings{}
}

// Masked returns a copy safe to hand to a UI, with the token hidden.
func (s Settings) Masked() Settings {
	if s.APIToken != "" {
		s.APIToken = "********"
	}
	return s
}

// Map flattens the settings into their persisted key/value form.
func (s Settings) Map() map[string]string {
	return map[string]string{
		KeyProxmoxIP:   s.ProxmoxIP,
		KeyProxmoxPort: s.ProxmoxPort,
		KeyTokenID:     s.TokenID,
		KeyAPIToken:    s.APIToken,
	}
}

// SettingsFromMap is the inverse of Map. Unknown keys are ignored.
func SettingsFromMap(values map[string]string) Settings {
	return Settings{
		ProxmoxIP:   values[KeyProxmoxIP],
		ProxmoxPort: values[KeyProxmoxPort],
		TokenID:     values[KeyTokenID],
		APIToken:    values[KeyAPIToken],
	}
}

// Store persists Settings between runs.
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
	Reset() error
}

// FileStore keeps the settings in a dotenv formatted file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore writing to path, or to the default
// location under the user's home directory when path is empty.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not get home directory: %w", err)
		}
		path = filepath.Join(homeDir, DefaultSettingsDir, DefaultSettingsFile)
	}
	return &FileStore{path: path}, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the settings file. A missing file yields empty settings.
func (s *FileStore) Load() (Settings, error) {
	values, err := godotenv.Read(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	return SettingsFromMap(values), nil
}

// Save replaces the settings file content.
func (s *FileStore) Save(settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := godotenv.Write(settings.Map(), s.path); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Chmod(s.path, DefaultFilePerms); err != nil {
		return fmt.Errorf("failed to restrict settings file: %w", err)
	}
	return nil
}

// Reset removes the settings file.
func (s *FileStore) Reset() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove settings file: %w", err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)

// Bootstrap loads the stored settings, seeding the store with seed when it is
// still empty and seed carries anything.
func Bootstrap(store Store, seed Settings) (Settings, error) {
	stored, err := store.Load()
	if err != nil {
		return Settings{}, err
	}
	if !stored.IsZero() || seed.IsZero() {
		return stored, nil
	}
	if err := store.Save(seed); err != nil {
		return Settings{}, err
	}
	return seed, nil
}
