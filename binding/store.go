package binding

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/viper"
)

// FileStore persists bindings in a TOML settings file. Defaults are
// seeded at construction so GetBinding works before the first write.
type FileStore struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
	ids  []string
}

// DefaultPath returns the settings file location, honoring
// MURMUR_CONFIG when set.
func DefaultPath() string {
	if p := os.Getenv("MURMUR_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "murmur", "settings.toml")
}

// NewFileStore opens (or seeds) the settings file at path with the given
// default bindings. A missing file is not an error; it is created on the
// first write.
func NewFileStore(path string, defaults []Binding) (*FileStore, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(path)

	ids := make([]string, 0, len(defaults))
	for _, b := range defaults {
		def := b.DefaultBinding
		if def == "" {
			def = b.CurrentBinding
		}
		v.SetDefault(bindingKey(b.ID, "current"), def)
		v.SetDefault(bindingKey(b.ID, "default"), def)
		ids = append(ids, b.ID)
	}
	sort.Strings(ids)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read settings: %w", err)
			}
		}
	}

	return &FileStore{v: v, path: path, ids: ids}, nil
}

func bindingKey(id, field string) string {
	return "bindings." + id + "." + field
}

func (s *FileStore) known(id string) bool {
	for _, known := range s.ids {
		if known == id {
			return true
		}
	}
	return false
}

func (s *FileStore) GetBinding(id string) (Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(id) {
		return Binding{}, fmt.Errorf("%w: %q", ErrBindingNotFound, id)
	}
	return Binding{
		ID:             id,
		CurrentBinding: s.v.GetString(bindingKey(id, "current")),
		DefaultBinding: s.v.GetString(bindingKey(id, "default")),
	}, nil
}

func (s *FileStore) SetBinding(id, combo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(id) {
		return fmt.Errorf("%w: %q", ErrBindingNotFound, id)
	}
	s.v.Set(bindingKey(id, "current"), combo)
	return s.write()
}

func (s *FileStore) ResetBinding(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(id) {
		return fmt.Errorf("%w: %q", ErrBindingNotFound, id)
	}
	s.v.Set(bindingKey(id, "current"), s.v.GetString(bindingKey(id, "default")))
	return s.write()
}

func (s *FileStore) Bindings() ([]Binding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Binding, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, Binding{
			ID:             id,
			CurrentBinding: s.v.GetString(bindingKey(id, "current")),
			DefaultBinding: s.v.GetString(bindingKey(id, "default")),
		})
	}
	return out, nil
}

func (s *FileStore) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir settings dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
