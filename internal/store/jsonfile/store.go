package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/colonyops/tick/internal/core/kv"
	"github.com/gofrs/flock"
)

const (
	fileExt = ".json"
	tmpExt  = ".tmp"
	lockExt = ".lock"
)

// Store implements kv.KV with one JSON document per key. Writes go to a temp
// file that is renamed over the target while holding a file lock, so readers
// in other processes never observe a partial document.
type Store struct {
	dir string
}

var _ kv.KV = (*Store)(nil)

// NewStore creates a file store rooted at dir. The directory is created if
// it doesn't exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the documents.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the document path for key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, fileName(key))
}

// Get retrieves and deserializes a value by key.
func (s *Store) Get(ctx context.Context, key string, dest any) error {
	data, _, err := s.read(key)
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

// Set stores a value.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	if err := s.write(key, data); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}
	return nil
}

// SetTTL always fails with kv.ErrTTLUnsupported. Files carry no expiry metadata.
func (s *Store) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	return fmt.Errorf("kv set ttl %q: %w", key, kv.ErrTTLUnsupported)
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	unlock, err := s.lock(key)
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	defer unlock()

	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a document exists for key.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.Path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
}

// ListKeys returns the keys of all documents in sorted order.
func (s *Store) ListKeys(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("kv list keys: %w", err)
	}

	keys := []string{}
	for _, e := range entries {
		if key, ok := keyFromFile(e.Name()); ok && !e.IsDir() {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// GetRaw returns the document with the file's modification time as both
// CreatedAt and UpdatedAt.
func (s *Store) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	data, modTime, err := s.read(key)
	if err != nil {
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, err)
	}

	return kv.Entry{
		Key:       key,
		Value:     json.RawMessage(data),
		CreatedAt: modTime,
		UpdatedAt: modTime,
	}, nil
}

func (s *Store) read(key string) ([]byte, time.Time, error) {
	path := s.Path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, time.Time{}, fmt.Errorf("%w: %w", kv.ErrNotFound, err)
		}
		return nil, time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	if len(data) == 0 {
		return nil, time.Time{}, kv.ErrNotFound
	}

	return data, info.ModTime(), nil
}

func (s *Store) write(key string, data []byte) error {
	unlock, err := s.lock(key)
	if err != nil {
		return err
	}
	defer unlock()

	path := s.Path(key)
	tmp := path + tmpExt
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// lock takes an exclusive inter-process lock on the key's lock file.
func (s *Store) lock(key string) (func(), error) {
	fl := flock.New(s.Path(key) + lockExt)
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return func() { _ = fl.Unlock() }, nil
}

// fileName maps a key to a flat file name. Separators and other reserved
// characters are percent-escaped so distinct keys never share a file.
func fileName(key string) string {
	return url.QueryEscape(key) + fileExt
}

// keyFromFile reverses fileName. Names that fileName could not have
// produced report false.
func keyFromFile(name string) (string, bool) {
	escaped, ok := strings.CutSuffix(name, fileExt)
	if !ok || escaped == "" {
		return "", false
	}
	key, err := url.QueryUnescape(escaped)
	if err != nil || url.QueryEscape(key) != escaped {
		return "", false
	}
	return key, true
}
