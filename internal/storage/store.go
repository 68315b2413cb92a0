// Package storage persists each logical document as a single JSON file.
// Every save is a whole-document overwrite; concurrent writers must be
// serialized by the owning component (one mutex per document).
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/virtline/number-sim/internal/metrics"
)

type Store struct {
	dir string
	log zerolog.Logger
}

// New creates the data directory if it does not exist yet.
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log.With().Str("component", "storage").Logger()}, nil
}

func (s *Store) Dir() string { return s.dir }

// Ping reports whether the data directory is still usable.
func (s *Store) Ping() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("data path is not a directory")
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads a document into a fresh map. A missing or unreadable file
// yields an empty map: callers never see partial or garbled data.
func Load[T any](s *Store, name string) map[string]T {
	out := make(map[string]T)
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("document", name).Msg("unreadable document, starting empty")
		}
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.log.Warn().Err(err).Str("document", name).Msg("corrupt document, starting empty")
		return make(map[string]T)
	}
	return out
}

// Save overwrites the whole document on disk.
func Save[T any](s *Store, name string, doc map[string]T) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		metrics.StorageWriteErrors.WithLabelValues(name).Inc()
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(s.path(name), raw, 0o644); err != nil {
		metrics.StorageWriteErrors.WithLabelValues(name).Inc()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
