// Package memory serves page exports from local CSV files or from a body
// held in memory. It backs development setups and tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"painel/internal/core"
	"painel/internal/ingest"
	ports "painel/internal/sheets"
)

type Store struct {
	mu      sync.Mutex
	path    string
	body    string
	err     error
	fetches int
}

var _ ports.TableReader = (*Store)(nil)

// New returns a store that always serves body.
func New(body string) *Store {
	return &Store{body: body}
}

// NewFromFiles serves base/<page>.csv, read again on every fetch so that
// edits show up on the next refresh.
func NewFromFiles(base string, page core.Page) *Store {
	return &Store{path: filepath.Join(base, page.String()+".csv")}
}

// Set replaces the in-memory body and clears any injected failure.
func (s *Store) Set(body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = body
	s.err = nil
}

// Fail makes subsequent fetches return err until Set is called.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Fetches returns how many fetches were served.
func (s *Store) Fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// Fetch returns the current body run through the same validation as a
// published export.
func (s *Store) Fetch(ctx context.Context) (ingest.Table, error) {
	if err := ctx.Err(); err != nil {
		return ingest.Table{}, &core.NetworkError{Err: err}
	}
	s.mu.Lock()
	s.fetches++
	body, path, failure := s.body, s.path, s.err
	s.mu.Unlock()

	if failure != nil {
		return ingest.Table{}, failure
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return ingest.Table{}, &core.ConfigurationError{Msg: fmt.Sprintf("data file %s does not exist", path)}
		}
		if err != nil {
			return ingest.Table{}, fmt.Errorf("read %s: %w", path, err)
		}
		body = string(raw)
	}
	return ingest.ParseBody(body)
}
