package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// ErrCorrupt is returned when the score file exists but is not a JSON array of entries.
var ErrCorrupt = errors.New("leaderboard file is corrupt")

// FileStore keeps every entry in a pretty-printed JSON array, sorted by
// descending score.
type FileStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewFileStore returns a store backed by the file at path. The file is
// created on the first Record.
//
// Precondition: path must be non-empty; logger must be non-nil.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Record appends e, re-sorts and rewrites the file atomically.
//
// Postcondition: on error the file is unchanged.
func (s *FileStore) Record(_ context.Context, e Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return 0, err
	}
	entries = append(entries, e)
	Sort(entries)

	pos := 0
	for i := range entries {
		if entries[i] == e {
			pos = i
		}
	}
	if err := s.save(entries); err != nil {
		return 0, err
	}
	s.logger.Info("score recorded",
		zap.String("name", e.Name),
		zap.Int("score", e.Score),
		zap.Int("rank", pos+1),
		zap.String("path", s.path),
	)
	return pos, nil
}

// Top returns at most n entries with the highest scores.
func (s *FileStore) Top(_ context.Context, n int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	Sort(entries)
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *FileStore) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard %q: %w", s.path, err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("leaderboard unreadable", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return entries, nil
}

func (s *FileStore) save(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding leaderboard: %w", err)
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".scores-*.json")
	if err != nil {
		return fmt.Errorf("creating temp leaderboard in %q: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing leaderboard %q: %w", s.path, err)
	}
	return nil
}
