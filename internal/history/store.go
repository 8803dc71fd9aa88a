package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/gofrs/flock"

	"assetcarver/internal/fileutil"
	"assetcarver/internal/fingerprint"
	"assetcarver/internal/logging"
)

// ErrLocked reports that another process holds the history lock.
var ErrLocked = errors.New("history file is locked by another process")

// Store provides thread-safe access to the persisted history set.
type Store struct {
	path     string
	logger   *slog.Logger
	lock     *flock.Flock
	mu       sync.RWMutex
	hashes   map[fingerprint.Fingerprint]struct{}
	modified bool
}

// Open loads the history at path. A missing file starts empty; an unreadable
// or corrupt file is logged and also starts empty. An empty path yields a
// disabled store whose operations are no-ops.
func Open(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "history")

	s := &Store{
		path:   path,
		logger: logger,
		hashes: make(map[fingerprint.Fingerprint]struct{}),
	}
	if path == "" {
		return s
	}
	s.lock = flock.New(path + ".lock")

	loaded, err := readFile(path)
	if err != nil {
		logging.WarnWithContext(logger, "failed to load extraction history", "history_load_failed",
			logging.Error(err),
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldErrorHint, "run 'assetcarver history clear' if the file is corrupt"),
			logging.String(logging.FieldImpact, "previously extracted files will be processed again"),
		)
		return s
	}
	s.hashes = loaded
	logger.Debug("loaded extraction history",
		logging.Int("entry_count", len(loaded)),
		logging.String(logging.FieldPath, path))
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Enabled reports whether the store persists anything.
func (s *Store) Enabled() bool {
	return s.path != ""
}

// Contains reports whether fp is recorded.
func (s *Store) Contains(fp fingerprint.Fingerprint) bool {
	if !s.Enabled() {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hashes[fp]
	return ok
}

// Add records fp in memory. It is persisted by the next Flush.
func (s *Store) Add(fp fingerprint.Fingerprint) {
	if !s.Enabled() || fp == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hashes[fp]; ok {
		return
	}
	s.hashes[fp] = struct{}{}
	s.modified = true
}

// Len returns the number of recorded fingerprints.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hashes)
}

// Flush writes the set to disk if it changed since the last load or flush.
func (s *Store) Flush() error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.modified {
		return nil
	}

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	onDisk, err := readFile(s.path)
	if err != nil {
		s.logger.Debug("ignoring unreadable history during merge", logging.Error(err))
	}
	for fp := range onDisk {
		s.hashes[fp] = struct{}{}
	}

	if err := writeFile(s.path, s.hashes); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	s.modified = false
	s.logger.Debug("flushed extraction history",
		logging.Int("entry_count", len(s.hashes)),
		logging.String(logging.FieldPath, s.path))
	return nil
}

// Clear removes every entry and persists an empty list.
func (s *Store) Clear() error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	s.hashes = make(map[fingerprint.Fingerprint]struct{})
	if err := writeFile(s.path, s.hashes); err != nil {
		return fmt.Errorf("persist history: %w", err)
	}
	s.modified = false
	s.logger.Info("cleared extraction history", logging.String(logging.FieldPath, s.path))
	return nil
}

// FileSize returns the size of the history file on disk, or 0 when absent.
func (s *Store) FileSize() int64 {
	if !s.Enabled() {
		return 0
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *Store) acquire() (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock history: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return func() { _ = s.lock.Unlock() }, nil
}

// legacyFile is the older {"hashes": [...]} layout.
type legacyFile struct {
	Hashes []string `json:"hashes"`
}

func readFile(path string) (map[fingerprint.Fingerprint]struct{}, error) {
	out := make(map[fingerprint.Fingerprint]struct{})
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return out, fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return out, nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		var legacy legacyFile
		if legacyErr := json.Unmarshal(data, &legacy); legacyErr != nil {
			return out, fmt.Errorf("parse history file: %w", err)
		}
		list = legacy.Hashes
	}
	for _, h := range list {
		if h != "" {
			out[fingerprint.Fingerprint(h)] = struct{}{}
		}
	}
	return out, nil
}

func writeFile(path string, hashes map[fingerprint.Fingerprint]struct{}) error {
	list := make([]string, 0, len(hashes))
	for fp := range hashes {
		list = append(list, string(fp))
	}
	slices.Sort(list)
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}
