package competitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"RentRate/internal/domain/models"
	domrepo "RentRate/internal/domain/repository"
	applogger "RentRate/pkg/logger"
)

// storeState is one immutable generation of all branch snapshots. Readers
// hold a pointer to a complete generation; refresh builds a new map and
// swaps the pointer, so a reader never observes a half-applied refresh.
type storeState struct {
	branches map[string]*models.CompetitorSnapshot
}

// Store holds the current competitor snapshots and persists them wholesale
// to a JSON cache file. At most one refresh runs at a time.
type Store struct {
	state     atomic.Pointer[storeState]
	refreshMu sync.Mutex
	path      string
	l         *applogger.Logger
}

// cacheFile is the on-disk shape of the competitor cache: all branches plus
// the refresh timestamps, written wholesale on every refresh.
type cacheFile struct {
	SavedAt  time.Time                             `json:"saved_at"`
	Branches map[string]*models.CompetitorSnapshot `json:"branches"`
}

// NewStore creates an empty store persisting to path. An empty path disables
// persistence (memory only).
func NewStore(path string) *Store {
	s := &Store{path: path}
	s.state.Store(&storeState{branches: map[string]*models.CompetitorSnapshot{}})
	return s
}

// SetLogger injects a structured logger.
func (s *Store) SetLogger(l *applogger.Logger) { s.l = l }

// Snapshot returns the current snapshot for a branch, or nil when no
// benchmark data exists. The returned snapshot is immutable.
func (s *Store) Snapshot(branch string) *models.CompetitorSnapshot {
	return s.state.Load().branches[branch]
}

// Branches lists branches with data, for the competitors endpoint.
func (s *Store) Branches() []string {
	st := s.state.Load()
	out := make([]string, 0, len(st.branches))
	for b := range st.branches {
		out = append(out, b)
	}
	return out
}

// Replace swaps in a new snapshot for one branch and persists the cache
// file. Other branches keep their current snapshots.
func (s *Store) Replace(snap *models.CompetitorSnapshot) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	old := s.state.Load()
	next := &storeState{branches: make(map[string]*models.CompetitorSnapshot, len(old.branches)+1)}
	for b, sn := range old.branches {
		next.branches[b] = sn
	}
	next.branches[snap.Branch] = snap
	s.state.Store(next)

	if s.l != nil {
		s.l.Info("competitor snapshot replaced",
			applogger.String("branch", snap.Branch),
			applogger.Int("categories", len(snap.Summaries)),
		)
	}
	return s.persistLocked(next)
}

// Load reads the cache file into the store. A missing or unreadable file is
// "no competitor data", not an error the caller must stop for.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if s.l != nil {
				s.l.Warn("competitor cache file missing", applogger.String("path", s.path))
			}
			return nil
		}
		return fmt.Errorf("read competitor cache: %w", err)
	}
	var f cacheFile
	if err := json.Unmarshal(b, &f); err != nil {
		if s.l != nil {
			s.l.Warn("competitor cache file unreadable, ignoring",
				applogger.String("path", s.path), applogger.Error(err))
		}
		return nil
	}
	if f.Branches == nil {
		f.Branches = map[string]*models.CompetitorSnapshot{}
	}
	s.refreshMu.Lock()
	s.state.Store(&storeState{branches: f.Branches})
	s.refreshMu.Unlock()
	if s.l != nil {
		s.l.Info("competitor cache loaded",
			applogger.String("path", s.path),
			applogger.Int("branches", len(f.Branches)),
		)
	}
	return nil
}

// persistLocked writes the cache file wholesale via temp file + rename so a
// crashed write never leaves a torn file. Caller holds refreshMu.
func (s *Store) persistLocked(st *storeState) error {
	if s.path == "" {
		return nil
	}
	f := cacheFile{SavedAt: time.Now(), Branches: st.branches}
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal competitor cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir competitor cache: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write competitor cache: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace competitor cache: %w", err)
	}
	return nil
}

var _ domrepo.CompetitorReader = (*Store)(nil)
