// Package watcher polls files for changes.
package watcher

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

type stamp struct {
	modTime time.Time
	size    int64
	exists  bool
}

// Service reports files whose modification time or size moved since the last check.
type Service struct {
	paths []string
	mu    sync.Mutex
	seen  map[string]stamp
}

// NewService creates a watcher for the paths. Their current state is the
// baseline, so nothing is reported until a file actually changes.
func NewService(paths ...string) *Service {
	s := &Service{
		paths: paths,
		seen:  make(map[string]stamp, len(paths)),
	}
	for _, p := range paths {
		st := stat(p)
		if !st.exists {
			slog.Warn("Watcher: File does not exist yet", "path", p)
		}
		s.seen[p] = st
	}
	return s
}

// CheckChanged returns the paths that were modified, created or removed since
// the previous call.
func (s *Service) CheckChanged() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	for _, p := range s.paths {
		st := stat(p)
		if st != s.seen[p] {
			s.seen[p] = st
			changed = append(changed, p)
			slog.Debug("Watcher: Change detected", "path", p, "exists", st.exists)
		}
	}
	return changed
}

func stat(path string) stamp {
	info, err := os.Stat(path)
	if err != nil {
		return stamp{}
	}
	return stamp{modTime: info.ModTime(), size: info.Size(), exists: true}
}
