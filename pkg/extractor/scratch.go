package extractor

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Scratch tracks the temporary files created while serving one request so
// they can be removed together once the response has been written.
type Scratch struct {
	dir string

	mu    sync.Mutex
	paths []string
}

func NewScratch(dir string) *Scratch {
	return &Scratch{dir: dir}
}

// NewPath reserves a fresh uuid-named path with the given extension. The file
// itself is created by the caller.
func (s *Scratch) NewPath(ext string) string {
	path := filepath.Join(s.dir, uuid.NewString()+ext)
	s.mu.Lock()
	s.paths = append(s.paths, path)
	s.mu.Unlock()
	return path
}

// Paths returns the reserved paths in creation order.
func (s *Scratch) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Cleanup removes every reserved path. Calling it again is a no-op.
func (s *Scratch) Cleanup() error {
	s.mu.Lock()
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	var first error
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) && first == nil {
			first = errors.WithStack(err)
		}
	}
	return first
}
