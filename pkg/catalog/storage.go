package catalog

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shishobooks/fb2catalog/pkg/errcodes"
	"github.com/uptrace/bun"
)

// SaveState says how Save resolved a value.
type SaveState int

const (
	// CacheHit means the value had already been saved through this storage.
	CacheHit SaveState = iota
	// Queried means the value was found in the database.
	Queried
	// Added means the value was inserted.
	Added
)

func (s SaveState) String() string {
	switch s {
	case CacheHit:
		return "cache_hit"
	case Queried:
		return "queried"
	case Added:
		return "added"
	default:
		return fmt.Sprintf("SaveState(%d)", int(s))
	}
}

// SaveResult is the outcome of Storage.Save.
type SaveResult struct {
	State SaveState
	ID    int
}

// Stats counts how a storage's saves were resolved.
type Stats struct {
	Name    string `json:"name"`
	Hits    int    `json:"cache_hit"`
	Size    int    `json:"size"`
	Queried int    `json:"queried"`
	Added   int    `json:"inserted"`
	Total   int    `json:"total"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%s: cache hit %d / size %d / queried %d / inserted %d / total %d",
		s.Name, s.Hits, s.Size, s.Queried, s.Added, s.Total)
}

// Since returns the counters accumulated after prev was taken. Size is the
// cache size now.
func (s Stats) Since(prev Stats) Stats {
	return Stats{
		Name:    s.Name,
		Hits:    s.Hits - prev.Hits,
		Size:    s.Size,
		Queried: s.Queried - prev.Queried,
		Added:   s.Added - prev.Added,
		Total:   s.Total - prev.Total,
	}
}

// Storage fronts a Table with a cache from value key to row id. It isn't safe
// for concurrent use.
type Storage[T any, K comparable] struct {
	table *Table[T, K]
	kind  Kind[T, K]
	cache map[K]int
	stats Stats
}

func NewStorage[T any, K comparable](kind Kind[T, K]) *Storage[T, K] {
	return &Storage[T, K]{
		table: NewTable(kind),
		kind:  kind,
		cache: make(map[K]int),
		stats: Stats{Name: kind.Name},
	}
}

// Save makes sure v is stored and sets its id. The cache is consulted first,
// then the database, and only then is v inserted.
func (s *Storage[T, K]) Save(ctx context.Context, db bun.IDB, v *T) (SaveResult, error) {
	s.stats.Total++
	key := s.kind.Key(v)

	if id, ok := s.cache[key]; ok {
		s.stats.Hits++
		*s.kind.ID(v) = id
		return SaveResult{State: CacheHit, ID: id}, nil
	}

	id, err := s.table.Find(ctx, db, v)
	if err == nil {
		s.remember(key, id)
		s.stats.Queried++
		*s.kind.ID(v) = id
		return SaveResult{State: Queried, ID: id}, nil
	}
	if !errors.Is(err, errcodes.NotFound(s.kind.Name)) {
		return SaveResult{}, err
	}

	if err := s.table.Insert(ctx, db, v); err != nil {
		return SaveResult{}, errors.Wrapf(err, "inserting %s", s.kind.Name)
	}
	id = *s.kind.ID(v)
	s.remember(key, id)
	s.stats.Added++
	return SaveResult{State: Added, ID: id}, nil
}

// Lookup returns the id of v if it is cached or stored, without inserting.
func (s *Storage[T, K]) Lookup(ctx context.Context, db bun.IDB, v *T) (int, bool, error) {
	key := s.kind.Key(v)
	if id, ok := s.cache[key]; ok {
		return id, true, nil
	}
	id, err := s.table.Find(ctx, db, v)
	if err != nil {
		if errors.Is(err, errcodes.NotFound(s.kind.Name)) {
			return 0, false, nil
		}
		return 0, false, err
	}
	s.remember(key, id)
	return id, true, nil
}

// Table returns the underlying table.
func (s *Storage[T, K]) Table() *Table[T, K] {
	return s.table
}

// Stats returns a snapshot of the counters.
func (s *Storage[T, K]) Stats() Stats {
	st := s.stats
	st.Size = len(s.cache)
	return st
}

// Reset drops every cached id. Counters are kept.
func (s *Storage[T, K]) Reset() {
	s.cache = make(map[K]int)
}

func (s *Storage[T, K]) remember(key K, id int) {
	s.cache[key] = id
}
