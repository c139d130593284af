package database

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shishobooks/fb2catalog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConfig creates a config with a temp file database so that the
// pragmas and locking behave as they do for a real catalog.
func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewForTest()
	cfg.DatabaseURL = "sqlite://" + filepath.Join(t.TempDir(), "catalog.db")
	cfg.DatabaseMaxRetries = 0
	return cfg
}

func TestNew_AppliesPragmas(t *testing.T) {
	cfg := newTestConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	var cacheSize int
	require.NoError(t, db.QueryRow("PRAGMA cache_size").Scan(&cacheSize))
	assert.Equal(t, -256*1024, cacheSize)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "memory", journalMode)

	var synchronous int
	require.NoError(t, db.QueryRow("PRAGMA synchronous").Scan(&synchronous))
	assert.Equal(t, 0, synchronous)

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestPragmas(t *testing.T) {
	cfg := config.NewForTest()
	cfg.DatabaseCacheSizeMiB = 64

	pragmas := Pragmas(cfg)
	assert.Contains(t, pragmas, "PRAGMA cache_size = -65536")
	assert.Contains(t, pragmas, "PRAGMA journal_mode = MEMORY")
	assert.Contains(t, pragmas, "PRAGMA synchronous = OFF")
}

func TestNew_InMemoryDatabaseSurvivesAcrossQueries(t *testing.T) {
	db, err := New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE kept (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO kept (id) VALUES (1)")
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM kept").Scan(&count))
	assert.Equal(t, 1, count)
}

// TestConcurrentReadsDuringLoad mirrors the HTTP service reading while a
// loader writes through the same pool.
func TestConcurrentReadsDuringLoad(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)
	db, err := New(cfg)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE load_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL
	)`)
	require.NoError(t, err)

	const writes = 200
	const readers = 4

	var wg sync.WaitGroup
	var readErrors atomic.Int32
	var writeErrors atomic.Int32

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			if _, err := db.Exec("INSERT INTO load_test (value) VALUES (?)", fmt.Sprintf("book-%d", i)); err != nil {
				writeErrors.Add(1)
			}
		}
	}()

	for r := 0; r < readers; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < writes/2; i++ {
				var count int
				if err := db.QueryRow("SELECT COUNT(*) FROM load_test").Scan(&count); err != nil {
					readErrors.Add(1)
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(0), writeErrors.Load())
	assert.Equal(t, int32(0), readErrors.Load())

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM load_test").Scan(&count))
	assert.Equal(t, writes, count)
}
