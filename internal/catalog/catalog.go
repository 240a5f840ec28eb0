package catalog

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rstltd/cg500-blueteeth-app/internal/version"
)

// DefaultCohort is the catalog key every lookup falls back to when the
// client's reported version has no explicit entry.
const DefaultCohort = "default"

// ErrMisconfigured is returned when a catalog is constructed without a
// default entry. This is a startup-time configuration error: the server
// must not accept traffic without it.
var ErrMisconfigured = errors.New("release catalog is missing the default entry")

// Release describes the latest available build for a cohort. Descriptors
// are replaced wholesale on publish; fields are never mutated in place.
type Release struct {
	Version      version.Version
	ArtifactName string
	ArtifactSize int64
	Notes        string
	Forced       bool
	UpdateType   string
	ReleasedAt   time.Time
}

// Catalog is a process-wide, read-mostly mapping from cohort key to its
// current release. Reads go against an atomically-swapped immutable table
// so they never block on writers; Register copies the table, applies the
// single replacement and swaps the pointer.
type Catalog struct {
	table   atomic.Value // map[string]Release
	writeMu sync.Mutex
}

// New creates a catalog from the given entries. The entries map must
// contain a DefaultCohort entry, otherwise ErrMisconfigured is returned.
func New(entries map[string]Release) (*Catalog, error) {
	if _, ok := entries[DefaultCohort]; !ok {
		return nil, ErrMisconfigured
	}

	table := make(map[string]Release, len(entries))
	for cohort, release := range entries {
		table[cohort] = release
	}

	c := &Catalog{}
	c.table.Store(table)
	return c, nil
}

// Lookup returns the release for the given cohort, falling back to the
// default entry when no explicit entry exists. Lookup never fails.
func (c *Catalog) Lookup(cohort string) Release {
	table := c.table.Load().(map[string]Release)
	if release, ok := table[cohort]; ok {
		return release
	}
	return table[DefaultCohort]
}

// Default returns the default cohort's release.
func (c *Catalog) Default() Release {
	return c.Lookup(DefaultCohort)
}

// Register replaces the release for the given cohort. Last write wins;
// there are no merge semantics. Concurrent lookups observe either the old
// or the new descriptor in full, never a partial one.
func (c *Catalog) Register(cohort string, release Release) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	old := c.table.Load().(map[string]Release)
	next := make(map[string]Release, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	next[cohort] = release

	c.table.Store(next)
}

// Cohorts returns the sorted list of registered cohort keys.
func (c *Catalog) Cohorts() []string {
	table := c.table.Load().(map[string]Release)
	cohorts := make([]string, 0, len(table))
	for cohort := range table {
		cohorts = append(cohorts, cohort)
	}
	sort.Strings(cohorts)
	return cohorts
}
