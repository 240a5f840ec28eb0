package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrInvalidFilename is returned when a requested artifact name falls
	// outside the allowed character set.
	ErrInvalidFilename = errors.New("invalid artifact filename")

	// ErrArtifactNotFound is returned when the resolved artifact does not
	// exist in the store.
	ErrArtifactNotFound = errors.New("artifact not found")
)

// APKMIMEType is recorded at store construction and served verbatim.
// The MIME type is never guessed from the extension at serve time.
const APKMIMEType = "application/vnd.android.package-archive"

// artifactExtension is appended to requested names that lack it.
const artifactExtension = ".apk"

// filenamePattern is the full allow-set for artifact names. Everything
// outside it is rejected, which blocks path traversal by construction.
var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Store holds named binary artifacts under a single root directory.
type Store struct {
	root     string
	mimeType string
}

// Artifact is an opened artifact ready for streaming. The caller owns the
// file handle and must Close it, including when the transfer is cancelled.
type Artifact struct {
	Name     string
	Size     int64
	MIMEType string
	File     *os.File
}

func (a *Artifact) Close() error {
	return a.File.Close()
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
	}

	return &Store{
		root:     dir,
		mimeType: APKMIMEType,
	}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Normalize validates the requested name against the allow-set and appends
// the canonical artifact extension when missing. Validation happens before
// extension handling so "../../etc/passwd" never reaches the filesystem.
func (s *Store) Normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || !filenamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}

	if !strings.HasSuffix(name, artifactExtension) {
		name += artifactExtension
	}

	return name, nil
}

// Open validates and opens the named artifact for streaming. Existence is
// checked here, at serve time: an artifact registered in the catalog may be
// uploaded later and must only fail if still absent when requested.
func (s *Store) Open(name string) (*Artifact, error) {
	normalized, err := s.Normalize(name)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(s.root, normalized)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, normalized)
		}
		return nil, fmt.Errorf("failed to open artifact %s: %w", normalized, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat artifact %s: %w", normalized, err)
	}

	return &Artifact{
		Name:     normalized,
		Size:     info.Size(),
		MIMEType: s.mimeType,
		File:     file,
	}, nil
}

// List returns the sorted names of all artifacts currently in the store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), artifactExtension) {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)
	return names, nil
}
