package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rstltd/cg500-blueteeth-app/internal/version"
)

// Entry is the on-disk form of a release descriptor. The field names match
// the wire contract of the version-check response so a catalog file can be
// assembled straight from release tooling output.
type Entry struct {
	LatestVersion string    `json:"latest_version" validate:"required"`
	DownloadURL   string    `json:"download_url" validate:"required"`
	DownloadSize  int64     `json:"download_size" validate:"gte=0"`
	ReleaseNotes  string    `json:"release_notes"`
	IsForced      bool      `json:"is_forced"`
	UpdateType    string    `json:"update_type" validate:"omitempty,oneof=recommended forced"`
	ReleaseDate   time.Time `json:"release_date"`
}

// Load reads a catalog configuration file mapping cohort keys to release
// entries. Every entry is validated and its version parsed up front; a
// malformed version in the catalog is a configuration error, not something
// to surface to clients at request time.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	validate := validator.New()
	entries := make(map[string]Release, len(raw))
	for cohort, entry := range raw {
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("invalid catalog entry for cohort %q: %w", cohort, err)
		}

		release, err := entry.ToRelease()
		if err != nil {
			return nil, fmt.Errorf("invalid catalog entry for cohort %q: %w", cohort, err)
		}
		entries[cohort] = release
	}

	return New(entries)
}

// ToRelease converts a validated entry into a release descriptor.
func (e Entry) ToRelease() (Release, error) {
	v, err := version.Parse(e.LatestVersion)
	if err != nil {
		return Release{}, err
	}

	updateType := e.UpdateType
	if updateType == "" {
		updateType = "recommended"
	}

	return Release{
		Version:      v,
		ArtifactName: e.DownloadURL,
		ArtifactSize: e.DownloadSize,
		Notes:        e.ReleaseNotes,
		Forced:       e.IsForced,
		UpdateType:   updateType,
		ReleasedAt:   e.ReleaseDate,
	}, nil
}

// DefaultEntries returns the built-in catalog used when no catalog file is
// configured. Mirrors the shipped CG500 1.1.0 release configuration.
func DefaultEntries() map[string]Release {
	release := Release{
		Version:      version.MustParse("1.1.0"),
		ArtifactName: "cg500_ble_app_v1.1.0.apk",
		ArtifactSize: 15728640,
		Notes:        "• 新增設備連接穩定性改進\n• 修復藍牙掃描問題\n• UI 介面優化\n• 新增智能通知過濾功能",
		Forced:       false,
		UpdateType:   "recommended",
		ReleasedAt:   time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}

	return map[string]Release{
		DefaultCohort: release,
		"1.0.0":       release,
	}
}
