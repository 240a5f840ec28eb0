package release

import "time"

// CheckVersionResponse is the wire form of an update decision. Field names
// follow the app's existing update contract; the download fields are only
// populated when HasUpdate is true.
type CheckVersionResponse struct {
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version"`
	HasUpdate      bool   `json:"has_update"`

	DownloadURL  string     `json:"download_url,omitempty"`
	DownloadSize int64      `json:"download_size,omitempty"`
	ReleaseNotes string     `json:"release_notes,omitempty"`
	IsForced     *bool      `json:"is_forced,omitempty"`
	UpdateType   string     `json:"update_type,omitempty"`
	ReleaseDate  *time.Time `json:"release_date,omitempty"`
}

// PublishReleaseRequest replaces a cohort's release descriptor wholesale.
type PublishReleaseRequest struct {
	Cohort        string    `json:"cohort" binding:"required"`
	LatestVersion string    `json:"latest_version" binding:"required"`
	DownloadURL   string    `json:"download_url" binding:"required"`
	DownloadSize  int64     `json:"download_size" binding:"gte=0"`
	ReleaseNotes  string    `json:"release_notes"`
	IsForced      bool      `json:"is_forced"`
	UpdateType    string    `json:"update_type" binding:"omitempty,oneof=recommended forced"`
	ReleaseDate   time.Time `json:"release_date"`
}

// StatsResponse reports the current state of the artifact store and the
// default cohort's latest version.
type StatsResponse struct {
	ServerTime        string   `json:"server_time"`
	AvailableVersions int      `json:"available_versions"`
	APKFiles          []string `json:"apk_files"`
	LatestVersion     string   `json:"latest_version"`
}

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}
