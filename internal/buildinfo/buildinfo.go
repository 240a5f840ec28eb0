package buildinfo

import (
	"fmt"
	"time"
)

// These variables are set at build time via -ldflags
var (
	Version   = "dev"     // Set via: -ldflags "-X .../internal/buildinfo.Version=1.0.0"
	BuildTime = "unknown" // Set via: -ldflags "-X .../internal/buildinfo.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
)

// Info returns a formatted version info string for CLI output
func Info() string {
	if BuildTime == "unknown" {
		return fmt.Sprintf("%s (development build)", Version)
	}

	buildTime, err := time.Parse(time.RFC3339, BuildTime)
	if err != nil {
		return fmt.Sprintf("%s (built %s)", Version, BuildTime)
	}

	return fmt.Sprintf("%s (built %s)", Version, buildTime.Format("2006-01-02 15:04:05 UTC"))
}
