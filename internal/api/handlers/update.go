package handlers

import (
	"net/http"
	"time"

	"github.com/rstltd/cg500-blueteeth-app/internal/api/dto/common"
	releaseDTO "github.com/rstltd/cg500-blueteeth-app/internal/api/dto/v1/release"
	"github.com/rstltd/cg500-blueteeth-app/internal/catalog"
	"github.com/rstltd/cg500-blueteeth-app/internal/logging"
	"github.com/rstltd/cg500-blueteeth-app/internal/update"
	"github.com/rstltd/cg500-blueteeth-app/internal/utils"
	"github.com/rstltd/cg500-blueteeth-app/internal/version"

	"github.com/gin-gonic/gin"
)

// defaultClientVersion is assumed when a client omits the Current-Version
// header, matching the app's oldest shipped build.
const defaultClientVersion = "1.0.0"

// UpdateHandler serves update negotiation and release publishing.
type UpdateHandler struct {
	catalog *catalog.Catalog
	logger  *logging.Logger
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(cat *catalog.Catalog) *UpdateHandler {
	return &UpdateHandler{
		catalog: cat,
		logger:  logging.GetGlobalLogger(),
	}
}

// CheckVersion handles GET /api/version. The client reports its version in
// the Current-Version header; the raw header text is also the cohort key
// for the catalog lookup. Platform and Current-Build are informational.
func (h *UpdateHandler) CheckVersion(c *gin.Context) {
	start := time.Now()

	currentVersion := c.GetHeader("Current-Version")
	if currentVersion == "" {
		currentVersion = defaultClientVersion
	}
	currentBuild := c.GetHeader("Current-Build")
	platform := c.GetHeader("Platform")
	if platform == "" {
		platform = "android"
	}

	clientVersion, err := version.Parse(currentVersion)
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeMalformedVersion,
			"Current-Version header is not a valid version")
		return
	}

	release := h.catalog.Lookup(currentVersion)
	decision := update.Decide(clientVersion, release)

	resp := releaseDTO.CheckVersionResponse{
		CurrentVersion: currentVersion,
		LatestVersion:  release.Version.String(),
		HasUpdate:      decision.HasUpdate,
	}

	if decision.HasUpdate {
		target := decision.Target
		forced := decision.Forced
		releasedAt := target.ReleasedAt

		resp.DownloadURL = target.ArtifactName
		resp.DownloadSize = target.ArtifactSize
		resp.ReleaseNotes = target.Notes
		resp.IsForced = &forced
		resp.UpdateType = target.UpdateType
		resp.ReleaseDate = &releasedAt
	}

	h.logger.Debug("Version check - Current: %s+%s, Platform: %s", currentVersion, currentBuild, platform)
	h.logger.LogVersionCheck(currentVersion, platform, resp.LatestVersion,
		decision.HasUpdate, decision.Forced, time.Since(start))

	c.JSON(http.StatusOK, resp)
}

// PublishRelease handles POST /api/v1/releases. It replaces the named
// cohort's descriptor wholesale; there is no partial update.
func (h *UpdateHandler) PublishRelease(c *gin.Context) {
	var req releaseDTO.PublishReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeValidation,
			"Invalid release payload")
		return
	}

	entry := catalog.Entry{
		LatestVersion: req.LatestVersion,
		DownloadURL:   req.DownloadURL,
		DownloadSize:  req.DownloadSize,
		ReleaseNotes:  req.ReleaseNotes,
		IsForced:      req.IsForced,
		UpdateType:    req.UpdateType,
		ReleaseDate:   req.ReleaseDate,
	}
	if entry.ReleaseDate.IsZero() {
		entry.ReleaseDate = time.Now().UTC()
	}

	release, err := entry.ToRelease()
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeMalformedVersion,
			"latest_version is not a valid version")
		return
	}

	h.catalog.Register(req.Cohort, release)
	h.logger.Info("Published release %s for cohort %s (forced=%v)",
		release.Version, req.Cohort, release.Forced)

	utils.HandleMessage(c, "Release published")
}
