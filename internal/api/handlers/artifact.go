package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rstltd/cg500-blueteeth-app/internal/api/dto/common"
	"github.com/rstltd/cg500-blueteeth-app/internal/logging"
	"github.com/rstltd/cg500-blueteeth-app/internal/store"
	"github.com/rstltd/cg500-blueteeth-app/internal/utils"

	"github.com/gin-gonic/gin"
)

// ArtifactHandler streams APK artifacts from the artifact store.
type ArtifactHandler struct {
	store  *store.Store
	logger *logging.Logger
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(s *store.Store) *ArtifactHandler {
	return &ArtifactHandler{
		store:  s,
		logger: logging.GetGlobalLogger(),
	}
}

// Download handles GET /api/download/:filename. The filename is validated
// against a strict allow-set before it gets anywhere near the filesystem,
// and the MIME type served is the one recorded at store registration.
func (h *ArtifactHandler) Download(c *gin.Context) {
	name := c.Param("filename")

	artifact, err := h.store.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidFilename):
			utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeInvalidFilename,
				"Invalid filename")
		case errors.Is(err, store.ErrArtifactNotFound):
			utils.HandleAPIError(c, err, http.StatusNotFound, common.ErrCodeNotFound,
				"File not found")
		default:
			utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer,
				"Failed to open artifact")
		}
		return
	}
	defer artifact.Close()

	h.logger.Info("Serving APK file: %s (%d bytes)", artifact.Name, artifact.Size)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", artifact.Name))

	// DataFromReader copies from the file under the request's lifecycle:
	// when the client disconnects mid-transfer the copy aborts and the
	// deferred Close releases the handle.
	c.DataFromReader(http.StatusOK, artifact.Size, artifact.MIMEType, artifact.File, nil)
}
