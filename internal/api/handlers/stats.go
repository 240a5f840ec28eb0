package handlers

import (
	"net/http"
	"time"

	"github.com/rstltd/cg500-blueteeth-app/internal/api/dto/common"
	releaseDTO "github.com/rstltd/cg500-blueteeth-app/internal/api/dto/v1/release"
	"github.com/rstltd/cg500-blueteeth-app/internal/catalog"
	"github.com/rstltd/cg500-blueteeth-app/internal/store"
	"github.com/rstltd/cg500-blueteeth-app/internal/utils"

	"github.com/gin-gonic/gin"
)

// StatsHandler reports artifact store contents and the default release.
type StatsHandler struct {
	catalog *catalog.Catalog
	store   *store.Store
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(cat *catalog.Catalog, s *store.Store) *StatsHandler {
	return &StatsHandler{catalog: cat, store: s}
}

// Stats handles GET /api/stats. Read-only, no side effects.
func (h *StatsHandler) Stats(c *gin.Context) {
	files, err := h.store.List()
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer,
			"Failed to list artifacts")
		return
	}
	if files == nil {
		files = []string{}
	}

	c.JSON(http.StatusOK, releaseDTO.StatsResponse{
		ServerTime:        time.Now().UTC().Format(time.RFC3339),
		AvailableVersions: len(files),
		APKFiles:          files,
		LatestVersion:     h.catalog.Default().Version.String(),
	})
}
