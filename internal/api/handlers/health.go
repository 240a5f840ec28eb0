package handlers

import (
	"net/http"
	"time"

	releaseDTO "github.com/rstltd/cg500-blueteeth-app/internal/api/dto/v1/release"
	"github.com/rstltd/cg500-blueteeth-app/internal/buildinfo"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, releaseDTO.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   buildinfo.Version,
	})
}
