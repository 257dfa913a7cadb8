package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Build metadata, set at link time:
//
//	go build -ldflags "-X github.com/guttosm/finpulse/internal/api.Version=1.4.0 -X github.com/guttosm/finpulse/internal/api.Commit=$(git rev-parse --short HEAD)" ./cmd
var (
	Version = "dev"
	Commit  = ""
)

// VersionHandler godoc
// @Summary      Build version
// @Description  Returns the version (and commit, when known) the binary was built from
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func VersionHandler(c *gin.Context) {
	body := gin.H{"version": Version}
	if Commit != "" {
		body["commit"] = Commit
	}
	c.JSON(http.StatusOK, body)
}
