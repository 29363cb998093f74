package printer

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-vault/internal/shared/server/respond"
	"resume-vault/internal/shared/storage/object"
)

// ServeArtifact streams stored artifacts over HTTP. It backs the /artifacts
// URL space when the object store is not fronted by a CDN.
func ServeArtifact(store object.ObjectStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" {
			respond.Error(c, http.StatusNotFound, "not_found", "artifact not found", nil)
			return
		}
		rc, err := store.Open(c.Request.Context(), key)
		if err != nil {
			respond.Error(c, http.StatusNotFound, "not_found", "artifact not found", nil)
			return
		}
		defer rc.Close()

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.Status(http.StatusOK)
		_, _ = io.Copy(c.Writer, rc)
	}
}
