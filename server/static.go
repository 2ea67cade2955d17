package server

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const IndexFile = "index.html"

// serveStatic serves files under dir, falling back to the index page for anything that is not a file.
func serveStatic(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/") || dir == "" {
			abortWithError(c, http.StatusNotFound, fmt.Errorf("no route for %s %s", c.Request.Method, c.Request.URL.Path))
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			abortWithError(c, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", c.Request.Method))
			return
		}
		// cleaning against "/" keeps the result under dir
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+c.Request.URL.Path)))
		if isFile(name) {
			c.File(name)
			return
		}
		index := filepath.Join(dir, IndexFile)
		if isFile(index) {
			c.File(index)
			return
		}
		abortWithError(c, http.StatusNotFound, fmt.Errorf("%s not found", c.Request.URL.Path))
	}
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}
