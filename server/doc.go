package server

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed doc/openapi.yaml
var openapiDocument []byte

//go:embed doc/index.html
var docPage []byte

func (s *Server) registerDoc(r gin.IRoutes) {
	r.GET("/doc", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", docPage)
	})
	r.GET("/doc/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml", openapiDocument)
	})
}
