// Package httpapi exposes the dispatch surface over HTTP for hosts that
// prefer a port to a stdio pipe. The framing is deliberately thin: the same
// Invocation/Result shapes as the stdio loop, one POST per invocation.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/printforge/cadbridge/internal/dispatch"
	"github.com/printforge/cadbridge/internal/telemetry"
	"github.com/printforge/cadbridge/tools"
)

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deprecated  bool   `json:"deprecated,omitempty"`
}

type invokeRequest struct {
	Arguments map[string]string `json:"arguments"`
}

// NewServer returns an http.Handler with routes bound.
func NewServer(d *dispatch.Dispatcher, log *telemetry.Logger) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/v1/tools", func(c *gin.Context) {
		defs := d.Tools()
		out := make([]toolInfo, 0, len(defs))
		for _, def := range defs {
			out = append(out, toolInfo{
				Name:        def.Name,
				Description: def.Description,
				Deprecated:  def.Deprecated,
			})
		}
		c.JSON(http.StatusOK, gin.H{"tools": out})
	})

	r.POST("/v1/tools/:name", func(c *gin.Context) {
		var req invokeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Errorf("❌ http: malformed invocation body: %v", err)
			c.JSON(http.StatusBadRequest, tools.Result{
				Status:  tools.StatusError,
				Message: "invalid request body: " + err.Error(),
			})
			return
		}

		inv := tools.Invocation{ToolName: c.Param("name"), Arguments: req.Arguments}
		res, err := d.Dispatch(c.Request.Context(), inv)
		if err != nil {
			status := http.StatusBadRequest
			var unknown *dispatch.UnknownToolError
			if errors.As(err, &unknown) {
				status = http.StatusNotFound
			}
			c.JSON(status, dispatch.ResultFromError(err))
			return
		}
		// Handler outcomes, FAIL and ERROR included, are structured results,
		// never transport faults.
		c.JSON(http.StatusOK, res)
	})

	return r
}
