package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/videonote/shell/internal/logs"
	"github.com/videonote/shell/internal/relay"
	"github.com/videonote/shell/internal/sidecar"
)

// Supervisor is the slice of the sidecar supervisor the boundary needs:
// the synchronous query endpoint and a status snapshot.
type Supervisor interface {
	Port() (uint16, error)
	Snapshot() sidecar.Status
}

// Router exposes the GUI boundary over local HTTP.
// Endpoints (under basePath, default "/sidecar"):
//
//	GET {basePath}/port    -> {"port": N} or 503 {"error": "Sidecar port not yet available"}
//	GET {basePath}/status  -> supervision status snapshot
//	GET {basePath}/logs    -> text/plain concatenation of captured log files
//	GET {basePath}/events  -> SSE stream of sidecar-port / sidecar-error / sidecar-terminated
//
// plus GET /healthz at the root. The events stream is best-effort: a client
// that is not connected when an event fires never sees it.
type Router struct {
	sup      Supervisor
	hub      *relay.Hub
	logDir   string
	basePath string
}

// NewRouter constructs a Router. hub may be nil, in which case the events
// endpoint reports 503.
func NewRouter(sup Supervisor, hub *relay.Hub, logDir, basePath string) *Router {
	return &Router{sup: sup, hub: hub, logDir: logDir, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any
// server or mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	g.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	group := g.Group(r.basePath)
	group.GET("/port", r.handlePort)
	group.GET("/status", r.handleStatus)
	group.GET("/logs", r.handleLogs)
	group.GET("/events", r.handleEvents)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr string, r *Router) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0, // events stream stays open indefinitely
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}

type errorResp struct {
	Error string `json:"error"`
}

func (r *Router) handlePort(c *gin.Context) {
	port, err := r.sup.Port()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, errorResp{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"port": port})
}

func (r *Router) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, r.sup.Snapshot())
}

func (r *Router) handleLogs(c *gin.Context) {
	out, err := logs.Collect(r.logDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResp{Error: err.Error()})
		return
	}
	c.String(http.StatusOK, out)
}

func (r *Router) handleEvents(c *gin.Context) {
	if r.hub == nil {
		c.JSON(http.StatusServiceUnavailable, errorResp{Error: "event relay not configured"})
		return
	}
	id, ch := r.hub.Subscribe()
	defer r.hub.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case n, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(n)
			if err != nil {
				return true
			}
			c.SSEvent(string(n.Type), string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func sanitizeBase(basePath string) string {
	bp := strings.TrimSpace(basePath)
	if bp == "" {
		return ""
	}
	if !strings.HasPrefix(bp, "/") {
		bp = "/" + bp
	}
	return strings.TrimRight(bp, "/")
}
