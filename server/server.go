// Package server hosts the HTTP surface: health, the SSE stream pair, and
// the message endpoint feeding the routing pipeline.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"

	"github.com/shahidain/mcp-server/profile"
)

const serviceName = "mcp-server"

type Server struct {
	http       *http.Server
	profile    profile.Profile
	registry   *Registry
	dispatcher *Dispatcher
	mcp        *mcp.Server
	startTime  time.Time
}

func New(p profile.Profile, dispatcher *Dispatcher, mcpServer *mcp.Server, registry *Registry) *Server {
	s := &Server{
		profile:    p,
		registry:   registry,
		dispatcher: dispatcher,
		mcp:        mcpServer,
		startTime:  time.Now(),
	}

	e := echo.New()
	e.GET("/health", s.health)
	e.GET("/sse", s.connectionInfo)
	e.GET("/sse/stream", s.stream)
	e.POST("/messages", s.handleMessage)

	s.http = &http.Server{Addr: p.Addr, Handler: e}
	return s
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	slog.Info("http server listening", "addr", s.profile.Addr, "mode", s.profile.Mode)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) health(c *echo.Context) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return c.JSON(http.StatusOK, map[string]any{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"version":   s.profile.Version,
		"uptime":    time.Since(s.startTime).Round(time.Second).String(),
		"memory": map[string]any{
			"alloc":      m.Alloc,
			"totalAlloc": m.TotalAlloc,
			"sys":        m.Sys,
			"numGC":      m.NumGC,
		},
		"environment": s.profile.Mode,
	})
}

// connectionInfo tells the client where the actual stream lives. The
// session id becomes live once the client connects to the stream endpoint.
func (s *Server) connectionInfo(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"success":        true,
		"message":        "Connect to the stream endpoint to open a session",
		"streamEndpoint": "/sse/stream",
		"sessionId":      uuid.NewString(),
	})
}

// stream holds an SSE connection open. Each connection gets its own MCP
// transport; the transport announces the message endpoint for this session
// and carries protocol responses until the client disconnects.
func (s *Server) stream(c *echo.Context) error {
	rw := c.Response()
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")
	rw.Header().Set("X-Accel-Buffering", "no")

	id := uuid.NewString()
	transport := mcp.NewSSEServerTransport("/messages?sessionId="+id, rw)
	sess := s.registry.Open(id, transport)
	defer s.registry.Close(sess.ID)
	slog.Info("stream session opened", "session", sess.ID)

	if err := s.mcp.Run(c.Request().Context(), transport); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("stream session ended", "session", sess.ID, "err", err)
	}
	slog.Info("stream session closed", "session", sess.ID)
	return nil
}

// handleMessage accepts a chat message and streams the rendered answer on
// this same connection. Bodies without a message field are protocol frames
// for the session's MCP transport; the reply arrives on the stream.
func (s *Server) handleMessage(c *echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	var req struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &req)

	if strings.TrimSpace(req.Message) == "" {
		sess := s.registry.Resolve(c.QueryParam("sessionId"))
		if sess == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "no active stream session")
		}
		r := c.Request()
		r.Body = io.NopCloser(bytes.NewReader(body))
		sess.transport.ServeHTTP(c.Response(), r)
		return nil
	}

	s.dispatcher.Dispatch(c.Request().Context(), c.Response(), req.Message)
	return nil
}
