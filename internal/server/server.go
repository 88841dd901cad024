// Package server exposes open displays to agents as MCP tools.
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/opi-cli/internal/session"
	"github.com/mj1618/opi-cli/internal/version"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "server")

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	// MaxSessions bounds how many displays stay open; the least recently
	// used one is closed first.
	MaxSessions int
	Session     session.Options
}

// Server wraps the MCP server with the open display sessions.
type Server struct {
	cfg      Config
	mu       sync.Mutex
	sessions *lru.Cache
	cache    *SnapshotCache
	mcp      *mcpserver.MCPServer
}

// New creates a server with every tool registered.
func New(cfg Config) (*Server, error) {
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 8
	}
	s := &Server{cfg: cfg, cache: NewSnapshotCache(cfg.CacheTTL)}
	sessions, err := lru.NewWithEvict(cfg.MaxSessions, func(key, value interface{}) {
		log.WithField("file", key).Debug("closing evicted display")
		value.(*session.Session).Close()
		s.cache.Invalidate(key.(string))
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	s.sessions = sessions
	s.mcp = mcpserver.NewMCPServer("opi-cli", version.Version)
	s.registerTools()
	return s, nil
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve() error {
	switch s.cfg.Transport {
	case "stdio", "":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		log.WithField("port", s.cfg.Port).Info("serving streamable http")
		return httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

// Close closes every open display.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.Purge()
}

// session returns the open session for file, opening it when needed. The
// caller must hold s.mu. Completed resource loads are pumped before the
// session is handed out.
func (s *Server) session(ctx context.Context, file string) (*session.Session, string, error) {
	if file == "" {
		return nil, "", fmt.Errorf("file is required")
	}
	key, err := filepath.Abs(file)
	if err != nil {
		return nil, "", err
	}
	if v, ok := s.sessions.Get(key); ok {
		sess := v.(*session.Session)
		sess.Viewer.Pump()
		return sess, key, nil
	}
	sess, err := session.Open(ctx, key, s.cfg.Session)
	if err != nil {
		return nil, "", err
	}
	s.sessions.Add(key, sess)
	return sess, key, nil
}

func (s *Server) registerTools() {
	target := []mcp.ToolOption{
		mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
		mcp.WithString("wuid", mcp.Description("Target widget by wuid")),
		mcp.WithString("text", mcp.Description("Target widget by wuid, name or displayed text")),
		mcp.WithString("roles", mcp.Description("Filter text targeting by role (e.g. \"btn\", \"btn,led\")")),
		mcp.WithBoolean("exact", mcp.Description("Require exact text match")),
		mcp.WithNumber("x", mcp.Description("Target X coordinate in display pixels")),
		mcp.WithNumber("y", mcp.Description("Target Y coordinate in display pixels")),
	}
	with := func(name, desc string, extra ...mcp.ToolOption) mcp.Tool {
		opts := append([]mcp.ToolOption{mcp.WithDescription(desc)}, target...)
		return mcp.NewTool(name, append(opts, extra...)...)
	}

	// load
	s.mcp.AddTool(
		mcp.NewTool("load",
			mcp.WithDescription("Open (or reload) a display file and return its widget tree"),
			mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
		),
		s.handleLoad,
	)

	// render
	s.mcp.AddTool(
		mcp.NewTool("render",
			mcp.WithDescription("Render the display to a PNG image"),
			mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
			mcp.WithBoolean("annotate", mcp.Description("Outline clickable widgets and label them with their wuid")),
			mcp.WithBoolean("hit", mcp.Description("Render the hit-region key surface instead of the display")),
		),
		s.handleRender,
	)

	// tree
	s.mcp.AddTool(
		mcp.NewTool("tree",
			mcp.WithDescription("Read the widget tree with display-coordinate bounds, values and actions"),
			mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
			mcp.WithString("roles", mcp.Description("Filter by role (e.g. \"btn\", \"interactive\")")),
			mcp.WithString("text", mcp.Description("Keep widgets whose wuid, name or value contains this text")),
			mcp.WithBoolean("flat", mcp.Description("Return a flat list with path breadcrumbs")),
			mcp.WithBoolean("visible-only", mcp.Description("Drop hidden widgets")),
		),
		s.handleTree,
	)

	s.mcp.AddTool(with("probe", "Report the hit region and widget at a point or on a widget, without dispatching input"), s.handleProbe)
	s.mcp.AddTool(with("move", "Move the pointer onto a point or widget (fires enter/out/move)"), s.handleMove)
	s.mcp.AddTool(with("click", "Click a point or widget and report the events the display fired",
		mcp.WithString("button", mcp.Description("Mouse button: left, right, middle (default: left)")),
	), s.handleClick)

	// action
	s.mcp.AddTool(
		mcp.NewTool("action",
			mcp.WithDescription("Run one action of a widget directly by index"),
			mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
			mcp.WithString("wuid", mcp.Description("Widget wuid"), mcp.Required()),
			mcp.WithNumber("index", mcp.Description("Action index (default: 0)")),
		),
		s.handleAction,
	)

	// set_pv
	s.mcp.AddTool(
		mcp.NewTool("set_pv",
			mcp.WithDescription("Write a value to a local PV (e.g. loc://pump) and repaint"),
			mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
			mcp.WithString("name", mcp.Description("PV name"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Value; numeric text is stored as a number"), mcp.Required()),
		),
		s.handleSetPV,
	)

	// events
	s.mcp.AddTool(
		mcp.NewTool("events",
			mcp.WithDescription("List events fired by display actions (open display, run command, scripts...)"),
			mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
			mcp.WithNumber("since", mcp.Description("Only events with a sequence number above this")),
		),
		s.handleEvents,
	)

	// do (batch)
	s.mcp.AddTool(
		mcp.NewTool("do",
			mcp.WithDescription("Execute multiple steps in a batch. Supports: click, hover, probe, action, set-pv, assert, settle, sleep, tree"),
			mcp.WithString("file", mcp.Description("Path of the .opi display file"), mcp.Required()),
			mcp.WithArray("steps", mcp.Description("Array of step objects, e.g. {\"click\": {\"wuid\": \"start\"}}"), mcp.Required()),
			mcp.WithBoolean("stop-on-error", mcp.Description("Stop on first error (default: true)")),
		),
		s.handleDo,
	)
}
