package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/opi-cli/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing opi-cli tools",
	Long: `Start a Model Context Protocol (MCP) server that exposes the display
commands as tools. Displays stay loaded between calls, so PV writes and
pointer state persist across tool calls on the same file.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  opi-cli serve
  opi-cli serve --transport streamable-http --port 8080
  opi-cli serve --cache-ttl 0`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Widget tree cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().Int("max-sessions", 8, "Max displays kept loaded; the least recently used is closed first")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	maxSessions, _ := cmd.Flags().GetInt("max-sessions")

	opts, err := sessionOptions()
	if err != nil {
		return err
	}
	srv, err := server.New(server.Config{
		Transport:   transport,
		Port:        port,
		CacheTTL:    time.Duration(cacheTTLMs) * time.Millisecond,
		MaxSessions: maxSessions,
		Session:     opts,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer srv.Close()
	return srv.Serve()
}
