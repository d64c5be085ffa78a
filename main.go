// Command relay starts the Connect Four relay server.
//
// It supports two modes:
//  1. "serve" (default) – runs the HTTP server exposing the websocket
//     endpoint, a small REST API, static files, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server against an in-process relay
//
// Flags control host/port and debug logging; the environment (optionally
// seeded from a .env file) configures the same plus the SMTP notification
// side channel.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/fourline/relay/api"
	"github.com/fourline/relay/config"
	"github.com/fourline/relay/game/broker"
	"github.com/fourline/relay/game/session"
	"github.com/fourline/relay/notify"
	relaymcp "github.com/fourline/relay/transport/mcp"
	relayws "github.com/fourline/relay/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Connect Four Relay"
)

func main() {
	cmd := &cli.Command{
		Name:    "relay",
		Usage:   "real-time Connect Four relay server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "interface to bind (overrides HOST)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "port to listen on (overrides PORT)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Action: runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server (default)",
				Action: runServe,
			},
			{
				Name:   "mcp",
				Usage:  "run an MCP stdio server",
				Action: runStdioMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig reads the environment configuration and applies flag
// overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	return cfg, nil
}

// newBroker wires the token registries and the notification side channel
// into a broker.
func newBroker(cfg *config.Config) *broker.Broker {
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.NotificationsEnabled() {
		notifier = notify.NewSMTP(cfg.SMTPHost, cfg.SMTPPort,
			cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailTo)
		log.Printf("Email notifications enabled via %s", cfg.SMTPHost)
	}

	return broker.New(session.NewRegistry(), session.NewRegistry(), notifier)
}

// runServe starts the HTTP server with the websocket endpoint, REST API,
// static files, and an /mcp endpoint, then blocks until shutdown.
func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log.Printf("Starting %s v%s", AppName, Version)

	b := newBroker(cfg)
	wsHandler := relayws.NewHandler(b)
	apiServer := api.NewServer(b, wsHandler, cfg.StaticDir)
	mcpServer := relaymcp.NewServer(b)

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.MCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	addr := cfg.Addr()
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     mainRouter,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("WebSocket: ws://%s/ws", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case sig := <-stop:
		log.Printf("Received signal: %v. Shutting down...", sig)
	case err := <-errc:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// runStdioMCP runs an MCP stdio server around an in-process relay. Games
// hosted by websocket clients are not reachable from here; this mode is
// for agent-only experiments and MCP client development.
func runStdioMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b := newBroker(cfg)
	mcpServer := relaymcp.NewServer(b)

	log.Println("MCP stdio server ready")
	if err := mcpserver.ServeStdio(mcpServer.MCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
