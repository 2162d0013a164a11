// Package main is the entry point for the Pero MCP server.
// Supports stdio (for local MCP hosts) and Streamable HTTP transports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"pero-mcp/internal/config"
	"pero-mcp/internal/host"
	"pero-mcp/internal/plugin"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	// Plugins register themselves through their init functions.
	_ "pero-mcp/internal/appstore"
	_ "pero-mcp/internal/googleplay"
	_ "pero-mcp/internal/sshremote"
)

const serverVersion = "1.0.0"

var (
	flagConfig    string
	flagTransport string
	flagHost      string
	flagPort      int
	flagName      string
	flagDebug     bool
)

var rootCmd = &cobra.Command{
	Use:   "pero-mcp",
	Short: "MCP server exposing SSH remote shells and app store tooling",
	Long: `Pero MCP Server hosts a set of plugins behind the Model Context
Protocol: remote shell access over SSH, the App Store Connect API and
Google Play report downloads. Plugins register tools, resources and
prompts on a shared dispatcher.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to TOML config file")
	rootCmd.Flags().StringVarP(&flagTransport, "transport", "t", "", "Transport: stdio or http")
	rootCmd.Flags().StringVar(&flagHost, "host", "", "HTTP listen host")
	rootCmd.Flags().IntVarP(&flagPort, "port", "p", 0, "HTTP listen port")
	rootCmd.Flags().StringVarP(&flagName, "name", "n", "", "Server name announced to clients")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Credentials and overrides commonly live in a local .env file.
	if err := godotenv.Load(); err == nil {
		logrus.Debug("Loaded environment from .env file")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if cfg.Server.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	h := host.New(cfg.Server.Name, serverVersion)

	loaded, err := h.Load(plugin.Default, cfg.PluginEnabled)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"name":      cfg.Server.Name,
		"version":   serverVersion,
		"transport": cfg.Server.Transport,
		"plugins":   loaded,
	}).Info("Starting server")

	switch cfg.Server.Transport {
	case "stdio":
		return runStdio(h.MCPServer())
	default:
		return runHTTP(h.MCPServer(), cfg.Server.Host, cfg.Server.Port)
	}
}

// loadConfig resolves settings with precedence: flag > environment > config
// file > default.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = os.Getenv("PERO_MCP_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PERO_MCP_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("PERO_MCP_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("PERO_MCP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PERO_MCP_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("PERO_MCP_NAME"); v != "" {
		cfg.Server.Name = v
	}
	if os.Getenv("PERO_MCP_DEBUG") == "true" {
		cfg.Server.Debug = true
	}

	if cmd.Flags().Changed("transport") {
		cfg.Server.Transport = flagTransport
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flagHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flagPort
	}
	if cmd.Flags().Changed("name") {
		cfg.Server.Name = flagName
	}
	if cmd.Flags().Changed("debug") {
		cfg.Server.Debug = flagDebug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runStdio serves the MCP protocol over stdin/stdout.
func runStdio(s *server.MCPServer) error {
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

// runHTTP serves Streamable HTTP with graceful shutdown on SIGINT/SIGTERM.
func runHTTP(s *server.MCPServer, hostAddr string, port int) error {
	httpServer := server.NewStreamableHTTPServer(s)
	addr := fmt.Sprintf("%s:%d", hostAddr, port)

	errChan := make(chan error, 1)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		logrus.WithField("addr", addr).Info("HTTP server listening")
		errChan <- httpServer.Start(addr)
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-sigChan:
	}

	logrus.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logrus.Info("Server stopped")
	return nil
}
