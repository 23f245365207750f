// Tandoor MCP Server - A Model Context Protocol server for Tandoor Recipes
// Provides tools for recipes, shopping lists, meal plans, and pantry tracking
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/olgasafonova/tandoor-mcp-server/internal/tandoor"
	"github.com/olgasafonova/tandoor-mcp-server/tools"
	"github.com/olgasafonova/tandoor-mcp-server/tracing"
)

const (
	ServerName    = "tandoor-mcp-server"
	ServerVersion = "1.0.0"
)

func main() {
	// Configure logging to stderr (stdout is used for MCP protocol)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	}))

	// Load configuration from environment
	config, err := tandoor.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// Set up tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logger.Warn("Tracing setup failed, continuing without tracing", "error", err)
	} else {
		defer shutdownTracing(ctx)
	}

	// Create Tandoor client and verify access before accepting tool calls,
	// so misconfiguration surfaces at startup with actionable guidance
	client := tandoor.NewClient(config, logger)
	if err := client.VerifyAccess(ctx); err != nil {
		log.Fatalf("Cannot reach Tandoor at %s:\n%v", config.BaseURL, err)
	}
	logger.Info("Connected to Tandoor", "base_url", config.BaseURL)

	// Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &mcp.ServerOptions{
		Logger: logger,
		Instructions: `Tandoor MCP Server provides tools for a self-hosted Tandoor Recipes instance.

Tool categories:
- Recipes: search, read (with serving scaling), create, update, rate, import from URL, and suggest based on the pantry
- Shopping list: add with automatic consolidation, view grouped by category, check/uncheck/remove items, clear bought items into the pantry
- Pantry: search foods, track what's on hand
- Meal plans: schedule recipes on dates with meal types
- Cooking history: log cooks with ratings
- Reference: keywords, units, unit conversions, recipe books

Names (foods, units, keywords, meal types, books) are fuzzy matched, so "tomatos" finds "Tomato". Ambiguous names return the candidates to choose from.

Configure via environment variables:
- TANDOOR_BASE_URL: Instance URL (default http://localhost:8080)
- TANDOOR_USERNAME / TANDOOR_PASSWORD: Login credentials
- TANDOOR_AUTH_TOKEN: Pre-issued API token (alternative to credentials)`,
	})

	// Register all tools
	registry := tools.NewHandlerRegistry(client, logger)
	registry.RegisterAll(server)

	// Run server on stdio transport
	logger.Info("Starting Tandoor MCP Server",
		"name", ServerName,
		"version", ServerVersion,
		"base_url", config.BaseURL,
	)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// logLevelFromEnv reads LOG_LEVEL (debug, info, warn, error; default info)
func logLevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
