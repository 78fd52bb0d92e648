package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jwebster45206/sunless-engine/internal/config"
	"github.com/jwebster45206/sunless-engine/internal/logger"
	"github.com/jwebster45206/sunless-engine/internal/mcptools"
	"github.com/jwebster45206/sunless-engine/pkg/sunlesscv"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.SetupStderr(cfg)

	story, err := sunlesscv.Open(cfg.StoryDir)
	if err != nil {
		log.Error("Failed to load story", "error", err, "story_dir", cfg.StoryDir)
		os.Exit(1)
	}

	tools, err := mcptools.NewServer(story, cfg.StartLocation, log)
	if err != nil {
		log.Error("Failed to start adventure", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("MCP server starting", "story", story.Name, "version", version)
	if err := tools.MCPServer(version).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Error("MCP server failed", "error", err)
		os.Exit(1)
	}
}
