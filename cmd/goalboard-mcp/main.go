package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kazz187/goalboard/pkg/clog"
)

func main() {
	// stdout carries the MCP protocol, so logs go to stderr.
	logger := slog.New(clog.NewAttributesHandler(clog.NewTextHandler(os.Stderr)))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := NewConfig()
	if err != nil {
		logger.ErrorContext(ctx, "failed to create config", "error", err)
		os.Exit(1)
	}

	client := NewGoalBoardClient(cfg)

	server := newServer(client)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		logger.ErrorContext(ctx, "failed to run server", "error", err)
		os.Exit(1)
	}
}
