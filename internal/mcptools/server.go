// Package mcptools exposes one in-process adventure as MCP tools.
package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jwebster45206/sunless-engine/pkg/adventure"
	"github.com/jwebster45206/sunless-engine/pkg/progress"
	"github.com/jwebster45206/sunless-engine/pkg/sunlesscv"
	"github.com/jwebster45206/sunless-engine/pkg/textfilter"
)

// NoInput is the input of tools that take no arguments.
type NoInput struct{}

// PerformActionInput selects an action by position.
type PerformActionInput struct {
	Index int `json:"index" jsonschema:"zero-based position of the action in describe_location"`
}

// RestartInput optionally names the start location.
type RestartInput struct {
	Start string `json:"start,omitempty" jsonschema:"optional start location id"`
}

// StateResult reports where the adventure stands after a move.
type StateResult struct {
	Location      string `json:"location" jsonschema:"current location id"`
	InConsequence bool   `json:"in_consequence" jsonschema:"true while a consequence awaits resolution"`
	Cursor        int    `json:"cursor" jsonschema:"position of the current consequence"`
}

// Server serializes tool calls against a single game.
type Server struct {
	story  *sunlesscv.Story
	start  string
	logger *slog.Logger

	mu   sync.Mutex
	game *sunlesscv.Game
}

// NewServer starts a game at start (empty uses the story start).
func NewServer(story *sunlesscv.Story, start string, logger *slog.Logger) (*Server, error) {
	s := &Server{story: story, start: start, logger: logger}
	game, err := s.newGame(start)
	if err != nil {
		return nil, err
	}
	s.game = game
	return s, nil
}

func (s *Server) newGame(start string) (*sunlesscv.Game, error) {
	return s.story.NewGame(start, adventure.WithLogger(s.logger))
}

// MCPServer builds an MCP server with every adventure tool registered.
func (s *Server) MCPServer(version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "sunless-engine", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_location",
		Description: "Describes the current location: depiction, numbered actions and exit.",
	}, s.describeLocation)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_consequence",
		Description: "Describes the consequence awaiting resolution.",
	}, s.describeConsequence)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "perform_action",
		Description: "Performs the action at the given position of the current location.",
	}, s.performAction)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_consequence",
		Description: "Resolves the current consequence and moves on.",
	}, s.resolveConsequence)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "leave_location",
		Description: "Takes the exit of the current location.",
	}, s.leaveLocation)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "progress",
		Description: "Reports exploration and competence progress in percent.",
	}, s.reportProgress)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "restart",
		Description: "Starts a new adventure, discarding all progress.",
	}, s.restart)

	return server
}

func (s *Server) describeLocation(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, adventure.LocationView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.game.DescribeLocation()
	if err != nil {
		return nil, adventure.LocationView{}, fmt.Errorf("describe location: %w", err)
	}
	return nil, view, nil
}

func (s *Server) describeConsequence(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, adventure.ConsequenceView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.game.DescribeConsequence()
	if err != nil {
		return nil, adventure.ConsequenceView{}, fmt.Errorf("describe consequence: %w", err)
	}
	return nil, view, nil
}

func (s *Server) performAction(_ context.Context, _ *mcp.CallToolRequest, in PerformActionInput) (*mcp.CallToolResult, StateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.PerformAction(in.Index); err != nil {
		return nil, StateResult{}, fmt.Errorf("perform action: %w", err)
	}
	return nil, s.state(), nil
}

func (s *Server) resolveConsequence(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, StateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.ResolveConsequence(); err != nil {
		return nil, StateResult{}, fmt.Errorf("resolve consequence: %w", err)
	}
	return nil, s.state(), nil
}

func (s *Server) leaveLocation(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, StateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.game.LeaveLocation(); err != nil {
		return nil, StateResult{}, fmt.Errorf("leave location: %w", err)
	}
	return nil, s.state(), nil
}

func (s *Server) reportProgress(_ context.Context, _ *mcp.CallToolRequest, _ NoInput) (*mcp.CallToolResult, progress.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return nil, s.game.Progress.Report(), nil
}

func (s *Server) restart(_ context.Context, _ *mcp.CallToolRequest, in RestartInput) (*mcp.CallToolResult, StateResult, error) {
	start := s.start
	if in.Start != "" {
		start = textfilter.NormalizeID(in.Start)
		if !textfilter.IsValidID(start) {
			return nil, StateResult{}, fmt.Errorf("invalid start location %q", in.Start)
		}
	}

	game, err := s.newGame(start)
	if err != nil {
		return nil, StateResult{}, fmt.Errorf("restart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = game
	s.logger.Info("Adventure restarted", "location", game.LocationID())
	return nil, s.state(), nil
}

func (s *Server) state() StateResult {
	return StateResult{
		Location:      s.game.LocationID(),
		InConsequence: s.game.InConsequence(),
		Cursor:        s.game.Cursor(),
	}
}
