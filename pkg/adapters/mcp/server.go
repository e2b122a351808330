// Package mcp exposes the Toria chat entry points as Model Context Protocol tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/toria"
	"github.com/aretw0/toria/internal/logging"
	"github.com/aretw0/toria/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Assistant is the conversation core served by the tools.
type Assistant interface {
	ChatFromProfileDayPlans(ctx context.Context, userID, message string, itineraryID *string) domain.ChatResponse
	ChatFromStartMyDay(ctx context.Context, userID, message, itineraryID string) (domain.ChatResponse, error)
	GeneralTravelChat(ctx context.Context, userID, message string) domain.ChatResponse
	History(ctx context.Context, userID string, mode domain.Mode) ([]domain.Message, error)
}

// ChatArgs are the arguments of every chat tool.
type ChatArgs struct {
	UserID      string `json:"user_id"`
	Message     string `json:"message"`
	ItineraryID string `json:"itinerary_id,omitempty"`
}

// HistoryArgs select a thread.
type HistoryArgs struct {
	UserID string `json:"user_id"`
	Mode   string `json:"mode"`
}

// HistoryResult is the stored thread of a user in a mode.
type HistoryResult struct {
	ThreadKey string           `json:"thread_key" jsonschema_description:"The thread identifier (user_mode)"`
	Messages  []domain.Message `json:"messages" jsonschema_description:"Messages in chronological order"`
}

// Server wraps the Assistant and exposes it as an MCP Server.
type Server struct {
	assistant Assistant
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(assistant Assistant, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		assistant: assistant,
		mcpServer: server.NewMCPServer("toria-mcp", toria.Version),
		logger:    logger,
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("chat_profile_dayplans",
		mcp.WithDescription("Chat with Toria from Profile → My Day Plans, about existing plans or new ones."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The traveller's ID")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithString("itinerary_id", mcp.Description("The day plan being discussed (optional)")),
		mcp.WithOutputSchema[domain.ChatResponse](),
	), mcp.NewStructuredToolHandler(s.handleProfileDayPlans))

	s.mcpServer.AddTool(mcp.NewTool("chat_start_my_day",
		mcp.WithDescription("Chat with Toria while a day plan is being executed."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The traveller's ID")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithString("itinerary_id", mcp.Required(), mcp.Description("The active day plan")),
		mcp.WithOutputSchema[domain.ChatResponse](),
	), mcp.NewStructuredToolHandler(s.handleStartMyDay))

	s.mcpServer.AddTool(mcp.NewTool("chat_general",
		mcp.WithDescription("Ask Toria an open-ended travel question."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The traveller's ID")),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user's message")),
		mcp.WithOutputSchema[domain.ChatResponse](),
	), mcp.NewStructuredToolHandler(s.handleGeneral))

	s.mcpServer.AddTool(mcp.NewTool("chat_history",
		mcp.WithDescription("Read back the conversation of a user in a mode."),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("The traveller's ID")),
		mcp.WithString("mode", mcp.Required(), mcp.Description("profile_dayplans, start_my_day or general"),
			mcp.Enum(string(domain.ModeProfileDayPlans), string(domain.ModeStartMyDay), string(domain.ModeGeneral))),
		mcp.WithOutputSchema[HistoryResult](),
	), mcp.NewStructuredToolHandler(s.handleHistory))
}

func (s *Server) handleProfileDayPlans(ctx context.Context, request mcp.CallToolRequest, args ChatArgs) (domain.ChatResponse, error) {
	if args.UserID == "" {
		return domain.ChatResponse{}, errors.New("user_id is required")
	}
	var id *string
	if args.ItineraryID != "" {
		id = &args.ItineraryID
	}
	return s.assistant.ChatFromProfileDayPlans(ctx, args.UserID, args.Message, id), nil
}

func (s *Server) handleStartMyDay(ctx context.Context, request mcp.CallToolRequest, args ChatArgs) (domain.ChatResponse, error) {
	if args.UserID == "" {
		return domain.ChatResponse{}, errors.New("user_id is required")
	}
	resp, err := s.assistant.ChatFromStartMyDay(ctx, args.UserID, args.Message, args.ItineraryID)
	if err != nil {
		s.logger.Warn("MCP start_my_day rejected", "user_id", args.UserID, "err", err)
		return domain.ChatResponse{}, err
	}
	return resp, nil
}

func (s *Server) handleGeneral(ctx context.Context, request mcp.CallToolRequest, args ChatArgs) (domain.ChatResponse, error) {
	if args.UserID == "" {
		return domain.ChatResponse{}, errors.New("user_id is required")
	}
	return s.assistant.GeneralTravelChat(ctx, args.UserID, args.Message), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest, args HistoryArgs) (HistoryResult, error) {
	mode := domain.ParseMode(args.Mode)
	msgs, err := s.assistant.History(ctx, args.UserID, mode)
	if errors.Is(err, domain.ErrSessionNotFound) {
		msgs = []domain.Message{}
	} else if err != nil {
		return HistoryResult{}, fmt.Errorf("load history: %w", err)
	}
	return HistoryResult{ThreadKey: domain.ThreadKey(args.UserID, mode), Messages: msgs}, nil
}
