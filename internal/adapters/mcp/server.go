// Package mcp exposes the discovered catalog to MCP clients, so agents can
// browse Socrata datasets without speaking the Singer protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/tap-socrata/internal/discovery"
	"github.com/aretw0/tap-socrata/pkg/singer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DatasetSummary is the search result shape returned to MCP clients.
type DatasetSummary struct {
	TapStreamID string `json:"tap_stream_id"`
	Domain      string `json:"domain"`
	DatasetID   string `json:"dataset_id"`
	Description string `json:"description,omitempty"`
	Replication string `json:"replication_method"`
}

// Server wraps a discovered catalog and exposes it as an MCP Server.
type Server struct {
	catalog   *singer.Catalog
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance over a catalog.
func NewServer(catalog *singer.Catalog, version string) *Server {
	s := &Server{
		catalog:   catalog,
		mcpServer: server.NewMCPServer("tap-socrata", strings.TrimSpace(version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: search_datasets
	searchTool := mcp.NewTool("search_datasets",
		mcp.WithDescription("Search the discovered Socrata datasets by name or description substring."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Case-insensitive substring to match")),
	)
	s.mcpServer.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := strings.ToLower(request.GetString("query", ""))
		results := s.Search(query)
		jsonBytes, _ := json.Marshal(results)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_stream_schema
	schemaTool := mcp.NewTool("get_stream_schema",
		mcp.WithDescription("Get the JSON schema of a stream by its tap_stream_id."),
		mcp.WithString("tap_stream_id", mcp.Required(), mcp.Description("The stream identifier from search_datasets")),
	)
	s.mcpServer.AddTool(schemaTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("tap_stream_id", "")
		stream, err := s.catalog.GetStream(id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		jsonBytes, _ := json.Marshal(stream.Schema)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Search returns summaries of streams whose name or description contains the
// lowercase query. An empty query matches everything.
func (s *Server) Search(query string) []DatasetSummary {
	results := []DatasetSummary{}
	for _, stream := range s.catalog.Streams {
		description := stream.MetaString(discovery.MetaDescription)
		if query != "" &&
			!strings.Contains(strings.ToLower(stream.TapStreamID), query) &&
			!strings.Contains(strings.ToLower(description), query) {
			continue
		}
		results = append(results, DatasetSummary{
			TapStreamID: stream.TapStreamID,
			Domain:      stream.MetaString(discovery.MetaDomain),
			DatasetID:   stream.MetaString(discovery.MetaDatasetID),
			Description: description,
			Replication: stream.ReplicationMethod(),
		})
	}
	return results
}

func (s *Server) registerResources() {
	// EXPOSE: socrata://catalog
	s.mcpServer.AddResource(mcp.NewResource("socrata://catalog", "Discovered Singer Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "socrata://catalog",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
