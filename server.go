package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// MCPServer handles MCP protocol over newline-delimited JSON-RPC.
type MCPServer struct {
	conns     *ConnectionManager
	catalog   *Catalog
	resources *ResourceResolver
	tools     *ToolDispatcher
	session   *lifecycle
	logger    *slog.Logger

	in  io.Reader
	out io.Writer
	mu  sync.Mutex // serializes writes to out

	ctx    context.Context
	cancel context.CancelFunc
}

// NewMCPServer wires the session layer around opener. The backend is not
// contacted until the first resource read or tool call.
func NewMCPServer(ctx context.Context, opener Opener, in io.Reader, out io.Writer, logger *slog.Logger) (*MCPServer, error) {
	if logger == nil {
		logger = discardLogger()
	}
	catalog, err := NewCatalog()
	if err != nil {
		return nil, errors.Wrap(err, "building capability catalog")
	}
	conns := NewConnectionManager(opener, logger)

	serverCtx, serverCancel := context.WithCancel(ctx)

	return &MCPServer{
		conns:     conns,
		catalog:   catalog,
		resources: NewResourceResolver(conns, logger),
		tools:     NewToolDispatcher(conns, catalog, logger),
		session:   newLifecycle(logger),
		logger:    logger.With("component", "server"),
		in:        in,
		out:       out,
		ctx:       serverCtx,
		cancel:    serverCancel,
	}, nil
}

// Run reads requests until EOF or until the server context is cancelled.
func (s *MCPServer) Run() error {
	reader := bufio.NewReader(s.in)

	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return errors.Wrap(err, "failed to read input")
		}
		eof := err != nil

		if line = strings.TrimSpace(line); line != "" {
			if response := s.handleMessage([]byte(line)); response != nil {
				if err := s.write(response); err != nil {
					return err
				}
			}
		}
		if eof {
			return nil
		}
	}
}

func (s *MCPServer) write(response *JSONRPCResponse) error {
	responseBytes, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.out, "%s\n", responseBytes); err != nil {
		return errors.Wrap(err, "failed to write response")
	}
	return nil
}

func (s *MCPServer) handleMessage(data []byte) *JSONRPCResponse {
	var req JSONRPCRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			Error: &Error{
				Code:    ParseError,
				Message: "Parse error",
				Data:    err.Error(),
			},
		}
	}

	if req.JSONRPC != "2.0" {
		return &JSONRPCResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &Error{
				Code:    InvalidRequest,
				Message: "Invalid JSON-RPC version",
			},
		}
	}

	if req.IsNotification() {
		s.handleNotification(&req)
		return nil
	}
	return s.handleRequest(&req)
}

func (s *MCPServer) handleNotification(req *JSONRPCRequest) {
	switch req.Method {
	case "notifications/initialized", "initialized":
		if err := s.session.initialized(s.ctx); err != nil {
			s.logger.Warn("unexpected initialized notification", "state", s.session.current(), "error", err)
		}
	default:
		s.logger.Debug("ignoring notification", "method", req.Method)
	}
}

func (s *MCPServer) handleRequest(req *JSONRPCRequest) *JSONRPCResponse {
	var result any
	var rpcErr *Error

	switch req.Method {
	case "initialize":
		result, rpcErr = s.handleInitialize(req.Params)
	case "ping":
		result = map[string]any{}
	default:
		if err := s.session.requireStarted(); err != nil {
			rpcErr = rpcErrorFrom(err)
			break
		}
		result, rpcErr = s.route(req)
	}

	if rpcErr != nil {
		return &JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return &JSONRPCResponse{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *MCPServer) route(req *JSONRPCRequest) (any, *Error) {
	switch req.Method {
	case "tools/list":
		return s.handleListTools()
	case "tools/call":
		return s.handleCallTool(req.Params)
	case "resources/list":
		return s.handleListResources()
	case "resources/templates/list":
		return s.handleListResourceTemplates()
	case "resources/read":
		return s.handleReadResource(req.Params)
	case "prompts/list":
		return s.handleListPrompts()
	case "prompts/get":
		return s.handleGetPrompt(req.Params)
	}
	return nil, &Error{
		Code:    MethodNotFound,
		Message: fmt.Sprintf("Method not found: %s", req.Method),
	}
}

// Shutdown gracefully shuts down the server
func (s *MCPServer) Shutdown() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Close releases all resources
func (s *MCPServer) Close() error {
	s.Shutdown()
	return s.conns.Close()
}
