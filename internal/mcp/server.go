package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"sejmlex/internal/logging"
	"sejmlex/internal/tools"
)

// ServerInfo identifies the server in the initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Handler dispatches MCP methods against the tool catalog. It is shared by
// the stdio and HTTP transports.
type Handler struct {
	registry *tools.Registry
	info     ServerInfo
	logger   logging.Logger
}

// NewHandler creates a method dispatcher for the given catalog.
func NewHandler(registry *tools.Registry, info ServerInfo, logger logging.Logger) *Handler {
	return &Handler{
		registry: registry,
		info:     info,
		logger:   logging.OrNop(logger),
	}
}

// Handle processes one request. Notifications return nil: they get no
// response by definition.
func (h *Handler) Handle(ctx context.Context, req *Request) *Response {
	if req.IsNotification() {
		h.logger.Debug("notification: %s", req.Method)
		return nil
	}

	switch req.Method {
	case "initialize":
		return NewResponse(req.ID, map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": h.info,
		})

	case "ping":
		return NewResponse(req.ID, map[string]any{})

	case "tools/list":
		catalog := h.registry.List()
		list := make([]map[string]any, 0, len(catalog))
		for _, tool := range catalog {
			list = append(list, map[string]any{
				"name":        tool.Name,
				"description": tool.Description,
				"inputSchema": tool.InputSchema,
			})
		}
		return NewResponse(req.ID, map[string]any{"tools": list})

	case "tools/call":
		return h.callTool(ctx, req)

	default:
		return NewErrorResponse(req.ID, MethodNotFound, fmt.Sprintf("method not found: %s", req.Method), nil)
	}
}

// callTool runs one tool and wraps its envelope as MCP text content. Tool
// failures stay inside the envelope with isError set; only a malformed
// request is a protocol-level error.
func (h *Handler) callTool(ctx context.Context, req *Request) *Response {
	name, ok := req.Params["name"].(string)
	if !ok || name == "" {
		return NewErrorResponse(req.ID, InvalidParams, "tool name is required", nil)
	}
	args, _ := req.Params["arguments"].(map[string]any)

	envelope := h.registry.Call(ctx, name, args)
	payload, err := envelope.JSON()
	if err != nil {
		return NewErrorResponse(req.ID, InternalError, "failed to encode tool response", err.Error())
	}

	return NewResponse(req.ID, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": payload},
		},
		"isError": envelope.Error != "",
	})
}

// StdioServer serves MCP over newline-delimited JSON on a reader/writer
// pair, normally stdin and stdout. Log output must go to stderr so it never
// corrupts the protocol stream.
type StdioServer struct {
	handler *Handler
	in      io.Reader
	out     io.Writer
	logger  logging.Logger

	writeMu sync.Mutex
}

// NewStdioServer creates a stdio transport around the handler.
func NewStdioServer(handler *Handler, in io.Reader, out io.Writer, logger logging.Logger) *StdioServer {
	return &StdioServer{
		handler: handler,
		in:      in,
		out:     out,
		logger:  logging.OrNop(logger),
	}
}

// Run reads requests line by line until EOF or context cancellation.
func (s *StdioServer) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		req, err := UnmarshalRequest(line)
		if err != nil {
			rpcErr, ok := err.(*RPCError)
			if !ok {
				rpcErr = &RPCError{Code: ParseError, Message: err.Error()}
			}
			s.write(NewErrorResponse(nil, rpcErr.Code, rpcErr.Message, rpcErr.Data))
			continue
		}

		if response := s.handler.Handle(ctx, req); response != nil {
			s.write(response)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

func (s *StdioServer) write(response *Response) {
	data, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to encode response: %v", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		s.logger.Error("failed to write response: %v", err)
	}
}
