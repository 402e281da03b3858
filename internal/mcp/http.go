package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sejmlex/internal/logging"
)

// HTTPServer serves MCP over plain HTTP POST alongside health and metrics
// endpoints. Each POST body is one JSON-RPC request.
type HTTPServer struct {
	handler *Handler
	logger  logging.Logger
	server  *http.Server
}

// NewHTTPServer creates the HTTP transport listening on addr.
func NewHTTPServer(handler *Handler, addr string, logger logging.Logger) *HTTPServer {
	s := &HTTPServer{
		handler: handler,
		logger:  logging.OrNop(logger),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"server":  handler.info.Name,
			"version": handler.info.Version,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/mcp", s.handleRPC)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *HTTPServer) handleRPC(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 16*1024*1024))
	if err != nil {
		c.JSON(http.StatusOK, NewErrorResponse(nil, ParseError, "failed to read request body", err.Error()))
		return
	}

	req, err := UnmarshalRequest(body)
	if err != nil {
		var rpcErr *RPCError
		if !errors.As(err, &rpcErr) {
			rpcErr = &RPCError{Code: ParseError, Message: err.Error()}
		}
		c.JSON(http.StatusOK, NewErrorResponse(nil, rpcErr.Code, rpcErr.Message, rpcErr.Data))
		return
	}

	response := s.handler.Handle(c.Request.Context(), req)
	if response == nil {
		c.Status(http.StatusAccepted)
		return
	}
	c.JSON(http.StatusOK, response)
}

// Router exposes the underlying handler, mainly for tests.
func (s *HTTPServer) Router() http.Handler {
	return s.server.Handler
}

// ListenAndServe blocks until the server stops.
func (s *HTTPServer) ListenAndServe() error {
	s.logger.Info("HTTP transport listening on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http transport: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
