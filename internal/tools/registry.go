package tools

import (
	"context"
	"fmt"
	"runtime/debug"

	"sejmlex/internal/logging"
	"sejmlex/internal/metrics"
)

// Handler executes one tool call.
type Handler func(ctx context.Context, args map[string]any) (*Result, error)

// Tool is one catalog entry.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler

	// zeroData builds the data placeholder for error responses. Nil means
	// an empty object.
	zeroData func() any
}

// Registry holds the tool catalog in registration order.
type Registry struct {
	tools  []*Tool
	byName map[string]*Tool
	logger logging.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger logging.Logger) *Registry {
	return &Registry{
		byName: make(map[string]*Tool),
		logger: logging.OrNop(logger),
	}
}

// Register adds a tool. Duplicate names are a programming error.
func (r *Registry) Register(tool *Tool) {
	if _, exists := r.byName[tool.Name]; exists {
		panic(fmt.Sprintf("duplicate tool: %s", tool.Name))
	}
	r.tools = append(r.tools, tool)
	r.byName[tool.Name] = tool
}

// List returns the catalog in registration order.
func (r *Registry) List() []*Tool {
	return r.tools
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Call dispatches one tool call. It never lets an error or panic escape:
// every failure is classified and shaped into the response envelope.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) *Response {
	tool, ok := r.byName[name]
	if !ok {
		metrics.ToolCalls.WithLabelValues(name, CategoryValidation).Inc()
		return r.errorResponse(nil, CategoryValidation, fmt.Errorf("unknown tool: %s", name))
	}

	var result *Result
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("panic in %s: %v", name, p)
				r.logger.Error("panic in tool %s: %v\n%s", name, p, debug.Stack())
			}
		}()
		result, err = tool.Handler(ctx, args)
		return err
	}()

	if err != nil {
		category := Classify(err)
		metrics.ToolCalls.WithLabelValues(name, category).Inc()
		return r.errorResponse(tool, category, err)
	}

	metrics.ToolCalls.WithLabelValues(name, "ok").Inc()
	return newResponse(result.Data, result.Hints, result.Metadata)
}

func (r *Registry) errorResponse(tool *Tool, category string, err error) *Response {
	if category == CategoryInternal {
		r.logger.Error("tool failure: %v\n%s", err, debug.Stack())
	} else {
		name := "?"
		if tool != nil {
			name = tool.Name
		}
		r.logger.Warn("tool %s failed (%s): %v", name, category, err)
	}

	var data any
	if tool != nil && tool.zeroData != nil {
		data = tool.zeroData()
	}
	response := newResponse(data, nil, map[string]any{"error_category": category})
	response.Error = userMessage(category, err)
	return response
}
