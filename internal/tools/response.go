// Package tools exposes the fixed catalog of gateway tools: input
// coercion, dispatch, error classification and hint generation.
package tools

import "encoding/json"

// Hint is a suggested follow-up action attached to a response.
type Hint struct {
	Message    string         `json:"message"`
	Tool       string         `json:"tool,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Response is the uniform envelope every tool returns. Data is never null:
// on error it carries a zero-valued instance of the tool's output shape and
// Metadata carries the error category.
type Response struct {
	Data     any            `json:"data"`
	Hints    []Hint         `json:"hints"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata"`
}

// Result is what a tool handler produces on success.
type Result struct {
	Data     any
	Hints    []Hint
	Metadata map[string]any
}

func newResponse(data any, hints []Hint, metadata map[string]any) *Response {
	if data == nil {
		data = map[string]any{}
	}
	if hints == nil {
		hints = []Hint{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Response{Data: data, Hints: hints, Metadata: metadata}
}

// JSON serialises the envelope.
func (r *Response) JSON() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
