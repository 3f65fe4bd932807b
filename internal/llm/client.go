// Package llm provides LLM client implementations.
package llm

import (
	"context"

	"github.com/asplabs/maia/internal/convo"
)

// Client is the interface the agent loop talks to. A provider is
// constructed with the tool declarations it will advertise; the system
// instruction is passed per call because it may be parameterized with
// the caller's display name.
type Client interface {
	// Generate sends the full conversation history and returns the
	// model's candidate responses.
	Generate(ctx context.Context, instruction string, history []convo.Turn) (*Response, error)
}

// Response holds the candidate turns returned by a provider.
type Response struct {
	Candidates []convo.Turn
}

// Empty reports whether the response carries no usable candidate. The
// agent loop treats an empty response as a terminal communication
// failure, not an error to retry.
func (r *Response) Empty() bool {
	return r == nil || len(r.Candidates) == 0 || len(r.Candidates[0].Parts) == 0
}
