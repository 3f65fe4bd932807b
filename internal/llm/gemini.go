package llm

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/genai"

	"github.com/asplabs/maia/internal/convo"
	"github.com/asplabs/maia/internal/tools"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-flash-latest"

// Gemini implements Client against the Google Gemini API.
// The underlying genai client is created lazily on first use so the
// binary can start (and run offline commands) without an API key.
type Gemini struct {
	apiKey string
	model  string
	decls  []*genai.FunctionDeclaration
	logger *slog.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGemini creates a Gemini provider advertising the given tool
// registry. The registry's parameter maps are converted once, here, to
// genai schemas; dispatching stays with the registry.
func NewGemini(apiKey, model string, registry *tools.Registry, logger *slog.Logger) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	var decls []*genai.FunctionDeclaration
	for _, t := range registry.Declarations() {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  schemaFromMap(t.Parameters),
		})
	}
	return &Gemini{
		apiKey: apiKey,
		model:  model,
		decls:  decls,
		logger: logger,
	}
}

func (g *Gemini) init(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		return g.client, nil
	}
	if g.apiKey == "" {
		return nil, fmt.Errorf("gemini: API key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	g.client = client
	return client, nil
}

// Generate sends the conversation to Gemini and converts the candidates
// back into the canonical turn model.
func (g *Gemini) Generate(ctx context.Context, instruction string, history []convo.Turn) (*Response, error) {
	client, err := g.init(ctx)
	if err != nil {
		return nil, err
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, contentFromTurn(turn))
	}

	config := &genai.GenerateContentConfig{}
	if instruction != "" {
		config.SystemInstruction = genai.NewContentFromText(instruction, genai.RoleUser)
	}
	if len(g.decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: g.decls}}
	}

	g.logger.Debug("calling gemini", "model", g.model, "turns", len(contents))
	result, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}

	resp := &Response{}
	for _, cand := range result.Candidates {
		if cand.Content == nil {
			continue
		}
		resp.Candidates = append(resp.Candidates, turnFromContent(cand.Content))
	}
	return resp, nil
}

// contentFromTurn converts a canonical turn to the genai wire type.
func contentFromTurn(turn convo.Turn) *genai.Content {
	parts := make([]*genai.Part, 0, len(turn.Parts))
	for _, p := range turn.Parts {
		switch {
		case p.FunctionCall != nil:
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: p.FunctionCall.Name,
					Args: p.FunctionCall.Args,
				},
			})
		case p.FunctionResponse != nil:
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     p.FunctionResponse.Name,
					Response: p.FunctionResponse.Response,
				},
			})
		default:
			parts = append(parts, &genai.Part{Text: p.Text})
		}
	}
	return &genai.Content{Role: turn.Role, Parts: parts}
}

// turnFromContent converts a genai content back to the canonical model.
// Thought parts are dropped; they are model-internal and must not enter
// the persisted transcript.
func turnFromContent(content *genai.Content) convo.Turn {
	turn := convo.Turn{Role: content.Role}
	for _, p := range content.Parts {
		switch {
		case p.Thought:
			continue
		case p.FunctionCall != nil:
			turn.Parts = append(turn.Parts, convo.Part{
				FunctionCall: &convo.FunctionCall{
					Name: p.FunctionCall.Name,
					Args: p.FunctionCall.Args,
				},
			})
		case p.FunctionResponse != nil:
			turn.Parts = append(turn.Parts, convo.Part{
				FunctionResponse: &convo.FunctionResponse{
					Name:     p.FunctionResponse.Name,
					Response: p.FunctionResponse.Response,
				},
			})
		default:
			turn.Parts = append(turn.Parts, convo.Part{Text: p.Text})
		}
	}
	return turn
}

// schemaFromMap converts a registry parameter map (JSON-schema-shaped)
// into a genai.Schema. Unknown keys are ignored.
func schemaFromMap(m map[string]any) *genai.Schema {
	if m == nil {
		return nil
	}
	s := &genai.Schema{}

	if t, ok := m["type"].(string); ok {
		switch t {
		case "object":
			s.Type = genai.TypeObject
		case "string":
			s.Type = genai.TypeString
		case "integer":
			s.Type = genai.TypeInteger
		case "number":
			s.Type = genai.TypeNumber
		case "boolean":
			s.Type = genai.TypeBoolean
		case "array":
			s.Type = genai.TypeArray
		}
	}
	if d, ok := m["description"].(string); ok {
		s.Description = d
	}
	if props, ok := m["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			if pm, ok := raw.(map[string]any); ok {
				s.Properties[name] = schemaFromMap(pm)
			}
		}
	}
	if req, ok := m["required"].([]string); ok {
		s.Required = req
	} else if reqAny, ok := m["required"].([]any); ok {
		for _, r := range reqAny {
			if rs, ok := r.(string); ok {
				s.Required = append(s.Required, rs)
			}
		}
	}
	if enum, ok := m["enum"].([]string); ok {
		s.Enum = enum
	}
	if items, ok := m["items"].(map[string]any); ok {
		s.Items = schemaFromMap(items)
	}
	return s
}
