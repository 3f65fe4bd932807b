// Package convo defines the canonical conversation transcript model.
//
// A transcript is an ordered slice of turns. Each turn belongs to the
// "user" or "model" role and carries one or more parts; a part is
// exactly one of plain text, a function call requested by the model,
// or a function result fed back to it. The JSON encoding is the wire
// format the web frontend reads and the store persists, so it must
// stay stable.
package convo

import (
	"encoding/json"
	"fmt"
)

// Transcript roles. Tool results are authored under the model role,
// matching the wire format the provider replays.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// FunctionCall is the model asking for a tool invocation.
type FunctionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// FunctionResponse carries a tool result back to the model. The
// response map holds the textual result under the "output" key.
type FunctionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

// Output returns the textual result, or "" when absent.
func (fr *FunctionResponse) Output() string {
	if fr == nil {
		return ""
	}
	s, _ := fr.Response["output"].(string)
	return s
}

// Part is one element of a turn. Exactly one of the three variants is
// set; the custom JSON encoding enforces that on both directions.
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// IsText reports whether the part is a plain text part.
func (p Part) IsText() bool {
	return p.FunctionCall == nil && p.FunctionResponse == nil
}

// partJSON is the wire shape of a part. Pointers keep absent variants
// out of the encoded object entirely.
type partJSON struct {
	Text             *string           `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"function_call,omitempty"`
	FunctionResponse *FunctionResponse `json:"function_response,omitempty"`
}

// MarshalJSON encodes the part with exactly one key set.
func (p Part) MarshalJSON() ([]byte, error) {
	var pj partJSON
	switch {
	case p.FunctionCall != nil:
		pj.FunctionCall = p.FunctionCall
	case p.FunctionResponse != nil:
		pj.FunctionResponse = p.FunctionResponse
	default:
		pj.Text = &p.Text
	}
	return json.Marshal(pj)
}

// UnmarshalJSON decodes a part, rejecting objects that carry more than
// one variant. A malformed part would corrupt the replayed transcript
// silently otherwise.
func (p *Part) UnmarshalJSON(data []byte) error {
	var pj partJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return err
	}

	set := 0
	if pj.Text != nil {
		set++
	}
	if pj.FunctionCall != nil {
		set++
	}
	if pj.FunctionResponse != nil {
		set++
	}
	if set > 1 {
		return fmt.Errorf("convo: part has %d variants, want exactly one", set)
	}

	*p = Part{}
	switch {
	case pj.FunctionCall != nil:
		p.FunctionCall = pj.FunctionCall
	case pj.FunctionResponse != nil:
		p.FunctionResponse = pj.FunctionResponse
	case pj.Text != nil:
		p.Text = *pj.Text
	}
	return nil
}

// Turn is one entry of a transcript.
type Turn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// NewUserText builds a user turn with a single text part.
func NewUserText(text string) Turn {
	return Turn{Role: RoleUser, Parts: []Part{{Text: text}}}
}

// NewModelText builds a model turn with a single text part.
func NewModelText(text string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{{Text: text}}}
}

// NewFunctionResponse builds the model-role turn that feeds a tool
// result back into the conversation.
func NewFunctionResponse(name, output string) Turn {
	return Turn{Role: RoleModel, Parts: []Part{{
		FunctionResponse: &FunctionResponse{
			Name:     name,
			Response: map[string]any{"output": output},
		},
	}}}
}

// MarshalHistory encodes a transcript for storage. A nil history
// encodes as an empty array so replay always sees a valid list.
func MarshalHistory(history []Turn) ([]byte, error) {
	if history == nil {
		history = []Turn{}
	}
	return json.Marshal(history)
}

// UnmarshalHistory decodes a stored transcript.
func UnmarshalHistory(data []byte) ([]Turn, error) {
	var history []Turn
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("convo: decode history: %w", err)
	}
	return history, nil
}
