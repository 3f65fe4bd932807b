package llm

import (
	"testing"

	"google.golang.org/genai"

	"github.com/asplabs/maia/internal/convo"
)

func TestSchemaFromMap(t *testing.T) {
	s := schemaFromMap(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operacao": map[string]any{
				"type":        "string",
				"description": "Operação CRUD.",
				"enum":        []string{"CREATE_LIST", "READ_ALL"},
			},
			"max_results": map[string]any{"type": "integer"},
		},
		"required": []string{"operacao"},
	})

	if s.Type != genai.TypeObject {
		t.Errorf("type = %v, want object", s.Type)
	}
	op := s.Properties["operacao"]
	if op == nil || op.Type != genai.TypeString {
		t.Fatalf("operacao schema = %+v", op)
	}
	if len(op.Enum) != 2 {
		t.Errorf("enum = %v", op.Enum)
	}
	if s.Properties["max_results"].Type != genai.TypeInteger {
		t.Errorf("max_results type = %v", s.Properties["max_results"].Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "operacao" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestSchemaFromMapNil(t *testing.T) {
	if schemaFromMap(nil) != nil {
		t.Error("nil map should produce nil schema")
	}
}

func TestTurnConversionRoundTrip(t *testing.T) {
	turns := []convo.Turn{
		convo.NewUserText("liste meus eventos"),
		{Role: convo.RoleModel, Parts: []convo.Part{{FunctionCall: &convo.FunctionCall{
			Name: "listar_eventos",
			Args: map[string]any{"max_results": float64(5)},
		}}}},
		convo.NewFunctionResponse("listar_eventos", "Nenhum evento futuro encontrado na sua agenda."),
	}

	for i, turn := range turns {
		got := turnFromContent(contentFromTurn(turn))
		if got.Role != turn.Role {
			t.Errorf("turn %d: role = %q, want %q", i, got.Role, turn.Role)
		}
		if len(got.Parts) != len(turn.Parts) {
			t.Fatalf("turn %d: parts = %d, want %d", i, len(got.Parts), len(turn.Parts))
		}
	}

	fc := turnFromContent(contentFromTurn(turns[1])).Parts[0].FunctionCall
	if fc == nil || fc.Name != "listar_eventos" {
		t.Fatalf("function call lost: %+v", fc)
	}
	fr := turnFromContent(contentFromTurn(turns[2])).Parts[0].FunctionResponse
	if fr == nil || fr.Output() != "Nenhum evento futuro encontrado na sua agenda." {
		t.Fatalf("function response lost: %+v", fr)
	}
}

func TestTurnFromContentDropsThoughts(t *testing.T) {
	content := &genai.Content{
		Role: convo.RoleModel,
		Parts: []*genai.Part{
			{Text: "raciocínio interno", Thought: true},
			{Text: "resposta final"},
		},
	}
	turn := turnFromContent(content)
	if len(turn.Parts) != 1 || turn.Parts[0].Text != "resposta final" {
		t.Errorf("thought part leaked into transcript: %+v", turn.Parts)
	}
}

func TestResponseEmpty(t *testing.T) {
	var nilResp *Response
	if !nilResp.Empty() {
		t.Error("nil response should be empty")
	}
	if !(&Response{}).Empty() {
		t.Error("zero-candidate response should be empty")
	}
	if !(&Response{Candidates: []convo.Turn{{Role: convo.RoleModel}}}).Empty() {
		t.Error("candidate without parts should be empty")
	}
	if (&Response{Candidates: []convo.Turn{convo.NewModelText("oi")}}).Empty() {
		t.Error("text candidate should not be empty")
	}
}
