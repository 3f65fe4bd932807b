package convo

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPartMarshalExactlyOneKey(t *testing.T) {
	tests := []struct {
		name string
		part Part
		want string
	}{
		{"text", Part{Text: "olá"}, `{"text":"olá"}`},
		{"empty text", Part{}, `{"text":""}`},
		{
			"function call",
			Part{FunctionCall: &FunctionCall{Name: "listar_eventos", Args: map[string]any{"max_results": 5.0}}},
			`{"function_call":{"name":"listar_eventos","args":{"max_results":5}}}`,
		},
		{
			"function response",
			Part{FunctionResponse: &FunctionResponse{Name: "f", Response: map[string]any{"output": "ok"}}},
			`{"function_response":{"name":"f","response":{"output":"ok"}}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.part)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshal = %s, want %s", data, tt.want)
			}
			var obj map[string]json.RawMessage
			json.Unmarshal(data, &obj)
			if len(obj) != 1 {
				t.Errorf("encoded part has %d keys, want 1", len(obj))
			}
		})
	}
}

func TestPartUnmarshalVariants(t *testing.T) {
	var p Part
	if err := json.Unmarshal([]byte(`{"text":"oi"}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.IsText() || p.Text != "oi" {
		t.Errorf("part = %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"function_call":{"name":"f","args":{"x":1}}}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.FunctionCall == nil || p.FunctionCall.Name != "f" || p.FunctionCall.Args["x"] != 1.0 {
		t.Errorf("part = %+v", p)
	}

	if err := json.Unmarshal([]byte(`{"function_response":{"name":"f","response":{"output":"ok"}}}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.FunctionResponse.Output() != "ok" {
		t.Errorf("output = %q", p.FunctionResponse.Output())
	}
}

func TestPartUnmarshalRejectsTwoVariants(t *testing.T) {
	var p Part
	err := json.Unmarshal([]byte(`{"text":"oi","function_call":{"name":"f"}}`), &p)
	if err == nil || !strings.Contains(err.Error(), "exactly one") {
		t.Errorf("error = %v, want variant rejection", err)
	}
}

func TestFunctionResponseOutput(t *testing.T) {
	var nilFR *FunctionResponse
	if nilFR.Output() != "" {
		t.Error("nil response output should be empty")
	}
	fr := &FunctionResponse{Response: map[string]any{"output": 42}}
	if fr.Output() != "" {
		t.Error("non-string output should be empty")
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	history := []Turn{
		NewUserText("crie a lista Mercado"),
		{Role: RoleModel, Parts: []Part{{FunctionCall: &FunctionCall{
			Name: "gerenciar_notas",
			Args: map[string]any{"operacao": "CREATE_LIST", "title": "Mercado"},
		}}}},
		NewFunctionResponse("gerenciar_notas", "Sucesso: A lista 'Mercado' foi criada."),
		NewModelText("Lista criada, senhor."),
	}

	data, err := MarshalHistory(history)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := UnmarshalHistory(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("turns = %d, want 4", len(got))
	}
	if got[1].Parts[0].FunctionCall.Args["title"] != "Mercado" {
		t.Errorf("call args = %+v", got[1].Parts[0].FunctionCall.Args)
	}
	if got[2].Role != RoleModel || got[2].Parts[0].FunctionResponse.Output() != "Sucesso: A lista 'Mercado' foi criada." {
		t.Errorf("response turn = %+v", got[2])
	}
	if got[3].Parts[0].Text != "Lista criada, senhor." {
		t.Errorf("text turn = %+v", got[3])
	}
}

func TestMarshalHistoryNil(t *testing.T) {
	data, err := MarshalHistory(nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("nil history = %s, want []", data)
	}
}
