package notes

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asplabs/maia/internal/store"
	"github.com/asplabs/maia/internal/tools"
)

func testManager(t *testing.T) (*Manager, string) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "notes-test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	user, err := st.CreateUser("n@x.com", "N", "h")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewManager(st), user.ID
}

func TestCreateList(t *testing.T) {
	m, uid := testManager(t)

	if got := m.Execute(uid, "CREATE_LIST", "Mercado", ""); got != "Sucesso: A lista 'Mercado' foi criada." {
		t.Errorf("create = %q", got)
	}
	if got := m.Execute(uid, "create_list", "mercado", ""); got != "Erro: Já existe uma lista com o título 'mercado'." {
		t.Errorf("duplicate = %q", got)
	}
	if got := m.Execute(uid, "CREATE_LIST", "", ""); got != "Erro: Para criar uma lista, é necessário fornecer um 'title'." {
		t.Errorf("missing title = %q", got)
	}
}

func TestReadAll(t *testing.T) {
	m, uid := testManager(t)

	if got := m.Execute(uid, "READ_ALL", "", ""); got != "Resultado: Não há listas de notas salvas." {
		t.Errorf("empty = %q", got)
	}

	m.Execute(uid, "CREATE_LIST", "Mercado", "")
	m.Execute(uid, "ADD_ITEM", "Mercado", "leite, pão")

	got := m.Execute(uid, "READ_ALL", "", "")
	for _, want := range []string{
		"--- RESUMO DE LISTAS PERSISTENTES ---",
		"Título: Mercado (Itens: 2)",
		"(ID: 1) leite",
		"(ID: 2) pão",
		"--- FIM DO RESUMO ---",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestAddItems(t *testing.T) {
	m, uid := testManager(t)
	m.Execute(uid, "CREATE_LIST", "Mercado", "")

	got := m.Execute(uid, "ADD_ITEM", "mercado", " leite , pão ,, ovos ")
	if got != "Sucesso: Itens 'leite, pão, ovos' adicionados à lista 'Mercado'." {
		t.Errorf("add = %q", got)
	}

	if got := m.Execute(uid, "ADD_ITEM", "Inexistente", "x"); got != "Erro: A lista 'Inexistente' não foi encontrada." {
		t.Errorf("missing list = %q", got)
	}
	if got := m.Execute(uid, "ADD_ITEM", "Mercado", ""); got != "Erro: 'title' e 'content' são necessários." {
		t.Errorf("missing content = %q", got)
	}
}

func TestDeleteList(t *testing.T) {
	m, uid := testManager(t)
	m.Execute(uid, "CREATE_LIST", "Tarefas", "")

	if got := m.Execute(uid, "DELETE_LIST", "tarefas", ""); got != "Sucesso: A lista 'tarefas' foi removida." {
		t.Errorf("delete = %q", got)
	}
	if got := m.Execute(uid, "DELETE_LIST", "Tarefas", ""); got != "Resultado: Nenhuma lista com o título 'Tarefas' foi encontrada." {
		t.Errorf("deleted twice = %q", got)
	}
}

func TestDeleteItem(t *testing.T) {
	m, uid := testManager(t)
	m.Execute(uid, "CREATE_LIST", "Mercado", "")
	m.Execute(uid, "ADD_ITEM", "Mercado", "leite, pão")

	if got := m.Execute(uid, "DELETE_ITEM", "Mercado", "1"); got != "Sucesso: Item ID 1 foi removido da lista 'Mercado'." {
		t.Errorf("delete item = %q", got)
	}
	if got := m.Execute(uid, "DELETE_ITEM", "Mercado", "99"); got != "Erro: Item ID 99 não encontrado na lista 'Mercado'." {
		t.Errorf("missing item = %q", got)
	}
	if got := m.Execute(uid, "DELETE_ITEM", "Mercado", "abc"); got != "Erro: O ID do item (content) deve ser um número. O senhor forneceu 'abc'." {
		t.Errorf("non-numeric id = %q", got)
	}
	if got := m.Execute(uid, "DELETE_ITEM", "Sumiu", "1"); got != "Erro: A lista 'Sumiu' não foi encontrada." {
		t.Errorf("missing list = %q", got)
	}
}

func TestUnknownOperation(t *testing.T) {
	m, uid := testManager(t)
	if got := m.Execute(uid, "upsert", "", ""); got != "Erro: Operação 'UPSERT' desconhecida." {
		t.Errorf("unknown op = %q", got)
	}
}

func TestToolHandler(t *testing.T) {
	m, uid := testManager(t)
	tool := m.Tool()
	if tool.Name != "gerenciar_notas" {
		t.Fatalf("name = %q", tool.Name)
	}

	ctx := tools.WithUserID(context.Background(), uid)
	out, err := tool.Handler(ctx, map[string]any{"operacao": "CREATE_LIST", "title": "Ideias"})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if out != "Sucesso: A lista 'Ideias' foi criada." {
		t.Errorf("out = %q", out)
	}

	_, err = tool.Handler(ctx, map[string]any{"title": "sem operacao"})
	if !tools.IsArgumentError(err) {
		t.Errorf("missing operacao error = %v, want ArgumentError", err)
	}
}
