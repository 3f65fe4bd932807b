// Package notes implements persistent note lists managed through a
// single multi-operation tool.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/asplabs/maia/internal/store"
	"github.com/asplabs/maia/internal/tools"
)

// Manager executes note list operations for a user.
type Manager struct {
	store *store.Store
}

func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Execute dispatches a note operation. The operation name is
// case-insensitive; title and content are optional depending on the
// operation. All return values are user-facing Portuguese text.
func (m *Manager) Execute(userID, operation, title, content string) string {
	switch strings.ToUpper(operation) {
	case "CREATE_LIST":
		return m.createList(userID, title)
	case "READ_ALL":
		return m.readAll(userID)
	case "ADD_ITEM":
		return m.addItems(userID, title, content)
	case "DELETE_LIST":
		return m.deleteList(userID, title)
	case "DELETE_ITEM":
		return m.deleteItem(userID, title, content)
	}
	return fmt.Sprintf("Erro: Operação '%s' desconhecida.", strings.ToUpper(operation))
}

func (m *Manager) createList(userID, title string) string {
	if title == "" {
		return "Erro: Para criar uma lista, é necessário fornecer um 'title'."
	}
	_, err := m.store.CreateNoteList(userID, title)
	if errors.Is(err, store.ErrExists) {
		return fmt.Sprintf("Erro: Já existe uma lista com o título '%s'.", title)
	}
	if err != nil {
		return "Erro: Falha ao salvar os dados."
	}
	return fmt.Sprintf("Sucesso: A lista '%s' foi criada.", title)
}

func (m *Manager) readAll(userID string) string {
	lists, err := m.store.NoteLists(userID)
	if err != nil {
		return "Erro: Falha ao salvar os dados."
	}
	if len(lists) == 0 {
		return "Resultado: Não há listas de notas salvas."
	}
	var b strings.Builder
	b.WriteString("--- RESUMO DE LISTAS PERSISTENTES ---")
	for _, lst := range lists {
		fmt.Fprintf(&b, "\n\nTítulo: %s (Itens: %d)", lst.Title, len(lst.Items))
		for _, item := range lst.Items {
			fmt.Fprintf(&b, "\n  - (ID: %d) %s", item.ItemID, item.Text)
		}
	}
	b.WriteString("\n\n--- FIM DO RESUMO ---")
	return b.String()
}

func (m *Manager) addItems(userID, title, content string) string {
	if title == "" || content == "" {
		return "Erro: 'title' e 'content' são necessários."
	}
	var texts []string
	for _, part := range strings.Split(content, ",") {
		if t := strings.TrimSpace(part); t != "" {
			texts = append(texts, t)
		}
	}
	list, err := m.store.AddNoteItems(userID, title, texts)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("Erro: A lista '%s' não foi encontrada.", title)
	}
	if err != nil {
		return "Erro: Falha ao salvar os dados."
	}
	return fmt.Sprintf("Sucesso: Itens '%s' adicionados à lista '%s'.", strings.Join(texts, ", "), list.Title)
}

func (m *Manager) deleteList(userID, title string) string {
	if title == "" {
		return "Erro: Para excluir uma lista, é necessário fornecer o 'title'."
	}
	err := m.store.DeleteNoteList(userID, title)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("Resultado: Nenhuma lista com o título '%s' foi encontrada.", title)
	}
	if err != nil {
		return "Erro: Falha ao salvar os dados."
	}
	return fmt.Sprintf("Sucesso: A lista '%s' foi removida.", title)
}

func (m *Manager) deleteItem(userID, title, content string) string {
	if title == "" || content == "" {
		return "Erro: 'title' e 'content' (ID do item) são necessários."
	}
	itemID, err := strconv.Atoi(strings.TrimSpace(content))
	if err != nil {
		return fmt.Sprintf("Erro: O ID do item (content) deve ser um número. O senhor forneceu '%s'.", content)
	}
	switch err := m.store.DeleteNoteItem(userID, title, itemID); {
	case errors.Is(err, store.ErrNotFound):
		if _, ferr := m.store.FindNoteList(userID, title); errors.Is(ferr, store.ErrNotFound) {
			return fmt.Sprintf("Erro: A lista '%s' não foi encontrada.", title)
		}
		return fmt.Sprintf("Erro: Item ID %d não encontrado na lista '%s'.", itemID, title)
	case err != nil:
		return "Erro: Falha ao salvar os dados."
	}
	return fmt.Sprintf("Sucesso: Item ID %d foi removido da lista '%s'.", itemID, title)
}

// Tool exposes the manager as the gerenciar_notas function.
func (m *Manager) Tool() *tools.Tool {
	return &tools.Tool{
		Name: "gerenciar_notas",
		Description: "Gerencia listas de notas persistentes (CRUD). Use para criar listas, " +
			"ler todas as listas, adicionar itens, excluir listas ou excluir itens.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"operacao": map[string]any{
					"type":        "string",
					"description": "A operação a executar.",
					"enum":        []string{"CREATE_LIST", "READ_ALL", "ADD_ITEM", "DELETE_LIST", "DELETE_ITEM"},
				},
				"title": map[string]any{
					"type":        "string",
					"description": "O título da lista alvo. Obrigatório exceto para READ_ALL.",
				},
				"content": map[string]any{
					"type": "string",
					"description": "Para ADD_ITEM: os itens, separados por vírgula. " +
						"Para DELETE_ITEM: o ID numérico do item.",
				},
			},
			"required": []string{"operacao"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			op := tools.StringArg(args, "operacao")
			if op == "" {
				return "", &tools.ArgumentError{ToolName: "gerenciar_notas", Reason: "campo 'operacao' ausente"}
			}
			title := tools.StringArg(args, "title")
			content := tools.StringArg(args, "content")
			return m.Execute(tools.UserIDFromContext(ctx), op, title, content), nil
		},
	}
}
