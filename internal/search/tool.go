package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/asplabs/maia/internal/tools"
)

// maxOutputChars caps the formatted result text handed to the model.
const maxOutputChars = 3000

// FormatResults renders search results as the "Título/Snippet" blocks
// the assistant's prompt teaches the model to read.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "Nenhum resultado encontrado para a pesquisa."
	}
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		title := r.Title
		if host := hostOf(r.URL); host != "" {
			title += " (Fonte: " + host + ")"
		}
		blocks = append(blocks, fmt.Sprintf("Título: %s\nSnippet: %s\n---", title, r.Snippet))
	}
	out := strings.Join(blocks, "\n")
	if len(out) > maxOutputChars {
		out = out[:maxOutputChars] + "..."
	}
	return out
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Tool exposes the manager as the pesquisar_na_internet function.
func (m *Manager) Tool() *tools.Tool {
	return &tools.Tool{
		Name:        "pesquisar_na_internet",
		Description: "Pesquisa na web por informações atuais e retorna títulos e trechos dos melhores resultados.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{"type": "string", "description": "Os termos da pesquisa."},
			},
			"required": []string{"query"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			query := tools.StringArg(args, "query")
			if query == "" {
				return "", &tools.ArgumentError{ToolName: "pesquisar_na_internet", Reason: "campo 'query' ausente"}
			}
			if !m.Configured() {
				return "Erro: As credenciais do Google Search (API Key ou CX ID) não estão configuradas.", nil
			}
			results, err := m.Search(ctx, query, Options{Count: 3})
			if err != nil {
				return fmt.Sprintf("Erro ao tentar pesquisar na internet: %v", err), nil
			}
			return FormatResults(results), nil
		},
	}
}
