// Package fetch downloads a URL's HTML and extracts its readable text,
// stripping navigation, scripts and other boilerplate.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/asplabs/maia/internal/httpkit"
	"github.com/asplabs/maia/internal/tools"
)

// DefaultTimeout is the HTTP request timeout for fetching pages.
const DefaultTimeout = 10 * time.Second

// DefaultMaxBytes is the maximum response body size (5 MB).
const DefaultMaxBytes int64 = 5 * 1024 * 1024

// maxChars caps the extracted text handed back to the model.
const maxChars = 20000

// Fetcher downloads pages and extracts readable content.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

func New() *Fetcher {
	return &Fetcher{
		client:   httpkit.NewClient(httpkit.WithTimeout(DefaultTimeout)),
		maxBytes: DefaultMaxBytes,
	}
}

// Analyze fetches the URL and returns its main text, or a user-facing
// Portuguese error message.
func (f *Fetcher) Analyze(ctx context.Context, rawURL string) string {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Sprintf("Erro de Rede: Não foi possível aceder ao URL (%s). Verifique a conectividade ou o endereço. Erro: %v", rawURL, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/plain;q=0.8,*/*;q=0.7")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Erro de Rede: Não foi possível aceder ao URL (%s). Verifique a conectividade ou o endereço. Erro: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Sprintf("Erro de Rede: Não foi possível aceder ao URL (%s). Verifique a conectividade ou o endereço. Erro: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return fmt.Sprintf("Erro inesperado durante a análise da URL: %v", err)
	}

	text := extractHTML(string(body))
	if len(text) > maxChars {
		text = text[:maxChars] + "..."
	}
	if text == "" {
		return fmt.Sprintf("Erro: Não foi possível extrair o conteúdo principal da URL (%s). O URL pode estar protegido ou ser um arquivo.", rawURL)
	}
	return text
}

// Tool exposes the fetcher as the analisar_url_e_resumir function.
func (f *Fetcher) Tool() *tools.Tool {
	return &tools.Tool{
		Name:        "analisar_url_e_resumir",
		Description: "Acessa uma URL, extrai o texto principal da página e o retorna para análise e resumo.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{"type": "string", "description": "A URL a analisar."},
			},
			"required": []string{"url"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			rawURL := tools.StringArg(args, "url")
			if rawURL == "" {
				return "", &tools.ArgumentError{ToolName: "analisar_url_e_resumir", Reason: "campo 'url' ausente"}
			}
			return f.Analyze(ctx, rawURL), nil
		},
	}
}
