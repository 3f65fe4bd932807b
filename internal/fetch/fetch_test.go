package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAnalyzeExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><title>Página</title><script>var x = 1;</script></head>
			<body><nav>menu</nav><article><p>Primeiro parágrafo.</p><p>Segundo parágrafo.</p></article>
			<footer>rodapé</footer></body></html>`))
	}))
	defer srv.Close()

	f := New()
	got := f.Analyze(context.Background(), srv.URL)
	if !strings.Contains(got, "Primeiro parágrafo.") || !strings.Contains(got, "Segundo parágrafo.") {
		t.Errorf("missing article text: %q", got)
	}
	for _, boilerplate := range []string{"var x", "menu", "rodapé"} {
		if strings.Contains(got, boilerplate) {
			t.Errorf("boilerplate %q leaked into %q", boilerplate, got)
		}
	}
}

func TestAnalyzeTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>" + strings.Repeat("palavra ", 10000) + "</p></body></html>"))
	}))
	defer srv.Close()

	f := New()
	got := f.Analyze(context.Background(), srv.URL)
	if len(got) != maxChars+len("...") {
		t.Errorf("len = %d, want %d", len(got), maxChars+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated output should end with ellipsis")
	}
}

func TestAnalyzeEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><head><script>nada()</script></head><body></body></html>"))
	}))
	defer srv.Close()

	f := New()
	got := f.Analyze(context.Background(), srv.URL)
	if !strings.HasPrefix(got, "Erro: Não foi possível extrair o conteúdo principal da URL") {
		t.Errorf("empty page = %q", got)
	}
}

func TestAnalyzeHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	f := New()
	got := f.Analyze(context.Background(), srv.URL)
	if !strings.HasPrefix(got, "Erro de Rede:") || !strings.Contains(got, "status 403") {
		t.Errorf("403 = %q", got)
	}
}

func TestAnalyzeUnreachable(t *testing.T) {
	f := New()
	got := f.Analyze(context.Background(), "http://127.0.0.1:1/nada")
	if !strings.HasPrefix(got, "Erro de Rede:") {
		t.Errorf("unreachable = %q", got)
	}
}

func TestCleanWhitespace(t *testing.T) {
	got := cleanWhitespace("  um \n\n dois\ttrês  ")
	if got != "um dois três" {
		t.Errorf("cleanWhitespace = %q", got)
	}
}
