package builtins

import (
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/asplabs/maia/internal/config"
	"github.com/asplabs/maia/internal/store"
)

func TestRegistryHasAllTools(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "maia.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	cfg := config.Default()
	cfg.Workspace.Path = dir
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg, err := Registry(cfg, st, logger)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	want := []string{
		"agendar_evento",
		"analisar_url_e_resumir",
		"escrever_arquivo",
		"excluir_evento",
		"execute_shell_command",
		"gerenciar_notas",
		"ler_arquivo",
		"listar_eventos",
		"pesquisar_na_internet",
	}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("tools = %v, want %v", got, want)
	}

	// Every registered tool must carry a declaration the model can call.
	for _, decl := range reg.Declarations() {
		if decl.Description == "" || decl.Parameters == nil {
			t.Errorf("tool %s has incomplete declaration", decl.Name)
		}
	}
}
