// Package files gives the agent read and write access to text files,
// with writes confined to the workspace root.
package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/asplabs/maia/internal/tools"
)

const maxReadBytes = 100 * 1024

// Workspace mediates the agent's file access. Reads are allowed
// anywhere; writes must land inside the workspace root, resolved
// through symlinks so a link pointing outside cannot escape it.
type Workspace struct {
	root string
}

func NewWorkspace(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace root: %w", err)
	}
	return &Workspace{root: resolved}, nil
}

// Root returns the canonical workspace root.
func (w *Workspace) Root() string {
	return w.root
}

// Read returns the file's contents, or a Portuguese error message.
func (w *Workspace) Read(path string) string {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Sprintf("Erro de Leitura: O arquivo '%s' não foi encontrado.", path)
	}
	if err != nil {
		return fmt.Sprintf("Erro inesperado ao tentar ler o arquivo: %v", err)
	}
	if info.Size() > maxReadBytes {
		return "Erro de Leitura: O arquivo é muito grande (limite de 100 KB)."
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Erro inesperado ao tentar ler o arquivo: %v", err)
	}
	return string(data)
}

// Write creates or overwrites a file inside the workspace root.
func (w *Workspace) Write(path, content string) string {
	ok, err := w.contains(path)
	if err != nil {
		return fmt.Sprintf("Erro inesperado ao tentar escrever o arquivo: %v", err)
	}
	if !ok {
		return "Erro de Escrita: Operação negada. A Maia só pode escrever na pasta do projeto ou subpastas por segurança."
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Sprintf("Erro inesperado ao tentar escrever o arquivo: %v", err)
	}
	return fmt.Sprintf("Sucesso: O arquivo '%s' foi criado/atualizado.", path)
}

// contains reports whether path resolves to a location under the
// workspace root. The parent directory is canonicalized rather than
// the file itself, since the file may not exist yet; an existing
// target that is itself a symlink is also resolved.
func (w *Workspace) contains(path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}

	dir, base := filepath.Split(abs)
	resolvedDir, err := filepath.EvalSymlinks(filepath.Clean(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	target := filepath.Join(resolvedDir, base)

	if resolvedTarget, err := filepath.EvalSymlinks(target); err == nil {
		target = resolvedTarget
	} else if !os.IsNotExist(err) {
		return false, err
	}

	rel, err := filepath.Rel(w.root, target)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

// ReadTool exposes Read as the ler_arquivo function.
func (w *Workspace) ReadTool() *tools.Tool {
	return &tools.Tool{
		Name:        "ler_arquivo",
		Description: "Lê o conteúdo de um arquivo de texto no caminho especificado (limite de 100 KB).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"caminho_arquivo": map[string]any{"type": "string", "description": "O caminho do arquivo a ler."},
			},
			"required": []string{"caminho_arquivo"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			path := tools.StringArg(args, "caminho_arquivo")
			if path == "" {
				return "", &tools.ArgumentError{ToolName: "ler_arquivo", Reason: "campo 'caminho_arquivo' ausente"}
			}
			return w.Read(path), nil
		},
	}
}

// WriteTool exposes Write as the escrever_arquivo function.
func (w *Workspace) WriteTool() *tools.Tool {
	return &tools.Tool{
		Name:        "escrever_arquivo",
		Description: "Cria ou sobrescreve um arquivo de texto com o conteúdo fornecido. Restrito à pasta do projeto.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"caminho_arquivo": map[string]any{"type": "string", "description": "O caminho do arquivo a escrever."},
				"conteudo":        map[string]any{"type": "string", "description": "O conteúdo a gravar."},
			},
			"required": []string{"caminho_arquivo", "conteudo"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			path := tools.StringArg(args, "caminho_arquivo")
			if path == "" {
				return "", &tools.ArgumentError{ToolName: "escrever_arquivo", Reason: "campo 'caminho_arquivo' ausente"}
			}
			content := tools.StringArg(args, "conteudo")
			return w.Write(path, content), nil
		},
	}
}
