package files

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func testWorkspace(t *testing.T) (*Workspace, string) {
	t.Helper()
	root := t.TempDir()
	w, err := NewWorkspace(root)
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	return w, w.Root()
}

func TestReadFile(t *testing.T) {
	w, root := testWorkspace(t)
	path := filepath.Join(root, "nota.txt")
	os.WriteFile(path, []byte("conteúdo"), 0o644)

	if got := w.Read(path); got != "conteúdo" {
		t.Errorf("read = %q", got)
	}
}

func TestReadMissing(t *testing.T) {
	w, root := testWorkspace(t)
	path := filepath.Join(root, "sumiu.txt")
	want := "Erro de Leitura: O arquivo '" + path + "' não foi encontrado."
	if got := w.Read(path); got != want {
		t.Errorf("read = %q", got)
	}
}

func TestReadTooLarge(t *testing.T) {
	w, root := testWorkspace(t)
	path := filepath.Join(root, "grande.txt")
	os.WriteFile(path, make([]byte, maxReadBytes+1), 0o644)

	if got := w.Read(path); got != "Erro de Leitura: O arquivo é muito grande (limite de 100 KB)." {
		t.Errorf("read = %q", got)
	}
}

func TestWriteInsideRoot(t *testing.T) {
	w, root := testWorkspace(t)
	path := filepath.Join(root, "saida.txt")

	got := w.Write(path, "olá")
	if got != "Sucesso: O arquivo '"+path+"' foi criado/atualizado." {
		t.Fatalf("write = %q", got)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "olá" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteOutsideRootDenied(t *testing.T) {
	w, _ := testWorkspace(t)
	outside := filepath.Join(t.TempDir(), "fora.txt")

	got := w.Write(outside, "x")
	if got != "Erro de Escrita: Operação negada. A Maia só pode escrever na pasta do projeto ou subpastas por segurança." {
		t.Errorf("write = %q", got)
	}
	if _, err := os.Stat(outside); !os.IsNotExist(err) {
		t.Error("file was created outside the workspace")
	}
}

func TestWriteTraversalDenied(t *testing.T) {
	w, root := testWorkspace(t)
	got := w.Write(filepath.Join(root, "..", "escape.txt"), "x")
	if !strings.HasPrefix(got, "Erro de Escrita:") {
		t.Errorf("write = %q", got)
	}
}

func TestWriteThroughSymlinkDenied(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test")
	}
	w, root := testWorkspace(t)
	outside := t.TempDir()

	// Symlinked directory pointing outside the root.
	link := filepath.Join(root, "atalho")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlink: %v", err)
	}
	if got := w.Write(filepath.Join(link, "escape.txt"), "x"); !strings.HasPrefix(got, "Erro de Escrita:") {
		t.Errorf("write through dir symlink = %q", got)
	}

	// Symlinked file pointing outside the root.
	target := filepath.Join(outside, "alvo.txt")
	os.WriteFile(target, []byte("original"), 0o644)
	fileLink := filepath.Join(root, "alvo.txt")
	if err := os.Symlink(target, fileLink); err != nil {
		t.Skipf("symlink: %v", err)
	}
	if got := w.Write(fileLink, "sobrescrito"); !strings.HasPrefix(got, "Erro de Escrita:") {
		t.Errorf("write through file symlink = %q", got)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "original" {
		t.Error("symlink target was overwritten")
	}
}

func TestWriteMissingParentDenied(t *testing.T) {
	w, root := testWorkspace(t)
	got := w.Write(filepath.Join(root, "nao-existe", "x.txt"), "x")
	if !strings.HasPrefix(got, "Erro de Escrita:") {
		t.Errorf("write = %q", got)
	}
}
