// Package shell runs operating system commands on behalf of the agent.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/asplabs/maia/internal/tools"
)

// Executor runs shell commands with a deny list, a timeout and an
// output cap.
type Executor struct {
	workingDir     string
	deniedPatterns []string
	timeout        time.Duration
	maxOutputBytes int
}

// Config configures the executor.
type Config struct {
	WorkingDir     string
	DeniedPatterns []string
	Timeout        time.Duration
	MaxOutputBytes int
}

// DefaultConfig returns safe defaults.
func DefaultConfig() Config {
	return Config{
		DeniedPatterns: []string{
			"rm -rf /",
			"rm -rf /*",
			"mkfs",
			"dd if=",
			"> /dev/sd",
			"chmod -R 777 /",
			":(){ :|:& };:",
		},
		Timeout:        30 * time.Second,
		MaxOutputBytes: 100 * 1024,
	}
}

func NewExecutor(cfg Config) *Executor {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxOutputBytes == 0 {
		cfg.MaxOutputBytes = 100 * 1024
	}
	return &Executor{
		workingDir:     cfg.WorkingDir,
		deniedPatterns: cfg.DeniedPatterns,
		timeout:        cfg.Timeout,
		maxOutputBytes: cfg.MaxOutputBytes,
	}
}

// Run executes a command through the platform shell and formats the
// result as user-facing Portuguese text.
func (e *Executor) Run(ctx context.Context, command string) string {
	lower := strings.ToLower(command)
	for _, denied := range e.deniedPatterns {
		if strings.Contains(lower, strings.ToLower(denied)) {
			return fmt.Sprintf("Erro de Execução: O comando '%s' foi bloqueado pela política de segurança.", command)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.CommandContext(ctx, "cmd", "/C", command)
	} else {
		cmd = exec.CommandContext(ctx, "sh", "-c", command)
	}
	cmd.Dir = e.workingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	output := e.truncate(stdout.String() + stderr.String())

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("Erro de Execução: O comando '%s' excedeu o tempo limite de %s.", command, e.timeout)
	}
	if err != nil {
		return fmt.Sprintf("Erro de Execução: O comando '%s' falhou. Output: %s", command, output)
	}
	if output == "" {
		return "Comando executado com sucesso, sem output."
	}
	return "Sucesso: " + output
}

func (e *Executor) truncate(s string) string {
	if len(s) <= e.maxOutputBytes {
		return s
	}
	return s[:e.maxOutputBytes] + "\n... (output truncado)"
}

// Tool exposes the executor as the execute_shell_command function.
func (e *Executor) Tool() *tools.Tool {
	return &tools.Tool{
		Name:        "execute_shell_command",
		Description: "Executa um comando de shell (cmd/bash) no sistema operacional e retorna o output.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command": map[string]any{"type": "string", "description": "O comando a executar."},
			},
			"required": []string{"command"},
		},
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			command := tools.StringArg(args, "command")
			if command == "" {
				return "", &tools.ArgumentError{ToolName: "execute_shell_command", Reason: "campo 'command' ausente"}
			}
			return e.Run(ctx, command), nil
		},
	}
}
