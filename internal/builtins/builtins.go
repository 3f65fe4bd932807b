// Package builtins assembles the assistant's tool registry from the
// configured collaborator services.
package builtins

import (
	"log/slog"
	"os"
	"time"

	"github.com/asplabs/maia/internal/calendar"
	"github.com/asplabs/maia/internal/config"
	"github.com/asplabs/maia/internal/fetch"
	"github.com/asplabs/maia/internal/files"
	"github.com/asplabs/maia/internal/notes"
	"github.com/asplabs/maia/internal/search"
	"github.com/asplabs/maia/internal/shell"
	"github.com/asplabs/maia/internal/store"
	"github.com/asplabs/maia/internal/tools"
)

// Registry wires every built-in tool against the store and config.
func Registry(cfg *config.Config, st *store.Store, logger *slog.Logger) (*tools.Registry, error) {
	reg := tools.NewRegistry()

	shellCfg := shell.DefaultConfig()
	shellCfg.WorkingDir = cfg.ShellExec.WorkingDir
	if len(cfg.ShellExec.DeniedPatterns) > 0 {
		shellCfg.DeniedPatterns = cfg.ShellExec.DeniedPatterns
	}
	if cfg.ShellExec.DefaultTimeoutSec > 0 {
		shellCfg.Timeout = time.Duration(cfg.ShellExec.DefaultTimeoutSec) * time.Second
	}
	reg.Register(shell.NewExecutor(shellCfg).Tool())

	searcher := search.NewManager("google")
	if cfg.Search.APIKey != "" && cfg.Search.EngineID != "" {
		searcher.Register(search.NewGoogle(cfg.Search.APIKey, cfg.Search.EngineID))
	} else {
		logger.Warn("web search credentials missing, pesquisar_na_internet will report it")
	}
	reg.Register(searcher.Tool())

	reg.Register(fetch.New().Tool())

	root := cfg.Workspace.Path
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = wd
	}
	workspace, err := files.NewWorkspace(root)
	if err != nil {
		return nil, err
	}
	reg.Register(workspace.ReadTool())
	reg.Register(workspace.WriteTool())

	reg.Register(notes.NewManager(st).Tool())

	scheduler := calendar.NewScheduler(st)
	reg.Register(scheduler.ScheduleTool())
	reg.Register(scheduler.CancelTool())
	reg.Register(scheduler.ListTool())

	logger.Info("tool registry assembled", "tools", reg.Names())
	return reg, nil
}
