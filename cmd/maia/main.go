// Maia is a personal assistant agent.
//
// It answers through a tool-calling loop backed by Gemini: shell
// commands, web search, URL analysis, persistent note lists, an agenda
// and file access. Conversations are persisted per session and can be
// replayed. Two frontends share the same loop: an interactive console
// and a multi-user HTTP API with token auth.
//
// Usage:
//
//	maia serve      Start the HTTP API server
//	maia console    Start the interactive console
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/asplabs/maia/internal/agent"
	"github.com/asplabs/maia/internal/api"
	"github.com/asplabs/maia/internal/auth"
	"github.com/asplabs/maia/internal/builtins"
	"github.com/asplabs/maia/internal/config"
	"github.com/asplabs/maia/internal/llm"
	"github.com/asplabs/maia/internal/store"
	"github.com/asplabs/maia/internal/tools"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for database/sql
)

// main is intentionally minimal. It constructs the OS-level environment
// and delegates immediately to [run], keeping os.Exit and os.Args out
// of the application logic so the lifecycle can be driven from tests.
func main() {
	ctx := context.Background()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

// run is the real entry point for the maia command. Arguments are
// parsed by hand: the flag package relies on package-level globals,
// which interferes with calling run() concurrently from tests, and the
// argument surface is small.
func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) error {
	var configPath string
	var command string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(args[i], "-config="):
			configPath = strings.TrimPrefix(args[i], "-config=")
		case args[i] == "-h" || args[i] == "-help" || args[i] == "--help":
			return printUsage(stdout)
		case !strings.HasPrefix(args[i], "-") && command == "":
			command = args[i]
		default:
			return fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	switch command {
	case "serve":
		return runServe(ctx, stdout, configPath)
	case "console":
		return runConsole(ctx, stdin, stdout, stderr, configPath)
	case "":
		return printUsage(stdout)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) error {
	fmt.Fprintln(w, "Maia - Personal Assistant Agent")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: maia [flags] <command>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Start the HTTP API server")
	fmt.Fprintln(w, "  console    Start the interactive console")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -config <path>    Path to config file (default: auto-discover)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config search order:")
	fmt.Fprintln(w, "  ./config.yaml, ~/.config/maia/config.yaml, /etc/maia/config.yaml")
	return nil
}

// loadConfig finds and loads the YAML config, falling back to
// environment variables when no file exists.
func loadConfig(explicit string) (*config.Config, error) {
	path, err := config.FindConfig(explicit)
	if err != nil {
		if explicit != "" {
			return nil, err
		}
		cfg := config.FromEnv()
		return cfg, cfg.Validate()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildLoop assembles the shared pieces both frontends need: the
// store, the tool registry, the Gemini client and the agent loop.
func buildLoop(cfg *config.Config, logger *slog.Logger) (*agent.Loop, *store.Store, error) {
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	registry, err := builtins.Registry(cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	client := llm.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model, registry, logger)
	return agent.New(client, registry, logger), st, nil
}

// runServe starts the HTTP API and blocks until the context is
// cancelled or the listener fails.
func runServe(ctx context.Context, stdout io.Writer, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := newLogger(stdout, level)

	loop, st, err := buildLoop(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	authSvc := auth.NewService(st, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenExpiryMinutes)*time.Minute)
	if !authSvc.Enabled() {
		logger.Warn("auth.jwt_secret not set, API logins will fail")
	}

	server := api.New(api.Config{
		Address: cfg.Listen.Address,
		Port:    cfg.Listen.Port,
	}, loop, st, authSvc, logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

const consoleGreeting = "Maia: Sistemas ativados. Bom dia, senhor. Sou a Maia, sua interface de personalidade, operando em pico de eficiência. No que posso dedicar minha capacidade de processamento neste momento?"

const consoleFarewell = "Maia: Encerrando sessão. Tenha um dia produtivo, se possível."

// runConsole starts the interactive REPL. The conversation persists in
// a dedicated session of the local user, so quitting and returning
// resumes where it left off.
func runConsole(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := newLogger(stderr, level)

	loop, st, err := buildLoop(cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	user, err := st.GetOrCreateLocalUser()
	if err != nil {
		return fmt.Errorf("local user: %w", err)
	}
	displayName := user.DisplayName
	if cfg.UserName != "" {
		displayName = cfg.UserName
	}
	identity := &agent.Identity{DisplayName: displayName}

	session, err := consoleSession(st, user.ID)
	if err != nil {
		return err
	}
	history, err := st.LoadHistory(session.ID, user.ID)
	if err != nil {
		return err
	}

	ctx = tools.WithUserID(ctx, user.ID)

	fmt.Fprintln(stdout, consoleGreeting)
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(stdout, "Você: ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, consoleFarewell)
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(prompt, "sair") {
			fmt.Fprintln(stdout, consoleFarewell)
			return nil
		}

		updated, finalText := loop.RunTurn(ctx, history, prompt, identity)
		history = updated

		if err := st.SaveHistory(session.ID, user.ID, history); err != nil {
			logger.Error("failed to persist history", "error", err)
		}
		fmt.Fprintf(stdout, "Maia: %s\n\n", finalText)
	}
}

// consoleSession finds the local user's console session, creating it
// on first use.
func consoleSession(st *store.Store, userID string) (*store.Session, error) {
	const title = "Console"
	infos, err := st.ListSessions(userID)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Title == title {
			return st.GetSession(info.ID, userID)
		}
	}
	return st.CreateSession(userID, title)
}
