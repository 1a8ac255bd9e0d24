// cmd/game-web/main.go
//
// Vallheru game-web entry point.
//
// Start-up sequence
// -----------------
//
//  1. Parse flags (go-flags) and load an optional .env for VAULT_*.
//
//  2. Start logging: console only for the default command, plus the daily
//     rotating file for `serve` (falls back to console when the log dir
//     is unusable).
//
//  3. Load the TOML configuration and print it to stdout.  A load
//     failure prints the error chain to stderr and exits 1.
//
//  4. `serve` only:
//
//     • Vault client            – when VAULT_ADDR is set
//     • database pool           – unless --no-db
//     • template engine + router
//     • HTTP server             – until SIGINT / SIGTERM
//
// Stdout carries only the configuration render; everything else goes to
// stderr or the log file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vallheru/game-web/internal/config"
	"github.com/vallheru/game-web/internal/database"
	"github.com/vallheru/game-web/internal/logger"
	"github.com/vallheru/game-web/internal/metrics"
	"github.com/vallheru/game-web/internal/server"
	"github.com/vallheru/game-web/internal/vault"
	"github.com/vallheru/game-web/internal/view"
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is main without the process globals, so tests can drive it.
func run(args []string, stdout, stderr io.Writer) int {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "game-web"
	parser.SubcommandsOptional = true

	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, err)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	serving := parser.Active != nil && parser.Active.Name == "serve"

	log, err := startLogger(opts, serving, stderr)
	if err != nil {
		printError(stderr, err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	load := config.Load
	if opts.Strict {
		load = config.LoadStrict
	}
	cfg, err := load(opts.ConfigPath)
	metrics.ObserveConfigLoad(err)
	if err != nil {
		printError(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "Loaded configuration:\n%s\n", config.Render(cfg))
	log.Infow("config loaded",
		"path", opts.ConfigPath,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"workers", cfg.Server.Workers,
		"template_root", cfg.Templates.TemplateRoot,
		"enable_registration", cfg.Features.EnableRegistration,
		"enable_world_map", cfg.Features.EnableWorldMap,
	)

	if !serving {
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, cfg, opts.Serve, log); err != nil {
		log.Errorw("serve failed", "err", err)
		printError(stderr, err)
		return 1
	}
	return 0
}

// serve wires the optional collaborators and blocks until ctx ends.
func serve(ctx context.Context, cfg *config.Config, cmd ServeCmd, log *zap.SugaredLogger) error {
	deps := server.Deps{
		Config: cfg,
		Views:  view.New(cfg.Templates),
		Log:    log,
	}

	if !cmd.NoDB {
		var secrets database.SecretSource
		if vault.Configured() {
			vc, err := vault.New(ctx, log)
			if err != nil {
				return err
			}
			secrets = vc
		}

		db, err := database.Open(ctx, cfg.Database, secrets)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		deps.DB = db
	}

	srv := server.New(cfg.Server, server.NewRouter(deps))
	return server.Run(ctx, srv, log)
}

// printError writes the outer message, then each cause indented beneath
// it.  Several causes are numbered from 0.
func printError(w io.Writer, err error) {
	chain := config.Chain(err)
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(chain[0])
	if causes := chain[1:]; len(causes) > 0 {
		b.WriteString("\n\nCaused by:")
		for i, c := range causes {
			if len(causes) == 1 {
				fmt.Fprintf(&b, "\n    %s", c)
				continue
			}
			fmt.Fprintf(&b, "\n    %d: %s", i, c)
		}
	}
	b.WriteString("\n")
	_, _ = io.WriteString(w, b.String())
}

// startLogger opens the daily file log for `serve`.  One-shot commands,
// and a server whose log dir is unusable, log to the console only, so a
// valid configuration always loads.
func startLogger(opts Options, serving bool, stderr io.Writer) (*zap.SugaredLogger, error) {
	lopts := logger.Options{
		Dir:     opts.LogDir,
		Level:   opts.LogLevel,
		Console: console(stderr),
	}
	if serving {
		log, err := logger.New(lopts)
		if err == nil {
			return log, nil
		}
		fmt.Fprintf(stderr, "warning: file logging disabled: %v\n", err)
	}
	return logger.NewConsole(lopts)
}

// console returns stderr as a log tee target only when it is a terminal.
func console(stderr io.Writer) io.Writer {
	if f, ok := stderr.(*os.File); ok && logger.IsTerminal(f) {
		return f
	}
	return nil
}
