// ABOUTME: Entry point for the prospector CLI, TUI, web UI, and MCP server
// ABOUTME: Loads config, opens storage, and routes to the requested command
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/harperreed/prospector/ai"
	"github.com/harperreed/prospector/cli"
	"github.com/harperreed/prospector/config"
	"github.com/harperreed/prospector/db"
	"github.com/harperreed/prospector/tracker"
	"github.com/harperreed/prospector/tui"
	"github.com/harperreed/prospector/web"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	configPath := flag.String("config", "", "Config file path (default: ~/.config/prospector/config.yaml)")
	dbPath := flag.String("db-path", "", "Storage path (overrides config)")
	backend := flag.String("backend", "", "Storage backend: sqlite or badger (overrides config)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("prospector version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	if command == "help" {
		printUsage()
		os.Exit(0)
	}

	// statuses only reads the catalog
	if command == "statuses" {
		if err := cli.StatusesCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
		return
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *backend != "" {
		cfg.Storage.Backend = *backend
		if *dbPath == "" {
			cfg.Storage.Path = config.DefaultDataPath(*backend)
		}
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	var logger *zap.Logger
	if command == "tui" {
		logger, err = cfg.NewInteractiveLogger()
	} else {
		logger, err = cfg.NewLogger()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, err := db.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		logger.Fatal("failed to open storage",
			zap.String("backend", cfg.Storage.Backend),
			zap.String("path", cfg.Storage.Path),
			zap.Error(err))
	}
	t := tracker.Open(tracker.NewBlobPersister(store), tracker.WithLogger(logger))
	defer func() {
		if err := t.Close(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiClient := newAIClient(ctx, cfg, logger)

	// A nil *ai.Client must not become a non-nil interface.
	var commandAI cli.AIClient
	if aiClient != nil {
		commandAI = aiClient
	}

	timeout := cfg.AI.Timeout

	switch command {
	case "add":
		err = cli.AddCommand(t, commandArgs)
	case "list":
		err = cli.ListCommand(t, commandArgs)
	case "show":
		err = cli.ShowCommand(t, commandArgs)
	case "update":
		err = cli.UpdateCommand(t, commandArgs)
	case "log":
		err = cli.LogCommand(t, commandArgs)
	case "delete":
		err = cli.DeleteCommand(t, commandArgs)
	case "reset-seed":
		err = cli.ResetSeedCommand(t, commandArgs)

	case "stats":
		err = cli.StatsCommand(t, commandArgs)
	case "journey":
		err = cli.JourneyCommand(t, commandArgs)
	case "stages":
		err = cli.StagesCommand(t, commandArgs)
	case "pipeline-graph":
		err = cli.PipelineGraphCommand(t, commandArgs)
	case "followups":
		err = cli.FollowupListCommand(t, commandArgs)

	case "script":
		err = cli.ScriptCommand(t, commandAI, timeout, commandArgs)
	case "parse-profile":
		err = cli.ParseProfileCommand(t, commandAI, timeout, commandArgs)

	case "mcp":
		err = cli.MCPCommand(t, aiClient, timeout, version, logger)

	case "tui":
		err = runTUI(t, aiClient, timeout, logger)

	case "web":
		err = runWeb(ctx, t, cfg, aiClient, logger, commandArgs)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		// os.Exit skips deferred calls
		_ = t.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// newAIClient returns nil when no key is configured.
func newAIClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) *ai.Client {
	if !cfg.HasAPIKey() {
		logger.Debug("AI features disabled: no API key")
		return nil
	}
	client, err := ai.New(ctx, cfg.AI.APIKey, ai.WithModel(cfg.AI.Model), ai.WithLogger(logger))
	if err != nil {
		logger.Warn("AI features disabled", zap.Error(err))
		return nil
	}
	return client
}

func runTUI(t *tracker.Tracker, client *ai.Client, timeout time.Duration, logger *zap.Logger) error {
	opts := []tui.Option{tui.WithLogger(logger)}
	if client != nil {
		opts = append(opts, tui.WithScriptGenerator(client, timeout))
	}

	p := tea.NewProgram(tui.NewModel(t, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func runWeb(ctx context.Context, t *tracker.Tracker, cfg *config.Config, client *ai.Client, logger *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("web", flag.ExitOnError)
	addr := fs.String("addr", cfg.Web.Addr, "Listen address")
	_ = fs.Parse(args)

	srv, err := web.NewServer(t, web.WithLogger(logger), web.WithAI(client, cfg.AI.Timeout))
	if err != nil {
		return err
	}
	fmt.Printf("Prospector dashboard at http://%s\n", *addr)
	return srv.Start(ctx, *addr)
}

func printUsage() {
	fmt.Printf(`prospector v%s - Sales prospect pipeline tracker

USAGE:
  prospector [global flags] <command> [flags] [args]

GLOBAL FLAGS:
  --version              Show version and exit
  --config <path>        Config file (default: ~/.config/prospector/config.yaml)
  --db-path <path>       Storage path (default: ~/.local/share/prospector/prospector.db)
  --backend <name>       Storage backend: sqlite (default) or badger

PROSPECT COMMANDS:
  prospector add            Add a prospect
    --name <name>             Full name (required)
    --company <company>       Company
    --position <title>        Job title
    --email <email>           Email address
    --platform <platform>     linkedin, email, whatsapp, twitter (default: linkedin)
    --status <status>         Initial status (default: initial-contact)
    --deal-value <dollars>    Potential deal value
    --high-value              Flag as high value
    --headline <text>         Profile headline
    --website <url>           Company website

  prospector list           List prospects
    --query <text>            Search name or company
    --status <status>         Filter by status
    --group <group>           Filter by funnel group
    --high-value              Only high-value prospects
    --limit <n>               Maximum rows

  prospector show <id>      Show a prospect with its history
  prospector update [flags] <id>
                            Update fields; a status change is logged
  prospector log [flags] <id>
    --type <type>             note, chat, email, call (default: note)
    --content <text>          What happened (required)
  prospector delete [--yes] <id>
                            Delete a prospect and its history
  prospector reset-seed [--yes]
                            Replace all prospects with the sample data

PIPELINE COMMANDS:
  prospector stats          Sales dashboard
  prospector statuses       Status catalog by group
  prospector journey [--dot] [--output <file>] <id>
                            Stages a prospect has visited
  prospector stages [--status <status>]
                            Prospects and total value per journey stage
  prospector pipeline-graph [--output <file>]
                            Pipeline graph in DOT format
  prospector followups [--limit <n>]
                            Open prospects gone quiet

AI COMMANDS (need GEMINI_API_KEY):
  prospector script [--focus <focus>] [--log] <id>
                            Draft an outreach message
                            focus: central-banks, fintech, institutional
  prospector parse-profile [flags]
    --file <path>             Profile text file, or - for stdin
    --image <path>            Screenshot (repeatable)
    --add                     Create a prospect from the result
    --status <status>         Status when adding
    --platform <platform>     Platform when adding

INTERFACES:
  prospector tui            Interactive terminal UI
  prospector web [--addr <host:port>]
                            Web dashboard and JSON API (default: %s)
  prospector mcp            MCP server over stdio

EXAMPLES:
  prospector add --name "Marta Lopez" --company "Banco Sur" --deal-value 15000
  prospector update --status qualification <id>
  prospector log --type call --content "Intro call went well" <id>
  prospector script --focus fintech <id>

`, version, config.DefaultWebAddr)
}
