// Package main provides the CLI entry point for resonance.
//
// resonance generates prime numbers, projects them into a 5-dimensional
// spiral parameterized by the Golden Ratio and two fixed resonance
// frequencies (528.0 Hz / 13.5 Hz), and exports the result as a
// self-contained interactive HTML visualization or a WAV tone rendering.
//
// Usage:
//
//	resonance generate [--count N | --limit N] [--out path] [--preset path]
//	resonance wav [--count N | --limit N] [--out path]
//	resonance serve                Start the local service (web UI + API)
//	resonance watch                Regenerate the artifact on config changes
//	resonance mcp                  Start MCP server (stdio mode)
//	resonance status               Show service status
//	resonance stop                 Stop the running service
//	resonance version              Show version
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/ternarybob/resonance/internal/api"
	"github.com/ternarybob/resonance/internal/audio"
	"github.com/ternarybob/resonance/internal/catalog"
	"github.com/ternarybob/resonance/internal/config"
	"github.com/ternarybob/resonance/internal/logger"
	"github.com/ternarybob/resonance/internal/mcp"
	"github.com/ternarybob/resonance/internal/render"
	"github.com/ternarybob/resonance/internal/service"
	"github.com/ternarybob/resonance/internal/watch"
	"github.com/ternarybob/resonance/pkg/field"
)

// version is set via -ldflags at build time
var version = "dev"

func main() {
	api.SetVersion(version)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "generate":
		err = cmdGenerate(args)
	case "wav":
		err = cmdWav(args)
	case "serve", "start":
		err = cmdServe()
	case "watch":
		err = cmdWatch(args)
	case "mcp", "mcp-server":
		err = cmdMCP()
	case "status":
		err = cmdStatus()
	case "stop":
		err = cmdStop()
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`resonance - prime resonance field generator

Usage:
  resonance [command]

Commands:
  generate      Render the field to a self-contained HTML file
  wav           Render the field's tone sequence to a WAV file
  serve         Start the local service (web UI + JSON API)
  watch         Regenerate the artifact when config/preset change
  mcp           Start MCP server (stdio mode)
  status        Show service status
  stop          Stop the running service
  version       Show version information
  help          Show this help

Flags (generate, wav, watch):
  --count N     Generate the first N primes
  --limit N     Generate all primes up to N (default 2350)
  --out PATH    Output file path
  --preset PATH Scene preset file (TOML, generate only)

Environment:
  RESONANCE_OUT   Overrides the artifact output path

Configuration:
  Config file: ~/.resonance/config.yaml (or $APPDATA/resonance on Windows)

Examples:
  resonance generate --limit 2350
  resonance wav --count 100 --out tones.wav
  resonance serve
  curl localhost:8435/field?count=50`)
}

func cmdVersion() {
	fmt.Printf("resonance version %s\n", version)
}

// genFlags holds the flags shared by generate, wav, and watch.
type genFlags struct {
	count  int
	limit  int
	out    string
	preset string
}

func parseGenFlags(args []string) (genFlags, error) {
	var f genFlags
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--count", "-n":
			if i+1 >= len(args) {
				return f, fmt.Errorf("--count requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return f, fmt.Errorf("invalid count: %w", err)
			}
			f.count = n
			i++
		case "--limit":
			if i+1 >= len(args) {
				return f, fmt.Errorf("--limit requires a value")
			}
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				return f, fmt.Errorf("invalid limit: %w", err)
			}
			f.limit = n
			i++
		case "--out", "-o":
			if i+1 >= len(args) {
				return f, fmt.Errorf("--out requires a value")
			}
			f.out = args[i+1]
			i++
		case "--preset":
			if i+1 >= len(args) {
				return f, fmt.Errorf("--preset requires a value")
			}
			f.preset = args[i+1]
			i++
		default:
			return f, fmt.Errorf("unknown flag: %s", args[i])
		}
	}
	return f, nil
}

// resolveOptions merges CLI flags over the configured defaults. Flags win;
// a count flag clears a configured limit and vice versa.
func resolveOptions(cfg *config.Config, f genFlags) field.Options {
	opts := field.Options{Count: cfg.Field.Count, Limit: cfg.Field.Limit}
	if f.count > 0 {
		opts = field.Options{Count: f.count}
	}
	if f.limit > 0 {
		opts = field.Options{Limit: f.limit}
	}
	return opts
}

func cmdGenerate(args []string) error {
	flags, err := parseGenFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetupLogger(cfg)

	opts := resolveOptions(cfg, flags)
	f, err := field.Generate(opts)
	if err != nil {
		return err
	}

	presetPath := cfg.PresetPath()
	if flags.preset != "" {
		presetPath = flags.preset
	}
	preset, err := render.LoadPreset(presetPath)
	if err != nil {
		return err
	}

	out := cfg.OutPath()
	if flags.out != "" {
		out = flags.out
		if !filepath.IsAbs(out) {
			if abs, absErr := filepath.Abs(out); absErr == nil {
				out = abs
			}
		}
	}

	renderer := render.NewRenderer(preset)
	renderer.Version = version
	if err := renderer.WriteHTML(f, out); err != nil {
		return err
	}

	cat := catalog.New(cfg)
	if err := cat.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	stats := f.Stats()
	if _, err := cat.Record(out, "html", opts.Mode(), stats.Primes, stats.Twins); err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}

	fmt.Printf("Rendered %d primes (%d twin bridges) to %s\n", stats.Primes, stats.Twins, out)
	return nil
}

func cmdWav(args []string) error {
	flags, err := parseGenFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts := resolveOptions(cfg, flags)
	f, err := field.Generate(opts)
	if err != nil {
		return err
	}

	out := flags.out
	if out == "" {
		out = filepath.Join(cfg.ArtifactDir(), "resonance-field.wav")
	}

	if err := audio.WriteWAV(f, out, audio.Options{}); err != nil {
		return err
	}

	cat := catalog.New(cfg)
	if err := cat.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	stats := f.Stats()
	if _, err := cat.Record(out, "wav", opts.Mode(), stats.Primes, stats.Twins); err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}

	fmt.Printf("Sonified %d primes to %s\n", stats.Primes, out)
	return nil
}

func cmdServe() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetupLogger(cfg)

	if running, pid := service.IsRunning(cfg); running {
		return fmt.Errorf("service already running (PID %d)", pid)
	}

	cat := catalog.New(cfg)
	if err := cat.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	preset, err := render.LoadPreset(cfg.PresetPath())
	if err != nil {
		return err
	}
	renderer := render.NewRenderer(preset)
	renderer.Version = version

	apiServer := api.NewServer(cfg, cat, renderer)
	daemon := service.NewDaemon(cfg)

	if err := daemon.Start(apiServer.Handler()); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Printf("resonance v%s started on %s\n", version, cfg.Address())
	fmt.Printf("Web UI: http://%s/\n", cfg.Address())
	fmt.Printf("API: http://%s/field\n", cfg.Address())

	daemon.Wait()

	return nil
}

func cmdWatch(args []string) error {
	flags, err := parseGenFlags(args)
	if err != nil {
		return err
	}

	cfgPath := config.DefaultConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetupLogger(cfg)

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	regenerate := func() error {
		// Reload so config edits take effect
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		opts := resolveOptions(cfg, flags)
		f, err := field.Generate(opts)
		if err != nil {
			return err
		}

		preset, err := render.LoadPreset(cfg.PresetPath())
		if err != nil {
			return err
		}

		out := cfg.OutPath()
		if flags.out != "" {
			out = flags.out
		}

		renderer := render.NewRenderer(preset)
		renderer.Version = version
		return renderer.WriteHTML(f, out)
	}

	// Initial render before watching
	if err := regenerate(); err != nil {
		return err
	}

	watched := []string{cfgPath}
	if p := cfg.PresetPath(); p != "" {
		watched = append(watched, p)
	}

	watcher, err := watch.NewWatcher(watched, regenerate)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	defer watcher.Stop()

	fmt.Printf("Watching %d file(s); artifact: %s\n", len(watched), cfg.OutPath())
	fmt.Println("Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	return nil
}

func cmdMCP() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		cfg = config.DefaultConfig()
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	cat := catalog.New(cfg)
	if err := cat.Load(); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	preset, err := render.LoadPreset(cfg.PresetPath())
	if err != nil {
		return err
	}
	renderer := render.NewRenderer(preset)
	renderer.Version = version

	mcpServer := mcp.NewServer(cfg, cat, renderer)
	return mcpServer.ServeStdio()
}

func cmdStatus() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	running, pid := service.IsRunning(cfg)
	if running {
		fmt.Printf("resonance: running (PID %d)\n", pid)
		fmt.Printf("Address: %s\n", cfg.Address())
	} else {
		fmt.Println("resonance: stopped")
	}

	return nil
}

func cmdStop() error {
	cfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	running, pid := service.IsRunning(cfg)
	if !running {
		fmt.Println("resonance is not running")
		return nil
	}

	fmt.Printf("Stopping resonance (PID %d)...\n", pid)
	if err := service.StopRunning(cfg); err != nil {
		return err
	}

	fmt.Println("resonance stopped")
	return nil
}
