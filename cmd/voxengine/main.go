// Command voxengine is the CLI shell around the synthesis engine: doctor,
// model management, speech synthesis, and the API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/voxengine/voxengine/internal/adapter"
	"github.com/voxengine/voxengine/internal/adapter/beep"
	"github.com/voxengine/voxengine/internal/adapter/piper"
	"github.com/voxengine/voxengine/internal/config"
	"github.com/voxengine/voxengine/internal/engine"
	"github.com/voxengine/voxengine/internal/logger"
	"github.com/voxengine/voxengine/internal/policy"
	"github.com/voxengine/voxengine/internal/project"
	"github.com/voxengine/voxengine/internal/queue"
	httpapi "github.com/voxengine/voxengine/internal/server/http"
	"github.com/voxengine/voxengine/internal/service"
	"github.com/voxengine/voxengine/internal/task"
	"github.com/voxengine/voxengine/internal/voxerr"
	"github.com/voxengine/voxengine/internal/xfs"
)

const usage = `VoxEngine: local text-to-speech orchestration.

Usage:
  voxengine doctor [--json]
  voxengine backends list
  voxengine models list
  voxengine models add --path <file> [--name <name>]
  voxengine tts speak <text> [--out PATH] [--backend NAME] [--model PATH]
                             [--voice ID] [--profile NAME] [--format FMT]
  voxengine serve [--host HOST] [--port PORT] [--config FILE]
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	slog.SetDefault(logger.New(logger.FromEnv()))

	var err error
	switch args[0] {
	case "doctor":
		err = cmdDoctor(args[1:])
	case "backends":
		err = cmdBackends(args[1:])
	case "models":
		err = cmdModels(args[1:])
	case "tts":
		err = cmdTTS(args[1:])
	case "serve":
		err = cmdServe(args[1:])
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return voxerr.ExitCode(err)
	}

	return 0
}

// buildEngine wires the registry, the gate, and the engine from config.
// Every command constructs its own instance; there is no shared global.
func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	registry := adapter.NewRegistry()
	registry.Register(beep.New())
	registry.Register(piper.New(piper.Options{Timeout: cfg.AdapterTimeoutDuration()}))

	return engine.New(cfg, registry, policy.NewGate(), slog.Default())
}

func cmdDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Emit machine-readable JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eng, err := buildEngine(config.Default())
	if err != nil {
		return err
	}

	diag, err := eng.Doctor()
	if err != nil {
		return err
	}

	if *jsonOut {
		data, err := json.MarshalIndent(diag, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("VoxEngine Doctor")
	fmt.Printf("Version:    %s\n", diag.Version)
	fmt.Printf("Cache dir:  %s\n", diag.CacheDir)
	fmt.Printf("Models dir: %s\n", diag.ModelsDir)

	fmt.Println("\nDiscovered models")
	if len(diag.Models) == 0 {
		fmt.Println("  (none found)")
	}
	for _, m := range diag.Models {
		fmt.Printf("  - %s (%s)\n", m.Name, m.Path)
	}

	fmt.Println("\nTTS backends")
	for _, b := range diag.TTSBackends {
		status := "unavailable"
		if b.Available {
			status = "available"
		}
		fmt.Printf("  - %s (%s): %s\n", b.Name, status, b.Notes)
	}

	if len(diag.NextSteps) > 0 {
		fmt.Println("\nNext steps")
		for _, step := range diag.NextSteps {
			fmt.Printf("  - %s\n", step)
		}
	}

	return nil
}

func cmdBackends(args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return voxerr.InvalidInput("usage: voxengine backends list")
	}

	eng, err := buildEngine(config.Default())
	if err != nil {
		return err
	}

	for _, b := range eng.Registry().List() {
		status := "unavailable"
		if b.Available {
			status = "available"
		}
		fmt.Printf("%s: %s\n", b.Name, status)
	}

	return nil
}

func cmdModels(args []string) error {
	if len(args) == 0 {
		return voxerr.InvalidInput("usage: voxengine models <list|add>")
	}

	eng, err := buildEngine(config.Default())
	if err != nil {
		return err
	}

	switch args[0] {
	case "list":
		models, err := eng.DiscoverModels()
		if err != nil {
			return err
		}
		if len(models) == 0 {
			fmt.Println("No models found. Add one with 'voxengine models add --path /path/to/model.onnx'")
			return nil
		}
		for _, m := range models {
			fmt.Printf("%s: %s\n", m.Name, m.Path)
		}
		return nil

	case "add":
		fs := flag.NewFlagSet("models add", flag.ExitOnError)
		path := fs.String("path", "", "Path to a model file")
		name := fs.String("name", "", "Optional name for the model")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *path == "" {
			return voxerr.InvalidInput("--path is required")
		}

		dest, err := eng.AddModel(*path, *name)
		if err != nil {
			return err
		}
		fmt.Printf("Added model: %s\n", dest)
		return nil

	default:
		return voxerr.InvalidInput("unknown models subcommand %q", args[0])
	}
}

func cmdTTS(args []string) error {
	if len(args) == 0 || args[0] != "speak" {
		return voxerr.InvalidInput("usage: voxengine tts speak <text> [flags]")
	}
	args = args[1:]

	// Accept the text either before or after the flags.
	var text string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		text, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("tts speak", flag.ExitOnError)
	out := fs.String("out", "", "Output audio path (defaults to the cache directory)")
	backend := fs.String("backend", "", "TTS backend name")
	model := fs.String("model", "", "Path to a voice model file")
	voice := fs.String("voice", "", "Voice/speaker id for the backend")
	profile := fs.String("profile", "screenreader", "Accessibility profile: screenreader, narration, dialogue")
	format := fs.String("format", "wav", "Audio format (wav)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if text == "" {
		text = fs.Arg(0)
	}

	eng, err := buildEngine(config.Default())
	if err != nil {
		return err
	}

	result, err := eng.Synthesize(context.Background(), engine.SpeakRequest{
		Text:       text,
		Backend:    *backend,
		OutputPath: *out,
		ModelPath:  *model,
		Voice:      *voice,
		Profile:    *profile,
		Format:     *format,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Wrote audio:    %s\n", result.AudioPath)
	fmt.Printf("Wrote metadata: %s\n", result.MetaPath)
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}

	return nil
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	host := fs.String("host", "", "Host to bind the API server")
	port := fs.Int("port", 0, "Port to bind the API server")
	configPath := fs.String("config", "", "Path to a voxengine.yaml config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		watcher, err := config.NewWatcher(*configPath, func(reloaded *config.Config, err error) {
			if err != nil {
				slog.Error("Failed to reload config", "error", err)
				return
			}
			// Reloads are validation-only: the edit is checked against the
			// schema and logged, and takes effect on the next serve start.
			slog.Info("Config reloaded; restart serve to apply",
				"path", *configPath,
				"default_backend", reloaded.DefaultBackend)
		})
		if err != nil {
			return err
		}
		cfg = watcher.Snapshot()
	} else if defaultCfg := filepath.Join(config.DefaultConfigPath(), "voxengine.yaml"); xfs.FileExists(defaultCfg) {
		loaded, err := config.LoadAndValidate(defaultCfg)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	pool, err := task.NewPool(cfg.Workers, slog.Default())
	if err != nil {
		return err
	}
	defer pool.Release()

	q := queue.New()
	cast := project.NewCastManager()
	speak := service.NewSpeakService(eng, q, pool, slog.Default())
	render := service.NewRenderService(eng, q, cast, pool, slog.Default())

	srv := httpapi.NewServer(cfg.Server.Host, cfg.Server.Port, httpapi.Deps{
		Engine: eng,
		Queue:  q,
		Speak:  speak,
		Render: render,
		Cast:   cast,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", srv.Addr, "version", engine.Version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}

	return nil
}
