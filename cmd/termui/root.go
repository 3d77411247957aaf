package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/corestream/termui/internal/config"
	"github.com/corestream/termui/internal/tui/appstate"
	"github.com/corestream/termui/internal/tui/driver"
	"github.com/corestream/termui/internal/tui/orchestrator"
)

var (
	workingPath        string
	toolSyntax         string
	diffBlockRendering bool
	sandboxPolicy      string
	task               string
	continueLatest     bool
	model              string
	recordPath         string
	playbackPath       string
)

var rootCmd = &cobra.Command{
	Use:   "termui",
	Short: "Streaming terminal UI core for an interactive coding assistant",
	Args:  cobra.NoArgs,
	RunE:  run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&workingPath, "working-path", "", "Working directory shown in the welcome banner")
	flags.StringVar(&toolSyntax, "tool-syntax", "", "Tool-call syntax the backend emits: xml or native")
	flags.BoolVar(&diffBlockRendering, "diff-block-rendering", true, "Render unified diffs as styled diff blocks")
	flags.StringVar(&sandboxPolicy, "sandbox-policy", "", "Sandbox policy label, stored in the shared app state")
	flags.StringVar(&task, "task", "", "Task string, stored in the run configuration but not acted on")
	flags.BoolVar(&continueLatest, "continue", false, "Continue-from-latest flag, stored in the run configuration but not acted on")
	flags.StringVar(&model, "model", "", "Model name override")
	flags.StringVar(&recordPath, "record", "", "Record incoming events to this JSONL file")
	flags.StringVar(&playbackPath, "playback", "", "Replay events from this JSONL file instead of a live backend")
}

// Execute runs the root command, exiting non-zero on any pre-exit error per
// the CLI surface's exit-code contract.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "termui:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applyFlagOverrides(cfg, cmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	state := appstate.New()
	state.SetSandboxPolicy(cfg.TUI.SandboxPolicy)
	state.SetCurrentModel(cfg.TUI.Model)

	var events <-chan orchestrator.Event
	redraw := make(chan struct{}, 1)

	if cfg.TUI.PlaybackPath != "" {
		src, err := playbackSource(cfg.TUI.PlaybackPath)
		if err != nil {
			return err
		}
		events = src
	} else {
		events = make(chan orchestrator.Event)
	}

	if cfg.TUI.RecordPath != "" {
		sink, err := newRecordingSink(cfg.TUI.RecordPath)
		if err != nil {
			return err
		}
		events = sink.tee(events)
	}

	hooks := driver.Hooks{
		SendUserMessage: func(ctx context.Context, text string) {
			state.SetActivity(appstate.Running)
		},
		SwitchModel: func(ctx context.Context, name string) {
			state.SetCurrentModel(name)
		},
	}
	if cfg.TUI.ShowWelcomeBanner {
		hooks.WelcomeLines = driver.WelcomeBanner(cfg.TUI.WorkingPath)
	}

	return driver.Run(ctx, events, redraw, state, hooks)
}

func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("working-path") {
		cfg.TUI.WorkingPath = workingPath
	}
	if flags.Changed("tool-syntax") {
		cfg.TUI.ToolSyntax = toolSyntax
	}
	if flags.Changed("diff-block-rendering") {
		cfg.TUI.DiffBlockRendering = diffBlockRendering
	}
	if flags.Changed("sandbox-policy") {
		cfg.TUI.SandboxPolicy = sandboxPolicy
	}
	if flags.Changed("model") {
		cfg.TUI.Model = model
	}
	cfg.TUI.Task = task
	cfg.TUI.ContinueFromLatest = continueLatest
	if flags.Changed("record") {
		cfg.TUI.RecordPath = recordPath
	}
	if flags.Changed("playback") {
		cfg.TUI.PlaybackPath = playbackPath
	}
}
