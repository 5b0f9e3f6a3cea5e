package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/alkime/scriptcut/internal/backend"
	"github.com/alkime/scriptcut/internal/config"
	"github.com/alkime/scriptcut/internal/keyring"
	"github.com/alkime/scriptcut/internal/logger"
	"github.com/alkime/scriptcut/internal/pipeline"
	"github.com/alkime/scriptcut/internal/tui"
	"github.com/alkime/scriptcut/internal/tui/workflow"
	"github.com/alkime/scriptcut/internal/workdir"
	"github.com/alkime/scriptcut/pkg/collections"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// CLI defines the scriptcut command structure.
type CLI struct {
	// Default TUI command (runs when no subcommand given)
	TUI TUICmd `cmd:"" default:"withargs" help:"Launch the terminal UI"`

	// Subcommands
	Run       RunCmd       `cmd:"" help:"Run the whole workflow without a UI"`
	Providers ProvidersCmd `cmd:"" help:"List LLM providers and their default endpoints"`
	Config    ConfigCmd    `cmd:"" help:"Manage configuration"`
}

// TUICmd is the default command that runs the TUI.
type TUICmd struct {
	Media   string `arg:"" optional:"" type:"path" help:"Video file to prefill the upload with"`
	Name    string `flag:"" optional:"" help:"Session name (default: media file name, then today's date)"`
	Editor  string `flag:"" env:"SCRIPTCUT_EDITOR" help:"Editor for the AI script (default: $EDITOR, then vi)"`
	Verbose bool   `flag:"" short:"v" help:"Debug logging"`

	WorkflowFlags `embed:""`
}

// Run executes the TUI command.
func (c *TUICmd) Run() error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("stdout is not a terminal: use 'scriptcut run <file>' for unattended runs")
	}

	settings, err := c.settings()
	if err != nil {
		return err
	}

	dir, err := workdir.Prep(workdir.SessionName(c.Name, c.Media))
	if err != nil {
		return fmt.Errorf("failed to prepare working directory: %w", err)
	}

	log, closeLog, err := logger.SetupFile(dir, workdir.LogFile, level(c.Verbose))
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info("Starting scriptcut", "backend", c.BackendURL, "provider", settings.LLM.Provider, "session", dir)

	client := backend.NewClient(c.BackendURL, backend.WithLogger(log))
	m := tui.New(tui.Config{
		Backend:      client,
		Editor:       &workflow.ExternalEditor{EditorCmd: c.Editor, Dir: dir},
		Settings:     settings,
		UploadFields: c.Fields,
		MediaPath:    c.Media,
		BackendURL:   client.BaseURL(),
		Logger:       log,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	if url := m.Session().DownloadURL; url != "" {
		fmt.Printf("Final video: %s\n", url)
	}
	fmt.Println("\nfinished. bye!")

	return nil
}

// RunCmd drives every section in turn and prints the download URL.
type RunCmd struct {
	Media        string `arg:"" type:"existingfile" help:"Video file to upload"`
	SaveAIScript string `flag:"" name:"save-ai-script" type:"path" help:"Write the generated AI script to this file"`
	Verbose      bool   `flag:"" short:"v" help:"Debug logging"`

	WorkflowFlags `embed:""`
}

// Run executes the headless workflow.
func (c *RunCmd) Run() error {
	log := logger.SetupText(os.Stderr, level(c.Verbose))

	settings, err := c.settings()
	if err != nil {
		return err
	}

	info, err := os.Stat(c.Media)
	if err != nil {
		return fmt.Errorf("media file not found: %w", err)
	}
	log.Info("Uploading", "file", c.Media, "size", humanize.Bytes(uint64(info.Size())), "backend", c.BackendURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord := workflow.NewCoordinator(backend.NewClient(c.BackendURL, backend.WithLogger(log)), workflow.WithLogger(log))
	pilot := workflow.NewAutopilot(coord, workflow.AutopilotInputs{
		MediaPath:    c.Media,
		UploadFields: c.Fields,
		Settings:     settings,
		ReviseScript: c.saveScript(log),
	}, log)

	p := tea.NewProgram(pilot,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	if _, err := p.Run(); err != nil {
		coord.Reset()
		if errors.Is(err, tea.ErrProgramKilled) {
			return workflow.ErrInterrupted
		}
		return fmt.Errorf("workflow stopped: %w", err)
	}

	url, err := pilot.Result()
	if err != nil {
		return err
	}
	fmt.Println(url)

	return nil
}

func (c *RunCmd) saveScript(log *slog.Logger) func(string) string {
	if c.SaveAIScript == "" {
		return nil
	}
	return func(script string) string {
		//nolint:gosec // Output path chosen by the user
		if err := os.WriteFile(c.SaveAIScript, []byte(script), 0o644); err != nil {
			log.Error("Failed to save AI script", "path", c.SaveAIScript, "error", err)
		} else {
			log.Info("AI script saved", "path", c.SaveAIScript)
		}
		return script
	}
}

// ProvidersCmd lists the LLM providers.
type ProvidersCmd struct{}

// Run executes the providers command.
//
//nolint:unparam // error return required by Kong interface
func (c *ProvidersCmd) Run() error {
	for _, p := range pipeline.AllProviders() {
		url := p.DefaultURL()
		if url == "" {
			url = "(set --llm-url)"
		}

		key := "not set"
		if keyring.IsSet(keyring.ForProvider(p)) {
			key = "configured"
		}

		fmt.Printf("%-7s %-90s key: %s\n", p, url, key)
	}

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Provider string `arg:"" enum:"openai,gemini,claude,custom" help:"Provider name"`
	Secret   string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromProviderName(c.Provider)
	if err != nil {
		return fmt.Errorf("invalid provider: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Provider)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false
		}
	}

	if !allSet {
		names := collections.Apply(keyring.AllAPIKeys(), keyring.APIKey.DisplayName)
		fmt.Printf("\nRun 'scriptcut config set-key <%s> <key>' to configure.\n", strings.Join(names, "|"))
	}

	return nil
}

func main() {
	config.LoadDotEnv()

	// Text logger until a command sets up its own
	logger.SetupText(os.Stderr, slog.LevelInfo)

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("scriptcut"),
		kong.Description("Turn a narrated video into an effects-enhanced cut."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}

func level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
