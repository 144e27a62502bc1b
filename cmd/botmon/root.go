package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rusenback/botmon/internal/config"
	"github.com/rusenback/botmon/internal/logger"
	"github.com/rusenback/botmon/internal/panel"
	"github.com/rusenback/botmon/internal/rtvi"
	"github.com/rusenback/botmon/internal/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botmon",
	Short: "Watch a real-time voice bot session",
	Long: `botmon connects to an RTVI server over a websocket and shows the
session as two panes: the server log (transport, bot and track events) and
the conversation (final user transcripts and bot transcripts).

Examples:
  botmon                                  # connect to ws://localhost:7860/ws
  botmon --url wss://bot.example.com/ws   # another server
  botmon --plain                          # print lines to stdout, no TUI`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMonitor,
}

var (
	configFlag   string
	urlFlag      string
	plainFlag    bool
	noColorFlag  bool
	logLevelFlag string
	logFileFlag  string
	micFlag      bool
	camFlag      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.botmon/config.yaml)")
	rootCmd.Flags().StringVar(&urlFlag, "url", "", "RTVI websocket URL")
	rootCmd.Flags().BoolVar(&plainFlag, "plain", false, "Print lines to stdout instead of starting the TUI")
	rootCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colours in plain mode")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.Flags().StringVar(&logFileFlag, "log-file", "", "Diagnostic log file")
	rootCmd.Flags().BoolVar(&micFlag, "mic", true, "Report a local microphone track")
	rootCmd.Flags().BoolVar(&camFlag, "cam", false, "Report a local camera track")
}

// loadConfig reads the config file and applies flags given on the command line
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Server.URL = urlFlag
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevelFlag
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFileFlag
	}
	if flags.Changed("mic") {
		cfg.Client.EnableMic = micFlag
	}
	if flags.Changed("cam") {
		cfg.Client.EnableCam = camFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *rtvi.Client {
	return rtvi.NewClient(rtvi.Config{
		URL:         cfg.Server.URL,
		Headers:     cfg.Server.Headers,
		DialTimeout: cfg.Server.DialTimeout,
		EnableMic:   cfg.Client.EnableMic,
		EnableCam:   cfg.Client.EnableCam,
	})
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		if plainFlag {
			// stdout carries the lines, stderr is free for diagnostics
			logger.InitWriter(os.Stderr, cfg.Logging.Level)
			logger.Warn("log file unavailable", "err", err)
		} else {
			fmt.Fprintf(os.Stderr, "⚠️  diagnostics disabled: %v\n", err)
		}
	}
	defer logger.Close()
	logger.Info("starting", "url", cfg.Server.URL, "plain", plainFlag)

	client := newClient(cfg)
	defer client.Close()

	p := panel.New(client)
	detach := p.Attach()
	defer detach()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if plainFlag {
		return runPlain(ctx, client, p)
	}
	return runTUI(ctx, cfg, client, p)
}

// runPlain prints every line to stdout until interrupted or disconnected
func runPlain(ctx context.Context, client *rtvi.Client, p *panel.EventLogPanel) error {
	color := !noColorFlag
	p.Mount(
		panel.NewWriterSink(os.Stdout, "[log] ", color),
		panel.NewWriterSink(os.Stdout, "[dialog] ", color),
	)
	defer p.Unmount()

	if err := client.Connect(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-client.Done():
	}
	return nil
}

func runTUI(ctx context.Context, cfg *config.Config, client *rtvi.Client, p *panel.EventLogPanel) error {
	m := tui.NewModel(p, tui.Options{
		URL:      cfg.Server.URL,
		LogRatio: cfg.UI.LogRatio,
		State:    client.State,
		OnMount: func() {
			go func() {
				if err := client.Connect(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("connect failed", "err", err)
				}
			}()
		},
	})
	defer m.Stop()

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
