package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/dayroll/internal/daily"
	"github.com/sandeepkv93/dayroll/internal/scheduler"
	"github.com/sandeepkv93/dayroll/internal/update"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "dayroll",
		Short:         "dayroll - a two-bucket daily task list that rolls over at midnight",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), configPath)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/dayroll/config.toml)")

	rootCmd.AddCommand(
		rolloverCmd(&configPath),
		wrapCmd(&configPath),
		statusCmd(&configPath),
		remindCmd(&configPath),
		addCmd(&configPath),
		listCmd(&configPath),
		doneCmd(&configPath),
		rmCmd(&configPath),
		resetCmd(&configPath),
		watchCmd(&configPath),
	)
	return rootCmd
}

func runTUI(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(configPath, true, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
	loop := daily.NewLoop(a.service, engine, a.clock, daily.LoopOptions{
		ReminderPoll: a.cfg.ReminderPollInterval(),
		Logger:       a.logger,
	})
	start := loop.Start(ctx)
	defer loop.Stop()

	rc := update.RuntimeConfigFrom(a.cfg)
	rc.Startup = &start
	m := update.NewModelWithConfig(update.Deps{
		Tasks:    a.tasks,
		Service:  a.service,
		Loop:     loop,
		Notifier: update.ExecDesktopNotifier{},
		Logger:   a.logger,
	}, rc)

	a.logger.Info("starting ui", "day", start.Rollover.Day, "store", a.cfg.Backend())
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dayroll failed: %w", err)
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
