package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sandeepkv93/dayroll/internal/daily"
	"github.com/sandeepkv93/dayroll/internal/model"
	"github.com/sandeepkv93/dayroll/internal/scheduler"
	"github.com/sandeepkv93/dayroll/internal/tasks"
	"github.com/sandeepkv93/dayroll/internal/update"
	"github.com/spf13/cobra"
)

// withApp opens the app for a CLI subcommand, runs the load-time rollover
// the way the UI does on startup, and closes everything afterwards.
func withApp(cmd *cobra.Command, configPath string, rollover bool, fn func(*app) error) error {
	a, err := openApp(configPath, false, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()
	if rollover {
		if _, err := a.service.RunRollover(cmd.Context()); err != nil {
			return err
		}
	}
	return fn(a)
}

func rolloverCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rollover",
		Short: "Move tasks to their buckets for today if the day has changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, false, func(a *app) error {
				res, err := a.service.RunRollover(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !res.Changed {
					fmt.Fprintf(out, "Already rolled over for %s\n", res.Day)
					return nil
				}
				fmt.Fprintf(out, "Rolled over to %s (%d task(s) moved)\n", res.Day, res.Moved)
				return nil
			})
		},
	}
}

func wrapCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "wrap",
		Short: "Wrap up the day: show efficiency and bump the streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, true, func(a *app) error {
				res, err := a.service.WrapDay(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Streak:     %d days\n", res.Streak)
				fmt.Fprintf(out, "Efficiency: %d%% (%d of %d)\n", res.EfficiencyPercent, res.Done, res.Total)
				return nil
			})
		},
	}
}

func statusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's stats and streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, true, func(a *app) error {
				snap, err := a.repo.Snapshot(cmd.Context())
				if err != nil {
					return err
				}
				stats := daily.ComputeStats(snap.Tasks)
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "dayroll status")
				fmt.Fprintln(out, strings.Repeat("=", 30))
				fmt.Fprintf(out, "Today:       %s\n", a.clock.Today())
				fmt.Fprintf(out, "Store:       %s (%s)\n", a.cfg.Backend(), a.cfg.StorePath())
				fmt.Fprintf(out, "Tasks:       %d total, %d done\n", stats.Total, stats.Done)
				fmt.Fprintf(out, "Focus:       %d%%\n", stats.FocusPercent)
				fmt.Fprintf(out, "Streak:      %d days\n", snap.Wrap.Streak)
				fmt.Fprintf(out, "Last wrap:   %s\n", valueOrDefault(snap.Wrap.LastWrapDay.String(), "never"))
				fmt.Fprintf(out, "Reminded on: %s\n", valueOrDefault(snap.Reminder.LastReminderDay.String(), "never"))
				return nil
			})
		},
	}
}

func remindCmd(configPath *string) *cobra.Command {
	var desktop bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print the evening reminder if it is due (at most once a day)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, true, func(a *app) error {
				fired, err := a.service.EvaluateReminder(cmd.Context())
				if err != nil || !fired {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), daily.ReminderText)
				if desktop || a.cfg.DesktopNotifications {
					n := update.Notification{Title: "dayroll", Body: daily.ReminderText, Level: "warning"}
					if err := (update.ExecDesktopNotifier{}).Send(n); err != nil {
						a.logger.Warn("desktop notification failed", "err", err)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&desktop, "desktop", false, "also send a desktop notification")
	return cmd
}

func addCmd(configPath *string) *cobra.Command {
	var tomorrow bool
	cmd := &cobra.Command{
		Use:   "add [title...]",
		Short: "Add a task to today (or tomorrow with --tomorrow)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := model.CategoryToday
			if tomorrow {
				category = model.CategoryTomorrow
			}
			return withApp(cmd, *configPath, true, func(a *app) error {
				t, err := a.tasks.Add(cmd.Context(), strings.Join(args, " "), category)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %q added!\n", t.Title)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&tomorrow, "tomorrow", "t", false, "add to tomorrow's bucket")
	return cmd
}

func listCmd(configPath *string) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, true, func(a *app) error {
				f := tasks.Filter(strings.ToLower(filter))
				if filter == "" {
					f = a.cfg.Filter()
				}
				if !f.IsValid() {
					return fmt.Errorf("unknown filter %q", filter)
				}
				list, err := a.tasks.List(cmd.Context())
				if err != nil {
					return err
				}
				printTasks(cmd.OutOrStdout(), f, list)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "all, today, tomorrow or completed")
	return cmd
}

func doneCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "done <row|id>",
		Short: "Toggle a task's completed flag (row numbers follow `list`)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, true, func(a *app) error {
				id, err := resolveTask(cmd, a, args[0])
				if err != nil {
					return err
				}
				t, err := a.tasks.Toggle(cmd.Context(), id)
				if err != nil {
					return err
				}
				state := "incomplete"
				if t.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %q marked as %s\n", t.Title, state)
				return nil
			})
		},
	}
}

func rmCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <row|id>",
		Short: "Delete a task (row numbers follow `list`)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, true, func(a *app) error {
				id, err := resolveTask(cmd, a, args[0])
				if err != nil {
					return err
				}
				t, err := a.tasks.Delete(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %q deleted!\n", t.Title)
				return nil
			})
		},
	}
}

func resetCmd(configPath *string) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all tasks, the streak and reminder history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset removes everything; rerun with --yes")
			}
			return withApp(cmd, *configPath, false, func(a *app) error {
				if err := a.repo.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All dayroll data removed")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func watchCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the rollover and reminder scheduler without the UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return withApp(cmd, *configPath, false, func(a *app) error {
				engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
				loop := daily.NewLoop(a.service, engine, a.clock, daily.LoopOptions{
					ReminderPoll: a.cfg.ReminderPollInterval(),
					Logger:       a.logger,
				})
				out := cmd.OutOrStdout()
				report := func(o daily.Outcome) {
					if o.Rollover.Changed {
						fmt.Fprintf(out, "Rolled over to %s (%d task(s) moved)\n", o.Rollover.Day, o.Rollover.Moved)
					}
					if o.Remind {
						fmt.Fprintln(out, daily.ReminderText)
					}
				}
				report(loop.Start(ctx))
				defer loop.Stop()
				err := loop.Run(ctx, report)
				if errors.Is(err, ctx.Err()) {
					return nil
				}
				return err
			})
		},
	}
}

func resolveTask(cmd *cobra.Command, a *app, target string) (string, error) {
	list, err := a.tasks.List(cmd.Context())
	if err != nil {
		return "", err
	}
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(list) {
			return "", fmt.Errorf("row %d: %w", n, tasks.ErrNotFound)
		}
		return list[n-1].ID, nil
	}
	var match []string
	for _, t := range list {
		if strings.HasPrefix(t.ID, target) {
			match = append(match, t.ID)
		}
	}
	if len(match) != 1 {
		return "", fmt.Errorf("id %s: %w", target, tasks.ErrNotFound)
	}
	return match[0], nil
}

func printTasks(w io.Writer, f tasks.Filter, all []model.Task) {
	index := make(map[string]int, len(all))
	for i, t := range all {
		index[t.ID] = i + 1
	}
	visible := f.Apply(all)
	if len(visible) == 0 {
		fmt.Fprintln(w, f.EmptyText())
		return
	}
	for _, t := range visible {
		check := " "
		if t.Completed {
			check = "x"
		}
		fmt.Fprintf(w, "%2d. [%s] %s (%s)\n", index[t.ID], check, t.Title, t.Category)
	}
}

func valueOrDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
