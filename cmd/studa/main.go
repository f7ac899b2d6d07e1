// Package main provides the CLI entrypoint for studa.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/avoronov/studa/internal/clock"
	"github.com/avoronov/studa/internal/config"
	"github.com/avoronov/studa/internal/model"
	"github.com/avoronov/studa/internal/planner"
	"github.com/avoronov/studa/internal/stats"
	"github.com/avoronov/studa/internal/store"
	"github.com/avoronov/studa/internal/task"
	"github.com/avoronov/studa/internal/timer"
	"github.com/avoronov/studa/internal/tui"
)

var (
	rootTarget int

	addSubject  string
	addDate     string
	addEst      int
	addPriority string

	listSubject string
	listStatus  string
	listSort    string

	editName     string
	editSubject  string
	editDate     string
	editEst      int
	editPriority string

	logTaskID string

	exportOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "studa",
		Short:         "Terminal study planner and session tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runDashboardCmd,
	}
	rootCmd.Flags().IntVar(&rootTarget, "target", 0, "target minutes hint shown next to the timer")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newEditCmd())
	rootCmd.AddCommand(newDoneCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newGoalCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newResetWeekCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// withPlanner opens the store, loads planner state (rolling the week over
// if needed), runs fn, and closes the store.
func withPlanner(fn func(ctx context.Context, p *planner.Planner) error) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dbPath := config.DefaultDBPath()
	if fileCfg.Planner.DB != nil && *fileCfg.Planner.DB != "" {
		dbPath = *fileCfg.Planner.DB
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	def := planner.Defaults{}
	if fileCfg.Planner.Goal != nil {
		def.Goal = *fileCfg.Planner.Goal
	}
	if fileCfg.Planner.Theme != nil {
		def.Theme = *fileCfg.Planner.Theme
	}

	ctx := context.Background()
	p, err := planner.Load(ctx, st, clock.System{}, def)
	if err != nil {
		return err
	}
	return fn(ctx, p)
}

func runDashboardCmd(_ *cobra.Command, _ []string) error {
	return withPlanner(func(_ context.Context, p *planner.Planner) error {
		m := tui.NewModel(p, rootTarget)
		program := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	})
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a study task",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addSubject, "subject", "", "subject label (default: General)")
	cmd.Flags().StringVar(&addDate, "date", "", "task date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&addEst, "est", 0, "estimated effort in minutes")
	cmd.Flags().StringVar(&addPriority, "priority", "", "High, Normal, or Low (default: Normal)")
	return cmd
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	return withPlanner(func(ctx context.Context, p *planner.Planner) error {
		t, err := p.AddTask(ctx, task.AddRequest{
			Name:       strings.Join(args, " "),
			Subject:    addSubject,
			Date:       addDate,
			EstMinutes: addEst,
			Priority:   addPriority,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s)\n", t.Name, t.ID)
		return err
	})
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE:  runListCmd,
	}
	cmd.Flags().StringVar(&listSubject, "subject", "all", "subject filter or 'all'")
	cmd.Flags().StringVar(&listStatus, "status", "all", "all, pending, or completed")
	cmd.Flags().StringVar(&listSort, "sort", "none", "none, date, priority, or timeSpent")
	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	return withPlanner(func(_ context.Context, p *planner.Planner) error {
		tasks := p.Tasks().Query(model.Query{
			Subject: listSubject,
			Status:  model.Status(listStatus),
			Sort:    model.SortKey(listSort),
		})
		if len(tasks) == 0 {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
			return err
		}
		headers := []string{"ID", "Task", "Subject", "Date", "Est", "Priority", "Spent", "Done"}
		rows := make([][]string, 0, len(tasks))
		for _, t := range tasks {
			done := ""
			if t.Completed {
				done = "✓"
			}
			rows = append(rows, []string{
				shortID(t.ID),
				t.Name,
				t.Subject,
				t.Date,
				fmt.Sprintf("%dm", t.EstMinutes),
				string(t.Priority),
				fmt.Sprintf("%dm", t.TimeSpentMinutes),
				done,
			})
		}
		rightAlign := map[int]bool{4: true, 6: true}
		for _, line := range stats.FormatTable(headers, rows, rightAlign) {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
				return err
			}
		}
		return nil
	})
}

func newEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task; omitted flags keep the old value",
		Args:  cobra.ExactArgs(1),
		RunE:  runEditCmd,
	}
	cmd.Flags().StringVar(&editName, "name", "", "new task name")
	cmd.Flags().StringVar(&editSubject, "subject", "", "new subject")
	cmd.Flags().StringVar(&editDate, "date", "", "new date YYYY-MM-DD")
	cmd.Flags().IntVar(&editEst, "est", 0, "new estimated minutes")
	cmd.Flags().StringVar(&editPriority, "priority", "", "new priority")
	return cmd
}

func runEditCmd(cmd *cobra.Command, args []string) error {
	return withPlanner(func(ctx context.Context, p *planner.Planner) error {
		id, err := resolveTaskID(p, args[0])
		if err != nil {
			return err
		}
		req := model.EditRequest{}
		if cmd.Flags().Changed("name") {
			req.Name = &editName
		}
		if cmd.Flags().Changed("subject") {
			req.Subject = &editSubject
		}
		if cmd.Flags().Changed("date") {
			req.Date = &editDate
		}
		if cmd.Flags().Changed("est") {
			req.EstMinutes = &editEst
		}
		if cmd.Flags().Changed("priority") {
			req.Priority = &editPriority
		}
		t, err := p.EditTask(ctx, id, req)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", t.Name)
		return err
	})
}

func newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done ID",
		Short: "Toggle a task's completed flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(func(ctx context.Context, p *planner.Planner) error {
				id, err := resolveTaskID(p, args[0])
				if err != nil {
					return err
				}
				t, err := p.ToggleComplete(ctx, id)
				if err != nil {
					return err
				}
				state := "pending"
				if t.Completed {
					state = "completed"
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%q is now %s\n", t.Name, state)
				return err
			})
		},
	}
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPlanner(func(ctx context.Context, p *planner.Planner) error {
				id, err := resolveTaskID(p, args[0])
				if err != nil {
					return err
				}
				removed, err := p.DeleteTask(ctx, id)
				if err != nil {
					return err
				}
				if !removed {
					return model.ErrNotFound
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
				return err
			})
		},
	}
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log MINUTES",
		Short: "Log studied minutes without running the timer",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogCmd,
	}
	cmd.Flags().StringVar(&logTaskID, "task", "", "task id to credit the time to")
	return cmd
}

func runLogCmd(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[0])
	if err != nil || minutes <= 0 {
		return fmt.Errorf("%w: minutes must be a positive integer", model.ErrInvalidInput)
	}
	return withPlanner(func(ctx context.Context, p *planner.Planner) error {
		taskID := timer.NoTask
		if logTaskID != "" {
			id, err := resolveTaskID(p, logTaskID)
			if err != nil {
				return err
			}
			taskID = id
		}
		if err := p.LogSession(ctx, timer.Result{Minutes: minutes, TaskID: taskID}); err != nil {
			return err
		}
		hours := stats.FormatHours(float64(minutes) / 60)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Logged %d minutes (%s hrs).\n", minutes, hours)
		return err
	})
}

func newGoalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "goal HOURS",
		Short: "Set the daily study goal in hours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("%w: goal must be a number of hours", model.ErrInvalidInput)
			}
			return withPlanner(func(ctx context.Context, p *planner.Planner) error {
				if err := p.SetGoal(ctx, hours); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Daily goal updated to %s hrs.\n", stats.FormatHours(hours))
				return err
			})
		},
	}
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show weekly aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPlanner(func(_ context.Context, p *planner.Planner) error {
				out := cmd.OutOrStdout()
				if err := stats.RenderSummary(out, p.Summary()); err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out, ""); err != nil {
					return err
				}
				today := clock.DayIndex(p.Clock().Now())
				barWidth := stats.TerminalWidth() - 16
				return stats.RenderWeekBars(out, p.Ledger().WeekData(), today, barWidth)
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the weekly hours as CSV",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	return withPlanner(func(_ context.Context, p *planner.Planner) error {
		week := p.Ledger().WeekData()
		if exportOut == "" {
			return stats.WriteCSV(cmd.OutOrStdout(), week)
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		if err := stats.WriteCSV(f, week); err != nil {
			if cerr := f.Close(); cerr != nil {
				// Best-effort close after a write failure.
				_ = cerr
			}
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close export file: %w", err)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", exportOut)
		return err
	})
}

func newResetWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-week",
		Short: "Zero this week's hours and re-anchor to the current Monday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPlanner(func(ctx context.Context, p *planner.Planner) error {
				if err := p.ResetWeek(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Week reset.")
				return err
			})
		},
	}
}

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Edit freeform notes in $EDITOR",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withPlanner(func(ctx context.Context, p *planner.Planner) error {
				edited, err := editInEditor("studa-notes-*.md", p.Notes())
				if err != nil {
					return err
				}
				return p.SetNotes(ctx, edited)
			})
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return openEditor(path)
}

// resolveTaskID accepts a full task id or an unambiguous prefix.
func resolveTaskID(p *planner.Planner, arg string) (string, error) {
	if _, err := p.Tasks().Find(arg); err == nil {
		return arg, nil
	}
	matches := []string{}
	for _, t := range p.Tasks().Tasks() {
		if strings.HasPrefix(t.ID, arg) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", model.ErrNotFound
	default:
		return "", fmt.Errorf("%w: id prefix %q is ambiguous", model.ErrInvalidInput, arg)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openEditor(path string) error {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return errors.New("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// editInEditor round-trips text through a temp file in $EDITOR.
func editInEditor(pattern, text string) (string, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil {
			// Best-effort temp cleanup.
			_ = rerr
		}
	}()
	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := openEditor(tmpPath); err != nil {
		return "", err
	}
	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read temp file: %w", err)
	}
	return string(edited), nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# studa configuration
# Uncomment a value to enable it. Values stored in the planner database
# take precedence once set from the app.

[planner]
# goal = %.1f            # Daily study goal in hours
# theme = %q          # "dark" or "light"
# db = ""                # Override the database path
`,
		stats.DefaultDailyGoal,
		planner.ThemeLight,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
