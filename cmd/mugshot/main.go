// Package main provides the CLI entrypoint for mugshot.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/mugshot/internal/config"
	"github.com/verte-zerg/mugshot/internal/model"
	"github.com/verte-zerg/mugshot/internal/points"
	"github.com/verte-zerg/mugshot/internal/session"
	"github.com/verte-zerg/mugshot/internal/stats"
	"github.com/verte-zerg/mugshot/internal/statsui"
	"github.com/verte-zerg/mugshot/internal/store"
	"github.com/verte-zerg/mugshot/internal/tui"
)

const defaultStatsWindow = 5

var (
	flagDB       string
	flagKey      string
	flagMemory   bool
	flagLogLevel string

	statsSince  string
	statsLast   int
	statsWindow int
	statsUI     bool

	resetYes bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "mugshot",
		Short:         "Match the mugshot to the crime",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagDB, "db", "", "SQLite database path")
	flags.StringVar(&flagKey, "key", model.DefaultStorageKey, "storage key for saved points")
	flags.BoolVar(&flagMemory, "memory", false, "keep points in memory only")
	flags.StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "play",
		Short: "Play a session",
		Args:  cobra.NoArgs,
		RunE:  runPlayCmd,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "score",
		Short: "Show saved points and best score",
		Args:  cobra.NoArgs,
		RunE:  runScoreCmd,
	})
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	})

	return rootCmd
}

// app holds the wiring shared by every command.
type app struct {
	settings config.Settings
	log      zerolog.Logger
	db       *store.DB
	store    points.Store
	logFile  *os.File
}

func newApp(cmd *cobra.Command, logTo io.Writer) (*app, error) {
	if err := config.LoadEnvFile(config.DefaultEnvPath()); err != nil {
		return nil, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	settings := config.Defaults()
	settings.ApplyFile(fileCfg)

	bootLog := newLogger(os.Stderr, settings.LogLevel)
	settings.ApplyEnv(bootLog)
	applyFlags(cmd, &settings)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	a := &app{settings: settings}
	if logTo == nil {
		f, err := openLogFile(config.DefaultLogPath())
		if err != nil {
			return nil, err
		}
		a.logFile = f
		logTo = f
	}
	a.log = newLogger(logTo, settings.LogLevel)

	if settings.InMemory {
		a.store = store.NewMemory()
		return a, nil
	}
	db, err := store.Open(settings.DBPath)
	if err != nil {
		// The game stays playable without persistence.
		a.log.Warn().Err(err).Str("path", settings.DBPath).Msg("failed to open db; keeping points in memory")
		a.store = store.NewMemory()
		return a, nil
	}
	a.db = db
	durable, err := store.NewDurable(db, settings.Storage.StorageKey, store.WithDurableLogger(a.log))
	if err != nil {
		a.close()
		return nil, err
	}
	a.store = durable
	return a, nil
}

func (a *app) newManager(autoSave bool) (*points.Manager, error) {
	storageCfg := a.settings.Storage
	if !autoSave {
		storageCfg.AutoSaveInterval = 0
	}
	return points.NewManager(a.store, a.settings.Scoring, storageCfg,
		points.WithLogger(a.log),
		points.WithRateLimit(a.settings.RateLimit),
	)
}

// history returns nil when sessions cannot be recorded.
func (a *app) history() session.History {
	if a.db == nil {
		return nil
	}
	return a.db
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error().Err(err).Msg("failed to close db")
		}
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	manager, err := a.newManager(true)
	if err != nil {
		return err
	}
	ctx := context.Background()
	sess := session.New(manager, a.history(), a.log)
	sess.Start(ctx)

	program := tea.NewProgram(tui.NewModel(ctx, sess), tea.WithAltScreen())
	_, runErr := program.Run()

	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	sess.Close(closeCtx)
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}
	return nil
}

func runScoreCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	manager, err := a.newManager(false)
	if err != nil {
		return err
	}
	manager.LoadSavedState(context.Background())

	out := cmd.OutOrStdout()
	label := lipgloss.NewStyle()
	value := lipgloss.NewStyle()
	if isTerminal(out) {
		label = label.Foreground(lipgloss.Color("#8C8C8C"))
		value = value.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	}
	_, err = fmt.Fprintf(out, "%s %s\n%s %s\n",
		label.Render("Points:"), value.Render(fmt.Sprintf("%d", manager.CurrentPoints())),
		label.Render("Best:  "), value.Render(fmt.Sprintf("%d", manager.HighScore())),
	)
	return err
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsWindow, "window", defaultStatsWindow, "moving average window")
	cmd.Flags().BoolVar(&statsUI, "ui", false, "browse sessions interactively")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	a, err := newApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()
	if a.db == nil {
		return fmt.Errorf("session history needs a database (drop --memory)")
	}

	cfg := model.StatsConfig{Since: sinceTime, Last: statsLast, Window: statsWindow}
	if statsUI {
		program := tea.NewProgram(statsui.NewModel(a.db, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats UI: %w", err)
		}
		return nil
	}
	report, err := stats.BuildReport(context.Background(), a.db, cfg)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return err
	}
	if err := stats.RenderCurve(out, report.Sessions, report.Window); err != nil {
		return err
	}
	return stats.RenderSessions(out, report.Sessions)
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase saved points and best score",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm erasing saved points")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to erase saved points without --yes")
	}
	a, err := newApp(cmd, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()

	manager, err := a.newManager(false)
	if err != nil {
		return err
	}
	if err := manager.ClearAllData(context.Background()); err != nil {
		return fmt.Errorf("failed to clear points: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Saved points cleared.")
	return err
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

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
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

func applyFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("db") {
		s.DBPath = flagDB
	}
	if flags.Changed("key") {
		s.Storage.StorageKey = flagKey
	}
	if flags.Changed("memory") {
		s.InMemory = flagMemory
	}
	if flags.Changed("log-level") {
		s.LogLevel = flagLogLevel
	}
}

func newLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: !isTerminal(w)}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# mugshot configuration
# Uncomment a value to enable it. Environment (MUGSHOT_*) and CLI flags override config values.

[scoring]
# base-points = %d               # Points for a correct match
# time-bonus = %d                # Extra points for a fast match
# time-bonus-threshold-ms = %d # A match faster than this earns the bonus
# attempt-penalty = %d           # Deducted per extra attempt

[storage]
# key = %q        # Namespace for saved points
# auto-save-ms = %d          # 0 disables periodic saves
# db = "/path/to/mugshot.db"    # SQLite database
# memory = false                # Keep points in memory only

[rate-limit]
# window-seconds = %d            # Sliding window length
# cap = %d                     # Max points credited per window
`,
		model.DefaultBasePoints,
		model.DefaultTimeBonus,
		model.DefaultTimeBonusThresholdMs,
		model.DefaultAttemptPenalty,
		model.DefaultStorageKey,
		model.DefaultAutoSaveInterval.Milliseconds(),
		int(model.DefaultRateWindow.Seconds()),
		model.DefaultRateCap,
	)
}
