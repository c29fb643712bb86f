package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/groupspin/internal/session"
	"github.com/Iron-Ham/groupspin/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [names...]",
	Short: "Start an interactive roulette session",
	Long: `Start an interactive roulette session.

This launches the TUI: pick a participant and stop the wheel to place them,
or press 'a' to let the roulette assign everyone in turn. When stdout is
not a terminal the session falls back to a headless draw.`,
	RunE: runStart,
}

var (
	startRoster string
	startGroups int
	startSeed   string
)

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&startRoster, "roster", "r", "", "Roster file (YAML list, YAML mapping, or one name per line)")
	startCmd.Flags().IntVarP(&startGroups, "groups", "n", 0, "Number of groups (overrides groups.count)")
	startCmd.Flags().StringVar(&startSeed, "seed", "", "Placement seed (overrides placement.seed)")
}

func runStart(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		drawRoster, drawGroups, drawSeed = startRoster, startGroups, startSeed
		drawAnimate, drawFormat = false, drawFormatText
		return runDraw(cmd, args)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, cfg, startGroups, startSeed); err != nil {
		return err
	}

	r, err := resolveRoster(cfg, args, startRoster)
	if err != nil {
		return err
	}

	logger := openLogger(cfg)
	defer func() { _ = logger.Close() }()

	sched := tui.NewScheduler()
	ctrl, err := session.NewController(session.SettingsFromConfig(cfg, r.Names()), session.Deps{
		Scheduler: sched,
		Chooser:   session.ChooserFromConfig(cfg.Placement),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := tui.New(ctrl, sched, tui.Options{
		Theme:         cfg.TUI.Theme,
		BlinkCount:    cfg.TUI.BlinkCount,
		BlinkInterval: cfg.TUI.BlinkInterval(),
		Emoji:         cfg.TUI.Emoji,
		ShowHelp:      cfg.TUI.ShowHelp,
		Logger:        logger,
	})
	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Leave the result on the normal screen once the alt screen is gone.
	if len(ctrl.Unassigned()) < len(ctrl.Roster()) {
		return printGroups(cmd.OutOrStdout(), ctrl, drawFormatText, cfg.TUI.Theme)
	}
	return nil
}
