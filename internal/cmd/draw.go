package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/groupspin/internal/config"
	"github.com/Iron-Ham/groupspin/internal/event"
	"github.com/Iron-Ham/groupspin/internal/roster"
	"github.com/Iron-Ham/groupspin/internal/session"
	"github.com/Iron-Ham/groupspin/internal/timer"
	"github.com/Iron-Ham/groupspin/internal/tui/styles"
	"github.com/Iron-Ham/groupspin/internal/tui/view"
)

// Output formats for draw results
const (
	drawFormatText = "text"
	drawFormatYAML = "yaml"
)

var drawCmd = &cobra.Command{
	Use:   "draw [names...]",
	Short: "Assign the whole roster without the TUI",
	Long: `Assign every participant to a group and print the result.

Participants are taken from the arguments, the --roster file, or the
roster section of the config, in that order. Without --animate the draw
completes immediately; with --animate each spin plays out in real time
and the travelling highlight is printed as it moves.

Examples:
  groupspin draw Ada Bo Cy Dee -n 2
  groupspin draw --roster class.yaml --seed monday --format yaml
  groupspin draw --animate`,
	RunE: runDraw,
}

var (
	drawRoster  string
	drawGroups  int
	drawSeed    string
	drawAnimate bool
	drawFormat  string
)

func init() {
	rootCmd.AddCommand(drawCmd)

	drawCmd.Flags().StringVarP(&drawRoster, "roster", "r", "", "Roster file (YAML list, YAML mapping, or one name per line)")
	drawCmd.Flags().IntVarP(&drawGroups, "groups", "n", 0, "Number of groups (overrides groups.count)")
	drawCmd.Flags().StringVar(&drawSeed, "seed", "", "Placement seed for a reproducible draw (overrides placement.seed)")
	drawCmd.Flags().BoolVar(&drawAnimate, "animate", false, "Play every spin in real time")
	drawCmd.Flags().StringVarP(&drawFormat, "format", "f", drawFormatText, "Output format: text, yaml")
}

func runDraw(cmd *cobra.Command, args []string) error {
	if drawFormat != drawFormatText && drawFormat != drawFormatYAML {
		return fmt.Errorf("unsupported format: %s (supported: %s, %s)", drawFormat, drawFormatText, drawFormatYAML)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyOverrides(cmd, cfg, drawGroups, drawSeed); err != nil {
		return err
	}

	r, err := resolveRoster(cfg, args, drawRoster)
	if err != nil {
		return err
	}

	logger := openLogger(cfg)
	defer func() { _ = logger.Close() }()

	out := cmd.OutOrStdout()
	deps := session.Deps{
		Chooser: session.ChooserFromConfig(cfg.Placement),
		Logger:  logger,
	}

	var ctrl *session.Controller
	if drawAnimate {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctrl, err = drawAnimated(ctx, out, cfg, r, deps)
	} else {
		ctrl, err = session.NewController(session.SettingsFromConfig(cfg, r.Names()), deps)
		if err == nil {
			ctrl.StartAuto()
		}
	}
	if err != nil {
		return err
	}

	if !ctrl.Done() {
		fmt.Fprintf(cmd.ErrOrStderr(), "Draw interrupted with %d participants waiting\n", len(ctrl.Unassigned()))
	}
	return printGroups(out, ctrl, drawFormat, cfg.TUI.Theme)
}

// applyOverrides folds the --groups and --seed flags into cfg when they
// were set, and revalidates it.
func applyOverrides(cmd *cobra.Command, cfg *config.Config, groups int, seed string) error {
	if cmd.Flags().Changed("groups") {
		cfg.Groups.Count = groups
	}
	if cmd.Flags().Changed("seed") {
		cfg.Placement.Seed = seed
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", config.ValidationErrors(errs))
	}
	return nil
}

// drawAnimated runs an auto-assign pass on a real-time timer loop, writing
// each highlight step and landing to out. It returns once everyone has a
// group or ctx is cancelled.
func drawAnimated(ctx context.Context, out io.Writer, cfg *config.Config, r roster.Roster, deps session.Deps) (*session.Controller, error) {
	loop := timer.NewLoop()
	deps.Scheduler = loop

	ctrl, err := session.NewController(session.SettingsFromConfig(cfg, r.Names()), deps)
	if err != nil {
		loop.Close()
		return nil, err
	}

	bus := ctrl.Bus()
	event.On(bus, event.TypeHighlight, func(e event.HighlightEvent) {
		if e.Group < 0 {
			return
		}
		fmt.Fprintf(out, "  ↻ %-16s %s\n", ctrl.GroupName(e.Group), e.Preview)
	})
	event.On(bus, event.TypeGroupAssigned, func(e event.GroupAssignedEvent) {
		fmt.Fprintf(out, "%s → %s (%d left)\n", e.Participant, e.GroupName, e.Remaining)
	})
	event.On(bus, event.TypeSessionCompleted, func(event.SessionCompletedEvent) {
		loop.Close()
	})

	if err := loop.Post(func() {
		if !ctrl.StartAuto() {
			loop.Close()
		}
	}); err != nil {
		loop.Close()
		return nil, err
	}

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return nil, err
	}
	return ctrl, nil
}

type drawResult struct {
	Session string      `yaml:"session"`
	Groups  []drawGroup `yaml:"groups"`
	Waiting []string    `yaml:"waiting,omitempty"`
}

type drawGroup struct {
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

func printGroups(w io.Writer, ctrl *session.Controller, format, theme string) error {
	groups := ctrl.Groups()
	names := make([]string, len(groups))
	for i := range groups {
		names[i] = ctrl.GroupName(i)
	}

	if format == drawFormatYAML {
		res := drawResult{Session: ctrl.ID(), Waiting: ctrl.Unassigned()}
		for i, g := range groups {
			res.Groups = append(res.Groups, drawGroup{Name: names[i], Members: g})
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	}

	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = tw
		}
	}
	panels := view.RenderGroups(view.GroupsState{
		Names:     names,
		Members:   groups,
		Highlight: -1,
		Blink:     -1,
		Width:     width,
	}, styles.ForTheme(theme))

	_, err := fmt.Fprintln(w, strings.TrimRight(panels, "\n"))
	return err
}
