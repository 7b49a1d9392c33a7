package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/genricoloni/spotui/internal/config"
	"github.com/genricoloni/spotui/internal/layout"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"golang.org/x/term"
)

const (
	startTimeout = 15 * time.Second
	stopTimeout  = 5 * time.Second
)

var errNotTerminal = errors.New("spotui needs an interactive terminal")

var (
	cfgFile  string
	backend  string
	interval time.Duration
	debug    bool

	layoutWidth  int
	layoutHeight int
)

var rootCmd = &cobra.Command{
	Use:   "spotui",
	Short: "Adaptive terminal dashboard for Spotify",
	Long: `spotui shows what is playing, the album art as colored text and a
command line for playback, search and playlists.

The dashboard talks to the Spotify desktop app over MPRIS (backend "mpris")
or to the Spotify Web API with an access token (backend "webapi").`,
	SilenceUsage: true,
	RunE:         runDashboard,
}

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the panel geometry for the current terminal",
	Args:  cobra.NoArgs,
	RunE:  runLayout,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/spotui/config.toml)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "playback backend: mpris or webapi")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", 0, "refresh interval (default 1s)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug logs")

	layoutCmd.Flags().IntVar(&layoutWidth, "width", 0, "terminal width (default: current terminal)")
	layoutCmd.Flags().IntVar(&layoutHeight, "height", 0, "terminal height (default: current terminal)")
	rootCmd.AddCommand(layoutCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() config.Options {
	return config.Options{
		Path:     cfgFile,
		Backend:  backend,
		Interval: interval,
		Debug:    debug,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return errNotTerminal
	}

	opts := options()
	cfg, err := config.Load(opts)
	if err != nil {
		return err
	}

	app := fx.New(appOptions(cfg, opts))
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(cmd.Context(), startTimeout)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("starting spotui: %w", err)
	}

	// Wait for the dashboard to exit or a signal
	sig := <-app.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	err = app.Stop(stopCtx)
	if sig.ExitCode != 0 {
		err = multierr.Append(err, fmt.Errorf("dashboard exited with code %d (see %s)", sig.ExitCode, cfg.LogFile))
	}
	return err
}

func runLayout(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(options())
	if err != nil {
		return err
	}

	width, height := layoutWidth, layoutHeight
	if width <= 0 || height <= 0 {
		w, h, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return fmt.Errorf("reading terminal size (pass --width and --height): %w", err)
		}
		if width <= 0 {
			width = w
		}
		if height <= 0 {
			height = h
		}
	}

	printLayout(cmd.OutOrStdout(), layout.ParseNarrowTable(cfg.Layout.Narrow), width, height)
	return nil
}

// printLayout writes the breakpoint, the span table and the cell rectangles
func printLayout(out io.Writer, narrow layout.NarrowTable, width, height int) {
	g := layout.ComputeWith(narrow, width, height)
	placements := layout.Place(g)
	rects := map[layout.Panel]layout.Rect{}
	for _, box := range layout.Frame(placements, width, height) {
		rects[box.Panel] = box.Rect
	}

	fmt.Fprintf(out, "%dx%d: %s\n\n", width, height, g.Breakpoint)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PANEL\tVISIBLE\tCOLS\tROWS\tCELLS")
	for _, p := range layout.Panels {
		span := g.Of(p)
		cells := "-"
		if r, ok := rects[p]; ok {
			cells = fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
		}
		fmt.Fprintf(tw, "%s\t%v\t%d\t%d\t%s\n", p, span.Visible, span.ColumnSpan, span.RowSpan, cells)
	}
	_ = tw.Flush()
}
