package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	charmlog "github.com/charmbracelet/log"
	"github.com/shhac/anchortea/internal/config"
	"github.com/shhac/anchortea/internal/overlay"
	"github.com/shhac/anchortea/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// overrides are flag values that replace config file settings.
type overrides struct {
	placement string
	align     string
	collision string
}

// Execute runs the anchortea CLI.
//
// Logging:
//   - Default: info level, written to --log-file
//   - With --verbose (-v): debug level, including every overlay transition
//
// With --dev, overlay logic errors such as a listener leak panic instead of
// being logged.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		dev        bool
		logFile    string
		configPath string
		flags      overrides
	)

	root := &cobra.Command{
		Use:          "anchortea",
		Short:        "anchortea demonstrates anchored overlays in the terminal",
		Long:         `anchortea opens a terminal page with dropdowns, tooltips, a searchable select and a sub-menu, all positioned by the same anchored-overlay engine.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTerminal(os.Stdout.Fd()); err != nil {
				return err
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := applyOverrides(cfg, flags); err != nil {
				return err
			}

			if logFile == "" {
				logFile = config.DefaultLogPath()
			}
			f, err := openLog(logFile)
			if err != nil {
				return err
			}
			defer f.Close()

			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(f, level)
			logger.Info("starting", "version", version, "config", configPath, "collision", cfg.Collision, "dev", dev)

			app, err := ui.NewApp(ui.Options{Config: cfg, ConfigPath: configPath, Logger: logger, Assertions: dev})
			if err != nil {
				return err
			}
			p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("program failed: %w", err)
			}
			logger.Info("exited")
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("anchortea %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().BoolVar(&dev, "dev", false, "development mode: overlay logic errors panic")
	root.Flags().StringVar(&logFile, "log-file", "", "log file (default: anchortea.log in the config directory)")
	root.Flags().StringVar(&configPath, "config", "", "config file, .json, .toml or .yaml (default: config directory)")
	root.Flags().StringVar(&flags.placement, "placement", "", "placement for every overlay: top, bottom, left or right")
	root.Flags().StringVar(&flags.align, "align", "", "alignment for every overlay: start, center or end")
	root.Flags().StringVar(&flags.collision, "collision", "", "collision policy: clamp or flip")

	return root
}

var errNoTerminal = errors.New("anchortea needs an interactive terminal")

// requireTerminal fails when fd is not a terminal, such as when output is
// piped, since the program draws a full-screen UI.
func requireTerminal(fd uintptr) error {
	if !term.IsTerminal(int(fd)) {
		return errNoTerminal
	}
	return nil
}

// applyOverrides copies non-empty flag values into cfg after checking them.
func applyOverrides(cfg *config.Config, o overrides) error {
	if o.placement != "" {
		if _, err := overlay.ParsePlacement(o.placement); err != nil {
			return fmt.Errorf("--placement: %w", err)
		}
	}
	if o.align != "" {
		if _, err := overlay.ParseAlignment(o.align); err != nil {
			return fmt.Errorf("--align: %w", err)
		}
	}
	if o.collision != "" {
		if _, err := overlay.ParseCollisionPolicy(o.collision); err != nil {
			return fmt.Errorf("--collision: %w", err)
		}
		cfg.Collision = o.collision
	}
	for _, s := range []*config.OverlaySettings{&cfg.Dropdown, &cfg.Tooltip, &cfg.Select, &cfg.Submenu} {
		if o.placement != "" {
			s.Placement = o.placement
		}
		if o.align != "" {
			s.Alignment = o.align
		}
	}
	return nil
}
