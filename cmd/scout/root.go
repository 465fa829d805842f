package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cboone/scout/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scout",
		Short:         "Inspect HTML documents with scout locators",
		Long:          `scout resolves selectors, queries HTML files and checks conditions against them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("color", "", "colorize output (auto|on|off); overrides scout.toml")
	root.PersistentFlags().String("config", "", "path to scout.toml (default: search upwards from the working directory)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log resolution details to stderr")

	root.AddCommand(newResolveCmd())
	root.AddCommand(newQueryCmd())
	root.AddCommand(newAssertCmd())
	root.AddCommand(newMatchersCmd())
	return root
}

// env is what every subcommand needs from the global flags.
type env struct {
	cfg    config.Config
	out    io.Writer
	logger *zap.Logger
	pass   func(a ...any) string
	fail   func(a ...any) string
	dim    func(a ...any) string
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	cfg, err := config.Discover(".", configPath)
	if err != nil {
		return nil, err
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode := cfg.Output.Color
	if colorFlag != "" {
		mode = strings.ToLower(strings.TrimSpace(colorFlag))
	}
	useColor, err := shouldColor(mode, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	logger := zap.NewNop()
	if verbose {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{"stderr"}
		if logger, err = zcfg.Build(); err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	e := &env{cfg: cfg, out: cmd.OutOrStdout(), logger: logger}
	e.pass = colorFunc(useColor, color.FgGreen, color.Bold)
	e.fail = colorFunc(useColor, color.FgRed, color.Bold)
	e.dim = colorFunc(useColor, color.Faint)
	return e, nil
}

func shouldColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case config.ColorOn:
		return true, nil
	case config.ColorOff:
		return false, nil
	case "", config.ColorAuto:
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func colorFunc(enabled bool, attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}
