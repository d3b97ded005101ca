// Command fsd checks, formats and exports service definitions.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fsdgo/fsd"
	"github.com/fsdgo/fsd/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK      = 0 // success
	exitError   = 1 // usage error or I/O failure
	exitInvalid = 2 // a definition has errors or is not formatted
)

// errInvalid reports that diagnostics were printed and the command
// should fail without printing anything more.
var errInvalid = errors.New("invalid service definition")

type cli struct {
	configPath  string
	color       string
	verbose     int
	excludeTags []string

	cfg    fileConfig
	logger *slog.Logger
	pal    palette
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(&cli{})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errInvalid):
		return exitInvalid
	default:
		cliutil.PrintError(stderr, "%v", err)
		return exitError
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "fsd",
		Short:         "Service definition checker and formatter",
		Long:          "fsd parses service definitions, reports their errors, and formats or exports them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: nearest "+configFileName+")")
	flags.StringVar(&c.color, "color", "auto", "colorize output (auto|on|off)")
	flags.CountVarP(&c.verbose, "verbose", "v", "enable debug logging (-vv for trace)")
	flags.StringSliceVar(&c.excludeTags, "exclude-tag", nil, "exclude elements with this tag (repeatable)")

	root.AddCommand(newCheckCmd(c), newFormatCmd(c), newDumpCmd(c), newVersionCmd())
	return root
}

// setup loads the config file and applies flag overrides.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("color") || cfg.Color == "" {
		cfg.Color = c.color
	}
	cfg.ExcludeTags = append(cfg.ExcludeTags, c.excludeTags...)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = c.setupLogger(cmd.ErrOrStderr())
	c.pal = newPalette(useColor(cfg.Color, cmd.OutOrStdout()))
	return nil
}

func (c *cli) setupLogger(w io.Writer) *slog.Logger {
	if c.verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.verbose >= 2 {
		level = fsd.LevelTrace
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func (c *cli) parseOptions() []fsd.ParseOption {
	if c.logger == nil {
		return nil
	}
	return []fsd.ParseOption{fsd.WithLogger(c.logger)}
}

// useColor resolves a color mode against the output.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f) && os.Getenv("NO_COLOR") == ""
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// sourceFor returns a source listing every path: definition files as
// given and directories searched recursively.
func sourceFor(paths []string) (fsd.Source, error) {
	var sources []fsd.Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			sources = append(sources, fsd.Files(p))
			continue
		}
		src, err := fsd.DirTree(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, fsd.ErrNoSources
	}
	return fsd.Multi(sources...), nil
}

// palette holds the colors used for diagnostics.
type palette struct {
	location *color.Color
	severity *color.Color
	caret    *color.Color
	summary  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		location: color.New(color.Bold),
		severity: color.New(color.FgRed, color.Bold),
		caret:    color.New(color.FgGreen, color.Bold),
		summary:  color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.location, p.severity, p.caret, p.summary} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}
