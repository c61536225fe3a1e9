package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/codalotl/halmos-report/internal/ansi"
	"github.com/codalotl/halmos-report/internal/config"
	"github.com/codalotl/halmos-report/internal/logging"
	"github.com/codalotl/halmos-report/internal/output"
	"github.com/codalotl/halmos-report/internal/report"
	"github.com/codalotl/halmos-report/internal/value"
)

const flagsEnvVar = "HALMOS_REPORT_FLAGS"

// Execute runs the CLI with the process arguments.
func Execute() error {
	args, err := withEnvFlags(os.Getenv(flagsEnvVar), os.Args[1:])
	if err != nil {
		return err
	}
	root := newRootCmd()
	root.SetArgs(args)
	executed, err := root.ExecuteC()
	if err != nil {
		maybePrintUsage(executed, root, err)
	}
	return err
}

// withEnvFlags prepends shell-split flags from env so explicit arguments win.
func withEnvFlags(env string, args []string) ([]string, error) {
	if strings.TrimSpace(env) == "" {
		return args, nil
	}
	extra, err := shellwords.Parse(env)
	if err != nil {
		return nil, fmt.Errorf("parse $%s: %w", flagsEnvVar, err)
	}
	return append(extra, args...), nil
}

// app carries state shared by all subcommands once flags are parsed.
type app struct {
	configPath string
	color      string
	verbose    bool
	contracts  []string
	failedOnly bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := silenceUsageAndErrors(&cobra.Command{
		Use:   "halmos-report [path]",
		Short: "Summarize halmos JSON test reports and decode counterexamples.",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDetailed(cmd, args)
		},
	})
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: ./"+config.FileName+" if present)")
	flags.StringVar(&a.color, "color", "", "color output: auto, always, never")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")
	flags.StringSliceVar(&a.contracts, "contracts", nil, "comma-separated contracts to include (default: all)")
	flags.BoolVar(&a.failedOnly, "failed-only", false, "only include tests with a nonzero exit code")

	root.AddCommand(newCounterexamplesCmd(a))
	root.AddCommand(newSummaryCmd(a))
	root.AddCommand(newTableCmd(a))
	root.AddCommand(newFormatCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	dir, _ := os.Getwd()
	cfg, err := config.Load(dir, a.configPath)
	if err != nil {
		return err
	}
	if a.color != "" {
		if err := config.ValidateColor(a.color); err != nil {
			return err
		}
		cfg.Color = a.color
	}
	if len(a.contracts) > 0 {
		cfg.Contracts = a.contracts
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = zapcore.DebugLevel
	}
	a.cfg = cfg
	a.logger = logging.New(cmd.ErrOrStderr(), level)
	a.logger.Debug("config loaded",
		zap.String("color", cfg.Color),
		zap.Strings("contracts", cfg.Contracts),
		zap.Int("extra_selectors", len(cfg.Selectors)))
	return nil
}

func (a *app) printer(w io.Writer) *output.Printer {
	env := ansi.Env{Getenv: os.Getenv}
	if f, ok := w.(*os.File); ok {
		env = ansi.OSEnv(f)
	}
	mode := ansi.Mode(a.cfg.Color)
	if mode == "" {
		mode = ansi.ModeAuto
	}
	return output.NewPrinter(w, ansi.ColorProfile(mode, env))
}

func (a *app) options() (report.Options, error) {
	sel, err := a.cfg.SelectorTable()
	if err != nil {
		return report.Options{}, err
	}
	return report.Options{
		Contracts:  a.cfg.Contracts,
		FailedOnly: a.failedOnly,
		Formatter:  value.New(sel),
	}, nil
}

// load resolves the report path and decodes every document it names. Document paths are rewritten to
// the form the user supplied; the resolved path is only used for reading.
func (a *app) load(args []string) ([]report.Document, error) {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	dir, _ := os.Getwd()
	shown := a.cfg.ReportArg(arg)
	path := a.cfg.ReportPath(dir, arg)
	a.logger.Debug("resolved report path", zap.String("path", path))
	docs, err := report.LoadAll(path)
	if err != nil {
		if report.IsNotFound(err) {
			return nil, fmt.Errorf("report not found at %s: %w", path, err)
		}
		return nil, err
	}
	for i := range docs {
		docs[i].Path = displayPath(shown, path, docs[i].Path)
	}
	for _, d := range docs {
		tests := 0
		for _, results := range d.Report.TestResults {
			tests += len(results)
		}
		a.logger.Debug("report decoded",
			zap.String("path", d.Path),
			zap.Int("contracts", len(d.Report.TestResults)),
			zap.Int("tests", tests))
	}
	return docs, nil
}

// displayPath maps loaded, a file at or beneath resolved, onto shown.
func displayPath(shown, resolved, loaded string) string {
	rel, err := filepath.Rel(resolved, loaded)
	if err != nil || rel == "." {
		return shown
	}
	return filepath.Join(shown, rel)
}

func silenceUsageAndErrors(cmd *cobra.Command) *cobra.Command {
	silenceErrors(cmd)
	cmd.SilenceUsage = true
	return cmd
}

func silenceErrors(cmd *cobra.Command) *cobra.Command {
	cmd.SilenceErrors = true
	return cmd
}

func maybePrintUsage(cmd, root *cobra.Command, err error) {
	if err == nil {
		return
	}
	target := cmd
	if target == nil {
		target = root
	}
	if target == nil {
		return
	}
	if shouldShowUsage(err) {
		_ = target.Usage()
	}
}

func shouldShowUsage(err error) bool {
	msg := strings.ToLower(err.Error())
	if strings.HasPrefix(msg, "unknown command") {
		return true
	}
	if strings.HasPrefix(msg, "unknown flag") || strings.HasPrefix(msg, "unknown shorthand flag") {
		return true
	}
	if strings.Contains(msg, "accepts") && strings.Contains(msg, "arg") {
		return true
	}
	if strings.Contains(msg, "requires at least") && strings.Contains(msg, "arg") {
		return true
	}
	if strings.Contains(msg, "requires at most") && strings.Contains(msg, "arg") {
		return true
	}
	if strings.Contains(msg, "flag needs an argument") {
		return true
	}
	if strings.HasPrefix(msg, "invalid argument") {
		return true
	}
	return false
}
