package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codalotl/halmos-report/internal/output"
	"github.com/codalotl/halmos-report/internal/report"
	"github.com/codalotl/halmos-report/internal/types"
	"github.com/codalotl/halmos-report/internal/value"
)

func newCounterexamplesCmd(a *app) *cobra.Command {
	return silenceUsageAndErrors(&cobra.Command{
		Use:     "counterexamples [path]",
		Aliases: []string{"cex"},
		Short:   "Print every test with its decoded counterexamples (default)",
		Args:    cobra.MaximumNArgs(1),
		RunE:    a.runDetailed,
	})
}

func newSummaryCmd(a *app) *cobra.Command {
	return silenceUsageAndErrors(&cobra.Command{
		Use:   "summary [path]",
		Short: "Print exit codes, path counts, and timings per test",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.eachDocument(cmd, args, report.WriteSummary)
		},
	})
}

func newTableCmd(a *app) *cobra.Command {
	return silenceUsageAndErrors(&cobra.Command{
		Use:   "table [path]",
		Short: "Write one CSV row per test result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.load(args)
			if err != nil {
				return err
			}
			opts, err := a.options()
			if err != nil {
				return err
			}
			return report.WriteCSV(cmd.OutOrStdout(), mergeDocuments(docs), opts)
		},
	})
}

// mergeDocuments combines documents into one report so the CSV has a single header. Contracts keep the
// order of their first appearance.
func mergeDocuments(docs []report.Document) *types.Report {
	if len(docs) == 1 {
		return docs[0].Report
	}
	merged := map[string][]types.TestResult{}
	var order []string
	exitCode := 0
	for _, d := range docs {
		exitCode = max(exitCode, d.Report.ExitCode)
		for _, contract := range d.Report.Contracts() {
			if _, ok := merged[contract]; !ok {
				order = append(order, contract)
			}
			merged[contract] = append(merged[contract], d.Report.TestResults[contract]...)
		}
	}
	return types.NewReport(exitCode, order, merged)
}

func newFormatCmd(a *app) *cobra.Command {
	var name string
	cmd := silenceUsageAndErrors(&cobra.Command{
		Use:   "format <type> <value>",
		Short: "Decode a single raw value as the given Solidity type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := types.ParseValue(args[1])
			if err != nil {
				return err
			}
			sel, err := a.cfg.SelectorTable()
			if err != nil {
				return err
			}
			out, err := value.New(sel).Format(raw.Int(), args[0], name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	})
	cmd.Flags().StringVar(&name, "name", "", "display name of the variable (\"selector\" annotates bytes4 values)")
	return cmd
}

func (a *app) runDetailed(cmd *cobra.Command, args []string) error {
	return a.eachDocument(cmd, args, report.WriteDetailed)
}

type writeFunc func(*output.Printer, *types.Report, report.Options) error

// eachDocument prints every loaded document with write, announcing each by path.
func (a *app) eachDocument(cmd *cobra.Command, args []string, write writeFunc) error {
	docs, err := a.load(args)
	if err != nil {
		return err
	}
	opts, err := a.options()
	if err != nil {
		return err
	}
	p := a.printer(cmd.OutOrStdout())
	for i, d := range docs {
		if i > 0 {
			if err := p.Text(0, ""); err != nil {
				return err
			}
		}
		if err := p.Textf(0, "Analyzing Halmos output from %s", d.Path); err != nil {
			return err
		}
		if err := write(p, d.Report, opts); err != nil {
			return fmt.Errorf("%s: %w", d.Path, err)
		}
	}
	return nil
}
