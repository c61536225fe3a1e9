// Package report renders decoded halmos reports for people and spreadsheets.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/codalotl/halmos-report/internal/counterexample"
	"github.com/codalotl/halmos-report/internal/output"
	"github.com/codalotl/halmos-report/internal/types"
	"github.com/codalotl/halmos-report/internal/value"
)

const ruleWidth = 60

type Options struct {
	// Contracts limits output to these contract names. Empty means all.
	Contracts []string
	// FailedOnly skips tests whose exit code is zero.
	FailedOnly bool
	// Formatter renders counterexample values. Nil means the built-in selector table.
	Formatter *value.Formatter
}

// Group is one contract and its selected test results.
type Group struct {
	Contract string
	Tests    []types.TestResult
}

// Select applies opts to rep, keeping document order. Contracts left with no tests are dropped only when a
// filter removed them.
func Select(rep *types.Report, opts Options) []Group {
	contractSet := sliceToSet(opts.Contracts)
	var out []Group
	for _, contract := range rep.Contracts() {
		if contractSet != nil && !contractSet[contract] {
			continue
		}
		tests := rep.TestResults[contract]
		if opts.FailedOnly {
			var failed []types.TestResult
			for _, tr := range tests {
				if tr.ExitCode != 0 {
					failed = append(failed, tr)
				}
			}
			if len(failed) == 0 {
				continue
			}
			tests = failed
		}
		out = append(out, Group{Contract: contract, Tests: tests})
	}
	return out
}

// WriteDetailed prints every selected test with its timings and, when it has valid models, the
// counterexample buckets.
func WriteDetailed(p *output.Printer, rep *types.Report, opts Options) error {
	if rep == nil {
		return errors.New("report is nil")
	}
	f := opts.Formatter
	if f == nil {
		f = value.New(value.BuiltinSelectors())
	}
	for _, g := range Select(rep, opts) {
		if err := p.Heading(0, "Contract: "+g.Contract); err != nil {
			return err
		}
		for _, tr := range g.Tests {
			if err := writeTest(p, f, tr); err != nil {
				return err
			}
		}
	}
	return p.Status(0, "Overall Exit Code", rep.ExitCode)
}

func writeTest(p *output.Printer, f *value.Formatter, tr types.TestResult) error {
	total, success, blocked := tr.Paths()
	timeTotal, timePaths, timeModels := tr.Timing()
	if err := p.Field(1, "Test", tr.Name); err != nil {
		return err
	}
	if err := p.Status(2, "Exit Code", tr.ExitCode); err != nil {
		return err
	}
	if err := p.Field(2, "Num Models", tr.NumModels); err != nil {
		return err
	}
	if err := p.Field(2, "Num Paths", fmt.Sprintf("%d (success %d, blocked %d)", total, success, blocked)); err != nil {
		return err
	}
	if err := p.Field(2, "Time", fmt.Sprintf("%.2fs (paths %.2fs, models %.2fs)", timeTotal, timePaths, timeModels)); err != nil {
		return err
	}
	if err := p.Field(2, "Bounded Loops", tr.NumBoundedLoops); err != nil {
		return err
	}

	models := tr.ValidModels()
	if len(models) == 0 {
		return nil
	}
	if err := p.Section(2, "Counterexamples"); err != nil {
		return err
	}
	for i, m := range models {
		parts, err := counterexample.Partition(m, f)
		if err != nil {
			return fmt.Errorf("test %s model %d: %w", tr.Name, i+1, err)
		}
		if err := p.Heading(3, fmt.Sprintf("Model %d:", i+1)); err != nil {
			return err
		}
		for _, bucket := range counterexample.Buckets {
			entries := parts[bucket]
			if len(entries) == 0 {
				continue
			}
			if err := p.Section(4, bucket.Title()); err != nil {
				return err
			}
			for _, e := range entries {
				if err := p.Textf(5, "%s = %s", e.Key, e.Value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// WriteSummary prints the brief per-test summary without counterexamples.
func WriteSummary(p *output.Printer, rep *types.Report, opts Options) error {
	if rep == nil {
		return errors.New("report is nil")
	}
	if err := p.Heading(0, "Test Results Summary:"); err != nil {
		return err
	}
	if err := p.Rule(ruleWidth); err != nil {
		return err
	}
	for _, g := range Select(rep, opts) {
		if err := p.Field(0, "Contract", g.Contract); err != nil {
			return err
		}
		for _, tr := range g.Tests {
			total, success, blocked := tr.Paths()
			timeTotal, _, _ := tr.Timing()
			if err := p.Field(1, "Test", tr.Name); err != nil {
				return err
			}
			if err := p.Status(2, "Exit Code", tr.ExitCode); err != nil {
				return err
			}
			if err := p.Field(2, "Num Models (Counterexamples)", tr.NumModels); err != nil {
				return err
			}
			if err := p.Field(2, "Num Paths", fmt.Sprintf("[%d, %d, %d]", total, success, blocked)); err != nil {
				return err
			}
			if err := p.Field(2, "Time", fmt.Sprintf("%.2fs", timeTotal)); err != nil {
				return err
			}
			if err := p.Field(2, "Bounded Loops", tr.NumBoundedLoops); err != nil {
				return err
			}
		}
	}
	if err := p.Rule(ruleWidth); err != nil {
		return err
	}
	return p.Status(0, "Overall Exit Code", rep.ExitCode)
}

// WriteCSV writes one row per selected test result.
func WriteCSV(w io.Writer, rep *types.Report, opts Options) error {
	if w == nil {
		return errors.New("writer is nil")
	}
	if rep == nil {
		return errors.New("report is nil")
	}
	header := []string{
		"contract",
		"test",
		"exitcode",
		"num_models",
		"paths_total",
		"paths_success",
		"paths_blocked",
		"time_total",
		"time_paths",
		"time_models",
		"num_bounded_loops",
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, g := range Select(rep, opts) {
		for _, tr := range g.Tests {
			total, success, blocked := tr.Paths()
			timeTotal, timePaths, timeModels := tr.Timing()
			record := []string{
				g.Contract,
				tr.Name,
				strconv.Itoa(tr.ExitCode),
				strconv.Itoa(tr.NumModels),
				strconv.Itoa(total),
				strconv.Itoa(success),
				strconv.Itoa(blocked),
				formatFloat(timeTotal),
				formatFloat(timePaths),
				formatFloat(timeModels),
				strconv.Itoa(tr.NumBoundedLoops),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func sliceToSet(items []string) map[string]bool {
	var out map[string]bool
	for _, s := range items {
		val := strings.TrimSpace(s)
		if val == "" {
			continue
		}
		if out == nil {
			out = map[string]bool{}
		}
		out[val] = true
	}
	return out
}

func formatFloat(v float64) string {
	// Compensate for common binary floating-point representation issues so values
	// like 1.005 reliably round to 1.01 at 2 decimal places.
	rounded := math.Round((v+math.Copysign(1e-9, v))*100) / 100
	if rounded == 0 {
		return "0"
	}
	s := strconv.FormatFloat(rounded, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
