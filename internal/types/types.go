package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Report is the top-level document written by halmos with --json-output.
type Report struct {
	ExitCode    int                     `json:"exitcode"`
	TestResults map[string][]TestResult `json:"test_results"`

	order []string
}

// NewReport builds a report whose contracts are listed in order.
func NewReport(exitCode int, order []string, results map[string][]TestResult) *Report {
	return &Report{
		ExitCode:    exitCode,
		TestResults: results,
		order:       append([]string(nil), order...),
	}
}

// Contracts returns the contract names in the order they appear in the document. Names added to
// TestResults after decoding follow in lexical order.
func (r *Report) Contracts() []string {
	out := make([]string, 0, len(r.TestResults))
	seen := map[string]bool{}
	for _, name := range r.order {
		if _, ok := r.TestResults[name]; ok && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	var rest []string
	for name := range r.TestResults {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Triple holds the three-element arrays halmos uses for path counts and timings.
type Triple[T int | float64] [3]T

type TestResult struct {
	Name            string          `json:"name"`
	ExitCode        int             `json:"exitcode"`
	NumModels       int             `json:"num_models"`
	NumPaths        Triple[int]     `json:"num_paths"`
	Time            Triple[float64] `json:"time"`
	NumBoundedLoops int             `json:"num_bounded_loops"`
	Models          []Model         `json:"models,omitempty"`
}

// Paths returns total, success, and blocked path counts.
func (t TestResult) Paths() (total, success, blocked int) {
	return t.NumPaths[0], t.NumPaths[1], t.NumPaths[2]
}

// Timing returns total, path-exploration, and model-generation seconds.
func (t TestResult) Timing() (total, paths, models float64) {
	return t.Time[0], t.Time[1], t.Time[2]
}

// ValidModels returns the models flagged as valid counterexamples.
func (t TestResult) ValidModels() []Model {
	var out []Model
	for _, m := range t.Models {
		if m.IsValid {
			out = append(out, m)
		}
	}
	return out
}

type Model struct {
	IsValid bool                  `json:"is_valid"`
	Model   map[string]TypedValue `json:"model"`
}

// TypedValue is one variable assignment of a counterexample.
type TypedValue struct {
	FullName     string `json:"full_name,omitempty"`
	VariableName string `json:"variable_name"`
	SolidityType string `json:"solidity_type"`
	SMTType      string `json:"smt_type,omitempty"`
	SizeBits     int    `json:"size_bits,omitempty"`
	Value        Value  `json:"value"`
}

// Value is an unsigned magnitude of arbitrary width. It decodes from a JSON number, a decimal string, or a
// 0x-prefixed hex string.
type Value struct {
	n *big.Int
}

func NewValue(n *big.Int) Value {
	return Value{n: new(big.Int).Set(n)}
}

// ParseValue parses decimal or 0x-prefixed hex text.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	n := new(big.Int)
	var ok bool
	if rest, found := strings.CutPrefix(strings.ToLower(s), "0x"); found {
		_, ok = n.SetString(rest, 16)
	} else {
		_, ok = n.SetString(s, 10)
	}
	if !ok {
		return Value{}, fmt.Errorf("invalid value %q", s)
	}
	if n.Sign() < 0 {
		return Value{}, fmt.Errorf("value %q must be non-negative", s)
	}
	return Value{n: n}, nil
}

// Int returns a copy of the value. A zero Value yields 0.
func (v Value) Int() *big.Int {
	if v.n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.n)
}

func (v Value) String() string {
	return v.Int().String()
}

// UnmarshalJSON accepts a number literal, a string, or a boolean (true is 1, false is 0).
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		v.n = nil
		return nil
	case "true":
		v.n = big.NewInt(1)
		return nil
	case "false":
		v.n = new(big.Int)
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseValue(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	}
	parsed, err := ParseValue(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
