package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MissingKeyError reports a required key absent from the report document.
type MissingKeyError struct {
	Key     string
	Context string
}

func (e *MissingKeyError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("missing key %q", e.Key)
	}
	return fmt.Sprintf("missing key %q in %s", e.Key, e.Context)
}

// UnmarshalJSON decodes a Report, rejecting documents without exitcode or test_results.
func (r *Report) UnmarshalJSON(data []byte) error {
	var raw struct {
		ExitCode    *int            `json:"exitcode"`
		TestResults json.RawMessage `json:"test_results"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ExitCode == nil {
		return &MissingKeyError{Key: "exitcode", Context: "report"}
	}
	if len(raw.TestResults) == 0 || string(raw.TestResults) == "null" {
		return &MissingKeyError{Key: "test_results", Context: "report"}
	}
	var results map[string][]TestResult
	if err := json.Unmarshal(raw.TestResults, &results); err != nil {
		return err
	}
	order, err := objectKeys(raw.TestResults)
	if err != nil {
		return err
	}
	r.ExitCode = *raw.ExitCode
	r.TestResults = results
	r.order = order
	return nil
}

// objectKeys returns the keys of a JSON object in document order, without duplicates.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	seen := map[string]bool{}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// UnmarshalJSON decodes a TestResult. Every summary field is required; models are optional.
func (t *TestResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name            *string          `json:"name"`
		ExitCode        *int             `json:"exitcode"`
		NumModels       *int             `json:"num_models"`
		NumPaths        *Triple[int]     `json:"num_paths"`
		Time            *Triple[float64] `json:"time"`
		NumBoundedLoops *int             `json:"num_bounded_loops"`
		Models          []Model          `json:"models"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Name == nil {
		return &MissingKeyError{Key: "name", Context: "test result"}
	}
	ctx := fmt.Sprintf("test %q", *raw.Name)
	switch {
	case raw.ExitCode == nil:
		return &MissingKeyError{Key: "exitcode", Context: ctx}
	case raw.NumModels == nil:
		return &MissingKeyError{Key: "num_models", Context: ctx}
	case raw.NumPaths == nil:
		return &MissingKeyError{Key: "num_paths", Context: ctx}
	case raw.Time == nil:
		return &MissingKeyError{Key: "time", Context: ctx}
	case raw.NumBoundedLoops == nil:
		return &MissingKeyError{Key: "num_bounded_loops", Context: ctx}
	}
	*t = TestResult{
		Name:            *raw.Name,
		ExitCode:        *raw.ExitCode,
		NumModels:       *raw.NumModels,
		NumPaths:        *raw.NumPaths,
		Time:            *raw.Time,
		NumBoundedLoops: *raw.NumBoundedLoops,
		Models:          raw.Models,
	}
	return nil
}

// UnmarshalJSON decodes a TypedValue, requiring the fields the formatter consumes.
func (v *TypedValue) UnmarshalJSON(data []byte) error {
	type plain TypedValue
	var raw struct {
		plain
		VariableName *string `json:"variable_name"`
		SolidityType *string `json:"solidity_type"`
		Value        *Value  `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.VariableName == nil:
		return &MissingKeyError{Key: "variable_name", Context: "model value"}
	case raw.SolidityType == nil:
		return &MissingKeyError{Key: "solidity_type", Context: fmt.Sprintf("model value %q", *raw.VariableName)}
	case raw.Value == nil:
		return &MissingKeyError{Key: "value", Context: fmt.Sprintf("model value %q", *raw.VariableName)}
	}
	*v = TypedValue(raw.plain)
	v.VariableName = *raw.VariableName
	v.SolidityType = *raw.SolidityType
	v.Value = *raw.Value
	return nil
}
