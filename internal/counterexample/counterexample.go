// Package counterexample groups the variables of a counterexample model into display buckets.
package counterexample

import (
	"sort"
	"strings"

	"github.com/codalotl/halmos-report/internal/types"
	"github.com/codalotl/halmos-report/internal/value"
)

type Bucket int

const (
	BucketParameters Bucket = iota
	BucketState
	BucketOther
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketParameters, BucketState, BucketOther}

// Title is the heading printed above a bucket.
func (b Bucket) Title() string {
	switch b {
	case BucketParameters:
		return "Parameters"
	case BucketState:
		return "State"
	default:
		return "Other"
	}
}

const (
	paramPrefix = "p_"
	blockPrefix = "block."
)

var (
	actorMarkers      = []string{"maker", "taker", "creator", "liquidator"}
	actorParamMarkers = []string{"maker.", "taker."}
)

// Classify returns the bucket for a display name and the key it is listed under. Rules are evaluated in
// order and the first match wins.
func Classify(name string) (Bucket, string) {
	if key, ok := strings.CutPrefix(name, paramPrefix); ok {
		return BucketParameters, key
	}
	if strings.HasPrefix(name, blockPrefix) {
		return BucketState, name
	}
	if containsAny(name, actorMarkers) {
		if containsAny(name, actorParamMarkers) {
			return BucketParameters, name
		}
		return BucketState, name
	}
	return BucketOther, name
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Entry is one formatted variable.
type Entry struct {
	Key   string
	Value string
}

// Partitioned holds a model's entries per bucket, each sorted by key.
type Partitioned map[Bucket][]Entry

// Partition formats every variable of m with f and groups the results. Entries with equal keys are ordered
// by their internal variable name so output is deterministic.
func Partition(m types.Model, f *value.Formatter) (Partitioned, error) {
	type keyed struct {
		entry    Entry
		internal string
	}
	grouped := map[Bucket][]keyed{}
	for internal, v := range m.Model {
		formatted, err := f.Format(v.Value.Int(), v.SolidityType, v.VariableName)
		if err != nil {
			return nil, err
		}
		bucket, key := Classify(v.VariableName)
		grouped[bucket] = append(grouped[bucket], keyed{
			entry:    Entry{Key: key, Value: formatted},
			internal: internal,
		})
	}
	out := Partitioned{}
	for bucket, items := range grouped {
		sort.Slice(items, func(i, j int) bool {
			if items[i].entry.Key != items[j].entry.Key {
				return items[i].entry.Key < items[j].entry.Key
			}
			return items[i].internal < items[j].internal
		})
		entries := make([]Entry, 0, len(items))
		for _, it := range items {
			entries = append(entries, it.entry)
		}
		out[bucket] = entries
	}
	return out, nil
}
