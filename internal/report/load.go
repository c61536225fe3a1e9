package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codalotl/halmos-report/internal/types"
)

// Document is a decoded report and the file it came from.
type Document struct {
	Path   string
	Report *types.Report
}

// Load reads and decodes a single report file.
func Load(path string) (*types.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rep types.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &rep, nil
}

// LoadAll loads path, or every *.json file beneath it when path is a directory. Documents are returned
// sorted by path.
func LoadAll(path string) ([]Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		rep, err := Load(path)
		if err != nil {
			return nil, err
		}
		return []Document{{Path: path, Report: rep}}, nil
	}

	var paths []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".json") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .json reports found in %s", path)
	}
	sort.Strings(paths)

	out := make([]Document, 0, len(paths))
	for _, p := range paths {
		rep, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, Document{Path: p, Report: rep})
	}
	return out, nil
}

// IsNotFound reports whether err came from a missing report path.
func IsNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
