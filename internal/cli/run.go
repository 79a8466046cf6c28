package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pojotools/treediff"
	"github.com/pojotools/treediff/adapter"
	"github.com/pojotools/treediff/internal/exit"
	"github.com/pojotools/treediff/internal/ruleset"
)

// fileDiff groups the entries found in one file of a directory comparison.
type fileDiff struct {
	File    string           `json:"file"`
	Entries []treediff.Entry `json:"entries"`
}

func run(opts *Options, stdout io.Writer) (int, *exit.Result) {
	cfg, res := loadConfig(opts.RulesFile)
	if res != nil {
		return 0, res
	}

	leftInfo, err := os.Stat(opts.Left)
	if err != nil {
		return 0, exit.Errorf("treediff: %v\n", err)
	}
	rightInfo, err := os.Stat(opts.Right)
	if err != nil {
		return 0, exit.Errorf("treediff: %v\n", err)
	}

	if leftInfo.IsDir() != rightInfo.IsDir() {
		return 0, exit.Errorf("treediff: cannot compare a directory with a file\n")
	}
	if leftInfo.IsDir() {
		return runDirs(opts, cfg, stdout)
	}
	return runFiles(opts, cfg, stdout)
}

func loadConfig(rulesFile string) (*treediff.Config, *exit.Result) {
	if rulesFile == "" {
		return nil, nil
	}
	f, err := os.Open(rulesFile)
	if err != nil {
		return nil, exit.Errorf("treediff: %v\n", err)
	}
	defer f.Close()

	rules, err := ruleset.Load(f)
	if err != nil {
		return nil, exit.Errorf("treediff: %s: %v\n", rulesFile, err)
	}
	cfg, err := rules.Build()
	if err != nil {
		return nil, exit.Errorf("treediff: %s: %v\n", rulesFile, err)
	}
	return cfg, nil
}

func runFiles(opts *Options, cfg *treediff.Config, stdout io.Writer) (int, *exit.Result) {
	left, err := loadTree(opts.Left)
	if err != nil {
		return 0, exit.Errorf("treediff: %s: %v\n", opts.Left, err)
	}
	right, err := loadTree(opts.Right)
	if err != nil {
		return 0, exit.Errorf("treediff: %s: %v\n", opts.Right, err)
	}

	entries := treediff.Compare(left, right, cfg)
	if err := writeEntries(stdout, opts.Format, entries); err != nil {
		return 0, exit.Errorf("treediff: %v\n", err)
	}
	if len(entries) > 0 {
		return exit.CodeDifferent, nil
	}
	return exit.CodeEqual, nil
}

func runDirs(opts *Options, cfg *treediff.Config, stdout io.Writer) (int, *exit.Result) {
	names, err := matchedFiles(opts.Left, opts.Right, opts.Glob)
	if err != nil {
		return 0, exit.Errorf("treediff: %v\n", err)
	}

	var diffs []fileDiff
	for _, name := range names {
		entries, err := compareFilePair(
			filepath.Join(opts.Left, name),
			filepath.Join(opts.Right, name),
			cfg,
		)
		if err != nil {
			return 0, exit.Errorf("treediff: %s: %v\n", name, err)
		}
		if len(entries) > 0 {
			diffs = append(diffs, fileDiff{File: name, Entries: entries})
		}
	}

	if err := writeFileDiffs(stdout, opts.Format, diffs); err != nil {
		return 0, exit.Errorf("treediff: %v\n", err)
	}
	if len(diffs) > 0 {
		return exit.CodeDifferent, nil
	}
	return exit.CodeEqual, nil
}

// matchedFiles returns the sorted union of relative paths matching the glob
// on either side.
func matchedFiles(leftDir, rightDir, pattern string) ([]string, error) {
	leftNames, err := doublestar.Glob(os.DirFS(leftDir), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	rightNames, err := doublestar.Glob(os.DirFS(rightDir), pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	names := leftNames
	for _, name := range rightNames {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// compareFilePair diffs one relative path across the two directories. A file
// present on only one side reports as a single whole-document entry.
func compareFilePair(leftPath, rightPath string, cfg *treediff.Config) ([]treediff.Entry, error) {
	left, leftErr := loadTree(leftPath)
	right, rightErr := loadTree(rightPath)

	switch {
	case os.IsNotExist(leftErr) && rightErr == nil:
		return []treediff.Entry{{Path: "/", Kind: treediff.Added, New: right}}, nil
	case os.IsNotExist(rightErr) && leftErr == nil:
		return []treediff.Entry{{Path: "/", Kind: treediff.Removed, Old: left}}, nil
	case leftErr != nil:
		return nil, leftErr
	case rightErr != nil:
		return nil, rightErr
	}

	return treediff.Compare(left, right, cfg), nil
}

func loadTree(path string) (*treediff.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return adapter.FromYAML(data)
	default:
		return adapter.FromJSON(data)
	}
}

func writeEntries(w io.Writer, format string, entries []treediff.Entry) error {
	if format == "json" {
		if entries == nil {
			entries = []treediff.Entry{}
		}
		return writeJSON(w, entries)
	}
	for _, entry := range entries {
		fmt.Fprintln(w, formatEntry(entry))
	}
	return nil
}

func writeFileDiffs(w io.Writer, format string, diffs []fileDiff) error {
	if format == "json" {
		if diffs == nil {
			diffs = []fileDiff{}
		}
		return writeJSON(w, diffs)
	}
	for _, diff := range diffs {
		for _, entry := range diff.Entries {
			fmt.Fprintf(w, "%s: %s\n", diff.File, formatEntry(entry))
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatEntry(entry treediff.Entry) string {
	switch entry.Kind {
	case treediff.Added:
		return fmt.Sprintf("added %s: %s", entry.Path, entry.New)
	case treediff.Removed:
		return fmt.Sprintf("removed %s: %s", entry.Path, entry.Old)
	default:
		return fmt.Sprintf("changed %s: %s -> %s", entry.Path, entry.Old, entry.New)
	}
}
