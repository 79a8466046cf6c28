package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pojotools/treediff/internal/exit"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     *Options
		wantCode int
	}{
		{
			name: "defaults",
			args: []string{"treediff", "a.json", "b.json"},
			want: &Options{Glob: "**/*.json", Format: "text", Left: "a.json", Right: "b.json"},
		},
		{
			name: "all flags",
			args: []string{"treediff", "-rules", "r.yaml", "-glob", "**/*.yaml", "-format", "json", "l", "r"},
			want: &Options{RulesFile: "r.yaml", Glob: "**/*.yaml", Format: "json", Left: "l", Right: "r"},
		},
		{
			name:     "missing operand",
			args:     []string{"treediff", "only.json"},
			wantCode: exit.CodeError,
		},
		{
			name:     "extra operand",
			args:     []string{"treediff", "a", "b", "c"},
			wantCode: exit.CodeError,
		},
		{
			name:     "unknown flag",
			args:     []string{"treediff", "-verbose", "a", "b"},
			wantCode: exit.CodeError,
		},
		{
			name:     "unknown format",
			args:     []string{"treediff", "-format", "xml", "a", "b"},
			wantCode: exit.CodeError,
		},
		{
			name:     "blank glob",
			args:     []string{"treediff", "-glob", " ", "a", "b"},
			wantCode: exit.CodeError,
		},
		{
			name:     "help",
			args:     []string{"treediff", "-h"},
			wantCode: exit.CodeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts, res := Parse(tt.args)
			if tt.want != nil {
				if res != nil {
					t.Fatalf("Parse(%v) result = %+v, want options", tt.args, res)
				}
				if *opts != *tt.want {
					t.Errorf("Parse(%v) = %+v, want %+v", tt.args, opts, tt.want)
				}
				return
			}
			if res == nil {
				t.Fatalf("Parse(%v) succeeded, want error result", tt.args)
			}
			if res.ExitCode != tt.wantCode {
				t.Errorf("Parse(%v) exit code = %d, want %d", tt.args, res.ExitCode, tt.wantCode)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunFilesEqual(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	right := filepath.Join(dir, "right.json")
	writeFile(t, left, `{"name":"Alice"}`)
	writeFile(t, right, `{"name":"Alice"}`)

	var out bytes.Buffer
	code := Run([]string{"treediff", left, right}, &out)
	if code != exit.CodeEqual {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeEqual)
	}
	if out.Len() != 0 {
		t.Errorf("equal inputs produced output: %q", out.String())
	}
}

func TestRunFilesDifferent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	right := filepath.Join(dir, "right.json")
	writeFile(t, left, `{"name":"Alice"}`)
	writeFile(t, right, `{"name":"Bob"}`)

	var out bytes.Buffer
	code := Run([]string{"treediff", left, right}, &out)
	if code != exit.CodeDifferent {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeDifferent)
	}
	want := "changed /name: \"Alice\" -> \"Bob\"\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRunFilesJSONFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	right := filepath.Join(dir, "right.json")
	writeFile(t, left, `{"n":1}`)
	writeFile(t, right, `{"n":2}`)

	var out bytes.Buffer
	code := Run([]string{"treediff", "-format", "json", left, right}, &out)
	if code != exit.CodeDifferent {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeDifferent)
	}

	var entries []map[string]any
	if err := json.Unmarshal(out.Bytes(), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0]["path"] != "/n" || entries[0]["kind"] != "changed" {
		t.Errorf("entry = %v", entries[0])
	}
}

func TestRunYAMLInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.yaml")
	right := filepath.Join(dir, "right.yaml")
	writeFile(t, left, "name: Alice\n")
	writeFile(t, right, "name: Alice\n")

	var out bytes.Buffer
	if code := Run([]string{"treediff", left, right}, &out); code != exit.CodeEqual {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeEqual)
	}
}

func TestRunWithRules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	right := filepath.Join(dir, "right.json")
	rules := filepath.Join(dir, "rules.yaml")
	writeFile(t, left, `{"name":"Alice","rev":1}`)
	writeFile(t, right, `{"name":"ALICE","rev":2}`)
	writeFile(t, rules, "ignore:\n  paths:\n    - /rev\nequivalences:\n  - at: /name\n    rule: case-insensitive\n")

	var out bytes.Buffer
	if code := Run([]string{"treediff", "-rules", rules, left, right}, &out); code != exit.CodeEqual {
		t.Fatalf("Run() = %d, want %d\n%s", code, exit.CodeEqual, out.String())
	}
}

func TestRunBadRulesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	rules := filepath.Join(dir, "rules.yaml")
	writeFile(t, left, `{}`)
	writeFile(t, rules, "equivalences:\n  - at: /a\n    rule: fuzzy\n")

	var out bytes.Buffer
	if code := Run([]string{"treediff", "-rules", rules, left, left}, &out); code != exit.CodeError {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeError)
	}
}

func TestRunMissingInput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	writeFile(t, left, `{}`)

	var out bytes.Buffer
	code := Run([]string{"treediff", left, filepath.Join(dir, "absent.json")}, &out)
	if code != exit.CodeError {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeError)
	}
}

func TestRunDirAgainstFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	left := filepath.Join(dir, "left.json")
	writeFile(t, left, `{}`)

	var out bytes.Buffer
	if code := Run([]string{"treediff", dir, left}, &out); code != exit.CodeError {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeError)
	}
}

func TestRunDirs(t *testing.T) {
	t.Parallel()

	leftDir := t.TempDir()
	rightDir := t.TempDir()
	writeFile(t, filepath.Join(leftDir, "same.json"), `{"a":1}`)
	writeFile(t, filepath.Join(rightDir, "same.json"), `{"a":1}`)
	writeFile(t, filepath.Join(leftDir, "changed.json"), `{"a":1}`)
	writeFile(t, filepath.Join(rightDir, "changed.json"), `{"a":2}`)
	writeFile(t, filepath.Join(leftDir, "removed.json"), `{"gone":true}`)
	writeFile(t, filepath.Join(rightDir, "nested", "added.json"), `{"new":true}`)

	var out bytes.Buffer
	code := Run([]string{"treediff", leftDir, rightDir}, &out)
	if code != exit.CodeDifferent {
		t.Fatalf("Run() = %d, want %d\n%s", code, exit.CodeDifferent, out.String())
	}

	got := out.String()
	for _, want := range []string{
		"changed.json: changed /a: 1 -> 2",
		"removed.json: removed /: ",
		filepath.ToSlash(filepath.Join("nested", "added.json")) + ": added /: ",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "same.json") {
		t.Errorf("equal file reported:\n%s", got)
	}
}

func TestRunDirsEqual(t *testing.T) {
	t.Parallel()

	leftDir := t.TempDir()
	rightDir := t.TempDir()
	writeFile(t, filepath.Join(leftDir, "a.json"), `{"a":1}`)
	writeFile(t, filepath.Join(rightDir, "a.json"), `{"a":1}`)

	var out bytes.Buffer
	if code := Run([]string{"treediff", leftDir, rightDir}, &out); code != exit.CodeEqual {
		t.Fatalf("Run() = %d, want %d", code, exit.CodeEqual)
	}
}

func TestRunDirsGlobFiltersFiles(t *testing.T) {
	t.Parallel()

	leftDir := t.TempDir()
	rightDir := t.TempDir()
	writeFile(t, filepath.Join(leftDir, "a.yaml"), "a: 1\n")
	writeFile(t, filepath.Join(rightDir, "a.yaml"), "a: 2\n")
	writeFile(t, filepath.Join(leftDir, "b.json"), `{"b":1}`)
	writeFile(t, filepath.Join(rightDir, "b.json"), `{"b":1}`)

	var out bytes.Buffer
	// Default glob only sees .json, which is identical on both sides.
	if code := Run([]string{"treediff", leftDir, rightDir}, &out); code != exit.CodeEqual {
		t.Fatalf("Run() with default glob = %d, want %d\n%s", code, exit.CodeEqual, out.String())
	}

	out.Reset()
	code := Run([]string{"treediff", "-glob", "**/*.yaml", leftDir, rightDir}, &out)
	if code != exit.CodeDifferent {
		t.Fatalf("Run() with yaml glob = %d, want %d\n%s", code, exit.CodeDifferent, out.String())
	}
}
