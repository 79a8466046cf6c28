// Package cli implements argument parsing and execution for the treediff
// command.
package cli

import (
	"flag"
	"io"
	"strings"

	"github.com/pojotools/treediff/internal/exit"
)

const usageText = `usage: treediff [flags] <left> <right>

Compares two JSON or YAML documents, or two directory trees, and reports
semantic differences as JSON Pointer anchored entries.

flags:
  -rules file    YAML ruleset: ignore rules, list identities, equivalences
  -glob pattern  file selection for directory comparison (default "**/*.json")
  -format kind   output format: text or json (default "text")

exit codes: 0 inputs equal, 1 differences found, 2 usage or input error
`

// Options holds the parsed command line.
type Options struct {
	RulesFile string
	Glob      string
	Format    string
	Left      string
	Right     string
}

// Parse interprets the command line. args includes the program name.
func Parse(args []string) (*Options, *exit.Result) {
	fs := flag.NewFlagSet("treediff", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	opts := &Options{}
	fs.StringVar(&opts.RulesFile, "rules", "", "YAML ruleset file")
	fs.StringVar(&opts.Glob, "glob", "**/*.json", "file glob for directory comparison")
	fs.StringVar(&opts.Format, "format", "text", "output format: text or json")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Usage(usageText)
		}
		return nil, exit.Errorf("treediff: %v\n%s", err, usageText)
	}

	rest := fs.Args()
	if len(rest) != 2 {
		return nil, exit.Usage(usageText)
	}
	opts.Left, opts.Right = rest[0], rest[1]

	switch opts.Format {
	case "text", "json":
	default:
		return nil, exit.Errorf("treediff: unknown format %q\n%s", opts.Format, usageText)
	}
	if strings.TrimSpace(opts.Glob) == "" {
		return nil, exit.Errorf("treediff: glob must not be empty\n%s", usageText)
	}

	return opts, nil
}

// Run executes the full command and returns the process exit code.
func Run(args []string, stdout io.Writer) int {
	opts, res := Parse(args)
	if res != nil {
		res.Print()
		return res.ExitCode
	}

	code, res := run(opts, stdout)
	if res != nil {
		res.Print()
		return res.ExitCode
	}
	return code
}
