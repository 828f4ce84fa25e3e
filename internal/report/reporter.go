// Package report renders preparation errors as human-readable diagnostics
// for test authors.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"

	"github.com/fixkit/fixkit/internal/errors"
)

// Reporter provides user-friendly error reporting for failed preparation
// passes
type Reporter struct {
	out     io.Writer
	verbose bool
}

// NewReporter creates a reporter writing to stderr
func NewReporter(verbose bool) *Reporter {
	return &Reporter{
		out:     os.Stderr,
		verbose: verbose,
	}
}

// NewReporterTo creates a reporter writing to the given writer
func NewReporterTo(out io.Writer, verbose bool) *Reporter {
	return &Reporter{
		out:     out,
		verbose: verbose,
	}
}

// Report prints a diagnostic for a preparation error
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(r.out, "\nERROR: Fixture Preparation Failed\n")
	fmt.Fprintf(r.out, "=================================\n\n")

	if base, ok := errors.AsBase(err); ok {
		r.reportBase(base)
	} else {
		fmt.Fprintf(r.out, "Message: %s\n", err.Error())
	}

	fmt.Fprintf(r.out, "\n")
}

// reportBase prints a typed error with its full context and suggestions
func (r *Reporter) reportBase(base *errors.BaseError) {
	header := color.New(color.FgRed, color.Bold)
	header.Fprintf(r.out, "%s\n", base.Code.String())

	fmt.Fprintf(r.out, "Message: %s\n", base.Message)
	if base.Member() != "" {
		fmt.Fprintf(r.out, "Member:  %s\n", base.Member())
	}

	if r.verbose && base.Cause != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n", base.Cause.Error())
	}

	if ctx := base.Context(); len(ctx) > 0 {
		fmt.Fprintf(r.out, "\nContext:\n")
		keys := make([]string, 0, len(ctx))
		for k := range ctx {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.out, "  %s: %v\n", k, ctx[k])
		}
	}

	if suggestions := base.Suggestions(); len(suggestions) > 0 {
		hint := color.New(color.FgYellow, color.Bold)
		hint.Fprintf(r.out, "\nSuggestions:\n")
		for _, s := range suggestions {
			fmt.Fprintf(r.out, "  - %s\n", s)
		}
	}
}
