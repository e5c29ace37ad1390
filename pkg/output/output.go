package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/childproc/pkg/envlock"
	"github.com/vertti/childproc/pkg/report"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

func init() {
	// supportscolor inspects TERM, CI and friends.
	var supported bool
	envlock.Do(func() { supported = supportscolor.Stdout().SupportsColor })
	if !supported {
		DisableColor()
	}
}

// DisableColor turns off ANSI escapes for all further output.
func DisableColor() {
	green, red, dim, reset = "", "", "", ""
}

// formatLabel dims the "label:" part of a "label: value" detail line.
func formatLabel(s string) string {
	idx := strings.Index(s, ": ")
	if idx < 0 {
		return s
	}
	return dim + s[:idx+1] + reset + s[idx+1:]
}

// PrintReport writes a report with colored status. Details are indented to
// line up with the name.
func PrintReport(w io.Writer, r report.Report) {
	tag, color := "[OK]", green
	if !r.OK() {
		tag, color = "[FAIL]", red
	}
	fmt.Fprintf(w, "%s%s%s %s\n", color, tag, reset, r.Name)
	indent := strings.Repeat(" ", len(tag)+1)
	for _, d := range r.Details {
		fmt.Fprintf(w, "%s%s\n", indent, formatLabel(d))
	}
}
