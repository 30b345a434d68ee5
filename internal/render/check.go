package render

import (
	"fmt"
	"io"

	"github.com/NielsdaWheelz/verilib/internal/report"
)

// WriteCompleteness writes a completeness report.
//
// Output format:
//
//	complete: false
//	accepted: 12
//	skipped: 1
//	failing: 1
//	missing: 1
//	coverage: 92.3%
//
//	PATH                  STATUS
//	test/wa.test.cpp      WA
//	test/lost.test.cpp    missing
func WriteCompleteness(w io.Writer, c *report.CompletenessResult, coverage float64) error {
	lines := []struct {
		key   string
		value string
	}{
		{"complete", fmt.Sprintf("%t", c.Complete)},
		{"accepted", fmt.Sprintf("%d", len(c.Accepted))},
		{"skipped", fmt.Sprintf("%d", len(c.Skipped))},
		{"failing", fmt.Sprintf("%d", len(c.Failing))},
		{"missing", fmt.Sprintf("%d", len(c.Missing))},
		{"coverage", fmt.Sprintf("%.1f%%", coverage*100)},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line.key, line.value); err != nil {
			return err
		}
	}

	if len(c.Failing) == 0 && len(c.Missing) == 0 && len(c.Unknown) == 0 {
		return nil
	}

	t := newTable("PATH", "STATUS")
	for _, p := range c.Failing {
		t.add(TruncateForDisplay(p, PathMaxLen), string(c.Statuses[p]))
	}
	for _, p := range c.Missing {
		t.add(TruncateForDisplay(p, PathMaxLen), "missing")
	}
	for _, p := range c.Unknown {
		t.add(TruncateForDisplay(p, PathMaxLen), "unknown")
	}
	_, _ = fmt.Fprintln(w)
	return t.write(w)
}
