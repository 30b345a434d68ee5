// Package render provides human output formatting for verilib commands.
// Output is plain text with no color so it reads the same in CI logs.
package render

import (
	"fmt"
	"io"
	"strings"
)

// PathMaxLen is the maximum display length for a path column cell.
const PathMaxLen = 72

// table is a whitespace-aligned table. The last column is never padded.
type table struct {
	header []string
	rows   [][]string
}

func newTable(header ...string) *table {
	return &table{header: header}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// widths calculates the maximum width for each column.
func (t *table) widths() []int {
	w := make([]int, len(t.header))
	for i, h := range t.header {
		w[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > w[i] {
				w[i] = n
			}
		}
	}
	return w
}

func (t *table) write(w io.Writer) error {
	widths := t.widths()
	if _, err := fmt.Fprintln(w, formatRow(t.header, widths)); err != nil {
		return err
	}
	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, formatRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

// formatRow pads every cell but the last to its column width, separated by
// two spaces.
func formatRow(cells []string, widths []int) string {
	var sb strings.Builder
	for i, cell := range cells {
		if i == len(cells)-1 {
			sb.WriteString(cell)
			break
		}
		sb.WriteString(cell)
		sb.WriteString(strings.Repeat(" ", widths[i]-len([]rune(cell))+2))
	}
	return strings.TrimRight(sb.String(), " ")
}

// TruncateForDisplay shortens s to maxLen runes, ending in an ellipsis.
// Paths keep their tail, which is the part that tells files apart.
func TruncateForDisplay(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return "…" + string(runes[len(runes)-maxLen+1:])
}

// joinOrDash joins strs with ", " or returns "-" when there are none.
func joinOrDash(strs []string) string {
	if len(strs) == 0 {
		return "-"
	}
	return strings.Join(strs, ", ")
}
