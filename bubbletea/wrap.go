package bubbletea

import (
	"strings"

	rw "github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// wrap soft-wraps s to width display columns. Existing newlines are kept and
// runs of spaces inside a row are preserved. Words wider than width are
// broken at grapheme cluster boundaries.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, wrapLine(line, width)...)
	}
	return strings.Join(rows, "\n")
}

func wrapLine(line string, width int) []string {
	var (
		rows  []string
		row   strings.Builder
		rowW  int
		fresh bool // row was started by a soft break
	)
	flush := func() {
		rows = append(rows, strings.TrimRight(row.String(), " "))
		row.Reset()
		rowW = 0
		fresh = true
	}

	for i, word := range strings.Split(line, " ") {
		sep := 0
		if i > 0 && !fresh {
			sep = 1
		}
		w := uniseg.StringWidth(word)

		if w > width {
			if rowW > 0 {
				flush()
			}
			g := uniseg.NewGraphemes(word)
			for g.Next() {
				cluster := g.Str()
				cw := rw.StringWidth(cluster)
				if rowW+cw > width && rowW > 0 {
					flush()
				}
				row.WriteString(cluster)
				rowW += cw
			}
			fresh = false
			continue
		}

		if rowW+sep+w > width && rowW > 0 {
			flush()
			sep = 0
		}
		if sep > 0 {
			row.WriteByte(' ')
			rowW++
		}
		row.WriteString(word)
		rowW += w
		if word != "" {
			fresh = false
		}
	}
	rows = append(rows, row.String())
	return rows
}

// indent prefixes every line after the first with pad.
func indent(s, pad string) string {
	return strings.ReplaceAll(s, "\n", "\n"+pad)
}
