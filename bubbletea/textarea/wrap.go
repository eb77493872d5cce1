package textarea

import "github.com/rivo/uniseg"

// segmentCache memoizes row breaks per line. All entries are dropped when
// the width changes.
type segmentCache struct {
	entries map[string][]int
	width   int
}

func newSegmentCache() *segmentCache {
	return &segmentCache{entries: make(map[string][]int)}
}

func (c *segmentCache) segments(line []rune, width int) []int {
	if width != c.width {
		c.entries = make(map[string][]int)
		c.width = width
	}
	k := string(line)
	if v, ok := c.entries[k]; ok {
		return v
	}
	v := segments(line, width)
	c.entries[k] = v
	return v
}

// segments returns the rune offsets at which line breaks into rows of at
// most width cells. The first offset is always 0. Grapheme clusters are
// never split; a cluster wider than width gets a row of its own.
func segments(line []rune, width int) []int {
	starts := []int{0}
	if width <= 0 {
		return starts
	}
	g := uniseg.NewGraphemes(string(line))
	pos, w := 0, 0
	for g.Next() {
		cw := g.Width()
		if w > 0 && w+cw > width {
			starts = append(starts, pos)
			w = 0
		}
		w += cw
		pos += len(g.Runes())
	}
	return starts
}

// segmentEnd returns the end offset of row j.
func segmentEnd(starts []int, j, n int) int {
	if j+1 < len(starts) {
		return starts[j+1]
	}
	return n
}
