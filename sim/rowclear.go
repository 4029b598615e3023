package sim

import "slices"

// fullRows returns the sorted indices of every row holding at least width cells.
func (g *settledGrid) fullRows(width int) []int64 {
	var full []int64
	for e := range g.entries() {
		if g.rowCount(e.row) < width || slices.Contains(full, e.row) {
			continue
		}
		full = append(full, e.row)
	}
	slices.Sort(full)
	return full
}

// clearFullRows removes every full row in a single pass, then drops each
// surviving cell by one row for every cleared row beneath it. It returns the
// cleared row indices, lowest first, or nil when nothing changed.
func (g *settledGrid) clearFullRows(width int) []int64 {
	full := g.fullRows(width)
	if len(full) == 0 {
		return nil
	}

	for i := range g.slots() {
		e := g.at(i)
		below, cleared := slices.BinarySearch(full, e.row)
		if cleared {
			g.remove(i)
			continue
		}
		if below == 0 {
			continue
		}
		shift := int64(below)
		e.row -= shift
		e.pos.Y -= shift * g.rowSteps
	}

	g.compact()
	return full
}
