package layout

import "sort"

// minPanelHeight fits a bordered single line
const minPanelHeight = 3

// Placement is a visible panel positioned on the grid, in grid units
type Placement struct {
	Panel   Panel
	Col     int
	Row     int
	ColSpan int
	RowSpan int
}

// Rect is a rectangle in terminal cells
type Rect struct {
	X, Y, W, H int
}

// Box is a panel with its rectangle in terminal cells
type Box struct {
	Panel Panel
	Rect  Rect
}

// Place positions every visible panel on the 9 column grid in panel order.
// Each panel goes to the first row-major position where it fits; rows are
// added below as needed, so the result never overlaps.
func Place(g Geometry) []Placement {
	var occupied [][GridColumns]bool
	free := func(row, col, cols, rows int) bool {
		for r := row; r < row+rows; r++ {
			if r >= len(occupied) {
				return true
			}
			for c := col; c < col+cols; c++ {
				if occupied[r][c] {
					return false
				}
			}
		}
		return true
	}

	var out []Placement
	for _, p := range Panels {
		span := g.Of(p)
		if !span.Visible || span.ColumnSpan <= 0 || span.RowSpan <= 0 {
			continue
		}
		cols := min(span.ColumnSpan, GridColumns)
		for row := 0; ; row++ {
			placed := false
			for col := 0; col+cols <= GridColumns; col++ {
				if !free(row, col, cols, span.RowSpan) {
					continue
				}
				for len(occupied) < row+span.RowSpan {
					occupied = append(occupied, [GridColumns]bool{})
				}
				for r := row; r < row+span.RowSpan; r++ {
					for c := col; c < col+cols; c++ {
						occupied[r][c] = true
					}
				}
				out = append(out, Placement{Panel: p, Col: col, Row: row, ColSpan: cols, RowSpan: span.RowSpan})
				placed = true
				break
			}
			if placed {
				break
			}
		}
	}
	return out
}

// Rows returns the number of grid rows used by placements
func Rows(ps []Placement) int {
	rows := 0
	for _, p := range ps {
		rows = max(rows, p.Row+p.RowSpan)
	}
	return rows
}

// units splits total cells into n units, handing the remainder to the first units
func units(total, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	base, extra := total/n, total%n
	for i := range out {
		out[i] = max(base, 0)
		if i < extra {
			out[i]++
		}
	}
	return out
}

func sum(u []int, from, n int) int {
	total := 0
	for i := from; i < from+n && i < len(u); i++ {
		total += u[i]
	}
	return total
}

// Frame converts placements into cell rectangles for a width x height area.
// Panels are never shorter than three rows, so tiny terminals may overflow.
func Frame(ps []Placement, width, height int) []Box {
	colUnits := units(width, GridColumns)
	rowUnits := units(height, Rows(ps))

	boxes := make([]Box, 0, len(ps))
	for _, p := range ps {
		r := Rect{
			X: sum(colUnits, 0, p.Col),
			Y: sum(rowUnits, 0, p.Row),
			W: sum(colUnits, p.Col, p.ColSpan),
			H: sum(rowUnits, p.Row, p.RowSpan),
		}
		r.H = max(r.H, minPanelHeight)
		boxes = append(boxes, Box{Panel: p.Panel, Rect: r})
	}
	return boxes
}

// Column is a run of grid columns inside a band, holding panels stacked top to bottom
type Column struct {
	Col, Cols int
	Panels    []Placement
}

// Band is a run of grid rows that no panel crosses
type Band struct {
	Row, Rows int
	Columns   []Column
}

// Bands groups placements into horizontal bands and, inside each band, into
// column stacks. Rendering joins stacks horizontally and bands vertically.
func Bands(ps []Placement) []Band {
	sorted := make([]Placement, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	var bands []Band
	for i := 0; i < len(sorted); {
		start, end := sorted[i].Row, sorted[i].Row+sorted[i].RowSpan
		j := i + 1
		for j < len(sorted) && sorted[j].Row < end {
			end = max(end, sorted[j].Row+sorted[j].RowSpan)
			j++
		}
		bands = append(bands, Band{Row: start, Rows: end - start, Columns: columns(sorted[i:j])})
		i = j
	}
	return bands
}

// columns merges overlapping column ranges of one band
func columns(ps []Placement) []Column {
	byCol := make([]Placement, len(ps))
	copy(byCol, ps)
	sort.SliceStable(byCol, func(i, j int) bool { return byCol[i].Col < byCol[j].Col })

	var cols []Column
	for _, p := range byCol {
		if n := len(cols); n > 0 && p.Col < cols[n-1].Col+cols[n-1].Cols {
			last := &cols[n-1]
			last.Cols = max(last.Cols, p.Col+p.ColSpan-last.Col)
			last.Panels = append(last.Panels, p)
			continue
		}
		cols = append(cols, Column{Col: p.Col, Cols: p.ColSpan, Panels: []Placement{p}})
	}
	for i := range cols {
		sort.SliceStable(cols[i].Panels, func(a, b int) bool { return cols[i].Panels[a].Row < cols[i].Panels[b].Row })
	}
	return cols
}
