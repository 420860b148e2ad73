package layout

import "github.com/matzehuels/mydungeon/pkg/catalog"

// CompatRow is one non-empty category row of a compatibility layout.
// Index is the row's position in the four-row display order and selects
// its label text.
type CompatRow struct {
	Index  int       `json:"index"`
	LabelX int       `json:"label_x"`
	LabelY int       `json:"label_y"`
	Lines  [][]Block `json:"lines"`
}

// CompatLayout is the placement of a compatibility result image.
type CompatLayout struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Geometry CompatGeometry `json:"geometry"`
	Rows     []CompatRow    `json:"rows"`
}

// Blocks returns every block of the layout in drawing order.
func (l CompatLayout) Blocks() []Block {
	var out []Block
	for _, r := range l.Rows {
		for _, line := range r.Lines {
			out = append(out, line...)
		}
	}
	return out
}

// Compat lays out the four category rows. Empty rows are skipped and
// take no vertical space. Each row ends rowGap above the next; lines
// inside a row are separated by lineGap.
func (e *Engine) Compat(rows [4][]catalog.Move, g CompatGeometry) CompatLayout {
	l := CompatLayout{Geometry: g, Rows: []CompatRow{}}

	widest := 0
	y := g.HeaderHeight
	for idx, moves := range rows {
		if len(moves) == 0 {
			continue
		}
		y += g.RowGap
		row := CompatRow{Index: idx, LabelX: g.SidePadding, LabelY: y}
		y += g.LabelHeight

		lines := e.WrapRow(moves, g.MaxPerLine)
		for i, line := range lines {
			if i > 0 {
				y += g.LineGap
			}
			x := g.SidePadding
			blocks := make([]Block, 0, len(line))
			for _, m := range line {
				blocks = append(blocks, moveBlock(m, x, y, g.TileWidth, g.TileHeight))
				x += g.TileWidth
			}
			widest = max(widest, x+g.SidePadding)
			row.Lines = append(row.Lines, blocks)
			y += g.TileHeight
		}
		l.Rows = append(l.Rows, row)
	}

	l.Width = max(widest, g.MinWidth)
	l.Height = y + g.RowGap
	return l
}
