package layout

import (
	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/palette"
)

// SingleRow is one color system row of a single-person layout.
type SingleRow struct {
	Group  palette.Group `json:"group"`
	Top    int           `json:"y"`
	Blocks []Block       `json:"blocks"`
}

// SingleLayout is the placement of a single-person result image.
type SingleLayout struct {
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Geometry SingleGeometry `json:"geometry"`
	Rows     []SingleRow    `json:"rows"`
}

// Blocks returns every block of the layout in drawing order.
func (l SingleLayout) Blocks() []Block {
	var out []Block
	for _, r := range l.Rows {
		out = append(out, r.Blocks...)
	}
	return out
}

// Single lays out items and moves for one person. Inputs need not be
// sorted.
func (e *Engine) Single(items []catalog.Item, moves []catalog.Move, g SingleGeometry) SingleLayout {
	items, moves = e.SortItems(items, moves)
	groups := e.GroupByColorSystem(items, moves)

	rowStride := g.TileHeight + g.InfoHeight + g.RowGap
	l := SingleLayout{
		Geometry: g,
		Rows:     make([]SingleRow, 0, len(groups)),
	}

	widest := 0
	y := g.HeaderHeight + g.RowGap
	for _, grp := range groups {
		row := SingleRow{Group: grp.Group, Top: y}
		x := g.SidePadding
		for i, bucket := range grp.Colors {
			if i > 0 {
				x += g.ColorGap
			}
			for _, m := range bucket.Moves {
				row.Blocks = append(row.Blocks, moveBlock(m, x, y, g.MoveWidth, g.TileHeight))
				x += g.MoveWidth
			}
			for _, it := range bucket.Items {
				row.Blocks = append(row.Blocks, itemBlock(it, x, y, g.ItemWidth, g.TileHeight))
				x += g.ItemWidth
			}
		}
		widest = max(widest, x+g.SidePadding)
		l.Rows = append(l.Rows, row)
		y += rowStride
	}

	l.Width = max(widest, g.MinWidth)
	l.Height = g.HeaderHeight + len(groups)*rowStride + g.RowGap
	return l
}

func moveBlock(m catalog.Move, x, y, w, h int) Block {
	return Block{
		Kind:      KindMove,
		No:        m.MoveNo,
		Name:      m.Name,
		Color:     m.Color,
		ImagePath: m.ImagePath,
		Left:      x,
		Right:     x + w,
		Top:       y,
		Bottom:    y + h,
	}
}

func itemBlock(it catalog.Item, x, y, w, h int) Block {
	return Block{
		Kind:      KindItem,
		No:        it.No,
		Name:      it.Name,
		Color:     it.Color,
		ImagePath: it.ImagePath,
		Left:      x,
		Right:     x + w,
		Top:       y,
		Bottom:    y + h,
	}
}
