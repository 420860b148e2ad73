package layout

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/palette"
)

// Engine computes layouts. It only carries a logger for reporting records
// with colors outside the palette.
type Engine struct {
	logger *log.Logger
}

// New returns an Engine. A nil logger falls back to log.Default().
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{logger: logger}
}

// ColorBucket holds the moves and items of one color inside a row.
type ColorBucket struct {
	Color palette.Color  `json:"color"`
	Moves []catalog.Move `json:"hissatsus"`
	Items []catalog.Item `json:"items"`
}

// GroupRow is one color system with its non-empty color buckets in palette
// order.
type GroupRow struct {
	Group  palette.Group `json:"group"`
	Colors []ColorBucket `json:"colors"`
}

// SortItems returns sorted copies of moves and items. Moves are ordered by
// number. Items are ordered by color system, then by color within the
// system, then items with a move before items without, then by number.
// Colors outside the palette sort into the first system after all known
// colors of that system.
func (e *Engine) SortItems(items []catalog.Item, moves []catalog.Move) ([]catalog.Item, []catalog.Move) {
	sortedMoves := slices.Clone(moves)
	slices.SortStableFunc(sortedMoves, func(a, b catalog.Move) int {
		return cmp.Compare(a.MoveNo, b.MoveNo)
	})

	sortedItems := slices.Clone(items)
	for _, it := range sortedItems {
		if !it.Color.Known() {
			e.logger.Warn("unknown item color", "no", it.No, "color", it.Color, "fallback", palette.DefaultGroup())
		}
	}
	slices.SortStableFunc(sortedItems, compareItems)
	return sortedItems, sortedMoves
}

func compareItems(a, b catalog.Item) int {
	ga, _ := palette.GroupOf(a.Color)
	gb, _ := palette.GroupOf(b.Color)
	if c := cmp.Compare(palette.GroupRank(ga), palette.GroupRank(gb)); c != 0 {
		return c
	}
	if c := cmp.Compare(colorIndex(a.Color), colorIndex(b.Color)); c != 0 {
		return c
	}
	if c := cmp.Compare(moveOrder(a), moveOrder(b)); c != 0 {
		return c
	}
	return cmp.Compare(a.No, b.No)
}

func colorIndex(c palette.Color) int {
	if i := palette.IndexInGroup(c); i >= 0 {
		return i
	}
	return len(palette.Priority())
}

func moveOrder(it catalog.Item) int {
	if it.HasMove() {
		return 0
	}
	return 1
}

// GroupByColorSystem buckets already sorted items and moves into rows, one
// per non-empty color system in palette order. Records whose color is not
// in the palette are placed under the default color.
func (e *Engine) GroupByColorSystem(items []catalog.Item, moves []catalog.Move) []GroupRow {
	bucketMoves := map[palette.Color][]catalog.Move{}
	bucketItems := map[palette.Color][]catalog.Item{}

	for _, m := range moves {
		c, ok := palette.Normalize(m.Color)
		if !ok {
			e.logger.Warn("unknown move color", "hissatsu_no", m.MoveNo, "color", m.Color, "fallback", c)
		}
		bucketMoves[c] = append(bucketMoves[c], m)
	}
	for _, it := range items {
		c, _ := palette.Normalize(it.Color)
		bucketItems[c] = append(bucketItems[c], it)
	}

	rows := []GroupRow{}
	for _, g := range palette.Groups() {
		row := GroupRow{Group: g}
		for _, c := range palette.Colors(g) {
			if len(bucketMoves[c]) == 0 && len(bucketItems[c]) == 0 {
				continue
			}
			row.Colors = append(row.Colors, ColorBucket{
				Color: c,
				Moves: bucketMoves[c],
				Items: bucketItems[c],
			})
		}
		if len(row.Colors) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// WrapRow orders moves by the global color priority, keeping input order
// within a color, and splits the result into lines of at most maxPerLine
// moves. Unknown colors are treated as the default color. A maxPerLine
// below one is treated as one.
func (e *Engine) WrapRow(moves []catalog.Move, maxPerLine int) [][]catalog.Move {
	if maxPerLine < 1 {
		maxPerLine = 1
	}
	byColor := map[palette.Color][]catalog.Move{}
	for _, m := range moves {
		c, ok := palette.Normalize(m.Color)
		if !ok {
			e.logger.Warn("unknown move color", "hissatsu_no", m.MoveNo, "color", m.Color, "fallback", c)
		}
		byColor[c] = append(byColor[c], m)
	}

	ordered := make([]catalog.Move, 0, len(moves))
	for _, c := range palette.Priority() {
		ordered = append(ordered, byColor[c]...)
	}

	lines := [][]catalog.Move{}
	for chunk := range slices.Chunk(ordered, maxPerLine) {
		lines = append(lines, chunk)
	}
	return lines
}
