package catalog

import (
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mydungeon/pkg/palette"
)

// Catalog is the immutable, indexed view of the reference tables.
type Catalog struct {
	items     []Item
	itemIndex map[int]int
	moves     []Move
	moveIndex map[int]int
	byMove    map[int][]int
	colors    []ColorMeaning
	actions   []Action

	prober ImageProber
	logger *log.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithProber sets the image prober. Without one, no images resolve.
func WithProber(p ImageProber) Option {
	return func(c *Catalog) { c.prober = p }
}

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// New indexes t. When a key appears more than once the first row wins and
// the duplicate is logged.
func New(t *Tables, opts ...Option) *Catalog {
	c := &Catalog{
		itemIndex: make(map[int]int, len(t.Items)),
		moveIndex: make(map[int]int, len(t.Moves)),
		byMove:    make(map[int][]int),
		colors:    slices.Clone(t.Colors),
		actions:   slices.Clone(t.Actions),
		prober:    nullProber{},
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, it := range t.Items {
		if _, dup := c.itemIndex[it.No]; dup {
			c.logger.Warn("duplicate item row ignored", "no", it.No)
			continue
		}
		c.itemIndex[it.No] = len(c.items)
		c.items = append(c.items, it)
		if m, ok := it.Move(); ok {
			c.byMove[m] = append(c.byMove[m], len(c.items)-1)
		}
	}
	for _, m := range t.Moves {
		if _, dup := c.moveIndex[m.MoveNo]; dup {
			c.logger.Warn("duplicate move row ignored", "hissatsu_no", m.MoveNo)
			continue
		}
		c.moveIndex[m.MoveNo] = len(c.moves)
		c.moves = append(c.moves, m)
	}
	for _, cm := range c.colors {
		if cm.Color != "" && !cm.Color.Known() {
			c.logger.Warn("unknown color in color table", "system", cm.System, "color", cm.Color)
		}
	}
	return c
}

// Open loads the tables from csvDir and resolves images under imagesDir.
func Open(csvDir, imagesDir string, opts ...Option) (*Catalog, error) {
	t, err := Load(csvDir)
	if err != nil {
		return nil, err
	}
	opts = append([]Option{WithProber(DirProber{Root: imagesDir})}, opts...)
	return New(t, opts...), nil
}

// Item returns the item for number no with its image path resolved.
func (c *Catalog) Item(no int) (Item, bool) {
	idx, ok := c.itemIndex[no]
	if !ok {
		return Item{}, false
	}
	it := c.items[idx]
	it.ImagePath = c.probe(ItemDir, strconv.Itoa(no))
	return it, true
}

// Lookup returns the item row for number no without resolving its image.
func (c *Catalog) Lookup(no int) (Item, bool) {
	idx, ok := c.itemIndex[no]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Move returns the move numbered no with its image path resolved.
func (c *Catalog) Move(no int) (Move, bool) {
	idx, ok := c.moveIndex[no]
	if !ok {
		return Move{}, false
	}
	m := c.moves[idx]
	m.ImagePath = c.probe(MoveDir, strconv.Itoa(no)+MoveSuffix)
	return m, true
}

// Items returns every item row in table order. Image paths are not
// resolved; use Item for that.
func (c *Catalog) Items() []Item { return slices.Clone(c.items) }

// Moves returns every move row in table order without image paths.
func (c *Catalog) Moves() []Move { return slices.Clone(c.moves) }

// ItemsByNumbers resolves numbers to items in input order. Numbers without
// a table row are skipped with a warning.
func (c *Catalog) ItemsByNumbers(numbers []int) []Item {
	out := make([]Item, 0, len(numbers))
	for _, n := range numbers {
		it, ok := c.Item(n)
		if !ok {
			c.logger.Warn("item not found", "no", n)
			continue
		}
		out = append(out, it)
	}
	return out
}

// ItemsForMove returns the item rows whose move number is moveNo, in table
// order, without image paths.
func (c *Catalog) ItemsForMove(moveNo int) []Item {
	idxs := c.byMove[moveNo]
	out := make([]Item, len(idxs))
	for i, idx := range idxs {
		out[i] = c.items[idx]
	}
	return out
}

// ColorMeanings returns the color meaning rows in table order.
func (c *Catalog) ColorMeanings() []ColorMeaning { return slices.Clone(c.colors) }

// Actions returns the action description rows in table order.
func (c *Catalog) Actions() []Action { return slices.Clone(c.actions) }

func (c *Catalog) probe(dir, key string) string {
	path, ok := c.prober.Probe(dir, key)
	if !ok {
		c.logger.Warn("image not found", "dir", dir, "key", key)
		return ""
	}
	c.logger.Debug("found image", "path", path)
	return path
}

// ImageURL rewrites an image path to a URL rooted at its "images" path
// segment, e.g. "/srv/database/images/item/1.jpg" becomes
// "/images/item/1.jpg". Paths without such a segment yield "".
func ImageURL(path string) string {
	if path == "" {
		return ""
	}
	parts := strings.Split(path, string(filepath.Separator))
	idx := slices.Index(parts, "images")
	if idx < 0 {
		return ""
	}
	return "/" + strings.Join(parts[idx:], "/")
}

// =============================================================================
// Color counts
// =============================================================================

// ColorCounts aggregates item colors into the four color systems.
type ColorCounts struct {
	ColorSystems []SystemCount `json:"color_systems"`
}

// SystemCount is the per-system entry of ColorCounts.
type SystemCount struct {
	Name       palette.Group `json:"name"`
	Meaning    string        `json:"meaning"`
	TotalCount int           `json:"total_count"`
	Colors     []ColorCount  `json:"colors"`
}

// ColorCount is the per-color entry of a SystemCount.
type ColorCount struct {
	Name    palette.Color `json:"name"`
	Meaning string        `json:"meaning"`
	Count   int           `json:"count"`
}

// ColorCounts counts items by color and groups the counts by color system
// in system priority order. Colors and systems with a zero count are
// omitted. Meanings come from the color meaning table, so a system absent
// from that table is omitted too.
func (c *Catalog) ColorCounts(items []Item) ColorCounts {
	counts := make(map[palette.Color]int)
	for _, it := range items {
		counts[it.Color]++
	}

	out := ColorCounts{ColorSystems: []SystemCount{}}
	for _, g := range palette.Groups() {
		var sc *SystemCount
		for _, row := range c.colors {
			if row.System != g {
				continue
			}
			if sc == nil {
				sc = &SystemCount{Name: g, Meaning: row.SystemMeaning, Colors: []ColorCount{}}
			}
			if row.Color == "" {
				continue
			}
			if n := counts[row.Color]; n > 0 {
				sc.Colors = append(sc.Colors, ColorCount{Name: row.Color, Meaning: row.Meaning, Count: n})
				sc.TotalCount += n
			}
		}
		if sc != nil && sc.TotalCount > 0 {
			out.ColorSystems = append(out.ColorSystems, *sc)
		}
	}
	return out
}
