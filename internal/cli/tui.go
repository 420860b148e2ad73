package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/mydungeon/pkg/catalog"
	"github.com/matzehuels/mydungeon/pkg/palette"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	detailKeyStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	detailBoxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// =============================================================================
// CatalogModel - Interactive catalog browser
// =============================================================================

// catalogView selects the table the browser lists.
type catalogView int

const (
	viewMoves catalogView = iota
	viewItems
)

// entry is one row of the browser, flattened from an item or a move.
type entry struct {
	No     int
	Name   string
	Color  palette.Color
	Extra  string
	Fields [][2]string
}

// CatalogModel is the bubbletea model behind `catalog browse`. Tab switches
// between hissatsus and items; enter opens the detail pane.
type CatalogModel struct {
	Moves  []entry
	Items  []entry
	Tab    catalogView
	Cursor int
	Offset int
	Height int
	Detail bool
}

// NewCatalogModel builds the browser rows from cat.
func NewCatalogModel(cat *catalog.Catalog) CatalogModel {
	m := CatalogModel{Height: 15}
	for _, mv := range cat.Moves() {
		m.Moves = append(m.Moves, moveEntry(mv, cat.ItemsForMove(mv.MoveNo)))
	}
	for _, it := range cat.Items() {
		m.Items = append(m.Items, itemEntry(it))
	}
	return m
}

func moveEntry(m catalog.Move, items []catalog.Item) entry {
	nos := make([]string, 0, len(items))
	for _, it := range items {
		nos = append(nos, strconv.Itoa(it.No))
	}
	return entry{
		No:    m.MoveNo,
		Name:  m.Name,
		Color: m.Color,
		Extra: strings.Join(nos, " "),
		Fields: [][2]string{
			{"Meaning", m.Meaning},
			{"Movement", m.Movement},
			{"Posture", m.BasicPosture},
			{"Talent", m.Talent},
			{"Traits", m.Characteristics},
			{"Advice", m.Advice},
			{"On", m.OnState},
			{"Off", m.OffState},
			{"Image", m.ImagePath},
		},
	}
}

func itemEntry(it catalog.Item) entry {
	extra := ""
	if pair, ok := it.Pair(); ok {
		extra = "+" + strconv.Itoa(pair)
		if mv, ok := it.Move(); ok {
			extra += " → " + strconv.Itoa(mv)
		}
	}
	return entry{
		No:    it.No,
		Name:  it.Name,
		Color: it.Color,
		Extra: extra,
		Fields: [][2]string{
			{"Movement", it.Movement},
			{"About", it.Description},
			{"On", it.OnState},
			{"Off", it.OffState},
			{"Image", it.ImagePath},
		},
	}
}

func (m CatalogModel) rows() []entry {
	if m.Tab == viewItems {
		return m.Items
	}
	return m.Moves
}

// Selected returns the entry under the cursor.
func (m CatalogModel) Selected() (entry, bool) {
	rows := m.rows()
	if m.Cursor < 0 || m.Cursor >= len(rows) {
		return entry{}, false
	}
	return rows[m.Cursor], true
}

func (m CatalogModel) Init() tea.Cmd {
	return nil
}

func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "tab":
			if m.Tab == viewMoves {
				m.Tab = viewItems
			} else {
				m.Tab = viewMoves
			}
			m.Cursor, m.Offset, m.Detail = 0, 0, false
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.rows())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if _, ok := m.Selected(); ok {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m CatalogModel) View() string {
	var b strings.Builder

	title, extra := "Hissatsu", "Items"
	if m.Tab == viewItems {
		title, extra = "Items", "Pair"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  tab switch  q quit"))
	b.WriteString("\n\n")

	rows := m.rows()
	end := min(m.Offset+m.Height, len(rows))

	cells := [][]string{}
	for i := m.Offset; i < end; i++ {
		e := rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		cells = append(cells, []string{cursor, strconv.Itoa(e.No), e.Name, colorChip(e.Color), e.Extra})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "No", "Name", "Color", extra).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())

	if e, ok := m.Selected(); ok && m.Detail {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(renderDetail(e)))
	}

	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(rows)), len(rows))))

	return b.String()
}

// renderDetail lists the non-empty fields of e.
func renderDetail(e entry) string {
	lines := []string{StyleTitle.Render(fmt.Sprintf("No.%d %s", e.No, e.Name))}
	for _, f := range e.Fields {
		if f[1] == "" {
			continue
		}
		lines = append(lines, detailKeyStyle.Render(f[0])+" "+f[1])
	}
	return strings.Join(lines, "\n")
}
