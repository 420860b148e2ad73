package render

import (
	"image"
	"image/color"

	"github.com/matzehuels/mydungeon/pkg/layout"
)

// CompatTitle heads every compatibility image.
const CompatTitle = "My Dungeon Result - 2人の必殺技 -"

// Names used when a person is unnamed.
const (
	DefaultPerson1 = "あなた"
	DefaultPerson2 = "相手"
)

// CompatHeader is the text shown above a compatibility image.
type CompatHeader struct {
	Person1, Person2 Header
}

// Names returns both display names with defaults applied.
func (h CompatHeader) Names() (string, string) {
	p1, p2 := h.Person1.Name, h.Person2.Name
	if p1 == "" {
		p1 = DefaultPerson1
	}
	if p2 == "" {
		p2 = DefaultPerson2
	}
	return p1, p2
}

// Labels returns the four row labels in display order: joint, person 1
// synergy, person 2 synergy, both have.
func (h CompatHeader) Labels() [4]string {
	p1, p2 := h.Names()
	return [4]string{
		"二人で発動する必殺技",
		p1 + "だけで発動するが" + p2 + "がいて相乗効果がある必殺技",
		p2 + "だけで発動するが" + p1 + "がいて相乗効果がある必殺技",
		"お互い持っている必殺技（相乗効果×2）",
	}
}

var placeholderStroke = color.RGBA{128, 128, 128, 255}

// RenderCompat paints a compatibility layout.
func (r *Renderer) RenderCompat(l layout.CompatLayout, h CompatHeader) (image.Image, error) {
	c, err := r.newCanvas(l.Width, l.Height)
	if err != nil {
		return nil, err
	}
	defer c.close()

	mid := float64(l.Width) / 2
	p1, p2 := h.Names()
	c.text(CompatTitle, c.faces.Title, HeaderColor, mid, 25, 0.5, 1)
	c.text(p1+" × "+p2, c.faces.Large, TextColor, mid, 65, 0.5, 1)
	birth := h.Person1.Birthdate + " " + h.Person1.Birthtime + " × " + h.Person2.Birthdate + " " + h.Person2.Birthtime
	c.text(birth, c.faces.Medium, TextColor, mid, 100, 0.5, 1)

	labels := h.Labels()
	for _, row := range l.Rows {
		if row.Index >= 0 && row.Index < len(labels) {
			c.text(labels[row.Index], c.faces.Medium, TextColor, float64(row.LabelX), float64(row.LabelY), 0, 1)
		}
		for _, line := range row.Lines {
			for _, b := range line {
				if drawn, _ := r.tile(c, b); drawn {
					continue
				}
				c.fillRect(b, MissingFill)
				c.strokeRect(b, placeholderStroke)
				x := float64(b.Left + 10)
				y := float64(b.CenterY())
				c.text("No Image", c.faces.Small, color.Black, x, y, 0, 1)
				c.text(b.Name, c.faces.Small, color.Black, x, y+c.dc.FontHeight()*1.2, 0, 1)
			}
		}
	}
	return c.dc.Image(), nil
}
