package render

import (
	"image"

	"github.com/matzehuels/mydungeon/pkg/layout"
)

// SingleTitle heads every single-person image.
const SingleTitle = "My Dungeon Result"

// Header is the text shown above a single-person image. All fields are
// optional; the birth line is drawn only when both date and time are set.
type Header struct {
	Name      string
	Birthdate string
	Birthtime string
}

func (h Header) hasBirth() bool { return h.Birthdate != "" && h.Birthtime != "" }

// RenderSingle paints a single-person layout.
func (r *Renderer) RenderSingle(l layout.SingleLayout, h Header) (image.Image, error) {
	c, err := r.newCanvas(l.Width, l.Height)
	if err != nil {
		return nil, err
	}
	defer c.close()

	mid := float64(l.Width / 2)
	c.text(SingleTitle, c.faces.Title, HeaderColor, mid, 25, 0.5, 0.5)
	if h.Name != "" {
		c.text(h.Name, c.faces.Large, TextColor, mid, 60, 0.5, 0.5)
	}
	if h.hasBirth() {
		y := 55.0
		if h.Name != "" {
			y = 85
		}
		c.text("Birthdate: "+h.Birthdate+" "+h.Birthtime, c.faces.Medium, TextColor, mid, y, 0.5, 0.5)
	}

	for _, b := range l.Blocks() {
		drawn, failed := r.tile(c, b)
		switch {
		case drawn:
		case failed:
			c.fillRect(b, FailedFill)
		default:
			c.fillRect(b, MissingFill)
			c.text("No Image", c.faces.Medium, TextColor, float64(b.CenterX()), float64(b.CenterY()), 0.5, 0.5)
		}
	}
	return c.dc.Image(), nil
}
