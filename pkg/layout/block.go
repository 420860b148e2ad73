package layout

import (
	"encoding/json"
	"image"

	"github.com/matzehuels/mydungeon/pkg/palette"
)

// Kind distinguishes item tiles from move tiles.
type Kind string

const (
	KindItem Kind = "item"
	KindMove Kind = "hissatsu"
)

// Block is a single rectangular tile. Coordinates are canvas pixels with y
// growing downwards, so Top < Bottom.
type Block struct {
	Kind      Kind
	No        int
	Name      string
	Color     palette.Color
	ImagePath string

	Left, Right int
	Top, Bottom int
}

// Width returns the horizontal span of the block.
func (b Block) Width() int { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() int { return b.Bottom - b.Top }

// CenterX returns the horizontal center of the block.
func (b Block) CenterX() int { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center of the block.
func (b Block) CenterY() int { return (b.Top + b.Bottom) / 2 }

// Rect returns the block as an image rectangle.
func (b Block) Rect() image.Rectangle { return image.Rect(b.Left, b.Top, b.Right, b.Bottom) }

type jsonBlock struct {
	Kind   Kind          `json:"kind"`
	No     int           `json:"no"`
	Name   string        `json:"name"`
	Color  palette.Color `json:"color"`
	X      int           `json:"x"`
	Y      int           `json:"y"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
}

// MarshalJSON encodes the block as position plus size. Image paths are
// host-specific and left out.
func (b Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonBlock{
		Kind:   b.Kind,
		No:     b.No,
		Name:   b.Name,
		Color:  b.Color,
		X:      b.Left,
		Y:      b.Top,
		Width:  b.Width(),
		Height: b.Height(),
	})
}
