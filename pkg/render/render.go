package render

import (
	"bytes"
	"image"
	"image/color"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/mydungeon/pkg/errors"
	"github.com/matzehuels/mydungeon/pkg/fonts"
	"github.com/matzehuels/mydungeon/pkg/layout"
)

// Canvas colors.
var (
	Background  = color.RGBA{245, 245, 250, 255}
	TextColor   = color.RGBA{40, 40, 40, 255}
	HeaderColor = color.RGBA{100, 100, 200, 255}

	// Placeholder fills.
	MissingFill = color.RGBA{211, 211, 211, 255}
	FailedFill  = color.RGBA{128, 128, 128, 255}
)

// ImageLoader opens tile images.
type ImageLoader interface {
	Load(path string) (image.Image, error)
}

// ImageLoaderFunc adapts a function to ImageLoader.
type ImageLoaderFunc func(path string) (image.Image, error)

func (f ImageLoaderFunc) Load(path string) (image.Image, error) { return f(path) }

// FileLoader decodes images from disk, honoring EXIF orientation.
var FileLoader ImageLoader = ImageLoaderFunc(func(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
})

// Option configures a Renderer.
type Option func(*Renderer)

func WithLoader(l ImageLoader) Option  { return func(r *Renderer) { r.loader = l } }
func WithLogger(l *log.Logger) Option { return func(r *Renderer) { r.logger = l } }
func WithFont(f *fonts.Font) Option   { return func(r *Renderer) { r.font = f } }

// Renderer paints layouts. It is safe for concurrent use.
type Renderer struct {
	font   *fonts.Font
	loader ImageLoader
	logger *log.Logger
}

// New returns a Renderer. Without WithFont the system font search of
// fonts.Default is used.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{loader: FileLoader}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.font == nil {
		f, err := fonts.Default()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "load fonts")
		}
		r.font = f
	}
	r.logger.Debug("renderer ready", "font", r.font.Source())
	return r, nil
}

// canvas bundles a drawing context with the faces of one render.
type canvas struct {
	dc    *gg.Context
	faces fonts.Set
}

func (r *Renderer) newCanvas(width, height int) (*canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New(errors.ErrCodeRenderFailed, "invalid canvas size %dx%d", width, height)
	}
	faces, err := r.font.Set()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "build font faces")
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(Background)
	dc.Clear()
	return &canvas{dc: dc, faces: faces}, nil
}

func (c *canvas) close() { c.faces.Close() }

// text draws s with the anchor (ax, ay) at (x, y). An anchor of (0.5, 0.5)
// centers the string on the point; (0, 1) puts its top-left corner there.
func (c *canvas) text(s string, face font.Face, col color.Color, x, y, ax, ay float64) {
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, x, y, ax, ay)
}

func (c *canvas) fillRect(b layout.Block, fill color.Color) {
	c.dc.DrawRectangle(float64(b.Left), float64(b.Top), float64(b.Width()), float64(b.Height()))
	c.dc.SetColor(fill)
	c.dc.Fill()
}

func (c *canvas) strokeRect(b layout.Block, stroke color.Color) {
	c.dc.DrawRectangle(float64(b.Left)+0.5, float64(b.Top)+0.5, float64(b.Width())-1, float64(b.Height())-1)
	c.dc.SetColor(stroke)
	c.dc.SetLineWidth(1)
	c.dc.Stroke()
}

// tile pastes the block's image scaled to the block. It reports false when
// the block has no image or the image could not be loaded; the caller
// draws the placeholder.
func (r *Renderer) tile(c *canvas, b layout.Block) (drawn, failed bool) {
	if b.ImagePath == "" {
		return false, false
	}
	img, err := r.loader.Load(b.ImagePath)
	if err != nil {
		r.logger.Warn("tile image unreadable", "kind", b.Kind, "no", b.No, "path", b.ImagePath, "err", err)
		return false, true
	}
	scaled := imaging.Resize(img, b.Width(), b.Height(), imaging.Lanczos)
	c.dc.DrawImage(scaled, b.Left, b.Top)
	return true, false
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}
