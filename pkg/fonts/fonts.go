// Package fonts loads the font faces used by the image compositor.
//
// Fonts are searched in a list of candidate files so that Japanese glyphs
// render when a CJK font is installed. When none of the candidates can be
// read the embedded Go font is used; it covers Latin text only, so
// Japanese labels degrade to missing glyphs but rendering never fails.
//
// Faces keep per-face glyph caches and are not safe for concurrent use.
// A [Font] is shared; call [Font.Set] for every render to get fresh faces.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Point sizes of the four faces in a [Set].
const (
	SizeSmall  = 12
	SizeMedium = 14
	SizeLarge  = 20
	SizeTitle  = 28
)

// EmbeddedName is the [Font.Source] of the embedded fallback font.
const EmbeddedName = "embedded:goregular"

// DefaultCandidates lists fonts with Japanese coverage first, then plain
// sans fonts. Bare file names are searched in the system font directories.
var DefaultCandidates = []string{
	"NotoSansCJK-Regular.ttc",
	"NotoSansJP-Regular.ttf",
	"fonts-japanese-gothic.ttf",
	"ipaexg.ttf",
	"ヒラギノ角ゴシック W3.ttc",
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
}

// Set holds one face per text role.
type Set struct {
	Small  font.Face // placeholder captions
	Medium font.Face // row labels, birth data
	Large  font.Face // names
	Title  font.Face
}

// Close releases the faces.
func (s Set) Close() error {
	for _, f := range []font.Face{s.Small, s.Medium, s.Large, s.Title} {
		if f != nil {
			f.Close()
		}
	}
	return nil
}

// Font is a parsed font file that can produce faces at any size.
type Font struct {
	source  string
	newFace func(size float64) (font.Face, error)
}

// Source returns the path of the loaded file, or EmbeddedName.
func (f *Font) Source() string { return f.source }

// Embedded reports whether f is the embedded fallback.
func (f *Font) Embedded() bool { return f.source == EmbeddedName }

// Face returns a new face at the given point size.
func (f *Font) Face(size float64) (font.Face, error) { return f.newFace(size) }

// Set returns fresh faces at the four standard sizes.
func (f *Font) Set() (Set, error) {
	var s Set
	for _, slot := range []struct {
		dst  *font.Face
		size float64
	}{
		{&s.Small, SizeSmall},
		{&s.Medium, SizeMedium},
		{&s.Large, SizeLarge},
		{&s.Title, SizeTitle},
	} {
		face, err := f.newFace(slot.size)
		if err != nil {
			s.Close()
			return Set{}, fmt.Errorf("face %s@%v: %w", f.source, slot.size, err)
		}
		*slot.dst = face
	}
	return s, nil
}

// Load returns the first candidate that parses, or the embedded font when
// none does. An error is only returned if the embedded font is unusable.
func Load(candidates []string) (*Font, error) {
	for _, c := range candidates {
		path, err := resolve(c)
		if err != nil {
			continue
		}
		if f, err := loadFile(path); err == nil {
			return f, nil
		}
	}
	return Embedded()
}

var (
	embedded     *Font
	embeddedErr  error
	embeddedOnce sync.Once
)

// Embedded returns the embedded Go font. It is parsed once.
func Embedded() (*Font, error) {
	embeddedOnce.Do(func() {
		ttf, err := truetype.Parse(goregular.TTF)
		if err != nil {
			embeddedErr = fmt.Errorf("parse embedded font: %w", err)
			return
		}
		embedded = &Font{source: EmbeddedName, newFace: truetypeFaces(ttf)}
	})
	return embedded, embeddedErr
}

var (
	defaultFont     *Font
	defaultFontErr  error
	defaultFontOnce sync.Once
)

// Default returns Load(DefaultCandidates). The result is cached after the
// first call.
func Default() (*Font, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = Load(DefaultCandidates)
	})
	return defaultFont, defaultFontErr
}

// resolve returns c unchanged when it contains a directory, and otherwise
// looks the file name up in the system font directories.
func resolve(c string) (string, error) {
	if strings.ContainsRune(c, filepath.Separator) {
		return c, nil
	}
	return findfont.Find(c)
}

func loadFile(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		if coll.NumFonts() == 0 {
			return nil, fmt.Errorf("%s: empty collection", path)
		}
		sf, err := coll.Font(0)
		if err != nil {
			return nil, err
		}
		return &Font{source: path, newFace: opentypeFaces(sf)}, nil
	}

	if ttf, err := truetype.Parse(data); err == nil {
		return &Font{source: path, newFace: truetypeFaces(ttf)}, nil
	}
	// CFF-flavored OpenType files are rejected by the truetype parser.
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Font{source: path, newFace: opentypeFaces(sf)}, nil
}

func truetypeFaces(f *truetype.Font) func(float64) (font.Face, error) {
	return func(size float64) (font.Face, error) {
		return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}), nil
	}
}

func opentypeFaces(f *opentype.Font) func(float64) (font.Face, error) {
	return func(size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
}
