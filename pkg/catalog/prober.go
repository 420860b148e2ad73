package catalog

import (
	"os"
	"path/filepath"
)

// Image subdirectories and the filename suffix used for move images.
const (
	ItemDir    = "item"
	MoveDir    = "Hissatsuwaza"
	MoveSuffix = "_h"
)

// Extensions lists the image extensions probed, in order. The first file
// that exists wins.
var Extensions = []string{".jpg", ".jpeg", ".png", ".gif", ".JPG", ".JPEG", ".PNG", ".GIF"}

// ImageProber resolves an image key (e.g. "12" or "6_h") inside a
// subdirectory to a path. It reports false when no image exists.
type ImageProber interface {
	Probe(dir, key string) (string, bool)
}

// DirProber probes the filesystem under Root.
type DirProber struct {
	Root string
}

// Probe implements ImageProber.
func (p DirProber) Probe(dir, key string) (string, bool) {
	base := filepath.Join(p.Root, dir)
	for _, ext := range Extensions {
		path := filepath.Join(base, key+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// MapProber resolves keys from a fixed map keyed by "dir/key".
type MapProber map[string]string

// Probe implements ImageProber.
func (m MapProber) Probe(dir, key string) (string, bool) {
	path, ok := m[dir+"/"+key]
	return path, ok
}

type nullProber struct{}

func (nullProber) Probe(string, string) (string, bool) { return "", false }
