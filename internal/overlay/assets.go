package overlay

import (
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	_ "image/png" // icon decoding
)

// Assets owns the font and icon resources the renderer draws with. The
// font file is parsed once and faces are memoized per size; icons are
// decoded once and scaled copies memoized per (name, size). Load failures
// degrade to a built-in face or a generated placeholder glyph, never an
// error.
type Assets struct {
	root   string
	font   *truetype.Font
	logger *slog.Logger

	mu     sync.Mutex
	faces  map[int]font.Face
	icons  map[string]image.Image
	scaled map[iconKey]image.Image
}

type iconKey struct {
	name string
	size int
}

// NewAssets loads the overlay font from <root>/fonts/Arial.ttf. Icons
// under <root>/weather_icons are decoded lazily.
func NewAssets(root string, logger *slog.Logger) *Assets {
	a := &Assets{
		root:   root,
		logger: logger,
		faces:  make(map[int]font.Face),
		icons:  make(map[string]image.Image),
		scaled: make(map[iconKey]image.Image),
	}

	path := filepath.Join(root, "fonts", "Arial.ttf")
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("overlay font unavailable, using built-in face", "path", path, "error", err)
		return a
	}
	f, err := truetype.Parse(data)
	if err != nil {
		logger.Warn("overlay font unreadable, using built-in face", "path", path, "error", err)
		return a
	}
	a.font = f
	return a
}

// Face returns a font face for the given pixel size.
func (a *Assets) Face(size float64) font.Face {
	if a.font == nil {
		return basicfont.Face7x13
	}

	key := int(size)
	a.mu.Lock()
	defer a.mu.Unlock()
	if face, ok := a.faces[key]; ok {
		return face
	}
	face := truetype.NewFace(a.font, &truetype.Options{Size: float64(key)})
	a.faces[key] = face
	return face
}

// Icon returns the named icon scaled to a size x size square. Unknown
// names fall back to the "unknown" glyph, and a missing icon directory
// falls back to a generated placeholder.
func (a *Assets) Icon(name string, size int) image.Image {
	if size < 1 {
		size = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := iconKey{name: name, size: size}
	if img, ok := a.scaled[key]; ok {
		return img
	}

	src := a.loadLocked(name)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	a.scaled[key] = dst
	return dst
}

func (a *Assets) loadLocked(name string) image.Image {
	if img, ok := a.icons[name]; ok {
		return img
	}

	img := a.decode(name)
	if img == nil && name != "unknown" {
		img = a.decode("unknown")
	}
	if img == nil {
		img = placeholderIcon(64)
	}
	a.icons[name] = img
	return img
}

func (a *Assets) decode(name string) image.Image {
	path := filepath.Join(a.root, "weather_icons", name+".png")
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		a.logger.Warn("icon unreadable", "path", path, "error", err)
		return nil
	}
	return img
}

// placeholderIcon draws a white outlined square with a diagonal, the
// stand-in for any condition without artwork.
func placeholderIcon(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}

	inset := size / 8
	for x := inset; x < size-inset; x++ {
		img.SetRGBA(x, inset, white)
		img.SetRGBA(x, size-inset-1, white)
	}
	for y := inset; y < size-inset; y++ {
		img.SetRGBA(inset, y, white)
		img.SetRGBA(size-inset-1, y, white)
	}
	for i := inset; i < size-inset; i++ {
		img.SetRGBA(i, i, white)
	}
	return img
}
