package overlay

import (
	"image/color"

	"github.com/nickdnj/TempestWeather/internal/domain"
)

// Align positions a text run relative to its X coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Op is one draw instruction. The layout engine emits an ordered list of
// ops; the renderer executes them in order against a transparent canvas.
type Op interface {
	op()
}

// RectOp fills a rectangle, used for the translucent backing panel.
type RectOp struct {
	X, Y, W, H float64
	Color      color.RGBA
}

// TextOp draws one run of text. Y is the text baseline.
type TextOp struct {
	Text  string
	X, Y  float64
	Size  float64
	Align Align
	Color color.RGBA
	Bold  bool
}

// IconOp draws a named icon scaled to a square of Size pixels, anchored at
// its top-left corner.
type IconOp struct {
	Name string
	X, Y float64
	Size int
}

func (RectOp) op() {}
func (TextOp) op() {}
func (IconOp) op() {}

// DisplayList is the full set of instructions for one overlay bitmap.
type DisplayList struct {
	Width  int
	Height int
	Ops    []Op
}

func (l *DisplayList) add(ops ...Op) {
	l.Ops = append(l.Ops, ops...)
}

// style is a theme's color preset.
type style struct {
	Background color.RGBA
	Text       color.RGBA
}

var themeStyles = map[domain.Theme]style{
	domain.ThemeDark: {
		Background: color.RGBA{R: 18, G: 24, B: 38, A: 220},
		Text:       color.RGBA{R: 235, G: 240, B: 255, A: 255},
	},
	domain.ThemeLight: {
		Background: color.RGBA{R: 246, G: 248, B: 252, A: 220},
		Text:       color.RGBA{R: 24, G: 33, B: 54, A: 255},
	},
}

// creditColor stays white on both themes so the attribution line reads over
// video.
var creditColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
