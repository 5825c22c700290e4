package overlay

import (
	"bytes"
	"time"

	"github.com/fogleman/gg"

	"github.com/nickdnj/TempestWeather/internal/observability"
)

// Renderer rasterizes a display list into PNG bytes with an alpha channel.
type Renderer struct {
	assets  *Assets
	metrics *observability.Metrics
}

// NewRenderer creates a renderer drawing with the given assets.
func NewRenderer(assets *Assets, metrics *observability.Metrics) *Renderer {
	return &Renderer{assets: assets, metrics: metrics}
}

// Render executes the instruction list against a transparent canvas. Any
// list, including waiting and error panels, encodes to a valid PNG of the
// list's dimensions.
func (r *Renderer) Render(list DisplayList) ([]byte, error) {
	start := time.Now()
	dc := gg.NewContext(list.Width, list.Height)

	for _, op := range list.Ops {
		switch o := op.(type) {
		case RectOp:
			dc.SetColor(o.Color)
			dc.DrawRectangle(o.X, o.Y, o.W, o.H)
			dc.Fill()

		case TextOp:
			dc.SetFontFace(r.assets.Face(o.Size))
			dc.SetColor(o.Color)
			ax := 0.0
			if o.Align == AlignCenter {
				ax = 0.5
			}
			if o.Bold {
				// Fake bold with offset passes, same trick broadcasters use
				// for lower-third captions.
				for _, off := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
					dc.DrawStringAnchored(o.Text, o.X+off[0], o.Y+off[1], ax, 0)
				}
			} else {
				dc.DrawStringAnchored(o.Text, o.X, o.Y, ax, 0)
			}

		case IconOp:
			img := r.assets.Icon(o.Name, o.Size)
			dc.DrawImage(img, int(o.X), int(o.Y))
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}

	r.metrics.RendersTotal.Inc()
	r.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	return buf.Bytes(), nil
}
