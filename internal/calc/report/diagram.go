package report

import (
	"fmt"
	"math"

	"ImpactLab/internal/layout"
)

const (
	diagramHeight = 26.0
	barTop        = 8.0
	barHeight     = 10.0
	labelWidth    = 30.0
)

// StressBar is the geometry of the elastic/plastic stress bar.
type StressBar struct {
	Width   float64
	Elastic float64
	Plastic float64
	// Marker is the dynamic stress as a fraction of the ultimate strength,
	// clamped to [0, 1].
	Marker float64
	Valid  bool
}

func NewStressBar(width, yield, ultimate, stress float64) StressBar {
	bar := StressBar{Width: width}
	if !(ultimate > 0) || !finite(ultimate) || !finite(yield) || !finite(stress) {
		return bar
	}
	bar.Valid = true
	bar.Elastic = math.Max(0, math.Min(width, width*yield/ultimate))
	bar.Plastic = width - bar.Elastic
	bar.Marker = math.Max(0, math.Min(stress/ultimate, 1))
	return bar
}

func (s StressBar) MarkerX(x float64) float64 {
	return x + s.Width*s.Marker
}

// YieldLabelX is the left edge of the centred yield label. The label is kept
// clear of the "0" label and of the ultimate label at the right end.
func (s StressBar) YieldLabelX(x float64) float64 {
	lx := x + s.Elastic - labelWidth/2
	return math.Max(x+5, math.Min(lx, x+s.Width-2*labelWidth))
}

func drawStressBar(b *layout.Builder, bar StressBar, yield, ultimate, stress float64, c layout.Color) {
	b.Block(diagramHeight, func(s layout.Surface, top float64) {
		x, y := layout.Margin, top+barTop
		s.Rect(x, y, bar.Elastic, barHeight, layout.Paint{Fill: colorElastic, Mode: "F"})
		s.Rect(x+bar.Elastic, y, bar.Plastic, barHeight, layout.Paint{Fill: colorPlastic, Mode: "F"})
		s.Rect(x, y, bar.Width, barHeight, layout.Paint{Stroke: layout.ColorMuted, Mode: "D", LineWidth: 0.3})

		mx := bar.MarkerX(x)
		s.Line(mx, top+5, mx, y+barHeight+2, layout.Paint{Stroke: c, LineWidth: 0.8})
		note := fmt.Sprintf("σ = %s МПа", fixed(stress, 1))
		nx := math.Max(x, math.Min(mx-15, x+bar.Width-30))
		s.Text(nx, top+4, 30, note, layout.Style{Size: 9, Bold: true, Color: c}, layout.AlignCenter)

		label := layout.Style{Size: 8, Color: layout.ColorMuted}
		s.Text(x, top+23, 0, "0", label, layout.AlignLeft)
		s.Text(bar.YieldLabelX(x), top+23, labelWidth, fmt.Sprintf("σт = %s", fixed(yield, 0)), label, layout.AlignCenter)
		s.Text(x+bar.Width-labelWidth, top+23, labelWidth, fmt.Sprintf("σв = %s", fixed(ultimate, 0)), label, layout.AlignRight)
	})
}
