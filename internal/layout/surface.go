// Package layout lays out report content on A4 pages with an explicit cursor
// and draws it on a Surface.
package layout

// Page geometry in millimetres.
const (
	PageWidth    = 210.0
	PageHeight   = 297.0
	Margin       = 20.0
	BottomLimit  = 280.0
	ContentWidth = PageWidth - 2*Margin
)

type Color struct {
	R, G, B int
}

var (
	ColorText    = Color{30, 41, 59}
	ColorMuted   = Color{100, 116, 139}
	ColorPrimary = Color{37, 99, 235}
	ColorRule    = Color{203, 213, 225}
	ColorHeader  = Color{226, 232, 240}
	ColorZebra   = Color{248, 250, 252}
	ColorTint    = Color{239, 246, 255}
	ColorWhite   = Color{255, 255, 255}
)

// Style is passed with every text call so no font or colour state leaks
// from one primitive into the next.
type Style struct {
	Size  float64
	Bold  bool
	Color Color
}

type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Paint describes how a shape is filled and stroked.
// Mode follows gofpdf: "F" fill, "D" draw, "FD" both.
type Paint struct {
	Fill      Color
	Stroke    Color
	Mode      string
	LineWidth float64
	Radius    float64
}

// Surface is the drawing target. Coordinates are millimetres from the top
// left corner of the current page; y for Text is the baseline.
type Surface interface {
	AddPage()
	Text(x, y, w float64, text string, st Style, align Align)
	Line(x1, y1, x2, y2 float64, p Paint)
	Rect(x, y, w, h float64, p Paint)
	Image(name string, data []byte, x, y, w, h float64) error
	PageCount() int
	Err() error
}
