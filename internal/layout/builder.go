package layout

import "fmt"

const (
	LineHeight    = 7.0
	titleHeight   = 12.0
	sectionHeight = 14.0
	formulaBox    = 9.0
	formulaDesc   = 6.0
	formulaGap    = 2.0
	tableRow      = 7.0
	dividerHeight = 6.0
	bannerHeight  = 12.0
	captionHeight = 7.0
)

// Table column fractions of ContentWidth.
var TableColumns = [3]float64{0.5, 0.3, 0.2}

// Builder owns the cursor for one document. It is not safe for concurrent
// use; every report builds its own.
type Builder struct {
	s Surface
	y float64
}

func NewBuilder(s Surface) *Builder {
	s.AddPage()
	return &Builder{s: s, y: Margin}
}

func (b *Builder) Pages() int {
	return b.s.PageCount()
}

// EnsureSpace starts a new page when h more millimetres would cross
// BottomLimit. It reports whether a break happened. A fresh page is never
// broken again, even for content taller than the page.
func (b *Builder) EnsureSpace(h float64) bool {
	if b.y+h <= BottomLimit || b.y <= Margin {
		return false
	}
	b.s.AddPage()
	b.y = Margin
	return true
}

// Space advances the cursor without a page-break check. The next primitive
// does the check.
func (b *Builder) Space(h float64) {
	b.y += h
}

func (b *Builder) Title(text string) {
	b.EnsureSpace(titleHeight)
	b.s.Text(Margin, b.y+8, ContentWidth, text, Style{Size: 18, Bold: true, Color: ColorText}, AlignCenter)
	b.y += titleHeight
}

// Line writes a single line of text of height h.
func (b *Builder) Line(text string, h float64, st Style, align Align) {
	b.EnsureSpace(h)
	b.s.Text(Margin, b.y+h*0.7, ContentWidth, text, st, align)
	b.y += h
}

func (b *Builder) Section(text string) {
	b.EnsureSpace(sectionHeight)
	b.s.Text(Margin, b.y+8, ContentWidth, text, Style{Size: 13, Bold: true, Color: ColorPrimary}, AlignLeft)
	b.s.Line(Margin, b.y+10, Margin+ContentWidth, b.y+10, Paint{Stroke: ColorPrimary, LineWidth: 0.4})
	b.y += sectionHeight
}

// Row writes "label  value unit" with the value at a fixed offset.
func (b *Builder) Row(label, value, unit string) {
	b.EnsureSpace(LineHeight)
	b.s.Text(Margin, b.y+5, 0, label, Style{Size: 10, Color: ColorMuted}, AlignLeft)
	if unit != "" {
		value = fmt.Sprintf("%s %s", value, unit)
	}
	b.s.Text(Margin+70, b.y+5, 0, value, Style{Size: 10, Bold: true, Color: ColorText}, AlignLeft)
	b.y += LineHeight
}

// FormulaHeight is the vertical extent of a formula callout.
func FormulaHeight(desc string) float64 {
	h := formulaBox + formulaGap
	if desc != "" {
		h += formulaDesc
	}
	return h
}

func (b *Builder) Formula(formula, desc string) {
	b.EnsureSpace(FormulaHeight(desc))
	b.s.Rect(Margin, b.y, ContentWidth, formulaBox, Paint{Fill: ColorTint, Mode: "F", Radius: 2})
	b.s.Text(Margin+4, b.y+6, 0, formula, Style{Size: 11, Bold: true, Color: ColorText}, AlignLeft)
	if desc != "" {
		b.s.Text(Margin+4, b.y+formulaBox+4.5, 0, desc, Style{Size: 9, Color: ColorMuted}, AlignLeft)
	}
	b.y += FormulaHeight(desc)
}

// ColumnWidths returns the table column widths in millimetres.
func ColumnWidths() [3]float64 {
	var w [3]float64
	for i, f := range TableColumns {
		w[i] = ContentWidth * f
	}
	return w
}

// Table draws a shaded header and zebra rows. A table that fits on a page is
// checked as a whole before the header, a longer one for its header and first
// row; rows that still overflow move to a new page without a
// repeated header.
func (b *Builder) Table(header [3]string, rows [][3]string) {
	total := tableRow * float64(len(rows)+1)
	if total > BottomLimit-Margin {
		total = 2 * tableRow
	}
	b.EnsureSpace(total)
	b.tableRow(header, Paint{Fill: ColorHeader, Mode: "F"}, true)
	for i, r := range rows {
		b.EnsureSpace(tableRow)
		p := Paint{Mode: ""}
		if i%2 == 1 {
			p = Paint{Fill: ColorZebra, Mode: "F"}
		}
		b.tableRow(r, p, false)
	}
}

func (b *Builder) tableRow(cells [3]string, p Paint, bold bool) {
	widths := ColumnWidths()
	if p.Mode != "" {
		b.s.Rect(Margin, b.y, ContentWidth, tableRow, p)
	}
	st := Style{Size: 10, Bold: bold, Color: ColorText}
	x := Margin
	for i, c := range cells {
		b.s.Text(x+2, b.y+5, widths[i]-4, c, st, AlignLeft)
		x += widths[i]
	}
	b.y += tableRow
}

func (b *Builder) Divider() {
	b.EnsureSpace(dividerHeight)
	b.s.Line(Margin, b.y+dividerHeight/2, Margin+ContentWidth, b.y+dividerHeight/2, Paint{Stroke: ColorRule, LineWidth: 0.2})
	b.y += dividerHeight
}

// Banner draws a full-width rounded bar with centred white text.
func (b *Builder) Banner(text string, c Color) {
	b.EnsureSpace(bannerHeight)
	b.s.Rect(Margin, b.y, ContentWidth, bannerHeight-2, Paint{Fill: c, Mode: "F", Radius: 2})
	b.s.Text(Margin, b.y+6.5, ContentWidth, text, Style{Size: 12, Bold: true, Color: ColorWhite}, AlignCenter)
	b.y += bannerHeight
}

// Block reserves h millimetres and hands the top of the reserved area to
// draw. It is used for figures composed of several shapes.
func (b *Builder) Block(h float64, draw func(s Surface, top float64)) {
	b.EnsureSpace(h)
	draw(b.s, b.y)
	b.y += h
}

// Image embeds a raster at content width with the given height/width ratio
// and a caption underneath.
func (b *Builder) Image(name string, data []byte, ratio float64, caption string) error {
	h := ContentWidth * ratio
	b.EnsureSpace(h + captionHeight)
	if err := b.s.Image(name, data, Margin, b.y, ContentWidth, h); err != nil {
		return err
	}
	b.s.Text(Margin, b.y+h+5, ContentWidth, caption, Style{Size: 9, Color: ColorMuted}, AlignCenter)
	b.y += h + captionHeight
	return nil
}
