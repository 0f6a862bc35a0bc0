package layout

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

var (
	ErrFont  = errors.New("font registration failed")
	ErrImage = errors.New("image embed failed")
)

const fontFamily = "Report"

// Fonts holds TTF files for the regular and bold faces. Both must cover
// Cyrillic. When both are empty the core Helvetica font is used, which is
// only good for ASCII text.
type Fonts struct {
	Regular string
	Bold    string
}

// PDF is a Surface backed by gofpdf.
type PDF struct {
	pdf    *gofpdf.Fpdf
	family string
	err    error
}

// NewPDF creates an A4 portrait document in millimetres and registers the
// fonts before any text is drawn.
func NewPDF(fonts Fonts, title string) (*PDF, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("ImpactLab", true)
	pdf.SetCreationDate(time.Now())

	p := &PDF{pdf: pdf, family: "Helvetica"}
	if fonts.Regular == "" && fonts.Bold == "" {
		return p, nil
	}
	// AddUTF8Font resolves names against the font dir, so read files directly.
	for style, file := range map[string]string{"": fonts.Regular, "B": fonts.Bold} {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFont, err)
		}
		pdf.AddUTF8FontFromBytes(fontFamily, style, data)
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFont, err)
	}
	p.family = fontFamily
	return p, nil
}

func (p *PDF) AddPage() {
	p.pdf.AddPage()
}

func (p *PDF) Text(x, y, w float64, text string, st Style, align Align) {
	style := ""
	if st.Bold {
		style = "B"
	}
	p.pdf.SetFont(p.family, style, st.Size)
	p.pdf.SetTextColor(st.Color.R, st.Color.G, st.Color.B)
	if p.family != fontFamily {
		text = asciiOnly(text)
	}
	switch align {
	case AlignCenter:
		x += (w - p.pdf.GetStringWidth(text)) / 2
	case AlignRight:
		x += w - p.pdf.GetStringWidth(text)
	}
	p.pdf.Text(x, y, text)
}

func (p *PDF) Line(x1, y1, x2, y2 float64, paint Paint) {
	p.pdf.SetDrawColor(paint.Stroke.R, paint.Stroke.G, paint.Stroke.B)
	p.pdf.SetLineWidth(lineWidth(paint))
	p.pdf.Line(x1, y1, x2, y2)
}

func (p *PDF) Rect(x, y, w, h float64, paint Paint) {
	p.pdf.SetFillColor(paint.Fill.R, paint.Fill.G, paint.Fill.B)
	p.pdf.SetDrawColor(paint.Stroke.R, paint.Stroke.G, paint.Stroke.B)
	p.pdf.SetLineWidth(lineWidth(paint))
	mode := paint.Mode
	if mode == "" {
		mode = "D"
	}
	if paint.Radius <= 0 {
		p.pdf.Rect(x, y, w, h, mode)
		return
	}
	r := min(paint.Radius, w/2, h/2)
	p.pdf.RoundedRect(x, y, w, h, r, "1234", mode)
}

func (p *PDF) Image(name string, data []byte, x, y, w, h float64) error {
	var kind string
	switch http.DetectContentType(data) {
	case "image/png":
		kind = "PNG"
	case "image/jpeg":
		kind = "JPG"
	case "image/gif":
		kind = "GIF"
	default:
		return fmt.Errorf("%w: %s: unsupported image type", ErrImage, name)
	}
	opts := gofpdf.ImageOptions{ImageType: kind}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := p.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImage, name, err)
	}
	p.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	if err := p.pdf.Error(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImage, name, err)
	}
	return nil
}

func (p *PDF) PageCount() int {
	return p.pdf.PageCount()
}

func (p *PDF) Err() error {
	return p.pdf.Error()
}

// Output serializes the document.
func (p *PDF) Output(w io.Writer) error {
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("PDF output error: %w", err)
	}
	return nil
}

// asciiOnly keeps core-font output printable; those fonts have no Cyrillic.
func asciiOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return '?'
		}
		return r
	}, s)
}

func lineWidth(p Paint) float64 {
	if p.LineWidth > 0 {
		return p.LineWidth
	}
	return 0.2
}
