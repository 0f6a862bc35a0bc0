package layout

import "fmt"

type Op string

const (
	OpPage  Op = "page"
	OpText  Op = "text"
	OpLine  Op = "line"
	OpRect  Op = "rect"
	OpImage Op = "image"
)

// Command is one recorded drawing call. Top and Bottom bound the vertical
// extent it occupies on its page.
type Command struct {
	Op     Op
	Page   int
	X, Y   float64
	W, H   float64
	Top    float64
	Bottom float64
	Text   string
	Style  Style
	Paint  Paint
}

// Recorder is a Surface that keeps every call in memory. It backs dry runs
// and layout tests.
type Recorder struct {
	Commands []Command
	pages    int
	// FailImages makes Image return ErrImage.
	FailImages bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) AddPage() {
	r.pages++
	r.Commands = append(r.Commands, Command{Op: OpPage, Page: r.pages})
}

func (r *Recorder) Text(x, y, w float64, text string, st Style, align Align) {
	// Baseline y; the glyph box is taken as 0.35 mm per point above it.
	r.Commands = append(r.Commands, Command{
		Op: OpText, Page: r.pages, X: x, Y: y, W: w,
		Top: y - st.Size*0.35, Bottom: y, Text: text, Style: st,
	})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, p Paint) {
	r.Commands = append(r.Commands, Command{
		Op: OpLine, Page: r.pages, X: x1, Y: y1, W: x2 - x1, H: y2 - y1,
		Top: min(y1, y2), Bottom: max(y1, y2), Paint: p,
	})
}

func (r *Recorder) Rect(x, y, w, h float64, p Paint) {
	r.Commands = append(r.Commands, Command{
		Op: OpRect, Page: r.pages, X: x, Y: y, W: w, H: h,
		Top: y, Bottom: y + h, Paint: p,
	})
}

func (r *Recorder) Image(name string, data []byte, x, y, w, h float64) error {
	if r.FailImages || len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrImage, name)
	}
	r.Commands = append(r.Commands, Command{
		Op: OpImage, Page: r.pages, X: x, Y: y, W: w, H: h,
		Top: y, Bottom: y + h, Text: name,
	})
	return nil
}

func (r *Recorder) PageCount() int {
	return r.pages
}

func (r *Recorder) Err() error {
	return nil
}

// Texts returns the text of every recorded text command in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Commands {
		if c.Op == OpText {
			out = append(out, c.Text)
		}
	}
	return out
}

// Find returns the first command of op whose text equals text.
func (r *Recorder) Find(op Op, text string) (Command, bool) {
	for _, c := range r.Commands {
		if c.Op == op && c.Text == text {
			return c, true
		}
	}
	return Command{}, false
}
