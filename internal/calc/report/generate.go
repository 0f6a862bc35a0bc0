package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ImpactLab/internal/calc/impact"
	"ImpactLab/internal/layout"

	"github.com/rs/zerolog"
)

const (
	DefaultSiteURL  = "https://vertex-labs.ru/calculator"
	screenshotRatio = 0.5625
	documentTitle   = "Отчёт: расчёт на ударную нагрузку"
)

var (
	small = layout.Style{Size: 8, Color: layout.ColorMuted}
	muted = layout.Style{Size: 9, Color: layout.ColorMuted}
	step  = layout.Style{Size: 10, Bold: true, Color: layout.ColorText}
)

// Data is everything one report is rendered from.
type Data struct {
	Input      impact.Input
	Result     impact.Result
	Screenshot []byte
	Time       time.Time
	SiteURL    string
}

// Render draws the whole report on b in its fixed order.
func Render(b *layout.Builder, d Data) error {
	renderMasthead(b, d.Time)
	renderInputs(b, d.Input)
	renderSteps(b, d.Input)
	renderZone(b, d.Result)
	renderResults(b, d.Result)
	renderDiagram(b, d.Result)
	if len(d.Screenshot) > 0 {
		b.Section("3D-визуализация")
		if err := b.Image("screenshot", d.Screenshot, screenshotRatio, "Рис. 1. Деформированное состояние элемента в момент удара"); err != nil {
			return err
		}
	}
	renderFooter(b, d.SiteURL)
	return nil
}

func renderMasthead(b *layout.Builder, now time.Time) {
	b.Line("ЭКОСИСТЕМА ЛАБОРАТОРИЙ · ЛАБОРАТОРИЯ ПРОГРАММНОГО ОБЕСПЕЧЕНИЯ", 6, small, layout.AlignCenter)
	b.Title(documentTitle)
	b.Line("Дата формирования: "+now.Format("02.01.2006 15:04"), 6, muted, layout.AlignCenter)
	b.Divider()
}

type Field struct {
	Label string
	Value string
	Unit  string
}

// InputFields lists the echoed inputs. Dimension fields depend on the
// section type and impact fields on the impact type.
func InputFields(in impact.Input) []Field {
	f := []Field{
		{Label: "Тип элемента", Value: lookup(elementLabels, in.ElementType)},
		{Label: "Тип сечения", Value: lookup(sectionLabels, in.SectionType)},
	}
	switch in.SectionType {
	case impact.SectionRectangular:
		f = append(f,
			Field{Label: "Ширина сечения b", Value: plain(in.Width), Unit: "мм"},
			Field{Label: "Высота сечения h", Value: plain(in.Height), Unit: "мм"})
	case impact.SectionCircular:
		f = append(f, Field{Label: "Диаметр d", Value: plain(in.Diameter), Unit: "мм"})
	case impact.SectionTube:
		f = append(f,
			Field{Label: "Наружный диаметр D", Value: plain(in.OuterDiameter), Unit: "мм"},
			Field{Label: "Внутренний диаметр d", Value: plain(in.InnerDiameter), Unit: "мм"})
	}
	f = append(f,
		Field{Label: "Длина L", Value: plain(in.Length), Unit: "мм"},
		Field{Label: "Материал", Value: materialLabel(in.Material)},
		Field{Label: "Модуль упругости E", Value: plain(in.YoungModulus), Unit: "ГПа"},
		Field{Label: "Предел текучести σт", Value: plain(in.YieldStrength), Unit: "МПа"},
		Field{Label: "Предел прочности σв", Value: plain(in.UltimateStrength), Unit: "МПа"},
	)
	if in.ImpactType == impact.ImpactEnergy {
		f = append(f, Field{Label: "Энергия удара E", Value: plain(in.ImpactEnergy), Unit: "Дж"})
	} else {
		f = append(f,
			Field{Label: "Масса ударяющего тела m", Value: plain(in.Mass), Unit: "кг"},
			Field{Label: "Скорость удара v", Value: plain(in.Velocity), Unit: "м/с"})
	}
	return f
}

func renderInputs(b *layout.Builder, in impact.Input) {
	b.Section("1. Исходные данные")
	for _, f := range InputFields(in) {
		b.Row(f.Label, f.Value, f.Unit)
	}
}

type Step struct {
	Title   string
	Formula string
	Note    string
}

// Steps returns the ten calculation steps with the formulas that apply to
// the element and section type.
func Steps(in impact.Input) []Step {
	var inertia, modulus string
	switch in.SectionType {
	case impact.SectionCircular:
		inertia, modulus = "I = π·d⁴ / 64", "W = π·d³ / 32"
	case impact.SectionTube:
		inertia, modulus = "I = π·(D⁴ − d⁴) / 64", "W = π·(D⁴ − d⁴) / (32·D)"
	default:
		inertia, modulus = "I = b·h³ / 12", "W = b·h² / 6"
	}

	energy := Step{Title: "Энергия удара", Formula: "E = m·v² / 2", Note: "кинетическая энергия ударяющего тела"}
	if in.ImpactType == impact.ImpactEnergy {
		energy = Step{Title: "Энергия удара", Formula: "E = " + plain(in.ImpactEnergy) + " Дж", Note: "задана непосредственно"}
	}

	stiffness := Step{Title: "Статическая жёсткость", Formula: "k = 48·E·I / L³", Note: "балка на двух опорах, удар в середине пролёта"}
	moment := Step{Title: "Изгибающий момент", Formula: "M = F·L / 4", Note: "в середине пролёта"}
	if impact.IsCantilever(in.ElementType) {
		stiffness = Step{Title: "Статическая жёсткость", Formula: "k = 3·E·I / L³", Note: "консольная схема, удар по свободному концу"}
		moment = Step{Title: "Изгибающий момент", Formula: "M = F·L", Note: "в заделке"}
	}

	return []Step{
		{Title: "Момент инерции сечения", Formula: inertia},
		{Title: "Момент сопротивления сечения", Formula: modulus},
		energy,
		stiffness,
		{Title: "Динамический прогиб", Formula: "δ = √(2·E / k)", Note: "из равенства энергии удара и энергии деформации"},
		{Title: "Динамическая сила", Formula: "F = k·δ"},
		moment,
		{Title: "Динамическое напряжение", Formula: "σ = M / W"},
		{Title: "Критерий прочности", Formula: "σ < σт: упругая зона;  σт ≤ σ < σв: пластическая;  σ ≥ σв: разрушение"},
		{Title: "Коэффициенты запаса", Formula: "nт = σт / σ;  nв = σв / σ", Note: "значения меньше 1 означают превышение предела"},
	}
}

func renderSteps(b *layout.Builder, in impact.Input) {
	b.Section("2. Ход расчёта")
	for i, s := range Steps(in) {
		// Keep the step title on the page of its formula.
		b.EnsureSpace(layout.LineHeight + layout.FormulaHeight(s.Note))
		b.Line(fmt.Sprintf("Шаг %d. %s", i+1, s.Title), layout.LineHeight, step, layout.AlignLeft)
		b.Formula(s.Formula, s.Note)
	}
}

func renderZone(b *layout.Builder, res impact.Result) {
	label, c := Zone(res.ZoneColor, res.Zone)
	b.Space(2)
	b.Banner(label, c)
}

// ResultRows lists the twelve result quantities in report order.
func ResultRows(res impact.Result) [][3]string {
	return [][3]string{
		{"Энергия удара", fixed(res.ImpactEnergy, 2), "Дж"},
		{"Динамическая сила", fixed(res.DynamicForce, 2), "кН"},
		{"Изгибающий момент", fixed(res.BendingMoment, 2), "Н·м"},
		{"Динамическое напряжение", fixed(res.DynamicStress, 1), "МПа"},
		{"Предел текучести", fixed(res.YieldStrength, 1), "МПа"},
		{"Предел прочности", fixed(res.UltimateStrength, 1), "МПа"},
		{"Динамический прогиб", fixed(res.DynamicDeflection, 2), "мм"},
		{"Коэффициент динамичности", optional(res.DynamicCoefficient, 2), ""},
		{"Запас по текучести", fixed(res.SafetyFactorYield, 2), ""},
		{"Запас по прочности", fixed(res.SafetyFactorUltimate, 2), ""},
		{"Момент инерции", sci(res.MomentOfInertia), "мм⁴"},
		{"Момент сопротивления", sci(res.SectionModulus), "мм³"},
	}
}

func renderResults(b *layout.Builder, res impact.Result) {
	b.Section("3. Результаты расчёта")
	b.Table([3]string{"Параметр", "Значение", "Ед. изм."}, ResultRows(res))
	b.Space(4)
}

func renderDiagram(b *layout.Builder, res impact.Result) {
	b.Section("4. Диаграмма напряжений")
	bar := NewStressBar(layout.ContentWidth, res.YieldStrength, res.UltimateStrength, res.DynamicStress)
	if !bar.Valid {
		b.Line(diagramUnavailable(res), layout.LineHeight, muted, layout.AlignLeft)
		return
	}
	_, c := Zone(res.ZoneColor, res.Zone)
	drawStressBar(b, bar, res.YieldStrength, res.UltimateStrength, res.DynamicStress, c)
	b.Line("Зелёный участок: упругая зона (до σт); жёлтый: пластическая зона (σт…σв)", 6, small, layout.AlignLeft)
}

// diagramUnavailable names the missing input behind an invalid stress bar.
func diagramUnavailable(res impact.Result) string {
	if !(res.UltimateStrength > 0) || !finite(res.UltimateStrength) {
		return "Диаграмма недоступна: предел прочности не задан"
	}
	return "Диаграмма недоступна: нет данных о напряжениях"
}

func renderFooter(b *layout.Builder, siteURL string) {
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}
	b.Space(4)
	b.Divider()
	b.Line("Отчёт сформирован автоматически инженерным калькулятором лаборатории программного обеспечения.", 5, small, layout.AlignCenter)
	b.Line("Результаты носят ознакомительный характер и не заменяют поверочный расчёт по действующим нормам.", 5, small, layout.AlignCenter)
	b.Line(siteURL, 5, layout.Style{Size: 8, Color: layout.ColorPrimary}, layout.AlignCenter)
}

// Filename is the download name for a report generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("otchet-udar-%d.pdf", t.UnixMilli())
}

type Options struct {
	Fonts   layout.Fonts
	SiteURL string
	Now     func() time.Time
}

// Generator renders reports to PDF. It keeps no per-report state, so one
// Generator serves concurrent requests.
type Generator struct {
	opts Options
}

func NewGenerator(opts Options) *Generator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SiteURL == "" {
		opts.SiteURL = DefaultSiteURL
	}
	return &Generator{opts: opts}
}

type Document struct {
	Filename string
	Pages    int
	Data     []byte
}

func (g *Generator) Generate(ctx context.Context, in impact.Input, res impact.Result, screenshot []byte) (*Document, error) {
	logger := zerolog.Ctx(ctx)
	start := g.opts.Now()

	pdf, err := layout.NewPDF(g.opts.Fonts, documentTitle)
	if err != nil {
		return nil, err
	}
	b := layout.NewBuilder(pdf)
	err = Render(b, Data{Input: in, Result: res, Screenshot: screenshot, Time: start, SiteURL: g.opts.SiteURL})
	if err != nil {
		return nil, err
	}
	if err := pdf.Err(); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	doc := &Document{Filename: Filename(start), Pages: b.Pages(), Data: buf.Bytes()}
	logger.Info().
		Str("filename", doc.Filename).
		Int("pages", doc.Pages).
		Int("bytes", len(doc.Data)).
		Bool("screenshot", len(screenshot) > 0).
		Msg("report generated")
	return doc, nil
}

// DryRun lays the report out on a Recorder without producing a PDF.
func (g *Generator) DryRun(in impact.Input, res impact.Result, screenshot []byte) (*layout.Recorder, error) {
	rec := layout.NewRecorder()
	b := layout.NewBuilder(rec)
	err := Render(b, Data{Input: in, Result: res, Screenshot: screenshot, Time: g.opts.Now(), SiteURL: g.opts.SiteURL})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Save writes the document into dir and returns its path.
func (d *Document) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, d.Filename)
	if err := os.WriteFile(path, d.Data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
