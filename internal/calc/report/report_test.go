package report

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"ImpactLab/internal/calc/impact"
	"ImpactLab/internal/layout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func scenario(t *testing.T) (impact.Input, impact.Result) {
	t.Helper()
	in := impact.Input{
		ElementType:      impact.ElementCantilever,
		SectionType:      impact.SectionCircular,
		Diameter:         20,
		Length:           500,
		Material:         "steel-45",
		YoungModulus:     200,
		YieldStrength:    355,
		UltimateStrength: 510,
		ImpactType:       impact.ImpactEnergy,
		ImpactEnergy:     50,
	}
	res, err := impact.Calculate(in)
	require.NoError(t, err)
	res.Zone = "Пластическая деформация"
	res.ZoneColor = impact.ZoneAmber
	return in, res
}

func render(t *testing.T, d Data) *layout.Recorder {
	t.Helper()
	rec := layout.NewRecorder()
	require.NoError(t, Render(layout.NewBuilder(rec), d))
	return rec
}

func labels(in impact.Input) []string {
	var out []string
	for _, f := range InputFields(in) {
		out = append(out, f.Label)
	}
	return out
}

func TestInputFieldsBySection(t *testing.T) {
	tests := []struct {
		section string
		want    []string
		absent  []string
	}{
		{
			section: impact.SectionRectangular,
			want:    []string{"Ширина сечения b", "Высота сечения h"},
			absent:  []string{"Диаметр d", "Наружный диаметр D", "Внутренний диаметр d"},
		},
		{
			section: impact.SectionCircular,
			want:    []string{"Диаметр d"},
			absent:  []string{"Ширина сечения b", "Высота сечения h", "Наружный диаметр D", "Внутренний диаметр d"},
		},
		{
			section: impact.SectionTube,
			want:    []string{"Наружный диаметр D", "Внутренний диаметр d"},
			absent:  []string{"Ширина сечения b", "Высота сечения h", "Диаметр d"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			got := labels(impact.Input{SectionType: tt.section, ImpactType: impact.ImpactEnergy})
			for _, l := range tt.want {
				assert.Contains(t, got, l)
			}
			for _, l := range tt.absent {
				assert.NotContains(t, got, l)
			}
		})
	}
}

func TestInputFieldsByImpact(t *testing.T) {
	energy := labels(impact.Input{ImpactType: impact.ImpactEnergy})
	assert.Contains(t, energy, "Энергия удара E")
	assert.NotContains(t, energy, "Масса ударяющего тела m")
	assert.NotContains(t, energy, "Скорость удара v")

	mass := labels(impact.Input{ImpactType: impact.ImpactMass})
	assert.NotContains(t, mass, "Энергия удара E")
	assert.Contains(t, mass, "Масса ударяющего тела m")
	assert.Contains(t, mass, "Скорость удара v")
}

func TestInputFieldsLabels(t *testing.T) {
	f := InputFields(impact.Input{ElementType: "beam-cantilever", SectionType: "circular", Material: "steel-45", ImpactType: "energy"})
	assert.Equal(t, "Консольная балка", f[0].Value)
	assert.Equal(t, "Круглое", f[1].Value)

	f = InputFields(impact.Input{ElementType: "arch", SectionType: "hexagon", Material: "oak", ImpactType: "energy"})
	assert.Equal(t, "arch", f[0].Value)
	assert.Equal(t, "hexagon", f[1].Value)
}

func TestSteps(t *testing.T) {
	cantilever := Steps(impact.Input{ElementType: impact.ElementRod, SectionType: impact.SectionTube, ImpactType: impact.ImpactMass})
	require.Len(t, cantilever, 10)
	assert.Equal(t, "I = π·(D⁴ − d⁴) / 64", cantilever[0].Formula)
	assert.Equal(t, "E = m·v² / 2", cantilever[2].Formula)
	assert.Equal(t, "k = 3·E·I / L³", cantilever[3].Formula)
	assert.Equal(t, "M = F·L", cantilever[6].Formula)

	beam := Steps(impact.Input{ElementType: impact.ElementSimplySupported, SectionType: impact.SectionRectangular, ImpactType: impact.ImpactEnergy, ImpactEnergy: 50})
	assert.Equal(t, "I = b·h³ / 12", beam[0].Formula)
	assert.Equal(t, "W = b·h² / 6", beam[1].Formula)
	assert.Equal(t, "E = 50 Дж", beam[2].Formula)
	assert.Equal(t, "k = 48·E·I / L³", beam[3].Formula)
	assert.Equal(t, "M = F·L / 4", beam[6].Formula)
}

func TestZone(t *testing.T) {
	for _, key := range []string{impact.ZoneEmerald, impact.ZoneAmber, impact.ZoneRed} {
		label, c := Zone(key, "raw")
		assert.Equal(t, zones[key].Label, label)
		assert.Equal(t, zones[key].Color, c)
	}
	assert.NotEqual(t, zones[impact.ZoneEmerald].Color, zones[impact.ZoneRed].Color)

	label, c := Zone("purple", "Неизвестная зона")
	assert.Equal(t, "Неизвестная зона", label)
	assert.Equal(t, zones[impact.ZoneEmerald].Color, c)
}

func TestUnknownZoneBanner(t *testing.T) {
	in, res := scenario(t)
	res.ZoneColor = "purple"
	res.Zone = "Особая зона"

	rec := render(t, Data{Input: in, Result: res, Time: fixedTime})
	banner, ok := rec.Find(layout.OpText, "Особая зона")
	require.True(t, ok)
	assert.Equal(t, layout.ColorWhite, banner.Style.Color)
}

func TestStressBar(t *testing.T) {
	w := layout.ContentWidth

	bar := NewStressBar(w, 355, 510, 400)
	require.True(t, bar.Valid)
	assert.InDelta(t, w*355/510, bar.Elastic, 1e-9)
	assert.InDelta(t, w-w*355/510, bar.Plastic, 1e-9)
	assert.InDelta(t, 400.0/510, bar.Marker, 1e-12)

	t.Run("yield equals ultimate", func(t *testing.T) {
		bar := NewStressBar(w, 510, 510, 100)
		assert.InDelta(t, w, bar.Elastic, 1e-9)
		assert.Equal(t, 0.0, bar.Plastic)
	})

	t.Run("yield above ultimate", func(t *testing.T) {
		bar := NewStressBar(w, 600, 510, 100)
		assert.InDelta(t, w, bar.Elastic, 1e-9)
		assert.GreaterOrEqual(t, bar.Plastic, 0.0)
	})

	t.Run("marker clamped to bar", func(t *testing.T) {
		bar := NewStressBar(w, 355, 510, 1236)
		assert.Equal(t, 1.0, bar.Marker)
		assert.InDelta(t, layout.Margin+w, bar.MarkerX(layout.Margin), 1e-9)
	})

	t.Run("yield label clear of ultimate label", func(t *testing.T) {
		x := layout.Margin
		for _, yield := range []float64{510, 500, 480} {
			bar := NewStressBar(w, yield, 510, 100)
			lx := bar.YieldLabelX(x)
			assert.LessOrEqual(t, lx+labelWidth, x+w-labelWidth, "yield %v", yield)
		}

		bar := NewStressBar(w, 255, 510, 100)
		assert.InDelta(t, x+w/2-labelWidth/2, bar.YieldLabelX(x), 1e-9)
		assert.GreaterOrEqual(t, NewStressBar(w, 1, 510, 100).YieldLabelX(x), x)
	})

	t.Run("zero ultimate", func(t *testing.T) {
		assert.False(t, NewStressBar(w, 355, 0, 100).Valid)
		assert.False(t, NewStressBar(w, 355, 510, math.NaN()).Valid)
	})
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.35", fixed(12.345678, 2))
	assert.Equal(t, Placeholder, fixed(math.NaN(), 2))
	assert.Equal(t, Placeholder, fixed(math.Inf(1), 1))
	assert.Equal(t, "7.85e+03", sci(7853.98))
	assert.Equal(t, Placeholder, sci(math.NaN()))
	assert.Equal(t, "0.5", plain(0.5))
	assert.Equal(t, Placeholder, optional(nil, 2))
}

func TestResultRows(t *testing.T) {
	_, res := scenario(t)
	rows := ResultRows(res)

	require.Len(t, rows, 12)
	want := []string{
		"Энергия удара", "Динамическая сила", "Изгибающий момент", "Динамическое напряжение",
		"Предел текучести", "Предел прочности", "Динамический прогиб", "Коэффициент динамичности",
		"Запас по текучести", "Запас по прочности", "Момент инерции", "Момент сопротивления",
	}
	for i, r := range rows {
		assert.Equal(t, want[i], r[0])
	}
	assert.Equal(t, "50.00", rows[0][1])
	assert.Equal(t, "510.0", rows[5][1])
	assert.Equal(t, Placeholder, rows[7][1])
	assert.Equal(t, "7.85e+03", rows[10][1])
	assert.Equal(t, "7.85e+02", rows[11][1])
}

func TestRenderScenario(t *testing.T) {
	in, res := scenario(t)
	rec := render(t, Data{Input: in, Result: res, Time: fixedTime})

	texts := rec.Texts()
	assert.Contains(t, texts, documentTitle)
	assert.Contains(t, texts, "Дата формирования: 14.03.2026 09:26")
	assert.Contains(t, texts, "Шаг 10. Коэффициенты запаса")
	assert.Contains(t, texts, zones[impact.ZoneAmber].Label)
	assert.Contains(t, texts, DefaultSiteURL)
	assert.NotContains(t, texts, "NaN")

	// Result table rows follow the header in order.
	header, ok := rec.Find(layout.OpText, "Параметр")
	require.True(t, ok)
	var names []string
	seen := false
	for _, c := range rec.Commands {
		if c.Op != layout.OpText {
			continue
		}
		if c.Text == "Параметр" {
			seen = true
			continue
		}
		if seen && c.X == header.X && c.Style.Size == 10 {
			names = append(names, c.Text)
		}
		if len(names) == 12 {
			break
		}
	}
	require.Len(t, names, 12)
	assert.Equal(t, "Энергия удара", names[0])
	assert.Equal(t, "Момент сопротивления", names[11])

	var elastic, marker layout.Command
	for _, c := range rec.Commands {
		if c.Op == layout.OpRect && c.Paint.Fill == colorElastic {
			elastic = c
		}
		if c.Op == layout.OpLine && c.Paint.Stroke == zones[impact.ZoneAmber].Color {
			marker = c
		}
	}
	assert.InDelta(t, layout.ContentWidth*355/510, elastic.W, 1e-9)
	assert.InDelta(t, layout.Margin+layout.ContentWidth, marker.X, 1e-9)

	for _, c := range rec.Commands {
		if c.Op != layout.OpPage {
			assert.LessOrEqual(t, c.Bottom, layout.BottomLimit)
		}
	}
	assert.Regexp(t, regexp.MustCompile(`^otchet-udar-\d+\.pdf$`), Filename(fixedTime))
}

func TestRenderPlaceholders(t *testing.T) {
	in, res := scenario(t)
	res.UltimateStrength = 0
	res.SafetyFactorUltimate = math.Inf(1)

	rec := render(t, Data{Input: in, Result: res, Time: fixedTime})
	texts := rec.Texts()
	assert.Contains(t, texts, "Диаграмма недоступна: предел прочности не задан")
	for _, s := range texts {
		assert.NotContains(t, s, "NaN")
		assert.NotContains(t, s, "Inf")
	}
}

func TestRenderMissingStress(t *testing.T) {
	in, res := scenario(t)
	res.DynamicStress = math.NaN()

	texts := render(t, Data{Input: in, Result: res, Time: fixedTime}).Texts()
	assert.Contains(t, texts, "Диаграмма недоступна: нет данных о напряжениях")
	assert.NotContains(t, texts, "Диаграмма недоступна: предел прочности не задан")
}

func TestRenderScreenshot(t *testing.T) {
	in, res := scenario(t)

	rec := render(t, Data{Input: in, Result: res, Time: fixedTime})
	_, ok := rec.Find(layout.OpImage, "screenshot")
	assert.False(t, ok)

	rec = render(t, Data{Input: in, Result: res, Time: fixedTime, Screenshot: []byte{1, 2, 3}})
	img, ok := rec.Find(layout.OpImage, "screenshot")
	require.True(t, ok)
	assert.InDelta(t, layout.ContentWidth*screenshotRatio, img.H, 1e-9)

	failing := layout.NewRecorder()
	failing.FailImages = true
	err := Render(layout.NewBuilder(failing), Data{Input: in, Result: res, Time: fixedTime, Screenshot: []byte{1}})
	assert.ErrorIs(t, err, layout.ErrImage)
}

func TestGenerate(t *testing.T) {
	in, res := scenario(t)
	g := NewGenerator(Options{Now: func() time.Time { return fixedTime }})

	doc, err := g.Generate(context.Background(), in, res, pngImage(t))
	require.NoError(t, err)
	assert.Equal(t, Filename(fixedTime), doc.Filename)
	assert.GreaterOrEqual(t, doc.Pages, 2)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))

	path, err := doc.Save(t.TempDir())
	require.NoError(t, err)
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Data, saved)
}

func TestGenerateWithFonts(t *testing.T) {
	in, res := scenario(t)
	dir, err := filepath.Abs(filepath.Join("..", "..", "layout", "testdata"))
	require.NoError(t, err)
	g := NewGenerator(Options{
		Fonts: layout.Fonts{
			Regular: filepath.Join(dir, "DejaVuSansCondensed.ttf"),
			Bold:    filepath.Join(dir, "DejaVuSansCondensed-Bold.ttf"),
		},
		Now: func() time.Time { return fixedTime },
	})

	doc, err := g.Generate(context.Background(), in, res, pngImage(t))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF-")))
	assert.GreaterOrEqual(t, doc.Pages, 2)
}

func TestGenerateFontFailure(t *testing.T) {
	in, res := scenario(t)
	g := NewGenerator(Options{Fonts: layout.Fonts{Regular: "/nonexistent/regular.ttf", Bold: "/nonexistent/bold.ttf"}})

	_, err := g.Generate(context.Background(), in, res, nil)
	assert.ErrorIs(t, err, layout.ErrFont)
}

func TestDryRun(t *testing.T) {
	in, res := scenario(t)
	g := NewGenerator(Options{})

	rec, err := g.DryRun(in, res, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rec.PageCount(), 2)
}

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 16, 9))))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	raw := pngImage(t)
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeImage("data:image/png;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeImage(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeImage("")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = DecodeImage("data:image/png,plain")
	assert.ErrorIs(t, err, layout.ErrImage)
	_, err = DecodeImage("!!!")
	assert.ErrorIs(t, err, layout.ErrImage)
}
