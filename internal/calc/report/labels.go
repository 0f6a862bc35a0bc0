package report

import (
	"ImpactLab/internal/calc/impact"
	"ImpactLab/internal/layout"
)

var elementLabels = map[string]string{
	impact.ElementCantilever:      "Консольная балка",
	impact.ElementSimplySupported: "Балка на двух опорах",
	impact.ElementPlate:           "Пластина",
	impact.ElementRod:             "Стержень",
}

var sectionLabels = map[string]string{
	impact.SectionRectangular: "Прямоугольное",
	impact.SectionCircular:    "Круглое",
	impact.SectionTube:        "Трубчатое",
}

type zoneStyle struct {
	Label string
	Color layout.Color
}

var zones = map[string]zoneStyle{
	impact.ZoneEmerald: {Label: "БЕЗОПАСНО: упругая работа материала", Color: layout.Color{R: 16, G: 185, B: 129}},
	impact.ZoneAmber:   {Label: "ПЛАСТИЧЕСКАЯ ДЕФОРМАЦИЯ: остаточные изменения формы", Color: layout.Color{R: 245, G: 158, B: 11}},
	impact.ZoneRed:     {Label: "РАЗРУШЕНИЕ: превышен предел прочности", Color: layout.Color{R: 239, G: 68, B: 68}},
}

var (
	colorElastic = layout.Color{R: 167, G: 243, B: 208}
	colorPlastic = layout.Color{R: 253, G: 230, B: 138}
)

func lookup(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

func materialLabel(id string) string {
	if m, ok := impact.Materials[id]; ok {
		return m.Label
	}
	return id
}

// Zone returns the banner label and colour for a zone colour key. Unknown
// keys fall back to the emerald colour and the raw zone text.
func Zone(zoneColor, zone string) (string, layout.Color) {
	if z, ok := zones[zoneColor]; ok {
		return z.Label, z.Color
	}
	return zone, zones[impact.ZoneEmerald].Color
}
