package impact

// Material carries catalogue properties: modulus in GPa, strengths in MPa.
type Material struct {
	Label            string
	YoungModulus     float64
	YieldStrength    float64
	UltimateStrength float64
}

var Materials = map[string]Material{
	"steel-45":      {Label: "Сталь 45", YoungModulus: 200, YieldStrength: 355, UltimateStrength: 600},
	"steel-st3":     {Label: "Сталь Ст3", YoungModulus: 200, YieldStrength: 245, UltimateStrength: 370},
	"steel-40x":     {Label: "Сталь 40Х", YoungModulus: 210, YieldStrength: 785, UltimateStrength: 980},
	"aluminum-d16t": {Label: "Алюминий Д16Т", YoungModulus: 72, YieldStrength: 290, UltimateStrength: 440},
	"titanium-vt6":  {Label: "Титан ВТ6", YoungModulus: 115, YieldStrength: 850, UltimateStrength: 950},
	"custom":        {Label: "Пользовательский материал"},
}

// WithMaterialDefaults fills unset properties from the material catalogue.
func WithMaterialDefaults(in Input) Input {
	m, ok := Materials[in.Material]
	if !ok {
		return in
	}
	if in.YoungModulus <= 0 {
		in.YoungModulus = m.YoungModulus
	}
	if in.YieldStrength <= 0 {
		in.YieldStrength = m.YieldStrength
	}
	if in.UltimateStrength <= 0 {
		in.UltimateStrength = m.UltimateStrength
	}
	return in
}
