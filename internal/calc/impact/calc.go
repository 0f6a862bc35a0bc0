package impact

import (
	"errors"
	"fmt"
	"math"
)

const gravity = 9.81

var ErrInvalidInput = errors.New("invalid input")

const (
	ElementCantilever      = "beam-cantilever"
	ElementSimplySupported = "beam-simply-supported"
	ElementPlate           = "plate"
	ElementRod             = "rod"

	SectionRectangular = "rectangular"
	SectionCircular    = "circular"
	SectionTube        = "tube"

	ImpactEnergy = "energy"
	ImpactMass   = "mass"

	ZoneEmerald = "emerald"
	ZoneAmber   = "amber"
	ZoneRed     = "red"
)

// Input is the calculator form. Lengths are in mm, modulus in GPa,
// strengths in MPa, energy in J, mass in kg, velocity in m/s.
type Input struct {
	ElementType      string  `json:"elementType"`
	SectionType      string  `json:"sectionType"`
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	Diameter         float64 `json:"diameter"`
	OuterDiameter    float64 `json:"outerDiameter"`
	InnerDiameter    float64 `json:"innerDiameter"`
	Length           float64 `json:"length"`
	Material         string  `json:"material"`
	YoungModulus     float64 `json:"youngModulus"`
	YieldStrength    float64 `json:"yieldStrength"`
	UltimateStrength float64 `json:"ultimateStrength"`
	ImpactType       string  `json:"impactType"`
	ImpactEnergy     float64 `json:"impactEnergy"`
	Mass             float64 `json:"mass"`
	Velocity         float64 `json:"velocity"`
}

type Result struct {
	ImpactEnergy         float64  `json:"impactEnergy"`                 // J
	DynamicForce         float64  `json:"dynamicForce"`                 // kN
	BendingMoment        float64  `json:"bendingMoment"`                // N·m
	DynamicStress        float64  `json:"dynamicStress"`                // MPa
	YieldStrength        float64  `json:"yieldStrength"`                // MPa
	UltimateStrength     float64  `json:"ultimateStrength"`             // MPa
	DynamicDeflection    float64  `json:"dynamicDeflection"`            // mm
	DynamicCoefficient   *float64 `json:"dynamicCoefficient,omitempty"` // F / (m·g), nil without a mass
	SafetyFactorYield    float64  `json:"safetyFactorYield"`
	SafetyFactorUltimate float64  `json:"safetyFactorUltimate"`
	MomentOfInertia      float64  `json:"momentOfInertia"` // mm⁴
	SectionModulus       float64  `json:"sectionModulus"`  // mm³
	Zone                 string   `json:"zone"`
	ZoneColor            string   `json:"zoneColor"`
}

// IsCantilever reports whether the element uses the cantilever stiffness
// and moment formulas. Plates and rods are treated as cantilevers.
func IsCantilever(elementType string) bool {
	return elementType != ElementSimplySupported
}

// Section returns the moment of inertia (mm⁴) and section modulus (mm³).
func Section(in Input) (inertia, modulus float64, err error) {
	switch in.SectionType {
	case SectionRectangular:
		if in.Width <= 0 || in.Height <= 0 {
			return 0, 0, fmt.Errorf("%w: width and height must be positive", ErrInvalidInput)
		}
		inertia = in.Width * math.Pow(in.Height, 3) / 12
		modulus = in.Width * in.Height * in.Height / 6
	case SectionCircular:
		if in.Diameter <= 0 {
			return 0, 0, fmt.Errorf("%w: diameter must be positive", ErrInvalidInput)
		}
		inertia = math.Pi * math.Pow(in.Diameter, 4) / 64
		modulus = math.Pi * math.Pow(in.Diameter, 3) / 32
	case SectionTube:
		D, d := in.OuterDiameter, in.InnerDiameter
		if D <= 0 || d < 0 || d >= D {
			return 0, 0, fmt.Errorf("%w: tube needs 0 <= inner < outer diameter", ErrInvalidInput)
		}
		inertia = math.Pi * (math.Pow(D, 4) - math.Pow(d, 4)) / 64
		modulus = math.Pi * (math.Pow(D, 4) - math.Pow(d, 4)) / (32 * D)
	default:
		return 0, 0, fmt.Errorf("%w: unknown section type %q", ErrInvalidInput, in.SectionType)
	}
	return inertia, modulus, nil
}

// Calculate runs the energy-balance impact check for a single element.
func Calculate(in Input) (Result, error) {
	if in.Length <= 0 {
		return Result{}, fmt.Errorf("%w: length must be positive", ErrInvalidInput)
	}
	switch in.ElementType {
	case ElementCantilever, ElementSimplySupported, ElementPlate, ElementRod:
	default:
		return Result{}, fmt.Errorf("%w: unknown element type %q", ErrInvalidInput, in.ElementType)
	}
	in = WithMaterialDefaults(in)
	if in.YoungModulus <= 0 || in.YieldStrength <= 0 || in.UltimateStrength <= 0 {
		return Result{}, fmt.Errorf("%w: material properties must be positive", ErrInvalidInput)
	}

	I, W, err := Section(in)
	if err != nil {
		return Result{}, err
	}

	var energy float64
	switch in.ImpactType {
	case ImpactEnergy:
		energy = in.ImpactEnergy
	case ImpactMass:
		energy = in.Mass * in.Velocity * in.Velocity / 2
	default:
		return Result{}, fmt.Errorf("%w: unknown impact type %q", ErrInvalidInput, in.ImpactType)
	}
	if energy <= 0 {
		return Result{}, fmt.Errorf("%w: impact energy must be positive", ErrInvalidInput)
	}

	E := in.YoungModulus * 1000 // N/mm²
	L := in.Length
	k := 48 * E * I / math.Pow(L, 3) // N/mm
	if IsCantilever(in.ElementType) {
		k = 3 * E * I / math.Pow(L, 3)
	}

	delta := math.Sqrt(2 * energy * 1000 / k) // mm
	force := k * delta                        // N
	moment := force * L / 4                   // N·mm
	if IsCantilever(in.ElementType) {
		moment = force * L
	}
	stress := moment / W

	var coefficient *float64
	if in.Mass > 0 {
		kd := force / (in.Mass * gravity)
		coefficient = &kd
	}

	zone, color := Classify(stress, in.YieldStrength, in.UltimateStrength)
	return Result{
		ImpactEnergy:         energy,
		DynamicForce:         force / 1000,
		BendingMoment:        moment / 1000,
		DynamicStress:        stress,
		YieldStrength:        in.YieldStrength,
		UltimateStrength:     in.UltimateStrength,
		DynamicDeflection:    delta,
		DynamicCoefficient:   coefficient,
		SafetyFactorYield:    in.YieldStrength / stress,
		SafetyFactorUltimate: in.UltimateStrength / stress,
		MomentOfInertia:      I,
		SectionModulus:       W,
		Zone:                 zone,
		ZoneColor:            color,
	}, nil
}

// Classify maps the dynamic stress to a zone label and colour key.
func Classify(stress, yield, ultimate float64) (zone, color string) {
	switch {
	case stress < yield:
		return "Упругая зона", ZoneEmerald
	case stress < ultimate:
		return "Пластическая деформация", ZoneAmber
	default:
		return "Разрушение", ZoneRed
	}
}
