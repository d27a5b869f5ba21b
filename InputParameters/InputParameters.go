package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/jacksondean17/three-fluid-sim/Fluid2D"
)

// Parameters obtained from the YAML input file
type SimParameters2D struct {
	Title              string  `yaml:"Title"`
	Nx                 int     `yaml:"Nx"`
	Ny                 int     `yaml:"Ny"`
	Dt                 float64 `yaml:"Dt"`
	PressureIterations int     `yaml:"PressureIterations"`
	Preset             string  `yaml:"Preset"` // named fluid preset, overrides Viscosity/ColorDecay
	Viscosity          float64 `yaml:"Viscosity"`
	ColorDecay         float64 `yaml:"ColorDecay"`
	ForceRadius        float64 `yaml:"ForceRadius"`
	ForceScale         float64 `yaml:"ForceScale"`
	ColorIntensity     float64 `yaml:"ColorIntensity"`
	FlowEnabled        bool    `yaml:"FlowEnabled"`
	FlowVelocity       float64 `yaml:"FlowVelocity"`
	VelocityLimit      float64 `yaml:"VelocityLimit"`

	Obstacles ObstacleParams  `yaml:"Obstacles"`
	Emitters  []EmitterParams `yaml:"Emitters"`

	VisMode       string  `yaml:"VisMode"`  // raw, grayscale, spectral, lut
	VisField      string  `yaml:"VisField"` // dye, pressure, velocity, divergence
	LambdaMin     float64 `yaml:"LambdaMin"`
	LambdaMax     float64 `yaml:"LambdaMax"`
	ShowObstacles bool    `yaml:"ShowObstacles"`
	ShowLegend    bool    `yaml:"ShowLegend"`

	Probes []ProbeParams `yaml:"Probes"`
}

type ObstacleParams struct {
	Enabled       bool    `yaml:"Enabled"`
	Columns       int     `yaml:"Columns"`
	Rows          int     `yaml:"Rows"`
	Length        float64 `yaml:"Length"`
	Width         float64 `yaml:"Width"`
	AngleDeg      float64 `yaml:"AngleDeg"`
	AlternateSign bool    `yaml:"AlternateSign"`
	GapOffset     float64 `yaml:"GapOffset"`
	Spacing       float64 `yaml:"Spacing"`
}

type EmitterParams struct {
	Enabled   bool       `yaml:"Enabled"`
	X         float64    `yaml:"X"`
	Y         float64    `yaml:"Y"`
	Radius    float64    `yaml:"Radius"`
	Intensity float64    `yaml:"Intensity"`
	Color     [3]float64 `yaml:"Color"`
}

type ProbeParams struct {
	Kind string  `yaml:"Kind"` // point or line
	X    float64 `yaml:"X"`
	Y    float64 `yaml:"Y"`
}

// NewSimParameters2D returns the defaults a missing or sparse input
// file resolves against.
func NewSimParameters2D() (sp *SimParameters2D) {
	d := Fluid2D.DefaultStepParameters()
	sp = &SimParameters2D{
		Title:              "Fluid 2D",
		Nx:                 256,
		Ny:                 256,
		Dt:                 d.Dt,
		PressureIterations: d.PressureIterations,
		Viscosity:          d.Viscosity,
		ColorDecay:         d.ColorDecay,
		ForceRadius:        d.ForceRadius,
		ForceScale:         d.ForceScale,
		ColorIntensity:     d.ColorIntensity,
		FlowVelocity:       d.FlowVelocity,
		VelocityLimit:      d.VelocityLimit,
		VisMode:            "raw",
		VisField:           "dye",
		LambdaMin:          440,
		LambdaMax:          680,
		ShowObstacles:      true,
		ShowLegend:         true,
	}
	o := d.Obstacles
	sp.Obstacles = ObstacleParams{
		Enabled:       o.Enabled,
		Columns:       o.Columns,
		Rows:          o.Rows,
		Length:        o.Length,
		Width:         o.Width,
		AngleDeg:      o.AngleDeg,
		AlternateSign: o.AlternateSign,
		GapOffset:     o.GapOffset,
		Spacing:       o.Spacing,
	}
	return
}

func (sp *SimParameters2D) Parse(data []byte) error {
	return yaml.Unmarshal(data, sp)
}

// Validate rejects parameters that would allocate degenerate fields and
// clamps the ranged knobs. It never lets a zero or negative sized field
// through to allocation.
func (sp *SimParameters2D) Validate() (err error) {
	if sp.Nx <= 0 || sp.Ny <= 0 {
		return fmt.Errorf("invalid resolution %dx%d, dimensions must be positive", sp.Nx, sp.Ny)
	}
	if sp.Dt <= 0 {
		return fmt.Errorf("invalid timestep %g, must be positive", sp.Dt)
	}
	if sp.PressureIterations < Fluid2D.MinPressureIterations {
		sp.PressureIterations = Fluid2D.MinPressureIterations
	}
	if sp.PressureIterations > Fluid2D.MaxPressureIterations {
		sp.PressureIterations = Fluid2D.MaxPressureIterations
	}
	if len(sp.Emitters) > Fluid2D.MaxEmitters {
		return fmt.Errorf("too many emitters: %d, maximum is %d", len(sp.Emitters), Fluid2D.MaxEmitters)
	}
	if sp.Preset != "" {
		if err = sp.ApplyPreset(sp.Preset); err != nil {
			return
		}
	}
	return
}

// ApplyPreset maps a named fluid to its viscosity and color-decay pair.
func (sp *SimParameters2D) ApplyPreset(name string) error {
	switch strings.ToLower(name) {
	case "water":
		sp.Viscosity, sp.ColorDecay = 0, 0.005
	case "smoke":
		sp.Viscosity, sp.ColorDecay = 0.002, 0.02
	case "honey":
		sp.Viscosity, sp.ColorDecay = 0.05, 0.001
	default:
		return fmt.Errorf("unknown fluid preset %q, have: water, smoke, honey", name)
	}
	return nil
}

// StepParameters converts the parsed file into the per-step parameter
// struct the solver consumes.
func (sp *SimParameters2D) StepParameters() (p Fluid2D.StepParameters) {
	p = Fluid2D.DefaultStepParameters()
	p.Dt = sp.Dt
	p.PressureIterations = sp.PressureIterations
	p.Viscosity = sp.Viscosity
	p.ColorDecay = sp.ColorDecay
	p.ForceRadius = sp.ForceRadius
	p.ForceScale = sp.ForceScale
	p.ColorIntensity = sp.ColorIntensity
	p.FlowEnabled = sp.FlowEnabled
	p.FlowVelocity = sp.FlowVelocity
	p.VelocityLimit = sp.VelocityLimit
	p.Obstacles = Fluid2D.ChevronParams{
		Enabled:       sp.Obstacles.Enabled,
		Columns:       sp.Obstacles.Columns,
		Rows:          sp.Obstacles.Rows,
		Length:        sp.Obstacles.Length,
		Width:         sp.Obstacles.Width,
		AngleDeg:      sp.Obstacles.AngleDeg,
		AlternateSign: sp.Obstacles.AlternateSign,
		GapOffset:     sp.Obstacles.GapOffset,
		Spacing:       sp.Obstacles.Spacing,
	}
	for i, e := range sp.Emitters {
		p.Emitters[i] = Fluid2D.Emitter{
			Enabled:   e.Enabled,
			U:         e.X,
			V:         e.Y,
			Radius:    e.Radius,
			Intensity: e.Intensity,
			Color:     e.Color,
		}
	}
	p.Vis = Fluid2D.VisParams{
		Mode:          Fluid2D.NewVisMode(sp.VisMode),
		Field:         Fluid2D.NewVisField(sp.VisField),
		LambdaMin:     sp.LambdaMin,
		LambdaMax:     sp.LambdaMax,
		ShowObstacles: sp.ShowObstacles,
		ShowLegend:    sp.ShowLegend,
	}
	return
}

// BuildProbes converts the probe declarations into measurement probes.
func (sp *SimParameters2D) BuildProbes() (probes []*Fluid2D.Probe) {
	for _, pp := range sp.Probes {
		kind := Fluid2D.PointProbe
		if strings.EqualFold(pp.Kind, "line") {
			kind = Fluid2D.LineProbe
		}
		probes = append(probes, &Fluid2D.Probe{Kind: kind, U: pp.X, V: pp.Y})
	}
	return
}

func (sp *SimParameters2D) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", sp.Title)
	fmt.Printf("%dx%d\t\t= Resolution\n", sp.Nx, sp.Ny)
	fmt.Printf("%8.5f\t\t= Dt\n", sp.Dt)
	fmt.Printf("[%d]\t\t\t= Pressure Iterations\n", sp.PressureIterations)
	fmt.Printf("%8.5f\t\t= Viscosity\n", sp.Viscosity)
	fmt.Printf("%8.5f\t\t= ColorDecay\n", sp.ColorDecay)
	if sp.Preset != "" {
		fmt.Printf("[%s]\t\t\t= Preset\n", sp.Preset)
	}
	fmt.Printf("[%v]\t\t\t= Flow enabled\n", sp.FlowEnabled)
	fmt.Printf("[%v]\t\t\t= Obstacles enabled\n", sp.Obstacles.Enabled)
	fmt.Printf("[%s/%s]\t\t= Visualization mode/field\n", sp.VisMode, sp.VisField)
	for i, e := range sp.Emitters {
		fmt.Printf("Emitter[%d] = %+v\n", i, e)
	}
	for i, pr := range sp.Probes {
		fmt.Printf("Probe[%d] = %+v\n", i, pr)
	}
}
