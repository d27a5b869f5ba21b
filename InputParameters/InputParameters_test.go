package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jacksondean17/three-fluid-sim/Fluid2D"
)

var exampleYAML = []byte(`
Title: "Chevron Wake"
Nx: 192
Ny: 128
Dt: 0.01
PressureIterations: 64
Preset: smoke
FlowEnabled: true
FlowVelocity: 0.75
Obstacles:
  Enabled: true
  Columns: 3
  Rows: 4
  AngleDeg: 35
  AlternateSign: true
Emitters:
  - Enabled: true
    X: 0.1
    Y: 0.5
    Radius: 0.04
    Intensity: 1.5
    Color: [1, 0.4, 0.1]
VisMode: spectral
VisField: pressure
Probes:
  - Kind: point
    X: 0.7
    Y: 0.5
  - Kind: line
    X: 0.9
`)

func TestParse(t *testing.T) {
	sp := NewSimParameters2D()
	assert.NoError(t, sp.Parse(exampleYAML))
	assert.NoError(t, sp.Validate())

	// Explicit values land, unmentioned knobs keep their defaults
	assert.Equal(t, "Chevron Wake", sp.Title)
	assert.Equal(t, 192, sp.Nx)
	assert.Equal(t, 128, sp.Ny)
	assert.Equal(t, 64, sp.PressureIterations)
	assert.Equal(t, 0.75, sp.FlowVelocity)
	assert.Equal(t, Fluid2D.DefaultStepParameters().ForceRadius, sp.ForceRadius)

	// Preset overrides the fluid pair
	assert.Equal(t, 0.002, sp.Viscosity)
	assert.Equal(t, 0.02, sp.ColorDecay)
}

func TestValidateRejections(t *testing.T) {
	sp := NewSimParameters2D()
	sp.Nx = 0
	assert.Error(t, sp.Validate())

	sp = NewSimParameters2D()
	sp.Dt = -1
	assert.Error(t, sp.Validate())

	sp = NewSimParameters2D()
	sp.Preset = "mercury"
	assert.Error(t, sp.Validate())

	sp = NewSimParameters2D()
	sp.Emitters = make([]EmitterParams, Fluid2D.MaxEmitters+1)
	assert.Error(t, sp.Validate())
}

func TestValidateClampsIterations(t *testing.T) {
	sp := NewSimParameters2D()
	sp.PressureIterations = 1
	assert.NoError(t, sp.Validate())
	assert.Equal(t, Fluid2D.MinPressureIterations, sp.PressureIterations)

	sp.PressureIterations = 10000
	assert.NoError(t, sp.Validate())
	assert.Equal(t, Fluid2D.MaxPressureIterations, sp.PressureIterations)
}

func TestStepParameters(t *testing.T) {
	sp := NewSimParameters2D()
	assert.NoError(t, sp.Parse(exampleYAML))
	assert.NoError(t, sp.Validate())

	p := sp.StepParameters()
	assert.Equal(t, 0.01, p.Dt)
	assert.True(t, p.FlowEnabled)
	assert.Equal(t, Fluid2D.RegimeOpenFlow, p.Regime())
	assert.Equal(t, 3, p.Obstacles.Columns)
	assert.True(t, p.Obstacles.AlternateSign)
	assert.True(t, p.Emitters[0].Enabled)
	assert.Equal(t, [3]float64{1, 0.4, 0.1}, p.Emitters[0].Color)
	assert.False(t, p.Emitters[1].Enabled)
	assert.Equal(t, Fluid2D.VisSpectral, p.Vis.Mode)
	assert.Equal(t, Fluid2D.ShowPressure, p.Vis.Field)
}

func TestBuildProbes(t *testing.T) {
	sp := NewSimParameters2D()
	assert.NoError(t, sp.Parse(exampleYAML))

	probes := sp.BuildProbes()
	assert.Equal(t, 2, len(probes))
	assert.Equal(t, Fluid2D.PointProbe, probes[0].Kind)
	assert.Equal(t, 0.7, probes[0].U)
	assert.Equal(t, Fluid2D.LineProbe, probes[1].Kind)
	assert.Equal(t, 0.9, probes[1].U)
}
