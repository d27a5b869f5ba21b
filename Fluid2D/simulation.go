package Fluid2D

import (
	"fmt"
	"image"

	"github.com/jacksondean17/three-fluid-sim/utils"
)

// StepParameters is the complete, immutable parameter set for one
// simulation step. It is constructed once per step and passed into every
// stage call - stages never read shared mutable configuration. Every
// field has an explicit default from DefaultStepParameters; override
// resolution happens before the step, not inside stages.
type StepParameters struct {
	Dt                 float64
	PressureIterations int
	Viscosity          float64 // velocity decay per step, not a physical viscosity
	ColorDecay         float64 // dye decay per step
	ForceRadius        float64
	ForceScale         float64
	ColorIntensity     float64
	FlowEnabled        bool
	FlowVelocity       float64
	VelocityLimit      float64
	Paused             bool
	Obstacles          ChevronParams
	Emitters           [MaxEmitters]Emitter
	Vis                VisParams
}

func DefaultStepParameters() StepParameters {
	return StepParameters{
		Dt:                 1.0 / 60,
		PressureIterations: DefaultPressureIterations,
		Viscosity:          0,
		ColorDecay:         0.01,
		ForceRadius:        0.05,
		ForceScale:         30,
		ColorIntensity:     1,
		FlowVelocity:       0.5,
		VelocityLimit:      100,
		Obstacles:          DefaultChevronParams(),
		Vis:                DefaultVisParams(),
	}
}

// Regime derives the domain-edge policy from the flow toggle.
func (p StepParameters) Regime() BoundaryRegime {
	if p.FlowEnabled {
		return RegimeOpenFlow
	}
	return RegimeClosed
}

/*
	Simulation owns every grid field exclusively; external collaborators
	contribute forces, colors and measurement requests as stage inputs,
	never by writing buffers directly. One call to Step runs the fixed
	stage sequence:

	  velocity advection -> force injection -> flow source -> boundary
	  -> divergence -> pressure solve -> projection
	  -> dye advection + color injection + emitters
	  -> visualization -> measurement

	Each stage reads fully-written output of every earlier stage; no
	stage mutates a buffer while it is being read.
*/
type Simulation struct {
	Nx, Ny    int
	ProcLimit int

	Velocity   *GridField // vector2
	Dye        *GridField // vector3, intentionally unclamped
	Pressure   *GridField // scalar, warm starts the Jacobi solve
	Divergence *GridField // scalar

	Mask        *ObstacleMask
	Vis         *VisualizationStage
	Measurement *MeasurementStage

	pm      *utils.PartitionMap
	elapsed float64
	steps   int
}

// NewSimulation allocates every field at the given resolution.
// procLimit bounds the number of goroutines used by the data-parallel
// stages; 0 means one per CPU.
func NewSimulation(Nx, Ny, procLimit int) (s *Simulation, err error) {
	s = &Simulation{ProcLimit: procLimit, Measurement: NewMeasurementStage()}
	if err = s.allocate(Nx, Ny); err != nil {
		return nil, err
	}
	return
}

func (s *Simulation) allocate(Nx, Ny int) (err error) {
	var params ChevronParams
	if s.Mask != nil {
		params = s.Mask.Params
	} else {
		params = DefaultChevronParams()
	}
	if s.Velocity, err = NewGridField(Nx, Ny, 2); err != nil {
		return
	}
	if s.Dye, err = NewGridField(Nx, Ny, 3); err != nil {
		return
	}
	if s.Pressure, err = NewGridField(Nx, Ny, 1); err != nil {
		return
	}
	if s.Divergence, err = NewGridField(Nx, Ny, 1); err != nil {
		return
	}
	s.Nx, s.Ny = Nx, Ny
	s.Mask = NewObstacleMask(Nx, Ny, params)
	s.Vis = NewVisualizationStage(Nx, Ny)
	s.pm = NewRowPartition(s.ProcLimit, Ny)
	return
}

// SetResolution discards and reallocates every field - a stop-the-world
// operation; no step may be in flight. Previous field contents are lost
// and reinitialized to the baseline.
func (s *Simulation) SetResolution(Nx, Ny int) error {
	return s.allocate(Nx, Ny)
}

// Reset reseeds velocity, dye, pressure and divergence to the baseline
// without reallocating buffers and without touching obstacle or
// boundary state. Invoking Reset twice in a row with no intervening
// step yields the same fields as invoking it once.
func (s *Simulation) Reset() {
	s.Velocity.Clear()
	s.Dye.Clear()
	s.Pressure.Clear()
	s.Divergence.Clear()
}

// Elapsed returns accumulated simulated time, the seed for emitter
// noise.
func (s *Simulation) Elapsed() float64 { return s.elapsed }

// Steps returns the number of completed (unpaused) steps.
func (s *Simulation) Steps() int { return s.steps }

// MeanAbsDivergence recomputes the boundary-aware divergence of the
// current velocity and returns its mean absolute value, the headline
// solver-quality diagnostic.
func (s *Simulation) MeanAbsDivergence(regime BoundaryRegime) float64 {
	ComputeDivergence(s.pm, s.Divergence, s.Velocity, s.Mask, regime)
	s.Divergence.Swap()
	return s.Divergence.MeanAbs(0)
}

// Step advances the simulation by one frame and returns the rendered
// frame. When paused the solver pipeline is skipped entirely but the
// frozen fields are still visualized and measured.
func (s *Simulation) Step(p StepParameters, pointers []Pointer) *image.RGBA {
	if p.Obstacles != s.Mask.Params {
		s.Mask.Regenerate(p.Obstacles)
	}
	if !p.Paused {
		s.advance(p, pointers)
	}
	frame := s.Vis.Render(p.Vis, s.Dye, s.Pressure, s.Velocity, s.Divergence, s.Mask)
	s.Measurement.Update(s.Pressure, s.Velocity)
	return frame
}

func (s *Simulation) advance(p StepParameters, pointers []Pointer) {
	var (
		regime = p.Regime()
	)
	// Velocity self-advection with the viscosity decay knob
	Advect(s.pm, s.Velocity, s.Velocity, s.Velocity, p.Dt, p.Viscosity)
	s.Velocity.Swap()

	InjectForces(s.pm, s.Velocity, pointers, p.ForceRadius, p.ForceScale)
	s.Velocity.Swap()

	if p.FlowEnabled {
		ApplyFlowSource(s.pm, s.Velocity, p.FlowVelocity)
		s.Velocity.Swap()
	}

	EnforceBoundary(s.pm, s.Velocity, s.Mask, regime)
	s.Velocity.Swap()

	ComputeDivergence(s.pm, s.Divergence, s.Velocity, s.Mask, regime)
	s.Divergence.Swap()

	SolvePressure(s.pm, s.Pressure, s.Divergence, s.Mask, regime, p.PressureIterations)

	Project(s.pm, s.Velocity, s.Pressure, s.Mask, regime, p.VelocityLimit)
	s.Velocity.Swap()

	// Dye transport and sources
	Advect(s.pm, s.Dye, s.Dye, s.Velocity, p.Dt, p.ColorDecay)
	s.Dye.Swap()

	InjectColors(s.pm, s.Dye, pointers, p.ForceRadius, p.ColorIntensity)
	s.Dye.Swap()

	RunEmitters(s.pm, s.Dye, p.Emitters[:], s.elapsed)
	s.Dye.Swap()

	s.elapsed += p.Dt
	s.steps++
}

func (s *Simulation) String() string {
	return fmt.Sprintf("Fluid2D %dx%d, %d steps, t=%.3f", s.Nx, s.Ny, s.steps, s.elapsed)
}
