package Fluid2D

import (
	"math"

	"github.com/jacksondean17/three-fluid-sim/utils"
)

/*
	The pressure projection follows the classical stable-fluids
	discretization: central-difference divergence, a fixed-count Jacobi
	relaxation of the pressure Poisson equation, then subtraction of the
	pressure gradient from velocity.

	Stencil discipline shared by all three passes: a cell fully inside an
	obstacle contributes nothing (divergence and pressure forced to 0);
	for a fluid cell, any neighbor that is an obstacle or lies past the
	domain edge is replaced by the center cell's own value (zero-gradient
	substitution) - the stencil never samples past the grid edge as if it
	were periodic. In the open-flow regime the right edge is a pressure
	sink: Dirichlet p = 0.
*/

const (
	jacobiAlpha = -1.0
	jacobiRBeta = 0.25 // reciprocal of the 4-neighbor stencil weight
)

// MinPressureIterations and MaxPressureIterations bound the configured
// Jacobi iteration count.
const (
	MinPressureIterations     = 16
	MaxPressureIterations     = 128
	DefaultPressureIterations = 32
)

// outflow reports whether cell (x, y) lies on the declared outflow edge.
func outflow(regime BoundaryRegime, Nx, x int) bool {
	return regime == RegimeOpenFlow && x == Nx-1
}

// ComputeDivergence fills div's write buffer with the boundary-aware
// discrete divergence of the velocity read buffer.
func ComputeDivergence(pm *utils.PartitionMap, div, vel *GridField, om *ObstacleMask, regime BoundaryRegime) {
	var (
		Nx     = vel.Nx
		Ny     = vel.Ny
		stride = Nx
		u      = vel.ReadData(ChU)
		v      = vel.ReadData(ChV)
		dst    = div.WriteData(0)
	)
	// neighbor substitutes the center component when the neighbor cell
	// is obstacle or out of domain
	sampleU := func(x, y, cx, cy int) float64 {
		if x < 0 || x >= Nx || y < 0 || y >= Ny || om.Solid(x, y) {
			return u[cy*stride+cx]
		}
		return u[y*stride+x]
	}
	sampleV := func(x, y, cx, cy int) float64 {
		if x < 0 || x >= Nx || y < 0 || y >= Ny || om.Solid(x, y) {
			return v[cy*stride+cx]
		}
		return v[y*stride+x]
	}
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			for x := 0; x < Nx; x++ {
				ind := y*stride + x
				if om.Solid(x, y) {
					dst[ind] = 0
					continue
				}
				uR := sampleU(x+1, y, x, y)
				uL := sampleU(x-1, y, x, y)
				vU := sampleV(x, y+1, x, y)
				vD := sampleV(x, y-1, x, y)
				dst[ind] = ((uR - uL) + (vU - vD)) / 2
			}
		}
	})
}

// jacobiIteration performs one full-grid relaxation step
// p' = (pL + pR + pD + pU + alpha*div) * rBeta, reading the pressure
// read buffer and writing the write buffer.
func jacobiIteration(pm *utils.PartitionMap, pressure, div *GridField, om *ObstacleMask, regime BoundaryRegime) {
	var (
		Nx     = pressure.Nx
		Ny     = pressure.Ny
		stride = Nx
		p      = pressure.ReadData(0)
		b      = div.ReadData(0)
		dst    = pressure.WriteData(0)
	)
	sampleP := func(x, y, cx, cy int) float64 {
		if outflow(regime, Nx, x) {
			return 0
		}
		if x < 0 || x >= Nx || y < 0 || y >= Ny || om.Solid(x, y) {
			return p[cy*stride+cx]
		}
		return p[y*stride+x]
	}
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			for x := 0; x < Nx; x++ {
				ind := y*stride + x
				if om.Solid(x, y) || outflow(regime, Nx, x) {
					dst[ind] = 0
					continue
				}
				pL := sampleP(x-1, y, x, y)
				pR := sampleP(x+1, y, x, y)
				pD := sampleP(x, y-1, x, y)
				pU := sampleP(x, y+1, x, y)
				dst[ind] = (pL + pR + pD + pU + jacobiAlpha*b[ind]) * jacobiRBeta
			}
		}
	})
}

// SolvePressure runs exactly iterations Jacobi relaxations. The
// pressure field warm starts from the previous step's converged values;
// no convergence check is performed - fixed cost, fixed quality.
func SolvePressure(pm *utils.PartitionMap, pressure, div *GridField, om *ObstacleMask, regime BoundaryRegime, iterations int) {
	iterations = clampI(iterations, MinPressureIterations, MaxPressureIterations)
	for i := 0; i < iterations; i++ {
		jacobiIteration(pm, pressure, div, om, regime)
		pressure.Swap()
	}
}

// Project subtracts the pressure gradient from velocity:
// v' = v - 0.5*grad(p). At the outflow edge the outward pressure
// neighbor is exactly 0 (a true pressure sink); all other boundary and
// obstacle neighbors substitute the center pressure. Obstacle-interior
// cells are forced to zero velocity.
//
// velocityLimit guards the unchecked Jacobi solve: each resulting
// component is clamped to +-velocityLimit and non-finite values are
// replaced by zero, so a blown-up solve cannot poison subsequent steps.
func Project(pm *utils.PartitionMap, vel, pressure *GridField, om *ObstacleMask, regime BoundaryRegime, velocityLimit float64) {
	var (
		Nx     = vel.Nx
		Ny     = vel.Ny
		stride = Nx
		p      = pressure.ReadData(0)
		srcU   = vel.ReadData(ChU)
		srcV   = vel.ReadData(ChV)
		dstU   = vel.WriteData(ChU)
		dstV   = vel.WriteData(ChV)
	)
	sampleP := func(x, y, cx, cy int) float64 {
		if regime == RegimeOpenFlow && x >= Nx {
			// outward neighbor past the outflow edge is a hard zero
			return 0
		}
		if x < 0 || x >= Nx || y < 0 || y >= Ny || om.Solid(x, y) {
			return p[cy*stride+cx]
		}
		if outflow(regime, Nx, x) {
			return 0
		}
		return p[y*stride+x]
	}
	guard := func(v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return clampF(v, -velocityLimit, velocityLimit)
	}
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			for x := 0; x < Nx; x++ {
				ind := y*stride + x
				if om.Solid(x, y) {
					dstU[ind] = 0
					dstV[ind] = 0
					continue
				}
				gradX := sampleP(x+1, y, x, y) - sampleP(x-1, y, x, y)
				gradY := sampleP(x, y+1, x, y) - sampleP(x, y-1, x, y)
				dstU[ind] = guard(srcU[ind] - 0.5*gradX)
				dstV[ind] = guard(srcV[ind] - 0.5*gradY)
			}
		}
	})
}
