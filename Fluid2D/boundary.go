package Fluid2D

import (
	"github.com/jacksondean17/three-fluid-sim/utils"
)

// BoundaryRegime selects the domain-edge policy.
type BoundaryRegime uint8

const (
	// RegimeClosed walls all four domain edges.
	RegimeClosed BoundaryRegime = iota
	// RegimeOpenFlow leaves the left and right edges open for the inflow
	// current and walls only the top and bottom edges. Pressure is
	// driven to zero at the right (outflow) edge.
	RegimeOpenFlow
)

// edgeWalls reports which domain-edge walls cell (x, y) lies on, using
// the one-texel ring of outermost cells. wallX means a left/right wall
// (x-normal), wallY a top/bottom wall (y-normal).
func edgeWalls(regime BoundaryRegime, Nx, Ny, x, y int) (wallX, wallY bool) {
	wallY = y == 0 || y == Ny-1
	wallX = regime == RegimeClosed && (x == 0 || x == Nx-1)
	return
}

// walled is the union of the domain-edge and obstacle masks. The union
// is idempotent: a cell already walled by one mask is simply walled, so
// corner cells classified by both never reflect twice.
func walled(regime BoundaryRegime, om *ObstacleMask, Nx, Ny, x, y int) bool {
	wallX, wallY := edgeWalls(regime, Nx, Ny, x, y)
	return wallX || wallY || om.Solid(x, y)
}

// EnforceBoundary applies the no-penetration condition: the velocity
// component normal to each walled surface is negated (reflected), the
// tangential component passes through. Cells inside an obstacle reflect
// both components. Re-evaluated every step because the masks can change
// parameters at runtime.
func EnforceBoundary(pm *utils.PartitionMap, vel *GridField, om *ObstacleMask, regime BoundaryRegime) {
	var (
		stride = vel.Nx
		srcU   = vel.ReadData(ChU)
		srcV   = vel.ReadData(ChV)
		dstU   = vel.WriteData(ChU)
		dstV   = vel.WriteData(ChV)
	)
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			for x := 0; x < vel.Nx; x++ {
				ind := y*stride + x
				scaleU, scaleV := 1.0, 1.0
				wallX, wallY := edgeWalls(regime, vel.Nx, vel.Ny, x, y)
				if om.Solid(x, y) {
					wallX, wallY = true, true
				}
				if wallX {
					scaleU = -1.0
				}
				if wallY {
					scaleV = -1.0
				}
				dstU[ind] = scaleU * srcU[ind]
				dstV[ind] = scaleV * srcV[ind]
			}
		}
	})
}
