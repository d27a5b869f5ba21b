package Fluid2D

import (
	"math"

	"github.com/jacksondean17/three-fluid-sim/utils"
)

// Pointer is one active pointer/touch record, updated by input
// collaborators between steps. Pos is normalized, Delta is the per-frame
// displacement the force contribution is proportional to.
type Pointer struct {
	ID     int
	U, V   float64
	DU, DV float64
	Color  [3]float64 // dye injected while the pointer is down
}

// flowDecayLength sets how quickly the inflow bias fades with distance
// from the left edge, in normalized units.
const flowDecayLength = 0.1

// InjectForces adds a radial impulse proportional to each pointer's
// displacement into the velocity write buffer. The falloff is a smooth
// Gaussian rather than a hard cutoff so neighboring pointers blend
// continuously; simultaneous pointers contribute additively in one
// pass.
func InjectForces(pm *utils.PartitionMap, vel *GridField, pointers []Pointer, radius, forceScale float64) {
	vel.CopyReadToWrite()
	if len(pointers) == 0 || radius <= 0 {
		return
	}
	var (
		stride = vel.Nx
		dstU   = vel.WriteData(ChU)
		dstV   = vel.WriteData(ChV)
		r2     = radius * radius
	)
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			v := (float64(y) + 0.5) / float64(vel.Ny)
			for x := 0; x < vel.Nx; x++ {
				u := (float64(x) + 0.5) / float64(vel.Nx)
				ind := y*stride + x
				for _, p := range pointers {
					du := u - p.U
					dv := v - p.V
					w := math.Exp(-(du*du + dv*dv) / r2)
					dstU[ind] += forceScale * p.DU * w
					dstV[ind] += forceScale * p.DV * w
				}
			}
		}
	})
}

// InjectColors splats each pointer's dye color into the color write
// buffer with the same Gaussian falloff as the force pass.
func InjectColors(pm *utils.PartitionMap, dye *GridField, pointers []Pointer, radius, intensity float64) {
	dye.CopyReadToWrite()
	if len(pointers) == 0 || radius <= 0 {
		return
	}
	var (
		stride = dye.Nx
		r2     = radius * radius
	)
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			v := (float64(y) + 0.5) / float64(dye.Ny)
			for x := 0; x < dye.Nx; x++ {
				u := (float64(x) + 0.5) / float64(dye.Nx)
				ind := y*stride + x
				for _, p := range pointers {
					du := u - p.U
					dv := v - p.V
					w := intensity * math.Exp(-(du*du+dv*dv)/r2)
					for ch := 0; ch < dye.Channels; ch++ {
						dye.WriteData(ch)[ind] += w * p.Color[ch]
					}
				}
			}
		}
	})
}

// ApplyFlowSource adds a constant rightward inflow bias concentrated at
// the left edge and decaying exponentially with distance from it,
// producing a persistent left-to-right current for wind-tunnel setups.
func ApplyFlowSource(pm *utils.PartitionMap, vel *GridField, flowVelocity float64) {
	vel.CopyReadToWrite()
	if flowVelocity == 0 {
		return
	}
	var (
		stride = vel.Nx
		dstU   = vel.WriteData(ChU)
	)
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			for x := 0; x < vel.Nx; x++ {
				u := (float64(x) + 0.5) / float64(vel.Nx)
				dstU[y*stride+x] += flowVelocity * math.Exp(-u/flowDecayLength)
			}
		}
	})
}
