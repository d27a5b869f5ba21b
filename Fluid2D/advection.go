package Fluid2D

import (
	"github.com/jacksondean17/three-fluid-sim/utils"
)

/*
	Semi-Lagrangian transport: each cell's new value is found by tracing
	backward along the local velocity for one timestep and bilinearly
	sampling the source field at the backtraced position, then applying
	an exponential decay factor. Backtraced positions outside the domain
	clamp to the nearest edge (GridField.Sample never wraps), so no value
	is injected from the opposite side.

	The same stage transports velocity through itself (decay is the
	"viscosity" knob - a velocity damping coefficient, not a physical
	viscosity) and the dye field (decay is the configured color fade).
*/

// Advect fills dst's write buffer from src's read buffer. src and dst
// may be the same field (velocity self-advection) - reads only ever
// touch the read buffer. Callers swap dst afterward.
func Advect(pm *utils.PartitionMap, dst, src, vel *GridField, dt, decay float64) {
	if dst.Nx != src.Nx || dst.Ny != src.Ny || vel.Nx != src.Nx || vel.Ny != src.Ny {
		panic("advection requires identical field resolutions")
	}
	var (
		keep   = 1 - clampF(decay, 0, 1)
		stride = src.Nx
		velU   = vel.ReadData(ChU)
		velV   = vel.ReadData(ChV)
	)
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			v := (float64(y) + 0.5) / float64(src.Ny)
			for x := 0; x < src.Nx; x++ {
				u := (float64(x) + 0.5) / float64(src.Nx)
				ind := y*stride + x
				bu := u - dt*velU[ind]
				bv := v - dt*velV[ind]
				for ch := 0; ch < src.Channels; ch++ {
					dst.WriteData(ch)[ind] = keep * src.Sample(ch, bu, bv)
				}
			}
		}
	})
}
