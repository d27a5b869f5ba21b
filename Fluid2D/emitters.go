package Fluid2D

import (
	"math"

	"github.com/jacksondean17/three-fluid-sim/utils"
)

// MaxEmitters is the number of independently enabled dye emitters.
const MaxEmitters = 4

// Emitter continuously injects dye at a fixed point with smooth falloff
// and a flickering noise-modulated intensity.
type Emitter struct {
	Enabled   bool
	U, V      float64
	Radius    float64
	Intensity float64
	Color     [3]float64
}

// fractNoise is the deterministic per-pixel hash used to modulate
// emitter intensity: a UV+time seeded sine hash with the fractional
// part taken, in [0, 1).
func fractNoise(u, v, t float64) float64 {
	s := math.Sin(u*12.9898+v*78.233+t*37.719) * 43758.5453
	return s - math.Floor(s)
}

// RunEmitters adds dye from every enabled emitter into the color write
// buffer. Disabled emitters contribute nothing; enabling one at runtime
// simply starts its contribution with no other discontinuity.
func RunEmitters(pm *utils.PartitionMap, dye *GridField, emitters []Emitter, elapsed float64) {
	dye.CopyReadToWrite()
	active := emitters[:0:0]
	for _, e := range emitters {
		if e.Enabled && e.Radius > 0 {
			active = append(active, e)
		}
	}
	if len(active) == 0 {
		return
	}
	var (
		stride = dye.Nx
	)
	parallelRows(pm, func(yMin, yMax int) {
		for y := yMin; y < yMax; y++ {
			v := (float64(y) + 0.5) / float64(dye.Ny)
			for x := 0; x < dye.Nx; x++ {
				u := (float64(x) + 0.5) / float64(dye.Nx)
				ind := y*stride + x
				for _, e := range active {
					du := u - e.U
					dv := v - e.V
					w := math.Exp(-(du*du + dv*dv) / (e.Radius * e.Radius))
					if w < 1e-6 {
						continue
					}
					n := fractNoise(u, v, elapsed)
					amt := e.Intensity * w * n
					for ch := 0; ch < dye.Channels; ch++ {
						dye.WriteData(ch)[ind] += amt * e.Color[ch]
					}
				}
			}
		}
	})
}
