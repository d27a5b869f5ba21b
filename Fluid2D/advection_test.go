package Fluid2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvectIdentity(t *testing.T) {
	// Zero velocity and zero decay transport nothing
	pm := NewRowPartition(1, 16)
	src, _ := NewGridField(16, 16, 1)
	vel, _ := NewGridField(16, 16, 2)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			src.Set(0, x, y, float64(x*16+y))
		}
	}
	src.Swap()
	Advect(pm, src, src, vel, 1.0/60, 0)
	src.Swap()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			assert.InDelta(t, float64(x*16+y), src.At(0, x, y), 1e-12)
		}
	}
}

func TestAdvectDecay(t *testing.T) {
	pm := NewRowPartition(1, 8)
	src, _ := NewGridField(8, 8, 1)
	vel, _ := NewGridField(8, 8, 2)
	src.Fill(0, 2)
	Advect(pm, src, src, vel, 1.0/60, 0.25)
	src.Swap()
	assert.InDelta(t, 1.5, src.At(0, 4, 4), 1e-12)

	// Decay close to 1 wipes the field out almost immediately
	src.Fill(0, 2)
	Advect(pm, src, src, vel, 1.0/60, 0.99)
	src.Swap()
	assert.InDelta(t, 0.02, src.At(0, 4, 4), 1e-12)
}

func TestAdvectEdgeClamp(t *testing.T) {
	// A uniform field advected by a velocity that backtraces far outside
	// the domain keeps its value - no wraparound injection.
	pm := NewRowPartition(1, 16)
	src, _ := NewGridField(16, 16, 1)
	vel, _ := NewGridField(16, 16, 2)
	src.Fill(0, 3)
	vel.Fill(ChU, 50)
	vel.Fill(ChV, -50)
	Advect(pm, src, src, vel, 1.0, 0)
	src.Swap()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			assert.InDelta(t, 3.0, src.At(0, x, y), 1e-12)
		}
	}
}

func TestAdvectTransport(t *testing.T) {
	// A rightward current moves a bright column to the right: the value
	// at a cell comes from behind it.
	pm := NewRowPartition(1, 32)
	src, _ := NewGridField(32, 32, 1)
	vel, _ := NewGridField(32, 32, 2)
	for y := 0; y < 32; y++ {
		src.Set(0, 8, y, 1)
	}
	src.Swap()
	vel.Fill(ChU, 1) // one full UV unit per second
	dt := 4.0 / 32   // four texels
	Advect(pm, src, src, vel, dt, 0)
	src.Swap()
	for y := 1; y < 31; y++ {
		assert.InDelta(t, 1.0, src.At(0, 12, y), 1e-9)
		assert.InDelta(t, 0.0, src.At(0, 8, y), 1e-9)
	}
}

func TestAdvectResolutionMismatchPanics(t *testing.T) {
	pm := NewRowPartition(1, 8)
	a, _ := NewGridField(8, 8, 1)
	b, _ := NewGridField(16, 16, 2)
	assert.Panics(t, func() { Advect(pm, a, a, b, 0.016, 0) })
}
