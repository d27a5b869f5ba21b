package Fluid2D

import (
	"fmt"
	"testing"
)

func benchSimulation(b *testing.B, N int) (s *Simulation, p StepParameters) {
	var err error
	if s, err = NewSimulation(N, N, 0); err != nil {
		b.Fatal(err)
	}
	p = DefaultStepParameters()
	p.Obstacles.Enabled = true
	// Seed a non-trivial state so the solver does real work
	s.Step(p, []Pointer{{U: 0.3, V: 0.5, DU: 0.1, DV: 0.05, Color: [3]float64{1, 0, 0}}})
	return
}

func BenchmarkStep(b *testing.B) {
	for _, N := range []int{128, 256, 512} {
		s, p := benchSimulation(b, N)
		pointers := []Pointer{{U: 0.5, V: 0.5, DU: 0.02, DV: 0}}
		b.Run(fmt.Sprintf("%dx%d", N, N), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				s.Step(p, pointers)
			}
		})
	}
}

func BenchmarkJacobi(b *testing.B) {
	s, p := benchSimulation(b, 256)
	pm := NewRowPartition(0, 256)
	for _, iters := range []int{16, 32, 64, 128} {
		iters := iters
		b.Run(fmt.Sprintf("iters=%d", iters), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				SolvePressure(pm, s.Pressure, s.Divergence, s.Mask, p.Regime(), iters)
			}
		})
	}
}
