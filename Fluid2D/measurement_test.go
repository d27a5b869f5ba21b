package Fluid2D

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// For |x| < scale/2 the encode/quantize/decode chain loses at most
	// one quantization step of the 8-bit range.
	const maxErr = EncodeScale/255.0/2 + 1e-9
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		x := (rng.Float64() - 0.5) * EncodeScale * 0.999
		got := DecodeSample(quantize8(EncodeSample(x)))
		assert.InDelta(t, x, got, maxErr)
	}
	// Out-of-range values clamp to the channel bounds
	assert.Equal(t, EncodeScale/2, DecodeSample(quantize8(EncodeSample(1e6))))
	assert.Equal(t, -EncodeScale/2, DecodeSample(quantize8(EncodeSample(-1e6))))
}

func TestPointProbe(t *testing.T) {
	const N = 32
	pressure, _ := NewGridField(N, N, 1)
	vel, _ := NewGridField(N, N, 2)
	pressure.Fill(0, 1.25)
	vel.Fill(ChU, 0.5)
	vel.Fill(ChV, -0.75)

	probe := &Probe{Kind: PointProbe, U: 0.5, V: 0.5}
	ms := NewMeasurementStage(probe)
	ms.Update(pressure, vel)

	// One 8-bit quantization step of slack plus 3-decimal rounding
	const tol = EncodeScale / 255.0
	assert.InDelta(t, 1.25, probe.Pressure, tol)
	assert.InDelta(t, 0.5, probe.VelU, tol)
	assert.InDelta(t, -0.75, probe.VelV, tol)
	assert.InDelta(t, 0.901, probe.Speed, 2*tol)

	ps, vu, vv, spd := probe.DisplayStrings()
	assert.Equal(t, fmt.Sprintf("%.3f", probe.Pressure), ps)
	assert.Equal(t, fmt.Sprintf("%.3f", probe.VelU), vu)
	assert.Equal(t, fmt.Sprintf("%.3f", probe.VelV), vv)
	assert.Equal(t, fmt.Sprintf("%.3f", probe.Speed), spd)
}

func TestLineProbeAverages(t *testing.T) {
	const N = 32
	pressure, _ := NewGridField(N, N, 1)
	vel, _ := NewGridField(N, N, 2)
	// Pressure varies with y; the line probe averages down the column
	for y := 0; y < N; y++ {
		for x := 0; x < N; x++ {
			pressure.Set(0, x, y, float64(y)/float64(N-1)*2-1) // -1..1
		}
	}
	pressure.Swap()

	probe := &Probe{Kind: LineProbe, U: 0.5}
	ms := NewMeasurementStage(probe)
	ms.Update(pressure, vel)

	// Symmetric samples cancel to roughly zero
	assert.InDelta(t, 0.0, probe.Pressure, 0.05)
	assert.Equal(t, 0.0, probe.VelU)
	assert.Equal(t, 0.0, probe.VelV)
}

func TestReadbackFailureRetainsLastValues(t *testing.T) {
	const N = 8
	pressure, _ := NewGridField(N, N, 1)
	vel, _ := NewGridField(N, N, 2)
	pressure.Fill(0, 2)

	probe := &Probe{Kind: PointProbe, U: 0.5, V: 0.5}
	ms := NewMeasurementStage(probe)
	ms.Update(pressure, vel)
	wantP := probe.Pressure
	assert.NotEqual(t, 0.0, wantP)

	// Degrade the readback channel: the probe keeps its last values and
	// the update is skipped, nothing panics.
	ms.readback = func(pressure, vel *GridField, u, v float64) (probeSample, error) {
		return probeSample{}, fmt.Errorf("device lost")
	}
	pressure.Fill(0, -3)
	ms.Update(pressure, vel)
	assert.Equal(t, wantP, probe.Pressure)
}
