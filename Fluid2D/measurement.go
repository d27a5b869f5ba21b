package Fluid2D

import (
	"fmt"
	"math"
)

/*
	Probes read pressure and velocity back through an encoded one-sample
	channel rather than touching field storage directly: each value is
	mapped into [0,1] by encoded = clamp(value/scale + 0.5, 0, 1),
	quantized to 8 bits (the representable range of the readback target)
	and decoded by the inverse. The channel is deliberately lossy but
	bounded, with a dynamic range of +-(scale/2).
*/

// EncodeScale is the fixed constant shared by the encode and decode
// sides of the readback channel.
const EncodeScale = 10.0

// lineProbeSamples is the number of evenly spaced samples averaged by a
// vertical line probe.
const lineProbeSamples = 8

// EncodeSample maps a field value into the bounded [0,1] readback range.
func EncodeSample(value float64) float64 {
	return clampF(value/EncodeScale+0.5, 0, 1)
}

// DecodeSample inverts EncodeSample.
func DecodeSample(encoded float64) float64 {
	return (encoded - 0.5) * EncodeScale
}

// quantize8 models the 8-bit precision of the readback target.
func quantize8(encoded float64) float64 {
	return math.Round(encoded*255) / 255
}

func roundTo3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// ProbeKind selects between a single-point probe and a vertical-line
// probe averaged over several y offsets.
type ProbeKind uint8

const (
	PointProbe ProbeKind = iota
	LineProbe
)

// Probe owns its last-computed values; a failed readback leaves them
// untouched so a control surface never displays garbage for one frame.
type Probe struct {
	Kind ProbeKind
	U, V float64 // V is ignored by line probes

	Pressure   float64
	VelU, VelV float64
	Speed      float64
}

// probeSample is one decoded readback of all measured quantities.
type probeSample struct {
	pressure, velU, velV float64
}

// readbackFunc produces one encoded sample at a normalized coordinate.
// It is replaceable so the degraded-readback path is testable.
type readbackFunc func(pressure, vel *GridField, u, v float64) (probeSample, error)

func fieldReadback(pressure, vel *GridField, u, v float64) (s probeSample, err error) {
	s.pressure = DecodeSample(quantize8(EncodeSample(pressure.Sample(0, u, v))))
	s.velU = DecodeSample(quantize8(EncodeSample(vel.Sample(ChU, u, v))))
	s.velV = DecodeSample(quantize8(EncodeSample(vel.Sample(ChV, u, v))))
	return
}

// MeasurementStage updates a set of probes from the solver fields each
// frame.
type MeasurementStage struct {
	Probes   []*Probe
	readback readbackFunc
}

func NewMeasurementStage(probes ...*Probe) *MeasurementStage {
	return &MeasurementStage{
		Probes:   probes,
		readback: fieldReadback,
	}
}

// Update refreshes every probe from the current read buffers. A
// readback failure skips that probe's update for this frame - the last
// known values are retained and the main loop keeps running.
func (ms *MeasurementStage) Update(pressure, vel *GridField) {
	for _, p := range ms.Probes {
		ms.updateProbe(p, pressure, vel)
	}
}

func (ms *MeasurementStage) updateProbe(p *Probe, pressure, vel *GridField) {
	var (
		sum probeSample
		n   int
	)
	switch p.Kind {
	case LineProbe:
		for i := 0; i < lineProbeSamples; i++ {
			v := (float64(i) + 0.5) / lineProbeSamples
			s, err := ms.readback(pressure, vel, p.U, v)
			if err != nil {
				return
			}
			sum.pressure += s.pressure
			sum.velU += s.velU
			sum.velV += s.velV
			n++
		}
	default:
		s, err := ms.readback(pressure, vel, p.U, p.V)
		if err != nil {
			return
		}
		sum = s
		n = 1
	}
	p.Pressure = roundTo3(sum.pressure / float64(n))
	p.VelU = roundTo3(sum.velU / float64(n))
	p.VelV = roundTo3(sum.velV / float64(n))
	p.Speed = roundTo3(math.Hypot(p.VelU, p.VelV))
}

// DisplayStrings returns the fixed-3-decimal strings a control surface
// shows for this probe: pressure, both velocity components, magnitude.
func (p *Probe) DisplayStrings() (pressure, velU, velV, speed string) {
	pressure = fmt.Sprintf("%.3f", p.Pressure)
	velU = fmt.Sprintf("%.3f", p.VelU)
	velV = fmt.Sprintf("%.3f", p.VelV)
	speed = fmt.Sprintf("%.3f", p.Speed)
	return
}
