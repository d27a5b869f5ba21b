package Fluid2D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func singleRectParams(angleDeg float64) ChevronParams {
	return ChevronParams{
		Enabled:  true,
		Columns:  1,
		Rows:     1,
		Length:   0.2,
		Width:    0.06,
		AngleDeg: angleDeg,
		Spacing:  0.25,
	}
}

func TestObstacleContainment(t *testing.T) {
	om := NewObstacleMask(64, 64, singleRectParams(30))

	var (
		angle = 30 * math.Pi / 180
		sin   = math.Sin(angle)
		cos   = math.Cos(angle)
	)
	// Walk rectangle-local points strictly inside and strictly outside,
	// rotated into domain space around the center (0.5, 0.5).
	toDomain := func(lx, ly float64) (u, v float64) {
		return 0.5 + lx*cos - ly*sin, 0.5 + lx*sin + ly*cos
	}
	inside := [][2]float64{{0, 0}, {0.09, 0.02}, {-0.09, -0.02}, {0.05, -0.025}}
	for _, p := range inside {
		u, v := toDomain(p[0], p[1])
		assert.True(t, om.Contains(u, v), "point (%v,%v) should be inside", u, v)
	}
	outside := [][2]float64{{0.11, 0}, {0, 0.04}, {-0.2, 0.2}, {0.09, 0.05}}
	for _, p := range outside {
		u, v := toDomain(p[0], p[1])
		assert.False(t, om.Contains(u, v), "point (%v,%v) should be outside", u, v)
	}
	// Repeated identical queries are consistent, including on-edge points
	u, v := toDomain(0.1, 0.03)
	first := om.Contains(u, v)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, om.Contains(u, v))
	}
}

func TestObstacleMaskBinary(t *testing.T) {
	om := NewObstacleMask(32, 32, singleRectParams(45))
	ones := 0
	for _, v := range om.Data() {
		assert.True(t, v == 0 || v == 1, "mask must be binary, got %v", v)
		if v == 1 {
			ones++
		}
	}
	assert.Greater(t, ones, 0)
	assert.Less(t, ones, 32*32)
}

func TestObstacleMaskDisabled(t *testing.T) {
	p := singleRectParams(45)
	p.Enabled = false
	om := NewObstacleMask(16, 16, p)
	for _, v := range om.Data() {
		assert.Equal(t, 0.0, v)
	}
	assert.False(t, om.Contains(0.5, 0.5))
	assert.True(t, math.IsInf(om.SignedDistance(0.5, 0.5), 1))
}

func TestObstacleAlternatingSign(t *testing.T) {
	p := ChevronParams{
		Enabled:       true,
		Columns:       2,
		Rows:          1,
		Length:        0.2,
		Width:         0.04,
		AngleDeg:      40,
		AlternateSign: true,
		Spacing:       0.4,
	}
	rects := buildChevronRects(p)
	assert.Len(t, rects, 2)
	assert.InDelta(t, rects[0].sin, -rects[1].sin, 1e-12)
	assert.InDelta(t, rects[0].cos, rects[1].cos, 1e-12)
}

func TestObstacleRegenerate(t *testing.T) {
	om := NewObstacleMask(32, 32, singleRectParams(0))
	before := append([]float64(nil), om.Data()...)
	p := om.Params
	p.Enabled = false
	om.Regenerate(p)
	after := om.Data()
	same := true
	for i := range after {
		if after[i] != before[i] {
			same = false
		}
		assert.Equal(t, 0.0, after[i])
	}
	assert.False(t, same)
}

func TestSignedDistanceAgreesWithContainment(t *testing.T) {
	om := NewObstacleMask(64, 64, singleRectParams(25))
	for _, p := range [][2]float64{{0.5, 0.5}, {0.3, 0.3}, {0.52, 0.49}, {0.9, 0.1}} {
		in := om.Contains(p[0], p[1])
		sd := om.SignedDistance(p[0], p[1])
		if in {
			assert.LessOrEqual(t, sd, 0.0)
		} else {
			assert.GreaterOrEqual(t, sd, 0.0)
		}
	}
}
