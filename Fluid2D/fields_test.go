package Fluid2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridField(t *testing.T) {
	// Allocation validation
	{
		_, err := NewGridField(0, 16, 1)
		assert.Error(t, err)
		_, err = NewGridField(16, -1, 1)
		assert.Error(t, err)
		_, err = NewGridField(16, 16, 0)
		assert.Error(t, err)
		_, err = NewGridField(16, 16, 4)
		assert.Error(t, err)
	}
	// Swap promotes written values, read buffer untouched until then
	{
		g, err := NewGridField(4, 4, 1)
		assert.NoError(t, err)
		g.Set(0, 1, 2, 7)
		assert.Equal(t, 0.0, g.At(0, 1, 2))
		g.Swap()
		assert.Equal(t, 7.0, g.At(0, 1, 2))
	}
	// Read and write buffers never alias
	{
		g, _ := NewGridField(4, 4, 2)
		for ch := 0; ch < 2; ch++ {
			assert.NotSame(t, &g.ReadData(ch)[0], &g.WriteData(ch)[0])
		}
	}
}

func TestGridFieldSample(t *testing.T) {
	g, _ := NewGridField(4, 4, 1)
	g.Fill(0, 0)
	// A single bright cell at (1, 1); sampling its center returns the
	// exact value, sampling midway blends bilinearly.
	g.Set(0, 1, 1, 1)
	g.Swap()
	u, v := g.CellCenterUV(1, 1)
	assert.InDelta(t, 1.0, g.Sample(0, u, v), 1e-12)
	u2, _ := g.CellCenterUV(2, 1)
	assert.InDelta(t, 0.5, g.Sample(0, (u+u2)/2, v), 1e-12)

	// Out-of-domain sampling clamps to the edge, never wraps
	g2, _ := NewGridField(4, 4, 1)
	for x := 0; x < 4; x++ {
		g2.Set(0, x, 0, float64(x))
	}
	g2.Swap()
	assert.Equal(t, g2.Sample(0, 0.0, 0.0), g2.Sample(0, -5.0, -5.0))
	assert.Equal(t, g2.Sample(0, 1.0, 0.0), g2.Sample(0, 10.0, -1.0))
}

func TestGridFieldReductions(t *testing.T) {
	g, _ := NewGridField(2, 2, 1)
	data := g.WriteData(0)
	copy(data, []float64{1, -2, 3, -4})
	g.Swap()
	assert.InDelta(t, 2.5, g.MeanAbs(0), 1e-12)
	assert.InDelta(t, 4.0, g.MaxAbs(0), 1e-12)
	lo, hi := g.MinMax(0)
	assert.Equal(t, -4.0, lo)
	assert.Equal(t, 3.0, hi)
}
