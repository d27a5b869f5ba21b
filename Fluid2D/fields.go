package Fluid2D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

/*
	Every simulated quantity lives in a GridField: a fixed-resolution 2D
	sample grid of 1-3 channels, double buffered so that each pipeline
	stage reads a fully consistent "previous" state while writing the
	"current" one. A stage never aliases its read and write targets -
	after writing, the caller swaps the roles.

	Each channel is stored as one gonum Dense plane of Ny rows by Nx
	columns; hot loops index the raw row-major backing slice directly.
*/
type GridField struct {
	Nx, Ny   int
	Channels int
	read     []*mat.Dense
	write    []*mat.Dense
}

const (
	// Channel indices for vector and color fields
	ChU = 0
	ChV = 1
	ChR = 0
	ChG = 1
	ChB = 2
)

func NewGridField(Nx, Ny, channels int) (g *GridField, err error) {
	if Nx <= 0 || Ny <= 0 {
		err = fmt.Errorf("invalid field resolution %dx%d, dimensions must be positive", Nx, Ny)
		return
	}
	if channels < 1 || channels > 3 {
		err = fmt.Errorf("invalid channel count %d, must be 1-3", channels)
		return
	}
	g = &GridField{
		Nx:       Nx,
		Ny:       Ny,
		Channels: channels,
		read:     make([]*mat.Dense, channels),
		write:    make([]*mat.Dense, channels),
	}
	for ch := 0; ch < channels; ch++ {
		g.read[ch] = mat.NewDense(Ny, Nx, nil)
		g.write[ch] = mat.NewDense(Ny, Nx, nil)
	}
	return
}

// Read returns the channel plane holding the previous step's converged
// values - the only buffer a stage may sample from.
func (g *GridField) Read(ch int) *mat.Dense { return g.read[ch] }

// Write returns the channel plane a stage deposits new values into.
func (g *GridField) Write(ch int) *mat.Dense { return g.write[ch] }

// ReadData returns the row-major backing slice of the read plane, with
// row stride Nx.
func (g *GridField) ReadData(ch int) []float64 { return g.read[ch].RawMatrix().Data }

func (g *GridField) WriteData(ch int) []float64 { return g.write[ch].RawMatrix().Data }

// Swap promotes the freshly written buffers to readable state.
func (g *GridField) Swap() {
	for ch := 0; ch < g.Channels; ch++ {
		g.read[ch], g.write[ch] = g.write[ch], g.read[ch]
	}
}

// At reads from the read buffer at cell (x, y).
func (g *GridField) At(ch, x, y int) float64 { return g.read[ch].At(y, x) }

// Set writes to the write buffer at cell (x, y).
func (g *GridField) Set(ch, x, y int, val float64) { g.write[ch].Set(y, x, val) }

// Fill sets every sample of the given channel in both buffers.
func (g *GridField) Fill(ch int, val float64) {
	for _, plane := range [2]*mat.Dense{g.read[ch], g.write[ch]} {
		data := plane.RawMatrix().Data
		for i := range data {
			data[i] = val
		}
	}
}

// Clear zeroes every channel of both buffers.
func (g *GridField) Clear() {
	for ch := 0; ch < g.Channels; ch++ {
		g.Fill(ch, 0)
	}
}

// CopyReadToWrite initializes the write buffer from the read buffer, for
// stages that only touch a subset of cells.
func (g *GridField) CopyReadToWrite() {
	for ch := 0; ch < g.Channels; ch++ {
		copy(g.write[ch].RawMatrix().Data, g.read[ch].RawMatrix().Data)
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sample bilinearly interpolates the read buffer at normalized
// coordinates (u, v) in [0,1]x[0,1]. Positions outside the domain clamp
// to the nearest edge cell - sampling never wraps to the opposite side.
func (g *GridField) Sample(ch int, u, v float64) float64 {
	var (
		data   = g.read[ch].RawMatrix().Data
		stride = g.Nx
	)
	xf := clampF(u, 0, 1)*float64(g.Nx) - 0.5
	yf := clampF(v, 0, 1)*float64(g.Ny) - 0.5
	x0f := math.Floor(xf)
	y0f := math.Floor(yf)
	tx := xf - x0f
	ty := yf - y0f
	x0 := clampI(int(x0f), 0, g.Nx-1)
	x1 := clampI(int(x0f)+1, 0, g.Nx-1)
	y0 := clampI(int(y0f), 0, g.Ny-1)
	y1 := clampI(int(y0f)+1, 0, g.Ny-1)

	sx := 1 - tx
	sy := 1 - ty
	return sx*sy*data[y0*stride+x0] +
		tx*sy*data[y0*stride+x1] +
		tx*ty*data[y1*stride+x1] +
		sx*ty*data[y1*stride+x0]
}

// CellCenterUV returns the normalized coordinates of the center of cell
// (x, y).
func (g *GridField) CellCenterUV(x, y int) (u, v float64) {
	u = (float64(x) + 0.5) / float64(g.Nx)
	v = (float64(y) + 0.5) / float64(g.Ny)
	return
}

// MeanAbs returns the mean absolute value of the read buffer, used by
// the divergence diagnostics.
func (g *GridField) MeanAbs(ch int) float64 {
	data := g.read[ch].RawMatrix().Data
	return floats.Norm(data, 1) / float64(len(data))
}

// MaxAbs returns the largest absolute sample in the read buffer.
func (g *GridField) MaxAbs(ch int) (m float64) {
	for _, v := range g.read[ch].RawMatrix().Data {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return
}

// MaxMagnitude returns the largest vector magnitude of a 2-channel
// field's read buffer.
func (g *GridField) MaxMagnitude() (m float64) {
	var (
		u = g.read[ChU].RawMatrix().Data
		v = g.read[ChV].RawMatrix().Data
	)
	for i := range u {
		if mag := math.Hypot(u[i], v[i]); mag > m {
			m = mag
		}
	}
	return
}

// MinMax returns the range of the read buffer, used to scale the
// grayscale and legend output.
func (g *GridField) MinMax(ch int) (lo, hi float64) {
	data := g.read[ch].RawMatrix().Data
	return floats.Min(data), floats.Max(data)
}

// Equal reports whether both fields hold identical read-buffer contents.
func (g *GridField) Equal(o *GridField) bool {
	if g.Nx != o.Nx || g.Ny != o.Ny || g.Channels != o.Channels {
		return false
	}
	for ch := 0; ch < g.Channels; ch++ {
		if !mat.Equal(g.read[ch], o.read[ch]) {
			return false
		}
	}
	return true
}
