package Fluid2D

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

/*
	The obstacle pattern is a columns x rows grid of rotated rectangular
	"chevrons". The rotation angle alternates sign by column parity and
	columns can be pushed apart symmetrically by a gap offset. The
	pattern is rasterized once into a binary mask whenever its parameters
	change; boundary enforcement, the pressure stencils and the overlay
	renderer all consume that one mask rather than re-deriving the
	geometry independently.
*/
type ChevronParams struct {
	Enabled       bool
	Columns, Rows int
	Length, Width float64 // rectangle dimensions in normalized units
	AngleDeg      float64 // rotation of each rectangle
	AlternateSign bool    // flip the rotation sign on odd columns
	GapOffset     float64 // symmetric horizontal shift away from center
	Spacing       float64 // distance between rectangle centers
}

func DefaultChevronParams() ChevronParams {
	return ChevronParams{
		Enabled:       false,
		Columns:       3,
		Rows:          4,
		Length:        0.12,
		Width:         0.02,
		AngleDeg:      45,
		AlternateSign: true,
		GapOffset:     0.05,
		Spacing:       0.22,
	}
}

type chevronRect struct {
	cx, cy   float64
	sin, cos float64
	halfL    float64
	halfW    float64
}

// ObstacleMask owns the rasterized binary mask: 1 inside any rectangle,
// 0 in fluid. Cells are either fully obstacle or fully fluid - there is
// no partial occupancy.
type ObstacleMask struct {
	Nx, Ny int
	Params ChevronParams
	field  *mat.Dense
	rects  []chevronRect
}

func NewObstacleMask(Nx, Ny int, params ChevronParams) (om *ObstacleMask) {
	om = &ObstacleMask{
		Nx:    Nx,
		Ny:    Ny,
		field: mat.NewDense(Ny, Nx, nil),
	}
	om.Regenerate(params)
	return
}

func buildChevronRects(p ChevronParams) (rects []chevronRect) {
	if !p.Enabled {
		return
	}
	var (
		colMid = float64(p.Columns-1) / 2
		rowMid = float64(p.Rows-1) / 2
	)
	for col := 0; col < p.Columns; col++ {
		angle := p.AngleDeg * math.Pi / 180
		if p.AlternateSign && col%2 == 1 {
			angle = -angle
		}
		cx := 0.5 + (float64(col)-colMid)*p.Spacing
		// Push columns symmetrically away from the vertical centerline
		switch {
		case float64(col) < colMid:
			cx -= p.GapOffset
		case float64(col) > colMid:
			cx += p.GapOffset
		}
		for row := 0; row < p.Rows; row++ {
			cy := 0.5 + (float64(row)-rowMid)*p.Spacing
			rects = append(rects, chevronRect{
				cx:    cx,
				cy:    cy,
				sin:   math.Sin(angle),
				cos:   math.Cos(angle),
				halfL: p.Length / 2,
				halfW: p.Width / 2,
			})
		}
	}
	return
}

// contains performs the exact point-in-rotated-rectangle test: translate
// to rectangle-local axes, rotate by the negative angle, compare against
// the half extents.
func (r chevronRect) contains(u, v float64) bool {
	var (
		dx = u - r.cx
		dy = v - r.cy
		lx = dx*r.cos + dy*r.sin
		ly = -dx*r.sin + dy*r.cos
	)
	return math.Abs(lx) <= r.halfL && math.Abs(ly) <= r.halfW
}

// signedDistance is the rotated-box SDF, negative inside. Used only by
// the visualization overlay for antialiased fill and border.
func (r chevronRect) signedDistance(u, v float64) float64 {
	var (
		dx = u - r.cx
		dy = v - r.cy
		lx = dx*r.cos + dy*r.sin
		ly = -dx*r.sin + dy*r.cos
		qx = math.Abs(lx) - r.halfL
		qy = math.Abs(ly) - r.halfW
	)
	ox := math.Max(qx, 0)
	oy := math.Max(qy, 0)
	return math.Hypot(ox, oy) + math.Min(math.Max(qx, qy), 0)
}

// Contains reports whether the normalized point lies inside any
// configured rectangle. Repeated identical queries are consistent.
func (om *ObstacleMask) Contains(u, v float64) bool {
	for _, r := range om.rects {
		if r.contains(u, v) {
			return true
		}
	}
	return false
}

// SignedDistance returns the distance to the nearest rectangle surface,
// negative inside, +Inf when the pattern is disabled.
func (om *ObstacleMask) SignedDistance(u, v float64) float64 {
	d := math.Inf(1)
	for _, r := range om.rects {
		if sd := r.signedDistance(u, v); sd < d {
			d = sd
		}
	}
	return d
}

// Regenerate rasterizes the pattern for the given parameters. The mask
// is treated as read-only by every downstream stage within a step.
func (om *ObstacleMask) Regenerate(params ChevronParams) {
	om.Params = params
	om.rects = buildChevronRects(params)
	var (
		data = om.field.RawMatrix().Data
	)
	if len(om.rects) == 0 {
		for i := range data {
			data[i] = 0
		}
		return
	}
	for y := 0; y < om.Ny; y++ {
		v := (float64(y) + 0.5) / float64(om.Ny)
		for x := 0; x < om.Nx; x++ {
			u := (float64(x) + 0.5) / float64(om.Nx)
			if om.Contains(u, v) {
				data[y*om.Nx+x] = 1
			} else {
				data[y*om.Nx+x] = 0
			}
		}
	}
}

// Solid reports whether cell (x, y) is obstacle interior. Out-of-domain
// queries report fluid so that edge handling stays with the domain-edge
// mask.
func (om *ObstacleMask) Solid(x, y int) bool {
	if x < 0 || x >= om.Nx || y < 0 || y >= om.Ny {
		return false
	}
	return om.field.RawMatrix().Data[y*om.Nx+x] != 0
}

func (om *ObstacleMask) Data() []float64 { return om.field.RawMatrix().Data }
