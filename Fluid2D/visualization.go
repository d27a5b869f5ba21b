package Fluid2D

import (
	"fmt"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"
)

// VisMode selects the transfer function mapping field values to color.
type VisMode uint8

const (
	VisRaw VisMode = iota
	VisGrayscale
	VisSpectral
	VisLUT
)

// NewVisMode resolves the mode by name; unknown names fall back to raw
// pass-through.
func NewVisMode(name string) VisMode {
	switch name {
	case "grayscale", "luminance":
		return VisGrayscale
	case "spectral", "spectrum":
		return VisSpectral
	case "lut", "gradient":
		return VisLUT
	default:
		return VisRaw
	}
}

func (m VisMode) Print() string {
	return [...]string{"raw", "grayscale", "spectral", "lut"}[m]
}

// VisField selects which solver field is displayed.
type VisField uint8

const (
	ShowDye VisField = iota
	ShowPressure
	ShowVelocity
	ShowDivergence
)

func NewVisField(name string) VisField {
	switch name {
	case "pressure":
		return ShowPressure
	case "velocity", "speed":
		return ShowVelocity
	case "divergence":
		return ShowDivergence
	default:
		return ShowDye
	}
}

// VisParams is the per-frame rendering parameter set.
type VisParams struct {
	Mode          VisMode
	Field         VisField
	LambdaMin     float64 // nm, spectral mode low end
	LambdaMax     float64 // nm, spectral mode high end
	ShowObstacles bool
	ShowLegend    bool
}

func DefaultVisParams() VisParams {
	return VisParams{
		Mode:          VisRaw,
		Field:         ShowDye,
		LambdaMin:     440,
		LambdaMax:     680,
		ShowObstacles: true,
		ShowLegend:    true,
	}
}

const (
	lutSize = 256
	// antialias transition width for the obstacle overlay, in texels
	overlayAAWidth = 1.0

	legendX, legendY = 8, 8 // legend bar position in pixels
	legendW, legendH = 12, 128
)

var (
	obstacleFill   = color.RGBA{R: 64, G: 64, B: 72, A: 255}
	obstacleBorder = color.RGBA{R: 220, G: 220, B: 228, A: 255}
)

// VisualizationStage converts solver fields to a displayable RGBA
// buffer. It owns the LUT gradient and reuses its output image across
// frames. Purely an encoding concern: identical field values and
// parameters always produce the identical image.
type VisualizationStage struct {
	Nx, Ny int
	lut    [lutSize][3]float64
	img    *image.RGBA
}

func NewVisualizationStage(Nx, Ny int) (vs *VisualizationStage) {
	vs = &VisualizationStage{
		Nx:  Nx,
		Ny:  Ny,
		img: image.NewRGBA(image.Rect(0, 0, Nx, Ny)),
	}
	vs.SetGradient(defaultGradientStops())
	return
}

func defaultGradientStops() []color.RGBA {
	return []color.RGBA{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 16, G: 16, B: 160, A: 255},
		{R: 0, G: 180, B: 200, A: 255},
		{R: 40, G: 200, B: 60, A: 255},
		{R: 250, G: 220, B: 40, A: 255},
		{R: 240, G: 60, B: 30, A: 255},
		{R: 255, G: 255, B: 255, A: 255},
	}
}

// SetGradient rebuilds the lookup table from a strip of color stops,
// resampled to lutSize entries with bilinear filtering.
func (vs *VisualizationStage) SetGradient(stops []color.RGBA) {
	if len(stops) == 0 {
		stops = defaultGradientStops()
	}
	strip := image.NewRGBA(image.Rect(0, 0, len(stops), 1))
	for i, c := range stops {
		strip.SetRGBA(i, 0, c)
	}
	resampled := image.NewRGBA(image.Rect(0, 0, lutSize, 1))
	xdraw.BiLinear.Scale(resampled, resampled.Bounds(), strip, strip.Bounds(), xdraw.Src, nil)
	for i := 0; i < lutSize; i++ {
		c := resampled.RGBAAt(i, 0)
		vs.lut[i] = [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
	}
}

// luminance is the Rec.601 weighting used to collapse a color sample to
// the scalar the scientific modes index with.
func luminance(r, g, b float64) float64 {
	return 0.299*r + 0.587*g + 0.114*b
}

// fieldSample returns the 3-channel display value and its luminance for
// cell (x, y). lo/hi normalize the scalar fields into [0,1].
func fieldSample(p VisParams, dye, pressure, vel, div *GridField, x, y int, lo, hi float64) (r, g, b, lum float64) {
	norm := func(v float64) float64 {
		if hi-lo < 1e-12 {
			return 0
		}
		return clampF((v-lo)/(hi-lo), 0, 1)
	}
	switch p.Field {
	case ShowPressure:
		s := norm(pressure.At(0, x, y))
		return s, s, s, s
	case ShowVelocity:
		s := norm(math.Hypot(vel.At(ChU, x, y), vel.At(ChV, x, y)))
		return s, s, s, s
	case ShowDivergence:
		s := norm(div.At(0, x, y))
		return s, s, s, s
	default:
		r = dye.At(ChR, x, y)
		g = dye.At(ChG, x, y)
		b = dye.At(ChB, x, y)
		return r, g, b, luminance(r, g, b)
	}
}

// fieldRange returns the normalization range for the selected field.
// Dye is intentionally not clamped to [0,1] at the solver level, so raw
// mode can over-range on purpose; the scalar modes normalize.
func fieldRange(p VisParams, pressure, vel, div *GridField) (lo, hi float64) {
	switch p.Field {
	case ShowPressure:
		return pressure.MinMax(0)
	case ShowVelocity:
		return 0, math.Max(vel.MaxMagnitude(), 1e-12)
	case ShowDivergence:
		return div.MinMax(0)
	default:
		return 0, 1
	}
}

// spectralRGB approximates the visible-spectrum response for a
// wavelength in nanometers with the fixed piecewise-polynomial fit used
// throughout; out-of-range wavelengths fade to black.
func spectralRGB(lambda float64) (r, g, b float64) {
	switch {
	case lambda >= 380 && lambda < 440:
		r = -(lambda - 440) / (440 - 380)
		b = 1
	case lambda >= 440 && lambda < 490:
		g = (lambda - 440) / (490 - 440)
		b = 1
	case lambda >= 490 && lambda < 510:
		g = 1
		b = -(lambda - 510) / (510 - 490)
	case lambda >= 510 && lambda < 580:
		r = (lambda - 510) / (580 - 510)
		g = 1
	case lambda >= 580 && lambda < 645:
		r = 1
		g = -(lambda - 645) / (645 - 580)
	case lambda >= 645 && lambda <= 780:
		r = 1
	}
	// Intensity rolloff toward the spectrum ends
	var falloff float64 = 1
	switch {
	case lambda >= 380 && lambda < 420:
		falloff = 0.3 + 0.7*(lambda-380)/(420-380)
	case lambda > 700 && lambda <= 780:
		falloff = 0.3 + 0.7*(780-lambda)/(780-700)
	case lambda < 380 || lambda > 780:
		falloff = 0
	}
	const gamma = 0.8
	r = math.Pow(r*falloff, gamma)
	g = math.Pow(g*falloff, gamma)
	b = math.Pow(b*falloff, gamma)
	return
}

// applyTransfer maps a sampled value through the selected mode.
func (vs *VisualizationStage) applyTransfer(p VisParams, r, g, b, lum float64) (or, og, ob float64) {
	switch p.Mode {
	case VisGrayscale:
		l := clampF(lum, 0, 1)
		return l, l, l
	case VisSpectral:
		lambda := p.LambdaMin + clampF(lum, 0, 1)*(p.LambdaMax-p.LambdaMin)
		return spectralRGB(lambda)
	case VisLUT:
		idx := clampI(int(clampF(lum, 0, 1)*(lutSize-1)+0.5), 0, lutSize-1)
		c := vs.lut[idx]
		return c[0], c[1], c[2]
	default:
		return r, g, b
	}
}

// smoothstepCoverage converts a signed distance (in texels) to an
// antialiased coverage value in [0, 1].
func smoothstepCoverage(sdfTexels float64) float64 {
	t := clampF(0.5-sdfTexels/overlayAAWidth, 0, 1)
	return t * t * (3 - 2*t)
}

// Render produces the frame for the current read buffers. The returned
// image is owned by the stage and valid until the next Render call.
func (vs *VisualizationStage) Render(p VisParams, dye, pressure, vel, div *GridField, om *ObstacleMask) *image.RGBA {
	lo, hi := fieldRange(p, pressure, vel, div)
	texel := 1.0 / float64(vs.Nx)
	for y := 0; y < vs.Ny; y++ {
		// image rows run top-down, field rows bottom-up
		fy := vs.Ny - 1 - y
		for x := 0; x < vs.Nx; x++ {
			r, g, b, lum := fieldSample(p, dye, pressure, vel, div, x, fy, lo, hi)
			or, og, ob := vs.applyTransfer(p, r, g, b, lum)

			if p.ShowObstacles && om.Params.Enabled {
				u := (float64(x) + 0.5) / float64(vs.Nx)
				v := (float64(fy) + 0.5) / float64(vs.Ny)
				sd := om.SignedDistance(u, v) / texel
				if fill := smoothstepCoverage(sd); fill > 0 {
					or = mix(or, float64(obstacleFill.R)/255, fill)
					og = mix(og, float64(obstacleFill.G)/255, fill)
					ob = mix(ob, float64(obstacleFill.B)/255, fill)
				}
				// border band straddles the surface
				if border := smoothstepCoverage(math.Abs(sd) - 1); border > 0 {
					or = mix(or, float64(obstacleBorder.R)/255, border)
					og = mix(og, float64(obstacleBorder.G)/255, border)
					ob = mix(ob, float64(obstacleBorder.B)/255, border)
				}
			}

			vs.img.SetRGBA(x, y, color.RGBA{
				R: uint8(clampF(or, 0, 1)*255 + 0.5),
				G: uint8(clampF(og, 0, 1)*255 + 0.5),
				B: uint8(clampF(ob, 0, 1)*255 + 0.5),
				A: 255,
			})
		}
	}
	if p.ShowLegend && (p.Mode == VisSpectral || p.Mode == VisLUT) {
		vs.drawLegend(p)
	}
	return vs.img
}

// drawLegend paints the fixed-position color key: a vertical bar
// sweeping the transfer range, with white low/high tick markers.
func (vs *VisualizationStage) drawLegend(p VisParams) {
	if vs.Nx < legendX+legendW+4 || vs.Ny < legendY+legendH+4 {
		return
	}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for j := 0; j < legendH; j++ {
		lum := 1 - float64(j)/float64(legendH-1) // high at the top
		r, g, b := vs.applyTransfer(p, lum, lum, lum, lum)
		for i := 0; i < legendW; i++ {
			vs.img.SetRGBA(legendX+i, legendY+j, color.RGBA{
				R: uint8(clampF(r, 0, 1)*255 + 0.5),
				G: uint8(clampF(g, 0, 1)*255 + 0.5),
				B: uint8(clampF(b, 0, 1)*255 + 0.5),
				A: 255,
			})
		}
	}
	// low/high markers
	for i := 0; i < legendW+4; i++ {
		vs.img.SetRGBA(legendX+i, legendY-1, white)
		vs.img.SetRGBA(legendX+i, legendY+legendH, white)
	}
}

func mix(a, b, t float64) float64 { return a + (b-a)*t }

func (p VisParams) String() string {
	return fmt.Sprintf("mode=%s field=%d lambda=[%g..%g]", p.Mode.Print(), p.Field, p.LambdaMin, p.LambdaMax)
}
