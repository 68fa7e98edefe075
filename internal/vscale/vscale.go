// Package vscale implements the vertical (height) scale pass: combining
// the horizontally-scaled rows held in the ring buffer into one output
// byte scanline, including the color-space-specific unpremultiply and
// gamma post-processing from the output formulas.
package vscale

import (
	"math"

	"github.com/deepteams/imgscale/colorspace"
	"github.com/deepteams/imgscale/internal/gamma"
)

func clampf(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < 0 {
		return 0
	}
	return x
}

func clamp8(x float32) byte {
	return byte(math.Round(float64(clampf(x)) * 255))
}

func shiftLeft(s []float32) {
	s[0], s[1], s[2] = s[1], s[2], s[3]
	s[3] = 0
}

func addSample(sample float32, coeffs []float32, s []float32) {
	s[0] += sample * coeffs[0]
	s[1] += sample * coeffs[1]
	s[2] += sample * coeffs[2]
	s[3] += sample * coeffs[3]
}

// channels returns the number of distinct accumulator channels needed
// for cs: the component count, except RGBX which tracks only its 3 live
// color channels (the 4th byte is fixed padding, never accumulated).
func channels(cs colorspace.ColorSpace) int {
	if cs == colorspace.RGBX {
		return 3
	}
	return cs.Components()
}

// Downscaler accumulates rolling contributions for a downscale vertical
// pass. Its sums buffer persists across Scale calls the same way the
// horizontal pass's rolling accumulator persists across a scanline: each
// input row contributes to up to 4 pending output rows, so the partial
// sums for not-yet-complete output rows must survive until their turn.
type Downscaler struct {
	cs       colorspace.ColorSpace
	outWidth int
	sums     []float32 // outWidth * channels(cs) * 4
}

// NewDownscaler allocates a zeroed accumulator for a downscale vertical
// pass producing rows of outWidth pixels in color space cs.
func NewDownscaler(cs colorspace.ColorSpace, outWidth int) *Downscaler {
	return &Downscaler{
		cs:       cs,
		outWidth: outWidth,
		sums:     make([]float32, outWidth*channels(cs)*4),
	}
}

// Scale consumes the rowsInRB rows currently buffered (each a linear
// float row of length outWidth*stride produced by the horizontal pass),
// weighted by their corresponding 4 coefficients in coeffsForRows
// (rowsInRB*4 floats, one group per row, in buffer order), and writes one
// output byte scanline.
func (d *Downscaler) Scale(rows [][]float32, coeffsForRows []float32, out []byte) {
	switch d.cs {
	case colorspace.G, colorspace.CMYK:
		d.scaleFlat(rows, coeffsForRows, out, d.cs.Components())
	case colorspace.GA:
		d.scaleGA(rows, coeffsForRows, out)
	case colorspace.RGB:
		d.scaleRGB(rows, coeffsForRows, out, 3)
	case colorspace.RGBX:
		d.scaleRGB(rows, coeffsForRows, out, 4)
	case colorspace.RGBA:
		d.scaleRGBA(rows, coeffsForRows, out)
	}
}

// scaleFlat handles G and CMYK: every byte is treated identically, clamped
// to [0,1] and quantized, with no gamma or alpha handling.
func (d *Downscaler) scaleFlat(rows [][]float32, coeffsForRows []float32, out []byte, stride int) {
	n := d.outWidth * stride
	for idx := 0; idx < n; idx++ {
		base := idx * 4
		s := d.sums[base : base+4]
		for r, row := range rows {
			addSample(row[idx], coeffsForRows[r*4:r*4+4], s)
		}
		out[idx] = clamp8(s[0])
		shiftLeft(s)
	}
}

func (d *Downscaler) scaleGA(rows [][]float32, coeffsForRows []float32, out []byte) {
	for p := 0; p < d.outWidth; p++ {
		pixel := p * 2
		base := p * 8
		color, alphaS := d.sums[base:base+4], d.sums[base+4:base+8]
		for r, row := range rows {
			c := coeffsForRows[r*4 : r*4+4]
			addSample(row[pixel], c, color)
			addSample(row[pixel+1], c, alphaS)
		}
		alpha := clampf(alphaS[0])
		g := color[0]
		if alpha != 0 {
			g /= alpha
		}
		out[pixel] = clamp8(g)
		out[pixel+1] = byte(math.Round(float64(alpha) * 255))
		shiftLeft(color)
		shiftLeft(alphaS)
	}
}

// scaleRGB handles RGB and RGBX: three color channels, sRGB-encoded on
// output. stride is the per-pixel byte width (3 or 4); the 4th RGBX byte
// is zeroed.
func (d *Downscaler) scaleRGB(rows [][]float32, coeffsForRows []float32, out []byte, stride int) {
	for p := 0; p < d.outWidth; p++ {
		pixel := p * stride
		base := p * 12
		for k := 0; k < 3; k++ {
			s := d.sums[base+k*4 : base+k*4+4]
			for r, row := range rows {
				addSample(row[pixel+k], coeffsForRows[r*4:r*4+4], s)
			}
			out[pixel+k] = gamma.FromLinear(s[0])
			shiftLeft(s)
		}
		if stride == 4 {
			out[pixel+3] = 0
		}
	}
}

func (d *Downscaler) scaleRGBA(rows [][]float32, coeffsForRows []float32, out []byte) {
	for p := 0; p < d.outWidth; p++ {
		pixel := p * 4
		base := p * 16
		for k := 0; k < 4; k++ {
			s := d.sums[base+k*4 : base+k*4+4]
			for r, row := range rows {
				addSample(row[pixel+k], coeffsForRows[r*4:r*4+4], s)
			}
		}
		alpha := clampf(d.sums[base+12])
		if alpha != 0 {
			for k := 0; k < 3; k++ {
				d.sums[base+k*4] /= alpha
			}
		}
		for k := 0; k < 3; k++ {
			out[pixel+k] = gamma.FromLinear(clampf(d.sums[base+k*4]))
			shiftLeft(d.sums[base+k*4 : base+k*4+4])
		}
		out[pixel+3] = byte(math.Round(float64(alpha) * 255))
		shiftLeft(d.sums[base+12 : base+16])
	}
}

// Up performs the upscale vertical pass. rows holds exactly 4 buffered
// horizontally-scaled rows (the sliding window over input rows), coeffs
// holds the 4 weights for the current output row, and out receives one
// output byte scanline.
func Up(cs colorspace.ColorSpace, rows [4][]float32, coeffs []float32, out []byte) {
	switch cs {
	case colorspace.G, colorspace.CMYK:
		upFlat(rows, coeffs, out)
	case colorspace.GA:
		upGA(rows, coeffs, out)
	case colorspace.RGB:
		upRGB(rows, coeffs, out)
	case colorspace.RGBX:
		upRGBX(rows, coeffs, out)
	case colorspace.RGBA:
		upRGBA(rows, coeffs, out)
	}
}

func dot4(rows [4][]float32, idx int, coeffs []float32) float32 {
	return rows[0][idx]*coeffs[0] + rows[1][idx]*coeffs[1] + rows[2][idx]*coeffs[2] + rows[3][idx]*coeffs[3]
}

func upFlat(rows [4][]float32, coeffs []float32, out []byte) {
	for idx := range out {
		out[idx] = clamp8(dot4(rows, idx, coeffs))
	}
}

func upRGB(rows [4][]float32, coeffs []float32, out []byte) {
	for idx := range out {
		out[idx] = gamma.FromLinear(dot4(rows, idx, coeffs))
	}
}

func upRGBX(rows [4][]float32, coeffs []float32, out []byte) {
	for pixel := 0; pixel < len(out); pixel += 4 {
		for k := 0; k < 3; k++ {
			out[pixel+k] = gamma.FromLinear(dot4(rows, pixel+k, coeffs))
		}
		out[pixel+3] = 0
	}
}

func upRGBA(rows [4][]float32, coeffs []float32, out []byte) {
	var sums [4]float32
	for pixel := 0; pixel < len(out); pixel += 4 {
		for k := 0; k < 4; k++ {
			sums[k] = dot4(rows, pixel+k, coeffs)
		}
		alpha := clampf(sums[3])
		for k := 0; k < 3; k++ {
			v := sums[k]
			if alpha != 0 && alpha != 1 {
				v = clampf(v / alpha)
			}
			out[pixel+k] = gamma.FromLinear(v)
		}
		out[pixel+3] = byte(math.Round(float64(alpha) * 255))
	}
}

func upGA(rows [4][]float32, coeffs []float32, out []byte) {
	for pixel := 0; pixel < len(out); pixel += 2 {
		g := dot4(rows, pixel, coeffs)
		alpha := clampf(dot4(rows, pixel+1, coeffs))
		if alpha != 0 {
			g /= alpha
		}
		out[pixel] = clamp8(g)
		out[pixel+1] = byte(math.Round(float64(alpha) * 255))
	}
}
