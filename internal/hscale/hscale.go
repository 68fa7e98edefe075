// Package hscale implements the horizontal (width) scale pass: converting
// one raw input scanline into one linear-space float row of the output
// width, in a single forward sweep with no backtracking.
package hscale

import (
	"github.com/deepteams/imgscale/colorspace"
	"github.com/deepteams/imgscale/internal/gamma"
)

// shiftLeft shifts a 4-slot rolling accumulator left, zeroing the new
// rightmost slot. Used after an output sample has been emitted from slot 0.
func shiftLeft(f *[4]float32) {
	f[0], f[1], f[2] = f[1], f[2], f[3]
	f[3] = 0
}

// push shifts a 4-slot rolling sample window left and appends val.
func push(f *[4]float32, val float32) {
	f[0], f[1], f[2], f[3] = f[1], f[2], f[3], val
}

func addSample(sample float32, coeffs []float32, sum *[4]float32) {
	sum[0] += sample * coeffs[0]
	sum[1] += sample * coeffs[1]
	sum[2] += sample * coeffs[2]
	sum[3] += sample * coeffs[3]
}

// Down performs the downscale horizontal pass: in is one raw scanline
// (dimIn*C bytes), out receives dimOut*C linear floats. coeffs/borders
// come from the planned coefficient table for this axis (4*dimIn
// coefficients, dimOut borders).
func Down(cs colorspace.ColorSpace, in []byte, out []float32, coeffs []float32, borders []int) {
	switch cs {
	case colorspace.G:
		downG(in, out, coeffs, borders)
	case colorspace.CMYK:
		downCMYK(in, out, coeffs, borders)
	case colorspace.GA:
		downGA(in, out, coeffs, borders)
	case colorspace.RGB:
		downRGB(in, out, coeffs, borders, 3)
	case colorspace.RGBX:
		downRGB(in, out, coeffs, borders, 4)
	case colorspace.RGBA:
		downRGBA(in, out, coeffs, borders)
	}
}

func downG(in []byte, out []float32, coeffs []float32, borders []int) {
	var sum [4]float32
	ii, oi, ci := 0, 0, 0
	for _, n := range borders {
		for j := 0; j < n; j++ {
			addSample(gamma.ByteToFloat(in[ii]), coeffs[ci:ci+4], &sum)
			ii++
			ci += 4
		}
		out[oi] = sum[0]
		shiftLeft(&sum)
		oi++
	}
}

func downCMYK(in []byte, out []float32, coeffs []float32, borders []int) {
	var sum [4][4]float32
	ii, oi, ci := 0, 0, 0
	for _, n := range borders {
		for j := 0; j < n; j++ {
			for k := 0; k < 4; k++ {
				addSample(gamma.ByteToFloat(in[ii+k]), coeffs[ci:ci+4], &sum[k])
			}
			ii += 4
			ci += 4
		}
		for k := 0; k < 4; k++ {
			out[oi+k] = sum[k][0]
			shiftLeft(&sum[k])
		}
		oi += 4
	}
}

// downRGB handles both RGB (stride 3) and RGBX (stride 4, 4th byte
// ignored and left as zero in the intermediate row).
func downRGB(in []byte, out []float32, coeffs []float32, borders []int, stride int) {
	var sum [3][4]float32
	ii, oi, ci := 0, 0, 0
	for _, n := range borders {
		for j := 0; j < n; j++ {
			for k := 0; k < 3; k++ {
				addSample(float32(gamma.ToLinear(in[ii+k])), coeffs[ci:ci+4], &sum[k])
			}
			ii += stride
			ci += 4
		}
		for k := 0; k < 3; k++ {
			out[oi+k] = sum[k][0]
			shiftLeft(&sum[k])
		}
		oi += stride
	}
}

func downRGBA(in []byte, out []float32, coeffs []float32, borders []int) {
	var sum [4][4]float32
	ii, oi, ci := 0, 0, 0
	for _, n := range borders {
		for j := 0; j < n; j++ {
			alpha := gamma.ByteToFloat(in[ii+3])
			for k := 0; k < 3; k++ {
				addSample(float32(gamma.ToLinear(in[ii+k]))*alpha, coeffs[ci:ci+4], &sum[k])
			}
			addSample(alpha, coeffs[ci:ci+4], &sum[3])
			ii += 4
			ci += 4
		}
		for k := 0; k < 4; k++ {
			out[oi+k] = sum[k][0]
			shiftLeft(&sum[k])
		}
		oi += 4
	}
}

func downGA(in []byte, out []float32, coeffs []float32, borders []int) {
	var sum [2][4]float32
	ii, oi, ci := 0, 0, 0
	for _, n := range borders {
		for j := 0; j < n; j++ {
			alpha := gamma.ByteToFloat(in[ii+1])
			addSample(gamma.ByteToFloat(in[ii])*alpha, coeffs[ci:ci+4], &sum[0])
			addSample(alpha, coeffs[ci:ci+4], &sum[1])
			ii += 2
			ci += 4
		}
		out[oi] = sum[0][0]
		shiftLeft(&sum[0])
		out[oi+1] = sum[1][0]
		shiftLeft(&sum[1])
		oi += 2
	}
}

// Up performs the upscale horizontal pass: in is one raw scanline
// (dimIn*C bytes), out receives dimOut*C linear floats. coeffs has 4
// entries per output sample; borders has dimIn entries, giving the
// number of output samples ready after each input sample is consumed.
func Up(cs colorspace.ColorSpace, in []byte, dimIn int, out []float32, coeffs []float32, borders []int) {
	switch cs {
	case colorspace.G:
		upG(in, dimIn, out, coeffs, borders)
	case colorspace.CMYK:
		upCMYK(in, dimIn, out, coeffs, borders)
	case colorspace.GA:
		upGA(in, dimIn, out, coeffs, borders)
	case colorspace.RGB:
		upRGB(in, dimIn, out, coeffs, borders, 3)
	case colorspace.RGBX:
		upRGB(in, dimIn, out, coeffs, borders, 4)
	case colorspace.RGBA:
		upRGBA(in, dimIn, out, coeffs, borders)
	}
}

func reduce(win *[4]float32, coeffs []float32) float32 {
	return win[0]*coeffs[0] + win[1]*coeffs[1] + win[2]*coeffs[2] + win[3]*coeffs[3]
}

func upG(in []byte, dimIn int, out []float32, coeffs []float32, borders []int) {
	var win [4]float32
	oi, ci := 0, 0
	for i := 0; i < dimIn; i++ {
		push(&win, gamma.ByteToFloat(in[i]))
		for j := 0; j < borders[i]; j++ {
			out[oi] = reduce(&win, coeffs[ci:ci+4])
			oi++
			ci += 4
		}
	}
}

func upCMYK(in []byte, dimIn int, out []float32, coeffs []float32, borders []int) {
	var win [4][4]float32
	ii, oi, ci := 0, 0, 0
	for i := 0; i < dimIn; i++ {
		for k := 0; k < 4; k++ {
			push(&win[k], gamma.ByteToFloat(in[ii+k]))
		}
		for j := 0; j < borders[i]; j++ {
			for k := 0; k < 4; k++ {
				out[oi+k] = reduce(&win[k], coeffs[ci:ci+4])
			}
			oi += 4
			ci += 4
		}
		ii += 4
	}
}

func upRGB(in []byte, dimIn int, out []float32, coeffs []float32, borders []int, stride int) {
	var win [3][4]float32
	ii, oi, ci := 0, 0, 0
	for i := 0; i < dimIn; i++ {
		for k := 0; k < 3; k++ {
			push(&win[k], float32(gamma.ToLinear(in[ii+k])))
		}
		for j := 0; j < borders[i]; j++ {
			for k := 0; k < 3; k++ {
				out[oi+k] = reduce(&win[k], coeffs[ci:ci+4])
			}
			oi += stride
			ci += 4
		}
		ii += stride
	}
}

func upRGBA(in []byte, dimIn int, out []float32, coeffs []float32, borders []int) {
	var win [4][4]float32
	ii, oi, ci := 0, 0, 0
	for i := 0; i < dimIn; i++ {
		push(&win[3], gamma.ByteToFloat(in[ii+3]))
		alpha := win[3][3]
		for k := 0; k < 3; k++ {
			push(&win[k], alpha*float32(gamma.ToLinear(in[ii+k])))
		}
		for j := 0; j < borders[i]; j++ {
			for k := 0; k < 4; k++ {
				out[oi+k] = reduce(&win[k], coeffs[ci:ci+4])
			}
			oi += 4
			ci += 4
		}
		ii += 4
	}
}

func upGA(in []byte, dimIn int, out []float32, coeffs []float32, borders []int) {
	var win [2][4]float32
	ii, oi, ci := 0, 0, 0
	for i := 0; i < dimIn; i++ {
		push(&win[1], gamma.ByteToFloat(in[ii+1]))
		push(&win[0], win[1][3]*gamma.ByteToFloat(in[ii]))
		for j := 0; j < borders[i]; j++ {
			out[oi] = reduce(&win[0], coeffs[ci:ci+4])
			out[oi+1] = reduce(&win[1], coeffs[ci:ci+4])
			oi += 2
			ci += 4
		}
		ii += 2
	}
}
