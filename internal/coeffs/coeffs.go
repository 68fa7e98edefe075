// Package coeffs precomputes per-axis Catmull-Rom resampling coefficients
// and border counters for one dimension (width or height) of a scale
// operation. All transcendental math happens here, once, at scaler
// init; the hot per-row scale path that consumes these tables does only
// multiply-adds and table lookups.
package coeffs

import "math"

// taps is the bicubic interpolator's base tap count: two samples on
// either side of the interpolated point.
const taps = 4

// Taps returns the number of input samples that contribute to one output
// sample along an axis mapping dimIn -> dimOut.
//
// Upscaling always uses the base tap count. Downscaling widens the
// kernel in proportion to the downscale ratio (the tap count
// 4*dimIn/dimOut is rounded down to an even integer) so the resampling
// function doesn't alias; the widened tap count is used both to pick
// neighboring samples and to rescale the kernel's argument.
func Taps(dimIn, dimOut int) int {
	if dimOut > dimIn {
		return taps
	}
	t := taps * dimIn / dimOut
	return t - (t & 1)
}

// catrom evaluates the Catmull-Rom kernel at |x| >= 0.
func catrom(x float32) float32 {
	if x < 1 {
		return (1.5*x-2.5)*x*x + 1
	}
	if x > 2 {
		return 0
	}
	return (((5-x)*x-8)*x + 4) / 2
}

// mapCoord maps discrete output index pos to a continuous source
// coordinate in axis dimIn -> dimOut.
func mapCoord(dimIn, dimOut, pos int) float64 {
	return (float64(pos)+0.5)*(float64(dimIn)/float64(dimOut)) - 0.5
}

// splitMap returns the integer part (floored) of the mapped coordinate
// and stores the fractional remainder in rest.
func splitMap(dimIn, dimOut, pos int, rest *float32) int {
	smp := mapCoord(dimIn, dimOut, pos)
	smpI := int(smp)
	if smp < 0 {
		smpI = -1
	}
	*rest = float32(smp - float64(smpI))
	return smpI
}

// calcCoeffs fills tmp[ltrim:nTaps-rtrim] with normalized Catmull-Rom
// weights for a sample whose fractional offset from center is tx, using
// a kernel of nTaps taps (which may be wider than the base 4 when
// downscaling).
func calcCoeffs(tmp []float32, tx float32, nTaps, ltrim, rtrim int) {
	tapMult := float32(nTaps) / taps
	x := 1 - tx - float32(nTaps/2) + float32(ltrim)
	var fudge float32
	for i := ltrim; i < nTaps-rtrim; i++ {
		v := catrom(float32(math.Abs(float64(x))/float64(tapMult))) / tapMult
		fudge += v
		tmp[i] = v
		x++
	}
	fudge = 1 / fudge
	for i := ltrim; i < nTaps-rtrim; i++ {
		tmp[i] *= fudge
	}
}

// Table holds the planned coefficients and border counters for one axis.
// Downscale (DimOut <= DimIn): Coeffs has 4*DimIn entries (4 per input
// sample) and Borders has DimOut entries (input samples consumed per
// output sample). Upscale (DimOut > DimIn): Coeffs has 4*DimOut entries
// (4 per output sample) and Borders has DimIn entries (output samples
// produced per input sample).
type Table struct {
	DimIn, DimOut int
	Downscale     bool
	Taps          int
	Coeffs        []float32
	Borders       []int
}

// Plan computes the coefficient and border tables for one axis mapping
// dimIn input samples to dimOut output samples.
func Plan(dimIn, dimOut int) *Table {
	t := &Table{DimIn: dimIn, DimOut: dimOut, Taps: Taps(dimIn, dimOut)}
	if dimOut <= dimIn {
		t.Downscale = true
		t.Coeffs = make([]float32, 4*dimIn)
		t.Borders = make([]int, dimOut)
		tmp := make([]float32, t.Taps)
		planDownscale(dimIn, dimOut, t.Taps, t.Coeffs, t.Borders, tmp)
	} else {
		t.Coeffs = make([]float32, 4*dimOut)
		t.Borders = make([]int, dimIn)
		planUpscale(dimIn, dimOut, t.Coeffs, t.Borders)
	}
	return t
}

// planDownscale fills coeffBuf (4 coefficient slots per input sample) and
// borderBuf (DimOut entries: input samples consumed per output sample).
//
// Each output sample's tap window is trimmed at the source edges;
// in-range taps are scattered into coeffBuf at the slot corresponding to
// their position in a sliding 4-wide rotation, tracked via ends/ltrim so
// consecutive output samples' windows can overlap correctly.
func planDownscale(dimIn, dimOut, taps int, coeffBuf []float32, borderBuf []int, tmp []float32) {
	var ends [4]int
	for i := range ends {
		ends[i] = -1
	}

	for i := 0; i < dimOut; i++ {
		var tx float32
		smpI := splitMap(dimIn, dimOut, i, &tx)

		smpStart := smpI - (taps/2 - 1)
		smpEnd := smpI + taps/2
		if smpEnd >= dimIn {
			smpEnd = dimIn - 1
		}
		ends[i%4] = smpEnd
		borderBuf[i] = smpEnd - ends[(i+3)%4]

		ltrim := 0
		if smpStart < 0 {
			ltrim = -smpStart
		}
		rtrim := smpStart + (taps - 1) - smpEnd
		calcCoeffs(tmp, tx, taps, ltrim, rtrim)

		for j := ltrim; j < taps-rtrim; j++ {
			pos := smpStart + j

			offset := 3
			if pos > ends[(i+3)%4] {
				offset = 0
			} else if pos > ends[(i+2)%4] {
				offset = 1
			} else if pos > ends[(i+1)%4] {
				offset = 2
			}

			coeffBuf[pos*4+offset] = tmp[j]
		}
	}
}

// planUpscale fills coeffBuf (4 coefficients per output sample) and
// borderBuf (DimIn entries: output samples ready after each input
// sample is ingested).
func planUpscale(dimIn, dimOut int, coeffBuf []float32, borderBuf []int) {
	maxPos := dimIn - 1
	pos := 0
	for i := 0; i < dimOut; i++ {
		var tx float32
		smpI := splitMap(dimIn, dimOut, i, &tx)
		start := smpI - 1
		end := smpI + 2

		safeEnd := end
		if safeEnd > maxPos {
			safeEnd = maxPos
		}

		ltrim, rtrim := 0, 0
		if start < 0 {
			ltrim = -start
		}
		if end > maxPos {
			rtrim = end - maxPos
		}

		borderBuf[safeEnd]++

		// calc_coeffs writes into coeffs[i] for i in [ltrim, taps-rtrim); the
		// interpolator keeps no more than 4 buffered input samples, so the
		// write target is offset by rtrim within this sample's coefficient
		// group (the trailing rtrim slots are never multiplied against).
		calcCoeffs(coeffBuf[pos+rtrim:pos+taps], tx, taps, ltrim, rtrim)
		pos += taps
	}
}
