package imgscale

import (
	"github.com/deepteams/imgscale/colorspace"
	"github.com/deepteams/imgscale/internal/coeffs"
	"github.com/deepteams/imgscale/internal/gamma"
	"github.com/deepteams/imgscale/internal/hscale"
	"github.com/deepteams/imgscale/internal/vscale"
)

// ColorSpace re-exports colorspace.ColorSpace so callers only need to
// import this package for the common case.
type ColorSpace = colorspace.ColorSpace

// The color space constants, re-exported for convenience.
const (
	Unknown = colorspace.Unknown
	G       = colorspace.G
	GA      = colorspace.GA
	RGB     = colorspace.RGB
	RGBX    = colorspace.RGBX
	RGBA    = colorspace.RGBA
	CMYK    = colorspace.CMYK
)

// minDimension and maxDimension bound every width/height New accepts,
// matching the reference resampler's sanity limits: large enough for
// any real image, small enough that 4*dim coefficient tables never
// threaten to overflow an int.
const (
	minDimension = 1
	maxDimension = 1_000_000
)

// Scaler is a single streaming resize operation from (InWidth,
// InHeight) to (OutWidth, OutHeight) in one color space. It is built
// with [New] and driven with [*Scaler.Slots], [*Scaler.Feed] and
// [*Scaler.Emit] following the ordering contract documented on those
// methods. A Scaler is not safe for concurrent use; give each
// goroutine doing concurrent work its own instance.
type Scaler struct {
	inWidth, inHeight   int
	outWidth, outHeight int
	cs                  colorspace.ColorSpace

	xTable *coeffs.Table
	yTable *coeffs.Table

	rowLen int // floats per horizontally-scaled row: outWidth * cs.Components()

	// ring holds horizontally-scaled float rows. For a vertical
	// downscale it has yTable.Taps rows, indexed directly by rowsInRB
	// and reset to 0 after each Emit. For a vertical upscale it always
	// holds exactly 4 rows, a circular sliding window addressed by
	// row index modulo 4 — it is never reset, matching the way the
	// window persists across the whole scale.
	ring [][]float32
	down *vscale.Downscaler // non-nil only when yTable.Downscale

	inPos, outPos, rowsInRB int

	// cumBorders is the running total of yTable.Borders[0:inPos],
	// maintained incrementally so that slots()/feed() never need to
	// mutate the (otherwise immutable, reusable-after-Restart)
	// coefficient table to track how much of the upscale border
	// counts has already been consumed.
	cumBorders int
}

// New validates the requested geometry and color space, builds the
// process-wide gamma tables if they are not already built, plans the
// horizontal and vertical coefficient tables, and allocates the ring
// buffer. It returns a *Error with Kind [BadArg] for invalid
// dimensions or color space, or [OutOfMemory] if the planned
// allocation sizes would overflow.
func New(inWidth, inHeight, outWidth, outHeight int, cs colorspace.ColorSpace) (*Scaler, error) {
	if inWidth < minDimension || inWidth > maxDimension ||
		inHeight < minDimension || inHeight > maxDimension ||
		outWidth < minDimension || outWidth > maxDimension ||
		outHeight < minDimension || outHeight > maxDimension {
		return nil, newError(BadArg, "dimensions out of range [%d,%d]: in=%dx%d out=%dx%d", minDimension, maxDimension, inWidth, inHeight, outWidth, outHeight)
	}
	if !cs.Valid() {
		return nil, newError(BadArg, "unknown color space %v", cs)
	}

	gamma.Init()

	s := &Scaler{
		inWidth: inWidth, inHeight: inHeight,
		outWidth: outWidth, outHeight: outHeight,
		cs: cs,
	}

	s.xTable = coeffs.Plan(inWidth, outWidth)
	s.yTable = coeffs.Plan(inHeight, outHeight)
	s.rowLen = outWidth * cs.Components()

	ringRows := s.yTable.Taps
	if !s.yTable.Downscale {
		ringRows = 4
	}
	if ringRows <= 0 || s.rowLen <= 0 || ringRows > (1<<31)/s.rowLen {
		return nil, newError(OutOfMemory, "ring buffer size overflow: %d rows of %d floats", ringRows, s.rowLen)
	}

	s.ring = make([][]float32, ringRows)
	for i := range s.ring {
		s.ring[i] = make([]float32, s.rowLen)
	}
	if s.yTable.Downscale {
		s.down = vscale.NewDownscaler(cs, outWidth)
	}
	return s, nil
}

// Slots reports how many more input rows must be fed via Feed before
// the next call to Emit is valid. It is 0 exactly when Emit is ready
// to be called (or the scale is already complete, outPos == OutHeight).
func (s *Scaler) Slots() int {
	if s.outPos >= s.outHeight {
		return 0
	}
	if s.yTable.Downscale {
		n := s.yTable.Borders[s.outPos] - s.rowsInRB
		if n < 0 {
			return 0
		}
		return n
	}

	need := s.outPos + 1
	cum := s.cumBorders
	if cum >= need {
		return 0
	}
	for i := 0; s.inPos+i < s.inHeight; i++ {
		cum += s.yTable.Borders[s.inPos+i]
		if cum >= need {
			return i + 1
		}
	}
	// Exhausted the input without reaching need: every remaining
	// input row is required (the caller has miscounted in_h).
	return s.inHeight - s.inPos
}

// Feed ingests one raw input scanline (InWidth * cs.Components()
// bytes), horizontally scales it, and appends the result to the ring
// buffer. It returns a [ProtocolViolation] error if Slots() == 0.
func (s *Scaler) Feed(row []byte) error {
	if s.Slots() == 0 {
		return newError(ProtocolViolation, "feed called with no slots available (in_pos=%d)", s.inPos)
	}

	var target []float32
	if s.yTable.Downscale {
		target = s.ring[s.rowsInRB]
	} else {
		target = s.ring[s.inPos%4]
	}

	if s.xTable.Downscale {
		hscale.Down(s.cs, row, target, s.xTable.Coeffs, s.xTable.Borders)
	} else {
		hscale.Up(s.cs, row, s.inWidth, target, s.xTable.Coeffs, s.xTable.Borders)
	}

	if !s.yTable.Downscale {
		s.cumBorders += s.yTable.Borders[s.inPos]
	}
	s.rowsInRB++
	s.inPos++
	return nil
}

// Emit produces the next output scanline (OutWidth * cs.Components()
// bytes) into out. It is the caller's responsibility to have fed
// exactly Slots() rows first; calling Emit while Slots() > 0 returns a
// [ProtocolViolation] error.
func (s *Scaler) Emit(out []byte) error {
	if s.Slots() != 0 {
		return newError(ProtocolViolation, "emit called with %d slots still outstanding (out_pos=%d)", s.Slots(), s.outPos)
	}
	if s.yTable.Downscale {
		base := (s.inPos - s.rowsInRB) * 4
		coeffsForRows := s.yTable.Coeffs[base : base+s.rowsInRB*4]
		s.down.Scale(s.ring[:s.rowsInRB], coeffsForRows, out)
		s.rowsInRB = 0
	} else {
		var window [4][]float32
		for i := 0; i < 4; i++ {
			idx := s.inPos - 4 + i
			window[i] = s.ring[((idx%4)+4)%4]
		}
		c := s.yTable.Coeffs[s.outPos*4 : s.outPos*4+4]
		vscale.Up(s.cs, window, c, out)
	}
	s.outPos++
	return nil
}

// Restart resets in_pos, out_pos, rows_in_rb and the running upscale
// border total (cumBorders) to 0 so the same
// Scaler (same geometry, same allocations) can be reused for another
// image. The coefficient tables are immutable and untouched by a
// scale, so nothing else needs resetting.
func (s *Scaler) Restart() {
	s.inPos = 0
	s.outPos = 0
	s.rowsInRB = 0
	s.cumBorders = 0
}

// Free releases the scaler's allocations. After Free, the Scaler must
// not be used again.
func (s *Scaler) Free() {
	s.ring = nil
	s.down = nil
	s.xTable = nil
	s.yTable = nil
}

// InWidth, InHeight, OutWidth, OutHeight and Cs report the geometry
// and color space this Scaler was built with.
func (s *Scaler) InWidth() int             { return s.inWidth }
func (s *Scaler) InHeight() int            { return s.inHeight }
func (s *Scaler) OutWidth() int            { return s.outWidth }
func (s *Scaler) OutHeight() int           { return s.outHeight }
func (s *Scaler) Cs() colorspace.ColorSpace { return s.cs }

// RowLen returns the byte/float length of one output scanline:
// OutWidth * Cs().Components().
func (s *Scaler) RowLen() int { return s.rowLen }
