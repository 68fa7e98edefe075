// Package imgscale implements a streaming bicubic (Catmull-Rom) image
// resampler: a two-pass horizontal/vertical scaling engine that consumes
// source scanlines one row at a time and emits destination scanlines
// incrementally, without ever holding a whole image in memory.
//
// The hot per-row path ([*Scaler.Feed] and [*Scaler.Emit]) performs no
// I/O, no logging, and no allocation once [New] has returned; every
// allocation the scaler will ever need is made up front, sized from the
// requested geometry.
//
// Six color spaces are supported, each either gamma-corrected (sRGB),
// alpha-premultiplied, or both: G, GA, RGB, RGBX, RGBA, CMYK. See the
// colorspace subpackage.
//
// Basic usage:
//
//	s, err := imgscale.New(inW, inH, outW, outH, imgscale.RGBA)
//	for p := 0; p < outH; p++ {
//		for s.Slots() > 0 {
//			s.Feed(nextInputRow())
//		}
//		s.Emit(outputRow(p))
//	}
//	s.Free()
package imgscale
