package imgscale

import "math"

// MaxDimension is the largest width or height FixRatio will
// return, mirroring the C reference's use of a 32-bit
// signed integer for pixel dimensions.
const MaxDimension = math.MaxInt32

// FixRatio computes the largest (w, h) that fits within the bounding
// box (boundW, boundH) while preserving the aspect ratio of
// (srcW, srcH): it picks whichever of the two bounding ratios is
// smaller, holds that axis at the bound exactly, and rounds the other
// axis to match, clamped to a minimum of 1.
func FixRatio(srcW, srcH, boundW, boundH int) (int, int, error) {
	if srcW < 1 || srcH < 1 || boundW < 1 || boundH < 1 {
		return 0, 0, newError(BadArg, "fix ratio: all dimensions must be >= 1, got src=%dx%d bound=%dx%d", srcW, srcH, boundW, boundH)
	}

	rw := float64(boundW) / float64(srcW)
	rh := float64(boundH) / float64(srcH)

	var outW, outH int
	if rw <= rh {
		outW = boundW
		outH = roundDim(rw * float64(srcH))
	} else {
		outH = boundH
		outW = roundDim(rh * float64(srcW))
	}

	if outW > MaxDimension || outH > MaxDimension {
		return 0, 0, newError(Overflow, "fix ratio: result %dx%d exceeds the supported dimension range", outW, outH)
	}
	return outW, outH, nil
}

func roundDim(x float64) int {
	v := int(math.Round(x))
	if v < 1 {
		return 1
	}
	return v
}
