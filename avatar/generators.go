package avatar

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/deepteams/imgscale"
)

// mysteryManRefSize is the resolution the silhouette is drawn at
// before being scaled (through the same Scaler real avatars use) to
// whatever size was requested.
const mysteryManRefSize = 200

// WriteBlank writes a fully transparent size x size PNG directly,
// bypassing the resampler entirely: scaling a constant-alpha image is
// a no-op (every output pixel equals the input pixel, per the
// constant-image-preservation property), so there's nothing for the
// scaler to usefully do here.
func WriteBlank(w io.Writer, size int) error {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("avatar: encoding blank placeholder: %w", err)
	}
	return nil
}

// WriteMysteryMan writes a generic silhouette placeholder (a
// head circle over a shoulders ellipse, flat gray on a transparent
// background) scaled to size x size. The silhouette is drawn once at
// a fixed reference resolution and scaled through the same
// imgscale.Scaler real avatar images use, exercising both the upscale
// and downscale paths exactly as real content would.
func WriteMysteryMan(w io.Writer, size int) error {
	refRows := drawMysteryMan(mysteryManRefSize)
	out, outW, outH, err := Resize(refRows, mysteryManRefSize, mysteryManRefSize, imgscale.RGBA, size, size)
	if err != nil {
		return fmt.Errorf("avatar: scaling mystery-man placeholder: %w", err)
	}
	defer ReleaseRows(out)
	return EncodePNG(w, out, outW, outH, imgscale.RGBA)
}

// drawMysteryMan procedurally renders the silhouette into raw RGBA
// scanlines at refSize x refSize.
func drawMysteryMan(refSize int) [][]byte {
	size := float64(refSize)
	cx, headCY := size/2, size*0.38
	headR := size * 0.22
	shoulderCY := size * 0.95
	shoulderRX, shoulderRY := size*0.42, size*0.5
	shoulderTop := headCY + headR*0.3

	rows := make([][]byte, refSize)
	for y := 0; y < refSize; y++ {
		row := make([]byte, refSize*4)
		fy := float64(y)
		for x := 0; x < refSize; x++ {
			fx := float64(x)

			hdx, hdy := fx-cx, fy-headCY
			inHead := hdx*hdx+hdy*hdy <= headR*headR

			sdx, sdy := fx-cx, fy-shoulderCY
			inShoulders := fy >= shoulderTop &&
				(sdx*sdx)/(shoulderRX*shoulderRX)+(sdy*sdy)/(shoulderRY*shoulderRY) <= 1

			if inHead || inShoulders {
				i := x * 4
				row[i], row[i+1], row[i+2], row[i+3] = 0x8a, 0x8a, 0x8a, 0xff
			}
		}
		rows[y] = row
	}
	return rows
}
