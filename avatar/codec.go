package avatar

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // registers the JPEG format with image.Decode
	"image/png"
	"io"

	"github.com/deepteams/imgscale"
)

// DecodeImage reads a PNG or JPEG image from r and converts it to raw
// scanlines in the best-fitting color space for the resampler: RGBA
// for images with a non-opaque alpha channel, RGB for opaque color
// images, G for grayscale sources. JPEG carries no alpha channel, so
// JPEG sources always decode to RGB.
//
// image.Decode fully materializes progressive/interlaced sources into
// an in-memory image.Image before this function ever sees them, so
// rows are always produced here in top-to-bottom order regardless of
// how the source file stored them.
func DecodeImage(r io.Reader) (rows [][]byte, width, height int, cs imgscale.ColorSpace, err error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, 0, 0, 0, fmt.Errorf("avatar: decoding image: %w", err)
	}

	b := img.Bounds()
	width, height = b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil, 0, 0, 0, fmt.Errorf("avatar: decoding image: zero-sized image")
	}

	cs = chooseColorSpace(img, format)
	stride := width * cs.Components()
	rows = make([][]byte, height)
	for y := 0; y < height; y++ {
		row := make([]byte, stride)
		srcY := b.Min.Y + y
		for x := 0; x < width; x++ {
			writePixel(row, x, cs, img.At(b.Min.X+x, srcY))
		}
		rows[y] = row
	}
	return rows, width, height, cs, nil
}

// chooseColorSpace picks the narrowest color space that loses nothing
// from the source image.
func chooseColorSpace(img image.Image, format string) imgscale.ColorSpace {
	if format == "jpeg" {
		return imgscale.RGB
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model:
		return imgscale.G
	}
	if op, ok := img.(interface{ Opaque() bool }); ok && op.Opaque() {
		return imgscale.RGB
	}
	return imgscale.RGBA
}

func writePixel(row []byte, x int, cs imgscale.ColorSpace, c color.Color) {
	switch cs {
	case imgscale.G:
		row[x] = color.GrayModel.Convert(c).(color.Gray).Y
	case imgscale.RGB:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		i := x * 3
		row[i], row[i+1], row[i+2] = n.R, n.G, n.B
	case imgscale.RGBA:
		n := color.NRGBAModel.Convert(c).(color.NRGBA)
		i := x * 4
		row[i], row[i+1], row[i+2], row[i+3] = n.R, n.G, n.B, n.A
	}
}

// EncodePNG reassembles emitted scanlines (width*cs.Components() bytes
// each, straight not premultiplied alpha) into an image.Image and
// writes it to w as a PNG.
func EncodePNG(w io.Writer, rows [][]byte, width, height int, cs imgscale.ColorSpace) error {
	img, err := buildImage(rows, width, height, cs)
	if err != nil {
		return fmt.Errorf("avatar: building output image: %w", err)
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("avatar: encoding png: %w", err)
	}
	return nil
}

func buildImage(rows [][]byte, width, height int, cs imgscale.ColorSpace) (image.Image, error) {
	switch cs {
	case imgscale.G:
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y, row := range rows {
			copy(img.Pix[y*img.Stride:y*img.Stride+width], row)
		}
		return img, nil
	case imgscale.RGB:
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		for y, row := range rows {
			for x := 0; x < width; x++ {
				di := y*img.Stride + x*4
				si := x * 3
				img.Pix[di] = row[si]
				img.Pix[di+1] = row[si+1]
				img.Pix[di+2] = row[si+2]
				img.Pix[di+3] = 255
			}
		}
		return img, nil
	case imgscale.RGBA:
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		for y, row := range rows {
			copy(img.Pix[y*img.Stride:y*img.Stride+width*4], row)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported output color space %v", cs)
	}
}
