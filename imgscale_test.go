package imgscale

import (
	"bytes"
	"testing"
)

// driveScale follows the documented Slots/Feed/Emit driver contract and
// also verifies the feed-count law: exactly InHeight() rows must be
// fed across the whole scale.
func driveScale(t *testing.T, s *Scaler, rows [][]byte) [][]byte {
	t.Helper()
	out := make([][]byte, s.OutHeight())
	fed := 0
	for p := 0; p < s.OutHeight(); p++ {
		for s.Slots() > 0 {
			if err := s.Feed(rows[fed]); err != nil {
				t.Fatalf("feed row %d: %v", fed, err)
			}
			fed++
		}
		row := make([]byte, s.RowLen())
		if err := s.Emit(row); err != nil {
			t.Fatalf("emit row %d: %v", p, err)
		}
		out[p] = row
	}
	if fed != s.InHeight() {
		t.Errorf("slots law violated: fed %d rows, want %d", fed, s.InHeight())
	}
	return out
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// --- Identity scaling ---

func TestIdentityNoGamma(t *testing.T) {
	s, err := New(5, 5, 5, 5, G)
	if err != nil {
		t.Fatal(err)
	}
	rows := make([][]byte, 5)
	for j := range rows {
		row := make([]byte, 5)
		for i := range row {
			row[i] = byte((i*37 + j*11) & 0xFF)
		}
		rows[j] = row
	}
	out := driveScale(t, s, rows)
	for j := range rows {
		if !bytes.Equal(out[j], rows[j]) {
			t.Errorf("row %d: identity scale G changed pixels: got %v, want %v", j, out[j], rows[j])
		}
	}
}

func TestIdentityGammaWithinOne(t *testing.T) {
	s, err := New(4, 4, 4, 4, RGB)
	if err != nil {
		t.Fatal(err)
	}
	rows := make([][]byte, 4)
	for j := range rows {
		row := make([]byte, 12)
		for i := 0; i < 4; i++ {
			row[i*3] = byte((i * 60) & 0xFF)
			row[i*3+1] = byte((j * 60) & 0xFF)
			row[i*3+2] = byte(((i + j) * 30) & 0xFF)
		}
		rows[j] = row
	}
	out := driveScale(t, s, rows)
	for j := range rows {
		for k := range rows[j] {
			if d := absDiff(int(out[j][k]), int(rows[j][k])); d > 1 {
				t.Errorf("row %d byte %d: got %d, want within 1 of %d", j, k, out[j][k], rows[j][k])
			}
		}
	}
}

// --- Constant-image preservation, both scale directions ---

func TestConstantImageUpscale(t *testing.T) {
	s, err := New(1, 1, 10, 10, RGB)
	if err != nil {
		t.Fatal(err)
	}
	out := driveScale(t, s, [][]byte{{255, 0, 0}})
	for j, row := range out {
		for p := 0; p < 10; p++ {
			r, g, b := row[p*3], row[p*3+1], row[p*3+2]
			if absDiff(int(r), 255) > 1 || absDiff(int(g), 0) > 1 || absDiff(int(b), 0) > 1 {
				t.Errorf("row %d pixel %d = {%d,%d,%d}, want ~{255,0,0}", j, p, r, g, b)
			}
		}
	}
}

func TestConstantImageDownscale(t *testing.T) {
	s, err := New(8, 8, 3, 3, G)
	if err != nil {
		t.Fatal(err)
	}
	rows := make([][]byte, 8)
	for j := range rows {
		row := make([]byte, 8)
		for i := range row {
			row[i] = 130
		}
		rows[j] = row
	}
	out := driveScale(t, s, rows)
	for j, row := range out {
		for i, v := range row {
			if absDiff(int(v), 130) > 1 {
				t.Errorf("row %d pixel %d = %d, want ~130", j, i, v)
			}
		}
	}
}

// --- Halving a greyscale gradient ---

func TestGreyscaleHalve(t *testing.T) {
	s, err := New(4, 4, 2, 2, G)
	if err != nil {
		t.Fatal(err)
	}
	row := []byte{0, 64, 128, 192}
	rows := [][]byte{row, row, row, row}
	out := driveScale(t, s, rows)
	if !bytes.Equal(out[0], out[1]) {
		t.Errorf("rows should be identical for a constant-per-row source: %v vs %v", out[0], out[1])
	}
	if out[0][0] >= out[0][1] {
		t.Errorf("expected increasing samples across the gradient, got %v", out[0])
	}
}

// --- RGBA downscale blends alpha and unpremultiplies color ---

func TestRGBAUnpremultiply(t *testing.T) {
	s, err := New(2, 2, 1, 1, RGBA)
	if err != nil {
		t.Fatal(err)
	}
	rows := [][]byte{
		{255, 0, 0, 255, 0, 255, 0, 255},
		{0, 0, 255, 255, 255, 255, 255, 0},
	}
	out := driveScale(t, s, rows)
	if len(out) != 1 || len(out[0]) != 4 {
		t.Fatalf("unexpected output shape: %v", out)
	}
	alpha := int(out[0][3])
	if absDiff(alpha, 191) > 1 {
		t.Errorf("alpha = %d, want ~191", alpha)
	}
	// The premultiplied linear average is 0.25 per color channel under
	// alpha 0.75; unpremultiplied that is linear 1/3, sRGB byte ~156.
	for k := 0; k < 3; k++ {
		if c := int(out[0][k]); absDiff(c, 156) > 1 {
			t.Errorf("channel %d = %d, want ~156 (unpremultiplied)", k, c)
		}
	}
}

// --- A monotonic gradient stays monotonic after downscaling ---

func TestMonotonicGradient(t *testing.T) {
	s, err := New(8, 8, 4, 4, G)
	if err != nil {
		t.Fatal(err)
	}
	rows := make([][]byte, 8)
	for j := range rows {
		row := make([]byte, 8)
		for i := range row {
			row[i] = byte((i * 32) & 0xFF)
		}
		rows[j] = row
	}
	out := driveScale(t, s, rows)
	for j, row := range out {
		for i := 0; i+1 < len(row); i++ {
			if row[i+1] < row[i] {
				t.Errorf("row %d not monotonic at %d: %v", j, i, row)
			}
		}
	}
}

// --- Alpha preservation at the extremes ---

func TestAlphaPreservationZero(t *testing.T) {
	s, err := New(4, 4, 2, 2, RGBA)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]byte, 16) // all zero, including alpha
	rows := [][]byte{row, row, row, row}
	out := driveScale(t, s, rows)
	for j, r := range out {
		for p := 0; p < 2; p++ {
			if r[p*4+3] != 0 {
				t.Errorf("row %d pixel %d alpha = %d, want 0", j, p, r[p*4+3])
			}
		}
	}
}

func TestAlphaPreservationFull(t *testing.T) {
	s, err := New(4, 4, 2, 2, RGBA)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]byte, 16)
	for i := 0; i < 4; i++ {
		row[i*4] = 10
		row[i*4+1] = 20
		row[i*4+2] = 30
		row[i*4+3] = 255
	}
	rows := [][]byte{row, row, row, row}
	out := driveScale(t, s, rows)
	for j, r := range out {
		for p := 0; p < 2; p++ {
			if r[p*4+3] != 255 {
				t.Errorf("row %d pixel %d alpha = %d, want 255", j, p, r[p*4+3])
			}
		}
	}
}

// --- Output dimension correctness ---

func TestDimensionCorrectness(t *testing.T) {
	s, err := New(17, 13, 6, 9, RGBA)
	if err != nil {
		t.Fatal(err)
	}
	rows := make([][]byte, 13)
	for j := range rows {
		rows[j] = make([]byte, 17*4)
	}
	out := driveScale(t, s, rows)
	if len(out) != 9 {
		t.Fatalf("output row count = %d, want 9", len(out))
	}
	for _, row := range out {
		if len(row) != 6*4 {
			t.Errorf("output row width = %d, want %d", len(row), 6*4)
		}
	}
}

// --- Init argument validation ---

func TestNewRejectsBadDimensions(t *testing.T) {
	if _, err := New(0, 10, 10, 10, RGB); err == nil {
		t.Fatal("expected error for zero input width")
	}
	if _, err := New(10, 10, 10, 10, Unknown); err == nil {
		t.Fatal("expected error for unknown color space")
	}
}

func TestProtocolViolations(t *testing.T) {
	s, err := New(4, 4, 4, 4, G)
	if err != nil {
		t.Fatal(err)
	}
	// Emit before any feed: slots() > 0, so Emit must fail.
	if err := s.Emit(make([]byte, s.RowLen())); err == nil {
		t.Fatal("expected ProtocolViolation emitting before feeding")
	}
	row := make([]byte, 4)
	for n := s.Slots(); n > 0; n-- {
		if err := s.Feed(row); err != nil {
			t.Fatalf("feed: %v", err)
		}
	}
	// Now slots() == 0: one more Feed should be rejected.
	if err := s.Feed(row); err == nil {
		t.Fatal("expected ProtocolViolation feeding with no slots left")
	}
}

// --- GA / RGBX / CMYK coverage: constant-image preservation and, for
// the alpha-bearing space, alpha preservation at the extremes. These
// three exercise the color-space branches in hscale/vscale that the
// G/RGB/RGBA cases above never touch. ---

func TestConstantImageGA(t *testing.T) {
	s, err := New(6, 6, 3, 3, GA)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]byte, 12) // 6 pixels * {grey, alpha}
	for i := 0; i < 6; i++ {
		row[i*2] = 140
		row[i*2+1] = 200
	}
	rows := make([][]byte, 6)
	for j := range rows {
		rows[j] = row
	}
	out := driveScale(t, s, rows)
	for j, r := range out {
		for p := 0; p < 3; p++ {
			g, a := r[p*2], r[p*2+1]
			if absDiff(int(g), 140) > 1 {
				t.Errorf("row %d pixel %d grey = %d, want ~140", j, p, g)
			}
			if absDiff(int(a), 200) > 1 {
				t.Errorf("row %d pixel %d alpha = %d, want ~200", j, p, a)
			}
		}
	}
}

func TestAlphaPreservationGAZero(t *testing.T) {
	s, err := New(4, 4, 2, 2, GA)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]byte, 8) // all zero, including alpha
	rows := [][]byte{row, row, row, row}
	out := driveScale(t, s, rows)
	for j, r := range out {
		for p := 0; p < 2; p++ {
			if r[p*2+1] != 0 {
				t.Errorf("row %d pixel %d alpha = %d, want 0", j, p, r[p*2+1])
			}
		}
	}
}

func TestAlphaPreservationGAFull(t *testing.T) {
	s, err := New(4, 4, 2, 2, GA)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]byte, 8)
	for i := 0; i < 4; i++ {
		row[i*2] = 90
		row[i*2+1] = 255
	}
	rows := [][]byte{row, row, row, row}
	out := driveScale(t, s, rows)
	for j, r := range out {
		for p := 0; p < 2; p++ {
			if r[p*2+1] != 255 {
				t.Errorf("row %d pixel %d alpha = %d, want 255", j, p, r[p*2+1])
			}
		}
	}
}

func TestConstantImageRGBX(t *testing.T) {
	s, err := New(5, 5, 2, 2, RGBX)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]byte, 20) // 5 pixels * {r,g,b,x}
	for i := 0; i < 5; i++ {
		row[i*4] = 10
		row[i*4+1] = 150
		row[i*4+2] = 250
		row[i*4+3] = 77 // padding byte, must be ignored on read
	}
	rows := make([][]byte, 5)
	for j := range rows {
		rows[j] = row
	}
	out := driveScale(t, s, rows)
	for j, r := range out {
		for p := 0; p < 2; p++ {
			i := p * 4
			if absDiff(int(r[i]), 10) > 1 || absDiff(int(r[i+1]), 150) > 1 || absDiff(int(r[i+2]), 250) > 1 {
				t.Errorf("row %d pixel %d = %v, want ~{10,150,250}", j, p, r[i:i+3])
			}
			if r[i+3] != 0 {
				t.Errorf("row %d pixel %d padding byte = %d, want 0", j, p, r[i+3])
			}
		}
	}
}

func TestConstantImageCMYK(t *testing.T) {
	s, err := New(6, 6, 4, 4, CMYK)
	if err != nil {
		t.Fatal(err)
	}
	row := make([]byte, 24) // 6 pixels * {c,m,y,k}
	for i := 0; i < 6; i++ {
		row[i*4] = 20
		row[i*4+1] = 60
		row[i*4+2] = 100
		row[i*4+3] = 220
	}
	rows := make([][]byte, 6)
	for j := range rows {
		rows[j] = row
	}
	out := driveScale(t, s, rows)
	want := []byte{20, 60, 100, 220}
	for j, r := range out {
		for p := 0; p < 4; p++ {
			i := p * 4
			for k := 0; k < 4; k++ {
				if absDiff(int(r[i+k]), int(want[k])) > 1 {
					t.Errorf("row %d pixel %d channel %d = %d, want ~%d", j, p, k, r[i+k], want[k])
				}
			}
		}
	}
}

// --- Upscale path for GA/RGBX/CMYK, so the upCMYK/upGA branches (and
// upRGB at RGBX's 4-byte stride) in hscale and the upGA/upRGBX branches
// in vscale are also reached. ---

func TestConstantImageUpscaleGA(t *testing.T) {
	s, err := New(1, 1, 6, 6, GA)
	if err != nil {
		t.Fatal(err)
	}
	out := driveScale(t, s, [][]byte{{33, 180}})
	for j, r := range out {
		for p := 0; p < 6; p++ {
			if absDiff(int(r[p*2]), 33) > 1 || absDiff(int(r[p*2+1]), 180) > 1 {
				t.Errorf("row %d pixel %d = %v, want ~{33,180}", j, p, r[p*2:p*2+2])
			}
		}
	}
}

func TestConstantImageUpscaleCMYK(t *testing.T) {
	s, err := New(1, 1, 5, 5, CMYK)
	if err != nil {
		t.Fatal(err)
	}
	out := driveScale(t, s, [][]byte{{5, 90, 170, 250}})
	want := []byte{5, 90, 170, 250}
	for j, r := range out {
		for p := 0; p < 5; p++ {
			for k := 0; k < 4; k++ {
				if absDiff(int(r[p*4+k]), int(want[k])) > 1 {
					t.Errorf("row %d pixel %d channel %d = %d, want ~%d", j, p, k, r[p*4+k], want[k])
				}
			}
		}
	}
}

func TestConstantImageUpscaleRGBX(t *testing.T) {
	s, err := New(1, 1, 4, 4, RGBX)
	if err != nil {
		t.Fatal(err)
	}
	out := driveScale(t, s, [][]byte{{200, 80, 40, 99}})
	for j, r := range out {
		for p := 0; p < 4; p++ {
			i := p * 4
			if absDiff(int(r[i]), 200) > 1 || absDiff(int(r[i+1]), 80) > 1 || absDiff(int(r[i+2]), 40) > 1 {
				t.Errorf("row %d pixel %d = %v, want ~{200,80,40}", j, p, r[i:i+3])
			}
			if r[i+3] != 0 {
				t.Errorf("row %d pixel %d padding byte = %d, want 0", j, p, r[i+3])
			}
		}
	}
}

func TestRestartReusesGeometryDownscale(t *testing.T) {
	s, err := New(4, 4, 2, 2, G)
	if err != nil {
		t.Fatal(err)
	}
	row := []byte{0, 64, 128, 192}
	rows := [][]byte{row, row, row, row}
	first := driveScale(t, s, rows)
	s.Restart()
	second := driveScale(t, s, rows)
	for j := range first {
		if !bytes.Equal(first[j], second[j]) {
			t.Errorf("row %d differs after restart: %v vs %v", j, first[j], second[j])
		}
	}
}

func TestRestartReusesGeometryUpscale(t *testing.T) {
	// The vertical upscale path tracks consumed border counts in a
	// running sum rather than in the planned table, and its 4-row
	// sliding window is never cleared between scales; a second scale
	// after Restart must still match the first exactly.
	s, err := New(2, 2, 4, 4, G)
	if err != nil {
		t.Fatal(err)
	}
	rows := [][]byte{{10, 200}, {200, 10}}
	first := driveScale(t, s, rows)
	s.Restart()
	second := driveScale(t, s, rows)
	for j := range first {
		if !bytes.Equal(first[j], second[j]) {
			t.Errorf("row %d differs after restart: %v vs %v", j, first[j], second[j])
		}
	}
}
