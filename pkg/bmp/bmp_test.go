package bmp

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/glray/pkg/render"
	xbmp "golang.org/x/image/bmp"
)

func TestPackColor(t *testing.T) {
	if got := PackColor(1, 2, 3); got != [3]byte{3, 2, 1} {
		t.Errorf("PackColor(1,2,3) = %v, want [3 2 1]", got)
	}
}

func TestEncodeTwoByTwo(t *testing.T) {
	fb := render.NewFramebuffer(2, 2, render.ColorBlack)
	colors := []render.Color{
		render.RGB(10, 20, 30),
		render.RGB(40, 50, 60),
		render.RGB(70, 80, 90),
		render.RGB(100, 110, 120),
	}
	copy(fb.Pixels, colors)

	var buf bytes.Buffer
	if err := Encode(&buf, fb); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b := buf.Bytes()
	le := binary.LittleEndian

	if len(b) != 66 {
		t.Fatalf("len = %d, want 66", len(b))
	}

	header := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"file size", le.Uint32(b[2:]), 66},
		{"reserved", le.Uint32(b[6:]), 0},
		{"offset", le.Uint32(b[10:]), 54},
		{"info size", le.Uint32(b[14:]), 40},
		{"width", le.Uint32(b[18:]), 2},
		{"height", le.Uint32(b[22:]), 2},
		{"planes", uint32(le.Uint16(b[26:])), 1},
		{"bpp", uint32(le.Uint16(b[28:])), 24},
		{"compression", le.Uint32(b[30:]), 0},
		{"image size", le.Uint32(b[34:]), 12},
		{"x ppm", le.Uint32(b[38:]), 0},
		{"y ppm", le.Uint32(b[42:]), 0},
		{"colors used", le.Uint32(b[46:]), 0},
		{"important", le.Uint32(b[50:]), 0},
	}
	if string(b[:2]) != "BM" {
		t.Errorf("signature = %q, want BM", b[:2])
	}
	for _, h := range header {
		if h.got != h.want {
			t.Errorf("%s = %d, want %d", h.name, h.got, h.want)
		}
	}

	// Pixel records follow in stored row order, blue first.
	for i, c := range colors {
		rec := b[54+i*3 : 54+i*3+3]
		want := PackColor(c.R, c.G, c.B)
		if !bytes.Equal(rec, want[:]) {
			t.Errorf("pixel %d = %v, want %v", i, rec, want)
		}
	}
}

func TestEncodeDecodesWithXImage(t *testing.T) {
	// Width 4 needs no row padding, so the output is a valid BMP.
	fb := render.NewFramebuffer(4, 3, render.ColorBlack)
	fb.Set(0, 0, render.ColorRed)
	fb.Set(3, 2, render.ColorBlue)

	var buf bytes.Buffer
	if err := Encode(&buf, fb); err != nil {
		t.Fatal(err)
	}

	img, err := xbmp.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}

	// Viewers place row 0 at the bottom.
	for y := range 3 {
		for x := range 4 {
			r, g, b, _ := img.At(x, 2-y).RGBA()
			want := fb.At(x, y)
			if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
				t.Errorf("(%d,%d) decoded %d,%d,%d want %v", x, y, r>>8, g>>8, b>>8, want)
			}
		}
	}
}

func TestPadded(t *testing.T) {
	for w, want := range map[int]bool{1: false, 2: false, 3: false, 4: true, 8: true, 100: true, 101: false} {
		if got := Padded(w); got != want {
			t.Errorf("Padded(%d) = %v, want %v", w, got, want)
		}
	}
}

func TestDepthImage(t *testing.T) {
	inf := math.Inf(1)

	tests := []struct {
		name  string
		depth []float64
		want  []uint8
	}{
		{"range", []float64{2, 4, 6, 3}, []uint8{0, 128, 255, 64}},
		{"misses are far", []float64{1, inf, 3, inf}, []uint8{0, 255, 255, 255}},
		{"negative infinity is near", []float64{math.Inf(-1), 1, 5, 3}, []uint8{0, 0, 255, 128}},
		{"uniform is gray", []float64{7, 7, 7, 7}, []uint8{128, 128, 128, 128}},
		{"empty is gray", []float64{inf, inf, inf, inf}, []uint8{128, 128, 128, 128}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			zb := render.NewZBuffer(2, 2)
			copy(zb.Depth, tc.depth)

			fb := DepthImage(zb)
			for i, c := range fb.Pixels {
				if c.R != tc.want[i] || c.G != c.R || c.B != c.R {
					t.Errorf("cell %d = %v, want gray %d", i, c, tc.want[i])
				}
			}
		})
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	fb := render.NewFramebuffer(4, 4, render.ColorGreen)
	zb := render.NewZBuffer(4, 4)

	color := filepath.Join(dir, "out.bmp")
	depth := filepath.Join(dir, "z.bmp")
	if err := WriteFile(color, fb); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteDepthFile(depth, zb); err != nil {
		t.Fatalf("WriteDepthFile: %v", err)
	}

	for _, p := range []string{color, depth} {
		st, err := os.Stat(p)
		if err != nil {
			t.Fatal(err)
		}
		if st.Size() != int64(FileSize(4, 4)) {
			t.Errorf("%s size = %d, want %d", p, st.Size(), FileSize(4, 4))
		}
	}

	if err := WriteFile(filepath.Join(dir, "missing", "x.bmp"), fb); err == nil {
		t.Error("expected error for missing directory")
	}
}
