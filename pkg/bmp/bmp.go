// Package bmp writes framebuffers and depth buffers as 24-bit bitmap files.
//
// The layout is a 14-byte file header, a 40-byte info header and the raw
// pixel rows in framebuffer order (row 0 first) with no row padding. With a
// positive height, viewers show row 0 at the bottom, which matches the
// framebuffer's convention. The file is only a strictly valid BMP when
// width*3 is a multiple of 4; see Padded.
package bmp

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/taigrr/glray/pkg/render"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40

	// HeaderSize is the offset of the pixel data.
	HeaderSize = fileHeaderSize + infoHeaderSize
)

// PackColor returns the on-disk record for a color: blue, green, red.
func PackColor(r, g, b uint8) [3]byte {
	return [3]byte{b, g, r}
}

// Padded reports whether rows of the given width need no padding, i.e.
// whether the output is a strictly valid BMP.
func Padded(width int) bool {
	return width*3%4 == 0
}

// FileSize returns the size in bytes of an encoded width x height image.
func FileSize(width, height int) int {
	return HeaderSize + width*height*3
}

// writeHeader writes the file and info headers.
func writeHeader(w io.Writer, width, height int) error {
	var h [HeaderSize]byte
	le := binary.LittleEndian
	imageSize := uint32(width * height * 3)

	// file header
	h[0], h[1] = 'B', 'M'
	le.PutUint32(h[2:], uint32(FileSize(width, height)))
	le.PutUint32(h[6:], 0)
	le.PutUint32(h[10:], HeaderSize)

	// info header
	le.PutUint32(h[14:], infoHeaderSize)
	le.PutUint32(h[18:], uint32(int32(width)))
	le.PutUint32(h[22:], uint32(int32(height)))
	le.PutUint16(h[26:], 1)  // planes
	le.PutUint16(h[28:], 24) // bits per pixel
	le.PutUint32(h[30:], 0)  // compression
	le.PutUint32(h[34:], imageSize)
	// remaining four fields (resolution, palette) stay zero

	_, err := w.Write(h[:])
	return err
}

// Encode writes fb as a bitmap.
func Encode(w io.Writer, fb *render.Framebuffer) error {
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, fb.Width, fb.Height); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]byte, fb.Width*3)
	for y := range fb.Height {
		for x, c := range fb.Row(y) {
			p := PackColor(c.R, c.G, c.B)
			copy(row[x*3:], p[:])
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", y, err)
		}
	}
	return bw.Flush()
}

// depthRange returns the smallest and largest finite depths in zb.
// ok is false when zb holds no finite value.
func depthRange(zb *render.ZBuffer) (minZ, maxZ float64, ok bool) {
	minZ, maxZ = math.Inf(1), math.Inf(-1)
	for _, d := range zb.Depth {
		if math.IsInf(d, 0) || math.IsNaN(d) {
			continue
		}
		minZ = math.Min(minZ, d)
		maxZ = math.Max(maxZ, d)
		ok = true
	}
	return minZ, maxZ, ok
}

// DepthImage converts zb to a framebuffer of gray levels: the nearest finite
// depth is black and the farthest white. -Inf cells take the nearest value
// and +Inf cells (no hit) the farthest. When there is no finite depth, or all
// finite depths are equal, every cell is mid-gray.
func DepthImage(zb *render.ZBuffer) *render.Framebuffer {
	fb := render.NewFramebuffer(zb.Width, zb.Height, render.Gray(0.5))

	minZ, maxZ, ok := depthRange(zb)
	if !ok || maxZ == minZ {
		return fb
	}

	for i, d := range zb.Depth {
		switch {
		case math.IsInf(d, -1) || math.IsNaN(d):
			d = minZ
		case math.IsInf(d, 1):
			d = maxZ
		}
		fb.Pixels[i] = render.Gray((d - minZ) / (maxZ - minZ))
	}
	return fb
}

// EncodeDepth writes zb as a grayscale bitmap, normalized by DepthImage.
func EncodeDepth(w io.Writer, zb *render.ZBuffer) error {
	return Encode(w, DepthImage(zb))
}

// WriteFile encodes fb into a new file at path.
func WriteFile(path string, fb *render.Framebuffer) error {
	return writeFile(path, func(w io.Writer) error { return Encode(w, fb) })
}

// WriteDepthFile encodes zb into a new file at path.
func WriteDepthFile(path string, zb *render.ZBuffer) error {
	return writeFile(path, func(w io.Writer) error { return EncodeDepth(w, zb) })
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bitmap: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
