package png

import (
	"bytes"
	"hash/adler32"
	"testing"

	"github.com/elliotnunn/chameleon/internal/defilter"
	"github.com/elliotnunn/chameleon/internal/zlib"
)

// zlibWrap wraps a raw DEFLATE stream in the RFC 1950 header/trailer this
// package's internal/zlib decoder expects: CMF/FLG (0x78 0x01, a
// "no preset dictionary, fastest compression level" pair, mod-31
// legal) and a big-endian Adler-32 of the decompressed bytes.
func zlibWrap(deflated, decompressed []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x78, 0x01})
	buf.Write(deflated)
	sum := adler32.Checksum(decompressed)
	buf.Write([]byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)})
	return buf.Bytes()
}

// TestDecodeTwoByTwoRGB8 chains the full pipeline -- container parsing,
// zlib/DEFLATE decompression, and scanline defiltering -- over a complete
// 2x2 RGB8 image and checks the exact decoded pixel tuples: red, green,
// blue, white, in raster order.
func TestDecodeTwoByTwoRGB8(t *testing.T) {
	// Two scanlines, filter type None (0x00) on each, raw RGB8 pixels:
	// row0 = red, green; row1 = blue, white.
	filtered := []byte{
		0x00, 255, 0, 0, 0, 255, 0,
		0x00, 0, 0, 255, 255, 255, 255,
	}

	var deflate bytes.Buffer
	deflate.WriteByte(0x01) // BFINAL=1, BTYPE=00 (stored)
	length := uint16(len(filtered))
	deflate.WriteByte(byte(length))
	deflate.WriteByte(byte(length >> 8))
	nlen := ^length
	deflate.WriteByte(byte(nlen))
	deflate.WriteByte(byte(nlen >> 8))
	deflate.Write(filtered)

	zlibBytes := zlibWrap(deflate.Bytes(), filtered)

	data := minimalPNGWithSize(2, 2, zlibBytes)

	img, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	decompressed, err := zlib.Decode(img.IDAT)
	if err != nil {
		t.Fatalf("zlib.Decode: %v", err)
	}

	bpp := img.IHDR.BytesPerPixel()
	stride := int(img.IHDR.Width) * bpp
	pixels, err := defilter.Reconstruct(decompressed, int(img.IHDR.Height), stride, bpp)
	if err != nil {
		t.Fatalf("defilter.Reconstruct: %v", err)
	}

	want := []byte{
		255, 0, 0, // red
		0, 255, 0, // green
		0, 0, 255, // blue
		255, 255, 255, // white
	}
	if !bytes.Equal(pixels, want) {
		t.Errorf("got pixels %v, want %v", pixels, want)
	}
}

// minimalPNGWithSize is minimalPNG generalized to an arbitrary width/height,
// needed because the scenario-6 fixture isn't the package's default 1x1.
func minimalPNGWithSize(w, h uint32, idat []byte) []byte {
	var buf bytes.Buffer
	buf.Write(signature[:])
	buf.Write(buildChunk("IHDR", buildIHDR(w, h, 8, ColorRGB, 0)))
	buf.Write(buildChunk("IDAT", idat))
	buf.Write(buildChunk("IEND", nil))
	return buf.Bytes()
}
