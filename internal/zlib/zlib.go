// Package zlib strips and validates the RFC 1950 zlib wrapper around a
// DEFLATE stream and verifies the trailing Adler-32 checksum of the
// decompressed data. This is the "external collaborator" spec.md §6 names;
// the actual decompression is internal/flate's job.
package zlib

import (
	"errors"
	"fmt"
	"hash/adler32"

	"github.com/elliotnunn/chameleon/internal/flate"
)

// ErrInvalidHeader covers a malformed CMF/FLG pair: the two-byte check
// value not a multiple of 31, or an unsupported compression method.
var ErrInvalidHeader = errors.New("zlib: invalid header")

// ErrChecksumMismatch covers an Adler-32 trailer that does not match the
// decompressed data.
var ErrChecksumMismatch = errors.New("zlib: adler-32 checksum mismatch")

// Header holds the parsed two-byte zlib header (RFC 1950 §2.2).
type Header struct {
	CompressionMethod int  // CM, low 4 bits of CMF; must be 8 (deflate)
	CompressionInfo   int  // CINFO, high 4 bits of CMF
	CompressionLevel  int  // FLEVEL, high 2 bits of FLG
	PresetDictionary  bool // FDICT
	DictID            uint32
	headerLen         int
}

// parseHeader implements RFC 1950 §2.2: two bytes CMF|FLG, with
// (CMF*256+FLG) mod 31 == 0, and an optional 4-byte DICTID when FDICT is
// set. Preset dictionaries are a declared Non-goal of the decoder; a
// stream with FDICT set is rejected rather than silently mishandled.
func parseHeader(b []byte) (Header, error) {
	if len(b) < 2 {
		return Header{}, fmt.Errorf("%w: truncated header", ErrInvalidHeader)
	}
	cmf, flg := b[0], b[1]

	if (int(cmf)*256+int(flg))%31 != 0 {
		return Header{}, fmt.Errorf("%w: check bits do not divide by 31", ErrInvalidHeader)
	}

	h := Header{
		CompressionMethod: int(cmf & 0x0F),
		CompressionInfo:   int(cmf >> 4),
		CompressionLevel:  int(flg >> 6),
		PresetDictionary:  flg&0x20 != 0,
		headerLen:         2,
	}
	if h.CompressionMethod != 8 {
		return Header{}, fmt.Errorf("%w: unsupported compression method %d", ErrInvalidHeader, h.CompressionMethod)
	}
	if h.PresetDictionary {
		return Header{}, fmt.Errorf("%w: preset dictionaries are not supported", ErrInvalidHeader)
	}
	return h, nil
}

// Decode validates the zlib wrapper around compressed, inflates the
// embedded DEFLATE stream, verifies the Adler-32 trailer, and returns the
// decompressed bytes.
func Decode(compressed []byte) ([]byte, error) {
	return DecodeWithOptions(compressed, flate.Options{})
}

// DecodeWithOptions is Decode with explicit flate.Options (for bounding
// the maximum output size).
func DecodeWithOptions(compressed []byte, opts flate.Options) ([]byte, error) {
	h, err := parseHeader(compressed)
	if err != nil {
		return nil, err
	}
	if len(compressed) < h.headerLen+4 {
		return nil, fmt.Errorf("%w: stream too short for trailer", ErrInvalidHeader)
	}

	body := compressed[h.headerLen : len(compressed)-4]
	trailer := compressed[len(compressed)-4:]
	wantSum := uint32(trailer[0])<<24 | uint32(trailer[1])<<16 | uint32(trailer[2])<<8 | uint32(trailer[3])

	out, err := flate.InflateWithOptions(body, opts)
	if err != nil {
		return nil, err
	}

	if gotSum := adler32.Checksum(out); gotSum != wantSum {
		return nil, fmt.Errorf("%w: got %#08x want %#08x", ErrChecksumMismatch, gotSum, wantSum)
	}

	return out, nil
}
