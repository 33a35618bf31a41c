// Package png parses the PNG container format (ISO/IEC 15948): the
// 8-byte signature, chunk framing with CRC-32 verification, and the IHDR
// header. It hands the concatenated IDAT payload to internal/zlib and
// leaves pixel reconstruction to internal/defilter; this package only
// understands bytes, chunks, and the header fields that gate what the
// rest of the pipeline is allowed to assume.
package png

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
)

var signature = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// ErrContainer is the sentinel wrapped by every error this package
// returns; it corresponds to spec.md §7's ContainerError.
var ErrContainer = errors.New("png: container error")

// ColorType mirrors the IHDR color type byte.
type ColorType uint8

const (
	ColorGray       ColorType = 0
	ColorRGB        ColorType = 2
	ColorPalette    ColorType = 3
	ColorGrayAlpha  ColorType = 4
	ColorRGBA       ColorType = 6
)

// ancillaryChunkTypes is the set the original decoder this spec was
// distilled from recognizes explicitly. Unknown-but-well-formed chunk
// types pass through as ancillary unless Options.StrictChunkTypes is set.
var ancillaryChunkTypes = map[string]bool{
	"cHRM": true, "gAMA": true, "iCCP": true, "sBIT": true, "sRGB": true,
	"bKGD": true, "hIST": true, "tRNS": true, "pHYs": true, "sPLT": true,
	"tIME": true, "iTXt": true, "tEXt": true, "zTXt": true,
}

// IHDR is the 13-byte image header chunk (spec.md §6).
type IHDR struct {
	Width             uint32
	Height            uint32
	BitDepth          uint8
	ColorType         ColorType
	CompressionMethod uint8
	FilterMethod      uint8
	Interlace         uint8
}

// Chunk is one length-prefixed, CRC-checked PNG chunk.
type Chunk struct {
	Type string
	Data []byte
}

// Options controls parsing strictness. The zero value is the lenient,
// spec.md-compliant default.
type Options struct {
	// StrictChunkTypes rejects any chunk whose type is not one of the
	// core four (IHDR, PLTE, IDAT, IEND) or the recognized ancillary set.
	// Off by default: PNG explicitly allows private ancillary chunk types,
	// and spec.md only requires that recognized ancillary chunks be
	// "parsed but not interpreted", not that unrecognized ones be
	// rejected.
	StrictChunkTypes bool
}

// Image is the parsed, still-compressed form of a PNG file: the header,
// any palette, the concatenated (but not yet decompressed) IDAT payload,
// and the ancillary chunks encountered along the way.
type Image struct {
	IHDR       IHDR
	Palette    []byte // raw PLTE data, if present
	IDAT       []byte // all IDAT chunk payloads concatenated in file order
	Ancillary  []Chunk
}

// Parse reads a complete PNG file's bytes and returns its chunk-level
// structure without touching the compressed pixel data.
func Parse(data []byte) (*Image, error) {
	return ParseWithOptions(data, Options{})
}

// ParseWithOptions is Parse with explicit Options.
func ParseWithOptions(data []byte, opts Options) (*Image, error) {
	if len(data) < 8 || [8]byte(data[:8]) != signature {
		return nil, fmt.Errorf("%w: missing PNG signature", ErrContainer)
	}

	img := &Image{}
	var haveIHDR bool
	pos := 8
	for {
		if pos == len(data) {
			return nil, fmt.Errorf("%w: truncated file, no IEND chunk", ErrContainer)
		}
		chunk, consumed, err := parseChunk(data[pos:])
		if err != nil {
			return nil, err
		}
		pos += consumed

		switch chunk.Type {
		case "IHDR":
			ihdr, err := parseIHDR(chunk.Data)
			if err != nil {
				return nil, err
			}
			img.IHDR = ihdr
			haveIHDR = true
		case "PLTE":
			img.Palette = chunk.Data
		case "IDAT":
			img.IDAT = append(img.IDAT, chunk.Data...)
		case "IEND":
			if !haveIHDR {
				return nil, fmt.Errorf("%w: IEND with no IHDR", ErrContainer)
			}
			return img, nil
		default:
			if opts.StrictChunkTypes && !ancillaryChunkTypes[chunk.Type] {
				return nil, fmt.Errorf("%w: unrecognized chunk type %q", ErrContainer, chunk.Type)
			}
			img.Ancillary = append(img.Ancillary, chunk)
		}
	}
}

// parseChunk reads one chunk from the front of buf and returns it along
// with the number of bytes consumed (length field + type + data + CRC).
// A chunk that is truncated or fails its CRC is a hard ContainerError:
// per spec.md §9's corrected behavior, callers must never treat a
// malformed chunk as a silent end-of-file.
func parseChunk(buf []byte) (Chunk, int, error) {
	if len(buf) < 8 {
		return Chunk{}, 0, fmt.Errorf("%w: truncated chunk header", ErrContainer)
	}
	length := binary.BigEndian.Uint32(buf[0:4])
	typ := string(buf[4:8])

	total := 8 + int(length) + 4
	if total < 0 || total > len(buf) {
		return Chunk{}, 0, fmt.Errorf("%w: chunk %q length %d exceeds remaining data", ErrContainer, typ, length)
	}

	data := buf[8 : 8+length]
	wantCRC := binary.BigEndian.Uint32(buf[8+length : total])

	gotCRC := crc32.ChecksumIEEE(buf[4 : 8+length])
	if gotCRC != wantCRC {
		return Chunk{}, 0, fmt.Errorf("%w: chunk %q CRC mismatch", ErrContainer, typ)
	}

	return Chunk{Type: typ, Data: data}, total, nil
}

// parseIHDR decodes the 13-byte IHDR payload and rejects anything the
// decoder cannot handle, per spec.md's Non-goals: interlacing, palette
// color, non-8 bit depths.
func parseIHDR(data []byte) (IHDR, error) {
	if len(data) != 13 {
		return IHDR{}, fmt.Errorf("%w: IHDR must be 13 bytes, got %d", ErrContainer, len(data))
	}
	h := IHDR{
		Width:             binary.BigEndian.Uint32(data[0:4]),
		Height:            binary.BigEndian.Uint32(data[4:8]),
		BitDepth:          data[8],
		ColorType:         ColorType(data[9]),
		CompressionMethod: data[10],
		FilterMethod:      data[11],
		Interlace:         data[12],
	}
	if h.CompressionMethod != 0 {
		return IHDR{}, fmt.Errorf("%w: unsupported compression method %d", ErrContainer, h.CompressionMethod)
	}
	if h.FilterMethod != 0 {
		return IHDR{}, fmt.Errorf("%w: unsupported filter method %d", ErrContainer, h.FilterMethod)
	}
	if h.Interlace != 0 {
		return IHDR{}, fmt.Errorf("%w: interlaced PNGs are not supported", ErrContainer)
	}
	if h.ColorType != ColorRGB {
		return IHDR{}, fmt.Errorf("%w: only color type 2 (RGB) is supported, got %d", ErrContainer, h.ColorType)
	}
	if h.BitDepth != 8 {
		return IHDR{}, fmt.Errorf("%w: only bit depth 8 is supported, got %d", ErrContainer, h.BitDepth)
	}
	return h, nil
}

// BytesPerPixel returns bpp for the image's color type and bit depth, as
// used by the scanline defilter (spec.md glossary: "bpp").
func (h IHDR) BytesPerPixel() int {
	switch h.ColorType {
	case ColorRGB:
		return 3 * int(h.BitDepth) / 8
	case ColorRGBA:
		return 4 * int(h.BitDepth) / 8
	case ColorGrayAlpha:
		return 2 * int(h.BitDepth) / 8
	case ColorGray:
		return int(h.BitDepth) / 8
	default:
		return 0
	}
}
