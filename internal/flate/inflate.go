// Package flate implements the DEFLATE compressed data format described in
// RFC 1951: stored, fixed-Huffman, and dynamic-Huffman blocks, plus LZ77
// back-reference expansion. It is a one-shot decoder — the entire input is
// decoded to a single output buffer, per spec (no streaming/partial decode).
package flate

import (
	"errors"
	"fmt"

	"github.com/elliotnunn/chameleon/internal/bitreader"
	"github.com/elliotnunn/chameleon/internal/prefix"
)

// Options configures an Inflate call.
type Options struct {
	// MaxOutputBytes, if non-zero, aborts decoding with ErrOutputTooLarge
	// once the output buffer would grow past this size. Zero means
	// unbounded. This is the optional guard named in spec.md §5; it is the
	// caller's responsibility to size it, not the inflater's.
	MaxOutputBytes int
}

// Inflate decodes a raw DEFLATE stream (no zlib or gzip framing) and
// returns the decompressed bytes. It is the spec's core entry point.
func Inflate(compressed []byte) ([]byte, error) {
	return InflateWithOptions(compressed, Options{})
}

// InflateWithOptions is Inflate with an explicit Options.
func InflateWithOptions(compressed []byte, opts Options) (out []byte, err error) {
	f := &inflater{r: bitreader.New(compressed), opts: opts}

	defer func() {
		if rec := recover(); rec != nil {
			ferr, ok := rec.(error)
			if !ok {
				panic(rec)
			}
			out, err = nil, ferr
		}
	}()

	for {
		final := f.readBlock()
		if final {
			break
		}
	}
	return f.out, nil
}

type inflater struct {
	r    *bitreader.Reader
	out  []byte
	opts Options
}

func (f *inflater) mustBits(n int) uint32 {
	v, err := f.r.ReadBitsLSBFirst(n)
	if err != nil {
		panic(fmt.Errorf("%w: %v", ErrUnexpectedEnd, err))
	}
	return v
}

// symbolDecodeErr turns a prefix.Table.Decode failure into the right
// member of the flate error taxonomy: a stream that ran out of bits
// mid-code is ErrUnexpectedEnd, never ErrInvalidSymbol, so a caller
// distinguishing truncated input from corrupt input sees the right one.
func symbolDecodeErr(err error, what string) error {
	if errors.Is(err, prefix.ErrUnexpectedEnd) {
		return fmt.Errorf("%w: %s: %v", ErrUnexpectedEnd, what, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInvalidSymbol, what, err)
}

// readBlock decodes one DEFLATE block, appending to f.out, and reports
// whether BFINAL was set (i.e. this was the last block in the stream).
func (f *inflater) readBlock() (final bool) {
	bfinal := f.mustBits(1)
	btype := f.mustBits(2)

	switch btype {
	case 0:
		f.storedBlock()
	case 1:
		f.huffmanBlock(fixedLitLenTable(), fixedDistTable())
	case 2:
		lit, dist := f.readDynamicTables()
		f.huffmanBlock(lit, dist)
	default:
		panic(fmt.Errorf("%w: reserved BTYPE 3", ErrInvalidBlock))
	}

	return bfinal == 1
}

// storedBlock implements spec.md §4.3 BTYPE=0: align to byte, read LEN and
// its complement NLEN, verify them, and copy LEN raw bytes to the output.
func (f *inflater) storedBlock() {
	f.r.AlignToByte()
	lenBytes, err := f.r.ReadRawBytes(2)
	if err != nil {
		panic(fmt.Errorf("%w: reading LEN: %v", ErrUnexpectedEnd, err))
	}
	nlenBytes, err := f.r.ReadRawBytes(2)
	if err != nil {
		panic(fmt.Errorf("%w: reading NLEN: %v", ErrUnexpectedEnd, err))
	}
	length := uint16(lenBytes[0]) | uint16(lenBytes[1])<<8
	nlen := uint16(nlenBytes[0]) | uint16(nlenBytes[1])<<8
	if nlen != ^length {
		panic(fmt.Errorf("%w: stored block LEN/NLEN mismatch", ErrInvalidBlock))
	}

	data, err := f.r.ReadRawBytes(int(length))
	if err != nil {
		panic(fmt.Errorf("%w: stored block payload: %v", ErrUnexpectedEnd, err))
	}
	f.appendOutput(data)
}

// readDynamicTables implements spec.md §4.3 BTYPE=2 steps 1-7.
func (f *inflater) readDynamicTables() (lit, dist *prefix.Table) {
	hlit := int(f.mustBits(5)) + 257
	hdist := int(f.mustBits(5)) + 1
	hclen := int(f.mustBits(4)) + 4

	var clLengths [numCLCodes]int
	for i := 0; i < hclen; i++ {
		clLengths[codeLengthOrder[i]] = int(f.mustBits(3))
	}
	// positions beyond hclen stay zero, matching codeLengthOrder's tail.

	cl, err := prefix.Build(clLengths[:])
	if err != nil {
		panic(fmt.Errorf("%w: code-length table: %v", ErrInvalidTable, err))
	}

	total := hlit + hdist
	lengths := make([]int, 0, total)
	var prev int
	havePrev := false
	for len(lengths) < total {
		sym, err := cl.Decode(f.r)
		if err != nil {
			panic(symbolDecodeErr(err, "code-length symbol"))
		}
		switch {
		case sym <= 15:
			lengths = append(lengths, sym)
			prev, havePrev = sym, true
		case sym == 16:
			if !havePrev {
				panic(fmt.Errorf("%w: repeat code 16 with no previous length", ErrInvalidSymbol))
			}
			n := int(f.mustBits(2)) + 3
			for i := 0; i < n && len(lengths) < total; i++ {
				lengths = append(lengths, prev)
			}
		case sym == 17:
			n := int(f.mustBits(3)) + 3
			for i := 0; i < n && len(lengths) < total; i++ {
				lengths = append(lengths, 0)
			}
			prev, havePrev = 0, true
		case sym == 18:
			n := int(f.mustBits(7)) + 11
			for i := 0; i < n && len(lengths) < total; i++ {
				lengths = append(lengths, 0)
			}
			prev, havePrev = 0, true
		default:
			panic(fmt.Errorf("%w: code-length symbol %d out of range", ErrInvalidSymbol, sym))
		}
	}

	litLengths := lengths[:hlit]
	distLengths := lengths[hlit : hlit+hdist]

	lit, err = prefix.Build(litLengths)
	if err != nil {
		panic(fmt.Errorf("%w: literal/length table: %v", ErrInvalidTable, err))
	}
	dist, err = prefix.Build(distLengths)
	if err != nil {
		panic(fmt.Errorf("%w: distance table: %v", ErrInvalidTable, err))
	}
	return lit, dist
}

// huffmanBlock implements the symbol loop shared by BTYPE 1 and 2
// (spec.md §4.3 "Symbol loop").
func (f *inflater) huffmanBlock(lit, dist *prefix.Table) {
	for {
		sym, err := lit.Decode(f.r)
		if err != nil {
			panic(symbolDecodeErr(err, "literal/length symbol"))
		}

		switch {
		case sym < endOfBlock:
			f.appendOutput([]byte{byte(sym)})
		case sym == endOfBlock:
			return
		case sym <= 285:
			length := int(lengthBase[sym-257])
			if extra := lengthExtraBits[sym-257]; extra > 0 {
				length += int(f.mustBits(int(extra)))
			}

			dsym, err := dist.Decode(f.r)
			if err != nil {
				panic(symbolDecodeErr(err, "distance symbol"))
			}
			if dsym >= len(distanceBase) {
				panic(fmt.Errorf("%w: distance symbol %d out of range", ErrInvalidSymbol, dsym))
			}
			distance := int(distanceBase[dsym])
			if extra := distanceExtraBits[dsym]; extra > 0 {
				distance += int(f.mustBits(int(extra)))
			}

			f.copyMatch(length, distance)
		default:
			panic(fmt.Errorf("%w: literal/length symbol %d out of range", ErrInvalidSymbol, sym))
		}
	}
}

// copyMatch implements the LZ77 back-reference copy. Per spec.md §3 and
// §5, when length > distance the copy must proceed byte-at-a-time so that
// freshly written bytes are visible to later reads within the same
// operation (run-length semantics) — appending a fully-formed slice here
// would read stale data for the overlapping tail.
func (f *inflater) copyMatch(length, distance int) {
	if distance > len(f.out) {
		panic(fmt.Errorf("%w: distance %d exceeds output length %d", ErrBackRefOutOfRange, distance, len(f.out)))
	}
	f.growCheck(length)
	start := len(f.out) - distance
	for i := 0; i < length; i++ {
		f.out = append(f.out, f.out[start+i])
	}
}

func (f *inflater) appendOutput(b []byte) {
	f.growCheck(len(b))
	f.out = append(f.out, b...)
}

func (f *inflater) growCheck(n int) {
	if f.opts.MaxOutputBytes > 0 && len(f.out)+n > f.opts.MaxOutputBytes {
		panic(fmt.Errorf("%w: would reach %d bytes, limit %d", ErrOutputTooLarge, len(f.out)+n, f.opts.MaxOutputBytes))
	}
}
