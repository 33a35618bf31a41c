// Package prefix builds and decodes canonical Huffman codes as specified by
// RFC 1951 §3.2.2: a code is fully determined by a per-symbol length
// vector, with codes of equal length assigned in ascending symbol order and
// shorter codes numerically smaller than any longer code assigned later.
package prefix

import (
	"errors"
	"fmt"

	"github.com/elliotnunn/chameleon/internal/bitreader"
)

// ErrUnknownCode is returned when the accumulated bits cannot be a valid
// prefix after the table's maximum code length has been consumed.
var ErrUnknownCode = errors.New("prefix: unknown code")

// ErrUnexpectedEnd is returned when the underlying reader runs out of bits
// before a valid code is assembled. Callers must not confuse this with
// ErrUnknownCode: one means "corrupt data", the other means "truncated
// input", and spec-level error taxonomies need to tell them apart.
var ErrUnexpectedEnd = errors.New("prefix: unexpected end of input")

const maxCodeLen = 15 // RFC 1951 bounds every DEFLATE code length to 15 bits

// key identifies one assigned code. The length must be part of the key:
// code=0,length=1 and code=0,length=2 are distinct codes that happen to
// share a numeric value, and must not collide in the table.
type key struct {
	code uint16
	length uint8
}

// Table is a canonical Huffman code, represented as a sparse map from
// (code, length) to symbol. Construction is O(n) in the number of
// symbols; decoding one symbol is O(code length) bit reads plus a map probe
// per bit, which needs no memory proportional to 2^maxLength. This trades
// raw decode throughput for simplicity; see DESIGN.md for why a
// length-indexed table (the alternative RFC 1951 §3.2.2 allows) was not
// used here.
type Table struct {
	codes map[key]int
	maxLen uint8
}

// Build constructs a canonical Huffman Table from a length vector lengths,
// where lengths[i] is the code length assigned to symbol i, and 0 means the
// symbol is absent from the alphabet. An all-zero vector is legal (e.g. the
// distance alphabet of a block with no back-references) and yields a Table
// that decodes nothing; Decode calls against it always fail with
// ErrUnknownCode.
func Build(lengths []int) (*Table, error) {
	const maxLen = maxCodeLen
	var blCount [maxLen + 1]int
	maxUsed := 0
	for _, l := range lengths {
		if l == 0 {
			continue
		}
		if l < 0 || l > maxLen {
			return nil, fmt.Errorf("prefix: code length %d out of range", l)
		}
		blCount[l]++
		if l > maxUsed {
			maxUsed = l
		}
	}

	t := &Table{codes: make(map[key]int, len(lengths)), maxLen: uint8(maxUsed)}
	if maxUsed == 0 {
		return t, nil // empty alphabet: legal, e.g. an all-zero distance table
	}

	// RFC 1951 §3.2.2 steps 1-2: next_code[k] from bl_count.
	var nextCode [maxLen + 1]int
	code := 0
	for k := 1; k <= maxUsed; k++ {
		code = (code + blCount[k-1]) << 1
		nextCode[k] = code
	}

	// Step 3: assign codes to symbols in ascending index order.
	seen := 0
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		c := nextCode[l]
		nextCode[l]++
		seen++
		t.codes[key{code: uint16(c), length: uint8(l)}] = sym
	}

	if err := t.checkComplete(blCount[:maxUsed+1], seen); err != nil {
		return nil, err
	}

	return t, nil
}

// checkComplete rejects an over-subscribed code (Kraft inequality violated
// upward): if more symbols claim a length than the codespace at that depth
// allows, some codes would have to collide. A single-symbol alphabet with
// length 1 is explicitly legal per RFC 1951 §3.2.7 and is not rejected here.
func (t *Table) checkComplete(blCount []int, numSymbols int) error {
	if numSymbols == 1 {
		return nil // degenerate single-code alphabet, RFC 1951 §3.2.7
	}
	// Kraft sum over assigned lengths must not exceed 1. Compute in a
	// common denominator of 2^maxLen to stay in integers.
	total := 0
	shift := len(blCount) - 1
	for l := 1; l < len(blCount); l++ {
		total += blCount[l] << (shift - l)
	}
	if total > 1<<shift {
		return errors.New("prefix: over-subscribed code (Kraft inequality violated)")
	}
	return nil
}

// Decode consumes exactly one symbol's worth of bits from r using the
// MSB-first prefix-bit accumulation described in bitreader's package doc:
// each new bit is appended at the low end of a running code, and the
// (code, length) pair is looked up after every bit.
func (t *Table) Decode(r *bitreader.Reader) (int, error) {
	var code uint16
	var length uint8
	limit := t.maxLen
	if limit == 0 {
		return 0, ErrUnknownCode // empty alphabet: no bit pattern can match
	}
	for length < limit {
		bit, err := r.NextBit()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnexpectedEnd, err)
		}
		code = bitreader.ReadPrefixBit(code, bit)
		length++
		if sym, ok := t.codes[key{code: code, length: length}]; ok {
			return sym, nil
		}
	}
	return 0, ErrUnknownCode
}
