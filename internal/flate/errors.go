package flate

import "errors"

// The error taxonomy surfaced to callers of Inflate. All are fatal: the
// inflater never retries and exposes no partial output on failure.
var (
	// ErrInvalidBlock covers a malformed block header, reserved BTYPE=3,
	// a stored-block LEN/NLEN mismatch, or a misaligned stored block.
	ErrInvalidBlock = errors.New("flate: invalid block")

	// ErrInvalidSymbol covers a literal/length or distance code outside
	// its defined range, an undecodable bit pattern, or code-length
	// symbol 16 appearing with no previous length to repeat.
	ErrInvalidSymbol = errors.New("flate: invalid symbol")

	// ErrInvalidTable covers a length vector that violates the Kraft
	// inequality (over-subscribed) or yields an empty literal/length
	// alphabet.
	ErrInvalidTable = errors.New("flate: invalid huffman table")

	// ErrBackRefOutOfRange covers an LZ77 back-reference whose distance
	// exceeds the current output length.
	ErrBackRefOutOfRange = errors.New("flate: back-reference out of range")

	// ErrUnexpectedEnd covers input exhausted mid-field or mid-symbol.
	ErrUnexpectedEnd = errors.New("flate: unexpected end of input")

	// ErrOutputTooLarge is raised when the optional maximum-output-size
	// guard is breached. It is not part of spec.md's core taxonomy but is
	// named by spec.md §5 as an allowed caller-facing guard.
	ErrOutputTooLarge = errors.New("flate: output exceeds configured maximum")
)
