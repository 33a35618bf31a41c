package flate

// Tables fixed by RFC 1951 §3.2.5 (length/distance extra bits and bases)
// and §3.2.6 (fixed Huffman code lengths), reproduced verbatim.

const (
	maxNumLit  = 288
	maxNumDist = 30
	numCLCodes = 19
	endOfBlock = 256
)

// codeLengthOrder is the permutation in which HCLEN+4 three-bit code-length
// lengths are transmitted (RFC 1951 §3.2.7).
var codeLengthOrder = [numCLCodes]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

var lengthExtraBits = [29]uint8{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

var lengthBase = [29]uint16{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var distanceExtraBits = [30]uint8{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

var distanceBase = [30]uint16{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

// fixedLitLenLengths is the fixed literal/length code of RFC 1951 §3.2.6:
// symbols 0-143 get length 8, 144-255 get length 9, 256-279 get length 7,
// 280-287 get length 8.
func fixedLitLenLengths() []int {
	l := make([]int, maxNumLit)
	for i := 0; i < 144; i++ {
		l[i] = 8
	}
	for i := 144; i < 256; i++ {
		l[i] = 9
	}
	for i := 256; i < 280; i++ {
		l[i] = 7
	}
	for i := 280; i < 288; i++ {
		l[i] = 8
	}
	return l
}

// fixedDistLengths is the trivial fixed distance table: all 32 codes have
// length 5. (Only the first 30 are ever valid symbols; 30 and 31 never
// occur in compressed data per RFC 1951 §3.2.5.)
func fixedDistLengths() []int {
	l := make([]int, 32)
	for i := range l {
		l[i] = 5
	}
	return l
}
