package flate

import (
	"sync"

	"github.com/elliotnunn/chameleon/internal/prefix"
)

// The fixed Huffman tables (RFC 1951 §3.2.6) are identical for every BTYPE=1
// block in every stream ever decoded, so they are built once lazily and
// reused, the same way the teacher's fixedHuffmanDecoderInit guards
// construction with a sync.Once.
var (
	fixedOnce          sync.Once
	fixedLitLen        *prefix.Table
	fixedDist          *prefix.Table
)

func initFixedTables() {
	var err error
	fixedLitLen, err = prefix.Build(fixedLitLenLengths())
	if err != nil {
		panic(err) // the RFC 1951 fixed lengths are always a valid code
	}
	fixedDist, err = prefix.Build(fixedDistLengths())
	if err != nil {
		panic(err)
	}
}

func fixedLitLenTable() *prefix.Table {
	fixedOnce.Do(initFixedTables)
	return fixedLitLen
}

func fixedDistTable() *prefix.Table {
	fixedOnce.Do(initFixedTables)
	return fixedDist
}
