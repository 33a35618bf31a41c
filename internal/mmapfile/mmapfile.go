// Package mmapfile reads whole input files into memory, preferring an
// mmap on platforms that support it so that large PNGs don't force a
// full read-and-copy before decoding starts. The split between
// mmapfile_unix.go and mmapfile_others.go follows the same
// build-tag-per-platform layout internal/fileid uses.
package mmapfile

import "os"

// File is a read-only view of a file's bytes, backed by either an mmap
// or a plain in-memory buffer.
type File struct {
	data   []byte
	closer func() error
}

// Bytes returns the file's contents. The slice is only valid until
// Close is called.
func (f *File) Bytes() []byte { return f.data }

// Close releases any OS resources (the mmap, if one was used).
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer()
}

// Open maps or reads the named file in full.
func Open(path string) (*File, error) {
	osf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer osf.Close()

	info, err := osf.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return &File{data: nil}, nil
	}

	return openPlatform(osf, info.Size())
}
