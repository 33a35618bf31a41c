//go:build !unix

package mmapfile

import "os"

func openPlatform(f *os.File, size int64) (*File, error) {
	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return &File{data: buf}, nil
}
