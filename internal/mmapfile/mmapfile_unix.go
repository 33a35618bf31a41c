//go:build unix

package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

func openPlatform(f *os.File, size int64) (*File, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return readFallback(f, size)
	}
	return &File{
		data:   data,
		closer: func() error { return unix.Munmap(data) },
	}, nil
}

func readFallback(f *os.File, size int64) (*File, error) {
	buf := make([]byte, size)
	if _, err := f.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return &File{data: buf}, nil
}
