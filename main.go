// Command chameleon decodes PNG images to binary PPM files.
//
// Each argument is a doublestar glob (or a plain path, which is just a
// glob with no wildcards); every matching file is decoded independently
// and a sibling ".ppm" file is written next to it. A failure on one file
// is logged and does not stop the batch.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/elliotnunn/chameleon/internal/decodecache"
	"github.com/elliotnunn/chameleon/internal/defilter"
	"github.com/elliotnunn/chameleon/internal/flate"
	"github.com/elliotnunn/chameleon/internal/mmapfile"
	"github.com/elliotnunn/chameleon/internal/png"
	"github.com/elliotnunn/chameleon/internal/ppm"
	"github.com/elliotnunn/chameleon/internal/zlib"
)

// maxOutputBytes bounds decompressed IDAT size, guarding against a
// maliciously or accidentally huge declared image. Overridable with
// CHAMELEON_MAX_OUTPUT_MB, the same os.Getenv-driven config pattern the
// teacher uses for its own memory limit (BEGB).
var maxOutputBytes = calcMaxOutputBytes()

func calcMaxOutputBytes() int {
	const defaultMiB = 256
	if e := os.Getenv("CHAMELEON_MAX_OUTPUT_MB"); e != "" {
		n, err := strconv.Atoi(e)
		if err != nil || n <= 0 {
			panic("malformed CHAMELEON_MAX_OUTPUT_MB environment variable, should be a positive integer: " + e)
		}
		return n * 1024 * 1024
	}
	return defaultMiB * 1024 * 1024
}

// cacheDir points the on-disk decode cache at a directory, if set.
// Unset by default: most invocations decode a batch once and exit, so
// the warm tier only pays for itself when CHAMELEON_CACHE_DIR opts in.
var cacheDir = os.Getenv("CHAMELEON_CACHE_DIR")

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: chameleon <path-or-glob>...")
		os.Exit(2)
	}

	cache, err := decodecache.Open(cacheDir)
	if err != nil {
		slog.Error("cacheOpenFailed", "dir", cacheDir, "err", err)
		os.Exit(1)
	}
	defer cache.Close()

	var failures atomic.Int64

	var paths []string
	for _, pattern := range os.Args[1:] {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			slog.Error("badGlob", "pattern", pattern, "err", err)
			failures.Add(1)
			continue
		}
		if len(matches) == 0 {
			matches = []string{pattern} // treat a plain, non-matching path as itself
		}
		paths = append(paths, matches...)
	}

	// Each matched file decodes independently, so the batch fans out across
	// a fixed-size worker pool rather than one goroutine per file.
	work := make(chan string)
	var wg sync.WaitGroup
	for range runtime.GOMAXPROCS(-1) {
		wg.Go(func() {
			for path := range work {
				if err := decodeOne(cache, path); err != nil {
					slog.Error("decodeFailed", "path", path, "err", err)
					failures.Add(1)
					continue
				}
				slog.Info("decodeOK", "path", path)
			}
		})
	}
	for _, path := range paths {
		work <- path
	}
	close(work)
	wg.Wait()

	if failures.Load() > 0 {
		os.Exit(1)
	}
}

func decodeOne(cache *decodecache.Cache, path string) error {
	f, err := mmapfile.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	encoded := f.Bytes()
	key := decodecache.KeyOf(encoded)

	pixels, width, height, ok := cachedPixels(cache, key)
	if !ok {
		pixels, width, height, err = decodePNG(encoded)
		if err != nil {
			return err
		}
		cache.Put(key, packCachedPixels(width, height, pixels))
	}

	img, err := ppm.New(width, height, pixels)
	if err != nil {
		return fmt.Errorf("building PPM for %s: %w", path, err)
	}

	outPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".ppm"
	if err := img.WriteFile(outPath); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}

// decodePNG runs the full container -> zlib -> inflate -> defilter
// pipeline (spec.md §1) over one complete PNG file's bytes.
func decodePNG(encoded []byte) (pixels []byte, width, height int, err error) {
	img, err := png.Parse(encoded)
	if err != nil {
		return nil, 0, 0, err
	}

	filtered, err := zlib.DecodeWithOptions(img.IDAT, flate.Options{MaxOutputBytes: maxOutputBytes})
	if err != nil {
		return nil, 0, 0, err
	}

	width, height = int(img.IHDR.Width), int(img.IHDR.Height)
	bpp := img.IHDR.BytesPerPixel()
	stride := width * bpp

	pixels, err = defilter.Reconstruct(filtered, height, stride, bpp)
	if err != nil {
		return nil, 0, 0, err
	}
	return pixels, width, height, nil
}

// packCachedPixels and cachedPixels fold width/height into the cached
// blob so a cache hit doesn't need to re-read the PNG header.
func packCachedPixels(width, height int, pixels []byte) []byte {
	out := make([]byte, 8+len(pixels))
	putUint32(out[0:4], uint32(width))
	putUint32(out[4:8], uint32(height))
	copy(out[8:], pixels)
	return out
}

func cachedPixels(cache *decodecache.Cache, key decodecache.Key) (pixels []byte, width, height int, ok bool) {
	blob, hit := cache.Get(key)
	if !hit || len(blob) < 8 {
		return nil, 0, 0, false
	}
	width = int(getUint32(blob[0:4]))
	height = int(getUint32(blob[4:8]))
	return blob[8:], width, height, true
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
