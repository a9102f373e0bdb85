package file

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

const maxLineBytes = 64 << 20

// ErrEmptyPath is returned when no file path is given.
var ErrEmptyPath = errors.New("solution file: empty path")

// Compression identifies the encoding of a solution dump.
type Compression int

const (
	None Compression = iota
	Gzip
	Bzip2
	XZ
	Zstd
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Bzip2:
		return "bzip2"
	case XZ:
		return "xz"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// CompressionFor picks the decoder from the file extension.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".bz2":
		return Bzip2
	case ".xz":
		return XZ
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// Reader loads solution files from the local filesystem.
type Reader struct{}

// NewReader constructs a filesystem reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadLines reads the whole file at path, decompressing by extension.
func (r *Reader) ReadLines(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadLines(path)
}

// ReadLines reads the whole file at path, decompressing by extension.
func ReadLines(path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("solution file: open %s: %w", path, err)
	}
	defer f.Close()

	lines, err := DecodeLines(f, CompressionFor(path))
	if err != nil {
		return nil, fmt.Errorf("solution file: %s: %w", path, err)
	}
	return lines, nil
}

// DecodeLines splits a possibly compressed stream into lines without their
// line terminators.
func DecodeLines(src io.Reader, c Compression) ([]string, error) {
	r, closeFn, err := decompress(src, c)
	if err != nil {
		return nil, err
	}
	if closeFn != nil {
		defer closeFn()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s stream: %w", c, err)
	}
	return lines, nil
}

func decompress(src io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case Gzip:
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, func() { _ = gz.Close() }, nil
	case Bzip2:
		return bzip2.NewReader(src), nil, nil
	case XZ:
		xr, err := xz.NewReader(src)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		return xr, nil, nil
	case Zstd:
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec, dec.Close, nil
	default:
		return src, nil, nil
	}
}
