// Package textsource reads UTF-8 text from plain, gzip or zstd compressed files.
package textsource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrNotUTF8 is returned when decoded content is not valid UTF-8
var ErrNotUTF8 = errors.New("text is not valid UTF-8")

// Encoding names the compression of a text file
type Encoding string

const (
	Plain Encoding = ""
	Gzip  Encoding = "gzip"
	Zstd  Encoding = "zstd"
)

// EncodingOf picks the compression from the file extension
func EncodingOf(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return Plain
	}
}

type zstdReadCloser struct {
	*zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Close() error {
	z.Decoder.Close()
	return z.file.Close()
}

type gzipReadCloser struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReadCloser) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}

// Open returns a reader of the decompressed content of path
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	switch EncodingOf(path) {
	case Gzip:
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to read gzip stream %s: %w", path, err)
		}

		return &gzipReadCloser{Reader: gz, file: file}, nil
	case Zstd:
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to read zstd stream %s: %w", path, err)
		}

		return &zstdReadCloser{Decoder: dec, file: file}, nil
	default:
		return file, nil
	}
}

var bom = []byte("\xef\xbb\xbf")

// ReadText returns the whole decompressed content of path as a string.
// A leading byte order mark is dropped.
func ReadText(path string) (string, error) {
	r, err := Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	data = bytes.TrimPrefix(data, bom)

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotUTF8, path)
	}

	return string(data), nil
}

// WriteText writes text to path, compressing it according to the extension
func WriteText(path, text string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	var w io.WriteCloser

	switch EncodingOf(path) {
	case Gzip:
		w = gzip.NewWriter(file)
	case Zstd:
		w, err = zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
	default:
		_, err = io.WriteString(file, text)
		return err
	}

	if _, err := io.WriteString(w, text); err != nil {
		w.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return w.Close()
}
