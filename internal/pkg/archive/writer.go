// Package archive writes and reads the bzip2 compressed tar archives used for OCR dumps.
package archive

import (
	"archive/tar"
	"bytes"
	"crypto/sha1" // #nosec G505 -- sha1 is the published checksum of OCR dumps
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"time"

	"github.com/dsnet/compress/bzip2"
)

// MemberMode is the permission bits of every archive member
const MemberMode = 0644

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// Writer produces a bzip2 compressed tar stream and accounts for the size and
// sha1 of the compressed bytes as they are written to the destination.
type Writer struct {
	tw      *tar.Writer
	bz      *bzip2.Writer
	hasher  hash.Hash
	counter *countingWriter
	members int
	closed  bool
}

// NewWriter wraps dst
func NewWriter(dst io.Writer) (*Writer, error) {
	hasher := sha1.New() // #nosec G401
	counter := &countingWriter{}

	bz, err := bzip2.NewWriter(io.MultiWriter(dst, hasher, counter), &bzip2.WriterConfig{
		Level: bzip2.BestCompression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bzip2 writer: %w", err)
	}

	return &Writer{
		tw:      tar.NewWriter(bz),
		bz:      bz,
		hasher:  hasher,
		counter: counter,
	}, nil
}

// AddBytes writes a regular file member holding data
func (w *Writer) AddBytes(name string, data []byte, mtime time.Time) error {
	return w.AddReader(name, int64(len(data)), bytes.NewReader(data), mtime)
}

// AddReader writes a regular file member of exactly size bytes read from r
func (w *Writer) AddReader(name string, size int64, r io.Reader, mtime time.Time) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Size:     size,
		Mode:     MemberMode,
		ModTime:  mtime.Truncate(time.Second),
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write header for %s: %w", name, err)
	}

	n, err := io.Copy(w.tw, r)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if n != size {
		return fmt.Errorf("failed to write %s: wrote %d of %d bytes", name, n, size)
	}

	w.members++
	return nil
}

// Members returns the number of members written so far
func (w *Writer) Members() int {
	return w.members
}

// Close flushes the tar and bzip2 streams. Size and Sha1 are final afterwards.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.tw.Close(); err != nil {
		return fmt.Errorf("failed to close tar stream: %w", err)
	}
	if err := w.bz.Close(); err != nil {
		return fmt.Errorf("failed to close bzip2 stream: %w", err)
	}
	return nil
}

// Size returns the number of compressed bytes written
func (w *Writer) Size() int64 {
	return w.counter.n
}

// Sha1 returns the hex encoded sha1 of the compressed bytes written
func (w *Writer) Sha1() string {
	return hex.EncodeToString(w.hasher.Sum(nil))
}
