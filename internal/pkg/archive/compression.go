package archive

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// Compression identifies the compression of a tar stream
type Compression int

// Known compressions
const (
	Uncompressed Compression = iota
	Bzip2
	Gzip
)

// Extension returns the file extension used for archives with this compression
func (c Compression) Extension() string {
	switch c {
	case Uncompressed:
		return "tar"
	case Bzip2:
		return "tar.bz2"
	case Gzip:
		return "tar.gz"
	}
	return "[unknown]"
}

var magics = []struct {
	compression Compression
	magic       []byte
}{
	{Bzip2, []byte{0x42, 0x5A, 0x68}},
	{Gzip, []byte{0x1F, 0x8B, 0x08}},
}

// DetectCompression inspects the first bytes of a stream
func DetectCompression(header []byte) Compression {
	for _, m := range magics {
		if len(header) >= len(m.magic) && bytes.Equal(m.magic, header[:len(m.magic)]) {
			return m.compression
		}
	}
	return Uncompressed
}

// Decompress detects the compression of stream and returns a reader of the plain tar bytes
func Decompress(stream io.Reader) (io.Reader, Compression, error) {
	buf := bufio.NewReaderSize(stream, 8*1024)
	header, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, Uncompressed, fmt.Errorf("failed to read archive header: %w", err)
	}

	compression := DetectCompression(header)
	switch compression {
	case Bzip2:
		r, err := bzip2.NewReader(buf, nil)
		if err != nil {
			return nil, compression, fmt.Errorf("failed to open bzip2 stream: %w", err)
		}
		return r, compression, nil
	case Gzip:
		r, err := gzip.NewReader(buf)
		if err != nil {
			return nil, compression, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return r, compression, nil
	default:
		return buf, compression, nil
	}
}
