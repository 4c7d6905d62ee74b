package archive

import (
	"archive/tar"
	"crypto/sha1" // #nosec G505
	"encoding/hex"
	"fmt"
	"io"
)

// Members lists the headers of every member of a (possibly compressed) tar stream
func Members(r io.Reader) ([]*tar.Header, error) {
	plain, _, err := Decompress(r)
	if err != nil {
		return nil, err
	}

	var headers []*tar.Header
	tr := tar.NewReader(plain)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return headers, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read archive member: %w", err)
		}
		headers = append(headers, hdr)
	}
}

// Checksum reads r to the end and returns its size and hex sha1
func Checksum(r io.Reader) (int64, string, error) {
	hasher := sha1.New() // #nosec G401
	n, err := io.Copy(hasher, r)
	if err != nil {
		return n, "", fmt.Errorf("failed to checksum: %w", err)
	}
	return n, hex.EncodeToString(hasher.Sum(nil)), nil
}
