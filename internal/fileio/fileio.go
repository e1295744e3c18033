// Package fileio verifies input files against sha256 digests. It parses
// sha256sum-style hash tables and wraps readers so that a digest mismatch
// is detected as soon as the file has been read to the end.
package fileio

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// ErrHashMismatch is returned when a file's content does not match its
// expected digest.
var ErrHashMismatch = errors.New("sha256 mismatch")

// LoadHashTable parses a sha256sum-format file: one "<digest>  <filename>"
// line per entry, two spaces between the fields. Returns filename -> digest.
func LoadHashTable(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening hash table: %w", err)
	}
	defer f.Close()

	table := make(map[string]string)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		digest, name, ok := strings.Cut(text, "  ")
		if !ok {
			return nil, fmt.Errorf("hash table %s:%d: malformed line %q", path, line, text)
		}
		table[name] = digest
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading hash table: %w", err)
	}
	return table, nil
}

// Reader wraps an io.Reader and folds every byte read into a sha256
// digest. When the underlying reader reports EOF, the digest is compared
// against the expected value and ErrHashMismatch is returned in place of
// EOF on disagreement. The caller must therefore read to the end for
// verification to happen.
type Reader struct {
	r        io.Reader
	h        hash.Hash
	want     string
	verified bool
}

// NewReader wraps r with digest verification against the hex digest want.
func NewReader(r io.Reader, want string) *Reader {
	return &Reader{r: r, h: sha256.New(), want: strings.ToLower(want)}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		r.h.Write(p[:n]) // hash.Hash never returns an error
	}
	if errors.Is(err, io.EOF) && !r.verified {
		r.verified = true
		if got := hex.EncodeToString(r.h.Sum(nil)); got != r.want {
			return n, fmt.Errorf("%w: got %s, want %s", ErrHashMismatch, got, r.want)
		}
	}
	return n, err
}

// VerifyFile reads the file at path in full and checks it against the hex
// digest want.
func VerifyFile(path, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(io.Discard, NewReader(f, want)); err != nil {
		return fmt.Errorf("verifying %s: %w", path, err)
	}
	return nil
}
