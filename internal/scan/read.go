package scan

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when a transcript file does not exist.
var ErrNotFound = errors.New("transcript not found")

const maxTranscriptSize = 64 * 1024 * 1024 // 64MB

// Read returns the raw text of a transcript file, decompressing .zst
// files. Retrieval failures are returned, never replaced by empty text.
func Read(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("zstd reader: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	data, err := io.ReadAll(io.LimitReader(r, maxTranscriptSize+1))
	if err != nil {
		return "", fmt.Errorf("read transcript %s: %w", path, err)
	}
	if len(data) > maxTranscriptSize {
		return "", fmt.Errorf("read transcript %s: larger than %d bytes", path, maxTranscriptSize)
	}
	return string(data), nil
}
