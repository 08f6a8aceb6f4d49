// Package fileutil loads Funk source files.
package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/zurustar/funk/pkg/compiler/token"
	"github.com/zurustar/funk/pkg/funkerr"
)

// DefaultEncoding is assumed when no source encoding is configured.
const DefaultEncoding = "utf-8"

// ReadSource reads the file at path and decodes it from the named
// encoding to UTF-8. Encoding names are WHATWG labels such as "utf-8",
// "shift_jis" or "windows-1252". When path does not exist, a file whose
// name differs only in case is used instead.
//
// Failures are reported as File errors.
func ReadSource(path, encoding string) (string, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	pos := token.Position{File: path}

	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", funkerr.Filef(pos, "Unknown source encoding %q", encoding)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if actual, ferr := FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path)); ferr == nil {
			data, err = os.ReadFile(actual)
		}
	}
	if err != nil {
		return "", funkerr.Filef(pos, "Cannot read file %s: %v", path, unwrapPathError(err))
	}

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", funkerr.Filef(pos, "Cannot decode %s as %s: %v", path, encoding, err)
	}

	// drop a UTF-8 byte order mark
	return strings.TrimPrefix(string(decoded), "\uFEFF"), nil
}

func unwrapPathError(err error) error {
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return perr.Err
	}
	return err
}

// FindFileCaseInsensitive searches for a file with the given name in the specified directory.
// The search is case-insensitive, which is useful for cross-platform compatibility.
//
// Parameters:
//   - dir: The directory to search in
//   - filename: The filename to search for (case-insensitive)
//
// Returns:
//   - string: The actual path to the file if found
//   - error: Error if the file is not found or if there's an I/O error
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	searchName := strings.ToLower(filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s)", filename, dir)
}
