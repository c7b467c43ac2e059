// Package source reads DDL documents from files and live servers.
package source

import (
	"context"
	"log/slog"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// File reads a DDL document from a UTF-8 text file.
type File struct {
	Path string
}

// Read implements analyzer.Source.
func (f *File) Read(_ context.Context) (string, error) {
	slog.Debug("Reading SQL file", "file", f.Path)
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read SQL file: %s", f.Path)
	}
	if !utf8.Valid(data) {
		return "", errors.Errorf("SQL file %s is not valid UTF-8", f.Path)
	}
	slog.Debug("SQL file read successfully", "size", len(data))
	return string(data), nil
}
