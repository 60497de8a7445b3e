// Package paths resolves user-supplied output locations into concrete file
// paths for the compressor and decompressor.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Ext is the extension given to compressed containers.
const Ext = ".huff"

// CompressedOutputPath resolves where a compressed container should be
// written. outputPath may be an existing directory, in which case the file
// is named after inputPath with the container extension, or an explicit path
// carrying the container extension inside an existing directory.
func CompressedOutputPath(inputPath, outputPath string) (string, error) {
	if isDir(outputPath) {
		return filepath.Join(outputPath, stripExt(filepath.Base(inputPath))+Ext), nil
	}
	if isDir(filepath.Dir(outputPath)) && filepath.Ext(outputPath) == Ext {
		return outputPath, nil
	}
	return "", errors.Errorf(
		"invalid output path %q: provide an existing directory or a file with extension %s",
		outputPath, Ext)
}

// DecompressedOutputPath resolves where decompressed text should be written:
// an existing directory gets the input's base name without its extension,
// and an explicit path inside an existing directory is used as given.
func DecompressedOutputPath(inputPath, outputPath string) (string, error) {
	if isDir(outputPath) {
		return filepath.Join(outputPath, stripExt(filepath.Base(inputPath))), nil
	}
	if isDir(filepath.Dir(outputPath)) {
		return outputPath, nil
	}
	return "", errors.Errorf("invalid output path %q: directory does not exist", outputPath)
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
