// Package romutil loads a ROM image from disk, transparently unpacking a
// 7-Zip archive when the path names one. Real-world ROM preservation
// archives frequently ship a single .gb/.gbc file inside a .7z container.
package romutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bodgit/sevenzip"
)

// Load reads the ROM bytes at path, unpacking it first if path ends in
// ".7z". It returns the first entry whose name ends in .gb, .gbc, or .sgb.
func Load(path string) ([]byte, error) {
	if !strings.EqualFold(extOf(path), ".7z") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("romutil: %w", err)
		}
		return data, nil
	}
	return loadArchive(path)
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func loadArchive(path string) ([]byte, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("romutil: open archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		ext := strings.ToLower(extOf(f.Name))
		if ext != ".gb" && ext != ".gbc" && ext != ".sgb" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("romutil: open %s: %w", f.Name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("romutil: read %s: %w", f.Name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("romutil: no rom entry found in %s", path)
}
