// Package shareddata exposes the definition artifacts bundled with deckcal.
package shareddata

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
)

//go:embed data
var files embed.FS

// Load returns the raw bytes of the artifact at the given slash-separated
// path, relative to the data root (e.g. "module/schemas/2.json").
// Missing artifacts return an error wrapping fs.ErrNotExist.
func Load(name string) ([]byte, error) {
	data, err := files.ReadFile(path.Join("data", name))
	if err != nil {
		return nil, fmt.Errorf("shared data %s: %w", name, err)
	}
	return data, nil
}

// FS returns the artifact tree rooted at the data directory.
func FS() fs.FS {
	sub, err := fs.Sub(files, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
