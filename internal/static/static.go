package static

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static/*
var StaticFS embed.FS

// Assets returns the embedded assets rooted at the static directory, ready to be served under /static.
func Assets() (fs.FS, error) {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded static files: %w", err)
	}
	return sub, nil
}
