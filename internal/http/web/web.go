package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Static holds the dashboard page and its script.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
