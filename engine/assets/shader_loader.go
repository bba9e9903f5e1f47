// Package assets resolves shader sources. Files under ./assets/shaders on disk
// override the copies compiled into the binary, so shaders can be edited without
// a rebuild.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed shaders/*.vert shaders/*.frag
var builtin embed.FS

// ShaderDir is the on-disk override directory.
var ShaderDir = filepath.Join("assets", "shaders")

// LoadShader reads a GLSL file into a null-terminated string for OpenGL.
func LoadShader(name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(ShaderDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		b, err = builtin.ReadFile("shaders/" + name)
	}
	if err != nil {
		return "", fmt.Errorf("load shader %q: %w", name, err)
	}
	// Ensure null termination for gl.Str
	if len(b) == 0 || b[len(b)-1] != 0 {
		b = append(b, 0)
	}
	return string(b), nil
}

// LoadProgram loads a vertex/fragment pair sharing a base name.
func LoadProgram(base string) (vert, frag string, err error) {
	if vert, err = LoadShader(base + ".vert"); err != nil {
		return "", "", err
	}
	if frag, err = LoadShader(base + ".frag"); err != nil {
		return "", "", err
	}
	return vert, frag, nil
}
