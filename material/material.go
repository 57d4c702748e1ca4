// Package material enumerates the appearance materials that can be applied
// to a wardrobe and resolves wood materials by name.
package material

import (
	"embed"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
)

// Property keys and values identifying a wood material.
const (
	TypeProperty = "physmat_Type"
	WoodType     = "physmat_wood"
)

var ErrNotFound = errors.New("material not found")

// Material is a named physical material.
type Material struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
	// Library is the name of the library the material was loaded from.
	Library    string            `toml:"-" json:"library"`
	Properties map[string]string `toml:"properties" json:"properties,omitempty"`
	// Color is the hex appearance color, e.g. "#B8894F".
	Color string `toml:"color" json:"color"`
	// Density in kg/m³.
	Density float64 `toml:"density" json:"density"`
}

// IsWood reports whether the material's physical type is wood.
func (m Material) IsWood() bool { return m.Properties[TypeProperty] == WoodType }

// RGBA parses the material color. The leading '#' is optional.
func (m Material) RGBA() (color.RGBA, error) {
	s := strings.TrimPrefix(m.Color, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("material %q: bad color %q", m.Name, m.Color)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("material %q: bad color %q: %w", m.Name, m.Color, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Library is an ordered collection of materials.
type Library struct {
	Name      string     `toml:"name"`
	Materials []Material `toml:"material"`
}

// LoadLibrary decodes a TOML material library.
func LoadLibrary(r io.Reader) (Library, error) {
	var lib Library
	if _, err := toml.NewDecoder(r).Decode(&lib); err != nil {
		return Library{}, fmt.Errorf("decoding material library: %w", err)
	}
	if lib.Name == "" {
		return Library{}, errors.New("material library has no name")
	}
	for i := range lib.Materials {
		m := &lib.Materials[i]
		if m.Name == "" {
			return Library{}, fmt.Errorf("library %q: material %d has no name", lib.Name, i)
		}
		m.Library = lib.Name
	}
	return lib, nil
}

// LoadLibraryFile reads a TOML material library from disk.
func LoadLibraryFile(name string) (Library, error) {
	fp, err := os.Open(name)
	if err != nil {
		return Library{}, err
	}
	defer fp.Close()
	lib, err := LoadLibrary(fp)
	if err != nil {
		return Library{}, fmt.Errorf("%s: %w", name, err)
	}
	return lib, nil
}

//go:embed libraries/*.toml
var embedded embed.FS

// Source enumerates material libraries.
type Source func() ([]Library, error)

// Embedded returns the libraries shipped with the program: the wood library
// first, then the rest ordered by file name.
func Embedded() Source {
	return func() ([]Library, error) {
		entries, err := embedded.ReadDir("libraries")
		if err != nil {
			return nil, err
		}
		sort.Slice(entries, func(i, j int) bool {
			// Wood library first, as it is the one users pick from.
			wi, wj := entries[i].Name() == "wood.toml", entries[j].Name() == "wood.toml"
			if wi != wj {
				return wi
			}
			return entries[i].Name() < entries[j].Name()
		})
		libs := make([]Library, 0, len(entries))
		for _, e := range entries {
			fp, err := embedded.Open(path.Join("libraries", e.Name()))
			if err != nil {
				return nil, err
			}
			lib, err := LoadLibrary(fp)
			fp.Close()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Name(), err)
			}
			libs = append(libs, lib)
		}
		return libs, nil
	}
}

// Files returns a Source reading the named TOML libraries in order.
func Files(names ...string) Source {
	return func() ([]Library, error) {
		libs := make([]Library, 0, len(names))
		for _, name := range names {
			lib, err := LoadLibraryFile(name)
			if err != nil {
				return nil, err
			}
			libs = append(libs, lib)
		}
		return libs, nil
	}
}

// Static returns a Source over fixed libraries.
func Static(libs ...Library) Source {
	return func() ([]Library, error) { return libs, nil }
}

// Chain concatenates the libraries of several sources.
func Chain(sources ...Source) Source {
	return func() ([]Library, error) {
		var all []Library
		for _, src := range sources {
			libs, err := src()
			if err != nil {
				return nil, err
			}
			all = append(all, libs...)
		}
		return all, nil
	}
}
