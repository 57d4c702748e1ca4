package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/soypat/wardrobe/cache"
	"github.com/soypat/wardrobe/layout"
	"github.com/soypat/wardrobe/material"
	"github.com/soypat/wardrobe/preview"
)

// defaultConfigFile is read from the working directory when --config is
// not given. It may be absent.
const defaultConfigFile = "wardrobe.toml"

// Config is the contents of wardrobe.toml.
type Config struct {
	// Defaults are the wardrobe parameters used for flags that are not set.
	Defaults  layout.Spec     `toml:"defaults"`
	Materials MaterialsConfig `toml:"materials"`
	Server    ServerConfig    `toml:"server"`
	Cache     cache.Config    `toml:"cache"`
	Render    RenderConfig    `toml:"render"`
}

type MaterialsConfig struct {
	// Libraries are TOML material libraries read after the built-in ones.
	Libraries []string `toml:"libraries"`
	// NoEmbedded drops the built-in libraries.
	NoEmbedded bool `toml:"no_embedded"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// RenderConfig sets the PNG preview size in pixels.
type RenderConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

func defaultConfig() Config {
	return Config{
		Defaults: layout.Defaults(),
		Server:   ServerConfig{Addr: ":8080"},
		Cache:    cache.Config{Kind: "none"},
		Render:   RenderConfig{Width: preview.DefaultWidth, Height: preview.DefaultHeight},
	}
}

// loadConfig decodes path over the defaults. An empty path reads
// defaultConfigFile if it exists. Unknown keys are an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultConfig(), nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// materialSource returns the libraries selected by the config.
func (c Config) materialSource() material.Source {
	var sources []material.Source
	if !c.Materials.NoEmbedded {
		sources = append(sources, material.Embedded())
	}
	if len(c.Materials.Libraries) > 0 {
		sources = append(sources, material.Files(c.Materials.Libraries...))
	}
	return material.Chain(sources...)
}

func (c Config) previewOptions() preview.Options {
	return preview.Options{Width: c.Render.Width, Height: c.Render.Height}
}

// writeConfig encodes cfg as TOML.
func writeConfig(path string, cfg Config) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(fp).Encode(cfg); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
