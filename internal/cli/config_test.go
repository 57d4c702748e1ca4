package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/soypat/wardrobe/layout"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const testLibrary = `name = "Shop"

[[material]]
id = "shop-teak"
name = "Teak"
color = "#9C6B3C"
density = 650
[material.properties]
physmat_Type = "physmat_wood"
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	lib := writeFile(t, dir, "shop.toml", testLibrary)
	path := writeFile(t, dir, "wardrobe.toml", `
[defaults]
width = 150
combo_count = 3

[materials]
libraries = ["`+filepath.ToSlash(lib)+`"]

[cache]
kind = "file"
dir = "cache"
ttl = "2h"

[render]
width = 320
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := layout.Defaults()
	want.Width, want.ComboCount = 150, 3
	if cfg.Defaults != want {
		t.Errorf("defaults %+v, want %+v", cfg.Defaults, want)
	}
	if time.Duration(cfg.Cache.TTL) != 2*time.Hour || cfg.Cache.Kind != "file" {
		t.Errorf("cache config %+v", cfg.Cache)
	}
	if cfg.Render.Width != 320 || cfg.Render.Height != defaultConfig().Render.Height {
		t.Errorf("render config %+v", cfg.Render)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr %q", cfg.Server.Addr)
	}
	c := &CLI{cfg: cfg}
	mats, err := c.resolver()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mats.Resolve("Teak"); !ok {
		t.Error("library from config not loaded")
	}
	if _, ok := mats.Resolve("Walnut"); !ok {
		t.Error("built-in libraries dropped")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing explicit config accepted")
	}
	path := writeFile(t, dir, "bad.toml", "[defaults]\nwidht = 100\n")
	_, err := loadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "widht") {
		t.Errorf("unknown key not reported: %v", err)
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardrobe.toml")
	if err := writeConfig(path, defaultConfig()); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Defaults != layout.Defaults() || cfg.Render != defaultConfig().Render {
		t.Errorf("got %+v", cfg)
	}
}
