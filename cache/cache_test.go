package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/soypat/wardrobe/layout"
)

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	c := Discard
	defer c.Close()
	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Discard hit=%v err=%v", hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Error(err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "missing"); hit || err != nil {
		t.Fatalf("miss: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("stl bytes"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || !bytes.Equal(data, []byte("stl bytes")) {
		t.Fatalf("got %q hit=%v err=%v", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing entry: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("fresh entry missed")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	name := c.path("k")
	os.MkdirAll(filepath.Dir(name), 0o755)
	if err := os.WriteFile(name, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestKey(t *testing.T) {
	a := layout.Defaults()
	b := layout.Defaults()
	if Key("stl", a) != Key("stl", b) {
		t.Error("equal specs give different keys")
	}
	if Key("stl", a) == Key("png", a) {
		t.Error("kinds share a key")
	}
	b.ComboCount++
	if Key("stl", a) == Key("stl", b) {
		t.Error("different specs share a key")
	}
	if h := Hash([]byte("x")); len(h) != 64 {
		t.Errorf("hash length %d", len(h))
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if c != Discard {
		t.Errorf("empty kind opened %T", c)
	}
	c, err = Open(ctx, Config{Kind: "file", Dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*FileCache); !ok {
		t.Errorf("file kind opened %T", c)
	}
	if _, err := Open(ctx, Config{Kind: "file"}); err == nil {
		t.Error("file cache without directory")
	}
	if _, err := Open(ctx, Config{Kind: "memcached"}); err == nil {
		t.Error("unknown kind accepted")
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if _, err := Open(ctx, Config{Kind: "redis", RedisAddr: "127.0.0.1:1"}); err == nil {
		t.Error("unreachable redis accepted")
	}
}

func TestConfigTOML(t *testing.T) {
	var cfg Config
	_, err := toml.Decode(`
kind = "file"
dir = "/tmp/wardrobe"
ttl = "90m"
`, &cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Kind != "file" || time.Duration(cfg.TTL) != 90*time.Minute {
		t.Errorf("decoded %+v", cfg)
	}
}
