package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/exhibitnet/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg override", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestNewCacheSelection(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv(envRedisAddr, "")
	t.Setenv(envMongoURI, "")
	c := New(io.Discard, LogInfo)

	got, err := c.newCache(context.Background(), true)
	if err != nil {
		t.Fatalf("newCache(noCache): %v", err)
	}
	if _, ok := got.(*cache.NullCache); !ok {
		t.Errorf("--no-cache: got %T, want *cache.NullCache", got)
	}

	got, err = c.newCache(context.Background(), false)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	fc, ok := got.(*cache.FileCache)
	if !ok {
		t.Fatalf("got %T, want *cache.FileCache", got)
	}
	if filepath.Base(fc.Dir()) != appName {
		t.Errorf("file cache dir = %q", fc.Dir())
	}
}
