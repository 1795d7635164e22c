package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreWriteAndOpen(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	key, err := store.Write(context.Background(), "clips/demo.mp4", []byte("payload"))
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if key != "clips/demo.mp4" {
		t.Fatalf("unexpected key: %q", key)
	}
	f, info, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer f.Close()
	if info.Size() != int64(len("payload")) {
		t.Fatalf("unexpected size: %d", info.Size())
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected content: %q", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	base := t.TempDir()
	store, err := NewFileStore(base)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	for _, key := range []string{"../escape.mp4", "", "   ", "a/../../b"} {
		if _, err := store.Write(context.Background(), key, []byte("x")); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(base), "escape.mp4")); !os.IsNotExist(err) {
		t.Fatal("traversal key escaped the store root")
	}
}

func TestFileStoreRequiresBasePath(t *testing.T) {
	if _, err := NewFileStore("  "); err == nil {
		t.Fatal("empty base path should fail")
	}
}
