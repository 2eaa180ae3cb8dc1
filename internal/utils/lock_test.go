package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileLock(t *testing.T) {
	doc := filepath.Join(t.TempDir(), "player.json")
	l, err := NewFileLock(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Lock(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(doc + lockFileSuffix); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}
	info, err := os.Stat(doc + lockFileSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Unlock(); err != nil {
		t.Fatal(err)
	}
	after, err := os.Stat(doc + lockFileSuffix)
	if err != nil {
		t.Fatalf("lock file removed on unlock: %v", err)
	}
	if !os.SameFile(info, after) {
		t.Fatal("lock file was replaced")
	}

	// A second lock on the same document reuses the file.
	other, err := NewFileLock(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := other.Lock(); err != nil {
		t.Fatal(err)
	}
	defer other.Unlock()
	again, err := os.Stat(doc + lockFileSuffix)
	if err != nil || !os.SameFile(info, again) {
		t.Fatalf("second lock did not reuse the lock file: %v", err)
	}
}

func TestGetAbsDBPath(t *testing.T) {
	p, err := GetAbsDBPath("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(p, filepath.Join("starcheat", "starcheat.sqlite")) {
		t.Fatalf("unexpected default path %s", p)
	}
	p, err = GetAbsDBPath("x.sqlite")
	if err != nil || !filepath.IsAbs(p) {
		t.Fatalf("got %s, %v", p, err)
	}
}
