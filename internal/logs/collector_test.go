package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCollectMissingDirReturnsSentinel(t *testing.T) {
	out, err := Collect(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if out != NoLogs {
		t.Fatalf("got %q want sentinel", out)
	}
}

func TestCollectEmptyDirReturnsSentinel(t *testing.T) {
	out, err := Collect(t.TempDir())
	if err != nil || out != NoLogs {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestCollectIgnoresNonLogFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, err := Collect(dir)
	if err != nil || out != NoLogs {
		t.Fatalf("got %q, %v", out, err)
	}
}

func TestCollectConcatenatesInModTimeOrder(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "older.stdout.log")
	newer := filepath.Join(dir, "newer.stderr.log")
	if err := os.WriteFile(older, []byte("first\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newer, []byte("second"), 0o600); err != nil {
		t.Fatal(err)
	}
	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, base, base); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base.Add(time.Minute), base.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	out, err := Collect(dir)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := "=== older.stdout.log ===\nfirst\n=== newer.stderr.log ===\nsecond\n"
	if out != want {
		t.Fatalf("got:\n%q\nwant:\n%q", out, want)
	}
	if strings.Index(out, "older") > strings.Index(out, "newer") {
		t.Fatalf("files out of order: %q", out)
	}
}
