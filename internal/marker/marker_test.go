package marker_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mfenderov/donttouch/internal/marker"
)

var blk = marker.Block{Start: "<!-- donttouch:start -->", End: "<!-- donttouch:end -->"}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestUpsert_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules", "donttouch.mdc")

	res, err := marker.Upsert(path, blk, "do not touch", true)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if res != marker.Created {
		t.Errorf("result = %v, want Created", res)
	}
	want := blk.Start + "\ndo not touch\n" + blk.End + "\n"
	if got := read(t, path); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestUpsert_MissingFileWithoutCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CLAUDE.md")

	res, err := marker.Upsert(path, blk, "body", false)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if res != marker.NoOp {
		t.Errorf("result = %v, want NoOp", res)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file was created despite createIfMissing=false")
	}
}

func TestUpsert_AppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CLAUDE.md")
	prior := "# Project notes\n\nKeep tests green.\n"
	if err := os.WriteFile(path, []byte(prior), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := marker.Upsert(path, blk, "do not touch .env", false)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if res != marker.Created {
		t.Errorf("result = %v, want Created", res)
	}
	got := read(t, path)
	want := prior + "\n" + blk.Start + "\ndo not touch .env\n" + blk.End + "\n"
	if got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AGENTS.md")
	if err := os.WriteFile(path, []byte("existing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := marker.Upsert(path, blk, "body line", false); err != nil {
		t.Fatalf("first Upsert failed: %v", err)
	}
	after1 := read(t, path)

	res, err := marker.Upsert(path, blk, "body line", false)
	if err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}
	if res != marker.Unchanged {
		t.Errorf("second Upsert = %v, want Unchanged", res)
	}
	if after2 := read(t, path); after2 != after1 {
		t.Errorf("second Upsert changed the file:\n%q\nvs\n%q", after1, after2)
	}
}

func TestUpsert_UpdatesBodyInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.md")
	content := "before\n\n" + blk.Start + "\nold body\n" + blk.End + "\n\nafter\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := marker.Upsert(path, blk, "new body\nsecond line", false)
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if res != marker.Updated {
		t.Errorf("result = %v, want Updated", res)
	}
	want := "before\n\n" + blk.Start + "\nnew body\nsecond line\n" + blk.End + "\n\nafter\n"
	if got := read(t, path); got != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestRemove_RestoresOriginalContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.md")
	prior := "# Notes\n\nline one\n"
	if err := os.WriteFile(path, []byte(prior), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := marker.Upsert(path, blk, "injected", false); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	res, err := marker.Remove(path, blk, false)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if res != marker.Removed {
		t.Errorf("result = %v, want Removed", res)
	}
	if got := read(t, path); got != prior {
		t.Errorf("content after Remove = %q, want original %q", got, prior)
	}
}

func TestRemove_DeletesOwnedFileWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "donttouch.mdc")
	if _, err := marker.Upsert(path, blk, "rule", true); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	res, err := marker.Remove(path, blk, true)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if res != marker.DeletedFile {
		t.Errorf("result = %v, want DeletedFile", res)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("owned file still exists after emptying removal")
	}
}

func TestRemove_KeepsUnownedFileWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CLAUDE.md")
	content := blk.Start + "\nonly the block\n" + blk.End + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := marker.Remove(path, blk, false)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if res != marker.Removed {
		t.Errorf("result = %v, want Removed", res)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("pre-existing file was deleted: %v", err)
	}
}

func TestRemove_NoBlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.md")
	if err := os.WriteFile(path, []byte("nothing here\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if res, err := marker.Remove(path, blk, true); err != nil || res != marker.NoOp {
		t.Errorf("Remove without block = (%v, %v), want (NoOp, nil)", res, err)
	}
	if res, err := marker.Remove(filepath.Join(t.TempDir(), "gone"), blk, true); err != nil || res != marker.NoOp {
		t.Errorf("Remove on missing file = (%v, %v), want (NoOp, nil)", res, err)
	}
}

func TestPreview_MatchesUpsertDecisionWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "AGENTS.md")
	if err := os.WriteFile(existing, []byte("content\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tests := []struct {
		name   string
		path   string
		create bool
		want   marker.Result
	}{
		{name: "would append to existing", path: existing, create: false, want: marker.Created},
		{name: "would skip missing", path: filepath.Join(dir, "GEMINI.md"), create: false, want: marker.NoOp},
		{name: "would create missing", path: filepath.Join(dir, "rule.mdc"), create: true, want: marker.Created},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := marker.Preview(tt.path, blk, "body", tt.create)
			if err != nil {
				t.Fatalf("Preview failed: %v", err)
			}
			if res != tt.want {
				t.Errorf("Preview = %v, want %v", res, tt.want)
			}
		})
	}

	// Preview must not have written anything.
	if got := read(t, existing); got != "content\n" {
		t.Errorf("Preview modified the file: %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "rule.mdc")); !os.IsNotExist(err) {
		t.Error("Preview created a file")
	}
}
