package gitx_test

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"

	"github.com/mfenderov/donttouch/internal/gitx"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("git init: %v", err)
	}
	return dir
}

func TestDetect_Plain(t *testing.T) {
	dir := t.TempDir()

	ctx := gitx.Detect(dir, false)
	if ctx.Kind != gitx.Plain {
		t.Errorf("Kind = %v, want Plain", ctx.Kind)
	}
	if ctx.IsGit() {
		t.Error("IsGit = true for a plain directory")
	}
}

func TestDetect_Git(t *testing.T) {
	dir := initRepo(t)

	ctx := gitx.Detect(dir, false)
	if ctx.Kind != gitx.Git {
		t.Errorf("Kind = %v, want Git", ctx.Kind)
	}
	if ctx.HasHusky {
		t.Error("HasHusky = true without a .husky directory")
	}
}

func TestDetect_IgnoreGit(t *testing.T) {
	dir := initRepo(t)

	ctx := gitx.Detect(dir, true)
	if ctx.Kind != gitx.Plain {
		t.Errorf("Kind with ignoreGit = %v, want Plain", ctx.Kind)
	}
}

func TestDetect_Husky(t *testing.T) {
	dir := initRepo(t)
	if err := os.MkdirAll(filepath.Join(dir, gitx.HuskyDir), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	ctx := gitx.Detect(dir, false)
	if !ctx.HasHusky {
		t.Error("HasHusky = false with a .husky directory present")
	}
}

func TestStagedFiles(t *testing.T) {
	dir := initRepo(t)
	for _, f := range []string{".env", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add(".env"); err != nil {
		t.Fatalf("git add: %v", err)
	}

	staged, err := gitx.StagedFiles(dir)
	if err != nil {
		t.Fatalf("StagedFiles failed: %v", err)
	}
	if len(staged) != 1 || staged[0] != ".env" {
		t.Errorf("StagedFiles = %v, want [.env]", staged)
	}
}

func TestStagedFiles_NothingStaged(t *testing.T) {
	dir := initRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	staged, err := gitx.StagedFiles(dir)
	if err != nil {
		t.Fatalf("StagedFiles failed: %v", err)
	}
	if len(staged) != 0 {
		t.Errorf("StagedFiles = %v, want empty (untracked files are not staged)", staged)
	}
}
