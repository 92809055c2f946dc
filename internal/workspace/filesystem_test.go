package workspace_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/black-lotus-01/data-organizer/internal/workspace"
)

func TestFilesystemWorkspace(t *testing.T) {
	t.Run("rejects a missing root", func(t *testing.T) {
		t.Parallel()
		if _, err := workspace.NewFilesystemWorkspace(filepath.Join(t.TempDir(), "absent")); err == nil {
			t.Error("NewFilesystemWorkspace() expected error for missing root")
		}
	})

	t.Run("rejects a file as root", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := workspace.NewFilesystemWorkspace(path); err == nil {
			t.Error("NewFilesystemWorkspace() expected error for non-directory root")
		}
	})

	t.Run("ensure folder is idempotent", func(t *testing.T) {
		t.Parallel()
		ws, err := workspace.NewFilesystemWorkspace(t.TempDir())
		if err != nil {
			t.Fatalf("NewFilesystemWorkspace() error = %v", err)
		}

		f1, err := ws.EnsureFolder("documents")
		if err != nil {
			t.Fatalf("EnsureFolder() error = %v", err)
		}
		f2, err := ws.EnsureFolder("documents")
		if err != nil {
			t.Fatalf("second EnsureFolder() error = %v", err)
		}
		if f1.Path() != f2.Path() {
			t.Errorf("folder paths differ: %q vs %q", f1.Path(), f2.Path())
		}

		info, err := os.Stat(f1.Path())
		if err != nil {
			t.Fatalf("stat folder: %v", err)
		}
		if !info.IsDir() {
			t.Error("folder path is not a directory")
		}
	})

	t.Run("writes a file into a folder", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		ws, err := workspace.NewFilesystemWorkspace(root)
		if err != nil {
			t.Fatalf("NewFilesystemWorkspace() error = %v", err)
		}

		f, err := ws.EnsureFolder("notes")
		if err != nil {
			t.Fatalf("EnsureFolder() error = %v", err)
		}
		if err := ws.WriteFile(f, "a.txt", []byte("alpha")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		got, err := os.ReadFile(filepath.Join(root, "notes", "a.txt"))
		if err != nil {
			t.Fatalf("reading written file: %v", err)
		}
		if string(got) != "alpha" {
			t.Errorf("content = %q, want %q", got, "alpha")
		}

		// No temp files left behind.
		entries, err := os.ReadDir(filepath.Join(root, "notes"))
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("folder entries = %d, want 1", len(entries))
		}
	})

	t.Run("overwrites an existing file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		ws, err := workspace.NewFilesystemWorkspace(root)
		if err != nil {
			t.Fatalf("NewFilesystemWorkspace() error = %v", err)
		}
		f, err := ws.EnsureFolder("notes")
		if err != nil {
			t.Fatalf("EnsureFolder() error = %v", err)
		}
		if err := ws.WriteFile(f, "a.txt", []byte("one")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if err := ws.WriteFile(f, "a.txt", []byte("two")); err != nil {
			t.Fatalf("second WriteFile() error = %v", err)
		}

		got, _ := os.ReadFile(filepath.Join(root, "notes", "a.txt"))
		if string(got) != "two" {
			t.Errorf("content = %q, want %q", got, "two")
		}
	})
}

func TestMemoryWorkspace(t *testing.T) {
	t.Run("stores payloads per folder", func(t *testing.T) {
		t.Parallel()
		ws := workspace.NewMemoryWorkspace()
		f, err := ws.EnsureFolder("docs")
		if err != nil {
			t.Fatalf("EnsureFolder() error = %v", err)
		}
		if err := ws.WriteFile(f, "a.txt", []byte("alpha")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		if got := ws.File("docs", "a.txt"); string(got) != "alpha" {
			t.Errorf("File() = %q, want %q", got, "alpha")
		}
		if got := ws.File("docs", "missing.txt"); got != nil {
			t.Errorf("File() for absent name = %q, want nil", got)
		}
	})

	t.Run("failure hooks inject errors", func(t *testing.T) {
		t.Parallel()
		ws := workspace.NewMemoryWorkspace()
		ws.FailEnsure["bad"] = os.ErrPermission

		if _, err := ws.EnsureFolder("bad"); err == nil {
			t.Error("EnsureFolder() expected injected error")
		}

		f, err := ws.EnsureFolder("good")
		if err != nil {
			t.Fatalf("EnsureFolder() error = %v", err)
		}
		ws.FailWrite["a.txt"] = os.ErrPermission
		if err := ws.WriteFile(f, "a.txt", []byte("x")); err == nil {
			t.Error("WriteFile() expected injected error")
		}
	})
}
