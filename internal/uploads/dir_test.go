package uploads

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func tempDir(t *testing.T) *Dir {
	t.Helper()
	d, err := NewDir(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	return d
}

func TestWriteReadRemove(t *testing.T) {
	d := tempDir(t)
	if err := d.Write("resume.pdf", []byte("%PDF-1.4")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !d.Exists("resume.pdf") {
		t.Fatal("file should exist after write")
	}
	got, err := d.Read("resume.pdf")
	if err != nil || string(got) != "%PDF-1.4" {
		t.Fatalf("Read = %q, %v", got, err)
	}
	if err := d.Remove("resume.pdf"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if d.Exists("resume.pdf") {
		t.Error("file should be gone")
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	d := tempDir(t)
	if err := d.Remove("project7.pdf"); err != nil {
		t.Errorf("Remove of missing file = %v", err)
	}
}

func TestWriteOverwrites(t *testing.T) {
	d := tempDir(t)
	_ = d.Write("project1.pdf", []byte("%PDF old"))
	_ = d.Write("project1.pdf", []byte("%PDF new"))
	got, _ := d.Read("project1.pdf")
	if string(got) != "%PDF new" {
		t.Errorf("content = %q", got)
	}
	names, _ := d.List()
	if len(names) != 1 {
		t.Errorf("List = %v, want one file and no temp leftovers", names)
	}
}

func TestTraversalBlocked(t *testing.T) {
	d := tempDir(t)
	for _, name := range []string{"../escape.pdf", "../../etc/passwd", "/etc/shadow", "a/b.pdf", "", ".", ".."} {
		if _, err := d.Path(name); err == nil {
			t.Errorf("Path(%q) should fail", name)
		}
		if err := d.Write(name, []byte("x")); err == nil {
			t.Errorf("Write(%q) should fail", name)
		}
		if d.Exists(name) {
			t.Errorf("Exists(%q) should be false", name)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(d.Root()), "escape.pdf")); err == nil {
		t.Error("file escaped upload directory")
	}
}

func TestList(t *testing.T) {
	d := tempDir(t)
	_ = d.Write("resume.pdf", []byte("a"))
	_ = d.Write(ProjectFilename(2), []byte("b"))
	_ = os.Mkdir(filepath.Join(d.Root(), "sub"), 0o755)

	names, err := d.List()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)
	if len(names) != 2 || names[0] != "project2.pdf" || names[1] != "resume.pdf" {
		t.Errorf("List = %v", names)
	}
}

func TestNewDir_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "not-a-dir-*")
	_ = f.Close()
	if _, err := NewDir(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestProjectFilename(t *testing.T) {
	if got := ProjectFilename(12); got != "project12.pdf" {
		t.Errorf("ProjectFilename(12) = %q", got)
	}
}
