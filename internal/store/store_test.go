package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func fixedHash(h string) func() (string, error) {
	return func() (string, error) { return h, nil }
}

func sampleDoc() *models.ContentDocument {
	doc := models.DefaultDocument("$2a$10$hash")
	doc.ResumeFile = models.StringPtr("resume.pdf")
	doc.Projects = append(doc.Projects,
		models.Project{ID: 1, Title: "One", Description: "first", File: models.StringPtr("project1.pdf")},
		models.Project{ID: 2, Title: "Two", Description: "second"},
	)
	doc.NextProjectID = 3
	doc.Sections["talks"] = models.Section{Title: "Talks", Description: "Slides"}
	return doc
}

// backends returns every Store implementation, freshly created.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	js, err := NewJSONFile(filepath.Join(t.TempDir(), "data", "content.json"))
	if err != nil {
		t.Fatalf("NewJSONFile: %v", err)
	}
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"json":   js,
		"sqlite": sq,
		"memory": NewMemory(),
	}
}

func TestLoad_NotFound(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Load(context.Background()); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("Load on empty store = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := sampleDoc()
			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
			}

			// save(load()) leaves the document unchanged.
			if err := s.Save(ctx, got); err != nil {
				t.Fatalf("Save: %v", err)
			}
			again, _ := s.Load(ctx)
			if !reflect.DeepEqual(again, want) {
				t.Error("save(load()) changed the document")
			}
		})
	}
}

func TestJSONFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewJSONFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(context.Background()); !errors.Is(err, apperr.ErrCorrupt) {
		t.Errorf("Load = %v, want ErrCorrupt", err)
	}
}

func TestJSONFile_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONFile(filepath.Join(dir, "content.json"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Save(context.Background(), sampleDoc()); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}
	matches, _ := filepath.Glob(filepath.Join(dir, TempPrefix+"*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestJSONFile_ReadsOriginalLayout(t *testing.T) {
	// A document as written by the previous Node backend: null pointers,
	// no nextProjectId.
	raw := `{
  "intro": {"title": "Hi", "description": "there"},
  "resumeFile": null,
  "sections": {"programming": {"title": "P", "description": "d"}},
  "projects": [{"id": 3, "title": "T", "description": "D", "file": null}],
  "adminPassword": "$2a$10$abc"
}`
	path := filepath.Join(t.TempDir(), "content.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	s, _ := NewJSONFile(path)
	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Intro.Title != "Hi" || doc.ResumeFile != nil || doc.AdminPasswordHash != "$2a$10$abc" {
		t.Errorf("unexpected doc: %+v", doc)
	}
	if len(doc.Projects) != 1 || doc.Projects[0].File != nil {
		t.Errorf("projects = %+v", doc.Projects)
	}
}

func TestJSONFile_UpdatedAt(t *testing.T) {
	f, err := NewJSONFile(filepath.Join(t.TempDir(), "content.json"))
	if err != nil {
		t.Fatal(err)
	}
	var _ Stamped = f
	ctx := context.Background()
	if _, err := f.UpdatedAt(ctx); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("UpdatedAt before save = %v", err)
	}
	if err := f.Save(ctx, sampleDoc()); err != nil {
		t.Fatal(err)
	}
	ts, err := f.UpdatedAt(ctx)
	if err != nil {
		t.Fatalf("UpdatedAt: %v", err)
	}
	if ts.IsZero() {
		t.Error("modification time not reported")
	}
}

func TestSQLite_UpdatedAt(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	var _ Stamped = s
	ctx := context.Background()
	if _, err := s.UpdatedAt(ctx); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("UpdatedAt on empty db = %v", err)
	}
	_ = s.Save(ctx, sampleDoc())
	ts, err := s.UpdatedAt(ctx)
	if err != nil {
		t.Fatalf("UpdatedAt: %v", err)
	}
	if ts.IsZero() {
		t.Error("updated_at not recorded")
	}
}

func TestInit_CreatesDefault(t *testing.T) {
	m := NewMemory()
	if err := Init(context.Background(), m, fixedHash("h1"), discard); err != nil {
		t.Fatalf("Init: %v", err)
	}
	doc, err := m.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if doc.AdminPasswordHash != "h1" {
		t.Errorf("hash = %q", doc.AdminPasswordHash)
	}
	if len(doc.Sections) != len(models.FixedSections) {
		t.Errorf("sections = %d", len(doc.Sections))
	}
}

func TestInit_RepairsMissingHash(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	doc := sampleDoc()
	doc.AdminPasswordHash = ""
	_ = m.Save(ctx, doc)

	if err := Init(ctx, m, fixedHash("fresh"), discard); err != nil {
		t.Fatalf("Init: %v", err)
	}
	got, _ := m.Load(ctx)
	if got.AdminPasswordHash != "fresh" {
		t.Errorf("hash = %q, want fresh", got.AdminPasswordHash)
	}
	if len(got.Projects) != 2 {
		t.Error("repair lost projects")
	}
}

func TestInit_LeavesHealthyDocumentAlone(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Save(ctx, sampleDoc())
	called := false
	err := Init(ctx, m, func() (string, error) {
		called = true
		return "x", nil
	}, discard)
	if err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("seedHash called for a document that already has a hash")
	}
	if m.Saves() != 1 {
		t.Errorf("saves = %d, want 1", m.Saves())
	}
}

func TestInit_CorruptFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.json")
	_ = os.WriteFile(path, []byte("]"), 0o644)
	s, _ := NewJSONFile(path)
	if err := Init(context.Background(), s, fixedHash("h"), discard); !errors.Is(err, apperr.ErrCorrupt) {
		t.Errorf("Init = %v, want ErrCorrupt", err)
	}
}

func TestRepo_MutateErrorDoesNotSave(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Save(ctx, sampleDoc())
	repo := NewRepo(m)

	boom := errors.New("boom")
	err := repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		doc.Intro.Title = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Mutate = %v", err)
	}
	err = repo.Mutate(ctx, func(doc *models.ContentDocument) error {
		doc.Intro.Title = "changed"
		return ErrUnchanged
	})
	if err != nil {
		t.Fatalf("Mutate with ErrUnchanged = %v", err)
	}
	if m.Saves() != 1 {
		t.Errorf("saves = %d, want 1", m.Saves())
	}
	doc, _ := repo.Get(ctx)
	if doc.Intro.Title == "changed" {
		t.Error("aborted mutation was persisted")
	}
}

func TestRepo_ConcurrentMutationsAllLand(t *testing.T) {
	ctx := context.Background()
	js, err := NewJSONFile(filepath.Join(t.TempDir(), "content.json"))
	if err != nil {
		t.Fatal(err)
	}
	_ = js.Save(ctx, models.DefaultDocument("h"))
	repo := NewRepo(js)

	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Mutate(ctx, func(doc *models.ContentDocument) error {
				doc.Projects = append(doc.Projects, models.Project{ID: doc.AllocateProjectID()})
				return nil
			})
		}()
	}
	wg.Wait()

	doc, err := repo.Get(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Projects) != n {
		t.Fatalf("projects = %d, want %d (lost updates)", len(doc.Projects), n)
	}
	seen := map[int]bool{}
	for _, p := range doc.Projects {
		if seen[p.ID] {
			t.Errorf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
}
