// Package testutil provides shared test helpers for setting up documents and upload directories.
package testutil

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/store"
	"github.com/starford/folio/internal/uploads"
)

// AdminPassword is the password seeded into test documents.
const AdminPassword = "correct-horse"

// PDF is a minimal payload that passes the PDF signature check.
var PDF = []byte("%PDF-1.4\n1 0 obj <<>> endobj\ntrailer <<>>\n%%EOF\n")

// PDFBase64 returns PDF as bare base64.
func PDFBase64() string {
	return base64.StdEncoding.EncodeToString(PDF)
}

// PDFDataURL returns PDF as a data URL, the way browsers send it.
func PDFDataURL() string {
	return "data:application/pdf;base64," + PDFBase64()
}

// HashAdmin returns a low-cost bcrypt hash of AdminPassword.
func HashAdmin(t *testing.T) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

// TestRepo creates an in-memory repo holding the default document.
func TestRepo(t *testing.T) (*store.Repo, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	if err := mem.Save(context.Background(), models.DefaultDocument(HashAdmin(t))); err != nil {
		t.Fatal(err)
	}
	return store.NewRepo(mem), mem
}

// TestUploads creates a temporary upload directory.
func TestUploads(t *testing.T) *uploads.Dir {
	t.Helper()
	d, err := uploads.NewDir(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatal(err)
	}
	return d
}
