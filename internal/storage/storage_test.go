package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSave_GeneratesUniqueNames(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	name1, err := s.Save(strings.NewReader("first"), "beach.jpg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	name2, err := s.Save(strings.NewReader("second"), "beach.jpg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if name1 == name2 {
		t.Errorf("expected distinct generated names, got %q twice", name1)
	}

	if !strings.HasSuffix(name1, ".jpg") {
		t.Errorf("expected .jpg extension preserved, got %q", name1)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), name1))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("unexpected file content: %q", data)
	}
}

func TestSave_IgnoresOriginalPath(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	name, err := s.Save(strings.NewReader("x"), "../../etc/passwd.png")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		t.Errorf("generated name leaked path components: %q", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("expected .png extension, got %q", name)
	}
}

func TestDelete_Idempotent(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	name, err := s.Save(strings.NewReader("bye"), "pic.jpg")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := s.Delete(name)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !found {
		t.Error("expected first delete to find the file")
	}

	found, err = s.Delete(name)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if found {
		t.Error("expected second delete to report file missing")
	}
}

func TestDelete_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, name := range []string{"", "../secret.jpg", "a/b.jpg"} {
		if _, err := s.Delete(name); !errors.Is(err, ErrBadFilename) {
			t.Errorf("Delete(%q): expected ErrBadFilename, got %v", name, err)
		}
	}
}

func TestFilenameFromURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"plain", "http://localhost:8000/uploads/1712000000-abc.jpg", "1712000000-abc.jpg", false},
		{"with query", "https://api.trailbook.app/uploads/x.png?w=200", "x.png", false},
		{"no file segment", "http://localhost:8000/", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FilenameFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
