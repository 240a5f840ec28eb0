package store

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNormalize(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"cg500_ble_app_v1.1.0.apk", "cg500_ble_app_v1.1.0.apk", false},
		{"cg500_ble_app_v1.1.0", "cg500_ble_app_v1.1.0.apk", false},
		{"  app.apk  ", "app.apk", false},
		{"../../etc/passwd", "", true},
		{"..%2f..%2fetc", "", true},
		{"app name.apk", "", true},
		{"app;rm.apk", "", true},
		{"", "", true},
		{"   ", "", true},
	}

	for _, tt := range tests {
		got, err := s.Normalize(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFilename) {
				t.Errorf("Normalize(%q) err = %v; want ErrInvalidFilename", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q) unexpected error: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}

func TestOpenTraversalNeverTouchesFilesystem(t *testing.T) {
	s := newTestStore(t)

	// A sibling file outside the artifact root must be unreachable.
	outside := filepath.Join(filepath.Dir(s.Root()), "secret.apk")
	if err := os.WriteFile(outside, []byte("secret"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"../secret.apk", "../../etc/passwd", "/etc/passwd"} {
		if _, err := s.Open(name); !errors.Is(err, ErrInvalidFilename) {
			t.Errorf("Open(%q) err = %v; want ErrInvalidFilename", name, err)
		}
	}
}

func TestOpenNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Open("missing.apk")
	if !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("Open(missing.apk) err = %v; want ErrArtifactNotFound", err)
	}
}

func TestOpenStreamsArtifact(t *testing.T) {
	s := newTestStore(t)

	content := []byte("not really an apk")
	if err := os.WriteFile(filepath.Join(s.Root(), "cg500_ble_app_v1.1.0.apk"), content, 0644); err != nil {
		t.Fatal(err)
	}

	// Extension is normalized before lookup.
	art, err := s.Open("cg500_ble_app_v1.1.0")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer art.Close()

	if art.Name != "cg500_ble_app_v1.1.0.apk" {
		t.Errorf("Name = %s; want normalized name", art.Name)
	}
	if art.Size != int64(len(content)) {
		t.Errorf("Size = %d; want %d", art.Size, len(content))
	}
	if art.MIMEType != APKMIMEType {
		t.Errorf("MIMEType = %s; want %s", art.MIMEType, APKMIMEType)
	}

	got, err := io.ReadAll(art.File)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: %q", got)
	}
}

func TestList(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"b.apk", "a.apk", "README.txt"} {
		if err := os.WriteFile(filepath.Join(s.Root(), name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	names, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "a.apk" || names[1] != "b.apk" {
		t.Errorf("List = %v; want [a.apk b.apk]", names)
	}
}
