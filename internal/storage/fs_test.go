package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/ficor/internal/apperr"
	"github.com/starford/ficor/internal/codec"
	"github.com/starford/ficor/internal/models"
	"github.com/starford/ficor/internal/store"
	"github.com/starford/ficor/internal/tagset"
)

func tempFile(t *testing.T) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), ".ficor"))
}

func TestInitThenLoad(t *testing.T) {
	f := tempFile(t)
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	data, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(data, codec.EmptyStore()) {
		t.Errorf("init content = % x", data)
	}
	s, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("len = %d, want 0", s.Len())
	}
}

func TestInitOverwrites(t *testing.T) {
	f := tempFile(t)
	if err := os.WriteFile(f.Path(), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := f.Load(); err != nil {
		t.Fatalf("Load after init: %v", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	f := tempFile(t)
	if err := f.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := s.AddFile("notes.txt", "work:urgent", models.StrPtr("Q3 review")); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if err := f.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := f.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	rec, ok := reloaded.Get("notes.txt")
	if !ok {
		t.Fatal("record missing after reload")
	}
	if !reflect.DeepEqual(rec.Tags, tagset.TagSet{"work", "urgent"}) {
		t.Errorf("tags = %v", rec.Tags)
	}
	if rec.InfoOr("") != "Q3 review" {
		t.Errorf("info = %q", rec.InfoOr(""))
	}
}

func TestLoad_Missing(t *testing.T) {
	f := tempFile(t)
	_, err := f.Load()
	if !errors.Is(err, apperr.ErrIO) {
		t.Errorf("err = %v, want ErrIO", err)
	}
	if !IsNotExist(err) {
		t.Errorf("missing file should be distinguishable: %v", err)
	}
}

func TestLoad_NotAStore(t *testing.T) {
	f := tempFile(t)
	if err := os.WriteFile(f.Path(), []byte("definitely not a store"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := f.Load()
	if !errors.Is(err, apperr.ErrFormat) {
		t.Errorf("err = %v, want ErrFormat", err)
	}
}

func TestLoad_DuplicatePathsInFile(t *testing.T) {
	f := tempFile(t)
	data, err := codec.Marshal([]models.Record{{Path: "x"}, {Path: "x"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(f.Path(), data, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = f.Load()
	if !errors.Is(err, apperr.ErrFormat) || !errors.Is(err, apperr.ErrDuplicate) {
		t.Errorf("err = %v, want ErrFormat and ErrDuplicate", err)
	}
}

func TestSave_NoLeftoverTemp(t *testing.T) {
	f := tempFile(t)
	s, _ := store.New(models.Record{Path: "a"})
	if err := f.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(f.Path()), ".ficor-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestSave_FailureKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "missing-dir", ".ficor"))
	s, _ := store.New()
	if err := f.Save(s); !errors.Is(err, apperr.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}

	good := NewFile(filepath.Join(dir, ".ficor"))
	if err := good.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "blocker"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Renaming a file over a directory fails after the temp file is written.
	blocked := NewFile(filepath.Join(dir, "blocker"))
	if err := blocked.Save(s); !errors.Is(err, apperr.ErrIO) {
		t.Fatalf("err = %v, want ErrIO", err)
	}
	if _, err := good.Load(); err != nil {
		t.Errorf("original store damaged: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, ".ficor-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestSave_KeepsMode(t *testing.T) {
	f := tempFile(t)
	if err := os.WriteFile(f.Path(), codec.EmptyStore(), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := store.New()
	if err := f.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(f.Path())
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestNewFile_DefaultPath(t *testing.T) {
	if p := NewFile("").Path(); p != DefaultPath {
		t.Errorf("path = %q, want %q", p, DefaultPath)
	}
}
