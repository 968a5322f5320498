package main

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/ficor/internal/apperr"
	"github.com/starford/ficor/internal/storage"
	"github.com/starford/ficor/internal/tagset"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	return newCommand().Run(context.Background(), append([]string{"ficor", "--log-level", "error"}, args...))
}

func TestCLI_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ficor")

	steps := [][]string{
		{"--file", path, "init"},
		{"--file", path, "add", "--tags", "work:urgent", "--info", "Q3 review", "notes.txt"},
		{"--file", path, "add", "other.txt"},
		{"--file", path, "tag", "notes.txt", "later"},
		{"--file", path, "untag", "notes.txt", "urgent"},
		{"--file", path, "rm", "other.txt"},
	}
	for _, args := range steps {
		if err := runCLI(t, args...); err != nil {
			t.Fatalf("ficor %v: %v", args, err)
		}
	}

	s, err := storage.NewFile(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
	rec, ok := s.Get("notes.txt")
	if !ok {
		t.Fatal("notes.txt missing")
	}
	if !reflect.DeepEqual(rec.Tags, tagset.TagSet{"work", "later"}) {
		t.Errorf("tags = %v", rec.Tags)
	}
	if rec.InfoOr("") != "Q3 review" {
		t.Errorf("info = %q", rec.InfoOr(""))
	}
}

func TestCLI_FileFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.bin")
	t.Setenv("FICOR_FILE", path)
	if err := runCLI(t, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := storage.NewFile(path).Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestCLI_ArgumentErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ficor")
	if err := runCLI(t, "--file", path, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := runCLI(t, "--file", path, "add"); !errors.Is(err, apperr.ErrArgument) {
		t.Errorf("add without path: err = %v", err)
	}
	if err := runCLI(t, "--file", path, "rm", "a", "b"); !errors.Is(err, apperr.ErrArgument) {
		t.Errorf("rm with two paths: err = %v", err)
	}
	if err := runCLI(t, "--file", path, "tag", "a"); !errors.Is(err, apperr.ErrMissingArgument) {
		t.Errorf("tag without value: err = %v", err)
	}
}

func TestCLI_ExplicitConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if err := runCLI(t, "--config", missing, "dump"); err == nil {
		t.Fatal("expected error for an explicit config path that does not exist")
	}
}
