package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexghenderson/downloader-ctl/internal/batch"
)

func TestBatchImportFromTextURLs(t *testing.T) {
	d := t.TempDir()
	inPath := filepath.Join(d, "input.txt")
	input := strings.Join([]string{
		"# nightly builds",
		"https://example.com/a.iso",
		"",
		"  https://example.com/b.iso  ",
		"https://example.com/path/c.iso",
	}, "\n")
	if err := os.WriteFile(inPath, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath := filepath.Join(d, "batch.yml")
	args := []string{"--input", inPath, "--output", outPath}
	if err := handleBatchImport(context.Background(), args); err != nil {
		t.Fatalf("batch import failed: %v", err)
	}

	bf, err := batch.Load(outPath)
	if err != nil {
		t.Fatalf("load batch: %v", err)
	}
	if bf.Version != 1 {
		t.Fatalf("bad version: %d", bf.Version)
	}
	want := []string{
		"https://example.com/a.iso",
		"https://example.com/b.iso",
		"https://example.com/path/c.iso",
	}
	if len(bf.Jobs) != len(want) {
		t.Fatalf("expected %d jobs; got %d", len(want), len(bf.Jobs))
	}
	for i, j := range bf.Jobs {
		if j.URL != want[i] {
			t.Fatalf("job %d: got %q want %q", i, j.URL, want[i])
		}
	}
}

func TestBatchImportRejectsEmptyInput(t *testing.T) {
	d := t.TempDir()
	inPath := filepath.Join(d, "input.txt")
	if err := os.WriteFile(inPath, []byte("# only a comment\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := handleBatchImport(context.Background(), []string{"--input", inPath})
	if err == nil || !strings.Contains(err.Error(), "no URLs found") {
		t.Fatalf("expected no-URLs error; got %v", err)
	}
}

func TestBatchImportRequiresInput(t *testing.T) {
	err := handleBatchImport(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "--input is required") {
		t.Fatalf("expected missing-input error; got %v", err)
	}
}

func TestBatchRequiresSubcommand(t *testing.T) {
	if err := handleBatch(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a bare 'batch'")
	}
	err := handleBatch(context.Background(), []string{"export"})
	if err == nil || !strings.Contains(err.Error(), "unknown batch subcommand") {
		t.Fatalf("expected unknown-subcommand error; got %v", err)
	}
}
