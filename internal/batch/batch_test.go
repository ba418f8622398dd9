package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRejectsBadFiles(t *testing.T) {
	cases := map[string]string{
		"wrong version": "version: 2\njobs:\n  - url: http://x/a\n",
		"no jobs":       "version: 1\njobs: []\n",
		"blank url":     "version: 1\njobs:\n  - url: \"\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "batch.yml")
			if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(p); err == nil {
				t.Fatalf("Load(%q) accepted invalid batch", name)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "batch.yml")
	want := FromURLs([]string{
		"http://mirror.example/a.iso",
		"",
		"# a comment",
		"  http://mirror.example/b.iso  ",
	})
	if len(want.Jobs) != 2 {
		t.Fatalf("FromURLs kept %d jobs, want 2", len(want.Jobs))
	}
	if err := Save(p, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Jobs) != 2 {
		t.Fatalf("loaded %d jobs, want 2", len(got.Jobs))
	}
	if got.Jobs[0].URL != "http://mirror.example/a.iso" {
		t.Errorf("job 0 url = %q", got.Jobs[0].URL)
	}
	if got.Jobs[1].URL != "http://mirror.example/b.iso" {
		t.Errorf("job 1 url = %q", got.Jobs[1].URL)
	}
}
