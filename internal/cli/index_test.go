package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/index"
)

func TestRunIndexBuild(t *testing.T) {
	dir := t.TempDir()
	features := filepath.Join(dir, "features.json")
	if err := os.WriteFile(features, []byte(featureFile), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "paris.csv")

	c := testCLI(t)
	ctx := withLogger(context.Background(), c.Logger)
	err := c.runIndexBuild(ctx, &indexOpts{
		bbox:      "48.90,2.25,48.80,2.42",
		gazetteer: features,
		title:     "Paris",
		scale:     10000,
		output:    out,
		pages:     true,
	})
	if err != nil {
		t.Fatalf("runIndexBuild() error = %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	title, cats, err := index.ReadCSV(f, index.IsStreetCategory)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if title != "Paris" {
		t.Errorf("title = %q, want Paris", title)
	}
	if len(cats) != 1 || cats[0].Name != "R" || len(cats[0].Items) != 1 {
		t.Fatalf("categories = %+v, want R with one street", cats)
	}
	it := cats[0].Items[0]
	if it.Label != "Rue de Rivoli" || it.Location == "" || it.Location == index.UnknownLocation {
		t.Errorf("item = %+v, want Rue de Rivoli with a grid location", it)
	}
}

func TestRunIndexBuildErrors(t *testing.T) {
	c := testCLI(t)
	ctx := withLogger(context.Background(), c.Logger)

	err := c.runIndexBuild(ctx, &indexOpts{bbox: "48.90,2.25,48.80,2.42", scale: 10000, output: stdoutPath})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("runIndexBuild(no source) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	err = c.runIndexBuild(ctx, &indexOpts{scale: 10000, output: stdoutPath})
	if !errors.Is(err, errors.ErrCodeInvalidBBox) {
		t.Errorf("runIndexBuild(no area) error = %v, want %s", err, errors.ErrCodeInvalidBBox)
	}
	err = c.runIndexBuild(ctx, &indexOpts{bbox: "48.90,2.25,48.80,2.42", language: "not a language!", output: stdoutPath})
	if !errors.Is(err, errors.ErrCodeInvalidLanguage) {
		t.Errorf("runIndexBuild(bad language) error = %v, want %s", err, errors.ErrCodeInvalidLanguage)
	}
}

func TestIndexShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.csv")
	data := "# (UTF-8),Paris,notice\nR\n,Rue de Rivoli,B3\n,Rue du Bac,A1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	root := testCLI(t).RootCommand()
	root.SetArgs([]string{"index", "show", path})
	if err := root.Execute(); err != nil {
		t.Errorf("index show error = %v", err)
	}

	root = testCLI(t).RootCommand()
	root.SetArgs([]string{"index", "show", filepath.Join(t.TempDir(), "missing.csv")})
	if err := root.Execute(); err == nil {
		t.Error("index show of a missing file succeeded")
	}
}
