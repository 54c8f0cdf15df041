package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/gridbag/pkg/config"
	"github.com/decker502/gridbag/pkg/layout"
)

func sampleSnapshot() layout.Snapshot {
	return layout.Snapshot{
		Version: layout.SnapshotVersion,
		Width:   4,
		Height:  2,
		Items: []layout.ItemRecord{
			{ID: "red", X: 0, Y: 0, Width: 1, Height: 1},
			{ID: "yellow", X: 2, Y: 0, Width: 2, Height: 2},
		},
	}
}

func TestReadSnapshotFormats(t *testing.T) {
	dir := t.TempDir()
	snap := sampleSnapshot()

	gridz := filepath.Join(dir, "a"+layout.FileExt)
	if err := layout.WriteFile(gridz, snap); err != nil {
		t.Fatal(err)
	}
	yamlData, err := layout.EncodeYAML(snap)
	if err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "a.yaml")
	os.WriteFile(yamlPath, yamlData, 0644)

	jsonData, err := layout.EncodeJSON(snap)
	if err != nil {
		t.Fatal(err)
	}
	jsonPath := filepath.Join(dir, "a.json")
	os.WriteFile(jsonPath, jsonData, 0644)

	for _, path := range []string{gridz, yamlPath, jsonPath} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			got, err := readSnapshot(path)
			if err != nil {
				t.Fatalf("readSnapshot() error: %v", err)
			}
			if got.Width != 4 || len(got.Items) != 2 || got.Items[1].ID != "yellow" {
				t.Errorf("snapshot = %+v", got)
			}
		})
	}

	if _, err := readSnapshot(filepath.Join(dir, "a.txt")); err == nil {
		t.Error("unknown extension should fail")
	}
}

func TestRenderSnapshot(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shots", "layout.png")
	if err := renderSnapshot(config.DefaultGridConfig(), sampleSnapshot(), out, 0.5); err != nil {
		t.Fatalf("renderSnapshot() error: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}

	// 4x2 格子：宽 4*100+3*5=415，高 2*100+5=205，缩放 0.5 后加 2*10 留白
	b := img.Bounds()
	if b.Dx() != int(415*0.5+20) || b.Dy() != int(205*0.5+20) {
		t.Errorf("image size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderSnapshotRejectsOversizedGrid(t *testing.T) {
	snap := sampleSnapshot()
	snap.Width = 20
	err := renderSnapshot(config.DefaultGridConfig(), snap, filepath.Join(t.TempDir(), "x.png"), 1)
	if !errors.Is(err, layout.ErrRestoreResize) {
		t.Errorf("error = %v, want ErrRestoreResize", err)
	}
}

func TestLoadFromStore(t *testing.T) {
	storage := config.StorageSection{Backend: config.StorageSQLite, SQLitePath: filepath.Join(t.TempDir(), "layouts.db")}

	store, err := layout.OpenStore(storage)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("shot", sampleSnapshot()); err != nil {
		t.Fatal(err)
	}
	layout.CloseStore(store)

	snap, err := loadFromStore(storage, "shot")
	if err != nil {
		t.Fatalf("loadFromStore() error: %v", err)
	}
	if len(snap.Items) != 2 {
		t.Errorf("items = %d, want 2", len(snap.Items))
	}
	if _, err := loadFromStore(storage, "missing"); !errors.Is(err, layout.ErrLayoutNotFound) {
		t.Errorf("error = %v, want ErrLayoutNotFound", err)
	}
}
