package preset

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastnext-lab/filterbuilder-go/filter"
)

func samplePresets() []Preset {
	s := filter.NewState()
	cond := filter.NewCondition("status")
	cond.Value = "active"
	s.Root.Children = append(s.Root.Children, cond)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []Preset{
		{
			ID:        "p1",
			Name:      "Active users",
			Filter:    s,
			CreatedAt: now,
			UpdatedAt: now,
			IsDefault: true,
			Tags:      []string{"team"},
		},
		{
			ID:        "p2",
			Name:      "Everything",
			Filter:    filter.NewState(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func roundTripStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	const key = "admin.users"

	loaded, err := store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load on empty store failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty list, got %d presets", len(loaded))
	}

	presets := samplePresets()
	if err := store.Save(ctx, key, presets); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err = store.Load(ctx, key)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded))
	}
	if loaded[0].Name != "Active users" || !loaded[0].IsDefault {
		t.Errorf("first preset mismatch: %+v", loaded[0])
	}
	if !filter.Equal(loaded[0].Filter, presets[0].Filter) {
		t.Error("stored filter tree mismatch")
	}

	// Keys are independent
	other, err := store.Load(ctx, "other.key")
	if err != nil {
		t.Fatalf("Load other key failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected empty list for other key, got %d", len(other))
	}

	// Save replaces, not appends
	if err := store.Save(ctx, key, presets[:1]); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	loaded, err = store.Load(ctx, key)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("expected replacement save, got %d presets", len(loaded))
	}
}

func TestMemoryStore(t *testing.T) {
	roundTripStore(t, NewMemoryStore())
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	presets := samplePresets()
	if err := store.Save(ctx, "k", presets); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy must not leak into the store
	presets[0].Name = "changed"
	loaded, _ := store.Load(ctx, "k")
	if loaded[0].Name != "Active users" {
		t.Error("store shares memory with the caller")
	}
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	roundTripStore(t, store)
}

func TestFileStoreCorruptBlob(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(context.Background(), "bad")
	if err != nil {
		t.Fatalf("corrupt blob must not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("corrupt blob must load as empty list, got %d", len(loaded))
	}
}

func TestFileStoreKeyEscaping(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, "a/b/../c", samplePresets()); err != nil {
		t.Fatalf("Save with hostile key failed: %v", err)
	}
	loaded, err := store.Load(ctx, "a/b/../c")
	if err != nil || len(loaded) != 2 {
		t.Errorf("escaped key round trip failed: %v, %d presets", err, len(loaded))
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "presets.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	roundTripStore(t, store)
}

func TestSQLiteStoreCorruptBlob(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "presets.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	if _, err := store.db.ExecContext(ctx,
		`INSERT INTO filter_presets (key, data) VALUES (?, ?)`,
		"bad", "{corrupt"); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load(ctx, "bad")
	if err != nil {
		t.Fatalf("corrupt blob must not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("corrupt blob must load as empty list, got %d", len(loaded))
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	presets := samplePresets()

	var buf bytes.Buffer
	if err := WriteArchive(&buf, presets); err != nil {
		t.Fatalf("WriteArchive failed: %v", err)
	}

	restored, err := ReadArchive(&buf)
	if err != nil {
		t.Fatalf("ReadArchive failed: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(restored))
	}
	if restored[0].ID != "p1" || restored[0].Name != "Active users" {
		t.Errorf("metadata mismatch: %+v", restored[0])
	}
	if !restored[0].CreatedAt.Equal(presets[0].CreatedAt) {
		t.Errorf("timestamp mismatch: %v != %v", restored[0].CreatedAt, presets[0].CreatedAt)
	}
	if !filter.Equal(restored[0].Filter, presets[0].Filter) {
		t.Error("filter tree mismatch after archive round trip")
	}
}

func TestReadArchiveRejectsGarbage(t *testing.T) {
	if _, err := ReadArchive(bytes.NewReader([]byte("not an archive"))); err == nil {
		t.Error("expected error for bad magic")
	}
	if _, err := ReadArchive(bytes.NewReader(append(append([]byte{}, archiveMagic...), 1, 2, 3))); err == nil {
		t.Error("expected error for corrupt payload")
	}
	if _, err := ReadArchive(bytes.NewReader(nil)); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestPresetClone(t *testing.T) {
	p := samplePresets()[0]
	clone := p.Clone()

	clone.Filter.Root.Operator = filter.Or
	clone.Tags[0] = "changed"

	if p.Filter.Root.Operator != filter.And {
		t.Error("clone shares the filter tree")
	}
	if p.Tags[0] != "team" {
		t.Error("clone shares the tags slice")
	}
}
