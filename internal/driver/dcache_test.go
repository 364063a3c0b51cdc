package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"ojc/internal/ast"
	"ojc/internal/driver"
	"ojc/internal/project"
	"ojc/internal/source"
	"ojc/internal/symbols"
)

func snapshotWith(t *testing.T, class string) *symbols.Snapshot {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("Base.j", []byte("@implementation "+class+"\n@end\n"))
	r := symbols.NewRegistries()
	r.Classes.Add(class, symbols.NewClassDef(symbols.Decl{File: id, Node: ast.At(ast.Ident(class), 16, uint32(16+len(class)))}, class, "", ""))
	return r.Snapshot(fs)
}

func TestDiskCache_HitMiss(t *testing.T) {
	c, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k1, k2 := project.DigestString("one"), project.DigestString("two")

	if err := c.Put(k1, &driver.DiskPayload{Files: []string{"Base.j.json"}, Snapshot: snapshotWith(t, "Base")}); err != nil {
		t.Fatal(err)
	}
	var got driver.DiskPayload
	if ok, err := c.Get(k2, &got); ok || err != nil {
		t.Fatalf("expected clean miss for another key, got ok=%v err=%v", ok, err)
	}
	ok, err := c.Get(k1, &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Key != k1 || len(got.Files) != 1 || got.Snapshot == nil {
		t.Fatalf("unexpected payload %+v", got)
	}

	r := symbols.NewRegistries()
	fs := source.NewFileSet()
	r.Restore(fs, got.Snapshot)
	if def := r.ClassDef("Base"); def == nil || fs.Get(def.Decl.File).Path != "Base.j" {
		t.Fatal("snapshot did not round-trip the class")
	}
}

func TestDiskCache_CorruptEntryIsError(t *testing.T) {
	dir := t.TempDir()
	c, err := driver.OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	k := project.DigestString("broken")
	p := filepath.Join(dir, "registries", k.String()+".mp")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{0xc1}, 0o600); err != nil {
		t.Fatal(err)
	}
	var got driver.DiskPayload
	if ok, err := c.Get(k, &got); ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}

func TestDiskCache_DropAll(t *testing.T) {
	c, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "ojc"))
	if err != nil {
		t.Fatal(err)
	}
	k := project.DigestString("x")
	if err := c.Put(k, &driver.DiskPayload{Snapshot: snapshotWith(t, "X")}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	var got driver.DiskPayload
	if ok, _ := c.Get(k, &got); ok {
		t.Fatal("expected miss after DropAll")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Fatalf("cache dir should be recreated: %v", err)
	}
}

func TestDiskCache_NilIsNoop(t *testing.T) {
	var c *driver.DiskCache
	if err := c.Put(project.Digest{}, &driver.DiskPayload{}); err != nil {
		t.Fatal(err)
	}
	var got driver.DiskPayload
	if ok, err := c.Get(project.Digest{}, &got); ok || err != nil {
		t.Fatal("nil cache must always miss")
	}
}
