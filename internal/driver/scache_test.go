package driver

import (
	"context"
	"testing"

	"drift/internal/project"
	"drift/internal/source"
)

func TestScopeCachePutGet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cache, err := OpenScopeCache("drift-test")
	if err != nil {
		t.Fatalf("OpenScopeCache: %v", err)
	}

	key := cacheKey(project.HashBytes([]byte("fixture content")), project.DebugFull)
	payload := &ScopePayload{
		Schema: scopeCacheSchemaVersion,
		Name:   "simple",
		Key:    key,
		Kinds:      []uint8{0, 1},
		Parents:    []uint32{0, 1},
		Files:      []uint32{0, 0},
		Lines:      []uint32{1, 2},
		Cols:       []uint32{1, 5},
		Table:      []uint32{1, 2},
		NodeCount:  7,
	}
	if err := cache.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var got ScopePayload
	ok, err := cache.Get(key, &got)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("payload not found after Put")
	}
	if got.Name != "simple" || got.NodeCount != 7 || len(got.Kinds) != 2 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}

	miss := project.HashBytes([]byte("other"))
	ok, err = cache.Get(miss, &got)
	if err != nil {
		t.Fatalf("Get miss: %v", err)
	}
	if ok {
		t.Error("unexpected hit for unknown key")
	}
}

func TestScopeCacheNilSafe(t *testing.T) {
	var c *ScopeCache
	if err := c.Put(project.Digest{}, &ScopePayload{}); err != nil {
		t.Errorf("nil Put: %v", err)
	}
	ok, err := c.Get(project.Digest{}, &ScopePayload{})
	if err != nil || ok {
		t.Errorf("nil Get: %v %v", ok, err)
	}
}

func TestResolveFileUsesCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cache, err := OpenScopeCache("drift-test")
	if err != nil {
		t.Fatalf("OpenScopeCache: %v", err)
	}

	dir := t.TempDir()
	path := writeFixture(t, dir, "simple.scopes.json", testFixture)
	opts := ResolveOptions{Cache: cache}

	first, err := ResolveFile(context.Background(), source.NewFileSet(), path, opts)
	if err != nil {
		t.Fatalf("first ResolveFile: %v", err)
	}
	if first.FromCache {
		t.Fatal("first run reported a cache hit")
	}

	second, err := ResolveFile(context.Background(), source.NewFileSet(), path, opts)
	if err != nil {
		t.Fatalf("second ResolveFile: %v", err)
	}
	if !second.FromCache {
		t.Fatal("second run missed the cache")
	}
	if second.Recorder.Len() != first.Recorder.Len() {
		t.Errorf("restored %d scopes, want %d", second.Recorder.Len(), first.Recorder.Len())
	}
	if len(second.MirTable) != len(first.MirTable) {
		t.Errorf("restored table length %d, want %d", len(second.MirTable), len(first.MirTable))
	}
	for i := range second.MirTable {
		if second.MirTable[i] != first.MirTable[i] {
			t.Errorf("table[%d] = %v, want %v", i, second.MirTable[i], first.MirTable[i])
		}
	}
	if second.NodeCount != first.NodeCount {
		t.Errorf("restored NodeCount = %d, want %d", second.NodeCount, first.NodeCount)
	}
}

func TestCacheKeyedByDebugLevel(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cache, err := OpenScopeCache("drift-test")
	if err != nil {
		t.Fatalf("OpenScopeCache: %v", err)
	}

	dir := t.TempDir()
	path := writeFixture(t, dir, "simple.scopes.json", testFixture)

	// Прогон без отладки заполняет кэш пустым результатом.
	none, err := ResolveFile(context.Background(), source.NewFileSet(), path,
		ResolveOptions{Cache: cache, DebugLevel: project.DebugNone})
	if err != nil {
		t.Fatalf("debug=none ResolveFile: %v", err)
	}
	if none.Recorder.Len() != 0 {
		t.Fatalf("debug=none created %d scopes", none.Recorder.Len())
	}

	// Полный прогон того же файла не должен увидеть эту запись.
	full, err := ResolveFile(context.Background(), source.NewFileSet(), path,
		ResolveOptions{Cache: cache, DebugLevel: project.DebugFull})
	if err != nil {
		t.Fatalf("debug=full ResolveFile: %v", err)
	}
	if full.FromCache {
		t.Fatal("debug=full run was served a debug=none cache entry")
	}
	if full.Recorder.Len() == 0 {
		t.Fatal("debug=full run produced zero scopes")
	}
	for i, ref := range full.MirTable {
		if !ref.IsValid() {
			t.Errorf("table[%d] is null after full-debug run", i)
		}
	}

	// И обратно: выключенная отладка не должна получить полную таблицу.
	noneAgain, err := ResolveFile(context.Background(), source.NewFileSet(), path,
		ResolveOptions{Cache: cache, DebugLevel: project.DebugNone})
	if err != nil {
		t.Fatalf("second debug=none ResolveFile: %v", err)
	}
	if noneAgain.Recorder.Len() != 0 {
		t.Errorf("debug=none run restored %d scopes from a full-debug entry", noneAgain.Recorder.Len())
	}
	for i, ref := range noneAgain.MirTable {
		if ref.IsValid() {
			t.Errorf("table[%d] = %v with debug info disabled", i, ref)
		}
	}
}
