package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"drift/internal/backend/debuginfo"
	"drift/internal/project"
	"drift/internal/source"
)

// Current schema version - increment when ScopePayload format changes
const scopeCacheSchemaVersion uint16 = 2

// ScopeCache хранит результаты резолюции скоупов по хешу содержимого
// фикстуры на диске.
// Thread-safe for concurrent access.
type ScopeCache struct {
	mu  sync.RWMutex
	dir string
}

// ScopePayload stores one resolved fixture for fast re-runs.
type ScopePayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Name string
	// Key is the fixture content hash combined with the debug level the
	// entry was resolved under.
	Key project.Digest

	// Materialized backend scopes, in creation order.
	Kinds   []uint8
	Parents []uint32
	Files   []uint32
	Lines   []uint32
	Cols    []uint32

	// MIR index -> scope ref (0 = none).
	Table []uint32

	// Number of AST nodes the walk assigned a scope to.
	NodeCount int
}

// OpenScopeCache initializes and returns a cache at the standard location.
func OpenScopeCache(app string) (*ScopeCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ScopeCache{dir: dir}, nil
}

func (c *ScopeCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "scopes" — чтобы кэш было легко чистить целиком.
	return filepath.Join(c.dir, "scopes", hexKey+".mp")
}

// Put serializes and writes a payload to the cache.
func (c *ScopeCache) Put(key project.Digest, payload *ScopePayload) error {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name()) //nolint:errcheck
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the cache. A schema mismatch
// counts as a miss.
func (c *ScopeCache) Get(key project.Digest, out *ScopePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		_ = f.Close() //nolint:errcheck
	}()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != scopeCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *ScopeCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// cacheKey derives the cache key from the fixture content and the debug
// level. A debug=none run writes an empty table; it must never be served to
// a full-debug run of the same fixture, or the reverse.
func cacheKey(content project.Digest, level project.DebugLevel) project.Digest {
	var stamp project.Digest
	stamp[0] = uint8(level)
	return project.Combine(content, stamp)
}

// cacheLookup hashes the fixture file and probes the cache. A read failure
// counts as a miss; the real load will surface it.
func cacheLookup(c *ScopeCache, path string, level project.DebugLevel) (project.Digest, *ScopePayload) {
	if c == nil {
		return project.Digest{}, nil
	}
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return project.Digest{}, nil
	}
	key := cacheKey(project.HashBytes(content), level)

	var payload ScopePayload
	ok, err := c.Get(key, &payload)
	if err != nil || !ok {
		return key, nil
	}
	if payload.Key != key {
		return key, nil
	}
	return key, &payload
}

func payloadFromResult(key project.Digest, res *ResolveResult) *ScopePayload {
	if res == nil || res.Recorder == nil {
		return nil
	}
	records := res.Recorder.Records()
	payload := &ScopePayload{
		Schema:    scopeCacheSchemaVersion,
		Name:      res.Name,
		Key:       key,
		Kinds:     make([]uint8, len(records)),
		Parents:   make([]uint32, len(records)),
		Files:     make([]uint32, len(records)),
		Lines:     make([]uint32, len(records)),
		Cols:      make([]uint32, len(records)),
		Table:     make([]uint32, len(res.MirTable)),
		NodeCount: res.NodeCount,
	}
	for i, rec := range records {
		payload.Kinds[i] = uint8(rec.Kind)
		payload.Parents[i] = uint32(rec.Parent)
		payload.Files[i] = uint32(rec.File)
		payload.Lines[i] = rec.Line
		payload.Cols[i] = rec.Col
	}
	for i, ref := range res.MirTable {
		payload.Table[i] = uint32(ref)
	}
	return payload
}

func restoreResult(path string, payload *ScopePayload) *ResolveResult {
	records := make([]debuginfo.ScopeRecord, len(payload.Kinds))
	for i := range payload.Kinds {
		records[i] = debuginfo.ScopeRecord{
			Kind:   debuginfo.ScopeRecordKind(payload.Kinds[i]),
			Parent: debuginfo.ScopeRef(payload.Parents[i]),
			File:   source.FileID(payload.Files[i]),
			Line:   payload.Lines[i],
			Col:    payload.Cols[i],
		}
	}
	table := make([]debuginfo.ScopeRef, len(payload.Table))
	for i, ref := range payload.Table {
		table[i] = debuginfo.ScopeRef(ref)
	}
	return &ResolveResult{
		Path:      path,
		Name:      payload.Name,
		Recorder:  debuginfo.RestoreRecorder(records),
		MirTable:  table,
		NodeCount: payload.NodeCount,
		FromCache: true,
	}
}

// String describes the cache location, for --verbose output.
func (c *ScopeCache) String() string {
	if c == nil {
		return "scope cache: disabled"
	}
	return fmt.Sprintf("scope cache: %s", c.dir)
}
