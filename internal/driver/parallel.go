package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"drift/internal/diag"
	"drift/internal/fixture"
	"drift/internal/project"
	"drift/internal/source"
	"drift/internal/trace"
)

// ListFixtureFiles возвращает отсортированный список всех *.scopes.json
// файлов в директории.
func ListFixtureFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, fixture.Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ResolveDir resolves every fixture under dir. Fixtures are decoded serially
// (the FileSet is mutated during decode), then walked and resolved in
// parallel. Results keep the sorted file order regardless of scheduling.
func ResolveDir(ctx context.Context, dir string, opts ResolveOptions) (*source.FileSet, []*ResolveResult, error) {
	tracer := trace.FromContext(ctx)
	dirSpan := trace.Begin(tracer, trace.ScopeDriver, "resolve-dir:"+dir, 0)
	defer dirSpan.End("")

	files, err := ListFixtureFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	total := len(files)
	results := make([]*ResolveResult, total)

	// Фаза загрузки: последовательная, FileSet и арены не потокобезопасны.
	type loaded struct {
		fx  *fixture.Fixture
		key project.Digest
		err error
	}
	fixtures := make([]loaded, total)
	for i, path := range files {
		opts.Observer.emit(PhaseEvent{Path: path, Phase: "load", Index: i, Total: total, Status: PhaseStart})
		key, hit := cacheLookup(opts.Cache, path, opts.DebugLevel)
		if hit != nil {
			res := restoreResult(path, hit)
			res.Bag = diag.NewBag(opts.maxDiags())
			results[i] = res
		} else {
			fx, err := fixture.Load(fileSet, path)
			fixtures[i] = loaded{fx: fx, key: key, err: err}
		}
		opts.Observer.emit(PhaseEvent{Path: path, Phase: "load", Index: i, Total: total, Status: PhaseEnd})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Каждая горутина пишет только в свой индекс, мьютекс не нужен.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, total))

	for i, path := range files {
		if results[i] != nil {
			continue // cache hit
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if fixtures[i].err != nil {
				bag := diag.NewBag(opts.maxDiags())
				bag.Add(diag.NewError(diag.FixUnreadable, source.Span{}, fixtures[i].err.Error()))
				results[i] = &ResolveResult{Path: path, Bag: bag}
				return nil
			}

			// События walk/resolve должны нести путь файла, а не имя функции.
			wopts := opts
			wopts.Observer = func(ev PhaseEvent) {
				ev.Path = path
				ev.Index = i
				ev.Total = total
				opts.Observer.emit(ev)
			}

			res := ResolveFixture(gctx, fileSet, fixtures[i].fx, wopts, nil, nil)
			res.Path = path
			results[i] = res
			if opts.Cache != nil && !res.Bag.HasErrors() {
				// Ошибка записи в кэш не влияет на результат.
				_ = opts.Cache.Put(fixtures[i].key, payloadFromResult(fixtures[i].key, res)) //nolint:errcheck
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, nil, err
	}
	return fileSet, results, nil
}
