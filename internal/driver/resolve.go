package driver

import (
	"context"
	"errors"
	"fmt"

	"drift/internal/backend/debuginfo"
	"drift/internal/diag"
	"drift/internal/fixture"
	"drift/internal/observ"
	"drift/internal/project"
	"drift/internal/source"
	"drift/internal/trace"
)

// DefaultMaxDiagnostics bounds the diagnostics bag when the caller does not.
const DefaultMaxDiagnostics = 100

// ResolveOptions controls one resolution run.
type ResolveOptions struct {
	MaxDiagnostics int
	Jobs           int // parallelism for directory runs; 0 = GOMAXPROCS
	DebugLevel     project.DebugLevel
	Timings        bool        // attach a timings diagnostic to each result
	Cache          *ScopeCache // nil disables caching
	Observer       PhaseObserver
}

func (o *ResolveOptions) maxDiags() int {
	if o == nil || o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// ResolveResult holds everything produced for one fixture.
type ResolveResult struct {
	Path      string
	Name      string
	FileID    source.FileID
	Bag       *diag.Bag
	Fixture   *fixture.Fixture
	Recorder  *debuginfo.Recorder
	ScopeMap  *debuginfo.ScopeMap
	MirTable  []debuginfo.ScopeRef
	NodeCount int // AST nodes assigned a scope; survives cache round trips
	Timing    *observ.Report
	FromCache bool
}

// ResolveFile loads one fixture file and resolves its scopes.
func ResolveFile(ctx context.Context, fset *source.FileSet, path string, opts ResolveOptions) (*ResolveResult, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFunc, "fn:"+path, 0)
	defer span.End("")

	timer := observ.NewTimer()
	bag := diag.NewBag(opts.maxDiags())

	loadIdx := timer.Begin("load")
	opts.Observer.emit(PhaseEvent{Path: path, Phase: "load", Status: PhaseStart})

	key, hit := cacheLookup(opts.Cache, path, opts.DebugLevel)
	if hit != nil {
		timer.End(loadIdx, "cache")
		opts.Observer.emit(PhaseEvent{Path: path, Phase: "load", Status: PhaseEnd})
		res := restoreResult(path, hit)
		res.Bag = bag
		report := timer.Report()
		res.Timing = &report
		return res, nil
	}

	fx, err := fixture.Load(fset, path)
	timer.End(loadIdx, "")
	opts.Observer.emit(PhaseEvent{Path: path, Phase: "load", Status: PhaseEnd})
	if err != nil {
		return nil, err
	}

	wopts := opts
	wopts.Observer = func(ev PhaseEvent) {
		ev.Path = path
		opts.Observer.emit(ev)
	}

	res := ResolveFixture(ctx, fset, fx, wopts, timer, bag)
	res.Path = path

	if opts.Cache != nil && !bag.HasErrors() {
		if err := opts.Cache.Put(key, payloadFromResult(key, res)); err != nil {
			// Кэш — не повод ронять резолюцию.
			bag.Add(diag.New(diag.SevInfo, diag.ObsInfo, source.Span{},
				fmt.Sprintf("scope cache write failed: %v", err)))
		}
	}
	return res, nil
}

// ResolveFixture resolves an already decoded fixture. timer and bag may be
// nil; fresh ones are created.
func ResolveFixture(ctx context.Context, fset *source.FileSet, fx *fixture.Fixture,
	opts ResolveOptions, timer *observ.Timer, bag *diag.Bag) *ResolveResult {

	if timer == nil {
		timer = observ.NewTimer()
	}
	if bag == nil {
		bag = diag.NewBag(opts.maxDiags())
	}
	tracer := trace.FromContext(ctx)

	res := &ResolveResult{
		Name:    fx.Name,
		FileID:  fx.File,
		Bag:     bag,
		Fixture: fx,
	}

	rec := debuginfo.NewRecorder()
	res.Recorder = rec

	dctx := debuginfo.FnDebugContext{Kind: debuginfo.FnDebugRegular}
	if opts.DebugLevel == project.DebugNone {
		dctx.Kind = debuginfo.FnDebugDisabled
	}

	fn, _ := fx.Builder.Items.Fn(fx.Fn)

	walkFault := false
	if dctx.Kind == debuginfo.FnDebugRegular {
		walkSpan := trace.Begin(tracer, trace.ScopePhase, "walk", 0)
		walkIdx := timer.Begin("walk")
		opts.Observer.emit(PhaseEvent{Path: fx.Name, Phase: "walk", Status: PhaseStart})

		start, _ := fset.Resolve(fn.Span)
		fnScope := rec.CreateFunctionScope(fx.File, start.Line)
		dctx.Scope = fnScope

		sm, err := debuginfo.CreateScopeMap(fx.Builder, fset, fx.Defs, rec, fx.Fn, fnScope)
		if err != nil {
			addWalkDiagnostic(bag, fn.Span, err)
			walkFault = true
		} else {
			res.ScopeMap = sm
			res.NodeCount = sm.Len()
		}
		timer.End(walkIdx, fmt.Sprintf("%d scopes", rec.Len()))
		opts.Observer.emit(PhaseEvent{Path: fx.Name, Phase: "walk", Status: PhaseEnd})
		walkSpan.End(fmt.Sprintf("%d scopes", rec.Len()))
	}

	resolveSpan := trace.Begin(tracer, trace.ScopePhase, "resolve", 0)
	resolveIdx := timer.Begin("resolve")
	opts.Observer.emit(PhaseEvent{Path: fx.Name, Phase: "resolve", Status: PhaseStart})
	switch {
	case walkFault:
		// Сбой обхода необратим: отладочная информация функции отбрасывается
		// целиком, таблица остаётся пустой.
	case fx.Mir == nil:
		bag.Add(diag.New(diag.SevWarning, diag.MirMissingData, fn.Span,
			fmt.Sprintf("no lowered scope data for %q", fx.Name)))
	default:
		res.MirTable = debuginfo.CreateMirScopes(fx.Mir, fset, rec, dctx)
	}
	timer.End(resolveIdx, "")
	opts.Observer.emit(PhaseEvent{Path: fx.Name, Phase: "resolve", Status: PhaseEnd})
	resolveSpan.End("")

	report := timer.Report()
	res.Timing = &report
	if opts.Timings {
		appendTimingDiagnostic(bag, timingPayload{
			Kind:    "scopes",
			Path:    fx.Name,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
	return res
}

// addWalkDiagnostic converts walk failures into diagnostics. An inconsistency
// drops debug info for the function but does not stop the run.
func addWalkDiagnostic(bag *diag.Bag, fnSpan source.Span, err error) {
	var inconsistency *debuginfo.InconsistencyError
	var missing *debuginfo.MissingMirError
	switch {
	case errors.As(err, &inconsistency):
		bag.Add(diag.NewError(diag.DbgScopeInconsistency, inconsistency.Span,
			"inconsistency in scope management"))
	case errors.As(err, &missing):
		bag.Add(diag.NewError(diag.DbgMissingMir, fnSpan, missing.Error()))
	default:
		bag.Add(diag.NewError(diag.DbgInfo, fnSpan, err.Error()))
	}
}
