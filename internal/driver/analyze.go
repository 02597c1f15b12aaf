package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"plinth/internal/ast"
	"plinth/internal/diag"
	"plinth/internal/observ"
	"plinth/internal/project"
	"plinth/internal/source"
	"plinth/internal/trace"
)

// ErrModulesFailed is wrapped by Analyze when some modules did not check.
var ErrModulesFailed = errors.New("modules failed to check")

// Options tunes Analyze.
type Options struct {
	// Jobs bounds concurrent Check calls; 1 checks modules one by one in
	// sequence order, 0 uses GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	Reporter diag.Reporter
	Timer    *observ.Timer
	Cache    *SequenceCache
}

// Result is the outcome of Analyze.
type Result struct {
	// Sequence lists every module after the modules it imports.
	Sequence []string
	// Waves is set when modules were checked in parallel batches.
	Waves       [][]string
	Checked     *project.CheckedModules
	ModuleTypes map[string]*ast.TypeInfo
	// Failed lists modules that did not check, directly or through an import,
	// in sequence order.
	Failed []string
}

// Analyze orders parsed by imports and checks each module after everything
// it imports. A module whose import failed is skipped and reported with
// ProjDependencyFailed. An import cycle is reported and returned as an
// *project.ImportCycleError before any module is checked.
func Analyze(ctx context.Context, parsed *project.ParsedModules, checker Checker, opts Options) (*Result, error) {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeDriver, "analyze", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	res, err := order(ctx, parsed, jobs > 1, opts)
	if err != nil {
		span.WithExtra("error", "cycle").End("")
		return nil, err
	}

	for _, name := range res.Sequence {
		emit(opts.Progress, Event{Module: name, Stage: StageCheck, Status: StatusQueued})
	}

	phase := beginPhase(opts.Timer, "check")
	a := &analysis{
		parsed:  parsed,
		checker: checker,
		opts:    opts,
		result:  res,
		failed:  make(map[string]bool),
	}
	if res.Waves != nil {
		err = a.runWaves(ctx, jobs)
	} else {
		err = a.runSequence(ctx)
	}
	endPhase(opts.Timer, phase, fmt.Sprintf("%d modules, jobs=%d", len(res.Sequence), jobs))

	span.WithExtra("modules", strconv.Itoa(len(res.Sequence))).
		WithExtra("failed", strconv.Itoa(len(res.Failed))).
		End("")

	if err != nil {
		return res, err
	}
	if len(res.Failed) > 0 {
		return res, fmt.Errorf("%w: %s", ErrModulesFailed, strings.Join(res.Failed, ", "))
	}
	return res, nil
}

func order(ctx context.Context, parsed *project.ParsedModules, parallel bool, opts Options) (*Result, error) {
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopePass, "sequence", trace.CurrentSpan(ctx))
	phase := beginPhase(opts.Timer, "sequence")
	start := time.Now()
	emit(opts.Progress, Event{Stage: StageSequence, Status: StatusWorking})

	res := &Result{
		Checked:     project.NewCheckedModules(nil),
		ModuleTypes: make(map[string]*ast.TypeInfo),
	}

	entry, hit := opts.Cache.Lookup(parsed)
	if hit {
		span.WithExtra("cache", "hit")
	} else {
		seq, err := parsed.Sequence()
		if err != nil {
			var cycle *project.ImportCycleError
			if errors.As(err, &cycle) {
				cycle.Report(opts.Reporter, parsed)
			}
			emit(opts.Progress, Event{Stage: StageSequence, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			endPhase(opts.Timer, phase, "import cycle")
			span.End(err.Error())
			return nil, err
		}
		entry = CacheEntry{Sequence: seq}
	}

	dirty := !hit
	if parallel && entry.Waves == nil {
		waves, err := parsed.Waves()
		if err != nil {
			span.End(err.Error())
			return nil, err
		}
		entry.Waves = waves
		dirty = true
	}
	if dirty {
		if err := opts.Cache.Store(parsed, entry); err != nil {
			trace.Point(t, trace.ScopePass, "cache", "store failed: "+err.Error(), span.ID())
		}
	}

	res.Sequence = entry.Sequence
	if parallel {
		res.Waves = entry.Waves
	}

	endPhase(opts.Timer, phase, "")
	emit(opts.Progress, Event{Stage: StageSequence, Status: StatusDone, Elapsed: time.Since(start)})
	span.WithExtra("modules", strconv.Itoa(len(res.Sequence))).End("")
	return res, nil
}

type analysis struct {
	parsed  *project.ParsedModules
	checker Checker
	opts    Options
	result  *Result

	// failed is written only between waves.
	failed map[string]bool
}

type checkOutcome struct {
	name    string
	checked *project.CheckedModule
	types   *ast.TypeInfo
	failed  bool
}

func (a *analysis) runSequence(ctx context.Context) error {
	for _, name := range a.result.Sequence {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.commit(a.checkOne(ctx, name))
	}
	return nil
}

func (a *analysis) runWaves(ctx context.Context, jobs int) error {
	for i, wave := range a.result.Waves {
		outcomes := make([]checkOutcome, len(wave))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, len(wave)))
		for j, name := range wave {
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				outcomes[j] = a.checkOne(gctx, name)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("wave %d: %w", i, err)
		}

		for _, out := range outcomes {
			a.commit(out)
		}
	}

	// waves group modules by depth; report failures in sequence order
	failed := a.result.Failed[:0]
	for _, name := range a.result.Sequence {
		if a.failed[name] {
			failed = append(failed, name)
		}
	}
	a.result.Failed = failed
	return nil
}

// checkOne must not write to a: in parallel mode it runs concurrently with
// the other modules of its wave.
func (a *analysis) checkOne(ctx context.Context, name string) checkOutcome {
	module, _ := a.parsed.Get(name)
	t := trace.FromContext(ctx)
	span := trace.Begin(t, trace.ScopeModule, "module:"+name, trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, span)
	start := time.Now()

	if dep, at, ok := a.failedImport(module); ok {
		diag.ReportError(a.opts.Reporter, diag.ProjDependencyFailed, name, at,
			fmt.Sprintf("module %q is not checked because %q has errors", name, dep)).Emit()
		emit(a.opts.Progress, Event{Module: name, Stage: StageCheck, Status: StatusSkipped, Elapsed: time.Since(start)})
		span.WithExtra("skipped", dep).End("")
		return checkOutcome{name: name, failed: true}
	}

	emit(a.opts.Progress, Event{Module: name, Stage: StageCheck, Status: StatusWorking})
	checked, types, err := a.checker.Check(ctx, module, a.result.Checked)
	if err == nil && checked == nil {
		err = fmt.Errorf("checker returned no module for %q", name)
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			diag.ReportError(a.opts.Reporter, diag.ProjInvalidModule, name, source.Span{}, err.Error()).Emit()
		}
		emit(a.opts.Progress, Event{Module: name, Stage: StageCheck, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		span.End(err.Error())
		return checkOutcome{name: name, failed: true}
	}

	emit(a.opts.Progress, Event{Module: name, Stage: StageCheck, Status: StatusDone, Elapsed: time.Since(start)})
	span.End("")
	return checkOutcome{name: name, checked: checked, types: types}
}

func (a *analysis) failedImport(module *project.ParsedModule) (string, source.Span, bool) {
	for _, dep := range module.AST.Dependencies() {
		if a.failed[dep.Name] {
			return dep.Name, dep.Location, true
		}
	}
	return "", source.Span{}, false
}

func (a *analysis) commit(out checkOutcome) {
	if out.failed {
		a.failed[out.name] = true
		a.result.Failed = append(a.result.Failed, out.name)
		return
	}
	a.result.Checked.Insert(out.checked)
	if out.types != nil {
		a.result.ModuleTypes[out.name] = out.types
	}
}

func beginPhase(timer *observ.Timer, name string) int {
	if timer == nil {
		return -1
	}
	return timer.Begin(name)
}

func endPhase(timer *observ.Timer, idx int, note string) {
	if timer == nil {
		return
	}
	timer.End(idx, note)
}
