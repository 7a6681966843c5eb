package driver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"treelower/internal/ast"
	"treelower/internal/diag"
	"treelower/internal/lower"
	"treelower/internal/observ"
	"treelower/internal/project"
	"treelower/internal/resolve"
	"treelower/internal/source"
	"treelower/internal/trace"
)

// Options configures LowerFiles. Every field may be left zero.
type Options struct {
	// Jobs bounds the worker pool; zero or less means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps each per-file bag; zero or less means no cap.
	MaxDiagnostics int
	// Manifest contributes declared packages and externals.
	Manifest *project.Manifest
	// FileSet holds the source text used to skip leading comments.
	FileSet *source.FileSet
	// Verify checks every Output Tree after lowering.
	Verify bool
	// Timings appends an ObsTimings diagnostic to the summary bag.
	Timings bool
	Timer   *observ.Timer
	OnPhase PhaseObserver
	// Progress receives a queued event for every file up front, then one
	// working and one done or error event per file.
	Progress ProgressSink
}

// FileResult is the outcome for one input file. Lowered is nil when Err is
// set.
type FileResult struct {
	Source  *ast.File
	Lowered *lower.Result
	Bag     *diag.Bag
	Err     error
}

// Result holds per-file results in input order.
type Result struct {
	Files     []FileResult
	Directory *project.Directory
	Index     *resolve.Index
	// Bag collects run-wide diagnostics such as timings.
	Bag *diag.Bag
}

// HasErrors reports whether any file failed or carries an error diagnostic.
func (r *Result) HasErrors() bool {
	if r.Bag.HasErrors() {
		return true
	}
	for _, f := range r.Files {
		if f.Err != nil || f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Diagnostics merges every per-file bag and the run bag into one sorted bag.
func (r *Result) Diagnostics() *diag.Bag {
	total := r.Bag.Len()
	for _, f := range r.Files {
		total += f.Bag.Len()
	}
	out := diag.NewBag(total)
	for _, f := range r.Files {
		out.Merge(f.Bag)
	}
	out.Merge(r.Bag)
	out.Sort()
	return out
}

// LowerFiles lowers files concurrently. Every file gets its own symbol
// registry and diagnostic bag; the reference index and the package directory
// are shared. The returned error joins the failures of all files, or is the
// context error when ctx was cancelled.
func LowerFiles(ctx context.Context, files []*ast.File, opts Options) (*Result, error) {
	if opts.Timer == nil && opts.Timings {
		opts.Timer = observ.NewTimer()
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "lower-files")
	span.WithExtra("files", fmt.Sprint(len(files)))

	res := &Result{
		Files:     make([]FileResult, len(files)),
		Directory: project.NewDirectory(opts.Manifest),
		Bag:       opts.newBag(),
	}

	_ = opts.phase("index", func(int) error {
		res.Index = buildIndex(files, opts.Manifest)
		return nil
	})

	var positions *source.Positions
	if opts.FileSet != nil {
		positions = source.NewPositions(opts.FileSet)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for i, f := range files {
		opts.emit(FileEvent{Index: i, File: fileName(f), Status: StatusQueued})
	}

	err := opts.phase("lower", func(phase int) error {
		limit := max(1, min(jobs, len(files)))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		// slots hands every running goroutine a worker number for tracing.
		slots := make(chan int, limit)
		for w := 1; w <= limit; w++ {
			slots <- w
		}
		for i, f := range files {
			i, f := i, f
			g.Go(func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				worker := <-slots
				defer func() { slots <- worker }()
				// res.Files[i] is written by this goroutine only.
				opts.emit(FileEvent{Index: i, File: fileName(f), Status: StatusWorking, Worker: worker})
				start := time.Now()
				res.Files[i] = lowerOne(trace.WithWorker(gctx, worker), f, res, positions, opts, phase)
				done := FileEvent{
					Index:      i,
					File:       fileName(f),
					Status:     StatusDone,
					Worker:     worker,
					Elapsed:    time.Since(start),
					Unresolved: res.Files[i].Bag.Count(diag.LowerUnresolvedReference),
				}
				if err := res.Files[i].Err; err != nil {
					done.Status, done.Err = StatusError, err
				}
				opts.emit(done)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		return ctx.Err()
	})
	if err != nil {
		span.End("cancelled")
		return res, err
	}

	var errs []error
	for _, f := range res.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}

	if opts.Timings {
		appendTimingDiagnostic(res.Bag, newTimingPayload(len(files), opts.Timer.Report()))
	}
	span.End(fmt.Sprintf("%d failed", len(errs)))
	return res, errors.Join(errs...)
}

func fileName(f *ast.File) string {
	if f == nil {
		return ""
	}
	return f.Name
}

func (o *Options) newBag() *diag.Bag {
	if o.MaxDiagnostics <= 0 {
		return diag.NewBag(math.MaxUint16)
	}
	return diag.NewBag(o.MaxDiagnostics)
}

func buildIndex(files []*ast.File, m *project.Manifest) *resolve.Index {
	ix := resolve.NewIndex()
	if m != nil {
		m.RegisterExternals(ix)
	}
	for _, f := range files {
		if f != nil {
			ix.AddFile(f)
		}
	}
	return ix
}

func lowerOne(ctx context.Context, f *ast.File, res *Result, positions *source.Positions, opts Options, phase int) FileResult {
	bag := opts.newBag()
	out := FileResult{Source: f, Bag: bag}
	if f == nil {
		out.Err = errors.New("driver: nil file")
		return out
	}
	if !res.Directory.Declared(f.Package) {
		diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.ProjUnknownPackage, f.Span,
			fmt.Sprintf("package %q is not declared in %s", f.Package, project.ManifestName)).Emit()
	}

	idx := opts.Timer.BeginIn(phase, f.Name)
	lowered, err := lower.Lower(ctx, f, lower.Options{
		Oracle:    res.Index.In(f.Package),
		Positions: positions,
		Packages:  res.Directory,
		Reporter:  diag.BagReporter{Bag: bag},
		Verify:    opts.Verify,
	})
	note := ""
	if err != nil {
		note = "failed"
	}
	opts.Timer.End(idx, note)
	if err != nil {
		var iv *lower.InvariantViolation
		if errors.As(err, &iv) {
			diag.ReportError(diag.BagReporter{Bag: bag}, diag.LowerInvariant, iv.Span, iv.Error()).Emit()
		}
		out.Err = fmt.Errorf("%s: %w", f.Name, err)
		return out
	}
	out.Lowered = lowered
	return out
}
