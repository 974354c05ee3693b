// Package batch runs many trials of the checkout and collects the three
// statistic series.
//
// With one worker every trial runs on the same simulator, so the batch
// consumes one continuing random stream. With more workers the trials are
// split into contiguous chunks and each worker owns a simulator with its own
// independent streams.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/checkoutsim/checkout"
	"github.com/sarchlab/checkoutsim/monitoring"
	"github.com/sarchlab/checkoutsim/seriesio"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// A Trialer runs one trial at a time.
type Trialer interface {
	RunTrial() checkout.Result
}

// A Recorder receives every trial result as soon as it is available. It may
// be called by several workers at the same time.
type Recorder interface {
	RecordTrial(worker, trial int, result checkout.Result)
}

// A Factory creates the trialer of a worker.
type Factory func(worker int) (Trialer, error)

// Status describes the progress of one worker.
type Status struct {
	Worker     int
	TrialsDone int
	LastTrial  int
	LastResult checkout.Result
}

// Runner runs the trials of one worker on one trialer.
type Runner struct {
	trialer Trialer
	worker  int

	statusLock sync.Mutex
	status     Status
}

// Status returns a copy of the current status of the runner.
func (r *Runner) Status() any {
	r.statusLock.Lock()
	defer r.statusLock.Unlock()

	s := r.status

	return &s
}

func (r *Runner) update(trial int, result checkout.Result) {
	r.statusLock.Lock()
	r.status.TrialsDone++
	r.status.LastTrial = trial
	r.status.LastResult = result
	r.statusLock.Unlock()
}

// Builder can build batches.
type Builder struct {
	workers     int
	reportEvery int
	logger      *zap.SugaredLogger
	progressBar *monitoring.ProgressBar
	recorder    Recorder
	monitor     *monitoring.Monitor
}

// MakeBuilder returns a Builder for a single-worker batch that logs nothing.
func MakeBuilder() Builder {
	return Builder{
		workers:     1,
		reportEvery: 100000,
	}
}

// WithWorkers sets how many simulators run at the same time.
func (b Builder) WithWorkers(n int) Builder {
	b.workers = n
	return b
}

// WithReportEvery sets how many finished trials separate two progress log
// lines. Zero disables the progress log.
func (b Builder) WithReportEvery(n int) Builder {
	b.reportEvery = n
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(l *zap.SugaredLogger) Builder {
	b.logger = l
	return b
}

// WithProgressBar sets the progress bar that counts finished trials.
func (b Builder) WithProgressBar(pb *monitoring.ProgressBar) Builder {
	b.progressBar = pb
	return b
}

// WithRecorder sets the recorder that receives every trial.
func (b Builder) WithRecorder(r Recorder) Builder {
	b.recorder = r
	return b
}

// WithMonitor registers the runners of the batch with a monitor.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

// Build creates one trialer per worker.
func (b Builder) Build(factory Factory) (*Batch, error) {
	if b.workers < 1 {
		return nil, fmt.Errorf("at least one worker is required, got %d",
			b.workers)
	}

	if b.reportEvery < 0 {
		return nil, fmt.Errorf("negative report interval %d", b.reportEvery)
	}

	batch := &Batch{
		reportEvery: b.reportEvery,
		logger:      b.logger,
		progressBar: b.progressBar,
		recorder:    b.recorder,
	}

	if batch.logger == nil {
		batch.logger = zap.NewNop().Sugar()
	}

	for w := range b.workers {
		t, err := factory(w)
		if err != nil {
			return nil, fmt.Errorf("creating worker %d: %w", w, err)
		}

		r := &Runner{
			trialer: t,
			worker:  w,
			status:  Status{Worker: w, LastTrial: -1},
		}
		batch.runners = append(batch.runners, r)

		if b.monitor != nil {
			b.monitor.RegisterRunner(fmt.Sprintf("worker-%d", w), r)
		}
	}

	return batch, nil
}

// A Batch runs trials on a fixed set of workers. Running a batch again
// continues the random streams of its workers.
type Batch struct {
	runners     []*Runner
	reportEvery int
	logger      *zap.SugaredLogger
	progressBar *monitoring.ProgressBar
	recorder    Recorder

	finished atomic.Int64
}

// Runners returns the runners of the batch, one per worker.
func (b *Batch) Runners() []*Runner {
	return b.runners
}

// Run runs n trials and returns their statistics in trial order. It stops
// early with the context error if ctx is cancelled.
func (b *Batch) Run(ctx context.Context, n int) (*seriesio.Series, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative trial count %d", n)
	}

	series := &seriesio.Series{
		Utilisation:    make([]float64, n),
		MeanCustomers:  make([]float64, n),
		MeanSystemTime: make([]float64, n),
	}

	b.finished.Store(0)

	chunks := split(n, len(b.runners))

	g, ctx := errgroup.WithContext(ctx)
	for i, r := range b.runners {
		c := chunks[i]
		g.Go(func() error {
			return b.runChunk(ctx, r, series, c, n)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Infow("batch finished", "trials", n, "workers", len(b.runners))

	return series, nil
}

type chunk struct {
	start, count int
}

func split(n, parts int) []chunk {
	chunks := make([]chunk, parts)

	base := n / parts
	rem := n % parts
	start := 0

	for i := range chunks {
		count := base
		if i < rem {
			count++
		}

		chunks[i] = chunk{start: start, count: count}
		start += count
	}

	return chunks
}

func (b *Batch) runChunk(
	ctx context.Context,
	r *Runner,
	series *seriesio.Series,
	c chunk,
	total int,
) error {
	for i := c.start; i < c.start+c.count; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		result := r.trialer.RunTrial()

		series.Utilisation[i] = result.Utilisation
		series.MeanCustomers[i] = result.MeanCustomersInSystem
		series.MeanSystemTime[i] = result.MeanSystemTime

		r.update(i, result)

		if b.recorder != nil {
			b.recorder.RecordTrial(r.worker, i, result)
		}

		if b.progressBar != nil {
			b.progressBar.IncrementFinished(1)
		}

		b.report(total)
	}

	return nil
}

func (b *Batch) report(total int) {
	done := b.finished.Add(1)

	if b.reportEvery == 0 || done%int64(b.reportEvery) != 0 {
		return
	}

	b.logger.Infow("trials finished", "finished", done, "total", total)
}

// IsCancelled tells if err means that the batch was stopped by its context.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// SimulatorFactory creates one checkout simulator per worker. Each simulator
// owns the independent streams selected by its worker index.
func SimulatorFactory(b checkout.Builder) Factory {
	return func(worker int) (Trialer, error) {
		s, err := b.WithWorkerIndex(worker).Build()
		if err != nil {
			return nil, err
		}

		return s, nil
	}
}
