// Package pipeline runs the contact normalization pipeline: a streaming
// reader, an optional worker pool, and a single ordered writer.
//
// Output rows always appear in input order regardless of worker count. Workers
// return results tagged with the row's sequence number; the writer holds them
// in a reorder buffer and flushes contiguous runs, folding statistics at flush
// time so counters and error lines are identical across worker counts.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"contactetl/internal/metrics"
	"contactetl/internal/normalize"
	"contactetl/internal/parser/csv"
	"contactetl/internal/storage"
)

// Options configures one run. The zero value normalizes with the default
// phone rule, reads semicolon-delimited input, and runs sequentially.
type Options struct {
	// Job names the run in logs and metrics.
	Job string

	// Delimiter is the input field separator; 0 means ';'.
	Delimiter rune

	// PhoneRule sets the home country for bare local numbers.
	PhoneRule normalize.PhoneRule

	// Workers selects the execution mode: nil runs sequentially in the
	// calling goroutine's flow, 0 autodetects one worker per available CPU,
	// and a positive count is capped at the available CPUs.
	Workers *int

	// BatchSize is the number of rows handed to a worker at once;
	// 0 picks a default from the worker count.
	BatchSize int

	// ChannelBuffer bounds the row and result channels; 0 means 256.
	ChannelBuffer int

	// DedupeByID drops every repeat of an already-written id
	// (first occurrence wins).
	DedupeByID bool

	// Now overrides the clock used for the future-date check. Tests set it.
	Now func() time.Time
}

const defaultChannelBuffer = 256

// Run streams src through normalization into sink and returns the run
// statistics. The input order of rows is preserved in both the sink output
// and the error list. A row-level failure skips the row; only input-level
// problems (no header, unreadable source) or sink failures abort the run.
func Run(ctx context.Context, src io.Reader, sink storage.Sink, opt Options) (Result, error) {
	start := time.Now()

	norm := normalize.New(opt.PhoneRule)
	if opt.Now != nil {
		norm.Now = opt.Now
	}

	r := &run{
		job:     opt.Job,
		delim:   opt.Delimiter,
		norm:    norm,
		sink:    sink,
		chanBuf: opt.ChannelBuffer,
	}
	if r.chanBuf <= 0 {
		r.chanBuf = defaultChannelBuffer
	}
	if opt.DedupeByID {
		r.dedupe = newDeduper()
	}

	var err error
	if opt.Workers == nil {
		err = r.sequential(ctx, src)
	} else {
		workers := resolveWorkers(opt.Workers)
		batchSize := opt.BatchSize
		if batchSize <= 0 {
			batchSize = defaultBatchSize(workers)
		}
		log.Printf("pipeline: running with %d workers (batch size %d)", workers, batchSize)
		err = r.parallel(ctx, src, workers, batchSize)
	}

	elapsed := time.Since(start)
	metrics.RecordStage(opt.Job, "run", err, elapsed)
	metrics.RecordRows(opt.Job, "total", int64(r.stats.Total))
	metrics.RecordRows(opt.Job, "normalized", int64(r.stats.Normalized))
	metrics.RecordRows(opt.Job, "skipped", int64(r.stats.Skipped))

	return Result{Stats: r.stats, Elapsed: elapsed}, err
}

// defaultBatchSize amortizes channel traffic without starving small pools.
func defaultBatchSize(workers int) int {
	if n := workers * 4; n > 64 {
		return n
	}
	return 64
}

type run struct {
	job     string
	delim   rune
	norm    *normalize.Normalizer
	sink    storage.Sink
	chanBuf int
	dedupe  *deduper
	stats   Stats
}

// sequential processes rows inline as the reader produces them.
func (r *run) sequential(ctx context.Context, src io.Reader) error {
	g, ctx := errgroup.WithContext(ctx)

	rows := make(chan csv.Row, r.chanBuf)
	g.Go(func() error {
		defer close(rows)
		return csv.StreamRows(ctx, src, csv.Options{Comma: r.delim}, rows, r.softError)
	})
	g.Go(func() error {
		for row := range rows {
			if err := r.flush(ctx, r.normalizeRow(row)); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

// parallel fans rows out to a worker pool in batches and funnels results back
// through the single writer. Stages: reader -> batcher -> workers -> writer.
func (r *run) parallel(ctx context.Context, src io.Reader, workers, batchSize int) error {
	g, ctx := errgroup.WithContext(ctx)

	rows := make(chan csv.Row, r.chanBuf)
	g.Go(func() error {
		defer close(rows)
		return csv.StreamRows(ctx, src, csv.Options{Comma: r.delim}, rows, r.softError)
	})

	batches := make(chan []csv.Row, workers)
	g.Go(func() error {
		defer close(batches)
		batch := make([]csv.Row, 0, batchSize)
		send := func() error {
			metrics.RecordBatches(r.job, 1)
			select {
			case batches <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
			batch = make([]csv.Row, 0, batchSize)
			return nil
		}
		for row := range rows {
			batch = append(batch, row)
			if len(batch) >= batchSize {
				if err := send(); err != nil {
					return err
				}
			}
		}
		if len(batch) > 0 {
			return send()
		}
		return nil
	})

	results := make(chan outcome, r.chanBuf)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for batch := range batches {
				for _, row := range batch {
					select {
					case results <- r.normalizeRow(row):
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	g.Go(func() error {
		buf := newReorderBuffer(csv.FirstDataSeq)
		for o := range results {
			for _, ready := range buf.add(o) {
				if err := r.flush(ctx, ready); err != nil {
					return err
				}
			}
		}
		if n := buf.len(); n != 0 {
			return fmt.Errorf("pipeline: %d rows stranded in reorder buffer", n)
		}
		return nil
	})

	return g.Wait()
}

// normalizeRow runs the row transform; safe to call from any worker.
func (r *run) normalizeRow(row csv.Row) outcome {
	o := outcome{seq: row.Seq, id: normalize.ID(row.Fields)}
	c, err := r.norm.Row(row.Fields)
	if err != nil {
		o.err = err
		return o
	}
	o.contact = &c
	return o
}

// flush emits one row in input order: fold stats, then write survivors.
// Dedupe runs here, on the writer, so first-occurrence-wins follows input
// order even under a parallel pool.
func (r *run) flush(ctx context.Context, o outcome) error {
	if o.err == nil && r.dedupe != nil && r.dedupe.duplicate(o.contact.ID) {
		o.err = errDuplicateID
		o.contact = nil
	}
	r.stats.fold(o.seq, o.id, o.err)
	if o.err != nil {
		return nil
	}
	if err := r.sink.Write(ctx, *o.contact); err != nil {
		return fmt.Errorf("write row %d: %w", o.seq, err)
	}
	return nil
}

// softError logs per-line parse failures the reader dropped.
func (r *run) softError(line int, err error) {
	log.Printf("reader: line %d: %v", line, err)
}
