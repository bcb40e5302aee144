// Package batch spreads table detection across the pages of a document.
//
// The detector works one page at a time and never looks across page
// boundaries, so pages are free to run in parallel. A [Processor]
// supplies that caller-side scheduling: a bounded worker pool per
// document, a semaphore capping how many documents run at once, and
// results handed back in page order no matter which worker finished
// first.
package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/tables"
)

// Config controls how much work a Processor runs at once.
type Config struct {
	// Detection configures the detector applied to every page. Leaving it
	// nil selects tables.DefaultConfig.
	Detection *tables.Config

	// Workers caps the goroutines detecting pages within one document.
	// Zero or a negative value selects runtime.NumCPU.
	Workers int

	// MaxConcurrentDocuments caps how many documents are processed at the
	// same time across goroutines sharing this Processor. Zero or a
	// negative value selects 1.
	MaxConcurrentDocuments int
}

// PageTables couples one page's tables with the page number they came
// from and any warnings raised while finding them.
type PageTables struct {
	Page     int
	Tables   []*model.Table
	Warnings []tables.Warning
}

// Processor fans table detection out over the pages of a document. The
// zero value is not usable; create one with NewProcessor. A Processor is
// safe for concurrent use.
type Processor struct {
	det     *tables.Detector
	workers int
	sem     *semaphore.Weighted
}

// NewProcessor validates the detection configuration and creates a
// Processor. A nil config selects defaults throughout.
func NewProcessor(cfg *Config) (*Processor, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	det, err := tables.NewDetector(cfg.Detection)
	if err != nil {
		return nil, err
	}
	slots := cfg.MaxConcurrentDocuments
	if slots < 1 {
		slots = 1
	}
	return &Processor{
		det:     det,
		workers: adjustWorkerCount(cfg.Workers),
		sem:     semaphore.NewWeighted(int64(slots)),
	}, nil
}

// ProcessDocument runs detection over every page of doc and returns one
// PageTables per page, in page order. A nil document yields an empty
// slice.
func (p *Processor) ProcessDocument(ctx context.Context, doc *model.Document) ([]PageTables, error) {
	if doc == nil {
		return []PageTables{}, nil
	}
	return p.ProcessPages(ctx, doc.Pages)
}

// ProcessPages runs detection over pages and returns results in the
// order the pages were given. Nil pages produce a zero PageTables entry.
// The only errors are the context's: cancellation while waiting for a
// document slot or while pages are still being processed.
func (p *Processor) ProcessPages(ctx context.Context, pages []*model.Page) ([]PageTables, error) {
	if err := p.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer p.sem.Release(1)

	out := make([]PageTables, len(pages))
	if len(pages) == 0 {
		return out, nil
	}

	jobs := make(chan int, len(pages))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				page := pages[i]
				if page == nil {
					continue
				}
				res := p.det.FindTablesOnPage(page)
				out[i] = PageTables{Page: page.Number, Tables: res.Tables, Warnings: res.Warnings}
			}
		}()
	}

	feedJobs(ctx, len(pages), jobs)
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire document slot: %w", err)
	}
	return nil
}

// feedJobs queues every page index, giving up as soon as the context is
// done. Workers drain whatever was queued before diagnosing the
// cancellation themselves.
func feedJobs(ctx context.Context, total int, jobs chan<- int) {
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return
		case jobs <- i:
		}
	}
}

func adjustWorkerCount(n int) int {
	limit := runtime.NumCPU()
	if n < 1 || n > limit {
		return limit
	}
	return n
}
