// Package batch fans page analysis out over a worker pool.
//
// Pages are independent, so batch processing is an embarrassingly parallel
// fan-out with a caller-specified concurrency limit. Per-page failures are
// isolated: every input page yields exactly one PageResult carrying either
// its analysis output or its error, and one bad page never aborts the batch.
package batch

import (
	"context"
	"image"
	"sync"

	"github.com/inkplane/page-layout-mcp/internal/deskew"
	"github.com/inkplane/page-layout-mcp/internal/segment"
)

// PageResult is the outcome for a single page of a batch. Exactly one of
// Err or the result fields is meaningful.
type PageResult struct {
	// Index is the page's position in the input slice.
	Index int `json:"index"`

	// Deskew is the skew analysis result (nil on error).
	Deskew *deskew.Result `json:"deskew,omitempty"`

	// Segmentation is the panel decomposition of the corrected page
	// (nil on error).
	Segmentation *segment.Result `json:"segmentation,omitempty"`

	// Err carries the page's failure, if any.
	Err error `json:"-"`
}

// Options controls batch execution.
type Options struct {
	// Concurrency is the maximum number of pages analyzed in parallel.
	// Values below 1 run sequentially.
	Concurrency int

	// Progress, when non-nil, is invoked after each completed page with the
	// number of pages finished so far and the total. It is called from
	// worker goroutines but never concurrently.
	Progress func(completed, total int)
}

// Process runs deskew followed by segmentation over every page, with at most
// opts.Concurrency pages in flight. The returned slice has one entry per
// input page, in input order. Cancelling ctx stops scheduling new pages;
// already-started pages finish and unstarted ones report ctx.Err().
func Process(ctx context.Context, pages []image.Image, d *deskew.Deskewer, s *segment.Segmenter, opts Options) []PageResult {
	results := make([]PageResult, len(pages))
	if len(pages) == 0 {
		return results
	}

	workers := opts.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	var mu sync.Mutex
	completed := 0
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		completed++
		if opts.Progress != nil {
			opts.Progress(completed, len(pages))
		}
	}

	for i := range pages {
		if err := ctx.Err(); err != nil {
			results[i] = PageResult{Index: i, Err: err}
			report()
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = analyzePage(i, pages[i], d, s)
			report()
		}(i)
	}
	wg.Wait()
	return results
}

// analyzePage runs the two-stage pipeline for one page. The engines recover
// their own internal panics, so an error here is already a typed result.
func analyzePage(index int, page image.Image, d *deskew.Deskewer, s *segment.Segmenter) PageResult {
	res := PageResult{Index: index}

	dres, err := d.Deskew(page)
	if err != nil {
		res.Err = err
		return res
	}
	res.Deskew = dres

	sres, err := s.Segment(dres.Corrected)
	if err != nil {
		res.Err = err
		return res
	}
	res.Segmentation = sres
	return res
}
