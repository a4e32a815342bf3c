// (c) Copyright revmark's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package revmark

import (
	"context"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/violation"
)

// Engine produces the violations of a file. It stands for the static
// analysis tool whose results are post-processed.
type Engine interface {
	Analyze(ctx context.Context, file string) ([]*violation.Violation, error)
}

// EngineFunc adapts a function to the Engine interface
type EngineFunc func(ctx context.Context, file string) ([]*violation.Violation, error)

// Analyze calls f(ctx, file)
func (f EngineFunc) Analyze(ctx context.Context, file string) ([]*violation.Violation, error) {
	return f(ctx, file)
}

// SourceOpener gives access to the text of a file
type SourceOpener func(file string) (io.ReadCloser, error)

// OpenFile reads sources from the file system
func OpenFile(file string) (io.ReadCloser, error) {
	return os.Open(file) // #nosec
}

// Runner processes a batch of files on a pool of workers
type Runner struct {
	Engine      Engine
	Pipeline    *Pipeline
	Accumulator Accumulator
	// Open defaults to OpenFile
	Open SourceOpener
	// Concurrency defaults to the number of CPUs
	Concurrency int
	// BeforeCommit, when set, may complete the markers of a file before they
	// reach the accumulator. Its failure is logged and the file is committed
	// anyway.
	BeforeCommit func(ctx context.Context, res *FileResult) error
}

type batch struct {
	mu       sync.Mutex
	stats    Metrics
	errors   map[string][]Error
	markers  []*marker.Record
	reviewed []*violation.Violation
}

func (b *batch) fail(file string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errors[file] = append(b.errors[file], *NewError(0, 0, err.Error()))
}

func (b *batch) done(res *FileResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stats.merge(res.Stats)
	b.markers = append(b.markers, res.Markers...)
	b.reviewed = append(b.reviewed, res.Reviewed...)
}

// Run processes the files and commits the markers of each successful file to
// the accumulator. A file that fails is logged, reported in the errors of the
// report and left untouched in the accumulator. When ctx is cancelled no new
// file is started; files already committed stay committed and ctx.Err() is
// returned along with the partial report.
func (r *Runner) Run(ctx context.Context, files []string) (*ReportInfo, error) {
	limit := r.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	b := &batch{errors: make(map[string][]Error)}
	var g errgroup.Group
	g.SetLimit(limit)
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		file := file
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := r.processFile(ctx, file)
			if err != nil {
				r.Pipeline.logger.Printf("Skipping %s: %v", file, err)
				b.fail(file, err)
				return nil
			}
			b.done(res)
			return nil
		})
	}
	_ = g.Wait()

	sortErrors(b.errors)
	sort.SliceStable(b.markers, func(i, j int) bool { return b.markers[i].File < b.markers[j].File })
	sort.SliceStable(b.reviewed, func(i, j int) bool { return b.reviewed[i].File < b.reviewed[j].File })

	report := NewReportInfo(b.markers, &b.stats, b.errors).WithReviewed(b.reviewed)
	return report, ctx.Err()
}

func (r *Runner) processFile(ctx context.Context, file string) (*FileResult, error) {
	violations, err := r.Engine.Analyze(ctx, file)
	if err != nil {
		return nil, engineFailure(file, err)
	}

	open := r.Open
	if open == nil {
		open = OpenFile
	}
	src, err := open(file)
	if err != nil {
		return nil, ioFailure(file, err)
	}
	defer src.Close()

	res, err := r.Pipeline.Process(file, src, violations)
	if err != nil {
		return nil, err
	}
	if r.BeforeCommit != nil && len(res.Markers) > 0 {
		if err := r.BeforeCommit(ctx, res); err != nil {
			r.Pipeline.logger.Printf("Completing markers of %s: %v", file, err)
		}
	}
	if r.Accumulator != nil {
		if err := r.Pipeline.Commit(r.Accumulator, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}
