package foldercrypt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"
)

// ParallelConfig controls the file worker pool
type ParallelConfig struct {
	// Enabled enables parallel file processing. When false, files are
	// processed one at a time.
	Enabled bool

	// MaxWorkers is the maximum number of worker goroutines
	// If 0, defaults to runtime.NumCPU()
	MaxWorkers int
}

// Validate checks if the parallel configuration is valid
func (p *ParallelConfig) Validate() error {
	if !p.Enabled {
		return nil // Nothing to validate if disabled
	}

	if p.MaxWorkers < 0 {
		return errors.New("parallel max workers cannot be negative")
	}
	if p.MaxWorkers > 1024 {
		return errors.New("parallel max workers must not exceed 1024")
	}

	return nil
}

// DefaultParallelConfig returns the default parallel processing configuration
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		Enabled:    true,
		MaxWorkers: runtime.NumCPU(),
	}
}

func (p ParallelConfig) workers() int {
	if !p.Enabled {
		return 1
	}
	if p.MaxWorkers <= 0 {
		return runtime.NumCPU()
	}
	return p.MaxWorkers
}

// fileJob is one regular file to transform
type fileJob struct {
	path string
	perm os.FileMode
}

// fileResult is the outcome of a fileJob, or of a directory that could not
// be listed
type fileResult struct {
	path string
	kind ErrorKind
	err  error
}

// treeOptions configures transformTree
type treeOptions struct {
	parallel ParallelConfig
	inPlace  bool
}

// transformTree seals or opens every regular file under root except the
// sentinel. Files are independent: a failure is recorded in the report and
// the walk continues. Cancelling ctx stops dispatching new files; files
// already dispatched are finished.
func transformTree(ctx context.Context, fsys FileSystem, root string, fc *FileCipher, mode Mode, opts treeOptions) *Report {
	start := time.Now()
	report := &Report{Mode: mode, Root: root}

	fn := fc.Seal
	if mode == ModeDecrypt {
		fn = fc.Open
	}

	numWorkers := opts.parallel.workers()
	jobs := make(chan fileJob)
	results := make(chan fileResult, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- processFile(fsys, job, opts.inPlace, fn)
			}
		}()
	}

	// Producer. skipped is only read after results is closed.
	var skipped int
	go func() {
		defer func() {
			close(jobs)
			wg.Wait()
			close(results)
		}()

		walkFiles(fsys, root, func(job fileJob) {
			select {
			case <-ctx.Done():
				skipped++
				return
			default:
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				skipped++
			}
		}, func(res fileResult) {
			results <- res
		})
	}()

	for res := range results {
		if res.err != nil {
			log.Warnf("%s failed: %v", res.path, res.err)
		} else {
			log.Tracef("%sed %s", mode, res.path)
		}
		report.add(res)
	}

	report.Skipped = skipped
	report.Cancelled = ctx.Err() != nil && skipped > 0
	report.finish(start)
	return report
}

// processFile transforms one file, converting a panic into a failure so one
// bad file never takes down the batch
func processFile(fsys FileSystem, job fileJob, inPlace bool, fn transformFunc) (res fileResult) {
	res.path = job.path
	defer func() {
		if r := recover(); r != nil {
			res.kind = KindPanic
			res.err = fmt.Errorf("panic processing %s: %v", job.path, r)
		}
	}()

	if err := transformFile(fsys, job.path, job.perm, inPlace, fn); err != nil {
		res.kind = ClassifyError(err)
		res.err = err
	}
	return res
}
