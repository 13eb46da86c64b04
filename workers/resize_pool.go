package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileJob processes a single file. Jobs share no mutable state.
type FileJob func(ctx context.Context, path string) error

// FileError ties a job failure to the file it was processing.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Pool runs per-file jobs on a bounded number of goroutines. Run returns
// only once every job has finished, so callers can treat the batch as one
// step that either completed or failed.
type Pool struct {
	Workers int
	logger  *zap.Logger
}

func NewPool(numWorkers int, logger *zap.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{Workers: numWorkers, logger: logger.Named("workers")}
}

// Run applies job to every path. A failing file does not stop the others;
// all failures are returned joined, each wrapped in a *FileError. Duplicate
// paths are processed once.
func (p *Pool) Run(ctx context.Context, paths []string, job FileJob) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)

	var (
		mu      sync.Mutex
		errs    []error
		pending = make(map[string]bool, len(paths))
	)

	for _, path := range paths {
		if pending[path] {
			continue
		}
		pending[path] = true

		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := job(gctx, path); err != nil {
				p.logger.Error("file job failed", zap.String("path", path), zap.Error(err))
				mu.Lock()
				errs = append(errs, &FileError{Path: path, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
