package catalog

import (
	"context"
	"log/slog"
	"sync"

	"camsync/internal/logging"
	"camsync/internal/metadata"
)

// ExtractFunc derives a metadata record from a local file path.
type ExtractFunc func(ctx context.Context, localPath string) (metadata.Record, error)

// ExtractResult pairs one input path with its extraction outcome.
type ExtractResult struct {
	Path   string
	Record metadata.Record
	Err    error
}

// DefaultRebuildWorkers is the worker pool width used when callers pass a
// non-positive concurrency.
const DefaultRebuildWorkers = 4

// Rebuild clears the catalog and repopulates it from the given paths.
// Extraction runs on a bounded worker pool. Paths that fail extraction are
// logged and skipped, and the surviving records land in one atomic upsert
// batch.
//
// Rebuild provides no internal locking; callers must not run two rebuilds
// against the same Store concurrently.
func (s *Store) Rebuild(ctx context.Context, paths []string, workers int, extract ExtractFunc, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "catalog")

	if err := s.Clear(ctx); err != nil {
		return err
	}

	records := make([]metadata.Record, 0, len(paths))
	for _, result := range ExtractAll(ctx, paths, workers, extract) {
		if result.Err != nil {
			logger.Warn("skipping file after extraction failure",
				logging.String("path", result.Path),
				logging.Error(result.Err),
			)
			continue
		}
		records = append(records, result.Record)
	}

	return s.UpsertAll(ctx, records)
}

// ExtractAll runs extract over every path using at most workers goroutines.
// Results are paired back to their originating path by index, one per input
// path in input order, so completion order across workers never affects the
// outcome.
func ExtractAll(ctx context.Context, paths []string, workers int, extract ExtractFunc) []ExtractResult {
	if len(paths) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = DefaultRebuildWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]ExtractResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				record, err := extract(ctx, paths[idx])
				results[idx] = ExtractResult{Path: paths[idx], Record: record, Err: err}
			}
		}()
	}

	for idx := range paths {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	return results
}
