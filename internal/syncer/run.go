package syncer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"camsync/internal/catalog"
	"camsync/internal/logging"
	"camsync/internal/metadata"
	"camsync/internal/selection"
)

// ErrNoDevices indicates that enumeration found no connected cameras.
var ErrNoDevices = errors.New("no cameras detected")

// Run executes one full pipeline pass: enumerate, sync the most recently
// attached camera's new files into destDir, extract metadata concurrently,
// upsert into the catalog, and assemble the candidate set for the selection
// surface. Files that fail extraction are skipped from the catalog but still
// appear as candidates with a zero record.
func (s *Syncer) Run(ctx context.Context, days int, destDir string) (selection.Candidates, error) {
	logger := s.logger.With(logging.String("sync_id", uuid.NewString()))
	// Listing and fetch lines log through the run view so they carry the id.
	run := *s
	run.logger = logger

	devices, err := s.gateway.Enumerate(ctx)
	if err != nil {
		return nil, err
	}
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}
	// With several cameras attached, the most recently enumerated one wins.
	dev := devices[len(devices)-1]
	logger.Info("using device",
		logging.String("port", dev.Port()),
		logging.String("manufacturer", dev.Manufacturer),
		logging.String("product", dev.Product),
	)

	paths, err := run.SyncRecent(ctx, dev, days, destDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	records := make(map[string]metadata.Record, len(paths))
	duplicates := make(map[string]bool)
	var fresh []metadata.Record

	for _, result := range catalog.ExtractAll(ctx, paths, s.cfg.Extractor.Workers, s.extract) {
		if result.Err != nil {
			logger.Warn("skipping file after extraction failure",
				logging.String("path", result.Path),
				logging.Error(result.Err),
			)
			continue
		}
		records[result.Path] = result.Record

		known, err := s.store.ContainsFingerprint(ctx, result.Record)
		if err != nil {
			return nil, err
		}
		if known {
			existing, err := s.store.Get(ctx, result.Record.FileName)
			if err != nil {
				return nil, err
			}
			// Same content under a different name is a duplicate capture.
			if existing == nil || existing.Fingerprint() != result.Record.Fingerprint() {
				duplicates[result.Path] = true
				logger.Info("duplicate content detected",
					logging.String("path", result.Path),
				)
			}
		}
		fresh = append(fresh, result.Record)
	}

	if err := s.store.UpsertAll(ctx, fresh); err != nil {
		return nil, err
	}

	return selection.Build(paths, records, duplicates), nil
}
