package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"camsync/internal/camera"
	"camsync/internal/catalog"
	"camsync/internal/config"
	"camsync/internal/fileutil"
	"camsync/internal/logging"
)

// Syncer drives the sync pipeline against one gateway and catalog.
type Syncer struct {
	cfg     *config.Config
	gateway camera.Gateway
	store   *catalog.Store
	extract catalog.ExtractFunc
	logger  *slog.Logger
}

// New constructs a Syncer. The extract function is invoked from pool workers
// and must be safe for concurrent use.
func New(cfg *config.Config, gateway camera.Gateway, store *catalog.Store, extract catalog.ExtractFunc, logger *slog.Logger) *Syncer {
	return &Syncer{
		cfg:     cfg,
		gateway: gateway,
		store:   store,
		extract: extract,
		logger:  logging.NewComponentLogger(logger, "syncer"),
	}
}

// SyncRecent lists the device once, keeps files modified within the last
// windowDays days, and fetches them into destDir. Returns the written local
// paths in discovery order.
//
// An empty qualifying set returns without creating destDir or reopening the
// device. The first fetch or write failure aborts the sync; partial results
// on disk are left for the caller to reconcile by retrying the whole
// operation.
func (s *Syncer) SyncRecent(ctx context.Context, dev camera.Device, windowDays int, destDir string) ([]string, error) {
	files, err := s.gateway.ListFiles(ctx, dev)
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().Unix() - int64(windowDays)*86400
	recent := make([]camera.RemoteFile, 0, len(files))
	for _, rf := range files {
		if rf.MTime >= cutoff {
			recent = append(recent, rf)
		}
	}

	s.logger.Info("device listing complete",
		logging.Int("total", len(files)),
		logging.Int("recent", len(recent)),
		logging.Int("window_days", windowDays),
	)

	if len(recent) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination %s: %w", destDir, err)
	}
	if err := checkDestination(destDir, s.cfg.Sync.MinFreeMB); err != nil {
		return nil, err
	}

	locals := make([]string, 0, len(recent))
	for _, rf := range recent {
		local, err := s.fetchOne(ctx, dev, rf, destDir)
		if err != nil {
			return nil, err
		}
		locals = append(locals, local)
	}

	s.logger.Info("sync complete", logging.Int("files", len(locals)), logging.String("destination", destDir))
	return locals, nil
}

func (s *Syncer) fetchOne(ctx context.Context, dev camera.Device, rf camera.RemoteFile, destDir string) (string, error) {
	data, err := s.gateway.Fetch(ctx, dev, rf)
	if err != nil {
		return "", err
	}

	local := filepath.Join(destDir, path.Base(rf.Path))
	if s.cfg.Sync.OnCollision == config.CollisionRename {
		local, err = fileutil.UniquePath(local)
		if err != nil {
			return "", err
		}
	}

	if err := fileutil.WriteFileAtomic(local, data); err != nil {
		return "", fmt.Errorf("write %s: %w", rf.Path, err)
	}

	s.logger.Debug("fetched file",
		logging.String("remote", rf.Path),
		logging.String("local", local),
		logging.Int("bytes", len(data)),
	)
	return local, nil
}
