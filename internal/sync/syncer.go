// Package sync drives extraction: it walks the selected catalog streams and
// turns upstream record pages into Singer messages.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tap-socrata/internal/discovery"
	"github.com/aretw0/tap-socrata/internal/metrics"
	"github.com/aretw0/tap-socrata/pkg/ports"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// Syncer extracts records for every selected stream in a catalog.
type Syncer struct {
	source    ports.RecordSource
	writer    *singer.Writer
	logger    *slog.Logger
	metrics   *metrics.Metrics
	store     ports.StateStore
	runID     string
	pageLimit int
	now       func() time.Time
}

type Option func(*Syncer)

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithMetrics wires extraction counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}

// WithStateStore mirrors every emitted STATE into a store under runID.
func WithStateStore(store ports.StateStore, runID string) Option {
	return func(s *Syncer) {
		s.store = store
		s.runID = runID
	}
}

// WithPageLimit sets the page size requested from the source.
func WithPageLimit(limit int) Option {
	return func(s *Syncer) {
		if limit > 0 {
			s.pageLimit = limit
		}
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

// New creates a Syncer writing to the given Singer writer.
func New(source ports.RecordSource, writer *singer.Writer, opts ...Option) *Syncer {
	s := &Syncer{
		source:    source,
		writer:    writer,
		logger:    slog.Default(),
		pageLimit: 50000,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run syncs every selected stream in the catalog, mutating state as
// bookmarks advance. The final flush matters: a buffered tail would
// silently truncate the message stream.
func (s *Syncer) Run(ctx context.Context, catalog *singer.Catalog, state *singer.State) error {
	if state == nil {
		state = singer.NewState()
	}

	for _, stream := range catalog.Streams {
		if !stream.IsSelected() {
			s.logger.Debug("stream not selected", "stream", stream.TapStreamID)
			continue
		}
		if err := s.syncStream(ctx, stream, state); err != nil {
			// Flush what was already emitted; it is still a valid prefix of
			// the stream and the last STATE is safe to resume from.
			_ = s.writer.Flush()
			return fmt.Errorf("syncing stream %s: %w", stream.TapStreamID, err)
		}
	}

	return s.writer.Flush()
}

func (s *Syncer) syncStream(ctx context.Context, stream *singer.Stream, state *singer.State) error {
	var bookmarkProps []string
	if stream.ReplicationKey != "" {
		bookmarkProps = []string{stream.ReplicationKey}
	}

	if err := s.writer.WriteSchema(stream.Stream, stream.Schema, stream.KeyProperties, bookmarkProps); err != nil {
		return err
	}

	incremental := stream.ReplicationMethod() == singer.ReplicationIncremental

	var updatedAt time.Time
	if raw := stream.MetaString(discovery.MetaDataUpdatedAt); raw != "" {
		ts, err := discovery.ParseUpdatedAt(raw)
		if err != nil {
			return err
		}
		updatedAt = ts
	}

	// A dataset that has not changed since the bookmark has nothing new to
	// offer; skip it without touching the API.
	if incremental && !updatedAt.IsZero() {
		if bookmark, ok := state.Bookmark(stream.TapStreamID); ok && bookmark.ReplicationKeyValue != "" {
			bookmarkTime, err := time.Parse(time.RFC3339, bookmark.ReplicationKeyValue)
			if err == nil && !bookmarkTime.Before(updatedAt) {
				s.logger.Info("stream up to date, skipping",
					"stream", stream.TapStreamID, "bookmark", bookmark.ReplicationKeyValue)
				s.metrics.SkipStream()
				return s.emitState(ctx, state)
			}
		}
	}

	domain := stream.MetaString(discovery.MetaDomain)
	datasetID := stream.MetaString(discovery.MetaDatasetID)
	if domain == "" || datasetID == "" {
		return fmt.Errorf("stream metadata is missing socrata domain or dataset id")
	}
	format := discovery.RecordFormat(stream)

	version := s.now().UnixMilli()
	total := 0
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := s.now()
		page, err := s.source.FetchPage(ctx, ports.PageRequest{
			Domain:    domain,
			DatasetID: datasetID,
			Format:    format,
			Offset:    offset,
			Limit:     s.pageLimit,
		})
		if err != nil {
			return err
		}
		s.metrics.ObservePage(stream.TapStreamID, s.now().Sub(start).Seconds())

		for _, record := range page {
			if incremental && !updatedAt.IsZero() {
				record[discovery.ReplicationKeyField] = updatedAt.Format(time.RFC3339)
			}
			if err := s.writer.WriteRecord(stream.Stream, record, s.now()); err != nil {
				return err
			}
		}
		s.metrics.AddRecords(stream.TapStreamID, len(page))
		total += len(page)

		if len(page) > 0 {
			// Heartbeat STATE between pages so a resumed run replays at
			// most one page per stream.
			if err := s.emitState(ctx, state); err != nil {
				return err
			}
		}

		if len(page) < s.pageLimit {
			break
		}
		offset += len(page)
	}

	if incremental && !updatedAt.IsZero() {
		state.SetBookmark(stream.TapStreamID, singer.Bookmark{
			ReplicationKey:      stream.ReplicationKey,
			ReplicationKeyValue: updatedAt.Format(time.RFC3339),
		})
	} else {
		// Full-table streams version their records so targets can drop
		// rows from earlier runs.
		if err := s.writer.WriteActivateVersion(stream.Stream, version); err != nil {
			return err
		}
	}

	s.logger.Info("stream synced", "stream", stream.TapStreamID, "records", total)
	return s.emitState(ctx, state)
}

func (s *Syncer) emitState(ctx context.Context, state *singer.State) error {
	if err := s.writer.WriteState(state); err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.Save(ctx, s.runID, state); err != nil {
			return fmt.Errorf("failed to mirror state: %w", err)
		}
	}
	return nil
}
