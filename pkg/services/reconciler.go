// Package services holds the background reconciliation task that keeps
// favorites' latest-known-chapter pointers fresh without losing concurrent
// user edits.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/balrog57/chireaders/pkg/data"
	"github.com/balrog57/chireaders/pkg/sources"
)

var (
	// ErrSourceUnavailable wraps a failed content source call for a single
	// favorite. It is logged and counted, never propagated.
	ErrSourceUnavailable = errors.New("content source unavailable")

	// ErrTaskFailure means the reconciliation's final write failed. Retry
	// is left to the scheduler that invokes the task.
	ErrTaskFailure = errors.New("reconciliation failed")
)

const defaultScanTimeout = 30 * time.Second

// ReconcilerConfig configures a Reconciler.
type ReconcilerConfig struct {
	// ScanTimeout bounds each per-favorite source call. Zero means the
	// 30 second default.
	ScanTimeout time.Duration
	Logger      *slog.Logger
}

// Reconciler runs the fetch-merge-save protocol: scan favorites against the
// content source without writing, then re-read the backing and apply the
// accumulated updates in one synchronous read-merge-write. The lost-update
// window is the merge section only, not the whole network-bound scan.
//
// It reads the backing directly rather than any in-memory store replica;
// across replicas only the backing is authoritative.
type Reconciler struct {
	backing     data.Backing
	source      sources.Source
	notifier    Notifier
	scanTimeout time.Duration
	logger      *slog.Logger
}

// Result summarizes one reconciliation run.
type Result struct {
	Scanned  int // favorites eligible for scanning
	Failed   int // favorites whose source call failed
	Notified int // new chapters announced
	Updated  int // favorites whose pointer was written
}

func NewReconciler(backing data.Backing, source sources.Source, notifier Notifier, cfg ReconcilerConfig) *Reconciler {
	timeout := cfg.ScanTimeout
	if timeout <= 0 {
		timeout = defaultScanTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		backing:     backing,
		source:      source,
		notifier:    notifier,
		scanTimeout: timeout,
		logger:      logger,
	}
}

// Run performs one reconciliation pass. Per-favorite failures are logged and
// skipped; only a failure of the final merged write returns an error.
func (r *Reconciler) Run(ctx context.Context) (Result, error) {
	var res Result

	snapshot, err := loadFavorites(ctx, r.backing)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return res, nil
		}
		return res, fmt.Errorf("%w: read favorites: %w", ErrTaskFailure, err)
	}

	// Scan phase: network-bound, may take arbitrarily long, never writes.
	// Desired updates accumulate keyed by favorite url so they can be
	// replayed onto whatever the list looks like once the scan is done.
	updates := make(map[string]string)
	for _, fav := range snapshot {
		if !fav.NotificationsEnabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Scanned++

		latest, err := r.scanFavorite(ctx, fav)
		if err != nil {
			res.Failed++
			r.logger.Warn("favorite scan failed",
				"series", fav.Title,
				"url", fav.URL,
				"err", fmt.Errorf("%w: %w", ErrSourceUnavailable, err),
			)
			continue
		}
		if latest == nil || fav.LatestKnownChapterURL == latest.URL {
			continue
		}

		r.notifier.Notify(fav.Title, latest.Title, fav.URL)
		res.Notified++
		updates[fav.URL] = latest.URL
	}

	if len(updates) == 0 {
		return res, nil
	}

	applied := 0
	_, err = mergeSaveFavorites(ctx, r.backing, func(current []data.Favorite) ([]data.Favorite, bool) {
		for i, fav := range current {
			next, ok := updates[fav.URL]
			if ok && fav.LatestKnownChapterURL != next {
				current[i].LatestKnownChapterURL = next
				applied++
			}
		}
		return current, applied > 0
	})
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrTaskFailure, err)
	}
	res.Updated = applied
	return res, nil
}

// scanFavorite fetches the series' chapter list under the per-item timeout
// and returns the newest chapter, or nil when the list is empty.
func (r *Reconciler) scanFavorite(ctx context.Context, fav data.Favorite) (*data.Chapter, error) {
	scanCtx, cancel := context.WithTimeout(ctx, r.scanTimeout)
	defer cancel()

	chapters, err := r.source.GetChapterList(scanCtx, fav.URL)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, nil
	}
	latest := chapters[len(chapters)-1]
	return &latest, nil
}

func loadFavorites(ctx context.Context, b data.Backing) ([]data.Favorite, error) {
	raw, err := b.Get(ctx, data.KeyFavorites)
	if err != nil {
		return nil, err
	}
	var favorites []data.Favorite
	if err := json.Unmarshal([]byte(raw), &favorites); err != nil {
		return nil, fmt.Errorf("parse favorites: %w", err)
	}
	return favorites, nil
}
