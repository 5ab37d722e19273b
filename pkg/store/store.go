// Package store holds the canonical in-memory reading state (favorites, read
// chapters, settings) and is the only writer to the persistent backing.
//
// Every mutation is two-phase: compute the next value of the affected
// top-level records, persist each whole record under its fixed key, then
// commit it in memory. A record whose write is rejected is never committed,
// so memory only ever reflects state the backing accepted.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/balrog57/chireaders/pkg/data"
)

type Store struct {
	backing data.Backing
	logger  *slog.Logger

	mu           sync.RWMutex
	favorites    []data.Favorite
	readChapters map[string][]data.ReadChapter
	settings     data.Settings
}

func New(backing data.Backing, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		backing:      backing,
		logger:       logger,
		readChapters: map[string][]data.ReadChapter{},
		settings:     data.DefaultSettings(),
	}
}

// Load reads the three persisted records. Missing keys are a normal empty
// state; unparseable values surface as ErrCorruptData.
func (s *Store) Load(ctx context.Context) error {
	favorites, err := loadKey[[]data.Favorite](ctx, s.backing, data.KeyFavorites)
	if err != nil {
		return err
	}
	readChapters, err := loadKey[map[string][]data.ReadChapter](ctx, s.backing, data.KeyReadChapters)
	if err != nil {
		return err
	}

	settings := data.DefaultSettings()
	raw, err := s.backing.Get(ctx, data.KeySettings)
	switch {
	case errors.Is(err, data.ErrNotFound):
		// first run, keep defaults
	case err != nil:
		return persistErr(data.KeySettings, err)
	default:
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			return corruptErr(data.KeySettings, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.favorites = favorites
	if readChapters == nil {
		readChapters = map[string][]data.ReadChapter{}
	}
	s.readChapters = readChapters
	s.settings = settings
	return nil
}

func loadKey[T any](ctx context.Context, b data.Backing, key string) (T, error) {
	var out T
	raw, err := b.Get(ctx, key)
	if errors.Is(err, data.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return out, persistErr(key, err)
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, corruptErr(key, err)
	}
	return out, nil
}

// ===== favorites =====

// AddFavorite inserts the series at the front of the list. Re-adding an
// existing url replaces the entry, which moves it to the front and resets
// dateAdded to now.
func (s *Store) AddFavorite(ctx context.Context, series data.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := data.NowMillis()
	next := make([]data.Favorite, 0, len(s.favorites)+1)
	next = append(next, data.Favorite{
		URL:                   series.URL,
		Title:                 series.Title,
		Slug:                  series.Slug,
		Image:                 series.Image,
		Author:                series.Author,
		DateAdded:             now,
		LastVisited:           now,
		NotificationsEnabled:  true,
		LatestKnownChapterURL: series.LatestChapterURL,
	})
	for _, f := range s.favorites {
		if f.URL != series.URL {
			next = append(next, f)
		}
	}

	if err := s.writeFavorites(ctx, next); err != nil {
		return err
	}
	s.favorites = next
	return nil
}

// RemoveFavorite removes the series if present. An absent url is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := favoriteIndex(s.favorites, url)
	if idx < 0 {
		return nil
	}
	next := make([]data.Favorite, 0, len(s.favorites)-1)
	next = append(next, s.favorites[:idx]...)
	next = append(next, s.favorites[idx+1:]...)

	if err := s.writeFavorites(ctx, next); err != nil {
		return err
	}
	s.favorites = next
	return nil
}

// ToggleFavorite adds the series when absent and removes it when present.
func (s *Store) ToggleFavorite(ctx context.Context, series data.Series) error {
	if s.IsFavorite(series.URL) {
		return s.RemoveFavorite(ctx, series.URL)
	}
	return s.AddFavorite(ctx, series)
}

func (s *Store) IsFavorite(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return favoriteIndex(s.favorites, url) >= 0
}

// Favorites returns a copy of the current list, most recently added first.
func (s *Store) Favorites() []data.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]data.Favorite, len(s.favorites))
	copy(out, s.favorites)
	return out
}

// ToggleFavoriteNotification flips the per-series notification switch.
// An unknown url is a no-op.
func (s *Store) ToggleFavoriteNotification(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := favoriteIndex(s.favorites, url)
	if idx < 0 {
		return nil
	}
	next := cloneFavorites(s.favorites)
	next[idx].NotificationsEnabled = !next[idx].NotificationsEnabled

	if err := s.writeFavorites(ctx, next); err != nil {
		return err
	}
	s.favorites = next
	return nil
}

// UpdateFavoriteLatestChapter records the newest chapter seen for a series.
// Nothing is written when the favorite is unknown or the value is unchanged.
func (s *Store) UpdateFavoriteLatestChapter(ctx context.Context, url, chapterURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := favoriteIndex(s.favorites, url)
	if idx < 0 || chapterURL == "" || s.favorites[idx].LatestKnownChapterURL == chapterURL {
		return nil
	}
	next := cloneFavorites(s.favorites)
	next[idx].LatestKnownChapterURL = chapterURL

	if err := s.writeFavorites(ctx, next); err != nil {
		return err
	}
	s.favorites = next
	return nil
}

// ===== read chapters =====

// MarkChapterAsRead appends the chapter to the series' read sequence unless
// already present, and moves the matching favorite's reading snapshot to it.
// The favorite snapshot follows the read activity even when the chapter was
// already marked.
func (s *Store) MarkChapterAsRead(ctx context.Context, seriesURL string, chapter data.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := data.NowMillis()
	if !chapterIsRead(s.readChapters[seriesURL], chapter.URL) {
		next := cloneReadChapters(s.readChapters)
		next[seriesURL] = append(next[seriesURL], data.ReadChapter{
			URL:      chapter.URL,
			Title:    chapter.Title,
			DateRead: now,
		})
		if err := s.writeReadChapters(ctx, next); err != nil {
			return err
		}
		s.readChapters = next
	}

	return s.setFavoriteSnapshot(ctx, seriesURL, now, &data.LastChapterRead{
		URL:   chapter.URL,
		Title: chapter.Title,
		Date:  now,
	})
}

// MarkChapterAsUnread removes the chapter from the series' read sequence.
// When the sequence becomes empty the series key is deleted entirely. The
// favorite's snapshot is recomputed from the new last element.
func (s *Store) MarkChapterAsUnread(ctx context.Context, seriesURL, chapterURL string) error {
	return s.MarkChaptersAsUnread(ctx, seriesURL, []string{chapterURL})
}

// MarkChaptersAsRead is the batched form of MarkChapterAsRead: one write per
// affected record, and no write at all when every chapter was already read.
func (s *Store) MarkChaptersAsRead(ctx context.Context, seriesURL string, chapters []data.Chapter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := data.NowMillis()
	next := cloneReadChapters(s.readChapters)
	seen := make(map[string]struct{}, len(next[seriesURL]))
	for _, ch := range next[seriesURL] {
		seen[ch.URL] = struct{}{}
	}

	changed := false
	for _, ch := range chapters {
		if _, ok := seen[ch.URL]; ok {
			continue
		}
		next[seriesURL] = append(next[seriesURL], data.ReadChapter{
			URL:      ch.URL,
			Title:    ch.Title,
			DateRead: now,
		})
		seen[ch.URL] = struct{}{}
		changed = true
	}
	if !changed {
		return nil
	}

	if err := s.writeReadChapters(ctx, next); err != nil {
		return err
	}
	s.readChapters = next

	seq := next[seriesURL]
	last := seq[len(seq)-1]
	return s.setFavoriteSnapshot(ctx, seriesURL, now, &data.LastChapterRead{
		URL:   last.URL,
		Title: last.Title,
		Date:  last.DateRead,
	})
}

// MarkChaptersAsUnread is the batched form of MarkChapterAsUnread, again one
// write per affected record and none when nothing matched.
func (s *Store) MarkChaptersAsUnread(ctx context.Context, seriesURL string, chapterURLs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := s.readChapters[seriesURL]
	if !ok {
		return nil
	}
	remove := make(map[string]struct{}, len(chapterURLs))
	for _, u := range chapterURLs {
		remove[u] = struct{}{}
	}

	kept := make([]data.ReadChapter, 0, len(seq))
	for _, ch := range seq {
		if _, gone := remove[ch.URL]; !gone {
			kept = append(kept, ch)
		}
	}
	if len(kept) == len(seq) {
		return nil
	}

	next := cloneReadChapters(s.readChapters)
	if len(kept) == 0 {
		delete(next, seriesURL)
	} else {
		next[seriesURL] = kept
	}

	if err := s.writeReadChapters(ctx, next); err != nil {
		return err
	}
	s.readChapters = next

	var snapshot *data.LastChapterRead
	if len(kept) > 0 {
		last := kept[len(kept)-1]
		snapshot = &data.LastChapterRead{URL: last.URL, Title: last.Title, Date: last.DateRead}
	}
	return s.setFavoriteSnapshot(ctx, seriesURL, data.NowMillis(), snapshot)
}

// setFavoriteSnapshot updates lastVisited/lastChapterRead on the matching
// favorite. Caller holds the write lock.
func (s *Store) setFavoriteSnapshot(ctx context.Context, seriesURL string, visited int64, snapshot *data.LastChapterRead) error {
	idx := favoriteIndex(s.favorites, seriesURL)
	if idx < 0 {
		return nil
	}
	next := cloneFavorites(s.favorites)
	next[idx].LastVisited = visited
	next[idx].LastChapterRead = snapshot

	if err := s.writeFavorites(ctx, next); err != nil {
		return err
	}
	s.favorites = next
	return nil
}

// ===== read accessors =====

// SeriesProgress returns the read sequence for a series in read order.
func (s *Store) SeriesProgress(seriesURL string) []data.ReadChapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq := s.readChapters[seriesURL]
	out := make([]data.ReadChapter, len(seq))
	copy(out, seq)
	return out
}

// LastChapterRead returns the most recently appended read chapter for a
// series, or nil when none is recorded.
func (s *Store) LastChapterRead(seriesURL string) *data.ReadChapter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seq := s.readChapters[seriesURL]
	if len(seq) == 0 {
		return nil
	}
	last := seq[len(seq)-1]
	return &last
}

func (s *Store) IsChapterRead(seriesURL, chapterURL string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return chapterIsRead(s.readChapters[seriesURL], chapterURL)
}

// AllHistory flattens every read chapter across all series, newest first.
// Entries are annotated with the series title when the series is still a
// favorite. Equal timestamps keep a stable order: series in sorted-url
// order, then read order within a series.
func (s *Store) AllHistory() []data.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := make([]string, 0, len(s.readChapters))
	for u := range s.readChapters {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	var out []data.HistoryEntry
	for _, seriesURL := range urls {
		title := "Unknown series"
		if idx := favoriteIndex(s.favorites, seriesURL); idx >= 0 {
			title = s.favorites[idx].Title
		}
		for _, ch := range s.readChapters[seriesURL] {
			out = append(out, data.HistoryEntry{
				ReadChapter: ch,
				SeriesURL:   seriesURL,
				SeriesTitle: title,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateRead > out[j].DateRead
	})
	return out
}

// ===== settings =====

func (s *Store) Settings() data.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings shallow-merges the patch into the current settings and
// persists the result. Unspecified fields are preserved.
func (s *Store) UpdateSettings(ctx context.Context, patch data.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := patch.Merge(s.settings)
	if err := s.writeSettings(ctx, merged); err != nil {
		return err
	}
	s.settings = merged
	return nil
}

// ===== backup =====

// Snapshot returns a deep copy of the full state for serialization.
func (s *Store) Snapshot() data.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return data.State{
		Favorites:    cloneFavorites(s.favorites),
		ReadChapters: cloneReadChapters(s.readChapters),
		Settings:     s.settings,
	}
}

// ApplyBackup replaces each section present in the payload, persisting the
// record before committing it. The payload must already be validated;
// absent sections are left untouched.
func (s *Store) ApplyBackup(ctx context.Context, payload data.BackupPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payload.Favorites != nil {
		if err := s.writeFavorites(ctx, *payload.Favorites); err != nil {
			return err
		}
		s.favorites = cloneFavorites(*payload.Favorites)
	}
	if payload.ReadChapters != nil {
		if err := s.writeReadChapters(ctx, *payload.ReadChapters); err != nil {
			return err
		}
		s.readChapters = cloneReadChapters(*payload.ReadChapters)
	}
	if payload.Settings != nil {
		if err := s.writeSettings(ctx, *payload.Settings); err != nil {
			return err
		}
		s.settings = *payload.Settings
	}
	return nil
}

// ===== persistence =====

func (s *Store) writeFavorites(ctx context.Context, favorites []data.Favorite) error {
	return writeKey(ctx, s.backing, data.KeyFavorites, favorites)
}

func (s *Store) writeReadChapters(ctx context.Context, readChapters map[string][]data.ReadChapter) error {
	return writeKey(ctx, s.backing, data.KeyReadChapters, readChapters)
}

func (s *Store) writeSettings(ctx context.Context, settings data.Settings) error {
	return writeKey(ctx, s.backing, data.KeySettings, settings)
}

func writeKey(ctx context.Context, b data.Backing, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return persistErr(key, err)
	}
	if err := b.Set(ctx, key, string(raw)); err != nil {
		return persistErr(key, err)
	}
	return nil
}

// ===== helpers =====

func favoriteIndex(favorites []data.Favorite, url string) int {
	for i, f := range favorites {
		if f.URL == url {
			return i
		}
	}
	return -1
}

func chapterIsRead(seq []data.ReadChapter, url string) bool {
	for _, ch := range seq {
		if ch.URL == url {
			return true
		}
	}
	return false
}

func cloneFavorites(favorites []data.Favorite) []data.Favorite {
	out := make([]data.Favorite, len(favorites))
	copy(out, favorites)
	return out
}

func cloneReadChapters(readChapters map[string][]data.ReadChapter) map[string][]data.ReadChapter {
	out := make(map[string][]data.ReadChapter, len(readChapters))
	for k, seq := range readChapters {
		cp := make([]data.ReadChapter, len(seq))
		copy(cp, seq)
		out[k] = cp
	}
	return out
}
