package data

import (
	"encoding/json"
	"time"
)

// Timestamps are Unix milliseconds so persisted values and backup files stay
// interchangeable with the React Native app's Date.now() output.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Series is the input for following a series, as scraped from a listing or
// details page.
type Series struct {
	URL              string
	Title            string
	Slug             string
	Image            string
	Author           string
	LatestChapterURL string
}

// Favorite is a followed series and its tracking metadata.
type Favorite struct {
	URL                   string           `json:"url"`
	Title                 string           `json:"title"`
	Slug                  string           `json:"slug,omitempty"`
	Image                 string           `json:"image,omitempty"`
	Author                string           `json:"author,omitempty"`
	DateAdded             int64            `json:"dateAdded"`
	LastVisited           int64            `json:"lastVisited"`
	LastChapterRead       *LastChapterRead `json:"lastChapterRead"`
	NotificationsEnabled  bool             `json:"notificationsEnabled"`
	LatestKnownChapterURL string           `json:"latestKnownChapterUrl,omitempty"`
}

// UnmarshalJSON defaults NotificationsEnabled to true when the field is
// absent, matching entries written before the per-series toggle existed.
func (f *Favorite) UnmarshalJSON(b []byte) error {
	type alias Favorite
	aux := alias{NotificationsEnabled: true}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*f = Favorite(aux)
	return nil
}

// LastChapterRead is the snapshot of reading position kept on a Favorite.
type LastChapterRead struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Date  int64  `json:"date"`
}

// ReadChapter records that one chapter of a series was read.
type ReadChapter struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	DateRead int64  `json:"dateRead"`
}

// HistoryEntry is a ReadChapter annotated with its series for display.
type HistoryEntry struct {
	ReadChapter
	SeriesURL   string `json:"seriesUrl"`
	SeriesTitle string `json:"seriesTitle"`
}

// Chapter is read-only input from a content source. Number is -1 for
// unnumbered or bonus content.
type Chapter struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Number int    `json:"number"`
}

type NotificationSettings struct {
	Enabled       bool  `json:"enabled"`
	CheckInterval int64 `json:"checkInterval"` // milliseconds
}

// Settings is the single mutable preferences record. Unknown fields from a
// newer app version survive a load/save round trip via extra.
type Settings struct {
	DarkMode      bool
	FontSize      int
	Notifications NotificationSettings

	extra map[string]json.RawMessage
}

func DefaultSettings() Settings {
	return Settings{
		FontSize: 18,
		Notifications: NotificationSettings{
			Enabled:       true,
			CheckInterval: time.Hour.Milliseconds(),
		},
	}
}

func (s *Settings) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	out := Settings{}
	if raw, ok := fields["darkMode"]; ok {
		if err := json.Unmarshal(raw, &out.DarkMode); err != nil {
			return err
		}
		delete(fields, "darkMode")
	}
	if raw, ok := fields["fontSize"]; ok {
		if err := json.Unmarshal(raw, &out.FontSize); err != nil {
			return err
		}
		delete(fields, "fontSize")
	}
	if raw, ok := fields["notifications"]; ok {
		if err := json.Unmarshal(raw, &out.Notifications); err != nil {
			return err
		}
		delete(fields, "notifications")
	}
	if len(fields) > 0 {
		out.extra = fields
	}
	*s = out
	return nil
}

func (s Settings) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(s.extra)+3)
	for k, v := range s.extra {
		fields[k] = v
	}
	var err error
	if fields["darkMode"], err = json.Marshal(s.DarkMode); err != nil {
		return nil, err
	}
	if fields["fontSize"], err = json.Marshal(s.FontSize); err != nil {
		return nil, err
	}
	if fields["notifications"], err = json.Marshal(s.Notifications); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// SettingsPatch is a partial settings update. Nil fields are left untouched.
// The merge is shallow: a present Notifications replaces the whole nested
// record.
type SettingsPatch struct {
	DarkMode      *bool
	FontSize      *int
	Notifications *NotificationSettings
	Extra         map[string]json.RawMessage
}

// Merge applies the patch to s and returns the result.
func (p SettingsPatch) Merge(s Settings) Settings {
	out := s
	if p.DarkMode != nil {
		out.DarkMode = *p.DarkMode
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.Notifications != nil {
		out.Notifications = *p.Notifications
	}
	if len(p.Extra) > 0 {
		merged := make(map[string]json.RawMessage, len(s.extra)+len(p.Extra))
		for k, v := range s.extra {
			merged[k] = v
		}
		for k, v := range p.Extra {
			merged[k] = v
		}
		out.extra = merged
	}
	return out
}

// State is the full persisted contents of the store, in the shape the backup
// file uses.
type State struct {
	Favorites    []Favorite               `json:"favorites"`
	ReadChapters map[string][]ReadChapter `json:"readChapters"`
	Settings     Settings                 `json:"settings"`
}

// BackupPayload is a restored backup. Any subset of the three sections may
// be present; nil means the section was absent from the file.
type BackupPayload struct {
	Favorites    *[]Favorite               `json:"favorites"`
	ReadChapters *map[string][]ReadChapter `json:"readChapters"`
	Settings     *Settings                 `json:"settings"`
}
