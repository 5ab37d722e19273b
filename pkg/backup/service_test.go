package backup

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balrog57/chireaders/pkg/data"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	folder, err := NewLocalFolder(dir)
	require.NoError(t, err)
	return NewService(folder, nil), dir
}

func TestSaveCreatesThenOverwrites(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, FileName, `{"v":1}`))
	require.NoError(t, svc.Save(ctx, FileName, `{"v":2}`))

	// overwrite, not a duplicate
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(raw))
}

func TestSaveIgnoresLookalikeFiles(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	// planted files that a substring match would pick up
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not_"+FileName), []byte(`planted`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName+".bak"), []byte(`planted`), 0o644))

	require.NoError(t, svc.Save(ctx, FileName, `{"v":1}`))

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(raw))
	// planted files untouched
	raw, err = os.ReadFile(filepath.Join(dir, "not_"+FileName))
	require.NoError(t, err)
	assert.Equal(t, `planted`, string(raw))
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)

	content, found, err := svc.Load(context.Background(), FileName)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, content)
}

func TestAutoBackupAndRestoreRoundTrip(t *testing.T) {
	svc, dir := newTestService(t)
	ctx := context.Background()

	state := data.State{
		Favorites: []data.Favorite{
			{URL: "book1", Title: "Book One", NotificationsEnabled: true, DateAdded: 1000},
		},
		ReadChapters: map[string][]data.ReadChapter{
			"book1": {{URL: "ch1", Title: "Chapter 1", DateRead: 2000}},
		},
		Settings: data.DefaultSettings(),
	}
	require.NoError(t, svc.AutoBackup(ctx, state))

	// pretty-printed JSON on disk
	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  ")
	assert.True(t, json.Valid(raw))

	payload, found, err := svc.Restore(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, payload.Favorites)
	require.NotNil(t, payload.ReadChapters)
	require.NotNil(t, payload.Settings)
	assert.Equal(t, "book1", (*payload.Favorites)[0].URL)
	assert.Equal(t, "ch1", (*payload.ReadChapters)["book1"][0].URL)
}

func TestRestoreNoBackup(t *testing.T) {
	svc, _ := newTestService(t)

	_, found, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRestoreCorruptFile(t *testing.T) {
	svc, dir := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{truncated`), 0o644))

	_, found, err := svc.Restore(context.Background())
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrCorruptBackup)
}

func TestRestoreInvalidPayload(t *testing.T) {
	svc, dir := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"favorites":"oops"}`), 0o644))

	_, found, err := svc.Restore(context.Background())
	assert.True(t, found)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "the favorites list is corrupted", vErr.Reason)
}

func TestRestorePartialBackup(t *testing.T) {
	svc, dir := newTestService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"settings":{"fontSize":22}}`), 0o644))

	payload, found, err := svc.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, payload.Favorites)
	assert.Nil(t, payload.ReadChapters)
	require.NotNil(t, payload.Settings)
	assert.Equal(t, 22, payload.Settings.FontSize)
}

func TestLocalFolderRejectsForeignURIs(t *testing.T) {
	folder, err := NewLocalFolder(t.TempDir())
	require.NoError(t, err)

	_, err = folder.Read(context.Background(), "content://provider/doc")
	assert.Error(t, err)
	_, err = folder.Read(context.Background(), "file:///etc/passwd")
	assert.Error(t, err)
}
