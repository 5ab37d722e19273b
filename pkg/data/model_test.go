package data

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteNotificationsDefaultTrue(t *testing.T) {
	// entries written before the toggle existed have no notificationsEnabled
	var fav Favorite
	err := json.Unmarshal([]byte(`{"url":"book1","title":"Book One"}`), &fav)
	require.NoError(t, err)
	assert.True(t, fav.NotificationsEnabled)

	err = json.Unmarshal([]byte(`{"url":"book1","notificationsEnabled":false}`), &fav)
	require.NoError(t, err)
	assert.False(t, fav.NotificationsEnabled)
}

func TestSettingsRoundTripKeepsUnknownFields(t *testing.T) {
	raw := `{"darkMode":true,"fontSize":20,"notifications":{"enabled":false,"checkInterval":60000},"readerMargin":12}`

	var settings Settings
	require.NoError(t, json.Unmarshal([]byte(raw), &settings))
	assert.True(t, settings.DarkMode)
	assert.Equal(t, 20, settings.FontSize)
	assert.False(t, settings.Notifications.Enabled)
	assert.Equal(t, int64(60000), settings.Notifications.CheckInterval)

	out, err := json.Marshal(settings)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.JSONEq(t, `12`, string(fields["readerMargin"]))
}

func TestSettingsPatchMerge(t *testing.T) {
	base := DefaultSettings()

	dark := true
	merged := SettingsPatch{DarkMode: &dark}.Merge(base)
	assert.True(t, merged.DarkMode)
	// unspecified fields are preserved
	assert.Equal(t, base.FontSize, merged.FontSize)
	assert.Equal(t, base.Notifications, merged.Notifications)

	// a present notifications record replaces the nested value wholesale
	merged = SettingsPatch{
		Notifications: &NotificationSettings{Enabled: false, CheckInterval: 1},
	}.Merge(merged)
	assert.False(t, merged.Notifications.Enabled)
	assert.Equal(t, int64(1), merged.Notifications.CheckInterval)
	assert.True(t, merged.DarkMode)
}

func TestSettingsPatchMergeExtra(t *testing.T) {
	var base Settings
	require.NoError(t, json.Unmarshal([]byte(`{"fontSize":18,"readerMargin":12}`), &base))

	merged := SettingsPatch{
		Extra: map[string]json.RawMessage{"readerMargin": json.RawMessage(`16`)},
	}.Merge(base)

	out, err := json.Marshal(merged)
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.JSONEq(t, `16`, string(fields["readerMargin"]))
	assert.JSONEq(t, `18`, string(fields["fontSize"]))
}
