package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.Reason
}

func TestValidateAcceptsWellFormedPayloads(t *testing.T) {
	valid := [][]byte{
		[]byte(`{}`),
		[]byte(`{"favorites":[]}`),
		[]byte(`{"favorites":[{"url":"book1","title":"Book One","dateAdded":1}]}`),
		[]byte(`{"readChapters":{"book1":[{"url":"ch1","title":"Chapter 1"}]}}`),
		[]byte(`{"settings":{"darkMode":true}}`),
		[]byte(`{"favorites":[],"readChapters":{},"settings":{}}`),
		// unknown top-level fields pass through
		[]byte(`{"schemaVersion":2}`),
	}
	for _, raw := range valid {
		assert.NoError(t, Validate(raw), "payload: %s", raw)
	}
}

func TestValidateTopLevel(t *testing.T) {
	for _, raw := range []string{`null`, `[]`, `"oops"`, `42`} {
		err := Validate([]byte(raw))
		assert.Equal(t, "backup data is not an object", reasonOf(t, err), "payload: %s", raw)
	}
}

func TestValidateFavorites(t *testing.T) {
	tests := []struct {
		payload string
		reason  string
	}{
		{`{"favorites":"oops"}`, "the favorites list is corrupted"},
		{`{"favorites":null}`, "the favorites list is corrupted"},
		{`{"favorites":{}}`, "the favorites list is corrupted"},
		{`{"favorites":["oops"]}`, "a favorites entry is not an object"},
		{`{"favorites":[{"title":"Book One"}]}`, "a favorite is missing a valid url"},
		{`{"favorites":[{"url":"","title":"Book One"}]}`, "a favorite is missing a valid url"},
		{`{"favorites":[{"url":"book1"}]}`, "a favorite is missing a valid title"},
	}
	for _, tt := range tests {
		err := Validate([]byte(tt.payload))
		assert.Equal(t, tt.reason, reasonOf(t, err), "payload: %s", tt.payload)
	}
}

func TestValidateReadChapters(t *testing.T) {
	tests := []struct {
		payload string
		reason  string
	}{
		{`{"readChapters":[]}`, "the read history is corrupted"},
		{`{"readChapters":null}`, "the read history is corrupted"},
		{`{"readChapters":{"book1":"oops"}}`, "the read history for book1 is invalid"},
		{`{"readChapters":{"book1":null}}`, "the read history for book1 is invalid"},
		{`{"readChapters":{"book1":[{"title":"no url"}]}}`, "a read chapter for book1 is invalid"},
		{`{"readChapters":{"book1":["oops"]}}`, "a read chapter for book1 is invalid"},
	}
	for _, tt := range tests {
		err := Validate([]byte(tt.payload))
		assert.Equal(t, tt.reason, reasonOf(t, err), "payload: %s", tt.payload)
	}
}

func TestValidateSettings(t *testing.T) {
	for _, raw := range []string{`{"settings":[]}`, `{"settings":null}`, `{"settings":"oops"}`} {
		err := Validate([]byte(raw))
		assert.Equal(t, "settings are corrupted", reasonOf(t, err), "payload: %s", raw)
	}
}
