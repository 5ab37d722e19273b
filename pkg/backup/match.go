package backup

import (
	"net/url"
	"strings"
)

// MatchesFilename reports whether an opaque item URI refers to exactly the
// given logical filename. The URI is percent-decoded, then the decoded form
// must equal the filename or end with it immediately after a path separator
// ("/") or a scheme-specific delimiter (":").
//
// A plain substring check would let "not_backup.json" or "backup.json.bak"
// shadow "backup.json" and redirect a restore to a planted file; requiring a
// delimiter boundary closes that off. A URI that fails to decode never
// matches.
func MatchesFilename(uri, filename string) bool {
	if uri == "" || filename == "" {
		return false
	}
	decoded, err := url.PathUnescape(uri)
	if err != nil {
		return false
	}
	return decoded == filename ||
		strings.HasSuffix(decoded, "/"+filename) ||
		strings.HasSuffix(decoded, ":"+filename)
}
