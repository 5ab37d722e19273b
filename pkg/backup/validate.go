package backup

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError rejects an externally-sourced state blob with a reason fit
// for display. Validation never repairs or coerces data.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid backup: " + e.Reason
}

var fieldValidator = validator.New()

// Element shapes checked during restore. Only identity fields are required;
// everything else is tolerated so older and newer backups both pass.
type backupFavorite struct {
	URL   string `json:"url" validate:"required"`
	Title string `json:"title" validate:"required"`
}

type backupReadChapter struct {
	URL string `json:"url" validate:"required"`
}

// Validate structurally checks a parsed-but-untrusted backup blob before it
// may overwrite live state. All three sections are optional; the first
// violation wins. The input must already be well-formed JSON.
func Validate(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil || top == nil {
		return &ValidationError{Reason: "backup data is not an object"}
	}

	if section, ok := top["favorites"]; ok {
		if err := validateFavorites(section); err != nil {
			return err
		}
	}
	if section, ok := top["readChapters"]; ok {
		if err := validateReadChapters(section); err != nil {
			return err
		}
	}
	if section, ok := top["settings"]; ok {
		var settings map[string]json.RawMessage
		if err := json.Unmarshal(section, &settings); err != nil || settings == nil {
			return &ValidationError{Reason: "settings are corrupted"}
		}
	}
	return nil
}

func validateFavorites(section json.RawMessage) error {
	var items []json.RawMessage
	if err := json.Unmarshal(section, &items); err != nil || items == nil {
		return &ValidationError{Reason: "the favorites list is corrupted"}
	}
	for _, item := range items {
		var fav backupFavorite
		if err := json.Unmarshal(item, &fav); err != nil {
			return &ValidationError{Reason: "a favorites entry is not an object"}
		}
		if err := fieldValidator.Struct(fav); err != nil {
			return &ValidationError{Reason: favoriteFieldReason(err)}
		}
	}
	return nil
}

func favoriteFieldReason(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		switch fields[0].Field() {
		case "URL":
			return "a favorite is missing a valid url"
		case "Title":
			return "a favorite is missing a valid title"
		}
	}
	return "a favorites entry is invalid"
}

func validateReadChapters(section json.RawMessage) error {
	var series map[string]json.RawMessage
	if err := json.Unmarshal(section, &series); err != nil || series == nil {
		return &ValidationError{Reason: "the read history is corrupted"}
	}
	for seriesURL, rawSeq := range series {
		var seq []json.RawMessage
		if err := json.Unmarshal(rawSeq, &seq); err != nil || seq == nil {
			return &ValidationError{Reason: fmt.Sprintf("the read history for %s is invalid", seriesURL)}
		}
		for _, item := range seq {
			var ch backupReadChapter
			if err := json.Unmarshal(item, &ch); err != nil {
				return &ValidationError{Reason: fmt.Sprintf("a read chapter for %s is invalid", seriesURL)}
			}
			if err := fieldValidator.Struct(ch); err != nil {
				return &ValidationError{Reason: fmt.Sprintf("a read chapter for %s is invalid", seriesURL)}
			}
		}
	}
	return nil
}
