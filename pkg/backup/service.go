// Package backup serializes the full reading state to a single named file in
// a user-chosen external folder, and restores it behind strict validation.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/balrog57/chireaders/pkg/data"
)

// FileName is the fixed logical name of the backup file inside the folder.
const FileName = "chireaders_backup.json"

// ErrCorruptBackup means the backup file exists but could not be parsed.
// It is distinct from validation failures so the user sees "corrupted"
// rather than a generic error.
var ErrCorruptBackup = errors.New("backup file is corrupted")

type Service struct {
	folder Folder
	logger *slog.Logger
}

func NewService(folder Folder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{folder: folder, logger: logger}
}

// Save writes content under the logical filename: overwrite the matching
// item when one exists, otherwise create one.
func (s *Service) Save(ctx context.Context, filename, content string) error {
	items, err := s.folder.List(ctx)
	if err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}

	target := findItem(items, filename)
	if target == "" {
		target, err = s.folder.Create(ctx, filename)
		if err != nil {
			return fmt.Errorf("save %s: %w", filename, err)
		}
	}
	if err := s.folder.Write(ctx, target, content); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	s.logger.Debug("backup written", "file", filename, "uri", target)
	return nil
}

// Load reads the item matching the logical filename. A missing file is a
// normal state, reported via found=false rather than an error.
func (s *Service) Load(ctx context.Context, filename string) (content string, found bool, err error) {
	items, err := s.folder.List(ctx)
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", filename, err)
	}
	target := findItem(items, filename)
	if target == "" {
		return "", false, nil
	}
	content, err = s.folder.Read(ctx, target)
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", filename, err)
	}
	return content, true, nil
}

// AutoBackup serializes the full state as pretty-printed JSON to the fixed
// backup filename.
func (s *Service) AutoBackup(ctx context.Context, state data.State) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	return s.Save(ctx, FileName, string(raw))
}

// Restore loads and validates the backup file. found=false means no backup
// exists; ErrCorruptBackup means it exists but is not JSON; a
// *ValidationError means it parsed but has an unacceptable shape. The
// returned payload carries only the sections present in the file and is safe
// to hand to the store.
func (s *Service) Restore(ctx context.Context) (payload data.BackupPayload, found bool, err error) {
	content, found, err := s.Load(ctx, FileName)
	if err != nil || !found {
		return data.BackupPayload{}, found, err
	}

	raw := []byte(content)
	if !json.Valid(raw) {
		return data.BackupPayload{}, true, ErrCorruptBackup
	}
	if err := Validate(raw); err != nil {
		return data.BackupPayload{}, true, err
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		// structurally valid but field types the model cannot hold
		return data.BackupPayload{}, true, fmt.Errorf("%w: %w", ErrCorruptBackup, err)
	}
	return payload, true, nil
}

func findItem(items []string, filename string) string {
	for _, uri := range items {
		if MatchesFilename(uri, filename) {
			return uri
		}
	}
	return ""
}
