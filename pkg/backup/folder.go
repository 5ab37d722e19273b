package backup

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Folder is a user-granted external directory, exposed the way a directory
// grant works: listing returns opaque item URIs rather than filenames, and
// items are read or written by URI. There is no overwrite-by-name; callers
// locate an existing item via MatchesFilename or create a new one.
type Folder interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, uri string) (string, error)
	Write(ctx context.Context, uri, content string) error
	Create(ctx context.Context, name string) (string, error)
}

// LocalFolder maps the Folder contract onto an ordinary directory. Item URIs
// are percent-encoded file:// URLs so the same matching rule applies as on
// content-provider style media.
type LocalFolder struct {
	dir string
}

func NewLocalFolder(dir string) (*LocalFolder, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("backup folder: %w", err)
	}
	return &LocalFolder{dir: abs}, nil
}

func (f *LocalFolder) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list backup folder: %w", err)
	}
	uris := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		uris = append(uris, f.itemURI(entry.Name()))
	}
	return uris, nil
}

func (f *LocalFolder) Read(ctx context.Context, uri string) (string, error) {
	path, err := f.itemPath(uri)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read backup item: %w", err)
	}
	return string(raw), nil
}

func (f *LocalFolder) Write(ctx context.Context, uri, content string) error {
	path, err := f.itemPath(uri)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write backup item: %w", err)
	}
	return nil
}

func (f *LocalFolder) Create(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(f.dir, filepath.Base(name))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create backup item: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return f.itemURI(filepath.Base(name)), nil
}

func (f *LocalFolder) itemURI(name string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(f.dir, name))}
	return u.String()
}

func (f *LocalFolder) itemPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return "", fmt.Errorf("not a local item uri: %q", uri)
	}
	path := filepath.FromSlash(u.Path)
	// items must stay inside the granted directory
	if filepath.Dir(path) != f.dir {
		return "", fmt.Errorf("item uri outside folder: %q", uri)
	}
	return path, nil
}
