package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// FileFetcher reads file:// sources and plain filesystem paths.
type FileFetcher struct {
	maxBytes int64
}

// Fetch reads the file behind source.
func (f *FileFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	path, err := filePath(source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = fh.Close() }()

	info, err := fh.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidSource, path)
	}

	b, err := readLimited(fh, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func filePath(source string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(source), "file:") {
		return source, nil
	}
	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	path := u.Path
	if path == "" {
		path = u.Opaque // file:relative/path.csv
	}
	if path == "" {
		return "", fmt.Errorf("%w: %q has no path", ErrInvalidSource, source)
	}
	return path, nil
}
