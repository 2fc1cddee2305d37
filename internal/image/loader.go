// Package image provides utilities for loading user files and decoding image previews.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	"github.com/jmylchreest/brandstream/internal/selection"
)

// MaxUploadSize is the largest file the extraction service accepts.
const MaxUploadSize = 16 << 20

// ErrTooLarge is returned for files over MaxUploadSize.
var ErrTooLarge = errors.New("file exceeds the 16 MiB upload limit")

// LoadFile reads a file from disk and reports its sniffed MIME type.
// Content sniffing is used rather than the extension so a renamed PDF is
// still rejected by the image check.
func LoadFile(path string) (*selection.File, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if info.Size() > MaxUploadSize {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrTooLarge)
	}

	data, err := os.ReadFile(path) // #nosec G304 - User-specified file, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return FromBytes(filepath.Base(path), path, data), nil
}

// Fetcher retrieves the body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ErrNoFetcher is returned when a URL is loaded without a Fetcher.
var ErrNoFetcher = errors.New("remote images are not supported here")

// IsURL reports whether location is an HTTP(S) URL.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load loads a file from either a local path or an HTTP(S) URL.
func Load(ctx context.Context, fetcher Fetcher, location string) (*selection.File, error) {
	if !IsURL(location) {
		return LoadFile(location)
	}
	if fetcher == nil {
		return nil, ErrNoFetcher
	}

	data, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch file from URL: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("%s: %w", location, ErrTooLarge)
	}

	name := location
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		name = filepath.Base(u.Path)
	}
	return FromBytes(name, location, data), nil
}

// FromBytes wraps in-memory content as a selectable file.
func FromBytes(name, path string, data []byte) *selection.File {
	mime := mimetype.Detect(data)
	return &selection.File{
		Name:     name,
		Path:     path,
		MIMEType: mime.String(),
		Content:  data,
	}
}

// ResolveDroppedPath turns text pasted by a terminal when a file is dropped
// on it into a filesystem path. Terminals variously quote the path,
// backslash-escape spaces or send a file:// URI.
func ResolveDroppedPath(s string) string {
	s = strings.TrimSpace(s)
	// Only the first file of a multi-file drop is used.
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}

	if strings.HasPrefix(s, "file://") {
		if u, err := url.Parse(s); err == nil {
			return u.Path
		}
	}

	return strings.ReplaceAll(s, `\ `, " ")
}

// Preview is a decoded image ready for display.
type Preview struct {
	Format    string
	Width     int
	Height    int
	Thumbnail *image.RGBA
}

// DecodePreview decodes f and scales it to fit within maxW x maxH.
func DecodePreview(f *selection.File, maxW, maxH int) (*Preview, error) {
	if f == nil {
		return nil, selection.ErrNoFile
	}

	img, format, err := image.Decode(bytes.NewReader(f.Content))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	bounds := img.Bounds()
	return &Preview{
		Format:    format,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Thumbnail: Thumbnail(img, maxW, maxH),
	}, nil
}
