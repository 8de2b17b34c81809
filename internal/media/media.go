// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media stores uploaded article photos in a configured upload
// directory. Files are renamed to a slugified base plus a uniqueness token
// so that client-supplied names never collide or escape the directory.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"lagazette/internal/slug"
)

const (
	// MaxUploadSize is the maximum allowed photo size (10 MB).
	MaxUploadSize = 10 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	maxImagePixels = 100_000_000
)

// ErrUnsupportedType is returned when an upload is not an accepted image type.
var ErrUnsupportedType = errors.New("unsupported file type")

// allowedTypes maps accepted MIME types to their canonical extension.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// thumbableTypes are image types that support thumbnail generation.
// GIF is excluded to preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Store writes and removes photo files under a single upload directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed and returns a Store.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path, used to mount the file server.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and stores an uploaded photo, returning the generated
// filename `{slugified-name}_{token}{ext}`. The content type is sniffed
// from the file bytes, never trusted from the client. A thumbnail variant
// is generated best-effort for large images.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", fmt.Errorf("upload exceeds %d bytes", MaxUploadSize)
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	base := slug.Generate(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	if base == "" {
		base = "photo"
	}
	token := uuid.NewString()[:8]
	filename := fmt.Sprintf("%s_%s%s", base, token, ext)

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	// Thumbnail failures never fail the upload; the original is what counts.
	if thumbableTypes[contentType] {
		if err := s.writeThumb(filename, data); err != nil {
			slog.Warn("thumbnail generation failed", "file", filename, "error", err)
		}
	}

	return filename, nil
}

// Delete removes a stored photo and its thumbnail variant. A missing file
// is not an error: delete is idempotent.
func (s *Store) Delete(filename string) error {
	// Refuse anything that could escape the upload directory.
	if filename == "" || filename != filepath.Base(filename) {
		return fmt.Errorf("invalid media filename %q", filename)
	}

	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete media: %w", err)
	}
	if err := os.Remove(filepath.Join(s.dir, ThumbName(filename))); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete thumbnail: %w", err)
	}
	return nil
}

// Exists reports whether a stored file is present in the upload directory.
func (s *Store) Exists(filename string) bool {
	if filename == "" || filename != filepath.Base(filename) {
		return false
	}
	_, err := os.Stat(filepath.Join(s.dir, filename))
	return err == nil
}

// ThumbName returns the thumbnail filename for a stored photo.
func ThumbName(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename)) + "_thumb.jpg"
}

// writeThumb generates and stores a JPEG thumbnail next to the original.
func (s *Store) writeThumb(filename string, data []byte) error {
	thumb, err := generateThumbnail(bytes.NewReader(data), thumbMaxWidth)
	if err != nil {
		return err
	}
	if thumb == nil {
		return nil // image already small enough
	}
	return os.WriteFile(filepath.Join(s.dir, ThumbName(filename)), thumb, 0o644)
}

// generateThumbnail creates a JPEG thumbnail from an image, constrained
// to maxWidth while preserving aspect ratio. Returns nil if the image is
// already smaller than maxWidth.
func generateThumbnail(src io.ReadSeeker, maxWidth int) ([]byte, error) {
	// Decode config first to check dimensions without a full decode.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
