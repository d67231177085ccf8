// Package local keeps uploaded emoji images on the local file system together with
// their thumbnail and OGP renditions.
package local

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // gif decoder
	_ "image/jpeg" // jpeg decoder
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	thumbSuffix = "_thumb.png"
	ogpSuffix   = "_ogp.png"
)

var extensions = map[string]string{
	"png":  ".png",
	"gif":  ".gif",
	"jpeg": ".jpg",
}

type Storage struct {
	dir       string
	urlPrefix string
	thumbSize int
	ogpSize   int
	maxPixels int
}

func New(cfg config.Storage) (Storage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil { //nolint:gomnd
		return Storage{}, fmt.Errorf("create storage dir error: %w", err)
	}

	return Storage{
		dir:       cfg.Dir,
		urlPrefix: strings.TrimSuffix(cfg.URLPrefix, "/"),
		thumbSize: cfg.ThumbSize,
		ogpSize:   cfg.OGPSize,
		maxPixels: cfg.MaxPixels,
	}, nil
}

// Save stores the image read from r and returns the key it is stored under.
func (s Storage) Save(ctx context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image error: %w", err)
	}

	// Decoders allocate the whole frame up front, so the header is checked first.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", models.ErrUnsupportedImage
	}

	if cfg.Width <= 0 || cfg.Height <= 0 ||
		(s.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(s.maxPixels)) {
		return "", fmt.Errorf("%w: %dx%d", models.ErrUnsupportedImage, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", models.ErrUnsupportedImage
	}

	ext, ok := extensions[format]
	if !ok {
		return "", models.ErrUnsupportedImage
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	key := uuid.NewString() + ext

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil { //nolint:gomnd,gosec
		return "", fmt.Errorf("write original error: %w", err)
	}

	renditions := []struct {
		suffix string
		size   int
	}{
		{thumbSuffix, s.thumbSize},
		{ogpSuffix, s.ogpSize},
	}

	for _, rd := range renditions {
		if err := s.writeScaled(img, base(key)+rd.suffix, rd.size); err != nil {
			s.Delete(key) //nolint:errcheck

			return "", err
		}
	}

	return key, nil
}

func (s Storage) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("image %s: %w", key, models.ErrNotFound)
		}

		return nil, fmt.Errorf("open image error: %w", err)
	}

	return f, nil
}

func (s Storage) Delete(key string) error {
	var errs []error

	for _, name := range []string{key, base(key) + thumbSuffix, base(key) + ogpSuffix} {
		if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("delete image error: %w", err)
	}

	return nil
}

// URLs returns the public locations of the image stored under key.
// Slack accepts the original upload as is.
func (s Storage) URLs(key string) models.ImageURLs {
	original := s.urlPrefix + "/" + key

	return models.ImageURLs{
		Original: original,
		Slack:    original,
		Thumb:    s.urlPrefix + "/" + base(key) + thumbSuffix,
		OGP:      s.urlPrefix + "/" + base(key) + ogpSuffix,
	}
}

func (s Storage) Handler() http.Handler {
	return http.StripPrefix(s.urlPrefix, http.FileServer(http.Dir(s.dir)))
}

func (s Storage) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s Storage) writeScaled(src image.Image, name string, size int) error {
	dst := image.NewRGBA(fit(src.Bounds(), size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	f, err := os.Create(s.path(name))
	if err != nil {
		return fmt.Errorf("create rendition error: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, dst); err != nil {
		return fmt.Errorf("encode rendition error: %w", err)
	}

	return nil
}

// fit scales b down so that its longer side is at most size, keeping the aspect ratio.
func fit(b image.Rectangle, size int) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if size <= 0 || (w <= size && h <= size) {
		return image.Rect(0, 0, w, h)
	}

	if w >= h {
		h = max(1, h*size/w)
		w = size
	} else {
		w = max(1, w*size/h)
		h = size
	}

	return image.Rect(0, 0, w, h)
}

func base(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}
