package emojiservice

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
)

// Download opens the image of one emoji and counts the download.
// The caller closes the returned reader.
func (es *EmojiService) Download(ctx context.Context, userID *int64, id int64) (models.Emoji, io.ReadCloser, error) {
	e, err := es.getEmoji(ctx, id)
	if err != nil {
		return models.Emoji{}, nil, err
	}

	rc, err := es.images.Open(e.ImageKey)
	if err != nil {
		return models.Emoji{}, nil, fmt.Errorf("open image error: %w", err)
	}

	if err := es.logDownloads(ctx, userID, []models.Emoji{e}); err != nil {
		rc.Close()

		return models.Emoji{}, nil, err
	}

	return e, rc, nil
}

// PrepareArchive resolves the emojis of a download cart in the requested order and counts
// one download for each of them. Repeated ids are collapsed.
func (es *EmojiService) PrepareArchive(ctx context.Context, userID *int64, ids []int64) ([]models.Emoji, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty download list", models.ErrBadParameter)
	}

	found, err := es.emojis.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list emojis error: %w", err)
	}

	byID := make(map[int64]models.Emoji, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}

	emojis := make([]models.Emoji, 0, len(ids))

	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("emoji %d: %w", id, models.ErrNotFound)
		}

		emojis = append(emojis, e)
	}

	if err := es.logDownloads(ctx, userID, emojis); err != nil {
		return nil, err
	}

	return emojis, nil
}

// WriteArchive writes a zip archive with one entry per emoji to w.
func (es *EmojiService) WriteArchive(ctx context.Context, emojis []models.Emoji, w io.Writer) error {
	zw := zip.NewWriter(w)
	names := make(map[string]struct{}, len(emojis))

	for _, e := range emojis {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("context error: %w", err)
		}

		name := FileName(e)
		if _, ok := names[name]; ok {
			name = fmt.Sprintf("%s-%d%s", e.Name, e.ID, path.Ext(e.ImageKey))
		}

		names[name] = struct{}{}

		if err := es.addToArchive(zw, e, name); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive error: %w", err)
	}

	return nil
}

func (es *EmojiService) addToArchive(zw *zip.Writer, e models.Emoji, name string) error {
	rc, err := es.images.Open(e.ImageKey)
	if err != nil {
		return fmt.Errorf("open image error: %w", err)
	}
	defer rc.Close()

	fw, err := zw.CreateHeader(&zip.FileHeader{ //nolint:exhaustruct
		Name:     name,
		Method:   zip.Deflate,
		Modified: e.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("create archive entry error: %w", err)
	}

	if _, err := io.Copy(fw, rc); err != nil {
		return fmt.Errorf("copy image error: %w", err)
	}

	return nil
}

// FileName is the name a downloaded emoji is saved under, e.g. "party_parrot.gif".
func FileName(e models.Emoji) string {
	return e.Name + path.Ext(e.ImageKey)
}

func (es *EmojiService) logDownloads(ctx context.Context, userID *int64, emojis []models.Emoji) error {
	logs := make([]models.DownloadLog, 0, len(emojis))
	ids := make([]int64, 0, len(emojis))

	for _, e := range emojis {
		logs = append(logs, models.DownloadLog{EmojiID: e.ID, UserID: userID})
		ids = append(ids, e.ID)
	}

	if err := es.emojis.CreateDownloadLogs(ctx, logs); err != nil {
		return fmt.Errorf("create download logs error: %w", err)
	}

	es.invalidate(ctx, ids...)

	return nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
