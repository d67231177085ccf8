package emojiservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	repo "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo"
)

type repoFake struct {
	mu        sync.Mutex
	nextID    int64
	nextTagID int64
	emojis    map[int64]models.Emoji
	downloads []models.DownloadLog
	searches  []models.SearchLog
	lastReq   repo.SearchRequest
}

func newRepoFake() *repoFake {
	return &repoFake{emojis: map[int64]models.Emoji{}}
}

func (f *repoFake) CreateEmoji(_ context.Context, e models.Emoji) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	e.ID = f.nextID

	for i := range e.Tags {
		f.nextTagID++
		e.Tags[i].ID = f.nextTagID
		e.Tags[i].EmojiID = e.ID
	}

	f.emojis[e.ID] = e

	return e.ID, nil
}

func (f *repoFake) GetEmoji(_ context.Context, id int64) (models.Emoji, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.emojis[id]
	if !ok {
		return models.Emoji{}, repo.ErrNotFound
	}

	return f.withDownloads(e), nil
}

func (f *repoFake) withDownloads(e models.Emoji) models.Emoji {
	e.Downloads = 0

	for _, d := range f.downloads {
		if d.EmojiID == e.ID {
			e.Downloads++
		}
	}

	return e
}

func (f *repoFake) ListByIDs(_ context.Context, ids []int64) ([]models.Emoji, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Emoji

	for _, id := range ids {
		if e, ok := f.emojis[id]; ok {
			out = append(out, f.withDownloads(e))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (f *repoFake) UpdateEmoji(_ context.Context, e models.Emoji) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.emojis[e.ID]; !ok {
		return repo.ErrNotFound
	}

	f.emojis[e.ID] = e

	return nil
}

func (f *repoFake) DeleteEmoji(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.emojis[id]; !ok {
		return repo.ErrNotFound
	}

	delete(f.emojis, id)

	return nil
}

// Search matches the keyword against names only and orders by id; the SQL itself is covered by the repository tests.
func (f *repoFake) Search(_ context.Context, req repo.SearchRequest) ([]models.Emoji, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastReq = req

	var matched []models.Emoji

	for _, e := range f.emojis {
		if strings.Contains(e.Name, req.Keyword) {
			matched = append(matched, e)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := min(int(req.Offset), total)
	end := min(start+int(req.Limit), total)

	return matched[start:end], total, nil
}

func (f *repoFake) CreateTag(_ context.Context, t models.Tag) (models.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.emojis[t.EmojiID]
	if !ok {
		return models.Tag{}, repo.ErrNotFound
	}

	for _, existing := range e.Tags {
		if existing.Name == t.Name {
			return models.Tag{}, repo.ErrAlreadyExists
		}
	}

	f.nextTagID++
	t.ID = f.nextTagID
	e.Tags = append(e.Tags, t)
	f.emojis[e.ID] = e

	return t, nil
}

func (f *repoFake) DeleteTag(_ context.Context, emojiID, tagID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.emojis[emojiID]
	if !ok {
		return repo.ErrTagNotFound
	}

	for i, t := range e.Tags {
		if t.ID == tagID {
			e.Tags = append(e.Tags[:i:i], e.Tags[i+1:]...)
			f.emojis[emojiID] = e

			return nil
		}
	}

	return repo.ErrTagNotFound
}

func (f *repoFake) CreateDownloadLogs(_ context.Context, logs []models.DownloadLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.downloads = append(f.downloads, logs...)

	return nil
}

func (f *repoFake) CreateSearchLog(_ context.Context, l models.SearchLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.searches = append(f.searches, l)

	return nil
}

type cacheFake struct {
	mu     sync.Mutex
	emojis map[int64]models.Emoji
}

func newCacheFake() *cacheFake {
	return &cacheFake{emojis: map[int64]models.Emoji{}}
}

func (f *cacheFake) GetEmoji(_ context.Context, id int64) (models.Emoji, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.emojis[id]
	if !ok {
		return models.Emoji{}, repo.ErrNotFound
	}

	return e, nil
}

func (f *cacheFake) SetEmoji(_ context.Context, e models.Emoji) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.emojis[e.ID] = e

	return nil
}

func (f *cacheFake) DeleteEmoji(_ context.Context, ids ...int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, id := range ids {
		delete(f.emojis, id)
	}

	return nil
}

type imagesFake struct {
	mu     sync.Mutex
	next   int
	images map[string][]byte
}

func newImagesFake() *imagesFake {
	return &imagesFake{images: map[string][]byte{}}
}

func (f *imagesFake) Save(_ context.Context, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	if !bytes.HasPrefix(data, []byte("GIF")) {
		return "", models.ErrUnsupportedImage
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	key := fmt.Sprintf("image-%d.gif", f.next)
	f.images[key] = data

	return key, nil
}

func (f *imagesFake) Open(key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.images[key]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", key, models.ErrNotFound)
	}

	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *imagesFake) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.images[key]; !ok {
		return errors.New("no such image")
	}

	delete(f.images, key)

	return nil
}
