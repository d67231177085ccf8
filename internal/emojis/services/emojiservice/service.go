package emojiservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/domain/validation"
	repo "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo"
	"github.com/Leopold1975/emoji_best/pkg/logger"
)

type EmojiService struct {
	emojis    Repository
	cache     Cache
	images    ImageStorage
	validator *validation.Validator
	lg        logger.Logger
}

type Repository interface {
	CreateEmoji(context.Context, models.Emoji) (int64, error)
	GetEmoji(context.Context, int64) (models.Emoji, error)
	ListByIDs(context.Context, []int64) ([]models.Emoji, error)
	UpdateEmoji(context.Context, models.Emoji) error
	DeleteEmoji(context.Context, int64) error
	Search(context.Context, repo.SearchRequest) ([]models.Emoji, int, error)
	CreateTag(context.Context, models.Tag) (models.Tag, error)
	DeleteTag(ctx context.Context, emojiID, tagID int64) error
	CreateDownloadLogs(context.Context, []models.DownloadLog) error
	CreateSearchLog(context.Context, models.SearchLog) error
}

type Cache interface {
	GetEmoji(context.Context, int64) (models.Emoji, error)
	SetEmoji(context.Context, models.Emoji) error
	DeleteEmoji(context.Context, ...int64) error
}

type ImageStorage interface {
	Save(context.Context, io.Reader) (string, error)
	Open(key string) (io.ReadCloser, error)
	Delete(key string) error
}

func New(emojis Repository, cache Cache, images ImageStorage, lg logger.Logger) *EmojiService {
	return &EmojiService{
		emojis:    emojis,
		cache:     cache,
		images:    images,
		validator: validation.New(),
		lg:        lg,
	}
}

func (es *EmojiService) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)

	if req.Target == "" {
		req.Target = models.TargetAll
	}

	if req.Order == "" {
		req.Order = models.OrderNew
	}

	if req.Num == 0 {
		req.Num = DefaultNum
	}

	if err := checkSearch(req); err != nil {
		return SearchResult{}, err
	}

	emojis, total, err := es.emojis.Search(ctx, repo.SearchRequest{
		Keyword: req.Keyword,
		Target:  req.Target,
		Order:   req.Order,
		Offset:  uint64(req.Page * req.Num),
		Limit:   uint64(req.Num),
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("search emojis error: %w", err)
	}

	if req.Keyword != "" {
		err := es.emojis.CreateSearchLog(ctx, models.SearchLog{
			Keyword: req.Keyword,
			Target:  req.Target,
			UserID:  req.UserID,
		})
		if err != nil {
			es.lg.Errorf("create search log error: %s", err.Error())
		}
	}

	return SearchResult{
		Emojis:  emojis,
		Total:   total,
		Page:    req.Page,
		Num:     req.Num,
		Keyword: req.Keyword,
		Target:  req.Target,
		Order:   req.Order,
	}, nil
}

func checkSearch(req SearchRequest) error {
	switch {
	case req.Order != models.OrderNew && req.Order != models.OrderPopular:
		return fmt.Errorf("%w: order %q", models.ErrBadParameter, req.Order)
	case req.Target != models.TargetAll && req.Target != models.TargetTag:
		return fmt.Errorf("%w: target %q", models.ErrBadParameter, req.Target)
	case req.Page < 0 || req.Page > math.MaxInt/MaxNum:
		return fmt.Errorf("%w: page %d", models.ErrBadParameter, req.Page)
	case req.Num < 1 || req.Num > MaxNum:
		return fmt.Errorf("%w: num %d", models.ErrBadParameter, req.Num)
	}

	return nil
}

// Upload stores the image and creates an emoji owned by owner.
func (es *EmojiService) Upload(ctx context.Context, owner models.User, req UploadRequest) (models.Emoji, error) {
	req.Name = models.NormalizeName(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Tags = normalizeTags(req.Tags)

	verr := validation.Errors{}

	if err := es.validator.Struct(req); err != nil {
		if !errors.As(err, &verr) {
			return models.Emoji{}, fmt.Errorf("validate error: %w", err)
		}
	}

	if req.Image == nil {
		verr.Add("image", validation.Blank, nil)
	}

	if len(verr) != 0 {
		return models.Emoji{}, verr
	}

	key, err := es.images.Save(ctx, req.Image)
	if err != nil {
		if errors.Is(err, models.ErrUnsupportedImage) {
			verr.Add("image", validation.Invalid, nil)

			return models.Emoji{}, verr
		}

		return models.Emoji{}, fmt.Errorf("save image error: %w", err)
	}

	e := models.Emoji{
		UserID:      owner.ID,
		Name:        req.Name,
		Description: req.Description,
		ImageKey:    key,
	}

	for _, name := range req.Tags {
		e.Tags = append(e.Tags, models.Tag{Name: name})
	}

	id, err := es.emojis.CreateEmoji(ctx, e)
	if err != nil {
		if err := es.images.Delete(key); err != nil {
			es.lg.Errorf("delete image error: %s", err.Error())
		}

		return models.Emoji{}, fmt.Errorf("create emoji error: %w", err)
	}

	return es.getEmoji(ctx, id)
}

// GetEmoji serves the emoji from the cache and falls back to the repository.
func (es *EmojiService) GetEmoji(ctx context.Context, id int64) (models.Emoji, error) {
	e, err := es.cache.GetEmoji(ctx, id)
	if err == nil {
		es.lg.Debugf("emoji %d cache hit", id)

		return e, nil
	}

	if !errors.Is(err, repo.ErrNotFound) {
		es.lg.Errorf("get emoji cache error: %s", err.Error())
	}

	e, err = es.getEmoji(ctx, id)
	if err != nil {
		return models.Emoji{}, err
	}

	if err := es.cache.SetEmoji(ctx, e); err != nil {
		es.lg.Errorf("set emoji cache error: %s", err.Error())
	}

	return e, nil
}

func (es *EmojiService) UpdateEmoji(ctx context.Context, user models.User, id int64,
	req UpdateEmojiRequest,
) (models.Emoji, error) {
	e, err := es.ownedEmoji(ctx, user, id)
	if err != nil {
		return models.Emoji{}, err
	}

	fields := emojiFields{Name: e.Name, Description: e.Description}

	if req.Name != nil {
		fields.Name = models.NormalizeName(*req.Name)
	}

	if req.Description != nil {
		fields.Description = strings.TrimSpace(*req.Description)
	}

	if err := es.validator.Struct(fields); err != nil {
		return models.Emoji{}, err //nolint:wrapcheck
	}

	e.Name = fields.Name
	e.Description = fields.Description

	if err := es.emojis.UpdateEmoji(ctx, e); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Emoji{}, models.ErrNotFound
		}

		return models.Emoji{}, fmt.Errorf("update emoji error: %w", err)
	}

	es.invalidate(ctx, id)

	return es.getEmoji(ctx, id)
}

func (es *EmojiService) DeleteEmoji(ctx context.Context, user models.User, id int64) error {
	e, err := es.ownedEmoji(ctx, user, id)
	if err != nil {
		return err
	}

	if err := es.emojis.DeleteEmoji(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.ErrNotFound
		}

		return fmt.Errorf("delete emoji error: %w", err)
	}

	es.invalidate(ctx, id)

	if err := es.images.Delete(e.ImageKey); err != nil {
		es.lg.Errorf("delete image error: %s", err.Error())
	}

	return nil
}

// Forget drops cache entries and stored images of emojis already deleted from the repository,
// such as those removed with their owner's account.
func (es *EmojiService) Forget(ctx context.Context, emojis []models.Emoji) {
	ids := make([]int64, 0, len(emojis))
	for _, e := range emojis {
		ids = append(ids, e.ID)
	}

	es.invalidate(ctx, ids...)

	for _, e := range emojis {
		if err := es.images.Delete(e.ImageKey); err != nil {
			es.lg.Errorf("delete image error: %s", err.Error())
		}
	}
}

// AddTag tags an emoji. Any signed-in user may do it.
func (es *EmojiService) AddTag(ctx context.Context, emojiID int64, req TagRequest) (models.Emoji, error) {
	req.Name = strings.TrimSpace(req.Name)

	if err := es.validator.Struct(req); err != nil {
		return models.Emoji{}, err //nolint:wrapcheck
	}

	_, err := es.emojis.CreateTag(ctx, models.Tag{EmojiID: emojiID, Name: req.Name})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrAlreadyExists):
			verr := validation.Errors{}
			verr.Add("name", validation.Taken, req.Name)

			return models.Emoji{}, verr
		case errors.Is(err, repo.ErrNotFound):
			return models.Emoji{}, models.ErrNotFound
		}

		return models.Emoji{}, fmt.Errorf("create tag error: %w", err)
	}

	es.invalidate(ctx, emojiID)

	return es.getEmoji(ctx, emojiID)
}

// DeleteTag removes a tag. Only the owner of the emoji may do it.
func (es *EmojiService) DeleteTag(ctx context.Context, user models.User, emojiID, tagID int64) (models.Emoji, error) {
	if _, err := es.ownedEmoji(ctx, user, emojiID); err != nil {
		return models.Emoji{}, err
	}

	if err := es.emojis.DeleteTag(ctx, emojiID, tagID); err != nil {
		if errors.Is(err, repo.ErrTagNotFound) {
			return models.Emoji{}, models.ErrNotFound
		}

		return models.Emoji{}, fmt.Errorf("delete tag error: %w", err)
	}

	es.invalidate(ctx, emojiID)

	return es.getEmoji(ctx, emojiID)
}

func (es *EmojiService) ownedEmoji(ctx context.Context, user models.User, id int64) (models.Emoji, error) {
	e, err := es.getEmoji(ctx, id)
	if err != nil {
		return models.Emoji{}, err
	}

	if !e.OwnedBy(user.ID) {
		return models.Emoji{}, models.ErrForbidden
	}

	return e, nil
}

func (es *EmojiService) getEmoji(ctx context.Context, id int64) (models.Emoji, error) {
	e, err := es.emojis.GetEmoji(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return models.Emoji{}, models.ErrNotFound
		}

		return models.Emoji{}, fmt.Errorf("get emoji error: %w", err)
	}

	return e, nil
}

func (es *EmojiService) invalidate(ctx context.Context, ids ...int64) {
	if err := es.cache.DeleteEmoji(ctx, ids...); err != nil {
		es.lg.Errorf("delete emoji cache error: %s", err.Error())
	}
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
