package server

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/domain/validation"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/emojiservice"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/userservice"
)

const (
	ownerToken = "owner-token"
	otherToken = "other-token"
)

var (
	owner = models.User{ID: 1, Email: "owner@example.com", Name: "owner"}
	other = models.User{ID: 2, Email: "other@example.com", Name: "other"}
)

type usersFake struct {
	mu      sync.Mutex
	revoked []string
}

func (f *usersFake) SignUp(_ context.Context, req userservice.CreateUserRequest) (models.User, models.AccessToken, error) {
	if req.Email == owner.Email {
		verr := validation.Errors{}
		verr.Add("email", validation.Taken, req.Email)

		return models.User{}, models.AccessToken{}, verr
	}

	return models.User{ID: 3, Email: req.Email, Name: req.Name}, models.AccessToken{Token: "new-token"}, nil
}

func (f *usersFake) SignIn(_ context.Context, req userservice.SignInRequest) (models.User, models.AccessToken, error) {
	if req.Email == owner.Email && req.Password == "password" {
		return owner, models.AccessToken{Token: ownerToken}, nil
	}

	return models.User{}, models.AccessToken{}, models.ErrInvalidCredentials
}

func (f *usersFake) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.revoked = append(f.revoked, token)

	return nil
}

func (f *usersFake) Authenticate(_ context.Context, token string) (models.User, error) {
	switch token {
	case ownerToken:
		return owner, nil
	case otherToken:
		return other, nil
	default:
		return models.User{}, models.ErrUnauthorized
	}
}

func (f *usersFake) UpdateUser(_ context.Context, u models.User, req userservice.UpdateUserRequest) (models.User, error) {
	if req.Name != "" {
		u.Name = req.Name
	}

	return u, nil
}

func (f *usersFake) DeleteUser(context.Context, int64) error {
	return nil
}

func (f *usersFake) Profile(_ context.Context, id int64) (models.User, []models.Emoji, error) {
	if id != owner.ID {
		return models.User{}, nil, models.ErrNotFound
	}

	return owner, []models.Emoji{parrot}, nil
}

var parrot = models.Emoji{
	ID:          10,
	UserID:      owner.ID,
	UserName:    owner.Name,
	Name:        "party_parrot",
	Description: "dancing",
	ImageKey:    "parrot.gif",
	Downloads:   4,
	Tags:        []models.Tag{{ID: 5, EmojiID: 10, Name: "bird"}},
}

type emojisFake struct {
	mu         sync.Mutex
	lastSearch emojiservice.SearchRequest
	lastUpload emojiservice.UploadRequest
	uploadData string
}

func (f *emojisFake) Search(_ context.Context, req emojiservice.SearchRequest) (emojiservice.SearchResult, error) {
	f.mu.Lock()
	f.lastSearch = req
	f.mu.Unlock()

	if req.Order == "random" {
		return emojiservice.SearchResult{}, models.ErrBadParameter
	}

	return emojiservice.SearchResult{
		Emojis:  []models.Emoji{parrot},
		Total:   1,
		Page:    req.Page,
		Num:     20,
		Keyword: req.Keyword,
		Target:  "all",
		Order:   "new",
	}, nil
}

func (f *emojisFake) Upload(_ context.Context, u models.User, req emojiservice.UploadRequest) (models.Emoji, error) {
	if req.Image == nil {
		verr := validation.Errors{}
		verr.Add("image", validation.Blank, nil)

		return models.Emoji{}, verr
	}

	data, err := io.ReadAll(req.Image)
	if err != nil {
		return models.Emoji{}, err
	}

	f.mu.Lock()
	f.lastUpload = req
	f.uploadData = string(data)
	f.mu.Unlock()

	return models.Emoji{ID: 11, UserID: u.ID, UserName: u.Name, Name: req.Name, ImageKey: "new.gif"}, nil
}

func (f *emojisFake) GetEmoji(_ context.Context, id int64) (models.Emoji, error) {
	if id != parrot.ID {
		return models.Emoji{}, models.ErrNotFound
	}

	return parrot, nil
}

func (f *emojisFake) UpdateEmoji(ctx context.Context, u models.User, id int64,
	req emojiservice.UpdateEmojiRequest,
) (models.Emoji, error) {
	e, err := f.owned(ctx, u, id)
	if err != nil {
		return models.Emoji{}, err
	}

	if req.Name != nil {
		e.Name = *req.Name
	}

	return e, nil
}

func (f *emojisFake) DeleteEmoji(ctx context.Context, u models.User, id int64) error {
	_, err := f.owned(ctx, u, id)

	return err
}

func (f *emojisFake) AddTag(ctx context.Context, id int64, req emojiservice.TagRequest) (models.Emoji, error) {
	e, err := f.GetEmoji(ctx, id)
	if err != nil {
		return models.Emoji{}, err
	}

	e.Tags = append(e.Tags, models.Tag{ID: 6, EmojiID: id, Name: req.Name})

	return e, nil
}

func (f *emojisFake) DeleteTag(ctx context.Context, u models.User, id, tagID int64) (models.Emoji, error) {
	e, err := f.owned(ctx, u, id)
	if err != nil {
		return models.Emoji{}, err
	}

	if tagID != 5 {
		return models.Emoji{}, models.ErrNotFound
	}

	e.Tags = nil

	return e, nil
}

func (f *emojisFake) owned(ctx context.Context, u models.User, id int64) (models.Emoji, error) {
	e, err := f.GetEmoji(ctx, id)
	if err != nil {
		return models.Emoji{}, err
	}

	if !e.OwnedBy(u.ID) {
		return models.Emoji{}, models.ErrForbidden
	}

	return e, nil
}

func (f *emojisFake) Download(ctx context.Context, _ *int64, id int64) (models.Emoji, io.ReadCloser, error) {
	e, err := f.GetEmoji(ctx, id)
	if err != nil {
		return models.Emoji{}, nil, err
	}

	return e, io.NopCloser(strings.NewReader("GIF89a")), nil
}

func (f *emojisFake) PrepareArchive(ctx context.Context, _ *int64, ids []int64) ([]models.Emoji, error) {
	if len(ids) == 0 {
		return nil, models.ErrBadParameter
	}

	out := make([]models.Emoji, 0, len(ids))

	for _, id := range ids {
		e, err := f.GetEmoji(ctx, id)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}

func (f *emojisFake) WriteArchive(_ context.Context, emojis []models.Emoji, w io.Writer) error {
	zw := zip.NewWriter(w)

	for _, e := range emojis {
		fw, err := zw.Create(emojiservice.FileName(e))
		if err != nil {
			return err
		}

		if _, err := io.WriteString(fw, "GIF89a"); err != nil {
			return err
		}
	}

	return zw.Close()
}

type csrfFake struct{}

func (csrfFake) Issue() (string, error) {
	return "csrf-ok", nil
}

func (csrfFake) Validate(token string) error {
	if token != "csrf-ok" {
		return errInvalidCSRF
	}

	return nil
}

type imagesFake struct{}

func (imagesFake) URLs(key string) models.ImageURLs {
	return models.ImageURLs{
		Original: "/uploads/" + key,
		Slack:    "/uploads/" + key,
		Thumb:    "/uploads/thumb_" + key,
		OGP:      "/uploads/ogp_" + key,
	}
}

func (imagesFake) Handler() http.Handler {
	return http.StripPrefix("/uploads", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "file "+r.URL.Path) //nolint:errcheck
	}))
}
