package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/emojiservice"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/userservice"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

type CreateUserBody struct {
	User *userservice.CreateUserRequest `json:"user"`
}

type UpdateUserBody struct {
	User *userservice.UpdateUserRequest `json:"user"`
}

type SignInBody struct {
	User *userservice.SignInRequest `json:"user"`
}

type UpdateEmojiBody struct {
	Emoji *emojiservice.UpdateEmojiRequest `json:"emoji"`
}

type TagBody struct {
	Tag *emojiservice.TagRequest `json:"tag"`
}

// decode reads a JSON body into v. Malformed bodies are bad parameters.
func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decode error: %w", models.ErrBadParameter, err)
	}

	return nil
}

// pathID binds a numeric path parameter. Anything that is not an id cannot name a record.
func pathID(r *http.Request, name string) (int64, error) {
	var id int64

	err := runtime.BindStyledParameterWithLocation("simple", false, name,
		runtime.ParamLocationPath, chi.URLParam(r, name), &id)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", name, chi.URLParam(r, name), models.ErrNotFound)
	}

	return id, nil
}

func searchParams(r *http.Request) (emojiservice.SearchRequest, error) {
	q := r.URL.Query()

	var req emojiservice.SearchRequest

	for _, p := range []struct {
		name string
		dest interface{}
	}{
		{"keyword", &req.Keyword},
		{"target", &req.Target},
		{"order", &req.Order},
		{"page", &req.Page},
		{"num", &req.Num},
	} {
		if err := runtime.BindQueryParameter("form", true, false, p.name, q, p.dest); err != nil {
			return emojiservice.SearchRequest{}, fmt.Errorf("%w: %w", models.ErrBadParameter, err)
		}
	}

	return req, nil
}

func downloadParams(r *http.Request) ([]int64, error) {
	var ids []int64

	if err := runtime.BindQueryParameter("form", true, true, "emojis[]", r.URL.Query(), &ids); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrBadParameter, err)
	}

	return ids, nil
}
