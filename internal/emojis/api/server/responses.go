package server

import (
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/emojiservice"
)

type UserJSON struct {
	ID    int64  `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name"`
}

type AuthResponse struct {
	User        UserJSON `json:"user"`
	AccessToken string   `json:"access_token"` //nolint:tagliatelle
}

type ProfileJSON struct {
	UserJSON
	UploadEmojis []EmojiJSON `json:"upload_emojis"` //nolint:tagliatelle
}

type ProfileResponse struct {
	User ProfileJSON `json:"user"`
}

type UserResponse struct {
	User UserJSON `json:"user"`
}

type OwnerJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ImagesJSON struct {
	OriginalURL string `json:"original_url"` //nolint:tagliatelle
	SlackURL    string `json:"slack_url"`    //nolint:tagliatelle
	ThumbURL    string `json:"thumb_url"`    //nolint:tagliatelle
	OGPURL      string `json:"ogp_url"`      //nolint:tagliatelle
}

type TagJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type EmojiJSON struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	User               OwnerJSON  `json:"user"`
	Images             ImagesJSON `json:"images"`
	NumberOfDownloaded int64      `json:"number_of_downloaded"` //nolint:tagliatelle
	Tags               []TagJSON  `json:"tags"`
	CreatedAt          time.Time  `json:"created_at"` //nolint:tagliatelle
}

type EmojiResponse struct {
	Emoji EmojiJSON        `json:"emoji"`
	Meta  *models.MetaTags `json:"meta,omitempty"`
}

type SearchResponse struct {
	Emojis  []EmojiJSON `json:"emojis"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	Num     int         `json:"num"`
	Order   string      `json:"order"`
	Target  string      `json:"target"`
	Keyword string      `json:"keyword"`
}

type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"` //nolint:tagliatelle
}

func toUserJSON(u models.User, withEmail bool) UserJSON {
	uj := UserJSON{ID: u.ID, Name: u.Name}
	if withEmail {
		uj.Email = u.Email
	}

	return uj
}

func (s *Server) toEmojiJSON(e models.Emoji) EmojiJSON {
	urls := s.images.URLs(e.ImageKey)

	tags := make([]TagJSON, 0, len(e.Tags))
	for _, t := range e.Tags {
		tags = append(tags, TagJSON{ID: t.ID, Name: t.Name})
	}

	return EmojiJSON{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		User:        OwnerJSON{ID: e.UserID, Name: e.UserName},
		Images: ImagesJSON{
			OriginalURL: urls.Original,
			SlackURL:    urls.Slack,
			ThumbURL:    urls.Thumb,
			OGPURL:      urls.OGP,
		},
		NumberOfDownloaded: e.Downloads,
		Tags:               tags,
		CreatedAt:          e.CreatedAt,
	}
}

func (s *Server) toEmojiList(emojis []models.Emoji) []EmojiJSON {
	out := make([]EmojiJSON, 0, len(emojis))
	for _, e := range emojis {
		out = append(out, s.toEmojiJSON(e))
	}

	return out
}

func (s *Server) toEmojiResponse(e models.Emoji, withMeta bool) EmojiResponse {
	resp := EmojiResponse{Emoji: s.toEmojiJSON(e)}

	if withMeta {
		meta := e.MetaTags(s.publicURL + s.images.URLs(e.ImageKey).OGP)
		resp.Meta = &meta
	}

	return resp
}

func (s *Server) toSearchResponse(res emojiservice.SearchResult) SearchResponse {
	return SearchResponse{
		Emojis:  s.toEmojiList(res.Emojis),
		Total:   res.Total,
		Page:    res.Page,
		Num:     res.Num,
		Order:   res.Order,
		Target:  res.Target,
		Keyword: res.Keyword,
	}
}
