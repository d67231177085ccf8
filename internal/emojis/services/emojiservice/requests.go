package emojiservice

import (
	"io"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
)

const (
	DefaultNum = 20
	MaxNum     = 100
)

type SearchRequest struct {
	Keyword string
	Target  string
	Order   string
	Page    int
	Num     int
	UserID  *int64
}

type SearchResult struct {
	Emojis  []models.Emoji
	Total   int
	Page    int
	Num     int
	Keyword string
	Target  string
	Order   string
}

type UploadRequest struct {
	Name        string    `json:"name"        validate:"required,max=100,emojiname"`
	Description string    `json:"description" validate:"max=1000"`
	Tags        []string  `json:"tags"        validate:"max=10,dive,max=50"`
	Image       io.Reader `json:"image"       validate:"-"`
}

// UpdateEmojiRequest changes the fields that are set.
type UpdateEmojiRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type emojiFields struct {
	Name        string `json:"name"        validate:"required,max=100,emojiname"`
	Description string `json:"description" validate:"max=1000"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}
