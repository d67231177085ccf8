package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	OrderNew     = "new"
	OrderPopular = "popular"

	TargetAll = "all"
	TargetTag = "tag"
)

const siteDescription = "emoji.best is a crowdsourced site for posting custom emojis for Slack or Discord. " +
	"Let's share custom emojis!!"

type Emoji struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`   //nolint:tagliatelle
	UserName    string    `json:"user_name"` //nolint:tagliatelle
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageKey    string    `json:"image_key"` //nolint:tagliatelle
	Downloads   int64     `json:"downloads"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"` //nolint:tagliatelle
	UpdatedAt   time.Time `json:"updated_at"` //nolint:tagliatelle
}

type Tag struct {
	ID        int64     `json:"id"`
	EmojiID   int64     `json:"emoji_id"` //nolint:tagliatelle
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"` //nolint:tagliatelle
}

// ImageURLs are the public locations of the renditions of one stored image.
type ImageURLs struct {
	Original string
	Slack    string
	Thumb    string
	OGP      string
}

type MetaTags struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"og_image"` //nolint:tagliatelle
	Card        string `json:"twitter_card"` //nolint:tagliatelle
}

// NormalizeName turns spaces into underscores, so "party parrot" is stored as "party_parrot".
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

func (e Emoji) TagNames() []string {
	names := make([]string, 0, len(e.Tags))
	for _, t := range e.Tags {
		names = append(names, t.Name)
	}

	return names
}

func (e Emoji) OwnedBy(userID int64) bool {
	return e.UserID == userID
}

func (e Emoji) MetaTags(ogImage string) MetaTags {
	tagsName := strings.Join(e.TagNames(), ", ")

	tagsDescription := ""
	if tagsName != "" {
		tagsDescription = fmt.Sprintf("(tags: %s)", tagsName)
	}

	emojiDescription := fmt.Sprintf("Detail of %q custom Emoji.", e.Name)

	return MetaTags{
		Title:       e.Name,
		Description: fmt.Sprintf("%s %s %s | %s", emojiDescription, e.Description, tagsDescription, siteDescription),
		Keywords:    tagsName,
		OGImage:     ogImage,
		Card:        "summary",
	}
}
