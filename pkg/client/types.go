package client

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type User struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email,omitempty"`
	Name         string  `json:"name"`
	UploadEmojis []Emoji `json:"upload_emojis,omitempty"` //nolint:tagliatelle
}

type Owner struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Images struct {
	OriginalURL string `json:"original_url"` //nolint:tagliatelle
	SlackURL    string `json:"slack_url"`    //nolint:tagliatelle
	ThumbURL    string `json:"thumb_url"`    //nolint:tagliatelle
	OGPURL      string `json:"ogp_url"`      //nolint:tagliatelle
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Emoji struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	User               Owner     `json:"user"`
	Images             Images    `json:"images"`
	NumberOfDownloaded int64     `json:"number_of_downloaded"` //nolint:tagliatelle
	Tags               []Tag     `json:"tags"`
	CreatedAt          time.Time `json:"created_at"` //nolint:tagliatelle
}

type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	OGImage     string `json:"og_image"`     //nolint:tagliatelle
	Card        string `json:"twitter_card"` //nolint:tagliatelle
}

type EmojiResponse struct {
	Emoji Emoji `json:"emoji"`
	Meta  *Meta `json:"meta,omitempty"`
}

type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"` //nolint:tagliatelle
}

type SearchParams struct {
	Order   string
	Keyword string
	Target  string
	Page    int
	Num     int
}

type SearchResponse struct {
	Emojis  []Emoji `json:"emojis"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	Num     int     `json:"num"`
	Order   string  `json:"order"`
	Target  string  `json:"target"`
	Keyword string  `json:"keyword"`
}

type FieldError struct {
	Error string      `json:"error"`
	Value interface{} `json:"value,omitempty"`
}

// APIError is a non successful response of the API.
type APIError struct {
	StatusCode int
	// Fields holds per field failures of 400 responses.
	Fields map[string][]FieldError
	// Message holds the message of 403, 404 and 500 responses.
	Message string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}

	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	parts := make([]string, 0, len(fields))

	for _, f := range fields {
		for _, fe := range e.Fields[f] {
			parts = append(parts, f+" "+fe.Error)
		}
	}

	return fmt.Sprintf("api error %d: %s", e.StatusCode, strings.Join(parts, ", "))
}

// Has reports whether the error carries code for field.
func (e *APIError) Has(field, code string) bool {
	for _, fe := range e.Fields[field] {
		if fe.Error == code {
			return true
		}
	}

	return false
}
