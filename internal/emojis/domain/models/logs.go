package models

import "time"

// DownloadLog is one download of an emoji. It only feeds the popularity ranking.
type DownloadLog struct {
	ID        int64
	EmojiID   int64
	UserID    *int64
	CreatedAt time.Time
}

type SearchLog struct {
	ID        int64
	Keyword   string
	Target    string
	UserID    *int64
	CreatedAt time.Time
}
