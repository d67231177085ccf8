package postgres

import (
	"context"
	"fmt"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/pkg/pgtools"
)

func (er EmojisPostgresRepo) CreateDownloadLogs(ctx context.Context, logs []models.DownloadLog) (err error) {
	if len(logs) == 0 {
		return nil
	}

	tx, err := er.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create download logs")
	}()

	ib := psql().Insert("download_logs").Columns("emoji_id", "user_id")
	for _, l := range logs {
		ib = ib.Values(l.EmojiID, l.UserID)
	}

	query, args, err := ib.ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (er EmojisPostgresRepo) CreateSearchLog(ctx context.Context, l models.SearchLog) error {
	query, args, err := psql().Insert("search_logs").
		Columns("keyword", "target", "user_id").
		Values(l.Keyword, l.Target, l.UserID).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err := er.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}
