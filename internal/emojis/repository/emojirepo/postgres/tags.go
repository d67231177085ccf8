package postgres

import (
	"context"
	"fmt"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	repo "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo"
	"github.com/Leopold1975/emoji_best/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
)

func (er EmojisPostgresRepo) CreateTag(ctx context.Context, //nolint:nonamedreturns
	tag models.Tag,
) (created models.Tag, err error) {
	tx, err := er.db.Begin(ctx)
	if err != nil {
		return models.Tag{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create tag")
	}()

	query, args, err := psql().Insert("tags").
		Columns("emoji_id", "name").
		Values(tag.EmojiID, tag.Name).
		Suffix("RETURNING id, emoji_id, name, created_at").ToSql()
	if err != nil {
		return models.Tag{}, fmt.Errorf("to sql error: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&created.ID, &created.EmojiID, &created.Name, &created.CreatedAt)
	if err != nil {
		switch {
		case pgtools.IsUniqueViolation(err):
			return models.Tag{}, repo.ErrAlreadyExists
		case pgtools.IsForeignKeyViolation(err):
			return models.Tag{}, repo.ErrNotFound
		}

		return models.Tag{}, fmt.Errorf("scan error: %w", err)
	}

	return created, nil
}

func (er EmojisPostgresRepo) DeleteTag(ctx context.Context, emojiID, tagID int64) (err error) {
	tx, err := er.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete tag")
	}()

	query, args, err := psql().Delete("tags").
		Where(squirrel.Eq{"id": tagID, "emoji_id": emojiID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrTagNotFound
	}

	return nil
}
