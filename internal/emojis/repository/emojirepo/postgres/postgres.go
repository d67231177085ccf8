package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	repo "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo"
	"github.com/Leopold1975/emoji_best/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EmojisPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) EmojisPostgresRepo {
	return EmojisPostgresRepo{
		db: db,
	}
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// selectEmojis selects emojis with their owner name and download count.
func selectEmojis() squirrel.SelectBuilder {
	return psql().Select("e.id", "e.user_id", "u.name", "e.name", "e.description", "e.image_key",
		"COUNT(d.id) AS downloads", "e.created_at", "e.updated_at").
		From("emojis e").
		Join("users u ON u.id = e.user_id").
		LeftJoin("download_logs d ON d.emoji_id = e.id").
		GroupBy("e.id", "u.name")
}

func (er EmojisPostgresRepo) CreateEmoji(ctx context.Context, //nolint:nonamedreturns
	e models.Emoji,
) (id int64, err error) {
	tx, err := er.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	cols := []string{"user_id", "name", "description", "image_key"}
	vals := []interface{}{e.UserID, e.Name, e.Description, e.ImageKey}

	if !e.CreatedAt.IsZero() {
		cols = append(cols, "created_at", "updated_at")
		vals = append(vals, e.CreatedAt, e.CreatedAt)
	}

	query, args, err := psql().Insert("emojis").
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if err = tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}

	if len(e.Tags) == 0 {
		return id, nil
	}

	ib := psql().Insert("tags").Columns("emoji_id", "name")
	for _, t := range e.Tags {
		ib = ib.Values(id, t.Name)
	}

	query, args, err = ib.Suffix("ON CONFLICT (emoji_id, name) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("exec error: %w", err)
	}

	return id, nil
}

func (er EmojisPostgresRepo) GetEmoji(ctx context.Context, id int64) (models.Emoji, error) {
	emojis, err := er.list(ctx, selectEmojis().Where(squirrel.Eq{"e.id": id}))
	if err != nil {
		return models.Emoji{}, err
	}

	if len(emojis) == 0 {
		return models.Emoji{}, repo.ErrNotFound
	}

	return emojis[0], nil
}

func (er EmojisPostgresRepo) ListByIDs(ctx context.Context, ids []int64) ([]models.Emoji, error) {
	return er.list(ctx, selectEmojis().Where(squirrel.Eq{"e.id": ids}).OrderBy("e.id ASC"))
}

func (er EmojisPostgresRepo) ListByUser(ctx context.Context, userID int64) ([]models.Emoji, error) {
	return er.list(ctx, selectEmojis().
		Where(squirrel.Eq{"e.user_id": userID}).
		OrderBy("e.created_at DESC", "e.id DESC"))
}

func (er EmojisPostgresRepo) UpdateEmoji(ctx context.Context, e models.Emoji) (err error) {
	tx, err := er.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	updatedAt := e.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query, args, err := psql().Update("emojis").
		Set("name", e.Name).
		Set("description", e.Description).
		Set("updated_at", updatedAt).
		Where(squirrel.Eq{"id": e.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (er EmojisPostgresRepo) DeleteEmoji(ctx context.Context, id int64) (err error) {
	tx, err := er.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	query, args, err := psql().Delete("emojis").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	return nil
}

func (er EmojisPostgresRepo) list(ctx context.Context, sb squirrel.SelectBuilder) ([]models.Emoji, error) {
	query, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("to sql error: %w", err)
	}

	rows, err := er.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	emojis, err := pgx.CollectRows(rows, scanEmoji)
	if err != nil {
		return nil, fmt.Errorf("collect rows error: %w", err)
	}

	if err := er.loadTags(ctx, emojis); err != nil {
		return nil, err
	}

	return emojis, nil
}

func (er EmojisPostgresRepo) loadTags(ctx context.Context, emojis []models.Emoji) error {
	if len(emojis) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(emojis))
	byID := make(map[int64]int, len(emojis))

	for i, e := range emojis {
		ids = append(ids, e.ID)
		byID[e.ID] = i
		emojis[i].Tags = []models.Tag{}
	}

	query, args, err := psql().Select("id", "emoji_id", "name", "created_at").
		From("tags").
		Where(squirrel.Eq{"emoji_id": ids}).
		OrderBy("id ASC").ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	rows, err := er.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query error: %w", err)
	}

	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Tag, error) {
		var t models.Tag
		err := row.Scan(&t.ID, &t.EmojiID, &t.Name, &t.CreatedAt)

		return t, err //nolint:wrapcheck
	})
	if err != nil {
		return fmt.Errorf("collect rows error: %w", err)
	}

	for _, t := range tags {
		if i, ok := byID[t.EmojiID]; ok {
			emojis[i].Tags = append(emojis[i].Tags, t)
		}
	}

	return nil
}

func scanEmoji(row pgx.CollectableRow) (models.Emoji, error) {
	var e models.Emoji

	err := row.Scan(&e.ID, &e.UserID, &e.UserName, &e.Name, &e.Description, &e.ImageKey,
		&e.Downloads, &e.CreatedAt, &e.UpdatedAt)

	return e, err //nolint:wrapcheck
}
