package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/repository/tokenrepo"
	"github.com/Leopold1975/emoji_best/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokensPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) TokensPostgresRepo {
	return TokensPostgresRepo{
		db: db,
	}
}

func (tr TokensPostgresRepo) CreateToken(ctx context.Context, t models.AccessToken) (err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("access_tokens").
		Columns("user_id", "token", "expires_at").
		Values(t.UserID, t.Token, t.ExpiresAt).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (tr TokensPostgresRepo) GetToken(ctx context.Context, token string) (models.AccessToken, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "user_id", "token", "expires_at", "created_at").
		From("access_tokens").
		Where(squirrel.Eq{"token": token}).ToSql()
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("to sql error: %w", err)
	}

	var t models.AccessToken

	if err := tr.db.QueryRow(ctx, query, args...).Scan(
		&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AccessToken{}, tokenrepo.ErrNotFound
		}

		return models.AccessToken{}, fmt.Errorf("scan error: %w", err)
	}

	return t, nil
}

func (tr TokensPostgresRepo) DeleteToken(ctx context.Context, token string) (err error) {
	tx, err := tr.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("access_tokens").
		Where(squirrel.Eq{"token": token}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return tokenrepo.ErrNotFound
	}

	return nil
}

// DeleteExpired removes every token that expired before now and returns how many went away.
func (tr TokensPostgresRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("access_tokens").
		Where(squirrel.LtOrEq{"expires_at": now}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tr.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("exec error: %w", err)
	}

	return ct.RowsAffected(), nil
}
