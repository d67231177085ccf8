package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/repository/userrepo"
	"github.com/Leopold1975/emoji_best/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var userColumns = []string{"id", "email", "name", "password_hash", "created_at", "updated_at"}

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) UsersPostgresRepo {
	return UsersPostgresRepo{
		db: db,
	}
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, //nolint:nonamedreturns
	u models.User,
) (created models.User, err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "create")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns("email", "name", "password_hash").
		Values(u.Email, u.Name, u.PasswordHash).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	created, err = scanUser(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if pgtools.IsUniqueViolation(err) {
			return models.User{}, userrepo.ErrAlreadyExists
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return created, nil
}

func (ur UsersPostgresRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"email": email})
}

func (ur UsersPostgresRepo) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return ur.getUser(ctx, squirrel.Eq{"id": id})
}

func (ur UsersPostgresRepo) getUser(ctx context.Context, where squirrel.Eq) (models.User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(where).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	u, err := scanUser(ur.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, userrepo.ErrNotFound
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

func (ur UsersPostgresRepo) UpdateUser(ctx context.Context, u models.User) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "update")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("users").
		Set("email", u.Email).
		Set("name", u.Name).
		Set("password_hash", u.PasswordHash).
		Set("updated_at", u.UpdatedAt).
		Where(squirrel.Eq{"id": u.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		if pgtools.IsUniqueViolation(err) {
			return userrepo.ErrAlreadyExists
		}

		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}

func (ur UsersPostgresRepo) DeleteUser(ctx context.Context, id int64) (err error) {
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "delete")
	}()

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Delete("users").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("exec error: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}

	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User

	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)

	return u, err //nolint:wrapcheck
}
