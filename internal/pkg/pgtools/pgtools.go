package pgtools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/Leopold1975/emoji_best/migrations"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver for migrations
	"github.com/pressly/goose/v3"
)

const (
	migrationsDir = "."

	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	errCh := make(chan error)
	db := new(pgxpool.Pool)

	go func() {
		defer close(errCh)

		dbc, err := pgxpool.New(ctx, connString)
		if err != nil {
			errCh <- fmt.Errorf("cannot create db pool error: %w", err)

			return
		}

		defaultDelay := time.Second

		for {
			if err := dbc.Ping(ctx); err != nil {
				time.Sleep(defaultDelay)
				defaultDelay += time.Second

				if defaultDelay > time.Second*10 {
					dbc.Close()
					errCh <- fmt.Errorf("cannot ping db error: %w", err)

					return
				}

				continue
			}

			break
		}

		db = dbc
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context error: %w", ctx.Err())
	case err := <-errCh:
		if err != nil {
			return nil, err
		}

		return db, nil
	}
}

func openMigrationDB(cfg config.PostgresDB) (*sql.DB, error) {
	goose.SetBaseFS(migrations.FS)

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("goose set dialect error: %w", err)
	}

	connString := "postgres://" + cfg.Username + ":" + cfg.Password + "@" +
		cfg.Addr + "/" + cfg.DB + "?sslmode=" + cfg.SSLmode

	dbM, err := goose.OpenDBWithDriver("pgx", connString)
	if err != nil {
		return nil, fmt.Errorf("goose open pgx db error: %w", err)
	}

	return dbM, nil
}

// ApplyMigration migrates up to cfg.Version, or to the latest version when it is zero.
// With cfg.Reload every migration is rolled back first.
func ApplyMigration(cfg config.PostgresDB) error {
	dbM, err := openMigrationDB(cfg)
	if err != nil {
		return err
	}
	defer dbM.Close()

	if cfg.Reload {
		if err := goose.DownTo(dbM, migrationsDir, 0); err != nil {
			return fmt.Errorf("goose down error: %w", err)
		}
	}

	if cfg.Version == 0 {
		if err := goose.Up(dbM, migrationsDir); err != nil {
			return fmt.Errorf("goose up error: %w", err)
		}

		return nil
	}

	if err := goose.UpTo(dbM, migrationsDir, int64(cfg.Version)); err != nil {
		return fmt.Errorf("goose up error: %w", err)
	}

	return nil
}

func RollbackMigration(cfg config.PostgresDB) error {
	dbM, err := openMigrationDB(cfg)
	if err != nil {
		return err
	}
	defer dbM.Close()

	if err := goose.Down(dbM, migrationsDir); err != nil {
		return fmt.Errorf("goose down error: %w", err)
	}

	return nil
}

func MigrationStatus(cfg config.PostgresDB) error {
	dbM, err := openMigrationDB(cfg)
	if err != nil {
		return err
	}
	defer dbM.Close()

	if err := goose.Status(dbM, migrationsDir); err != nil {
		return fmt.Errorf("goose status error: %w", err)
	}

	return nil
}

func CommitOrRollback(ctx context.Context, tx pgx.Tx, err error, where string) error {
	if err == nil {
		if errT := tx.Commit(ctx); errT != nil {
			err = fmt.Errorf("commit error: %w", errT)
		}
	} else {
		if errT := tx.Rollback(ctx); errT != nil {
			err = fmt.Errorf("%s error: %w rollback error: %w", where, err, errT)
		} else {
			err = fmt.Errorf("%s error: %w", where, err)
		}
	}

	return err
}

func IsUniqueViolation(err error) bool {
	return hasCode(err, uniqueViolation)
}

func IsForeignKeyViolation(err error) bool {
	return hasCode(err, foreignKeyViolation)
}

func hasCode(err error, code string) bool {
	target := new(pgconn.PgError)
	if errors.As(err, &target) {
		return target.Code == code
	}

	return false
}

func Shutdown(ctx context.Context, db *pgxpool.Pool) error {
	done := make(chan struct{})

	go func() {
		db.Close()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	case <-done:
		return nil
	}
}
