package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/api/metrics"
	"github.com/Leopold1975/emoji_best/internal/emojis/api/server"
	ec "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojicache/redis"
	er "github.com/Leopold1975/emoji_best/internal/emojis/repository/emojirepo/postgres"
	tc "github.com/Leopold1975/emoji_best/internal/emojis/repository/tokencache/redis"
	tr "github.com/Leopold1975/emoji_best/internal/emojis/repository/tokenrepo/postgres"
	ur "github.com/Leopold1975/emoji_best/internal/emojis/repository/userrepo/postgres"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/csrfservice"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/emojiservice"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/userservice"
	"github.com/Leopold1975/emoji_best/internal/emojis/storage/local"
	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/Leopold1975/emoji_best/internal/pkg/pgtools"
	"github.com/Leopold1975/emoji_best/internal/pkg/redistools"
	"github.com/Leopold1975/emoji_best/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Server interface {
	Start(context.Context) error
	Shutdown(context.Context) error
}

type EmojisApp struct {
	s     Server
	users *userservice.UserService
	db    *pgxpool.Pool
	rdb   *redis.Client
	lg    logger.Logger
	cfg   config.Config
}

func New(ctx context.Context, cfg config.Config) (EmojisApp, error) {
	lg, err := logger.New(cfg.Logger)
	if err != nil {
		return EmojisApp{}, fmt.Errorf("can't get logger error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg.PostgresDB); err != nil {
		return EmojisApp{}, fmt.Errorf("apply migration error: %w", err)
	}

	db, err := pgtools.Connect(ctx, cfg.PostgresDB.ConnString())
	if err != nil {
		return EmojisApp{}, fmt.Errorf("postgres initializing error: %w", err)
	}

	rdb, err := redistools.NewClient(ctx, cfg.RedisCache)
	if err != nil {
		db.Close()

		return EmojisApp{}, fmt.Errorf("redis initializing error: %w", err)
	}

	images, err := local.New(cfg.Storage)
	if err != nil {
		db.Close()
		rdb.Close()

		return EmojisApp{}, fmt.Errorf("image storage initializing error: %w", err)
	}

	emojiRepo := er.New(db)

	emojiService := emojiservice.New(emojiRepo, ec.New(rdb, cfg.RedisCache.ExpTime), images, lg)
	userService := userservice.New(ur.New(db), tr.New(db), tc.New(rdb, cfg.RedisCache.ExpTime),
		emojiRepo, emojiService, cfg.Auth, lg)
	csrfService := csrfservice.New(cfg.Auth.CSRFSecret, cfg.Auth.CSRFTTL)

	s := server.New(cfg, userService, emojiService, csrfService, images, metrics.New(), lg)

	return EmojisApp{
		s:     s,
		users: userService,
		db:    db,
		rdb:   rdb,
		lg:    lg,
		cfg:   cfg,
	}, nil
}

func (ea *EmojisApp) Run(ctx context.Context) {
	ea.lg.Infof("STARTED SERVER ON %s", ea.cfg.Server.Addr)

	go ea.users.BackgroundPurge(ctx, ea.cfg.Auth.PurgeInterval)

	go func() {
		if err := ea.s.Start(ctx); err != nil {
			ea.lg.Errorf("server start error: %s", err.Error())

			return
		}
	}()

	<-ctx.Done()

	ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	if err := ea.Stop(ctxS); err != nil { //nolint:contextcheck
		ea.lg.Errorf("server shutdown error: %s", err.Error())
	}
}

func (ea *EmojisApp) Stop(ctx context.Context) error {
	if err := ea.s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := pgtools.Shutdown(ctx, ea.db); err != nil {
		ea.lg.Errorf("postgres shutdown error: %s", err.Error())
	}

	if err := ea.rdb.Close(); err != nil {
		ea.lg.Errorf("redis close error: %s", err.Error())
	}

	ea.lg.Info("Shutdowned successfully")

	return nil
}
