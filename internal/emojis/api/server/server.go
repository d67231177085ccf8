package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/api/metrics"
	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/emojiservice"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/userservice"
	"github.com/Leopold1975/emoji_best/internal/pkg/config"
	"github.com/Leopold1975/emoji_best/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const limiterCleanupInterval = 10 * time.Minute

type Server struct {
	serv    *http.Server
	users   UserService
	emojis  EmojiService
	csrf    CSRFService
	images  Images
	metrics *metrics.Metrics
	limiter *RateLimiter
	lg      logger.Logger

	publicURL     string
	maxUploadSize int64
	csrfEnabled   bool
	csrfTTL       time.Duration
}

type UserService interface {
	SignUp(context.Context, userservice.CreateUserRequest) (models.User, models.AccessToken, error)
	SignIn(context.Context, userservice.SignInRequest) (models.User, models.AccessToken, error)
	SignOut(context.Context, string) error
	Authenticate(context.Context, string) (models.User, error)
	UpdateUser(context.Context, models.User, userservice.UpdateUserRequest) (models.User, error)
	DeleteUser(context.Context, int64) error
	Profile(context.Context, int64) (models.User, []models.Emoji, error)
}

type EmojiService interface {
	Search(context.Context, emojiservice.SearchRequest) (emojiservice.SearchResult, error)
	Upload(context.Context, models.User, emojiservice.UploadRequest) (models.Emoji, error)
	GetEmoji(context.Context, int64) (models.Emoji, error)
	UpdateEmoji(context.Context, models.User, int64, emojiservice.UpdateEmojiRequest) (models.Emoji, error)
	DeleteEmoji(context.Context, models.User, int64) error
	AddTag(context.Context, int64, emojiservice.TagRequest) (models.Emoji, error)
	DeleteTag(ctx context.Context, user models.User, emojiID, tagID int64) (models.Emoji, error)
	Download(context.Context, *int64, int64) (models.Emoji, io.ReadCloser, error)
	PrepareArchive(context.Context, *int64, []int64) ([]models.Emoji, error)
	WriteArchive(context.Context, []models.Emoji, io.Writer) error
}

type CSRFService interface {
	Issue() (string, error)
	Validate(string) error
}

// Images resolves stored image keys to public URLs and serves the files.
type Images interface {
	URLs(key string) models.ImageURLs
	Handler() http.Handler
}

func New(cfg config.Config, us UserService, es EmojiService, cs CSRFService, images Images,
	m *metrics.Metrics, lg logger.Logger,
) *Server {
	s := &Server{
		users:         us,
		emojis:        es,
		csrf:          cs,
		images:        images,
		metrics:       m,
		limiter:       NewRateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst),
		lg:            lg,
		publicURL:     strings.TrimSuffix(cfg.Server.PublicURL, "/"),
		maxUploadSize: cfg.Server.MaxUploadSize,
		csrfEnabled:   cfg.Auth.CSRFEnabled,
		csrfTTL:       cfg.Auth.CSRFTTL,
	}

	s.serv = &http.Server{ //nolint:exhaustruct
		Addr:         cfg.Server.Addr,
		Handler:      s.routes(cfg.Storage.URLPrefix),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) routes(uploadsPrefix string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID, middleware.RealIP, loggingMiddleware(s.lg), middleware.Recoverer, s.metrics.Instrument)

	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Mount(strings.TrimSuffix(uploadsPrefix, "/"), s.images.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.authenticate, s.csrfProtect)

		r.Get("/csrf", s.GetCSRF)

		r.With(s.limiter.Handler).Get("/search", s.Search)
		r.With(s.limiter.Handler).Get("/download", s.DownloadArchive)

		r.Post("/users", s.CreateUser)
		r.Get("/users/{id}", s.GetUser)
		r.Post("/signin", s.SignIn)

		r.Get("/emoji/{id}", s.GetEmoji)
		r.With(s.limiter.Handler).Get("/emoji/{id}/download", s.DownloadEmoji)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)

			r.Put("/users", s.UpdateUser)
			r.Delete("/users", s.DeleteUser)
			r.Delete("/signin", s.SignOut)

			r.Post("/emoji", s.UploadEmoji)
			r.Patch("/emoji/{id}", s.UpdateEmoji)
			r.Delete("/emoji/{id}", s.DeleteEmoji)
			r.Post("/emoji/{id}/tags", s.AddTag)
			r.Delete("/emoji/{id}/tags/{tag_id}", s.DeleteTag)
		})
	})

	return r
}

// Handler returns the root handler of the server.
func (s *Server) Handler() http.Handler {
	return s.serv.Handler
}

func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error)

	go s.limiter.BackgroundCleanup(ctx, limiterCleanupInterval)

	go func() {
		if err := s.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			close(errCh)
		}
	}()

	select {
	case <-ctx.Done():
		ctxS, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
		defer cancel()

		if err := s.Shutdown(ctxS); err != nil { //nolint:contextcheck
			return fmt.Errorf("context error: %w server error %w", ctxS.Err(), err)
		}

		if !errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("context cancelled error: %w", ctx.Err())
		}

		return nil
	case err := <-errCh:
		return fmt.Errorf("listen and serve error: %w", err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctxS, cancel := context.WithTimeout(ctx, s.serv.IdleTimeout)
	defer cancel()

	if err := s.serv.Shutdown(ctxS); err != nil {
		return fmt.Errorf("shutdown server error: %w", err)
	}

	return nil
}
