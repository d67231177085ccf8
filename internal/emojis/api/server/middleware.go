package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	csrfCookie = "csrf_token"
	csrfHeader = "X-CSRF-Token"
)

var errInvalidCSRF = errors.New("invalid csrf token")

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

func loggingMiddleware(logg logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				latency := time.Since(start).String()

				logg.Infof("METHOD %s URI %s %s	STATUS %d Latency %s Client IP %s User Agent %s Request ID %s",
					r.Method,
					r.Proto,
					r.URL.RequestURI(),
					ww.Status(),
					latency,
					r.RemoteAddr,
					r.UserAgent(),
					middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// authenticate resolves the bearer token when one is sent. Requests without
// a token pass through anonymously; a token that does not resolve is rejected.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)

			return
		}

		u, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			s.writeError(w, err)

			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		ctx = context.WithValue(ctx, tokenKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(r.Context()); !ok {
			handleError(w, models.ErrUnauthorized, http.StatusForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}

// csrfProtect checks mutating browser requests. Requests carrying an
// Authorization header are API clients and are not checked.
func (s *Server) csrfProtect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.csrfEnabled || isSafeMethod(r.Method) || r.Header.Get("Authorization") != "" {
			next.ServeHTTP(w, r)

			return
		}

		header := r.Header.Get(csrfHeader)

		cookie, err := r.Cookie(csrfCookie)
		if err != nil || header == "" || cookie.Value != header {
			handleError(w, errInvalidCSRF, http.StatusForbidden)

			return
		}

		if err := s.csrf.Validate(header); err != nil {
			handleError(w, errInvalidCSRF, http.StatusForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}

	return false
}

// bearerToken accepts both "Authorization: <token>" and "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))

	if len(h) > len("bearer ") && strings.EqualFold(h[:len("bearer ")], "bearer ") {
		h = strings.TrimSpace(h[len("bearer "):])
	}

	return h
}

func currentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)

	return u, ok
}

func currentUserID(ctx context.Context) *int64 {
	u, ok := currentUser(ctx)
	if !ok {
		return nil
	}

	return &u.ID
}

func currentToken(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)

	return t
}
