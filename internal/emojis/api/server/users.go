package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
)

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	enc := json.NewEncoder(w)
	enc.Encode(v) //nolint:errcheck,errchkjson
}

// Sign up a new user
// (POST /api/v1/users).
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var b CreateUserBody

	if err := decode(r, &b); err != nil {
		s.writeError(w, err)

		return
	}

	if b.User == nil {
		s.writeError(w, fmt.Errorf("%w: user is required", models.ErrBadParameter))

		return
	}

	u, t, err := s.users.SignUp(r.Context(), *b.User)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: toUserJSON(u, true), AccessToken: t.Token})
}

// (GET /api/v1/users/{id}).
func (s *Server) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	u, emojis, err := s.users.Profile(r.Context(), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	me, signedIn := currentUser(r.Context())

	writeJSON(w, http.StatusOK, ProfileResponse{User: ProfileJSON{
		UserJSON:     toUserJSON(u, signedIn && me.ID == u.ID),
		UploadEmojis: s.toEmojiList(emojis),
	}})
}

// (PUT /api/v1/users).
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r.Context())

	var b UpdateUserBody

	if err := decode(r, &b); err != nil {
		s.writeError(w, err)

		return
	}

	if b.User == nil {
		s.writeError(w, fmt.Errorf("%w: user is required", models.ErrBadParameter))

		return
	}

	u, err := s.users.UpdateUser(r.Context(), me, *b.User)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, UserResponse{User: toUserJSON(u, true)})
}

// (DELETE /api/v1/users).
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r.Context())

	if err := s.users.DeleteUser(r.Context(), me.ID); err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, UserResponse{User: toUserJSON(me, true)})
}

// Sign in with email and password
// (POST /api/v1/signin).
func (s *Server) SignIn(w http.ResponseWriter, r *http.Request) {
	var b SignInBody

	if err := decode(r, &b); err != nil {
		s.writeError(w, err)

		return
	}

	if b.User == nil {
		s.writeError(w, fmt.Errorf("%w: user is required", models.ErrBadParameter))

		return
	}

	u, t, err := s.users.SignIn(r.Context(), *b.User)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: toUserJSON(u, true), AccessToken: t.Token})
}

// (DELETE /api/v1/signin).
func (s *Server) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := s.users.SignOut(r.Context(), currentToken(r.Context())); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Issue a CSRF token for browser requests
// (GET /api/v1/csrf).
func (s *Server) GetCSRF(w http.ResponseWriter, r *http.Request) {
	token, err := s.csrf.Issue()
	if err != nil {
		s.writeError(w, err)

		return
	}

	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct
		Name:     csrfCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.csrfTTL.Seconds()),
		SameSite: http.SameSiteStrictMode,
		Secure:   r.TLS != nil,
	})

	writeJSON(w, http.StatusOK, CSRFResponse{CSRFToken: token})
}
