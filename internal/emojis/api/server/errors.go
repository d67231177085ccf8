package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/domain/validation"
)

// Error is the body of every failed API response.
type Error struct {
	Errors interface{} `json:"errors"`
}

type message struct {
	Error string `json:"error"`
}

func (se Error) ToJSON() []byte {
	b, err := json.Marshal(se)
	if err != nil {
		se.Errors = message{err.Error()}

		b, err := json.Marshal(se)
		if err != nil {
			return []byte(`{"errors":{"error":"marshal error"}}`)
		}

		return b
	}

	return b
}

var (
	badParameter = validation.Errors{
		"param": {{Error: "Bad Parameter", Value: "invalid_param"}},
	}
	invalidEmail = validation.Errors{
		"email": {{Error: validation.Invalid, Value: "invalid_email"}},
	}
)

// toError maps a service error to a status code and a response body.
func toError(err error) (int, Error) {
	var verr validation.Errors

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, Error{verr}
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusBadRequest, Error{invalidEmail}
	case errors.Is(err, models.ErrBadParameter):
		return http.StatusBadRequest, Error{badParameter}
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, Error{message{err.Error()}}
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, Error{message{err.Error()}}
	case errors.Is(err, errTooManyRequests):
		return http.StatusTooManyRequests, Error{message{err.Error()}}
	default:
		return http.StatusInternalServerError, Error{message{http.StatusText(http.StatusInternalServerError)}}
	}
}

func handleError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	e := Error{message{err.Error()}}

	w.Write(e.ToJSON()) //nolint:errcheck
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code, body := toError(err)
	if code == http.StatusInternalServerError {
		s.lg.Errorf("internal error: %s", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(body.ToJSON()) //nolint:errcheck
}
