package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/Leopold1975/emoji_best/internal/emojis/domain/models"
	"github.com/Leopold1975/emoji_best/internal/emojis/services/emojiservice"
)

const (
	downloadSingle  = "single"
	downloadArchive = "archive"
	archiveName     = "emojis.zip"
)

// Search emojis by keyword with ordering and paging
// (GET /api/v1/search).
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, err := searchParams(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	req.UserID = currentUserID(r.Context())

	res, err := s.emojis.Search(r.Context(), req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.metrics.Searched(res.Target, res.Order)

	writeJSON(w, http.StatusOK, s.toSearchResponse(res))
}

// Upload a new emoji as multipart form
// (POST /api/v1/emoji).
func (s *Server) UploadEmoji(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		s.writeError(w, fmt.Errorf("%w: parse form error: %w", models.ErrBadParameter, err))

		return
	}

	req := emojiservice.UploadRequest{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Tags:        splitTags(r.MultipartForm.Value["tags"]),
	}

	f, _, err := r.FormFile("image")

	switch {
	case err == nil:
		defer f.Close()

		req.Image = f
	case !errors.Is(err, http.ErrMissingFile):
		s.writeError(w, fmt.Errorf("%w: image error: %w", models.ErrBadParameter, err))

		return
	}

	e, err := s.emojis.Upload(r.Context(), me, req)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, s.toEmojiResponse(e, false))
}

// splitTags accepts both repeated "tags" fields and comma separated lists.
func splitTags(values []string) []string {
	var tags []string

	for _, v := range values {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	return tags
}

// (GET /api/v1/emoji/{id}).
func (s *Server) GetEmoji(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	e, err := s.emojis.GetEmoji(r.Context(), id)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, s.toEmojiResponse(e, true))
}

// Edit name or description, owner only
// (PATCH /api/v1/emoji/{id}).
func (s *Server) UpdateEmoji(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var b UpdateEmojiBody

	if err := decode(r, &b); err != nil {
		s.writeError(w, err)

		return
	}

	if b.Emoji == nil {
		s.writeError(w, fmt.Errorf("%w: emoji is required", models.ErrBadParameter))

		return
	}

	e, err := s.emojis.UpdateEmoji(r.Context(), me, id, *b.Emoji)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, s.toEmojiResponse(e, false))
}

// (DELETE /api/v1/emoji/{id}).
func (s *Server) DeleteEmoji(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	if err := s.emojis.DeleteEmoji(r.Context(), me, id); err != nil {
		s.writeError(w, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// (POST /api/v1/emoji/{id}/tags).
func (s *Server) AddTag(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	var b TagBody

	if err := decode(r, &b); err != nil {
		s.writeError(w, err)

		return
	}

	if b.Tag == nil {
		s.writeError(w, fmt.Errorf("%w: tag is required", models.ErrBadParameter))

		return
	}

	e, err := s.emojis.AddTag(r.Context(), id, *b.Tag)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, s.toEmojiResponse(e, false))
}

// (DELETE /api/v1/emoji/{id}/tags/{tag_id}).
func (s *Server) DeleteTag(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	tagID, err := pathID(r, "tag_id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	e, err := s.emojis.DeleteTag(r.Context(), me, id, tagID)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, s.toEmojiResponse(e, false))
}

// Download the original image of one emoji
// (GET /api/v1/emoji/{id}/download).
func (s *Server) DownloadEmoji(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, err)

		return
	}

	e, rc, err := s.emojis.Download(r.Context(), currentUserID(r.Context()), id)
	if err != nil {
		s.writeError(w, err)

		return
	}
	defer rc.Close()

	s.metrics.Downloaded(downloadSingle, 1)

	contentType := mime.TypeByExtension(path.Ext(e.ImageKey))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": emojiservice.FileName(e)}))

	if _, err := io.Copy(w, rc); err != nil {
		s.lg.Errorf("write image error: %s", err.Error())
	}
}

// Download the emojis of a download cart as one zip archive
// (GET /api/v1/download).
func (s *Server) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	ids, err := downloadParams(r)
	if err != nil {
		s.writeError(w, err)

		return
	}

	emojis, err := s.emojis.PrepareArchive(r.Context(), currentUserID(r.Context()), ids)
	if err != nil {
		s.writeError(w, err)

		return
	}

	s.metrics.Downloaded(downloadArchive, len(emojis))

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": archiveName}))

	if err := s.emojis.WriteArchive(r.Context(), emojis, w); err != nil {
		s.lg.Errorf("write archive error: %s", err.Error())
	}
}
