package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/avvvet/arena-services/internal/competesvc/service"
)

const defaultLanguage = "python"

type submitRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"omitempty,max=32"`
}

type submitResponse struct {
	SubmissionID  int64 `json:"submission_id"`
	CompetitionID int64 `json:"competition_id"`
}

// SubmitHandler stores the caller's code for the competition. It accepts a
// multipart upload (file + language) or a JSON body.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	c := h.loadCompetition(w, r)
	if c == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMaxBytes)

	var code, language string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		code, language, err = h.readUpload(r)
	} else {
		var req submitRequest
		err = h.decode(r, &req)
		code, language = req.Code, req.Language
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, http.StatusRequestEntityTooLarge, "submission too large")
			return
		}
		h.writeError(w, err)
		return
	}
	if language == "" {
		language = defaultLanguage
	}

	id, err := h.submissions.Submit(r.Context(), userID, c.ID, code, language)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.ok(w, http.StatusCreated, "submission received", submitResponse{SubmissionID: id, CompetitionID: c.ID})
}

func (h *Handler) readUpload(r *http.Request) (string, string, error) {
	if err := r.ParseMultipartForm(h.uploadMaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", "", err
		}
		return "", "", &service.ValidationError{Field: "body", Reason: "malformed multipart form"}
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return "", "", &service.ValidationError{Field: "file", Reason: "missing"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}
	return string(data), r.FormValue("language"), nil
}

func (h *Handler) LatestSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	compID, err := competitionID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	view, err := h.submissions.GetLatest(r.Context(), userID, compID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if view == nil {
		h.fail(w, http.StatusNotFound, "no submission for this competition")
		return
	}
	h.ok(w, http.StatusOK, "", view)
}
