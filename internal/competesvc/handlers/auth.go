package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/avvvet/arena-services/internal/competesvc/service"
)

type registerRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Institution string `json:"institution" validate:"max=200"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// decode reads a JSON body into v and runs the struct validators on it.
func (h *Handler) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return &service.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	if err := h.validate.Struct(v); err != nil {
		return &service.ValidationError{Field: "body", Reason: err.Error()}
	}
	return nil
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.auth.Register(r.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Institution: req.Institution,
		Password:    req.Password,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.ok(w, http.StatusCreated, "user registered", user)
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.ok(w, http.StatusOK, "login successful", loginResponse{Token: token, User: user})
}

func (h *Handler) CurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.userID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	user, err := h.users.GetUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if user == nil {
		h.fail(w, http.StatusNotFound, "user not found")
		return
	}
	h.ok(w, http.StatusOK, "", user)
}
