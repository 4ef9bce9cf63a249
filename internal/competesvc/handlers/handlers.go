package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/avvvet/arena-services/internal/competesvc/service"
	"github.com/avvvet/arena-services/internal/competesvc/store"
	"github.com/go-chi/jwtauth"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type AuthService interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	TokenAuth() *jwtauth.JWTAuth
}

type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type CompetitionService interface {
	ListAvailable(ctx context.Context) ([]*models.Competition, error)
	ListAll(ctx context.Context) ([]*models.Competition, error)
	GetCompetition(ctx context.Context, id int64) (*models.Competition, error)
	Enroll(ctx context.Context, userID, competitionID int64) (bool, error)
	IsEnrolled(ctx context.Context, userID, competitionID int64) (bool, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, userID, competitionID int64, code, language string) (int64, error)
	GetLatest(ctx context.Context, userID, competitionID int64) (*models.SubmissionView, error)
}

type ResultsService interface {
	ComputeStandings(ctx context.Context, competitionID int64) ([]models.StandingRow, error)
}

type LiveHub interface {
	Join(competitionID int64, conn *websocket.Conn) string
	Leave(socketId string)
	Send(socketId string, msgType string, v any) error
}

type Services struct {
	Auth         AuthService
	Users        UserService
	Competitions CompetitionService
	Submissions  SubmissionService
	Results      ResultsService
	Live         LiveHub
}

type Handler struct {
	auth         AuthService
	users        UserService
	competitions CompetitionService
	submissions  SubmissionService
	results      ResultsService
	live         LiveHub

	validate       *validator.Validate
	upgrader       websocket.Upgrader
	uploadMaxBytes int64
	port           string
}

func NewHandler(s Services, uploadMaxBytes int64, port string) *Handler {
	return &Handler{
		auth:         s.Auth,
		users:        s.Users,
		competitions: s.Competitions,
		submissions:  s.Submissions,
		results:      s.Results,
		live:         s.Live,
		validate:     validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		uploadMaxBytes: uploadMaxBytes,
		port:           port,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, code int, message string, data interface{}) {
	h.CreateResponse(w, Response{Message: message, Code: code, Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, code int, message string) {
	h.CreateResponse(w, Response{Code: code, Error: message})
}

// writeError maps service and store errors to HTTP statuses. Store
// details never reach the client.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	var dae *store.DataAccessError

	switch {
	case errors.As(err, &ve):
		h.fail(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, service.ErrNotFound):
		h.fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrCompetitionClosed):
		h.fail(w, http.StatusConflict, err.Error())
	case errors.As(err, &dae) && dae.IsConstraint():
		h.fail(w, http.StatusConflict, "request conflicts with existing data")
	default:
		log.Errorf("request failed: %v", err)
		h.fail(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.ok(w, http.StatusOK, "api service is running at port "+h.port, nil)
}

// userID reads the caller's id from the verified token.
func (h *Handler) userID(r *http.Request) (int64, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, &service.ValidationError{Field: "token", Reason: err.Error()}
	}
	return service.UserIDFromClaims(claims)
}
