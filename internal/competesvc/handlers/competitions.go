package handlers

import (
	"net/http"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/avvvet/arena-services/internal/competesvc/service"
	"github.com/go-chi/chi"
)

type enrollmentResponse struct {
	CompetitionID int64 `json:"competition_id"`
	Enrolled      bool  `json:"enrolled"`
}

func competitionID(r *http.Request) (int64, error) {
	return service.ParseID("competition id", chi.URLParam(r, "competitionId"))
}

// loadCompetition writes a 404 and returns nil when the competition is
// missing.
func (h *Handler) loadCompetition(w http.ResponseWriter, r *http.Request) *models.Competition {
	id, err := competitionID(r)
	if err != nil {
		h.writeError(w, err)
		return nil
	}
	c, err := h.competitions.GetCompetition(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return nil
	}
	if c == nil {
		h.fail(w, http.StatusNotFound, "competition not found")
		return nil
	}
	return c
}

func (h *Handler) ListAvailableHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.competitions.ListAvailable(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []*models.Competition{}
	}
	h.ok(w, http.StatusOK, "", list)
}

func (h *Handler) ListAllHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.competitions.ListAll(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if list == nil {
		list = []*models.Competition{}
	}
	h.ok(w, http.StatusOK, "", list)
}

func (h *Handler) GetCompetitionHandler(w http.ResponseWriter, r *http.Request) {
	c := h.loadCompetition(w, r)
	if c == nil {
		return
	}
	h.ok(w, http.StatusOK, "", c)
}

// EnrollHandler answers 201 for a new enrollment and 200 when the user was
// already enrolled.
func (h *Handler) EnrollHandler(w http.ResponseWriter, r *http.Request) {
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

	created, err := h.competitions.Enroll(r.Context(), userID, compID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	rsp := enrollmentResponse{CompetitionID: compID, Enrolled: true}
	if created {
		h.ok(w, http.StatusCreated, "enrolled", rsp)
		return
	}
	h.ok(w, http.StatusOK, "already enrolled", rsp)
}

func (h *Handler) EnrollmentHandler(w http.ResponseWriter, r *http.Request) {
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

	enrolled, err := h.competitions.IsEnrolled(r.Context(), userID, compID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.ok(w, http.StatusOK, "", enrollmentResponse{CompetitionID: compID, Enrolled: enrolled})
}
