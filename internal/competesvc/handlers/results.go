package handlers

import (
	"net/http"

	"github.com/avvvet/arena-services/internal/comm"
	log "github.com/sirupsen/logrus"
)

// ResultsHandler returns the standings of a competition, best first.
func (h *Handler) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	compID, err := competitionID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	rows, err := h.results.ComputeStandings(r.Context(), compID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.ok(w, http.StatusOK, "", comm.StandingsUpdate{CompetitionID: compID, Standings: rows})
}

// LiveHandler upgrades to a websocket that receives the current standings
// and then every update after a recorded match.
func (h *Handler) LiveHandler(w http.ResponseWriter, r *http.Request) {
	if h.live == nil {
		h.fail(w, http.StatusServiceUnavailable, "live standings are disabled")
		return
	}
	c := h.loadCompetition(w, r)
	if c == nil {
		return
	}

	rows, err := h.results.ComputeStandings(r.Context(), c.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Errorf("websocket upgrade error: %v", err)
		return
	}

	socketId := h.live.Join(c.ID, conn)
	defer h.live.Leave(socketId)

	if err := h.live.Send(socketId, comm.TypeStandings, comm.StandingsUpdate{CompetitionID: c.ID, Standings: rows}); err != nil {
		log.Warnf("socket %s initial standings: %v", socketId, err)
		return
	}

	// clients only listen; reading keeps control frames flowing and
	// detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Infof("socket %s closed: %v", socketId, err)
			return
		}
	}
}
