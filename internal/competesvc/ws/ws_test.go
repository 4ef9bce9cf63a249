package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/models"
)

// dialRoom starts a server that joins every socket to competitionID and
// returns the client side.
func dialRoom(t *testing.T, hub *Ws, competitionID int64) (*websocket.Conn, chan string) {
	t.Helper()
	joined := make(chan string, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		joined <- hub.Join(competitionID, conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn, joined
}

func TestBroadcast_OnlyReachesRoom(t *testing.T) {
	hub := NewWs()

	watcher, joinedA := dialRoom(t, hub, 1)
	_, joinedB := dialRoom(t, hub, 2)
	socketA := <-joinedA
	<-joinedB

	assert.Equal(t, []string{socketA}, hub.RoomSockets(1))

	rows := []models.StandingRow{{UserID: 9, Name: "A", Wins: 1, TotalPoints: decimal.NewFromInt(3)}}
	hub.Broadcast(1, rows)

	watcher.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := watcher.ReadMessage()
	require.NoError(t, err)

	var msg comm.Message
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, comm.TypeStandings, msg.Type)
	assert.Equal(t, socketA, msg.Id)

	var update comm.StandingsUpdate
	require.NoError(t, json.Unmarshal(msg.Data, &update))
	assert.Equal(t, int64(1), update.CompetitionID)
	require.Len(t, update.Standings, 1)
	assert.Equal(t, int64(9), update.Standings[0].UserID)
}

func TestLeave_RemovesSocket(t *testing.T) {
	hub := NewWs()
	_, joined := dialRoom(t, hub, 5)
	socketId := <-joined

	hub.Leave(socketId)
	assert.Empty(t, hub.RoomSockets(5))

	// unknown sockets are ignored
	assert.NoError(t, hub.Send(socketId, comm.TypeStandings, nil))
	hub.Leave("missing")
}
