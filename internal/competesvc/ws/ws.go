package ws

import (
	"sync"
	"time"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // gorilla allows one concurrent writer
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Ws pushes live standings to sockets watching a competition.
type Ws struct {
	connMap sync.Map // socketId -> *client
	roomMap sync.Map // socketId -> competition id
}

func NewWs() *Ws {
	return &Ws{}
}

// Join registers conn as a watcher of the competition and returns its
// socket id.
func (s *Ws) Join(competitionID int64, conn *websocket.Conn) string {
	socketId := uuid.New().String()
	s.connMap.Store(socketId, &client{conn: conn})
	s.roomMap.Store(socketId, competitionID)
	log.Infof("socket %s watching competition %d", socketId, competitionID)
	return socketId
}

func (s *Ws) Leave(socketId string) {
	if c, ok := s.connMap.LoadAndDelete(socketId); ok {
		c.(*client).conn.Close()
	}
	s.roomMap.Delete(socketId)
}

// Send writes one message to a single socket.
func (s *Ws) Send(socketId string, msgType string, v any) error {
	c, ok := s.connMap.Load(socketId)
	if !ok {
		return nil
	}
	payload, err := comm.Encode(msgType, socketId, v)
	if err != nil {
		return err
	}
	return c.(*client).write(payload)
}

func (s *Ws) RoomSockets(competitionID int64) []string {
	var sockets []string
	s.roomMap.Range(func(key, value any) bool {
		if value.(int64) == competitionID {
			sockets = append(sockets, key.(string))
		}
		return true // continue iterating
	})
	return sockets
}

// Broadcast sends the standings to every socket of the competition.
// Sockets that fail to receive are dropped.
func (s *Ws) Broadcast(competitionID int64, rows []models.StandingRow) {
	update := comm.StandingsUpdate{CompetitionID: competitionID, Standings: rows}
	for _, socketId := range s.RoomSockets(competitionID) {
		if err := s.Send(socketId, comm.TypeStandings, update); err != nil {
			log.Warnf("dropping socket %s: %v", socketId, err)
			s.Leave(socketId)
		}
	}
}
