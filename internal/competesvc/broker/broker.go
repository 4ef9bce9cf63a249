package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

type StatusApplier interface {
	ApplyStatus(ctx context.Context, report comm.StatusReport) error
}

type MatchRecorder interface {
	RecordMatch(ctx context.Context, report comm.MatchReport) (*models.Match, error)
}

type Broker struct {
	Conn        Conn
	Submissions StatusApplier
	Results     MatchRecorder
	timeout     time.Duration
}

func NewBroker(nc Conn, submissions StatusApplier, results MatchRecorder) *Broker {
	return &Broker{
		Conn:        nc,
		Submissions: submissions,
		Results:     results,
		timeout:     10 * time.Second,
	}
}

type ack struct {
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// SubscribeExecutor consumes status and match reports from the executor.
func (b *Broker) SubscribeExecutor() ([]*nats.Subscription, error) {
	var subs []*nats.Subscription
	for _, topic := range []string{comm.SubjectExecutorStatus, comm.SubjectExecutorMatch} {
		sub, err := b.Conn.Subscribe(topic, b.handleMessage)
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// handles message coming from the executor
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.Message{}
	if err := json.Unmarshal(msgNat.Data, msg); err != nil {
		log.Errorf("Error nats message on %s: %s", msgNat.Subject, err)
		b.reply(msgNat, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	var err error
	switch msg.Type {
	case comm.TypeSubmissionStatus:
		var report comm.StatusReport
		if err = json.Unmarshal(msg.Data, &report); err != nil {
			break
		}
		err = b.Submissions.ApplyStatus(ctx, report)
	case comm.TypeMatchResult:
		var report comm.MatchReport
		if err = json.Unmarshal(msg.Data, &report); err != nil {
			break
		}
		var m *models.Match
		m, err = b.Results.RecordMatch(ctx, report)
		if err == nil {
			log.Infof("match %d recorded for competition %d", m.ID, m.CompetitionID)
		}
	default:
		log.Warnf("unknown message type: %s", msg.Type)
		return
	}

	if err != nil {
		log.Errorf("Error handling %s message %s: %s", msg.Type, msg.Id, err)
	}
	b.reply(msgNat, err)
}

// reply acknowledges request/reply style messages; plain publishes are
// not answered.
func (b *Broker) reply(msgNat *nats.Msg, err error) {
	if msgNat.Reply == "" {
		return
	}
	a := ack{Ok: err == nil}
	if err != nil {
		a.Error = err.Error()
	}
	payload, _ := json.Marshal(a)
	if err := b.Conn.Publish(msgNat.Reply, payload); err != nil {
		log.Errorf("error replying on %s: %v", msgNat.Reply, err)
	}
}

func (b *Broker) publish(topic, msgType string, v any) error {
	payload, err := comm.Encode(msgType, uuid.New().String(), v)
	if err != nil {
		return err
	}
	return b.Conn.Publish(topic, payload)
}

func (b *Broker) PublishSubmissionReceived(ev comm.SubmissionReceived) error {
	return b.publish(comm.SubjectSubmissionReceived, comm.TypeSubmissionReceived, ev)
}

func (b *Broker) PublishCompetitionExecute(ev comm.CompetitionExecute) error {
	return b.publish(comm.SubjectCompetitionExecute, comm.TypeCompetitionExecute, ev)
}
