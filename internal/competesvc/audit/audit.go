package audit

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/avvvet/arena-services/internal/db"
)

const (
	collectionName = "trigger_runs"
	retention      = 30 * 24 * time.Hour
)

// Dispatch is the outcome of one executor call.
type Dispatch struct {
	CompetitionID int64  `bson:"competition_id" json:"competition_id"`
	Ok            bool   `bson:"ok" json:"ok"`
	Error         string `bson:"error,omitempty" json:"error,omitempty"`
}

// Run describes one pass of the daily trigger.
type Run struct {
	RunID      string     `bson:"run_id" json:"run_id"`
	Instance   string     `bson:"instance" json:"instance"`
	Day        string     `bson:"day" json:"day"` // yyyy-mm-dd of the competitions' end date
	StartedAt  time.Time  `bson:"started_at" json:"started_at"`
	FinishedAt time.Time  `bson:"finished_at" json:"finished_at"`
	Dispatches []Dispatch `bson:"dispatches" json:"dispatches"`
	ExpiresAt  time.Time  `bson:"expires_at" json:"-"`
}

type Recorder interface {
	Record(ctx context.Context, run Run) error
}

// LogRecorder writes runs to the service log only.
type LogRecorder struct{}

func (LogRecorder) Record(_ context.Context, run Run) error {
	failed := 0
	for _, d := range run.Dispatches {
		if !d.Ok {
			failed++
		}
	}
	log.Infof("trigger run %s for %s: %d dispatched, %d failed", run.RunID, run.Day, len(run.Dispatches), failed)
	return nil
}

// MongoRecorder keeps runs in the trigger_runs collection for 30 days.
type MongoRecorder struct {
	collection *mongo.Collection
}

func NewMongoRecorder(ctx context.Context, db *mongo.Database) (*MongoRecorder, error) {
	if err := mongodb.CreateTTLIndexForCollection(ctx, db, collectionName); err != nil {
		return nil, err
	}
	return &MongoRecorder{collection: db.Collection(collectionName)}, nil
}

func (r *MongoRecorder) Record(ctx context.Context, run Run) error {
	if run.ExpiresAt.IsZero() {
		run.ExpiresAt = run.FinishedAt.Add(retention)
	}
	_, err := r.collection.InsertOne(ctx, run)
	return err
}
