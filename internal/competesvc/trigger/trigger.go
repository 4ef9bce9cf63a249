package trigger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/avvvet/arena-services/internal/comm"
	"github.com/avvvet/arena-services/internal/competesvc/audit"
	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type CompetitionSource interface {
	ListEndedOn(ctx context.Context, day time.Time) ([]*models.Competition, error)
}

type Executor interface {
	Execute(ctx context.Context, competitionID int64) error
}

type Announcer interface {
	PublishCompetitionExecute(ev comm.CompetitionExecute) error
}

// Notifier alerts operators about failed dispatches.
type Notifier interface {
	Notify(message string)
}

type Options struct {
	Instance    string
	Workers     int
	CallTimeout time.Duration
	Announcer   Announcer      // optional
	Notifier    Notifier       // optional
	Recorder    audit.Recorder // defaults to audit.LogRecorder
}

// Trigger asks the executor to run every competition that ended yesterday.
// Each call is independent: a failure is logged and never retried.
type Trigger struct {
	source      CompetitionSource
	executor    Executor
	announcer   Announcer
	notifier    Notifier
	recorder    audit.Recorder
	wp          *workerpool.WorkerPool
	instance    string
	callTimeout time.Duration
	now         func() time.Time
}

func New(source CompetitionSource, executor Executor, opts Options) *Trigger {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 30 * time.Second
	}
	if opts.Recorder == nil {
		opts.Recorder = audit.LogRecorder{}
	}
	return &Trigger{
		source:      source,
		executor:    executor,
		announcer:   opts.Announcer,
		notifier:    opts.Notifier,
		recorder:    opts.Recorder,
		wp:          workerpool.New(opts.Workers),
		instance:    opts.Instance,
		callTimeout: opts.CallTimeout,
		now:         time.Now,
	}
}

// Start runs immediately and then on every tick until ctx is done.
func (t *Trigger) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := t.RunOnce(ctx); err != nil {
			log.Errorf("trigger run error: %v", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop waits for in-flight executor calls.
func (t *Trigger) Stop() {
	t.wp.StopWait()
}

// RunOnce dispatches yesterday's competitions and returns the run record.
func (t *Trigger) RunOnce(ctx context.Context) (audit.Run, error) {
	run := audit.Run{
		RunID:     uuid.New().String(),
		Instance:  t.instance,
		StartedAt: t.now(),
	}
	yesterday := run.StartedAt.AddDate(0, 0, -1)
	run.Day = yesterday.Format("2006-01-02")

	log.Infof("checking competitions ended on %s (run %s)", run.Day, run.RunID)
	competitions, err := t.source.ListEndedOn(ctx, yesterday)
	if err != nil {
		return run, err
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, c := range competitions {
		id := c.ID
		t.announce(run.RunID, id)

		wg.Add(1)
		t.wp.Submit(func() {
			defer wg.Done()
			d := t.dispatch(id)
			mu.Lock()
			run.Dispatches = append(run.Dispatches, d)
			mu.Unlock()
		})
	}
	wg.Wait()

	run.FinishedAt = t.now()
	t.alert(run)
	if err := t.recorder.Record(ctx, run); err != nil {
		log.Errorf("failed to record trigger run %s: %v", run.RunID, err)
	}
	return run, nil
}

func (t *Trigger) dispatch(competitionID int64) audit.Dispatch {
	// not bound to the run's context: a call outlives a cancelled run
	ctx, cancel := context.WithTimeout(context.Background(), t.callTimeout)
	defer cancel()

	log.Infof("executing competition %d", competitionID)
	if err := t.executor.Execute(ctx, competitionID); err != nil {
		log.Errorf("error executing competition %d: %v", competitionID, err)
		return audit.Dispatch{CompetitionID: competitionID, Ok: false, Error: err.Error()}
	}
	return audit.Dispatch{CompetitionID: competitionID, Ok: true}
}

func (t *Trigger) announce(runID string, competitionID int64) {
	if t.announcer == nil {
		return
	}
	ev := comm.CompetitionExecute{CompetitionID: competitionID, RunID: runID}
	if err := t.announcer.PublishCompetitionExecute(ev); err != nil {
		log.Errorf("error publishing competition-execute for %d: %v", competitionID, err)
	}
}

func (t *Trigger) alert(run audit.Run) {
	if t.notifier == nil {
		return
	}
	var failed []string
	for _, d := range run.Dispatches {
		if !d.Ok {
			failed = append(failed, fmt.Sprintf("competition %d: %s", d.CompetitionID, d.Error))
		}
	}
	if len(failed) == 0 {
		return
	}
	t.notifier.Notify(fmt.Sprintf("trigger run %s (%s): %d of %d executor calls failed\n%s",
		run.RunID, run.Day, len(failed), len(run.Dispatches), strings.Join(failed, "\n")))
}
