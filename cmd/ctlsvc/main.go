package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	config "github.com/avvvet/arena-services/configs"
	"github.com/avvvet/arena-services/internal/competesvc/audit"
	"github.com/avvvet/arena-services/internal/competesvc/broker"
	svcconfig "github.com/avvvet/arena-services/internal/competesvc/config"
	"github.com/avvvet/arena-services/internal/competesvc/db"
	"github.com/avvvet/arena-services/internal/competesvc/executor"
	"github.com/avvvet/arena-services/internal/competesvc/notify"
	"github.com/avvvet/arena-services/internal/competesvc/store"
	"github.com/avvvet/arena-services/internal/competesvc/trigger"
	mongodb "github.com/avvvet/arena-services/internal/db"
	natscli "github.com/avvvet/arena-services/internal/nats"
)

const SERVICE_NAME = "ctl"

var instanceId string

func init() {
	instanceId = config.CreateUniqueInstance(SERVICE_NAME)
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {
	cfg := svcconfig.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// pg connection
	dbpool, err := db.Connect(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbpool.Close()
	log.Printf("pg connection established successfully")

	opts := trigger.Options{
		Instance:    instanceId,
		Workers:     cfg.TriggerWorkers,
		CallTimeout: cfg.ExecutorTimeout,
	}

	// Connect to NATS
	if os.Getenv("NATS_URL") != "" {
		n, err := natscli.Connect(SERVICE_NAME + "_service_" + instanceId)
		if err != nil {
			log.Errorf("Error: unable to connect to NATS server %v", err)
			os.Exit(1)
		}
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)
		opts.Announcer = broker.NewBroker(n.Conn, nil, nil)
	}

	// operators hear about failed executor calls on telegram
	if n := notify.FromEnv(); n != nil {
		opts.Notifier = n
	}

	// trigger runs go to mongo when configured, otherwise to the log
	if cfg.MongoUri != "" {
		mdb, err := mongodb.ConnectToDB(ctx, cfg.MongoUri)
		if err != nil {
			log.Fatalf("Failed to connect to mongo: %v", err)
		}
		defer mdb.Client().Disconnect(context.Background())

		recorder, err := audit.NewMongoRecorder(ctx, mdb)
		if err != nil {
			log.Fatalf("Failed to prepare trigger audit log: %v", err)
		}
		opts.Recorder = recorder
	}

	t := trigger.New(store.NewCompetitionStore(dbpool), executor.NewClient(cfg.ExecutorUrl, cfg.ExecutorTimeout), opts)

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.Start(ctx, cfg.TriggerInterval)
	}()
	log.Infof("%s service started, checking every %s", SERVICE_NAME, cfg.TriggerInterval)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	cancel()
	<-done
	t.Stop()
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
