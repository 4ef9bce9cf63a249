package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/avvvet/arena-services/internal/competesvc/models"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const defaultTTL = 5 * time.Minute

// setIfVersion writes the rows only while the version key still holds the
// version the caller read before computing them.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// StandingsCache keeps computed standings in redis. Failures are logged
// and treated as misses.
type StandingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStandingsCache(client *redis.Client) *StandingsCache {
	return &StandingsCache{client: client, ttl: defaultTTL}
}

// Options accepts either a redis:// URL or a bare host:port. password and
// db fill in what the URL leaves out.
func Options(redisURL, password string, db int) (*redis.Options, error) {
	if !strings.Contains(redisURL, "://") {
		return &redis.Options{Addr: redisURL, Password: password, DB: db}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if opts.Password == "" {
		opts.Password = password
	}
	if opts.DB == 0 {
		opts.DB = db
	}
	return opts, nil
}

// Connect builds a client for redisURL and pings it.
func Connect(ctx context.Context, redisURL, password string, db int) (*redis.Client, error) {
	opts, err := Options(redisURL, password, db)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func key(competitionID int64) string {
	return fmt.Sprintf("standings:%d", competitionID)
}

func versionKey(competitionID int64) string {
	return fmt.Sprintf("standings:%d:version", competitionID)
}

// Get returns the cached rows and the competition's version. The version
// is -1 when it could not be read.
func (c *StandingsCache) Get(ctx context.Context, competitionID int64) ([]models.StandingRow, int64, bool) {
	vals, err := c.client.MGet(ctx, key(competitionID), versionKey(competitionID)).Result()
	if err != nil {
		log.Warnf("standings cache get for competition %d: %v", competitionID, err)
		return nil, -1, false
	}

	version := int64(0)
	if raw, ok := vals[1].(string); ok {
		version, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Warnf("standings cache version for competition %d: %v", competitionID, err)
			return nil, -1, false
		}
	}

	data, ok := vals[0].(string)
	if !ok {
		return nil, version, false
	}

	var rows []models.StandingRow
	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		log.Warnf("standings cache decode for competition %d: %v", competitionID, err)
		return nil, version, false
	}
	if rows == nil {
		rows = []models.StandingRow{}
	}
	log.Debugf("standings cache HIT for competition %d", competitionID)
	return rows, version, true
}

// Set stores rows unless the competition was invalidated after version
// was read.
func (c *StandingsCache) Set(ctx context.Context, competitionID int64, version int64, rows []models.StandingRow) {
	if version < 0 {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		log.Warnf("standings cache encode for competition %d: %v", competitionID, err)
		return
	}

	keys := []string{key(competitionID), versionKey(competitionID)}
	stored, err := setIfVersion.Run(ctx, c.client, keys, version, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		log.Warnf("standings cache set for competition %d: %v", competitionID, err)
		return
	}
	if stored == 0 {
		log.Debugf("standings cache skipped outdated rows for competition %d", competitionID)
	}
}

// Invalidate drops the rows and bumps the version in one transaction.
func (c *StandingsCache) Invalidate(ctx context.Context, competitionID int64) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(competitionID))
		pipe.Del(ctx, key(competitionID))
		return nil
	})
	if err != nil {
		log.Warnf("failed to invalidate standings cache for competition %d: %v", competitionID, err)
	}
}
