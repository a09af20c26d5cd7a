// Package telemetry streams run progress over Redis pub/sub and holds
// a distributed lock on the vehicle so a single mapper drives it at a
// time.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/beka-birhanu/rover-mapper/explore"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// default prefix for redis keys
	defaultPrefix = "rover"

	// step event channel string format
	stepChannelFmt = "%s:runs:%s:steps"

	// robot mutex key string format
	robotLockKeyFmt = "%s:robot_lock"
)

// ErrNoLockHeld is returned when ReleaseRobot is called without a held lock.
var ErrNoLockHeld = errors.New("telemetry: no robot lock held")

// stepMessage is the wire form of one explorer state transition.
type stepMessage struct {
	RunID         string `json:"run_id"`
	Seq           uint64 `json:"seq"`
	State         string `json:"state"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	NodesExplored int    `json:"nodes_explored"`
}

// RedisPublisher implements the service telemetry interface on a Redis
// client.
type RedisPublisher struct {
	client *redis.Client
	locker *redsync.Redsync
	prefix string
	mutex  *redsync.Mutex
}

// NewRedisPublisher initializes a RedisPublisher with the provided Redis client.
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = defaultPrefix
	}
	publisher := &RedisPublisher{
		client: client,
		prefix: prefix,
	}
	pool := goredis.NewPool(client)
	publisher.locker = redsync.New(pool)
	return publisher
}

// AcquireRobot takes the distributed robot lock for the run.
func (p *RedisPublisher) AcquireRobot(ctx context.Context, runID uuid.UUID) error {
	mutex := p.locker.NewMutex(
		fmt.Sprintf(robotLockKeyFmt, p.prefix),
		redsync.WithValue(runID.String()),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	p.mutex = mutex
	return nil
}

// ReleaseRobot releases the robot lock.
func (p *RedisPublisher) ReleaseRobot(ctx context.Context) error {
	if p.mutex == nil {
		return ErrNoLockHeld
	}
	ok, err := p.mutex.UnlockContext(ctx)
	p.mutex = nil
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("telemetry: robot lock was not released")
	}
	return nil
}

// PublishStep broadcasts one explorer state transition on the run's
// step channel.
func (p *RedisPublisher) PublishStep(ctx context.Context, runID uuid.UUID, ev explore.StepEvent) error {
	payload, err := json.Marshal(stepMessage{
		RunID:         runID.String(),
		Seq:           ev.Seq,
		State:         ev.State.String(),
		X:             ev.Position.X,
		Y:             ev.Position.Y,
		NodesExplored: ev.NodesExplored,
	})
	if err != nil {
		return err
	}
	channel := fmt.Sprintf(stepChannelFmt, p.prefix, runID)
	return p.client.Publish(ctx, channel, payload).Err()
}
