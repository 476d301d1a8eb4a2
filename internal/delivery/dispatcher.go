package delivery

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"faultline/internal/logger"
	"faultline/internal/report"
	"faultline/pkg/logging"
	"faultline/pkg/metrics"
)

// Dispatcher is the delivery strategy selected by configuration: inline
// (synchronous) or enqueue-for-later. Both conform to the same contract.
type Dispatcher interface {
	Dispatch(ctx context.Context, payload *report.Payload) error
	Close(ctx context.Context) error
}

// SyncDispatcher delivers inline, blocking the caller for up to the
// configured HTTP timeout per attempt.
type SyncDispatcher struct {
	client *Client
}

func NewSyncDispatcher(client *Client) *SyncDispatcher {
	return &SyncDispatcher{client: client}
}

func (d *SyncDispatcher) Dispatch(ctx context.Context, payload *report.Payload) error {
	return d.client.Deliver(ctx, payload)
}

func (d *SyncDispatcher) Close(ctx context.Context) error {
	return nil
}

type job struct {
	id      string
	payload *report.Payload
}

// QueueDispatcher hands payloads to a background worker pool. A full queue
// drops the report rather than blocking the capture path.
type QueueDispatcher struct {
	client    *Client
	log       logger.Logger
	jobs      chan job
	group     *errgroup.Group
	closeOnce sync.Once
}

func NewQueueDispatcher(client *Client, queueSize, workers int, log logger.Logger) *QueueDispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}

	d := &QueueDispatcher{
		client: client,
		log:    log,
		jobs:   make(chan job, queueSize),
		group:  &errgroup.Group{},
	}

	for i := 0; i < workers; i++ {
		d.group.Go(d.work)
	}

	return d
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, payload *report.Payload) error {
	j := job{
		id:      uuid.NewString(),
		payload: payload,
	}

	select {
	case d.jobs <- j:
		metrics.QueueDepth.Set(float64(len(d.jobs)))
		d.log.DebugwCtx(ctx, "Report enqueued for delivery",
			"job_id", j.id,
		)
		return nil
	default:
		metrics.QueueDroppedTotal.Inc()
		return fmt.Errorf("delivery queue full, dropped report %s", payload.ErrorHash)
	}
}

// work drains the queue. Each delivery runs its retry loop to completion on
// a background context; there is no cancellation once started.
func (d *QueueDispatcher) work() error {
	for j := range d.jobs {
		metrics.QueueDepth.Set(float64(len(d.jobs)))

		ctx := logging.WithErrorHash(context.Background(), j.payload.ErrorHash)
		if err := d.client.Deliver(ctx, j.payload); err != nil {
			d.log.DebugwCtx(ctx, "Queued delivery finished with failure",
				"job_id", j.id,
				"error", err,
			)
		}
	}
	return nil
}

// Close stops accepting work and waits for in-flight deliveries, bounded by
// the context deadline.
func (d *QueueDispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		close(d.jobs)
	})

	done := make(chan error, 1)
	go func() {
		done <- d.group.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
