// Package queue serializes inbound update handling per user: all jobs for
// one user identity land on the same worker, so a user's events are handled
// to completion in arrival order while independent users run concurrently.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/siteforge/intake-system/internal/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Job is one unit of work bound to a user identity.
type Job struct {
	UserID int64
	Run    func(ctx context.Context)
}

// Dispatcher routes jobs to a fixed set of workers using consistent hashing
// on the user identity.
type Dispatcher struct {
	workers []chan Job
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a job to the worker responsible for its user identity.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(job Job) {
	idx := d.shardIndex(job.UserID)
	d.workers[idx] <- job
	metrics.QueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a user identity deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID int64) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(userID, 10)))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			job.Run(ctx)
			metrics.QueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}
