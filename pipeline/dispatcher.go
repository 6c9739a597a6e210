package pipeline

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"dotabet/config"
	"dotabet/domain/entities"
	"dotabet/infrastructure/metrics"
)

// Dispatcher feeds accepted bets to a fixed pool of workers over a bounded
// FIFO queue. Each worker runs pipelines concurrently up to its in-flight
// cap; a bet can block for the length of a whole match, so workers must not
// process serially.
type Dispatcher struct {
	pipeline    *Pipeline
	queue       chan *entities.BetRequest
	workers     int
	maxInFlight int

	wg     sync.WaitGroup
	logger *logrus.Entry
}

// NewDispatcher creates a dispatcher sized from configuration.
func NewDispatcher(cfg *config.Config, pipeline *Pipeline) *Dispatcher {
	return &Dispatcher{
		pipeline:    pipeline,
		queue:       make(chan *entities.BetRequest, cfg.QueueSize),
		workers:     cfg.Workers,
		maxInFlight: cfg.MaxInFlight,
		logger:      logrus.WithField("component", "dispatcher"),
	}
}

// Submit enqueues a bet without blocking. A full queue turns the bet away
// before any funds move.
func (d *Dispatcher) Submit(req *entities.BetRequest) error {
	select {
	case d.queue <- req:
		metrics.BetsSubmitted.Inc()
		metrics.QueueDepth.Set(float64(len(d.queue)))
		return nil
	default:
		metrics.BetsDropped.Inc()
		return entities.NewReject(entities.FailureUnknown, "bet queue is full, try again later")
	}
}

// Start launches the worker pool. Workers drain until the context is
// canceled; in-flight pipelines observe the same context.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	d.logger.WithFields(logrus.Fields{
		"workers":       d.workers,
		"max_in_flight": d.maxInFlight,
		"queue_size":    cap(d.queue),
	}).Info("Dispatcher started")
}

// Wait blocks until every worker has exited and all in-flight pipelines
// have finished or observed cancellation.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	log := d.logger.WithField("worker", id)
	slots := make(chan struct{}, d.maxInFlight)
	var inFlight sync.WaitGroup

	for {
		select {
		case <-ctx.Done():
			inFlight.Wait()
			log.Info("Worker stopped")
			return
		case req := <-d.queue:
			metrics.QueueDepth.Set(float64(len(d.queue)))

			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				inFlight.Wait()
				log.Info("Worker stopped")
				return
			}

			inFlight.Add(1)
			metrics.InFlight.Inc()
			go func(req *entities.BetRequest) {
				defer func() {
					<-slots
					inFlight.Done()
					metrics.InFlight.Dec()
				}()
				d.pipeline.Run(ctx, req)
			}(req)
		}
	}
}
