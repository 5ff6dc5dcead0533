package outbox

import (
	"context"
	"log"
	"time"
)

// Publisher is the queue side of the relay; satisfied by queue.Producer.
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

// Relay moves pending outbox rows onto the task queue. Publishing is
// at-least-once: a crash between Publish and MarkCompleted redelivers, so
// the consuming worker must tolerate duplicates (it does — placement is
// skipped for orders no longer pending).
type Relay struct {
	repo      IRepo
	publisher Publisher
	queueName string
}

func NewRelay(repo IRepo, publisher Publisher, queueName string) *Relay {
	return &Relay{repo: repo, publisher: publisher, queueName: queueName}
}

// RelayOnce publishes up to limit pending tasks and marks them completed.
func (r *Relay) RelayOnce(ctx context.Context, limit int) error {
	tasks, err := r.repo.GetPendingTasks(ctx, limit)
	if err != nil {
		return err
	}

	var done []int64
	for _, task := range tasks {
		if err := r.publisher.Publish(ctx, r.queueName, task.Content); err != nil {
			// Stop at the first publish failure; unmarked rows are
			// retried on the next tick.
			log.Printf("Failed to publish shipment task %d: %v", task.ID, err)
			break
		}
		done = append(done, task.ID)
	}

	return r.repo.MarkCompleted(ctx, done)
}

// Run polls on a fixed interval until ctx is cancelled.
func (r *Relay) Run(ctx context.Context, interval time.Duration, limit int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Println("Outbox relay started: publishing pending shipment tasks...")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RelayOnce(ctx, limit); err != nil {
				log.Printf("Outbox relay error: %v", err)
			}
		}
	}
}
