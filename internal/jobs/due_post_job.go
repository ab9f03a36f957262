package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/postdeck/internal/queue"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/robfig/cron"
)

type DuePostJob struct {
	pr      repository.PostRepository
	q       queue.Enqueuer
	now     func() time.Time
	timeout time.Duration
	running sync.Mutex
}

func NewDuePostJob(pr repository.PostRepository, q queue.Enqueuer) *DuePostJob {
	return &DuePostJob{
		pr:      pr,
		q:       q,
		now:     time.Now,
		timeout: time.Minute,
	}
}

// PublishDue hands every due post to the enqueuer. Overlapping runs are
// dropped rather than stacked.
func (j *DuePostJob) PublishDue() {
	if !j.running.TryLock() {
		slog.Info("due post poll still running, skipping")
		return
	}
	defer j.running.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	posts, err := j.pr.GetDue(ctx, j.now())
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, post := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(postID int64) {
			defer wg.Done()
			defer func() { <-semaphore }()

			if err := j.q.EnqueuePublish(ctx, postID); err != nil {
				slog.Info("unable to hand over due post", "post_id", postID, "err", err)
			}
		}(post.ID)
	}
	wg.Wait()
}

// Schedule registers the poll on a new cron runner and starts it.
func (j *DuePostJob) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	if err := c.AddFunc(spec, j.PublishDue); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
