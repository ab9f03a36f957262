package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
)

type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

// EnqueuePublish schedules a publish task. The task id is derived from the
// post id, so a post that is already queued is not queued twice.
func (e *AsynqEnqueuer) EnqueuePublish(ctx context.Context, postID int64) error {
	task, err := NewPublishPostTask(postID)
	if err != nil {
		return err
	}

	_, err = e.client.EnqueueContext(ctx, task, asynq.TaskID(publishTaskID(postID)), asynq.MaxRetry(0))
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		slog.Info("publish task already queued", "post_id", postID)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("publish task queued", "post_id", postID)
	return nil
}

func NewPublishPostTask(postID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(PublishPostPayload{PostID: postID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypePublishPost, payload), nil
}

// InlineEnqueuer publishes right away in the calling goroutine. It is used
// when no Redis is configured.
type InlineEnqueuer struct {
	q *Queue
}

func NewInlineEnqueuer(q *Queue) *InlineEnqueuer {
	return &InlineEnqueuer{q: q}
}

func (e *InlineEnqueuer) EnqueuePublish(ctx context.Context, postID int64) error {
	return e.q.ps.Publish(ctx, postID)
}
