package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandlePublishPostTask(ctx context.Context, task *asynq.Task) error {
	var payload PublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid publish payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.PostID <= 0 {
		return fmt.Errorf("invalid post id %d: %w", payload.PostID, asynq.SkipRetry)
	}

	return q.ps.Publish(ctx, payload.PostID)
}

func (q *Queue) ServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypePublishPost, q.HandlePublishPostTask)
	return mux
}
