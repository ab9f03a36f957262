package queue

import (
	"context"
	"fmt"

	"github.com/maheshrc27/postdeck/internal/service"
)

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID int64 `json:"post_id"`
}

// Enqueuer hands a due post over to whatever publishes it.
type Enqueuer interface {
	EnqueuePublish(ctx context.Context, postID int64) error
}

type Queue struct {
	ps service.PublishService
}

func NewQueue(ps service.PublishService) *Queue {
	return &Queue{ps: ps}
}

func publishTaskID(postID int64) string {
	return fmt.Sprintf("publish:%d", postID)
}
