package job

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	mu  sync.Mutex
	ids []int64
	err error
}

func (e *recordingEnqueuer) EnqueuePublish(ctx context.Context, postID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = append(e.ids, postID)
	return e.err
}

func (e *recordingEnqueuer) sorted() []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := append([]int64(nil), e.ids...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func seedPost(t *testing.T, repos *repository.Repositories, status string, at time.Time) int64 {
	t.Helper()
	post, err := repos.Posts.Create(context.Background(), &models.Post{
		UserID: 1, Title: "t", Content: "c", Status: status, ScheduledAt: &at,
	}, nil)
	require.NoError(t, err)
	return post.ID
}

func TestDuePostJob_EnqueuesDuePosts(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	now := time.Now()

	var due []int64
	for i := 0; i < 25; i++ {
		due = append(due, seedPost(t, repos, models.PostStatusScheduled, now.Add(-time.Minute)))
	}
	seedPost(t, repos, models.PostStatusScheduled, now.Add(time.Hour))
	seedPost(t, repos, models.PostStatusDraft, now.Add(-time.Hour))

	enqueuer := &recordingEnqueuer{}
	job := NewDuePostJob(repos.Posts, enqueuer)
	job.now = func() time.Time { return now }
	job.PublishDue()

	assert.Equal(t, due, enqueuer.sorted())
}

func TestDuePostJob_EnqueueErrorsDoNotStopTheRun(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	now := time.Now()
	a := seedPost(t, repos, models.PostStatusScheduled, now.Add(-time.Minute))
	b := seedPost(t, repos, models.PostStatusScheduled, now.Add(-time.Minute))

	enqueuer := &recordingEnqueuer{err: errors.New("redis down")}
	job := NewDuePostJob(repos.Posts, enqueuer)
	job.PublishDue()

	assert.Equal(t, []int64{a, b}, enqueuer.sorted())
}

func TestDuePostJob_SkipsOverlappingRuns(t *testing.T) {
	repos := repository.NewMemoryRepositories()
	seedPost(t, repos, models.PostStatusScheduled, time.Now().Add(-time.Minute))

	enqueuer := &recordingEnqueuer{}
	job := NewDuePostJob(repos.Posts, enqueuer)

	job.running.Lock()
	job.PublishDue()
	job.running.Unlock()
	assert.Empty(t, enqueuer.sorted())

	job.PublishDue()
	assert.Len(t, enqueuer.sorted(), 1)
}

func TestDuePostJob_Schedule(t *testing.T) {
	job := NewDuePostJob(repository.NewMemoryRepositories().Posts, &recordingEnqueuer{})

	_, err := job.Schedule("not a spec")
	assert.Error(t, err)

	c, err := job.Schedule("@every 1h")
	require.NoError(t, err)
	c.Stop()
}
