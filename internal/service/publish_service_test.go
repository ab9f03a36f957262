package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeThreads struct {
	calls []string
	err   error
}

func (f *fakeThreads) Publish(ctx context.Context, threadsUserID, accessToken, text string) (string, error) {
	f.calls = append(f.calls, threadsUserID+"|"+accessToken+"|"+text)
	if f.err != nil {
		return "", f.err
	}
	return "thread-1", nil
}

func scheduledPost(t *testing.T, env *testEnv, actor Actor, hashtags ...string) *models.Post {
	t.Helper()
	past := time.Now().Add(-time.Minute)
	post, err := env.posts.CreatePost(context.Background(), actor, &transfer.PostCreation{
		Title: "due", Content: "hello", Status: models.PostStatusScheduled, ScheduledAt: &past, Hashtags: hashtags,
	})
	require.NoError(t, err)
	return post
}

func TestPublish_Success(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", models.RoleUser)
	_, err := env.users.LinkThreads(ctx, alice.UserID, &transfer.ThreadsLink{ThreadsUserID: "th-1", AccessToken: "tok"})
	require.NoError(t, err)
	post := scheduledPost(t, env, alice, "go", "api")

	threads := &fakeThreads{}
	publisher := NewPublishService(env.repos.Posts, env.users, threads)
	require.NoError(t, publisher.Publish(ctx, post.ID))

	require.Len(t, threads.calls, 1)
	assert.Equal(t, "th-1|tok|hello\n\n#api #go", threads.calls[0])

	stored, err := env.repos.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, stored.Status)
	assert.NotNil(t, stored.PublishedAt)

	// a second delivery of the same task is a no-op
	require.NoError(t, publisher.Publish(ctx, post.ID))
	assert.Len(t, threads.calls, 1)
}

func TestPublish_FailuresAreRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", models.RoleUser)

	unlinked := scheduledPost(t, env, alice)
	threads := &fakeThreads{err: errors.New("rate limited")}
	publisher := NewPublishService(env.repos.Posts, env.users, threads)

	require.NoError(t, publisher.Publish(ctx, unlinked.ID))
	stored, err := env.repos.Posts.GetByID(ctx, unlinked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusFailed, stored.Status)
	require.NotNil(t, stored.ErrorMessage)
	assert.Contains(t, *stored.ErrorMessage, "no linked Threads account")
	assert.Empty(t, threads.calls)

	_, err = env.users.LinkThreads(ctx, alice.UserID, &transfer.ThreadsLink{ThreadsUserID: "th-1", AccessToken: "tok"})
	require.NoError(t, err)
	linked := scheduledPost(t, env, alice)
	require.NoError(t, publisher.Publish(ctx, linked.ID))
	stored, err = env.repos.Posts.GetByID(ctx, linked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusFailed, stored.Status)
	assert.Equal(t, "rate limited", *stored.ErrorMessage)
	assert.Nil(t, stored.PublishedAt)

	assert.NoError(t, publisher.Publish(ctx, 9999))
}

type unavailableUsers struct {
	UserService
}

func (unavailableUsers) ThreadsCredentials(ctx context.Context, userID int64) (string, string, error) {
	return "", "", storeError(errors.New("connection refused"), ErrUserNotFound)
}

// statusWriteFails accepts reads but rejects every status change.
type statusWriteFails struct {
	repository.PostRepository
}

func (statusWriteFails) SetStatus(ctx context.Context, id int64, status string, errorMessage *string, now time.Time) (*models.Post, error) {
	return nil, errors.New("connection reset")
}

func TestPublish_StoreErrorKeepsPostScheduled(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", models.RoleUser)
	post := scheduledPost(t, env, alice)

	threads := &fakeThreads{}
	publisher := NewPublishService(env.repos.Posts, unavailableUsers{env.users}, threads)

	err := publisher.Publish(ctx, post.ID)
	assert.ErrorIs(t, err, ErrStore)
	assert.Empty(t, threads.calls)

	stored, err := env.repos.Posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusScheduled, stored.Status)
	assert.Nil(t, stored.ErrorMessage)
}

func TestPublish_StatusWriteFailureIsReported(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", models.RoleUser)
	_, err := env.users.LinkThreads(ctx, alice.UserID, &transfer.ThreadsLink{ThreadsUserID: "th-1", AccessToken: "tok"})
	require.NoError(t, err)
	post := scheduledPost(t, env, alice)

	threads := &fakeThreads{}
	publisher := NewPublishService(statusWriteFails{env.repos.Posts}, env.users, threads)

	err = publisher.Publish(ctx, post.ID)
	assert.ErrorIs(t, err, ErrStore)
	assert.Len(t, threads.calls, 1)
}

func TestThreadsService_Publish(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(body))
		seen = append(seen, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch r.URL.Path {
		case "/th-1/threads":
			assert.Equal(t, "TEXT", form.Get("media_type"))
			assert.Equal(t, "hello", form.Get("text"))
			w.Write([]byte(`{"id":"container-9"}`))
		case "/th-1/threads_publish":
			assert.Equal(t, "container-9", form.Get("creation_id"))
			w.Write([]byte(`{"id":"thread-7"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.ThreadsAPIURL = server.URL + "/"
	threads := NewThreadsService(cfg, server.Client())

	id, err := threads.Publish(context.Background(), "th-1", "tok", "hello")
	require.NoError(t, err)
	assert.Equal(t, "thread-7", id)
	assert.Equal(t, []string{"/th-1/threads", "/th-1/threads_publish"}, seen)
}

func TestThreadsService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.ThreadsAPIURL = server.URL
	threads := NewThreadsService(cfg, server.Client())

	_, err := threads.Publish(context.Background(), "th-1", "tok", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")

	_, err = threads.Publish(context.Background(), "", "tok", "hello")
	assert.Error(t, err)
}
