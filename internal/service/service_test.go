package service

import (
	"context"
	"testing"
	"time"

	config "github.com/maheshrc27/postdeck/configs"
	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:        "test",
		SecretKey:     "test-secret",
		TokenTTL:      time.Hour,
		ThreadsAPIURL: "http://threads.invalid",
	}
}

type testEnv struct {
	cfg   config.Config
	repos *repository.Repositories
	auth  AuthService
	users UserService
	posts PostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	repos := repository.NewMemoryRepositories()
	return &testEnv{
		cfg:   cfg,
		repos: repos,
		auth:  NewAuthService(cfg, repos.Users),
		users: NewUserService(cfg, repos.Users),
		posts: NewPostService(repos.Posts),
	}
}

// register creates an account with the given role and returns its actor.
func (e *testEnv) register(t *testing.T, username, role string) Actor {
	t.Helper()
	user, err := e.auth.Register(context.Background(), &transfer.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "secret1",
	})
	require.NoError(t, err)
	return Actor{UserID: user.ID, Role: role}
}

func (e *testEnv) post(t *testing.T, actor Actor, title string, hashtags ...string) *models.Post {
	t.Helper()
	post, err := e.posts.CreatePost(context.Background(), actor, &transfer.PostCreation{
		Title:    title,
		Content:  "content of " + title,
		Hashtags: hashtags,
	})
	require.NoError(t, err)
	return post
}

func strPtr(s string) *string { return &s }
