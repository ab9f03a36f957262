package service

import (
	"context"
	"testing"

	"github.com/maheshrc27/postdeck/internal/models"
	"github.com/maheshrc27/postdeck/internal/repository"
	"github.com/maheshrc27/postdeck/internal/transfer"
	"github.com/maheshrc27/postdeck/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_VisibleToOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stats := NewStatsService(env.repos.Posts, env.repos.Stats)
	alice := env.register(t, "alice", models.RoleUser)
	bob := env.register(t, "bob", models.RoleUser)
	post := env.post(t, alice, "A")

	_, err := stats.Latest(ctx, alice, post.ID)
	assert.ErrorIs(t, err, ErrStatsNotFound)

	recorded, err := stats.Record(ctx, alice, post.ID, &transfer.StatsRecord{Likes: 3, Comments: 1, Reach: 8})
	require.NoError(t, err)
	assert.Equal(t, 50.0, recorded.EngagementRate)

	_, err = stats.Record(ctx, alice, post.ID, &transfer.StatsRecord{Likes: -1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = stats.History(ctx, bob, post.ID, 0)
	assert.ErrorIs(t, err, ErrPostNotFound)

	history, err := stats.History(ctx, alice, post.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	latest, err := stats.Latest(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, recorded.ID, latest.ID)
}

func TestHashtags_PopularClampsLimit(t *testing.T) {
	env := newTestEnv(t)
	hashtags := NewHashtagService(env.repos.Hashtags)
	alice := env.register(t, "alice", models.RoleUser)
	env.post(t, alice, "A", "go", "rust")
	env.post(t, alice, "B", "go")

	popular, err := hashtags.Popular(context.Background(), alice, 0)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, "go", popular[0].Name)
	assert.Equal(t, int64(2), popular[0].UsageCount)

	_, err = hashtags.Popular(context.Background(), Actor{UserID: 1, Role: models.RoleGuest}, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestTemplates_OwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	templates := NewTemplateService(env.repos.Templates)
	alice := env.register(t, "alice", models.RoleUser)
	bob := env.register(t, "bob", models.RoleUser)

	created, err := templates.Create(ctx, alice, &transfer.TemplateInput{
		Name: " weekly ", Content: "hello", Hashtags: []string{"#a", "b", "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "weekly", created.Name)
	assert.Equal(t, "a, b", created.Hashtags)
	assert.True(t, created.IsActive)

	inactive := false
	_, err = templates.Update(ctx, bob, created.ID, &transfer.TemplateInput{Name: "x", Content: "y", IsActive: &inactive})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	updated, err := templates.Update(ctx, alice, created.ID, &transfer.TemplateInput{Name: "x", Content: "y", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "", updated.Hashtags)

	list, err := templates.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, templates.Remove(ctx, bob, created.ID), ErrTemplateNotFound)
	assert.NoError(t, templates.Remove(ctx, alice, created.ID))
}

func TestApiKeys_Limit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	keys := NewApiKeyService(env.repos.ApiKeys)
	alice := env.register(t, "alice", models.RoleUser)
	bob := env.register(t, "bob", models.RoleUser)

	var first *models.ApiKey
	for i := 0; i < models.MaxApiKeysPerUser; i++ {
		key, err := keys.Create(ctx, alice, &transfer.ApiKeyCreation{Label: "ci"})
		require.NoError(t, err)
		if first == nil {
			first = key
		}
	}
	_, err := keys.Create(ctx, alice, nil)
	assert.ErrorIs(t, err, ErrValidation)

	userID, err := keys.GetUserID(ctx, first.ApiKey)
	require.NoError(t, err)
	assert.Equal(t, alice.UserID, userID)

	_, err = keys.GetUserID(ctx, "unknown")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.ErrorIs(t, keys.RemoveAPIKey(ctx, bob, first.ID), ErrApiKeyNotFound)
	require.NoError(t, keys.RemoveAPIKey(ctx, alice, first.ID))

	list, err := keys.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, models.MaxApiKeysPerUser-1)
}

func TestApiKeys_GuestsAreForbidden(t *testing.T) {
	env := newTestEnv(t)
	keys := NewApiKeyService(env.repos.ApiKeys)
	guest := env.register(t, "guest", models.RoleGuest)

	_, err := keys.List(context.Background(), guest)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = keys.Create(context.Background(), guest, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

type collidingKeys struct {
	repository.ApiKeyRepository
}

func (collidingKeys) ListByUserID(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	return nil, nil
}

func (collidingKeys) Create(ctx context.Context, apiKey *models.ApiKey) (int64, error) {
	return 0, repository.ErrDuplicate
}

func TestApiKeys_CollisionIsNotAUserConflict(t *testing.T) {
	keys := NewApiKeyService(collidingKeys{})

	_, err := keys.Create(context.Background(), Actor{UserID: 1, Role: models.RoleUser}, nil)
	assert.ErrorIs(t, err, ErrApiKeyExists)
	assert.NotErrorIs(t, err, ErrUserExists)

	status, _ := StatusOf(err)
	assert.Equal(t, Conflict, status)
}

func TestLinkThreads_EncryptsToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", models.RoleUser)

	user, err := env.users.LinkThreads(ctx, alice.UserID, &transfer.ThreadsLink{ThreadsUserID: "th-1", AccessToken: "plain-token"})
	require.NoError(t, err)
	require.NotNil(t, user.ThreadsAccessToken)
	assert.NotEqual(t, "plain-token", *user.ThreadsAccessToken)

	plain, err := utils.Decrypt(*user.ThreadsAccessToken, utils.EncryptionKey(env.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "plain-token", plain)

	threadsUserID, token, err := env.users.ThreadsCredentials(ctx, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, "th-1", threadsUserID)
	assert.Equal(t, "plain-token", token)

	_, err = env.users.LinkThreads(ctx, alice.UserID, &transfer.ThreadsLink{ThreadsUserID: "th-1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{invalid("title is required"), BadRequest},
		{ErrInvalidCredentials, Unauthorized},
		{ErrForbidden, Forbidden},
		{ErrPostNotFound, NotFound},
		{ErrUserExists, Conflict},
		{storeError(repository.ErrDuplicate, ErrPostNotFound), Conflict},
		{storeError(repository.ErrNotFound, ErrPostNotFound), NotFound},
		{storeError(assert.AnError, ErrPostNotFound), InternalServerError},
		{assert.AnError, InternalServerError},
	}
	for _, tc := range cases {
		status, _ := StatusOf(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
	}

	_, kind := StatusOf(assert.AnError)
	assert.Equal(t, ErrUnexpected, kind)

	assert.Equal(t, ErrConflict, storeError(repository.ErrDuplicate, ErrTemplateNotFound))
	assert.Equal(t, ErrUserExists, storeErrorKinds(repository.ErrDuplicate, ErrUserNotFound, ErrUserExists))
}
