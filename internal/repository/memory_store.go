package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/maheshrc27/postdeck/internal/models"
)

// memoryStore keeps every table in process memory. A single lock guards all
// state and multi-step operations hold it for their whole duration, so each
// of them is applied completely or not at all.
type memoryStore struct {
	mu sync.RWMutex

	users     map[int64]*models.User
	posts     map[int64]*models.Post
	hashtags  map[string]*models.Hashtag
	links     map[int64][]int64 // post id -> hashtag ids
	stats     map[int64][]*models.PostStats
	templates map[int64]*models.Template
	apiKeys   map[int64]*models.ApiKey

	seq map[string]int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     make(map[int64]*models.User),
		posts:     make(map[int64]*models.Post),
		hashtags:  make(map[string]*models.Hashtag),
		links:     make(map[int64][]int64),
		stats:     make(map[int64][]*models.PostStats),
		templates: make(map[int64]*models.Template),
		apiKeys:   make(map[int64]*models.ApiKey),
		seq:       make(map[string]int64),
	}
}

func (s *memoryStore) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

func checkHashtags(names []string) error {
	for _, name := range names {
		if utf8.RuneCountInString(name) > models.MaxHashtagLength {
			return fmt.Errorf("ensure hashtag %q: name exceeds %d characters", name, models.MaxHashtagLength)
		}
	}
	return nil
}

func (s *memoryStore) hashtagByID(id int64) *models.Hashtag {
	for _, h := range s.hashtags {
		if h.ID == id {
			return h
		}
	}
	return nil
}

func (s *memoryStore) ensure(name string) int64 {
	if h, ok := s.hashtags[name]; ok {
		h.UsageCount++
		return h.ID
	}
	h := &models.Hashtag{ID: s.nextID("hashtags"), Name: name, UsageCount: 1, CreatedAt: time.Now().UTC()}
	s.hashtags[name] = h
	return h.ID
}

func (s *memoryStore) replaceTags(postID int64, names []string) {
	for _, id := range s.links[postID] {
		if h := s.hashtagByID(id); h != nil && h.UsageCount > 0 {
			h.UsageCount--
		}
	}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		ids = append(ids, s.ensure(name))
	}
	s.links[postID] = ids
}

// view builds the read model of a post: hashtags sorted by name, owner
// username and snapshot count.
func (s *memoryStore) view(p *models.Post) *models.Post {
	out := *p
	out.ScheduledAt = copyTime(p.ScheduledAt)
	out.PublishedAt = copyTime(p.PublishedAt)
	out.ErrorMessage = copyString(p.ErrorMessage)
	out.DeletedAt = copyTime(p.DeletedAt)

	out.Hashtags = []string{}
	for _, id := range s.links[p.ID] {
		if h := s.hashtagByID(id); h != nil {
			out.Hashtags = append(out.Hashtags, h.Name)
		}
	}
	sort.Strings(out.Hashtags)

	out.Username = ""
	if u, ok := s.users[p.UserID]; ok {
		out.Username = u.Username
	}
	out.StatsCount = int64(len(s.stats[p.ID]))
	return &out
}

func (s *memoryStore) livePost(id int64) (*models.Post, error) {
	p, ok := s.posts[id]
	if !ok || p.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return p, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

type memoryPosts struct{ s *memoryStore }

func (m *memoryPosts) List(ctx context.Context, filter models.PostFilter) ([]*models.Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var posts []*models.Post
	for _, p := range m.s.posts {
		if p.DeletedAt != nil {
			continue
		}
		if filter.UserID != nil && p.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		posts = append(posts, m.s.view(p))
	}
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	if filter.Limit > 0 && len(posts) > filter.Limit {
		posts = posts[:filter.Limit]
	}
	return posts, nil
}

func (m *memoryPosts) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, err := m.s.livePost(id)
	if err != nil {
		return nil, err
	}
	return m.s.view(p), nil
}

func (m *memoryPosts) Create(ctx context.Context, post *models.Post, hashtags []string) (*models.Post, error) {
	names := models.NormalizeHashtags(hashtags)
	if err := checkHashtags(names); err != nil {
		return nil, err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	status := post.Status
	if status == "" {
		status = models.PostStatusDraft
	}
	now := time.Now().UTC()
	p := &models.Post{
		ID:          m.s.nextID("posts"),
		UserID:      post.UserID,
		Title:       post.Title,
		Content:     post.Content,
		Status:      status,
		ScheduledAt: copyTime(post.ScheduledAt),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.s.posts[p.ID] = p
	m.s.replaceTags(p.ID, names)
	return m.s.view(p), nil
}

func (m *memoryPosts) Update(ctx context.Context, id int64, patch *models.PostPatch) (*models.Post, error) {
	var names []string
	if patch.Hashtags != nil {
		names = models.NormalizeHashtags(*patch.Hashtags)
		if err := checkHashtags(names); err != nil {
			return nil, err
		}
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	p, err := m.s.livePost(id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.ScheduledAt != nil {
		p.ScheduledAt = copyTime(patch.ScheduledAt)
	}
	p.UpdatedAt = time.Now().UTC()
	if patch.Hashtags != nil {
		m.s.replaceTags(id, names)
	}
	return m.s.view(p), nil
}

func (m *memoryPosts) SoftDelete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	p, err := m.s.livePost(id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	p.Status = models.PostStatusDeleted
	p.UpdatedAt = now
	return nil
}

func (m *memoryPosts) Duplicate(ctx context.Context, id, ownerID int64) (*models.Post, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	src, err := m.s.livePost(id)
	if err != nil {
		return nil, err
	}
	names := m.s.view(src).Hashtags

	now := time.Now().UTC()
	p := &models.Post{
		ID:        m.s.nextID("posts"),
		UserID:    ownerID,
		Title:     src.Title + models.CopySuffix,
		Content:   src.Content,
		Status:    models.PostStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.s.posts[p.ID] = p
	m.s.replaceTags(p.ID, names)
	return m.s.view(p), nil
}

func (m *memoryPosts) GetDue(ctx context.Context, now time.Time) ([]*models.Post, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var due []*models.Post
	for _, p := range m.s.posts {
		if p.DeletedAt != nil || p.Status != models.PostStatusScheduled || p.ScheduledAt == nil {
			continue
		}
		if p.ScheduledAt.After(now) {
			continue
		}
		due = append(due, m.s.view(p))
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].ScheduledAt.Equal(*due[j].ScheduledAt) {
			return due[i].ScheduledAt.Before(*due[j].ScheduledAt)
		}
		return due[i].ID < due[j].ID
	})
	return due, nil
}

func (m *memoryPosts) SetStatus(ctx context.Context, id int64, status string, errorMessage *string, now time.Time) (*models.Post, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	p, err := m.s.livePost(id)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	p.Status = status
	p.ErrorMessage = copyString(errorMessage)
	if status == models.PostStatusPublished {
		p.PublishedAt = &now
	}
	p.UpdatedAt = now
	return m.s.view(p), nil
}

type memoryHashtags struct{ s *memoryStore }

func (m *memoryHashtags) GetByName(ctx context.Context, name string) (*models.Hashtag, bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	h, ok := m.s.hashtags[name]
	if !ok {
		return nil, false, nil
	}
	c := *h
	return &c, true, nil
}

func (m *memoryHashtags) Popular(ctx context.Context, limit int) ([]*models.Hashtag, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var hashtags []*models.Hashtag
	for _, h := range m.s.hashtags {
		if h.UsageCount > 0 {
			c := *h
			hashtags = append(hashtags, &c)
		}
	}
	sort.Slice(hashtags, func(i, j int) bool {
		if hashtags[i].UsageCount != hashtags[j].UsageCount {
			return hashtags[i].UsageCount > hashtags[j].UsageCount
		}
		return hashtags[i].Name < hashtags[j].Name
	})
	if limit > 0 && len(hashtags) > limit {
		hashtags = hashtags[:limit]
	}
	return hashtags, nil
}

type memoryUsers struct{ s *memoryStore }

func copyUser(u *models.User) *models.User {
	c := *u
	c.LastLoginAt = copyTime(u.LastLoginAt)
	c.ThreadsUserID = copyString(u.ThreadsUserID)
	c.ThreadsAccessToken = copyString(u.ThreadsAccessToken)
	c.DeletedAt = copyTime(u.DeletedAt)
	return &c
}

func (m *memoryUsers) GetByID(ctx context.Context, id int64) (*models.User, bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	u, ok := m.s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, false, nil
	}
	return copyUser(u), true, nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, u := range m.s.users {
		if u.Email == email && u.DeletedAt == nil {
			return copyUser(u), true, nil
		}
	}
	return nil, false, nil
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, u := range m.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return 0, ErrDuplicate
		}
	}

	c := copyUser(user)
	if c.Role == "" {
		c.Role = models.RoleUser
	}
	c.ID = m.s.nextID("users")
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.s.users[c.ID] = c
	return c.ID, nil
}

func (m *memoryUsers) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok || u.DeletedAt != nil {
		return ErrNotFound
	}
	u.LastLoginAt = copyTime(&at)
	return nil
}

func (m *memoryUsers) SetThreadsToken(ctx context.Context, id int64, threadsUserID, encryptedToken string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	u, ok := m.s.users[id]
	if !ok || u.DeletedAt != nil {
		return ErrNotFound
	}
	u.ThreadsUserID = &threadsUserID
	u.ThreadsAccessToken = &encryptedToken
	u.UpdatedAt = time.Now().UTC()
	return nil
}

type memoryStats struct{ s *memoryStore }

func (m *memoryStats) Record(ctx context.Context, stats *models.PostStats) (*models.PostStats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.posts[stats.PostID]; !ok {
		return nil, fmt.Errorf("post %d: %w", stats.PostID, ErrNotFound)
	}
	recorded := *stats
	recorded.ID = m.s.nextID("post_stats")
	recorded.EngagementRate = recorded.ComputeEngagementRate()
	recorded.RecordedAt = time.Now().UTC()
	m.s.stats[recorded.PostID] = append(m.s.stats[recorded.PostID], &recorded)

	c := recorded
	return &c, nil
}

func (m *memoryStats) Latest(ctx context.Context, postID int64) (*models.PostStats, bool, error) {
	history, _ := m.History(ctx, postID, 1)
	if len(history) == 0 {
		return nil, false, nil
	}
	return history[0], true, nil
}

func (m *memoryStats) History(ctx context.Context, postID int64, limit int) ([]*models.PostStats, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	rows := m.s.stats[postID]
	history := make([]*models.PostStats, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		if limit > 0 && len(history) == limit {
			break
		}
		c := *rows[i]
		history = append(history, &c)
	}
	return history, nil
}

type memoryTemplates struct{ s *memoryStore }

func (m *memoryTemplates) GetByID(ctx context.Context, id int64) (*models.Template, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	t, ok := m.s.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *t
	return &c, nil
}

func (m *memoryTemplates) ListByUserID(ctx context.Context, userID int64) ([]*models.Template, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var templates []*models.Template
	for _, t := range m.s.templates {
		if t.UserID == userID {
			c := *t
			templates = append(templates, &c)
		}
	}
	sort.Slice(templates, func(i, j int) bool {
		if !templates[i].CreatedAt.Equal(templates[j].CreatedAt) {
			return templates[i].CreatedAt.After(templates[j].CreatedAt)
		}
		return templates[i].ID > templates[j].ID
	})
	return templates, nil
}

func (m *memoryTemplates) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	c := *t
	c.ID = m.s.nextID("templates")
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	m.s.templates[c.ID] = &c

	out := c
	return &out, nil
}

func (m *memoryTemplates) Update(ctx context.Context, t *models.Template) (*models.Template, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	stored, ok := m.s.templates[t.ID]
	if !ok {
		return nil, ErrNotFound
	}
	stored.Name = t.Name
	stored.Content = t.Content
	stored.Hashtags = t.Hashtags
	stored.IsActive = t.IsActive
	stored.UpdatedAt = time.Now().UTC()

	c := *stored
	return &c, nil
}

func (m *memoryTemplates) Remove(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.templates[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.templates, id)
	return nil
}

type memoryApiKeys struct{ s *memoryStore }

func (m *memoryApiKeys) GetUserIDByKey(ctx context.Context, apiKey string) (int64, bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, k := range m.s.apiKeys {
		if k.ApiKey != apiKey {
			continue
		}
		if u, ok := m.s.users[k.UserID]; !ok || u.DeletedAt != nil {
			return 0, false, nil
		}
		return k.UserID, true, nil
	}
	return 0, false, nil
}

func (m *memoryApiKeys) ListByUserID(ctx context.Context, userID int64) ([]*models.ApiKey, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	var keys []*models.ApiKey
	for _, k := range m.s.apiKeys {
		if k.UserID == userID {
			c := *k
			keys = append(keys, &c)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].ID < keys[j].ID })
	return keys, nil
}

func (m *memoryApiKeys) Create(ctx context.Context, apiKey *models.ApiKey) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, k := range m.s.apiKeys {
		if k.ApiKey == apiKey.ApiKey {
			return 0, ErrDuplicate
		}
	}
	c := *apiKey
	c.ID = m.s.nextID("api_keys")
	c.CreatedAt = time.Now().UTC()
	m.s.apiKeys[c.ID] = &c
	return c.ID, nil
}

func (m *memoryApiKeys) CheckByUserID(ctx context.Context, keyID, userID int64) (bool, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	k, ok := m.s.apiKeys[keyID]
	return ok && k.UserID == userID, nil
}

func (m *memoryApiKeys) Remove(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.apiKeys[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.apiKeys, id)
	return nil
}
