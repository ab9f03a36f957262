package repository

import "database/sql"

// Repositories groups every store the services depend on so the backing
// engine can be chosen once at startup.
type Repositories struct {
	Users     UserRepository
	Posts     PostRepository
	Hashtags  HashtagRepository
	Stats     PostStatsRepository
	Templates TemplateRepository
	ApiKeys   ApiKeyRepository
}

func NewSQLRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:     NewUserRepository(db),
		Posts:     NewPostRepository(db),
		Hashtags:  NewHashtagRepository(db),
		Stats:     NewPostStatsRepository(db),
		Templates: NewTemplateRepository(db),
		ApiKeys:   NewApiKeyRepository(db),
	}
}

func NewMemoryRepositories() *Repositories {
	s := newMemoryStore()
	return &Repositories{
		Users:     &memoryUsers{s},
		Posts:     &memoryPosts{s},
		Hashtags:  &memoryHashtags{s},
		Stats:     &memoryStats{s},
		Templates: &memoryTemplates{s},
		ApiKeys:   &memoryApiKeys{s},
	}
}
