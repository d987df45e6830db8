package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/newsline-app/newsline/models"
)

// MemoryStore is a mutex-guarded in-memory ArticleStore used by tests and
// the client harness. Returned articles are copies.
type MemoryStore struct {
	mu       sync.Mutex
	nextID   uint
	articles []models.Article
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func cloneArticle(a models.Article) models.Article {
	out := a
	out.Images = append([]string(nil), a.Images...)
	out.Tags = append([]string(nil), a.Tags...)
	return out
}

func (s *MemoryStore) Create(_ context.Context, article *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	article.ID = s.nextID
	s.nextID++
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	s.articles = append(s.articles, cloneArticle(*article))
	return nil
}

func (s *MemoryStore) find(id uint) int {
	for i := range s.articles {
		if s.articles[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) FindByID(_ context.Context, id uint) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	out := cloneArticle(s.articles[i])
	return &out, nil
}

func (s *MemoryStore) matching(tag string) []models.Article {
	out := make([]models.Article, 0, len(s.articles))
	for i := range s.articles {
		if tag == "" || s.articles[i].HasTag(tag) {
			out = append(out, cloneArticle(s.articles[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *MemoryStore) FindPage(_ context.Context, tag string, page, size int) ([]models.Article, error) {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.matching(tag)
	start := (page - 1) * size
	if start >= len(all) {
		return []models.Article{}, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (s *MemoryStore) Count(_ context.Context, tag string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.matching(tag))), nil
}

func (s *MemoryStore) UpdateFields(_ context.Context, id uint, title, text string, images, tags []string) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	s.articles[i].Title = title
	s.articles[i].Text = text
	s.articles[i].Images = append([]string(nil), images...)
	s.articles[i].Tags = append([]string(nil), tags...)
	out := cloneArticle(s.articles[i])
	return &out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return ErrNotFound
	}
	s.articles = append(s.articles[:i], s.articles[i+1:]...)
	return nil
}

func (s *MemoryStore) Increment(_ context.Context, id uint, counter Counter) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.find(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	switch counter {
	case CounterLikes:
		s.articles[i].Likes++
	case CounterDislikes:
		s.articles[i].Dislikes++
	case CounterViews:
		s.articles[i].Views++
	}
	out := cloneArticle(s.articles[i])
	return &out, nil
}

func (s *MemoryStore) DistinctTags(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{})
	var tags []string
	for i := range s.articles {
		for _, t := range s.articles[i].Tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
	}
	return tags, nil
}

func (s *MemoryStore) Statistics(_ context.Context) ([]models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Article, 0, len(s.articles))
	for i := range s.articles {
		out = append(out, cloneArticle(s.articles[i]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return out, nil
}

// MemoryUserStore is the in-memory UserStore counterpart.
type MemoryUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  []models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{nextID: 1}
}

func (s *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = s.nextID
	s.nextID++
	s.users = append(s.users, *user)
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Email == email {
			out := s.users[i]
			return &out, nil
		}
	}
	return nil, ErrNotFound
}
