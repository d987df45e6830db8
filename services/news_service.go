package services

import (
	"context"
	"errors"
	"strings"

	"github.com/newsline-app/newsline/models"
	"github.com/newsline-app/newsline/realtime"
	"github.com/newsline-app/newsline/store"
	"go.uber.org/zap"
)

var (
	// ErrValidation means required fields were empty.
	ErrValidation = errors.New("title and text are required")
	// ErrForbidden means the caller's role does not permit the mutation.
	ErrForbidden = errors.New("forbidden")
)

// Actor identifies the caller of an admin-gated mutation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) admin() bool { return a.Role == models.RoleAdmin }

// ArticleInput carries the mutable article fields.
type ArticleInput struct {
	Title  string   `json:"title" binding:"required"`
	Text   string   `json:"text" binding:"required"`
	Images []string `json:"images"`
	Tags   []string `json:"tags"`
	Author string   `json:"author"`
}

// NewsService is the mutation gateway: it validates and applies one content
// mutation against the article store and, on success, publishes exactly one
// event carrying the canonical post-mutation snapshot. Publication is
// best-effort and happens only after the store write is acknowledged.
type NewsService struct {
	store  store.ArticleStore
	broker realtime.Broker
	logger *zap.SugaredLogger
}

func NewNewsService(articles store.ArticleStore, broker realtime.Broker, logger *zap.SugaredLogger) *NewsService {
	return &NewsService{store: articles, broker: broker, logger: logger}
}

func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, strings.TrimSpace(tag))
	}
	return out
}

func (s *NewsService) Create(ctx context.Context, actor Actor, input ArticleInput) (*models.Article, error) {
	if !actor.admin() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Text) == "" {
		return nil, ErrValidation
	}

	article := &models.Article{
		Title:  input.Title,
		Text:   input.Text,
		Images: input.Images,
		Tags:   trimTags(input.Tags),
		Author: input.Author,
	}
	if err := s.store.Create(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Infow("news created", "id", article.ID, "author", article.Author)
	s.broker.Publish(realtime.Created(article))
	return article, nil
}

func (s *NewsService) Edit(ctx context.Context, actor Actor, id uint, input ArticleInput) (*models.Article, error) {
	if !actor.admin() {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Text) == "" {
		return nil, ErrValidation
	}

	article, err := s.store.UpdateFields(ctx, id, input.Title, input.Text, input.Images, trimTags(input.Tags))
	if err != nil {
		return nil, err
	}

	s.logger.Infow("news updated", "id", article.ID)
	s.broker.Publish(realtime.Updated(article))
	return article, nil
}

func (s *NewsService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.admin() {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("news deleted", "id", id)
	s.broker.Publish(realtime.Deleted(id))
	return nil
}

func (s *NewsService) increment(ctx context.Context, id uint, counter store.Counter) (*models.Article, error) {
	article, err := s.store.Increment(ctx, id, counter)
	if err != nil {
		return nil, err
	}
	s.broker.Publish(realtime.Updated(article))
	return article, nil
}

// Like, Dislike and View are open to any caller, anonymous included, and
// keep incrementing on repeated calls; nothing tracks which subject already
// reacted to an article.

func (s *NewsService) Like(ctx context.Context, id uint) (*models.Article, error) {
	return s.increment(ctx, id, store.CounterLikes)
}

func (s *NewsService) Dislike(ctx context.Context, id uint) (*models.Article, error) {
	return s.increment(ctx, id, store.CounterDislikes)
}

func (s *NewsService) View(ctx context.Context, id uint) (*models.Article, error) {
	return s.increment(ctx, id, store.CounterViews)
}
