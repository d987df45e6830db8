package store

import (
	"context"
	"errors"

	"github.com/newsline-app/newsline/models"
)

// ErrNotFound is returned when an identifier does not resolve.
var ErrNotFound = errors.New("not found")

// Counter names a monotonic article counter column.
type Counter string

const (
	CounterLikes    Counter = "likes"
	CounterDislikes Counter = "dislikes"
	CounterViews    Counter = "views"
)

// ArticleStore is the durable record of articles. FindPage and Count treat
// an empty tag as the unfiltered global feed. Increment must be applied with
// the store's native atomic read-modify-write primitive.
type ArticleStore interface {
	Create(ctx context.Context, article *models.Article) error
	FindByID(ctx context.Context, id uint) (*models.Article, error)
	FindPage(ctx context.Context, tag string, page, size int) ([]models.Article, error)
	Count(ctx context.Context, tag string) (int64, error)
	UpdateFields(ctx context.Context, id uint, title, text string, images, tags []string) (*models.Article, error)
	Delete(ctx context.Context, id uint) error
	Increment(ctx context.Context, id uint, counter Counter) (*models.Article, error)
	DistinctTags(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) ([]models.Article, error)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
