package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/newsline-app/newsline/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements ArticleStore and UserStore on postgres. Tags live in
// a jsonb column; tag feeds use containment queries and counter bumps run as
// single UPDATE ... RETURNING statements.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, article *models.Article) error {
	return s.db.WithContext(ctx).Create(article).Error
}

func (s *GormStore) FindByID(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := s.db.WithContext(ctx).First(&article, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

func tagFilter(db *gorm.DB, tag string) *gorm.DB {
	if tag == "" {
		return db
	}
	needle, _ := json.Marshal([]string{tag})
	return db.Where("tags @> ?::jsonb", string(needle))
}

func (s *GormStore) FindPage(ctx context.Context, tag string, page, size int) ([]models.Article, error) {
	if page < 1 {
		page = 1
	}
	var articles []models.Article
	q := tagFilter(s.db.WithContext(ctx).Model(&models.Article{}), tag)
	err := q.Order("created_at DESC, id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *GormStore) Count(ctx context.Context, tag string) (int64, error) {
	var total int64
	q := tagFilter(s.db.WithContext(ctx).Model(&models.Article{}), tag)
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *GormStore) UpdateFields(ctx context.Context, id uint, title, text string, images, tags []string) (*models.Article, error) {
	res := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", id).
		Select("title", "text", "images", "tags").
		Updates(models.Article{Title: title, Text: text, Images: images, Tags: tags})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.FindByID(ctx, id)
}

func (s *GormStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Article{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Increment(ctx context.Context, id uint, counter Counter) (*models.Article, error) {
	var article models.Article
	col := string(counter)
	res := s.db.WithContext(ctx).Model(&article).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(fmt.Sprintf("%s + 1", col)))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &article, nil
}

func (s *GormStore) DistinctTags(ctx context.Context) ([]string, error) {
	var raw []string
	err := s.db.WithContext(ctx).
		Raw("SELECT DISTINCT jsonb_array_elements_text(tags) FROM articles").
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, t := range raw {
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
	return tags, nil
}

func (s *GormStore) Statistics(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Select("id", "title", "views", "likes", "dislikes").
		Order("views DESC").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

func (s *GormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
