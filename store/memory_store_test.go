package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/newsline-app/newsline/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedArticle(t *testing.T, s *MemoryStore, title string, tags []string, createdAt time.Time) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:     title,
		Text:      "body of " + title,
		Tags:      tags,
		Author:    "bob",
		CreatedAt: createdAt,
	}
	require.NoError(t, s.Create(context.Background(), article))
	return article
}

func TestMemoryStoreCreateAssignsIDAndTimestamp(t *testing.T) {
	s := NewMemoryStore()
	article := &models.Article{Title: "A", Text: "x"}
	require.NoError(t, s.Create(context.Background(), article))

	assert.Equal(t, uint(1), article.ID)
	assert.False(t, article.CreatedAt.IsZero())

	got, err := s.FindByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
}

func TestMemoryStoreFindPageNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()
	for i := 0; i < 5; i++ {
		seedArticle(t, s, "n", nil, base.Add(time.Duration(i)*time.Minute))
	}

	page1, err := s.FindPage(context.Background(), "", 1, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	assert.Equal(t, uint(5), page1[0].ID)
	assert.Equal(t, uint(3), page1[2].ID)

	page2, err := s.FindPage(context.Background(), "", 2, 3)
	require.NoError(t, err)
	require.Len(t, page2, 2)

	page3, err := s.FindPage(context.Background(), "", 3, 3)
	require.NoError(t, err)
	assert.Empty(t, page3)
}

func TestMemoryStoreFindPageByTag(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	seedArticle(t, s, "sports one", []string{"sports"}, now)
	seedArticle(t, s, "tech one", []string{"tech"}, now.Add(time.Minute))
	seedArticle(t, s, "both", []string{"sports", "tech"}, now.Add(2*time.Minute))

	page, err := s.FindPage(context.Background(), "sports", 1, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "both", page[0].Title)
	assert.Equal(t, "sports one", page[1].Title)

	total, err := s.Count(context.Background(), "sports")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestMemoryStoreUpdateFieldsKeepsCountersAndCreatedAt(t *testing.T) {
	s := NewMemoryStore()
	created := time.Now().Add(-time.Hour)
	article := seedArticle(t, s, "old", []string{"sports"}, created)

	_, err := s.Increment(context.Background(), article.ID, CounterLikes)
	require.NoError(t, err)

	updated, err := s.UpdateFields(context.Background(), article.ID, "new", "new body", nil, []string{"tech"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, []string{"tech"}, updated.Tags)
	assert.Equal(t, int64(1), updated.Likes)
	assert.True(t, updated.CreatedAt.Equal(created))
}

func TestMemoryStoreUpdateMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.UpdateFields(context.Background(), 42, "t", "x", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreIncrementConcurrent(t *testing.T) {
	s := NewMemoryStore()
	article := seedArticle(t, s, "counted", nil, time.Now())

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := s.Increment(context.Background(), article.ID, CounterLikes)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.FindByID(context.Background(), article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.Likes)
	assert.Equal(t, int64(0), got.Dislikes)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	article := seedArticle(t, s, "gone", nil, time.Now())

	require.NoError(t, s.Delete(context.Background(), article.ID))
	_, err := s.FindByID(context.Background(), article.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), article.ID), ErrNotFound)
}

func TestMemoryStoreDistinctTags(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	seedArticle(t, s, "a", []string{"sports", " tech "}, now)
	seedArticle(t, s, "b", []string{"sports", ""}, now)

	tags, err := s.DistinctTags(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sports", "tech"}, tags)
}

func TestMemoryStoreStatisticsSortedByViews(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	a := seedArticle(t, s, "low", nil, now)
	b := seedArticle(t, s, "high", nil, now)

	for i := 0; i < 3; i++ {
		_, err := s.Increment(context.Background(), b.ID, CounterViews)
		require.NoError(t, err)
	}
	_, err := s.Increment(context.Background(), a.ID, CounterViews)
	require.NoError(t, err)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "high", stats[0].Title)
	assert.Equal(t, int64(3), stats[0].Views)
}
