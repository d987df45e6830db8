package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/newsline-app/newsline/global"
	"github.com/newsline-app/newsline/services"
	"github.com/newsline-app/newsline/store"
)

// Feed page sizes, fixed for compatibility with the infinite-scroll client.
const (
	FeedPageSize  = 3
	AdminPageSize = 5
)

var tagsCacheKey = "news:tags"

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "News not found"})
		return 0, false
	}
	return uint(id), true
}

func writeNewsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "News not found"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// 缓存失效：异步/不阻断主流程
func invalidateTagsCache() {
	if global.RedisDB == nil {
		return
	}
	go func() {
		_ = global.RedisDB.Del(context.Background(), tagsCacheKey).Err()
	}()
}

func GetNews(c *gin.Context) {
	articles, err := articleStore.FindPage(c.Request.Context(), "", pageParam(c), FeedPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func GetNewsByTag(c *gin.Context) {
	tag := strings.TrimSpace(c.Param("tag"))
	articles, err := articleStore.FindPage(c.Request.Context(), tag, pageParam(c), FeedPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func GetTags(c *gin.Context) {
	ctx := c.Request.Context()

	if global.RedisDB != nil {
		if cached, err := global.RedisDB.Get(ctx, tagsCacheKey).Result(); err == nil {
			var tags []string
			if err := json.Unmarshal([]byte(cached), &tags); err == nil {
				c.JSON(http.StatusOK, tags)
				return
			}
		} else if err != redis.Nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	tags, err := articleStore.DistinctTags(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching tags"})
		return
	}
	if tags == nil {
		tags = []string{}
	}

	if global.RedisDB != nil {
		if payload, err := json.Marshal(tags); err == nil {
			_ = global.RedisDB.Set(ctx, tagsCacheKey, payload, 10*time.Minute).Err()
		}
	}
	c.JSON(http.StatusOK, tags)
}

func GetNewsByID(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := articleStore.FindByID(c.Request.Context(), id)
	if err != nil {
		writeNewsError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func CreateNews(c *gin.Context) {
	var input services.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	article, err := newsService.Create(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		writeNewsError(c, err)
		return
	}
	invalidateTagsCache()
	c.JSON(http.StatusOK, article)
}

func UpdateNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input services.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	article, err := newsService.Edit(c.Request.Context(), actorFrom(c), id, input)
	if err != nil {
		writeNewsError(c, err)
		return
	}
	invalidateTagsCache()
	c.JSON(http.StatusOK, article)
}

func DeleteNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := newsService.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		writeNewsError(c, err)
		return
	}
	invalidateTagsCache()
	c.JSON(http.StatusOK, gin.H{"message": "News deleted successfully"})
}

func GetStatistics(c *gin.Context) {
	articles, err := articleStore.Statistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}
	rows := make([]gin.H, 0, len(articles))
	for i := range articles {
		rows = append(rows, gin.H{
			"id":       articles[i].ID,
			"title":    articles[i].Title,
			"views":    articles[i].Views,
			"likes":    articles[i].Likes,
			"dislikes": articles[i].Dislikes,
		})
	}
	c.JSON(http.StatusOK, rows)
}

func GetAdminNews(c *gin.Context) {
	ctx := c.Request.Context()
	page := pageParam(c)

	total, err := articleStore.Count(ctx, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}
	articles, err := articleStore.FindPage(ctx, "", page, AdminPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch news"})
		return
	}

	totalPages := (total + AdminPageSize - 1) / AdminPageSize
	c.JSON(http.StatusOK, gin.H{"articles": articles, "totalPages": totalPages})
}
