package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Reaction endpoints are open to any caller and echo the single counter they
// touched. Repeated calls keep incrementing; there is no per-user ledger.

func LikeNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := newsService.Like(c.Request.Context(), id)
	if err != nil {
		writeNewsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"likes": article.Likes})
}

func DislikeNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := newsService.Dislike(c.Request.Context(), id)
	if err != nil {
		writeNewsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dislikes": article.Dislikes})
}

func ViewNews(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	article, err := newsService.View(c.Request.Context(), id)
	if err != nil {
		writeNewsError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"views": article.Views})
}
