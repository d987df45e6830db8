package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/newsline-app/newsline/services"
	"github.com/newsline-app/newsline/store"
	"github.com/newsline-app/newsline/utils"
)

var (
	newsService  *services.NewsService
	articleStore store.ArticleStore
	userStore    store.UserStore
	adminSecret  string
)

// Setup wires the handler package to its collaborators; called once from
// main (and from handler tests with in-memory stores).
func Setup(svc *services.NewsService, articles store.ArticleStore, users store.UserStore, secret string) {
	newsService = svc
	articleStore = articles
	userStore = users
	adminSecret = secret
}

func actorFrom(c *gin.Context) services.Actor {
	subject := c.MustGet("subject").(utils.Subject)
	return services.Actor{ID: subject.ID, Role: subject.Role}
}
