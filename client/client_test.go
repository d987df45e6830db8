package client_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newsline-app/newsline/client"
	"github.com/newsline-app/newsline/controllers"
	"github.com/newsline-app/newsline/models"
	"github.com/newsline-app/newsline/realtime"
	"github.com/newsline-app/newsline/router"
	"github.com/newsline-app/newsline/services"
	"github.com/newsline-app/newsline/store"
	"github.com/newsline-app/newsline/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	server *httptest.Server
	hub    *realtime.Hub
	svc    *services.NewsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemoryStore()
	users := store.NewMemoryUserStore()
	hub := realtime.NewHub()
	logger := zap.NewNop().Sugar()
	svc := services.NewNewsService(mem, hub, logger)
	controllers.Setup(svc, mem, users, "sekret")

	server := httptest.NewServer(router.InitRouter(hub, svc, logger))
	t.Cleanup(server.Close)
	return &harness{server: server, hub: hub, svc: svc}
}

func (h *harness) apiClient(t *testing.T, admin bool) *client.Client {
	t.Helper()
	c := &client.Client{BaseURL: h.server.URL}
	if admin {
		token, err := utils.GenerateJWT(1, models.RoleAdmin)
		require.NoError(t, err)
		c.Token = token
	}
	return c
}

func (h *harness) wsURL() string {
	return strings.Replace(h.server.URL, "http", "ws", 1) + "/ws"
}

func waitSubscribers(t *testing.T, hub *realtime.Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Subscribers() == n },
		time.Second, 5*time.Millisecond)
}

func nextEvent(t *testing.T, events <-chan realtime.Event) realtime.Event {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "socket closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return realtime.Event{}
	}
}

func TestClientCRUDAndFeeds(t *testing.T) {
	h := newHarness(t)
	admin := h.apiClient(t, true)
	reader := h.apiClient(t, false)
	ctx := context.Background()

	created, err := admin.Create(ctx, services.ArticleInput{
		Title: "A", Text: "x", Tags: []string{" sports "}, Author: "bob",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"sports"}, created.Tags)
	assert.Zero(t, created.Likes)

	_, err = reader.Create(ctx, services.ArticleInput{Title: "B", Text: "y"})
	require.Error(t, err, "anonymous create must be rejected")

	page, err := reader.FetchPage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, created.ID, page[0].ID)

	tagged, err := reader.FetchTagPage(ctx, "sports", 1)
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	tags, err := reader.FetchTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sports"}, tags)

	likes, err := reader.Like(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)

	got, err := reader.FetchArticle(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Likes)

	edited, err := admin.Edit(ctx, created.ID, services.ArticleInput{Title: "A2", Text: "x2"})
	require.NoError(t, err)
	assert.Equal(t, "A2", edited.Title)

	require.NoError(t, admin.Delete(ctx, created.ID))
	_, err = reader.FetchArticle(ctx, created.ID)
	require.Error(t, err)
}

func TestSocketReceivesBroadcasts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	sock, err := client.DialSocket(ctx, h.wsURL())
	require.NoError(t, err)
	defer sock.Close()
	waitSubscribers(t, h.hub, 1)

	article, err := h.svc.Create(ctx, services.Actor{ID: 1, Role: models.RoleAdmin},
		services.ArticleInput{Title: "A", Text: "x", Tags: []string{"sports"}})
	require.NoError(t, err)

	event := nextEvent(t, sock.Events())
	assert.Equal(t, realtime.EventCreated, event.Name)
	require.NotNil(t, event.Article)
	assert.Equal(t, article.ID, event.Article.ID)
}

func TestSocketCommandsConvergeOnGateway(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	article, err := h.svc.Create(ctx, services.Actor{ID: 1, Role: models.RoleAdmin},
		services.ArticleInput{Title: "A", Text: "x"})
	require.NoError(t, err)

	sock, err := client.DialSocket(ctx, h.wsURL())
	require.NoError(t, err)
	defer sock.Close()
	waitSubscribers(t, h.hub, 1)

	require.NoError(t, sock.Like(article.ID))
	event := nextEvent(t, sock.Events())
	assert.Equal(t, realtime.EventUpdated, event.Name)
	assert.Equal(t, int64(1), event.Article.Likes)

	require.NoError(t, sock.View(article.ID))
	event = nextEvent(t, sock.Events())
	assert.Equal(t, int64(1), event.Article.Views)
}

func TestTwoSessionsReconcileConcurrentLikes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.apiClient(t, true)
	reader := h.apiClient(t, false)

	article, err := admin.Create(ctx, services.ArticleInput{Title: "A", Text: "x"})
	require.NoError(t, err)

	var recs []*client.Reconciler
	for i := 0; i < 2; i++ {
		sock, err := client.DialSocket(ctx, h.wsURL())
		require.NoError(t, err)
		defer sock.Close()
		rec := client.NewReconciler(reader.PageFetcher())
		defer rec.Close()
		require.NoError(t, rec.LoadMore(ctx))
		rec.Consume(sock.Events())
		recs = append(recs, rec)
	}
	waitSubscribers(t, h.hub, 2)

	results := make(chan int64, 2)
	for i := 0; i < 2; i++ {
		go func() {
			likes, err := reader.Like(ctx, article.ID)
			assert.NoError(t, err)
			results <- likes
		}()
	}
	assert.ElementsMatch(t, []int64{1, 2}, []int64{<-results, <-results},
		"no lost update under concurrent likes")

	// A follow-up mutation publishes one more snapshot with likes already at
	// 2, so every session deterministically converges on the final value.
	_, err = reader.View(ctx, article.ID)
	require.NoError(t, err)

	for _, rec := range recs {
		require.Eventually(t, func() bool {
			seq := rec.Snapshot()
			return len(seq) == 1 && seq[0].Likes == 2 && seq[0].Views == 1
		}, 2*time.Second, 10*time.Millisecond, "every session converges on likes=2")
	}
}
