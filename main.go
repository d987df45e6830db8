package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/newsline-app/newsline/config"
	"github.com/newsline-app/newsline/controllers"
	"github.com/newsline-app/newsline/global"
	"github.com/newsline-app/newsline/realtime"
	"github.com/newsline-app/newsline/router"
	"github.com/newsline-app/newsline/services"
	"github.com/newsline-app/newsline/store"
)

const eventChannel = "newsline:events"

func main() {
	config.InitConfig()

	// Run database migrations
	config.MigrateDB()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	articles := store.NewGormStore(global.DB)
	users := store.NewGormUserStore(global.DB)

	hub := realtime.NewHub()
	bridge := realtime.NewRedisBridge(hub, global.RedisDB, eventChannel, global.Logger)
	go bridge.Run(ctx)

	svc := services.NewNewsService(articles, bridge, global.Logger)
	controllers.Setup(svc, articles, users, config.AppConfig.Auth.AdminSecret)

	r := router.InitRouter(hub, svc, global.Logger)
	port := config.AppConfig.App.Port
	if port == "" {
		port = ":5555"
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("Shutdown Server ...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	log.Println("Server exiting")
}
