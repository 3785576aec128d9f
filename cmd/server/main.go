package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/africamarket/companion/internal/catalog"
	"github.com/africamarket/companion/internal/config"
	"github.com/africamarket/companion/internal/handlers"
	"github.com/africamarket/companion/internal/logging"
	"github.com/africamarket/companion/internal/store"
	httpserver "github.com/africamarket/companion/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	st, err := store.Open(configuration.DB_PATH, logger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}

	// a failed group is logged inside, not retried; only a broken trigger
	// read surfaces here and the next start tries again
	if err := st.MigrateLegacyHistory(); err != nil {
		logger.Error("legacy history migration", "error", err)
	}

	var catalogClient *catalog.Client
	if configuration.CATALOG_URL != "" {
		catalogClient = catalog.NewClient(configuration.CATALOG_URL)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		CartHandler:    &handlers.CartHandler{Store: st, Catalog: catalogClient, Log: logger},
		HistoryHandler: &handlers.HistoryHandler{Store: st, Log: logger},
		DebugHandler:   &handlers.DebugHandler{Store: st},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.HTTP_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := st.Close(); err != nil {
		log.Printf("db close error: %v", err)
	}

	log.Println("shutdown complete")
}
